package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/payroll-backend-go/internal/config"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/timesheet"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/logger"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/payroll-backend-go/internal/repository/memory"
	"github.com/cmlabs-hris/payroll-backend-go/internal/repository/postgresql"
	authService "github.com/cmlabs-hris/payroll-backend-go/internal/service/auth"
	employeeService "github.com/cmlabs-hris/payroll-backend-go/internal/service/employee"
	payrollService "github.com/cmlabs-hris/payroll-backend-go/internal/service/payroll"
	reportService "github.com/cmlabs-hris/payroll-backend-go/internal/service/report"
	timesheetService "github.com/cmlabs-hris/payroll-backend-go/internal/service/timesheet"
)

// app is the wired dependency graph shared by the subcommands.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	db      *database.DB // nil for the memory store
	pinger  database.Pinger
	metrics *metrics.Collector
	jwt     jwt.Service

	authService      auth.AuthService
	employeeService  employee.EmployeeService
	timesheetService timesheet.TimesheetService
	payrollService   payroll.PayrollService
	reportService    report.ReportService
}

type repositories struct {
	transactor database.Transactor
	users      user.UserRepository
	employees  employee.EmployeeRepository
	timesheets timesheet.TimesheetRepository
	payrolls   payroll.PayrollRepository
	reports    report.ReportRepository
}

func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, nil, err
	}
	log := logger.New(logger.Options{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		App:     "payroll-api",
		Version: version,
	})
	slog.SetDefault(log)
	return cfg, log, nil
}

func openDatabase(ctx context.Context, cfg *config.Config) (*database.DB, error) {
	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	return db, nil
}

func newApp(ctx context.Context) (*app, error) {
	cfg, log, err := loadConfig()
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:    cfg,
		logger: log,
		jwt:    jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration),
	}
	if cfg.Metrics.Enabled {
		a.metrics = metrics.New()
	}

	var repos repositories
	switch cfg.App.StoreDriver {
	case config.StoreDriverMemory:
		log.Warn("Using in-memory store; data is lost on restart")
		store := memory.NewStore()
		a.pinger = store
		repos = repositories{
			transactor: store,
			users:      memory.NewUserRepository(store),
			employees:  memory.NewEmployeeRepository(store),
			timesheets: memory.NewTimesheetRepository(store),
			payrolls:   memory.NewPayrollRepository(store),
			reports:    memory.NewReportRepository(store),
		}
	default:
		db, err := openDatabase(ctx, cfg)
		if err != nil {
			return nil, err
		}
		a.db = db
		a.pinger = db
		repos = repositories{
			transactor: postgresql.NewTransactor(db),
			users:      postgresql.NewUserRepository(db),
			employees:  postgresql.NewEmployeeRepository(db),
			timesheets: postgresql.NewTimesheetRepository(db),
			payrolls:   postgresql.NewPayrollRepository(db),
			reports:    postgresql.NewReportRepository(db),
		}
	}

	rates := payroll.Rates{
		TaxRate:            cfg.Payroll.TaxRate,
		BenefitRate:        cfg.Payroll.BenefitRate,
		OvertimeMultiplier: cfg.Payroll.OvertimeMultiplier,
		AnnualHours:        cfg.Payroll.AnnualHours,
	}

	a.authService = authService.NewAuthService(repos.users, a.jwt)
	a.employeeService = employeeService.NewEmployeeService(repos.employees)
	a.timesheetService = timesheetService.NewTimesheetService(repos.timesheets, repos.employees, a.metrics)
	a.payrollService = payrollService.NewPayrollService(repos.transactor, repos.payrolls, repos.employees, rates, a.metrics)
	a.reportService = reportService.NewReportService(repos.reports)

	return a, nil
}

func (a *app) Close() {
	if a.db != nil {
		a.db.Close()
	}
}
