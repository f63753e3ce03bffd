package http

import (
	"log/slog"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/payroll-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/metrics"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

// RouterConfig carries everything NewRouter wires together. Metrics and
// Pinger may be nil; FrontendDir is served only when set.
type RouterConfig struct {
	Logger         *slog.Logger
	AllowedOrigins []string
	JWTService     jwt.Service
	Metrics        *metrics.Collector
	MetricsPath    string
	Pinger         database.Pinger
	FrontendDir    string

	AuthHandler      AuthHandler
	EmployeeHandler  EmployeeHandler
	TimesheetHandler TimesheetHandler
	PayrollHandler   PayrollHandler
	ReportHandler    ReportHandler
}

func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(chiMiddleware.RequestID)
	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/healthz"))

	r.Get("/readyz", Readiness(cfg.Pinger))
	if cfg.Metrics != nil && cfg.MetricsPath != "" {
		r.Handle(cfg.MetricsPath, cfg.Metrics.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(chiMiddleware.AllowContentEncoding("application/json"))
		r.Use(chiMiddleware.Timeout(60 * time.Second))

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", cfg.AuthHandler.Login)
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(cfg.JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired)

			r.Get("/auth/me", cfg.AuthHandler.Me)

			r.Route("/employees", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionEmployeeView)).Get("/", cfg.EmployeeHandler.ListEmployees)
				r.With(middleware.RequirePermission(user.PermissionEmployeeManage)).Post("/", cfg.EmployeeHandler.CreateEmployee)
				r.Route("/{id}", func(r chi.Router) {
					r.With(middleware.RequirePermission(user.PermissionEmployeeView)).Get("/", cfg.EmployeeHandler.GetEmployee)
					r.With(middleware.RequirePermission(user.PermissionEmployeeManage)).Put("/", cfg.EmployeeHandler.UpdateEmployee)
					r.With(middleware.RequirePermission(user.PermissionEmployeeDelete)).Delete("/", cfg.EmployeeHandler.DeleteEmployee)
				})
			})

			r.Route("/timesheets", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionTimesheetView)).Get("/", cfg.TimesheetHandler.ListTimesheets)
				r.With(middleware.RequirePermission(user.PermissionTimesheetSubmit)).Post("/", cfg.TimesheetHandler.CreateTimesheet)
				r.Route("/{id}", func(r chi.Router) {
					r.With(middleware.RequirePermission(user.PermissionTimesheetView)).Get("/", cfg.TimesheetHandler.GetTimesheet)
					r.With(middleware.RequirePermission(user.PermissionTimesheetSubmit)).Put("/", cfg.TimesheetHandler.UpdateTimesheet)
					r.With(middleware.RequirePermission(user.PermissionTimesheetSubmit)).Delete("/", cfg.TimesheetHandler.DeleteTimesheet)

					r.Group(func(r chi.Router) {
						r.Use(middleware.RequirePermission(user.PermissionTimesheetReview))
						r.Post("/approve", cfg.TimesheetHandler.ApproveTimesheet)
						r.Post("/reject", cfg.TimesheetHandler.RejectTimesheet)
					})
				})
			})

			r.Route("/payroll", func(r chi.Router) {
				r.Get("/{id}/payslips/{employeeId}", cfg.PayrollHandler.GetPayslip)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionPayrollView))
					r.Get("/", cfg.PayrollHandler.ListPayrolls)
					r.Get("/{id}", cfg.PayrollHandler.GetPayroll)
				})

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionPayrollManage))
					r.Post("/preview", cfg.PayrollHandler.PreviewPayroll)
					r.Post("/", cfg.PayrollHandler.CreatePayroll)
					r.Put("/{id}", cfg.PayrollHandler.UpdatePayroll)
					r.Delete("/{id}", cfg.PayrollHandler.DeletePayroll)
				})

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionPayrollProcess))
					r.Post("/{id}/process", cfg.PayrollHandler.ProcessPayroll)
					r.Post("/{id}/cancel", cfg.PayrollHandler.CancelPayroll)
				})
			})

			r.Route("/reports", func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionReportsView))
				r.Get("/payroll-summary", cfg.ReportHandler.PayrollSummary)
				r.Get("/timesheet", cfg.ReportHandler.TimesheetSummary)
				r.Get("/department-summary", cfg.ReportHandler.DepartmentSummary)
				r.Get("/top-employees", cfg.ReportHandler.TopEmployees)
				r.Get("/overtime-leaders", cfg.ReportHandler.OvertimeLeaders)
				r.Get("/timesheet-trends", cfg.ReportHandler.TimesheetTrends)
				r.Get("/export/{type}", cfg.ReportHandler.Export)
			})
		})
	})

	if cfg.FrontendDir != "" {
		r.Handle("/*", spaHandler{staticPath: cfg.FrontendDir, indexPath: "index.html"})
	}

	return r
}
