package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/user"
	appHTTP "github.com/cmlabs-hris/payroll-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/payroll-backend-go/migrations"
	"github.com/spf13/cobra"
)

var (
	serveMigrate       bool
	serveAdminEmail    string
	serveAdminPassword string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().BoolVar(&serveMigrate, "migrations", false, "apply pending database migrations before serving")
	serveCmd.Flags().StringVar(&serveAdminEmail, "admin-email", "", "bootstrap an admin account with this email if it does not exist")
	serveCmd.Flags().StringVar(&serveAdminPassword, "admin-password", "", "password for --admin-email")
}

func runServe(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if serveMigrate && a.db != nil {
		migrator, err := database.NewMigrator(a.db, migrations.FS)
		if err != nil {
			return err
		}
		if err := migrator.Up(ctx); err != nil {
			return err
		}
	}

	if serveAdminEmail != "" {
		if err := bootstrapAdmin(ctx, a); err != nil {
			return err
		}
	}

	router := appHTTP.NewRouter(appHTTP.RouterConfig{
		Logger:           a.logger,
		AllowedOrigins:   a.cfg.App.AllowedOrigins,
		JWTService:       a.jwt,
		Metrics:          a.metrics,
		MetricsPath:      a.cfg.Metrics.Path,
		Pinger:           a.pinger,
		FrontendDir:      a.cfg.App.FrontendDir,
		AuthHandler:      appHTTP.NewAuthHandler(a.authService),
		EmployeeHandler:  appHTTP.NewEmployeeHandler(a.employeeService),
		TimesheetHandler: appHTTP.NewTimesheetHandler(a.timesheetService),
		PayrollHandler:   appHTTP.NewPayrollHandler(a.payrollService),
		ReportHandler:    appHTTP.NewReportHandler(a.reportService),
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", a.cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      90 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	serverErr := make(chan error, 1)
	go func() {
		a.logger.Info("Starting HTTP server", "address", server.Addr, "store", a.cfg.App.StoreDriver)
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case sig := <-sigChan:
		a.logger.Info("Received signal, shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	a.logger.Info("Server stopped")
	return nil
}

func bootstrapAdmin(ctx context.Context, a *app) error {
	_, err := a.authService.CreateUser(ctx, auth.CreateUserRequest{
		Email:    serveAdminEmail,
		Password: serveAdminPassword,
		Role:     string(user.RoleAdmin),
	})
	switch {
	case errors.Is(err, user.ErrUserEmailExists):
		a.logger.Info("Admin account already present", "email", serveAdminEmail)
		return nil
	case err != nil:
		return fmt.Errorf("bootstrap admin: %w", err)
	}
	a.logger.Info("Created admin account", "email", serveAdminEmail)
	return nil
}
