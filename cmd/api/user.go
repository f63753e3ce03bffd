package main

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/payroll-backend-go/internal/config"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/auth"
	"github.com/spf13/cobra"
)

var (
	userEmail      string
	userPassword   string
	userRole       string
	userEmployeeID string
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage dashboard accounts",
}

var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a dashboard account",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()
		if a.cfg.App.StoreDriver == config.StoreDriverMemory {
			return fmt.Errorf("user create needs STORE_DRIVER=%s; the memory store does not outlive the command", config.StoreDriverPostgres)
		}

		req := auth.CreateUserRequest{Email: userEmail, Password: userPassword, Role: userRole}
		if userEmployeeID != "" {
			req.EmployeeID = &userEmployeeID
		}
		created, err := a.authService.CreateUser(ctx, req)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created %s user %s (%s)\n", created.Role, created.Email, created.ID)
		return nil
	},
}

func init() {
	userCreateCmd.Flags().StringVar(&userEmail, "email", "", "login email")
	userCreateCmd.Flags().StringVar(&userPassword, "password", "", "login password, at least 8 characters")
	userCreateCmd.Flags().StringVar(&userRole, "role", "admin", "admin, manager or employee")
	userCreateCmd.Flags().StringVar(&userEmployeeID, "employee-id", "", "employee record the account belongs to")
	_ = userCreateCmd.MarkFlagRequired("email")
	_ = userCreateCmd.MarkFlagRequired("password")

	userCmd.AddCommand(userCreateCmd)
}
