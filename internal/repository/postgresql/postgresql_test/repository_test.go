package postgresql_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/timesheet"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/payroll-backend-go/internal/repository/postgresql"
	payrollservice "github.com/cmlabs-hris/payroll-backend-go/internal/service/payroll"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createEmployee(t *testing.T, repo employee.EmployeeRepository, name string, annual int64) employee.Employee {
	t.Helper()
	dept := "Engineering"
	emp, err := repo.Create(context.Background(), employee.Employee{
		Name:       name,
		Email:      name + "@example.com",
		Department: &dept,
		Salary:     decimal.NewFromInt(annual),
		Status:     employee.StatusActive,
		HireDate:   time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return emp
}

func TestUserRepository(t *testing.T) {
	truncateAll(t)
	ctx := context.Background()
	repo := postgresql.NewUserRepository(testDB)

	created, err := repo.Create(ctx, user.User{Email: "Admin@Example.com", PasswordHash: "hash", Role: user.RoleAdmin})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	found, err := repo.GetByEmail(ctx, "admin@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, user.RoleAdmin, found.Role)

	_, err = repo.Create(ctx, user.User{Email: "admin@example.com", PasswordHash: "hash", Role: user.RoleManager})
	assert.ErrorIs(t, err, user.ErrUserEmailExists)

	_, err = repo.GetByID(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestEmployeeRepository(t *testing.T) {
	truncateAll(t)
	ctx := context.Background()
	repo := postgresql.NewEmployeeRepository(testDB)

	rate := decimal.RequireFromString("31.25")
	ada := createEmployee(t, repo, "ada", 65000)
	ada.HourlyRate = &rate
	ada.TaxInfo.Allowances = 2
	updated, err := repo.Update(ctx, ada)
	require.NoError(t, err)
	require.NotNil(t, updated.HourlyRate)
	assert.True(t, rate.Equal(*updated.HourlyRate))
	assert.Equal(t, 2, updated.TaxInfo.Allowances)

	_, err = repo.Create(ctx, employee.Employee{Name: "dup", Email: "ADA@example.com", Salary: decimal.Zero, Status: employee.StatusActive, HireDate: time.Now()})
	assert.ErrorIs(t, err, employee.ErrEmailExists)

	search := "ad"
	rows, total, err := repo.List(ctx, employee.EmployeeFilter{Search: &search, Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, rows, 1)

	require.NoError(t, repo.SoftDelete(ctx, ada.ID))
	_, err = repo.GetByID(ctx, ada.ID)
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
	assert.ErrorIs(t, repo.SoftDelete(ctx, ada.ID), employee.ErrEmployeeNotFound)

	exists, err := repo.ExistsByEmail(ctx, "ada@example.com", nil)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestTimesheetRepository(t *testing.T) {
	truncateAll(t)
	ctx := context.Background()
	employees := postgresql.NewEmployeeRepository(testDB)
	repo := postgresql.NewTimesheetRepository(testDB)
	ada := createEmployee(t, employees, "ada", 65000)

	sheet := timesheet.Timesheet{
		EmployeeID: ada.ID,
		Date:       time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),
		StartTime:  "09:00",
		EndTime:    "20:00",
		BreakTime:  30,
		Status:     timesheet.StatusPending,
	}
	require.NoError(t, sheet.Recalculate())

	created, err := repo.Create(ctx, sheet)
	require.NoError(t, err)
	assert.Equal(t, 10.5, created.TotalHours)
	assert.Equal(t, 2.5, created.OvertimeHours)
	require.NotNil(t, created.EmployeeName)
	assert.Equal(t, "ada", *created.EmployeeName)

	reviewer := uuid.NewString()
	now := time.Now()
	created.Status = timesheet.StatusApproved
	created.ApprovedBy = &reviewer
	created.ApprovedAt = &now
	approved, err := repo.Update(ctx, created)
	require.NoError(t, err)
	assert.Equal(t, timesheet.StatusApproved, approved.Status)

	status := string(timesheet.StatusApproved)
	from := "2024-03-01"
	rows, total, err := repo.List(ctx, timesheet.TimesheetFilter{Status: &status, From: &from, Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, rows, 1)

	// reviewed rows are frozen
	created.Status = timesheet.StatusRejected
	_, err = repo.Update(ctx, created)
	assert.ErrorIs(t, err, timesheet.ErrTimesheetNotPending)
	assert.ErrorIs(t, repo.Delete(ctx, created.ID), timesheet.ErrTimesheetNotPending)

	sheet.Date = time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	pending, err := repo.Create(ctx, sheet)
	require.NoError(t, err)
	require.NoError(t, repo.Delete(ctx, pending.ID))
	assert.ErrorIs(t, repo.Delete(ctx, pending.ID), timesheet.ErrTimesheetNotFound)
}

func TestPayrollRepository_ReferenceSequence(t *testing.T) {
	truncateAll(t)
	ctx := context.Background()
	repo := postgresql.NewPayrollRepository(testDB)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		seen = make(map[int64]bool)
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			seq, err := repo.NextReferenceSequence(ctx, "202403")
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			seen[seq] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, seen, 10)
	for seq := int64(1); seq <= 10; seq++ {
		assert.True(t, seen[seq], "missing sequence %d", seq)
	}
}

func TestPayrollRepository_StatusGuards(t *testing.T) {
	truncateAll(t)
	ctx := context.Background()
	repo := postgresql.NewPayrollRepository(testDB)

	created, err := repo.Create(ctx, payroll.Payroll{
		Reference:     "PAY-202403-0001",
		Period:        "March",
		StartDate:     time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:       time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
		Type:          payroll.TypeMonthly,
		Status:        payroll.PayrollStatusDraft,
		PaymentMethod: payroll.PaymentMethodDirectDeposit,
	})
	require.NoError(t, err)

	processedBy, processedAt := uuid.NewString(), time.Now()
	require.NoError(t, repo.UpdateStatus(ctx, created.ID, payroll.PayrollStatusDraft, payroll.PayrollStatusProcessed, &processedBy, &processedAt))
	assert.ErrorIs(t,
		repo.UpdateStatus(ctx, created.ID, payroll.PayrollStatusDraft, payroll.PayrollStatusCancelled, nil, nil),
		payroll.ErrInvalidStatusTransition)

	created.Period = "April"
	assert.ErrorIs(t, repo.Update(ctx, created, payroll.PayrollStatusDraft), payroll.ErrPayrollNotEditable)
	assert.ErrorIs(t, repo.Delete(ctx, created.ID, payroll.PayrollStatusDraft, payroll.PayrollStatusCancelled), payroll.ErrPayrollNotDeletable)

	require.NoError(t, repo.UpdateStatus(ctx, created.ID, payroll.PayrollStatusProcessed, payroll.PayrollStatusCancelled, nil, nil))
	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, payroll.PayrollStatusCancelled, got.Status)
	assert.Equal(t, "March", got.Period)
	require.NotNil(t, got.ProcessedBy)
	assert.Equal(t, processedBy, *got.ProcessedBy)

	require.NoError(t, repo.Delete(ctx, created.ID, payroll.PayrollStatusDraft, payroll.PayrollStatusCancelled))
	assert.ErrorIs(t, repo.Delete(ctx, created.ID), payroll.ErrPayrollNotFound)
	assert.ErrorIs(t, repo.UpdateStatus(ctx, created.ID, payroll.PayrollStatusDraft, payroll.PayrollStatusProcessed, nil, nil), payroll.ErrPayrollNotFound)
}

func TestPayrollService_OverPostgres(t *testing.T) {
	truncateAll(t)
	ctx := context.Background()
	employees := postgresql.NewEmployeeRepository(testDB)
	payrolls := postgresql.NewPayrollRepository(testDB)
	svc := payrollservice.NewPayrollService(postgresql.NewTransactor(testDB), payrolls, employees, payroll.DefaultRates(), metrics.New())

	ada := createEmployee(t, employees, "ada", 60000)
	createEmployee(t, employees, "grace", 48000)

	created, err := svc.Create(ctx, payroll.CreatePayrollRequest{
		StartDate: "2024-03-01",
		EndDate:   "2024-03-31",
		Type:      "monthly",
		Adjustments: []payroll.Adjustment{{
			EmployeeID:       ada.ID,
			Bonuses:          decimal.NewFromInt(100),
			CustomDeductions: []payroll.LineItem{{Name: "parking", Amount: decimal.NewFromInt(20)}},
		}},
	}, uuid.NewString())
	require.NoError(t, err)
	require.Len(t, created.Items, 2)
	assert.True(t, decimal.NewFromInt(9000).Equal(created.TotalAmount))
	require.Len(t, created.Items[0].CustomDeductions, 1)
	assert.Equal(t, "parking", created.Items[0].CustomDeductions[0].Name)

	net := decimal.Zero
	for _, item := range created.Items {
		net = net.Add(item.NetPay)
	}
	assert.True(t, net.Equal(created.NetAmount))

	paid, err := svc.Process(ctx, payroll.ProcessPayrollRequest{ID: created.ID, Status: "processed"}, uuid.NewString())
	require.NoError(t, err)
	assert.Equal(t, "processed", paid.Status)

	paid, err = svc.Process(ctx, payroll.ProcessPayrollRequest{ID: created.ID, Status: "paid"}, uuid.NewString())
	require.NoError(t, err)
	for _, item := range paid.Items {
		assert.Equal(t, "paid", item.Status)
	}

	assert.ErrorIs(t, svc.Delete(ctx, created.ID), payroll.ErrPayrollNotDeletable)
}

func TestTransactor_RollsBack(t *testing.T) {
	truncateAll(t)
	ctx := context.Background()
	employees := postgresql.NewEmployeeRepository(testDB)
	tx := postgresql.NewTransactor(testDB)

	err := tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		_, err := employees.Create(txCtx, employee.Employee{
			Name: "ada", Email: "ada@example.com", Status: employee.StatusActive, HireDate: time.Now(),
		})
		require.NoError(t, err)
		_, err = employees.Create(txCtx, employee.Employee{
			Name: "dup", Email: "ADA@example.com", Status: employee.StatusActive, HireDate: time.Now(),
		})
		return err
	})
	assert.ErrorIs(t, err, employee.ErrEmailExists)

	live, err := employees.GetForPayroll(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, live)
}
