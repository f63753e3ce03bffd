package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/timesheet"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(s string) time.Time {
	d, _ := time.Parse("2006-01-02", s)
	return d
}

func TestWithinTransaction_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	employees := NewEmployeeRepository(store)

	boom := errors.New("boom")
	err := store.WithinTransaction(ctx, func(ctx context.Context) error {
		_, err := employees.Create(ctx, employee.Employee{Name: "Ada", Email: "ada@example.com", Status: employee.StatusActive})
		require.NoError(t, err)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	rows, total, err := employees.List(ctx, employee.EmployeeFilter{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.Zero(t, total)
}

func TestWithinTransaction_RollbackKeepsOutsideWrites(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	employees := NewEmployeeRepository(store)

	boom := errors.New("boom")
	written := make(chan error, 1)
	err := store.WithinTransaction(ctx, func(txCtx context.Context) error {
		_, err := employees.Create(txCtx, employee.Employee{Name: "Ada", Email: "ada@example.com", Status: employee.StatusActive})
		require.NoError(t, err)

		go func() {
			_, err := employees.Create(ctx, employee.Employee{Name: "Grace", Email: "grace@example.com", Status: employee.StatusActive})
			written <- err
		}()
		time.Sleep(20 * time.Millisecond)
		return boom
	})
	assert.ErrorIs(t, err, boom)
	require.NoError(t, <-written)

	rows, total, err := employees.List(ctx, employee.EmployeeFilter{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, rows, 1)
	assert.Equal(t, "Grace", rows[0].Name)
}

func TestWithinTransaction_NestedJoinsOuter(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	employees := NewEmployeeRepository(store)

	boom := errors.New("boom")
	err := store.WithinTransaction(ctx, func(txCtx context.Context) error {
		require.NoError(t, store.WithinTransaction(txCtx, func(inner context.Context) error {
			_, err := employees.Create(inner, employee.Employee{Name: "Ada", Email: "ada@example.com", Status: employee.StatusActive})
			return err
		}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, total, err := employees.List(ctx, employee.EmployeeFilter{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestEmployeeRepository_SoftDelete(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	employees := NewEmployeeRepository(store)
	reports := NewReportRepository(store)

	e, err := employees.Create(ctx, employee.Employee{Name: "Ada", Email: "ada@example.com", Status: employee.StatusActive})
	require.NoError(t, err)

	require.NoError(t, employees.SoftDelete(ctx, e.ID))

	_, err = employees.GetByID(ctx, e.ID)
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
	assert.ErrorIs(t, employees.SoftDelete(ctx, e.ID), employee.ErrEmployeeNotFound)

	all, err := reports.ListEmployees(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, employee.StatusTerminated, all[0].Status)
	assert.NotNil(t, all[0].TerminationDate)
	assert.NotNil(t, all[0].DeletedAt)

	_, err = employees.Create(ctx, employee.Employee{Name: "Ada II", Email: "ADA@example.com"})
	assert.ErrorIs(t, err, employee.ErrEmailExists)
}

func TestEmployeeRepository_ListFilters(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	employees := NewEmployeeRepository(store)
	eng, sales := "Engineering", "Sales"

	for _, e := range []employee.Employee{
		{Name: "Grace", Email: "grace@example.com", Department: &eng, Status: employee.StatusActive},
		{Name: "Alan", Email: "alan@example.com", Department: &eng, Status: employee.StatusInactive},
		{Name: "Ada", Email: "ada@corp.example", Department: &sales, Status: employee.StatusActive},
	} {
		_, err := employees.Create(ctx, e)
		require.NoError(t, err)
	}

	rows, total, err := employees.List(ctx, employee.EmployeeFilter{Department: &eng, Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, "Alan", rows[0].Name)

	search := "CORP"
	rows, _, err = employees.List(ctx, employee.EmployeeFilter{Search: &search, Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Ada", rows[0].Name)

	rows, total, err = employees.List(ctx, employee.EmployeeFilter{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, rows, 1)
	assert.Equal(t, "Grace", rows[0].Name)

	active, err := employees.GetForPayroll(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, active, 2)
}

func TestPayrollRepository_NextReferenceSequence(t *testing.T) {
	ctx := context.Background()
	repo := NewPayrollRepository(NewStore())

	const workers = 50
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		seen = make(map[int64]bool)
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			seq, err := repo.NextReferenceSequence(ctx, "202403")
			assert.NoError(t, err)
			mu.Lock()
			seen[seq] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, seen, workers)
	next, err := repo.NextReferenceSequence(ctx, "202404")
	require.NoError(t, err)
	assert.Equal(t, int64(1), next, "sequences are per month")
}

func TestPayrollRepository_GetTimesheetSummary(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	sheets := NewTimesheetRepository(store)
	payrolls := NewPayrollRepository(store)

	for _, ts := range []timesheet.Timesheet{
		{EmployeeID: "e1", Date: date("2024-03-01"), TotalHours: 8, Status: timesheet.StatusApproved},
		{EmployeeID: "e1", Date: date("2024-03-31"), TotalHours: 10, OvertimeHours: 2, Status: timesheet.StatusApproved},
		{EmployeeID: "e1", Date: date("2024-03-15"), TotalHours: 9, OvertimeHours: 1, Status: timesheet.StatusPending},
		{EmployeeID: "e1", Date: date("2024-04-01"), TotalHours: 8, Status: timesheet.StatusApproved},
		{EmployeeID: "e2", Date: date("2024-03-02"), TotalHours: 7, Status: timesheet.StatusApproved},
	} {
		_, err := sheets.Create(ctx, ts)
		require.NoError(t, err)
	}

	got, err := payrolls.GetTimesheetSummary(ctx, []string{"e1"}, date("2024-03-01"), date("2024-03-31"))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, payroll.TimesheetSummary{EmployeeID: "e1", TotalHours: 18, OvertimeHours: 2}, got[0])
}

func TestPayrollRepository_ItemsFollowRun(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	employees := NewEmployeeRepository(store)
	payrolls := NewPayrollRepository(store)

	e, err := employees.Create(ctx, employee.Employee{Name: "Ada", Email: "ada@example.com", Status: employee.StatusActive})
	require.NoError(t, err)

	created, err := payrolls.Create(ctx, payroll.Payroll{
		Reference: "PAY-202403-0001",
		Status:    payroll.PayrollStatusDraft,
		Items:     []payroll.Item{{EmployeeID: e.ID, BaseSalary: decimal.NewFromInt(100), Status: payroll.ItemStatusPending}},
	})
	require.NoError(t, err)
	require.Len(t, created.Items, 1)
	require.NotNil(t, created.Items[0].EmployeeName)
	assert.Equal(t, "Ada", *created.Items[0].EmployeeName)

	_, err = payrolls.Create(ctx, payroll.Payroll{Reference: "PAY-202403-0001"})
	assert.ErrorIs(t, err, payroll.ErrReferenceExists)

	require.NoError(t, payrolls.UpdateItemStatuses(ctx, created.ID, payroll.ItemStatusPaid))
	got, err := payrolls.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, payroll.ItemStatusPaid, got.Items[0].Status)
}

func TestPayrollRepository_WritesCheckStatus(t *testing.T) {
	ctx := context.Background()
	payrolls := NewPayrollRepository(NewStore())

	created, err := payrolls.Create(ctx, payroll.Payroll{Reference: "PAY-202403-0001", Period: "March", Status: payroll.PayrollStatusDraft})
	require.NoError(t, err)

	processedBy, processedAt := "admin", time.Now()
	require.NoError(t, payrolls.UpdateStatus(ctx, created.ID, payroll.PayrollStatusDraft, payroll.PayrollStatusProcessed, &processedBy, &processedAt))
	assert.ErrorIs(t,
		payrolls.UpdateStatus(ctx, created.ID, payroll.PayrollStatusDraft, payroll.PayrollStatusCancelled, nil, nil),
		payroll.ErrInvalidStatusTransition)

	edit := created
	edit.Period = "April"
	assert.ErrorIs(t, payrolls.Update(ctx, edit, payroll.PayrollStatusDraft), payroll.ErrPayrollNotEditable)
	assert.ErrorIs(t, payrolls.Delete(ctx, created.ID, payroll.PayrollStatusDraft, payroll.PayrollStatusCancelled), payroll.ErrPayrollNotDeletable)

	require.NoError(t, payrolls.UpdateStatus(ctx, created.ID, payroll.PayrollStatusProcessed, payroll.PayrollStatusCancelled, nil, nil))
	got, err := payrolls.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, payroll.PayrollStatusCancelled, got.Status)
	assert.Equal(t, "March", got.Period)
	require.NotNil(t, got.ProcessedBy)
	assert.Equal(t, "admin", *got.ProcessedBy)

	require.NoError(t, payrolls.Delete(ctx, created.ID, payroll.PayrollStatusDraft, payroll.PayrollStatusCancelled))
	assert.ErrorIs(t, payrolls.Delete(ctx, created.ID), payroll.ErrPayrollNotFound)
}

func TestTimesheetRepository_WritesRequirePending(t *testing.T) {
	ctx := context.Background()
	sheets := NewTimesheetRepository(NewStore())

	created, err := sheets.Create(ctx, timesheet.Timesheet{EmployeeID: "e1", Date: date("2024-03-01"), TotalHours: 8, Status: timesheet.StatusPending})
	require.NoError(t, err)

	reviewed := created
	reviewed.Status = timesheet.StatusApproved
	_, err = sheets.Update(ctx, reviewed)
	require.NoError(t, err)

	edit := created
	edit.TotalHours = 10
	_, err = sheets.Update(ctx, edit)
	assert.ErrorIs(t, err, timesheet.ErrTimesheetNotPending)
	assert.ErrorIs(t, sheets.Delete(ctx, created.ID), timesheet.ErrTimesheetNotPending)

	got, err := sheets.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, timesheet.StatusApproved, got.Status)
	assert.Equal(t, 8.0, got.TotalHours)
}
