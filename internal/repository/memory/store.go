// Package memory is an in-process record store. It backs STORE_DRIVER=memory
// and the service and handler tests.
package memory

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/timesheet"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/user"
	"github.com/google/uuid"
)

type Store struct {
	mu   sync.RWMutex
	txMu sync.Mutex

	users      map[string]user.User
	employees  map[string]employee.Employee
	timesheets map[string]timesheet.Timesheet
	payrolls   map[string]payroll.Payroll
	counters   map[string]int64

	now func() time.Time
}

func NewStore() *Store {
	return &Store{
		users:      make(map[string]user.User),
		employees:  make(map[string]employee.Employee),
		timesheets: make(map[string]timesheet.Timesheet),
		payrolls:   make(map[string]payroll.Payroll),
		counters:   make(map[string]int64),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

type snapshot struct {
	users      map[string]user.User
	employees  map[string]employee.Employee
	timesheets map[string]timesheet.Timesheet
	payrolls   map[string]payroll.Payroll
	counters   map[string]int64
}

type txKey struct{}

// WithinTransaction serializes fn against other transactions and restores the
// previous state when fn fails. Writers outside a transaction wait for it to
// finish, so a rollback only ever discards the transaction's own changes.
// Nested calls join the open transaction.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.inTx(ctx) {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	snap := snapshot{
		users:      maps.Clone(s.users),
		employees:  maps.Clone(s.employees),
		timesheets: maps.Clone(s.timesheets),
		payrolls:   maps.Clone(s.payrolls),
		counters:   maps.Clone(s.counters),
	}
	s.mu.RUnlock()

	if err := fn(context.WithValue(ctx, txKey{}, s)); err != nil {
		s.mu.Lock()
		s.users = snap.users
		s.employees = snap.employees
		s.timesheets = snap.timesheets
		s.payrolls = snap.payrolls
		s.counters = snap.counters
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *Store) inTx(ctx context.Context) bool {
	owner, _ := ctx.Value(txKey{}).(*Store)
	return owner == s
}

// lock takes the write lock and returns its release. Outside a transaction it
// also holds txMu for the duration of the write.
func (s *Store) lock(ctx context.Context) func() {
	if s.inTx(ctx) {
		s.mu.Lock()
		return s.mu.Unlock
	}
	s.txMu.Lock()
	s.mu.Lock()
	return func() {
		s.mu.Unlock()
		s.txMu.Unlock()
	}
}

// Ping always succeeds.
func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

func paginate[T any](rows []T, page, limit int) []T {
	if limit <= 0 {
		return rows
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * limit
	if start >= len(rows) {
		return []T{}
	}
	end := min(start+limit, len(rows))
	return rows[start:end]
}
