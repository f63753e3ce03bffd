package payroll

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPayrollStatus_CanTransitionTo(t *testing.T) {
	all := []PayrollStatus{PayrollStatusDraft, PayrollStatusPending, PayrollStatusProcessed, PayrollStatusPaid, PayrollStatusCancelled}
	allowed := map[PayrollStatus]map[PayrollStatus]bool{
		PayrollStatusDraft:     {PayrollStatusPending: true, PayrollStatusProcessed: true, PayrollStatusCancelled: true},
		PayrollStatusPending:   {PayrollStatusProcessed: true, PayrollStatusCancelled: true},
		PayrollStatusProcessed: {PayrollStatusPaid: true, PayrollStatusCancelled: true},
	}

	for _, from := range all {
		for _, to := range all {
			assert.Equalf(t, allowed[from][to], from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestPayrollStatus_ItemStatus(t *testing.T) {
	assert.Equal(t, ItemStatusPending, PayrollStatusDraft.ItemStatus())
	assert.Equal(t, ItemStatusPending, PayrollStatusProcessed.ItemStatus())
	assert.Equal(t, ItemStatusPaid, PayrollStatusPaid.ItemStatus())
	assert.Equal(t, ItemStatusCancelled, PayrollStatusCancelled.ItemStatus())
}

func TestType_PeriodsPerYear(t *testing.T) {
	assert.Equal(t, int64(52), TypeWeekly.PeriodsPerYear())
	assert.Equal(t, int64(26), TypeBiweekly.PeriodsPerYear())
	assert.Equal(t, int64(12), TypeMonthly.PeriodsPerYear())
	assert.False(t, Type("daily").IsValid())
}
