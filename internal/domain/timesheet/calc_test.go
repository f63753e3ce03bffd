package timesheet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculate(t *testing.T) {
	tests := []struct {
		name         string
		start, end   string
		breakMinutes int
		wantTotal    float64
		wantOvertime float64
	}{
		{"regular day with lunch", "09:00", "17:00", 60, 7, 0},
		{"long day", "09:00", "20:00", 30, 10.5, 2.5},
		{"overnight shift", "22:00", "06:00", 0, 8, 0},
		{"overnight with overtime", "20:00", "07:00", 60, 10, 2},
		{"break longer than shift", "09:00", "10:00", 120, 0, 0},
		{"equal times span a full day", "08:00", "08:00", 0, 24, 16},
		{"exactly eight hours", "08:00", "16:00", 0, 8, 0},
		{"quarter hours", "09:15", "17:30", 45, 7.5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Calculate(tt.start, tt.end, tt.breakMinutes)
			require.NoError(t, err)
			assert.InDelta(t, tt.wantTotal, got.Total, 1e-9)
			assert.InDelta(t, tt.wantOvertime, got.Overtime, 1e-9)
		})
	}
}

func TestCalculate_NeverNegative(t *testing.T) {
	clocks := []string{"00:00", "03:30", "08:00", "12:45", "17:00", "23:59"}
	for _, start := range clocks {
		for _, end := range clocks {
			for _, br := range []int{0, 30, 600, 2000} {
				got, err := Calculate(start, end, br)
				require.NoError(t, err)
				assert.GreaterOrEqual(t, got.Total, 0.0)
				assert.GreaterOrEqual(t, got.Overtime, 0.0)
				assert.InDelta(t, max(0, got.Total-RegularDayHours), got.Overtime, 1e-9)
			}
		}
	}
}

func TestCalculate_InvalidInput(t *testing.T) {
	_, err := Calculate("9:00", "17:00", 0)
	assert.ErrorIs(t, err, ErrInvalidTimeFormat)

	_, err = Calculate("09:00", "24:00", 0)
	assert.ErrorIs(t, err, ErrInvalidTimeFormat)

	_, err = Calculate("09:00", "17:00", -5)
	assert.ErrorIs(t, err, ErrNegativeBreakTime)
}

func TestParseClock(t *testing.T) {
	m, err := ParseClock("13:45")
	require.NoError(t, err)
	assert.Equal(t, 13*60+45, m)

	_, err = ParseClock("1345")
	assert.Error(t, err)
}
