package timesheet

import (
	"fmt"
	"strconv"

	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/validator"
)

// RegularDayHours is the daily threshold after which hours count as overtime.
const RegularDayHours = 8.0

const minutesPerDay = 24 * 60

type Hours struct {
	Total    float64
	Overtime float64
}

// ParseClock converts an HH:MM 24-hour clock into minutes after midnight.
func ParseClock(clock string) (int, error) {
	if !validator.IsValidClock(clock) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, clock)
	}
	h, _ := strconv.Atoi(clock[:2])
	m, _ := strconv.Atoi(clock[3:])
	return h*60 + m, nil
}

// Calculate derives worked and overtime hours for a shift. An end time at or
// before the start time rolls over to the next day. A break longer than the
// shift clamps the result to zero.
func Calculate(startTime, endTime string, breakMinutes int) (Hours, error) {
	if breakMinutes < 0 {
		return Hours{}, ErrNegativeBreakTime
	}
	start, err := ParseClock(startTime)
	if err != nil {
		return Hours{}, err
	}
	end, err := ParseClock(endTime)
	if err != nil {
		return Hours{}, err
	}

	if end <= start {
		end += minutesPerDay
	}

	total := float64(end-start-breakMinutes) / 60
	if total < 0 {
		total = 0
	}
	overtime := total - RegularDayHours
	if overtime < 0 {
		overtime = 0
	}

	return Hours{Total: total, Overtime: overtime}, nil
}
