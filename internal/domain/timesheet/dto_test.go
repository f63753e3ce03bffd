package timesheet

import (
	"errors"
	"testing"

	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fieldErrors(t *testing.T, err error) map[string]string {
	t.Helper()
	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs), "expected validation errors, got %v", err)
	return verrs.ToMap()
}

func TestCreateTimesheetRequest_Validate(t *testing.T) {
	valid := CreateTimesheetRequest{EmployeeID: "e1", Date: "2024-03-01", StartTime: "09:00", EndTime: "17:00", BreakTime: 30}
	assert.NoError(t, valid.Validate())

	bad := CreateTimesheetRequest{Date: "01/03/2024", StartTime: "9am", EndTime: "25:00", BreakTime: -1}
	fields := fieldErrors(t, bad.Validate())
	assert.Contains(t, fields, "employeeId")
	assert.Contains(t, fields, "date")
	assert.Contains(t, fields, "startTime")
	assert.Contains(t, fields, "endTime")
	assert.Contains(t, fields, "breakTime")
}

func TestRejectTimesheetRequest_Validate(t *testing.T) {
	for _, reason := range []string{"", "   ", "\n\t"} {
		req := RejectTimesheetRequest{RejectionReason: reason}
		fields := fieldErrors(t, req.Validate())
		assert.Equal(t, ErrRejectionReasonNeeded.Error(), fields["rejectionReason"])
	}

	req := RejectTimesheetRequest{RejectionReason: "  missing project code "}
	require.NoError(t, req.Validate())
	assert.Equal(t, "missing project code", req.RejectionReason)
}

func TestTimesheetFilter_Defaults(t *testing.T) {
	f := TimesheetFilter{}
	require.NoError(t, f.Validate())
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, 20, f.Limit)

	status := "archived"
	f = TimesheetFilter{Status: &status, Limit: 500}
	fields := fieldErrors(t, f.Validate())
	assert.Contains(t, fields, "status")
	assert.Contains(t, fields, "limit")
}
