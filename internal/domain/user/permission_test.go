package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasPermission(t *testing.T) {
	assert.True(t, HasPermission(RoleAdmin, PermissionPayrollProcess))
	assert.True(t, HasPermission(RoleAdmin, PermissionEmployeeDelete))

	assert.True(t, HasPermission(RoleManager, PermissionTimesheetReview))
	assert.True(t, HasPermission(RoleManager, PermissionReportsView))
	assert.False(t, HasPermission(RoleManager, PermissionEmployeeDelete))
	assert.False(t, HasPermission(RoleManager, PermissionPayrollManage))
	assert.False(t, HasPermission(RoleManager, PermissionEmployeeTaxInfo))

	assert.True(t, HasPermission(RoleEmployee, PermissionTimesheetSubmit))
	assert.False(t, HasPermission(RoleEmployee, PermissionTimesheetReview))
	assert.False(t, HasPermission(RoleEmployee, PermissionReportsView))

	assert.False(t, HasPermission(Role("ghost"), PermissionEmployeeView))
}
