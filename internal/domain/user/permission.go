package user

type Permission string

const (
	// Employee records
	PermissionEmployeeView    Permission = "employee.view"
	PermissionEmployeeManage  Permission = "employee.manage"
	PermissionEmployeeDelete  Permission = "employee.delete"
	PermissionEmployeeTaxInfo Permission = "employee.tax_info"

	// Timesheets
	PermissionTimesheetView   Permission = "timesheet.view"
	PermissionTimesheetSubmit Permission = "timesheet.submit"
	PermissionTimesheetReview Permission = "timesheet.review"

	// Payroll
	PermissionPayrollView    Permission = "payroll.view"
	PermissionPayrollManage  Permission = "payroll.manage"
	PermissionPayrollProcess Permission = "payroll.process"

	// Reports
	PermissionReportsView Permission = "reports.view"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleAdmin: {
		PermissionEmployeeView,
		PermissionEmployeeManage,
		PermissionEmployeeDelete,
		PermissionEmployeeTaxInfo,
		PermissionTimesheetView,
		PermissionTimesheetSubmit,
		PermissionTimesheetReview,
		PermissionPayrollView,
		PermissionPayrollManage,
		PermissionPayrollProcess,
		PermissionReportsView,
	},
	RoleManager: {
		PermissionEmployeeView,
		PermissionEmployeeManage,
		PermissionTimesheetView,
		PermissionTimesheetSubmit,
		PermissionTimesheetReview,
		PermissionPayrollView,
		PermissionReportsView,
	},
	RoleEmployee: {
		PermissionEmployeeView,
		PermissionTimesheetView,
		PermissionTimesheetSubmit,
	},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}

	return false
}
