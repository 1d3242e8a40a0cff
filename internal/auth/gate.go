package auth

import "hrsuite/internal/permission"

// Screen is a top-level view of the application
type Screen string

const (
	ScreenDashboard   Screen = "dashboard"
	ScreenEmployees   Screen = "employees"
	ScreenAttendance  Screen = "attendance"
	ScreenLeave       Screen = "leave"
	ScreenPayroll     Screen = "payroll"
	ScreenRecruitment Screen = "recruitment"
	ScreenPerformance Screen = "performance"
	ScreenTraining    Screen = "training"
	ScreenExpenses    Screen = "expenses"
	ScreenCompliance  Screen = "compliance"
	ScreenAnalytics   Screen = "analytics"
	ScreenLetters     Screen = "letters"
	ScreenHelpdesk    Screen = "helpdesk"
	ScreenSettings    Screen = "settings"
)

var screenModules = map[Screen]permission.Module{
	ScreenEmployees:   permission.ModuleEmployees,
	ScreenAttendance:  permission.ModuleAttendance,
	ScreenLeave:       permission.ModuleLeave,
	ScreenPayroll:     permission.ModulePayroll,
	ScreenRecruitment: permission.ModuleEmployees,
	ScreenPerformance: permission.ModuleEmployees,
	ScreenTraining:    permission.ModuleEmployees,
	ScreenExpenses:    permission.ModuleExpenses,
	ScreenCompliance:  permission.ModuleDocuments,
	ScreenAnalytics:   permission.ModuleReports,
	ScreenLetters:     permission.ModuleDocuments,
	ScreenHelpdesk:    permission.ModuleEmployees,
	ScreenSettings:    permission.ModuleSettings,
}

var screenOrder = []Screen{
	ScreenDashboard, ScreenEmployees, ScreenAttendance, ScreenLeave, ScreenPayroll,
	ScreenRecruitment, ScreenPerformance, ScreenTraining, ScreenExpenses,
	ScreenCompliance, ScreenAnalytics, ScreenLetters, ScreenHelpdesk, ScreenSettings,
}

// CanAccess reports whether identity may perform action on module.
// A nil identity, an unknown module or an unknown action is denied.
func CanAccess(identity *Identity, module permission.Module, action permission.Action) bool {
	if identity == nil {
		return false
	}
	return identity.Permissions.Allows(module, action)
}

// CanOpenScreen checks read access on the module behind screen.
// The dashboard is open to every identity.
func CanOpenScreen(identity *Identity, screen Screen) bool {
	if identity == nil {
		return false
	}
	if screen == ScreenDashboard {
		return true
	}
	module, ok := screenModules[screen]
	if !ok {
		return false
	}
	return CanAccess(identity, module, permission.ActionRead)
}

// VisibleScreens lists the screens identity may open, in menu order
func VisibleScreens(identity *Identity) []Screen {
	var out []Screen
	for _, s := range screenOrder {
		if CanOpenScreen(identity, s) {
			out = append(out, s)
		}
	}
	return out
}

// DashboardFor names the landing dashboard of a role
func DashboardFor(role permission.Role) string {
	switch role {
	case permission.RoleMaster:
		return "master"
	case permission.RoleAdmin:
		return "admin"
	case permission.RoleHR:
		return "hr"
	default:
		return "employee"
	}
}
