package navigation

import "github.com/aussiebroadwan/libris/pkg/librarysdk"

// State is the coarse position of the user in the app.
type State int

const (
	StateUnauthenticated State = iota
	StateCustomerHome
	StateCustomerSubscreen
	StateEmployeeHome
	StateEmployeeSubscreen
)

func (s State) String() string {
	switch s {
	case StateCustomerHome:
		return "customer_home"
	case StateCustomerSubscreen:
		return "customer_subscreen"
	case StateEmployeeHome:
		return "employee_home"
	case StateEmployeeSubscreen:
		return "employee_subscreen"
	default:
		return "unauthenticated"
	}
}

// publicScreens are reachable without a session.
var publicScreens = map[Screen]bool{
	ScreenLogin:    true,
	ScreenRegister: true,
}

var routes = map[librarysdk.Role]map[Screen]bool{
	librarysdk.RoleCustomer: {
		ScreenDashboardCustomer: true,
		ScreenListBooks:         true,
		ScreenDetailsBook:       true,
		ScreenReturnBook:        true,
		ScreenLogout:            true,
	},
	librarysdk.RoleEmployee: {
		ScreenDashboardEmployee:   true,
		ScreenManageBooks:         true,
		ScreenDetailsBookEmployee: true,
		ScreenAddBook:             true,
		ScreenEditBook:            true,
		ScreenManageUsers:         true,
		ScreenDetailsUsers:        true,
		ScreenAddUser:             true,
		ScreenReturnApprove:       true,
		ScreenLogout:              true,
	},
}

// Allowed reports whether role may open screen. Public screens are always allowed.
func Allowed(role librarysdk.Role, screen Screen) bool {
	return publicScreens[screen] || routes[role][screen]
}

// MenuItem is one entry of the side menu.
type MenuItem struct {
	Label  string `json:"label"`
	Screen Screen `json:"screen"`
}

var menus = map[librarysdk.Role][]MenuItem{
	librarysdk.RoleCustomer: {
		{Label: "Dashboard", Screen: ScreenDashboardCustomer},
		{Label: "Books", Screen: ScreenListBooks},
		{Label: "Logout", Screen: ScreenLogout},
	},
	librarysdk.RoleEmployee: {
		{Label: "Dashboard", Screen: ScreenDashboardEmployee},
		{Label: "Manage books", Screen: ScreenManageBooks},
		{Label: "Manage users", Screen: ScreenManageUsers},
		{Label: "Returns to approve", Screen: ScreenReturnApprove},
		{Label: "Logout", Screen: ScreenLogout},
	},
}

// stateOf derives the State for a screen shown to role.
func stateOf(role librarysdk.Role, screen Screen) State {
	if publicScreens[screen] || !role.Valid() || screen == "" {
		return StateUnauthenticated
	}

	home := screen == HomeFor(role)
	switch {
	case role == librarysdk.RoleEmployee && home:
		return StateEmployeeHome
	case role == librarysdk.RoleEmployee:
		return StateEmployeeSubscreen
	case home:
		return StateCustomerHome
	default:
		return StateCustomerSubscreen
	}
}
