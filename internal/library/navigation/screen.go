package navigation

import "github.com/aussiebroadwan/libris/pkg/librarysdk"

// Screen identifies a destination in the client. The values double as the
// route names a Host registers.
type Screen string

const (
	ScreenLogin    Screen = "Login"
	ScreenRegister Screen = "Register"
	ScreenLogout   Screen = "Logout"

	ScreenDashboardCustomer Screen = "DashboardCustomer"
	ScreenListBooks         Screen = "ListBooks"
	ScreenDetailsBook       Screen = "DetailsBook"
	ScreenReturnBook        Screen = "ReturnBook"

	ScreenDashboardEmployee   Screen = "DashboardEmployee"
	ScreenManageBooks         Screen = "ManageBooks"
	ScreenDetailsBookEmployee Screen = "DetailsBookEmployee"
	ScreenAddBook             Screen = "AddBook"
	ScreenEditBook            Screen = "EditBook"
	ScreenManageUsers         Screen = "ManageUsers"
	ScreenDetailsUsers        Screen = "DetailsUsers"
	ScreenAddUser             Screen = "AddUser"
	ScreenReturnApprove       Screen = "ReturnApprove"
)

// Params are the route parameters passed along with a screen change
// (book id, rental id, a message for the login screen, ...).
type Params map[string]string

// HomeFor returns the dashboard screen for a role, or Login when the role is unknown.
func HomeFor(r librarysdk.Role) Screen {
	switch r {
	case librarysdk.RoleEmployee:
		return ScreenDashboardEmployee
	case librarysdk.RoleCustomer:
		return ScreenDashboardCustomer
	default:
		return ScreenLogin
	}
}
