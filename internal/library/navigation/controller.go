package navigation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/aussiebroadwan/libris/pkg/librarysdk"
)

var (
	// ErrRouteNotAllowed is returned when a screen is outside the current role's table.
	ErrRouteNotAllowed = errors.New("navigation: screen not allowed for role")

	// ErrRoleUnknown is returned when neither the stored role nor the
	// dashboard check could tell customers and employees apart.
	ErrRoleUnknown = errors.New("navigation: could not determine role")
)

// Messages passed to the Login screen in Params["message"].
const (
	MessageRegistered     = "registered"
	MessageLoggedOut      = "logged out"
	MessageSessionExpired = "session expired"
)

// Host performs the actual screen changes. Reset replaces the whole
// history, Navigate pushes onto it. Hosts must not call back into the
// Controller from these methods.
type Host interface {
	Reset(screen Screen, params Params)
	Navigate(screen Screen, params Params)
}

// SessionManager is the part of librarysdk.Session the controller drives.
type SessionManager interface {
	Login(ctx context.Context, username, password string) (*librarysdk.TokenPair, error)
	Register(ctx context.Context, in librarysdk.RegisterRequest) (*librarysdk.User, error)
	Logout(ctx context.Context) error
	IsAuthenticated(ctx context.Context) bool
	Role(ctx context.Context) (librarysdk.Role, error)
	SetRole(ctx context.Context, role librarysdk.Role) error
}

// RoleChecker fetches the role dashboards. Whichever one the server serves
// tells the controller the role.
type RoleChecker interface {
	CustomerDashboard(ctx context.Context) (*librarysdk.CustomerDashboard, error)
	EmployeeDashboard(ctx context.Context) (*librarysdk.EmployeeDashboard, error)
}

// Controller is the role-gated navigation state machine. It owns the
// current screen, the resolved role and the side menu.
type Controller struct {
	session SessionManager
	checker RoleChecker
	host    Host
	logger  *slog.Logger

	mu       sync.Mutex
	screen   Screen
	role     librarysdk.Role
	menuOpen bool
}

func New(session SessionManager, checker RoleChecker, host Host, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		session: session,
		checker: checker,
		host:    host,
		logger:  logger,
	}
}

// Start restores a stored session: home screen for its role, else Login.
func (c *Controller) Start(ctx context.Context) error {
	if !c.session.IsAuthenticated(ctx) {
		c.toLogin(nil)
		return nil
	}

	role, err := c.resolveRole(ctx)
	if err != nil {
		c.logger.WarnContext(ctx, "session_restore_failed", "error", err)
		if errors.Is(err, librarysdk.ErrSessionExpired) {
			c.toLogin(Params{"message": MessageSessionExpired})
			return nil
		}
		c.toLogin(nil)
		return err
	}

	c.toHome(role)
	return nil
}

// Login authenticates and moves to the role's home screen. On failure the
// current screen is kept so the form can show the error.
func (c *Controller) Login(ctx context.Context, username, password string) error {
	if _, err := c.session.Login(ctx, username, password); err != nil {
		return err
	}

	role, err := c.resolveRole(ctx)
	if err != nil {
		// Without a role there is no home to route to.
		_ = c.session.Logout(ctx)
		c.toLogin(nil)
		return err
	}

	c.logger.InfoContext(ctx, "navigated_home", "role", role.String())
	c.toHome(role)
	return nil
}

// Register creates the account and returns to Login; it does not log in.
func (c *Controller) Register(ctx context.Context, in librarysdk.RegisterRequest) (*librarysdk.User, error) {
	user, err := c.session.Register(ctx, in)
	if err != nil {
		return nil, err
	}

	c.toLogin(Params{"message": MessageRegistered, "username": in.Username})
	return user, nil
}

// Logout clears the session first, then resets to Login. The transition
// happens even when clearing the store partly failed.
func (c *Controller) Logout(ctx context.Context) error {
	err := c.session.Logout(ctx)
	c.toLogin(Params{"message": MessageLoggedOut})
	return err
}

// Navigate performs a guarded transition. Without a session it resets to
// Login and returns librarysdk.ErrNotAuthenticated.
func (c *Controller) Navigate(ctx context.Context, screen Screen, params Params) error {
	if publicScreens[screen] {
		c.mu.Lock()
		c.menuOpen = false
		c.screen = screen
		c.mu.Unlock()
		c.host.Navigate(screen, params)
		return nil
	}

	if !c.session.IsAuthenticated(ctx) {
		c.toLogin(nil)
		return librarysdk.ErrNotAuthenticated
	}

	if screen == ScreenLogout {
		return c.Logout(ctx)
	}

	role, err := c.currentRole(ctx)
	if err != nil {
		return err
	}
	if !Allowed(role, screen) {
		return fmt.Errorf("%w: %s cannot open %s", ErrRouteNotAllowed, role, screen)
	}

	if screen == HomeFor(role) {
		c.toHome(role)
		return nil
	}

	c.mu.Lock()
	c.menuOpen = false
	c.screen = screen
	c.mu.Unlock()
	c.host.Navigate(screen, params)
	return nil
}

// HandleError reacts to an error a screen got from the API. An expired
// session goes back to Login. A 403 on a home screen means the stored role
// is wrong: the other role's dashboard is tried and shown if the server
// allows it.
// It reports whether a transition happened.
func (c *Controller) HandleError(ctx context.Context, err error) bool {
	switch {
	case errors.Is(err, librarysdk.ErrSessionExpired):
		c.toLogin(Params{"message": MessageSessionExpired})
		return true

	case errors.Is(err, librarysdk.ErrForbidden):
		c.mu.Lock()
		onHome := c.role.Valid() && c.screen == HomeFor(c.role)
		current := c.role
		c.mu.Unlock()
		if !onHome {
			return false
		}

		other := current.Other()
		if perr := c.checkDashboard(ctx, other); perr != nil {
			c.logger.DebugContext(ctx, "role_recheck_failed", "role", other.String(), "error", perr)
			return false
		}
		c.toHome(c.storeDetected(ctx, other))
		return true
	}
	return false
}

// ToggleMenu opens or closes the side menu. Purely local.
func (c *Controller) ToggleMenu() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.menuOpen = !c.menuOpen
}

func (c *Controller) MenuOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.menuOpen
}

// Menu lists the side menu entries for the current role.
func (c *Controller) Menu() []MenuItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]MenuItem(nil), menus[c.role]...)
}

func (c *Controller) Screen() Screen {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.screen
}

func (c *Controller) Role() librarysdk.Role {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.role
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return stateOf(c.role, c.screen)
}

// currentRole returns the role resolved earlier in this run, resolving it
// now when the controller has not seen one yet.
func (c *Controller) currentRole(ctx context.Context) (librarysdk.Role, error) {
	c.mu.Lock()
	role := c.role
	c.mu.Unlock()
	if role.Valid() {
		return role, nil
	}

	role, err := c.resolveRole(ctx)
	if err != nil {
		return librarysdk.RoleUnknown, err
	}
	c.mu.Lock()
	c.role = role
	c.mu.Unlock()
	return role, nil
}

// resolveRole prefers the stored role (taken from the token claims at
// login) and falls back to the dashboard check.
func (c *Controller) resolveRole(ctx context.Context) (librarysdk.Role, error) {
	role, err := c.session.Role(ctx)
	if err == nil && role.Valid() {
		return role, nil
	}
	if err != nil {
		c.logger.WarnContext(ctx, "role_read_failed", "error", err)
	}
	return c.detectRole(ctx)
}

// detectRole asks for the customer dashboard, then the employee one. The
// server decides which one the user may see; the first success wins and is
// stored.
func (c *Controller) detectRole(ctx context.Context) (librarysdk.Role, error) {
	custErr := c.checkDashboard(ctx, librarysdk.RoleCustomer)
	if custErr == nil {
		return c.storeDetected(ctx, librarysdk.RoleCustomer), nil
	}
	if errors.Is(custErr, librarysdk.ErrSessionExpired) {
		return librarysdk.RoleUnknown, custErr
	}

	empErr := c.checkDashboard(ctx, librarysdk.RoleEmployee)
	if empErr == nil {
		return c.storeDetected(ctx, librarysdk.RoleEmployee), nil
	}
	if errors.Is(empErr, librarysdk.ErrSessionExpired) {
		return librarysdk.RoleUnknown, empErr
	}

	return librarysdk.RoleUnknown, fmt.Errorf("%w: %w", ErrRoleUnknown, errors.Join(custErr, empErr))
}

// checkDashboard fetches the dashboard of role.
func (c *Controller) checkDashboard(ctx context.Context, role librarysdk.Role) error {
	var err error
	switch role {
	case librarysdk.RoleCustomer:
		_, err = c.checker.CustomerDashboard(ctx)
	case librarysdk.RoleEmployee:
		_, err = c.checker.EmployeeDashboard(ctx)
	default:
		err = ErrRoleUnknown
	}
	return err
}

func (c *Controller) storeDetected(ctx context.Context, role librarysdk.Role) librarysdk.Role {
	if err := c.session.SetRole(ctx, role); err != nil {
		c.logger.WarnContext(ctx, "role_store_failed", "error", err)
	}
	c.logger.DebugContext(ctx, "role_detected", "role", role.String())
	return role
}

func (c *Controller) toHome(role librarysdk.Role) {
	home := HomeFor(role)
	c.mu.Lock()
	c.role = role
	c.screen = home
	c.menuOpen = false
	c.mu.Unlock()
	c.host.Reset(home, nil)
}

func (c *Controller) toLogin(params Params) {
	c.mu.Lock()
	c.role = librarysdk.RoleUnknown
	c.screen = ScreenLogin
	c.menuOpen = false
	c.mu.Unlock()
	c.host.Reset(ScreenLogin, params)
}
