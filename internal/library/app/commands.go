package app

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/aussiebroadwan/libris/internal/library/navigation"
	"github.com/aussiebroadwan/libris/pkg/librarysdk"
	"github.com/aussiebroadwan/libris/pkg/slogx"
)

// ErrUsage is returned for unknown commands and bad arguments.
var ErrUsage = errors.New("usage error")

// ExitCode maps the result of Run to a process exit status: 2 for usage
// errors, 1 for any other failure.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrUsage):
		return 2
	default:
		return 1
	}
}

type command struct {
	usage string
	run   func(ctx context.Context, args []string) error
}

func (app *Application) commands() map[string]command {
	return map[string]command{
		"login":     {"login -username NAME [-password PW]", app.cmdLogin},
		"register":  {"register -username NAME -email ADDR -password PW [-confirm PW] [-first F] [-last L] [-phone P]", app.cmdRegister},
		"logout":    {"logout", app.cmdLogout},
		"status":    {"status", app.cmdStatus},
		"menu":      {"menu", app.cmdMenu},
		"open":      {"open SCREEN [key=value ...]", app.cmdOpen},
		"books":     {"books list|show|add|edit|delete|borrow|return|extend|approve-return|mark-as-read|subscribe", app.cmdBooks},
		"users":     {"users list|show|add|edit|delete|activate", app.cmdUsers},
		"dashboard": {"dashboard", app.cmdDashboard},
		"borrows":   {"borrows", app.cmdBorrows},
		"articles":  {"articles", app.cmdArticles},
	}
}

func (app *Application) dispatch(ctx context.Context, args []string) error {
	cmds := app.commands()
	if len(args) == 0 {
		return app.usage(cmds)
	}

	cmd, ok := cmds[args[0]]
	if !ok {
		return fmt.Errorf("%w: unknown command %q", ErrUsage, args[0])
	}

	ctx = slogx.WithCommand(ctx, args[0])
	return cmd.run(ctx, args[1:])
}

func (app *Application) usage(cmds map[string]command) error {
	names := make([]string, 0, len(cmds))
	for name := range cmds {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("usage: libris COMMAND\n\ncommands:\n")
	for _, name := range names {
		fmt.Fprintf(&b, "  %s\n", cmds[name].usage)
	}
	_, _ = io.WriteString(app.out, b.String())
	return ErrUsage
}

// ============================================================================
// Session and navigation
// ============================================================================

func (app *Application) cmdLogin(ctx context.Context, args []string) error {
	fs := app.flagSet("login")
	username := fs.String("username", "", "account username")
	password := fs.String("password", "", "password (default: $LIBRARY_PASSWORD)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *password == "" {
		*password = os.Getenv("LIBRARY_PASSWORD")
	}

	if err := app.nav.Login(ctx, *username, *password); err != nil {
		return app.fail(ctx, err, "Login failed")
	}
	return app.printScreen()
}

func (app *Application) cmdRegister(ctx context.Context, args []string) error {
	fs := app.flagSet("register")
	var in librarysdk.RegisterRequest
	fs.StringVar(&in.Username, "username", "", "account username")
	fs.StringVar(&in.Email, "email", "", "email address")
	fs.StringVar(&in.Password, "password", "", "password")
	fs.StringVar(&in.ConfirmPassword, "confirm", "", "repeat the password")
	fs.StringVar(&in.FirstName, "first", "", "first name")
	fs.StringVar(&in.LastName, "last", "", "last name")
	fs.StringVar(&in.Phone, "phone", "", "phone number")
	if err := fs.Parse(args); err != nil {
		return err
	}

	user, err := app.nav.Register(ctx, in)
	if err != nil {
		return app.fail(ctx, err, "Registration failed")
	}
	return app.print(map[string]any{"user": user, "navigation": app.host.Last()})
}

func (app *Application) cmdLogout(ctx context.Context, _ []string) error {
	if err := app.nav.Logout(ctx); err != nil {
		app.logger.WarnContext(ctx, "logout_incomplete", "error", err)
	}
	return app.printScreen()
}

type statusView struct {
	Authenticated bool              `json:"authenticated"`
	Role          librarysdk.Role   `json:"role,omitempty"`
	State         string            `json:"state"`
	Screen        navigation.Screen `json:"screen"`
	Subject       string            `json:"subject,omitempty"`
	Username      string            `json:"username,omitempty"`
	ExpiresAt     *time.Time        `json:"expires_at,omitempty"`
	ExpiringSoon  bool              `json:"expiring_soon,omitempty"`
}

func (app *Application) cmdStatus(ctx context.Context, _ []string) error {
	if err := app.nav.Start(ctx); err != nil {
		return app.fail(ctx, err, "Could not restore the session")
	}

	view := statusView{
		Authenticated: app.session.IsAuthenticated(ctx),
		Role:          app.nav.Role(),
		State:         app.nav.State().String(),
		Screen:        app.nav.Screen(),
	}

	if claims, err := app.session.Claims(ctx); err == nil {
		view.Subject = claims.Subject()
		view.Username = claims.Username
		if claims.ExpiresAt != nil {
			exp := claims.ExpiresAt.Time
			view.ExpiresAt = &exp
			view.ExpiringSoon = claims.ExpiresWithin(time.Now(), time.Minute)
		}
	}

	return app.print(view)
}

func (app *Application) cmdMenu(ctx context.Context, _ []string) error {
	if err := app.nav.Start(ctx); err != nil {
		return app.fail(ctx, err, "Could not restore the session")
	}
	app.nav.ToggleMenu()

	return app.print(map[string]any{
		"open":   app.nav.MenuOpen(),
		"screen": app.nav.Screen(),
		"items":  app.nav.Menu(),
	})
}

func (app *Application) cmdOpen(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: open SCREEN [key=value ...]", ErrUsage)
	}

	params := navigation.Params{}
	for _, kv := range args[1:] {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			return fmt.Errorf("%w: parameter %q is not key=value", ErrUsage, kv)
		}
		params[k] = v
	}
	if len(params) == 0 {
		params = nil
	}

	if err := app.nav.Start(ctx); err != nil {
		return app.fail(ctx, err, "Could not restore the session")
	}
	if err := app.nav.Navigate(ctx, navigation.Screen(args[0]), params); err != nil {
		return app.fail(ctx, err, "Cannot open that screen")
	}
	return app.printScreen()
}

// ============================================================================
// Dashboards and lists
// ============================================================================

var homeScreens = screens{
	librarysdk.RoleCustomer: navigation.ScreenDashboardCustomer,
	librarysdk.RoleEmployee: navigation.ScreenDashboardEmployee,
}

func (app *Application) cmdDashboard(ctx context.Context, _ []string) error {
	if err := app.enter(ctx, homeScreens, nil); err != nil {
		return app.fail(ctx, err, "Cannot open the dashboard")
	}

	var (
		dash any
		err  error
	)
	if app.nav.Role() == librarysdk.RoleEmployee {
		dash, err = app.client.EmployeeDashboard(ctx)
	} else {
		dash, err = app.client.CustomerDashboard(ctx)
	}
	return app.result(ctx, dash, err, "Could not load the dashboard")
}

func (app *Application) cmdBorrows(ctx context.Context, _ []string) error {
	if err := app.enter(ctx, homeScreens, nil); err != nil {
		return app.fail(ctx, err, "Cannot list borrows")
	}
	borrows, err := app.client.ListBorrows(ctx)
	return app.result(ctx, borrows, err, "Could not load borrows")
}

func (app *Application) cmdArticles(ctx context.Context, _ []string) error {
	if err := app.enter(ctx, homeScreens, nil); err != nil {
		return app.fail(ctx, err, "Cannot list articles")
	}
	articles, err := app.client.ListArticles(ctx)
	return app.result(ctx, articles, err, "Could not load articles")
}

// ============================================================================
// Helpers
// ============================================================================

// screens maps each role to the screen a command runs on. A role without
// an entry cannot run the command.
type screens map[librarysdk.Role]navigation.Screen

// enter restores the session and performs the guarded transition to the
// command's screen for the current role.
func (app *Application) enter(ctx context.Context, s screens, params navigation.Params) error {
	if err := app.nav.Start(ctx); err != nil {
		return err
	}

	role := app.nav.Role()
	if !role.Valid() {
		return librarysdk.ErrNotAuthenticated
	}

	screen, ok := s[role]
	if !ok {
		return fmt.Errorf("%w: not available to %s", navigation.ErrRouteNotAllowed, role)
	}
	return app.nav.Navigate(ctx, screen, params)
}

// result prints v, or reports err the way a screen would.
func (app *Application) result(ctx context.Context, v any, err error, fallback string) error {
	if err != nil {
		return app.fail(ctx, err, fallback)
	}
	return app.print(v)
}

// fail lets the navigator react to err, prints any redirect and returns a
// user-facing error that still wraps err.
func (app *Application) fail(ctx context.Context, err error, fallback string) error {
	if app.nav.HandleError(ctx, err) {
		_ = app.printScreen()
	}
	if errors.Is(err, librarysdk.ErrNotAuthenticated) {
		fallback = "Please log in first."
	}
	return fmt.Errorf("%s: %w", librarysdk.UserMessage(err, fallback), err)
}

func (app *Application) printScreen() error {
	return app.print(map[string]any{
		"navigation": app.host.Last(),
		"state":      app.nav.State().String(),
		"role":       app.nav.Role(),
	})
}

func (app *Application) print(v any) error {
	enc := json.NewEncoder(app.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (app *Application) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(app.out)
	return fs
}

// idArg parses the single positional id a subcommand takes.
func idArg(args []string, name string) (int64, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("%w: expected exactly one %s", ErrUsage, name)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a number", ErrUsage, name)
	}
	return id, nil
}
