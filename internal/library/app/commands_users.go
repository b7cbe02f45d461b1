package app

import (
	"context"
	"fmt"

	"github.com/aussiebroadwan/libris/internal/library/navigation"
	"github.com/aussiebroadwan/libris/pkg/librarysdk"
)

var (
	manageUserScreens = screens{librarysdk.RoleEmployee: navigation.ScreenManageUsers}
	userDetailScreens = screens{librarysdk.RoleEmployee: navigation.ScreenDetailsUsers}
	addUserScreens    = screens{librarysdk.RoleEmployee: navigation.ScreenAddUser}
)

func (app *Application) cmdUsers(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: users list|show|add|edit|delete|activate", ErrUsage)
	}

	sub, rest := args[0], args[1:]
	switch sub {
	case "list":
		if err := app.enter(ctx, manageUserScreens, nil); err != nil {
			return app.fail(ctx, err, "Cannot list users")
		}
		users, err := app.client.ListUsers(ctx)
		return app.result(ctx, users, err, "Could not load users")

	case "show":
		id, err := idArg(rest, "user id")
		if err != nil {
			return err
		}
		if err := app.enter(ctx, userDetailScreens, idParams(id)); err != nil {
			return app.fail(ctx, err, "Cannot open the user")
		}
		user, err := app.client.UserDetails(ctx, id)
		return app.result(ctx, user, err, "Could not load the user")

	case "add":
		return app.addUser(ctx, rest)

	case "edit":
		return app.editUser(ctx, rest)

	case "delete":
		id, err := idArg(rest, "user id")
		if err != nil {
			return err
		}
		if err := app.enter(ctx, manageUserScreens, nil); err != nil {
			return app.fail(ctx, err, "Cannot delete users")
		}
		ack, err := app.client.DeleteUser(ctx, id)
		return app.result(ctx, ack, err, "Could not delete the user")

	case "activate":
		id, err := idArg(rest, "user id")
		if err != nil {
			return err
		}
		if err := app.enter(ctx, manageUserScreens, nil); err != nil {
			return app.fail(ctx, err, "Cannot change users")
		}
		ack, err := app.client.ToggleUserActive(ctx, id)
		return app.result(ctx, ack, err, "Could not change the account status")
	}

	return fmt.Errorf("%w: unknown users subcommand %q", ErrUsage, sub)
}

func (app *Application) addUser(ctx context.Context, args []string) error {
	fs := app.flagSet("users add")
	var in librarysdk.Profile
	fs.StringVar(&in.Username, "username", "", "account username")
	fs.StringVar(&in.Email, "email", "", "email address")
	fs.StringVar(&in.Password, "password", "", "initial password")
	fs.StringVar(&in.FirstName, "first", "", "first name")
	fs.StringVar(&in.LastName, "last", "", "last name")
	fs.StringVar(&in.Phone, "phone", "", "phone number")
	employee := fs.Bool("employee", false, "create a staff account")
	active := fs.Bool("active", true, "account can log in")
	if err := fs.Parse(args); err != nil {
		return err
	}
	in.IsEmployee = employee
	in.IsActive = active

	if err := app.enter(ctx, addUserScreens, nil); err != nil {
		return app.fail(ctx, err, "Cannot add users")
	}
	user, err := app.client.AddUser(ctx, in)
	return app.result(ctx, user, err, "Could not add the user")
}

func (app *Application) editUser(ctx context.Context, args []string) error {
	fs := app.flagSet("users edit")
	var in librarysdk.UserUpdate
	fs.Int64Var(&in.UserID, "id", 0, "user id")
	fs.StringVar(&in.FirstName, "first", "", "first name")
	fs.StringVar(&in.LastName, "last", "", "last name")
	fs.StringVar(&in.Email, "email", "", "email address")
	fs.StringVar(&in.Phone, "phone", "", "phone number")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := app.enter(ctx, userDetailScreens, idParams(in.UserID)); err != nil {
		return app.fail(ctx, err, "Cannot edit users")
	}
	user, err := app.client.EditUser(ctx, in)
	return app.result(ctx, user, err, "Could not save the user")
}
