package app

import (
	"context"
	"flag"
	"fmt"

	"github.com/aussiebroadwan/libris/internal/library/navigation"
	"github.com/aussiebroadwan/libris/pkg/librarysdk"
)

var (
	bookListScreens = screens{
		librarysdk.RoleCustomer: navigation.ScreenListBooks,
		librarysdk.RoleEmployee: navigation.ScreenManageBooks,
	}
	bookDetailScreens = screens{
		librarysdk.RoleCustomer: navigation.ScreenDetailsBook,
		librarysdk.RoleEmployee: navigation.ScreenDetailsBookEmployee,
	}
	customerBookScreens   = screens{librarysdk.RoleCustomer: navigation.ScreenDetailsBook}
	customerReturnScreens = screens{librarysdk.RoleCustomer: navigation.ScreenReturnBook}
	customerHomeScreens   = screens{librarysdk.RoleCustomer: navigation.ScreenDashboardCustomer}
	addBookScreens        = screens{librarysdk.RoleEmployee: navigation.ScreenAddBook}
	editBookScreens       = screens{librarysdk.RoleEmployee: navigation.ScreenEditBook}
	manageBookScreens     = screens{librarysdk.RoleEmployee: navigation.ScreenManageBooks}
	approveReturnScreens  = screens{librarysdk.RoleEmployee: navigation.ScreenReturnApprove}
)

// idAction is a books subcommand that takes one numeric id.
type idAction struct {
	idName   string
	screens  screens
	call     func(ctx context.Context, id int64) (*librarysdk.Ack, error)
	fallback string
}

func (app *Application) cmdBooks(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: books list|show|add|edit|delete|borrow|return|extend|approve-return|mark-as-read|subscribe", ErrUsage)
	}

	actions := map[string]idAction{
		"delete":         {"book id", manageBookScreens, app.client.DeleteBook, "Could not delete the book"},
		"borrow":         {"book id", customerBookScreens, app.client.BorrowBook, "Could not borrow the book"},
		"return":         {"rental id", customerReturnScreens, app.client.ReturnBook, "Could not return the book"},
		"extend":         {"rental id", customerReturnScreens, app.client.ExtendRental, "Could not extend the rental"},
		"approve-return": {"rental id", approveReturnScreens, app.client.ApproveReturn, "Could not approve the return"},
		"mark-as-read":   {"notification id", customerHomeScreens, app.client.MarkNotificationRead, "Could not mark the notification as read"},
		"subscribe":      {"book id", customerBookScreens, app.client.SubscribeAvailability, "Could not subscribe to the book"},
	}

	sub, rest := args[0], args[1:]
	switch sub {
	case "list":
		if err := app.enter(ctx, bookListScreens, nil); err != nil {
			return app.fail(ctx, err, "Cannot list books")
		}
		books, err := app.client.ListBooks(ctx)
		return app.result(ctx, books, err, "Could not load books")

	case "show":
		id, err := idArg(rest, "book id")
		if err != nil {
			return err
		}
		if err := app.enter(ctx, bookDetailScreens, idParams(id)); err != nil {
			return app.fail(ctx, err, "Cannot open the book")
		}
		details, err := app.client.BookDetails(ctx, id)
		return app.result(ctx, details, err, "Could not load the book")

	case "add", "edit":
		return app.writeBook(ctx, sub, rest)
	}

	action, ok := actions[sub]
	if !ok {
		return fmt.Errorf("%w: unknown books subcommand %q", ErrUsage, sub)
	}

	id, err := idArg(rest, action.idName)
	if err != nil {
		return err
	}
	if err := app.enter(ctx, action.screens, idParams(id)); err != nil {
		return app.fail(ctx, err, action.fallback)
	}
	ack, err := action.call(ctx, id)
	return app.result(ctx, ack, err, action.fallback)
}

func (app *Application) writeBook(ctx context.Context, sub string, args []string) error {
	fs := app.flagSet("books " + sub)
	in := bookFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	s, fallback := addBookScreens, "Could not add the book"
	if sub == "edit" {
		s, fallback = editBookScreens, "Could not save the book"
	}

	if err := app.enter(ctx, s, nil); err != nil {
		return app.fail(ctx, err, fallback)
	}

	var (
		book *librarysdk.Book
		err  error
	)
	if sub == "edit" {
		book, err = app.client.EditBook(ctx, *in)
	} else {
		book, err = app.client.AddBook(ctx, *in)
	}
	return app.result(ctx, book, err, fallback)
}

func bookFlags(fs *flag.FlagSet) *librarysdk.BookInput {
	in := &librarysdk.BookInput{}
	fs.Int64Var(&in.ID, "id", 0, "book id (edit only)")
	fs.StringVar(&in.Title, "title", "", "title")
	fs.StringVar(&in.Author, "author", "", "author")
	fs.StringVar(&in.Category, "category", "", "category name")
	fs.StringVar(&in.Description, "description", "", "description")
	fs.StringVar(&in.PublishedDate, "published", "", "publication date (YYYY-MM-DD)")
	fs.StringVar(&in.ISBN, "isbn", "", "ISBN")
	fs.IntVar(&in.TotalCopies, "copies", 1, "number of copies")
	return in
}

func idParams(id int64) navigation.Params {
	return navigation.Params{"id": fmt.Sprint(id)}
}
