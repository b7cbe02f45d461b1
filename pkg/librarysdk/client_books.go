package librarysdk

import (
	"context"
	"net/http"
	"strconv"
)

// ListBooks returns the catalogue.
func (c *Client) ListBooks(ctx context.Context) ([]Book, error) {
	req, err := newRequest(http.MethodGet, "books/", nil)
	if err != nil {
		return nil, err
	}

	var books []Book
	if err := c.call(ctx, req, &books); err != nil {
		return nil, err
	}
	return books, nil
}

// BookDetails returns a book with its opinions and availability.
func (c *Client) BookDetails(ctx context.Context, bookID int64) (*BookDetails, error) {
	if err := validateID("book_id", bookID); err != nil {
		return nil, err
	}

	req, err := newRequest(http.MethodGet, "books/details/", nil)
	if err != nil {
		return nil, err
	}
	req.withQuery("book_id", strconv.FormatInt(bookID, 10))

	var details BookDetails
	if err := c.call(ctx, req, &details); err != nil {
		return nil, err
	}
	return &details, nil
}

// AddBook creates a catalogue entry. Employees only.
func (c *Client) AddBook(ctx context.Context, in BookInput) (*Book, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	in.ID = 0

	return c.writeBook(ctx, http.MethodPost, "books/add/", in)
}

// EditBook replaces a catalogue entry. Employees only.
func (c *Client) EditBook(ctx context.Context, in BookInput) (*Book, error) {
	if err := validateID("id", in.ID); err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	return c.writeBook(ctx, http.MethodPut, "books/edit/", in)
}

func (c *Client) writeBook(ctx context.Context, method, path string, in BookInput) (*Book, error) {
	req, err := newRequest(method, path, in)
	if err != nil {
		return nil, err
	}

	var book Book
	if err := c.call(ctx, req, &book); err != nil {
		return nil, err
	}
	return &book, nil
}

// DeleteBook removes a catalogue entry. Employees only.
func (c *Client) DeleteBook(ctx context.Context, bookID int64) (*Ack, error) {
	if err := validateID("id", bookID); err != nil {
		return nil, err
	}

	req, err := newRequest(http.MethodDelete, "books/delete/", nil)
	if err != nil {
		return nil, err
	}
	req.withQuery("id", strconv.FormatInt(bookID, 10))

	return c.ack(ctx, req)
}

// BorrowBook rents a copy of the book to the logged-in customer.
func (c *Client) BorrowBook(ctx context.Context, bookID int64) (*Ack, error) {
	if err := validateID("book_id", bookID); err != nil {
		return nil, err
	}
	return c.post(ctx, "books/borrow/", BorrowRequest{BookID: bookID})
}

// ReturnBook asks for a rental to be returned; an employee approves it later.
func (c *Client) ReturnBook(ctx context.Context, rentalID int64) (*Ack, error) {
	if err := validateID("rental_id", rentalID); err != nil {
		return nil, err
	}
	return c.post(ctx, "books/return/", RentalRequest{RentalID: rentalID})
}

// ExtendRental pushes the due date of a rental back once.
func (c *Client) ExtendRental(ctx context.Context, rentalID int64) (*Ack, error) {
	if err := validateID("rental_id", rentalID); err != nil {
		return nil, err
	}
	return c.post(ctx, "books/extend/", RentalRequest{RentalID: rentalID})
}

// ApproveReturn confirms a returned copy is back on the shelf. Employees only.
func (c *Client) ApproveReturn(ctx context.Context, rentalID int64) (*Ack, error) {
	if err := validateID("rental_id", rentalID); err != nil {
		return nil, err
	}
	return c.post(ctx, "books/approve-return/", RentalRequest{RentalID: rentalID})
}

// MarkNotificationRead dismisses a dashboard notification.
func (c *Client) MarkNotificationRead(ctx context.Context, notificationID int64) (*Ack, error) {
	if err := validateID("notification_id", notificationID); err != nil {
		return nil, err
	}
	return c.post(ctx, "books/mark-as-read/", MarkAsReadRequest{NotificationID: notificationID})
}

// SubscribeAvailability asks to be notified when the book can be borrowed.
func (c *Client) SubscribeAvailability(ctx context.Context, bookID int64) (*Ack, error) {
	if err := validateID("book_id", bookID); err != nil {
		return nil, err
	}
	return c.post(ctx, "books/notification/", SubscribeRequest{BookID: bookID})
}

func (c *Client) post(ctx context.Context, path string, payload any) (*Ack, error) {
	req, err := newRequest(http.MethodPost, path, payload)
	if err != nil {
		return nil, err
	}
	return c.ack(ctx, req)
}

func (c *Client) ack(ctx context.Context, req *pendingRequest) (*Ack, error) {
	var ack Ack
	if err := c.call(ctx, req, &ack); err != nil {
		return nil, err
	}
	return &ack, nil
}
