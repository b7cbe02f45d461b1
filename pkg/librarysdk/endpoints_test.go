package librarysdk_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"sync"
	"testing"

	"github.com/aussiebroadwan/libris/internal/library/store/drivers/memory"
	"github.com/aussiebroadwan/libris/pkg/librarysdk"
	"github.com/stretchr/testify/require"
)

// captured is what the fake API saw for one request.
type captured struct {
	mu     sync.Mutex
	method string
	query  url.Values
	body   map[string]any
}

func (c *captured) handler(reply any) http.HandlerFunc {
	return bearerOnly("A", func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		var body map[string]any
		if len(raw) > 0 {
			_ = json.Unmarshal(raw, &body)
		}

		c.mu.Lock()
		c.method, c.query, c.body = r.Method, r.URL.Query(), body
		c.mu.Unlock()

		writeJSON(w, http.StatusOK, reply)
	})
}

func (c *captured) get() (string, url.Values, map[string]any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.method, c.query, c.body
}

func TestEndpoints(t *testing.T) {
	t.Parallel()

	ack := librarysdk.Ack{Detail: "ok"}
	tests := []struct {
		name   string
		path   string
		reply  any
		call   func(ctx context.Context, c *librarysdk.Client) error
		method string
		query  url.Values
		body   map[string]any
	}{
		{
			name:  "book details",
			path:  "/api/books/details/",
			reply: librarysdk.BookDetails{},
			call: func(ctx context.Context, c *librarysdk.Client) error {
				_, err := c.BookDetails(ctx, 5)
				return err
			},
			method: http.MethodGet,
			query:  url.Values{"book_id": {"5"}},
		},
		{
			name:  "add book",
			path:  "/api/books/add/",
			reply: librarysdk.Book{ID: 9},
			call: func(ctx context.Context, c *librarysdk.Client) error {
				_, err := c.AddBook(ctx, librarysdk.BookInput{
					ID: 3, Title: "Dune", Author: "Frank Herbert", Category: "Sci-Fi", ISBN: "9780441013593", TotalCopies: 2,
				})
				return err
			},
			method: http.MethodPost,
			body:   map[string]any{"title": "Dune", "total_copies": float64(2)},
		},
		{
			name:  "edit book",
			path:  "/api/books/edit/",
			reply: librarysdk.Book{ID: 3},
			call: func(ctx context.Context, c *librarysdk.Client) error {
				_, err := c.EditBook(ctx, librarysdk.BookInput{
					ID: 3, Title: "Dune", Author: "Frank Herbert", Category: "Sci-Fi", ISBN: "9780441013593", TotalCopies: 1,
				})
				return err
			},
			method: http.MethodPut,
			body:   map[string]any{"id": float64(3)},
		},
		{
			name:  "delete book",
			path:  "/api/books/delete/",
			reply: ack,
			call: func(ctx context.Context, c *librarysdk.Client) error {
				_, err := c.DeleteBook(ctx, 3)
				return err
			},
			method: http.MethodDelete,
			query:  url.Values{"id": {"3"}},
		},
		{
			name:  "return book",
			path:  "/api/books/return/",
			reply: ack,
			call: func(ctx context.Context, c *librarysdk.Client) error {
				_, err := c.ReturnBook(ctx, 11)
				return err
			},
			method: http.MethodPost,
			body:   map[string]any{"rental_id": float64(11)},
		},
		{
			name:  "extend rental",
			path:  "/api/books/extend/",
			reply: ack,
			call: func(ctx context.Context, c *librarysdk.Client) error {
				_, err := c.ExtendRental(ctx, 11)
				return err
			},
			method: http.MethodPost,
			body:   map[string]any{"rental_id": float64(11)},
		},
		{
			name:  "approve return",
			path:  "/api/books/approve-return/",
			reply: ack,
			call: func(ctx context.Context, c *librarysdk.Client) error {
				_, err := c.ApproveReturn(ctx, 11)
				return err
			},
			method: http.MethodPost,
			body:   map[string]any{"rental_id": float64(11)},
		},
		{
			name:  "mark notification read",
			path:  "/api/books/mark-as-read/",
			reply: ack,
			call: func(ctx context.Context, c *librarysdk.Client) error {
				_, err := c.MarkNotificationRead(ctx, 4)
				return err
			},
			method: http.MethodPost,
			body:   map[string]any{"notification_id": float64(4)},
		},
		{
			name:  "subscribe to availability",
			path:  "/api/books/notification/",
			reply: ack,
			call: func(ctx context.Context, c *librarysdk.Client) error {
				_, err := c.SubscribeAvailability(ctx, 5)
				return err
			},
			method: http.MethodPost,
			body:   map[string]any{"book_id": float64(5)},
		},
		{
			name:  "user details",
			path:  "/api/users/details/",
			reply: librarysdk.User{ID: 2},
			call: func(ctx context.Context, c *librarysdk.Client) error {
				_, err := c.UserDetails(ctx, 2)
				return err
			},
			method: http.MethodGet,
			query:  url.Values{"user_id": {"2"}},
		},
		{
			name:  "add user",
			path:  "/api/users/add/",
			reply: librarysdk.User{ID: 8},
			call: func(ctx context.Context, c *librarysdk.Client) error {
				staff := true
				_, err := c.AddUser(ctx, librarysdk.Profile{
					Username: "bob", Email: "bob@example.com", Password: "hunter22", IsEmployee: &staff,
				})
				return err
			},
			method: http.MethodPost,
			body:   map[string]any{"username": "bob", "is_employee": true},
		},
		{
			name:  "edit user",
			path:  "/api/users/edit/",
			reply: librarysdk.User{ID: 2},
			call: func(ctx context.Context, c *librarysdk.Client) error {
				_, err := c.EditUser(ctx, librarysdk.UserUpdate{UserID: 2, FirstName: "Ann", Email: "ann@example.com"})
				return err
			},
			method: http.MethodPut,
			body:   map[string]any{"user_id": float64(2), "first_name": "Ann"},
		},
		{
			name:  "delete user",
			path:  "/api/users/delete/",
			reply: ack,
			call: func(ctx context.Context, c *librarysdk.Client) error {
				_, err := c.DeleteUser(ctx, 2)
				return err
			},
			method: http.MethodDelete,
			query:  url.Values{"user_id": {"2"}},
		},
		{
			name:  "toggle user active",
			path:  "/api/users/active/",
			reply: ack,
			call: func(ctx context.Context, c *librarysdk.Client) error {
				_, err := c.ToggleUserActive(ctx, 2)
				return err
			},
			method: http.MethodPut,
			query:  url.Values{"user_id": {"2"}},
		},
		{
			name:  "customer dashboard",
			path:  "/api/dashboard/customer/",
			reply: librarysdk.CustomerDashboard{},
			call: func(ctx context.Context, c *librarysdk.Client) error {
				_, err := c.CustomerDashboard(ctx)
				return err
			},
			method: http.MethodGet,
		},
		{
			name:  "employee dashboard",
			path:  "/api/dashboard/employee/",
			reply: librarysdk.EmployeeDashboard{},
			call: func(ctx context.Context, c *librarysdk.Client) error {
				_, err := c.EmployeeDashboard(ctx)
				return err
			},
			method: http.MethodGet,
		},
		{
			name:  "borrows",
			path:  "/api/borrows/",
			reply: []librarysdk.Borrow{},
			call: func(ctx context.Context, c *librarysdk.Client) error {
				_, err := c.ListBorrows(ctx)
				return err
			},
			method: http.MethodGet,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var seen captured
			api := newFakeAPI(t)
			api.Handle(tt.path, seen.handler(tt.reply))

			store := memory.NewStore()
			seedSession(t, store, "A", "R")
			client, _ := newTestClient(t, api, store)

			require.NoError(t, tt.call(context.Background(), client))
			require.Equal(t, 1, api.Calls(tt.path))

			method, query, body := seen.get()
			require.Equal(t, tt.method, method)
			for key, want := range tt.query {
				require.Equal(t, want, query[key], "query %s", key)
			}
			for key, want := range tt.body {
				require.Equal(t, want, body[key], "body field %s", key)
			}
		})
	}
}

func TestAddBookDropsID(t *testing.T) {
	t.Parallel()

	var seen captured
	api := newFakeAPI(t)
	api.Handle("/api/books/add/", seen.handler(librarysdk.Book{ID: 1}))

	store := memory.NewStore()
	seedSession(t, store, "A", "R")
	client, _ := newTestClient(t, api, store)

	_, err := client.AddBook(context.Background(), librarysdk.BookInput{
		ID: 99, Title: "Dune", Author: "Frank Herbert", Category: "Sci-Fi", ISBN: "9780441013593", TotalCopies: 1,
	})
	require.NoError(t, err)

	_, _, body := seen.get()
	require.NotContains(t, body, "id")
}
