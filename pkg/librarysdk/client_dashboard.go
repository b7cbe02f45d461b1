package librarysdk

import (
	"context"
	"net/http"
)

// CustomerDashboard returns the logged-in customer's rentals, badges and
// notifications. Employees are refused by the server.
func (c *Client) CustomerDashboard(ctx context.Context) (*CustomerDashboard, error) {
	var out CustomerDashboard
	if err := c.get(ctx, "dashboard/customer/", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// EmployeeDashboard returns rentals, returns awaiting approval and
// statistics. Customers are refused by the server.
func (c *Client) EmployeeDashboard(ctx context.Context) (*EmployeeDashboard, error) {
	var out EmployeeDashboard
	if err := c.get(ctx, "dashboard/employee/", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListBorrows returns the rental history visible to the caller.
func (c *Client) ListBorrows(ctx context.Context) ([]Borrow, error) {
	var out []Borrow
	if err := c.get(ctx, "borrows/", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListArticles(ctx context.Context) ([]Article, error) {
	var out []Article
	if err := c.get(ctx, "articles/", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, path string, target any) error {
	req, err := newRequest(http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	return c.call(ctx, req, target)
}
