package librarysdk

import (
	"context"
	"errors"
	"fmt"
)

// Refresh outcomes recorded by Metrics.
const (
	refreshSuccess = "success"
	refreshFailure = "failure"
	refreshReused  = "reused"
	refreshCleared = "cleared"
)

// refresh obtains a new access token after a 401 on a request sent with
// stale. Concurrent callers share one in-flight refresh, and a failed
// refresh clears the session once for all of them. The refresh ignores the
// caller's cancellation; the HTTP client timeout bounds it.
func (c *Client) refresh(ctx context.Context, stale string) error {
	_, err, _ := c.refreshGroup.Do("refresh", func() (any, error) {
		ctx := context.WithoutCancel(ctx)
		err := c.refreshOnce(ctx, stale)
		if err != nil && !errors.Is(err, ErrSessionCleared) {
			c.expireSession(ctx, err)
		}
		return nil, err
	})
	return err
}

func (c *Client) refreshOnce(ctx context.Context, stale string) error {
	current, err := c.Store.Get(ctx, KeyAccessToken)
	if err != nil {
		c.Metrics.refreshed(refreshFailure)
		return fmt.Errorf("failed to read access token: %w", err)
	}
	if current != stale {
		// Someone else already replaced the rejected token, or logged out.
		if current == "" {
			c.Metrics.refreshed(refreshCleared)
			return ErrSessionCleared
		}
		c.Metrics.refreshed(refreshReused)
		return nil
	}

	refreshToken, err := c.Store.Get(ctx, KeyRefreshToken)
	if err != nil {
		c.Metrics.refreshed(refreshFailure)
		return fmt.Errorf("failed to read refresh token: %w", err)
	}
	if refreshToken == "" {
		c.Metrics.refreshed(refreshFailure)
		return ErrNoRefreshToken
	}

	pair, err := c.RefreshGrant(ctx, refreshToken)
	if err != nil {
		c.Metrics.refreshed(refreshFailure)
		return err
	}

	// A logout or login during the grant wins over these tokens.
	if err := c.sessionUnchanged(ctx, refreshToken); err != nil {
		return err
	}

	if err := c.Store.Set(ctx, KeyAccessToken, pair.Access); err != nil {
		c.Metrics.refreshed(refreshFailure)
		return fmt.Errorf("failed to store access token: %w", err)
	}
	if err := c.sessionUnchanged(ctx, refreshToken); err != nil {
		if errors.Is(err, ErrSessionCleared) {
			_ = c.Store.Remove(ctx, KeyAccessToken)
		}
		return err
	}

	if pair.Refresh != "" {
		if err := c.Store.Set(ctx, KeyRefreshToken, pair.Refresh); err != nil {
			c.Metrics.refreshed(refreshFailure)
			return fmt.Errorf("failed to store refresh token: %w", err)
		}
	}

	c.Metrics.refreshed(refreshSuccess)
	c.logger().DebugContext(ctx, "access_token_refreshed", "rotated", pair.Refresh != "")
	return nil
}

// sessionUnchanged reports ErrSessionCleared when the stored refresh token
// is no longer the one that was exchanged.
func (c *Client) sessionUnchanged(ctx context.Context, sent string) error {
	stored, err := c.Store.Get(ctx, KeyRefreshToken)
	if err != nil {
		c.Metrics.refreshed(refreshFailure)
		return fmt.Errorf("failed to read refresh token: %w", err)
	}
	if stored != sent {
		c.Metrics.refreshed(refreshCleared)
		c.logger().InfoContext(ctx, "refresh_discarded", "reason", "session_replaced")
		return ErrSessionCleared
	}
	return nil
}

// expireSession clears every stored session value after a failed refresh.
func (c *Client) expireSession(ctx context.Context, cause error) {
	c.Metrics.forcedLogout()

	logger := c.logger()
	if err := ClearSession(context.WithoutCancel(ctx), c.Store); err != nil {
		logger.ErrorContext(ctx, "session_clear_failed", "error", err)
	}

	reason := "refresh_failed"
	if errors.Is(cause, ErrNoRefreshToken) {
		reason = "refresh_token_missing"
	}
	logger.WarnContext(ctx, "session_expired", "reason", reason, "error", cause)
}
