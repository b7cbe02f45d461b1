package librarysdk_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/aussiebroadwan/libris/internal/library/store/drivers/memory"
	"github.com/aussiebroadwan/libris/pkg/librarysdk"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func tokenHandler(t *testing.T, access, refresh string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body librarysdk.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body.Username != "alice" || body.Password != "secret" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{
				"detail": "No active account found with the given credentials",
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"access": access, "refresh": refresh})
	}
}

func TestLogin(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("stores both tokens and the claimed role", func(t *testing.T) {
		access := signedToken(t, jwt.MapClaims{"user_id": 7, "role": "employee"})

		api := newFakeAPI(t)
		api.Handle("/api/token/", tokenHandler(t, access, "R"))

		store := memory.NewStore()
		client, _ := newTestClient(t, api, store)
		session := client.Session()

		pair, err := session.Login(ctx, "alice", "secret")
		require.NoError(t, err)
		require.Equal(t, access, pair.Access)

		got, _ := store.Get(ctx, librarysdk.KeyAccessToken)
		require.Equal(t, access, got)
		got, _ = store.Get(ctx, librarysdk.KeyRefreshToken)
		require.Equal(t, "R", got)

		role, err := session.Role(ctx)
		require.NoError(t, err)
		require.Equal(t, librarysdk.RoleEmployee, role)
		require.True(t, session.IsAuthenticated(ctx))

		claims, err := session.Claims(ctx)
		require.NoError(t, err)
		require.Equal(t, "7", claims.Subject())
	})

	t.Run("token without role leaves the role unknown", func(t *testing.T) {
		access := signedToken(t, jwt.MapClaims{"user_id": 8})

		api := newFakeAPI(t)
		api.Handle("/api/token/", tokenHandler(t, access, "R"))

		store := memory.NewStore()
		require.NoError(t, store.Set(ctx, librarysdk.KeyUserRole, "employee"))
		client, _ := newTestClient(t, api, store)

		_, err := client.Session().Login(ctx, "alice", "secret")
		require.NoError(t, err)

		role, err := client.Session().Role(ctx)
		require.NoError(t, err)
		require.Equal(t, librarysdk.RoleUnknown, role)
	})

	t.Run("rejected credentials store nothing", func(t *testing.T) {
		api := newFakeAPI(t)
		api.Handle("/api/token/", tokenHandler(t, "A", "R"))

		store := memory.NewStore()
		client, _ := newTestClient(t, api, store)

		_, err := client.Session().Login(ctx, "alice", "wrong")
		require.ErrorIs(t, err, librarysdk.ErrUnauthorized)
		require.NotErrorIs(t, err, librarysdk.ErrSessionExpired)
		require.Equal(t, "No active account found with the given credentials", librarysdk.UserMessage(err, "Login failed"))

		require.Equal(t, 0, store.Len())
		require.Equal(t, 0, api.Calls("/api/token/refresh/"))
	})

	t.Run("empty fields never reach the server", func(t *testing.T) {
		api := newFakeAPI(t)
		client, _ := newTestClient(t, api, memory.NewStore())

		_, err := client.Session().Login(ctx, "alice", "")
		var valErr *librarysdk.ValidationError
		require.ErrorAs(t, err, &valErr)
		require.Equal(t, "password", valErr.Field)

		_, err = client.Session().Login(ctx, "  ", "secret")
		require.ErrorAs(t, err, &valErr)
		require.Equal(t, "username", valErr.Field)

		require.Equal(t, 0, api.Calls("/api/token/"))
	})

	t.Run("incomplete token response stores nothing", func(t *testing.T) {
		api := newFakeAPI(t)
		api.Handle("/api/token/", tokenHandler(t, "A", ""))

		store := memory.NewStore()
		client, _ := newTestClient(t, api, store)

		_, err := client.Session().Login(ctx, "alice", "secret")
		require.Error(t, err)
		require.Equal(t, 0, store.Len())
	})

	t.Run("failed refresh token write removes the access token", func(t *testing.T) {
		api := newFakeAPI(t)
		api.Handle("/api/token/", tokenHandler(t, "A", "R"))

		store := &hookStore{Store: memory.NewStore(), failSet: librarysdk.KeyRefreshToken}
		client, _ := newTestClient(t, api, store)

		_, err := client.Session().Login(ctx, "alice", "secret")
		require.ErrorIs(t, err, librarysdk.ErrStoreUnavailable)
		require.Equal(t, 0, store.Len())
	})
}

func TestRegister(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	valid := librarysdk.RegisterRequest{
		Username:        "bob",
		Email:           "bob@example.com",
		Password:        "hunter22",
		ConfirmPassword: "hunter22",
		FirstName:       "Bob",
	}

	t.Run("creates the account without logging in", func(t *testing.T) {
		api := newFakeAPI(t)
		api.Handle("/api/register/", func(w http.ResponseWriter, r *http.Request) {
			require.Empty(t, r.Header.Get("Authorization"))

			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			require.Equal(t, "bob", body["username"])
			require.NotContains(t, body, "confirm_password")
			require.NotContains(t, body, "ConfirmPassword")

			writeJSON(w, http.StatusCreated, map[string]any{"id": 3, "username": "bob", "email": "bob@example.com"})
		})

		store := memory.NewStore()
		client, _ := newTestClient(t, api, store)

		user, err := client.Session().Register(ctx, valid)
		require.NoError(t, err)
		require.Equal(t, int64(3), user.ID)
		require.False(t, client.Session().IsAuthenticated(ctx))
		require.Equal(t, 0, store.Len())
	})

	t.Run("client-side checks", func(t *testing.T) {
		api := newFakeAPI(t)
		client, _ := newTestClient(t, api, memory.NewStore())

		cases := []struct {
			name  string
			edit  func(*librarysdk.RegisterRequest)
			field string
		}{
			{"missing username", func(r *librarysdk.RegisterRequest) { r.Username = "" }, "username"},
			{"missing email", func(r *librarysdk.RegisterRequest) { r.Email = "" }, "email"},
			{"missing password", func(r *librarysdk.RegisterRequest) { r.Password = "" }, "password"},
			{"bad email", func(r *librarysdk.RegisterRequest) { r.Email = "bob.example.com" }, "email"},
			{"confirmation mismatch", func(r *librarysdk.RegisterRequest) { r.ConfirmPassword = "other" }, "confirm_password"},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				req := valid
				tc.edit(&req)

				_, err := client.Session().Register(ctx, req)
				var valErr *librarysdk.ValidationError
				require.ErrorAs(t, err, &valErr)
				require.Equal(t, tc.field, valErr.Field)
			})
		}

		require.Equal(t, 0, api.Calls("/api/register/"))
	})

	t.Run("server rejections are returned unmodified", func(t *testing.T) {
		api := newFakeAPI(t)
		api.Handle("/api/register/", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"username": []string{"A user with that username already exists."},
			})
		})
		client, _ := newTestClient(t, api, memory.NewStore())

		_, err := client.Session().Register(ctx, valid)
		var apiErr *librarysdk.APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
		require.Equal(t, []string{"A user with that username already exists."}, apiErr.Fields["username"])
		require.Equal(t, "username: A user with that username already exists.", apiErr.Message("fallback"))
	})
}

func TestLogout(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	api := newFakeAPI(t)
	store := memory.NewStore()
	seedSession(t, store, "A", "R")
	client, _ := newTestClient(t, api, store)
	session := client.Session()

	require.True(t, session.IsAuthenticated(ctx))
	require.NoError(t, session.Logout(ctx))
	requireCleared(t, store)
	require.False(t, session.IsAuthenticated(ctx))

	// Logging out twice is harmless.
	require.NoError(t, session.Logout(ctx))

	_, err := session.Claims(ctx)
	require.ErrorIs(t, err, librarysdk.ErrNotAuthenticated)
}

func TestSetRole(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	client, _ := newTestClient(t, newFakeAPI(t), memory.NewStore())
	session := client.Session()

	require.NoError(t, session.SetRole(ctx, librarysdk.RoleCustomer))
	role, err := session.Role(ctx)
	require.NoError(t, err)
	require.Equal(t, librarysdk.RoleCustomer, role)

	var valErr *librarysdk.ValidationError
	require.ErrorAs(t, session.SetRole(ctx, librarysdk.RoleUnknown), &valErr)
}

func TestUserMessage(t *testing.T) {
	t.Parallel()

	require.Empty(t, librarysdk.UserMessage(nil, "fallback"))
	require.Equal(t, "fallback", librarysdk.UserMessage(context.Canceled, "fallback"))
	require.Equal(t, "username is required",
		librarysdk.UserMessage(&librarysdk.ValidationError{Field: "username", Message: "username is required"}, "fallback"))
	require.Equal(t, "Your session has expired. Please log in again.",
		librarysdk.UserMessage(&librarysdk.SessionExpiredError{Cause: librarysdk.ErrNoRefreshToken}, "fallback"))
	require.Equal(t, "fallback",
		librarysdk.UserMessage(&librarysdk.APIError{StatusCode: http.StatusBadGateway}, "fallback"))
}
