package librarysdk_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/aussiebroadwan/libris/internal/library/store/drivers/memory"
	"github.com/aussiebroadwan/libris/pkg/librarysdk"
	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

// fakeAPI is an httptest server with per-path call counters.
type fakeAPI struct {
	*httptest.Server
	mux *http.ServeMux

	mu    sync.Mutex
	calls map[string]*atomic.Int32
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()

	api := &fakeAPI{
		mux:   http.NewServeMux(),
		calls: make(map[string]*atomic.Int32),
	}
	api.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		api.counter(r.URL.Path).Add(1)
		api.mux.ServeHTTP(w, r)
	}))
	t.Cleanup(api.Close)
	return api
}

func (a *fakeAPI) counter(path string) *atomic.Int32 {
	a.mu.Lock()
	defer a.mu.Unlock()
	c, ok := a.calls[path]
	if !ok {
		c = &atomic.Int32{}
		a.calls[path] = c
	}
	return c
}

func (a *fakeAPI) Calls(path string) int { return int(a.counter(path).Load()) }

// Handle registers h for exactly path, not its subtree.
func (a *fakeAPI) Handle(path string, h http.HandlerFunc) { a.mux.HandleFunc(path+"{$}", h) }

// BaseURL mirrors the configured form, with the trailing slash.
func (a *fakeAPI) BaseURL() string { return a.URL + "/api/" }

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// bearerOnly accepts only the given access token and answers 401 otherwise.
func bearerOnly(token string, ok http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+token {
			writeJSON(w, http.StatusUnauthorized, map[string]string{
				"detail": "Given token not valid for any token type",
			})
			return
		}
		ok(w, r)
	}
}

func newTestClient(t *testing.T, api *fakeAPI, store librarysdk.TokenStore) (*librarysdk.Client, *librarysdk.Metrics) {
	t.Helper()

	client := librarysdk.NewClient(api.BaseURL(), store)
	client.Metrics = librarysdk.NewMetrics(prometheus.NewRegistry())
	return client, client.Metrics
}

func seedSession(t *testing.T, s librarysdk.TokenStore, access, refresh string) {
	t.Helper()
	ctx := context.Background()
	if access != "" {
		require.NoError(t, s.Set(ctx, librarysdk.KeyAccessToken, access))
	}
	if refresh != "" {
		require.NoError(t, s.Set(ctx, librarysdk.KeyRefreshToken, refresh))
	}
	require.NoError(t, s.Set(ctx, librarysdk.KeyUserRole, "customer"))
}

func requireCleared(t *testing.T, s librarysdk.TokenStore) {
	t.Helper()
	for _, key := range librarysdk.SessionKeys {
		v, err := s.Get(context.Background(), key)
		require.NoError(t, err)
		require.Empty(t, v, "key %s should be cleared", key)
	}
}

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

// hookStore runs afterSet once a key has been written.
type hookStore struct {
	*memory.Store
	afterSet func(key librarysdk.Key)
	failSet  librarysdk.Key
}

func (h *hookStore) Set(ctx context.Context, key librarysdk.Key, value string) error {
	if key == h.failSet {
		return librarysdk.ErrStoreUnavailable
	}
	if err := h.Store.Set(ctx, key, value); err != nil {
		return err
	}
	if h.afterSet != nil {
		h.afterSet(key)
	}
	return nil
}
