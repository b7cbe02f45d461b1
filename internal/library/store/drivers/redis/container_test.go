package redis_test

import (
	"context"
	"os"
	"testing"

	redisstore "github.com/aussiebroadwan/libris/internal/library/store/drivers/redis"
	"github.com/aussiebroadwan/libris/pkg/librarysdk"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestRedisStoreAgainstRealRedis runs the driver against a real Redis in a
// container. It needs Docker, so it only runs when LIBRARY_E2E=1.
func TestRedisStoreAgainstRealRedis(t *testing.T) {
	if os.Getenv("LIBRARY_E2E") != "1" {
		t.Skip("set LIBRARY_E2E=1 to run container tests")
	}

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForListeningPort("6379/tcp"),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)

	s, err := redisstore.Dial(ctx, endpoint, "e2e")
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Set(ctx, librarysdk.KeyUserRole, "customer"))
	v, err := s.Get(ctx, librarysdk.KeyUserRole)
	require.NoError(t, err)
	require.Equal(t, "customer", v)

	require.NoError(t, librarysdk.ClearSession(ctx, s))
	v, err = s.Get(ctx, librarysdk.KeyUserRole)
	require.NoError(t, err)
	require.Empty(t, v)
}
