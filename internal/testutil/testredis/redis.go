// Package testredis runs a Redis testcontainer for limiter integration tests.
package testredis

import (
	"context"
	"sync"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

var (
	sharedContainer *RedisContainer
	sharedErr       error
	sharedOnce      sync.Once
)

type RedisContainer struct {
	Container testcontainers.Container
	URL       string
}

// SetupSharedRedis starts one Redis container per test binary. Tests are
// skipped in -short mode or when no container runtime is reachable.
func SetupSharedRedis(t *testing.T) *RedisContainer {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping redis integration test in short mode")
	}

	testcontainers.SkipIfProviderIsNotHealthy(t)

	sharedOnce.Do(func() {
		ctx := context.Background()

		req := testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		}

		redisContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
			ContainerRequest: req,
			Started:          true,
		})
		if err != nil {
			sharedErr = err
			return
		}

		host, err := redisContainer.Host(ctx)
		if err != nil {
			sharedErr = err
			return
		}

		port, err := redisContainer.MappedPort(ctx, "6379")
		if err != nil {
			sharedErr = err
			return
		}

		sharedContainer = &RedisContainer{
			Container: redisContainer,
			URL:       "redis://" + host + ":" + port.Port() + "/0",
		}
	})

	if sharedErr != nil {
		t.Skipf("redis container unavailable: %v", sharedErr)
	}
	return sharedContainer
}

func (rc *RedisContainer) Cleanup(t *testing.T) {
	t.Helper()
	ctx := context.Background()

	if rc.Container != nil {
		if err := rc.Container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}
}

// Client returns a client that flushes the database when the test ends.
func (rc *RedisContainer) Client(t *testing.T) *redis.Client {
	t.Helper()

	opts, err := redis.ParseURL(rc.URL)
	require.NoError(t, err)

	client := redis.NewClient(opts)
	require.NoError(t, client.Ping(context.Background()).Err())

	t.Cleanup(func() {
		client.FlushDB(context.Background())
		client.Close()
	})

	return client
}
