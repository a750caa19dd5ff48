//go:build integration

package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"sovereign/internal/platform/config"
	"sovereign/pkg/testutil/containers"
)

func TestNewConnectsAndReportsHealth(t *testing.T) {
	rc := containers.NewRedisContainer(t)
	ctx := context.Background()

	client, err := New(ctx, config.RedisConfig{
		URL:         rc.URL,
		PoolSize:    2,
		DialTimeout: 2 * time.Second,
	})
	require.NoError(t, err)
	require.NotNil(t, client)

	require.NoError(t, client.Health(ctx))
	require.NoError(t, client.Close())
	require.Error(t, client.Health(ctx))
}
