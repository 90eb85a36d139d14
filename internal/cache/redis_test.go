package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHelpersDegradeWithoutClient(t *testing.T) {
	Close()
	ctx := context.Background()

	SetCached(ctx, DashboardPrefix+"x", []byte("v"), time.Minute)
	_, ok := GetCached(ctx, DashboardPrefix+"x")
	assert.False(t, ok)

	InvalidateDashboardCaches(ctx)
	assert.NoError(t, Ping(ctx))
	assert.False(t, IsHealthy())
	assert.Nil(t, GetClient())
}

func TestInitFailsOnUnreachableServer(t *testing.T) {
	err := Init("127.0.0.1:1", "", 0)
	assert.Error(t, err)
	assert.Nil(t, GetClient())
}
