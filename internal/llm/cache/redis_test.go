package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/hotel-rates/internal/common"
)

func TestNewRedis_DisabledWithoutAddr(t *testing.T) {
	c, err := NewRedis(context.Background(), common.CacheConfig{}, nil)
	require.NoError(t, err)
	assert.Nil(t, c)
	assert.NoError(t, c.Close())
}

func TestNewRedis_UnreachableFails(t *testing.T) {
	_, err := NewRedis(context.Background(), common.CacheConfig{RedisAddr: "127.0.0.1:1"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis ping")
}
