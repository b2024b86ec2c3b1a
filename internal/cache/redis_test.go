package cache

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devconnect/internal/observability"
)

func TestInitRedis_Connects(t *testing.T) {
	mr := miniredis.RunT(t)

	InitRedis(mr.Addr())
	t.Cleanup(func() { _ = Close() })

	rdb := GetClient()
	require.NotNil(t, rdb)
	require.NoError(t, rdb.Set(context.Background(), "k", "v", 0).Err())
	mr.CheckGet(t, "k", "v")
}

func TestInitRedis_URL(t *testing.T) {
	mr := miniredis.RunT(t)

	InitRedis("redis://" + mr.Addr() + "/0")
	t.Cleanup(func() { _ = Close() })

	assert.NotNil(t, GetClient())
}

func TestInitRedis_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	InitRedis(addr)
	assert.Nil(t, GetClient())
	assert.NoError(t, Close())
}

func TestNewClient_InvalidURL(t *testing.T) {
	_, err := NewClient("redis://:bad url")
	assert.Error(t, err)
}

func TestMetricsHook_CountsErrors(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb, err := NewClient(mr.Addr())
	require.NoError(t, err)
	defer rdb.Close()

	require.NoError(t, rdb.Set(context.Background(), "str", "x", 0).Err())
	before := testutil.ToFloat64(observability.RedisErrors.WithLabelValues("incr"))

	// INCR on a non-integer value fails server side.
	assert.Error(t, rdb.Incr(context.Background(), "str").Err())
	assert.Equal(t, before+1, testutil.ToFloat64(observability.RedisErrors.WithLabelValues("incr")))

	// A missing key is not an error.
	before = testutil.ToFloat64(observability.RedisErrors.WithLabelValues("get"))
	_ = rdb.Get(context.Background(), "missing").Err()
	assert.Equal(t, before, testutil.ToFloat64(observability.RedisErrors.WithLabelValues("get")))
}
