package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRevocationList_Key(t *testing.T) {
	l := NewRevocationList(nil)
	assert.Equal(t, "revoked:abc", l.key("abc"))
}

func TestRevocationList_ExpiredTokenSkipsWrite(t *testing.T) {
	// a nil client would panic if Revoke tried to write
	l := &RevocationList{now: func() time.Time { return time.Unix(100, 0) }}
	require.NoError(t, l.Revoke(context.Background(), "abc", time.Unix(50, 0)))
}

func TestRevocationList_UnreachableServer(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond, MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	l := NewRevocationList(client)

	_, err := l.IsRevoked(context.Background(), "abc")
	assert.Error(t, err)
	assert.Error(t, l.Revoke(context.Background(), "abc", time.Now().Add(time.Hour)))
}
