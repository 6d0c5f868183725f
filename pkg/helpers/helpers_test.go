package helpers

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestJWTManager_RoundTrip(t *testing.T) {
	m := NewJWTManager("access", "refresh", time.Minute, time.Hour)

	tok, exp, err := m.GenerateAccessToken(42, "sid-1")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Minute), exp, 2*time.Second)

	claims, err := m.ParseAccessToken(tok)
	require.NoError(t, err)
	id, err := claims.IdentityID()
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
	assert.Equal(t, "sid-1", claims.SessionID)

	_, err = m.ParseRefreshToken(tok)
	assert.Error(t, err, "access token must not verify with the refresh secret")
}

func TestBcryptHasher(t *testing.T) {
	h := BcryptHasher{Cost: bcrypt.MinCost}
	hash, err := h.Hash("secret1")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", hash)
	assert.True(t, h.Compare(hash, "secret1"))
	assert.False(t, h.Compare(hash, "secret2"))
}

func TestGenToken_Unique(t *testing.T) {
	a, err := GenToken(32)
	require.NoError(t, err)
	b, err := GenToken(32)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
	assert.Len(t, a, 43)
}

func TestRedisIDHelpers(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := NewRedisClient(mr.Addr(), "", 0)
	ctx := context.Background()

	_, found, err := RedisGetID(ctx, rdb, KeyResetToken("missing"))
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, RedisSetID(ctx, rdb, KeyResetToken("abc"), 7, 30*time.Minute))
	id, found, err := RedisGetID(ctx, rdb, KeyResetToken("abc"))
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, int64(7), id)
	assert.Equal(t, 30*time.Minute, mr.TTL(KeyResetToken("abc")))

	require.NoError(t, RedisDel(ctx, rdb, KeyResetToken("abc")))
	_, found, _ = RedisGetID(ctx, rdb, KeyResetToken("abc"))
	assert.False(t, found)
}
