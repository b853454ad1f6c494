package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRevokerExpires(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m := NewMemoryRevoker()
	m.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, m.Revoke(ctx, "a", now.Add(time.Minute)))
	require.NoError(t, m.Revoke(ctx, "b", now.Add(time.Hour)))

	revoked, err := m.IsRevoked(ctx, "a")
	require.NoError(t, err)
	assert.True(t, revoked)

	now = now.Add(10 * time.Minute)
	assert.Equal(t, 1, m.Purge())
	assert.Equal(t, 1, m.Len())

	revoked, _ = m.IsRevoked(ctx, "a")
	assert.False(t, revoked)
	revoked, _ = m.IsRevoked(ctx, "b")
	assert.True(t, revoked)
}

func TestMemoryRevokerJanitorSpec(t *testing.T) {
	m := NewMemoryRevoker()
	assert.Error(t, m.StartJanitor("not a spec"))

	require.NoError(t, m.StartJanitor("@every 1h"))
	m.Stop()
}
