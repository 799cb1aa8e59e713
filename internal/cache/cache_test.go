package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	m := NewMemory()
	m.now = func() time.Time { return now }

	require.NoError(t, m.Set(ctx, "k", "v", time.Minute))
	v, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", v)

	now = now.Add(time.Minute)
	_, err = m.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestMemorySweepDropsExpiredEntries(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	m := NewMemory()
	m.now = func() time.Time { return now }

	_ = m.Set(ctx, "revoked:a", "1", time.Minute)
	_ = m.Set(ctx, "revoked:b", "1", time.Hour)
	_ = m.Set(ctx, "pinned", "1", 0)

	now = now.Add(2 * time.Minute)

	assert.Equal(t, 1, m.Sweep())
	assert.Equal(t, 2, m.Len())
	_, err := m.Get(ctx, "revoked:b")
	assert.NoError(t, err)
}

func TestMemorySweeperRunsUntilStopped(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	_ = m.Set(ctx, "revoked:a", "1", time.Millisecond)

	stop := m.StartSweeper(5 * time.Millisecond)
	defer stop()

	assert.Eventually(t, func() bool { return m.Len() == 0 }, time.Second, 5*time.Millisecond)

	stop()
	stop()
}

func TestMemoryDeletePrefix(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	_ = m.Set(ctx, "avail:1:2026-10-18", "a", 0)
	_ = m.Set(ctx, "avail:1:2026-10-19", "b", 0)
	_ = m.Set(ctx, "avail:12:2026-10-18", "c", 0)

	require.NoError(t, m.DeletePrefix(ctx, "avail:1:"))

	_, err := m.Get(ctx, "avail:1:2026-10-18")
	assert.ErrorIs(t, err, ErrMiss)
	v, err := m.Get(ctx, "avail:12:2026-10-18")
	require.NoError(t, err)
	assert.Equal(t, "c", v)
}

func TestNopAlwaysMisses(t *testing.T) {
	ctx := context.Background()
	require.NoError(t, Nop{}.Set(ctx, "k", "v", time.Hour))
	_, err := Nop{}.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestAvailabilityRoundTripAndInvalidate(t *testing.T) {
	ctx := context.Background()
	a := NewAvailability(NewMemory(), time.Minute, nil)

	a.Set(ctx, 1, "2026-10-19", []string{"08:00", "08:30"})
	a.Set(ctx, 1, "2026-10-20", []string{"09:00"})
	a.Set(ctx, 2, "2026-10-19", []string{"10:00"})

	slots, ok := a.Get(ctx, 1, "2026-10-19")
	require.True(t, ok)
	assert.Equal(t, []string{"08:00", "08:30"}, slots)

	a.Invalidate(ctx, 1, "2026-10-19")
	_, ok = a.Get(ctx, 1, "2026-10-19")
	assert.False(t, ok)

	a.InvalidateBranch(ctx, 1)
	_, ok = a.Get(ctx, 1, "2026-10-20")
	assert.False(t, ok)
	_, ok = a.Get(ctx, 2, "2026-10-19")
	assert.True(t, ok)
}
