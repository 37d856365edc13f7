package collision

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/osudb/errs"
)

func TestNewTracker(t *testing.T) {
	tracker := NewTracker(16)

	require.NotNil(t, tracker)
	require.Zero(t, tracker.Count())
	require.False(t, tracker.HasCollision())
	require.Empty(t, tracker.Duplicates())
}

func TestTracker_Track(t *testing.T) {
	tracker := NewTracker(0)

	require.NoError(t, tracker.Track("0123456789abcdef0123456789abcdef", 0x1))
	require.NoError(t, tracker.Track("fedcba9876543210fedcba9876543210", 0x2))
	require.Equal(t, 2, tracker.Count())
	require.Equal(t, 2, tracker.Distinct())
	require.False(t, tracker.HasCollision())
}

func TestTracker_MissingHash(t *testing.T) {
	tracker := NewTracker(0)

	require.ErrorIs(t, tracker.Track("", 0x1), errs.ErrMissingHash)
	require.Zero(t, tracker.Count())
}

func TestTracker_Collision(t *testing.T) {
	tracker := NewTracker(0)

	require.NoError(t, tracker.Track("aaaa", 0xABCD))
	err := tracker.Track("bbbb", 0xABCD)
	require.ErrorIs(t, err, errs.ErrHashCollision)
	require.True(t, tracker.HasCollision())
	require.Equal(t, 1, tracker.Collisions())
	require.Equal(t, 2, tracker.Distinct())

	// a digest already on a shared key is a duplicate, not a new collision
	require.ErrorIs(t, tracker.Track("bbbb", 0xABCD), errs.ErrDuplicateBeatmap)
	require.Equal(t, 1, tracker.Collisions())
}

func TestTracker_Duplicates(t *testing.T) {
	tracker := NewTracker(0)

	require.NoError(t, tracker.Track("aaaa", 0x1))
	require.ErrorIs(t, tracker.Track("aaaa", 0x1), errs.ErrDuplicateBeatmap)
	require.ErrorIs(t, tracker.Track("aaaa", 0x1), errs.ErrDuplicateBeatmap)
	require.NoError(t, tracker.Track("cccc", 0x2))

	require.Equal(t, map[string]int{"aaaa": 2}, tracker.Duplicates())
	require.Equal(t, 2, tracker.DuplicateCount())
	require.Equal(t, 4, tracker.Count())
	require.Equal(t, 2, tracker.Distinct())
	require.False(t, tracker.HasCollision())
}

func TestTracker_Reset(t *testing.T) {
	tracker := NewTracker(0)
	require.NoError(t, tracker.Track("aaaa", 0x1))
	require.Error(t, tracker.Track("bbbb", 0x1))

	tracker.Reset()
	require.Zero(t, tracker.Count())
	require.False(t, tracker.HasCollision())
	require.NoError(t, tracker.Track("bbbb", 0x1))
}
