package options

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type decodeSettings struct {
	level   string
	limit   int
	applied []string
}

var errNegativeLimit = errors.New("limit cannot be negative")

func withLevel(level string) Option[*decodeSettings] {
	return NoError(func(s *decodeSettings) {
		s.level = level
		s.applied = append(s.applied, "level")
	})
}

func withLimit(limit int) Option[*decodeSettings] {
	return New(func(s *decodeSettings) error {
		if limit < 0 {
			return errNegativeLimit
		}
		s.limit = limit
		s.applied = append(s.applied, "limit")

		return nil
	})
}

func TestApply_InOrder(t *testing.T) {
	s := &decodeSettings{}
	err := Apply(s, withLimit(10), withLevel("debug"), withLimit(20))
	require.NoError(t, err)
	require.Equal(t, 20, s.limit, "later options override earlier ones")
	require.Equal(t, "debug", s.level)
	require.Equal(t, []string{"limit", "level", "limit"}, s.applied)
}

func TestApply_StopsAtFirstError(t *testing.T) {
	s := &decodeSettings{}
	err := Apply(s, withLevel("warn"), withLimit(-1), withLimit(5))
	require.ErrorIs(t, err, errNegativeLimit)
	require.Contains(t, err.Error(), "option 1")
	require.Equal(t, []string{"level"}, s.applied)
	require.Zero(t, s.limit)
}

func TestApply_SkipsNil(t *testing.T) {
	s := &decodeSettings{}
	require.NoError(t, Apply(s, nil, withLevel("info"), nil))
	require.Equal(t, "info", s.level)
}

func TestApply_NoOptions(t *testing.T) {
	s := &decodeSettings{}
	require.NoError(t, Apply(s))
	require.Empty(t, s.applied)
}
