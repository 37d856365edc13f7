package osudb

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/osudb/errs"
	"github.com/arloliu/osudb/format"
)

func sampleCollections() *Collections {
	return &Collections{
		Version: 20250107,
		Items: []Collection{
			{
				Name: format.Text("Tournament pool"),
				Hashes: []format.NullString{
					format.Text("fedcba9876543210fedcba9876543210"),
					format.Text("0123456789abcdef0123456789abcdef"),
					format.Text("ffffffffffffffffffffffffffffffff"),
				},
			},
			{Name: format.Text("empty"), Hashes: []format.NullString{}},
			{Name: format.NullString{}, Hashes: []format.NullString{{}}},
		},
	}
}

func TestCollections_RoundTrip(t *testing.T) {
	want := sampleCollections()

	data, err := EncodeCollections(want)
	require.NoError(t, err)

	got, err := DecodeCollections(data)
	require.NoError(t, err)
	require.Equal(t, want, got)

	streamed, err := ReadCollections(bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, want, streamed)

	again, err := EncodeCollections(got)
	require.NoError(t, err)
	require.Equal(t, data, again)
}

func TestCollections_HashOrderIsPreserved(t *testing.T) {
	data, err := EncodeCollections(sampleCollections())
	require.NoError(t, err)

	got, err := DecodeCollections(data)
	require.NoError(t, err)

	pool, ok := got.Find("Tournament pool")
	require.True(t, ok)
	require.Equal(t, "fedcba9876543210fedcba9876543210", pool.Hashes[0].String)
	require.Equal(t, "ffffffffffffffffffffffffffffffff", pool.Hashes[2].String)

	_, ok = got.Find("missing")
	require.False(t, ok)
}

func TestCollections_Errors(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		_, err := DecodeCollections(nil)
		require.ErrorIs(t, err, errs.ErrUnexpectedEndOfInput)
	})

	t.Run("count exceeds input", func(t *testing.T) {
		data := []byte{1, 0, 0, 0, 0xFF, 0xFF, 0, 0, 0x00}
		_, err := DecodeCollections(data)
		require.ErrorIs(t, err, errs.ErrDeclaredLengthExceedsInput)
	})

	t.Run("hash count exceeds input", func(t *testing.T) {
		data := []byte{1, 0, 0, 0, 1, 0, 0, 0, 0x00, 0x09, 0, 0, 0, 0x00}
		_, err := DecodeCollections(data)
		require.ErrorIs(t, err, errs.ErrDeclaredLengthExceedsInput)
		require.Contains(t, err.Error(), "collection 0")
	})

	t.Run("bad hash marker", func(t *testing.T) {
		data := []byte{1, 0, 0, 0, 1, 0, 0, 0, 0x00, 0x01, 0, 0, 0, 0x0A}
		_, err := DecodeCollections(data)
		require.ErrorIs(t, err, errs.ErrInvalidStringMarker)
	})
}
