package osudb

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/osudb/errs"
	"github.com/arloliu/osudb/format"
)

func TestOpenDatabase_Compressed(t *testing.T) {
	dir := t.TempDir()
	want := sampleDatabase(envelopeVersion)

	for _, name := range []string{"osu!.db", "osu!.db.zst", "osu!.db.s2", "osu!.db.lz4"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, SaveDatabase(path, want))

			got, err := OpenDatabase(path)
			require.NoError(t, err)
			require.Equal(t, want, got)
		})
	}

	plain, err := os.ReadFile(filepath.Join(dir, "osu!.db"))
	require.NoError(t, err)
	packed, err := os.ReadFile(filepath.Join(dir, "osu!.db.zst"))
	require.NoError(t, err)
	require.NotEqual(t, plain, packed)
}

func TestOpenDatabase_CompressionOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backup.bin")
	want := sampleDatabase(legacyVersion)

	require.NoError(t, SaveDatabase(path, want, WithCompression(format.CompressionLZ4)))

	_, err := OpenDatabase(path, WithCompression(format.CompressionZstd))
	require.Error(t, err, "lz4 content is not a zstd frame")

	got, err := OpenDatabase(path, WithCompression(format.CompressionLZ4))
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestOpenCollections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "collection.db.zst")
	want := sampleCollections()

	require.NoError(t, SaveCollections(path, want))
	got, err := OpenCollections(path)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestOpen_Errors(t *testing.T) {
	_, err := OpenDatabase(filepath.Join(t.TempDir(), "missing.db"))
	require.ErrorIs(t, err, os.ErrNotExist)

	_, err = OpenDatabase("osu!.db", WithCompression(format.CompressionType(0x7F)))
	require.ErrorIs(t, err, errs.ErrUnsupportedCompression)
}

func TestSaveDatabase_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, SaveDatabase(filepath.Join(dir, "osu!.db"), sampleDatabase(envelopeVersion)))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}
