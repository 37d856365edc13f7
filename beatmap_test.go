package osudb

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/osudb/encoding"
	"github.com/arloliu/osudb/errs"
	"github.com/arloliu/osudb/format"
)

const (
	legacyVersion   uint32 = 20150101
	envelopeVersion uint32 = format.EnvelopeVersion
)

func encodeBeatmap(t *testing.T, b *Beatmap, version uint32) []byte {
	t.Helper()

	enc := encoding.NewEncoder()
	defer enc.Finish()
	require.NoError(t, WriteBeatmap(enc, b, version))

	return append([]byte(nil), enc.Bytes()...)
}

func TestBeatmap_SchemaBranchesAreEquivalent(t *testing.T) {
	want := sampleBeatmap(1045580, "0123456789abcdef0123456789abcdef")

	legacy := encodeBeatmap(t, want, legacyVersion)
	enveloped := encodeBeatmap(t, want, envelopeVersion)

	// the envelope is a length prefix around the very same bytes
	require.Len(t, enveloped, len(legacy)+4)
	require.Equal(t, legacy, enveloped[4:])

	fromLegacy, err := ReadBeatmap(encoding.NewBytesDecoder(legacy), legacyVersion)
	require.NoError(t, err)
	fromEnvelope, err := ReadBeatmap(encoding.NewBytesDecoder(enveloped), envelopeVersion)
	require.NoError(t, err)

	require.Equal(t, want, fromLegacy)
	require.Equal(t, fromLegacy, fromEnvelope)
}

func TestBeatmap_DerivedValues(t *testing.T) {
	b, err := ReadBeatmap(encoding.NewBytesDecoder(encodeBeatmap(t, sampleBeatmap(1, "a"), envelopeVersion)), envelopeVersion)
	require.NoError(t, err)

	require.True(t, b.VariableBPM())
	require.InDelta(t, 120, b.BPMMin(), 1e-9)
	require.InDelta(t, 200, b.BPMMax(), 1e-9)
	// 120 and 200 are both active for 30s; the first one wins
	require.InDelta(t, 120, b.BPM(), 1e-9)

	status, ok := b.RankedStatus()
	require.True(t, ok)
	require.Equal(t, format.RankedStatusRanked, status)

	stars, err := b.Stars(format.GameModeStandard, format.ModHardRock|format.ModHidden)
	require.NoError(t, err)
	require.Equal(t, 7.64, stars)

	_, err = b.Stars(format.GameModeCatch, format.NoMods)
	require.ErrorIs(t, err, errs.ErrRatingNotFound)

	_, err = b.Stars(format.GameMode(9), format.NoMods)
	require.Error(t, err)

	require.Equal(t, "かめりあ", b.DisplayArtist())
	require.Equal(t, "Exit This Earth's Atomosphere", b.DisplayTitle())
}

func TestBeatmap_RankedStatusLayers(t *testing.T) {
	tests := []struct {
		raw    uint8
		status format.RankedStatus
		ok     bool
	}{
		{0, format.RankedStatusUnknown, true},
		{2, format.RankedStatusPending, true},
		{6, format.RankedStatusQualified, true},
		{3, format.RankedStatus(3), false},
		{7, format.RankedStatus(7), false},
		{0xFF, format.RankedStatus(0xFF), false},
	}
	for _, tt := range tests {
		b := &Beatmap{RankedStatusRaw: tt.raw}
		status, ok := b.RankedStatus()
		require.Equal(t, tt.status, status)
		require.Equal(t, tt.ok, ok, "raw %d", tt.raw)
	}
}

func TestBeatmap_MinimalRecordSize(t *testing.T) {
	data := encodeBeatmap(t, &Beatmap{}, legacyVersion)
	require.Len(t, data, minBeatmapSize)

	b, err := ReadBeatmap(encoding.NewBytesDecoder(data), legacyVersion)
	require.NoError(t, err)
	require.Equal(t, &Beatmap{TimingPoints: []TimingPoint{}}, b)
}

func TestBeatmap_EnvelopeSkipsTrailingData(t *testing.T) {
	want := sampleBeatmap(7, "b")
	legacy := encodeBeatmap(t, want, legacyVersion)

	enc := encoding.NewEncoder()
	defer enc.Finish()
	off := enc.BeginSection()
	enc.WriteRaw(legacy)
	enc.WriteRaw([]byte{0xDE, 0xAD, 0xBE, 0xEF})
	require.NoError(t, enc.EndSection(off))
	enc.WriteUint32(0x600D)

	dec := encoding.NewBytesDecoder(enc.Bytes())
	got, err := ReadBeatmap(dec, envelopeVersion)
	require.NoError(t, err)
	require.Equal(t, want, got)

	next, err := dec.ReadUint32()
	require.NoError(t, err)
	require.Equal(t, uint32(0x600D), next)
}

func TestBeatmap_EnvelopeBoundsTheRecord(t *testing.T) {
	legacy := encodeBeatmap(t, sampleBeatmap(7, "b"), legacyVersion)

	enc := encoding.NewEncoder()
	defer enc.Finish()
	enc.WriteUint32(uint32(len(legacy) - 1))
	enc.WriteRaw(legacy)

	_, err := ReadBeatmap(encoding.NewBytesDecoder(enc.Bytes()), envelopeVersion)
	require.ErrorIs(t, err, errs.ErrUnexpectedEndOfInput)
	require.Contains(t, err.Error(), "mania scroll speed")
}

func TestBeatmap_FieldErrorsNameTheField(t *testing.T) {
	legacy := encodeBeatmap(t, sampleBeatmap(7, "b"), legacyVersion)
	// first byte is the artist string marker
	legacy[0] = 0x0C

	_, err := ReadBeatmap(encoding.NewBytesDecoder(legacy), legacyVersion)
	require.ErrorIs(t, err, errs.ErrInvalidStringMarker)
	require.Contains(t, err.Error(), "field artist")
}

func TestBeatmap_TruncatedAnywhereFails(t *testing.T) {
	legacy := encodeBeatmap(t, sampleBeatmap(7, "b"), legacyVersion)

	for cut := 0; cut < len(legacy); cut += 7 {
		_, err := ReadBeatmap(encoding.NewBytesDecoder(legacy[:cut]), legacyVersion)
		require.Error(t, err, "cut at %d", cut)
	}
}
