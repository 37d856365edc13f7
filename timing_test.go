package osudb

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/osudb/encoding"
	"github.com/arloliu/osudb/errs"
)

func bpmPoint(bpm, offset float64) TimingPoint {
	return TimingPoint{MsPerBeat: 60000 / bpm, Offset: offset}
}

func TestAnalyzeTempo(t *testing.T) {
	t.Run("single point", func(t *testing.T) {
		tempo := AnalyzeTempo([]TimingPoint{{MsPerBeat: 60000 / 160.375}}, 90000)
		require.InDelta(t, 160.375, tempo.Main, 1e-9)
		require.Equal(t, tempo.Main, tempo.Min)
		require.Equal(t, tempo.Main, tempo.Max)
		require.False(t, tempo.Variable)
	})

	t.Run("empty", func(t *testing.T) {
		require.Equal(t, Tempo{}, AnalyzeTempo(nil, 1000))
	})

	t.Run("only inherited points", func(t *testing.T) {
		points := []TimingPoint{{MsPerBeat: -100, Offset: 0, Inherited: true}}
		require.Equal(t, Tempo{}, AnalyzeTempo(points, 1000))
	})

	t.Run("inherited points are ignored", func(t *testing.T) {
		points := []TimingPoint{
			bpmPoint(150, 0),
			{MsPerBeat: -50, Offset: 100, Inherited: true},
		}
		tempo := AnalyzeTempo(points, 1000)
		require.False(t, tempo.Variable)
		require.InDelta(t, 150, tempo.Main, 1e-9)
	})

	t.Run("dominant tempo by duration", func(t *testing.T) {
		points := []TimingPoint{bpmPoint(120, 0), bpmPoint(180, 1000)}
		tempo := AnalyzeTempo(points, 10000)
		require.True(t, tempo.Variable)
		require.InDelta(t, 120, tempo.Min, 1e-9)
		require.InDelta(t, 180, tempo.Max, 1e-9)
		require.InDelta(t, 180, tempo.Main, 1e-9)
	})

	t.Run("durations accumulate per bpm", func(t *testing.T) {
		points := []TimingPoint{
			bpmPoint(100, 0),
			bpmPoint(150, 1000),
			bpmPoint(100, 2000),
			bpmPoint(150, 7000),
		}
		tempo := AnalyzeTempo(points, 8000)
		require.InDelta(t, 100, tempo.Main, 1e-9)
	})

	t.Run("tie resolves to the first bpm", func(t *testing.T) {
		points := []TimingPoint{bpmPoint(200, 0), bpmPoint(120, 5000)}
		tempo := AnalyzeTempo(points, 10000)
		require.InDelta(t, 200, tempo.Main, 1e-9)
	})

	t.Run("differences below epsilon are constant", func(t *testing.T) {
		points := []TimingPoint{bpmPoint(120, 0), bpmPoint(120.0005, 1000)}
		tempo := AnalyzeTempo(points, 100000)
		require.False(t, tempo.Variable)
		require.Equal(t, tempo.Max, tempo.Main)
	})
}

func TestReadTimingPoints(t *testing.T) {
	enc := encoding.NewEncoder()
	defer enc.Finish()
	enc.WriteUint32(2)
	enc.WriteFloat64(500)
	enc.WriteFloat64(0)
	enc.WriteBool(true) // stored as "not inherited"
	enc.WriteFloat64(-100)
	enc.WriteFloat64(250.5)
	enc.WriteBool(false)

	points, err := ReadTimingPoints(encoding.NewBytesDecoder(enc.Bytes()))
	require.NoError(t, err)
	require.Equal(t, []TimingPoint{
		{MsPerBeat: 500, Offset: 0, Inherited: false},
		{MsPerBeat: -100, Offset: 250.5, Inherited: true},
	}, points)
	require.InDelta(t, 120, points[0].BPM(), 1e-9)
}

func TestReadTimingPoints_Errors(t *testing.T) {
	t.Run("count exceeds input", func(t *testing.T) {
		data := []byte{0x10, 0, 0, 0, 1, 2, 3}
		_, err := ReadTimingPoints(encoding.NewBytesDecoder(data))
		require.ErrorIs(t, err, errs.ErrDeclaredLengthExceedsInput)
	})

	t.Run("truncated count", func(t *testing.T) {
		_, err := ReadTimingPoints(encoding.NewBytesDecoder([]byte{1, 0}))
		require.ErrorIs(t, err, errs.ErrUnexpectedEndOfInput)
	})
}

func TestWriteTimingPoints_RoundTrip(t *testing.T) {
	points := sampleBeatmap(1, "x").TimingPoints

	enc := encoding.NewEncoder()
	defer enc.Finish()
	require.NoError(t, WriteTimingPoints(enc, points))
	require.Equal(t, 4+len(points)*timingPointSize, enc.Len())

	got, err := ReadTimingPoints(encoding.NewBytesDecoder(enc.Bytes()))
	require.NoError(t, err)
	require.Equal(t, points, got)
}
