package osudb

import (
	"fmt"

	"github.com/arloliu/osudb/encoding"
)

// timingPointSize is the encoded size of one timing point.
const timingPointSize = 8 + 8 + 1

// variableTempoEpsilon guards the min/max comparison against float noise.
const variableTempoEpsilon = 0.001

// TimingPoint is a tempo change marker.
type TimingPoint struct {
	MsPerBeat float64 `json:"ms_per_beat"`
	Offset    float64 `json:"offset"`
	// Inherited points only change slider velocity and carry no tempo of
	// their own. The file stores the negation of this flag.
	Inherited bool `json:"inherited"`
}

// BPM returns the tempo defined by the point.
func (p TimingPoint) BPM() float64 {
	return 60000 / p.MsPerBeat
}

// Tempo is the tempo classification of a beatmap.
type Tempo struct {
	Min float64 `json:"bpm_min"`
	Max float64 `json:"bpm_max"`
	// Main is the dominant tempo: the bpm that is active for the longest
	// time. It equals Max when the tempo is constant.
	Main     float64 `json:"bpm"`
	Variable bool    `json:"variable_bpm"`
}

// AnalyzeTempo classifies the tempo of a timing point sequence.
//
// Only non-inherited points take part. totalTime is the song length in
// milliseconds; the last point is considered active until then. When two
// bpm values are active for the same accumulated time the one that appears
// first wins.
func AnalyzeTempo(points []TimingPoint, totalTime float64) Tempo {
	var (
		tempo Tempo
		count int
	)
	for _, p := range points {
		if p.Inherited {
			continue
		}
		bpm := p.BPM()
		if count == 0 || bpm < tempo.Min {
			tempo.Min = bpm
		}
		if count == 0 || bpm > tempo.Max {
			tempo.Max = bpm
		}
		count++
	}

	tempo.Variable = tempo.Max-tempo.Min >= variableTempoEpsilon
	if !tempo.Variable || count == 1 {
		tempo.Main = tempo.Max
		return tempo
	}
	tempo.Main = dominantBPM(points, totalTime)

	return tempo
}

type bpmDuration struct {
	bpm      float64
	duration float64
}

func dominantBPM(points []TimingPoint, totalTime float64) float64 {
	var (
		durations []bpmDuration
		prev      *TimingPoint
	)
	add := func(bpm, d float64) {
		for i := range durations {
			if durations[i].bpm == bpm {
				durations[i].duration += d
				return
			}
		}
		durations = append(durations, bpmDuration{bpm: bpm, duration: d})
	}

	for i := range points {
		p := &points[i]
		if p.Inherited {
			continue
		}
		if prev != nil {
			add(prev.BPM(), p.Offset-prev.Offset)
		}
		prev = p
	}
	add(prev.BPM(), totalTime-prev.Offset)

	best := durations[0]
	for _, d := range durations[1:] {
		if d.duration > best.duration {
			best = d
		}
	}

	return best.bpm
}

// ReadTimingPoints decodes a u32 count followed by that many timing points.
func ReadTimingPoints(dec *encoding.Decoder) ([]TimingPoint, error) {
	count, err := dec.ReadCount(timingPointSize)
	if err != nil {
		return nil, fmt.Errorf("timing point count: %w", err)
	}

	points := make([]TimingPoint, 0, dec.CapacityFor(count))
	for i := range count {
		var p TimingPoint
		if p.MsPerBeat, err = dec.ReadFloat64(); err != nil {
			return nil, fmt.Errorf("timing point %d: %w", i, err)
		}
		if p.Offset, err = dec.ReadFloat64(); err != nil {
			return nil, fmt.Errorf("timing point %d: %w", i, err)
		}
		uninherited, err := dec.ReadBool()
		if err != nil {
			return nil, fmt.Errorf("timing point %d: %w", i, err)
		}
		p.Inherited = !uninherited
		points = append(points, p)
	}

	return points, nil
}

// WriteTimingPoints is the mirror of ReadTimingPoints.
func WriteTimingPoints(enc *encoding.Encoder, points []TimingPoint) error {
	if err := enc.WriteCount(len(points)); err != nil {
		return fmt.Errorf("timing point count: %w", err)
	}
	for _, p := range points {
		enc.WriteFloat64(p.MsPerBeat)
		enc.WriteFloat64(p.Offset)
		enc.WriteBool(!p.Inherited)
	}

	return nil
}
