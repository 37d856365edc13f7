package osudb

import (
	"fmt"

	"github.com/arloliu/osudb/encoding"
	"github.com/arloliu/osudb/format"
)

// minBeatmapSize is the smallest possible encoding of a beatmap record:
// every string absent, no star ratings and no timing points.
const minBeatmapSize = 137

// Beatmap is one difficulty of a song as recorded in osu!.db.
//
// Timestamps are .NET ticks (see format.TicksToTime) kept as the raw
// unsigned value.
type Beatmap struct {
	Artist        format.NullString `json:"artist"`
	ArtistUnicode format.NullString `json:"artist_unicode"`
	Title         format.NullString `json:"title"`
	TitleUnicode  format.NullString `json:"title_unicode"`
	Creator       format.NullString `json:"creator"`
	Difficulty    format.NullString `json:"difficulty"`
	AudioFile     format.NullString `json:"audio_file"`
	MD5           format.NullString `json:"md5"`
	OsuFile       format.NullString `json:"osu_file"`

	// RankedStatusRaw is the status byte as stored; see RankedStatus.
	RankedStatusRaw uint8 `json:"ranked_status"`

	HitCircles   uint16 `json:"hit_circles"`
	Sliders      uint16 `json:"sliders"`
	Spinners     uint16 `json:"spinners"`
	LastModified uint64 `json:"last_modified"`

	ApproachRate      float32 `json:"ar"`
	CircleSize        float32 `json:"cs"`
	HPDrain           float32 `json:"hp"`
	OverallDifficulty float32 `json:"od"`
	SliderVelocity    float64 `json:"slider_velocity"`

	// StarRatings is indexed by format.GameMode; nil entries have no data.
	StarRatings [4]*StarRatings `json:"star_ratings"`

	DrainTime    uint32        `json:"drain_time_s"`
	TotalTime    uint32        `json:"total_time_ms"`
	PreviewTime  uint32        `json:"preview_time_ms"`
	TimingPoints []TimingPoint `json:"timing_points"`

	BeatmapID    uint32 `json:"beatmap_id"`
	BeatmapSetID uint32 `json:"beatmapset_id"`
	ThreadID     uint32 `json:"thread_id"`

	// Grades is indexed by format.GameMode.
	Grades        [4]format.Grade `json:"grades"`
	LocalOffset   uint16          `json:"local_offset"`
	StackLeniency float32         `json:"stack_leniency"`
	Mode          format.GameMode `json:"mode"`

	Source       format.NullString `json:"source"`
	Tags         format.NullString `json:"tags"`
	OnlineOffset uint16            `json:"online_offset"`
	TitleFont    format.NullString `json:"title_font"`

	Unplayed    bool              `json:"unplayed"`
	LastPlayed  uint64            `json:"last_played"`
	OSZ2        bool              `json:"osz2"`
	FolderName  format.NullString `json:"folder_name"`
	LastChecked uint64            `json:"last_checked"`

	IgnoreSounds      bool `json:"ignore_sounds"`
	IgnoreSkin        bool `json:"ignore_skin"`
	DisableStoryboard bool `json:"disable_storyboard"`
	DisableVideo      bool `json:"disable_video"`
	VisualOverride    bool `json:"visual_override"`

	LastModified2    uint32 `json:"last_modified2"`
	ManiaScrollSpeed uint8  `json:"mania_scroll_speed"`

	// Tempo is derived from TimingPoints and TotalTime by ReadBeatmap; it is
	// not part of the encoding.
	Tempo Tempo `json:"tempo"`
}

// BPM returns the dominant tempo.
func (b *Beatmap) BPM() float64 { return b.Tempo.Main }

// BPMMin returns the lowest tempo.
func (b *Beatmap) BPMMin() float64 { return b.Tempo.Min }

// BPMMax returns the highest tempo.
func (b *Beatmap) BPMMax() float64 { return b.Tempo.Max }

// VariableBPM reports whether the tempo changes during the song.
func (b *Beatmap) VariableBPM() bool { return b.Tempo.Variable }

// RankedStatus maps the raw status byte to the closed enumeration. ok is
// false for bytes this package does not know, which is distinct from
// format.RankedStatusUnknown (a status the game itself has not determined).
func (b *Beatmap) RankedStatus() (status format.RankedStatus, ok bool) {
	status = format.RankedStatus(b.RankedStatusRaw)
	return status, status.Valid()
}

// Stars returns the star rating for a game mode and mod combination.
func (b *Beatmap) Stars(mode format.GameMode, mods format.Mods) (float64, error) {
	if !mode.Valid() {
		return 0, fmt.Errorf("invalid game mode %s", mode)
	}

	return b.StarRatings[mode].For(mods)
}

// DisplayArtist prefers the Unicode artist name when present.
func (b *Beatmap) DisplayArtist() string {
	if b.ArtistUnicode.Valid && b.ArtistUnicode.String != "" {
		return b.ArtistUnicode.String
	}

	return b.Artist.String
}

// DisplayTitle prefers the Unicode title when present.
func (b *Beatmap) DisplayTitle() string {
	if b.TitleUnicode.Valid && b.TitleUnicode.String != "" {
		return b.TitleUnicode.String
	}

	return b.Title.String
}

// ReadBeatmap decodes one beatmap record written by a client of the given
// format version.
//
// From format.EnvelopeVersion on, every record is prefixed with its byte
// length; the record is decoded from exactly that many bytes and any bytes
// it does not understand are skipped. Older files store the same fields
// inline.
func ReadBeatmap(dec *encoding.Decoder, version uint32) (*Beatmap, error) {
	if version < format.EnvelopeVersion {
		return readBeatmapFields(dec)
	}

	inner, sec, err := dec.Section()
	if err != nil {
		return nil, fmt.Errorf("beatmap envelope: %w", err)
	}
	b, err := readBeatmapFields(inner)
	if closeErr := sec.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("beatmap envelope: %w", closeErr)
	}
	if err != nil {
		return nil, err
	}

	return b, nil
}

func readBeatmapFields(dec *encoding.Decoder) (*Beatmap, error) {
	b := &Beatmap{}
	r := fieldReader{dec: dec}

	r.str("artist", &b.Artist)
	r.str("artist unicode", &b.ArtistUnicode)
	r.str("title", &b.Title)
	r.str("title unicode", &b.TitleUnicode)
	r.str("creator", &b.Creator)
	r.str("difficulty", &b.Difficulty)
	r.str("audio file", &b.AudioFile)
	r.str("md5", &b.MD5)
	r.str("osu file", &b.OsuFile)
	r.u8("ranked status", &b.RankedStatusRaw)
	r.u16("hit circles", &b.HitCircles)
	r.u16("sliders", &b.Sliders)
	r.u16("spinners", &b.Spinners)
	r.u64("last modified", &b.LastModified)
	r.f32("approach rate", &b.ApproachRate)
	r.f32("circle size", &b.CircleSize)
	r.f32("hp drain", &b.HPDrain)
	r.f32("overall difficulty", &b.OverallDifficulty)
	r.f64("slider velocity", &b.SliderVelocity)
	for _, mode := range format.GameModes {
		r.stars(mode, &b.StarRatings[mode])
	}
	r.u32("drain time", &b.DrainTime)
	r.u32("total time", &b.TotalTime)
	r.u32("preview time", &b.PreviewTime)
	r.timing(&b.TimingPoints)
	r.u32("beatmap id", &b.BeatmapID)
	r.u32("beatmap set id", &b.BeatmapSetID)
	r.u32("thread id", &b.ThreadID)
	for _, mode := range format.GameModes {
		r.u8("grade "+mode.String(), (*uint8)(&b.Grades[mode]))
	}
	r.u16("local offset", &b.LocalOffset)
	r.f32("stack leniency", &b.StackLeniency)
	r.u8("mode", (*uint8)(&b.Mode))
	r.str("source", &b.Source)
	r.str("tags", &b.Tags)
	r.u16("online offset", &b.OnlineOffset)
	r.str("title font", &b.TitleFont)
	r.boolean("unplayed", &b.Unplayed)
	r.u64("last played", &b.LastPlayed)
	r.boolean("osz2", &b.OSZ2)
	r.str("folder name", &b.FolderName)
	r.u64("last checked", &b.LastChecked)
	r.boolean("ignore sounds", &b.IgnoreSounds)
	r.boolean("ignore skin", &b.IgnoreSkin)
	r.boolean("disable storyboard", &b.DisableStoryboard)
	r.boolean("disable video", &b.DisableVideo)
	r.boolean("visual override", &b.VisualOverride)
	r.u32("last modified 2", &b.LastModified2)
	r.u8("mania scroll speed", &b.ManiaScrollSpeed)

	if r.err != nil {
		return nil, r.err
	}
	b.Tempo = AnalyzeTempo(b.TimingPoints, float64(b.TotalTime))

	return b, nil
}

// WriteBeatmap is the mirror of ReadBeatmap. The derived Tempo is not
// written.
func WriteBeatmap(enc *encoding.Encoder, b *Beatmap, version uint32) error {
	if version < format.EnvelopeVersion {
		return writeBeatmapFields(enc, b)
	}

	offset := enc.BeginSection()
	if err := writeBeatmapFields(enc, b); err != nil {
		return err
	}

	return enc.EndSection(offset)
}

func writeBeatmapFields(enc *encoding.Encoder, b *Beatmap) error {
	enc.WriteString(b.Artist)
	enc.WriteString(b.ArtistUnicode)
	enc.WriteString(b.Title)
	enc.WriteString(b.TitleUnicode)
	enc.WriteString(b.Creator)
	enc.WriteString(b.Difficulty)
	enc.WriteString(b.AudioFile)
	enc.WriteString(b.MD5)
	enc.WriteString(b.OsuFile)
	enc.WriteUint8(b.RankedStatusRaw)
	enc.WriteUint16(b.HitCircles)
	enc.WriteUint16(b.Sliders)
	enc.WriteUint16(b.Spinners)
	enc.WriteUint64(b.LastModified)
	enc.WriteFloat32(b.ApproachRate)
	enc.WriteFloat32(b.CircleSize)
	enc.WriteFloat32(b.HPDrain)
	enc.WriteFloat32(b.OverallDifficulty)
	enc.WriteFloat64(b.SliderVelocity)
	for _, mode := range format.GameModes {
		if err := WriteStarRatings(enc, b.StarRatings[mode]); err != nil {
			return fmt.Errorf("%s star ratings: %w", mode, err)
		}
	}
	enc.WriteUint32(b.DrainTime)
	enc.WriteUint32(b.TotalTime)
	enc.WriteUint32(b.PreviewTime)
	if err := WriteTimingPoints(enc, b.TimingPoints); err != nil {
		return err
	}
	enc.WriteUint32(b.BeatmapID)
	enc.WriteUint32(b.BeatmapSetID)
	enc.WriteUint32(b.ThreadID)
	for _, mode := range format.GameModes {
		enc.WriteUint8(uint8(b.Grades[mode]))
	}
	enc.WriteUint16(b.LocalOffset)
	enc.WriteFloat32(b.StackLeniency)
	enc.WriteUint8(uint8(b.Mode))
	enc.WriteString(b.Source)
	enc.WriteString(b.Tags)
	enc.WriteUint16(b.OnlineOffset)
	enc.WriteString(b.TitleFont)
	enc.WriteBool(b.Unplayed)
	enc.WriteUint64(b.LastPlayed)
	enc.WriteBool(b.OSZ2)
	enc.WriteString(b.FolderName)
	enc.WriteUint64(b.LastChecked)
	enc.WriteBool(b.IgnoreSounds)
	enc.WriteBool(b.IgnoreSkin)
	enc.WriteBool(b.DisableStoryboard)
	enc.WriteBool(b.DisableVideo)
	enc.WriteBool(b.VisualOverride)
	enc.WriteUint32(b.LastModified2)
	enc.WriteUint8(b.ManiaScrollSpeed)

	return nil
}

// fieldReader reads a fixed field sequence, keeping the first error and the
// name of the field that caused it. Reads after an error are no-ops.
type fieldReader struct {
	dec *encoding.Decoder
	err error
}

func (r *fieldReader) fail(field string, err error) {
	r.err = fmt.Errorf("field %s: %w", field, err)
}

func (r *fieldReader) str(field string, dst *format.NullString) {
	if r.err != nil {
		return
	}
	v, err := r.dec.ReadString()
	if err != nil {
		r.fail(field, err)
		return
	}
	*dst = v
}

func (r *fieldReader) u8(field string, dst *uint8) {
	if r.err != nil {
		return
	}
	v, err := r.dec.ReadUint8()
	if err != nil {
		r.fail(field, err)
		return
	}
	*dst = v
}

func (r *fieldReader) u16(field string, dst *uint16) {
	if r.err != nil {
		return
	}
	v, err := r.dec.ReadUint16()
	if err != nil {
		r.fail(field, err)
		return
	}
	*dst = v
}

func (r *fieldReader) u32(field string, dst *uint32) {
	if r.err != nil {
		return
	}
	v, err := r.dec.ReadUint32()
	if err != nil {
		r.fail(field, err)
		return
	}
	*dst = v
}

func (r *fieldReader) u64(field string, dst *uint64) {
	if r.err != nil {
		return
	}
	v, err := r.dec.ReadUint64()
	if err != nil {
		r.fail(field, err)
		return
	}
	*dst = v
}

func (r *fieldReader) f32(field string, dst *float32) {
	if r.err != nil {
		return
	}
	v, err := r.dec.ReadFloat32()
	if err != nil {
		r.fail(field, err)
		return
	}
	*dst = v
}

func (r *fieldReader) f64(field string, dst *float64) {
	if r.err != nil {
		return
	}
	v, err := r.dec.ReadFloat64()
	if err != nil {
		r.fail(field, err)
		return
	}
	*dst = v
}

func (r *fieldReader) boolean(field string, dst *bool) {
	if r.err != nil {
		return
	}
	v, err := r.dec.ReadBool()
	if err != nil {
		r.fail(field, err)
		return
	}
	*dst = v
}

func (r *fieldReader) stars(mode format.GameMode, dst **StarRatings) {
	if r.err != nil {
		return
	}
	v, err := ReadStarRatings(r.dec)
	if err != nil {
		r.fail(mode.String()+" star ratings", err)
		return
	}
	*dst = v
}

func (r *fieldReader) timing(dst *[]TimingPoint) {
	if r.err != nil {
		return
	}
	v, err := ReadTimingPoints(r.dec)
	if err != nil {
		r.fail("timing points", err)
		return
	}
	*dst = v
}
