package osudb

import (
	"github.com/arloliu/osudb/format"
)

// sampleBeatmap returns a fully populated record with a variable tempo.
func sampleBeatmap(setID uint32, md5 string) *Beatmap {
	b := &Beatmap{
		Artist:            format.Text("Camellia"),
		ArtistUnicode:     format.Text("かめりあ"),
		Title:             format.Text("Exit This Earth's Atomosphere"),
		TitleUnicode:      format.Text("Exit This Earth's Atomosphere"),
		Creator:           format.Text("Sotarks"),
		Difficulty:        format.Text("Evolution"),
		AudioFile:         format.Text("audio.mp3"),
		MD5:               format.Text(md5),
		OsuFile:           format.Text("Camellia - Exit This Earth's Atomosphere (Sotarks) [Evolution].osu"),
		RankedStatusRaw:   uint8(format.RankedStatusRanked),
		HitCircles:        1204,
		Sliders:           512,
		Spinners:          3,
		LastModified:      637_000_000_000_000_000,
		ApproachRate:      9.6,
		CircleSize:        4,
		HPDrain:           6,
		OverallDifficulty: 9,
		SliderVelocity:    2.2,
		DrainTime:         274,
		TotalTime:         60000,
		PreviewTime:       84210,
		TimingPoints: []TimingPoint{
			{MsPerBeat: 60000.0 / 120, Offset: 0},
			{MsPerBeat: -50, Offset: 5000, Inherited: true},
			{MsPerBeat: 60000.0 / 200, Offset: 10000},
			{MsPerBeat: 60000.0 / 120, Offset: 40000},
		},
		BeatmapID:         1_000_000 + setID,
		BeatmapSetID:      setID,
		Grades:            [4]format.Grade{format.GradeA, format.GradeNone, format.GradeNone, format.GradeNone},
		LocalOffset:       0,
		StackLeniency:     0.7,
		Mode:              format.GameModeStandard,
		Source:            format.NullString{},
		Tags:              format.Text("featured artist electronic"),
		OnlineOffset:      10,
		TitleFont:         format.Text(""),
		Unplayed:          false,
		LastPlayed:        1<<63 + 12345,
		OSZ2:              false,
		FolderName:        format.Text("1045580 Camellia - Exit This Earth's Atomosphere"),
		LastChecked:       637_100_000_000_000_000,
		IgnoreSounds:      true,
		DisableStoryboard: true,
		LastModified2:     0,
		ManiaScrollSpeed:  20,
	}
	b.StarRatings[format.GameModeStandard] = NewStarRatings(
		StarRating{Mods: format.NoMods, Rating: 7.12},
		StarRating{Mods: format.ModEasy, Rating: 6.01},
		StarRating{Mods: format.ModHardRock, Rating: 7.64},
		StarRating{Mods: format.ModDoubleTime, Rating: 9.88},
	)
	b.StarRatings[format.GameModeTaiko] = NewStarRatings(StarRating{Mods: format.NoMods, Rating: 4.5})
	b.Tempo = AnalyzeTempo(b.TimingPoints, float64(b.TotalTime))

	return b
}

func sampleDatabase(version uint32) *Database {
	return &Database{
		Version:         version,
		FolderCount:     2,
		AccountUnlocked: true,
		UnlockDate:      0,
		PlayerName:      format.Text("peppy"),
		Beatmaps: []*Beatmap{
			sampleBeatmap(1045580, "0123456789abcdef0123456789abcdef"),
			sampleBeatmap(1045581, "fedcba9876543210fedcba9876543210"),
		},
		Permissions: 4,
	}
}
