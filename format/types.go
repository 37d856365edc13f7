// Package format defines the enumerations and small value types shared by the
// osu!.db and collection.db codecs.
//
// Enumerations read from the file keep their raw byte value. Valid reports
// whether the byte is one this package knows about, which keeps two kinds of
// "unknown" apart: RankedStatusUnknown is a status the game itself writes,
// while RankedStatus(3).Valid() == false is a value this decoder does not
// recognise.
package format

import (
	"fmt"
	"strconv"
	"strings"
)

// Format versions that change the database layout.
const (
	// MinDatabaseVersion is the oldest osu!.db version the decoder accepts.
	MinDatabaseVersion uint32 = 20140609
	// EnvelopeVersion is the first version whose beatmap records carry a
	// u32 byte-length prefix.
	EnvelopeVersion uint32 = 20160411
)

type (
	RankedStatus    uint8
	Grade           uint8
	GameMode        uint8
	CompressionType uint8
)

const (
	RankedStatusUnknown      RankedStatus = 0
	RankedStatusNotSubmitted RankedStatus = 1
	RankedStatusPending      RankedStatus = 2 // pending, WIP or graveyard
	RankedStatusRanked       RankedStatus = 4
	RankedStatusApproved     RankedStatus = 5
	RankedStatusQualified    RankedStatus = 6
)

const (
	GradeSSH  Grade = 0 // silver SS
	GradeSS   Grade = 1
	GradeSH   Grade = 2 // silver S
	GradeS    Grade = 3
	GradeA    Grade = 4
	GradeB    Grade = 5
	GradeC    Grade = 6
	GradeD    Grade = 7
	GradeNone Grade = 9
)

const (
	GameModeStandard GameMode = 0
	GameModeTaiko    GameMode = 1
	GameModeCatch    GameMode = 2
	GameModeMania    GameMode = 3
)

// GameModes lists the modes in the order their star rating tables are stored.
var GameModes = [4]GameMode{GameModeStandard, GameModeTaiko, GameModeCatch, GameModeMania}

const (
	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.
)

// Valid reports whether s is a status known to this package.
func (s RankedStatus) Valid() bool {
	switch s {
	case RankedStatusUnknown, RankedStatusNotSubmitted, RankedStatusPending,
		RankedStatusRanked, RankedStatusApproved, RankedStatusQualified:
		return true
	default:
		return false
	}
}

func (s RankedStatus) String() string {
	switch s {
	case RankedStatusUnknown:
		return "Unknown"
	case RankedStatusNotSubmitted:
		return "NotSubmitted"
	case RankedStatusPending:
		return "Pending"
	case RankedStatusRanked:
		return "Ranked"
	case RankedStatusApproved:
		return "Approved"
	case RankedStatusQualified:
		return "Qualified"
	default:
		return unrecognized(uint8(s))
	}
}

// Valid reports whether g is a grade known to this package.
func (g Grade) Valid() bool {
	return g <= GradeD || g == GradeNone
}

func (g Grade) String() string {
	switch g {
	case GradeSSH:
		return "SSH"
	case GradeSS:
		return "SS"
	case GradeSH:
		return "SH"
	case GradeS:
		return "S"
	case GradeA:
		return "A"
	case GradeB:
		return "B"
	case GradeC:
		return "C"
	case GradeD:
		return "D"
	case GradeNone:
		return "None"
	default:
		return unrecognized(uint8(g))
	}
}

// Valid reports whether m is one of the four game modes.
func (m GameMode) Valid() bool {
	return m <= GameModeMania
}

func (m GameMode) String() string {
	switch m {
	case GameModeStandard:
		return "osu"
	case GameModeTaiko:
		return "taiko"
	case GameModeCatch:
		return "fruits"
	case GameModeMania:
		return "mania"
	default:
		return unrecognized(uint8(m))
	}
}

// ParseGameMode accepts the names returned by String, plus "std", "ctb" and
// the numeric mode ids.
func ParseGameMode(s string) (GameMode, error) {
	switch s {
	case "osu", "std", "standard", "0":
		return GameModeStandard, nil
	case "taiko", "1":
		return GameModeTaiko, nil
	case "fruits", "catch", "ctb", "2":
		return GameModeCatch, nil
	case "mania", "3":
		return GameModeMania, nil
	default:
		return 0, fmt.Errorf("unknown game mode %q", s)
	}
}

// ParseRankedStatus accepts the names returned by String in any case, plus
// "graveyard" and "wip" for the pending status.
func ParseRankedStatus(s string) (RankedStatus, error) {
	switch strings.ToLower(s) {
	case "unknown":
		return RankedStatusUnknown, nil
	case "notsubmitted", "unsubmitted":
		return RankedStatusNotSubmitted, nil
	case "pending", "graveyard", "wip":
		return RankedStatusPending, nil
	case "ranked":
		return RankedStatusRanked, nil
	case "approved":
		return RankedStatusApproved, nil
	case "qualified":
		return RankedStatusQualified, nil
	default:
		return 0, fmt.Errorf("unknown ranked status %q", s)
	}
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

// ParseCompressionType maps a configuration string to a CompressionType.
func ParseCompressionType(s string) (CompressionType, error) {
	switch s {
	case "", "none":
		return CompressionNone, nil
	case "zstd", "zst":
		return CompressionZstd, nil
	case "s2":
		return CompressionS2, nil
	case "lz4":
		return CompressionLZ4, nil
	default:
		return 0, fmt.Errorf("unknown compression %q", s)
	}
}

func unrecognized(v uint8) string {
	return "Unrecognized(" + strconv.Itoa(int(v)) + ")"
}
