package format

import (
	"fmt"
	"math/bits"
	"strings"

	"github.com/arloliu/osudb/errs"
)

// Mods is a bitmask of gameplay modifiers as used by the osu! API.
type Mods uint32

const (
	ModNoFail Mods = 1 << iota
	ModEasy
	ModTouchDevice
	ModHidden
	ModHardRock
	ModSuddenDeath
	ModDoubleTime
	ModRelax
	ModHalfTime
	ModNightcore
	ModFlashlight
	ModAutoplay
	ModSpunOut
	ModAutopilot
	ModPerfect
	ModKey4
	ModKey5
	ModKey6
	ModKey7
	ModKey8
	ModFadeIn
	ModRandom
	ModCinema
	ModTarget
	ModKey9
	ModKeyCoop
	ModKey1
	ModKey3
	ModKey2
	ModScoreV2
	ModMirror
)

// NoMods is the empty combination.
const NoMods Mods = 0

// Only these mods change a beatmap's star rating.
const (
	StarRatingMods Mods = ModEasy | ModHardRock | ModHalfTime | ModDoubleTime

	exclusiveDifficulty Mods = ModEasy | ModHardRock
	exclusiveSpeed      Mods = ModHalfTime | ModDoubleTime
)

var modAcronyms = [...]string{
	"NF", "EZ", "TD", "HD", "HR", "SD", "DT", "RX", "HT", "NC", "FL", "AT", "SO", "AP", "PF",
	"4K", "5K", "6K", "7K", "8K", "FI", "RD", "CN", "TP", "9K", "CP", "1K", "3K", "2K", "V2", "MR",
}

// ModsFromBits builds a mask from bit offsets, e.g. ModsFromBits(1, 4) is EZ+HR.
func ModsFromBits(offsets ...int) (Mods, error) {
	var m Mods
	for _, off := range offsets {
		if off < 0 || off >= len(modAcronyms) {
			return 0, fmt.Errorf("%w: bit offset %d", errs.ErrInvalidMods, off)
		}
		m |= 1 << off
	}

	return m, nil
}

// ParseMods parses an acronym list such as "HDHR", "+hd,dt" or "NM".
func ParseMods(s string) (Mods, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = strings.NewReplacer("+", "", ",", "", " ", "", "|", "").Replace(s)
	if s == "" || s == "NM" {
		return NoMods, nil
	}
	if len(s)%2 != 0 {
		return 0, fmt.Errorf("%w: %q", errs.ErrInvalidMods, s)
	}

	var m Mods
	for i := 0; i < len(s); i += 2 {
		token := s[i : i+2]
		found := false
		for bit, acronym := range modAcronyms {
			if acronym == token {
				m |= 1 << bit
				found = true

				break
			}
		}
		if !found {
			return 0, fmt.Errorf("%w: unknown acronym %q", errs.ErrInvalidMods, token)
		}
	}

	return m, nil
}

// Has reports whether every mod in other is set in m.
func (m Mods) Has(other Mods) bool {
	return m&other == other
}

// RatingMask drops the mods that do not affect star rating.
func (m Mods) RatingMask() Mods {
	return m & StarRatingMods
}

// Validate fails with errs.ErrInvalidModifierCombination when m combines
// mutually exclusive difficulty or speed mods.
func (m Mods) Validate() error {
	if m.Has(exclusiveDifficulty) {
		return fmt.Errorf("%w: %s combines EZ and HR", errs.ErrInvalidModifierCombination, m)
	}
	if m.Has(exclusiveSpeed) {
		return fmt.Errorf("%w: %s combines HT and DT", errs.ErrInvalidModifierCombination, m)
	}

	return nil
}

// String renders the acronyms in bit order, "NM" for no mods.
func (m Mods) String() string {
	if m == NoMods {
		return "NM"
	}

	var sb strings.Builder
	sb.Grow(bits.OnesCount32(uint32(m)) * 2)
	for bit, acronym := range modAcronyms {
		if m&(1<<bit) != 0 {
			sb.WriteString(acronym)
		}
	}
	if rest := m >> len(modAcronyms); rest != 0 {
		fmt.Fprintf(&sb, "+0x%x", uint32(rest)<<len(modAcronyms))
	}

	return sb.String()
}
