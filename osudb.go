// Package osudb decodes and encodes the osu! client's local library files:
// osu!.db, which lists every installed beatmap difficulty, and collection.db,
// which holds the user's named beatmap collections.
//
// # Decoding
//
// Files can be decoded from memory, from a stream or from a path:
//
//	db, err := osudb.OpenDatabase(`C:\osu!\osu!.db`)
//	if err != nil {
//	    return err
//	}
//	for _, b := range db.Beatmaps {
//	    fmt.Printf("%s - %s [%s] %.0f bpm\n", b.Artist.String, b.Title.String, b.Difficulty.String, b.BPM())
//	}
//
// Decoding is all or nothing: a malformed record rejects the whole file.
// Errors wrap the sentinels of the errs package and name the record and
// field that failed.
//
// # Schema generations
//
// Files written by clients from format.EnvelopeVersion (20160411) on prefix
// every beatmap record with its byte length; older files store records
// inline. Both layouts carry the same fields and decode to the same Beatmap.
// Files older than format.MinDatabaseVersion are rejected with
// errs.ErrUnsupportedFormatVersion.
//
// # Derived values
//
// Each decoded Beatmap carries its tempo classification (minimum, maximum
// and dominant bpm) and exposes star ratings per game mode and mod
// combination:
//
//	stars, err := b.Stars(format.GameModeStandard, format.ModHardRock|format.ModDoubleTime)
//
// # Encoding
//
// EncodeDatabase and EncodeCollections write the same layouts back. Unknown
// blocks of the database header and trailer are preserved as raw values, so
// decoding and re-encoding a file written by the game reproduces it byte for
// byte. Invalid UTF-8 in strings is replaced on decode and does not survive.
package osudb
