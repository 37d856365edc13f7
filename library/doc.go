// Package library indexes a decoded osu!.db for lookups by beatmap hash,
// text search and collection resolution.
//
//	db, _ := osudb.OpenDatabase(dbPath)
//	cols, _ := osudb.OpenCollections(collectionPath)
//	lib, err := library.New(db)
//	if err != nil {
//	    return err
//	}
//	for _, r := range lib.ResolveAll(cols) {
//	    fmt.Printf("%s: %d installed, %d missing\n", r.Name, len(r.Beatmaps), len(r.Missing))
//	}
//	hits := lib.Search("camellia", library.ModeIs(format.GameModeStandard))
package library
