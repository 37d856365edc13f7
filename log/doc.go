// Package log is the logging abstraction of osudb.
//
// Decoders and the library index accept a Logger through their options and
// default to NoopLogger, so the library is silent unless asked. The command
// line tool installs a zerolog-backed logger:
//
//	logger := log.NewConsoleLogger(os.Stderr, zerolog.InfoLevel)
//	db, err := osudb.OpenDatabase(path, osudb.WithLogger(logger))
package log
