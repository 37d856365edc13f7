// Package cliconfig resolves the osudb command configuration.
//
// Values come from, in increasing precedence, DefaultConfig, the TOML file
// at DefaultConfigPath (or --config), OSUDB_* environment variables and
// explicitly set flags.
package cliconfig
