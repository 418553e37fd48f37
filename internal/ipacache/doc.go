// Package ipacache holds the word to transcription cache shared by all
// workers of a run.
//
// A Cache lives in memory behind a read-write mutex and is persisted
// through a Store: a flat JSON object per language (the default) or a small
// SQLite database. Entries are never removed during a run. Saves copy a
// snapshot first, so workers are never blocked by disk I/O.
package ipacache
