// Package database stores the history of generation runs in SQLite.
//
// History is opt-in. Each finished run is appended to the runs table with
// its counts, site name, the rendered llms.txt and a digest of it, so later
// runs of the same site can be listed and compared. Nothing stored here is
// read back while generating.
//
// The driver is modernc.org/sqlite, which needs no cgo. The database is a
// single file opened in WAL mode with one connection.
package database
