// Package database opens the emulator's SQLite store.
//
// SQLite backs the packet-activity recorder only; device state lives
// in per-device JSON files under the persistence engine. The
// connection is configured for a single writer with WAL mode so the
// management API can read history while the recorder writes.
package database
