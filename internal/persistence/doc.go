// Package persistence writes device state to disk shortly after it
// changes.
//
// Saves are debounced per device: rapid successive changes within the
// debounce interval collapse into one write carrying the most recent
// snapshot. A single background worker performs all file I/O so the
// request pipeline never blocks on disk.
//
// Writes are crash-safe: the snapshot goes to a temporary file in the
// target directory, is fsynced, then atomically renamed over the
// target. A reader therefore always sees either the old or the new
// snapshot, never a truncated one. Failed writes are logged and
// retried once; persistent failure is reported through the event
// stream and never surfaces to the wire.
//
// The layout is one JSON file per device keyed by serial, plus an
// optional scenarios.json holding the scenario store.
package persistence
