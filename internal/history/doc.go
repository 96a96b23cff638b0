// Package history records packet activity in SQLite.
//
// The recorder subscribes to packet_rx/packet_tx events and inserts
// one row per packet, trimming the table to a configured cap so an
// overnight soak test cannot grow the file without bound. The
// management API reads recent activity back out for the dashboard.
package history
