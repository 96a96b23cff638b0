// Package telemetry writes emulator counters to InfluxDB.
//
// The writer is optional and consumes stats_tick events: one point
// per tick with packet counters and the live device count. Writes are
// batched and asynchronous; a down InfluxDB never slows the request
// pipeline.
package telemetry
