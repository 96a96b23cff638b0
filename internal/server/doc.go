// Package server owns the UDP socket and sequences the request
// pipeline: header decode, target resolution, scenario drop rolls,
// the acknowledgement policy, handler dispatch, fault transforms and
// response framing.
//
// Wire-level handling is infallible from the client's perspective.
// Every failure path ends in a silent drop, an explicit
// StateUnhandled, or a scenario-induced malformed response; internal
// errors surface through counters and the event stream only.
//
// The pipeline is single-threaded: datagrams are handled one at a
// time, which serializes state mutations per device. Scenario
// response delays move the affected responses onto a goroutine so one
// slow device cannot stall the pipeline; in-flight delayed responses
// are discarded on shutdown.
package server
