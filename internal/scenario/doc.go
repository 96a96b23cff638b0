// Package scenario implements the fault-injection rule engine.
//
// Rule sets exist at five scopes — device, type, location, group and
// global — and are merged per device with device rules winning over
// type, type over location, location over group, and group over
// global. The merge is field-level: the first scope that defines a
// field supplies it.
//
// Merged rule sets are cached per device. Any rule edit, and any
// change to a device's type, location or group, invalidates the whole
// cache; entries repopulate lazily on the next dispatch. This mirrors
// the registry-cache discipline used elsewhere in the codebase: a
// read-mostly map behind a mutex with bulk invalidation on edit.
//
// Rules are applied by the transport pipeline: drop rolls before the
// handler runs, delays and payload mutations after.
package scenario
