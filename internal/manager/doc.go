// Package manager owns the collection of live devices and resolves
// request targets.
//
// Routing follows the wire protocol: a tagged header or an all-zero
// target addresses every device; otherwise exactly the device whose
// serial matches the low six bytes of the target handles the request,
// and a miss drops the datagram silently.
//
// The manager is also the management plane's device surface
// (add/remove/get/list) and keeps the scenario cache honest: any
// membership change, and any device location or group change,
// invalidates the merged-rule cache.
package manager
