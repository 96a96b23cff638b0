// Package config loads the emulator's YAML configuration.
//
// The configuration declares the virtual device fleet, the UDP server
// binding, the persistence directory, the management API, and the
// optional integrations (SQLite activity history, MQTT event bridge,
// InfluxDB telemetry). A few operational fields can be overridden via
// LIFX_EMULATOR_* environment variables.
//
// Example:
//
//	server:
//	  bind_address: "127.0.0.1"
//	  port: 56700
//	devices:
//	  - serial: d073d5000001
//	    product_id: 27
//	  - serial: d073d5000002
//	    product_id: 32
//	    zone_count: 20
//	persistence:
//	  enabled: true
//	  directory: ./state
//	  debounce_ms: 100
//	api:
//	  enabled: true
//	  port: 8080
package config
