package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
devices:
  - serial: d073d5000001
    product_id: 27
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	if cfg.Server.BindAddress != "127.0.0.1" || cfg.Server.Port != 56700 {
		t.Errorf("server defaults = %s:%d", cfg.Server.BindAddress, cfg.Server.Port)
	}
	if cfg.Persistence.DebounceMS != 100 {
		t.Errorf("debounce default = %d, want 100", cfg.Persistence.DebounceMS)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("logging level default = %q", cfg.Logging.Level)
	}
	if len(cfg.Devices) != 1 || cfg.Devices[0].ProductID != 27 {
		t.Errorf("devices = %+v", cfg.Devices)
	}
}

func TestLoadFullConfig(t *testing.T) {
	path := writeConfig(t, `
server:
  bind_address: "0.0.0.0"
  port: 56701
devices:
  - serial: d073d5000001
    product_id: 32
    zone_count: 20
    label: Bench Strip
  - serial: d073d7000001
    product_id: 70
persistence:
  enabled: true
  directory: /tmp/lifx-state
api:
  enabled: true
  port: 9090
scenarios:
  global:
    drop_packets:
      101: 0.5
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	if cfg.Server.Port != 56701 {
		t.Errorf("port = %d", cfg.Server.Port)
	}
	if cfg.Devices[0].ZoneCount != 20 || cfg.Devices[0].Label != "Bench Strip" {
		t.Errorf("device 0 = %+v", cfg.Devices[0])
	}
	if cfg.Scenarios.Global == nil || cfg.Scenarios.Global.DropPackets[101] != 0.5 {
		t.Errorf("scenarios = %+v", cfg.Scenarios.Global)
	}
}

func TestValidateRejectsBadConfigs(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"duplicate serial", `
devices:
  - serial: d073d5000001
    product_id: 27
  - serial: d073d5000001
    product_id: 32
`},
		{"missing product id", `
devices:
  - serial: d073d5000001
`},
		{"missing serial", `
devices:
  - product_id: 27
`},
		{"bad server port", `
server:
  port: 99999
`},
		{"mqtt without host", `
mqtt:
  enabled: true
  host: ""
`},
		{"influx without token", `
influxdb:
  enabled: true
  url: http://localhost:8086
`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.yaml))
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Load() error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Error("Load() of missing file should fail")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("LIFX_EMULATOR_PORT", "45678")
	t.Setenv("LIFX_EMULATOR_STATE_DIR", "/tmp/override-state")
	t.Setenv("LIFX_EMULATOR_LOG_LEVEL", "debug")

	cfg, err := Load(writeConfig(t, `{}`))
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if cfg.Server.Port != 45678 {
		t.Errorf("port = %d, want env override 45678", cfg.Server.Port)
	}
	if cfg.Persistence.Directory != "/tmp/override-state" {
		t.Errorf("state dir = %q", cfg.Persistence.Directory)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("log level = %q", cfg.Logging.Level)
	}
}

func TestExportRoundTrip(t *testing.T) {
	cfg := Defaults()
	cfg.Devices = []DeviceConfig{{Serial: "d073d5000001", ProductID: 27}}

	data, err := cfg.Export()
	if err != nil {
		t.Fatalf("Export() unexpected error: %v", err)
	}

	reloaded, err := Load(writeConfig(t, string(data)))
	if err != nil {
		t.Fatalf("Load() of exported config: %v", err)
	}
	if len(reloaded.Devices) != 1 || reloaded.Devices[0].Serial != "d073d5000001" {
		t.Errorf("devices = %+v", reloaded.Devices)
	}
}
