package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/Djelibeybi/lifx-emulator/internal/infrastructure/logging"
	"github.com/Djelibeybi/lifx-emulator/internal/scenario"
)

// Config is the root configuration for the emulator. Everything is
// loaded from YAML; a handful of operationally interesting fields can
// be overridden by environment variables.
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Devices     []DeviceConfig    `yaml:"devices"`
	Persistence PersistenceConfig `yaml:"persistence"`
	API         APIConfig         `yaml:"api"`
	Activity    ActivityConfig    `yaml:"activity"`
	MQTT        MQTTConfig        `yaml:"mqtt"`
	InfluxDB    InfluxDBConfig    `yaml:"influxdb"`
	Logging     logging.Config    `yaml:"logging"`
	Scenarios   scenario.Store    `yaml:"scenarios"`
}

// ServerConfig controls the UDP wire server.
type ServerConfig struct {
	BindAddress string `yaml:"bind_address"`
	Port        int    `yaml:"port"`
}

// DeviceConfig declares one virtual device to create at startup.
type DeviceConfig struct {
	Serial    string `yaml:"serial"`
	ProductID uint32 `yaml:"product_id"`
	Label     string `yaml:"label,omitempty"`
	ZoneCount int    `yaml:"zone_count,omitempty"`
	TileCount int    `yaml:"tile_count,omitempty"`
	Location  string `yaml:"location,omitempty"`
	Group     string `yaml:"group,omitempty"`

	FirmwareMajor uint16 `yaml:"firmware_major,omitempty"`
	FirmwareMinor uint16 `yaml:"firmware_minor,omitempty"`
	FirmwareBuild uint64 `yaml:"firmware_build,omitempty"`
}

// PersistenceConfig controls the device-state persistence engine.
type PersistenceConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Directory  string `yaml:"directory"`
	DebounceMS int    `yaml:"debounce_ms"`
}

// APIConfig controls the HTTP management plane and its WebSocket
// event stream.
type APIConfig struct {
	Enabled     bool   `yaml:"enabled"`
	BindAddress string `yaml:"bind_address"`
	Port        int    `yaml:"port"`
}

// ActivityConfig controls the SQLite packet-activity recorder.
type ActivityConfig struct {
	Enabled      bool   `yaml:"enabled"`
	DatabasePath string `yaml:"database_path"`
	MaxEvents    int    `yaml:"max_events"`
}

// MQTTConfig controls the optional MQTT event bridge.
type MQTTConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	ClientID string `yaml:"client_id"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	QoS      int    `yaml:"qos"`
}

// InfluxDBConfig controls the optional telemetry writer.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// Load reads, defaults and validates a configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Defaults returns a configuration with every default applied: a
// loopback server on the standard port and no optional integrations.
func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			BindAddress: "127.0.0.1",
			Port:        56700,
		},
		Persistence: PersistenceConfig{
			Directory:  "./state",
			DebounceMS: 100,
		},
		API: APIConfig{
			BindAddress: "127.0.0.1",
			Port:        8080,
		},
		Activity: ActivityConfig{
			DatabasePath: "./state/activity.db",
			MaxEvents:    1000,
		},
		MQTT: MQTTConfig{
			Host:     "localhost",
			Port:     1883,
			ClientID: "lifx-emulator",
			QoS:      0,
		},
		InfluxDB: InfluxDBConfig{
			BatchSize:     100,
			FlushInterval: 10,
		},
		Logging: logging.Config{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// applyEnvOverrides lets deployments adjust ports and paths without
// editing the config file.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("LIFX_EMULATOR_BIND"); v != "" {
		c.Server.BindAddress = v
	}
	if v := os.Getenv("LIFX_EMULATOR_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
	if v := os.Getenv("LIFX_EMULATOR_STATE_DIR"); v != "" {
		c.Persistence.Directory = v
	}
	if v := os.Getenv("LIFX_EMULATOR_API_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.API.Port = port
		}
	}
	if v := os.Getenv("LIFX_EMULATOR_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// Validate rejects configurations the emulator cannot start with.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: server port %d", ErrInvalidConfig, c.Server.Port)
	}
	if c.API.Enabled && (c.API.Port < 1 || c.API.Port > 65535) {
		return fmt.Errorf("%w: api port %d", ErrInvalidConfig, c.API.Port)
	}
	if c.Persistence.Enabled && c.Persistence.Directory == "" {
		return fmt.Errorf("%w: persistence enabled without a directory", ErrInvalidConfig)
	}
	if c.Persistence.DebounceMS < 0 {
		return fmt.Errorf("%w: negative debounce", ErrInvalidConfig)
	}

	seen := make(map[string]struct{}, len(c.Devices))
	for i, d := range c.Devices {
		if d.Serial == "" {
			return fmt.Errorf("%w: device %d has no serial", ErrInvalidConfig, i)
		}
		if _, dup := seen[d.Serial]; dup {
			return fmt.Errorf("%w: duplicate serial %s", ErrInvalidConfig, d.Serial)
		}
		seen[d.Serial] = struct{}{}
		if d.ProductID == 0 {
			return fmt.Errorf("%w: device %s has no product_id", ErrInvalidConfig, d.Serial)
		}
	}

	if c.MQTT.Enabled && c.MQTT.Host == "" {
		return fmt.Errorf("%w: mqtt enabled without a host", ErrInvalidConfig)
	}
	if c.InfluxDB.Enabled && (c.InfluxDB.URL == "" || c.InfluxDB.Token == "") {
		return fmt.Errorf("%w: influxdb enabled without url and token", ErrInvalidConfig)
	}
	return nil
}

// Export serializes a configuration back to YAML, e.g. to capture a
// fleet built up through the management API.
func (c *Config) Export() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshalling config: %w", err)
	}
	return data, nil
}
