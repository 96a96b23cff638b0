// lifx-emulator impersonates a fleet of virtual LIFX devices over the
// LAN protocol so client libraries can be tested without hardware.
//
// The UDP wire server is the core; the HTTP/WebSocket management
// plane, SQLite activity history, MQTT event bridge and InfluxDB
// telemetry are optional integrations enabled through configuration.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Djelibeybi/lifx-emulator/internal/api"
	"github.com/Djelibeybi/lifx-emulator/internal/device"
	"github.com/Djelibeybi/lifx-emulator/internal/events"
	"github.com/Djelibeybi/lifx-emulator/internal/history"
	"github.com/Djelibeybi/lifx-emulator/internal/infrastructure/config"
	"github.com/Djelibeybi/lifx-emulator/internal/infrastructure/database"
	"github.com/Djelibeybi/lifx-emulator/internal/infrastructure/logging"
	"github.com/Djelibeybi/lifx-emulator/internal/infrastructure/mqtt"
	"github.com/Djelibeybi/lifx-emulator/internal/manager"
	"github.com/Djelibeybi/lifx-emulator/internal/persistence"
	"github.com/Djelibeybi/lifx-emulator/internal/scenario"
	"github.com/Djelibeybi/lifx-emulator/internal/server"
	"github.com/Djelibeybi/lifx-emulator/internal/telemetry"
)

// Version information, set at build time via ldflags.
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the application logic, separated from main for testability.
func run(ctx context.Context) error {
	configPath := flag.String("config", "", "path to config.yaml (optional)")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("lifx-emulator %s (%s)\n", version, commit)
		return nil
	}

	log := logging.Default()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	log = logging.New(cfg.Logging, version)
	log.Info("starting lifx-emulator", "version", version, "commit", commit)

	bus := events.NewBus()
	scenarios := scenario.NewManager()
	mgr := manager.New(scenarios, bus)

	// Persistence comes up before devices so restored state can be
	// overlaid at creation.
	var engine *persistence.Engine
	var saved map[string][]byte
	if cfg.Persistence.Enabled {
		engine, err = persistence.New(cfg.Persistence.Directory, log.With("component", "persistence"),
			persistence.WithDebounce(time.Duration(cfg.Persistence.DebounceMS)*time.Millisecond),
			persistence.WithFailureReporter(func(key string, saveErr error) {
				bus.Publish(events.TypeDeviceUpdated, map[string]string{
					"serial": key,
					"error":  saveErr.Error(),
				})
			}),
		)
		if err != nil {
			return err
		}
		saved = engine.LoadAll()
		log.Info("persistence enabled", "dir", cfg.Persistence.Directory, "restored", len(saved))
	}

	// Scenario rules: persisted store wins over the config file's
	// initial rules.
	if err := scenarios.Import(cfg.Scenarios); err != nil {
		return fmt.Errorf("importing configured scenarios: %w", err)
	}
	if engine != nil {
		if data, loadErr := engine.LoadScenarios(); loadErr == nil {
			var store scenario.Store
			if jsonErr := json.Unmarshal(data, &store); jsonErr != nil {
				log.Warn("ignoring corrupt scenarios file", "error", jsonErr)
			} else if importErr := scenarios.Import(store); importErr != nil {
				log.Warn("ignoring invalid persisted scenarios", "error", importErr)
			}
		} else if !errors.Is(loadErr, fs.ErrNotExist) {
			log.Warn("loading persisted scenarios", "error", loadErr)
		}
	}

	// Observer that feeds committed state changes into the
	// persistence engine and the event stream.
	saver := &stateSaver{mgr: mgr, engine: engine, bus: bus}

	// Build the device fleet.
	for _, dc := range deviceConfigs(cfg) {
		d, buildErr := buildDevice(dc)
		if buildErr != nil {
			return fmt.Errorf("building device %s: %w", dc.Serial, buildErr)
		}
		if snapshot, ok := saved[dc.Serial]; ok {
			if restoreErr := d.Restore(snapshot); restoreErr != nil {
				log.Warn("ignoring corrupt device snapshot", "serial", dc.Serial, "error", restoreErr)
			}
		}
		d.Observe(saver)
		if addErr := mgr.Add(d); addErr != nil {
			return addErr
		}
	}
	log.Info("device fleet ready", "devices", mgr.Count())

	udp := server.New(cfg.Server.BindAddress, cfg.Server.Port, mgr, scenarios, bus, log.With("component", "udp"))

	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error { return udp.Run(ctx) })

	// Scenario edits persist through the same engine.
	if engine != nil {
		ch, cancel := bus.Subscribe()
		group.Go(func() error {
			defer cancel()
			for {
				select {
				case <-ctx.Done():
					return nil
				case evt, ok := <-ch:
					if !ok {
						return nil
					}
					if evt.Type == events.TypeScenarioChanged {
						if data, marshalErr := json.Marshal(scenarios.Export()); marshalErr == nil {
							engine.SaveScenarios(data)
						}
					}
				}
			}
		})
	}

	// SQLite packet activity recorder.
	var recorder *history.Recorder
	if cfg.Activity.Enabled {
		db, dbErr := database.Open(database.Config{Path: cfg.Activity.DatabasePath})
		if dbErr != nil {
			return dbErr
		}
		defer db.Close()

		recorder, err = history.New(db.DB, cfg.Activity.MaxEvents)
		if err != nil {
			return err
		}
		ch, cancel := bus.Subscribe()
		group.Go(func() error {
			defer cancel()
			recorder.Run(ctx, ch, log.With("component", "activity"))
			return nil
		})
		log.Info("activity recorder enabled", "db", cfg.Activity.DatabasePath)
	}

	// HTTP management plane.
	if cfg.API.Enabled {
		apiServer := api.New(cfg.API.BindAddress, cfg.API.Port, api.Deps{
			Manager:   mgr,
			Scenarios: scenarios,
			Bus:       bus,
			Stats:     udp,
			Activity:  recorder,
			Logger:    log.With("component", "api"),
			OnDeviceCreated: func(d *device.Device) {
				udp.AdoptDevice(d)
				d.Observe(saver)
			},
		})
		group.Go(func() error { return apiServer.Run(ctx) })
	}

	// MQTT event bridge.
	if cfg.MQTT.Enabled {
		client, mqttErr := mqtt.Connect(mqtt.Config{
			Host:     cfg.MQTT.Host,
			Port:     cfg.MQTT.Port,
			ClientID: cfg.MQTT.ClientID,
			Username: cfg.MQTT.Username,
			Password: cfg.MQTT.Password,
			QoS:      cfg.MQTT.QoS,
		})
		if mqttErr != nil {
			return mqttErr
		}
		defer client.Close()

		bridge := mqtt.NewBridge(client, log.With("component", "mqtt"))
		ch, cancel := bus.Subscribe()
		group.Go(func() error {
			defer cancel()
			bridge.Run(ctx, ch)
			return nil
		})
		log.Info("mqtt bridge enabled", "broker", fmt.Sprintf("%s:%d", cfg.MQTT.Host, cfg.MQTT.Port))
	}

	// InfluxDB telemetry.
	if cfg.InfluxDB.Enabled {
		writer, influxErr := telemetry.Connect(telemetry.Config{
			Enabled:       true,
			URL:           cfg.InfluxDB.URL,
			Token:         cfg.InfluxDB.Token,
			Org:           cfg.InfluxDB.Org,
			Bucket:        cfg.InfluxDB.Bucket,
			BatchSize:     cfg.InfluxDB.BatchSize,
			FlushInterval: cfg.InfluxDB.FlushInterval,
		}, log.With("component", "telemetry"))
		if influxErr != nil {
			return influxErr
		}
		defer writer.Close()

		ch, cancel := bus.Subscribe()
		group.Go(func() error {
			defer cancel()
			writer.Run(ctx, ch)
			return nil
		})
		log.Info("influxdb telemetry enabled", "url", cfg.InfluxDB.URL)
	}

	err = group.Wait()

	// Flush pending state before exit.
	if engine != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if flushErr := engine.Shutdown(shutdownCtx); flushErr != nil {
			log.Error("flushing persistence", "error", flushErr)
		}
	}

	log.Info("shutdown complete")
	return err
}

// loadConfig loads the named file, or returns defaults with a small
// demonstration fleet when no file is given.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}

	cfg := config.Defaults()
	cfg.Devices = []config.DeviceConfig{
		{Serial: "d073d5000001", ProductID: 27},
		{Serial: "d073d5000002", ProductID: 32, ZoneCount: 16},
		{Serial: "d073d5000003", ProductID: 55},
	}
	return cfg, nil
}

// deviceConfigs returns the configured fleet.
func deviceConfigs(cfg *config.Config) []config.DeviceConfig {
	return cfg.Devices
}

// buildDevice translates one config stanza into a device.
func buildDevice(dc config.DeviceConfig) (*device.Device, error) {
	var opts []device.Option
	if dc.Label != "" {
		opts = append(opts, device.WithLabel(dc.Label))
	}
	if dc.ZoneCount > 0 {
		opts = append(opts, device.WithZoneCount(dc.ZoneCount))
	}
	if dc.TileCount > 0 {
		opts = append(opts, device.WithTileCount(dc.TileCount))
	}
	if dc.Location != "" {
		opts = append(opts, device.WithLocation(dc.Location))
	}
	if dc.Group != "" {
		opts = append(opts, device.WithGroup(dc.Group))
	}
	if dc.FirmwareBuild != 0 || dc.FirmwareMajor != 0 {
		opts = append(opts, device.WithFirmware(dc.FirmwareMajor, dc.FirmwareMinor, dc.FirmwareBuild))
	}
	return device.NewFromProduct(dc.ProductID, dc.Serial, opts...)
}

// stateSaver feeds committed device mutations into the persistence
// engine and the event stream.
type stateSaver struct {
	mgr    *manager.Manager
	engine *persistence.Engine
	bus    *events.Bus
}

func (s *stateSaver) OnStateChanged(serial string) {
	d, ok := s.mgr.Get(serial)
	if !ok {
		return
	}
	if s.engine != nil {
		s.engine.Save(serial, d.Snapshot())
	}
	if s.bus != nil {
		s.bus.Publish(events.TypeDeviceUpdated, map[string]string{"serial": serial})
	}
}
