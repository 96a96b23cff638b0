package telemetry

import (
	"context"
	"errors"
	"fmt"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/Djelibeybi/lifx-emulator/internal/events"
	"github.com/Djelibeybi/lifx-emulator/internal/server"
)

const (
	defaultConnectTimeout = 10 * time.Second
	millisecondsPerSecond = 1000
)

// ErrDisabled indicates telemetry is not enabled in configuration.
var ErrDisabled = errors.New("influxdb telemetry disabled")

// Logger is the narrow logging interface the writer needs.
type Logger interface {
	Warn(msg string, args ...any)
}

// Config contains the InfluxDB connection settings.
type Config struct {
	Enabled       bool
	URL           string
	Token         string
	Org           string
	Bucket        string
	BatchSize     int
	FlushInterval int // seconds
}

// Writer ships stats points to InfluxDB through the non-blocking
// write API.
type Writer struct {
	client   influxdb2.Client
	writeAPI api.WriteAPI
	logger   Logger
}

// Connect creates the client, verifies connectivity with a ping and
// configures batching.
func Connect(cfg Config, logger Logger) (*Writer, error) {
	if !cfg.Enabled {
		return nil, ErrDisabled
	}

	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 100
	}
	flushInterval := cfg.FlushInterval
	if flushInterval <= 0 {
		flushInterval = 10
	}

	client := influxdb2.NewClientWithOptions(
		cfg.URL,
		cfg.Token,
		influxdb2.DefaultOptions().
			SetBatchSize(uint(batchSize)).
			SetFlushInterval(uint(flushInterval)*millisecondsPerSecond),
	)

	ctx, cancel := context.WithTimeout(context.Background(), defaultConnectTimeout)
	defer cancel()
	healthy, err := client.Ping(ctx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("influxdb ping failed: %w", err)
	}
	if !healthy {
		client.Close()
		return nil, errors.New("influxdb server not healthy")
	}

	w := &Writer{
		client:   client,
		writeAPI: client.WriteAPI(cfg.Org, cfg.Bucket),
		logger:   logger,
	}

	// Async write failures land here; log and move on.
	go func() {
		for err := range w.writeAPI.Errors() {
			w.logger.Warn("influxdb write error", "error", err)
		}
	}()

	return w, nil
}

// WriteStats records one server counter snapshot.
func (w *Writer) WriteStats(stats server.Stats) {
	point := write.NewPoint(
		"emulator_stats",
		map[string]string{"service": "lifx-emulator"},
		map[string]interface{}{
			"packets_received": int64(stats.PacketsReceived),
			"packets_sent":     int64(stats.PacketsSent),
			"packets_dropped":  int64(stats.PacketsDropped),
			"devices":          int64(stats.Devices),
			"uptime_seconds":   stats.UptimeSeconds,
		},
		time.Now(),
	)
	w.writeAPI.WritePoint(point)
}

// Run consumes stats_tick events until the context is cancelled or
// the channel closes.
func (w *Writer) Run(ctx context.Context, ch <-chan events.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-ch:
			if !ok {
				return
			}
			if evt.Type != events.TypeStatsTick {
				continue
			}
			if stats, isStats := evt.Payload.(server.Stats); isStats {
				w.WriteStats(stats)
			}
		}
	}
}

// Close flushes buffered points and shuts the client down.
func (w *Writer) Close() {
	w.writeAPI.Flush()
	w.client.Close()
}
