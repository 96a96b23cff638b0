package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Djelibeybi/lifx-emulator/internal/events"
)

const (
	defaultLimit = 50
	maxLimit     = 500

	// trimInterval is how many inserts happen between cap trims.
	trimInterval = 100
)

const schema = `
CREATE TABLE IF NOT EXISTS packet_activity (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    direction   TEXT    NOT NULL,
    packet_type INTEGER NOT NULL,
    packet_name TEXT    NOT NULL,
    serial      TEXT,
    addr        TEXT    NOT NULL,
    size        INTEGER NOT NULL,
    created_at  TEXT    NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now'))
);
CREATE INDEX IF NOT EXISTS idx_packet_activity_serial
    ON packet_activity (serial, id DESC);
`

// Entry is one recorded packet.
type Entry struct {
	ID         int64  `json:"id"`
	Direction  string `json:"direction"`
	PacketType uint16 `json:"packet_type"`
	PacketName string `json:"packet_name"`
	Serial     string `json:"serial,omitempty"`
	Addr       string `json:"addr"`
	Size       int    `json:"size"`
	CreatedAt  string `json:"created_at"`
}

// Recorder persists packet events and serves recent-activity reads.
type Recorder struct {
	db        *sql.DB
	maxEvents int
	inserts   int
}

// New creates the recorder, applying the schema. maxEvents caps the
// table size; zero keeps the default of 1000 rows.
func New(db *sql.DB, maxEvents int) (*Recorder, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("applying activity schema: %w", err)
	}
	if maxEvents <= 0 {
		maxEvents = 1000
	}
	return &Recorder{db: db, maxEvents: maxEvents}, nil
}

// Record inserts one packet event and periodically trims the table to
// the cap.
func (r *Recorder) Record(ctx context.Context, evt events.PacketEvent) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO packet_activity (direction, packet_type, packet_name, serial, addr, size)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		evt.Direction, evt.PacketType, evt.PacketName, evt.Serial, evt.Addr, evt.Size,
	)
	if err != nil {
		return fmt.Errorf("inserting packet activity: %w", err)
	}

	r.inserts++
	if r.inserts%trimInterval == 0 {
		if err := r.trim(ctx); err != nil {
			return err
		}
	}
	return nil
}

// trim deletes everything older than the newest maxEvents rows.
func (r *Recorder) trim(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM packet_activity
		 WHERE id <= (SELECT COALESCE(MAX(id), 0) FROM packet_activity) - ?`,
		r.maxEvents,
	)
	if err != nil {
		return fmt.Errorf("trimming packet activity: %w", err)
	}
	return nil
}

// Recent returns the newest entries, optionally filtered by device
// serial. Limit defaults to 50 and caps at 500.
func (r *Recorder) Recent(ctx context.Context, serial string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	query := `SELECT id, direction, packet_type, packet_name, COALESCE(serial, ''), addr, size, created_at
	          FROM packet_activity`
	args := []any{}
	if serial != "" {
		query += ` WHERE serial = ?`
		args = append(args, serial)
	}
	query += ` ORDER BY id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying packet activity: %w", err)
	}
	defer rows.Close()

	entries := make([]Entry, 0, limit)
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Direction, &e.PacketType, &e.PacketName, &e.Serial, &e.Addr, &e.Size, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning packet activity: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating packet activity: %w", err)
	}
	return entries, nil
}

// Run consumes packet events from the bus until the context is
// cancelled or the channel closes. Insert failures are reported
// through the logger and do not stop consumption.
func (r *Recorder) Run(ctx context.Context, ch <-chan events.Event, logger interface {
	Warn(msg string, args ...any)
}) {
	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-ch:
			if !ok {
				return
			}
			pkt, isPacket := evt.Payload.(events.PacketEvent)
			if !isPacket {
				continue
			}

			insertCtx, cancel := context.WithTimeout(ctx, time.Second)
			err := r.Record(insertCtx, pkt)
			cancel()
			if err != nil {
				logger.Warn("recording packet activity", "error", err)
			}
		}
	}
}
