package history

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Djelibeybi/lifx-emulator/internal/events"
	"github.com/Djelibeybi/lifx-emulator/internal/infrastructure/database"
)

func newTestRecorder(t *testing.T, maxEvents int) *Recorder {
	t.Helper()
	db, err := database.Open(database.Config{
		Path: filepath.Join(t.TempDir(), "activity.db"),
	})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	r, err := New(db.DB, maxEvents)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return r
}

func TestRecordAndRecent(t *testing.T) {
	r := newTestRecorder(t, 100)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		err := r.Record(ctx, events.PacketEvent{
			Direction:  "rx",
			PacketType: 2,
			PacketName: "GetService",
			Addr:       "127.0.0.1:56700",
			Size:       36,
		})
		if err != nil {
			t.Fatalf("Record: %v", err)
		}
	}
	err := r.Record(ctx, events.PacketEvent{
		Direction:  "tx",
		PacketType: 3,
		PacketName: "StateService",
		Serial:     "d073d5000001",
		Addr:       "127.0.0.1:41234",
		Size:       41,
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}

	entries, err := r.Recent(ctx, "", 0)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 4 {
		t.Fatalf("entries = %d, want 4", len(entries))
	}
	// Newest first.
	if entries[0].PacketName != "StateService" || entries[0].Serial != "d073d5000001" {
		t.Errorf("entries[0] = %+v", entries[0])
	}

	filtered, err := r.Recent(ctx, "d073d5000001", 10)
	if err != nil {
		t.Fatalf("Recent(filtered): %v", err)
	}
	if len(filtered) != 1 || filtered[0].Direction != "tx" {
		t.Errorf("filtered = %+v", filtered)
	}
}

func TestTrimCapsTableSize(t *testing.T) {
	r := newTestRecorder(t, 10)
	ctx := context.Background()

	// trimInterval inserts trigger a trim down to maxEvents rows.
	for i := 0; i < trimInterval; i++ {
		if err := r.Record(ctx, events.PacketEvent{
			Direction: "rx", PacketType: 2, PacketName: "GetService", Addr: "a", Size: 36,
		}); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	entries, err := r.Recent(ctx, "", maxLimit)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 10 {
		t.Errorf("entries after trim = %d, want 10", len(entries))
	}
}
