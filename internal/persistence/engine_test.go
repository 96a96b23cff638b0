package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

type testLogger struct {
	mu   sync.Mutex
	logs []string
}

func (l *testLogger) Warn(msg string, _ ...any) {
	l.mu.Lock()
	l.logs = append(l.logs, msg)
	l.mu.Unlock()
}

func (l *testLogger) Error(msg string, _ ...any) {
	l.mu.Lock()
	l.logs = append(l.logs, msg)
	l.mu.Unlock()
}

func newTestEngine(t *testing.T, opts ...Option) (*Engine, string) {
	t.Helper()
	dir := t.TempDir()
	e, err := New(dir, &testLogger{}, opts...)
	if err != nil {
		t.Fatalf("New() unexpected error: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = e.Shutdown(ctx)
	})
	return e, dir
}

func TestDebouncedSave(t *testing.T) {
	e, dir := newTestEngine(t, WithDebounce(50*time.Millisecond))

	// Five rapid saves inside the debounce window collapse into one
	// write carrying the last snapshot.
	for _, label := range []string{"A", "B", "C", "D", "E"} {
		data, _ := json.Marshal(map[string]string{"label": label})
		e.Save("d073d5000001", data)
		time.Sleep(5 * time.Millisecond)
	}

	time.Sleep(200 * time.Millisecond)

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("files on disk = %d, want exactly 1", len(entries))
	}

	data, err := e.Load("d073d5000001")
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	var saved map[string]string
	if err := json.Unmarshal(data, &saved); err != nil {
		t.Fatalf("snapshot is not valid JSON: %v", err)
	}
	if saved["label"] != "E" {
		t.Errorf("label = %q, want E (the last save)", saved["label"])
	}
}

func TestLoadMissing(t *testing.T) {
	e, _ := newTestEngine(t)
	_, err := e.Load("d073d5ffffff")
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Load() error = %v, want fs.ErrNotExist", err)
	}
}

func TestLoadAll(t *testing.T) {
	e, dir := newTestEngine(t, WithDebounce(time.Millisecond))

	e.Save("d073d5000001", []byte(`{"label":"one"}`))
	e.Save("d073d5000002", []byte(`{"label":"two"}`))
	e.SaveScenarios([]byte(`{"global":{}}`))
	time.Sleep(100 * time.Millisecond)

	all := e.LoadAll()
	if len(all) != 2 {
		t.Fatalf("LoadAll() = %d entries, want 2 (scenarios excluded)", len(all))
	}
	if string(all["d073d5000001"]) != `{"label":"one"}` {
		t.Errorf("snapshot 1 = %s", all["d073d5000001"])
	}

	scenarios, err := e.LoadScenarios()
	if err != nil {
		t.Fatalf("LoadScenarios() unexpected error: %v", err)
	}
	if string(scenarios) != `{"global":{}}` {
		t.Errorf("scenarios = %s", scenarios)
	}

	// The scenario file sits beside device snapshots.
	if _, err := os.Stat(filepath.Join(dir, ScenarioFile)); err != nil {
		t.Errorf("scenario file missing: %v", err)
	}
}

func TestShutdownFlushesPending(t *testing.T) {
	dir := t.TempDir()
	e, err := New(dir, &testLogger{}, WithDebounce(10*time.Second))
	if err != nil {
		t.Fatalf("New(): %v", err)
	}

	// With a 10s debounce nothing reaches disk before shutdown.
	e.Save("d073d5000001", []byte(`{"label":"pending"}`))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown() unexpected error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "d073d5000001.json"))
	if err != nil {
		t.Fatalf("pending snapshot not flushed: %v", err)
	}
	if string(data) != `{"label":"pending"}` {
		t.Errorf("flushed snapshot = %s", data)
	}

	// Saves after shutdown are ignored, not panics.
	e.Save("d073d5000002", []byte(`{}`))
	if err := e.Shutdown(ctx); err != nil {
		t.Errorf("second Shutdown() unexpected error: %v", err)
	}
}

func TestDelete(t *testing.T) {
	e, _ := newTestEngine(t, WithDebounce(time.Millisecond))

	e.Save("d073d5000001", []byte(`{}`))
	time.Sleep(50 * time.Millisecond)

	if err := e.Delete("d073d5000001"); err != nil {
		t.Fatalf("Delete() unexpected error: %v", err)
	}
	if _, err := e.Load("d073d5000001"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Load() after delete error = %v, want fs.ErrNotExist", err)
	}

	// Deleting a never-saved key is fine.
	if err := e.Delete("d073d5ffffff"); err != nil {
		t.Errorf("Delete() of missing key: %v", err)
	}
}

func TestAtomicReplaceLeavesNoTempFiles(t *testing.T) {
	e, dir := newTestEngine(t, WithDebounce(time.Millisecond))

	for i := 0; i < 20; i++ {
		e.Save("d073d5000001", []byte(`{"iteration":`+string(rune('0'+i%10))+`}`))
		time.Sleep(3 * time.Millisecond)
	}
	time.Sleep(100 * time.Millisecond)

	entries, _ := os.ReadDir(dir)
	for _, entry := range entries {
		if entry.Name() != "d073d5000001.json" {
			t.Errorf("unexpected file left behind: %s", entry.Name())
		}
	}

	// Whatever landed last, the file parses.
	data, err := e.Load("d073d5000001")
	if err != nil {
		t.Fatalf("Load(): %v", err)
	}
	var parsed map[string]any
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Errorf("snapshot does not parse: %v", err)
	}
}

func TestFailureReporter(t *testing.T) {
	dir := t.TempDir()
	var reported []string
	var mu sync.Mutex

	e, err := New(dir, &testLogger{},
		WithDebounce(time.Millisecond),
		WithFailureReporter(func(key string, _ error) {
			mu.Lock()
			reported = append(reported, key)
			mu.Unlock()
		}),
	)
	if err != nil {
		t.Fatalf("New(): %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = e.Shutdown(ctx)
	}()

	// Make the directory unwritable so every write fails. Skip when
	// running as root, where permissions are not enforced.
	if os.Getuid() == 0 {
		t.Skip("permission-based failure injection does not work as root")
	}
	if err := os.Chmod(dir, 0o500); err != nil {
		t.Fatalf("Chmod: %v", err)
	}
	defer os.Chmod(dir, 0o750)

	e.Save("d073d5000001", []byte(`{}`))
	time.Sleep(200 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if len(reported) != 1 || reported[0] != "d073d5000001" {
		t.Errorf("reported failures = %v, want [d073d5000001]", reported)
	}
}
