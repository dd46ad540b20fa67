package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Check that the file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreSaveAndRetrieve(t *testing.T) {
	store := openTestStore(t)

	first := Session{
		Origin:       OriginLocal,
		Presented:    300,
		Computed:     250,
		Resets:       2,
		PauseToggles: 4,
		Duration:     10 * time.Second,
		AvgFPS:       30,
	}
	id, err := store.SaveSession(first)
	if err != nil {
		t.Fatalf("SaveSession() failed: %v", err)
	}
	if id <= 0 {
		t.Errorf("Expected positive ID, got %d", id)
	}

	if _, err := store.SaveSession(Session{Origin: OriginSSHPrefix + "alice", Presented: 60, Duration: 2 * time.Second, AvgFPS: 29.5}); err != nil {
		t.Fatalf("SaveSession() failed: %v", err)
	}

	sessions, err := store.RecentSessions(10)
	if err != nil {
		t.Fatalf("RecentSessions() failed: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("Expected 2 sessions, got %d", len(sessions))
	}

	// Newest first
	if sessions[0].Origin != "ssh:alice" {
		t.Errorf("Expected newest session from ssh:alice, got %q", sessions[0].Origin)
	}

	got := sessions[1]
	if got.Presented != 300 || got.Computed != 250 || got.Resets != 2 || got.PauseToggles != 4 {
		t.Errorf("Counters not round-tripped: %+v", got)
	}
	if got.Duration != 10*time.Second {
		t.Errorf("Duration = %v, expected 10s", got.Duration)
	}
	if got.AvgFPS != 30 {
		t.Errorf("AvgFPS = %v, expected 30", got.AvgFPS)
	}
	if got.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set by the database")
	}
}

func TestStoreDefaultOrigin(t *testing.T) {
	store := openTestStore(t)

	if _, err := store.SaveSession(Session{Presented: 1}); err != nil {
		t.Fatalf("SaveSession() failed: %v", err)
	}

	sessions, err := store.RecentSessions(1)
	if err != nil {
		t.Fatalf("RecentSessions() failed: %v", err)
	}
	if sessions[0].Origin != OriginLocal {
		t.Errorf("Origin = %q, expected %q", sessions[0].Origin, OriginLocal)
	}
}

func TestStoreRecentSessionsLimit(t *testing.T) {
	store := openTestStore(t)

	for i := 0; i < 25; i++ {
		if _, err := store.SaveSession(Session{Presented: i}); err != nil {
			t.Fatalf("SaveSession() failed: %v", err)
		}
	}

	sessions, err := store.RecentSessions(5)
	if err != nil {
		t.Fatalf("RecentSessions() failed: %v", err)
	}
	if len(sessions) != 5 {
		t.Errorf("Expected 5 sessions, got %d", len(sessions))
	}

	// Zero limit falls back to 20
	sessions, err = store.RecentSessions(0)
	if err != nil {
		t.Fatalf("RecentSessions() failed: %v", err)
	}
	if len(sessions) != 20 {
		t.Errorf("Expected 20 sessions, got %d", len(sessions))
	}
}

func TestStoreTotals(t *testing.T) {
	store := openTestStore(t)

	totals, err := store.Totals()
	if err != nil {
		t.Fatalf("Totals() failed: %v", err)
	}
	if totals.Sessions != 0 || !totals.LastSession.IsZero() {
		t.Errorf("Expected empty totals, got %+v", totals)
	}

	store.SaveSession(Session{Presented: 100, Computed: 90, Duration: 3 * time.Second, AvgFPS: 28})
	store.SaveSession(Session{Presented: 50, Computed: 50, Duration: 2 * time.Second, AvgFPS: 31})

	totals, err = store.Totals()
	if err != nil {
		t.Fatalf("Totals() failed: %v", err)
	}
	if totals.Sessions != 2 {
		t.Errorf("Sessions = %d, expected 2", totals.Sessions)
	}
	if totals.Presented != 150 || totals.Computed != 140 {
		t.Errorf("Presented/Computed = %d/%d, expected 150/140", totals.Presented, totals.Computed)
	}
	if totals.TotalDuration != 5*time.Second {
		t.Errorf("TotalDuration = %v, expected 5s", totals.TotalDuration)
	}
	if totals.BestAvgFPS != 31 {
		t.Errorf("BestAvgFPS = %v, expected 31", totals.BestAvgFPS)
	}
	if totals.LastSession.IsZero() {
		t.Error("LastSession should be set")
	}
}

func TestStoreClearSessions(t *testing.T) {
	store := openTestStore(t)

	store.SaveSession(Session{Presented: 1})
	store.SaveSession(Session{Presented: 2})

	n, err := store.ClearSessions()
	if err != nil {
		t.Fatalf("ClearSessions() failed: %v", err)
	}
	if n != 2 {
		t.Errorf("ClearSessions() removed %d rows, expected 2", n)
	}

	sessions, err := store.RecentSessions(10)
	if err != nil {
		t.Fatalf("RecentSessions() failed: %v", err)
	}
	if len(sessions) != 0 {
		t.Errorf("Expected no sessions after clear, got %d", len(sessions))
	}
}

func TestStoreNestedPath(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	// Verify nested directories were created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}
