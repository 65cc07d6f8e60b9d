package storage

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"
)

func openTest(t *testing.T) *Storage {
	t.Helper()
	s, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPreferences(t *testing.T) {
	s := openTest(t)

	t.Run("Defaults", func(t *testing.T) {
		prefs, err := s.LoadPreferences()
		if err != nil {
			t.Fatalf("LoadPreferences: %v", err)
		}
		if prefs.Depth != 4 || prefs.Threads != 1 || prefs.RenderDir != "" {
			t.Errorf("unexpected defaults %+v", prefs)
		}
	})

	t.Run("RoundTrip", func(t *testing.T) {
		want := &Preferences{Depth: 3, Threads: 4, RenderDir: "/tmp/renders"}
		if err := s.SavePreferences(want); err != nil {
			t.Fatalf("SavePreferences: %v", err)
		}
		got, err := s.LoadPreferences()
		if err != nil {
			t.Fatalf("LoadPreferences: %v", err)
		}
		if got.Depth != 3 || got.Threads != 4 || got.RenderDir != "/tmp/renders" {
			t.Errorf("got %+v", got)
		}
		if got.LastPlayed.IsZero() {
			t.Error("LastPlayed not set")
		}
	})
}

func TestGames(t *testing.T) {
	s := openTest(t)
	start := time.Date(2026, 1, 2, 15, 0, 0, 0, time.UTC)

	games := []*GameRecord{
		{EngineSide: "black", Moves: []string{"e2e4", "e7e5"}, Result: ResultWhiteWins, StartedAt: start, FinishedAt: start.Add(time.Minute)},
		{EngineSide: "white", Moves: []string{"e2e4", "P@e5"}, Result: ResultDraw, Reason: "Stalemate"},
		{EngineSide: "white", Moves: []string{"g1f3"}, Result: ResultUnknown},
	}
	for i, g := range games {
		if err := s.SaveGame(g); err != nil {
			t.Fatalf("SaveGame: %v", err)
		}
		if g.ID != uint64(i+1) {
			t.Errorf("game %d got ID %d", i, g.ID)
		}
	}

	got, err := s.LoadGame(2)
	if err != nil {
		t.Fatalf("LoadGame: %v", err)
	}
	if got.Reason != "Stalemate" || len(got.Moves) != 2 || got.Moves[1] != "P@e5" {
		t.Errorf("LoadGame(2) = %+v", got)
	}

	if _, err := s.LoadGame(42); !errors.Is(err, ErrNotFound) {
		t.Errorf("LoadGame(42) error = %v, want ErrNotFound", err)
	}

	list, err := s.ListGames()
	if err != nil {
		t.Fatalf("ListGames: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("ListGames returned %d games, want 3", len(list))
	}
	for i, g := range list {
		if g.ID != uint64(i+1) {
			t.Errorf("ListGames()[%d].ID = %d", i, g.ID)
		}
	}

	// Saving again keeps the ID.
	games[0].Reason = "adjudicated"
	if err := s.SaveGame(games[0]); err != nil {
		t.Fatalf("SaveGame: %v", err)
	}
	if games[0].ID != 1 {
		t.Errorf("resave changed ID to %d", games[0].ID)
	}
}

func TestRecordResult(t *testing.T) {
	s := openTest(t)
	start := time.Date(2026, 1, 2, 15, 0, 0, 0, time.UTC)

	records := []*GameRecord{
		{EngineSide: "white", Result: ResultWhiteWins, StartedAt: start, FinishedAt: start.Add(2 * time.Minute)},
		{EngineSide: "black", Result: ResultBlackWins},
		{EngineSide: "black", Result: ResultWhiteWins},
		{EngineSide: "white", Result: ResultDraw},
		{EngineSide: "white", Result: ResultUnknown},
	}
	for _, rec := range records {
		if err := s.RecordResult(rec); err != nil {
			t.Fatalf("RecordResult: %v", err)
		}
	}

	stats, err := s.LoadStats()
	if err != nil {
		t.Fatalf("LoadStats: %v", err)
	}
	if stats.GamesPlayed != 4 || stats.Wins != 2 || stats.Losses != 1 || stats.Draws != 1 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.LongestWinStrk != 2 || stats.CurrentStreak != 0 {
		t.Errorf("streaks = %d longest, %d current", stats.LongestWinStrk, stats.CurrentStreak)
	}
	if stats.TotalPlayTime != 2*time.Minute {
		t.Errorf("TotalPlayTime = %s", stats.TotalPlayTime)
	}
	if rate := stats.GetWinRate(); rate != 50 {
		t.Errorf("Expected 50%% win rate, got %.2f%%", rate)
	}
}

func TestOpenDir(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	rec := &GameRecord{EngineSide: "black", Result: ResultBlackWins}
	if err := s.SaveGame(rec); err != nil {
		t.Fatalf("SaveGame: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s, err = Open(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()

	got, err := s.LoadGame(rec.ID)
	if err != nil {
		t.Fatalf("LoadGame after reopen: %v", err)
	}
	if got.Result != ResultBlackWins {
		t.Errorf("Result = %q", got.Result)
	}

	next := &GameRecord{EngineSide: "white"}
	if err := s.SaveGame(next); err != nil {
		t.Fatalf("SaveGame: %v", err)
	}
	if next.ID <= rec.ID {
		t.Errorf("ID %d reused after reopen (previous %d)", next.ID, rec.ID)
	}
}

func TestDataPaths(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG_DATA_HOME is only honoured on linux")
	}
	base := t.TempDir()
	t.Setenv("XDG_DATA_HOME", base)

	dataDir, err := GetDataDir()
	if err != nil {
		t.Fatalf("GetDataDir failed: %v", err)
	}
	if dataDir != filepath.Join(base, "sigsegv") {
		t.Errorf("GetDataDir() = %s", dataDir)
	}

	for _, get := range []func() (string, error){GetDatabaseDir, GetRenderDir} {
		dir, err := get()
		if err != nil {
			t.Fatalf("%v", err)
		}
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			t.Errorf("directory was not created: %s", dir)
		}
	}
}
