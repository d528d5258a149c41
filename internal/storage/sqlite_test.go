package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
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

func save(t *testing.T, store *Store, gridKey string, score int) string {
	t.Helper()
	id, err := store.SaveScore(ScoreRecord{GameID: "snake", GridKey: gridKey, Score: score, Length: score + 3})
	if err != nil {
		t.Fatalf("SaveScore() failed: %v", err)
	}
	return id
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "nested", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreReopenKeepsScores(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	save(t, store, "10x10", 12)
	store.Close()

	store, err = Open(dbPath)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer store.Close()

	high, err := store.HighScore("10x10")
	if err != nil || high != 12 {
		t.Errorf("HighScore() = %d, %v; expected 12", high, err)
	}
}

func TestStoreSaveAndRetrieve(t *testing.T) {
	store := openTestStore(t)

	save(t, store, "20x15", 10)
	save(t, store, "20x15", 5)
	save(t, store, "20x15", 20)
	save(t, store, "10x10", 50)

	scores, err := store.TopScores("20x15", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 3 {
		t.Fatalf("Expected 3 scores, got %d", len(scores))
	}

	want := []int{20, 10, 5}
	for i, w := range want {
		if scores[i].Score != w {
			t.Errorf("scores[%d] = %d, expected %d", i, scores[i].Score, w)
		}
		if scores[i].GridKey != "20x15" {
			t.Errorf("scores[%d] grid = %q", i, scores[i].GridKey)
		}
	}
	if scores[0].Length != 23 || scores[0].GameID != "snake" {
		t.Errorf("entry fields not round-tripped: %+v", scores[0])
	}

	small, err := store.TopScores("10x10", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(small) != 1 || small[0].Score != 50 {
		t.Errorf("10x10 board = %+v", small)
	}
}

func TestStoreTopScoresLimit(t *testing.T) {
	store := openTestStore(t)

	for i := 1; i <= 15; i++ {
		save(t, store, "8x8", i)
	}

	scores, err := store.TopScores("8x8", 0)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != DefaultLimit {
		t.Fatalf("Expected %d scores, got %d", DefaultLimit, len(scores))
	}
	if scores[0].Score != 15 || scores[DefaultLimit-1].Score != 6 {
		t.Errorf("top ten = %d..%d, expected 15..6", scores[0].Score, scores[DefaultLimit-1].Score)
	}

	three, _ := store.TopScores("8x8", 3)
	if len(three) != 3 {
		t.Errorf("limit 3 returned %d rows", len(three))
	}
}

func TestStoreSessionIDs(t *testing.T) {
	store := openTestStore(t)

	generated := save(t, store, "10x10", 3)
	if _, err := uuid.Parse(generated); err != nil {
		t.Errorf("generated session id %q is not a UUID: %v", generated, err)
	}

	fixed := uuid.New().String()
	id, err := store.SaveScore(ScoreRecord{SessionID: fixed, GameID: "snake_wrap", GridKey: "10x10", Score: 7, Seed: 1<<63 + 5})
	if err != nil || id != fixed {
		t.Fatalf("SaveScore() = %q, %v", id, err)
	}

	entry, err := store.ScoreBySession(fixed)
	if err != nil || entry == nil {
		t.Fatalf("ScoreBySession() = %v, %v", entry, err)
	}
	if entry.Seed != 1<<63+5 || entry.GameID != "snake_wrap" {
		t.Errorf("entry = %+v", entry)
	}

	if _, err := store.SaveScore(ScoreRecord{SessionID: fixed, GridKey: "10x10", Score: 1}); err == nil {
		t.Error("duplicate session id should be rejected")
	}

	missing, err := store.ScoreBySession("nope")
	if err != nil || missing != nil {
		t.Errorf("unknown session = %v, %v", missing, err)
	}
}

func TestStoreSaveValidation(t *testing.T) {
	store := openTestStore(t)

	if _, err := store.SaveScore(ScoreRecord{Score: 1}); err == nil {
		t.Error("missing grid key should fail")
	}
	if _, err := store.SaveScore(ScoreRecord{GridKey: "5x5", Score: -1}); err == nil {
		t.Error("negative score should fail")
	}
}

func TestStoreHighScore(t *testing.T) {
	store := openTestStore(t)

	high, err := store.HighScore("20x15")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 0 {
		t.Errorf("Expected high score 0 for empty board, got %d", high)
	}

	save(t, store, "20x15", 10)
	save(t, store, "20x15", 30)
	save(t, store, "20x15", 20)

	high, err = store.HighScore("20x15")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 30 {
		t.Errorf("Expected high score 30, got %d", high)
	}
}

func TestStoreIsHighScore(t *testing.T) {
	store := openTestStore(t)

	ok, err := store.IsHighScore("10x10", 0)
	if err != nil || !ok {
		t.Errorf("empty board: IsHighScore(0) = %v, %v; expected true", ok, err)
	}

	save(t, store, "10x10", 8)

	tests := []struct {
		score    int
		expected bool
	}{
		{7, false},
		{8, false},
		{9, true},
	}
	for _, tc := range tests {
		ok, err := store.IsHighScore("10x10", tc.score)
		if err != nil {
			t.Fatalf("IsHighScore() failed: %v", err)
		}
		if ok != tc.expected {
			t.Errorf("IsHighScore(%d) = %v, expected %v", tc.score, ok, tc.expected)
		}
	}

	// Other boards are independent.
	if ok, _ := store.IsHighScore("20x15", 1); !ok {
		t.Error("a different grid should have its own board")
	}
}

func TestStoreClearScores(t *testing.T) {
	store := openTestStore(t)

	save(t, store, "20x15", 10)
	save(t, store, "10x10", 20)

	if err := store.ClearScores("20x15"); err != nil {
		t.Fatalf("ClearScores() failed: %v", err)
	}

	scores, _ := store.TopScores("20x15", 10)
	if len(scores) != 0 {
		t.Errorf("Expected 0 scores after clear, got %d", len(scores))
	}

	other, _ := store.TopScores("10x10", 10)
	if len(other) != 1 {
		t.Errorf("Expected other board untouched, got %d scores", len(other))
	}
}

func TestStoreBoardStats(t *testing.T) {
	store := openTestStore(t)

	empty, err := store.GetBoardStats("9x9")
	if err != nil {
		t.Fatalf("GetBoardStats() failed: %v", err)
	}
	if empty.GamesCount != 0 || empty.HighScore != 0 {
		t.Errorf("empty stats = %+v", empty)
	}

	save(t, store, "9x9", 4)
	save(t, store, "9x9", 8)
	save(t, store, "12x12", 1)

	stats, err := store.GetBoardStats("9x9")
	if err != nil {
		t.Fatalf("GetBoardStats() failed: %v", err)
	}
	if stats.GamesCount != 2 || stats.HighScore != 8 || stats.TotalScore != 12 || stats.AvgScore != 6 {
		t.Errorf("stats = %+v", stats)
	}

	all, err := store.GetAllBoardStats()
	if err != nil {
		t.Fatalf("GetAllBoardStats() failed: %v", err)
	}
	if len(all) != 2 || all["12x12"] == nil || all["12x12"].HighScore != 1 {
		t.Errorf("all stats = %+v", all)
	}
}
