package replay

import (
	"errors"
	"io"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/games/snake"
	"github.com/vovakirdan/tui-snake/internal/rng"
)

func grid(w, h int) snake.Settings {
	return snake.Settings{Grid: core.GridSize{Width: w, Height: h}, InitialLength: 3}
}

func TestRecordStraightRunHitsWall(t *testing.T) {
	rec, frames, err := Record(grid(8, 8), 123, &snake.ScriptedInput{}, Options{Verify: true})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}

	// Head starts at (4,4) facing right: three moves, then the wall.
	if len(frames) != 5 {
		t.Fatalf("got %d frames, expected 5", len(frames))
	}
	if len(rec.Moves) != 4 {
		t.Errorf("got %d moves, expected 4", len(rec.Moves))
	}
	for i, d := range rec.Moves {
		if d != core.DirRight {
			t.Errorf("move %d = %v, expected right", i, d)
		}
	}

	last := frames[len(frames)-1]
	if last.Outcome != snake.OutcomeHitWall {
		t.Errorf("final outcome = %v, expected hit_wall", last.Outcome)
	}
	if last.Snapshot.Status != snake.StatusOver {
		t.Errorf("final status = %v, expected over", last.Snapshot.Status)
	}
	if last.Snapshot.Head() != (core.Position{X: 7, Y: 4}) {
		t.Errorf("final head = %v, expected (7,4)", last.Snapshot.Head())
	}
	if last.Snapshot.Tick != 4 {
		t.Errorf("final tick = %d, expected 4", last.Snapshot.Tick)
	}
}

func TestRecordRespectsMaxUpdates(t *testing.T) {
	settings := grid(10, 10)
	settings.WrapWalls = true

	_, frames, err := Record(settings, 9, &snake.ScriptedInput{}, Options{MaxUpdates: 25})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if len(frames) > 26 {
		t.Errorf("got %d frames, expected at most 26", len(frames))
	}
}

func TestSimulateMatchesRecord(t *testing.T) {
	script := []core.Direction{
		core.DirRight, core.DirDown, core.DirDown, core.DirLeft, core.DirLeft,
		core.DirLeft, core.DirUp, core.DirUp, core.DirRight, core.DirRight,
	}
	rec, frames, err := Record(grid(12, 9), 42, &snake.ScriptedInput{Script: script}, Options{MaxUpdates: 60, Verify: true})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}

	replayed, err := rec.Simulate()
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	if len(replayed) != len(frames) {
		t.Fatalf("simulated %d frames, recorded %d", len(replayed), len(frames))
	}
	for i := range frames {
		if !replayed[i].Snapshot.Equal(frames[i].Snapshot) {
			t.Fatalf("frame %d differs:\n got  %+v\n want %+v", i, replayed[i].Snapshot, frames[i].Snapshot)
		}
		if replayed[i].Outcome != frames[i].Outcome {
			t.Errorf("frame %d outcome = %v, expected %v", i, replayed[i].Outcome, frames[i].Outcome)
		}
	}
}

func TestSimulateBadSettings(t *testing.T) {
	rec := Recording{Seed: 1, Settings: grid(2, 1)}
	if _, err := rec.Simulate(); !errors.Is(err, snake.ErrGridTooSmall) {
		t.Errorf("Simulate error = %v, expected ErrGridTooSmall", err)
	}
}

func TestFromGameReproducesSession(t *testing.T) {
	g := snake.New()
	g.Reset(core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 7})
	if g.Err() != nil {
		t.Fatalf("Reset: %v", g.Err())
	}

	turns := map[int]core.Action{
		50:  core.ActionUp,
		120: core.ActionLeft,
		200: core.ActionDown,
		260: core.ActionRight,
	}
	for i := 0; i < 400; i++ {
		frame := core.NewInputFrame()
		if a, ok := turns[i]; ok {
			frame.Set(a)
		}
		g.Step(frame)
	}

	rec := FromGame(g)
	if len(rec.Moves) == 0 {
		t.Fatal("game recorded no moves")
	}
	if rec.GameID != "snake" || rec.Seed != 7 {
		t.Errorf("recording = %s seed %d, expected snake seed 7", rec.GameID, rec.Seed)
	}

	frames, err := rec.Simulate()
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	final := frames[len(frames)-1]
	if final.Snapshot.Tick != core.Tick(len(rec.Moves)) {
		t.Errorf("final tick = %d, expected %d", final.Snapshot.Tick, len(rec.Moves))
	}
	want := g.Engine().Snapshot(final.Snapshot.Tick)
	if !final.Snapshot.Equal(want) {
		t.Errorf("replayed state differs from game:\n got  %+v\n want %+v", final.Snapshot, want)
	}
}

func TestParquetRoundTrip(t *testing.T) {
	script := []core.Direction{core.DirUp, core.DirUp, core.DirLeft, core.DirLeft, core.DirDown}
	rec, frames, err := Record(grid(10, 8), 2024, &snake.ScriptedInput{Script: script}, Options{MaxUpdates: 40})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}

	path := filepath.Join(t.TempDir(), "nested", "run.parquet")
	if err := WriteFile(path, rec); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	got, rows, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if got.SessionID != rec.SessionID || got.GameID != rec.GameID || got.Seed != rec.Seed {
		t.Errorf("header = %+v, expected %+v", got, rec)
	}
	if got.Settings != rec.Settings {
		t.Errorf("settings = %+v, expected %+v", got.Settings, rec.Settings)
	}
	if len(got.Moves) != len(rec.Moves) {
		t.Fatalf("read %d moves, expected %d", len(got.Moves), len(rec.Moves))
	}
	for i := range rec.Moves {
		if got.Moves[i] != rec.Moves[i] {
			t.Errorf("move %d = %v, expected %v", i, got.Moves[i], rec.Moves[i])
		}
	}

	if len(rows) != len(frames) {
		t.Fatalf("read %d rows, expected %d", len(rows), len(frames))
	}
	if rows[0].Move != -1 {
		t.Errorf("initial row move = %d, expected -1", rows[0].Move)
	}
	for i, f := range frames {
		sn := SnapshotFromRow(rows[i], rec.Settings)
		if !sn.Equal(f.Snapshot) {
			t.Errorf("row %d = %+v, expected %+v", i, sn, f.Snapshot)
		}
	}

	final, err := Verify(path)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !final.Snapshot.Equal(frames[len(frames)-1].Snapshot) {
		t.Error("Verify returned the wrong final frame")
	}
}

func TestVerifyDetectsTampering(t *testing.T) {
	rec, frames, err := Record(grid(8, 8), 5, &snake.ScriptedInput{}, Options{})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}

	rows := make([]Row, len(frames))
	for i, f := range frames {
		rows[i] = RowFromFrame(rec.SessionID, f)
	}
	rows[2].Score = 99

	path := filepath.Join(t.TempDir(), "tampered.parquet")
	if err := writeRows(path, rec, rows); err != nil {
		t.Fatalf("writeRows: %v", err)
	}
	if _, err := Verify(path); !errors.Is(err, ErrMismatch) {
		t.Errorf("Verify error = %v, expected ErrMismatch", err)
	}
}

func TestReadFileMissing(t *testing.T) {
	if _, _, err := ReadFile(filepath.Join(t.TempDir(), "nope.parquet")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestArchiveSaveAndList(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "replays")
	a := NewArchive(dir, log.New(io.Discard))

	paths, err := a.List()
	if err != nil || len(paths) != 0 {
		t.Fatalf("List on missing dir = %v, %v", paths, err)
	}

	rec, _, err := Record(grid(8, 8), 11, &snake.ScriptedInput{}, Options{})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	path, err := a.Save(rec)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if path != a.Path(rec.SessionID) {
		t.Errorf("Save path = %s, expected %s", path, a.Path(rec.SessionID))
	}

	paths, err = a.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(paths) != 1 || paths[0] != path {
		t.Errorf("List = %v, expected [%s]", paths, path)
	}

	if _, err := a.Save(Recording{}); err == nil {
		t.Error("saving a recording without session id should fail")
	}
}

func TestParquetRoundTripFeastWithPowerUps(t *testing.T) {
	settings := grid(9, 9)
	settings.Feast = true
	settings.PowerUps = true

	steer := rng.New(17)
	script := make([]core.Direction, 600)
	for i := range script {
		d, _ := steer.IntN(4)
		script[i] = core.Directions[d]
	}
	rec, frames, err := Record(settings, 99, &snake.ScriptedInput{Script: script}, Options{MaxUpdates: len(script), Verify: true})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if rec.GameID != "snake_powerups" {
		t.Errorf("GameID = %q, expected snake_powerups", rec.GameID)
	}

	path := filepath.Join(t.TempDir(), "feast.parquet")
	if err := WriteFile(path, rec); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	got, rows, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if got.Settings != settings {
		t.Errorf("settings = %+v, expected %+v", got.Settings, settings)
	}
	for i, f := range frames {
		if sn := SnapshotFromRow(rows[i], got.Settings); !sn.Equal(f.Snapshot) {
			t.Fatalf("row %d = %+v, expected %+v", i, sn, f.Snapshot)
		}
	}
	if _, err := Verify(path); err != nil {
		t.Fatalf("Verify: %v", err)
	}
}
