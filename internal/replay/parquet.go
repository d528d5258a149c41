package replay

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"

	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/games/snake"
)

const schemaVersion = "snake_replay_v2"

// Metadata keys stored in the parquet footer.
const (
	metaSchema        = "schema"
	metaSessionID     = "session_id"
	metaGameID        = "game_id"
	metaSeed          = "seed"
	metaWidth         = "grid_width"
	metaHeight        = "grid_height"
	metaInitialLength = "initial_length"
	metaWrapWalls     = "wrap_walls"
	metaFeast         = "feast"
	metaPowerUps      = "power_ups"
)

// Row is one frame of a session as stored on disk.
//
// Move is the direction fed to the engine on this update, or -1 on the
// initial frame. Directions use 0=Right, 1=Down, 2=Left, 3=Up. FoodX and
// FoodY hold the first food; the Foods columns hold all of them.
type Row struct {
	SessionID string  `parquet:"session_id,dict"`
	Tick      int64   `parquet:"tick"`
	Width     int32   `parquet:"width"`
	Height    int32   `parquet:"height"`
	Move      int32   `parquet:"move"`
	Outcome   string  `parquet:"outcome,dict"`
	Status    string  `parquet:"status,dict"`
	Score     int32   `parquet:"score"`
	Dir       int32   `parquet:"dir"`
	BodyX     []int32 `parquet:"body_x"`
	BodyY     []int32 `parquet:"body_y"`
	FoodX     int32   `parquet:"food_x"`
	FoodY     int32   `parquet:"food_y"`
	HasFood   bool    `parquet:"has_food"`

	FoodsX     []int32 `parquet:"foods_x"`
	FoodsY     []int32 `parquet:"foods_y"`
	FoodKinds  []int32 `parquet:"food_kinds"`
	PickupX    int32   `parquet:"pickup_x"`
	PickupY    int32   `parquet:"pickup_y"`
	PickupKind string  `parquet:"pickup_kind,dict"`
	HasPickup  bool    `parquet:"has_pickup"`
	Active     string  `parquet:"active,dict"`
	ActiveLeft int32   `parquet:"active_left"`
}

// RowFromFrame converts a simulated frame to its stored form.
func RowFromFrame(sessionID string, f Frame) Row {
	sn := f.Snapshot
	row := Row{
		SessionID: sessionID,
		Tick:      int64(sn.Tick),
		Width:     int32(sn.Grid.Width),
		Height:    int32(sn.Grid.Height),
		Move:      -1,
		Outcome:   f.Outcome.String(),
		Status:    sn.Status.String(),
		Score:     int32(sn.Score),
		Dir:       int32(sn.Dir),
		BodyX:     make([]int32, len(sn.Body)),
		BodyY:     make([]int32, len(sn.Body)),
		FoodX:     int32(sn.Food.X),
		FoodY:     int32(sn.Food.Y),
		HasFood:   sn.HasFood,

		FoodsX:     make([]int32, len(sn.Foods)),
		FoodsY:     make([]int32, len(sn.Foods)),
		FoodKinds:  make([]int32, len(sn.Foods)),
		PickupX:    int32(sn.Pickup.Pos.X),
		PickupY:    int32(sn.Pickup.Pos.Y),
		PickupKind: sn.Pickup.Kind.String(),
		HasPickup:  sn.HasPickup,
		Active:     sn.Active.String(),
		ActiveLeft: int32(sn.ActiveLeft),
	}
	if f.HasMove {
		row.Move = int32(f.Move)
	}
	for i, p := range sn.Body {
		row.BodyX[i] = int32(p.X)
		row.BodyY[i] = int32(p.Y)
	}
	for i, food := range sn.Foods {
		row.FoodsX[i] = int32(food.Pos.X)
		row.FoodsY[i] = int32(food.Pos.Y)
		row.FoodKinds[i] = int32(food.Kind)
	}
	return row
}

// Equal compares two rows field by field.
func (r Row) Equal(o Row) bool {
	return r.SessionID == o.SessionID &&
		r.Tick == o.Tick &&
		r.Width == o.Width &&
		r.Height == o.Height &&
		r.Move == o.Move &&
		r.Outcome == o.Outcome &&
		r.Status == o.Status &&
		r.Score == o.Score &&
		r.Dir == o.Dir &&
		r.FoodX == o.FoodX &&
		r.FoodY == o.FoodY &&
		r.HasFood == o.HasFood &&
		r.PickupX == o.PickupX &&
		r.PickupY == o.PickupY &&
		r.PickupKind == o.PickupKind &&
		r.HasPickup == o.HasPickup &&
		r.Active == o.Active &&
		r.ActiveLeft == o.ActiveLeft &&
		slices.Equal(r.BodyX, o.BodyX) &&
		slices.Equal(r.BodyY, o.BodyY) &&
		slices.Equal(r.FoodsX, o.FoodsX) &&
		slices.Equal(r.FoodsY, o.FoodsY) &&
		slices.Equal(r.FoodKinds, o.FoodKinds)
}

// WriteFile simulates rec and writes every frame to a zstd-compressed
// parquet file. The file is written to a temp path and renamed into place.
func WriteFile(outPath string, rec Recording) error {
	frames, err := rec.Simulate()
	if err != nil {
		return err
	}

	rows := make([]Row, len(frames))
	for i, f := range frames {
		rows[i] = RowFromFrame(rec.SessionID, f)
	}

	return writeRows(outPath, rec, rows)
}

func writeRows(outPath string, rec Recording, rows []Row) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("replay: create output dir: %w", err)
	}

	tmpPath := outPath + ".tmp"
	_ = os.Remove(tmpPath)

	if err := parquet.WriteFile(tmpPath, rows,
		parquet.Compression(&zstd.Codec{Level: zstd.SpeedBetterCompression}),
		parquet.KeyValueMetadata(metaSchema, schemaVersion),
		parquet.KeyValueMetadata(metaSessionID, rec.SessionID),
		parquet.KeyValueMetadata(metaGameID, rec.GameID),
		parquet.KeyValueMetadata(metaSeed, strconv.FormatUint(rec.Seed, 10)),
		parquet.KeyValueMetadata(metaWidth, strconv.Itoa(rec.Settings.Grid.Width)),
		parquet.KeyValueMetadata(metaHeight, strconv.Itoa(rec.Settings.Grid.Height)),
		parquet.KeyValueMetadata(metaInitialLength, strconv.Itoa(rec.Settings.InitialLength)),
		parquet.KeyValueMetadata(metaWrapWalls, strconv.FormatBool(rec.Settings.WrapWalls)),
		parquet.KeyValueMetadata(metaFeast, strconv.FormatBool(rec.Settings.Feast)),
		parquet.KeyValueMetadata(metaPowerUps, strconv.FormatBool(rec.Settings.PowerUps)),
	); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replay: write parquet: %w", err)
	}

	if err := os.Rename(tmpPath, outPath); err != nil {
		return fmt.Errorf("replay: rename parquet: %w", err)
	}
	return nil
}

// ReadFile loads a replay file. The recording is rebuilt from the footer
// metadata and the stored moves; rows are returned as stored.
func ReadFile(path string) (Recording, []Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return Recording{}, nil, fmt.Errorf("replay: %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return Recording{}, nil, fmt.Errorf("replay: %w", err)
	}

	pf, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		return Recording{}, nil, fmt.Errorf("replay: open parquet: %w", err)
	}

	rec, err := recordingFromMetadata(pf)
	if err != nil {
		return Recording{}, nil, fmt.Errorf("replay: %s: %w", path, err)
	}

	reader := parquet.NewGenericReader[Row](pf)
	defer reader.Close()

	rows := make([]Row, 0, reader.NumRows())
	buf := make([]Row, 256)
	for {
		n, err := reader.Read(buf)
		rows = append(rows, buf[:n]...)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Recording{}, nil, fmt.Errorf("replay: read rows: %w", err)
		}
		if n == 0 {
			break
		}
	}

	for _, row := range rows {
		if row.Move < 0 {
			continue
		}
		d := core.Direction(row.Move)
		if !d.Valid() {
			return Recording{}, nil, fmt.Errorf("replay: tick %d: bad move %d", row.Tick, row.Move)
		}
		rec.Moves = append(rec.Moves, d)
	}
	return rec, rows, nil
}

func recordingFromMetadata(pf *parquet.File) (Recording, error) {
	lookup := func(key string) (string, error) {
		v, ok := pf.Lookup(key)
		if !ok {
			return "", fmt.Errorf("missing metadata %q", key)
		}
		return v, nil
	}
	atoi := func(key string) (int, error) {
		v, err := lookup(key)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("metadata %q: %w", key, err)
		}
		return n, nil
	}

	schema, err := lookup(metaSchema)
	if err != nil {
		return Recording{}, err
	}
	if schema != schemaVersion {
		return Recording{}, fmt.Errorf("unsupported schema %q", schema)
	}

	var rec Recording
	if rec.SessionID, err = lookup(metaSessionID); err != nil {
		return rec, err
	}
	if rec.GameID, err = lookup(metaGameID); err != nil {
		return rec, err
	}
	seed, err := lookup(metaSeed)
	if err != nil {
		return rec, err
	}
	if rec.Seed, err = strconv.ParseUint(seed, 10, 64); err != nil {
		return rec, fmt.Errorf("metadata %q: %w", metaSeed, err)
	}
	if rec.Settings.Grid.Width, err = atoi(metaWidth); err != nil {
		return rec, err
	}
	if rec.Settings.Grid.Height, err = atoi(metaHeight); err != nil {
		return rec, err
	}
	if rec.Settings.InitialLength, err = atoi(metaInitialLength); err != nil {
		return rec, err
	}
	flags := []struct {
		key string
		dst *bool
	}{
		{metaWrapWalls, &rec.Settings.WrapWalls},
		{metaFeast, &rec.Settings.Feast},
		{metaPowerUps, &rec.Settings.PowerUps},
	}
	for _, f := range flags {
		v, err := lookup(f.key)
		if err != nil {
			return rec, err
		}
		if *f.dst, err = strconv.ParseBool(v); err != nil {
			return rec, fmt.Errorf("metadata %q: %w", f.key, err)
		}
	}
	return rec, nil
}

// Verify re-simulates the recording stored in path and compares every
// stored row with the recomputed one. It returns the final frame.
func Verify(path string) (Frame, error) {
	rec, rows, err := ReadFile(path)
	if err != nil {
		return Frame{}, err
	}

	frames, err := rec.Simulate()
	if err != nil {
		return Frame{}, err
	}
	if len(frames) != len(rows) {
		return Frame{}, fmt.Errorf("replay: %d stored rows, %d simulated: %w", len(rows), len(frames), ErrMismatch)
	}
	for i, f := range frames {
		if want := RowFromFrame(rec.SessionID, f); !want.Equal(rows[i]) {
			return Frame{}, fmt.Errorf("replay: tick %d differs: %w", rows[i].Tick, ErrMismatch)
		}
	}
	return frames[len(frames)-1], nil
}

// SnapshotFromRow rebuilds the engine snapshot a row was made from.
func SnapshotFromRow(r Row, settings snake.Settings) snake.Snapshot {
	body := make([]core.Position, len(r.BodyX))
	for i := range body {
		body[i] = core.Position{X: int(r.BodyX[i]), Y: int(r.BodyY[i])}
	}
	var foods []snake.Food
	for i := range r.FoodsX {
		foods = append(foods, snake.Food{
			Pos:  core.Position{X: int(r.FoodsX[i]), Y: int(r.FoodsY[i])},
			Kind: snake.FoodKind(r.FoodKinds[i]),
		})
	}

	sn := snake.Snapshot{
		Tick:       core.Tick(r.Tick),
		Grid:       core.GridSize{Width: int(r.Width), Height: int(r.Height)},
		Status:     parseStatus(r.Status),
		Score:      int(r.Score),
		Dir:        core.Direction(r.Dir),
		Body:       body,
		Food:       core.Position{X: int(r.FoodX), Y: int(r.FoodY)},
		HasFood:    r.HasFood,
		Foods:      foods,
		Active:     parsePowerUp(r.Active),
		ActiveLeft: int(r.ActiveLeft),
		WrapWalls:  settings.WrapWalls,
		Feast:      settings.Feast,
		PowerUps:   settings.PowerUps,
	}
	if r.HasPickup {
		sn.Pickup = snake.Pickup{
			Pos:  core.Position{X: int(r.PickupX), Y: int(r.PickupY)},
			Kind: parsePowerUp(r.PickupKind),
		}
		sn.HasPickup = true
	}
	return sn
}

func parseStatus(s string) snake.Status {
	for _, st := range []snake.Status{snake.StatusRunning, snake.StatusPaused, snake.StatusOver} {
		if st.String() == s {
			return st
		}
	}
	return snake.StatusOver
}

func parsePowerUp(s string) snake.PowerUpKind {
	for _, k := range []snake.PowerUpKind{snake.PowerUpFast, snake.PowerUpSlow} {
		if k.String() == s {
			return k
		}
	}
	return snake.PowerUpNone
}
