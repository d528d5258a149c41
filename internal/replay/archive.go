package replay

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
)

// Archive stores one parquet file per session in a directory.
type Archive struct {
	Dir    string
	Logger *log.Logger
}

// NewArchive returns an archive rooted at dir. A nil logger discards output.
func NewArchive(dir string, logger *log.Logger) *Archive {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Archive{Dir: dir, Logger: logger}
}

// Path returns where the session with the given id is stored.
func (a *Archive) Path(sessionID string) string {
	return filepath.Join(a.Dir, sessionID+".parquet")
}

// Save writes rec into the archive and returns its path.
func (a *Archive) Save(rec Recording) (string, error) {
	if rec.SessionID == "" {
		return "", fmt.Errorf("replay: recording has no session id")
	}
	path := a.Path(rec.SessionID)
	if err := WriteFile(path, rec); err != nil {
		a.Logger.Error("replay not saved", "session", rec.SessionID, "error", err)
		return "", err
	}
	a.Logger.Info("replay saved",
		"session", rec.SessionID,
		"game", rec.GameID,
		"moves", len(rec.Moves),
		"path", path,
	)
	return path, nil
}

// List returns the stored replay files, sorted by name. A missing directory
// is an empty archive.
func (a *Archive) List() ([]string, error) {
	entries, err := os.ReadDir(a.Dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("replay: list %s: %w", a.Dir, err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".parquet") {
			continue
		}
		paths = append(paths, filepath.Join(a.Dir, e.Name()))
	}
	slices.Sort(paths)
	return paths, nil
}
