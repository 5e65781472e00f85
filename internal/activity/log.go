package activity

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// Log mirrors the stats cache Claude Code maintains at
// ~/.claude/stats-cache.json. Every section is optional; per-date entries are
// not guaranteed unique.
type Log struct {
	DailyActivity    []DayActivity `json:"dailyActivity"`
	DailyModelTokens []DayTokens   `json:"dailyModelTokens"`
	LastComputedDate string        `json:"lastComputedDate"`
}

type DayActivity struct {
	Date          string `json:"date"` // "YYYY-MM-DD"
	MessageCount  int64  `json:"messageCount"`
	SessionCount  int64  `json:"sessionCount"`
	ToolCallCount int64  `json:"toolCallCount"`
}

type DayTokens struct {
	Date          string           `json:"date"`
	TokensByModel map[string]int64 `json:"tokensByModel"`
}

func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".claude", "stats-cache.json")
}

// Reader loads the activity log fresh on every call; the file is local and
// small enough that caching buys nothing.
type Reader struct {
	path string
	log  zerolog.Logger
}

func NewReader(path string, logger zerolog.Logger) *Reader {
	if path == "" {
		path = DefaultPath()
	}
	return &Reader{path: path, log: logger}
}

// Read never fails: quota reporting must not be blocked by a corrupt local
// stats file. A missing file is normal (fresh install) and yields an empty
// log; a parse failure is logged and also yields an empty log.
func (r *Reader) Read() Log {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			r.log.Warn().Err(err).Str("path", r.path).Msg("reading activity log")
		}
		return Log{}
	}

	var l Log
	if err := json.Unmarshal(data, &l); err != nil {
		r.log.Warn().Err(err).Str("path", r.path).Msg("parsing activity log")
		return Log{}
	}
	return l
}
