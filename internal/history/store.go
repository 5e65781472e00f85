package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/mlipski/usagewidget/internal/activity"
	"github.com/mlipski/usagewidget/internal/core"
	"github.com/mlipski/usagewidget/internal/settings"
)

// Store keeps one row per widget refresh so utilization can be inspected
// after the fact. Quota percentages are nullable: a refresh whose remote call
// failed still gets a row, with only local stats filled in.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Snapshot is one recorded refresh.
type Snapshot struct {
	TakenAt        time.Time
	FiveHour       *float64
	SevenDay       *float64
	SevenDaySonnet *float64
	SevenDayOpus   *float64
	TokenStats     activity.TokenStats
	Error          string
}

func DefaultPath() string {
	return filepath.Join(settings.Dir(), "history.db")
}

func OpenStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("history: creating DB dir: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("history: opening DB: %w", err)
	}
	if err := configureConnection(db); err != nil {
		db.Close()
		return nil, err
	}

	store := NewStore(db)
	if err := store.Init(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db, now: time.Now}
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) Init(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS snapshots (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			taken_at TEXT NOT NULL,
			five_hour_pct REAL,
			seven_day_pct REAL,
			seven_day_sonnet_pct REAL,
			seven_day_opus_pct REAL,
			today_tokens INTEGER NOT NULL,
			week_tokens INTEGER NOT NULL,
			today_messages INTEGER NOT NULL,
			week_messages INTEGER NOT NULL,
			error TEXT NOT NULL DEFAULT ''
		);`,
		`CREATE INDEX IF NOT EXISTS idx_snapshots_taken_at ON snapshots(taken_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("history: init schema: %w", err)
		}
	}
	return nil
}

func (s *Store) Record(ctx context.Context, data core.WidgetData) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO snapshots (
			taken_at,
			five_hour_pct, seven_day_pct, seven_day_sonnet_pct, seven_day_opus_pct,
			today_tokens, week_tokens, today_messages, week_messages,
			error
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.now().UTC().Format(time.RFC3339),
		percentOf(data.FiveHour), percentOf(data.SevenDay),
		percentOf(data.SevenDaySonnet), percentOf(data.SevenDayOpus),
		data.TokenStats.TodayTokens, data.TokenStats.WeekTokens,
		data.TokenStats.TodayMessages, data.TokenStats.WeekMessages,
		data.Error,
	)
	if err != nil {
		return fmt.Errorf("history: recording snapshot: %w", err)
	}
	return nil
}

// Recent returns up to limit snapshots, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Snapshot, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT taken_at,
			five_hour_pct, seven_day_pct, seven_day_sonnet_pct, seven_day_opus_pct,
			today_tokens, week_tokens, today_messages, week_messages,
			error
		FROM snapshots ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("history: querying snapshots: %w", err)
	}
	defer rows.Close()

	var snaps []Snapshot
	for rows.Next() {
		var (
			snap    Snapshot
			takenAt string
			fiveH   sql.NullFloat64
			sevenD  sql.NullFloat64
			sonnet  sql.NullFloat64
			opus    sql.NullFloat64
		)
		if err := rows.Scan(&takenAt,
			&fiveH, &sevenD, &sonnet, &opus,
			&snap.TokenStats.TodayTokens, &snap.TokenStats.WeekTokens,
			&snap.TokenStats.TodayMessages, &snap.TokenStats.WeekMessages,
			&snap.Error,
		); err != nil {
			return nil, fmt.Errorf("history: scanning snapshot: %w", err)
		}
		snap.TakenAt, _ = time.Parse(time.RFC3339, takenAt)
		snap.FiveHour = nullableFloat(fiveH)
		snap.SevenDay = nullableFloat(sevenD)
		snap.SevenDaySonnet = nullableFloat(sonnet)
		snap.SevenDayOpus = nullableFloat(opus)
		snaps = append(snaps, snap)
	}
	return snaps, rows.Err()
}

// Prune drops snapshots older than keep, so the widget DB stays small.
func (s *Store) Prune(ctx context.Context, keep time.Duration) error {
	cutoff := s.now().UTC().Add(-keep).Format(time.RFC3339)
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM snapshots WHERE taken_at < ?`, cutoff); err != nil {
		return fmt.Errorf("history: pruning snapshots: %w", err)
	}
	return nil
}

func configureConnection(db *sql.DB) error {
	if _, err := db.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		return fmt.Errorf("history: set journal_mode WAL: %w", err)
	}
	if _, err := db.Exec(`PRAGMA busy_timeout = 5000;`); err != nil {
		return fmt.Errorf("history: set busy_timeout: %w", err)
	}
	return nil
}

func percentOf(m *core.UsageMetric) any {
	if m == nil {
		return nil
	}
	return m.Percent
}

func nullableFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
