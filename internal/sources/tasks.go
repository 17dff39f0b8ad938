package sources

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/rileyhilliard/pulseline/internal/logger"
)

const (
	dayFormat = "2006-01-02"

	// maxStreakDays bounds the history scanned for a streak.
	maxStreakDays = 366
)

// Progress is today's points against the daily target.
type Progress struct {
	Earned int
	Target int
}

// TaskStoreOptions configures a TaskStore.
type TaskStoreOptions struct {
	// Path is the SQLite database owned by the external task tracker.
	Path string

	// DefaultTarget is used when the database has no daily_target setting.
	DefaultTarget int

	// BusyTimeout is how long SQLite waits on a writer's lock.
	BusyTimeout time.Duration

	// Now returns the current local time. Defaults to time.Now.
	Now func() time.Time

	Log logger.Logger
}

// TaskStore reads progress, streak and active counts from the task
// tracker's database. The database is opened read-only on first use and
// each query is independent, so one failing query only loses its own field.
type TaskStore struct {
	opts TaskStoreOptions
	db   *sql.DB
}

// NewTaskStore creates a TaskStore. Nothing is opened until the first query.
func NewTaskStore(opts TaskStoreOptions) *TaskStore {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Log == nil {
		opts.Log = logger.Noop()
	}
	if opts.BusyTimeout <= 0 {
		opts.BusyTimeout = 250 * time.Millisecond
	}
	return &TaskStore{opts: opts}
}

// Close releases the database handle, if one was opened.
func (s *TaskStore) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// conn opens the database read-only. A missing file is ErrUnavailable;
// we never let the driver create an empty database in its place.
func (s *TaskStore) conn() (*sql.DB, error) {
	if s.db != nil {
		return s.db, nil
	}
	if s.opts.Path == "" {
		return nil, unavailable("no task database configured")
	}
	if _, err := os.Stat(s.opts.Path); err != nil {
		if os.IsNotExist(err) {
			return nil, unavailable("%s does not exist", s.opts.Path)
		}
		return nil, unavailable("stat %s: %v", s.opts.Path, err)
	}

	db, err := sql.Open("sqlite3", readOnlyDSN(s.opts.Path, s.opts.BusyTimeout))
	if err != nil {
		return nil, unavailable("open %s: %v", s.opts.Path, err)
	}
	db.SetMaxOpenConns(1)

	s.db = db
	return db, nil
}

// readOnlyDSN builds a file: URI for path. The path is escaped so '#',
// '?' and '%' in a file name can't turn into URI syntax and drop mode=ro.
func readOnlyDSN(path string, busyTimeout time.Duration) string {
	u := url.URL{
		Scheme:   "file",
		Path:     path,
		RawQuery: fmt.Sprintf("mode=ro&_busy_timeout=%d", busyTimeout.Milliseconds()),
	}
	return u.String()
}

// Progress returns points earned today and the daily target.
func (s *TaskStore) Progress(ctx context.Context) (Progress, error) {
	db, err := s.conn()
	if err != nil {
		return Progress{}, err
	}

	today := s.opts.Now().Format(dayFormat)

	var earned int
	err = db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(points), 0) FROM tasks
		 WHERE status = 'done' AND substr(completed_at, 1, 10) = ?`,
		today,
	).Scan(&earned)
	if err != nil {
		return Progress{}, classifyQueryError(ctx, "points earned today", err)
	}
	if earned < 0 {
		return Progress{}, malformed("negative points total %d", earned)
	}

	target, err := s.DailyTarget(ctx)
	if err != nil {
		return Progress{}, err
	}

	return Progress{Earned: earned, Target: target}, nil
}

// DailyTarget returns settings.daily_target, or the configured default when
// the settings table, the row, or a usable value is missing.
func (s *TaskStore) DailyTarget(ctx context.Context) (int, error) {
	db, err := s.conn()
	if err != nil {
		return 0, err
	}

	var raw string
	err = db.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE key = 'daily_target'`,
	).Scan(&raw)
	switch {
	case err == nil:
	case errors.Is(err, sql.ErrNoRows), isNoSuchTable(err):
		return s.opts.DefaultTarget, nil
	default:
		return 0, classifyQueryError(ctx, "daily target", err)
	}

	target, convErr := strconv.Atoi(strings.TrimSpace(raw))
	if convErr != nil || target <= 0 {
		s.opts.Log.Debug("ignoring daily_target %q, using default %d", raw, s.opts.DefaultTarget)
		return s.opts.DefaultTarget, nil
	}
	return target, nil
}

// Streak returns the number of consecutive days on which done points met
// the daily target. Today counts only once it is met; until then the streak
// runs through yesterday.
func (s *TaskStore) Streak(ctx context.Context) (int, error) {
	db, err := s.conn()
	if err != nil {
		return 0, err
	}

	target, err := s.DailyTarget(ctx)
	if err != nil {
		return 0, err
	}

	now := s.opts.Now()
	rows, err := db.QueryContext(ctx,
		`SELECT substr(completed_at, 1, 10) AS day, COALESCE(SUM(points), 0)
		 FROM tasks
		 WHERE status = 'done' AND completed_at IS NOT NULL AND substr(completed_at, 1, 10) <= ?
		 GROUP BY day
		 ORDER BY day DESC
		 LIMIT ?`,
		now.Format(dayFormat), maxStreakDays,
	)
	if err != nil {
		return 0, classifyQueryError(ctx, "daily totals", err)
	}
	defer rows.Close()

	daily := make(map[string]int)
	for rows.Next() {
		var day string
		var points int
		if err := rows.Scan(&day, &points); err != nil {
			return 0, malformed("scan daily totals: %v", err)
		}
		daily[day] = points
	}
	if err := rows.Err(); err != nil {
		return 0, classifyQueryError(ctx, "daily totals", err)
	}

	return countStreak(daily, target, now), nil
}

// ActiveCount returns the number of tasks currently marked active.
func (s *TaskStore) ActiveCount(ctx context.Context) (int, error) {
	db, err := s.conn()
	if err != nil {
		return 0, err
	}

	var n int
	err = db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tasks WHERE status = 'active'`).Scan(&n)
	if err != nil {
		return 0, classifyQueryError(ctx, "active tasks", err)
	}
	return n, nil
}

// countStreak walks back day by day from today (or yesterday, if today's
// target isn't met yet) while each day's points meet the target.
func countStreak(daily map[string]int, target int, now time.Time) int {
	if target <= 0 {
		return 0
	}

	day := now
	if daily[day.Format(dayFormat)] < target {
		day = day.AddDate(0, 0, -1)
	}

	streak := 0
	for streak < maxStreakDays && daily[day.Format(dayFormat)] >= target {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}

// classifyQueryError maps driver errors onto the source taxonomy.
func classifyQueryError(ctx context.Context, what string, err error) error {
	if ctxErr := fromContext(ctx); ctxErr != nil {
		return fmt.Errorf("query %s: %w", what, ctxErr)
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code {
		case sqlite3.ErrNotADB, sqlite3.ErrCorrupt:
			return malformed("query %s: %v", what, err)
		}
	}
	if isNoSuchTable(err) {
		return unavailable("query %s: %v", what, err)
	}
	if strings.Contains(err.Error(), "converting") {
		return malformed("query %s: %v", what, err)
	}
	return unavailable("query %s: %v", what, err)
}

func isNoSuchTable(err error) bool {
	return err != nil && strings.Contains(err.Error(), "no such table")
}
