package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/orchis-hq/orchis/pkg/core/domain"
	"github.com/orchis-hq/orchis/pkg/ports"
	_ "github.com/tursodatabase/libsql-client-go/libsql" // Turso driver
	_ "modernc.org/sqlite"                               // Local SQLite driver
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbURL string) (*SQLiteRepository, error) {
	driverName := "sqlite"
	if strings.Contains(dbURL, "libsql://") || strings.Contains(dbURL, "wss://") {
		driverName = "libsql"
	}

	db, err := sql.Open(driverName, dbURL)
	if err != nil {
		return nil, err
	}
	if driverName == "sqlite" {
		// One writer; also keeps shared in-memory databases alive.
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	if err := migrate(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func migrate(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS tools (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		tagline TEXT,
		description TEXT,
		website_url TEXT NOT NULL,
		logo_url TEXT,
		categories JSON,
		tags JSON,
		pricing_model TEXT,
		featured INTEGER DEFAULT 0,
		featured_price INTEGER DEFAULT 0,
		upvotes INTEGER DEFAULT 0,
		status TEXT NOT NULL DEFAULT 'pending',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_tools_status ON tools(status);

	CREATE TABLE IF NOT EXISTS tool_likes (
		tool_id INTEGER NOT NULL,
		machine_id TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (tool_id, machine_id),
		FOREIGN KEY(tool_id) REFERENCES tools(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS posts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		slug TEXT NOT NULL UNIQUE,
		excerpt TEXT,
		content TEXT,
		category TEXT,
		featured INTEGER DEFAULT 0,
		published INTEGER DEFAULT 0,
		read_time INTEGER DEFAULT 1,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_posts_slug ON posts(slug);

	CREATE TABLE IF NOT EXISTS roadmap_items (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		description TEXT,
		status TEXT NOT NULL DEFAULT 'upcoming',
		priority INTEGER DEFAULT 0,
		expected_date DATETIME,
		category TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS changelog_entries (
		id TEXT PRIMARY KEY,
		roadmap_item_id INTEGER UNIQUE,
		title TEXT NOT NULL,
		description TEXT,
		category TEXT,
		released_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS contacts (
		id TEXT PRIMARY KEY,
		name TEXT,
		email TEXT NOT NULL,
		subject TEXT,
		message TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS waitlist (
		email TEXT PRIMARY KEY,
		source TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS search_terms (
		term TEXT PRIMARY KEY,
		count INTEGER NOT NULL DEFAULT 0,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS daily_stats (
		user_id TEXT NOT NULL,
		date TEXT NOT NULL,
		total_sessions INTEGER DEFAULT 0,
		total_messages INTEGER DEFAULT 0,
		categories JSON,
		sentiments JSON,
		PRIMARY KEY (user_id, date)
	);

	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		anonymous_user_id TEXT,
		started_at DATETIME NOT NULL,
		timezone TEXT,
		device TEXT,
		referrer TEXT,
		time_on_page_before_chat REAL DEFAULT 0,
		session_duration REAL DEFAULT 0,
		scroll_depth REAL DEFAULT 0,
		is_return_visitor INTEGER DEFAULT 0,
		message_count INTEGER DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_sessions_user_started ON sessions(user_id, started_at);

	CREATE TABLE IF NOT EXISTS conversations (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		category TEXT,
		sentiment TEXT,
		urgency TEXT,
		topic TEXT,
		resolved INTEGER DEFAULT 0,
		response_time_seconds REAL,
		last_message TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_conversations_user_created ON conversations(user_id, created_at);
	`
	_, err := db.Exec(query)
	return err
}

// Timestamps are stored as UTC text so range filters compare lexically.
const timeLayout = "2006-01-02 15:04:05"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

var parseLayouts = []string{
	timeLayout,
	"2006-01-02 15:04:05.999999999-07:00",
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// timeValue scans DATETIME columns from either driver. modernc hands back
// time.Time, libsql hands back text.
type timeValue struct {
	dst *time.Time
}

func (v timeValue) Scan(src any) error {
	t, err := toTime(src)
	if err != nil {
		return err
	}
	*v.dst = t
	return nil
}

type nullTimeValue struct {
	dst **time.Time
}

func (v nullTimeValue) Scan(src any) error {
	if src == nil {
		*v.dst = nil
		return nil
	}
	t, err := toTime(src)
	if err != nil {
		return err
	}
	*v.dst = &t
	return nil
}

func toTime(src any) (time.Time, error) {
	switch x := src.(type) {
	case nil:
		return time.Time{}, nil
	case time.Time:
		return x.UTC(), nil
	case int64:
		return time.Unix(x, 0).UTC(), nil
	case []byte:
		return parseTime(string(x))
	case string:
		return parseTime(x)
	}
	return time.Time{}, fmt.Errorf("unsupported time value %T", src)
}

func parseTime(s string) (time.Time, error) {
	for _, layout := range parseLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable time %q", s)
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}

func mapConstraintError(err error) error {
	if err == nil {
		return nil
	}
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return fmt.Errorf("%w: %v", domain.ErrConflict, err)
	}
	return err
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// Ensure interface compliance
var (
	_ ports.ToolRepository      = (*SQLiteRepository)(nil)
	_ ports.PostRepository      = (*SQLiteRepository)(nil)
	_ ports.RoadmapRepository   = (*SQLiteRepository)(nil)
	_ ports.LeadRepository      = (*SQLiteRepository)(nil)
	_ ports.AnalyticsRepository = (*SQLiteRepository)(nil)
	_ ports.SearchTermCounter   = (*SQLiteRepository)(nil)
)
