package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/llmstxt/internal/model"
)

// FileName is the name of the database file inside the data directory.
const FileName = "llmstxt.db"

// HistoryDB is the SQLite store of past generation runs.
type HistoryDB struct {
	db     *sql.DB
	dbPath string
}

// Options configures how the database is opened.
type Options struct {
	// CreateIfNotExists creates the directory and database file when
	// missing. Commands that only read history leave it off so that a
	// typo in the data directory does not silently create an empty store.
	CreateIfNotExists bool

	// EnableWAL switches the journal to write-ahead logging.
	EnableWAL bool
}

// DefaultOptions returns the options used when saving runs.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens the history database in dbDir.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	mode := "rwc"
	if opts.CreateIfNotExists {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	} else {
		if _, err := os.Stat(dbPath); errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w at %s", ErrNotFound, dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
		mode = "rw"
	}

	// Readers wait for a concurrent writer instead of failing with SQLITE_BUSY.
	db, err := sql.Open("sqlite", dbPath+"?mode="+mode+"&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{db: db, dbPath: dbPath}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := hdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return hdb, nil
}

// Close closes the database.
func (h *HistoryDB) Close() error {
	return h.db.Close()
}

// Path returns the database file path.
func (h *HistoryDB) Path() string {
	return h.dbPath
}

func (h *HistoryDB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		root_url TEXT NOT NULL,
		site_name TEXT NOT NULL,
		created_at TEXT NOT NULL,
		elapsed_ms INTEGER NOT NULL DEFAULT 0,
		processed INTEGER NOT NULL DEFAULT 0,
		total INTEGER NOT NULL DEFAULT 0,
		digest TEXT NOT NULL,
		llms_txt TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_root_url ON runs(root_url);
	CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);
	`
	_, err := h.db.ExecContext(context.Background(), schema)
	return err
}

// RunRecord is one stored run.
type RunRecord struct {
	ID        int64
	RootURL   string
	SiteName  string
	CreatedAt time.Time
	Elapsed   time.Duration
	Processed int
	Total     int
	Digest    string

	// LLMsTxt is empty in listings and filled by GetRun and LatestRuns.
	LLMsTxt string
}

// SaveRun appends result to the history and returns the new run ID.
func (h *HistoryDB) SaveRun(ctx context.Context, result *model.Result) (int64, error) {
	if result == nil {
		return 0, errors.New("result is nil")
	}

	createdAt := result.StartedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	query := `
	INSERT INTO runs (root_url, site_name, created_at, elapsed_ms, processed, total, digest, llms_txt)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	res, err := h.db.ExecContext(ctx, query,
		SiteKey(result.RootURL),
		result.SiteName,
		createdAt.UTC().Format(time.RFC3339Nano),
		result.Elapsed.Milliseconds(),
		result.ProcessedCount,
		result.TotalCount,
		result.Digest(),
		result.LLMsTxt,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save run: %w", err)
	}
	return res.LastInsertId()
}

// ListSites returns every root URL with at least one run, sorted.
func (h *HistoryDB) ListSites(ctx context.Context) ([]string, error) {
	rows, err := h.db.QueryContext(ctx, `SELECT DISTINCT root_url FROM runs ORDER BY root_url`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sites: %w", err)
	}
	defer rows.Close()

	var sites []string
	for rows.Next() {
		var site string
		if err := rows.Scan(&site); err != nil {
			return nil, fmt.Errorf("failed to scan site: %w", err)
		}
		sites = append(sites, site)
	}
	return sites, rows.Err()
}

// ListRuns returns the runs of rootURL, newest first, without their text.
func (h *HistoryDB) ListRuns(ctx context.Context, rootURL string) ([]RunRecord, error) {
	query := `
	SELECT id, root_url, site_name, created_at, elapsed_ms, processed, total, digest
	FROM runs
	WHERE root_url = ?
	ORDER BY created_at DESC, id DESC
	`
	rows, err := h.db.QueryContext(ctx, query, SiteKey(rootURL))
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		var (
			r         RunRecord
			createdAt string
			elapsedMS int64
		)
		if err := rows.Scan(&r.ID, &r.RootURL, &r.SiteName, &createdAt, &elapsedMS, &r.Processed, &r.Total, &r.Digest); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		r.CreatedAt = parseTimestamp(createdAt)
		r.Elapsed = time.Duration(elapsedMS) * time.Millisecond
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetRun returns the run with the given ID, including its llms.txt.
func (h *HistoryDB) GetRun(ctx context.Context, id int64) (*RunRecord, error) {
	query := `
	SELECT id, root_url, site_name, created_at, elapsed_ms, processed, total, digest, llms_txt
	FROM runs
	WHERE id = ?
	`
	r, err := scanFullRun(h.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return r, nil
}

// LatestRuns returns up to n runs of rootURL, newest first, including
// their llms.txt.
func (h *HistoryDB) LatestRuns(ctx context.Context, rootURL string, n int) ([]*RunRecord, error) {
	query := `
	SELECT id, root_url, site_name, created_at, elapsed_ms, processed, total, digest, llms_txt
	FROM runs
	WHERE root_url = ?
	ORDER BY created_at DESC, id DESC
	LIMIT ?
	`
	rows, err := h.db.QueryContext(ctx, query, SiteKey(rootURL), n)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest runs: %w", err)
	}
	defer rows.Close()

	var runs []*RunRecord
	for rows.Next() {
		r, err := scanFullRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFullRun(row rowScanner) (*RunRecord, error) {
	var (
		r         RunRecord
		createdAt string
		elapsedMS int64
	)
	if err := row.Scan(&r.ID, &r.RootURL, &r.SiteName, &createdAt, &elapsedMS, &r.Processed, &r.Total, &r.Digest, &r.LLMsTxt); err != nil {
		return nil, err
	}
	r.CreatedAt = parseTimestamp(createdAt)
	r.Elapsed = time.Duration(elapsedMS) * time.Millisecond
	return &r, nil
}

// timestampFormats are tried in order when reading created_at.
var timestampFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// parseTimestamp returns the zero time when s matches no known format.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// SiteKey returns the form of rawURL under which runs are stored, so that
// spellings of the same root such as "https://Ex.com/" and "https://ex.com"
// share one history. Scheme and host are lower-cased, the fragment is
// dropped and trailing slashes are trimmed from the path.
func SiteKey(rawURL string) string {
	rawURL = strings.TrimSpace(rawURL)
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	u.RawFragment = ""
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawPath = strings.TrimRight(u.RawPath, "/")
	return u.String()
}
