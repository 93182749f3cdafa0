// Package store persists market prices, news, and analysis notes to SQLite.
// Prices are a keyed snapshot table (one row per symbol, overwritten on every
// refresh); news and analysis are append-mostly.
package store

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"marketpulse/internal/model"
)

// Store wraps the SQLite database behind the operations the dashboard needs.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// Open opens (or creates) the SQLite database and runs migrations.
func Open(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode for better concurrent read performance (the API layer reads
	// while the refresher writes).
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=3000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set busy_timeout: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite store opened: %s", dbPath)
	return s, nil
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS market_prices (
			symbol       TEXT PRIMARY KEY,
			display_name TEXT NOT NULL,
			price        REAL NOT NULL,
			change_pct   REAL,
			high_24h     REAL,
			low_24h      REAL,
			volume       REAL,
			updated_at   INTEGER NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS news (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			url          TEXT NOT NULL UNIQUE,
			title        TEXT,
			source       TEXT,
			snippet      TEXT,
			published_at TEXT,
			created_at   INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_news_created ON news(created_at)`,

		`CREATE TABLE IF NOT EXISTS analysis (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			symbol     TEXT,
			sentiment  TEXT,
			title      TEXT,
			summary    TEXT,
			source_url TEXT,
			created_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_analysis_created ON analysis(created_at)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

// UpsertPrice writes the snapshot for one symbol, overwriting every mutable
// field. Idempotent: replaying the same record is a no-op beyond updated_at.
func (s *Store) UpsertPrice(p model.MarketPrice) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`INSERT INTO market_prices
		(symbol, display_name, price, change_pct, high_24h, low_24h, volume, updated_at)
		VALUES (?,?,?,?,?,?,?,?)
		ON CONFLICT(symbol) DO UPDATE SET
			display_name = excluded.display_name,
			price        = excluded.price,
			change_pct   = excluded.change_pct,
			high_24h     = excluded.high_24h,
			low_24h      = excluded.low_24h,
			volume       = excluded.volume,
			updated_at   = excluded.updated_at`,
		p.Symbol, p.DisplayName, p.Price, p.ChangePct, p.High24h, p.Low24h, p.Volume,
		p.UpdatedAt.Unix(),
	)
	return err
}

// ListPrices returns every stored price snapshot.
func (s *Store) ListPrices() ([]model.MarketPrice, error) {
	rows, err := s.db.Query(`SELECT symbol, display_name, price, change_pct,
		high_24h, low_24h, volume, updated_at FROM market_prices ORDER BY symbol`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.MarketPrice
	for rows.Next() {
		var p model.MarketPrice
		var change, high, low, volume sql.NullFloat64
		var updated int64
		if err := rows.Scan(&p.Symbol, &p.DisplayName, &p.Price,
			&change, &high, &low, &volume, &updated); err != nil {
			return nil, err
		}
		p.ChangePct = nullable(change)
		p.High24h = nullable(high)
		p.Low24h = nullable(low)
		p.Volume = nullable(volume)
		p.UpdatedAt = time.Unix(updated, 0).UTC()
		out = append(out, p)
	}
	return out, rows.Err()
}

// InsertNews stores one news item, deduplicated by URL. Returns false when
// the URL was already present.
func (s *Store) InsertNews(n model.NewsItem) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`INSERT OR IGNORE INTO news
		(url, title, source, snippet, published_at, created_at)
		VALUES (?,?,?,?,?,?)`,
		n.URL, n.Title, n.Source, n.Snippet, n.PublishedAt, n.CreatedAt.Unix(),
	)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// ListRecentNews returns up to limit items, newest first.
func (s *Store) ListRecentNews(limit int) ([]model.NewsItem, error) {
	rows, err := s.db.Query(`SELECT id, url, title, source, snippet, published_at, created_at
		FROM news ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.NewsItem
	for rows.Next() {
		var n model.NewsItem
		var created int64
		if err := rows.Scan(&n.ID, &n.URL, &n.Title, &n.Source, &n.Snippet,
			&n.PublishedAt, &created); err != nil {
			return nil, err
		}
		n.CreatedAt = time.Unix(created, 0).UTC()
		out = append(out, n)
	}
	return out, rows.Err()
}

// InsertAnalysis stores one sentiment-tagged analysis note.
func (s *Store) InsertAnalysis(a model.AnalysisNote) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`INSERT INTO analysis
		(symbol, sentiment, title, summary, source_url, created_at)
		VALUES (?,?,?,?,?,?)`,
		a.Symbol, a.Sentiment, a.Title, a.Summary, a.SourceURL, a.CreatedAt.Unix(),
	)
	return err
}

// ListRecentAnalyses returns up to limit notes, newest first.
func (s *Store) ListRecentAnalyses(limit int) ([]model.AnalysisNote, error) {
	rows, err := s.db.Query(`SELECT id, symbol, sentiment, title, summary, source_url, created_at
		FROM analysis ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.AnalysisNote
	for rows.Next() {
		var a model.AnalysisNote
		var created int64
		if err := rows.Scan(&a.ID, &a.Symbol, &a.Sentiment, &a.Title, &a.Summary,
			&a.SourceURL, &created); err != nil {
			return nil, err
		}
		a.CreatedAt = time.Unix(created, 0).UTC()
		out = append(out, a)
	}
	return out, rows.Err()
}

// Close closes the underlying database.
func (s *Store) Close() error {
	log.Println("[INFO] closing sqlite store")
	return s.db.Close()
}

func nullable(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	return &v.Float64
}
