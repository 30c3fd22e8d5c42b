package cache

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"FearIndex/internal/model"
)

// MemoryDSN keeps the SQLite cache in process memory.
const MemoryDSN = ":memory:"

// SQLiteStore keeps entries in a SQLite table.
type SQLiteStore struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteStore opens (or creates) the database and runs migrations.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	if dsn == "" {
		dsn = MemoryDSN
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// every pooled connection to :memory: would see its own empty database
	db.SetMaxOpenConns(1)

	if dsn != MemoryDSN {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("set WAL mode: %w", err)
		}
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info().Str("dsn", dsn).Msg("sqlite cache opened")
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS fetch_cache (
			cache_key TEXT PRIMARY KEY,
			stored_at INTEGER NOT NULL,
			payload   TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_fetch_cache_stored ON fetch_cache(stored_at)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

// storedPoint is the JSON payload row: unix date and price.
type storedPoint struct {
	T int64   `json:"t"`
	P float64 `json:"p"`
}

func (s *SQLiteStore) Get(key string) (Entry, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		storedAt int64
		payload  string
	)
	err := s.db.QueryRow(`SELECT stored_at, payload FROM fetch_cache WHERE cache_key = ?`, key).
		Scan(&storedAt, &payload)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("select %s: %w", key, err)
	}

	var rows []storedPoint
	if err := json.Unmarshal([]byte(payload), &rows); err != nil {
		return Entry{}, false, fmt.Errorf("decode %s: %w", key, err)
	}
	points := make([]model.PricePoint, len(rows))
	for i, r := range rows {
		points[i] = model.PricePoint{Time: time.Unix(r.T, 0).UTC(), Price: r.P}
	}
	return Entry{Points: points, StoredAt: time.UnixMilli(storedAt)}, true, nil
}

func (s *SQLiteStore) Put(key string, e Entry) error {
	rows := make([]storedPoint, len(e.Points))
	for i, p := range e.Points {
		rows[i] = storedPoint{T: p.Time.Unix(), P: p.Price}
	}
	payload, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = s.db.Exec(`INSERT OR REPLACE INTO fetch_cache (cache_key, stored_at, payload) VALUES (?,?,?)`,
		key, e.StoredAt.UnixMilli(), string(payload))
	return err
}

func (s *SQLiteStore) Sweep(cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, err := s.db.Exec(`DELETE FROM fetch_cache WHERE stored_at < ?`, cutoff.UnixMilli())
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

func (s *SQLiteStore) Close() error {
	log.Info().Msg("closing sqlite cache")
	return s.db.Close()
}
