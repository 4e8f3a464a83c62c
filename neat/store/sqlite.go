package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/baldhumanity/neat-genes/neat"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists runs in a SQLite database file.
type SQLiteStore struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

// NewSQLiteStore returns a store backed by the database at path. Call Init before use.
func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

func (s *SQLiteStore) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return errors.New("sqlite path is required")
	}
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return err
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}

	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return err
	}

	neat.Logger().Debug("sqlite store ready", "path", s.path)
	s.db = db
	return nil
}

func (s *SQLiteStore) SaveConfig(ctx context.Context, runID string, cfg *neat.Config) error {
	if err := requireRun(runID); err != nil {
		return err
	}
	db, err := s.getDB()
	if err != nil {
		return err
	}

	payload, err := encodeConfig(cfg)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO configs (run_id, payload)
		VALUES (?, ?)
		ON CONFLICT(run_id) DO UPDATE SET
			payload = excluded.payload
	`, runID, payload)
	return err
}

func (s *SQLiteStore) LoadConfig(ctx context.Context, runID string) (*neat.Config, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, false, err
	}

	var payload []byte
	err = db.QueryRowContext(ctx, `SELECT payload FROM configs WHERE run_id = ?`, runID).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}

	cfg, err := decodeConfig(payload)
	if err != nil {
		return nil, false, fmt.Errorf("decode config %s: %w", runID, err)
	}
	return cfg, true, nil
}

func (s *SQLiteStore) SaveGenome(ctx context.Context, runID, id string, g *neat.Genome) (string, error) {
	if err := requireRun(runID); err != nil {
		return "", err
	}
	db, err := s.getDB()
	if err != nil {
		return "", err
	}
	if id == "" {
		id = NewGenomeID()
	}

	payload, err := encodeGenome(g)
	if err != nil {
		return "", err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO genomes (run_id, id, fitness, payload)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(run_id, id) DO UPDATE SET
			fitness = excluded.fitness,
			payload = excluded.payload
	`, runID, id, g.Fitness(), payload)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *SQLiteStore) LoadGenome(ctx context.Context, runID, id string, cfg *neat.Config) (*neat.Genome, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, false, err
	}

	var (
		fitness float64
		payload []byte
	)
	err = db.QueryRowContext(ctx, `SELECT fitness, payload FROM genomes WHERE run_id = ? AND id = ?`, runID, id).
		Scan(&fitness, &payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}

	g, err := decodeGenome(payload, cfg)
	if err != nil {
		return nil, false, fmt.Errorf("decode genome %s/%s: %w", runID, id, err)
	}
	g.SetFitness(fitness)
	return g, true, nil
}

func (s *SQLiteStore) ListGenomes(ctx context.Context, runID string) ([]string, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `SELECT id FROM genomes WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLiteStore) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, errNotInitialized
	}
	return s.db, nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS configs (
			run_id TEXT PRIMARY KEY,
			payload BLOB NOT NULL
		);
		CREATE TABLE IF NOT EXISTS genomes (
			run_id TEXT NOT NULL,
			id TEXT NOT NULL,
			fitness REAL NOT NULL,
			payload BLOB NOT NULL,
			PRIMARY KEY (run_id, id)
		);
	`)
	return err
}
