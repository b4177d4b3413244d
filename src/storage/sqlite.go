package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"stock-analyzer/src/helpers"
	"stock-analyzer/src/logger"
	"stock-analyzer/src/models"

	_ "modernc.org/sqlite"
)

// SQLite batch constants
const (
	sqliteMaxVars   = 32000
	paramsPerPoint  = 3
	sqliteBatchSize = sqliteMaxVars / paramsPerPoint
)

// -----------------------------------------------------------------------------

type SQLiteStore struct {
	Config *models.MConfig
	DB     *sql.DB
	Logger *logger.Logger
}

// -----------------------------------------------------------------------------

func NewSQLiteStore(cfg *models.MConfig, log *logger.Logger) (*SQLiteStore, error) {
	return &SQLiteStore{
		Config: cfg,
		Logger: log,
	}, nil
}

// -----------------------------------------------------------------------------

func (s *SQLiteStore) Initialize() error {
	dsn := s.Config.Storage.DBPath

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return err
	}

	if err := db.Ping(); err != nil {
		return err
	}

	s.DB = db

	// PRAGMA optimizations
	if _, err := db.Exec("PRAGMA journal_mode = WAL;"); err != nil {
		s.Logger.Warning("Failed to set WAL mode: %v", err)
	}
	if _, err := db.Exec("PRAGMA synchronous = NORMAL;"); err != nil {
		s.Logger.Warning("Failed to set synchronous mode: %v", err)
	}

	return s.createTables()
}

// -----------------------------------------------------------------------------

func (s *SQLiteStore) createTables() error {
	// SQLite types: INTEGER for int64, REAL for float64, TEXT for string
	query := `
		CREATE TABLE IF NOT EXISTS datasets (
			name TEXT PRIMARY KEY,
			length INTEGER NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
	`
	if _, err := s.DB.Exec(query); err != nil {
		return fmt.Errorf("failed to create datasets: %w", err)
	}

	query = `
		CREATE TABLE IF NOT EXISTS dataset_points (
			name TEXT,
			idx INTEGER,
			price REAL,
			PRIMARY KEY (name, idx)
		);
	`
	if _, err := s.DB.Exec(query); err != nil {
		return fmt.Errorf("failed to create dataset_points: %w", err)
	}

	return nil
}

// -----------------------------------------------------------------------------

func (s *SQLiteStore) SaveDataset(name string, prices []float64) error {
	if name == "" {
		return helpers.NewMissingArgumentError("dataset name is required")
	}
	if len(prices) == 0 {
		return helpers.NewValidationError("dataset %q has no prices", name)
	}

	tx, err := s.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Replace semantics: a dataset is immutable, so a re-save swaps it whole
	if _, err := tx.Exec("DELETE FROM dataset_points WHERE name = ?", name); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM datasets WHERE name = ?", name); err != nil {
		return err
	}

	if _, err := tx.Exec("INSERT INTO datasets (name, length, created_at) VALUES (?, ?, ?)",
		name, len(prices), time.Now().UTC()); err != nil {
		return err
	}

	// Multi-row inserts, capped by the SQLite bind-variable limit
	for start := 0; start < len(prices); start += sqliteBatchSize {
		end := start + sqliteBatchSize
		if end > len(prices) {
			end = len(prices)
		}

		var sb strings.Builder
		sb.WriteString("INSERT INTO dataset_points (name, idx, price) VALUES ")

		args := make([]interface{}, 0, (end-start)*paramsPerPoint)
		for i := start; i < end; i++ {
			if i > start {
				sb.WriteString(",")
			}
			sb.WriteString("(?, ?, ?)")
			args = append(args, name, i, prices[i])
		}

		if _, err := tx.Exec(sb.String(), args...); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// -----------------------------------------------------------------------------

func (s *SQLiteStore) LoadDataset(name string) (models.MDataset, error) {
	var ds models.MDataset
	var length int

	row := s.DB.QueryRow("SELECT name, length, created_at FROM datasets WHERE name = ?", name)
	if err := row.Scan(&ds.Name, &length, &ds.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return ds, helpers.NewHandleError("dataset %q not found", name)
		}
		return ds, err
	}

	rows, err := s.DB.Query("SELECT price FROM dataset_points WHERE name = ? ORDER BY idx", name)
	if err != nil {
		return ds, err
	}
	defer rows.Close()

	ds.Prices = make([]float64, 0, length)
	for rows.Next() {
		var p float64
		if err := rows.Scan(&p); err != nil {
			return ds, err
		}
		ds.Prices = append(ds.Prices, p)
	}

	return ds, rows.Err()
}

// -----------------------------------------------------------------------------

func (s *SQLiteStore) ListDatasets() ([]models.MDatasetInfo, error) {
	rows, err := s.DB.Query("SELECT name, length, created_at FROM datasets ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var infos []models.MDatasetInfo
	for rows.Next() {
		var info models.MDatasetInfo
		if err := rows.Scan(&info.Name, &info.Length, &info.CreatedAt); err != nil {
			return nil, err
		}
		infos = append(infos, info)
	}

	return infos, rows.Err()
}

// -----------------------------------------------------------------------------

func (s *SQLiteStore) DeleteDataset(name string) error {
	if _, err := s.DB.Exec("DELETE FROM dataset_points WHERE name = ?", name); err != nil {
		return err
	}
	_, err := s.DB.Exec("DELETE FROM datasets WHERE name = ?", name)
	return err
}

// -----------------------------------------------------------------------------

func (s *SQLiteStore) Close() error {
	if s.DB != nil {
		return s.DB.Close()
	}
	return nil
}
