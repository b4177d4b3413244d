package storage

import (
	"database/sql"
	"fmt"
	"time"

	"stock-analyzer/src/helpers"
	"stock-analyzer/src/logger"
	"stock-analyzer/src/models"

	"github.com/lib/pq"
)

// -----------------------------------------------------------------------------

type PostgresStore struct {
	Config *models.MConfig
	DB     *sql.DB
	Logger *logger.Logger
}

// -----------------------------------------------------------------------------

func NewPostgresStore(cfg *models.MConfig, log *logger.Logger) (*PostgresStore, error) {
	return &PostgresStore{
		Config: cfg,
		Logger: log,
	}, nil
}

// -----------------------------------------------------------------------------

func (s *PostgresStore) Initialize() error {
	dsn := s.Config.Storage.DBConnectionString

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return err
	}

	// Connection setup is the one place retries help; the rest of the
	// store is plain statement execution.
	if err := helpers.RetryWithBackoff(s.Logger, "postgres ping", 3, time.Second, db.Ping); err != nil {
		db.Close()
		return err
	}

	s.DB = db
	return s.createTables()
}

// -----------------------------------------------------------------------------

func (s *PostgresStore) createTables() error {
	query := `
		CREATE TABLE IF NOT EXISTS datasets (
			name TEXT PRIMARY KEY,
			length BIGINT NOT NULL,
			created_at TIMESTAMPTZ DEFAULT NOW()
		);
	`
	if _, err := s.DB.Exec(query); err != nil {
		return fmt.Errorf("failed to create datasets: %w", err)
	}

	query = `
		CREATE TABLE IF NOT EXISTS dataset_points (
			name TEXT,
			idx BIGINT,
			price DOUBLE PRECISION,
			PRIMARY KEY (name, idx)
		);
	`
	if _, err := s.DB.Exec(query); err != nil {
		return fmt.Errorf("failed to create dataset_points: %w", err)
	}

	return nil
}

// -----------------------------------------------------------------------------

func (s *PostgresStore) SaveDataset(name string, prices []float64) error {
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

	if _, err := tx.Exec("DELETE FROM dataset_points WHERE name = $1", name); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM datasets WHERE name = $1", name); err != nil {
		return err
	}

	if _, err := tx.Exec("INSERT INTO datasets (name, length, created_at) VALUES ($1, $2, $3)",
		name, len(prices), time.Now().UTC()); err != nil {
		return err
	}

	// COPY protocol for the bulk of the rows
	stmt, err := tx.Prepare(pq.CopyIn("dataset_points", "name", "idx", "price"))
	if err != nil {
		return err
	}

	for i, p := range prices {
		if _, err := stmt.Exec(name, i, p); err != nil {
			stmt.Close()
			return err
		}
	}

	// Flush the COPY buffer
	if _, err := stmt.Exec(); err != nil {
		stmt.Close()
		return err
	}
	if err := stmt.Close(); err != nil {
		return err
	}

	return tx.Commit()
}

// -----------------------------------------------------------------------------

func (s *PostgresStore) LoadDataset(name string) (models.MDataset, error) {
	var ds models.MDataset
	var length int

	row := s.DB.QueryRow("SELECT name, length, created_at FROM datasets WHERE name = $1", name)
	if err := row.Scan(&ds.Name, &length, &ds.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return ds, helpers.NewHandleError("dataset %q not found", name)
		}
		return ds, err
	}

	rows, err := s.DB.Query("SELECT price FROM dataset_points WHERE name = $1 ORDER BY idx", name)
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

func (s *PostgresStore) ListDatasets() ([]models.MDatasetInfo, error) {
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

func (s *PostgresStore) DeleteDataset(name string) error {
	if _, err := s.DB.Exec("DELETE FROM dataset_points WHERE name = $1", name); err != nil {
		return err
	}
	_, err := s.DB.Exec("DELETE FROM datasets WHERE name = $1", name)
	return err
}

// -----------------------------------------------------------------------------

func (s *PostgresStore) Close() error {
	if s.DB != nil {
		return s.DB.Close()
	}
	return nil
}
