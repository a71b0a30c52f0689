// Package storage implements the estimate history layer using SQLite.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/pricelab/carval/internal/common"
	"github.com/pricelab/carval/internal/model"
)

// SQLiteStorage implements the Storage interface using SQLite.
type SQLiteStorage struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteStorage creates a new SQLite storage instance.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("%w: database path is empty", common.ErrInvalidConfig)
	}

	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite doesn't benefit from multiple connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteStorage{db: db, dbPath: dbPath}, nil
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// SaveEstimate records a completed prediction.
func (s *SQLiteStorage) SaveEstimate(ctx context.Context, estimate *model.Estimate) error {
	if estimate == nil {
		return fmt.Errorf("%w: estimate is nil", common.ErrInvalidInput)
	}
	if estimate.ID == "" {
		return fmt.Errorf("%w: estimate has no ID", common.ErrInvalidInput)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO estimates (
			id, created_at, brand, model, year, engine_size, fuel_type,
			transmission, mileage, doors, owner_count, car_age,
			mileage_per_year, price, strategy
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		estimate.ID,
		estimate.CreatedAt,
		estimate.Vehicle.Brand,
		estimate.Vehicle.Model,
		estimate.Vehicle.Year,
		estimate.Vehicle.EngineSize,
		estimate.Vehicle.FuelType,
		estimate.Vehicle.Transmission,
		estimate.Vehicle.Mileage,
		estimate.Vehicle.Doors,
		estimate.Vehicle.OwnerCount,
		estimate.CarAge,
		estimate.MileagePerYear,
		estimate.Price,
		estimate.Strategy,
	)
	if err != nil {
		return fmt.Errorf("failed to save estimate: %w", err)
	}
	return nil
}

// GetEstimate fetches a single estimate by ID.
func (s *SQLiteStorage) GetEstimate(ctx context.Context, id string) (*model.Estimate, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, created_at, brand, model, year, engine_size, fuel_type,
		       transmission, mileage, doors, owner_count, car_age,
		       mileage_per_year, price, strategy
		FROM estimates WHERE id = ?`, id)

	estimate, err := scanEstimate(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: estimate %s", common.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get estimate: %w", err)
	}
	return estimate, nil
}

// ListEstimates returns the most recent estimates, newest first.
func (s *SQLiteStorage) ListEstimates(ctx context.Context, limit int) ([]model.Estimate, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, brand, model, year, engine_size, fuel_type,
		       transmission, mileage, doors, owner_count, car_age,
		       mileage_per_year, price, strategy
		FROM estimates
		ORDER BY created_at DESC, id
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list estimates: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var estimates []model.Estimate
	for rows.Next() {
		estimate, err := scanEstimate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan estimate: %w", err)
		}
		estimates = append(estimates, *estimate)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate estimates: %w", err)
	}
	return estimates, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEstimate(row scanner) (*model.Estimate, error) {
	var e model.Estimate
	err := row.Scan(
		&e.ID,
		&e.CreatedAt,
		&e.Vehicle.Brand,
		&e.Vehicle.Model,
		&e.Vehicle.Year,
		&e.Vehicle.EngineSize,
		&e.Vehicle.FuelType,
		&e.Vehicle.Transmission,
		&e.Vehicle.Mileage,
		&e.Vehicle.Doors,
		&e.Vehicle.OwnerCount,
		&e.CarAge,
		&e.MileagePerYear,
		&e.Price,
		&e.Strategy,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}
