package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"standvirtual-scraper/config"
	"standvirtual-scraper/models"
)

// PostgresStore is an optional sink recording the listings each run
// produced, keyed by listing URL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(cfg config.Config) (*PostgresStore, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.DBHost,
		cfg.DBPort,
		cfg.DBUser,
		cfg.DBPassword,
		cfg.DBName,
		cfg.DBSSLMode,
	)

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres connection: %w", err)
	}

	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	store := &PostgresStore{db: db}
	schemaCtx, schemaCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer schemaCancel()
	if err := store.ensureSchema(schemaCtx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// SaveResults upserts every listing from successful queries. Returns the
// number of rows written.
func (s *PostgresStore) SaveResults(ctx context.Context, results []models.QueryResult) (int, error) {
	if len(results) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO cars (query, title, price, year, mileage_km, fuel, url, image_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (url) DO UPDATE
		SET
			query = EXCLUDED.query,
			title = EXCLUDED.title,
			price = EXCLUDED.price,
			year = EXCLUDED.year,
			mileage_km = EXCLUDED.mileage_km,
			fuel = EXCLUDED.fuel,
			image_url = EXCLUDED.image_url,
			updated_at = NOW()`)
	if err != nil {
		return 0, fmt.Errorf("prepare insert statement: %w", err)
	}
	defer stmt.Close()

	total := 0
	for _, queryResult := range results {
		if queryResult.Err != nil {
			continue
		}
		for _, car := range queryResult.Cars {
			if car.URL == "" {
				continue
			}
			if _, err = stmt.ExecContext(
				ctx,
				queryResult.Query,
				car.Title,
				car.Price,
				car.Year,
				car.Mileage,
				string(car.Fuel),
				car.URL,
				car.ImageURL,
			); err != nil {
				return 0, fmt.Errorf("insert listing %q: %w", car.URL, err)
			}
			total++
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit transaction: %w", err)
	}

	return total, nil
}

func (s *PostgresStore) ensureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS cars (
			id BIGSERIAL PRIMARY KEY,
			query TEXT NOT NULL,
			title TEXT NOT NULL,
			price INTEGER NOT NULL DEFAULT 0,
			year INTEGER NOT NULL DEFAULT 0,
			mileage_km INTEGER NOT NULL DEFAULT 0,
			fuel TEXT NOT NULL DEFAULT 'Other',
			url TEXT NOT NULL UNIQUE,
			image_url TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_cars_query ON cars(query);
	`)
	if err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
