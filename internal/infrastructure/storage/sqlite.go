package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/vitos/faucet_gateway/internal/domain"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS price_snapshots (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			coingecko_id TEXT NOT NULL,
			price_usd REAL NOT NULL,
			fetched_at DATETIME NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_price_snapshots_coin ON price_snapshots(coingecko_id);`,
		`CREATE TABLE IF NOT EXISTS claim_requests (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			address TEXT NOT NULL,
			backend TEXT NOT NULL,
			status_code INTEGER NOT NULL,
			error TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_claim_requests_address ON claim_requests(address);`,
	}

	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return fmt.Errorf("failed to exec query %s: %w", q, err)
		}
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// PriceSnapshotRepository Implementation

func (s *SQLiteStore) SaveSnapshots(ctx context.Context, snapshots []*domain.PriceSnapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO price_snapshots (coingecko_id, price_usd, fetched_at) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, snap := range snapshots {
		if _, err := stmt.ExecContext(ctx, snap.CoingeckoID, snap.PriceUSD, snap.FetchedAt); err != nil {
			return fmt.Errorf("save snapshot %s: %w", snap.CoingeckoID, err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) ListSnapshots(ctx context.Context, limit int) ([]*domain.PriceSnapshot, error) {
	query := `SELECT id, coingecko_id, price_usd, fetched_at FROM price_snapshots ORDER BY id DESC LIMIT ?`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snapshots []*domain.PriceSnapshot
	for rows.Next() {
		var p domain.PriceSnapshot
		if err := rows.Scan(&p.ID, &p.CoingeckoID, &p.PriceUSD, &p.FetchedAt); err != nil {
			return nil, err
		}
		snapshots = append(snapshots, &p)
	}
	return snapshots, rows.Err()
}

// ClaimRepository Implementation

func (s *SQLiteStore) SaveClaim(ctx context.Context, claim *domain.ClaimRecord) error {
	query := `INSERT INTO claim_requests (address, backend, status_code, error, created_at)
			  VALUES (?, ?, ?, ?, ?)`
	res, err := s.db.ExecContext(ctx, query,
		claim.Address, claim.Backend, claim.StatusCode, claim.Error, claim.CreatedAt)
	if err != nil {
		return err
	}
	if id, err := res.LastInsertId(); err == nil {
		claim.ID = id
	}
	return nil
}

func (s *SQLiteStore) ListClaims(ctx context.Context, limit int) ([]*domain.ClaimRecord, error) {
	query := `SELECT id, address, backend, status_code, error, created_at FROM claim_requests ORDER BY id DESC LIMIT ?`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var claims []*domain.ClaimRecord
	for rows.Next() {
		var c domain.ClaimRecord
		if err := rows.Scan(&c.ID, &c.Address, &c.Backend, &c.StatusCode, &c.Error, &c.CreatedAt); err != nil {
			return nil, err
		}
		claims = append(claims, &c)
	}
	return claims, rows.Err()
}
