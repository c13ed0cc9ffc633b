package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	domcart "example.com/storefront/app/internal/domain/cart"
)

type CartRepository struct {
	db *sql.DB
}

func NewCartRepository(db *sql.DB) *CartRepository {
	return &CartRepository{db: db}
}

func (r *CartRepository) Get(ctx context.Context, key string) ([]byte, error) {
	const op = "mysql.CartRepository.Get"

	var payload []byte
	err := r.db.QueryRowContext(ctx, `
        SELECT payload
        FROM cart_snapshots
        WHERE snapshot_key = ?
    `, key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domcart.ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return payload, nil
}

func (r *CartRepository) Set(ctx context.Context, key string, value []byte) error {
	const op = "mysql.CartRepository.Set"

	_, err := r.db.ExecContext(ctx, `
        INSERT INTO cart_snapshots (snapshot_key, payload)
        VALUES (?, ?)
        ON DUPLICATE KEY UPDATE payload = VALUES(payload), updated_at = CURRENT_TIMESTAMP
    `, key, value)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
