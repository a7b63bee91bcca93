package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"photo-print-orders/internal/common"
	"photo-print-orders/internal/models"
)

// SQLiteStore persists photo records in an embedded SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and applies schema
// migrations. A failure to open or ping maps to common.ErrStoreUnavailable,
// which callers treat as fatal.
func Open(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open database: %v", common.ErrStoreUnavailable, err)
	}

	// modernc.org/sqlite supports one writer; the engine is single-threaded
	// but tests may hold overlapping connections.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: failed to ping database: %v", common.ErrStoreUnavailable, err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Put(ctx context.Context, item models.PhotoOrderItem) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO photos (id, name, format, quantity, content, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			format = excluded.format,
			quantity = excluded.quantity,
			content = excluded.content,
			created_at = excluded.created_at
	`, item.ID, item.Name, item.Format, item.Quantity, item.Content, item.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to put photo %s: %w", item.ID, err)
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (models.PhotoOrderItem, error) {
	var item models.PhotoOrderItem
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, format, quantity, content, created_at
		FROM photos
		WHERE id = ?
	`, id).Scan(&item.ID, &item.Name, &item.Format, &item.Quantity, &item.Content, &item.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.PhotoOrderItem{}, common.ErrNotFound
	}
	if err != nil {
		return models.PhotoOrderItem{}, fmt.Errorf("failed to get photo %s: %w", id, err)
	}
	return item, nil
}

func (s *SQLiteStore) GetAll(ctx context.Context) ([]models.PhotoOrderItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, format, quantity, content, created_at
		FROM photos
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list photos: %w", err)
	}
	defer rows.Close()

	var items []models.PhotoOrderItem
	for rows.Next() {
		var item models.PhotoOrderItem
		err := rows.Scan(&item.ID, &item.Name, &item.Format, &item.Quantity, &item.Content, &item.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan photo: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate photos: %w", err)
	}

	return items, nil
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM photos WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete photo %s: %w", id, err)
	}
	return nil
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM photos`)
	if err != nil {
		return fmt.Errorf("failed to clear photos: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
