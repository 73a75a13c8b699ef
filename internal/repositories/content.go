package repositories

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/tbakr/troopmedia/internal/models"
	"github.com/tbakr/troopmedia/internal/shared"
)

// ContentRepository persists cached copies of remote content items.
//
// Rows are unique per (resource, remote_id); Upsert replaces an existing row's
// columns while keeping its local ID stable across syncs.
type ContentRepository struct {
	db *sql.DB
}

// NewContentRepository creates a new ContentRepository with the given database connection
func NewContentRepository(db *sql.DB) *ContentRepository {
	return &ContentRepository{db: db}
}

// Upsert inserts or refreshes a cached item and sets its LocalID from the
// stored row.
func (r *ContentRepository) Upsert(item *models.CachedItem) error {
	if item.RemoteID == 0 {
		return fmt.Errorf("%w: cached item has no remote id", shared.ErrInvalidInput)
	}

	id := item.LocalID
	if id == "" {
		id = shared.GenerateID()
	}

	query := `
		INSERT INTO cached_items (
			id, resource, remote_id, name, item_type, category, difficulty,
			payload, synced_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (resource, remote_id) DO UPDATE SET
			name = excluded.name,
			item_type = excluded.item_type,
			category = excluded.category,
			difficulty = excluded.difficulty,
			payload = excluded.payload,
			synced_at = excluded.synced_at
	`

	_, err := r.db.Exec(query,
		id,
		string(item.Resource),
		item.RemoteID,
		item.Name,
		item.Type,
		nullableString(item.Category),
		nullableInt(item.Difficulty),
		string(item.Payload),
		item.SyncedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert cached item: %w", err)
	}

	// On conflict the pre-existing row keeps its id, so read it back.
	row := r.db.QueryRow(
		"SELECT id FROM cached_items WHERE resource = ? AND remote_id = ?",
		string(item.Resource), item.RemoteID,
	)
	if err := row.Scan(&item.LocalID); err != nil {
		return fmt.Errorf("failed to read back cached item id: %w", err)
	}

	return nil
}

// Get retrieves a cached item by resource and remote ID.
func (r *ContentRepository) Get(resource models.Resource, remoteID int) (*models.CachedItem, error) {
	query := `
		SELECT id, resource, remote_id, name, item_type, category, difficulty,
			payload, synced_at
		FROM cached_items
		WHERE resource = ? AND remote_id = ?
	`

	item, err := scanItem(r.db.QueryRow(query, string(resource), remoteID))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: no cached %s item with id %d", shared.ErrItemNotFound, resource, remoteID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cached item: %w", err)
	}

	return item, nil
}

// List retrieves cached items for a resource, applying the same filter
// semantics the remote list endpoints use. Search matches the item name and
// the stored payload, so lyrics and usage text are searchable offline.
func (r *ContentRepository) List(resource models.Resource, filters models.Filters) ([]*models.CachedItem, error) {
	query := `
		SELECT id, resource, remote_id, name, item_type, category, difficulty,
			payload, synced_at
		FROM cached_items
		WHERE resource = ?
	`
	args := []any{string(resource)}

	if filters.Search != "" {
		query += " AND (name LIKE ? OR payload LIKE ?)"
		pattern := "%" + filters.Search + "%"
		args = append(args, pattern, pattern)
	}
	if filters.Type != "" {
		query += " AND item_type = ?"
		args = append(args, filters.Type)
	}
	if filters.Category != "" {
		query += " AND category = ?"
		args = append(args, filters.Category)
	}
	if filters.Difficulty != 0 {
		query += " AND difficulty = ?"
		args = append(args, filters.Difficulty)
	}

	query += " ORDER BY name COLLATE NOCASE ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list cached items: %w", err)
	}
	defer rows.Close()

	var items []*models.CachedItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cached item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cached items: %w", err)
	}

	return items, nil
}

// Delete removes a cached item by resource and remote ID. Deleting an item
// that is not cached is a no-op.
func (r *ContentRepository) Delete(resource models.Resource, remoteID int) error {
	_, err := r.db.Exec(
		"DELETE FROM cached_items WHERE resource = ? AND remote_id = ?",
		string(resource), remoteID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete cached item: %w", err)
	}
	return nil
}

// Clear removes every cached item for a resource and returns the row count.
func (r *ContentRepository) Clear(resource models.Resource) (int, error) {
	result, err := r.db.Exec("DELETE FROM cached_items WHERE resource = ?", string(resource))
	if err != nil {
		return 0, fmt.Errorf("failed to clear %s cache: %w", resource, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count cleared rows: %w", err)
	}
	return int(affected), nil
}

// Count returns the number of cached items for a resource.
func (r *ContentRepository) Count(resource models.Resource) (int, error) {
	var count int
	row := r.db.QueryRow("SELECT COUNT(*) FROM cached_items WHERE resource = ?", string(resource))
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count cached items: %w", err)
	}
	return count, nil
}

// scanner abstracts *sql.Row and *sql.Rows for scanItem.
type scanner interface {
	Scan(dest ...any) error
}

func scanItem(s scanner) (*models.CachedItem, error) {
	var (
		item       models.CachedItem
		resource   string
		category   sql.NullString
		difficulty sql.NullInt64
		payload    string
	)

	err := s.Scan(
		&item.LocalID,
		&resource,
		&item.RemoteID,
		&item.Name,
		&item.Type,
		&category,
		&difficulty,
		&payload,
		&item.SyncedAt,
	)
	if err != nil {
		return nil, err
	}

	item.Resource = models.Resource(resource)
	item.Category = category.String
	item.Difficulty = int(difficulty.Int64)
	item.Payload = []byte(payload)

	return &item, nil
}

func nullableString(s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}

func nullableInt(n int) any {
	if n == 0 {
		return nil
	}
	return n
}
