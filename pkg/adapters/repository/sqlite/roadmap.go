package sqlite

import (
	"context"
	"database/sql"

	"github.com/orchis-hq/orchis/pkg/core/domain"
)

const roadmapColumns = `id, title, description, status, priority, expected_date, category, created_at, updated_at`

func scanRoadmapItem(row rowScanner) (*domain.RoadmapItem, error) {
	var item domain.RoadmapItem
	var description, category *string
	err := row.Scan(&item.ID, &item.Title, &description, &item.Status, &item.Priority,
		nullTimeValue{&item.ExpectedDate}, &category, timeValue{&item.CreatedAt}, timeValue{&item.UpdatedAt})
	if err != nil {
		return nil, err
	}
	item.Description = deref(description)
	item.Category = deref(category)
	return &item, nil
}

func (r *SQLiteRepository) CreateRoadmapItem(ctx context.Context, item *domain.RoadmapItem) error {
	query := `INSERT INTO roadmap_items (title, description, status, priority, expected_date, category, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query, item.Title, item.Description, string(item.Status), item.Priority,
		nullableTime(item.ExpectedDate), item.Category, formatTime(item.CreatedAt), formatTime(item.UpdatedAt))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	item.ID = id
	return nil
}

func (r *SQLiteRepository) GetRoadmapItem(ctx context.Context, id int64) (*domain.RoadmapItem, error) {
	item, err := scanRoadmapItem(r.db.QueryRowContext(ctx, `SELECT `+roadmapColumns+` FROM roadmap_items WHERE id = ?`, id))
	if isNoRows(err) {
		return nil, nil
	}
	return item, err
}

func (r *SQLiteRepository) UpdateRoadmapItem(ctx context.Context, item *domain.RoadmapItem) error {
	query := `UPDATE roadmap_items SET title = ?, description = ?, status = ?, priority = ?,
			  expected_date = ?, category = ?, updated_at = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, item.Title, item.Description, string(item.Status), item.Priority,
		nullableTime(item.ExpectedDate), item.Category, formatTime(item.UpdatedAt), item.ID)
	return err
}

func (r *SQLiteRepository) DeleteRoadmapItem(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM roadmap_items WHERE id = ?`, id)
	return err
}

// ListRoadmapItems orders by priority, then expected date with undated items last.
func (r *SQLiteRepository) ListRoadmapItems(ctx context.Context) ([]domain.RoadmapItem, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+roadmapColumns+` FROM roadmap_items
		ORDER BY priority ASC, expected_date IS NULL, expected_date ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []domain.RoadmapItem{}
	for rows.Next() {
		item, err := scanRoadmapItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// --- Changelog ---

const changelogColumns = `id, roadmap_item_id, title, description, category, released_at`

func scanChangelog(row rowScanner) (*domain.ChangelogEntry, error) {
	var e domain.ChangelogEntry
	var itemID sql.NullInt64
	var description, category *string
	if err := row.Scan(&e.ID, &itemID, &e.Title, &description, &category, timeValue{&e.ReleasedAt}); err != nil {
		return nil, err
	}
	if itemID.Valid {
		id := itemID.Int64
		e.RoadmapItemID = &id
	}
	e.Description = deref(description)
	e.Category = deref(category)
	return &e, nil
}

func (r *SQLiteRepository) CreateChangelogEntry(ctx context.Context, entry *domain.ChangelogEntry) error {
	var itemID any
	if entry.RoadmapItemID != nil {
		itemID = *entry.RoadmapItemID
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO changelog_entries (id, roadmap_item_id, title, description, category, released_at) VALUES (?, ?, ?, ?, ?, ?)`,
		entry.ID, itemID, entry.Title, entry.Description, entry.Category, formatTime(entry.ReleasedAt))
	return mapConstraintError(err)
}

func (r *SQLiteRepository) GetChangelogForRoadmapItem(ctx context.Context, itemID int64) (*domain.ChangelogEntry, error) {
	entry, err := scanChangelog(r.db.QueryRowContext(ctx,
		`SELECT `+changelogColumns+` FROM changelog_entries WHERE roadmap_item_id = ?`, itemID))
	if isNoRows(err) {
		return nil, nil
	}
	return entry, err
}

func (r *SQLiteRepository) ListChangelog(ctx context.Context, limit int) ([]domain.ChangelogEntry, error) {
	query := `SELECT ` + changelogColumns + ` FROM changelog_entries ORDER BY released_at DESC, id ASC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []domain.ChangelogEntry{}
	for rows.Next() {
		e, err := scanChangelog(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}
