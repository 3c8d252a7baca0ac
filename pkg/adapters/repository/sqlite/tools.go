package sqlite

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/orchis-hq/orchis/pkg/core/domain"
)

const toolColumns = `id, name, tagline, description, website_url, logo_url, categories, tags,
	pricing_model, featured, featured_price, upvotes, status, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTool(row rowScanner) (*domain.Tool, error) {
	var t domain.Tool
	var categoriesJSON, tagsJSON []byte
	var tagline, description, logoURL, pricing *string
	err := row.Scan(
		&t.ID, &t.Name, &tagline, &description, &t.WebsiteURL, &logoURL, &categoriesJSON, &tagsJSON,
		&pricing, &t.Featured, &t.FeaturedPrice, &t.Upvotes, &t.Status,
		timeValue{&t.CreatedAt}, timeValue{&t.UpdatedAt},
	)
	if err != nil {
		return nil, err
	}
	t.Tagline = deref(tagline)
	t.Description = deref(description)
	t.LogoURL = deref(logoURL)
	t.PricingModel = domain.PricingModel(deref(pricing))
	_ = json.Unmarshal(categoriesJSON, &t.Categories)
	_ = json.Unmarshal(tagsJSON, &t.Tags)
	return &t, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func jsonText(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (r *SQLiteRepository) CreateTool(ctx context.Context, tool *domain.Tool) error {
	query := `INSERT INTO tools (name, tagline, description, website_url, logo_url, categories, tags,
			  pricing_model, featured, featured_price, upvotes, status, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	categories, err := jsonText(tool.Categories)
	if err != nil {
		return err
	}
	tags, err := jsonText(tool.Tags)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, query,
		tool.Name, tool.Tagline, tool.Description, tool.WebsiteURL, tool.LogoURL, categories, tags,
		string(tool.PricingModel), tool.Featured, tool.FeaturedPrice, tool.Upvotes, string(tool.Status),
		formatTime(tool.CreatedAt), formatTime(tool.UpdatedAt),
	)
	if err != nil {
		return mapConstraintError(err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	tool.ID = id
	return nil
}

func (r *SQLiteRepository) GetTool(ctx context.Context, id int64) (*domain.Tool, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+toolColumns+` FROM tools WHERE id = ?`, id)
	tool, err := scanTool(row)
	if isNoRows(err) {
		return nil, nil
	}
	return tool, err
}

func (r *SQLiteRepository) GetToolByName(ctx context.Context, name string) (*domain.Tool, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+toolColumns+` FROM tools WHERE lower(name) = ?`, strings.ToLower(name))
	tool, err := scanTool(row)
	if isNoRows(err) {
		return nil, nil
	}
	return tool, err
}

func (r *SQLiteRepository) UpdateToolStatus(ctx context.Context, id int64, status domain.ToolStatus) error {
	_, err := r.db.ExecContext(ctx, `UPDATE tools SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), formatTime(time.Now()), id)
	return err
}

func (r *SQLiteRepository) SetFeatured(ctx context.Context, id int64, featured bool, price int64) error {
	_, err := r.db.ExecContext(ctx, `UPDATE tools SET featured = ?, featured_price = ?, updated_at = ? WHERE id = ?`,
		featured, price, formatTime(time.Now()), id)
	return err
}

func (r *SQLiteRepository) DeleteTool(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM tool_likes WHERE tool_id = ?`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM tools WHERE id = ?`, id); err != nil {
		return err
	}
	return tx.Commit()
}

func toolWhere(filter domain.ToolFilter) (string, []any) {
	clauses := []string{"1 = 1"}
	args := []any{}

	if filter.Status != "" {
		clauses = append(clauses, "status = ?")
		args = append(args, string(filter.Status))
	} else if filter.ListedOnly {
		clauses = append(clauses, "status IN (?, ?)")
		args = append(args, string(domain.ToolApproved), string(domain.ToolVerified))
	}
	if filter.Category != "" {
		clauses = append(clauses, "EXISTS (SELECT 1 FROM json_each(tools.categories) WHERE lower(value) = ?)")
		args = append(args, strings.ToLower(filter.Category))
	}
	if filter.FeaturedOnly {
		clauses = append(clauses, "featured = 1")
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func (r *SQLiteRepository) ListTools(ctx context.Context, filter domain.ToolFilter) ([]domain.Tool, error) {
	where, args := toolWhere(filter)
	query := `SELECT ` + toolColumns + ` FROM tools` + where
	if filter.Newest {
		query += ` ORDER BY created_at DESC, id DESC`
	} else {
		query += ` ORDER BY featured DESC, featured_price DESC, created_at DESC, id DESC`
	}
	if filter.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tools := []domain.Tool{}
	for rows.Next() {
		t, err := scanTool(rows)
		if err != nil {
			return nil, err
		}
		tools = append(tools, *t)
	}
	return tools, rows.Err()
}

func (r *SQLiteRepository) CountTools(ctx context.Context, filter domain.ToolFilter) (int64, error) {
	where, args := toolWhere(filter)
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tools`+where, args...).Scan(&count)
	return count, err
}

func (r *SQLiteRepository) DumpTools(ctx context.Context) ([]domain.Tool, error) {
	return r.ListTools(ctx, domain.ToolFilter{})
}

func (r *SQLiteRepository) AddLike(ctx context.Context, toolID int64, machineID string) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	// 1. Record the like, ignoring repeats from the same machine
	res, err := tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO tool_likes (tool_id, machine_id, created_at) VALUES (?, ?, ?)`,
		toolID, machineID, formatTime(time.Now()))
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n == 0 {
		return false, nil
	}

	// 2. Increment the counter (Atomic)
	if _, err := tx.ExecContext(ctx, `UPDATE tools SET upvotes = upvotes + 1 WHERE id = ?`, toolID); err != nil {
		return false, err
	}
	return true, tx.Commit()
}
