package sqlite

import (
	"context"

	"github.com/orchis-hq/orchis/pkg/core/domain"
)

const postColumns = `id, title, slug, excerpt, content, category, featured, published, read_time, created_at, updated_at`

func scanPost(row rowScanner) (*domain.Post, error) {
	var p domain.Post
	var excerpt, content, category *string
	err := row.Scan(&p.ID, &p.Title, &p.Slug, &excerpt, &content, &category,
		&p.Featured, &p.Published, &p.ReadTime, timeValue{&p.CreatedAt}, timeValue{&p.UpdatedAt})
	if err != nil {
		return nil, err
	}
	p.Excerpt = deref(excerpt)
	p.Content = deref(content)
	p.Category = deref(category)
	return &p, nil
}

func (r *SQLiteRepository) CreatePost(ctx context.Context, post *domain.Post) error {
	query := `INSERT INTO posts (title, slug, excerpt, content, category, featured, published, read_time, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	res, err := r.db.ExecContext(ctx, query, post.Title, post.Slug, post.Excerpt, post.Content, post.Category,
		post.Featured, post.Published, post.ReadTime, formatTime(post.CreatedAt), formatTime(post.UpdatedAt))
	if err != nil {
		return mapConstraintError(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	post.ID = id
	return nil
}

func (r *SQLiteRepository) GetPost(ctx context.Context, id int64) (*domain.Post, error) {
	post, err := scanPost(r.db.QueryRowContext(ctx, `SELECT `+postColumns+` FROM posts WHERE id = ?`, id))
	if isNoRows(err) {
		return nil, nil
	}
	return post, err
}

func (r *SQLiteRepository) GetPostBySlug(ctx context.Context, slug string) (*domain.Post, error) {
	post, err := scanPost(r.db.QueryRowContext(ctx, `SELECT `+postColumns+` FROM posts WHERE slug = ?`, slug))
	if isNoRows(err) {
		return nil, nil
	}
	return post, err
}

func (r *SQLiteRepository) UpdatePost(ctx context.Context, post *domain.Post) error {
	query := `UPDATE posts SET title = ?, slug = ?, excerpt = ?, content = ?, category = ?,
			  featured = ?, published = ?, read_time = ?, updated_at = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, post.Title, post.Slug, post.Excerpt, post.Content, post.Category,
		post.Featured, post.Published, post.ReadTime, formatTime(post.UpdatedAt), post.ID)
	return mapConstraintError(err)
}

func (r *SQLiteRepository) DeletePost(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	return err
}

func (r *SQLiteRepository) ListPosts(ctx context.Context, filter domain.PostFilter) ([]domain.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE 1 = 1`
	args := []any{}

	if filter.PublishedOnly {
		query += " AND published = 1"
	}
	if filter.Category != "" {
		query += " AND lower(category) = lower(?)"
		args = append(args, filter.Category)
	}

	if filter.Newest {
		query += " ORDER BY created_at DESC, id DESC"
	} else {
		query += " ORDER BY featured DESC, created_at DESC, id DESC"
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

	posts := []domain.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *p)
	}
	return posts, rows.Err()
}

func (r *SQLiteRepository) DumpPosts(ctx context.Context) ([]domain.Post, error) {
	return r.ListPosts(ctx, domain.PostFilter{})
}
