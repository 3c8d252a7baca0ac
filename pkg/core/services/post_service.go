package services

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/orchis-hq/orchis/pkg/core/domain"
	"github.com/orchis-hq/orchis/pkg/ports"
	"github.com/russross/blackfriday/v2"
)

const wordsPerMinute = 200

var (
	tagPattern     = regexp.MustCompile(`<[^>]*>`)
	nonSlugPattern = regexp.MustCompile(`[^a-z0-9]+`)
)

type PostService struct {
	repo   ports.PostRepository
	logger *slog.Logger
}

func NewPostService(repo ports.PostRepository, logger *slog.Logger) *PostService {
	return &PostService{repo: repo, logger: logger}
}

func (s *PostService) Create(ctx context.Context, in domain.PostInput) (*domain.Post, error) {
	post := &domain.Post{}
	if err := applyPostInput(post, in); err != nil {
		return nil, err
	}
	now := time.Now()
	post.CreatedAt = now
	post.UpdatedAt = now

	if err := s.repo.CreatePost(ctx, post); err != nil {
		return nil, err
	}
	s.logger.Info("post created", "id", post.ID, "slug", post.Slug, "published", post.Published)
	return post, nil
}

func (s *PostService) Update(ctx context.Context, id int64, in domain.PostInput) (*domain.Post, error) {
	post, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyPostInput(post, in); err != nil {
		return nil, err
	}
	post.UpdatedAt = time.Now()

	if err := s.repo.UpdatePost(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.repo.DeletePost(ctx, id)
}

// Get returns a post by id, drafts included.
func (s *PostService) Get(ctx context.Context, id int64) (*domain.Post, error) {
	post, err := s.repo.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, fmt.Errorf("post %d: %w", id, domain.ErrNotFound)
	}
	return post, nil
}

// GetPublishedBySlug hides drafts behind ErrNotFound.
func (s *PostService) GetPublishedBySlug(ctx context.Context, slug string) (*domain.Post, error) {
	post, err := s.repo.GetPostBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if post == nil || !post.Published {
		return nil, fmt.Errorf("post %q: %w", slug, domain.ErrNotFound)
	}
	return post, nil
}

func (s *PostService) ListPublished(ctx context.Context, page, limit int, category string) ([]domain.Post, error) {
	limit, offset := paginate(page, limit)
	return s.repo.ListPosts(ctx, domain.PostFilter{PublishedOnly: true, Category: category, Limit: limit, Offset: offset})
}

func (s *PostService) ListAll(ctx context.Context, page, limit int) ([]domain.Post, error) {
	limit, offset := paginate(page, limit)
	return s.repo.ListPosts(ctx, domain.PostFilter{Limit: limit, Offset: offset})
}

func applyPostInput(post *domain.Post, in domain.PostInput) error {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}

	slug := Slugify(in.Slug)
	if slug == "" {
		slug = Slugify(title)
	}
	if slug == "" {
		return fmt.Errorf("%w: title %q has no usable slug characters", domain.ErrInvalidInput, title)
	}

	content := in.Content
	if strings.TrimSpace(in.ContentMarkdown) != "" {
		content = string(blackfriday.Run([]byte(in.ContentMarkdown)))
	}

	post.Title = title
	post.Slug = slug
	post.Excerpt = strings.TrimSpace(in.Excerpt)
	post.Content = content
	post.Category = strings.TrimSpace(in.Category)
	post.Featured = in.Featured
	post.Published = in.Published
	post.ReadTime = ReadTime(content)
	return nil
}

// Slugify lowercases s and collapses every run of non-alphanumerics into one dash.
func Slugify(s string) string {
	slug := nonSlugPattern.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), "-")
	return strings.Trim(slug, "-")
}

// ReadTime estimates minutes to read HTML content. Never less than one.
func ReadTime(content string) int {
	text := html.UnescapeString(tagPattern.ReplaceAllString(content, " "))
	words := len(strings.Fields(text))
	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	if minutes < 1 {
		return 1
	}
	return minutes
}
