package services

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/orchis-hq/orchis/pkg/core/domain"
	"github.com/orchis-hq/orchis/pkg/core/search"
	"github.com/orchis-hq/orchis/pkg/ports"
)

type ToolService struct {
	repo   ports.ToolRepository
	terms  ports.SearchTermCounter
	logger *slog.Logger
}

func NewToolService(repo ports.ToolRepository, terms ports.SearchTermCounter, logger *slog.Logger) *ToolService {
	return &ToolService{repo: repo, terms: terms, logger: logger}
}

// Submit stores a public submission. New tools always start pending,
// regardless of what the caller sent.
func (s *ToolService) Submit(ctx context.Context, tool domain.Tool) (*domain.Tool, error) {
	tool.Name = strings.TrimSpace(tool.Name)
	tool.WebsiteURL = strings.TrimSpace(tool.WebsiteURL)
	if tool.Name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	if !validWebsite(tool.WebsiteURL) {
		return nil, fmt.Errorf("%w: website url must be http(s)", domain.ErrInvalidInput)
	}
	if tool.PricingModel != "" && !tool.PricingModel.Valid() {
		return nil, fmt.Errorf("%w: unknown pricing model %q", domain.ErrInvalidInput, tool.PricingModel)
	}

	now := time.Now()
	tool.ID = 0
	tool.Status = domain.ToolPending
	tool.Featured = false
	tool.FeaturedPrice = 0
	tool.Upvotes = 0
	tool.CreatedAt = now
	tool.UpdatedAt = now
	tool.Categories = cleanList(tool.Categories)
	tool.Tags = cleanList(tool.Tags)

	if err := s.repo.CreateTool(ctx, &tool); err != nil {
		return nil, err
	}
	s.logger.Info("tool submitted", "id", tool.ID, "name", tool.Name)
	return &tool, nil
}

func (s *ToolService) Get(ctx context.Context, id int64) (*domain.Tool, error) {
	tool, err := s.repo.GetTool(ctx, id)
	if err != nil {
		return nil, err
	}
	if tool == nil {
		return nil, fmt.Errorf("tool %d: %w", id, domain.ErrNotFound)
	}
	return tool, nil
}

// List returns the public directory page: listed tools only.
func (s *ToolService) List(ctx context.Context, page, limit int, category string, featuredOnly bool) ([]domain.Tool, int64, error) {
	limit, offset := paginate(page, limit)
	filter := domain.ToolFilter{
		ListedOnly:   true,
		Category:     category,
		FeaturedOnly: featuredOnly,
		Limit:        limit,
		Offset:       offset,
	}
	return s.list(ctx, filter)
}

// ListAll is the admin view. An empty status means every status.
func (s *ToolService) ListAll(ctx context.Context, page, limit int, status domain.ToolStatus) ([]domain.Tool, int64, error) {
	if status != "" && !status.Valid() {
		return nil, 0, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, status)
	}
	limit, offset := paginate(page, limit)
	return s.list(ctx, domain.ToolFilter{Status: status, Limit: limit, Offset: offset})
}

func (s *ToolService) list(ctx context.Context, filter domain.ToolFilter) ([]domain.Tool, int64, error) {
	tools, err := s.repo.ListTools(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	count, err := s.repo.CountTools(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return tools, count, nil
}

// Search ranks every listed tool against the query and counts the term.
// A failing counter never fails the search.
func (s *ToolService) Search(ctx context.Context, query string) ([]search.Result, error) {
	term := strings.ToLower(strings.TrimSpace(query))
	if term == "" {
		return []search.Result{}, nil
	}

	tools, err := s.repo.ListTools(ctx, domain.ToolFilter{ListedOnly: true})
	if err != nil {
		return nil, err
	}
	results := search.Rank(term, tools)

	if s.terms != nil {
		if err := s.terms.IncrementTerm(ctx, term); err != nil {
			s.logger.Warn("failed to count search term", "term", term, "error", err)
		}
	}
	return results, nil
}

func (s *ToolService) PopularSearches(ctx context.Context, limit int) ([]domain.SearchTerm, error) {
	if limit < 1 {
		limit = 10
	}
	if s.terms == nil {
		return []domain.SearchTerm{}, nil
	}
	return s.terms.TopTerms(ctx, limit)
}

func (s *ToolService) SetStatus(ctx context.Context, id int64, status domain.ToolStatus) (*domain.Tool, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, status)
	}
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateToolStatus(ctx, id, status); err != nil {
		return nil, err
	}
	s.logger.Info("tool status changed", "id", id, "status", status)
	return s.Get(ctx, id)
}

// Feature marks a tool as a paid placement. Unfeaturing resets the price.
func (s *ToolService) Feature(ctx context.Context, id int64, featured bool, price int64) (*domain.Tool, error) {
	if price < 0 {
		return nil, fmt.Errorf("%w: featured price must not be negative", domain.ErrInvalidInput)
	}
	if !featured {
		price = 0
	}
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	if err := s.repo.SetFeatured(ctx, id, featured, price); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Like records one like per machine. The bool reports whether the like was new.
func (s *ToolService) Like(ctx context.Context, id int64, machineID string) (*domain.Tool, bool, error) {
	machineID = strings.TrimSpace(machineID)
	if machineID == "" {
		return nil, false, fmt.Errorf("%w: machine id is required", domain.ErrInvalidInput)
	}
	tool, err := s.Get(ctx, id)
	if err != nil {
		return nil, false, err
	}
	if !tool.Status.Listed() {
		return nil, false, fmt.Errorf("tool %d: %w", id, domain.ErrNotFound)
	}

	added, err := s.repo.AddLike(ctx, id, machineID)
	if err != nil {
		return nil, false, err
	}
	if !added {
		return tool, false, nil
	}
	tool, err = s.Get(ctx, id)
	return tool, true, err
}

func (s *ToolService) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.repo.DeleteTool(ctx, id)
}

func validWebsite(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func cleanList(values []string) []string {
	out := []string{}
	seen := map[string]bool{}
	for _, v := range values {
		v = strings.TrimSpace(v)
		key := strings.ToLower(v)
		if v == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, v)
	}
	return out
}

func paginate(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	return limit, (page - 1) * limit
}
