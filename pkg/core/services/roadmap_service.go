package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/orchis-hq/orchis/pkg/core/domain"
	"github.com/orchis-hq/orchis/pkg/ports"
)

// RoadmapHook runs after an item is saved. prev is nil on create.
type RoadmapHook interface {
	OnSave(ctx context.Context, prev, next *domain.RoadmapItem) error
}

type RoadmapHookFunc func(ctx context.Context, prev, next *domain.RoadmapItem) error

func (f RoadmapHookFunc) OnSave(ctx context.Context, prev, next *domain.RoadmapItem) error {
	return f(ctx, prev, next)
}

type RoadmapService struct {
	repo   ports.RoadmapRepository
	hooks  []RoadmapHook
	logger *slog.Logger
}

func NewRoadmapService(repo ports.RoadmapRepository, logger *slog.Logger, hooks ...RoadmapHook) *RoadmapService {
	return &RoadmapService{repo: repo, hooks: hooks, logger: logger}
}

func (s *RoadmapService) Create(ctx context.Context, item domain.RoadmapItem) (*domain.RoadmapItem, error) {
	if err := normalizeRoadmapItem(&item); err != nil {
		return nil, err
	}
	now := time.Now()
	item.ID = 0
	item.CreatedAt = now
	item.UpdatedAt = now

	if err := s.repo.CreateRoadmapItem(ctx, &item); err != nil {
		return nil, err
	}
	s.runHooks(ctx, nil, &item)
	return &item, nil
}

func (s *RoadmapService) Update(ctx context.Context, id int64, item domain.RoadmapItem) (*domain.RoadmapItem, error) {
	prev, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := normalizeRoadmapItem(&item); err != nil {
		return nil, err
	}
	item.ID = id
	item.CreatedAt = prev.CreatedAt
	item.UpdatedAt = time.Now()

	if err := s.repo.UpdateRoadmapItem(ctx, &item); err != nil {
		return nil, err
	}
	s.runHooks(ctx, prev, &item)
	return &item, nil
}

func (s *RoadmapService) Delete(ctx context.Context, id int64) error {
	if _, err := s.get(ctx, id); err != nil {
		return err
	}
	return s.repo.DeleteRoadmapItem(ctx, id)
}

func (s *RoadmapService) List(ctx context.Context) ([]domain.RoadmapItem, error) {
	return s.repo.ListRoadmapItems(ctx)
}

func (s *RoadmapService) Changelog(ctx context.Context, limit int) ([]domain.ChangelogEntry, error) {
	return s.repo.ListChangelog(ctx, limit)
}

func (s *RoadmapService) get(ctx context.Context, id int64) (*domain.RoadmapItem, error) {
	item, err := s.repo.GetRoadmapItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("roadmap item %d: %w", id, domain.ErrNotFound)
	}
	return item, nil
}

// runHooks logs hook failures. The save already succeeded.
func (s *RoadmapService) runHooks(ctx context.Context, prev, next *domain.RoadmapItem) {
	for _, h := range s.hooks {
		if err := h.OnSave(ctx, prev, next); err != nil {
			s.logger.Error("roadmap hook failed", "item_id", next.ID, "error", err)
		}
	}
}

func normalizeRoadmapItem(item *domain.RoadmapItem) error {
	item.Title = strings.TrimSpace(item.Title)
	if item.Title == "" {
		return fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}
	if item.Status == "" {
		item.Status = domain.RoadmapUpcoming
	}
	if !item.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, item.Status)
	}
	return nil
}

// ChangelogOnComplete writes a changelog entry the first time an item
// reaches completed. Items that already have an entry are skipped.
func ChangelogOnComplete(repo ports.RoadmapRepository) RoadmapHook {
	return RoadmapHookFunc(func(ctx context.Context, prev, next *domain.RoadmapItem) error {
		if next.Status != domain.RoadmapCompleted {
			return nil
		}
		if prev != nil && prev.Status == domain.RoadmapCompleted {
			return nil
		}

		existing, err := repo.GetChangelogForRoadmapItem(ctx, next.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			return nil
		}

		itemID := next.ID
		return repo.CreateChangelogEntry(ctx, &domain.ChangelogEntry{
			ID:            uuid.NewString(),
			RoadmapItemID: &itemID,
			Title:         next.Title,
			Description:   next.Description,
			Category:      next.Category,
			ReleasedAt:    next.UpdatedAt,
		})
	})
}
