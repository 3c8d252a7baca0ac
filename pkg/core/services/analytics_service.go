package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/orchis-hq/orchis/pkg/core/analytics"
	"github.com/orchis-hq/orchis/pkg/core/domain"
	"github.com/orchis-hq/orchis/pkg/ports"
)

const recentActivityLimit = 5

type AnalyticsService struct {
	repo   ports.AnalyticsRepository
	tools  ports.ToolRepository
	posts  ports.PostRepository
	logger *slog.Logger
	now    func() time.Time
}

func NewAnalyticsService(repo ports.AnalyticsRepository, tools ports.ToolRepository, posts ports.PostRepository, logger *slog.Logger) *AnalyticsService {
	return &AnalyticsService{repo: repo, tools: tools, posts: posts, logger: logger, now: time.Now}
}

// RecordSession stores a widget session. Missing ids are generated.
func (s *AnalyticsService) RecordSession(ctx context.Context, session domain.Session) (*domain.Session, error) {
	session.UserID = strings.TrimSpace(session.UserID)
	if session.UserID == "" {
		return nil, fmt.Errorf("%w: user_id is required", domain.ErrInvalidInput)
	}
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	if session.AnonymousUserID == "" {
		session.AnonymousUserID = uuid.NewString()
	}
	if session.StartedAt.IsZero() {
		session.StartedAt = s.now()
	}
	if session.ScrollDepth < 0 || session.ScrollDepth > 100 {
		return nil, fmt.Errorf("%w: scroll_depth must be between 0 and 100", domain.ErrInvalidInput)
	}

	if err := s.repo.CreateSession(ctx, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// RecordConversation stores a classified conversation. Conversations that
// arrive without a sentiment label get one from the last message.
func (s *AnalyticsService) RecordConversation(ctx context.Context, conv domain.Conversation) (*domain.Conversation, error) {
	conv.UserID = strings.TrimSpace(conv.UserID)
	if conv.UserID == "" {
		return nil, fmt.Errorf("%w: user_id is required", domain.ErrInvalidInput)
	}
	if conv.ID == "" {
		conv.ID = uuid.NewString()
	}
	if conv.CreatedAt.IsZero() {
		conv.CreatedAt = s.now()
	}
	if conv.Sentiment == "" && strings.TrimSpace(conv.LastMessage) != "" {
		conv.Sentiment = analytics.LabelFromText(conv.LastMessage)
	}

	if err := s.repo.CreateConversation(ctx, &conv); err != nil {
		return nil, err
	}
	return &conv, nil
}

func (s *AnalyticsService) UpsertDailyStat(ctx context.Context, stat domain.DailyStat) error {
	if strings.TrimSpace(stat.UserID) == "" {
		return fmt.Errorf("%w: user_id is required", domain.ErrInvalidInput)
	}
	if _, err := time.Parse("2006-01-02", stat.Date); err != nil {
		return fmt.Errorf("%w: date must be YYYY-MM-DD", domain.ErrInvalidInput)
	}
	return s.repo.UpsertDailyStat(ctx, &stat)
}

// TicketAnalytics never fails. Any fetch error is logged and the empty
// result for the range is returned instead.
func (s *AnalyticsService) TicketAnalytics(ctx context.Context, userID string, rng analytics.Range) analytics.Result {
	now := s.now()
	rng = analytics.ParseRange(string(rng))
	if userID == "" {
		return analytics.Empty(rng, now)
	}

	since := analytics.WindowStart(rng, now)
	fromDate := since.Format("2006-01-02")

	var (
		wg                              sync.WaitGroup
		stats                           []domain.DailyStat
		sessions                        []domain.Session
		convs                           []domain.Conversation
		statsErr, sessionsErr, convsErr error
	)
	wg.Add(3)
	go func() {
		defer wg.Done()
		stats, statsErr = s.repo.ListDailyStats(ctx, userID, fromDate)
	}()
	go func() {
		defer wg.Done()
		sessions, sessionsErr = s.repo.ListSessions(ctx, userID, since)
	}()
	go func() {
		defer wg.Done()
		convs, convsErr = s.repo.ListConversations(ctx, userID, since)
	}()
	wg.Wait()

	for name, err := range map[string]error{"daily_stats": statsErr, "sessions": sessionsErr, "conversations": convsErr} {
		if err != nil {
			s.logger.Error("failed to load analytics", "source", name, "user_id", userID, "error", err)
			return analytics.Empty(rng, now)
		}
	}

	return analytics.Aggregate(analytics.Input{
		Range:         rng,
		UserID:        userID,
		Now:           now,
		DailyStats:    stats,
		Sessions:      sessions,
		Conversations: convs,
	})
}

// Overview loads the dashboard. Each branch degrades to empty on its own.
func (s *AnalyticsService) Overview(ctx context.Context, userID string, rng analytics.Range) ports.Overview {
	out := ports.Overview{RecentTools: []domain.Tool{}, RecentPosts: []domain.Post{}}

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		out.Analytics = s.TicketAnalytics(ctx, userID, rng)
	}()
	go func() {
		defer wg.Done()
		tools, err := s.tools.ListTools(ctx, domain.ToolFilter{Newest: true, Limit: recentActivityLimit})
		if err != nil {
			s.logger.Error("failed to load recent tools", "error", err)
			return
		}
		out.RecentTools = tools
	}()
	go func() {
		defer wg.Done()
		posts, err := s.posts.ListPosts(ctx, domain.PostFilter{Newest: true, Limit: recentActivityLimit})
		if err != nil {
			s.logger.Error("failed to load recent posts", "error", err)
			return
		}
		out.RecentPosts = posts
	}()
	wg.Wait()

	return out
}
