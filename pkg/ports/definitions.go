package ports

import (
	"context"
	"time"

	"github.com/orchis-hq/orchis/pkg/core/analytics"
	"github.com/orchis-hq/orchis/pkg/core/domain"
	"github.com/orchis-hq/orchis/pkg/core/search"
)

// ToolRepository defines storage operations for directory listings
type ToolRepository interface {
	CreateTool(ctx context.Context, tool *domain.Tool) error
	GetTool(ctx context.Context, id int64) (*domain.Tool, error)
	GetToolByName(ctx context.Context, name string) (*domain.Tool, error)
	UpdateToolStatus(ctx context.Context, id int64, status domain.ToolStatus) error
	SetFeatured(ctx context.Context, id int64, featured bool, price int64) error
	DeleteTool(ctx context.Context, id int64) error
	ListTools(ctx context.Context, filter domain.ToolFilter) ([]domain.Tool, error)
	CountTools(ctx context.Context, filter domain.ToolFilter) (int64, error)
	DumpTools(ctx context.Context) ([]domain.Tool, error) // For migration

	// AddLike records a like and bumps upvotes. Returns false when the
	// machine already liked the tool.
	AddLike(ctx context.Context, toolID int64, machineID string) (bool, error)
}

// PostRepository defines storage operations for blog posts
type PostRepository interface {
	CreatePost(ctx context.Context, post *domain.Post) error
	GetPost(ctx context.Context, id int64) (*domain.Post, error)
	GetPostBySlug(ctx context.Context, slug string) (*domain.Post, error)
	UpdatePost(ctx context.Context, post *domain.Post) error
	DeletePost(ctx context.Context, id int64) error
	ListPosts(ctx context.Context, filter domain.PostFilter) ([]domain.Post, error)
	DumpPosts(ctx context.Context) ([]domain.Post, error)
}

// RoadmapRepository covers roadmap items and the changelog they feed
type RoadmapRepository interface {
	CreateRoadmapItem(ctx context.Context, item *domain.RoadmapItem) error
	GetRoadmapItem(ctx context.Context, id int64) (*domain.RoadmapItem, error)
	UpdateRoadmapItem(ctx context.Context, item *domain.RoadmapItem) error
	DeleteRoadmapItem(ctx context.Context, id int64) error
	ListRoadmapItems(ctx context.Context) ([]domain.RoadmapItem, error)

	CreateChangelogEntry(ctx context.Context, entry *domain.ChangelogEntry) error
	GetChangelogForRoadmapItem(ctx context.Context, itemID int64) (*domain.ChangelogEntry, error)
	ListChangelog(ctx context.Context, limit int) ([]domain.ChangelogEntry, error)
}

// LeadRepository stores contact form messages and waitlist signups
type LeadRepository interface {
	CreateContact(ctx context.Context, msg *domain.ContactMessage) error
	ListContacts(ctx context.Context, limit, offset int) ([]domain.ContactMessage, error)
	CreateWaitlistSignup(ctx context.Context, signup *domain.WaitlistSignup) error // ErrConflict on duplicate
	ListWaitlist(ctx context.Context, limit, offset int) ([]domain.WaitlistSignup, error)
}

// AnalyticsRepository stores the raw records the aggregator consumes
type AnalyticsRepository interface {
	UpsertDailyStat(ctx context.Context, stat *domain.DailyStat) error
	CreateSession(ctx context.Context, session *domain.Session) error
	CreateConversation(ctx context.Context, conv *domain.Conversation) error

	ListDailyStats(ctx context.Context, userID, fromDate string) ([]domain.DailyStat, error)
	ListSessions(ctx context.Context, userID string, since time.Time) ([]domain.Session, error)
	ListConversations(ctx context.Context, userID string, since time.Time) ([]domain.Conversation, error)
}

// SearchTermCounter keeps popularity counts for search queries
type SearchTermCounter interface {
	IncrementTerm(ctx context.Context, term string) error
	TopTerms(ctx context.Context, limit int) ([]domain.SearchTerm, error)
}

// ToolService defines the directory business logic
type ToolService interface {
	Submit(ctx context.Context, tool domain.Tool) (*domain.Tool, error)
	Get(ctx context.Context, id int64) (*domain.Tool, error)
	List(ctx context.Context, page, limit int, category string, featuredOnly bool) ([]domain.Tool, int64, error)
	ListAll(ctx context.Context, page, limit int, status domain.ToolStatus) ([]domain.Tool, int64, error)
	Search(ctx context.Context, query string) ([]search.Result, error)
	PopularSearches(ctx context.Context, limit int) ([]domain.SearchTerm, error)
	SetStatus(ctx context.Context, id int64, status domain.ToolStatus) (*domain.Tool, error)
	Feature(ctx context.Context, id int64, featured bool, price int64) (*domain.Tool, error)
	Like(ctx context.Context, id int64, machineID string) (*domain.Tool, bool, error)
	Delete(ctx context.Context, id int64) error
}

// PostService defines blog business logic
type PostService interface {
	Create(ctx context.Context, in domain.PostInput) (*domain.Post, error)
	Update(ctx context.Context, id int64, in domain.PostInput) (*domain.Post, error)
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (*domain.Post, error)
	GetPublishedBySlug(ctx context.Context, slug string) (*domain.Post, error)
	ListPublished(ctx context.Context, page, limit int, category string) ([]domain.Post, error)
	ListAll(ctx context.Context, page, limit int) ([]domain.Post, error)
}

// RoadmapService defines roadmap and changelog business logic
type RoadmapService interface {
	Create(ctx context.Context, item domain.RoadmapItem) (*domain.RoadmapItem, error)
	Update(ctx context.Context, id int64, item domain.RoadmapItem) (*domain.RoadmapItem, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]domain.RoadmapItem, error)
	Changelog(ctx context.Context, limit int) ([]domain.ChangelogEntry, error)
}

// LeadService defines contact and waitlist business logic
type LeadService interface {
	SubmitContact(ctx context.Context, msg domain.ContactMessage) (*domain.ContactMessage, error)
	JoinWaitlist(ctx context.Context, email, source string) (*domain.WaitlistSignup, error)
	ListContacts(ctx context.Context, page, limit int) ([]domain.ContactMessage, error)
	ListWaitlist(ctx context.Context, page, limit int) ([]domain.WaitlistSignup, error)
}

// AnalyticsService defines ingestion and dashboard reads
type AnalyticsService interface {
	RecordSession(ctx context.Context, session domain.Session) (*domain.Session, error)
	RecordConversation(ctx context.Context, conv domain.Conversation) (*domain.Conversation, error)
	UpsertDailyStat(ctx context.Context, stat domain.DailyStat) error
	TicketAnalytics(ctx context.Context, userID string, rng analytics.Range) analytics.Result
	Overview(ctx context.Context, userID string, rng analytics.Range) Overview
}

// Overview is the admin dashboard payload
type Overview struct {
	Analytics   analytics.Result `json:"analytics"`
	RecentTools []domain.Tool    `json:"recent_tools"`
	RecentPosts []domain.Post    `json:"recent_posts"`
}
