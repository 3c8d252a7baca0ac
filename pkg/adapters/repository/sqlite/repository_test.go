package sqlite

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/orchis-hq/orchis/pkg/core/domain"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	repo, err := NewSQLiteRepository("file:" + name + "?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("Failed to init db: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestToolRoundTripAndFilters(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	now := time.Date(2025, 1, 5, 10, 0, 0, 0, time.UTC)

	tools := []*domain.Tool{
		{Name: "Writer", WebsiteURL: "https://writer.example", Categories: []string{"Writing", "AI"}, Tags: []string{"gpt"}, Status: domain.ToolApproved, PricingModel: domain.PricingFreemium, CreatedAt: now, UpdatedAt: now},
		{Name: "Painter", WebsiteURL: "https://painter.example", Categories: []string{"Design"}, Status: domain.ToolPending, CreatedAt: now.Add(time.Hour), UpdatedAt: now},
		{Name: "Seller", WebsiteURL: "https://seller.example", Categories: []string{"Sales"}, Status: domain.ToolVerified, Featured: true, FeaturedPrice: 4900, CreatedAt: now.Add(-time.Hour), UpdatedAt: now},
	}
	for _, tool := range tools {
		if err := repo.CreateTool(ctx, tool); err != nil {
			t.Fatalf("CreateTool: %v", err)
		}
	}

	got, err := repo.GetTool(ctx, tools[0].ID)
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || got.Name != "Writer" || len(got.Categories) != 2 || got.Tags[0] != "gpt" {
		t.Fatalf("unexpected tool: %+v", got)
	}
	if !got.CreatedAt.Equal(now) {
		t.Errorf("created_at round trip: got %v want %v", got.CreatedAt, now)
	}
	if got.PricingModel != domain.PricingFreemium || got.Status != domain.ToolApproved {
		t.Errorf("enum round trip failed: %+v", got)
	}

	listed, err := repo.ListTools(ctx, domain.ToolFilter{ListedOnly: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(listed) != 2 || listed[0].Name != "Seller" {
		t.Errorf("expected featured Seller first among 2 listed tools, got %+v", listed)
	}

	byCategory, err := repo.ListTools(ctx, domain.ToolFilter{Category: "writing"})
	if err != nil {
		t.Fatal(err)
	}
	if len(byCategory) != 1 || byCategory[0].Name != "Writer" {
		t.Errorf("category filter mismatch: %+v", byCategory)
	}

	count, err := repo.CountTools(ctx, domain.ToolFilter{Status: domain.ToolPending})
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("expected 1 pending tool, got %d", count)
	}

	missing, err := repo.GetTool(ctx, 999)
	if err != nil || missing != nil {
		t.Errorf("expected nil, nil for missing tool, got %v, %v", missing, err)
	}
}

func TestAddLikeDeduplicatesByMachine(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	tool := &domain.Tool{Name: "Writer", WebsiteURL: "https://writer.example", Status: domain.ToolApproved, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	if err := repo.CreateTool(ctx, tool); err != nil {
		t.Fatal(err)
	}

	for i, machine := range []string{"m-1", "m-1", "m-2"} {
		added, err := repo.AddLike(ctx, tool.ID, machine)
		if err != nil {
			t.Fatal(err)
		}
		if want := i != 1; added != want {
			t.Errorf("like %d from %s: added=%v want %v", i, machine, added, want)
		}
	}

	got, _ := repo.GetTool(ctx, tool.ID)
	if got.Upvotes != 2 {
		t.Errorf("expected 2 upvotes, got %d", got.Upvotes)
	}
}

func TestPostSlugConflict(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	now := time.Now()

	if err := repo.CreatePost(ctx, &domain.Post{Title: "Hello", Slug: "hello", CreatedAt: now, UpdatedAt: now}); err != nil {
		t.Fatal(err)
	}
	err := repo.CreatePost(ctx, &domain.Post{Title: "Hello again", Slug: "hello", CreatedAt: now, UpdatedAt: now})
	if !errors.Is(err, domain.ErrConflict) {
		t.Errorf("expected ErrConflict, got %v", err)
	}
}

func TestRoadmapOrderingAndChangelog(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	now := time.Now()
	later := now.Add(48 * time.Hour)

	items := []*domain.RoadmapItem{
		{Title: "Undated", Status: domain.RoadmapUpcoming, Priority: 1, CreatedAt: now, UpdatedAt: now},
		{Title: "Dated", Status: domain.RoadmapUpcoming, Priority: 1, ExpectedDate: &later, CreatedAt: now, UpdatedAt: now},
		{Title: "Urgent", Status: domain.RoadmapInProgress, Priority: 0, CreatedAt: now, UpdatedAt: now},
	}
	for _, item := range items {
		if err := repo.CreateRoadmapItem(ctx, item); err != nil {
			t.Fatal(err)
		}
	}

	list, err := repo.ListRoadmapItems(ctx)
	if err != nil {
		t.Fatal(err)
	}
	order := []string{list[0].Title, list[1].Title, list[2].Title}
	if order[0] != "Urgent" || order[1] != "Dated" || order[2] != "Undated" {
		t.Errorf("unexpected order: %v", order)
	}
	if list[1].ExpectedDate == nil || list[1].ExpectedDate.Unix() != later.Unix() {
		t.Errorf("expected date round trip failed: %v", list[1].ExpectedDate)
	}

	id := items[0].ID
	entry := &domain.ChangelogEntry{ID: "e-1", RoadmapItemID: &id, Title: "Shipped", ReleasedAt: now}
	if err := repo.CreateChangelogEntry(ctx, entry); err != nil {
		t.Fatal(err)
	}
	dup := &domain.ChangelogEntry{ID: "e-2", RoadmapItemID: &id, Title: "Shipped twice", ReleasedAt: now}
	if err := repo.CreateChangelogEntry(ctx, dup); !errors.Is(err, domain.ErrConflict) {
		t.Errorf("expected conflict for second entry, got %v", err)
	}

	found, err := repo.GetChangelogForRoadmapItem(ctx, id)
	if err != nil || found == nil || found.ID != "e-1" {
		t.Errorf("expected entry e-1, got %+v (%v)", found, err)
	}
}

func TestWaitlistConflict(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	signup := &domain.WaitlistSignup{Email: "a@orchis.io", Source: "home", CreatedAt: time.Now()}
	if err := repo.CreateWaitlistSignup(ctx, signup); err != nil {
		t.Fatal(err)
	}
	if err := repo.CreateWaitlistSignup(ctx, signup); !errors.Is(err, domain.ErrConflict) {
		t.Errorf("expected ErrConflict, got %v", err)
	}
}

func TestSearchTermCounters(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for _, term := range []string{"writer", "video", "writer", "writer", "video", "seo"} {
		if err := repo.IncrementTerm(ctx, term); err != nil {
			t.Fatal(err)
		}
	}

	top, err := repo.TopTerms(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(top) != 2 || top[0] != (domain.SearchTerm{Term: "writer", Count: 3}) || top[1].Term != "video" {
		t.Errorf("unexpected top terms: %+v", top)
	}
}

func TestAnalyticsRecords(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	now := time.Date(2025, 1, 5, 14, 0, 0, 0, time.UTC)

	stat := &domain.DailyStat{UserID: "owner", Date: "2025-01-05", TotalSessions: 3, Categories: map[string]int64{"sales": 2}}
	if err := repo.UpsertDailyStat(ctx, stat); err != nil {
		t.Fatal(err)
	}
	stat.TotalSessions = 7
	if err := repo.UpsertDailyStat(ctx, stat); err != nil {
		t.Fatal(err)
	}
	stats, err := repo.ListDailyStats(ctx, "owner", "2025-01-01")
	if err != nil {
		t.Fatal(err)
	}
	if len(stats) != 1 || stats[0].TotalSessions != 7 || stats[0].Categories["sales"] != 2 {
		t.Errorf("upsert mismatch: %+v", stats)
	}

	sessions := []*domain.Session{
		{ID: "old", UserID: "owner", StartedAt: now.AddDate(0, 0, -40)},
		{ID: "new", UserID: "owner", AnonymousUserID: "anon", Timezone: "Europe/Paris", StartedAt: now, IsReturnVisitor: true, ScrollDepth: 50},
		{ID: "other", UserID: "someone", StartedAt: now},
	}
	for _, s := range sessions {
		if err := repo.CreateSession(ctx, s); err != nil {
			t.Fatal(err)
		}
	}
	got, err := repo.ListSessions(ctx, "owner", now.AddDate(0, 0, -30))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != "new" || !got[0].IsReturnVisitor || got[0].Timezone != "Europe/Paris" || !got[0].StartedAt.Equal(now) {
		t.Errorf("unexpected sessions: %+v", got)
	}

	rt := 90.0
	convs := []*domain.Conversation{
		{ID: "c1", UserID: "owner", CreatedAt: now, Category: "sales", ResponseTimeSeconds: &rt},
		{ID: "c2", UserID: "owner", CreatedAt: now, Category: "support"},
	}
	for _, c := range convs {
		if err := repo.CreateConversation(ctx, c); err != nil {
			t.Fatal(err)
		}
	}
	gotConvs, err := repo.ListConversations(ctx, "owner", now.Add(-time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if len(gotConvs) != 2 {
		t.Fatalf("expected 2 conversations, got %d", len(gotConvs))
	}
	var withResponse int
	for _, c := range gotConvs {
		if c.ResponseTimeSeconds != nil {
			withResponse++
			if *c.ResponseTimeSeconds != 90 {
				t.Errorf("response time round trip: %v", *c.ResponseTimeSeconds)
			}
		}
	}
	if withResponse != 1 {
		t.Errorf("expected exactly one conversation with response time, got %d", withResponse)
	}
}
