package analytics

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/orchis-hq/orchis/pkg/core/domain"
)

var testNow = time.Date(2025, 1, 5, 14, 30, 0, 0, time.UTC)

func TestDailyRangeHasTwentyFourHourBuckets(t *testing.T) {
	res := Aggregate(Input{
		Range:  Daily,
		UserID: "owner-1",
		Now:    testNow,
		Sessions: []domain.Session{
			{ID: "s1", StartedAt: time.Date(2025, 1, 5, 13, 10, 0, 0, time.UTC)},
			{ID: "s2", StartedAt: time.Date(2025, 1, 4, 10, 0, 0, 0, time.UTC)}, // outside window
		},
	})

	if len(res.TimeSeries) != 24 {
		t.Fatalf("expected 24 buckets, got %d", len(res.TimeSeries))
	}
	seen := map[string]bool{}
	for i, b := range res.TimeSeries {
		want := fmt.Sprintf("%02d:00", (15+i)%24)
		if b.Label != want {
			t.Errorf("bucket %d: expected label %s, got %s", i, want, b.Label)
		}
		seen[b.Label] = true
	}
	if len(seen) != 24 {
		t.Errorf("expected 24 distinct labels, got %d", len(seen))
	}
	if res.TimeSeries[22].Label != "13:00" || res.TimeSeries[22].Opened != 1 {
		t.Errorf("expected one session at 13:00, got %+v", res.TimeSeries[22])
	}
	if res.Summary.TotalSessions != 1 {
		t.Errorf("expected 1 session in window, got %d", res.Summary.TotalSessions)
	}
}

func TestWeeklyAndMonthlyBucketLabels(t *testing.T) {
	tests := []struct {
		rng        Range
		count      int
		first, end string
	}{
		{Weekly, 7, "2024-12-30", "2025-01-05"},
		{Monthly, 30, "2024-12-07", "2025-01-05"},
	}
	for _, tt := range tests {
		t.Run(string(tt.rng), func(t *testing.T) {
			res := Aggregate(Input{Range: tt.rng, UserID: "owner-1", Now: testNow})
			if len(res.TimeSeries) != tt.count {
				t.Fatalf("expected %d buckets, got %d", tt.count, len(res.TimeSeries))
			}
			if got := res.TimeSeries[0].Label; got != tt.first {
				t.Errorf("first label: got %s want %s", got, tt.first)
			}
			if got := res.TimeSeries[tt.count-1].Label; got != tt.end {
				t.Errorf("last label: got %s want %s", got, tt.end)
			}
		})
	}
}

func TestDailyStatsFeedDayBuckets(t *testing.T) {
	res := Aggregate(Input{
		Range:  Weekly,
		UserID: "owner-1",
		Now:    testNow,
		DailyStats: []domain.DailyStat{
			{Date: "2025-01-03", TotalSessions: 10},
			{Date: "2024-11-01", TotalSessions: 99}, // outside window
		},
		Sessions: []domain.Session{
			{ID: "covered", StartedAt: time.Date(2025, 1, 3, 9, 0, 0, 0, time.UTC)},
			{ID: "loose", StartedAt: time.Date(2025, 1, 4, 9, 0, 0, 0, time.UTC)},
		},
	})

	byLabel := map[string]Bucket{}
	for _, b := range res.TimeSeries {
		byLabel[b.Label] = b
	}
	if b := byLabel["2025-01-03"]; b.Opened != 10 || b.Resolved != 8 {
		t.Errorf("expected 10 opened / 8 resolved on 2025-01-03, got %+v", b)
	}
	if b := byLabel["2025-01-04"]; b.Opened != 1 {
		t.Errorf("expected loose session on 2025-01-04, got %+v", b)
	}
	if b := byLabel["2025-01-05"]; b.Opened != 0 {
		t.Errorf("expected empty today bucket, got %+v", b)
	}
}

func TestHistogramsAlwaysCompleteAndOrdered(t *testing.T) {
	res := Aggregate(Input{Range: Weekly, UserID: "owner-1", Now: testNow})

	wantCategories := []string{"support", "sales", "billing", "technical", "feedback", "general", "other"}
	if len(res.Categories) != len(wantCategories) {
		t.Fatalf("expected %d categories, got %d", len(wantCategories), len(res.Categories))
	}
	for i, c := range res.Categories {
		if c.Category != wantCategories[i] || c.Count != 0 {
			t.Errorf("category %d: got %+v", i, c)
		}
	}
	if len(res.Sentiments) != 10 {
		t.Fatalf("expected 10 sentiment scores, got %d", len(res.Sentiments))
	}
	for i, s := range res.Sentiments {
		if s.Score != i+1 || s.Count != 0 {
			t.Errorf("sentiment %d: got %+v", i, s)
		}
	}
	if len(res.Urgencies) != 3 || res.Urgencies[0].Urgency != "low" || res.Urgencies[2].Urgency != "high" {
		t.Errorf("unexpected urgencies: %+v", res.Urgencies)
	}
	if len(res.Topics) != len(Topics) {
		t.Errorf("expected %d topics, got %d", len(Topics), len(res.Topics))
	}
}

func TestHistogramsFromConversations(t *testing.T) {
	at := time.Date(2025, 1, 5, 9, 0, 0, 0, time.UTC)
	res := Aggregate(Input{
		Range:  Weekly,
		UserID: "owner-1",
		Now:    testNow,
		Conversations: []domain.Conversation{
			{ID: "c1", CreatedAt: at, Category: "Sales", Sentiment: "positive", Urgency: "high", Topic: "pricing"},
			{ID: "c2", CreatedAt: at, Category: "refunds", Sentiment: "frustrated", Urgency: "urgent", Topic: "bug"},
			{ID: "c3", CreatedAt: at, Category: "support", Sentiment: "weird", Urgency: "low", Topic: "something"},
		},
	})

	counts := map[string]int64{}
	for _, c := range res.Categories {
		counts[c.Category] = c.Count
	}
	if counts["sales"] != 1 || counts["support"] != 1 || counts["other"] != 1 {
		t.Errorf("unexpected category counts: %v", counts)
	}
	if res.Sentiments[7].Count != 1 || res.Sentiments[1].Count != 1 || res.Sentiments[4].Count != 1 {
		t.Errorf("unexpected sentiment counts: %+v", res.Sentiments)
	}
	var urgent int64
	for _, u := range res.Urgencies {
		urgent += u.Count
	}
	if urgent != 2 {
		t.Errorf("unknown urgency should be dropped, got total %d", urgent)
	}
	topics := map[string]int64{}
	for _, tc := range res.Topics {
		topics[tc.Topic] = tc.Count
	}
	if topics["pricing"] != 1 || topics["bug_report"] != 1 || topics["other"] != 1 {
		t.Errorf("unexpected topic counts: %v", topics)
	}
}

func TestDailyStatCountersWinOverConversations(t *testing.T) {
	res := Aggregate(Input{
		Range:  Weekly,
		UserID: "owner-1",
		Now:    testNow,
		DailyStats: []domain.DailyStat{
			{Date: "2025-01-04", TotalSessions: 3, Categories: map[string]int64{"billing": 2, "mystery": 1}, Sentiments: map[string]int64{"negative": 3}},
			{Date: "2025-01-05", Categories: map[string]int64{"billing": 1}},
		},
		Conversations: []domain.Conversation{
			{ID: "c1", CreatedAt: testNow.Add(-time.Hour), Category: "sales", Sentiment: "positive"},
		},
	})

	if res.Categories[2].Category != "billing" || res.Categories[2].Count != 3 {
		t.Errorf("expected billing=3, got %+v", res.Categories[2])
	}
	if res.Categories[6].Count != 1 {
		t.Errorf("expected unknown category folded into other, got %+v", res.Categories[6])
	}
	if res.Categories[1].Count != 0 {
		t.Errorf("conversation categories should be ignored when daily stats exist, got %+v", res.Categories[1])
	}
	if res.Sentiments[2].Count != 3 {
		t.Errorf("expected score 3 count 3, got %+v", res.Sentiments[2])
	}
}

func TestSentimentScore(t *testing.T) {
	tests := map[string]int{
		"positive":   8,
		"negative":   3,
		"neutral":    5,
		"frustrated": 2,
		"confused":   4,
		" Positive ": 8,
		"ecstatic":   5,
		"":           5,
		"9":          5,
		"42":         5,
	}
	for label, want := range tests {
		if got := SentimentScore(label); got != want {
			t.Errorf("SentimentScore(%q) = %d, want %d", label, got, want)
		}
	}
}

func TestSentimentFromMessageWhenLabelMissing(t *testing.T) {
	res := Aggregate(Input{
		Range:  Weekly,
		UserID: "owner-1",
		Now:    testNow,
		Conversations: []domain.Conversation{
			{ID: "c1", CreatedAt: testNow.Add(-time.Hour), LastMessage: "I love this product, it is amazing and wonderful!"},
		},
	})
	if res.Sentiments[7].Count != 1 {
		t.Errorf("expected VADER positive to land on score 8, got %+v", res.Sentiments)
	}
}

func TestUniqueLocationsDeduplicateAnonymousUsers(t *testing.T) {
	at := testNow.Add(-2 * time.Hour)
	res := Aggregate(Input{
		Range:  Weekly,
		UserID: "owner-1",
		Now:    testNow,
		Sessions: []domain.Session{
			{ID: "s1", AnonymousUserID: "anon-1", Timezone: "America/New_York", StartedAt: at},
			{ID: "s2", AnonymousUserID: "anon-1", Timezone: "America/Chicago", StartedAt: at},
			{ID: "s3", AnonymousUserID: "anon-2", Timezone: "Europe/Berlin", StartedAt: at},
			{ID: "s4", Timezone: "Mars/Olympus", StartedAt: at},
		},
	})

	want := []LocationCount{
		{Country: "DE", Count: 1},
		{Country: "Other", Count: 1},
		{Country: "US", Count: 1},
	}
	if len(res.Locations) != len(want) {
		t.Fatalf("expected %d countries, got %+v", len(want), res.Locations)
	}
	for i := range want {
		if res.Locations[i] != want[i] {
			t.Errorf("location %d: got %+v want %+v", i, res.Locations[i], want[i])
		}
	}
}

func TestSummaryScalars(t *testing.T) {
	rt1, rt2 := 60.0, 180.0
	res := Aggregate(Input{
		Range:  Weekly,
		UserID: "owner-1",
		Now:    testNow,
		DailyStats: []domain.DailyStat{
			{Date: "2025-01-05", TotalSessions: 10},
			{Date: "2025-01-04", TotalSessions: 5},
		},
		Conversations: []domain.Conversation{
			{ID: "c1", CreatedAt: testNow.Add(-time.Hour), ResponseTimeSeconds: &rt1},
			{ID: "c2", CreatedAt: testNow.Add(-time.Hour), ResponseTimeSeconds: &rt2},
			{ID: "c3", CreatedAt: testNow.Add(-time.Hour)},
		},
	})

	want := Summary{
		TotalSessions:   15,
		Resolved:        12,
		ResolutionRate:  80,
		OpenTickets:     3,
		ResolvedToday:   8,
		AvgResponseTime: 2,
	}
	if res.Summary != want {
		t.Errorf("summary mismatch:\n got %+v\nwant %+v", res.Summary, want)
	}
}

func TestSummaryRoundsTotalsNotBuckets(t *testing.T) {
	var stats []domain.DailyStat
	for d := 30; d <= 31; d++ {
		stats = append(stats, domain.DailyStat{Date: fmt.Sprintf("2024-12-%02d", d), TotalSessions: 1})
	}
	for d := 1; d <= 5; d++ {
		stats = append(stats, domain.DailyStat{Date: fmt.Sprintf("2025-01-%02d", d), TotalSessions: 1})
	}

	res := Aggregate(Input{Range: Weekly, UserID: "owner-1", Now: testNow, DailyStats: stats})

	want := Summary{
		TotalSessions:  7,
		Resolved:       6,
		ResolutionRate: 85.7,
		OpenTickets:    1,
		ResolvedToday:  1,
	}
	if res.Summary != want {
		t.Errorf("summary mismatch:\n got %+v\nwant %+v", res.Summary, want)
	}
	for _, b := range res.TimeSeries {
		if b.Opened != 1 || b.Resolved != 1 {
			t.Errorf("bucket %s = %+v, want opened 1 resolved 1", b.Label, b)
		}
	}
}

func TestEmptyStateWithoutUserID(t *testing.T) {
	withData := Aggregate(Input{
		Range: Weekly,
		Now:   testNow,
		DailyStats: []domain.DailyStat{
			{Date: "2025-01-05", TotalSessions: 10},
		},
		Sessions: []domain.Session{
			{ID: "s1", AnonymousUserID: "a", Timezone: "Europe/London", StartedAt: testNow.Add(-time.Hour)},
		},
	})

	if withData.Summary != (Summary{}) {
		t.Errorf("expected zero summary, got %+v", withData.Summary)
	}
	if withData.RecentSessions == nil || len(withData.RecentSessions) != 0 {
		t.Errorf("expected empty non-nil recent sessions, got %v", withData.RecentSessions)
	}
	if len(withData.Categories) != len(Categories) {
		t.Errorf("expected complete categories, got %d", len(withData.Categories))
	}

	got, err := json.Marshal(withData)
	if err != nil {
		t.Fatal(err)
	}
	want, err := json.Marshal(Empty(Weekly, testNow))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(want) {
		t.Errorf("empty state differs from Empty():\n got %s\nwant %s", got, want)
	}

	noRecords, _ := json.Marshal(Aggregate(Input{Range: Weekly, UserID: "owner-1", Now: testNow}))
	if string(noRecords) != string(want) {
		t.Errorf("empty data path should match empty state shape:\n got %s\nwant %s", noRecords, want)
	}
}

func TestRecentSessionsCappedAndSorted(t *testing.T) {
	var sessions []domain.Session
	for i := 0; i < 15; i++ {
		sessions = append(sessions, domain.Session{
			ID:        fmt.Sprintf("s%d", i),
			StartedAt: testNow.Add(-time.Duration(15-i) * time.Minute),
		})
	}
	res := Aggregate(Input{Range: Daily, UserID: "owner-1", Now: testNow, Sessions: sessions})

	if len(res.RecentSessions) != 10 {
		t.Fatalf("expected 10 recent sessions, got %d", len(res.RecentSessions))
	}
	if res.RecentSessions[0].ID != "s14" || res.RecentSessions[9].ID != "s5" {
		t.Errorf("unexpected order: first=%s last=%s", res.RecentSessions[0].ID, res.RecentSessions[9].ID)
	}
}

func TestParseRange(t *testing.T) {
	tests := map[string]Range{
		"daily":   Daily,
		"DAILY":   Daily,
		"weekly":  Weekly,
		"monthly": Monthly,
		"":        Weekly,
		"yearly":  Weekly,
	}
	for in, want := range tests {
		if got := ParseRange(in); got != want {
			t.Errorf("ParseRange(%q) = %s, want %s", in, got, want)
		}
	}
}
