// Package analytics turns raw ticket records into chart-ready series.
//
// Everything here is pure: callers fetch the records, pass "now", and get a
// Result whose shape never depends on how sparse the input was.
package analytics

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/orchis-hq/orchis/pkg/core/domain"
)

type Range string

const (
	Daily   Range = "daily"
	Weekly  Range = "weekly"
	Monthly Range = "monthly"
)

// ParseRange falls back to Weekly for anything unrecognised.
func ParseRange(s string) Range {
	switch Range(normalize(s)) {
	case Daily:
		return Daily
	case Monthly:
		return Monthly
	default:
		return Weekly
	}
}

const (
	recentSessionLimit = 10
	dateLayout         = "2006-01-02"

	// TODO: replace with the resolved flag once the chat backend writes it to daily stats.
	placeholderResolutionRatio = 0.8
)

type Input struct {
	Range         Range
	UserID        string
	Now           time.Time
	DailyStats    []domain.DailyStat
	Sessions      []domain.Session
	Conversations []domain.Conversation
}

type Bucket struct {
	Label    string `json:"label"`
	Opened   int64  `json:"opened"`
	Resolved int64  `json:"resolved"`
}

type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

type SentimentCount struct {
	Score int   `json:"score"`
	Count int64 `json:"count"`
}

type UrgencyCount struct {
	Urgency string `json:"urgency"`
	Count   int64  `json:"count"`
}

type TopicCount struct {
	Topic string `json:"topic"`
	Count int64  `json:"count"`
}

type LocationCount struct {
	Country string `json:"country"`
	Count   int64  `json:"count"`
}

type Summary struct {
	TotalSessions   int64   `json:"total_sessions"`
	Resolved        int64   `json:"resolved"`
	ResolutionRate  float64 `json:"resolution_rate"` // percent
	OpenTickets     int64   `json:"open_tickets"`
	ResolvedToday   int64   `json:"resolved_today"`
	AvgResponseTime float64 `json:"avg_response_time"` // minutes
}

type Result struct {
	Range          Range            `json:"range"`
	TimeSeries     []Bucket         `json:"time_series"`
	Categories     []CategoryCount  `json:"categories"`
	Sentiments     []SentimentCount `json:"sentiments"`
	Urgencies      []UrgencyCount   `json:"urgencies"`
	Topics         []TopicCount     `json:"topics"`
	Locations      []LocationCount  `json:"locations"`
	Summary        Summary          `json:"summary"`
	Detailed       DetailedMetrics  `json:"detailed_metrics"`
	RecentSessions []domain.Session `json:"recent_sessions"`
}

// Empty is the zero-valued result for a range: every bucket and label is
// present with a zero count.
func Empty(r Range, now time.Time) Result {
	return build(window(ParseRange(string(r)), now), nil, nil, nil)
}

// Aggregate computes the dashboard result. A missing UserID yields Empty.
func Aggregate(in Input) Result {
	w := window(ParseRange(string(in.Range)), in.Now)
	if in.UserID == "" {
		return build(w, nil, nil, nil)
	}
	return build(w, in.DailyStats, in.Sessions, in.Conversations)
}

// WindowStart is the earliest instant a range covers. Callers use it to bound
// their record queries.
func WindowStart(r Range, now time.Time) time.Time {
	return window(ParseRange(string(r)), now).start()
}

type timeWindow struct {
	rng    Range
	now    time.Time
	step   time.Duration // zero for calendar days
	starts []time.Time
	labels []string
}

func (w timeWindow) start() time.Time { return w.starts[0] }

func (w timeWindow) end() time.Time {
	last := w.starts[len(w.starts)-1]
	if w.step > 0 {
		return last.Add(w.step)
	}
	return last.AddDate(0, 0, 1)
}

func (w timeWindow) contains(t time.Time) bool {
	return !t.Before(w.start()) && t.Before(w.end())
}

// index returns the bucket a timestamp falls into, or -1.
func (w timeWindow) index(t time.Time) int {
	if !w.contains(t) {
		return -1
	}
	if w.step > 0 {
		return int(t.Sub(w.start()) / w.step)
	}
	label := t.In(w.now.Location()).Format(dateLayout)
	for i, l := range w.labels {
		if l == label {
			return i
		}
	}
	return -1
}

func (w timeWindow) today() string { return w.now.Format(dateLayout) }

// dates is the set of calendar days the window touches.
func (w timeWindow) dates() map[string]bool {
	out := map[string]bool{}
	for _, s := range w.starts {
		out[s.Format(dateLayout)] = true
	}
	return out
}

func window(r Range, now time.Time) timeWindow {
	if now.IsZero() {
		now = time.Now()
	}
	w := timeWindow{rng: r, now: now}
	loc := now.Location()

	if r == Daily {
		w.step = time.Hour
		current := time.Date(now.Year(), now.Month(), now.Day(), now.Hour(), 0, 0, 0, loc)
		first := current.Add(-23 * time.Hour)
		for i := 0; i < 24; i++ {
			s := first.Add(time.Duration(i) * time.Hour)
			w.starts = append(w.starts, s)
			w.labels = append(w.labels, fmt.Sprintf("%02d:00", s.In(loc).Hour()))
		}
		return w
	}

	days := 7
	if r == Monthly {
		days = 30
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	for i := days - 1; i >= 0; i-- {
		s := today.AddDate(0, 0, -i)
		w.starts = append(w.starts, s)
		w.labels = append(w.labels, s.Format(dateLayout))
	}
	return w
}

func build(w timeWindow, stats []domain.DailyStat, sessions []domain.Session, convs []domain.Conversation) Result {
	res := Result{
		Range:          w.rng,
		TimeSeries:     make([]Bucket, len(w.labels)),
		Categories:     make([]CategoryCount, len(Categories)),
		Sentiments:     make([]SentimentCount, MaxSentimentScore-MinSentimentScore+1),
		Urgencies:      make([]UrgencyCount, len(Urgencies)),
		Topics:         make([]TopicCount, len(Topics)),
		Locations:      []LocationCount{},
		RecentSessions: []domain.Session{},
	}
	for i, l := range w.labels {
		res.TimeSeries[i] = Bucket{Label: l}
	}
	for i, c := range Categories {
		res.Categories[i] = CategoryCount{Category: c}
	}
	for i := range res.Sentiments {
		res.Sentiments[i] = SentimentCount{Score: MinSentimentScore + i}
	}
	for i, u := range Urgencies {
		res.Urgencies[i] = UrgencyCount{Urgency: u}
	}
	for i, t := range Topics {
		res.Topics[i] = TopicCount{Topic: t}
	}

	inDates := w.dates()
	var activeStats []domain.DailyStat
	for _, s := range stats {
		if inDates[s.Date] {
			activeStats = append(activeStats, s)
		}
	}
	var activeSessions []domain.Session
	for _, s := range sessions {
		if w.contains(s.StartedAt) {
			activeSessions = append(activeSessions, s)
		}
	}
	var activeConvs []domain.Conversation
	for _, c := range convs {
		if w.contains(c.CreatedAt) {
			activeConvs = append(activeConvs, c)
		}
	}

	fillTimeSeries(w, res.TimeSeries, activeStats, activeSessions)
	fillHistograms(&res, activeStats, activeConvs)
	res.Locations = uniqueLocations(activeSessions)
	res.Summary = summarize(w, res.TimeSeries, activeConvs)
	res.Detailed = ComputeDetailedMetrics(activeSessions)
	res.RecentSessions = recentSessions(activeSessions)
	return res
}

func fillTimeSeries(w timeWindow, buckets []Bucket, stats []domain.DailyStat, sessions []domain.Session) {
	covered := map[string]bool{}
	if w.step == 0 {
		for _, s := range stats {
			for i, l := range w.labels {
				if l == s.Date {
					buckets[i].Opened += s.TotalSessions
					covered[s.Date] = true
				}
			}
		}
	}
	for _, s := range sessions {
		if w.step == 0 && covered[s.StartedAt.In(w.now.Location()).Format(dateLayout)] {
			continue
		}
		if i := w.index(s.StartedAt); i >= 0 {
			buckets[i].Opened++
		}
	}
	for i := range buckets {
		buckets[i].Resolved = placeholderResolved(buckets[i].Opened)
	}
}

func placeholderResolved(opened int64) int64 {
	return int64(math.Round(float64(opened) * placeholderResolutionRatio))
}

func fillHistograms(res *Result, stats []domain.DailyStat, convs []domain.Conversation) {
	if len(stats) > 0 {
		for _, s := range stats {
			for label, n := range s.Categories {
				res.Categories[categoryIndex(label)].Count += n
			}
			for label, n := range s.Sentiments {
				res.Sentiments[SentimentScore(label)-MinSentimentScore].Count += n
			}
		}
	} else {
		for _, c := range convs {
			res.Categories[categoryIndex(c.Category)].Count++
			res.Sentiments[SentimentScore(conversationSentiment(c))-MinSentimentScore].Count++
		}
	}

	for _, c := range convs {
		if i := urgencyIndex(c.Urgency); i >= 0 {
			res.Urgencies[i].Count++
		}
		res.Topics[topicIndex(c.Topic)].Count++
	}
}

func conversationSentiment(c domain.Conversation) string {
	if c.Sentiment == "" && c.LastMessage != "" {
		return LabelFromText(c.LastMessage)
	}
	return c.Sentiment
}

// uniqueLocations counts distinct anonymous users per country.
func uniqueLocations(sessions []domain.Session) []LocationCount {
	seen := map[string]map[string]struct{}{}
	for _, s := range sessions {
		id := s.AnonymousUserID
		if id == "" {
			id = "session:" + s.ID
		}
		country := CountryForTimezone(s.Timezone)
		if seen[country] == nil {
			seen[country] = map[string]struct{}{}
		}
		seen[country][id] = struct{}{}
	}

	out := make([]LocationCount, 0, len(seen))
	for country, ids := range seen {
		out = append(out, LocationCount{Country: country, Count: int64(len(ids))})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Country < out[j].Country
	})
	return out
}

func summarize(w timeWindow, buckets []Bucket, convs []domain.Conversation) Summary {
	var sum Summary
	today := w.today()
	var openedToday int64
	for i, b := range buckets {
		sum.TotalSessions += b.Opened
		if w.starts[i].Format(dateLayout) == today {
			openedToday += b.Opened
		}
	}
	// Totals are rounded once; bucket values are chart-only.
	sum.Resolved = placeholderResolved(sum.TotalSessions)
	sum.ResolvedToday = placeholderResolved(openedToday)
	sum.OpenTickets = sum.TotalSessions - sum.Resolved
	if sum.TotalSessions > 0 {
		sum.ResolutionRate = round1(float64(sum.Resolved) / float64(sum.TotalSessions) * 100)
	}

	var total float64
	var n int
	for _, c := range convs {
		if c.ResponseTimeSeconds != nil {
			total += *c.ResponseTimeSeconds
			n++
		}
	}
	if n > 0 {
		sum.AvgResponseTime = round1(total / float64(n) / 60)
	}
	return sum
}

func recentSessions(sessions []domain.Session) []domain.Session {
	sorted := make([]domain.Session, len(sessions))
	copy(sorted, sessions)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartedAt.After(sorted[j].StartedAt)
	})
	if len(sorted) > recentSessionLimit {
		sorted = sorted[:recentSessionLimit]
	}
	return sorted
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
