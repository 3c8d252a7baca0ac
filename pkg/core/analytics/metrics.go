package analytics

import "github.com/orchis-hq/orchis/pkg/core/domain"

// DetailedMetrics are per-session means over the selected window.
type DetailedMetrics struct {
	AvgTimeBeforeChat  float64 `json:"avg_time_before_chat"` // seconds
	AvgSessionDuration float64 `json:"avg_session_duration"` // seconds
	AvgScrollDepth     float64 `json:"avg_scroll_depth"`     // percent
	ReturnVisitorRate  float64 `json:"return_visitor_rate"`  // percent
	MessagesPerSession float64 `json:"messages_per_session"`
}

// ComputeDetailedMetrics returns zeros for an empty list.
func ComputeDetailedMetrics(sessions []domain.Session) DetailedMetrics {
	if len(sessions) == 0 {
		return DetailedMetrics{}
	}

	var m DetailedMetrics
	var returning, messages float64
	for _, s := range sessions {
		m.AvgTimeBeforeChat += s.TimeOnPageBeforeChat
		m.AvgSessionDuration += s.SessionDuration
		m.AvgScrollDepth += s.ScrollDepth
		messages += float64(s.MessageCount)
		if s.IsReturnVisitor {
			returning++
		}
	}

	n := float64(len(sessions))
	m.AvgTimeBeforeChat = round1(m.AvgTimeBeforeChat / n)
	m.AvgSessionDuration = round1(m.AvgSessionDuration / n)
	m.AvgScrollDepth = round1(m.AvgScrollDepth / n)
	m.ReturnVisitorRate = round1(returning / n * 100)
	m.MessagesPerSession = round1(messages / n)
	return m
}
