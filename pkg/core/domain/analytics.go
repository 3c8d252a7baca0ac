package domain

import "time"

// DailyStat is a per-day rollup written by the chat backend.
type DailyStat struct {
	UserID        string           `json:"user_id"`
	Date          string           `json:"date"` // YYYY-MM-DD
	TotalSessions int64            `json:"total_sessions"`
	TotalMessages int64            `json:"total_messages"`
	Categories    map[string]int64 `json:"categories,omitempty"`
	Sentiments    map[string]int64 `json:"sentiments,omitempty"`
}

// Session is one visitor session on a page carrying the chat widget.
type Session struct {
	ID                   string    `json:"id"`
	UserID               string    `json:"user_id"`
	AnonymousUserID      string    `json:"anonymous_user_id"`
	StartedAt            time.Time `json:"started_at"`
	Timezone             string    `json:"timezone"`
	Device               string    `json:"device"`
	Referrer             string    `json:"referrer"`
	TimeOnPageBeforeChat float64   `json:"time_on_page_before_chat"` // seconds
	SessionDuration      float64   `json:"session_duration"`         // seconds
	ScrollDepth          float64   `json:"scroll_depth"`             // percent
	IsReturnVisitor      bool      `json:"is_return_visitor"`
	MessageCount         int64     `json:"message_count"`
}

// Conversation is a classified chat thread.
type Conversation struct {
	ID                  string    `json:"id"`
	UserID              string    `json:"user_id"`
	CreatedAt           time.Time `json:"created_at"`
	Category            string    `json:"category"`
	Sentiment           string    `json:"sentiment"`
	Urgency             string    `json:"urgency"`
	Topic               string    `json:"topic"`
	Resolved            bool      `json:"resolved"`
	ResponseTimeSeconds *float64  `json:"response_time_seconds,omitempty"`
	LastMessage         string    `json:"last_message,omitempty"`
}
