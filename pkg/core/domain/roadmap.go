package domain

import "time"

type RoadmapStatus string

const (
	RoadmapUpcoming   RoadmapStatus = "upcoming"
	RoadmapInProgress RoadmapStatus = "in_progress"
	RoadmapCompleted  RoadmapStatus = "completed"
	RoadmapCancelled  RoadmapStatus = "cancelled"
)

func (s RoadmapStatus) Valid() bool {
	switch s {
	case RoadmapUpcoming, RoadmapInProgress, RoadmapCompleted, RoadmapCancelled:
		return true
	}
	return false
}

// RoadmapItem is a planned feature. Lower Priority sorts first.
type RoadmapItem struct {
	ID           int64         `json:"id"`
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	Status       RoadmapStatus `json:"status"`
	Priority     int           `json:"priority"`
	ExpectedDate *time.Time    `json:"expected_date,omitempty"`
	Category     string        `json:"category"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// ChangelogEntry is a release note, optionally tied to a completed roadmap item.
type ChangelogEntry struct {
	ID            string    `json:"id"`
	RoadmapItemID *int64    `json:"roadmap_item_id,omitempty"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Category      string    `json:"category"`
	ReleasedAt    time.Time `json:"released_at"`
}
