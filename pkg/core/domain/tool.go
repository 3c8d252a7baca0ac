package domain

import "time"

type ToolStatus string

const (
	ToolPending  ToolStatus = "pending"
	ToolApproved ToolStatus = "approved"
	ToolVerified ToolStatus = "verified"
)

func (s ToolStatus) Valid() bool {
	switch s {
	case ToolPending, ToolApproved, ToolVerified:
		return true
	}
	return false
}

// Listed reports whether the tool is visible in the public directory.
func (s ToolStatus) Listed() bool {
	return s == ToolApproved || s == ToolVerified
}

type PricingModel string

const (
	PricingFree         PricingModel = "free"
	PricingFreemium     PricingModel = "freemium"
	PricingPaid         PricingModel = "paid"
	PricingSubscription PricingModel = "subscription"
)

func (p PricingModel) Valid() bool {
	switch p {
	case PricingFree, PricingFreemium, PricingPaid, PricingSubscription:
		return true
	}
	return false
}

// Tool represents a listing in the tool directory
type Tool struct {
	ID            int64        `json:"id"`
	Name          string       `json:"name"`
	Tagline       string       `json:"tagline"`
	Description   string       `json:"description"`
	WebsiteURL    string       `json:"website_url"`
	LogoURL       string       `json:"logo_url,omitempty"`
	Categories    []string     `json:"categories"` // Handled as JSON text in SQLite
	Tags          []string     `json:"tags"`
	PricingModel  PricingModel `json:"pricing_model"`
	Featured      bool         `json:"featured"`
	FeaturedPrice int64        `json:"featured_price"` // cents
	Upvotes       int64        `json:"upvotes"`
	Status        ToolStatus   `json:"status"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// ToolFilter narrows directory listings. Zero values mean "any".
type ToolFilter struct {
	Status       ToolStatus
	ListedOnly   bool
	Category     string
	FeaturedOnly bool
	Newest       bool // ignore featured placement when ordering
	Limit        int
	Offset       int
}

// SearchTerm is a counted query string.
type SearchTerm struct {
	Term  string `json:"term"`
	Count int64  `json:"count"`
}
