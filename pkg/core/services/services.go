// Package services holds the business rules behind each HTTP surface.
package services

import "github.com/orchis-hq/orchis/pkg/ports"

// Ensure interface compliance
var (
	_ ports.ToolService      = (*ToolService)(nil)
	_ ports.PostService      = (*PostService)(nil)
	_ ports.RoadmapService   = (*RoadmapService)(nil)
	_ ports.LeadService      = (*LeadService)(nil)
	_ ports.AnalyticsService = (*AnalyticsService)(nil)
)
