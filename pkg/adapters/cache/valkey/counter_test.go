package valkey

import (
	"testing"

	"github.com/orchis-hq/orchis/pkg/core/domain"
)

func TestTopTermsOrdering(t *testing.T) {
	counts := map[string]int64{"seo": 1, "writer": 3, "video": 3, "chat": 2}

	tests := []struct {
		name  string
		limit int
		want  []domain.SearchTerm
	}{
		{"limited", 2, []domain.SearchTerm{{Term: "video", Count: 3}, {Term: "writer", Count: 3}}},
		{"all", 0, []domain.SearchTerm{{Term: "video", Count: 3}, {Term: "writer", Count: 3}, {Term: "chat", Count: 2}, {Term: "seo", Count: 1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := topTerms(counts, tt.limit)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d terms, got %d", len(tt.want), len(got))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("position %d: got %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestTopTermsEmpty(t *testing.T) {
	if got := topTerms(nil, 5); got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", got)
	}
}
