// Package valkey keeps search-term popularity counters in a Valkey hash.
package valkey

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/orchis-hq/orchis/pkg/core/domain"
	"github.com/orchis-hq/orchis/pkg/ports"
	"github.com/valkey-io/valkey-go"
)

const searchTermsKey = "orchis:search_terms"

type Counter struct {
	client valkey.Client
	logger *slog.Logger
}

var _ ports.SearchTermCounter = (*Counter)(nil)

// Connect dials Valkey and pings it once before handing back the counter.
func Connect(ctx context.Context, address, password string, logger *slog.Logger) (*Counter, error) {
	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress:      []string{address},
		Password:         password,
		ConnWriteTimeout: 5 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("create valkey client: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Do(pingCtx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping valkey: %w", err)
	}

	logger.Info("connected to valkey", "address", address)
	return NewCounter(client, logger), nil
}

func NewCounter(client valkey.Client, logger *slog.Logger) *Counter {
	return &Counter{client: client, logger: logger}
}

func (c *Counter) IncrementTerm(ctx context.Context, term string) error {
	cmd := c.client.B().Hincrby().Key(searchTermsKey).Field(term).Increment(1).Build()
	return c.client.Do(ctx, cmd).Error()
}

func (c *Counter) TopTerms(ctx context.Context, limit int) ([]domain.SearchTerm, error) {
	counts, err := c.client.Do(ctx, c.client.B().Hgetall().Key(searchTermsKey).Build()).AsIntMap()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return []domain.SearchTerm{}, nil
		}
		return nil, err
	}
	return topTerms(counts, limit), nil
}

func (c *Counter) Close() {
	c.client.Close()
}

// topTerms orders by count desc then term asc, matching the SQL counter.
func topTerms(counts map[string]int64, limit int) []domain.SearchTerm {
	terms := make([]domain.SearchTerm, 0, len(counts))
	for term, n := range counts {
		terms = append(terms, domain.SearchTerm{Term: term, Count: n})
	}
	sort.Slice(terms, func(i, j int) bool {
		if terms[i].Count != terms[j].Count {
			return terms[i].Count > terms[j].Count
		}
		return terms[i].Term < terms[j].Term
	})
	if limit > 0 && len(terms) > limit {
		terms = terms[:limit]
	}
	return terms
}
