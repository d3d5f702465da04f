// Package tagpool keeps the set of every tag ever written to a record.
// It feeds suggestion surfaces only; reports never read it.
package tagpool

import (
	"context"
	"strings"

	"github.com/MrJamesThe3rd/ezexpenses/internal/record"
)

const DefaultSuggestLimit = 10

type Repository interface {
	ListTags(ctx context.Context) ([]string, error)
	// AddTags appends the tags not already present, in order.
	AddTags(ctx context.Context, tags []string) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]string, error) {
	return s.repo.ListTags(ctx)
}

// AddTags remembers tags for later suggestions.
func (s *Service) AddTags(ctx context.Context, tags []string) error {
	tags = record.CleanTags(tags)
	if len(tags) == 0 {
		return nil
	}

	return s.repo.AddTags(ctx, tags)
}

// Suggest returns pool tags starting with prefix, case-insensitively, in
// pool order. An empty prefix matches every tag.
func (s *Service) Suggest(ctx context.Context, prefix string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = DefaultSuggestLimit
	}

	tags, err := s.repo.ListTags(ctx)
	if err != nil {
		return nil, err
	}

	prefix = strings.ToLower(strings.TrimSpace(prefix))
	out := make([]string, 0, min(limit, len(tags)))

	for _, t := range tags {
		if len(out) == limit {
			break
		}

		if strings.HasPrefix(strings.ToLower(t), prefix) {
			out = append(out, t)
		}
	}

	return out, nil
}
