package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/MrJamesThe3rd/ezexpenses/internal/kv"
)

// SlotKey is where the tag pool lives as one JSON array of strings.
const SlotKey = "all_tags_pool"

type Store struct {
	kv kv.Store
}

func New(s kv.Store) *Store {
	return &Store{kv: s}
}

func decode(b []byte) ([]string, error) {
	if len(b) == 0 {
		return nil, nil
	}

	var tags []string
	if err := json.Unmarshal(b, &tags); err != nil {
		return nil, fmt.Errorf("decoding tag pool: %w", err)
	}

	return tags, nil
}

func (s *Store) ListTags(ctx context.Context) ([]string, error) {
	slot, err := s.kv.Get(ctx, SlotKey)
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}

	return decode(slot.Value)
}

func (s *Store) AddTags(ctx context.Context, incoming []string) error {
	return kv.Update(ctx, s.kv, SlotKey, func(current []byte) ([]byte, error) {
		tags, err := decode(current)
		if err != nil {
			return nil, err
		}

		seen := make(map[string]struct{}, len(tags))
		for _, t := range tags {
			seen[t] = struct{}{}
		}

		added := false

		for _, t := range incoming {
			if _, ok := seen[t]; ok {
				continue
			}

			seen[t] = struct{}{}
			tags = append(tags, t)
			added = true
		}

		if !added {
			return nil, nil
		}

		b, err := json.Marshal(tags)
		if err != nil {
			return nil, fmt.Errorf("encoding tag pool: %w", err)
		}

		return b, nil
	})
}
