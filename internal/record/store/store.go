package store

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/MrJamesThe3rd/ezexpenses/internal/kv"
	"github.com/MrJamesThe3rd/ezexpenses/internal/record"
)

// SlotKey is where the record collection lives as one JSON array.
const SlotKey = "bookkeeping_records"

type Store struct {
	kv kv.Store
}

func New(s kv.Store) *Store {
	return &Store{kv: s}
}

func decode(b []byte) ([]*record.Record, error) {
	if len(b) == 0 {
		return nil, nil
	}

	var recs []*record.Record
	if err := json.Unmarshal(b, &recs); err != nil {
		return nil, fmt.Errorf("decoding records: %w", err)
	}

	return recs, nil
}

func encode(recs []*record.Record) ([]byte, error) {
	if recs == nil {
		recs = []*record.Record{}
	}

	b, err := json.Marshal(recs)
	if err != nil {
		return nil, fmt.Errorf("encoding records: %w", err)
	}

	return b, nil
}

func (s *Store) ListRecords(ctx context.Context) ([]*record.Record, error) {
	slot, err := s.kv.Get(ctx, SlotKey)
	if err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}

	return decode(slot.Value)
}

func (s *Store) GetRecord(ctx context.Context, id int64) (*record.Record, error) {
	recs, err := s.ListRecords(ctx)
	if err != nil {
		return nil, err
	}

	i := slices.IndexFunc(recs, func(r *record.Record) bool { return r.ID == id })
	if i < 0 {
		return nil, record.ErrNotFound
	}

	return recs[i], nil
}

func (s *Store) CreateRecords(ctx context.Context, incoming []*record.Record) error {
	return kv.Update(ctx, s.kv, SlotKey, func(current []byte) ([]byte, error) {
		recs, err := decode(current)
		if err != nil {
			return nil, err
		}

		seen := make(map[int64]struct{}, len(recs)+len(incoming))
		for _, r := range recs {
			seen[r.ID] = struct{}{}
		}

		for _, r := range incoming {
			if _, dup := seen[r.ID]; dup {
				return nil, fmt.Errorf("%w: %d", record.ErrDuplicateID, r.ID)
			}

			seen[r.ID] = struct{}{}
		}

		return encode(append(recs, incoming...))
	})
}

func (s *Store) UpdateRecords(ctx context.Context, ids []int64, fn func(*record.Record) error) ([]*record.Record, error) {
	var updated []*record.Record

	err := kv.Update(ctx, s.kv, SlotKey, func(current []byte) ([]byte, error) {
		recs, err := decode(current)
		if err != nil {
			return nil, err
		}

		byID := make(map[int64]*record.Record, len(recs))
		for _, r := range recs {
			byID[r.ID] = r
		}

		updated = make([]*record.Record, 0, len(ids))

		for _, id := range ids {
			r, ok := byID[id]
			if !ok {
				return nil, fmt.Errorf("%w: %d", record.ErrNotFound, id)
			}

			if err := fn(r); err != nil {
				return nil, err
			}

			updated = append(updated, r)
		}

		return encode(recs)
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

func (s *Store) DeleteRecords(ctx context.Context, ids []int64) (int, error) {
	drop := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}

	var removed int

	err := kv.Update(ctx, s.kv, SlotKey, func(current []byte) ([]byte, error) {
		recs, err := decode(current)
		if err != nil {
			return nil, err
		}

		kept := slices.DeleteFunc(recs, func(r *record.Record) bool {
			_, ok := drop[r.ID]
			return ok
		})

		removed = len(recs) - len(kept)
		if removed == 0 {
			return nil, nil
		}

		return encode(kept)
	})
	if err != nil {
		return 0, err
	}

	return removed, nil
}
