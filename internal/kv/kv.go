// Package kv stores whole-value slots under string keys with optimistic
// versioning. Every write replaces the full value of a slot.
package kv

import (
	"context"
	"errors"
	"fmt"
)

var ErrVersionConflict = errors.New("slot version conflict")

// maxAttempts bounds the read-modify-write loop in Update.
const maxAttempts = 5

// Slot is the stored value of a key. A missing key is an empty Slot with Version 0.
type Slot struct {
	Value   []byte
	Version int64
}

type Store interface {
	Get(ctx context.Context, key string) (Slot, error)
	// Put writes value if the stored version still equals expectedVersion and
	// returns the new version. It returns ErrVersionConflict otherwise.
	Put(ctx context.Context, key string, value []byte, expectedVersion int64) (int64, error)
}

// Update reads the slot, applies fn and writes the result back, retrying
// when a concurrent writer got there first. Returning a nil value from fn
// skips the write.
func Update(ctx context.Context, s Store, key string, fn func(current []byte) ([]byte, error)) error {
	for range maxAttempts {
		slot, err := s.Get(ctx, key)
		if err != nil {
			return fmt.Errorf("reading slot %s: %w", key, err)
		}

		next, err := fn(slot.Value)
		if err != nil {
			return err
		}

		if next == nil {
			return nil
		}

		_, err = s.Put(ctx, key, next, slot.Version)
		if errors.Is(err, ErrVersionConflict) {
			continue
		}

		if err != nil {
			return fmt.Errorf("writing slot %s: %w", key, err)
		}

		return nil
	}

	return fmt.Errorf("writing slot %s after %d attempts: %w", key, maxAttempts, ErrVersionConflict)
}
