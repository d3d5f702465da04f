package store_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/ezexpenses/internal/currency"
	"github.com/MrJamesThe3rd/ezexpenses/internal/kv"
	"github.com/MrJamesThe3rd/ezexpenses/internal/record"
	"github.com/MrJamesThe3rd/ezexpenses/internal/record/store"
)

func rec(id int64, amount string) *record.Record {
	return &record.Record{
		ID:       id,
		Type:     record.TypeExpense,
		Amount:   decimal.RequireFromString(amount),
		Currency: currency.USD,
		Date:     "2024-03-10",
		Tags:     []string{"food"},
	}
}

func TestStore_CreateAndList(t *testing.T) {
	ctx := context.Background()
	s := store.New(kv.NewMemory())

	recs, err := s.ListRecords(ctx)
	require.NoError(t, err)
	assert.Empty(t, recs)

	require.NoError(t, s.CreateRecords(ctx, []*record.Record{rec(1, "10"), rec(2, "20")}))
	require.NoError(t, s.CreateRecords(ctx, []*record.Record{rec(3, "30")}))

	recs, err = s.ListRecords(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, []int64{1, 2, 3}, []int64{recs[0].ID, recs[1].ID, recs[2].ID})
	assert.True(t, decimal.NewFromInt(20).Equal(recs[1].Amount))
	assert.Equal(t, []string{"food"}, recs[2].Tags)
}

func TestStore_CreateRejectsDuplicateID(t *testing.T) {
	ctx := context.Background()
	s := store.New(kv.NewMemory())

	require.NoError(t, s.CreateRecords(ctx, []*record.Record{rec(1, "10")}))

	err := s.CreateRecords(ctx, []*record.Record{rec(2, "1"), rec(1, "5")})
	assert.ErrorIs(t, err, record.ErrDuplicateID)

	recs, err := s.ListRecords(ctx)
	require.NoError(t, err)
	assert.Len(t, recs, 1)
}

func TestStore_GetRecord(t *testing.T) {
	ctx := context.Background()
	s := store.New(kv.NewMemory())
	require.NoError(t, s.CreateRecords(ctx, []*record.Record{rec(7, "10")}))

	got, err := s.GetRecord(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.ID)

	_, err = s.GetRecord(ctx, 8)
	assert.ErrorIs(t, err, record.ErrNotFound)
}

func TestStore_UpdateRecords(t *testing.T) {
	ctx := context.Background()
	s := store.New(kv.NewMemory())
	require.NoError(t, s.CreateRecords(ctx, []*record.Record{rec(1, "10"), rec(2, "20"), rec(3, "30")}))

	updated, err := s.UpdateRecords(ctx, []int64{3, 1}, func(r *record.Record) error {
		r.Note = "edited"
		return nil
	})
	require.NoError(t, err)
	require.Len(t, updated, 2)
	assert.Equal(t, int64(3), updated[0].ID)

	recs, err := s.ListRecords(ctx)
	require.NoError(t, err)
	assert.Equal(t, "edited", recs[0].Note)
	assert.Empty(t, recs[1].Note)
	assert.Equal(t, "edited", recs[2].Note)

	_, err = s.UpdateRecords(ctx, []int64{1, 99}, func(r *record.Record) error {
		r.Note = "lost"
		return nil
	})
	assert.ErrorIs(t, err, record.ErrNotFound)

	recs, err = s.ListRecords(ctx)
	require.NoError(t, err)
	assert.Equal(t, "edited", recs[0].Note)
}

func TestStore_DeleteRecords(t *testing.T) {
	ctx := context.Background()
	s := store.New(kv.NewMemory())
	require.NoError(t, s.CreateRecords(ctx, []*record.Record{rec(1, "10"), rec(2, "20"), rec(3, "30")}))

	n, err := s.DeleteRecords(ctx, []int64{1, 3, 42})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = s.DeleteRecords(ctx, []int64{42})
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	recs, err := s.ListRecords(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, int64(2), recs[0].ID)
}

func TestStore_DecodesPersistedLayout(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()

	raw := `[{"id":1710000000000,"createdAt":1710000000000,"updatedAt":1710000000000,
		"type":"income","amount":1200,"currency":"EUR","convertedUSD":1284,
		"date":"2024-03-09","tags":["salary"],"note":"march"}]`
	_, err := mem.Put(ctx, store.SlotKey, []byte(raw), 0)
	require.NoError(t, err)

	recs, err := store.New(mem).ListRecords(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, record.TypeIncome, recs[0].Type)
	assert.True(t, decimal.NewFromInt(1200).Equal(recs[0].Amount))
	assert.Equal(t, currency.EUR, recs[0].Currency)
	assert.Equal(t, "march", recs[0].Note)
}
