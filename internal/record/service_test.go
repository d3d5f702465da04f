package record_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/ezexpenses/internal/currency"
	"github.com/MrJamesThe3rd/ezexpenses/internal/record"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestService_Create(t *testing.T) {
	type args struct {
		params record.CreateParams
	}

	type testCase struct {
		name      string
		args      args
		setupMock func(repo *record.MockRepository, tags *record.MockTagRecorder)
		wantUSD   string
		wantErr   error
	}

	tests := []testCase{
		{
			name: "Success",
			args: args{params: record.CreateParams{
				Type:     record.TypeExpense,
				Amount:   dec("100"),
				Currency: currency.CNY,
				Date:     "2024-03-10",
				Tags:     []string{" food ", "", "lunch"},
				Note:     "  noodles ",
			}},
			setupMock: func(repo *record.MockRepository, tags *record.MockTagRecorder) {
				repo.EXPECT().
					CreateRecords(gomock.Any(), gomock.Len(1)).
					DoAndReturn(func(_ context.Context, recs []*record.Record) error {
						assert.Equal(t, []string{"food", "lunch"}, recs[0].Tags)
						assert.Equal(t, "noodles", recs[0].Note)
						return nil
					})
				tags.EXPECT().AddTags(gomock.Any(), []string{"food", "lunch"}).Return(nil)
			},
			wantUSD: "14",
		},
		{
			name: "DefaultsToUSD",
			args: args{params: record.CreateParams{
				Type:   record.TypeIncome,
				Amount: dec("12.5"),
				Date:   "2024-02-29",
			}},
			setupMock: func(repo *record.MockRepository, _ *record.MockTagRecorder) {
				repo.EXPECT().CreateRecords(gomock.Any(), gomock.Any()).Return(nil)
			},
			wantUSD: "12.5",
		},
		{
			name: "TagPoolFailureIsNotFatal",
			args: args{params: record.CreateParams{
				Type:   record.TypeIncome,
				Amount: dec("1"),
				Date:   "2024-01-01",
				Tags:   []string{"gift"},
			}},
			setupMock: func(repo *record.MockRepository, tags *record.MockTagRecorder) {
				repo.EXPECT().CreateRecords(gomock.Any(), gomock.Any()).Return(nil)
				tags.EXPECT().AddTags(gomock.Any(), gomock.Any()).Return(errors.New("pool down"))
			},
			wantUSD: "1",
		},
		{
			name:    "InvalidType",
			args:    args{params: record.CreateParams{Type: "transfer", Amount: dec("1"), Date: "2024-01-01"}},
			wantErr: record.ErrInvalidType,
		},
		{
			name:    "NegativeAmount",
			args:    args{params: record.CreateParams{Type: record.TypeExpense, Amount: dec("-1"), Date: "2024-01-01"}},
			wantErr: record.ErrInvalidAmount,
		},
		{
			name:    "ImpossibleDate",
			args:    args{params: record.CreateParams{Type: record.TypeExpense, Amount: dec("1"), Date: "2023-02-29"}},
			wantErr: record.ErrInvalidDate,
		},
		{
			name:    "ShortDate",
			args:    args{params: record.CreateParams{Type: record.TypeExpense, Amount: dec("1"), Date: "2024-3-1"}},
			wantErr: record.ErrInvalidDate,
		},
		{
			name: "UnknownCurrency",
			args: args{params: record.CreateParams{
				Type: record.TypeExpense, Amount: dec("1"), Date: "2024-01-01", Currency: "JPY",
			}},
			wantErr: currency.ErrUnknownCurrency,
		},
		{
			name: "RepoError",
			args: args{params: record.CreateParams{Type: record.TypeExpense, Amount: dec("1"), Date: "2024-01-01"}},
			setupMock: func(repo *record.MockRepository, _ *record.MockTagRecorder) {
				repo.EXPECT().CreateRecords(gomock.Any(), gomock.Any()).Return(errors.New("db error"))
			},
			wantErr: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := record.NewMockRepository(ctrl)
			tags := record.NewMockTagRecorder(ctrl)

			if tt.setupMock != nil {
				tt.setupMock(repo, tags)
			}

			svc := record.NewService(repo, tags)
			got, err := svc.Create(context.Background(), tt.args.params)

			if tt.wantErr != nil {
				assert.Error(t, err)
				assert.Nil(t, got)

				if !errors.Is(err, tt.wantErr) {
					assert.ErrorContains(t, err, tt.wantErr.Error())
				}

				return
			}

			require.NoError(t, err)
			require.NotNil(t, got)
			assert.NotZero(t, got.ID)
			assert.Equal(t, got.CreatedAt, got.UpdatedAt)
			assert.True(t, dec(tt.wantUSD).Equal(got.ConvertedUSD), "convertedUSD %s", got.ConvertedUSD)
		})
	}
}

func TestService_CreateBatch_UniqueIDs(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := record.NewMockRepository(ctrl)
	repo.EXPECT().CreateRecords(gomock.Any(), gomock.Len(50)).Return(nil)

	params := make([]record.CreateParams, 50)
	for i := range params {
		params[i] = record.CreateParams{Type: record.TypeExpense, Amount: dec("1"), Date: "2024-01-01"}
	}

	recs, err := record.NewService(repo, nil).CreateBatch(context.Background(), params)
	require.NoError(t, err)

	seen := make(map[int64]bool, len(recs))
	for _, r := range recs {
		assert.False(t, seen[r.ID], "duplicate id %d", r.ID)
		seen[r.ID] = true
	}
}

func TestService_CreateBatch_RejectsWholeBatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := record.NewMockRepository(ctrl)

	params := []record.CreateParams{
		{Type: record.TypeExpense, Amount: dec("1"), Date: "2024-01-01"},
		{Type: record.TypeExpense, Amount: dec("1"), Date: "bad"},
	}

	_, err := record.NewService(repo, nil).CreateBatch(context.Background(), params)
	assert.ErrorIs(t, err, record.ErrInvalidDate)
	assert.ErrorContains(t, err, "record 1")
}

func TestService_Update(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := record.NewMockRepository(ctrl)

	existing := &record.Record{
		ID:           42,
		CreatedAt:    1000,
		UpdatedAt:    1000,
		Type:         record.TypeExpense,
		Amount:       dec("10"),
		Currency:     currency.USD,
		ConvertedUSD: dec("10"),
		Date:         "2024-01-01",
	}

	repo.EXPECT().
		UpdateRecords(gomock.Any(), []int64{42}, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ []int64, fn func(*record.Record) error) ([]*record.Record, error) {
			require.NoError(t, fn(existing))
			return []*record.Record{existing}, nil
		})

	svc := record.NewService(repo, nil)
	got, err := svc.Update(context.Background(), 42, record.CreateParams{
		Type:     record.TypeIncome,
		Amount:   dec("10"),
		Currency: currency.EUR,
		Date:     "2024-02-02",
		Note:     "fixed",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(42), got.ID)
	assert.Equal(t, int64(1000), got.CreatedAt)
	assert.Greater(t, got.UpdatedAt, int64(1000))
	assert.Equal(t, record.TypeIncome, got.Type)
	assert.Equal(t, "2024-02-02", got.Date)
	assert.True(t, dec("10.7").Equal(got.ConvertedUSD))
}

func TestService_Update_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := record.NewMockRepository(ctrl)
	repo.EXPECT().UpdateRecords(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, record.ErrNotFound)

	_, err := record.NewService(repo, nil).Update(context.Background(), 1, record.CreateParams{
		Type: record.TypeIncome, Amount: dec("1"), Date: "2024-01-01",
	})
	assert.ErrorIs(t, err, record.ErrNotFound)
}

func TestService_BulkEdit(t *testing.T) {
	type testCase struct {
		name     string
		ids      []int64
		patch    record.Patch
		wantErr  error
		wantUSD  string
		wantType record.Type
		wantTags []string
	}

	tests := []testCase{
		{
			name:     "OnlyTypeKeepsConversion",
			ids:      []int64{1},
			patch:    record.Patch{Type: new(record.TypeIncome)},
			wantUSD:  "1.4",
			wantType: record.TypeIncome,
			wantTags: []string{"old"},
		},
		{
			name:     "CurrencyRecomputesConversion",
			ids:      []int64{1},
			patch:    record.Patch{Currency: new(currency.EUR)},
			wantUSD:  "10.7",
			wantType: record.TypeExpense,
			wantTags: []string{"old"},
		},
		{
			name:     "EmptyCurrencyDefaultsToUSD",
			ids:      []int64{1},
			patch:    record.Patch{Currency: new(currency.Code(""))},
			wantUSD:  "10",
			wantType: record.TypeExpense,
			wantTags: []string{"old"},
		},
		{
			name:     "AmountRecomputesConversion",
			ids:      []int64{1},
			patch:    record.Patch{Amount: new(dec("20")), Tags: []string{"new", " "}},
			wantUSD:  "2.8",
			wantType: record.TypeExpense,
			wantTags: []string{"new"},
		},
		{
			name:    "EmptyPatch",
			ids:     []int64{1},
			wantErr: record.ErrEmptyPatch,
		},
		{
			name:    "NoIDs",
			patch:   record.Patch{Type: new(record.TypeIncome)},
			wantErr: record.ErrNoIDs,
		},
		{
			name:    "InvalidDate",
			ids:     []int64{1},
			patch:   record.Patch{Date: new("yesterday")},
			wantErr: record.ErrInvalidDate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := record.NewMockRepository(ctrl)
			tags := record.NewMockTagRecorder(ctrl)

			existing := &record.Record{
				ID:           1,
				Type:         record.TypeExpense,
				Amount:       dec("10"),
				Currency:     currency.CNY,
				ConvertedUSD: dec("1.4"),
				Date:         "2024-01-01",
				Tags:         []string{"old"},
			}

			if tt.wantErr == nil {
				repo.EXPECT().
					UpdateRecords(gomock.Any(), tt.ids, gomock.Any()).
					DoAndReturn(func(_ context.Context, _ []int64, fn func(*record.Record) error) ([]*record.Record, error) {
						if err := fn(existing); err != nil {
							return nil, err
						}

						return []*record.Record{existing}, nil
					})
				tags.EXPECT().AddTags(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
			}

			got, err := record.NewService(repo, tags).BulkEdit(context.Background(), tt.ids, tt.patch)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Equal(t, tt.wantType, got[0].Type)
			assert.Equal(t, tt.wantTags, got[0].Tags)
			assert.True(t, dec(tt.wantUSD).Equal(got[0].ConvertedUSD), "convertedUSD %s", got[0].ConvertedUSD)
			assert.NotZero(t, got[0].UpdatedAt)
		})
	}
}

func TestService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := record.NewMockRepository(ctrl)

	gomock.InOrder(
		repo.EXPECT().DeleteRecords(gomock.Any(), []int64{1}).Return(1, nil),
		repo.EXPECT().DeleteRecords(gomock.Any(), []int64{2}).Return(0, nil),
	)

	svc := record.NewService(repo, nil)
	assert.NoError(t, svc.Delete(context.Background(), 1))
	assert.ErrorIs(t, svc.Delete(context.Background(), 2), record.ErrNotFound)
}

func TestService_BulkDelete(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := record.NewMockRepository(ctrl)
	repo.EXPECT().DeleteRecords(gomock.Any(), []int64{1, 2, 3}).Return(2, nil)

	svc := record.NewService(repo, nil)

	n, err := svc.BulkDelete(context.Background(), []int64{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = svc.BulkDelete(context.Background(), nil)
	assert.ErrorIs(t, err, record.ErrNoIDs)
}

func TestService_Last(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := record.NewMockRepository(ctrl)

	gomock.InOrder(
		repo.EXPECT().ListRecords(gomock.Any()).Return([]*record.Record{
			{ID: 1, CreatedAt: 100},
			{ID: 3, CreatedAt: 300},
			{ID: 2, CreatedAt: 200},
		}, nil),
		repo.EXPECT().ListRecords(gomock.Any()).Return(nil, nil),
	)

	svc := record.NewService(repo, nil)

	got, err := svc.Last(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.ID)

	_, err = svc.Last(context.Background())
	assert.ErrorIs(t, err, record.ErrNotFound)
}

func TestService_List(t *testing.T) {
	recs := []*record.Record{
		{ID: 1, Type: record.TypeExpense, Amount: dec("5"), Date: "2024-01-03", Tags: []string{"food", "work"}},
		{ID: 2, Type: record.TypeIncome, Amount: dec("50"), Date: "2024-01-01", Tags: []string{"salary"}},
		{ID: 3, Type: record.TypeExpense, Amount: dec("20"), Date: "2024-01-02", Tags: []string{"food"}},
		{ID: 4, Type: record.TypeExpense, Amount: dec("20"), Date: "2024-02-01"},
	}

	type testCase struct {
		name    string
		filter  record.ListFilter
		wantIDs []int64
	}

	tests := []testCase{
		{name: "DefaultNewestFirst", wantIDs: []int64{4, 1, 3, 2}},
		{name: "ByType", filter: record.ListFilter{Type: new(record.TypeIncome)}, wantIDs: []int64{2}},
		{name: "AllTags", filter: record.ListFilter{Tags: []string{"food", "work"}}, wantIDs: []int64{1}},
		{
			name:    "DateRange",
			filter:  record.ListFilter{StartDate: new("2024-01-02"), EndDate: new("2024-01-31")},
			wantIDs: []int64{1, 3},
		},
		{
			name:    "AmountAscTieByID",
			filter:  record.ListFilter{SortBy: record.SortAmount, Asc: true},
			wantIDs: []int64{1, 3, 4, 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := record.NewMockRepository(ctrl)
			repo.EXPECT().ListRecords(gomock.Any()).Return(recs, nil)

			got, err := record.NewService(repo, nil).List(context.Background(), tt.filter)
			require.NoError(t, err)

			ids := make([]int64, len(got))
			for i, r := range got {
				ids[i] = r.ID
			}

			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}
