package record

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/ezexpenses/internal/currency"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=record
type Repository interface {
	ListRecords(ctx context.Context) ([]*Record, error)
	GetRecord(ctx context.Context, id int64) (*Record, error)
	CreateRecords(ctx context.Context, recs []*Record) error
	// UpdateRecords applies fn to every record in ids within a single write.
	// It fails with ErrNotFound if any id is missing.
	UpdateRecords(ctx context.Context, ids []int64, fn func(*Record) error) ([]*Record, error)
	DeleteRecords(ctx context.Context, ids []int64) (int, error)
}

// TagRecorder receives every tag written to a record.
type TagRecorder interface {
	AddTags(ctx context.Context, tags []string) error
}

type Service struct {
	repo Repository
	tags TagRecorder
	ids  idGenerator
}

func NewService(repo Repository, tags TagRecorder) *Service {
	return &Service{repo: repo, tags: tags}
}

type CreateParams struct {
	Type     Type
	Amount   decimal.Decimal
	Currency currency.Code
	Date     string
	Tags     []string
	Note     string
}

// Patch lists the fields a bulk edit overwrites. Nil fields are left alone.
type Patch struct {
	Type     *Type
	Amount   *decimal.Decimal
	Currency *currency.Code
	Date     *string
	Tags     []string
	Note     *string
}

func (p Patch) empty() bool {
	return p.Type == nil && p.Amount == nil && p.Currency == nil &&
		p.Date == nil && p.Tags == nil && p.Note == nil
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Record, error) {
	recs, err := s.CreateBatch(ctx, []CreateParams{params})
	if err != nil {
		return nil, err
	}

	return recs[0], nil
}

// CreateBatch validates and stores all params in one write. Nothing is
// stored if any param is invalid.
func (s *Service) CreateBatch(ctx context.Context, params []CreateParams) ([]*Record, error) {
	if len(params) == 0 {
		return nil, nil
	}

	now := time.Now()
	recs := make([]*Record, 0, len(params))

	var tags []string

	for i, p := range params {
		p, err := normalize(p)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}

		usd, err := currency.ToUSD(p.Amount, p.Currency)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}

		recs = append(recs, &Record{
			ID:           s.ids.next(now),
			CreatedAt:    now.UnixMilli(),
			UpdatedAt:    now.UnixMilli(),
			Type:         p.Type,
			Amount:       p.Amount,
			Currency:     p.Currency,
			ConvertedUSD: usd,
			Date:         p.Date,
			Tags:         p.Tags,
			Note:         p.Note,
		})

		tags = append(tags, p.Tags...)
	}

	if err := s.repo.CreateRecords(ctx, recs); err != nil {
		return nil, fmt.Errorf("creating records: %w", err)
	}

	s.recordTags(ctx, tags)

	return recs, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Record, error) {
	return s.repo.GetRecord(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Record, error) {
	recs, err := s.repo.ListRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}

	return filter.Apply(recs), nil
}

// All returns the full collection in storage order.
func (s *Service) All(ctx context.Context) ([]*Record, error) {
	return s.repo.ListRecords(ctx)
}

// Update replaces every editable field of a record. ID and CreatedAt are kept.
func (s *Service) Update(ctx context.Context, id int64, params CreateParams) (*Record, error) {
	p, err := normalize(params)
	if err != nil {
		return nil, err
	}

	usd, err := currency.ToUSD(p.Amount, p.Currency)
	if err != nil {
		return nil, err
	}

	now := time.Now().UnixMilli()

	recs, err := s.repo.UpdateRecords(ctx, []int64{id}, func(r *Record) error {
		r.Type = p.Type
		r.Amount = p.Amount
		r.Currency = p.Currency
		r.ConvertedUSD = usd
		r.Date = p.Date
		r.Tags = p.Tags
		r.Note = p.Note
		r.UpdatedAt = now

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("updating record %d: %w", id, err)
	}

	s.recordTags(ctx, p.Tags)

	return recs[0], nil
}

// BulkEdit applies the set fields of patch to every record in ids.
func (s *Service) BulkEdit(ctx context.Context, ids []int64, patch Patch) ([]*Record, error) {
	if len(ids) == 0 {
		return nil, ErrNoIDs
	}

	if patch.empty() {
		return nil, ErrEmptyPatch
	}

	patch, err := normalizePatch(patch)
	if err != nil {
		return nil, err
	}

	now := time.Now().UnixMilli()

	recs, err := s.repo.UpdateRecords(ctx, ids, func(r *Record) error {
		if patch.Type != nil {
			r.Type = *patch.Type
		}

		if patch.Amount != nil {
			r.Amount = *patch.Amount
		}

		if patch.Currency != nil {
			r.Currency = *patch.Currency
		}

		if patch.Date != nil {
			r.Date = *patch.Date
		}

		if patch.Tags != nil {
			r.Tags = patch.Tags
		}

		if patch.Note != nil {
			r.Note = *patch.Note
		}

		if patch.Amount != nil || patch.Currency != nil {
			usd, err := currency.ToUSD(r.Amount, r.Currency)
			if err != nil {
				return err
			}

			r.ConvertedUSD = usd
		}

		r.UpdatedAt = now

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("bulk editing records: %w", err)
	}

	s.recordTags(ctx, patch.Tags)

	return recs, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	n, err := s.repo.DeleteRecords(ctx, []int64{id})
	if err != nil {
		return fmt.Errorf("deleting record %d: %w", id, err)
	}

	if n == 0 {
		return ErrNotFound
	}

	return nil
}

// BulkDelete removes every record in ids and reports how many existed.
func (s *Service) BulkDelete(ctx context.Context, ids []int64) (int, error) {
	if len(ids) == 0 {
		return 0, ErrNoIDs
	}

	n, err := s.repo.DeleteRecords(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("bulk deleting records: %w", err)
	}

	return n, nil
}

// Last returns the most recently created record.
func (s *Service) Last(ctx context.Context) (*Record, error) {
	recs, err := s.repo.ListRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}

	var last *Record

	for _, r := range recs {
		if last == nil || r.CreatedAt > last.CreatedAt ||
			(r.CreatedAt == last.CreatedAt && r.ID > last.ID) {
			last = r
		}
	}

	if last == nil {
		return nil, ErrNotFound
	}

	return last, nil
}

// recordTags pushes tags to the tag pool. The records are already stored,
// so a pool failure is logged rather than returned.
func (s *Service) recordTags(ctx context.Context, tags []string) {
	if len(tags) == 0 || s.tags == nil {
		return
	}

	if err := s.tags.AddTags(ctx, tags); err != nil {
		slog.Warn("failed to update tag pool", "error", err)
	}
}

func normalize(p CreateParams) (CreateParams, error) {
	if !p.Type.Valid() {
		return p, ErrInvalidType
	}

	if p.Amount.IsNegative() {
		return p, ErrInvalidAmount
	}

	if !ValidDate(p.Date) {
		return p, ErrInvalidDate
	}

	if p.Currency == "" {
		p.Currency = currency.Default
	}

	if _, err := currency.Rate(p.Currency); err != nil {
		return p, err
	}

	p.Tags = CleanTags(p.Tags)
	p.Note = strings.TrimSpace(p.Note)

	return p, nil
}

func normalizePatch(p Patch) (Patch, error) {
	if p.Type != nil && !p.Type.Valid() {
		return p, ErrInvalidType
	}

	if p.Amount != nil && p.Amount.IsNegative() {
		return p, ErrInvalidAmount
	}

	if p.Date != nil && !ValidDate(*p.Date) {
		return p, ErrInvalidDate
	}

	if p.Currency != nil {
		if *p.Currency == "" {
			p.Currency = new(currency.Default)
		}

		if _, err := currency.Rate(*p.Currency); err != nil {
			return p, err
		}
	}

	if p.Tags != nil {
		p.Tags = CleanTags(p.Tags)
	}

	if p.Note != nil {
		p.Note = new(strings.TrimSpace(*p.Note))
	}

	return p, nil
}

// ValidDate reports whether s is a real calendar date in YYYY-MM-DD form.
func ValidDate(s string) bool {
	if len(s) != len(time.DateOnly) {
		return false
	}

	_, err := time.Parse(time.DateOnly, s)

	return err == nil
}

// CleanTags trims tags and drops empty ones, keeping order and duplicates.
func CleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))

	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}

	return out
}

// idGenerator hands out millisecond timestamps, bumping by one when two
// records are created within the same millisecond.
type idGenerator struct {
	mu   sync.Mutex
	last int64
}

func (g *idGenerator) next(now time.Time) int64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := now.UnixMilli()
	if id <= g.last {
		id = g.last + 1
	}

	g.last = id

	return id
}
