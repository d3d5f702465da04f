package report

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/ezexpenses/internal/record"
)

const DefaultTagLimit = 5

type TagTotal struct {
	Tag   string          `json:"tag"`
	Total decimal.Decimal `json:"total"`
}

// TopTagsByAmount ranks the tags of records of type t by summed amount,
// highest first, ties by tag name. A record counts once per distinct tag.
func TopTagsByAmount(records []*record.Record, t record.Type, limit int) []TagTotal {
	if limit <= 0 {
		limit = DefaultTagLimit
	}

	idx := newTagIndex(records, func(r *record.Record) bool { return r.Type == t })

	out := make([]TagTotal, len(idx.order))
	for i, tag := range idx.order {
		out[i] = TagTotal{Tag: tag, Total: idx.stats[tag].amount}
	}

	slices.SortFunc(out, func(a, b TagTotal) int {
		if c := b.Total.Cmp(a.Total); c != 0 {
			return c
		}

		return cmp.Compare(a.Tag, b.Tag)
	})

	return out[:min(limit, len(out))]
}

// Mode picks the measure a tag cloud is sized by.
type Mode string

const (
	ModeFrequency Mode = "freq"
	ModeAmount    Mode = "amount"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeFrequency:
		return ModeFrequency, nil
	case ModeAmount:
		return ModeAmount, nil
	}

	return "", fmt.Errorf("unknown tag cloud mode %q", s)
}

// SizeRange bounds the font size of tag cloud entries.
type SizeRange struct {
	Min, Max float64
}

var DefaultSizes = SizeRange{Min: 12, Max: 36}

type TagCloudEntry struct {
	Tag         string          `json:"tag"`
	Frequency   int             `json:"frequency"`
	AmountTotal decimal.Decimal `json:"amountTotal"`
	Size        float64         `json:"size"`
}

// TagCloud sizes every tag linearly between sizes.Min and sizes.Max by its
// share of the largest frequency or amount. Entries keep first-seen order.
func TagCloud(records []*record.Record, mode Mode, sizes SizeRange) []TagCloudEntry {
	idx := newTagIndex(records, nil)
	if len(idx.order) == 0 {
		return []TagCloudEntry{}
	}

	var (
		maxFreq int
		maxAmt  decimal.Decimal
	)

	for _, s := range idx.stats {
		maxFreq = max(maxFreq, s.count)
		if s.amount.GreaterThan(maxAmt) {
			maxAmt = s.amount
		}
	}

	out := make([]TagCloudEntry, len(idx.order))

	for i, tag := range idx.order {
		s := idx.stats[tag]

		var ratio float64

		switch mode {
		case ModeAmount:
			if maxAmt.IsPositive() {
				ratio = s.amount.Div(maxAmt).InexactFloat64()
			}
		default:
			if maxFreq > 0 {
				ratio = float64(s.count) / float64(maxFreq)
			}
		}

		out[i] = TagCloudEntry{
			Tag:         tag,
			Frequency:   s.count,
			AmountTotal: s.amount,
			Size:        sizes.Min + ratio*(sizes.Max-sizes.Min),
		}
	}

	return out
}

type tagStats struct {
	count  int
	amount decimal.Decimal
}

type tagIndex struct {
	order []string
	stats map[string]*tagStats
}

func newTagIndex(records []*record.Record, keep func(*record.Record) bool) tagIndex {
	idx := tagIndex{stats: make(map[string]*tagStats)}

	for _, r := range records {
		if keep != nil && !keep(r) {
			continue
		}

		for i, tag := range r.Tags {
			if slices.Contains(r.Tags[:i], tag) {
				continue
			}

			s, ok := idx.stats[tag]
			if !ok {
				s = &tagStats{}
				idx.stats[tag] = s
				idx.order = append(idx.order, tag)
			}

			s.count++
			s.amount = s.amount.Add(r.Amount)
		}
	}

	return idx
}
