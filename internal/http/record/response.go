package record

import (
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/ezexpenses/internal/currency"
	"github.com/MrJamesThe3rd/ezexpenses/internal/record"
)

type recordResponse struct {
	ID           int64           `json:"id"`
	CreatedAt    int64           `json:"createdAt"`
	UpdatedAt    int64           `json:"updatedAt"`
	Type         record.Type     `json:"type"`
	Amount       decimal.Decimal `json:"amount"`
	Currency     currency.Code   `json:"currency"`
	ConvertedUSD decimal.Decimal `json:"convertedUSD"`
	Date         string          `json:"date"`
	Tags         []string        `json:"tags"`
	Note         string          `json:"note"`
}

type listResponse struct {
	Records []recordResponse `json:"records"`
	Total   int              `json:"total"`
}

func toResponse(r *record.Record) recordResponse {
	tags := r.Tags
	if tags == nil {
		tags = []string{}
	}

	return recordResponse{
		ID:           r.ID,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
		Type:         r.Type,
		Amount:       r.Amount,
		Currency:     r.Currency,
		ConvertedUSD: r.ConvertedUSD,
		Date:         r.Date,
		Tags:         tags,
		Note:         r.Note,
	}
}

func toResponseList(recs []*record.Record) []recordResponse {
	resp := make([]recordResponse, len(recs))
	for i, r := range recs {
		resp[i] = toResponse(r)
	}

	return resp
}
