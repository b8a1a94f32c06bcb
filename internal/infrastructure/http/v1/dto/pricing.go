package dto

import (
	"time"

	"stockbook/internal/domain/pricing"
)

// RepriceRequest sets a new effective-dated price for a variant.
type RepriceRequest struct {
	Price       int64     `json:"price" binding:"gte=0"`
	EffectiveAt time.Time `json:"effectiveAt" binding:"required"`
}

// RepriceResponse reports the recalculation outcome.
type RepriceResponse struct {
	LinesRecalculated    int64 `json:"linesRecalculated"`
	PostingsRecalculated int64 `json:"postingsRecalculated"`
}

// FromRepriceResult maps a recalculation result to its API view.
func FromRepriceResult(r pricing.RepriceResult) RepriceResponse {
	return RepriceResponse{
		LinesRecalculated:    r.LinesRecalculated,
		PostingsRecalculated: r.PostingsRecalculated,
	}
}

// PriceHistoryEntryResponse is one effective-dated price record.
type PriceHistoryEntryResponse struct {
	Price       int64     `json:"price"`
	EffectiveAt time.Time `json:"effectiveAt"`
	CreatedAt   time.Time `json:"createdAt"`
}

// FromPriceHistory maps history entries to their API view.
func FromPriceHistory(entries []pricing.HistoryEntry) []PriceHistoryEntryResponse {
	out := make([]PriceHistoryEntryResponse, len(entries))
	for i, e := range entries {
		out[i] = PriceHistoryEntryResponse{
			Price:       int64(e.Price),
			EffectiveAt: e.EffectiveAt,
			CreatedAt:   e.CreatedAt,
		}
	}
	return out
}
