package portfolio

import (
	"context"
	"time"
)

// Entity is one credit-portfolio record supplied by the portfolio data
// source. Entities are read-only input to the rule engine; nothing in
// this subsystem mutates them.
type Entity struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	CreditExposure float64 `json:"credit_exposure"`
	GrossExposure  float64 `json:"gross_exposure"`
	ExternalRating string  `json:"external_rating"`
	InternalRating string  `json:"internal_rating"`
	DaysPastDue    int     `json:"days_past_due"`
}

// Snapshot is a consistent view of the portfolio for one evaluation
// pass. TotalExposure is the sum of CreditExposure over Entities,
// computed by the source so concentration ratios stay consistent
// within the pass.
type Snapshot struct {
	Entities      []Entity  `json:"entities"`
	TotalExposure float64   `json:"total_exposure"`
	TakenAt       time.Time `json:"taken_at"`
}

// Source supplies portfolio snapshots. Entities and the aggregate
// total exposure must come from the same consistent read.
type Source interface {
	Snapshot(ctx context.Context) (*Snapshot, error)
}
