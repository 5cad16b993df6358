package detector

import (
	"fmt"
	"math"

	"github.com/pratik-mahalle/creditwatch/internal/domain/alert"
	"github.com/pratik-mahalle/creditwatch/internal/domain/portfolio"
)

// Engine evaluates a portfolio snapshot against the threshold rule
// families and emits triggers for every breach it finds. The engine is
// stateless and safe for concurrent use across snapshots.
type Engine struct{}

// New creates a rule engine.
func New() *Engine {
	return &Engine{}
}

// ratioTier is one severity threshold on a ratio rule. Tiers are
// listed highest first and evaluated with early exit, so an entity
// crossing the critical boundary emits exactly one trigger.
type ratioTier struct {
	threshold float64
	severity  alert.Severity
}

// intTier is one severity threshold on an integer-valued rule.
type intTier struct {
	threshold int
	severity  alert.Severity
}

var utilizationTiers = []ratioTier{
	{0.95, alert.SeverityCritical},
	{0.90, alert.SeverityHigh},
	{0.85, alert.SeverityMedium},
}

var delinquencyTiers = []intTier{
	{90, alert.SeverityCritical},
	{60, alert.SeverityHigh},
	{30, alert.SeverityMedium},
}

var concentrationTiers = []ratioTier{
	{0.25, alert.SeverityCritical},
	{0.20, alert.SeverityHigh},
	{0.15, alert.SeverityMedium},
}

// Rating divergence tiers by notch delta. A divergence only fires once
// the internal rating trails the external one by at least
// downgradeFireNotches, so the one-notch medium tier is retained for
// parity with the tier table but cannot fire while that gate stands.
var downgradeTiers = []intTier{
	{3, alert.SeverityCritical},
	{2, alert.SeverityHigh},
	{1, alert.SeverityMedium},
}

const downgradeFireNotches = 2

// An internal rating at or past CCC escalates any divergence to
// critical regardless of notch count.
const distressedRatingScore = 7

// Evaluate runs all rule families over the snapshot and returns the
// detected triggers. At most one trigger per rule family is emitted
// per entity per pass. Trigger order is unspecified. Entities with
// malformed numeric fields are skipped for the affected rule family
// only; evaluation of the remaining families and entities continues.
func (e *Engine) Evaluate(snap *portfolio.Snapshot) []alert.Trigger {
	if snap == nil {
		return nil
	}

	var triggers []alert.Trigger
	for i := range snap.Entities {
		entity := &snap.Entities[i]

		if t := e.evaluateCreditLimit(entity); t != nil {
			triggers = append(triggers, *t)
		}
		if t := e.evaluateDelinquency(entity); t != nil {
			triggers = append(triggers, *t)
		}
		if t := e.evaluateRatingChange(entity); t != nil {
			triggers = append(triggers, *t)
		}
		if t := e.evaluateConcentration(entity, snap.TotalExposure); t != nil {
			triggers = append(triggers, *t)
		}
	}
	return triggers
}

// evaluateCreditLimit checks drawn exposure against the approved gross
// limit.
func (e *Engine) evaluateCreditLimit(entity *portfolio.Entity) *alert.Trigger {
	if !validRatio(entity.CreditExposure, entity.GrossExposure) {
		return nil
	}

	utilization := entity.CreditExposure / entity.GrossExposure
	for _, tier := range utilizationTiers {
		if utilization >= tier.threshold {
			return &alert.Trigger{
				Type:       alert.TypeCreditLimit,
				Severity:   tier.severity,
				EntityID:   entity.ID,
				EntityName: entity.Name,
				Title:      "Credit limit utilization breach",
				Message: fmt.Sprintf("%s is using %.1f%% of its approved credit limit",
					entity.Name, utilization*100),
				Metadata: alert.Metadata{
					CreditLimit: &alert.CreditLimitMetadata{
						Exposure:      entity.CreditExposure,
						GrossExposure: entity.GrossExposure,
						Utilization:   utilization,
					},
				},
			}
		}
	}
	return nil
}

// evaluateDelinquency checks days past due.
func (e *Engine) evaluateDelinquency(entity *portfolio.Entity) *alert.Trigger {
	if entity.DaysPastDue < 0 {
		return nil
	}

	for _, tier := range delinquencyTiers {
		if entity.DaysPastDue >= tier.threshold {
			return &alert.Trigger{
				Type:       alert.TypeDelinquency,
				Severity:   tier.severity,
				EntityID:   entity.ID,
				EntityName: entity.Name,
				Title:      "Payment delinquency",
				Message: fmt.Sprintf("%s is %d days past due",
					entity.Name, entity.DaysPastDue),
				Metadata: alert.Metadata{
					Delinquency: &alert.DelinquencyMetadata{
						DaysPastDue: entity.DaysPastDue,
					},
				},
			}
		}
	}
	return nil
}

// evaluateRatingChange compares the internal rating against the
// external one on the ordinal scale. Only the asymmetric case fires:
// internal worse than external by at least downgradeFireNotches.
func (e *Engine) evaluateRatingChange(entity *portfolio.Entity) *alert.Trigger {
	internalScore := ratingScore(entity.InternalRating)
	externalScore := ratingScore(entity.ExternalRating)

	delta := internalScore - externalScore
	if delta < downgradeFireNotches {
		return nil
	}

	severity := alert.SeverityLow
	for _, tier := range downgradeTiers {
		if delta >= tier.threshold {
			severity = tier.severity
			break
		}
	}
	if internalScore >= distressedRatingScore {
		severity = alert.SeverityCritical
	}

	return &alert.Trigger{
		Type:       alert.TypeRatingChange,
		Severity:   severity,
		EntityID:   entity.ID,
		EntityName: entity.Name,
		Title:      "Internal rating divergence",
		Message: fmt.Sprintf("%s internal rating %s trails external rating %s by %d notches",
			entity.Name, entity.InternalRating, entity.ExternalRating, delta),
		Metadata: alert.Metadata{
			RatingChange: &alert.RatingChangeMetadata{
				InternalRating: entity.InternalRating,
				ExternalRating: entity.ExternalRating,
				InternalScore:  internalScore,
				ExternalScore:  externalScore,
				NotchDelta:     delta,
			},
		},
	}
}

// evaluateConcentration checks the entity's share of total portfolio
// exposure. The denominator is computed once per pass by the snapshot
// source so all entities in a pass see the same total.
func (e *Engine) evaluateConcentration(entity *portfolio.Entity, totalExposure float64) *alert.Trigger {
	if !validRatio(entity.CreditExposure, totalExposure) {
		return nil
	}

	share := entity.CreditExposure / totalExposure
	for _, tier := range concentrationTiers {
		if share >= tier.threshold {
			return &alert.Trigger{
				Type:       alert.TypeConcentration,
				Severity:   tier.severity,
				EntityID:   entity.ID,
				EntityName: entity.Name,
				Title:      "Portfolio concentration breach",
				Message: fmt.Sprintf("%s holds %.1f%% of total portfolio exposure",
					entity.Name, share*100),
				Metadata: alert.Metadata{
					Concentration: &alert.ConcentrationMetadata{
						Exposure:      entity.CreditExposure,
						TotalExposure: totalExposure,
						Share:         share,
					},
				},
			}
		}
	}
	return nil
}

// validRatio reports whether numerator/denominator is well defined for
// threshold comparison.
func validRatio(numerator, denominator float64) bool {
	if denominator <= 0 || numerator < 0 {
		return false
	}
	return !math.IsNaN(numerator) && !math.IsNaN(denominator)
}
