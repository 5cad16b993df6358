package alert

// Metadata carries rule-specific detail for a trigger or alert. At
// most one typed field is set, matching the alert's Type; Extra holds
// fields for types this build does not know about so unknown payloads
// round-trip untouched.
type Metadata struct {
	CreditLimit   *CreditLimitMetadata   `json:"credit_limit,omitempty"`
	Delinquency   *DelinquencyMetadata   `json:"delinquency,omitempty"`
	RatingChange  *RatingChangeMetadata  `json:"rating_change,omitempty"`
	Concentration *ConcentrationMetadata `json:"concentration,omitempty"`
	Resolution    string                 `json:"resolution,omitempty"`
	Extra         map[string]interface{} `json:"extra,omitempty"`
}

// Empty reports whether no metadata field is populated.
func (m Metadata) Empty() bool {
	return m.CreditLimit == nil && m.Delinquency == nil && m.RatingChange == nil &&
		m.Concentration == nil && m.Resolution == "" && len(m.Extra) == 0
}

// CreditLimitMetadata details a limit-utilization breach.
type CreditLimitMetadata struct {
	Exposure      float64 `json:"exposure"`
	GrossExposure float64 `json:"gross_exposure"`
	Utilization   float64 `json:"utilization"`
}

// DelinquencyMetadata details a days-past-due breach.
type DelinquencyMetadata struct {
	DaysPastDue int `json:"days_past_due"`
}

// RatingChangeMetadata details a rating divergence between the
// internal and external rating of an entity.
type RatingChangeMetadata struct {
	InternalRating string `json:"internal_rating"`
	ExternalRating string `json:"external_rating"`
	InternalScore  int    `json:"internal_score"`
	ExternalScore  int    `json:"external_score"`
	NotchDelta     int    `json:"notch_delta"`
}

// ConcentrationMetadata details an entity's share of total portfolio
// exposure.
type ConcentrationMetadata struct {
	Exposure      float64 `json:"exposure"`
	TotalExposure float64 `json:"total_exposure"`
	Share         float64 `json:"share"`
}
