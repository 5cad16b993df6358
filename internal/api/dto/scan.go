package dto

// ScanResultDTO summarizes a completed portfolio scan.
type ScanResultDTO struct {
	Entities   int        `json:"entities"`
	Triggers   int        `json:"triggers"`
	Alerts     []AlertDTO `json:"alerts"`
	DurationMS int64      `json:"durationMs"`
}
