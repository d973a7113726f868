package models

import "time"

// EquityPoint is one row of the historical equity curve (equity.csv).
type EquityPoint struct {
	Date   time.Time `json:"date"`
	Equity float64   `json:"equity"`
}

// EquitySummary holds the values derived from the first and last points.
type EquitySummary struct {
	Initial        float64 `json:"initial"`
	Current        float64 `json:"current"`
	TotalReturnPct float64 `json:"total_return_pct"`
}
