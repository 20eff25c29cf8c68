package domain

import "time"

// Report category labels. Every emission source rolls up into exactly one
// of these three buckets.
const (
	CategoryTransportation = "Transportation"
	CategoryEnergy         = "Energy"
	CategoryOther          = "Other"
)

// MonthsPerYear is the fixed length of a report's monthly series.
const MonthsPerYear = 12

// YearlyReport is the persisted aggregation for one (year, owner) pair.
// MonthlyTotals[0] is January. Invariant: sum(MonthlyTotals) == TotalCO2Kg
// within floating tolerance.
type YearlyReport struct {
	ID             string
	Year           int
	ReportKey      string
	OwnerID        string
	TotalCO2Kg     float64
	MonthlyTotals  [MonthsPerYear]float64
	CategoryTotals map[string]float64
	CreatedAt      time.Time
}
