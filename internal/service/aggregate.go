package service

import (
	"time"

	"carbontrack/internal/domain"
)

// Contribution is one dated, categorized CO2 figure feeding an aggregation.
type Contribution struct {
	Date     time.Time
	Category string
	CO2Kg    float64
}

// AggregateByMonth buckets contributions dated within the given calendar
// year into 12 monthly totals (index 0 = January) and per-category totals.
// Dates are treated as calendar days; no timezone conversion is applied.
// Contributions outside the year are ignored.
func AggregateByMonth(contributions []Contribution, year int) ([domain.MonthsPerYear]float64, map[string]float64) {
	var monthly [domain.MonthsPerYear]float64
	categories := make(map[string]float64)

	for _, c := range contributions {
		if c.Date.Year() != year {
			continue
		}
		monthly[int(c.Date.Month())-1] += c.CO2Kg
		categories[c.Category] += c.CO2Kg
	}

	return monthly, categories
}
