package domain

import "time"

// EmissionType is a catalog entry mapping an arbitrary resource kind to a
// CO2 conversion factor (kg CO2e per unit consumed).
type EmissionType struct {
	ID               string
	Name             string
	ConversionFactor float64
	CreatedAt        time.Time
}
