package domain

import (
	"encoding/json"
	"time"
)

// ResourceEntry is one consumption line inside a resource record.
// CO2Kg is the precomputed contribution; when absent it is derived as
// Quantity * CO2Factor.
type ResourceEntry struct {
	Quantity  float64 `json:"quantity"`
	CO2Factor float64 `json:"co2_factor"`
	CO2Kg     float64 `json:"co2_kg"`
}

// ResourceRecord represents a dated energy or other-resource consumption
// event. Entries holds the stored representation: either a JSON array of
// ResourceEntry or a legacy string-encoded form of the same array. It is
// resolved to numeric contributions by the source normalizer.
type ResourceRecord struct {
	ID        string
	OwnerID   string
	Date      time.Time
	Category  string
	Entries   json.RawMessage
	CreatedAt time.Time
}
