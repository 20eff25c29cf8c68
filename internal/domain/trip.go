package domain

import "time"

// TransportMode identifies how a trip was travelled.
type TransportMode string

const (
	ModeCar        TransportMode = "car"
	ModeBus        TransportMode = "bus"
	ModeTrain      TransportMode = "train"
	ModeTram       TransportMode = "tram"
	ModeMotorcycle TransportMode = "motorcycle"
	ModeBicycle    TransportMode = "bicycle"
	ModeWalk       TransportMode = "walk"
)

// Location is an address with resolved coordinates.
type Location struct {
	Address   string
	Latitude  float64
	Longitude float64
}

// Trip represents a single travel event with derived emission figures.
// DistanceKm and CO2Kg are always recomputed together from the two
// locations and the mode; they are never patched independently.
type Trip struct {
	ID         string
	OwnerID    string
	Date       time.Time
	Start      Location
	End        Location
	Mode       TransportMode
	DistanceKm float64
	CO2Kg      float64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
