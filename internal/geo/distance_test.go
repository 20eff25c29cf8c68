package geo

import (
	"errors"
	"math"
	"testing"
)

func TestDistanceKm_KnownDistances(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name   string
		a, b   Coordinate
		wantKm float64
	}{
		{
			name:   "one degree of longitude at the equator",
			a:      Coordinate{Latitude: 0, Longitude: 0},
			b:      Coordinate{Latitude: 0, Longitude: 1},
			wantKm: 111.195,
		},
		{
			name:   "one degree of latitude",
			a:      Coordinate{Latitude: 0, Longitude: 0},
			b:      Coordinate{Latitude: 1, Longitude: 0},
			wantKm: 111.195,
		},
		{
			name:   "paris to london",
			a:      Coordinate{Latitude: 48.8566, Longitude: 2.3522},
			b:      Coordinate{Latitude: 51.5074, Longitude: -0.1278},
			wantKm: 343.5,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := DistanceKm(tc.a, tc.b)
			if err != nil {
				t.Fatalf("expected no error, got: %v", err)
			}
			if math.Abs(got-tc.wantKm) > tc.wantKm*0.01 {
				t.Errorf("expected ~%.3f km, got %.3f km", tc.wantKm, got)
			}
		})
	}
}

func TestDistanceKm_SamePoint_IsZero(t *testing.T) {
	t.Parallel()

	p := Coordinate{Latitude: 52.52, Longitude: 13.405}
	got, err := DistanceKm(p, p)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if got != 0 {
		t.Errorf("expected 0 km, got %f", got)
	}
}

func TestDistanceKm_IsSymmetric(t *testing.T) {
	t.Parallel()

	a := Coordinate{Latitude: 40.7128, Longitude: -74.0060}
	b := Coordinate{Latitude: 34.0522, Longitude: -118.2437}

	ab, err := DistanceKm(a, b)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	ba, err := DistanceKm(b, a)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if math.Abs(ab-ba) > 1e-9 {
		t.Errorf("expected symmetric distances, got %f and %f", ab, ba)
	}
}

func TestDistanceKm_InvalidCoordinates(t *testing.T) {
	t.Parallel()

	valid := Coordinate{Latitude: 0, Longitude: 0}

	testCases := []struct {
		name string
		bad  Coordinate
	}{
		{name: "latitude out of range", bad: Coordinate{Latitude: 91, Longitude: 0}},
		{name: "longitude out of range", bad: Coordinate{Latitude: 0, Longitude: 181}},
		{name: "NaN latitude", bad: Coordinate{Latitude: math.NaN(), Longitude: 0}},
		{name: "infinite longitude", bad: Coordinate{Latitude: 0, Longitude: math.Inf(1)}},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if _, err := DistanceKm(valid, tc.bad); !errors.Is(err, ErrInvalidCoordinate) {
				t.Errorf("expected ErrInvalidCoordinate, got: %v", err)
			}
			if _, err := DistanceKm(tc.bad, valid); !errors.Is(err, ErrInvalidCoordinate) {
				t.Errorf("expected ErrInvalidCoordinate, got: %v", err)
			}
		})
	}
}
