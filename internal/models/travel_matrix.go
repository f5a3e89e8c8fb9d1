package models

import "fmt"

// TravelMode is the routing profile used for travel-time computation
type TravelMode string

const (
	TravelModeDrivingCar     TravelMode = "DRIVING_CAR"
	TravelModeCyclingRegular TravelMode = "CYCLING_REGULAR"
	TravelModeFootWalking    TravelMode = "FOOT_WALKING"
)

// ValidTravelMode reports whether mode is one of the supported profiles
func ValidTravelMode(mode TravelMode) bool {
	switch mode {
	case TravelModeDrivingCar, TravelModeCyclingRegular, TravelModeFootWalking:
		return true
	}
	return false
}

// UnreachableSentinel marks an origin/destination pair the external matrix
// provider could not route. Negative so it can never collide with a
// real duration.
const UnreachableSentinel = -1.0

// TravelTimeMatrix holds travel times in minutes from each origin to each
// destination. TravelTimes[i][j] is origin i → destination j.
type TravelTimeMatrix struct {
	Origins      []Coordinate `json:"origins"`
	Destinations []Coordinate `json:"destinations"`
	TravelTimes  [][]float64  `json:"travel_times"`
	TravelMode   TravelMode   `json:"travel_mode"`
}

// Validate checks that the matrix is rectangular and matches the declared
// origin/destination cardinalities
func (m *TravelTimeMatrix) Validate() error {
	if len(m.TravelTimes) != len(m.Origins) {
		return fmt.Errorf("matrix has %d rows for %d origins", len(m.TravelTimes), len(m.Origins))
	}
	for i, row := range m.TravelTimes {
		if len(row) != len(m.Destinations) {
			return fmt.Errorf("matrix row %d has %d columns for %d destinations", i, len(row), len(m.Destinations))
		}
	}
	return nil
}

// Column returns the travel times from every origin to destination j
func (m *TravelTimeMatrix) Column(j int) []float64 {
	col := make([]float64, len(m.TravelTimes))
	for i, row := range m.TravelTimes {
		col[i] = row[j]
	}
	return col
}
