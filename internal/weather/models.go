package weather

import (
	"time"
)

// Condition represents a normalized high-level weather condition.
type Condition string

const (
	ConditionUnknown Condition = "unknown"
	ConditionClear   Condition = "clear"
	ConditionCloudy  Condition = "cloudy"
	ConditionRain    Condition = "rain"
	ConditionSnow    Condition = "snow"
	ConditionStorm   Condition = "storm"
	ConditionMist    Condition = "mist"
)

// Coordinates is a WGS84 latitude/longitude pair.
type Coordinates struct {
	Lat float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lon float64 `json:"lon" validate:"gte=-180,lte=180"`
}

// Snapshot is a point-in-time weather reading for a coordinate, normalized
// from whatever provider produced it. It is never persisted on its own.
type Snapshot struct {
	PlaceID     int64       `json:"id,omitempty"`
	Name        string      `json:"name" validate:"required"`
	Country     string      `json:"country"`
	Temperature int         `json:"temperature"` // rounded °C
	Description string      `json:"description"`
	Icon        string      `json:"icon"`
	Humidity    float64     `json:"humidity"`  // %
	Pressure    float64     `json:"pressure"`  // hPa
	WindSpeed   float64     `json:"windSpeed"` // m/s
	Coords      Coordinates `json:"coords"`
	Condition   Condition   `json:"condition,omitempty"`
	FetchedAt   time.Time   `json:"fetchedAt,omitempty"` // always UTC
}

// Candidate is a single hit from a search-by-name lookup.
type Candidate struct {
	Name       string            `json:"name"`
	Country    string            `json:"country"`
	State      string            `json:"state,omitempty"`
	Lat        float64           `json:"lat"`
	Lon        float64           `json:"lon"`
	LocalNames map[string]string `json:"local_names,omitempty"`
}

// Coords returns the candidate position.
func (c Candidate) Coords() Coordinates {
	return Coordinates{Lat: c.Lat, Lon: c.Lon}
}
