package model

// ScoredVenue pairs a venue with its relevance score in [0, 1]. Index is the
// venue's position in the source table and breaks score ties.
type ScoredVenue struct {
	Venue Venue   `json:"venue"`
	Score float64 `json:"score"`
	Index int     `json:"-"`
}

// Leg is the walk between two consecutive stops.
type Leg struct {
	FromID         string  `json:"from_id"`
	ToID           string  `json:"to_id"`
	DistanceMeters float64 `json:"distance_m"`
	WalkingMinutes int     `json:"walking_min"`
}

// Itinerary is an ordered route with walking metrics.
type Itinerary struct {
	ID                  string        `json:"id,omitempty"`
	Stops               []ScoredVenue `json:"stops"`
	Legs                []Leg         `json:"legs"`
	TotalDistanceMeters float64       `json:"total_distance_m"`
	TotalWalkingMinutes int           `json:"total_walking_min"`
	OutingMinutes       int           `json:"outing_min"`
	Backfilled          int           `json:"backfilled"`
	Preferences         Preferences   `json:"preferences"`
}

// Len returns the number of stops.
func (it Itinerary) Len() int { return len(it.Stops) }
