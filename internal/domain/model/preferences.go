package model

// TimeWindow is the requested outing window, e.g. 19:00-23:00. It is carried
// through to the itinerary and not used for scoring.
type TimeWindow struct {
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
}

// Preferences captures what a user asked for.
//
// VenueType (indoor/outdoor) and Ambiance are collected but have no scoring
// term. They are echoed back untouched.
type Preferences struct {
	PricePoint int        `json:"price_point"` // currency units per venue; <= 0 means unset
	Styles     TagSet     `json:"styles"`
	Music      TagSet     `json:"music"`
	TimeWindow TimeWindow `json:"time_window"`
	VenueType  string     `json:"venue_type,omitempty"`
	Ambiance   string     `json:"ambiance,omitempty"`
}
