package models

// GymSource identifies the provider a gym record came from.
type GymSource struct {
	Provider   string `json:"provider"`
	ExternalID string `json:"external_id,omitempty"`
}

// GymLocation is a point-of-interest record for one gym.
// DistanceKm is computed against the query point, never stored upstream,
// and is rounded to two decimal places when set.
type GymLocation struct {
	ID           string    `json:"id"`
	Brand        string    `json:"brand,omitempty"`
	Name         string    `json:"name"`
	Address      string    `json:"address,omitempty"`
	PostalCode   string    `json:"postal_code,omitempty"`
	City         string    `json:"city"`
	Lat          *float64  `json:"lat,omitempty"`
	Lng          *float64  `json:"lng,omitempty"`
	DistanceKm   *float64  `json:"distance_km,omitempty"`
	TravelTime   string    `json:"travel_time,omitempty"`
	MonthlyPrice *float64  `json:"monthly_price,omitempty"`
	Currency     string    `json:"currency,omitempty"`
	Amenities    []string  `json:"amenities,omitempty"`
	Link         string    `json:"link,omitempty"`
	Source       GymSource `json:"source"`
}
