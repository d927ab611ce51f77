// Package geo finds diabetes specialists near a free-text location.
package geo

import "context"

// LatLng is a geocoded point.
type LatLng struct {
	Lat float64
	Lng float64
}

// PlaceRef is a nearby-search hit, enough to fetch details.
type PlaceRef struct {
	PlaceID string
	Name    string
}

// Review is a single user review attached to a place.
type Review struct {
	AuthorName string  `json:"author_name"`
	Rating     float64 `json:"rating"`
	Text       string  `json:"text"`
	Time       string  `json:"time,omitempty"`
}

// PlaceDetails is the detail record for one place. OK reports whether the
// lookup succeeded; failed lookups are skipped, not surfaced.
type PlaceDetails struct {
	OK           bool
	Name         string
	Address      string
	PhoneNumber  string
	Website      string
	Rating       float64
	TotalRatings int
	Reviews      []Review
}

// Specialist is one entry in a doctor search result.
type Specialist struct {
	Name       string   `json:"name"`
	Address    string   `json:"address"`
	Phone      string   `json:"phone,omitempty"`
	Website    string   `json:"website,omitempty"`
	Rating     float64  `json:"rating"`
	Reviews    int      `json:"reviews"`
	Experience string   `json:"experience"`
	TopReviews []Review `json:"top_reviews,omitempty"`
}

// PlacesClient is the slice of the places API this package needs.
type PlacesClient interface {
	Geocode(ctx context.Context, location string) (*LatLng, error)
	FindNearby(ctx context.Context, center LatLng, radiusMeters int, query string) ([]PlaceRef, error)
	PlaceDetails(ctx context.Context, placeID string) (PlaceDetails, error)
}
