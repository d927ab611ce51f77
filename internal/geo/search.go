package geo

import (
	"context"
	"strings"
	"time"

	"github.com/glucoguide/glucoguide/internal/apperr"
	"github.com/glucoguide/glucoguide/internal/cache"
)

const (
	specialistQuery = "endocrinologist OR diabetologist"
	maxCandidates   = 3
	maxTopReviews   = 3
	resultTTL       = 24 * time.Hour
)

type searchKey struct {
	location string
	radius   int
}

// Service runs specialist searches through a 24h result cache so repeated
// lookups for the same area do not hammer the places API.
type Service struct {
	places PlacesClient
	cache  *cache.TTLCache[searchKey, []Specialist]
}

// NewService builds a search service over the given places client.
func NewService(places PlacesClient) *Service {
	return &Service{
		places: places,
		cache:  cache.New[searchKey, []Specialist](),
	}
}

// NewServiceWithClock is for tests that control time.
func NewServiceWithClock(places PlacesClient, now func() time.Time) *Service {
	return &Service{
		places: places,
		cache:  cache.NewWithClock[searchKey, []Specialist](now),
	}
}

// SweepCache drops expired cached searches and returns how many it removed.
func (s *Service) SweepCache() int {
	return s.cache.Sweep()
}

// Search finds up to three diabetes specialists near the location. Results
// are cached per (lowercased location, radius) for a day. A location that
// does not geocode is an INVALID_LOCATION error; a geocoded area with no
// specialists is NOT_FOUND.
func (s *Service) Search(ctx context.Context, location string, radiusMeters int) ([]Specialist, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, apperr.NewValidation("location is required", "location")
	}

	key := searchKey{location: strings.ToLower(location), radius: radiusMeters}
	results, _, err := s.cache.GetOrFetch(key, resultTTL, func() ([]Specialist, error) {
		return s.search(ctx, location, radiusMeters)
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Service) search(ctx context.Context, location string, radiusMeters int) ([]Specialist, error) {
	center, err := s.places.Geocode(ctx, location)
	if err != nil {
		return nil, apperr.NewExternalService("maps", err)
	}
	if center == nil {
		return nil, apperr.NewInvalidLocation(location)
	}

	refs, err := s.places.FindNearby(ctx, *center, radiusMeters, specialistQuery)
	if err != nil {
		return nil, apperr.NewExternalService("maps", err)
	}
	if len(refs) == 0 {
		return nil, apperr.NewNotFound("No diabetes specialists found in this area")
	}
	if len(refs) > maxCandidates {
		refs = refs[:maxCandidates]
	}

	specialists := make([]Specialist, 0, len(refs))
	for _, ref := range refs {
		details, err := s.places.PlaceDetails(ctx, ref.PlaceID)
		if err != nil || !details.OK {
			// Detail lookups fail independently; a partial result
			// beats no result.
			continue
		}

		reviews := details.Reviews
		if len(reviews) > maxTopReviews {
			reviews = reviews[:maxTopReviews]
		}
		specialists = append(specialists, Specialist{
			Name:       details.Name,
			Address:    details.Address,
			Phone:      details.PhoneNumber,
			Website:    details.Website,
			Rating:     details.Rating,
			Reviews:    details.TotalRatings,
			Experience: experienceLabel(details),
			TopReviews: reviews,
		})
	}
	if len(specialists) == 0 {
		return nil, apperr.NewNotFound("No diabetes specialists found in this area")
	}
	return specialists, nil
}

// experienceLabel is a coarse heuristic; review volume is checked before
// rating because a high average over a handful of reviews means little.
func experienceLabel(d PlaceDetails) string {
	switch {
	case d.TotalRatings > 50:
		return "Likely experienced (based on high review count)"
	case d.Rating > 4.0:
		return "Possibly experienced (based on high rating)"
	default:
		return "Unknown"
	}
}
