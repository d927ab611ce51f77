package gmaps

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glucoguide/glucoguide/internal/geo"
)

func TestGeocode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/maps/api/geocode/json" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if r.URL.Query().Get("address") != "Bangalore" {
			t.Errorf("address = %q", r.URL.Query().Get("address"))
		}
		if r.URL.Query().Get("key") != "k" {
			t.Errorf("key = %q", r.URL.Query().Get("key"))
		}
		w.Write([]byte(`{"status":"OK","results":[{"geometry":{"location":{"lat":12.97,"lng":77.59}}}]}`))
	}))
	defer srv.Close()

	c := NewClientWithBaseURL("k", srv.URL, time.Second)
	got, err := c.Geocode(context.Background(), "Bangalore")
	if err != nil {
		t.Fatalf("Geocode: %v", err)
	}
	if got == nil || got.Lat != 12.97 || got.Lng != 77.59 {
		t.Errorf("coords = %+v", got)
	}
}

func TestGeocodeZeroResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ZERO_RESULTS","results":[]}`))
	}))
	defer srv.Close()

	c := NewClientWithBaseURL("k", srv.URL, time.Second)
	got, err := c.Geocode(context.Background(), "Atlantis")
	if err != nil {
		t.Fatalf("Geocode: %v", err)
	}
	if got != nil {
		t.Errorf("unresolvable location returned %+v, want nil", got)
	}
}

func TestFindNearby(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("type") != "doctor" {
			t.Errorf("type = %q", q.Get("type"))
		}
		if q.Get("radius") != "5000" {
			t.Errorf("radius = %q", q.Get("radius"))
		}
		w.Write([]byte(`{"status":"OK","results":[{"place_id":"p1","name":"Clinic A"},{"place_id":"p2","name":"Clinic B"}]}`))
	}))
	defer srv.Close()

	c := NewClientWithBaseURL("k", srv.URL, time.Second)
	refs, err := c.FindNearby(context.Background(), geo.LatLng{Lat: 12.97, Lng: 77.59}, 5000, "endocrinologist")
	if err != nil {
		t.Fatalf("FindNearby: %v", err)
	}
	if len(refs) != 2 || refs[0].PlaceID != "p1" {
		t.Errorf("refs = %+v", refs)
	}
}

func TestPlaceDetails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("place_id") != "p1" {
			t.Errorf("place_id = %q", r.URL.Query().Get("place_id"))
		}
		w.Write([]byte(`{"status":"OK","result":{
			"name":"Clinic A","formatted_address":"1 Main St",
			"formatted_phone_number":"123","website":"https://a.example",
			"rating":4.6,"user_ratings_total":88,
			"reviews":[{"author_name":"r1","rating":5,"text":"great","relative_time_description":"a week ago"}]
		}}`))
	}))
	defer srv.Close()

	c := NewClientWithBaseURL("k", srv.URL, time.Second)
	d, err := c.PlaceDetails(context.Background(), "p1")
	if err != nil {
		t.Fatalf("PlaceDetails: %v", err)
	}
	if !d.OK || d.Name != "Clinic A" || d.TotalRatings != 88 {
		t.Errorf("details = %+v", d)
	}
	if len(d.Reviews) != 1 || d.Reviews[0].Time != "a week ago" {
		t.Errorf("reviews = %+v", d.Reviews)
	}
}

func TestPlaceDetailsNotOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"NOT_FOUND"}`))
	}))
	defer srv.Close()

	c := NewClientWithBaseURL("k", srv.URL, time.Second)
	d, err := c.PlaceDetails(context.Background(), "gone")
	if err != nil {
		t.Fatalf("PlaceDetails: %v", err)
	}
	if d.OK {
		t.Error("failed lookup reported OK")
	}
}
