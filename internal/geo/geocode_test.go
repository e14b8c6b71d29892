package geo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"matchfeed-engine/internal/fetch"
)

func fastPolicy() fetch.Policy {
	return fetch.Policy{MaxAttempts: 2, BackoffBase: time.Millisecond, Timeout: time.Second}
}

func geocodeClient(t *testing.T, primary, fallback string) *Client {
	t.Helper()
	return NewClient(Options{
		PrimaryURL:  primary,
		FallbackURL: fallback,
		MinDelay:    time.Millisecond,
		Policy:      fastPolicy(),
	})
}

func TestReverseGeocodePrimary(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.URL.Query().Get("lat") == "" || r.URL.Query().Get("lon") == "" {
			t.Errorf("missing coordinates in query: %s", r.URL.RawQuery)
		}
		w.Write([]byte(`{"address":{"city":"Lyon","country":"France"}}`))
	}))
	defer srv.Close()

	c := geocodeClient(t, srv.URL, "")

	got := c.ReverseGeocode(context.Background(), 45.7640, 4.8357)
	if got != "Lyon, France" {
		t.Fatalf("got %q", got)
	}

	// Second lookup for the same coordinates is served from cache.
	c.ReverseGeocode(context.Background(), 45.7640, 4.8357)
	if n := calls.Load(); n != 1 {
		t.Fatalf("expected 1 upstream call, got %d", n)
	}
}

func TestReverseGeocodeDisplayNameFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"display_name":"Somewhere, Earth"}`))
	}))
	defer srv.Close()

	c := geocodeClient(t, srv.URL, "")
	if got := c.ReverseGeocode(context.Background(), 1, 2); got != "Somewhere, Earth" {
		t.Fatalf("got %q", got)
	}
}

func TestReverseGeocodeFallsBackToSecondary(t *testing.T) {
	primary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer primary.Close()

	var secondaryCalls atomic.Int32
	secondary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		secondaryCalls.Add(1)
		w.Write([]byte(`{"address":{"town":"Annecy","country":"France"}}`))
	}))
	defer secondary.Close()

	c := geocodeClient(t, primary.URL, secondary.URL)
	if got := c.ReverseGeocode(context.Background(), 45.8992, 6.1294); got != "Annecy, France" {
		t.Fatalf("got %q", got)
	}
	if n := secondaryCalls.Load(); n != 1 {
		t.Fatalf("secondary should be tried exactly once, got %d", n)
	}
}

func TestReverseGeocodeOfflineDescriptor(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := geocodeClient(t, srv.URL, srv.URL)
	if got := c.ReverseGeocode(context.Background(), 48.9, 2.3); got != "near 48.9°N 2.3°E" {
		t.Fatalf("got %q", got)
	}
}

func TestCoarseDescriptorHemispheres(t *testing.T) {
	cases := []struct {
		lat, lon float64
		want     string
	}{
		{48.9, 2.3, "near 48.9°N 2.3°E"},
		{-33.9, 151.2, "near 33.9°S 151.2°E"},
		{40.7, -74.0, "near 40.7°N 74.0°W"},
	}
	for _, tc := range cases {
		if got := CoarseDescriptor(tc.lat, tc.lon); got != tc.want {
			t.Errorf("CoarseDescriptor(%v, %v) = %q, want %q", tc.lat, tc.lon, got, tc.want)
		}
	}
}
