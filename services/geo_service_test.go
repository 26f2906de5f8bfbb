package services

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-places/utils/errors"
)

func newTestGeoService(endpoint string) *GeoService {
	s := NewGeoService("test-key")
	s.endpoint = endpoint
	return s
}

func TestGeocodeAddress_Success(t *testing.T) {
	var gotAddress, gotKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAddress = r.URL.Query().Get("address")
		gotKey = r.URL.Query().Get("key")
		fmt.Fprint(w, `{
			"status": "OK",
			"results": [{"geometry": {"location": {"lat": 37.4224764, "lng": -122.0842499}}}]
		}`)
	}))
	defer server.Close()

	s := newTestGeoService(server.URL)
	loc, err := s.GeocodeAddress(context.Background(), "1600 Amphitheatre Parkway, Mountain View, CA")
	if err != nil {
		t.Fatalf("GeocodeAddress failed: %v", err)
	}
	if loc.Lat != 37.4224764 || loc.Lng != -122.0842499 {
		t.Errorf("unexpected coordinates: %+v", loc)
	}
	if gotAddress != "1600 Amphitheatre Parkway, Mountain View, CA" {
		t.Errorf("address not forwarded: %q", gotAddress)
	}
	if gotKey != "test-key" {
		t.Errorf("api key not forwarded: %q", gotKey)
	}
}

func TestGeocodeAddress_ZeroResults(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"zero results status", `{"status": "ZERO_RESULTS", "results": []}`},
		{"empty results list", `{"status": "OK", "results": []}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, tt.body)
			}))
			defer server.Close()

			s := newTestGeoService(server.URL)
			_, err := s.GeocodeAddress(context.Background(), "nowhere at all")
			apiErr, ok := err.(*errors.APIError)
			if !ok {
				t.Fatalf("expected APIError, got %v", err)
			}
			if apiErr.Status != http.StatusUnprocessableEntity {
				t.Errorf("expected 422, got %d", apiErr.Status)
			}
			if apiErr.Message != "Could not find location for the specified address." {
				t.Errorf("unexpected message: %q", apiErr.Message)
			}
		})
	}
}

func TestGeocodeAddress_ServerFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	s := newTestGeoService(server.URL)
	_, err := s.GeocodeAddress(context.Background(), "somewhere")
	apiErr, ok := err.(*errors.APIError)
	if !ok {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Status != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", apiErr.Status)
	}
}

func TestGeocodeAddress_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	s := newTestGeoService(server.URL)
	_, err := s.GeocodeAddress(context.Background(), "somewhere")
	apiErr, ok := err.(*errors.APIError)
	if !ok {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Status != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", apiErr.Status)
	}
}

func TestGeocodeAddress_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status": "OK", "results": [{"geometry": {"location": {"lat": 1, "lng": 2}}}]}`)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := newTestGeoService(server.URL)
	if _, err := s.GeocodeAddress(ctx, "somewhere"); err == nil {
		t.Error("expected error for cancelled context")
	}
}
