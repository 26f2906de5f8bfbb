package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go-places/models"
	"go-places/utils/errors"
)

const defaultGeocodeEndpoint = "https://maps.googleapis.com/maps/api/geocode/json"

var errNoLocation = errors.NewAPIError("Could not find location for the specified address.", http.StatusUnprocessableEntity)

// GeoService resolves free-text addresses to coordinates through the
// Google Geocoding API.
type GeoService struct {
	httpClient *http.Client
	apiKey     string
	endpoint   string // swappable for tests
}

func NewGeoService(apiKey string) *GeoService {
	return &GeoService{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		apiKey:     apiKey,
		endpoint:   defaultGeocodeEndpoint,
	}
}

type geocodeResponse struct {
	Status  string `json:"status"`
	Results []struct {
		Geometry struct {
			Location models.Location `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// GeocodeAddress makes a single geocoding attempt. Zero results is a
// client-input failure; everything else is a server failure.
func (s *GeoService) GeocodeAddress(ctx context.Context, address string) (models.Location, error) {
	reqURL, err := url.Parse(s.endpoint)
	if err != nil {
		return models.Location{}, errors.Wrap(err, errors.ErrUnknown.Message, errors.ErrUnknown.Status)
	}
	q := reqURL.Query()
	q.Set("address", address)
	q.Set("key", s.apiKey)
	reqURL.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return models.Location{}, errors.Wrap(err, errors.ErrUnknown.Message, errors.ErrUnknown.Status)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return models.Location{}, errors.Wrap(err, errors.ErrUnknown.Message, errors.ErrUnknown.Status)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.Location{}, errors.NewAPIError(errors.ErrUnknown.Message, errors.ErrUnknown.Status,
			fmt.Sprintf("geocoding service returned status %d", resp.StatusCode))
	}

	var body geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return models.Location{}, errors.Wrap(err, errors.ErrUnknown.Message, errors.ErrUnknown.Status)
	}

	if body.Status == "ZERO_RESULTS" || len(body.Results) == 0 {
		return models.Location{}, errNoLocation
	}

	return body.Results[0].Geometry.Location, nil
}
