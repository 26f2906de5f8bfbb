package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-places/middleware"
	"go-places/models"
	"go-places/utils/errors"
)

// PlaceStore is the slice of the place service the handler needs.
type PlaceStore interface {
	GetPlaceByID(ctx context.Context, placeID string) (*models.Place, error)
	GetPlacesByUserID(ctx context.Context, userID string) ([]models.Place, error)
	CreatePlace(ctx context.Context, place *models.Place) (*models.Place, error)
	UpdatePlace(ctx context.Context, placeID, requesterID, title, description string) (*models.Place, error)
	DeletePlace(ctx context.Context, placeID, requesterID string) error
}

// Geocoder resolves a free-text address to coordinates.
type Geocoder interface {
	GeocodeAddress(ctx context.Context, address string) (models.Location, error)
}

type PlaceHandler struct {
	placeService PlaceStore
	geoService   Geocoder
}

func NewPlaceHandler(placeService PlaceStore, geoService Geocoder) *PlaceHandler {
	return &PlaceHandler{placeService: placeService, geoService: geoService}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (h *PlaceHandler) GetPlaceByID(w http.ResponseWriter, r *http.Request) {
	placeID := mux.Vars(r)["placeId"]

	place, err := h.placeService.GetPlaceByID(r.Context(), placeID)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"place": place})
}

func (h *PlaceHandler) GetPlacesByUserID(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	places, err := h.placeService.GetPlacesByUserID(r.Context(), userID)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"places": places})
}

// CreatePlace expects a multipart form already parsed and stored by
// the upload middleware, plus an authenticated identity.
func (h *PlaceHandler) CreatePlace(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		middleware.WriteError(w, r, errors.ErrAuth)
		return
	}
	creator, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		middleware.WriteError(w, r, errors.ErrAuth)
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	description := strings.TrimSpace(r.FormValue("description"))
	address := strings.TrimSpace(r.FormValue("address"))
	if title == "" || description == "" || address == "" {
		middleware.WriteError(w, r, errors.ErrInvalidInput)
		return
	}

	imagePath := middleware.UploadedFilePath(r)
	if imagePath == "" {
		middleware.WriteError(w, r, errors.ErrInvalidInput)
		return
	}

	location, err := h.geoService.GeocodeAddress(r.Context(), address)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	place := &models.Place{
		Title:       title,
		Description: description,
		Address:     address,
		Location:    location,
		Image:       imagePath,
		Creator:     creator,
	}

	created, err := h.placeService.CreatePlace(r.Context(), place)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"place": created})
}

func (h *PlaceHandler) UpdatePlace(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		middleware.WriteError(w, r, errors.ErrAuth)
		return
	}
	placeID := mux.Vars(r)["placeId"]

	var input struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		middleware.WriteError(w, r, errors.ErrInvalidInput)
		return
	}
	input.Title = strings.TrimSpace(input.Title)
	input.Description = strings.TrimSpace(input.Description)
	if input.Title == "" || input.Description == "" {
		middleware.WriteError(w, r, errors.ErrInvalidInput)
		return
	}

	place, err := h.placeService.UpdatePlace(r.Context(), placeID, userID, input.Title, input.Description)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"place": place})
}

func (h *PlaceHandler) DeletePlace(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		middleware.WriteError(w, r, errors.ErrAuth)
		return
	}
	placeID := mux.Vars(r)["placeId"]

	if err := h.placeService.DeletePlace(r.Context(), placeID, userID); err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Deleted place."})
}
