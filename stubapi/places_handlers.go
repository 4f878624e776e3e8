package stubapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/nlouis56/convivio-web/authapi"
	apperrors "github.com/nlouis56/convivio-web/internal/errors"
	"github.com/nlouis56/convivio-web/places"
)

const (
	msgPlaceNotFound  = "Place not found"
	msgPlaceHasEvents = "Place still hosts events"

	defaultNearKm  = 10.0
	defaultTopSize = 10
)

// ListPlacesHandler lists every place, or those of ?category= only.
func (s *Server) ListPlacesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		all, ok := s.allPlaces(w)
		if !ok {
			return
		}
		if category := r.URL.Query().Get("category"); category != "" {
			all = places.InCategory(all, category)
		}
		writeJSON(w, http.StatusOK, nonNil(all))
	}
}

func (s *Server) NearPlacesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		longitude, errLng := strconv.ParseFloat(query.Get("longitude"), 64)
		latitude, errLat := strconv.ParseFloat(query.Get("latitude"), 64)
		if errLng != nil || errLat != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "longitude and latitude are required numbers")
			return
		}
		distance := defaultNearKm
		if raw := query.Get("distance"); raw != "" {
			d, err := strconv.ParseFloat(raw, 64)
			if err != nil || d < 0 {
				writeError(w, http.StatusBadRequest, "invalid_request", "distance must be a non-negative number")
				return
			}
			distance = d
		}

		all, ok := s.allPlaces(w)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, nonNil(places.Near(all, longitude, latitude, distance)))
	}
}

func (s *Server) TopRatedPlacesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := queryInt(r, "limit", defaultTopSize)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
			return
		}
		all, ok := s.allPlaces(w)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, nonNil(places.TopRated(all, limit)))
	}
}

func (s *Server) GetPlaceHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		place, ok := s.lookupPlace(w, r.PathValue("id"))
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, place)
	}
}

func (s *Server) CreatePlaceHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := decodeValid[places.CreateRequest](s, w, r)
		if !ok {
			return
		}
		user, _ := userFromContext(r.Context())
		place := places.NewPlace(req, user.ID)
		s.savePlace(w, place, http.StatusCreated)
	}
}

// UpdatePlaceHandler replaces the editable fields; only the creator or an
// admin may do it.
func (s *Server) UpdatePlaceHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := decodeValid[places.CreateRequest](s, w, r)
		if !ok {
			return
		}
		place, ok := s.lookupPlace(w, r.PathValue("id"))
		if !ok {
			return
		}
		user, _ := userFromContext(r.Context())
		if !canManage(user, place.CreatorID) {
			writeError(w, http.StatusForbidden, "forbidden", "Not allowed to modify this place")
			return
		}
		req.Replace(place)
		s.savePlace(w, place, http.StatusOK)
	}
}

// DeletePlaceHandler refuses to orphan events hosted at the place.
func (s *Server) DeletePlaceHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		place, ok := s.lookupPlace(w, r.PathValue("id"))
		if !ok {
			return
		}
		user, _ := userFromContext(r.Context())
		if !canManage(user, place.CreatorID) {
			writeError(w, http.StatusForbidden, "forbidden", "Not allowed to modify this place")
			return
		}

		hosted, ok := s.allEvents(w)
		if !ok {
			return
		}
		for _, e := range hosted {
			if e.PlaceID == place.ID {
				writeError(w, http.StatusConflict, "conflict", msgPlaceHasEvents)
				return
			}
		}

		if err := s.places.Delete(place.ID); err != nil {
			s.logger.Err(err).Str("id", place.ID).Msg("Failed to delete place")
			writeError(w, http.StatusInternalServerError, "internal_error", "Failed to delete place")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) allPlaces(w http.ResponseWriter) ([]*places.Place, bool) {
	all, err := s.places.List()
	if err != nil {
		s.logger.Err(err).Msg("Failed to list places")
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to list places")
		return nil, false
	}
	return all, true
}

func (s *Server) lookupPlace(w http.ResponseWriter, id string) (*places.Place, bool) {
	place, err := s.places.GetByID(id)
	if err != nil {
		if !apperrors.Is(err, apperrors.ErrNotFound) {
			s.logger.Err(err).Str("id", id).Msg("Failed to load place")
		}
		writeError(w, http.StatusNotFound, "not_found", msgPlaceNotFound)
		return nil, false
	}
	return place, true
}

func (s *Server) savePlace(w http.ResponseWriter, place *places.Place, status int) {
	if err := s.places.Upsert(place); err != nil {
		s.logger.Err(err).Str("id", place.ID).Msg("Failed to save place")
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to save place")
		return
	}
	writeJSON(w, status, place)
}

// decodeValid reads a JSON body of type T and runs it through the validator,
// answering 400 itself when either step fails.
func decodeValid[T any](s *Server, w http.ResponseWriter, r *http.Request) (T, bool) {
	var req T
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", msgInvalidBody)
		return req, false
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", authapi.FormatValidationErrors(err))
		return req, false
	}
	return req, true
}

// nonNil keeps empty listings encoding as [] instead of null.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
