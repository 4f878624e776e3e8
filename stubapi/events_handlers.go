package stubapi

import (
	"net/http"
	"time"

	"github.com/nlouis56/convivio-web/events"
	apperrors "github.com/nlouis56/convivio-web/internal/errors"
	"github.com/nlouis56/convivio-web/users"
)

const (
	msgEventNotFound = "Event not found"
	msgUnknownPlace  = "placeId must name an existing place"
)

// ListEventsHandler lists published events, narrowed by the optional
// placeId, creatorId and participantId query parameters. Creators asking
// for their own events also get the unpublished ones.
func (s *Server) ListEventsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		all, ok := s.allEvents(w)
		if !ok {
			return
		}

		query := r.URL.Query()
		user, _ := userFromContext(r.Context())
		creatorID := query.Get("creatorId")
		if creatorID == "" || !canManage(user, creatorID) {
			all = events.Filter(all, events.Published)
		}
		if creatorID != "" {
			all = events.Filter(all, events.CreatedBy(creatorID))
		}
		if placeID := query.Get("placeId"); placeID != "" {
			all = events.Filter(all, events.AtPlace(placeID))
		}
		if participantID := query.Get("participantId"); participantID != "" {
			all = events.Filter(all, events.JoinedBy(participantID))
		}
		writeJSON(w, http.StatusOK, nonNil(all))
	}
}

// EventListingHandler lists the published events matching the predicate
// built for the current time.
func (s *Server) EventListingHandler(match func(now time.Time) func(*events.Event) bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		all, ok := s.publishedEvents(w)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, nonNil(events.Filter(all, match(s.now()))))
	}
}

// EventsBetweenHandler takes RFC 3339 startDate and endDate parameters.
func (s *Server) EventsBetweenHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		start, errStart := time.Parse(time.RFC3339, query.Get("startDate"))
		end, errEnd := time.Parse(time.RFC3339, query.Get("endDate"))
		if errStart != nil || errEnd != nil || !end.After(start) {
			writeError(w, http.StatusBadRequest, "invalid_request", "startDate and endDate must be RFC 3339 times with endDate after startDate")
			return
		}

		all, ok := s.publishedEvents(w)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, nonNil(events.Filter(all, events.Overlapping(start, end))))
	}
}

func (s *Server) PopularEventsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := queryInt(r, "limit", defaultTopSize)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
			return
		}
		all, ok := s.publishedEvents(w)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, nonNil(events.Popular(all, limit)))
	}
}

// GetEventHandler hides unpublished events from everyone but their creator
// and admins.
func (s *Server) GetEventHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		event, ok := s.lookupEvent(w, r)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, event)
	}
}

// CreateEventHandler needs a placeId query parameter naming an existing place.
func (s *Server) CreateEventHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := decodeValid[events.CreateRequest](s, w, r)
		if !ok {
			return
		}
		placeID := r.URL.Query().Get("placeId")
		if _, err := s.places.GetByID(placeID); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", msgUnknownPlace)
			return
		}

		user, _ := userFromContext(r.Context())
		event := events.NewEvent(req, placeID, user.ID)
		if err := s.events.Upsert(event); err != nil {
			s.logger.Err(err).Msg("Failed to save event")
			writeError(w, http.StatusInternalServerError, "internal_error", "Failed to save event")
			return
		}
		s.logger.Info().Str("id", event.ID).Str("creator", user.Username).Msg("Created event")
		writeJSON(w, http.StatusCreated, event)
	}
}

func (s *Server) UpdateEventHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := decodeValid[events.CreateRequest](s, w, r)
		if !ok {
			return
		}
		s.editEvent(w, r, func(e *events.Event) error {
			req.Replace(e)
			return nil
		})
	}
}

func (s *Server) SetPublishedHandler(published bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.editEvent(w, r, func(e *events.Event) error {
			e.Published = published
			return nil
		})
	}
}

func (s *Server) DeleteEventHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		event, ok := s.lookupEvent(w, r)
		if !ok {
			return
		}
		user, _ := userFromContext(r.Context())
		if !canManage(user, event.CreatorID) {
			writeError(w, http.StatusForbidden, "forbidden", "Not allowed to modify this event")
			return
		}
		if err := s.events.Delete(event.ID); err != nil {
			s.logger.Err(err).Str("id", event.ID).Msg("Failed to delete event")
			writeError(w, http.StatusInternalServerError, "internal_error", "Failed to delete event")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// JoinEventHandler answers 409 when the event is full or over.
func (s *Server) JoinEventHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, _ := userFromContext(r.Context())
		s.changeParticipants(w, r, func(e *events.Event) error {
			return e.Join(user.ID, s.now())
		})
	}
}

func (s *Server) LeaveEventHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, _ := userFromContext(r.Context())
		s.changeParticipants(w, r, func(e *events.Event) error {
			e.Leave(user.ID)
			return nil
		})
	}
}

func (s *Server) changeParticipants(w http.ResponseWriter, r *http.Request, fn func(*events.Event) error) {
	event, err := s.events.Update(r.PathValue("id"), func(e *events.Event) error {
		if !e.Published {
			return apperrors.ErrNotFound
		}
		return fn(e)
	})
	s.respondEventUpdate(w, event, err)
}

// editEvent applies fn for the event's creator or an admin.
func (s *Server) editEvent(w http.ResponseWriter, r *http.Request, fn func(*events.Event) error) {
	user, _ := userFromContext(r.Context())
	event, err := s.events.Update(r.PathValue("id"), func(e *events.Event) error {
		if !canManage(user, e.CreatorID) {
			return apperrors.ErrForbidden
		}
		return fn(e)
	})
	s.respondEventUpdate(w, event, err)
}

func (s *Server) respondEventUpdate(w http.ResponseWriter, event *events.Event, err error) {
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, event)
	case apperrors.Is(err, apperrors.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", msgEventNotFound)
	case apperrors.Is(err, apperrors.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden", "Not allowed to modify this event")
	case apperrors.Is(err, events.ErrEventFull):
		writeError(w, http.StatusConflict, "conflict", "Event is full")
	case apperrors.Is(err, events.ErrEventEnded):
		writeError(w, http.StatusConflict, "conflict", "Event has ended")
	default:
		s.logger.Err(err).Msg("Failed to update event")
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to update event")
	}
}

func (s *Server) allEvents(w http.ResponseWriter) ([]*events.Event, bool) {
	all, err := s.events.List()
	if err != nil {
		s.logger.Err(err).Msg("Failed to list events")
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to list events")
		return nil, false
	}
	return all, true
}

func (s *Server) publishedEvents(w http.ResponseWriter) ([]*events.Event, bool) {
	all, ok := s.allEvents(w)
	if !ok {
		return nil, false
	}
	return events.Filter(all, events.Published), true
}

// lookupEvent loads the {id} event as visible to the caller.
func (s *Server) lookupEvent(w http.ResponseWriter, r *http.Request) (*events.Event, bool) {
	event, err := s.events.GetByID(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found", msgEventNotFound)
		return nil, false
	}
	user, _ := userFromContext(r.Context())
	if !visibleTo(event, user) {
		writeError(w, http.StatusNotFound, "not_found", msgEventNotFound)
		return nil, false
	}
	return event, true
}

// visibleTo reports whether user may see event at all.
func visibleTo(event *events.Event, user *users.User) bool {
	return event.Published || canManage(user, event.CreatorID)
}
