package stubapi

import (
	"net/http"

	"github.com/nlouis56/convivio-web/reviews"
	"github.com/nlouis56/convivio-web/users"
)

const (
	msgReviewNotFound   = "Review not found"
	msgAlreadyReviewed  = "You already reviewed this"
	msgNotAParticipant  = "Only participants can review an event once it has started"
	msgReviewNotAllowed = "Not allowed to modify this review"
)

func (s *Server) GetReviewHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		review, err := s.reviews.GetByID(r.PathValue("id"))
		if err != nil {
			writeError(w, http.StatusNotFound, "not_found", msgReviewNotFound)
			return
		}
		writeJSON(w, http.StatusOK, review)
	}
}

func (s *Server) UserReviewsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		all, ok := s.allReviews(w)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, nonNil(reviews.ByAuthor(all, r.PathValue("id"))))
	}
}

func (s *Server) PlaceReviewsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		place, ok := s.lookupPlace(w, r.PathValue("id"))
		if !ok {
			return
		}
		s.listReviews(w, reviews.Target{PlaceID: place.ID})
	}
}

func (s *Server) EventReviewsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		event, ok := s.lookupEvent(w, r)
		if !ok {
			return
		}
		s.listReviews(w, reviews.Target{EventID: event.ID})
	}
}

// CreatePlaceReviewHandler allows one review per user and place.
func (s *Server) CreatePlaceReviewHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := decodeValid[reviews.CreateRequest](s, w, r)
		if !ok {
			return
		}
		place, ok := s.lookupPlace(w, r.PathValue("id"))
		if !ok {
			return
		}
		user, _ := userFromContext(r.Context())
		s.createReview(w, req, reviews.Target{PlaceID: place.ID}, user)
	}
}

// CreateEventReviewHandler is open to participants of a started event.
func (s *Server) CreateEventReviewHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := decodeValid[reviews.CreateRequest](s, w, r)
		if !ok {
			return
		}
		event, ok := s.lookupEvent(w, r)
		if !ok {
			return
		}
		user, _ := userFromContext(r.Context())
		if !event.HasParticipant(user.ID) || event.StartDateTime.After(s.now()) {
			writeError(w, http.StatusForbidden, "forbidden", msgNotAParticipant)
			return
		}
		s.createReview(w, req, reviews.Target{EventID: event.ID}, user)
	}
}

// UpdateReviewHandler lets the author or an admin rewrite a review.
func (s *Server) UpdateReviewHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := decodeValid[reviews.CreateRequest](s, w, r)
		if !ok {
			return
		}

		s.reviewLock.Lock()
		defer s.reviewLock.Unlock()

		review, ok := s.ownedReview(w, r)
		if !ok {
			return
		}
		req.Edit(review, s.now().UTC())
		if !s.saveReview(w, review) {
			return
		}
		writeJSON(w, http.StatusOK, review)
	}
}

func (s *Server) DeleteReviewHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.reviewLock.Lock()
		defer s.reviewLock.Unlock()

		review, ok := s.ownedReview(w, r)
		if !ok {
			return
		}
		if err := s.reviews.Delete(review.ID); err != nil {
			s.logger.Err(err).Str("id", review.ID).Msg("Failed to delete review")
			writeError(w, http.StatusInternalServerError, "internal_error", "Failed to delete review")
			return
		}
		s.refreshPlaceRating(review.PlaceID)
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) createReview(w http.ResponseWriter, req reviews.CreateRequest, target reviews.Target, author *users.User) {
	s.reviewLock.Lock()
	defer s.reviewLock.Unlock()

	all, ok := s.allReviews(w)
	if !ok {
		return
	}
	if len(reviews.ByAuthor(reviews.Of(all, target), author.ID)) > 0 {
		writeError(w, http.StatusConflict, "conflict", msgAlreadyReviewed)
		return
	}

	review := reviews.NewReview(req, target, author.ID, s.now().UTC())
	if !s.saveReview(w, review) {
		return
	}
	writeJSON(w, http.StatusCreated, review)
}

// saveReview stores review and refreshes the rating of its place, if any.
// Callers hold reviewLock.
func (s *Server) saveReview(w http.ResponseWriter, review *reviews.Review) bool {
	if err := s.reviews.Upsert(review); err != nil {
		s.logger.Err(err).Msg("Failed to save review")
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to save review")
		return false
	}
	s.refreshPlaceRating(review.PlaceID)
	return true
}

// refreshPlaceRating recomputes the average rating shown on a place.
// Failures are logged only: the review itself is already stored.
func (s *Server) refreshPlaceRating(placeID string) {
	if placeID == "" {
		return
	}
	all, err := s.reviews.List()
	if err != nil {
		s.logger.Err(err).Str("place", placeID).Msg("Failed to load reviews for rating")
		return
	}
	place, err := s.places.GetByID(placeID)
	if err != nil {
		s.logger.Err(err).Str("place", placeID).Msg("Failed to load place for rating")
		return
	}
	of := reviews.Of(all, reviews.Target{PlaceID: placeID})
	place.AverageRating = reviews.Average(of)
	place.ReviewCount = len(of)
	if err := s.places.Upsert(place); err != nil {
		s.logger.Err(err).Str("place", placeID).Msg("Failed to save place rating")
	}
}

func (s *Server) ownedReview(w http.ResponseWriter, r *http.Request) (*reviews.Review, bool) {
	review, err := s.reviews.GetByID(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found", msgReviewNotFound)
		return nil, false
	}
	user, _ := userFromContext(r.Context())
	if !canManage(user, review.AuthorID) {
		writeError(w, http.StatusForbidden, "forbidden", msgReviewNotAllowed)
		return nil, false
	}
	return review, true
}

func (s *Server) listReviews(w http.ResponseWriter, target reviews.Target) {
	all, ok := s.allReviews(w)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, nonNil(reviews.Of(all, target)))
}

func (s *Server) allReviews(w http.ResponseWriter) ([]*reviews.Review, bool) {
	all, err := s.reviews.List()
	if err != nil {
		s.logger.Err(err).Msg("Failed to list reviews")
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to list reviews")
		return nil, false
	}
	return all, true
}
