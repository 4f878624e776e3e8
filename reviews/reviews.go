// Package reviews holds ratings of places and events and a client for the
// reviews API.
package reviews

import "time"

const (
	MinRating = 1
	MaxRating = 5
)

type Review struct {
	ID        string    `json:"id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	AuthorID  string    `json:"authorId"`
	PlaceID   string    `json:"placeId,omitempty"` // exactly one of PlaceID and EventID is set
	EventID   string    `json:"eventId,omitempty"`
}

type CreateRequest struct {
	Rating  int    `json:"rating" validate:"min=1,max=5"`
	Comment string `json:"comment" validate:"required,max=1000"`
}

// Target names what a review is about.
type Target struct {
	PlaceID string
	EventID string
}

func (t Target) matches(r *Review) bool {
	return r.PlaceID == t.PlaceID && r.EventID == t.EventID
}

// NewReview builds an unsaved review of target by authorID.
func NewReview(req CreateRequest, target Target, authorID string, now time.Time) *Review {
	return &Review{
		Rating:    req.Rating,
		Comment:   req.Comment,
		CreatedAt: now,
		UpdatedAt: now,
		AuthorID:  authorID,
		PlaceID:   target.PlaceID,
		EventID:   target.EventID,
	}
}

// Edit replaces the rating and comment of r.
func (req CreateRequest) Edit(r *Review, now time.Time) {
	r.Rating = req.Rating
	r.Comment = req.Comment
	r.UpdatedAt = now
}

// Of keeps the reviews of target.
func Of(all []*Review, target Target) []*Review {
	var out []*Review
	for _, r := range all {
		if target.matches(r) {
			out = append(out, r)
		}
	}
	return out
}

func ByAuthor(all []*Review, authorID string) []*Review {
	var out []*Review
	for _, r := range all {
		if r.AuthorID == authorID {
			out = append(out, r)
		}
	}
	return out
}

// Average is the mean rating of all, zero when there are none.
func Average(all []*Review) float64 {
	if len(all) == 0 {
		return 0
	}
	sum := 0
	for _, r := range all {
		sum += r.Rating
	}
	return float64(sum) / float64(len(all))
}
