// Package events holds the event model, its listing rules and a client for
// the events API.
package events

import (
	"slices"
	"time"

	apperrors "github.com/nlouis56/convivio-web/internal/errors"
)

var (
	ErrEventFull  = apperrors.Wrapf(apperrors.ErrConflict, "event is full")
	ErrEventEnded = apperrors.Wrapf(apperrors.ErrConflict, "event has ended")
)

type Event struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	StartDateTime   time.Time `json:"startDateTime"`
	EndDateTime     time.Time `json:"endDateTime"`
	MaxParticipants int       `json:"maxParticipants"`
	Participants    []string  `json:"participants,omitempty"` // user ids
	Published       bool      `json:"published"`
	ImageURL        string    `json:"imageUrl,omitempty"`
	PlaceID         string    `json:"placeId"`
	CreatorID       string    `json:"creatorId"`
}

// CreateRequest is the body of an event creation or full update. The place
// is passed separately, as a query parameter.
type CreateRequest struct {
	Title           string    `json:"title" validate:"required,max=120"`
	Description     string    `json:"description" validate:"max=2000"`
	StartDateTime   time.Time `json:"startDateTime" validate:"required"`
	EndDateTime     time.Time `json:"endDateTime" validate:"required,gtfield=StartDateTime"`
	MaxParticipants int       `json:"maxParticipants" validate:"min=1"`
	Published       bool      `json:"published"`
	ImageURL        string    `json:"imageUrl,omitempty" validate:"omitempty,url"`
}

// NewEvent builds an unsaved event at placeID owned by creatorID.
func NewEvent(req CreateRequest, placeID, creatorID string) *Event {
	e := &Event{PlaceID: placeID, CreatorID: creatorID}
	req.Replace(e)
	return e
}

// Replace overwrites every editable field of e with req. Participants stay.
func (req CreateRequest) Replace(e *Event) {
	e.Title = req.Title
	e.Description = req.Description
	e.StartDateTime = req.StartDateTime
	e.EndDateTime = req.EndDateTime
	e.MaxParticipants = req.MaxParticipants
	e.Published = req.Published
	e.ImageURL = req.ImageURL
}

func (e *Event) CurrentParticipants() int {
	return len(e.Participants)
}

func (e *Event) HasParticipant(userID string) bool {
	return slices.Contains(e.Participants, userID)
}

// AvailableSlots is never negative, even if MaxParticipants was lowered
// below the current count.
func (e *Event) AvailableSlots() int {
	return max(e.MaxParticipants-len(e.Participants), 0)
}

// Join adds userID. Joining twice is a no-op.
func (e *Event) Join(userID string, now time.Time) error {
	if e.HasParticipant(userID) {
		return nil
	}
	if !now.Before(e.EndDateTime) {
		return ErrEventEnded
	}
	if e.AvailableSlots() == 0 {
		return ErrEventFull
	}
	e.Participants = append(e.Participants, userID)
	return nil
}

// Leave removes userID and reports whether it was a participant.
func (e *Event) Leave(userID string) bool {
	i := slices.Index(e.Participants, userID)
	if i < 0 {
		return false
	}
	e.Participants = slices.Delete(e.Participants, i, i+1)
	return true
}
