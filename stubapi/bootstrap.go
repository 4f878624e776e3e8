package stubapi

import (
	"github.com/nlouis56/convivio-web/authapi"
	"github.com/nlouis56/convivio-web/events"
	"github.com/nlouis56/convivio-web/places"
	"github.com/nlouis56/convivio-web/users"
	"github.com/pkg/errors"
)

// CreateUser stores a new active user with the given roles. It does not
// check for duplicate usernames.
func (s *Server) CreateUser(req authapi.RegistrationRequest, roles ...string) (*users.User, error) {
	hash, err := users.HashPassword(req.Password)
	if err != nil {
		return nil, errors.Wrap(err, "failed to hash password")
	}

	user := &users.User{
		Username:     req.Username,
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Roles:        append([]string(nil), roles...),
		PasswordHash: hash,
		Active:       true,
		DateJoined:   s.now().UTC(),
	}
	if err := s.users.Upsert(user); err != nil {
		return nil, errors.Wrapf(err, "failed to store user %q", req.Username)
	}
	s.logger.Info().Str("username", user.Username).Strs("roles", user.Roles).Msg("Created user")
	return user, nil
}

// SeedUser creates username unless it already exists, for demos and tests.
func (s *Server) SeedUser(username, email, password string, roles ...string) (*users.User, error) {
	if existing, err := s.users.GetByUsername(username); err == nil {
		return existing, nil
	}
	if len(roles) == 0 {
		roles = []string{users.RoleUser}
	}
	return s.CreateUser(authapi.RegistrationRequest{
		Username: username,
		Email:    email,
		Password: password,
	}, roles...)
}

// SeedPlace stores a place owned by creatorID without validating it.
func (s *Server) SeedPlace(req places.CreateRequest, creatorID string) (*places.Place, error) {
	place := places.NewPlace(req, creatorID)
	if err := s.places.Upsert(place); err != nil {
		return nil, errors.Wrapf(err, "failed to store place %q", req.Name)
	}
	return place, nil
}

// SeedEvent stores an event at placeID owned by creatorID without
// validating it. The place must exist.
func (s *Server) SeedEvent(req events.CreateRequest, placeID, creatorID string) (*events.Event, error) {
	if _, err := s.places.GetByID(placeID); err != nil {
		return nil, errors.Wrapf(err, "unknown place %q", placeID)
	}
	event := events.NewEvent(req, placeID, creatorID)
	if err := s.events.Upsert(event); err != nil {
		return nil, errors.Wrapf(err, "failed to store event %q", req.Title)
	}
	return event, nil
}
