package sessions

import (
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/nlouis56/convivio-web/authapi"
	"github.com/nlouis56/convivio-web/credentials"
)

// Session is the authenticated identity of the current client.
type Session struct {
	Token    string   // Opaque bearer token sent with API requests
	UserID   string   // Remote user ID
	Username string   // Login name
	Email    string   // Email address
	Roles    []string // Role names such as EVENT_CREATOR or ADMIN
}

// HasRole reports whether role is one of the session's roles.
func (s Session) HasRole(role string) bool {
	return slices.Contains(s.Roles, role)
}

// ExpiresAt returns the exp claim of the token when the token is a JWT. The
// token stays opaque to the client: nothing here verifies it, and an expired
// token does not end the session.
func (s Session) ExpiresAt() (time.Time, bool) {
	token, _, err := jwt.NewParser().ParseUnverified(s.Token, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, false
	}
	exp, err := token.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

func (s Session) clone() Session {
	s.Roles = slices.Clone(s.Roles)
	return s
}

func (s Session) profile() credentials.Profile {
	return credentials.Profile{
		ID:       s.UserID,
		Username: s.Username,
		Email:    s.Email,
		Roles:    slices.Clone(s.Roles),
	}
}

func fromRecord(rec *credentials.Record) Session {
	return Session{
		Token:    rec.Token,
		UserID:   rec.Profile.ID,
		Username: rec.Profile.Username,
		Email:    rec.Profile.Email,
		Roles:    slices.Clone(rec.Profile.Roles),
	}
}

func fromLogin(resp *authapi.LoginResponse) Session {
	return Session{
		Token:    resp.Token,
		UserID:   resp.ID,
		Username: resp.Username,
		Email:    resp.Email,
		Roles:    slices.Clone(resp.Roles),
	}
}

type Status int

const (
	Anonymous Status = iota
	Authenticated
)

func (s Status) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "anonymous"
}

// State is an immutable snapshot of the session service. The zero value is
// Anonymous.
type State struct {
	session *Session
}

// AnonymousState returns the logged-out state.
func AnonymousState() State {
	return State{}
}

// AuthenticatedState returns the logged-in state for session. A session
// without a token cannot be logged in, so it panics on an empty token.
func AuthenticatedState(session Session) State {
	if session.Token == "" {
		panic("sessions: authenticated state requires a token")
	}
	s := session.clone()
	return State{session: &s}
}

func (st State) Status() Status {
	if st.session == nil {
		return Anonymous
	}
	return Authenticated
}

func (st State) IsLoggedIn() bool {
	return st.session != nil
}

// HasRole is false for the anonymous state, whatever the role.
func (st State) HasRole(role string) bool {
	return st.session != nil && st.session.HasRole(role)
}

// Session returns a copy of the current session, if any.
func (st State) Session() (Session, bool) {
	if st.session == nil {
		return Session{}, false
	}
	return st.session.clone(), true
}
