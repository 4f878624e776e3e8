package transport

import (
	"net/http"

	"github.com/nlouis56/convivio-web/sessions"
	"golang.org/x/oauth2"
)

// SessionSource yields the current session, if any. *sessions.Service
// satisfies it.
type SessionSource interface {
	CurrentSession() (sessions.Session, bool)
}

// Authenticator is an http.RoundTripper that adds the current session's
// bearer token to every request. Requests made while logged out go through
// untouched. It never retries: a 401 from the API reaches the caller as is.
type Authenticator struct {
	Sessions SessionSource
	Base     http.RoundTripper // nil means http.DefaultTransport
}

var _ http.RoundTripper = (*Authenticator)(nil)

func (a *Authenticator) RoundTrip(req *http.Request) (*http.Response, error) {
	base := a.base()

	session, ok := a.Sessions.CurrentSession()
	if !ok || session.Token == "" {
		return base.RoundTrip(req)
	}

	t := &oauth2.Transport{
		Source: oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: session.Token,
			TokenType:   "Bearer",
		}),
		Base: base,
	}
	return t.RoundTrip(req)
}

func (a *Authenticator) base() http.RoundTripper {
	if a.Base != nil {
		return a.Base
	}
	return http.DefaultTransport
}
