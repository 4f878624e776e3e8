// Package guard decides whether a route may be entered by the current
// session. Evaluate is a pure function; Guard adds the route table lookup and
// decision metrics on top of it.
package guard

import (
	"strings"

	"github.com/nlouis56/convivio-web/internal/metrics"
)

const (
	LoginPath        = "/login"
	UnauthorizedPath = "/unauthorized"
)

// Identity is the view of a session the guard needs. Both sessions.State and
// *sessions.Service satisfy it.
type Identity interface {
	IsLoggedIn() bool
	HasRole(role string) bool
}

// Requirement is the access metadata attached to a route.
type Requirement struct {
	RequiresAuth bool   `yaml:"requiresAuth"`
	RequiredRole string `yaml:"role"`
}

// Protected reports whether the requirement restricts access at all. A role
// requirement implies authentication.
func (r *Requirement) Protected() bool {
	return r != nil && (r.RequiresAuth || r.RequiredRole != "")
}

// Decision is either Allow or a redirect target.
type Decision struct {
	RedirectTo string
}

// Allow is the decision that lets navigation proceed.
var Allow = Decision{}

// Allowed reports whether navigation may proceed.
func (d Decision) Allowed() bool {
	return d.RedirectTo == ""
}

func (d Decision) String() string {
	if d.Allowed() {
		return "allow"
	}
	return "redirect " + d.RedirectTo
}

// RedirectTo returns a redirect decision.
func RedirectTo(path string) Decision {
	return Decision{RedirectTo: path}
}

// Evaluate decides whether identity may enter a route guarded by req.
// attemptedURL is sent back to the login page as returnUrl.
func Evaluate(identity Identity, req *Requirement, attemptedURL string) Decision {
	if !req.Protected() {
		return Allow
	}
	if identity == nil || !identity.IsLoggedIn() {
		return RedirectTo(LoginPath + "?returnUrl=" + escapeReturnURL(attemptedURL))
	}
	if req.RequiredRole != "" && !identity.HasRole(req.RequiredRole) {
		return RedirectTo(UnauthorizedPath)
	}
	return Allow
}

// The return URL is itself a path with an optional query; only the
// characters that would break out of the returnUrl parameter are escaped.
var returnURLEscaper = strings.NewReplacer(
	"%", "%25",
	"&", "%26",
	"#", "%23",
	"+", "%2B",
	" ", "%20",
)

func escapeReturnURL(u string) string {
	return returnURLEscaper.Replace(u)
}

// Guard checks URLs against a route table.
type Guard struct {
	routes *RouteTable
}

// New returns a Guard over routes. A nil table means DefaultRoutes.
func New(routes *RouteTable) *Guard {
	if routes == nil {
		routes = DefaultRoutes()
	}
	return &Guard{routes: routes}
}

// Check matches url against the route table and evaluates the matched
// route's requirement. Unknown URLs are unprotected.
func (g *Guard) Check(identity Identity, url string) Decision {
	var req *Requirement
	if route, ok := g.routes.Match(url); ok {
		req = &route.Requirement
	}

	d := Evaluate(identity, req, url)
	metrics.RecordGuardDecision(decisionLabel(d))
	return d
}

func decisionLabel(d Decision) string {
	switch {
	case d.Allowed():
		return "allow"
	case d.RedirectTo == UnauthorizedPath:
		return "unauthorized"
	default:
		return "login"
	}
}
