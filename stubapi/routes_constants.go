package stubapi

import (
	"github.com/nlouis56/convivio-web/authapi"
	"github.com/nlouis56/convivio-web/events"
	"github.com/nlouis56/convivio-web/places"
	"github.com/nlouis56/convivio-web/reviews"
	"github.com/nlouis56/convivio-web/users"
)

// Route path constants
const (
	// Auth Routes
	RouteAuthRegister = authapi.RouteRegister
	RouteAuthLogin    = authapi.RouteLogin

	// User Routes
	RouteUsers     = users.RouteUsers
	RouteUsersMe   = users.RouteMe
	RouteUserByID  = users.RouteUserByID
	RouteUserRoles = users.RouteUserRole

	// Place Routes
	RoutePlaces       = places.RoutePlaces
	RoutePlaceByID    = places.RoutePlaceByID
	RoutePlacesNear   = places.RouteNear
	RoutePlacesTop    = places.RouteTopRated
	RoutePlaceReviews = reviews.RoutePlaceReviews

	// Event Routes
	RouteEvents            = events.RouteEvents
	RouteEventByID         = events.RouteEventByID
	RouteEventsUpcoming    = events.RouteUpcoming
	RouteEventsPast        = events.RoutePast
	RouteEventsOngoing     = events.RouteOngoing
	RouteEventsDateRange   = events.RouteDateRange
	RouteEventsAvailable   = events.RouteAvailable
	RouteEventsPopular     = events.RoutePopular
	RouteEventPublish      = events.RoutePublish
	RouteEventUnpublish    = events.RouteUnpublish
	RouteEventParticipants = events.RouteParticipants
	RouteEventReviews      = reviews.RouteEventReviews

	// Review Routes
	RouteReviewByID  = reviews.RouteReviewByID
	RouteUserReviews = reviews.RouteUserReviews

	// Operational Routes
	RouteMetrics = "/metrics"
	RouteHealth  = "/healthz"
)
