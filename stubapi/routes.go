package stubapi

import (
	"net/http"

	"github.com/nlouis56/convivio-web/events"
	"github.com/nlouis56/convivio-web/internal/metrics"
	"github.com/nlouis56/convivio-web/users"
)

func (s *Server) initRoutes() {
	// AUTH
	s.RegisterRouteFunc("POST "+RouteAuthRegister, ChainMiddleware(s.RegisterHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc("POST "+RouteAuthLogin, ChainMiddleware(s.LoginHandler(), s.APIMiddleware()...))

	// USERS
	s.RegisterRouteFunc("GET "+RouteUsers, ChainMiddleware(s.ListUsersHandler(), s.APIMiddleware(s.RequireAuth(), s.RequireRole(users.RoleAdmin))...))
	s.RegisterRouteFunc("GET "+RouteUsersMe, ChainMiddleware(s.MeHandler(), s.APIMiddleware(s.RequireAuth())...))
	s.RegisterRouteFunc("GET "+RouteUserByID, ChainMiddleware(s.GetUserHandler(), s.APIMiddleware(s.RequireAuth())...))
	s.RegisterRouteFunc("PUT "+RouteUserByID, ChainMiddleware(s.UpdateUserHandler(), s.APIMiddleware(s.RequireAuth(), s.RequireSelfOrRole(users.RoleAdmin))...))
	s.RegisterRouteFunc("DELETE "+RouteUserByID, ChainMiddleware(s.DeactivateUserHandler(), s.APIMiddleware(s.RequireAuth(), s.RequireSelfOrRole(users.RoleAdmin))...))
	s.RegisterRouteFunc("PATCH "+RouteUserRoles, ChainMiddleware(s.AddRoleHandler(), s.APIMiddleware(s.RequireAuth(), s.RequireRole(users.RoleAdmin))...))
	s.RegisterRouteFunc("DELETE "+RouteUserRoles, ChainMiddleware(s.RemoveRoleHandler(), s.APIMiddleware(s.RequireAuth(), s.RequireRole(users.RoleAdmin))...))

	// PLACES
	creator := func() []Middleware { return s.APIMiddleware(s.RequireAuth(), s.RequireRole(users.RoleEventCreator)) }
	s.RegisterRouteFunc("GET "+RoutePlaces, ChainMiddleware(s.ListPlacesHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc("GET "+RoutePlacesNear, ChainMiddleware(s.NearPlacesHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc("GET "+RoutePlacesTop, ChainMiddleware(s.TopRatedPlacesHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc("GET "+RoutePlaceByID, ChainMiddleware(s.GetPlaceHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc("POST "+RoutePlaces, ChainMiddleware(s.CreatePlaceHandler(), creator()...))
	s.RegisterRouteFunc("PUT "+RoutePlaceByID, ChainMiddleware(s.UpdatePlaceHandler(), creator()...))
	s.RegisterRouteFunc("DELETE "+RoutePlaceByID, ChainMiddleware(s.DeletePlaceHandler(), creator()...))

	// EVENTS
	s.RegisterRouteFunc("GET "+RouteEvents, ChainMiddleware(s.ListEventsHandler(), s.APIMiddleware(s.OptionalAuth())...))
	s.RegisterRouteFunc("GET "+RouteEventsUpcoming, ChainMiddleware(s.EventListingHandler(events.Upcoming), s.APIMiddleware()...))
	s.RegisterRouteFunc("GET "+RouteEventsPast, ChainMiddleware(s.EventListingHandler(events.Past), s.APIMiddleware()...))
	s.RegisterRouteFunc("GET "+RouteEventsOngoing, ChainMiddleware(s.EventListingHandler(events.Ongoing), s.APIMiddleware()...))
	s.RegisterRouteFunc("GET "+RouteEventsAvailable, ChainMiddleware(s.EventListingHandler(events.Joinable), s.APIMiddleware()...))
	s.RegisterRouteFunc("GET "+RouteEventsDateRange, ChainMiddleware(s.EventsBetweenHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc("GET "+RouteEventsPopular, ChainMiddleware(s.PopularEventsHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc("GET "+RouteEventByID, ChainMiddleware(s.GetEventHandler(), s.APIMiddleware(s.OptionalAuth())...))
	s.RegisterRouteFunc("POST "+RouteEvents, ChainMiddleware(s.CreateEventHandler(), creator()...))
	s.RegisterRouteFunc("PUT "+RouteEventByID, ChainMiddleware(s.UpdateEventHandler(), creator()...))
	s.RegisterRouteFunc("PATCH "+RouteEventPublish, ChainMiddleware(s.SetPublishedHandler(true), creator()...))
	s.RegisterRouteFunc("PATCH "+RouteEventUnpublish, ChainMiddleware(s.SetPublishedHandler(false), creator()...))
	s.RegisterRouteFunc("DELETE "+RouteEventByID, ChainMiddleware(s.DeleteEventHandler(), creator()...))
	s.RegisterRouteFunc("POST "+RouteEventParticipants, ChainMiddleware(s.JoinEventHandler(), s.APIMiddleware(s.RequireAuth())...))
	s.RegisterRouteFunc("DELETE "+RouteEventParticipants, ChainMiddleware(s.LeaveEventHandler(), s.APIMiddleware(s.RequireAuth())...))

	// REVIEWS
	s.RegisterRouteFunc("GET "+RouteReviewByID, ChainMiddleware(s.GetReviewHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc("PUT "+RouteReviewByID, ChainMiddleware(s.UpdateReviewHandler(), s.APIMiddleware(s.RequireAuth())...))
	s.RegisterRouteFunc("DELETE "+RouteReviewByID, ChainMiddleware(s.DeleteReviewHandler(), s.APIMiddleware(s.RequireAuth())...))
	s.RegisterRouteFunc("GET "+RouteUserReviews, ChainMiddleware(s.UserReviewsHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc("GET "+RoutePlaceReviews, ChainMiddleware(s.PlaceReviewsHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc("POST "+RoutePlaceReviews, ChainMiddleware(s.CreatePlaceReviewHandler(), s.APIMiddleware(s.RequireAuth())...))
	s.RegisterRouteFunc("GET "+RouteEventReviews, ChainMiddleware(s.EventReviewsHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc("POST "+RouteEventReviews, ChainMiddleware(s.CreateEventReviewHandler(), s.APIMiddleware(s.RequireAuth())...))

	// OPERATIONAL
	s.RegisterRouteHandler("GET "+RouteMetrics, metrics.Handler())
	s.RegisterRouteFunc("GET "+RouteHealth, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
}
