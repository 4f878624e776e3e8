package stubapi_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nlouis56/convivio-web/events"
	"github.com/nlouis56/convivio-web/places"
	"github.com/nlouis56/convivio-web/reviews"
	"github.com/nlouis56/convivio-web/stubapi"
	"github.com/nlouis56/convivio-web/users"
	"github.com/stretchr/testify/require"
)

var bordeauxTheatre = places.CreateRequest{
	Name:      "Grand Theatre",
	Address:   "Place de la Comedie",
	City:      "Bordeaux",
	Category:  "THEATRE",
	Longitude: -0.5743,
	Latitude:  44.8425,
}

func concert(start time.Time, maxParticipants int) events.CreateRequest {
	return events.CreateRequest{
		Title:           "Concert",
		StartDateTime:   start,
		EndDateTime:     start.Add(2 * time.Hour),
		MaxParticipants: maxParticipants,
		Published:       true,
	}
}

type catalogUsers struct {
	alice, bob, creator, admin *users.User
	aliceToken, bobToken       string
	creatorToken, adminToken   string
}

func seedCatalogUsers(t *testing.T, s *stubapi.Server, ts *httptest.Server) catalogUsers {
	t.Helper()
	var cu catalogUsers
	var err error
	cu.alice, err = s.SeedUser("alice", "a@x.com", "secret")
	require.NoError(t, err)
	cu.bob, err = s.SeedUser("bob", "b@x.com", "secret")
	require.NoError(t, err)
	cu.creator, err = s.SeedUser("creator", "c@x.com", "secret", users.RoleUser, users.RoleEventCreator)
	require.NoError(t, err)
	cu.admin, err = s.SeedUser("root", "r@x.com", "secret", users.RoleUser, users.RoleEventCreator, users.RoleAdmin)
	require.NoError(t, err)

	cu.aliceToken = login(t, ts, "alice", "secret").Token
	cu.bobToken = login(t, ts, "bob", "secret").Token
	cu.creatorToken = login(t, ts, "creator", "secret").Token
	cu.adminToken = login(t, ts, "root", "secret").Token
	return cu
}

func decode[T any](t *testing.T, body []byte) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(body, &out), string(body))
	return out
}

func TestPlaceWritesNeedEventCreator(t *testing.T) {
	s, ts := newTestServer(t)
	cu := seedCatalogUsers(t, s, ts)

	status, _ := call(t, http.MethodPost, ts.URL+stubapi.RoutePlaces, "", bordeauxTheatre)
	require.Equal(t, http.StatusUnauthorized, status)

	status, body := call(t, http.MethodPost, ts.URL+stubapi.RoutePlaces, cu.aliceToken, bordeauxTheatre)
	require.Equal(t, http.StatusForbidden, status)
	require.Equal(t, "Role EVENT_CREATOR required", errorMessage(t, body))

	status, body = call(t, http.MethodPost, ts.URL+stubapi.RoutePlaces, cu.creatorToken, places.CreateRequest{Name: "x", Longitude: 200})
	require.Equal(t, http.StatusBadRequest, status)
	require.Contains(t, errorMessage(t, body), "longitude must be at most 180")

	status, body = call(t, http.MethodPost, ts.URL+stubapi.RoutePlaces, cu.creatorToken, bordeauxTheatre)
	require.Equal(t, http.StatusCreated, status, string(body))
	created := decode[places.Place](t, body)
	require.NotEmpty(t, created.ID)
	require.Equal(t, cu.creator.ID, created.CreatorID)

	// reads are public
	status, body = call(t, http.MethodGet, ts.URL+stubapi.RoutePlaces+"?category=theatre", "", nil)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, decode[[]places.Place](t, body), 1)

	status, body = call(t, http.MethodGet, ts.URL+stubapi.RoutePlaces+"?category=bar", "", nil)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "[]\n", string(body))

	renamed := bordeauxTheatre
	renamed.Name = "Opera"
	placeURL := ts.URL + "/api/places/" + created.ID

	// a second creator cannot touch it, an admin can
	_, err := s.SeedUser("other", "o@x.com", "secret", users.RoleUser, users.RoleEventCreator)
	require.NoError(t, err)
	otherToken := login(t, ts, "other", "secret").Token
	status, _ = call(t, http.MethodPut, placeURL, otherToken, renamed)
	require.Equal(t, http.StatusForbidden, status)

	status, body = call(t, http.MethodPut, placeURL, cu.adminToken, renamed)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "Opera", decode[places.Place](t, body).Name)

	status, _ = call(t, http.MethodDelete, placeURL, cu.creatorToken, nil)
	require.Equal(t, http.StatusNoContent, status)
	status, _ = call(t, http.MethodGet, placeURL, "", nil)
	require.Equal(t, http.StatusNotFound, status)
}

func TestPlacesNearAndTopRated(t *testing.T) {
	s, ts := newTestServer(t)
	cu := seedCatalogUsers(t, s, ts)

	theatre, err := s.SeedPlace(bordeauxTheatre, cu.creator.ID)
	require.NoError(t, err)
	paris := bordeauxTheatre
	paris.Name, paris.City, paris.Longitude, paris.Latitude = "Olympia", "Paris", 2.3281, 48.8702
	olympia, err := s.SeedPlace(paris, cu.creator.ID)
	require.NoError(t, err)

	status, body := call(t, http.MethodGet, ts.URL+stubapi.RoutePlacesNear+"?longitude=-0.58&latitude=44.84&distance=5", "", nil)
	require.Equal(t, http.StatusOK, status, string(body))
	near := decode[[]places.Place](t, body)
	require.Len(t, near, 1)
	require.Equal(t, theatre.ID, near[0].ID)

	status, _ = call(t, http.MethodGet, ts.URL+stubapi.RoutePlacesNear+"?longitude=abc&latitude=44.84", "", nil)
	require.Equal(t, http.StatusBadRequest, status)

	review := func(token, placeID string, rating int) {
		status, body := call(t, http.MethodPost, ts.URL+"/api/places/"+placeID+"/reviews", token, reviews.CreateRequest{Rating: rating, Comment: "ok"})
		require.Equal(t, http.StatusCreated, status, string(body))
	}
	review(cu.aliceToken, olympia.ID, 5)
	review(cu.bobToken, olympia.ID, 4)
	review(cu.aliceToken, theatre.ID, 2)

	status, body = call(t, http.MethodGet, ts.URL+stubapi.RoutePlacesTop+"?limit=1", "", nil)
	require.Equal(t, http.StatusOK, status)
	top := decode[[]places.Place](t, body)
	require.Len(t, top, 1)
	require.Equal(t, olympia.ID, top[0].ID)
	require.InDelta(t, 4.5, top[0].AverageRating, 0.001)
	require.Equal(t, 2, top[0].ReviewCount)
}

func TestEventVisibilityAndPublishing(t *testing.T) {
	s, ts := newTestServer(t)
	cu := seedCatalogUsers(t, s, ts)
	place, err := s.SeedPlace(bordeauxTheatre, cu.creator.ID)
	require.NoError(t, err)

	draft := concert(time.Now().Add(24*time.Hour), 10)
	draft.Published = false

	createURL := ts.URL + stubapi.RouteEvents + "?placeId=" + place.ID
	status, _ := call(t, http.MethodPost, createURL, cu.aliceToken, draft)
	require.Equal(t, http.StatusForbidden, status)

	status, body := call(t, http.MethodPost, ts.URL+stubapi.RouteEvents+"?placeId=nowhere", cu.creatorToken, draft)
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "placeId must name an existing place", errorMessage(t, body))

	backwards := draft
	backwards.EndDateTime = draft.StartDateTime.Add(-time.Hour)
	status, body = call(t, http.MethodPost, createURL, cu.creatorToken, backwards)
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "endDateTime must be after startDateTime", errorMessage(t, body))

	status, body = call(t, http.MethodPost, createURL, cu.creatorToken, draft)
	require.Equal(t, http.StatusCreated, status, string(body))
	event := decode[events.Event](t, body)
	eventURL := ts.URL + "/api/events/" + event.ID

	// drafts are hidden from everyone but their creator and admins
	status, body = call(t, http.MethodGet, ts.URL+stubapi.RouteEvents, "", nil)
	require.Equal(t, http.StatusOK, status)
	require.Empty(t, decode[[]events.Event](t, body))
	status, _ = call(t, http.MethodGet, eventURL, cu.aliceToken, nil)
	require.Equal(t, http.StatusNotFound, status)
	status, _ = call(t, http.MethodGet, eventURL, cu.creatorToken, nil)
	require.Equal(t, http.StatusOK, status)
	status, body = call(t, http.MethodGet, ts.URL+stubapi.RouteEvents+"?creatorId="+cu.creator.ID, cu.creatorToken, nil)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, decode[[]events.Event](t, body), 1)
	status, body = call(t, http.MethodGet, ts.URL+stubapi.RouteEvents+"?creatorId="+cu.creator.ID, cu.aliceToken, nil)
	require.Equal(t, http.StatusOK, status)
	require.Empty(t, decode[[]events.Event](t, body))

	// joining a draft is not possible
	status, _ = call(t, http.MethodPost, eventURL+"/participants", cu.aliceToken, struct{}{})
	require.Equal(t, http.StatusNotFound, status)

	status, _ = call(t, http.MethodPatch, eventURL+"/publish", cu.aliceToken, struct{}{})
	require.Equal(t, http.StatusForbidden, status)
	status, body = call(t, http.MethodPatch, eventURL+"/publish", cu.creatorToken, struct{}{})
	require.Equal(t, http.StatusOK, status)
	require.True(t, decode[events.Event](t, body).Published)

	status, body = call(t, http.MethodGet, ts.URL+stubapi.RouteEvents+"?placeId="+place.ID, "", nil)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, decode[[]events.Event](t, body), 1)

	// the place cannot go while it hosts the event
	status, body = call(t, http.MethodDelete, ts.URL+"/api/places/"+place.ID, cu.creatorToken, nil)
	require.Equal(t, http.StatusConflict, status)
	require.Equal(t, "Place still hosts events", errorMessage(t, body))

	status, _ = call(t, http.MethodDelete, eventURL, cu.adminToken, nil)
	require.Equal(t, http.StatusNoContent, status)
	status, _ = call(t, http.MethodGet, eventURL, cu.adminToken, nil)
	require.Equal(t, http.StatusNotFound, status)
}

func TestJoinAndLeaveEvent(t *testing.T) {
	s, ts := newTestServer(t)
	cu := seedCatalogUsers(t, s, ts)
	place, err := s.SeedPlace(bordeauxTheatre, cu.creator.ID)
	require.NoError(t, err)
	event, err := s.SeedEvent(concert(time.Now().Add(time.Hour), 1), place.ID, cu.creator.ID)
	require.NoError(t, err)
	participantsURL := ts.URL + "/api/events/" + event.ID + "/participants"

	status, _ := call(t, http.MethodPost, participantsURL, "", struct{}{})
	require.Equal(t, http.StatusUnauthorized, status)

	status, body := call(t, http.MethodPost, participantsURL, cu.aliceToken, struct{}{})
	require.Equal(t, http.StatusOK, status, string(body))
	require.Equal(t, []string{cu.alice.ID}, decode[events.Event](t, body).Participants)

	// joining twice changes nothing
	status, _ = call(t, http.MethodPost, participantsURL, cu.aliceToken, struct{}{})
	require.Equal(t, http.StatusOK, status)

	status, body = call(t, http.MethodPost, participantsURL, cu.bobToken, struct{}{})
	require.Equal(t, http.StatusConflict, status)
	require.Equal(t, "Event is full", errorMessage(t, body))

	status, body = call(t, http.MethodGet, ts.URL+stubapi.RouteEvents+"?participantId="+cu.alice.ID, "", nil)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, decode[[]events.Event](t, body), 1)

	status, body = call(t, http.MethodGet, ts.URL+stubapi.RouteEventsAvailable, "", nil)
	require.Equal(t, http.StatusOK, status)
	require.Empty(t, decode[[]events.Event](t, body))

	status, body = call(t, http.MethodDelete, participantsURL, cu.aliceToken, nil)
	require.Equal(t, http.StatusOK, status)
	require.Empty(t, decode[events.Event](t, body).Participants)

	status, _ = call(t, http.MethodPost, participantsURL, cu.bobToken, struct{}{})
	require.Equal(t, http.StatusOK, status)
}

func TestEventListingsFollowTheClock(t *testing.T) {
	base := time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)
	var now atomic.Int64
	now.Store(base.Unix())
	s, ts := newTestServer(t, stubapi.WithNowTime(func() time.Time { return time.Unix(now.Load(), 0) }))
	cu := seedCatalogUsers(t, s, ts)
	place, err := s.SeedPlace(bordeauxTheatre, cu.creator.ID)
	require.NoError(t, err)

	past, err := s.SeedEvent(concert(base.Add(-48*time.Hour), 5), place.ID, cu.creator.ID)
	require.NoError(t, err)
	ongoing, err := s.SeedEvent(concert(base.Add(-time.Hour), 5), place.ID, cu.creator.ID)
	require.NoError(t, err)
	upcoming, err := s.SeedEvent(concert(base.Add(48*time.Hour), 5), place.ID, cu.creator.ID)
	require.NoError(t, err)

	ids := func(route string) []string {
		status, body := call(t, http.MethodGet, ts.URL+route, "", nil)
		require.Equal(t, http.StatusOK, status, string(body))
		var out []string
		for _, e := range decode[[]events.Event](t, body) {
			out = append(out, e.ID)
		}
		return out
	}

	require.Equal(t, []string{past.ID}, ids(stubapi.RouteEventsPast))
	require.Equal(t, []string{ongoing.ID}, ids(stubapi.RouteEventsOngoing))
	require.Equal(t, []string{upcoming.ID}, ids(stubapi.RouteEventsUpcoming))
	require.Equal(t, []string{ongoing.ID, upcoming.ID}, ids(stubapi.RouteEventsAvailable))

	window := "?startDate=" + base.Add(-72*time.Hour).Format(time.RFC3339) + "&endDate=" + base.Add(-30*time.Minute).Format(time.RFC3339)
	require.Equal(t, []string{past.ID, ongoing.ID}, ids(stubapi.RouteEventsDateRange+window))

	status, _ := call(t, http.MethodGet, ts.URL+stubapi.RouteEventsDateRange+"?startDate=yesterday", "", nil)
	require.Equal(t, http.StatusBadRequest, status)

	// the past event cannot be joined any more
	status, body := call(t, http.MethodPost, ts.URL+"/api/events/"+past.ID+"/participants", cu.aliceToken, struct{}{})
	require.Equal(t, http.StatusConflict, status)
	require.Equal(t, "Event has ended", errorMessage(t, body))

	status, _ = call(t, http.MethodPost, ts.URL+"/api/events/"+upcoming.ID+"/participants", cu.aliceToken, struct{}{})
	require.Equal(t, http.StatusOK, status)
	popular := ids(stubapi.RouteEventsPopular + "?limit=1")
	require.Equal(t, []string{upcoming.ID}, popular)

	now.Store(base.Add(72 * time.Hour).Unix())
	require.Equal(t, []string{past.ID, ongoing.ID, upcoming.ID}, ids(stubapi.RouteEventsPast))
	require.Empty(t, ids(stubapi.RouteEventsUpcoming))
}

func TestReviewRules(t *testing.T) {
	base := time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)
	var now atomic.Int64
	now.Store(base.Unix())
	s, ts := newTestServer(t, stubapi.WithNowTime(func() time.Time { return time.Unix(now.Load(), 0) }))
	cu := seedCatalogUsers(t, s, ts)
	place, err := s.SeedPlace(bordeauxTheatre, cu.creator.ID)
	require.NoError(t, err)
	event, err := s.SeedEvent(concert(base.Add(time.Hour), 5), place.ID, cu.creator.ID)
	require.NoError(t, err)

	placeReviews := ts.URL + "/api/places/" + place.ID + "/reviews"
	eventReviews := ts.URL + "/api/events/" + event.ID + "/reviews"
	good := reviews.CreateRequest{Rating: 5, Comment: "Lovely"}

	status, _ := call(t, http.MethodPost, placeReviews, "", good)
	require.Equal(t, http.StatusUnauthorized, status)

	status, body := call(t, http.MethodPost, placeReviews, cu.aliceToken, reviews.CreateRequest{Rating: 6, Comment: "x"})
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "rating must be at most 5", errorMessage(t, body))

	status, body = call(t, http.MethodPost, placeReviews, cu.aliceToken, good)
	require.Equal(t, http.StatusCreated, status, string(body))
	review := decode[reviews.Review](t, body)
	require.Equal(t, cu.alice.ID, review.AuthorID)
	require.Equal(t, place.ID, review.PlaceID)

	status, body = call(t, http.MethodPost, placeReviews, cu.aliceToken, good)
	require.Equal(t, http.StatusConflict, status)
	require.Equal(t, "You already reviewed this", errorMessage(t, body))

	// only the author or an admin may edit, and the place rating follows
	reviewURL := ts.URL + "/api/reviews/" + review.ID
	status, _ = call(t, http.MethodPut, reviewURL, cu.bobToken, reviews.CreateRequest{Rating: 1, Comment: "bad"})
	require.Equal(t, http.StatusForbidden, status)
	status, body = call(t, http.MethodPut, reviewURL, cu.aliceToken, reviews.CreateRequest{Rating: 3, Comment: "Fine"})
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, 3, decode[reviews.Review](t, body).Rating)

	status, body = call(t, http.MethodGet, ts.URL+"/api/places/"+place.ID, "", nil)
	require.Equal(t, http.StatusOK, status)
	require.InDelta(t, 3.0, decode[places.Place](t, body).AverageRating, 0.001)

	status, body = call(t, http.MethodGet, ts.URL+"/api/users/"+cu.alice.ID+"/reviews", "", nil)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, decode[[]reviews.Review](t, body), 1)

	// events are reviewed by participants once they have started
	status, _ = call(t, http.MethodPost, ts.URL+"/api/events/"+event.ID+"/participants", cu.aliceToken, struct{}{})
	require.Equal(t, http.StatusOK, status)
	status, body = call(t, http.MethodPost, eventReviews, cu.aliceToken, good)
	require.Equal(t, http.StatusForbidden, status)
	require.Equal(t, "Only participants can review an event once it has started", errorMessage(t, body))

	// tokens live for an hour in these tests
	now.Store(base.Add(2 * time.Hour).Unix())
	cu.aliceToken = login(t, ts, "alice", "secret").Token
	cu.bobToken = login(t, ts, "bob", "secret").Token
	cu.adminToken = login(t, ts, "root", "secret").Token

	status, _ = call(t, http.MethodPost, eventReviews, cu.bobToken, good)
	require.Equal(t, http.StatusForbidden, status)
	status, body = call(t, http.MethodPost, eventReviews, cu.aliceToken, good)
	require.Equal(t, http.StatusCreated, status, string(body))

	status, body = call(t, http.MethodGet, eventReviews, "", nil)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, decode[[]reviews.Review](t, body), 1)

	status, _ = call(t, http.MethodDelete, reviewURL, cu.adminToken, nil)
	require.Equal(t, http.StatusNoContent, status)
	status, body = call(t, http.MethodGet, ts.URL+"/api/places/"+place.ID, "", nil)
	require.Equal(t, http.StatusOK, status)
	updated := decode[places.Place](t, body)
	require.Zero(t, updated.AverageRating)
	require.Zero(t, updated.ReviewCount)
}
