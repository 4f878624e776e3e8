package events_test

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/nlouis56/convivio-web/authapi"
	"github.com/nlouis56/convivio-web/credentials"
	"github.com/nlouis56/convivio-web/credentials/memstorage"
	"github.com/nlouis56/convivio-web/events"
	"github.com/nlouis56/convivio-web/internal/config"
	apperrors "github.com/nlouis56/convivio-web/internal/errors"
	"github.com/nlouis56/convivio-web/places"
	"github.com/nlouis56/convivio-web/sessions"
	"github.com/nlouis56/convivio-web/stubapi"
	"github.com/nlouis56/convivio-web/transport"
	"github.com/nlouis56/convivio-web/users"
	fakeuserrepo "github.com/nlouis56/convivio-web/users/repofake"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	config.EnvVars
	config.StubAPI
}

type fixture struct {
	api     *stubapi.Server
	service *sessions.Service
	client  *events.Client
	creator *users.User
	place   *places.Place
}

func setupFixture(t *testing.T) *fixture {
	t.Helper()
	t.Setenv("STUB_API_SECRET", "test-secret")

	api, err := stubapi.New(testConfig{}, fakeuserrepo.NewFakeUserRepo(), stubapi.WithLogger(zerolog.Nop()))
	require.NoError(t, err)
	ts := httptest.NewServer(api)
	t.Cleanup(ts.Close)

	service, err := sessions.NewService(
		authapi.NewClient(ts.URL, ts.Client()),
		credentials.New(memstorage.New()),
		sessions.WithLogger(zerolog.Nop()),
	)
	require.NoError(t, err)

	_, err = api.SeedUser("alice", "a@x.com", "secret")
	require.NoError(t, err)
	creator, err := api.SeedUser("creator", "c@x.com", "secret", users.RoleUser, users.RoleEventCreator)
	require.NoError(t, err)
	place, err := api.SeedPlace(places.CreateRequest{Name: "Darwin", Address: "87 Quai des Queyries", City: "Bordeaux", Category: "BAR"}, creator.ID)
	require.NoError(t, err)

	return &fixture{
		api:     api,
		service: service,
		client:  events.NewClient(ts.URL, transport.NewClient(service, 5*time.Second, ts.Client().Transport)),
		creator: creator,
		place:   place,
	}
}

func (f *fixture) login(t *testing.T, username string) sessions.Session {
	t.Helper()
	session, err := f.service.Login(context.Background(), authapi.Credentials{Username: username, Password: "secret"})
	require.NoError(t, err)
	return session
}

func quiz(start time.Time, maxParticipants int) events.CreateRequest {
	return events.CreateRequest{
		Title:           "Pub quiz",
		StartDateTime:   start,
		EndDateTime:     start.Add(3 * time.Hour),
		MaxParticipants: maxParticipants,
		Published:       true,
	}
}

func TestCreateEventNeedsEventCreator(t *testing.T) {
	f := setupFixture(t)
	req := quiz(time.Now().Add(24*time.Hour), 20)

	_, err := f.client.Create(context.Background(), req, f.place.ID)
	require.ErrorIs(t, err, apperrors.ErrUnauthorized)

	f.login(t, "alice")
	_, err = f.client.Create(context.Background(), req, f.place.ID)
	require.ErrorIs(t, err, apperrors.ErrForbidden)

	f.login(t, "creator")
	_, err = f.client.Create(context.Background(), events.CreateRequest{Title: "x", StartDateTime: req.StartDateTime, EndDateTime: req.EndDateTime}, f.place.ID)
	var validationErr *apperrors.ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Equal(t, "maxParticipants must be at least 1", validationErr.Message)

	created, err := f.client.Create(context.Background(), req, f.place.ID)
	require.NoError(t, err)
	require.Equal(t, f.creator.ID, created.CreatorID)
	require.Equal(t, f.place.ID, created.PlaceID)

	byPlace, err := f.client.ByPlace(context.Background(), f.place.ID)
	require.NoError(t, err)
	require.Len(t, byPlace, 1)

	upcoming, err := f.client.Upcoming(context.Background())
	require.NoError(t, err)
	require.Len(t, upcoming, 1)

	edit := req
	edit.Title = "Big pub quiz"
	updated, err := f.client.Update(context.Background(), created.ID, edit)
	require.NoError(t, err)
	require.Equal(t, "Big pub quiz", updated.Title)
}

func TestUnpublishedEventsStayWithTheirCreator(t *testing.T) {
	f := setupFixture(t)
	event, err := f.api.SeedEvent(quiz(time.Now().Add(time.Hour), 20), f.place.ID, f.creator.ID)
	require.NoError(t, err)

	f.login(t, "creator")
	hidden, err := f.client.Unpublish(context.Background(), event.ID)
	require.NoError(t, err)
	require.False(t, hidden.Published)

	mine, err := f.client.ByCreator(context.Background(), f.creator.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)

	f.login(t, "alice")
	_, err = f.client.Get(context.Background(), event.ID)
	require.ErrorIs(t, err, apperrors.ErrNotFound)
	all, err := f.client.List(context.Background())
	require.NoError(t, err)
	require.Empty(t, all)

	f.login(t, "creator")
	shown, err := f.client.Publish(context.Background(), event.ID)
	require.NoError(t, err)
	require.True(t, shown.Published)

	f.login(t, "alice")
	got, err := f.client.Get(context.Background(), event.ID)
	require.NoError(t, err)
	require.Equal(t, "Pub quiz", got.Title)
}

func TestJoinUntilFull(t *testing.T) {
	f := setupFixture(t)
	_, err := f.api.SeedUser("bob", "b@x.com", "secret")
	require.NoError(t, err)
	event, err := f.api.SeedEvent(quiz(time.Now().Add(time.Hour), 1), f.place.ID, f.creator.ID)
	require.NoError(t, err)

	_, err = f.client.Join(context.Background(), event.ID)
	require.ErrorIs(t, err, apperrors.ErrUnauthorized)

	alice := f.login(t, "alice")
	joined, err := f.client.Join(context.Background(), event.ID)
	require.NoError(t, err)
	require.Equal(t, 1, joined.CurrentParticipants())

	mine, err := f.client.ByParticipant(context.Background(), alice.UserID)
	require.NoError(t, err)
	require.Len(t, mine, 1)

	f.login(t, "bob")
	_, err = f.client.Join(context.Background(), event.ID)
	require.ErrorIs(t, err, apperrors.ErrConflict)
	require.Contains(t, err.Error(), "Event is full")

	available, err := f.client.Available(context.Background())
	require.NoError(t, err)
	require.Empty(t, available)

	f.login(t, "alice")
	left, err := f.client.Leave(context.Background(), event.ID)
	require.NoError(t, err)
	require.Zero(t, left.CurrentParticipants())

	popular, err := f.client.Popular(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, popular, 1)
}

func TestDeleteEvent(t *testing.T) {
	f := setupFixture(t)
	event, err := f.api.SeedEvent(quiz(time.Now().Add(-time.Hour), 10), f.place.ID, f.creator.ID)
	require.NoError(t, err)

	ongoing, err := f.client.Ongoing(context.Background())
	require.NoError(t, err)
	require.Len(t, ongoing, 1)

	between, err := f.client.Between(context.Background(), time.Now().Add(-2*time.Hour), time.Now())
	require.NoError(t, err)
	require.Len(t, between, 1)

	past, err := f.client.Past(context.Background())
	require.NoError(t, err)
	require.Empty(t, past)

	f.login(t, "alice")
	require.ErrorIs(t, f.client.Delete(context.Background(), event.ID), apperrors.ErrForbidden)

	f.login(t, "creator")
	require.NoError(t, f.client.Delete(context.Background(), event.ID))
	_, err = f.client.Get(context.Background(), event.ID)
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}
