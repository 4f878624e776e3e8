package events

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/nlouis56/convivio-web/internal/apiclient"
)

const (
	RouteEvents       = "/api/events"
	RouteEventByID    = RouteEvents + "/{id}"
	RouteUpcoming     = RouteEvents + "/upcoming"
	RoutePast         = RouteEvents + "/past"
	RouteOngoing      = RouteEvents + "/ongoing"
	RouteDateRange    = RouteEvents + "/date-range"
	RouteAvailable    = RouteEvents + "/available"
	RoutePopular      = RouteEvents + "/popular"
	RoutePublish      = RouteEventByID + "/publish"
	RouteUnpublish    = RouteEventByID + "/unpublish"
	RouteParticipants = RouteEventByID + "/participants"
)

// Client calls the events API. Listing works logged out; joining needs a
// session and writing needs the EVENT_CREATOR role.
type Client struct {
	requester apiclient.Requester
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	return &Client{requester: apiclient.Requester{BaseURL: baseURL, HTTPClient: httpClient}}
}

// List returns the published events, earliest first.
func (c *Client) List(ctx context.Context) ([]*Event, error) {
	return c.list(ctx, RouteEvents)
}

func (c *Client) Upcoming(ctx context.Context) ([]*Event, error) {
	return c.list(ctx, RouteUpcoming)
}

func (c *Client) Past(ctx context.Context) ([]*Event, error) {
	return c.list(ctx, RoutePast)
}

func (c *Client) Ongoing(ctx context.Context) ([]*Event, error) {
	return c.list(ctx, RouteOngoing)
}

// Between lists the events overlapping [start, end).
func (c *Client) Between(ctx context.Context, start, end time.Time) ([]*Event, error) {
	query := url.Values{}
	query.Set("startDate", start.UTC().Format(time.RFC3339))
	query.Set("endDate", end.UTC().Format(time.RFC3339))
	return c.list(ctx, RouteDateRange+"?"+query.Encode())
}

// Available lists the events that have not ended and still have room.
func (c *Client) Available(ctx context.Context) ([]*Event, error) {
	return c.list(ctx, RouteAvailable)
}

func (c *Client) Popular(ctx context.Context, limit int) ([]*Event, error) {
	return c.list(ctx, RoutePopular+"?"+url.Values{"limit": {strconv.Itoa(limit)}}.Encode())
}

func (c *Client) ByPlace(ctx context.Context, placeID string) ([]*Event, error) {
	return c.list(ctx, RouteEvents+"?"+url.Values{"placeId": {placeID}}.Encode())
}

// ByCreator includes the creator's unpublished events when the caller is
// that creator.
func (c *Client) ByCreator(ctx context.Context, userID string) ([]*Event, error) {
	return c.list(ctx, RouteEvents+"?"+url.Values{"creatorId": {userID}}.Encode())
}

func (c *Client) ByParticipant(ctx context.Context, userID string) ([]*Event, error) {
	return c.list(ctx, RouteEvents+"?"+url.Values{"participantId": {userID}}.Encode())
}

func (c *Client) Get(ctx context.Context, id string) (*Event, error) {
	return c.one(ctx, http.MethodGet, eventPath(id), nil)
}

func (c *Client) Create(ctx context.Context, req CreateRequest, placeID string) (*Event, error) {
	return c.one(ctx, http.MethodPost, RouteEvents+"?"+url.Values{"placeId": {placeID}}.Encode(), req)
}

func (c *Client) Update(ctx context.Context, id string, req CreateRequest) (*Event, error) {
	return c.one(ctx, http.MethodPut, eventPath(id), req)
}

func (c *Client) Publish(ctx context.Context, id string) (*Event, error) {
	return c.one(ctx, http.MethodPatch, eventPath(id)+"/publish", struct{}{})
}

func (c *Client) Unpublish(ctx context.Context, id string) (*Event, error) {
	return c.one(ctx, http.MethodPatch, eventPath(id)+"/unpublish", struct{}{})
}

func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, eventPath(id), nil, nil)
}

// Join adds the logged-in user to the event. A full event yields ErrConflict.
func (c *Client) Join(ctx context.Context, id string) (*Event, error) {
	return c.one(ctx, http.MethodPost, eventPath(id)+"/participants", struct{}{})
}

func (c *Client) Leave(ctx context.Context, id string) (*Event, error) {
	return c.one(ctx, http.MethodDelete, eventPath(id)+"/participants", nil)
}

func (c *Client) one(ctx context.Context, method, path string, body any) (*Event, error) {
	var e Event
	if err := c.do(ctx, method, path, body, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (c *Client) list(ctx context.Context, path string) ([]*Event, error) {
	var out []*Event
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, target any) error {
	return apiclient.MapStatus(method, path, c.requester.Do(ctx, method, path, body, target))
}

func eventPath(id string) string {
	return RouteEvents + "/" + url.PathEscape(id)
}
