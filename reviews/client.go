package reviews

import (
	"context"
	"net/http"
	"net/url"

	"github.com/nlouis56/convivio-web/internal/apiclient"
)

const (
	RouteReviews      = "/api/reviews"
	RouteReviewByID   = RouteReviews + "/{id}"
	RoutePlaceReviews = "/api/places/{id}/reviews"
	RouteEventReviews = "/api/events/{id}/reviews"
	RouteUserReviews  = "/api/users/{id}/reviews"
)

// Client calls the reviews API. Reading is public; writing needs a session.
type Client struct {
	requester apiclient.Requester
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	return &Client{requester: apiclient.Requester{BaseURL: baseURL, HTTPClient: httpClient}}
}

func (c *Client) Get(ctx context.Context, id string) (*Review, error) {
	return c.one(ctx, http.MethodGet, reviewPath(id), nil)
}

func (c *Client) ByUser(ctx context.Context, userID string) ([]*Review, error) {
	return c.list(ctx, "/api/users/"+url.PathEscape(userID)+"/reviews")
}

func (c *Client) ForPlace(ctx context.Context, placeID string) ([]*Review, error) {
	return c.list(ctx, placeReviewsPath(placeID))
}

func (c *Client) ForEvent(ctx context.Context, eventID string) ([]*Review, error) {
	return c.list(ctx, eventReviewsPath(eventID))
}

// CreateForPlace fails with ErrConflict if the user already reviewed the place.
func (c *Client) CreateForPlace(ctx context.Context, placeID string, req CreateRequest) (*Review, error) {
	return c.one(ctx, http.MethodPost, placeReviewsPath(placeID), req)
}

// CreateForEvent is only open to the event's participants once it has started.
func (c *Client) CreateForEvent(ctx context.Context, eventID string, req CreateRequest) (*Review, error) {
	return c.one(ctx, http.MethodPost, eventReviewsPath(eventID), req)
}

func (c *Client) Update(ctx context.Context, id string, req CreateRequest) (*Review, error) {
	return c.one(ctx, http.MethodPut, reviewPath(id), req)
}

func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, reviewPath(id), nil, nil)
}

func (c *Client) one(ctx context.Context, method, path string, body any) (*Review, error) {
	var r Review
	if err := c.do(ctx, method, path, body, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *Client) list(ctx context.Context, path string) ([]*Review, error) {
	var out []*Review
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, target any) error {
	return apiclient.MapStatus(method, path, c.requester.Do(ctx, method, path, body, target))
}

func reviewPath(id string) string {
	return RouteReviews + "/" + url.PathEscape(id)
}

func placeReviewsPath(id string) string {
	return "/api/places/" + url.PathEscape(id) + "/reviews"
}

func eventReviewsPath(id string) string {
	return "/api/events/" + url.PathEscape(id) + "/reviews"
}
