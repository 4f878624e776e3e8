package places

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/nlouis56/convivio-web/internal/apiclient"
)

const (
	RoutePlaces    = "/api/places"
	RoutePlaceByID = RoutePlaces + "/{id}"
	RouteNear      = RoutePlaces + "/near"
	RouteTopRated  = RoutePlaces + "/top-rated"
)

// Client calls the places API. Reads work logged out; writes need the
// EVENT_CREATOR role.
type Client struct {
	requester apiclient.Requester
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	return &Client{requester: apiclient.Requester{BaseURL: baseURL, HTTPClient: httpClient}}
}

func (c *Client) List(ctx context.Context) ([]*Place, error) {
	return c.list(ctx, RoutePlaces)
}

func (c *Client) ListByCategory(ctx context.Context, category string) ([]*Place, error) {
	return c.list(ctx, RoutePlaces+"?"+url.Values{"category": {category}}.Encode())
}

// Near lists the places within distanceKm of the given point, closest first.
func (c *Client) Near(ctx context.Context, longitude, latitude, distanceKm float64) ([]*Place, error) {
	query := url.Values{}
	query.Set("longitude", strconv.FormatFloat(longitude, 'f', -1, 64))
	query.Set("latitude", strconv.FormatFloat(latitude, 'f', -1, 64))
	query.Set("distance", strconv.FormatFloat(distanceKm, 'f', -1, 64))
	return c.list(ctx, RouteNear+"?"+query.Encode())
}

func (c *Client) TopRated(ctx context.Context, limit int) ([]*Place, error) {
	return c.list(ctx, RouteTopRated+"?"+url.Values{"limit": {strconv.Itoa(limit)}}.Encode())
}

func (c *Client) Get(ctx context.Context, id string) (*Place, error) {
	var p Place
	if err := c.do(ctx, http.MethodGet, placePath(id), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) Create(ctx context.Context, req CreateRequest) (*Place, error) {
	var p Place
	if err := c.do(ctx, http.MethodPost, RoutePlaces, req, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) Update(ctx context.Context, id string, req CreateRequest) (*Place, error) {
	var p Place
	if err := c.do(ctx, http.MethodPut, placePath(id), req, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, placePath(id), nil, nil)
}

func (c *Client) list(ctx context.Context, path string) ([]*Place, error) {
	var out []*Place
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, target any) error {
	return apiclient.MapStatus(method, path, c.requester.Do(ctx, method, path, body, target))
}

func placePath(id string) string {
	return RoutePlaces + "/" + url.PathEscape(id)
}
