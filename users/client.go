package users

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/nlouis56/convivio-web/internal/apiclient"
)

const (
	RouteUsers    = "/api/users"
	RouteMe       = RouteUsers + "/me"
	RouteUserByID = RouteUsers + "/{id}"
	RouteUserRole = RouteUsers + "/{id}/role/{role}"
)

// Client calls the profile API. Its http.Client is expected to authenticate
// requests (see transport.NewClient).
type Client struct {
	requester apiclient.Requester
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	return &Client{requester: apiclient.Requester{BaseURL: baseURL, HTTPClient: httpClient}}
}

// Me returns the profile of the logged-in user.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var u User
	if err := c.do(ctx, http.MethodGet, RouteMe, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// List returns one page of users; admins only. A zero limit means all users.
func (c *Client) List(ctx context.Context, offset, limit int) ([]*User, error) {
	query := url.Values{}
	query.Set("offset", strconv.Itoa(offset))
	query.Set("limit", strconv.Itoa(limit))

	var page []*User
	if err := c.do(ctx, http.MethodGet, RouteUsers+"?"+query.Encode(), nil, &page); err != nil {
		return nil, err
	}
	return page, nil
}

func (c *Client) Get(ctx context.Context, id string) (*User, error) {
	var u User
	if err := c.do(ctx, http.MethodGet, userPath(id), nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) Update(ctx context.Context, id string, req UpdateRequest) (*User, error) {
	var u User
	if err := c.do(ctx, http.MethodPut, userPath(id), req, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) AddRole(ctx context.Context, id, role string) (*User, error) {
	var u User
	if err := c.do(ctx, http.MethodPatch, rolePath(id, role), struct{}{}, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) RemoveRole(ctx context.Context, id, role string) (*User, error) {
	var u User
	if err := c.do(ctx, http.MethodDelete, rolePath(id, role), nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Deactivate disables the account; it can no longer log in.
func (c *Client) Deactivate(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, userPath(id), nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, target any) error {
	return apiclient.MapStatus(method, path, c.requester.Do(ctx, method, path, body, target))
}

func userPath(id string) string {
	return RouteUsers + "/" + url.PathEscape(id)
}

func rolePath(id, role string) string {
	return userPath(id) + "/role/" + url.PathEscape(role)
}
