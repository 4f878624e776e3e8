package authapi

import (
	"context"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/nlouis56/convivio-web/internal/apiclient"
	apperrors "github.com/nlouis56/convivio-web/internal/errors"
)

const (
	RouteRegister = "/api/auth/register"
	RouteLogin    = "/api/auth/login"
)

// Client talks to the remote auth API. It holds no session state.
type Client struct {
	requester apiclient.Requester
	validate  *validator.Validate
}

// NewClient returns a Client for the API rooted at baseURL. A nil httpClient
// means http.DefaultClient.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	return &Client{
		requester: apiclient.Requester{BaseURL: baseURL, HTTPClient: httpClient},
		validate:  NewValidator(),
	}
}

// Register creates an account. It fails with a *errors.ValidationError when
// the request is rejected locally or by the server (400 with a message), and
// with an error wrapping ErrNetwork otherwise.
func (c *Client) Register(ctx context.Context, req RegistrationRequest) error {
	if err := Validate(c.validate, req); err != nil {
		return err
	}

	err := c.requester.Do(ctx, http.MethodPost, RouteRegister, req, nil)
	if err == nil {
		return nil
	}

	if statusErr, ok := apiclient.AsStatus(err); ok {
		if statusErr.StatusCode == http.StatusBadRequest && statusErr.Message != "" {
			return apperrors.NewValidation(statusErr.Message)
		}
		return apperrors.Wrapf(apperrors.ErrNetwork, "register: %s", statusErr)
	}
	return err
}

// Login exchanges credentials for a token. A 401 maps to
// ErrInvalidCredentials; transport failures, other statuses and tokenless
// responses map to ErrNetwork.
func (c *Client) Login(ctx context.Context, creds Credentials) (*LoginResponse, error) {
	if err := Validate(c.validate, creds); err != nil {
		return nil, err
	}

	var resp LoginResponse
	err := c.requester.Do(ctx, http.MethodPost, RouteLogin, creds, &resp)
	if err != nil {
		if statusErr, ok := apiclient.AsStatus(err); ok {
			if statusErr.StatusCode == http.StatusUnauthorized {
				return nil, apperrors.ErrInvalidCredentials
			}
			return nil, apperrors.Wrapf(apperrors.ErrNetwork, "login: %s", statusErr)
		}
		return nil, err
	}

	if resp.Token == "" {
		return nil, apperrors.Wrapf(apperrors.ErrNetwork, "login: response carried no token")
	}
	return &resp, nil
}
