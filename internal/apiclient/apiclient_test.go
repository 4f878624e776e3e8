package apiclient_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nlouis56/convivio-web/internal/apiclient"
	apperrors "github.com/nlouis56/convivio-web/internal/errors"
	"github.com/stretchr/testify/require"
)

func TestDoDecodesJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var in map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"echo": in["name"]})
	}))
	defer srv.Close()

	r := &apiclient.Requester{BaseURL: srv.URL, HTTPClient: srv.Client()}
	var out map[string]string
	require.NoError(t, r.Do(context.Background(), http.MethodPost, "/echo", map[string]string{"name": "alice"}, &out))
	require.Equal(t, "alice", out["echo"])
}

func TestDoStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"Username is already taken"}`))
	}))
	defer srv.Close()

	r := &apiclient.Requester{BaseURL: srv.URL, HTTPClient: srv.Client()}
	err := r.Do(context.Background(), http.MethodPost, "/x", nil, nil)

	statusErr, ok := apiclient.AsStatus(err)
	require.True(t, ok)
	require.Equal(t, http.StatusBadRequest, statusErr.StatusCode)
	require.Equal(t, "Username is already taken", statusErr.Message)
}

func TestDoTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	r := &apiclient.Requester{BaseURL: url}
	err := r.Do(context.Background(), http.MethodGet, "/x", nil, nil)
	require.ErrorIs(t, err, apperrors.ErrNetwork)
}

func TestDoUndecodableBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>`))
	}))
	defer srv.Close()

	r := &apiclient.Requester{BaseURL: srv.URL, HTTPClient: srv.Client()}
	var out map[string]string
	err := r.Do(context.Background(), http.MethodGet, "/x", nil, &out)
	require.ErrorIs(t, err, apperrors.ErrNetwork)
}

func TestMapStatus(t *testing.T) {
	status := func(code int, message string) error {
		return &apiclient.StatusError{StatusCode: code, Message: message}
	}

	require.ErrorIs(t, apiclient.MapStatus("GET", "/x", status(http.StatusUnauthorized, "")), apperrors.ErrUnauthorized)
	require.ErrorIs(t, apiclient.MapStatus("GET", "/x", status(http.StatusForbidden, "")), apperrors.ErrForbidden)
	require.ErrorIs(t, apiclient.MapStatus("GET", "/x", status(http.StatusNotFound, "")), apperrors.ErrNotFound)
	require.ErrorIs(t, apiclient.MapStatus("GET", "/x", status(http.StatusInternalServerError, "")), apperrors.ErrNetwork)

	err := apiclient.MapStatus("POST", "/x", status(http.StatusConflict, "Event is full"))
	require.ErrorIs(t, err, apperrors.ErrConflict)
	require.Contains(t, err.Error(), "Event is full")

	var validationErr *apperrors.ValidationError
	require.ErrorAs(t, apiclient.MapStatus("POST", "/x", status(http.StatusBadRequest, "title is required")), &validationErr)
	require.Equal(t, "title is required", validationErr.Message)

	require.NoError(t, apiclient.MapStatus("GET", "/x", nil))
	require.ErrorIs(t, apiclient.MapStatus("GET", "/x", apperrors.ErrNetwork), apperrors.ErrNetwork)
}
