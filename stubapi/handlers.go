package stubapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/nlouis56/convivio-web/authapi"
	apperrors "github.com/nlouis56/convivio-web/internal/errors"
	"github.com/nlouis56/convivio-web/users"
)

const (
	msgInvalidBody        = "Invalid request body"
	msgUsernameTaken      = "Username is already taken"
	msgInvalidCredentials = "Invalid username or password"
	msgUserNotFound       = "User not found"

	defaultPageSize = 50
)

// RegisterHandler creates an active account with the USER role.
func (s *Server) RegisterHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req authapi.RegistrationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", msgInvalidBody)
			return
		}

		if err := s.validate.Struct(req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", authapi.FormatValidationErrors(err))
			return
		}

		if _, err := s.users.GetByUsername(req.Username); err == nil {
			writeError(w, http.StatusBadRequest, "invalid_request", msgUsernameTaken)
			return
		}

		if _, err := s.CreateUser(req, users.RoleUser); err != nil {
			s.logger.Err(err).Str("username", req.Username).Msg("Failed to create user")
			writeError(w, http.StatusInternalServerError, "internal_error", "Failed to create user")
			return
		}
		writeJSON(w, http.StatusCreated, nil)
	}
}

// LoginHandler exchanges a username and password for a signed token.
func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var creds authapi.Credentials
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", msgInvalidBody)
			return
		}

		user, err := s.users.GetByUsername(creds.Username)
		if err != nil || !user.Active || !users.CheckPasswordHash(creds.Password, user.PasswordHash) {
			writeError(w, http.StatusUnauthorized, "invalid_credentials", msgInvalidCredentials)
			return
		}

		token, err := s.signer.Issue(user)
		if err != nil {
			s.logger.Err(err).Str("username", user.Username).Msg("Failed to issue token")
			writeError(w, http.StatusInternalServerError, "internal_error", "Failed to issue token")
			return
		}

		writeJSON(w, http.StatusOK, authapi.LoginResponse{
			Token:    token,
			ID:       user.ID,
			Username: user.Username,
			Email:    user.Email,
			Roles:    user.Roles,
		})
	}
}

// ListUsersHandler pages through all users, sorted by username.
// Query parameters: offset (default 0), limit (default 50, 0 means all).
func (s *Server) ListUsersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		offset, err := queryInt(r, "offset", 0)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
			return
		}
		limit, err := queryInt(r, "limit", defaultPageSize)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
			return
		}

		page, err := s.users.List(offset, limit)
		if err != nil {
			s.logger.Err(err).Msg("Failed to list users")
			writeError(w, http.StatusInternalServerError, "internal_error", "Failed to list users")
			return
		}
		writeJSON(w, http.StatusOK, page)
	}
}

func (s *Server) MeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, _ := userFromContext(r.Context())
		writeJSON(w, http.StatusOK, user)
	}
}

func (s *Server) GetUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := s.lookupUser(w, r.PathValue("id"))
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, user)
	}
}

func (s *Server) UpdateUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req users.UpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", msgInvalidBody)
			return
		}
		if err := s.validate.Struct(req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", authapi.FormatValidationErrors(err))
			return
		}

		user, ok := s.lookupUser(w, r.PathValue("id"))
		if !ok {
			return
		}
		req.Apply(user)
		s.saveAndRespond(w, user)
	}
}

func (s *Server) AddRoleHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := s.lookupUser(w, r.PathValue("id"))
		if !ok {
			return
		}
		user.AddRole(r.PathValue("role"))
		s.saveAndRespond(w, user)
	}
}

func (s *Server) RemoveRoleHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := s.lookupUser(w, r.PathValue("id"))
		if !ok {
			return
		}
		user.RemoveRole(r.PathValue("role"))
		s.saveAndRespond(w, user)
	}
}

// DeactivateUserHandler disables the account; its tokens stop working at once.
func (s *Server) DeactivateUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		if err := s.users.SetActive(id, false); err != nil {
			if apperrors.Is(err, apperrors.ErrNotFound) {
				writeError(w, http.StatusNotFound, "not_found", msgUserNotFound)
				return
			}
			s.logger.Err(err).Str("id", id).Msg("Failed to deactivate user")
			writeError(w, http.StatusInternalServerError, "internal_error", "Failed to deactivate user")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func queryInt(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer", name)
	}
	return n, nil
}

func (s *Server) lookupUser(w http.ResponseWriter, id string) (*users.User, bool) {
	user, err := s.users.GetByID(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found", msgUserNotFound)
		return nil, false
	}
	return user, true
}

func (s *Server) saveAndRespond(w http.ResponseWriter, user *users.User) {
	if err := s.users.Upsert(user); err != nil {
		s.logger.Err(err).Str("id", user.ID).Msg("Failed to save user")
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to save user")
		return
	}
	writeJSON(w, http.StatusOK, user)
}
