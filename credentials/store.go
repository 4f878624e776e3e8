package credentials

import (
	"encoding/json"

	apperrors "github.com/nlouis56/convivio-web/internal/errors"
	"github.com/pkg/errors"
)

// Profile is the user snapshot persisted next to the token.
type Profile struct {
	ID       string   `json:"id"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Roles    []string `json:"roles"`
}

// Record is what the Store keeps between runs.
type Record struct {
	Token   string
	Profile Profile
}

// Store persists the current token and profile in a Storage. It holds no
// state of its own; the session service decides what goes in and out.
type Store struct {
	storage Storage
}

// New returns a Store over storage. A nil storage behaves as Inert.
func New(storage Storage) *Store {
	if storage == nil {
		storage = Inert{}
	}
	return &Store{storage: storage}
}

// Persistent reports whether the store survives process restarts.
func (s *Store) Persistent() bool {
	return !IsInert(s.storage)
}

// Storage exposes the underlying storage area, which other owners
// (such as the language preference) share.
func (s *Store) Storage() Storage {
	return s.storage
}

// Save writes the token and the profile together.
func (s *Store) Save(token string, profile Profile) error {
	if token == "" {
		return errors.New("[credentials.Save] token is required")
	}

	profileJSON, err := json.Marshal(profile)
	if err != nil {
		return errors.Wrap(err, "[credentials.Save] failed to marshal profile")
	}

	if err := s.storage.SetAll(map[string]string{
		TokenKey: token,
		UserKey:  string(profileJSON),
	}); err != nil {
		return errors.Wrap(err, "[credentials.Save] failed to write storage")
	}
	return nil
}

// Load reads the persisted record. It returns nil and no error when nothing
// is stored, and an error wrapping ErrCorruptState when the profile does not
// parse or only one of the two keys is present.
func (s *Store) Load() (*Record, error) {
	token, hasToken, err := s.storage.Get(TokenKey)
	if err != nil {
		return nil, errors.Wrap(err, "[credentials.Load] failed to read token")
	}
	profileJSON, hasProfile, err := s.storage.Get(UserKey)
	if err != nil {
		return nil, errors.Wrap(err, "[credentials.Load] failed to read user")
	}

	switch {
	case !hasToken && !hasProfile:
		return nil, nil
	case !hasProfile:
		return nil, apperrors.Wrapf(apperrors.ErrCorruptState, "token stored without user")
	case !hasToken || token == "":
		return nil, apperrors.Wrapf(apperrors.ErrCorruptState, "user stored without token")
	}

	var profile Profile
	if err := json.Unmarshal([]byte(profileJSON), &profile); err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrCorruptState, "unparsable user %q (%s)", truncate(profileJSON, 32), err)
	}

	return &Record{Token: token, Profile: profile}, nil
}

// Clear removes the token and the profile. Clearing an empty store is fine.
func (s *Store) Clear() error {
	if err := s.storage.Delete(TokenKey, UserKey); err != nil {
		return errors.Wrap(err, "[credentials.Clear] failed to delete keys")
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
