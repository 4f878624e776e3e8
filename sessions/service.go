package sessions

import (
	"context"
	"sync"

	"github.com/nlouis56/convivio-web/authapi"
	"github.com/nlouis56/convivio-web/credentials"
	apperrors "github.com/nlouis56/convivio-web/internal/errors"
	"github.com/nlouis56/convivio-web/internal/metrics"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// AuthAPI is the remote auth API used by the Service.
type AuthAPI interface {
	Register(ctx context.Context, req authapi.RegistrationRequest) error
	Login(ctx context.Context, creds authapi.Credentials) (*authapi.LoginResponse, error)
}

// Listener receives the new state after each completed transition.
type Listener func(State)

type listenerEntry struct {
	id uint64
	fn Listener
}

// Service is the single owner of the current session. It keeps the
// credential store in step with its state and notifies listeners of every
// transition, in order.
type Service struct {
	api    AuthAPI
	store  *credentials.Store
	logger zerolog.Logger

	transitionLock sync.Mutex   // serializes transitions and their notifications
	stateLock      sync.RWMutex // guards state and the counters below
	state          State
	logoutEpoch    uint64 // bumped by every logout
	loginSeq       uint64 // bumped by every login start
	appliedSeq     uint64 // loginSeq of the last login applied

	listenersLock  sync.Mutex
	listeners      []listenerEntry
	nextListenerID uint64
}

// ServiceOption defines a function type to modify the Service instance.
type ServiceOption func(*Service)

// WithLogger sets the logger (defaults to the global zerolog logger)
func WithLogger(logger zerolog.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

// NewService restores the persisted session from store, if any. A corrupt
// persisted session is cleared and the service starts anonymous.
func NewService(api AuthAPI, store *credentials.Store, options ...ServiceOption) (*Service, error) {
	if api == nil {
		return nil, errors.New("[NewService] auth API is required")
	}
	if store == nil {
		return nil, errors.New("[NewService] credential store is required")
	}

	s := &Service{
		api:    api,
		store:  store,
		logger: log.Logger,
	}

	for _, opt := range options {
		opt(s)
	}

	if err := s.restore(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Service) restore() error {
	rec, err := s.store.Load()
	switch {
	case apperrors.Is(err, apperrors.ErrCorruptState):
		s.logger.Warn().Err(err).Msg("Discarding corrupt persisted session")
		metrics.RecordSelfHeal()
		if err := s.store.Clear(); err != nil {
			return errors.Wrap(err, "[NewService] failed to clear corrupt session")
		}
		return nil
	case err != nil:
		return errors.Wrap(err, "[NewService] failed to load persisted session")
	case rec == nil:
		return nil
	}

	s.state = AuthenticatedState(fromRecord(rec))
	s.logger.Debug().Str("username", rec.Profile.Username).Msg("Restored persisted session")
	return nil
}

// Register creates an account. It never changes the session: registering
// does not log the user in.
func (s *Service) Register(ctx context.Context, req authapi.RegistrationRequest) error {
	if err := s.api.Register(ctx, req); err != nil {
		s.logger.Debug().Err(err).Str("username", req.Username).Msg("Registration failed")
		return err
	}
	s.logger.Info().Str("username", req.Username).Msg("Registered")
	return nil
}

// Login authenticates against the API and, on success, replaces the current
// session. A successful response is discarded with ErrSuperseded when a
// logout happened, or a later-started login was applied, while it was in
// flight. Failed attempts never cancel other logins. On any failure the state
// is left as it was.
func (s *Service) Login(ctx context.Context, creds authapi.Credentials) (Session, error) {
	s.stateLock.Lock()
	s.loginSeq++
	seq := s.loginSeq
	logoutEpoch := s.logoutEpoch
	s.stateLock.Unlock()

	resp, err := s.api.Login(ctx, creds)
	if err != nil {
		metrics.RecordLoginAttempt(loginOutcome(err))
		s.logger.Debug().Err(err).Str("username", creds.Username).Msg("Login failed")
		return Session{}, err
	}
	session := fromLogin(resp)

	s.transitionLock.Lock()
	defer s.transitionLock.Unlock()

	s.stateLock.RLock()
	stale := s.logoutEpoch != logoutEpoch || seq < s.appliedSeq
	loggedIn := s.state.IsLoggedIn()
	s.stateLock.RUnlock()

	if stale {
		metrics.RecordLoginAttempt("superseded")
		s.logger.Warn().Str("username", creds.Username).Msg("Discarding login response superseded by a later transition")
		return Session{}, apperrors.ErrSuperseded
	}

	// Persist first so a storage failure leaves the current session intact.
	if err := s.store.Save(session.Token, session.profile()); err != nil {
		metrics.RecordLoginAttempt("storage_error")
		s.logger.Err(err).Msg("Failed to persist session")
		return Session{}, errors.Wrap(err, "failed to persist session")
	}

	s.stateLock.Lock()
	s.appliedSeq = seq
	s.stateLock.Unlock()

	// A different identity never replaces the current one without passing
	// through Anonymous first.
	if loggedIn {
		s.setState(AnonymousState())
	}
	s.setState(AuthenticatedState(session))

	metrics.RecordLoginAttempt("success")
	s.logger.Info().Str("username", session.Username).Strs("roles", session.Roles).Msg("Logged in")
	return session.clone(), nil
}

// Logout ends the current session. It always succeeds locally; a failure to
// clear the store is logged.
func (s *Service) Logout() {
	s.transitionLock.Lock()
	defer s.transitionLock.Unlock()

	s.stateLock.Lock()
	s.logoutEpoch++
	loggedIn := s.state.IsLoggedIn()
	s.stateLock.Unlock()

	if !loggedIn {
		return
	}
	s.toAnonymous()
	s.logger.Info().Msg("Logged out")
}

// toAnonymous must be called with transitionLock held.
func (s *Service) toAnonymous() {
	if err := s.store.Clear(); err != nil {
		s.logger.Err(err).Msg("Failed to clear persisted session")
	}
	s.setState(AnonymousState())
}

func (s *Service) setState(state State) {
	s.stateLock.Lock()
	s.state = state
	s.stateLock.Unlock()

	metrics.RecordTransition(state.Status().String())
	s.notify(state)
}

func (s *Service) notify(state State) {
	s.listenersLock.Lock()
	listeners := make([]listenerEntry, len(s.listeners))
	copy(listeners, s.listeners)
	s.listenersLock.Unlock()

	for _, l := range listeners {
		l.fn(state)
	}
}

// State returns a snapshot of the current state.
func (s *Service) State() State {
	s.stateLock.RLock()
	defer s.stateLock.RUnlock()
	return s.state
}

func (s *Service) IsLoggedIn() bool {
	return s.State().IsLoggedIn()
}

func (s *Service) HasRole(role string) bool {
	return s.State().HasRole(role)
}

func (s *Service) CurrentSession() (Session, bool) {
	return s.State().Session()
}

// OnChange registers listener for future transitions. Listeners run
// synchronously, in registration order, and must not log in or out
// themselves. The returned function unregisters the listener.
func (s *Service) OnChange(listener Listener) (cancel func()) {
	s.listenersLock.Lock()
	defer s.listenersLock.Unlock()

	s.nextListenerID++
	id := s.nextListenerID
	s.listeners = append(s.listeners, listenerEntry{id: id, fn: listener})

	return func() {
		s.listenersLock.Lock()
		defer s.listenersLock.Unlock()
		for i, l := range s.listeners {
			if l.id == id {
				s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

// Watch returns the current state and registers listener for every later
// transition, with no transition lost in between. It must not be called
// from a listener.
func (s *Service) Watch(listener Listener) (State, func()) {
	s.transitionLock.Lock()
	defer s.transitionLock.Unlock()

	return s.State(), s.OnChange(listener)
}

func loginOutcome(err error) string {
	switch {
	case apperrors.Is(err, apperrors.ErrInvalidCredentials):
		return "invalid_credentials"
	case apperrors.Is(err, apperrors.ErrValidation):
		return "validation"
	default:
		return "network"
	}
}
