package cli

import (
	"net/http"

	"github.com/nlouis56/convivio-web/authapi"
	"github.com/nlouis56/convivio-web/credentials"
	"github.com/nlouis56/convivio-web/credentials/sqlitestorage"
	"github.com/nlouis56/convivio-web/events"
	"github.com/nlouis56/convivio-web/guard"
	"github.com/nlouis56/convivio-web/internal/config"
	"github.com/nlouis56/convivio-web/language"
	"github.com/nlouis56/convivio-web/places"
	"github.com/nlouis56/convivio-web/reviews"
	"github.com/nlouis56/convivio-web/sessions"
	"github.com/nlouis56/convivio-web/transport"
	"github.com/nlouis56/convivio-web/users"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// App is the client side of Convivio wired from configuration.
type App struct {
	Sessions *sessions.Service
	Language *language.Service
	Guard    *guard.Guard
	Users    *users.Client
	Places   *places.Client
	Events   *events.Client
	Reviews  *reviews.Client

	closers []func() error
}

// NewApp builds storage, the session service and everything that depends
// on it. Close releases the storage.
func NewApp(cfg config.Config) (*App, error) {
	app := &App{}

	storage, err := app.openStorage(cfg)
	if err != nil {
		return nil, err
	}

	baseURL := cfg.GetAPIBaseURL()
	// auth calls never carry a bearer token
	authClient := authapi.NewClient(baseURL, &http.Client{
		Timeout:   cfg.GetAPITimeout(),
		Transport: transport.Chain(nil, transport.WithRequestID()),
	})

	app.Sessions, err = sessions.NewService(authClient, credentials.New(storage))
	if err != nil {
		app.Close()
		return nil, errors.Wrap(err, "failed to create session service")
	}

	app.Language, err = language.NewService(storage)
	if err != nil {
		app.Close()
		return nil, errors.Wrap(err, "failed to create language service")
	}

	app.Guard = guard.New(nil)
	apiClient := transport.NewClient(app.Sessions, cfg.GetAPITimeout(), nil)
	app.Users = users.NewClient(baseURL, apiClient)
	app.Places = places.NewClient(baseURL, apiClient)
	app.Events = events.NewClient(baseURL, apiClient)
	app.Reviews = reviews.NewClient(baseURL, apiClient)
	return app, nil
}

func (a *App) openStorage(cfg config.Config) (credentials.Storage, error) {
	if cfg.GetStorageMode() == config.StorageInert {
		log.Debug().Msg("Using inert credential storage")
		return credentials.Inert{}, nil
	}

	storage, err := sqlitestorage.New(cfg.GetStoragePath())
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open storage at %s", cfg.GetStoragePath())
	}
	a.closers = append(a.closers, storage.Close)
	return storage, nil
}

func (a *App) Close() {
	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil {
			log.Err(err).Msg("Failed to close resource")
		}
	}
	a.closers = nil
}
