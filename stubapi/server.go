// Package stubapi is a small in-process implementation of the Convivio REST
// API. It backs the package tests and the `convivio stub-api` command.
package stubapi

import (
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/nlouis56/convivio-web/authapi"
	"github.com/nlouis56/convivio-web/events"
	fakeeventrepo "github.com/nlouis56/convivio-web/events/repofake"
	"github.com/nlouis56/convivio-web/internal/config"
	"github.com/nlouis56/convivio-web/places"
	fakeplacerepo "github.com/nlouis56/convivio-web/places/repofake"
	"github.com/nlouis56/convivio-web/reviews"
	fakereviewrepo "github.com/nlouis56/convivio-web/reviews/repofake"
	"github.com/nlouis56/convivio-web/users"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Config interface {
	config.EnvConfig
	config.StubAPIConfig
}

type Server struct {
	env        string // Environment (e.g. "DEV", "PROD")
	mux        *http.ServeMux
	routes     []string
	users      users.UserRepo
	places     places.PlaceRepo
	events     events.EventRepo
	reviews    reviews.ReviewRepo
	reviewLock sync.Mutex // serializes review writes with the place rating they feed
	signer     *HMACSigner
	validate   *validator.Validate
	logger     zerolog.Logger
	now        func() time.Time
}

type Option func(*Server)

// WithNowTime overrides the clock used for token issuance and verification
func WithNowTime(now func() time.Time) Option {
	return func(s *Server) {
		s.now = now
	}
}

// WithCatalog swaps the in-memory place, event and review stores. Nil
// arguments keep the default.
func WithCatalog(placeRepo places.PlaceRepo, eventRepo events.EventRepo, reviewRepo reviews.ReviewRepo) Option {
	return func(s *Server) {
		if placeRepo != nil {
			s.places = placeRepo
		}
		if eventRepo != nil {
			s.events = eventRepo
		}
		if reviewRepo != nil {
			s.reviews = reviewRepo
		}
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

func New(cfg Config, repo users.UserRepo, options ...Option) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("[stubapi New] config is required")
	}
	if repo == nil {
		return nil, errors.New("[stubapi New] user repo is required")
	}

	s := &Server{
		env:      cfg.GetEnv(),
		mux:      http.NewServeMux(),
		users:    repo,
		places:   fakeplacerepo.NewFakePlaceRepo(),
		events:   fakeeventrepo.NewFakeEventRepo(),
		reviews:  fakereviewrepo.NewFakeReviewRepo(),
		validate: authapi.NewValidator(),
		logger:   log.Logger,
		now:      time.Now,
	}
	for _, opt := range options {
		opt(s)
	}

	signer, err := NewHMACSigner(cfg.GetStubAPISecret(), cfg.GetStubAPITokenTTL(), s.now)
	if err != nil {
		return nil, errors.Wrap(err, "[stubapi New] failed to create token signer")
	}
	s.signer = signer

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			s.logRoute(parts[0], parts[1])
		} else {
			s.logRoute("", parts[0])
		}
	}
}

func (s *Server) logRoute(method, path string) {
	paddedMethod := fmt.Sprintf(" %-7s", method)
	color, ok := methodColors[method]
	if !ok {
		color = Gray
	}
	s.logger.Debug().Msgf("[%s] %s", color+paddedMethod+ResetColor, path)
}
