package cli

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/nlouis56/convivio-web/events"
	"github.com/nlouis56/convivio-web/places"
	"github.com/nlouis56/convivio-web/stubapi"
	"github.com/nlouis56/convivio-web/users"
	fakeuserrepo "github.com/nlouis56/convivio-web/users/repofake"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

// demoUsers are seeded by `stub-api --seed`; one per role.
var demoUsers = []struct {
	username, password string
	roles              []string
}{
	{"alice", "secret", []string{users.RoleUser}},
	{"creator", "secret", []string{users.RoleUser, users.RoleEventCreator}},
	{"admin", "secret", []string{users.RoleUser, users.RoleEventCreator, users.RoleAdmin}},
}

func newStubAPICommand(st *state) *cobra.Command {
	var (
		addr   string
		seed   bool
		banner bool
	)

	cmd := &cobra.Command{
		Use:   "stub-api",
		Short: "Run a local Convivio API for development",
		Long: `Run an in-memory implementation of the Convivio API: auth, users,
places, events and reviews.
Data is lost when the process stops.

Examples:
  convivio stub-api --seed
  convivio stub-api --addr :9090`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = st.cfg.GetStubAPIAddr()
			}

			api, err := stubapi.New(st.cfg, fakeuserrepo.NewFakeUserRepo())
			if err != nil {
				return err
			}
			if seed {
				if err := seedDemoUsers(api); err != nil {
					return err
				}
				if err := seedDemoCatalog(api, time.Now()); err != nil {
					return err
				}
			}

			if banner {
				displayAppname(cmd.OutOrStdout(), st.cfg.GetAppName())
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, &http.Server{Addr: addr, Handler: api})
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default STUB_API_ADDR)")
	cmd.Flags().BoolVar(&seed, "seed", false, "Create demo users alice, creator and admin (password: secret), a place and an event")
	cmd.Flags().BoolVar(&banner, "banner", true, "Print the application banner")
	return cmd
}

func seedDemoUsers(api *stubapi.Server) error {
	for _, u := range demoUsers {
		if _, err := api.SeedUser(u.username, u.username+"@convivio.local", u.password, u.roles...); err != nil {
			return errors.Wrapf(err, "failed to seed %s", u.username)
		}
	}
	return nil
}

// seedDemoCatalog adds one place owned by the demo creator and a published
// event there a week from now.
func seedDemoCatalog(api *stubapi.Server, now time.Time) error {
	creator, err := api.SeedUser("creator", "creator@convivio.local", "secret", users.RoleUser, users.RoleEventCreator)
	if err != nil {
		return errors.Wrap(err, "failed to seed creator")
	}

	place, err := api.SeedPlace(places.CreateRequest{
		Name:        "Darwin Ecosysteme",
		Description: "Former military barracks turned into a creative hub",
		Address:     "87 Quai des Queyries",
		City:        "Bordeaux",
		PostalCode:  "33100",
		Category:    "BAR",
		Longitude:   -0.5593,
		Latitude:    44.8495,
	}, creator.ID)
	if err != nil {
		return err
	}

	start := now.Add(7 * 24 * time.Hour).Truncate(time.Hour)
	_, err = api.SeedEvent(events.CreateRequest{
		Title:           "Board game night",
		Description:     "Bring your favourite game",
		StartDateTime:   start,
		EndDateTime:     start.Add(3 * time.Hour),
		MaxParticipants: 12,
		Published:       true,
	}, place.ID, creator.ID)
	return err
}

// serve runs server until ctx is done, then shuts it down gracefully.
func serve(ctx context.Context, server *http.Server) error {
	errs := make(chan error, 1)
	go func() {
		errs <- listenAndServe(server)
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}
	return shutdown(server)
}

func listenAndServe(server *http.Server) error {
	log.Info().Str("addr", server.Addr).Msg("Stub API listening")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "server.ListenAndServe")
	}
	return nil
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return errors.Wrap(err, "server.Shutdown")
	}
	log.Info().Msg("Stub API stopped")
	return nil
}

func displayAppname(out io.Writer, appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	fmt.Fprintln(out, myFigure.String())
}
