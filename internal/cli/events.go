package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/nlouis56/convivio-web/events"
	apperrors "github.com/nlouis56/convivio-web/internal/errors"
	"github.com/nlouis56/convivio-web/language"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

type eventFetcher func(c *events.Client, ctx context.Context) ([]*events.Event, error)

// eventListings maps the listing flags of `convivio events` to the client
// call and the heading printed above it.
var eventListings = []struct {
	flag, titleKey string
	fetch          eventFetcher
}{
	{"upcoming", "events.upcoming", (*events.Client).Upcoming},
	{"ongoing", "events.ongoing", (*events.Client).Ongoing},
	{"past", "events.past", (*events.Client).Past},
	{"available", "events.available", (*events.Client).Available},
	{"popular", "events.popular", func(c *events.Client, ctx context.Context) ([]*events.Event, error) {
		return c.Popular(ctx, 10)
	}},
}

func newEventsCommand(st *state) *cobra.Command {
	var placeID string
	selected := make([]bool, len(eventListings))

	cmd := &cobra.Command{
		Use:   "events",
		Short: "List Convivio events",
		Long: `List published events. Without a flag every event is listed.

Examples:
  convivio events --upcoming
  convivio events --place 3f2a...
  convivio events join 7c1e...`,
		Args: cobra.NoArgs,
		RunE: st.withApp(func(cmd *cobra.Command, args []string, app *App) error {
			title, fetch := "events.all", eventFetcher((*events.Client).List)
			for i, listing := range eventListings {
				if selected[i] {
					title, fetch = listing.titleKey, listing.fetch
				}
			}
			if placeID != "" {
				fetch = func(c *events.Client, ctx context.Context) ([]*events.Event, error) {
					return c.ByPlace(ctx, placeID)
				}
			}

			list, err := fetch(app.Events, cmd.Context())
			if err != nil {
				return userError(app.Language, err, "events.could-not-load")
			}
			printEvents(cmd.OutOrStdout(), app.Language, title, list)
			return nil
		}),
	}

	for i, listing := range eventListings {
		cmd.Flags().BoolVar(&selected[i], listing.flag, false, "Only "+listing.flag+" events")
	}
	cmd.Flags().StringVar(&placeID, "place", "", "Only events at this place id")
	cmd.MarkFlagsMutuallyExclusive("upcoming", "ongoing", "past", "available", "popular", "place")

	cmd.AddCommand(
		newEventParticipationCommand(st, "join", "Join an event", "events.joined", (*events.Client).Join),
		newEventParticipationCommand(st, "leave", "Leave an event", "events.left", (*events.Client).Leave),
	)
	return cmd
}

func newEventParticipationCommand(st *state, use, short, doneKey string, act func(*events.Client, context.Context, string) (*events.Event, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " EVENT_ID",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: st.withApp(func(cmd *cobra.Command, args []string, app *App) error {
			if !app.Sessions.IsLoggedIn() {
				return errors.New(app.Language.Translate("auth.not-logged-in"))
			}
			event, err := act(app.Events, cmd.Context(), args[0])
			switch {
			case apperrors.Is(err, apperrors.ErrConflict):
				return errors.New(app.Language.Translate("events.cannot-join"))
			case apperrors.Is(err, apperrors.ErrNotFound):
				return errors.New(app.Language.Translate("events.not-found"))
			case err != nil:
				return userError(app.Language, err, "events.could-not-load")
			}
			fmt.Fprintln(cmd.OutOrStdout(), app.Language.Translate(doneKey, event.Title))
			return nil
		}),
	}
}

func printEvents(out io.Writer, lang *language.Service, titleKey string, list []*events.Event) {
	t := lang.Translate
	fmt.Fprintln(out, t(titleKey))
	if len(list) == 0 {
		fmt.Fprintf(out, "  %s\n", t("events.none"))
		return
	}
	for _, e := range list {
		fmt.Fprintf(out, "  %s  %s  %s  %s: %d/%d\n",
			e.ID,
			e.StartDateTime.Local().Format(time.DateTime),
			e.Title,
			t("events.participants"), e.CurrentParticipants(), e.MaxParticipants)
	}
}
