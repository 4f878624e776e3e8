package cli

import (
	"fmt"
	"io"
	"strings"

	apperrors "github.com/nlouis56/convivio-web/internal/errors"
	"github.com/nlouis56/convivio-web/language"
	"github.com/nlouis56/convivio-web/places"
	"github.com/nlouis56/convivio-web/reviews"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newPlacesCommand(st *state) *cobra.Command {
	var (
		category string
		top      int
	)

	cmd := &cobra.Command{
		Use:   "places",
		Short: "List Convivio places",
		Long: `List places, optionally by category or by rating.

Examples:
  convivio places --category bar
  convivio places --top 5
  convivio places show 3f2a...
  convivio places review 3f2a... --rating 5 --comment "Great terrace"`,
		Args: cobra.NoArgs,
		RunE: st.withApp(func(cmd *cobra.Command, args []string, app *App) error {
			var (
				list  []*places.Place
				err   error
				title = "places.all"
			)
			switch {
			case top > 0:
				title = "places.top-rated"
				list, err = app.Places.TopRated(cmd.Context(), top)
			case category != "":
				list, err = app.Places.ListByCategory(cmd.Context(), category)
			default:
				list, err = app.Places.List(cmd.Context())
			}
			if err != nil {
				return userError(app.Language, err, "places.could-not-load")
			}
			printPlaces(cmd.OutOrStdout(), app.Language, title, list)
			return nil
		}),
	}

	cmd.Flags().StringVar(&category, "category", "", "Only places of this category")
	cmd.Flags().IntVar(&top, "top", 0, "Only the N best rated places")
	cmd.MarkFlagsMutuallyExclusive("category", "top")

	cmd.AddCommand(newPlaceShowCommand(st), newPlaceReviewCommand(st))
	return cmd
}

func newPlaceShowCommand(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "show PLACE_ID",
		Short: "Show a place and its reviews",
		Args:  cobra.ExactArgs(1),
		RunE: st.withApp(func(cmd *cobra.Command, args []string, app *App) error {
			place, err := app.Places.Get(cmd.Context(), args[0])
			if apperrors.Is(err, apperrors.ErrNotFound) {
				return errors.New(app.Language.Translate("places.not-found"))
			}
			if err != nil {
				return userError(app.Language, err, "places.could-not-load")
			}
			list, err := app.Reviews.ForPlace(cmd.Context(), place.ID)
			if err != nil {
				return userError(app.Language, err, "places.could-not-load")
			}
			printPlace(cmd.OutOrStdout(), app.Language, place, list)
			return nil
		}),
	}
}

func newPlaceReviewCommand(st *state) *cobra.Command {
	var req reviews.CreateRequest

	cmd := &cobra.Command{
		Use:   "review PLACE_ID",
		Short: "Rate a place from 1 to 5",
		Args:  cobra.ExactArgs(1),
		RunE: st.withApp(func(cmd *cobra.Command, args []string, app *App) error {
			if !app.Sessions.IsLoggedIn() {
				return errors.New(app.Language.Translate("auth.not-logged-in"))
			}
			_, err := app.Reviews.CreateForPlace(cmd.Context(), args[0], req)
			switch {
			case apperrors.Is(err, apperrors.ErrConflict):
				return errors.New(app.Language.Translate("reviews.already"))
			case apperrors.Is(err, apperrors.ErrNotFound):
				return errors.New(app.Language.Translate("places.not-found"))
			case err != nil:
				return userError(app.Language, err, "places.could-not-load")
			}
			fmt.Fprintln(cmd.OutOrStdout(), app.Language.Translate("reviews.created"))
			return nil
		}),
	}

	cmd.Flags().IntVar(&req.Rating, "rating", 0, "Rating from 1 to 5 (required)")
	cmd.Flags().StringVar(&req.Comment, "comment", "", "What you thought of it (required)")
	return cmd
}

func printPlaces(out io.Writer, lang *language.Service, titleKey string, list []*places.Place) {
	fmt.Fprintln(out, lang.Translate(titleKey))
	if len(list) == 0 {
		fmt.Fprintf(out, "  %s\n", lang.Translate("places.no-places"))
		return
	}
	for _, p := range list {
		fmt.Fprintf(out, "  %s  %s  %s, %s  %s\n", p.ID, p.Name, p.City, strings.ToLower(p.Category), rating(lang, p))
	}
}

func printPlace(out io.Writer, lang *language.Service, p *places.Place, list []*reviews.Review) {
	t := lang.Translate
	fmt.Fprintln(out, p.Name)
	if p.Description != "" {
		fmt.Fprintf(out, "  %s\n", p.Description)
	}
	fmt.Fprintf(out, "  %s: %s, %s %s\n", t("places.address"), p.Address, p.PostalCode, p.City)
	fmt.Fprintf(out, "  %s: %s\n", t("places.category"), p.Category)
	fmt.Fprintf(out, "  %s: %s\n", t("places.average-rating"), rating(lang, p))

	fmt.Fprintln(out, t("misc.reviews"))
	if len(list) == 0 {
		fmt.Fprintf(out, "  %s\n", t("reviews.none"))
		return
	}
	for _, r := range list {
		fmt.Fprintf(out, "  %s %s\n", strings.Repeat("*", r.Rating), r.Comment)
	}
}

func rating(lang *language.Service, p *places.Place) string {
	if p.ReviewCount == 0 {
		return lang.Translate("places.not-rated")
	}
	return fmt.Sprintf("%.1f/5 (%d)", p.AverageRating, p.ReviewCount)
}
