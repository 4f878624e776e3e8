package places_test

import (
	"testing"

	"github.com/nlouis56/convivio-web/places"
	"github.com/stretchr/testify/require"
)

func TestDistanceKm(t *testing.T) {
	bordeaux := &places.Place{Longitude: -0.5792, Latitude: 44.8378}
	// Bordeaux to Paris is about 500 km as the crow flies
	require.InDelta(t, 500, bordeaux.DistanceKm(2.3522, 48.8566), 10)
	require.Zero(t, bordeaux.DistanceKm(-0.5792, 44.8378))
}

func TestNearSortsByDistance(t *testing.T) {
	far := &places.Place{ID: "far", Longitude: -0.60, Latitude: 44.84}
	nearby := &places.Place{ID: "close", Longitude: -0.58, Latitude: 44.84}
	paris := &places.Place{ID: "paris", Longitude: 2.35, Latitude: 48.86}

	near := places.Near([]*places.Place{paris, far, nearby}, -0.579, 44.838, 5)
	require.Len(t, near, 2)
	require.Equal(t, "close", near[0].ID)
	require.Equal(t, "far", near[1].ID)
}

func TestTopRatedAndCategory(t *testing.T) {
	a := &places.Place{ID: "a", Category: "BAR", AverageRating: 4, ReviewCount: 1}
	b := &places.Place{ID: "b", Category: "bar", AverageRating: 4, ReviewCount: 9}
	c := &places.Place{ID: "c", Category: "MUSEUM"}
	all := []*places.Place{c, a, b}

	top := places.TopRated(all, 2)
	require.Equal(t, "b", top[0].ID)
	require.Equal(t, "a", top[1].ID)
	require.Equal(t, "c", all[0].ID, "input order is left alone")

	require.Len(t, places.InCategory(all, "Bar"), 2)
	require.Empty(t, places.InCategory(all, "park"))
}

func TestNewPlaceAndReplace(t *testing.T) {
	p := places.NewPlace(places.CreateRequest{Name: "CAPC", City: "Bordeaux"}, "creator")
	require.Equal(t, "creator", p.CreatorID)
	require.Equal(t, "CAPC", p.Name)

	p.AverageRating = 4.5
	places.CreateRequest{Name: "CAPC musee", City: "Bordeaux"}.Replace(p)
	require.Equal(t, "CAPC musee", p.Name)
	require.Equal(t, 4.5, p.AverageRating)
	require.Equal(t, "creator", p.CreatorID)
}
