package fakeplacerepo

import (
	"sort"
	"sync"

	"github.com/google/uuid"
	apperrors "github.com/nlouis56/convivio-web/internal/errors"
	"github.com/nlouis56/convivio-web/places"
)

var _ places.PlaceRepo = (*FakePlaceRepo)(nil)

type FakePlaceRepo struct {
	places map[string]*places.Place
	lock   sync.RWMutex
}

func NewFakePlaceRepo() places.PlaceRepo {
	return &FakePlaceRepo{places: make(map[string]*places.Place)}
}

func (pr *FakePlaceRepo) Upsert(place *places.Place) error {
	pr.lock.Lock()
	defer pr.lock.Unlock()

	if place.ID == "" {
		place.ID = uuid.New().String()
	}
	c := *place
	pr.places[place.ID] = &c
	return nil
}

func (pr *FakePlaceRepo) GetByID(id string) (*places.Place, error) {
	pr.lock.RLock()
	defer pr.lock.RUnlock()

	p, ok := pr.places[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	c := *p
	return &c, nil
}

// List returns every place sorted by name.
func (pr *FakePlaceRepo) List() ([]*places.Place, error) {
	pr.lock.RLock()
	defer pr.lock.RUnlock()

	all := make([]*places.Place, 0, len(pr.places))
	for _, p := range pr.places {
		c := *p
		all = append(all, &c)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return all, nil
}

func (pr *FakePlaceRepo) Delete(id string) error {
	pr.lock.Lock()
	defer pr.lock.Unlock()

	if _, ok := pr.places[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(pr.places, id)
	return nil
}
