package fakeeventrepo

import (
	"sync"

	"github.com/google/uuid"
	"github.com/nlouis56/convivio-web/events"
	apperrors "github.com/nlouis56/convivio-web/internal/errors"
)

var _ events.EventRepo = (*FakeEventRepo)(nil)

type FakeEventRepo struct {
	events map[string]*events.Event
	lock   sync.RWMutex
}

func NewFakeEventRepo() events.EventRepo {
	return &FakeEventRepo{events: make(map[string]*events.Event)}
}

func (er *FakeEventRepo) Upsert(event *events.Event) error {
	er.lock.Lock()
	defer er.lock.Unlock()

	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	er.events[event.ID] = copyEvent(event)
	return nil
}

func (er *FakeEventRepo) GetByID(id string) (*events.Event, error) {
	er.lock.RLock()
	defer er.lock.RUnlock()

	e, ok := er.events[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return copyEvent(e), nil
}

// List returns every event, earliest start first.
func (er *FakeEventRepo) List() ([]*events.Event, error) {
	er.lock.RLock()
	defer er.lock.RUnlock()

	all := make([]*events.Event, 0, len(er.events))
	for _, e := range er.events {
		all = append(all, copyEvent(e))
	}
	events.SortByStart(all)
	return all, nil
}

func (er *FakeEventRepo) Delete(id string) error {
	er.lock.Lock()
	defer er.lock.Unlock()

	if _, ok := er.events[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(er.events, id)
	return nil
}

func (er *FakeEventRepo) Update(id string, fn func(*events.Event) error) (*events.Event, error) {
	er.lock.Lock()
	defer er.lock.Unlock()

	stored, ok := er.events[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	e := copyEvent(stored)
	if err := fn(e); err != nil {
		return nil, err
	}
	er.events[id] = copyEvent(e)
	return e, nil
}

func copyEvent(e *events.Event) *events.Event {
	c := *e
	c.Participants = append([]string(nil), e.Participants...)
	return &c
}
