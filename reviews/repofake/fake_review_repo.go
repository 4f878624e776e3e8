package fakereviewrepo

import (
	"sort"
	"sync"

	"github.com/google/uuid"
	apperrors "github.com/nlouis56/convivio-web/internal/errors"
	"github.com/nlouis56/convivio-web/reviews"
)

var _ reviews.ReviewRepo = (*FakeReviewRepo)(nil)

type FakeReviewRepo struct {
	reviews map[string]*reviews.Review
	lock    sync.RWMutex
}

func NewFakeReviewRepo() reviews.ReviewRepo {
	return &FakeReviewRepo{reviews: make(map[string]*reviews.Review)}
}

func (rr *FakeReviewRepo) Upsert(review *reviews.Review) error {
	rr.lock.Lock()
	defer rr.lock.Unlock()

	if review.ID == "" {
		review.ID = uuid.New().String()
	}
	c := *review
	rr.reviews[review.ID] = &c
	return nil
}

func (rr *FakeReviewRepo) GetByID(id string) (*reviews.Review, error) {
	rr.lock.RLock()
	defer rr.lock.RUnlock()

	r, ok := rr.reviews[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	c := *r
	return &c, nil
}

// List returns every review, newest first.
func (rr *FakeReviewRepo) List() ([]*reviews.Review, error) {
	rr.lock.RLock()
	defer rr.lock.RUnlock()

	all := make([]*reviews.Review, 0, len(rr.reviews))
	for _, r := range rr.reviews {
		c := *r
		all = append(all, &c)
	}
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID < all[j].ID
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	return all, nil
}

func (rr *FakeReviewRepo) Delete(id string) error {
	rr.lock.Lock()
	defer rr.lock.Unlock()

	if _, ok := rr.reviews[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(rr.reviews, id)
	return nil
}
