package service

import (
	"context"
	"sync"

	"restaurant-pos/internal/domain"
)

// In-memory repositories mirroring the transactional semantics of the
// Postgres ones, including the pending-only guard inside AcceptTx/RejectTx.

type fakeDishes struct {
	mu     sync.Mutex
	dishes map[string]domain.Dish
}

func newFakeDishes() *fakeDishes {
	return &fakeDishes{dishes: map[string]domain.Dish{}}
}

func (f *fakeDishes) Create(_ context.Context, d domain.Dish) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dishes[d.ID] = d
	return nil
}

func (f *fakeDishes) GetByID(_ context.Context, id string) (domain.Dish, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.dishes[id]
	if !ok {
		return domain.Dish{}, domain.NotFoundf("dish %s not found", id)
	}
	return d, nil
}

func (f *fakeDishes) List(_ context.Context) ([]domain.Dish, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Dish, 0, len(f.dishes))
	for _, d := range f.dishes {
		out = append(out, d)
	}
	return out, nil
}

func (f *fakeDishes) Update(_ context.Context, d domain.Dish) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.dishes[d.ID]; !ok {
		return domain.NotFoundf("dish %s not found", d.ID)
	}
	f.dishes[d.ID] = d
	return nil
}

func (f *fakeDishes) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.dishes[id]; !ok {
		return domain.NotFoundf("dish %s not found", id)
	}
	delete(f.dishes, id)
	return nil
}

type fakeOffers struct {
	mu     sync.Mutex
	offers map[string]domain.MenuOffer
	dishes *fakeDishes
}

func newFakeOffers(dishes *fakeDishes) *fakeOffers {
	return &fakeOffers{offers: map[string]domain.MenuOffer{}, dishes: dishes}
}

func (f *fakeOffers) Create(_ context.Context, o domain.MenuOffer) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.offers[o.ID] = o
	return nil
}

func (f *fakeOffers) GetByID(_ context.Context, id string) (domain.MenuOffer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.offers[id]
	if !ok {
		return domain.MenuOffer{}, domain.NotFoundf("offer %s not found", id)
	}
	return o, nil
}

func (f *fakeOffers) List(_ context.Context) ([]domain.MenuOffer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.MenuOffer, 0, len(f.offers))
	for _, o := range f.offers {
		out = append(out, o)
	}
	return out, nil
}

func (f *fakeOffers) ListByStatus(_ context.Context, status domain.OfferStatus) ([]domain.MenuOffer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.MenuOffer
	for _, o := range f.offers {
		if o.Status == status {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeOffers) ListByAuthor(_ context.Context, author string) ([]domain.MenuOffer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.MenuOffer
	for _, o := range f.offers {
		if o.Author == author {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeOffers) Update(_ context.Context, o domain.MenuOffer) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.offers[o.ID]; !ok {
		return domain.NotFoundf("offer %s not found", o.ID)
	}
	f.offers[o.ID] = o
	return nil
}

func (f *fakeOffers) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.offers[id]; !ok {
		return domain.NotFoundf("offer %s not found", id)
	}
	delete(f.offers, id)
	return nil
}

func (f *fakeOffers) AcceptTx(_ context.Context, offerID, dishID string) (domain.Dish, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.offers[offerID]
	if !ok {
		return domain.Dish{}, domain.NotFoundf("offer %s not found", offerID)
	}
	if o.Status != domain.OfferPending {
		return domain.Dish{}, domain.InvalidStatef("offer %s is already %s", offerID, o.Status)
	}
	dish := o.Dish(dishID)
	f.dishes.mu.Lock()
	f.dishes.dishes[dish.ID] = dish
	f.dishes.mu.Unlock()
	o.Status = domain.OfferAccepted
	f.offers[offerID] = o
	return dish, nil
}

func (f *fakeOffers) RejectTx(_ context.Context, offerID string) (domain.MenuOffer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.offers[offerID]
	if !ok {
		return domain.MenuOffer{}, domain.NotFoundf("offer %s not found", offerID)
	}
	if o.Status != domain.OfferPending {
		return domain.MenuOffer{}, domain.InvalidStatef("offer %s is already %s", offerID, o.Status)
	}
	o.Status = domain.OfferRejected
	f.offers[offerID] = o
	return o, nil
}
