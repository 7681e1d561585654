package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"restaurant-pos/internal/common/logger"
	"restaurant-pos/internal/domain"
	"restaurant-pos/internal/modules/menu/repository"
)

// Publisher pushes lifecycle notifications to the message broker. Event
// delivery is best-effort: a broker hiccup must not undo a committed
// promotion.
type Publisher interface {
	Publish(ctx context.Context, key string, payload any) error
}

// NopPublisher drops events. Used in tests and when the broker is disabled.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, any) error { return nil }

// OfferDraft is what a cook or waiter submits for review.
type OfferDraft struct {
	DishInput
	Author string `json:"author"`
}

// ApprovalService runs the offer review workflow: submit, accept (promote
// to dish), reject. Accepted and rejected are terminal.
type ApprovalService struct {
	offers repository.Offers
	pub    Publisher
	lg     *logger.Logger
}

func NewApprovalService(offers repository.Offers, pub Publisher, lg *logger.Logger) *ApprovalService {
	if pub == nil {
		pub = NopPublisher{}
	}
	return &ApprovalService{offers: offers, pub: pub, lg: lg}
}

func (s *ApprovalService) Submit(ctx context.Context, draft OfferDraft, actor domain.Role) (domain.MenuOffer, error) {
	if !domain.Allowed(actor, domain.ActionSubmitOffer) {
		return domain.MenuOffer{}, domain.Unauthorizedf("role %s cannot submit offers", actor)
	}
	if err := draft.validate(); err != nil {
		return domain.MenuOffer{}, err
	}
	if strings.TrimSpace(draft.Author) == "" {
		return domain.MenuOffer{}, domain.Validationf("author is required")
	}

	o := domain.MenuOffer{
		ID:          uuid.NewString(),
		Name:        draft.Name,
		Price:       draft.Price,
		Currency:    draft.currency(),
		Description: draft.Description,
		Category:    draft.Category,
		ImageURL:    draft.ImageURL,
		Weight:      draft.Weight,
		IsNew:       draft.IsNew,
		Available:   draft.Available,
		Author:      draft.Author,
		Status:      domain.OfferPending,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.offers.Create(ctx, o); err != nil {
		return domain.MenuOffer{}, err
	}
	s.lg.Info("offer_submitted", map[string]any{"offer_id": o.ID, "author": o.Author})
	return o, nil
}

// Accept promotes a pending offer into a dish. The repository transaction
// guarantees an observer never sees an accepted offer without its dish or
// the other way round.
func (s *ApprovalService) Accept(ctx context.Context, offerID string, actor domain.Role) (domain.Dish, error) {
	if !domain.Allowed(actor, domain.ActionAcceptOffer) {
		return domain.Dish{}, domain.Unauthorizedf("role %s cannot accept offers", actor)
	}

	dish, err := s.offers.AcceptTx(ctx, offerID, uuid.NewString())
	if err != nil {
		return domain.Dish{}, err
	}

	s.lg.Info("offer_accepted", map[string]any{"offer_id": offerID, "dish_id": dish.ID})
	ev := domain.OfferReviewedEvent{
		OfferID:   offerID,
		Name:      dish.Name,
		Status:    domain.OfferAccepted,
		DishID:    dish.ID,
		Timestamp: time.Now().UTC(),
	}
	// AcceptTx returns only the dish; re-read the offer for its author.
	if o, err := s.offers.GetByID(ctx, offerID); err == nil {
		ev.Author = o.Author
	}
	s.notify(ctx, domain.EventOfferAccepted, ev)
	return dish, nil
}

func (s *ApprovalService) Reject(ctx context.Context, offerID string, actor domain.Role) (domain.MenuOffer, error) {
	if !domain.Allowed(actor, domain.ActionRejectOffer) {
		return domain.MenuOffer{}, domain.Unauthorizedf("role %s cannot reject offers", actor)
	}

	o, err := s.offers.RejectTx(ctx, offerID)
	if err != nil {
		return domain.MenuOffer{}, err
	}

	s.lg.Info("offer_rejected", map[string]any{"offer_id": offerID})
	s.notify(ctx, domain.EventOfferRejected, domain.OfferReviewedEvent{
		OfferID:   o.ID,
		Name:      o.Name,
		Author:    o.Author,
		Status:    domain.OfferRejected,
		Timestamp: time.Now().UTC(),
	})
	return o, nil
}

func (s *ApprovalService) Get(ctx context.Context, id string) (domain.MenuOffer, error) {
	return s.offers.GetByID(ctx, id)
}

func (s *ApprovalService) List(ctx context.Context) ([]domain.MenuOffer, error) {
	return s.offers.List(ctx)
}

func (s *ApprovalService) ListPending(ctx context.Context) ([]domain.MenuOffer, error) {
	return s.offers.ListByStatus(ctx, domain.OfferPending)
}

func (s *ApprovalService) ListByAuthor(ctx context.Context, author string) ([]domain.MenuOffer, error) {
	return s.offers.ListByAuthor(ctx, author)
}

// Update edits a draft. Reviewed offers are immutable.
func (s *ApprovalService) Update(ctx context.Context, id string, in DishInput) (domain.MenuOffer, error) {
	if err := in.validate(); err != nil {
		return domain.MenuOffer{}, err
	}
	o, err := s.offers.GetByID(ctx, id)
	if err != nil {
		return domain.MenuOffer{}, err
	}
	if o.Status.Terminal() {
		return domain.MenuOffer{}, domain.InvalidStatef("offer %s is already %s", id, o.Status)
	}
	o.Name = in.Name
	o.Price = in.Price
	o.Currency = in.currency()
	o.Description = in.Description
	o.Category = in.Category
	o.ImageURL = in.ImageURL
	o.Weight = in.Weight
	o.IsNew = in.IsNew
	o.Available = in.Available
	if err := s.offers.Update(ctx, o); err != nil {
		return domain.MenuOffer{}, err
	}
	return o, nil
}

func (s *ApprovalService) Delete(ctx context.Context, id string, actor domain.Role) error {
	if !domain.Allowed(actor, domain.ActionManageOffers) {
		return domain.Unauthorizedf("role %s cannot delete offers", actor)
	}
	return s.offers.Delete(ctx, id)
}

func (s *ApprovalService) notify(ctx context.Context, key string, payload any) {
	if err := s.pub.Publish(ctx, key, payload); err != nil {
		s.lg.Error("event_publish_failed", err, map[string]any{"event": key})
	}
}
