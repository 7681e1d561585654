package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"restaurant-pos/internal/domain"
	"restaurant-pos/internal/modules/menu/repository"
)

// DishInput carries the editable fields of a dish or an offer draft.
type DishInput struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Currency    string  `json:"currency"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	ImageURL    string  `json:"image_url"`
	Weight      string  `json:"weight"`
	IsNew       bool    `json:"is_new"`
	Available   bool    `json:"available"`
}

func (in DishInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return domain.Validationf("name is required")
	}
	if in.Price <= 0 {
		return domain.Validationf("price must be positive")
	}
	if strings.TrimSpace(in.Description) == "" {
		return domain.Validationf("description is required")
	}
	if strings.TrimSpace(in.Category) == "" {
		return domain.Validationf("category is required")
	}
	return nil
}

func (in DishInput) currency() string {
	if in.Currency == "" {
		return domain.DefaultCurrency
	}
	return in.Currency
}

// MenuService owns direct dish management. Promotion from offers goes
// through ApprovalService instead.
type MenuService struct {
	dishes repository.Dishes
}

func NewMenuService(dishes repository.Dishes) *MenuService {
	return &MenuService{dishes: dishes}
}

func (s *MenuService) Create(ctx context.Context, in DishInput, actor domain.Role) (domain.Dish, error) {
	if !domain.Allowed(actor, domain.ActionManageDishes) {
		return domain.Dish{}, domain.Unauthorizedf("role %s cannot manage dishes", actor)
	}
	if err := in.validate(); err != nil {
		return domain.Dish{}, err
	}
	d := domain.Dish{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Price:       in.Price,
		Currency:    in.currency(),
		Description: in.Description,
		Category:    in.Category,
		ImageURL:    in.ImageURL,
		Weight:      in.Weight,
		IsNew:       in.IsNew,
		Available:   in.Available,
	}
	if err := s.dishes.Create(ctx, d); err != nil {
		return domain.Dish{}, err
	}
	return d, nil
}

func (s *MenuService) List(ctx context.Context) ([]domain.Dish, error) {
	return s.dishes.List(ctx)
}

func (s *MenuService) Get(ctx context.Context, id string) (domain.Dish, error) {
	return s.dishes.GetByID(ctx, id)
}

func (s *MenuService) Update(ctx context.Context, id string, in DishInput, actor domain.Role) (domain.Dish, error) {
	if !domain.Allowed(actor, domain.ActionManageDishes) {
		return domain.Dish{}, domain.Unauthorizedf("role %s cannot manage dishes", actor)
	}
	if err := in.validate(); err != nil {
		return domain.Dish{}, err
	}
	d, err := s.dishes.GetByID(ctx, id)
	if err != nil {
		return domain.Dish{}, err
	}
	d.Name = in.Name
	d.Price = in.Price
	d.Currency = in.currency()
	d.Description = in.Description
	d.Category = in.Category
	d.ImageURL = in.ImageURL
	d.Weight = in.Weight
	d.IsNew = in.IsNew
	d.Available = in.Available
	if err := s.dishes.Update(ctx, d); err != nil {
		return domain.Dish{}, err
	}
	return d, nil
}

func (s *MenuService) Delete(ctx context.Context, id string, actor domain.Role) error {
	if !domain.Allowed(actor, domain.ActionManageDishes) {
		return domain.Unauthorizedf("role %s cannot manage dishes", actor)
	}
	return s.dishes.Delete(ctx, id)
}
