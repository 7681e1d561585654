package service

import (
	"context"

	"github.com/google/uuid"

	"restaurant-pos/internal/domain"
	"restaurant-pos/internal/modules/tables/repository"
)

type TableInput struct {
	Number int                `json:"number"`
	Seats  int                `json:"seats"`
	Status domain.TableStatus `json:"status"`
}

// TableService manages the seating plan and the free/occupied/booked
// status machine, cross-checked against active orders.
type TableService struct {
	tables repository.Tables
}

func NewTableService(tables repository.Tables) *TableService {
	return &TableService{tables: tables}
}

func (s *TableService) Create(ctx context.Context, in TableInput, actor domain.Role) (domain.Table, error) {
	if !domain.Allowed(actor, domain.ActionManageTables) {
		return domain.Table{}, domain.Unauthorizedf("role %s cannot manage tables", actor)
	}
	if in.Number <= 0 {
		return domain.Table{}, domain.Validationf("table number must be positive")
	}
	if in.Seats <= 0 {
		return domain.Table{}, domain.Validationf("seats must be positive")
	}
	status := in.Status
	if status == "" {
		status = domain.TableFree
	}
	if !status.Valid() {
		return domain.Table{}, domain.Validationf("unknown table status %q", status)
	}

	t := domain.Table{ID: uuid.NewString(), Number: in.Number, Seats: in.Seats, Status: status}
	if err := s.tables.Create(ctx, t); err != nil {
		return domain.Table{}, err
	}
	return t, nil
}

func (s *TableService) List(ctx context.Context) ([]domain.Table, error) {
	return s.tables.List(ctx)
}

func (s *TableService) Get(ctx context.Context, id string) (domain.Table, error) {
	return s.tables.GetByID(ctx, id)
}

func (s *TableService) Update(ctx context.Context, id string, in TableInput, actor domain.Role) (domain.Table, error) {
	if !domain.Allowed(actor, domain.ActionManageTables) {
		return domain.Table{}, domain.Unauthorizedf("role %s cannot manage tables", actor)
	}
	if in.Number <= 0 {
		return domain.Table{}, domain.Validationf("table number must be positive")
	}
	if in.Seats <= 0 {
		return domain.Table{}, domain.Validationf("seats must be positive")
	}
	t, err := s.tables.GetByID(ctx, id)
	if err != nil {
		return domain.Table{}, err
	}
	t.Number = in.Number
	t.Seats = in.Seats
	if err := s.tables.Update(ctx, t); err != nil {
		return domain.Table{}, err
	}
	return t, nil
}

func (s *TableService) Delete(ctx context.Context, id string, actor domain.Role) error {
	if !domain.Allowed(actor, domain.ActionManageTables) {
		return domain.Unauthorizedf("role %s cannot manage tables", actor)
	}
	return s.tables.Delete(ctx, id)
}

// SetStatus changes the seating status. Admins and waiters only; freeing a
// table with an active order is refused by the repository check.
func (s *TableService) SetStatus(ctx context.Context, id string, status domain.TableStatus, actor domain.Role) (domain.Table, error) {
	if !domain.Allowed(actor, domain.ActionSetTableStatus) {
		return domain.Table{}, domain.Unauthorizedf("role %s cannot set table status", actor)
	}
	if !status.Valid() {
		return domain.Table{}, domain.Validationf("unknown table status %q", status)
	}
	return s.tables.SetStatusTx(ctx, id, status)
}
