package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"restaurant-pos/internal/common/db"
	"restaurant-pos/internal/domain"
)

type Offers interface {
	Create(ctx context.Context, o domain.MenuOffer) error
	GetByID(ctx context.Context, id string) (domain.MenuOffer, error)
	List(ctx context.Context) ([]domain.MenuOffer, error)
	ListByStatus(ctx context.Context, status domain.OfferStatus) ([]domain.MenuOffer, error)
	ListByAuthor(ctx context.Context, author string) ([]domain.MenuOffer, error)
	Update(ctx context.Context, o domain.MenuOffer) error
	Delete(ctx context.Context, id string) error

	// AcceptTx promotes a pending offer: inserts the dish and flips the
	// offer to accepted in one transaction. dishID becomes the new dish's
	// id and is recorded on the offer row, which makes retries idempotent
	// (an accepted offer already carries its dish).
	AcceptTx(ctx context.Context, offerID, dishID string) (domain.Dish, error)

	// RejectTx flips a pending offer to rejected.
	RejectTx(ctx context.Context, offerID string) (domain.MenuOffer, error)
}

type OffersPG struct{ db *db.Conn }

func NewOffersPG(conn *db.Conn) *OffersPG { return &OffersPG{db: conn} }

const offerColumns = `id, name, price, currency, description, category, image_url, weight, is_new, available, author, status, created_at`

func scanOffer(row pgx.Row) (domain.MenuOffer, error) {
	var o domain.MenuOffer
	err := row.Scan(&o.ID, &o.Name, &o.Price, &o.Currency, &o.Description, &o.Category,
		&o.ImageURL, &o.Weight, &o.IsNew, &o.Available, &o.Author, &o.Status, &o.CreatedAt)
	return o, err
}

func (r *OffersPG) Create(ctx context.Context, o domain.MenuOffer) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO menu_offers (`+offerColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
	`, o.ID, o.Name, o.Price, o.Currency, o.Description, o.Category, o.ImageURL, o.Weight,
		o.IsNew, o.Available, o.Author, o.Status, o.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert offer: %w", err)
	}
	return nil
}

func (r *OffersPG) GetByID(ctx context.Context, id string) (domain.MenuOffer, error) {
	o, err := scanOffer(r.db.QueryRow(ctx, `SELECT `+offerColumns+` FROM menu_offers WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.MenuOffer{}, domain.NotFoundf("offer %s not found", id)
	}
	if err != nil {
		return domain.MenuOffer{}, fmt.Errorf("select offer: %w", err)
	}
	return o, nil
}

func (r *OffersPG) list(ctx context.Context, where string, args ...any) ([]domain.MenuOffer, error) {
	rows, err := r.db.Query(ctx, `SELECT `+offerColumns+` FROM menu_offers `+where+` ORDER BY created_at DESC`, args...)
	if err != nil {
		return nil, fmt.Errorf("list offers: %w", err)
	}
	defer rows.Close()

	var out []domain.MenuOffer
	for rows.Next() {
		o, err := scanOffer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *OffersPG) List(ctx context.Context) ([]domain.MenuOffer, error) {
	return r.list(ctx, ``)
}

func (r *OffersPG) ListByStatus(ctx context.Context, status domain.OfferStatus) ([]domain.MenuOffer, error) {
	return r.list(ctx, `WHERE status=$1`, status)
}

func (r *OffersPG) ListByAuthor(ctx context.Context, author string) ([]domain.MenuOffer, error) {
	return r.list(ctx, `WHERE author=$1`, author)
}

func (r *OffersPG) Update(ctx context.Context, o domain.MenuOffer) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE menu_offers SET name=$2, price=$3, currency=$4, description=$5, category=$6,
			image_url=$7, weight=$8, is_new=$9, available=$10
		WHERE id=$1
	`, o.ID, o.Name, o.Price, o.Currency, o.Description, o.Category, o.ImageURL, o.Weight, o.IsNew, o.Available)
	if err != nil {
		return fmt.Errorf("update offer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFoundf("offer %s not found", o.ID)
	}
	return nil
}

func (r *OffersPG) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM menu_offers WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete offer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFoundf("offer %s not found", id)
	}
	return nil
}

func (r *OffersPG) AcceptTx(ctx context.Context, offerID, dishID string) (domain.Dish, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return domain.Dish{}, fmt.Errorf("begin accept tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	o, err := scanOffer(tx.QueryRow(ctx, `SELECT `+offerColumns+` FROM menu_offers WHERE id=$1 FOR UPDATE`, offerID))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Dish{}, domain.NotFoundf("offer %s not found", offerID)
	}
	if err != nil {
		return domain.Dish{}, fmt.Errorf("lock offer: %w", err)
	}
	if o.Status != domain.OfferPending {
		return domain.Dish{}, domain.InvalidStatef("offer %s is already %s", offerID, o.Status)
	}

	dish := o.Dish(dishID)
	if _, err := tx.Exec(ctx, `
		INSERT INTO dishes (`+dishColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`, dish.ID, dish.Name, dish.Price, dish.Currency, dish.Description, dish.Category,
		dish.ImageURL, dish.Weight, dish.IsNew, dish.Available); err != nil {
		return domain.Dish{}, fmt.Errorf("insert promoted dish: %w", err)
	}

	if _, err := tx.Exec(ctx, `
		UPDATE menu_offers SET status=$2, dish_id=$3 WHERE id=$1
	`, offerID, domain.OfferAccepted, dishID); err != nil {
		return domain.Dish{}, fmt.Errorf("mark offer accepted: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Dish{}, fmt.Errorf("commit accept tx: %w", err)
	}
	return dish, nil
}

func (r *OffersPG) RejectTx(ctx context.Context, offerID string) (domain.MenuOffer, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return domain.MenuOffer{}, fmt.Errorf("begin reject tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	o, err := scanOffer(tx.QueryRow(ctx, `SELECT `+offerColumns+` FROM menu_offers WHERE id=$1 FOR UPDATE`, offerID))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.MenuOffer{}, domain.NotFoundf("offer %s not found", offerID)
	}
	if err != nil {
		return domain.MenuOffer{}, fmt.Errorf("lock offer: %w", err)
	}
	if o.Status != domain.OfferPending {
		return domain.MenuOffer{}, domain.InvalidStatef("offer %s is already %s", offerID, o.Status)
	}

	if _, err := tx.Exec(ctx, `UPDATE menu_offers SET status=$2 WHERE id=$1`, offerID, domain.OfferRejected); err != nil {
		return domain.MenuOffer{}, fmt.Errorf("mark offer rejected: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.MenuOffer{}, fmt.Errorf("commit reject tx: %w", err)
	}
	o.Status = domain.OfferRejected
	return o, nil
}
