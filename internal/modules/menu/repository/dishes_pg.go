package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"restaurant-pos/internal/common/db"
	"restaurant-pos/internal/domain"
)

type Dishes interface {
	Create(ctx context.Context, d domain.Dish) error
	GetByID(ctx context.Context, id string) (domain.Dish, error)
	List(ctx context.Context) ([]domain.Dish, error)
	Update(ctx context.Context, d domain.Dish) error
	Delete(ctx context.Context, id string) error
}

type DishesPG struct{ db *db.Conn }

func NewDishesPG(conn *db.Conn) *DishesPG { return &DishesPG{db: conn} }

const dishColumns = `id, name, price, currency, description, category, image_url, weight, is_new, available`

func scanDish(row pgx.Row) (domain.Dish, error) {
	var d domain.Dish
	err := row.Scan(&d.ID, &d.Name, &d.Price, &d.Currency, &d.Description, &d.Category,
		&d.ImageURL, &d.Weight, &d.IsNew, &d.Available)
	return d, err
}

func (r *DishesPG) Create(ctx context.Context, d domain.Dish) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO dishes (`+dishColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`, d.ID, d.Name, d.Price, d.Currency, d.Description, d.Category, d.ImageURL, d.Weight, d.IsNew, d.Available)
	if err != nil {
		return fmt.Errorf("insert dish: %w", err)
	}
	return nil
}

func (r *DishesPG) GetByID(ctx context.Context, id string) (domain.Dish, error) {
	d, err := scanDish(r.db.QueryRow(ctx, `SELECT `+dishColumns+` FROM dishes WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Dish{}, domain.NotFoundf("dish %s not found", id)
	}
	if err != nil {
		return domain.Dish{}, fmt.Errorf("select dish: %w", err)
	}
	return d, nil
}

func (r *DishesPG) List(ctx context.Context) ([]domain.Dish, error) {
	rows, err := r.db.Query(ctx, `SELECT `+dishColumns+` FROM dishes ORDER BY category, name`)
	if err != nil {
		return nil, fmt.Errorf("list dishes: %w", err)
	}
	defer rows.Close()

	var out []domain.Dish
	for rows.Next() {
		d, err := scanDish(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *DishesPG) Update(ctx context.Context, d domain.Dish) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE dishes SET name=$2, price=$3, currency=$4, description=$5, category=$6,
			image_url=$7, weight=$8, is_new=$9, available=$10
		WHERE id=$1
	`, d.ID, d.Name, d.Price, d.Currency, d.Description, d.Category, d.ImageURL, d.Weight, d.IsNew, d.Available)
	if err != nil {
		return fmt.Errorf("update dish: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFoundf("dish %s not found", d.ID)
	}
	return nil
}

func (r *DishesPG) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM dishes WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete dish: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFoundf("dish %s not found", id)
	}
	return nil
}
