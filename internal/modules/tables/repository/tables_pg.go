package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"restaurant-pos/internal/common/db"
	"restaurant-pos/internal/domain"
)

type Tables interface {
	Create(ctx context.Context, t domain.Table) error
	GetByID(ctx context.Context, id string) (domain.Table, error)
	GetByNumber(ctx context.Context, number int) (domain.Table, error)
	List(ctx context.Context) ([]domain.Table, error)
	Update(ctx context.Context, t domain.Table) error
	Delete(ctx context.Context, id string) error

	// SetStatusTx sets the seating status under a row lock. Freeing a
	// table is refused while an active order references it.
	SetStatusTx(ctx context.Context, id string, status domain.TableStatus) (domain.Table, error)
}

type TablesPG struct{ db *db.Conn }

func NewTablesPG(conn *db.Conn) *TablesPG { return &TablesPG{db: conn} }

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func (r *TablesPG) Create(ctx context.Context, t domain.Table) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO tables (id, number, seats, status) VALUES ($1,$2,$3,$4)
	`, t.ID, t.Number, t.Seats, t.Status)
	if isUniqueViolation(err) {
		return domain.Conflictf("table number %d already exists", t.Number)
	}
	if err != nil {
		return fmt.Errorf("insert table: %w", err)
	}
	return nil
}

func (r *TablesPG) GetByID(ctx context.Context, id string) (domain.Table, error) {
	var t domain.Table
	err := r.db.QueryRow(ctx, `SELECT id, number, seats, status FROM tables WHERE id=$1`, id).
		Scan(&t.ID, &t.Number, &t.Seats, &t.Status)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Table{}, domain.NotFoundf("table %s not found", id)
	}
	if err != nil {
		return domain.Table{}, fmt.Errorf("select table: %w", err)
	}
	return t, nil
}

func (r *TablesPG) GetByNumber(ctx context.Context, number int) (domain.Table, error) {
	var t domain.Table
	err := r.db.QueryRow(ctx, `SELECT id, number, seats, status FROM tables WHERE number=$1`, number).
		Scan(&t.ID, &t.Number, &t.Seats, &t.Status)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Table{}, domain.NotFoundf("table %d not found", number)
	}
	if err != nil {
		return domain.Table{}, fmt.Errorf("select table: %w", err)
	}
	return t, nil
}

func (r *TablesPG) List(ctx context.Context) ([]domain.Table, error) {
	rows, err := r.db.Query(ctx, `SELECT id, number, seats, status FROM tables ORDER BY number`)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer rows.Close()

	var out []domain.Table
	for rows.Next() {
		var t domain.Table
		if err := rows.Scan(&t.ID, &t.Number, &t.Seats, &t.Status); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *TablesPG) Update(ctx context.Context, t domain.Table) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE tables SET number=$2, seats=$3 WHERE id=$1
	`, t.ID, t.Number, t.Seats)
	if isUniqueViolation(err) {
		return domain.Conflictf("table number %d already exists", t.Number)
	}
	if err != nil {
		return fmt.Errorf("update table: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFoundf("table %s not found", t.ID)
	}
	return nil
}

func (r *TablesPG) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM tables WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete table: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFoundf("table %s not found", id)
	}
	return nil
}

func (r *TablesPG) SetStatusTx(ctx context.Context, id string, status domain.TableStatus) (domain.Table, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return domain.Table{}, fmt.Errorf("begin set status tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var t domain.Table
	err = tx.QueryRow(ctx, `SELECT id, number, seats, status FROM tables WHERE id=$1 FOR UPDATE`, id).
		Scan(&t.ID, &t.Number, &t.Seats, &t.Status)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Table{}, domain.NotFoundf("table %s not found", id)
	}
	if err != nil {
		return domain.Table{}, fmt.Errorf("lock table: %w", err)
	}

	if status == domain.TableFree {
		var active int
		err := tx.QueryRow(ctx, `
			SELECT count(*) FROM orders WHERE table_number=$1 AND status <> $2
		`, t.Number, domain.OrderReady).Scan(&active)
		if err != nil {
			return domain.Table{}, fmt.Errorf("count active orders: %w", err)
		}
		if active > 0 {
			return domain.Table{}, domain.InvalidStatef("table %d has an active order", t.Number)
		}
	}

	if _, err := tx.Exec(ctx, `UPDATE tables SET status=$2 WHERE id=$1`, id, status); err != nil {
		return domain.Table{}, fmt.Errorf("set table status: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.Table{}, fmt.Errorf("commit set status tx: %w", err)
	}
	t.Status = status
	return t, nil
}
