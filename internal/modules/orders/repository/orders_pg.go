package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"restaurant-pos/internal/common/db"
	"restaurant-pos/internal/domain"
)

type Orders interface {
	// PlaceTx stores the order with its frozen item snapshot and marks the
	// table occupied, all in one transaction. The table is looked up by
	// number; an unknown table fails the whole placement.
	PlaceTx(ctx context.Context, o domain.Order) error

	// AdvanceTx moves the order to the next status. The current status is
	// re-read under a row lock, so two racing advances cannot both win.
	// When the order reaches ready and no other active order holds the
	// table, the table is freed.
	AdvanceTx(ctx context.Context, id string, to domain.OrderStatus) (domain.Order, error)

	GetByID(ctx context.Context, id string) (domain.Order, error)
	List(ctx context.Context) ([]domain.Order, error)
	ActiveForTable(ctx context.Context, tableNumber int) (domain.Order, error)
	Delete(ctx context.Context, id string) error
}

type OrdersPG struct{ db *db.Conn }

func NewOrdersPG(conn *db.Conn) *OrdersPG { return &OrdersPG{db: conn} }

func (r *OrdersPG) PlaceTx(ctx context.Context, o domain.Order) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin place tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var tableID string
	err = tx.QueryRow(ctx, `SELECT id FROM tables WHERE number=$1 FOR UPDATE`, o.TableNumber).Scan(&tableID)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.NotFoundf("table %d not found", o.TableNumber)
	}
	if err != nil {
		return fmt.Errorf("lock table: %w", err)
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO orders (id, table_number, waiter_id, status, created_at)
		VALUES ($1,$2,$3,$4,$5)
	`, o.ID, o.TableNumber, o.WaiterID, o.Status, o.CreatedAt); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	for _, it := range o.Items {
		if _, err := tx.Exec(ctx, `
			INSERT INTO order_items (order_id, name, price, quantity)
			VALUES ($1,$2,$3,$4)
		`, o.ID, it.Name, it.Price, it.Quantity); err != nil {
			return fmt.Errorf("insert order item %s: %w", it.Name, err)
		}
	}

	if _, err := tx.Exec(ctx, `UPDATE tables SET status=$2 WHERE id=$1`, tableID, domain.TableOccupied); err != nil {
		return fmt.Errorf("occupy table: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit place tx: %w", err)
	}
	return nil
}

func (r *OrdersPG) AdvanceTx(ctx context.Context, id string, to domain.OrderStatus) (domain.Order, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return domain.Order{}, fmt.Errorf("begin advance tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var o domain.Order
	err = tx.QueryRow(ctx, `
		SELECT id, table_number, waiter_id, status, created_at FROM orders WHERE id=$1 FOR UPDATE
	`, id).Scan(&o.ID, &o.TableNumber, &o.WaiterID, &o.Status, &o.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Order{}, domain.NotFoundf("order %s not found", id)
	}
	if err != nil {
		return domain.Order{}, fmt.Errorf("lock order: %w", err)
	}

	if !o.Status.CanTransition(to) {
		return domain.Order{}, domain.InvalidTransitionf("cannot move order from %s to %s", o.Status, to)
	}

	if _, err := tx.Exec(ctx, `UPDATE orders SET status=$2 WHERE id=$1`, id, to); err != nil {
		return domain.Order{}, fmt.Errorf("update order status: %w", err)
	}

	if to == domain.OrderReady {
		// Lock the table row first so a concurrent placement cannot
		// commit between the count and the free. PlaceTx takes the same
		// lock before inserting.
		var tableID string
		err := tx.QueryRow(ctx, `
			SELECT id FROM tables WHERE number=$1 FOR UPDATE
		`, o.TableNumber).Scan(&tableID)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return domain.Order{}, fmt.Errorf("lock table: %w", err)
		}
		if err == nil {
			var remaining int
			err := tx.QueryRow(ctx, `
				SELECT count(*) FROM orders WHERE table_number=$1 AND status <> $2 AND id <> $3
			`, o.TableNumber, domain.OrderReady, id).Scan(&remaining)
			if err != nil {
				return domain.Order{}, fmt.Errorf("count active orders: %w", err)
			}
			if remaining == 0 {
				if _, err := tx.Exec(ctx, `
					UPDATE tables SET status=$2 WHERE id=$1
				`, tableID, domain.TableFree); err != nil {
					return domain.Order{}, fmt.Errorf("free table: %w", err)
				}
			}
		}
	}

	items, err := r.itemsTx(ctx, tx, id)
	if err != nil {
		return domain.Order{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Order{}, fmt.Errorf("commit advance tx: %w", err)
	}
	o.Status = to
	o.Items = items
	return o, nil
}

func (r *OrdersPG) GetByID(ctx context.Context, id string) (domain.Order, error) {
	var o domain.Order
	err := r.db.QueryRow(ctx, `
		SELECT id, table_number, waiter_id, status, created_at FROM orders WHERE id=$1
	`, id).Scan(&o.ID, &o.TableNumber, &o.WaiterID, &o.Status, &o.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Order{}, domain.NotFoundf("order %s not found", id)
	}
	if err != nil {
		return domain.Order{}, fmt.Errorf("select order: %w", err)
	}
	o.Items, err = r.items(ctx, id)
	if err != nil {
		return domain.Order{}, err
	}
	return o, nil
}

func (r *OrdersPG) List(ctx context.Context) ([]domain.Order, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, table_number, waiter_id, status, created_at FROM orders ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var out []domain.Order
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(&o.ID, &o.TableNumber, &o.WaiterID, &o.Status, &o.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		if out[i].Items, err = r.items(ctx, out[i].ID); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *OrdersPG) ActiveForTable(ctx context.Context, tableNumber int) (domain.Order, error) {
	var o domain.Order
	err := r.db.QueryRow(ctx, `
		SELECT id, table_number, waiter_id, status, created_at FROM orders
		WHERE table_number=$1 AND status <> $2
		ORDER BY created_at DESC LIMIT 1
	`, tableNumber, domain.OrderReady).Scan(&o.ID, &o.TableNumber, &o.WaiterID, &o.Status, &o.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Order{}, domain.NotFoundf("no active order for table %d", tableNumber)
	}
	if err != nil {
		return domain.Order{}, fmt.Errorf("select active order: %w", err)
	}
	o.Items, err = r.items(ctx, o.ID)
	if err != nil {
		return domain.Order{}, err
	}
	return o, nil
}

func (r *OrdersPG) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM orders WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFoundf("order %s not found", id)
	}
	return nil
}

func (r *OrdersPG) items(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	rows, err := r.db.Query(ctx, `SELECT name, price, quantity FROM order_items WHERE order_id=$1 ORDER BY id`, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()
	return collectItems(rows)
}

func (r *OrdersPG) itemsTx(ctx context.Context, tx pgx.Tx, orderID string) ([]domain.OrderItem, error) {
	rows, err := tx.Query(ctx, `SELECT name, price, quantity FROM order_items WHERE order_id=$1 ORDER BY id`, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()
	return collectItems(rows)
}

func collectItems(rows pgx.Rows) ([]domain.OrderItem, error) {
	var out []domain.OrderItem
	for rows.Next() {
		var it domain.OrderItem
		if err := rows.Scan(&it.Name, &it.Price, &it.Quantity); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}
