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

type Staff interface {
	Create(ctx context.Context, s domain.Staff) error
	GetByID(ctx context.Context, id string) (domain.Staff, error)
	GetByUsername(ctx context.Context, username string) (domain.Staff, error)
	List(ctx context.Context) ([]domain.Staff, error)
	Update(ctx context.Context, s domain.Staff) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

type StaffPG struct{ db *db.Conn }

func NewStaffPG(conn *db.Conn) *StaffPG { return &StaffPG{db: conn} }

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (r *StaffPG) Create(ctx context.Context, s domain.Staff) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO staff (id, name, username, password, role) VALUES ($1,$2,$3,$4,$5)
	`, s.ID, s.Name, s.Username, s.PasswordHash, s.Role)
	if isUniqueViolation(err) {
		return domain.Conflictf("username %s already taken", s.Username)
	}
	if err != nil {
		return fmt.Errorf("insert staff: %w", err)
	}
	return nil
}

func (r *StaffPG) GetByID(ctx context.Context, id string) (domain.Staff, error) {
	var s domain.Staff
	err := r.db.QueryRow(ctx, `SELECT id, name, username, password, role FROM staff WHERE id=$1`, id).
		Scan(&s.ID, &s.Name, &s.Username, &s.PasswordHash, &s.Role)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Staff{}, domain.NotFoundf("staff %s not found", id)
	}
	if err != nil {
		return domain.Staff{}, fmt.Errorf("select staff: %w", err)
	}
	return s, nil
}

func (r *StaffPG) GetByUsername(ctx context.Context, username string) (domain.Staff, error) {
	var s domain.Staff
	err := r.db.QueryRow(ctx, `SELECT id, name, username, password, role FROM staff WHERE username=$1`, username).
		Scan(&s.ID, &s.Name, &s.Username, &s.PasswordHash, &s.Role)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Staff{}, domain.NotFoundf("staff %s not found", username)
	}
	if err != nil {
		return domain.Staff{}, fmt.Errorf("select staff: %w", err)
	}
	return s, nil
}

func (r *StaffPG) List(ctx context.Context) ([]domain.Staff, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, username, password, role FROM staff ORDER BY username`)
	if err != nil {
		return nil, fmt.Errorf("list staff: %w", err)
	}
	defer rows.Close()

	var out []domain.Staff
	for rows.Next() {
		var s domain.Staff
		if err := rows.Scan(&s.ID, &s.Name, &s.Username, &s.PasswordHash, &s.Role); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *StaffPG) Update(ctx context.Context, s domain.Staff) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE staff SET name=$2, password=$3 WHERE id=$1
	`, s.ID, s.Name, s.PasswordHash)
	if err != nil {
		return fmt.Errorf("update staff: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFoundf("staff %s not found", s.ID)
	}
	return nil
}

func (r *StaffPG) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM staff WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete staff: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFoundf("staff %s not found", id)
	}
	return nil
}

func (r *StaffPG) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM staff`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count staff: %w", err)
	}
	return n, nil
}
