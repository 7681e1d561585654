package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"restaurant-pos/internal/common/auth"
	"restaurant-pos/internal/common/logger"
	"restaurant-pos/internal/domain"
	"restaurant-pos/internal/modules/staff/repository"
)

type StaffInput struct {
	Name     string      `json:"name"`
	Username string      `json:"username"`
	Password string      `json:"password"`
	Role     domain.Role `json:"role"`
}

// LoginResult is what a successful login returns: the session token plus
// the staff record (sans password hash).
type LoginResult struct {
	Token string       `json:"token"`
	Staff domain.Staff `json:"staff"`
}

// StaffService manages employees and their sessions. Passwords are stored
// bcrypt-hashed; the role is fixed at creation and has no update path.
type StaffService struct {
	staff    repository.Staff
	sessions *auth.Sessions
	lg       *logger.Logger
}

func NewStaffService(staff repository.Staff, sessions *auth.Sessions, lg *logger.Logger) *StaffService {
	return &StaffService{staff: staff, sessions: sessions, lg: lg}
}

func (s *StaffService) Create(ctx context.Context, in StaffInput, actor domain.Role) (domain.Staff, error) {
	if !domain.Allowed(actor, domain.ActionManageStaff) {
		return domain.Staff{}, domain.Unauthorizedf("role %s cannot manage staff", actor)
	}
	if strings.TrimSpace(in.Name) == "" {
		return domain.Staff{}, domain.Validationf("name is required")
	}
	if strings.TrimSpace(in.Username) == "" {
		return domain.Staff{}, domain.Validationf("username is required")
	}
	if len(in.Password) < 6 {
		return domain.Staff{}, domain.Validationf("password must be at least 6 characters")
	}
	if !in.Role.Valid() {
		return domain.Staff{}, domain.Validationf("unknown role %q", in.Role)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return domain.Staff{}, domain.Internalf(err, "hash password")
	}
	st := domain.Staff{
		ID:           uuid.NewString(),
		Name:         in.Name,
		Username:     in.Username,
		PasswordHash: hash,
		Role:         in.Role,
	}
	if err := s.staff.Create(ctx, st); err != nil {
		return domain.Staff{}, err
	}
	s.lg.Info("staff_created", map[string]any{"staff_id": st.ID, "role": st.Role})
	return st, nil
}

// Login checks credentials and opens a session. Unknown username and wrong
// password are indistinguishable to the caller.
func (s *StaffService) Login(ctx context.Context, username, password string) (LoginResult, error) {
	st, err := s.staff.GetByUsername(ctx, username)
	if err != nil {
		return LoginResult{}, domain.Unauthorizedf("invalid credentials")
	}
	if !auth.CheckPassword(st.PasswordHash, password) {
		return LoginResult{}, domain.Unauthorizedf("invalid credentials")
	}
	token, err := s.sessions.Create(st)
	if err != nil {
		return LoginResult{}, domain.Internalf(err, "create session")
	}
	s.lg.Info("staff_login", map[string]any{"staff_id": st.ID})
	return LoginResult{Token: token, Staff: st}, nil
}

func (s *StaffService) List(ctx context.Context) ([]domain.Staff, error) {
	return s.staff.List(ctx)
}

func (s *StaffService) Get(ctx context.Context, id string) (domain.Staff, error) {
	return s.staff.GetByID(ctx, id)
}

// Update changes name and password only; there is no role-change operation.
func (s *StaffService) Update(ctx context.Context, id string, in StaffInput, actor domain.Role) (domain.Staff, error) {
	if !domain.Allowed(actor, domain.ActionManageStaff) {
		return domain.Staff{}, domain.Unauthorizedf("role %s cannot manage staff", actor)
	}
	st, err := s.staff.GetByID(ctx, id)
	if err != nil {
		return domain.Staff{}, err
	}
	if strings.TrimSpace(in.Name) != "" {
		st.Name = in.Name
	}
	if in.Password != "" {
		if len(in.Password) < 6 {
			return domain.Staff{}, domain.Validationf("password must be at least 6 characters")
		}
		hash, err := auth.HashPassword(in.Password)
		if err != nil {
			return domain.Staff{}, domain.Internalf(err, "hash password")
		}
		st.PasswordHash = hash
	}
	if err := s.staff.Update(ctx, st); err != nil {
		return domain.Staff{}, err
	}
	return st, nil
}

func (s *StaffService) Delete(ctx context.Context, id string, actor domain.Role) error {
	if !domain.Allowed(actor, domain.ActionManageStaff) {
		return domain.Unauthorizedf("role %s cannot manage staff", actor)
	}
	return s.staff.Delete(ctx, id)
}

// Bootstrap seeds the first admin account on an empty staff table so a
// fresh deployment can log in at all.
func (s *StaffService) Bootstrap(ctx context.Context, username, password string) error {
	n, err := s.staff.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 || username == "" || password == "" {
		return nil
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return domain.Internalf(err, "hash bootstrap password")
	}
	st := domain.Staff{
		ID:           uuid.NewString(),
		Name:         "Administrator",
		Username:     username,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
	}
	if err := s.staff.Create(ctx, st); err != nil {
		return err
	}
	s.lg.Info("admin_bootstrapped", map[string]any{"username": username})
	return nil
}
