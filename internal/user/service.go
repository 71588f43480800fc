// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/carterperez-dev/storefront-api/internal/auth"
	"github.com/carterperez-dev/storefront-api/internal/core"
)

const signupWindowMonths = 12

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetByID(
	ctx context.Context,
	id string,
) (*auth.UserInfo, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) GetByEmail(
	ctx context.Context,
	email string,
) (*auth.UserInfo, error) {
	user, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) Create(
	ctx context.Context,
	nu auth.NewUser,
) (*auth.UserInfo, error) {
	user, err := s.create(ctx, nu, RoleUser)
	if err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

// CreateAdmin hashes rawPassword and stores a new account with the admin
// role.
func (s *Service) CreateAdmin(
	ctx context.Context,
	name, email, rawPassword string,
) (*User, error) {
	hash, err := core.HashPassword(rawPassword)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	return s.create(ctx, auth.NewUser{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	}, RoleAdmin)
}

func (s *Service) create(
	ctx context.Context,
	nu auth.NewUser,
	role string,
) (*User, error) {
	user := &User{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(nu.Name),
		Email:        normalizeEmail(nu.Email),
		PasswordHash: nu.PasswordHash,
		Role:         role,
		Address:      nu.Address,
		Phone:        nu.Phone,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *Service) UpdatePassword(
	ctx context.Context,
	userID, passwordHash string,
) error {
	return s.repo.UpdatePassword(ctx, userID, passwordHash)
}

func (s *Service) GetUser(ctx context.Context, id string) (*User, error) {
	if err := checkUserID("get user", id); err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, id)
}

// UpdateUser applies an admin edit. Any field may change, including role.
func (s *Service) UpdateUser(
	ctx context.Context,
	id string,
	req UpdateUserRequest,
) (*User, error) {
	if err := checkUserID("update user", id); err != nil {
		return nil, err
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := applyUpdate(user, req); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *Service) GetMe(ctx context.Context, userID string) (*User, error) {
	if userID == "" {
		return nil, fmt.Errorf("get me: %w", core.ErrUnauthorized)
	}

	return s.repo.GetByID(ctx, userID)
}

// UpdateMe applies a self-service edit; changing one's own role is refused.
func (s *Service) UpdateMe(
	ctx context.Context,
	userID string,
	req UpdateUserRequest,
) (*User, error) {
	if userID == "" {
		return nil, fmt.Errorf("update me: %w", core.ErrUnauthorized)
	}

	if req.Role != nil {
		return nil, fmt.Errorf("update me: role change: %w", core.ErrForbidden)
	}

	return s.UpdateUser(ctx, userID, req)
}

func (s *Service) DeleteUser(ctx context.Context, id string) error {
	if err := checkUserID("delete user", id); err != nil {
		return err
	}

	return s.repo.SoftDelete(ctx, id)
}

func (s *Service) ListUsers(
	ctx context.Context,
	params ListUsersParams,
) ([]User, int, error) {
	if params.Role != "" && params.Role != RoleUser && params.Role != RoleAdmin {
		return nil, 0, fmt.Errorf(
			"list users: invalid role %q: %w",
			params.Role,
			core.ErrInvalidInput,
		)
	}

	return s.repo.List(ctx, params)
}

func (s *Service) MonthlySignups(ctx context.Context) ([]MonthlySignups, error) {
	return s.repo.MonthlySignups(ctx, signupWindowMonths)
}

// CanDeleteUser allows self-deletion, and lets admins delete non-admin
// accounts.
func (s *Service) CanDeleteUser(
	ctx context.Context,
	requesterID, targetID string,
) error {
	if requesterID == targetID {
		return nil
	}

	requester, err := s.repo.GetByID(ctx, requesterID)
	if err != nil {
		return err
	}

	if !requester.IsAdmin() {
		return fmt.Errorf("delete user: %w", core.ErrForbidden)
	}

	if err := checkUserID("delete user", targetID); err != nil {
		return err
	}

	target, err := s.repo.GetByID(ctx, targetID)
	if err != nil {
		return err
	}

	if target.IsAdmin() {
		return fmt.Errorf("cannot delete admin users: %w", core.ErrForbidden)
	}

	return nil
}

// checkUserID turns ids that can never match a row into not-found before
// they reach the uuid column.
func checkUserID(op, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}
	return nil
}

func applyUpdate(user *User, req UpdateUserRequest) error {
	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		user.Email = normalizeEmail(*req.Email)
	}
	if req.Address != nil {
		user.Address = *req.Address
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.Role != nil {
		if *req.Role != RoleUser && *req.Role != RoleAdmin {
			return fmt.Errorf(
				"update role: invalid role %q: %w",
				*req.Role,
				core.ErrInvalidInput,
			)
		}
		user.Role = *req.Role
	}
	if req.Password != nil {
		hash, err := core.HashPassword(*req.Password)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = hash
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func toUserInfo(u *User) *auth.UserInfo {
	return &auth.UserInfo{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		Address:      u.Address,
		Phone:        u.Phone,
		CreatedAt:    u.CreatedAt,
	}
}

var _ auth.UserProvider = (*Service)(nil)
