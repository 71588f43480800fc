// AngelaMos | 2026
// dto.go

package user

import (
	"strings"
	"time"

	"github.com/carterperez-dev/storefront-api/internal/core"
)

type UpdateUserRequest struct {
	Name     *string `json:"name,omitempty"     validate:"omitempty,min=1,max=100"`
	Email    *string `json:"email,omitempty"    validate:"omitempty,email,max=255"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=8,max=128"`
	Address  *string `json:"address,omitempty"  validate:"omitempty,max=500"`
	Phone    *string `json:"phone,omitempty"    validate:"omitempty,max=32"`
	Role     *string `json:"role,omitempty"     validate:"omitempty,oneof=user admin"`
}

type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Address   string    `json:"address"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ListUsersParams struct {
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
	Search   string `json:"search"`
	Role     string `json:"role"`
}

func (p *ListUsersParams) Normalize() {
	p.Page, p.PageSize = core.NormalizePage(p.Page, p.PageSize)
	p.Search = strings.TrimSpace(p.Search)
	p.Role = strings.ToLower(strings.TrimSpace(p.Role))
}

func (p *ListUsersParams) Offset() int {
	return core.PageOffset(p.Page, p.PageSize)
}

func ToUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		Address:   u.Address,
		Phone:     u.Phone,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func ToUserResponseList(users []User) []UserResponse {
	responses := make([]UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, ToUserResponse(&u))
	}
	return responses
}
