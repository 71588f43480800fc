// AngelaMos | 2026
// dto.go

package custom

import (
	"time"

	"github.com/carterperez-dev/storefront-api/internal/core"
)

type CreateRequest struct {
	Description string `json:"description" validate:"required,max=5000"`
	Budget      string `json:"budget"      validate:"max=64"`
}

// UpdateRequest is an admin edit; nil fields are left unchanged.
type UpdateRequest struct {
	Status        *string `json:"status,omitempty"`
	AdminComments *string `json:"admin_comments,omitempty" validate:"omitempty,max=5000"`
}

type UserSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type Response struct {
	ID            string       `json:"id"`
	UserID        string       `json:"user_id"`
	User          *UserSummary `json:"user,omitempty"`
	Description   string       `json:"description"`
	ImageURL      string       `json:"image_url,omitempty"`
	Budget        string       `json:"budget"`
	Status        string       `json:"status"`
	AdminComments string       `json:"admin_comments"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

type ListParams struct {
	Page     int
	PageSize int
	Status   string
}

func (p *ListParams) Normalize() {
	p.Page, p.PageSize = core.NormalizePage(p.Page, p.PageSize)
}

func (p *ListParams) Offset() int {
	return core.PageOffset(p.Page, p.PageSize)
}

func ToResponse(r *Request) Response {
	return Response{
		ID:            r.ID,
		UserID:        r.UserID,
		Description:   r.Description,
		ImageURL:      r.ImageURL,
		Budget:        r.Budget,
		Status:        r.Status,
		AdminComments: r.AdminComments,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

func ToResponseList(reqs []Request) []Response {
	out := make([]Response, 0, len(reqs))
	for i := range reqs {
		out = append(out, ToResponse(&reqs[i]))
	}
	return out
}

func ToResponseWithUserList(reqs []RequestWithUser) []Response {
	out := make([]Response, 0, len(reqs))
	for i := range reqs {
		resp := ToResponse(&reqs[i].Request)
		resp.User = &UserSummary{
			ID:    reqs[i].UserID,
			Name:  reqs[i].UserName,
			Email: reqs[i].UserEmail,
		}
		out = append(out, resp)
	}
	return out
}
