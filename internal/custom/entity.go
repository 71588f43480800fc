// AngelaMos | 2026
// entity.go

package custom

import (
	"time"
)

const (
	StatusSubmitted = "Submitted"
	StatusQuoteSent = "Quote Sent"
	StatusApproved  = "Approved"
	StatusRejected  = "Rejected"
)

var Statuses = []string{
	StatusSubmitted,
	StatusQuoteSent,
	StatusApproved,
	StatusRejected,
}

func IsValidStatus(status string) bool {
	for _, s := range Statuses {
		if s == status {
			return true
		}
	}
	return false
}

// Request is a customer's ask for a made-to-order item.
type Request struct {
	ID            string    `db:"id"`
	UserID        string    `db:"user_id"`
	Description   string    `db:"description"`
	ImageURL      string    `db:"image_url"`
	Budget        string    `db:"budget"`
	Status        string    `db:"status"`
	AdminComments string    `db:"admin_comments"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

type RequestWithUser struct {
	Request
	UserName  string `db:"user_name"`
	UserEmail string `db:"user_email"`
}
