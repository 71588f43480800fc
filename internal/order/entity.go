// AngelaMos | 2026
// entity.go

package order

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const (
	StatusPending    = "Pending"
	StatusProcessing = "Processing"
	StatusShipped    = "Shipped"
	StatusDelivered  = "Delivered"
)

var Statuses = []string{
	StatusPending,
	StatusProcessing,
	StatusShipped,
	StatusDelivered,
}

func IsValidStatus(status string) bool {
	for _, s := range Statuses {
		if s == status {
			return true
		}
	}
	return false
}

type Order struct {
	ID              string          `db:"id"`
	UserID          string          `db:"user_id"`
	Total           decimal.Decimal `db:"total"`
	Status          string          `db:"status"`
	ShippingAddress Address         `db:"shipping_address"`
	CreatedAt       time.Time       `db:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at"`

	Items []Item `db:"-"`
}

// Item is an order line. Title and Price are snapshots taken at checkout.
type Item struct {
	ID        int64           `db:"id"`
	OrderID   string          `db:"order_id"`
	ProductID string          `db:"product_id"`
	Title     string          `db:"title"`
	Quantity  int             `db:"quantity"`
	Price     decimal.Decimal `db:"price"`
}

func (i Item) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// OrderWithUser is an order joined with a summary of its owner.
type OrderWithUser struct {
	Order
	UserName  string `db:"user_name"`
	UserEmail string `db:"user_email"`
}

// Address is stored as a JSONB document.
type Address struct {
	FullName   string `json:"full_name"   validate:"required,max=100"`
	Street     string `json:"street"      validate:"required,max=200"`
	City       string `json:"city"        validate:"required,max=100"`
	State      string `json:"state"       validate:"max=100"`
	PostalCode string `json:"postal_code" validate:"required,max=20"`
	Country    string `json:"country"     validate:"required,max=100"`
	Phone      string `json:"phone"       validate:"max=32"`
}

func (a Address) Value() (driver.Value, error) {
	b, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("encode address: %w", err)
	}
	return b, nil
}

func (a *Address) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*a = Address{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("scan address: unsupported type %T", src)
	}

	if err := json.Unmarshal(raw, a); err != nil {
		return fmt.Errorf("scan address: %w", err)
	}
	return nil
}

// Total sums price × quantity over the items.
func Total(items []Item) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Subtotal())
	}
	return total
}
