// AngelaMos | 2026
// entity.go

package order

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type Order struct {
	ID          string       `db:"id"`
	UserID      string       `db:"user_id"`
	Items       OrderItems   `db:"items"`
	Shipping    ShippingInfo `db:"shipping"`
	Subtotal    float64      `db:"subtotal"`
	Tax         float64      `db:"tax"`
	ShippingFee float64      `db:"shipping_fee"`
	Total       float64      `db:"total"`
	Status      string       `db:"status"`
	CreatedAt   time.Time    `db:"created_at"`
	UpdatedAt   time.Time    `db:"updated_at"`
}

// ShippingInfo is the delivery address, stored as a single jsonb column
// alongside the item snapshot.
type ShippingInfo struct {
	Address    string `json:"address"     validate:"required,max=200"`
	City       string `json:"city"        validate:"required,max=100"`
	PostalCode string `json:"postal_code" validate:"omitempty,max=20"`
	Country    string `json:"country"     validate:"required,max=100"`
}

func (s ShippingInfo) Value() (driver.Value, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal shipping info: %w", err)
	}
	return data, nil
}

func (s *ShippingInfo) Scan(src any) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	case nil:
		*s = ShippingInfo{}
		return nil
	default:
		return fmt.Errorf("scan shipping info: unsupported type %T", src)
	}
}

// OrderItem is a snapshot of the product at purchase time. Price and
// name are copied in, so later catalog edits never rewrite history.
type OrderItem struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	ImageURL  string  `json:"image_url,omitempty"`
	Amount    int     `json:"amount"`
}

// OrderItems stores the line items as a single jsonb column.
type OrderItems []OrderItem

func (items OrderItems) Value() (driver.Value, error) {
	data, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("marshal order items: %w", err)
	}
	return data, nil
}

func (items *OrderItems) Scan(src any) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, items)
	case string:
		return json.Unmarshal([]byte(v), items)
	case nil:
		*items = nil
		return nil
	default:
		return fmt.Errorf("scan order items: unsupported type %T", src)
	}
}

const (
	StatusProcessing = "processing"
	StatusShipped    = "shipped"
	StatusDelivered  = "delivered"
)

func ValidStatus(status string) bool {
	switch status {
	case StatusProcessing, StatusShipped, StatusDelivered:
		return true
	default:
		return false
	}
}
