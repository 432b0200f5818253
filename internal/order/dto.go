// AngelaMos | 2026
// dto.go

package order

import (
	"time"
)

type CreateOrderRequest struct {
	Items       []CreateOrderItem `json:"items"        validate:"required,min=1,dive"`
	Shipping    ShippingInfo      `json:"shipping"`
	Tax         float64           `json:"tax"          validate:"gte=0"`
	ShippingFee float64           `json:"shipping_fee" validate:"gte=0"`
}

// CreateOrderItem carries only the product reference and quantity. Name
// and price come from the catalog at order time, never from the client.
type CreateOrderItem struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Amount    int    `json:"amount"     validate:"required,gt=0"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=processing shipped delivered"`
}

type OrderResponse struct {
	ID          string       `json:"id"`
	UserID      string       `json:"user_id"`
	Items       []OrderItem  `json:"items"`
	Shipping    ShippingInfo `json:"shipping"`
	Subtotal    float64      `json:"subtotal"`
	Tax         float64      `json:"tax"`
	ShippingFee float64      `json:"shipping_fee"`
	Total       float64      `json:"total"`
	Status      string       `json:"status"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

type ListOrdersParams struct {
	Page     int
	PageSize int
	UserID   string
	Status   string
}

func (p *ListOrdersParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 20
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
}

func (p *ListOrdersParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

func ToOrderResponse(o *Order) OrderResponse {
	return OrderResponse{
		ID:          o.ID,
		UserID:      o.UserID,
		Items:       o.Items,
		Shipping:    o.Shipping,
		Subtotal:    o.Subtotal,
		Tax:         o.Tax,
		ShippingFee: o.ShippingFee,
		Total:       o.Total,
		Status:      o.Status,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}

func ToOrderResponseList(orders []Order) []OrderResponse {
	responses := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		responses = append(responses, ToOrderResponse(&o))
	}
	return responses
}
