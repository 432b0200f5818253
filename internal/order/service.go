// AngelaMos | 2026
// service.go

package order

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/google/uuid"

	"github.com/carterperez-dev/storefront/internal/core"
	"github.com/carterperez-dev/storefront/internal/product"
)

// CatalogReader is the slice of the catalog the order flow needs.
type CatalogReader interface {
	Get(ctx context.Context, id string) (*product.Product, error)
}

type Service struct {
	repo    Repository
	catalog CatalogReader
	logger  *slog.Logger
}

func NewService(
	repo Repository,
	catalog CatalogReader,
	logger *slog.Logger,
) *Service {
	return &Service{
		repo:    repo,
		catalog: catalog,
		logger:  logger,
	}
}

// Create prices the order from the catalog. Client-supplied amounts are
// honored, client-supplied prices are not.
func (s *Service) Create(
	ctx context.Context,
	userID string,
	req CreateOrderRequest,
) (*Order, error) {
	items := make(OrderItems, 0, len(req.Items))
	var subtotal float64

	for _, line := range req.Items {
		p, err := s.catalog.Get(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, core.ErrNotFound) {
				return nil, core.ValidationError(
					fmt.Sprintf("no product with id %s", line.ProductID),
				)
			}
			return nil, err
		}

		if p.Inventory < line.Amount {
			return nil, core.ValidationError(
				fmt.Sprintf("not enough stock for %s", p.Name),
			)
		}

		item := OrderItem{
			ProductID: p.ID,
			Name:      p.Name,
			Price:     p.Price,
			Amount:    line.Amount,
		}
		if p.ImageURL != nil {
			item.ImageURL = *p.ImageURL
		}

		items = append(items, item)
		subtotal += p.Price * float64(line.Amount)
	}

	subtotal = roundMoney(subtotal)

	order := &Order{
		ID:          uuid.New().String(),
		UserID:      userID,
		Items:       items,
		Shipping:    req.Shipping,
		Subtotal:    subtotal,
		Tax:         req.Tax,
		ShippingFee: req.ShippingFee,
		Total:       roundMoney(subtotal + req.Tax + req.ShippingFee),
		Status:      StatusProcessing,
	}

	if err := s.repo.Create(ctx, order); err != nil {
		return nil, err
	}

	return order, nil
}

// Get enforces ownership: customers see their own orders, admins see
// any.
func (s *Service) Get(
	ctx context.Context,
	orderID, requesterID string,
	requesterIsAdmin bool,
) (*Order, error) {
	order, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.UserID != requesterID && !requesterIsAdmin {
		return nil, core.ForbiddenError("you are not allowed to view this order")
	}

	return order, nil
}

func (s *Service) ListMine(
	ctx context.Context,
	userID string,
	params ListOrdersParams,
) ([]Order, int, error) {
	params.UserID = userID
	return s.list(ctx, params)
}

func (s *Service) ListAll(
	ctx context.Context,
	params ListOrdersParams,
) ([]Order, int, error) {
	return s.list(ctx, params)
}

func (s *Service) list(
	ctx context.Context,
	params ListOrdersParams,
) ([]Order, int, error) {
	if params.Status != "" && !ValidStatus(params.Status) {
		return nil, 0, core.ValidationError("unknown status filter")
	}
	return s.repo.List(ctx, params)
}

func (s *Service) UpdateStatus(
	ctx context.Context,
	orderID, status string,
) (*Order, error) {
	if !ValidStatus(status) {
		return nil, core.ValidationError("unknown order status")
	}
	return s.repo.UpdateStatus(ctx, orderID, status)
}

func (s *Service) Delete(ctx context.Context, orderID string) error {
	return s.repo.Delete(ctx, orderID)
}

func roundMoney(amount float64) float64 {
	return math.Round(amount*100) / 100
}
