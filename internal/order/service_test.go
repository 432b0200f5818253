// AngelaMos | 2026
// service_test.go

package order

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/storefront/internal/core"
	"github.com/carterperez-dev/storefront/internal/product"
)

type fakeOrderRepo struct {
	orders map[string]*Order
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[string]*Order)}
}

func (f *fakeOrderRepo) Create(_ context.Context, o *Order) error {
	clone := *o
	f.orders[o.ID] = &clone
	return nil
}

func (f *fakeOrderRepo) GetByID(_ context.Context, id string) (*Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, fmt.Errorf("get order: %w", core.ErrNotFound)
	}
	clone := *o
	return &clone, nil
}

func (f *fakeOrderRepo) List(
	_ context.Context,
	params ListOrdersParams,
) ([]Order, int, error) {
	var out []Order
	for _, o := range f.orders {
		if params.UserID != "" && o.UserID != params.UserID {
			continue
		}
		if params.Status != "" && o.Status != params.Status {
			continue
		}
		out = append(out, *o)
	}
	return out, len(out), nil
}

func (f *fakeOrderRepo) UpdateStatus(
	_ context.Context,
	id, status string,
) (*Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, fmt.Errorf("update order status: %w", core.ErrNotFound)
	}
	o.Status = status
	clone := *o
	return &clone, nil
}

func (f *fakeOrderRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.orders[id]; !ok {
		return fmt.Errorf("delete order: %w", core.ErrNotFound)
	}
	delete(f.orders, id)
	return nil
}

type fakeCatalog struct {
	products map[string]*product.Product
}

func (f fakeCatalog) Get(
	_ context.Context,
	id string,
) (*product.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, fmt.Errorf("get product: %w", core.ErrNotFound)
	}
	return p, nil
}

func newTestService() (*Service, *fakeOrderRepo) {
	repo := newFakeOrderRepo()
	catalog := fakeCatalog{products: map[string]*product.Product{
		"p1": {ID: "p1", Name: "Hoodie", Price: 49.99, Inventory: 10},
		"p2": {ID: "p2", Name: "Tee", Price: 19.90, Inventory: 1},
	}}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return NewService(repo, catalog, logger), repo
}

func TestCreateOrderPricesFromCatalog(t *testing.T) {
	svc, _ := newTestService()

	created, err := svc.Create(context.Background(), "u1", CreateOrderRequest{
		Items: []CreateOrderItem{
			{ProductID: "p1", Amount: 2},
			{ProductID: "p2", Amount: 1},
		},
		Shipping: ShippingInfo{
			Address: "12 Analytical Engine Way",
			City:    "London",
			Country: "GB",
		},
		Tax:         5.00,
		ShippingFee: 3.50,
	})
	require.NoError(t, err)

	assert.Equal(t, "u1", created.UserID)
	assert.Equal(t, StatusProcessing, created.Status)
	assert.Equal(t, "London", created.Shipping.City)
	assert.InDelta(t, 119.88, created.Subtotal, 0.001)
	assert.InDelta(t, 128.38, created.Total, 0.001)

	require.Len(t, created.Items, 2)
	assert.Equal(t, "Hoodie", created.Items[0].Name)
	assert.InDelta(t, 49.99, created.Items[0].Price, 0.001)
	assert.Equal(t, 2, created.Items[0].Amount)
}

func TestCreateOrderUnknownProduct(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Create(context.Background(), "u1", CreateOrderRequest{
		Items: []CreateOrderItem{{ProductID: "ghost", Amount: 1}},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrInvalidInput))
}

func TestCreateOrderInsufficientStock(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Create(context.Background(), "u1", CreateOrderRequest{
		Items: []CreateOrderItem{{ProductID: "p2", Amount: 5}},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrInvalidInput))
}

func TestGetOrderOwnership(t *testing.T) {
	svc, _ := newTestService()

	created, err := svc.Create(context.Background(), "u1", CreateOrderRequest{
		Items: []CreateOrderItem{{ProductID: "p1", Amount: 1}},
	})
	require.NoError(t, err)

	// Owner sees it.
	_, err = svc.Get(context.Background(), created.ID, "u1", false)
	require.NoError(t, err)

	// A different customer does not.
	_, err = svc.Get(context.Background(), created.ID, "u2", false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrForbidden))

	// An admin does.
	_, err = svc.Get(context.Background(), created.ID, "u2", true)
	require.NoError(t, err)
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.UpdateStatus(context.Background(), "any", "shipped-maybe")
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrInvalidInput))

	// The old payment-flavored statuses are gone too.
	_, err = svc.UpdateStatus(context.Background(), "any", "paid")
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrInvalidInput))
}

func TestUpdateStatusWalksFulfillment(t *testing.T) {
	svc, _ := newTestService()

	created, err := svc.Create(context.Background(), "u1", CreateOrderRequest{
		Items: []CreateOrderItem{{ProductID: "p1", Amount: 1}},
	})
	require.NoError(t, err)
	require.Equal(t, StatusProcessing, created.Status)

	for _, status := range []string{StatusShipped, StatusDelivered} {
		updated, err := svc.UpdateStatus(context.Background(), created.ID, status)
		require.NoError(t, err)
		assert.Equal(t, status, updated.Status)
	}
}

func TestListMineScopesToUser(t *testing.T) {
	svc, _ := newTestService()

	for _, userID := range []string{"u1", "u1", "u2"} {
		_, err := svc.Create(context.Background(), userID, CreateOrderRequest{
			Items: []CreateOrderItem{{ProductID: "p1", Amount: 1}},
		})
		require.NoError(t, err)
	}

	orders, total, err := svc.ListMine(
		context.Background(),
		"u1",
		ListOrdersParams{},
	)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	for _, o := range orders {
		assert.Equal(t, "u1", o.UserID)
	}
}
