// Package order turns the cart into immutable orders and reads order history.
package order

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"groco-backend/internal/cart"
	"groco-backend/internal/models"
	"groco-backend/internal/storage"
)

var ErrNotFound = errors.New("order not found")

type Service struct {
	store *storage.Store
	cart  *cart.Cart
	log   *zap.Logger

	// Now stamps new orders; tests replace it.
	Now func() time.Time
}

func New(store *storage.Store, c *cart.Cart, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		store: store,
		cart:  c,
		log:   log.Named("order"),
		Now:   func() time.Time { return time.Now().UTC() },
	}
}

// Checkout records the current cart as a new order for userID and empties
// the cart. The order and the empty cart are written in one step, so a
// failed write leaves the cart as it was. An empty cart gives "" and no order.
func (s *Service) Checkout(ctx context.Context, address models.Address, paymentMethod, userID string) (string, error) {
	var id string
	err := s.cart.Drain(func(lines []models.CartLine, total float64) error {
		if len(lines) == 0 {
			return nil
		}
		o := models.Order{
			ID:            uuid.NewString(),
			UserID:        userID,
			Items:         lines,
			Total:         total,
			Address:       address,
			PaymentMethod: paymentMethod,
			Status:        models.StatusProcessing,
			Date:          s.Now(),
		}
		if err := s.store.CommitCheckout(ctx, o); err != nil {
			return err
		}
		id = o.ID
		return nil
	})
	if err != nil {
		s.log.Error("checkout failed", zap.String("userId", userID), zap.Error(err))
		return "", err
	}
	if id != "" {
		s.log.Info("order placed", zap.String("orderId", id), zap.String("userId", userID))
	}
	return id, nil
}

// ForUser returns the orders of userID, newest first.
func (s *Service) ForUser(ctx context.Context, userID string) []models.Order {
	orders := s.store.UserOrders(ctx, userID)
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].Date.After(orders[j].Date)
	})
	return orders
}

// Recent returns at most n of the newest orders of userID.
func (s *Service) Recent(ctx context.Context, userID string, n int) []models.Order {
	orders := s.ForUser(ctx, userID)
	if len(orders) > n {
		orders = orders[:n]
	}
	return orders
}

// Get returns the order only when it belongs to userID.
func (s *Service) Get(ctx context.Context, userID, orderID string) (models.Order, error) {
	for _, o := range s.store.UserOrders(ctx, userID) {
		if o.ID == orderID {
			return o, nil
		}
	}
	return models.Order{}, ErrNotFound
}
