// Package cart holds the shopping cart: at most one line per product, every
// line with quantity >= 1, persisted after each change.
package cart

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"groco-backend/internal/models"
	"groco-backend/internal/storage"
)

type Cart struct {
	store *storage.Store
	log   *zap.Logger

	mu    sync.Mutex
	lines []models.CartLine
}

// Summary is what the cart page shows. Shipping is only charged on a non-empty cart.
type Summary struct {
	Subtotal float64 `json:"subtotal"`
	Shipping float64 `json:"shipping"`
	Total    float64 `json:"total"`
}

// New loads the cart saved in the store.
func New(ctx context.Context, store *storage.Store, log *zap.Logger) *Cart {
	if log == nil {
		log = zap.NewNop()
	}
	return &Cart{
		store: store,
		log:   log.Named("cart"),
		lines: store.Cart(ctx),
	}
}

// Add merges qty of product into the cart.
func (c *Cart) Add(ctx context.Context, product models.Product, qty int) {
	if qty <= 0 {
		qty = 1
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.index(product.ID); i >= 0 {
		c.lines[i].Quantity += qty
	} else {
		c.lines = append(c.lines, models.CartLine{Product: product, Quantity: qty})
	}
	c.log.Debug("added", zap.Int("productId", product.ID), zap.Int("quantity", qty))
	c.persist(ctx)
}

// UpdateQuantity sets the quantity of a line. qty <= 0 removes it.
func (c *Cart) UpdateQuantity(ctx context.Context, productID, qty int) {
	if qty <= 0 {
		c.Remove(ctx, productID)
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.index(productID); i >= 0 {
		c.lines[i].Quantity = qty
	}
	c.persist(ctx)
}

func (c *Cart) Remove(ctx context.Context, productID int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.index(productID); i >= 0 {
		c.lines = append(c.lines[:i], c.lines[i+1:]...)
	}
	c.persist(ctx)
}

func (c *Cart) Clear(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lines = []models.CartLine{}
	c.store.ClearCart(ctx)
}

// Lines returns a copy of the cart lines in insertion order.
func (c *Cart) Lines() []models.CartLine {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

// Count is the sum of quantities.
func (c *Cart) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

// Total is the sum of price times quantity.
func (c *Cart) Total() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return total(c.lines)
}

func (c *Cart) Summary(shippingFee float64) Summary {
	sub := c.Total()
	s := Summary{Subtotal: sub}
	if sub > 0 {
		s.Shipping = shippingFee
	}
	s.Total = s.Subtotal + s.Shipping
	return s
}

// Drain passes a copy of the lines and their total to fn while holding the
// cart. The cart is emptied in memory only when fn returns nil; fn is
// responsible for persisting the empty cart.
func (c *Cart) Drain(fn func(lines []models.CartLine, total float64) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := fn(c.snapshot(), total(c.lines)); err != nil {
		return err
	}
	c.lines = []models.CartLine{}
	return nil
}

// caller holds c.mu
func (c *Cart) index(productID int) int {
	for i, l := range c.lines {
		if l.ID == productID {
			return i
		}
	}
	return -1
}

// caller holds c.mu
func (c *Cart) snapshot() []models.CartLine {
	out := make([]models.CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

// caller holds c.mu
func (c *Cart) persist(ctx context.Context) {
	c.store.SaveCart(ctx, c.lines)
}

func total(lines []models.CartLine) float64 {
	var sum float64
	for _, l := range lines {
		sum += l.Subtotal()
	}
	return sum
}
