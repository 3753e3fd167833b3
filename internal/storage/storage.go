// Package storage maps the storefront's four collections onto fixed keys of
// a kv.Backend. Reads of missing, unreadable or corrupt values come back
// empty and failed writes are logged and dropped. Appends are the exception:
// SaveUser, SaveOrder and CommitCheckout return an error instead of
// overwriting a collection they could not read.
package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"groco-backend/internal/kv"
	"groco-backend/internal/models"
)

const (
	UsersKey       = "groco_users"
	CurrentUserKey = "groco_current_user"
	CartKey        = "groco_cart"
	OrdersKey      = "groco_orders"
)

type Store struct {
	backend kv.Backend
	log     *zap.Logger
}

func New(backend kv.Backend, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{backend: backend, log: log.Named("storage")}
}

// load decodes key into out. Missing and corrupt values report false with a
// nil error; only a backend failure is returned.
func (s *Store) load(ctx context.Context, key string, out interface{}) (bool, error) {
	data, ok, err := s.backend.Get(ctx, key)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		s.log.Warn("corrupt value, treating as empty", zap.String("key", key), zap.Error(err))
		return false, nil
	}
	return true, nil
}

// read is load for callers that degrade to empty.
func (s *Store) read(ctx context.Context, key string, out interface{}) bool {
	ok, err := s.load(ctx, key, out)
	if err != nil {
		s.log.Warn("read failed, treating as empty", zap.String("key", key), zap.Error(err))
		return false
	}
	return ok
}

func (s *Store) write(ctx context.Context, key string, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		s.log.Warn("encode failed, write dropped", zap.String("key", key), zap.Error(err))
		return
	}
	if err := s.backend.Put(ctx, key, data); err != nil {
		s.log.Warn("write failed", zap.String("key", key), zap.Error(err))
	}
}

// ----- Users -----

func (s *Store) Users(ctx context.Context) []models.User {
	users, err := s.loadUsers(ctx)
	if err != nil {
		s.log.Warn("read failed, treating as empty", zap.String("key", UsersKey), zap.Error(err))
		return []models.User{}
	}
	return users
}

func (s *Store) loadUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	ok, err := s.load(ctx, UsersKey, &users)
	if err != nil {
		return nil, err
	}
	if !ok || users == nil {
		return []models.User{}, nil
	}
	return users, nil
}

// SaveUser appends u. It writes nothing if the existing users cannot be read.
func (s *Store) SaveUser(ctx context.Context, u models.User) error {
	users, err := s.loadUsers(ctx)
	if err != nil {
		return fmt.Errorf("failed to read users: %w", err)
	}
	s.write(ctx, UsersKey, append(users, u))
	return nil
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (models.User, bool) {
	for _, u := range s.Users(ctx) {
		if u.Email == email {
			return u, true
		}
	}
	return models.User{}, false
}

// ----- Session -----

func (s *Store) CurrentUser(ctx context.Context) *models.User {
	var u models.User
	if !s.read(ctx, CurrentUserKey, &u) || u.ID == "" {
		return nil
	}
	return &u
}

func (s *Store) SetCurrentUser(ctx context.Context, u models.User) {
	s.write(ctx, CurrentUserKey, u)
}

func (s *Store) RemoveCurrentUser(ctx context.Context) {
	if err := s.backend.Delete(ctx, CurrentUserKey); err != nil {
		s.log.Warn("delete failed", zap.String("key", CurrentUserKey), zap.Error(err))
	}
}

// ----- Cart -----

func (s *Store) Cart(ctx context.Context) []models.CartLine {
	var lines []models.CartLine
	if !s.read(ctx, CartKey, &lines) || lines == nil {
		return []models.CartLine{}
	}
	return lines
}

func (s *Store) SaveCart(ctx context.Context, lines []models.CartLine) {
	if lines == nil {
		lines = []models.CartLine{}
	}
	s.write(ctx, CartKey, lines)
}

func (s *Store) ClearCart(ctx context.Context) {
	s.write(ctx, CartKey, []models.CartLine{})
}

// ----- Orders -----

func (s *Store) Orders(ctx context.Context) []models.Order {
	orders, err := s.loadOrders(ctx)
	if err != nil {
		s.log.Warn("read failed, treating as empty", zap.String("key", OrdersKey), zap.Error(err))
		return []models.Order{}
	}
	return orders
}

func (s *Store) loadOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	ok, err := s.load(ctx, OrdersKey, &orders)
	if err != nil {
		return nil, err
	}
	if !ok || orders == nil {
		return []models.Order{}, nil
	}
	return orders, nil
}

func (s *Store) UserOrders(ctx context.Context, userID string) []models.Order {
	out := []models.Order{}
	for _, o := range s.Orders(ctx) {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out
}

// SaveOrder appends o. It writes nothing if the existing orders cannot be read.
func (s *Store) SaveOrder(ctx context.Context, o models.Order) error {
	orders, err := s.loadOrders(ctx)
	if err != nil {
		return fmt.Errorf("failed to read orders: %w", err)
	}
	s.write(ctx, OrdersKey, append(orders, o))
	return nil
}

// CommitCheckout appends o to the orders and empties the cart in one atomic
// backend write. Unlike the other writes it returns its error.
func (s *Store) CommitCheckout(ctx context.Context, o models.Order) error {
	orders, err := s.loadOrders(ctx)
	if err != nil {
		return fmt.Errorf("failed to read orders: %w", err)
	}
	orders = append(orders, o)
	ordersData, err := json.Marshal(orders)
	if err != nil {
		return fmt.Errorf("failed to encode orders: %w", err)
	}
	cartData, err := json.Marshal([]models.CartLine{})
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}
	if err := s.backend.PutAll(ctx, map[string][]byte{
		OrdersKey: ordersData,
		CartKey:   cartData,
	}); err != nil {
		return fmt.Errorf("failed to commit checkout: %w", err)
	}
	return nil
}
