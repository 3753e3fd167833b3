package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"groco-backend/internal/kv"
	"groco-backend/internal/models"
)

// brokenBackend fails every call.
type brokenBackend struct{}

var errBroken = errors.New("storage unavailable")

func (brokenBackend) Get(context.Context, string) ([]byte, bool, error) { return nil, false, errBroken }
func (brokenBackend) Put(context.Context, string, []byte) error         { return errBroken }
func (brokenBackend) Delete(context.Context, string) error              { return errBroken }
func (brokenBackend) PutAll(context.Context, map[string][]byte) error   { return errBroken }
func (brokenBackend) Close() error                                      { return nil }

func TestStore_EmptyWhenNothingStored(t *testing.T) {
	ctx := context.Background()
	s := New(kv.NewMemory(), nil)

	assert.Empty(t, s.Users(ctx))
	assert.NotNil(t, s.Users(ctx))
	assert.Nil(t, s.CurrentUser(ctx))
	assert.Empty(t, s.Cart(ctx))
	assert.Empty(t, s.Orders(ctx))
}

func TestStore_Users(t *testing.T) {
	ctx := context.Background()
	s := New(kv.NewMemory(), nil)

	require.NoError(t, s.SaveUser(ctx, models.User{ID: "u1", Name: "Ann", Email: "ann@example.com"}))
	require.NoError(t, s.SaveUser(ctx, models.User{ID: "u2", Name: "Bob", Email: "bob@example.com"}))

	users := s.Users(ctx)
	require.Len(t, users, 2)
	assert.Equal(t, "u1", users[0].ID)

	u, ok := s.FindUserByEmail(ctx, "bob@example.com")
	assert.True(t, ok)
	assert.Equal(t, "u2", u.ID)

	_, ok = s.FindUserByEmail(ctx, "BOB@example.com")
	assert.False(t, ok, "email match is exact")
}

func TestStore_CurrentUser(t *testing.T) {
	ctx := context.Background()
	s := New(kv.NewMemory(), nil)

	s.SetCurrentUser(ctx, models.User{ID: "u1", Email: "ann@example.com"})
	cur := s.CurrentUser(ctx)
	require.NotNil(t, cur)
	assert.Equal(t, "u1", cur.ID)

	s.RemoveCurrentUser(ctx)
	assert.Nil(t, s.CurrentUser(ctx))
}

func TestStore_Cart(t *testing.T) {
	ctx := context.Background()
	s := New(kv.NewMemory(), nil)

	lines := []models.CartLine{{Product: models.Product{ID: 1, Price: 2.5}, Quantity: 2}}
	s.SaveCart(ctx, lines)
	assert.Equal(t, lines, s.Cart(ctx))

	s.ClearCart(ctx)
	assert.Empty(t, s.Cart(ctx))
}

func TestStore_UserOrders(t *testing.T) {
	ctx := context.Background()
	s := New(kv.NewMemory(), nil)

	require.NoError(t, s.SaveOrder(ctx, models.Order{ID: "o1", UserID: "u1"}))
	require.NoError(t, s.SaveOrder(ctx, models.Order{ID: "o2", UserID: "u2"}))
	require.NoError(t, s.SaveOrder(ctx, models.Order{ID: "o3", UserID: "u1"}))

	assert.Len(t, s.Orders(ctx), 3)
	mine := s.UserOrders(ctx, "u1")
	require.Len(t, mine, 2)
	assert.Equal(t, "o1", mine[0].ID)
	assert.Equal(t, "o3", mine[1].ID)
}

func TestStore_CorruptValuesReadAsEmpty(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemory()
	for _, key := range []string{UsersKey, CurrentUserKey, CartKey, OrdersKey} {
		require.NoError(t, backend.Put(ctx, key, []byte("{not json")))
	}
	s := New(backend, nil)

	assert.Empty(t, s.Users(ctx))
	assert.Nil(t, s.CurrentUser(ctx))
	assert.Empty(t, s.Cart(ctx))
	assert.Empty(t, s.Orders(ctx))
}

func TestStore_BrokenBackendIsSilent(t *testing.T) {
	ctx := context.Background()
	s := New(brokenBackend{}, nil)

	assert.NotPanics(t, func() {
		s.SetCurrentUser(ctx, models.User{ID: "u1"})
		s.RemoveCurrentUser(ctx)
		s.SaveCart(ctx, nil)
		s.ClearCart(ctx)
	})
	assert.ErrorIs(t, s.SaveUser(ctx, models.User{ID: "u1"}), errBroken)
	assert.ErrorIs(t, s.SaveOrder(ctx, models.Order{ID: "o1"}), errBroken)
	assert.Empty(t, s.Users(ctx))
	assert.Empty(t, s.Cart(ctx))
}

func TestStore_CommitCheckout(t *testing.T) {
	ctx := context.Background()
	s := New(kv.NewMemory(), nil)

	s.SaveCart(ctx, []models.CartLine{{Product: models.Product{ID: 1, Price: 10}, Quantity: 2}})
	order := models.Order{ID: "o1", UserID: "u1", Total: 20, Status: models.StatusProcessing, Date: time.Now().UTC()}

	require.NoError(t, s.CommitCheckout(ctx, order))
	assert.Empty(t, s.Cart(ctx))
	orders := s.Orders(ctx)
	require.Len(t, orders, 1)
	assert.Equal(t, "o1", orders[0].ID)
}

func TestStore_CommitCheckoutReportsFailure(t *testing.T) {
	s := New(brokenBackend{}, nil)
	err := s.CommitCheckout(context.Background(), models.Order{ID: "o1"})
	assert.ErrorIs(t, err, errBroken)
}

// flakyReads fails reads of one key until healed.
type flakyReads struct {
	*kv.Memory
	key    string
	broken bool
}

func (b *flakyReads) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if b.broken && key == b.key {
		return nil, false, errBroken
	}
	return b.Memory.Get(ctx, key)
}

func TestStore_AppendsNeverOverwriteUnreadableHistory(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()
	s := New(mem, nil)
	require.NoError(t, s.CommitCheckout(ctx, models.Order{ID: "o1"}))
	require.NoError(t, s.CommitCheckout(ctx, models.Order{ID: "o2"}))
	require.NoError(t, s.SaveUser(ctx, models.User{ID: "u1"}))

	t.Run("orders", func(t *testing.T) {
		flaky := &flakyReads{Memory: mem, key: OrdersKey, broken: true}
		fs := New(flaky, nil)
		fs.SaveCart(ctx, []models.CartLine{{Product: models.Product{ID: 1}, Quantity: 1}})

		assert.ErrorIs(t, fs.CommitCheckout(ctx, models.Order{ID: "o3"}), errBroken)
		assert.ErrorIs(t, fs.SaveOrder(ctx, models.Order{ID: "o3"}), errBroken)

		flaky.broken = false
		assert.Len(t, fs.Orders(ctx), 2)
		assert.Len(t, fs.Cart(ctx), 1, "cart is untouched by a refused checkout")
	})

	t.Run("users", func(t *testing.T) {
		flaky := &flakyReads{Memory: mem, key: UsersKey, broken: true}
		fs := New(flaky, nil)

		assert.ErrorIs(t, fs.SaveUser(ctx, models.User{ID: "u2"}), errBroken)

		flaky.broken = false
		users := fs.Users(ctx)
		require.Len(t, users, 1)
		assert.Equal(t, "u1", users[0].ID)
	})
}

func TestStore_CorruptHistoryStillAppends(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemory()
	require.NoError(t, backend.Put(ctx, OrdersKey, []byte("{not json")))
	s := New(backend, nil)

	require.NoError(t, s.CommitCheckout(ctx, models.Order{ID: "o1"}))
	orders := s.Orders(ctx)
	require.Len(t, orders, 1)
	assert.Equal(t, "o1", orders[0].ID)
}
