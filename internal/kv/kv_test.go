package kv

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

// runBackendSuite checks the behavior every backend must share.
func runBackendSuite(t *testing.T, b Backend) {
	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		v, ok, err := b.Get(ctx, "absent")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, v)
	})

	t.Run("put then get", func(t *testing.T) {
		require.NoError(t, b.Put(ctx, "groco_cart", []byte(`[{"id":1}]`)))
		v, ok, err := b.Get(ctx, "groco_cart")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.JSONEq(t, `[{"id":1}]`, string(v))
	})

	t.Run("put replaces whole value", func(t *testing.T) {
		require.NoError(t, b.Put(ctx, "groco_cart", []byte(`[]`)))
		v, _, err := b.Get(ctx, "groco_cart")
		require.NoError(t, err)
		assert.Equal(t, "[]", string(v))
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, b.Put(ctx, "groco_current_user", []byte(`{"id":"u1"}`)))
		require.NoError(t, b.Delete(ctx, "groco_current_user"))
		_, ok, err := b.Get(ctx, "groco_current_user")
		require.NoError(t, err)
		assert.False(t, ok)

		// deleting again is fine
		require.NoError(t, b.Delete(ctx, "groco_current_user"))
	})

	t.Run("put all", func(t *testing.T) {
		err := b.PutAll(ctx, map[string][]byte{
			"groco_orders": []byte(`[{"id":"o1"}]`),
			"groco_cart":   []byte(`[]`),
		})
		require.NoError(t, err)

		orders, ok, err := b.Get(ctx, "groco_orders")
		require.NoError(t, err)
		require.True(t, ok)
		assert.JSONEq(t, `[{"id":"o1"}]`, string(orders))

		cart, ok, err := b.Get(ctx, "groco_cart")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "[]", string(cart))
	})
}

func TestMemory(t *testing.T) {
	runBackendSuite(t, NewMemory())
}

func TestMemory_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	in := []byte("abc")
	require.NoError(t, m.Put(ctx, "k", in))
	in[0] = 'x'

	out, _, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(out))
}

func TestSQLite_InMemory(t *testing.T) {
	s, err := NewSQLite(":memory:")
	require.NoError(t, err)
	defer s.Close()

	runBackendSuite(t, s)
}

func TestSQLite_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data", "groco.db")

	s, err := NewSQLite(path)
	require.NoError(t, err)
	require.NoError(t, s.Put(ctx, "groco_users", []byte(`[{"id":"u1"}]`)))
	require.NoError(t, s.Close())

	s, err = NewSQLite(path)
	require.NoError(t, err)
	defer s.Close()

	v, ok, err := s.Get(ctx, "groco_users")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `[{"id":"u1"}]`, string(v))
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("memory", func(t *testing.T) {
		b, err := Open(ctx, Options{Driver: DriverMemory})
		require.NoError(t, err)
		assert.IsType(t, &Memory{}, b)
	})

	t.Run("sqlite", func(t *testing.T) {
		b, err := Open(ctx, Options{Driver: DriverSQLite, Path: ":memory:"})
		require.NoError(t, err)
		defer b.Close()
		assert.IsType(t, &SQLite{}, b)
	})

	t.Run("unknown driver", func(t *testing.T) {
		_, err := Open(ctx, Options{Driver: "redis"})
		assert.ErrorIs(t, err, ErrUnknownDriver)
	})

	t.Run("mongo without url", func(t *testing.T) {
		_, err := Open(ctx, Options{Driver: DriverMongo})
		assert.Error(t, err)
	})

	t.Run("postgres without url", func(t *testing.T) {
		_, err := Open(ctx, Options{Driver: DriverPostgres})
		assert.Error(t, err)
	})
}

func TestHelloReply_SupportsTransactions(t *testing.T) {
	tests := []struct {
		name  string
		reply bson.M
		want  bool
	}{
		{"standalone", bson.M{"isWritablePrimary": true}, false},
		{"replica set", bson.M{"isWritablePrimary": true, "setName": "rs0"}, true},
		{"mongos", bson.M{"isWritablePrimary": true, "msg": "isdbgrid"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := bson.Marshal(tt.reply)
			require.NoError(t, err)
			var h helloReply
			require.NoError(t, bson.Unmarshal(raw, &h))
			assert.Equal(t, tt.want, h.supportsTransactions())
		})
	}
}
