package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"groco-backend/internal/models"
)

func fieldErrors(t *testing.T, err error) FieldErrors {
	t.Helper()
	var fe FieldErrors
	require.True(t, errors.As(err, &fe), "expected FieldErrors, got %v", err)
	return fe
}

func TestLogin(t *testing.T) {
	assert.NoError(t, Login("ann@example.com", "secret1"))

	fe := fieldErrors(t, Login("", ""))
	assert.Contains(t, fe, "email")
	assert.Contains(t, fe, "password")
}

func TestSignup(t *testing.T) {
	assert.NoError(t, Signup("Ann", "ann@example.com", "secret1", "secret1"))

	t.Run("missing fields", func(t *testing.T) {
		fe := fieldErrors(t, Signup("", "", "", ""))
		assert.Len(t, fe, 3)
	})

	t.Run("short password", func(t *testing.T) {
		fe := fieldErrors(t, Signup("Ann", "ann@example.com", "abc", "abc"))
		assert.Equal(t, "Password must be at least 6 characters", fe["password"])
	})

	t.Run("long password", func(t *testing.T) {
		long := strings.Repeat("a", MaxPasswordLength+1)
		fe := fieldErrors(t, Signup("Ann", "ann@example.com", long, long))
		assert.Equal(t, "Password must be at most 72 bytes", fe["password"])

		exact := strings.Repeat("a", MaxPasswordLength)
		assert.NoError(t, Signup("Ann", "ann@example.com", exact, exact))
	})

	t.Run("mismatch", func(t *testing.T) {
		fe := fieldErrors(t, Signup("Ann", "ann@example.com", "secret1", "secret2"))
		assert.Equal(t, "Passwords do not match", fe["confirmPassword"])
	})
}

func TestAddress(t *testing.T) {
	valid := models.Address{
		FullName: "Ann Smith",
		Street:   "1 Main St",
		City:     "Springfield",
		State:    "IL",
		ZipCode:  "62701",
		Phone:    "(555) 123-4567",
	}
	assert.NoError(t, Address(valid))

	plus4 := valid
	plus4.ZipCode = "62701-1234"
	assert.NoError(t, Address(plus4))

	t.Run("all missing", func(t *testing.T) {
		fe := fieldErrors(t, Address(models.Address{}))
		assert.Len(t, fe, 6)
		assert.Equal(t, "ZIP code is required", fe["zipCode"])
	})

	t.Run("bad phone", func(t *testing.T) {
		a := valid
		a.Phone = "555-1234"
		fe := fieldErrors(t, Address(a))
		assert.Equal(t, "Please enter a valid 10-digit phone number", fe["phone"])
	})

	t.Run("bad zip", func(t *testing.T) {
		a := valid
		a.ZipCode = "6270"
		fe := fieldErrors(t, Address(a))
		assert.Equal(t, "Please enter a valid ZIP code", fe["zipCode"])
	})
}

func TestPaymentMethod(t *testing.T) {
	assert.NoError(t, PaymentMethod(models.PaymentCash))
	fe := fieldErrors(t, PaymentMethod("bitcoin"))
	assert.Contains(t, fe, "paymentMethod")
}

func TestFieldErrors_ErrorIsStable(t *testing.T) {
	fe := FieldErrors{"b": "second", "a": "first"}
	assert.Equal(t, "validation failed: a: first; b: second", fe.Error())
}
