// models.go

package models

import "time"

const (
	StatusProcessing = "processing"

	// PaymentCash is Cash on Delivery, the only method the storefront offers.
	PaymentCash = "cash"
)

type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
}

// Public returns a copy safe to send to a client.
func (u User) Public() User {
	u.Password = ""
	return u
}

type Product struct {
	ID          int     `json:"id" yaml:"id"`
	Name        string  `json:"name" yaml:"name"`
	Category    string  `json:"category" yaml:"category"`
	Price       float64 `json:"price" yaml:"price"`
	Unit        string  `json:"unit" yaml:"unit"`
	Image       string  `json:"image" yaml:"image"`
	Description string  `json:"description" yaml:"description"`
}

// CartLine is a product with the quantity held in the cart. Quantity is always >= 1.
type CartLine struct {
	Product
	Quantity int `json:"quantity"`
}

// Subtotal is price times quantity for the line.
func (l CartLine) Subtotal() float64 {
	return l.Price * float64(l.Quantity)
}

type Address struct {
	FullName string `json:"fullName"`
	Street   string `json:"street"`
	City     string `json:"city"`
	State    string `json:"state"`
	ZipCode  string `json:"zipCode"`
	Phone    string `json:"phone"`
}

// Order is an immutable snapshot of a checked-out cart.
type Order struct {
	ID            string     `json:"id"`
	UserID        string     `json:"userId"`
	Items         []CartLine `json:"items"`
	Total         float64    `json:"total"`
	Address       Address    `json:"address"`
	PaymentMethod string     `json:"paymentMethod"`
	Status        string     `json:"status"`
	Date          time.Time  `json:"date"`
}
