// Package validation checks form input before it reaches the services.
package validation

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"groco-backend/internal/models"
)

const (
	MinPasswordLength = 6
	// bcrypt rejects longer input
	MaxPasswordLength = 72
)

var (
	zipPattern = regexp.MustCompile(`^\d{5}(-\d{4})?$`)
	nonDigit   = regexp.MustCompile(`[^0-9]`)
)

// FieldErrors maps a field name to the message shown next to it.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, e[f]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// orNil keeps a nil error interface when nothing failed.
func (e FieldErrors) orNil() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

func Login(email, password string) error {
	errs := FieldErrors{}
	if email == "" {
		errs["email"] = "Email is required"
	}
	if password == "" {
		errs["password"] = "Password is required"
	}
	return errs.orNil()
}

func Signup(name, email, password, confirm string) error {
	errs := FieldErrors{}
	if name == "" {
		errs["name"] = "Full name is required"
	}
	if email == "" {
		errs["email"] = "Email is required"
	}
	switch {
	case password == "":
		errs["password"] = "Password is required"
	case len(password) < MinPasswordLength:
		errs["password"] = fmt.Sprintf("Password must be at least %d characters", MinPasswordLength)
	case len(password) > MaxPasswordLength:
		errs["password"] = fmt.Sprintf("Password must be at most %d bytes", MaxPasswordLength)
	}
	if password != confirm {
		errs["confirmPassword"] = "Passwords do not match"
	}
	return errs.orNil()
}

func Address(a models.Address) error {
	errs := FieldErrors{}
	required := []struct{ field, value, label string }{
		{"fullName", a.FullName, "Full name"},
		{"street", a.Street, "Street address"},
		{"city", a.City, "City"},
		{"state", a.State, "State"},
		{"zipCode", a.ZipCode, "ZIP code"},
		{"phone", a.Phone, "Phone number"},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			errs[r.field] = r.label + " is required"
		}
	}
	if a.Phone != "" && len(nonDigit.ReplaceAllString(a.Phone, "")) != 10 {
		errs["phone"] = "Please enter a valid 10-digit phone number"
	}
	if a.ZipCode != "" && !zipPattern.MatchString(a.ZipCode) {
		errs["zipCode"] = "Please enter a valid ZIP code"
	}
	return errs.orNil()
}

func PaymentMethod(method string) error {
	if method != models.PaymentCash {
		return FieldErrors{"paymentMethod": fmt.Sprintf("Unsupported payment method %q", method)}
	}
	return nil
}
