// Package validate holds the per-entity request validation rules. Each
// function returns a FieldErrors map that serializes to the
// {"errors": {field: [messages]}} body handlers send with HTTP 400.
package validate

import (
	"net/mail"
	"strings"
	"time"
)

// FieldErrors collects validation messages keyed by field name. A nil or
// empty map means the input passed.
type FieldErrors map[string][]string

func (e FieldErrors) add(field, msg string) FieldErrors {
	e[field] = append(e[field], msg)
	return e
}

// Ok reports whether no field failed.
func (e FieldErrors) Ok() bool { return len(e) == 0 }

func validEmail(s string) bool {
	a, err := mail.ParseAddress(s)
	return err == nil && a.Address == s
}

// Mechanic checks a mechanic create request.
func Mechanic(name, email, password string) FieldErrors {
	e := FieldErrors{}
	if strings.TrimSpace(name) == "" {
		e.add("name", "name is required")
	}
	switch {
	case strings.TrimSpace(email) == "":
		e.add("email", "email is required")
	case !validEmail(email):
		e.add("email", "not a valid email address")
	}
	if password == "" {
		e.add("password", "password is required")
	}
	return e
}

// Login checks a login request.
func Login(name, password string) FieldErrors {
	e := FieldErrors{}
	if strings.TrimSpace(name) == "" {
		e.add("name", "name is required")
	}
	if password == "" {
		e.add("password", "password is required")
	}
	return e
}

// Customer checks a customer create/update request. Phone and car are
// optional.
func Customer(name, email string) FieldErrors {
	e := FieldErrors{}
	if strings.TrimSpace(name) == "" {
		e.add("name", "name is required")
	}
	switch {
	case strings.TrimSpace(email) == "":
		e.add("email", "email is required")
	case !validEmail(email):
		e.add("email", "not a valid email address")
	}
	return e
}

// Ticket checks a service ticket create/update request. The date must be a
// calendar date in YYYY-MM-DD form.
func Ticket(description, date string, customerID uint64) FieldErrors {
	e := FieldErrors{}
	if strings.TrimSpace(description) == "" {
		e.add("description", "description is required")
	}
	switch {
	case strings.TrimSpace(date) == "":
		e.add("date", "date is required")
	default:
		if _, err := time.Parse("2006-01-02", date); err != nil {
			e.add("date", "date must be YYYY-MM-DD")
		}
	}
	if customerID == 0 {
		e.add("customer_id", "customer_id is required")
	}
	return e
}

// Part checks an inventory part create/update request.
func Part(name string, quantity int, price float64) FieldErrors {
	e := FieldErrors{}
	if strings.TrimSpace(name) == "" {
		e.add("name", "name is required")
	}
	if quantity < 0 {
		e.add("quantity", "quantity must not be negative")
	}
	if price < 0 {
		e.add("price", "price must not be negative")
	}
	return e
}
