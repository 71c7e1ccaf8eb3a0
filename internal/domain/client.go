package domain

import (
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	clientNameMinLength  = 2
	clientNameMaxLength  = 200
	clientEmailMaxLength = 200
)

// Client represents a portfolio owner in the domain layer
// A client exclusively owns its allocations: deleting it deletes them
type Client struct {
	ID        uuid.UUID
	Name      string
	Email     string
	IsActive  bool
	CreatedAt time.Time
}

// ClientUpdate carries a partial update; nil fields are left untouched
type ClientUpdate struct {
	Name     *string
	Email    *string
	IsActive *bool
}

// ClientFilter narrows a client listing
type ClientFilter struct {
	Query  string // case-insensitive substring of name or email
	Active *bool
	Limit  int
	Offset int
}

// Validate ensures the client adheres to domain rules
// Returns a *ValidationError naming the first offending field
func (c *Client) Validate() error {
	if err := ValidateClientName(c.Name); err != nil {
		return err
	}
	return ValidateClientEmail(c.Email)
}

// Validate checks only the fields present in the update
func (u *ClientUpdate) Validate() error {
	if u.Name != nil {
		if err := ValidateClientName(*u.Name); err != nil {
			return err
		}
	}
	if u.Email != nil {
		if err := ValidateClientEmail(*u.Email); err != nil {
			return err
		}
	}
	return nil
}

// Apply copies the present fields of the update onto the client
func (u *ClientUpdate) Apply(c *Client) {
	if u.Name != nil {
		c.Name = strings.TrimSpace(*u.Name)
	}
	if u.Email != nil {
		c.Email = strings.TrimSpace(*u.Email)
	}
	if u.IsActive != nil {
		c.IsActive = *u.IsActive
	}
}

// ValidateClientName checks the display name length (counted in characters)
func ValidateClientName(name string) error {
	n := len([]rune(strings.TrimSpace(name)))
	if n < clientNameMinLength {
		return NewValidationError("name", "must be at least 2 characters")
	}
	if n > clientNameMaxLength {
		return NewValidationError("name", "must be at most 200 characters")
	}
	return nil
}

// ValidateClientEmail checks that email is a bare address such as "a@b.com"
func ValidateClientEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return NewValidationError("email", "cannot be empty")
	}
	if len(email) > clientEmailMaxLength {
		return NewValidationError("email", "must be at most 200 characters")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return NewValidationError("email", "must be a valid email address")
	}
	at := strings.LastIndex(email, "@")
	if !strings.Contains(email[at+1:], ".") {
		return NewValidationError("email", "must be a valid email address")
	}
	return nil
}
