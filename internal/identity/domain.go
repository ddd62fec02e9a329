// Package identity is the identity provider: accounts, organisation roles and
// the sign-in flow.
package identity

import (
	"strconv"
	"time"

	"github.com/courtvision/courtvision/internal/gate"
)

// User is a dashboard account.
type User struct {
	ID           int64
	Email        string
	DisplayName  string
	PasswordHash string
	IsActive     bool
	CreatedAt    time.Time
}

// Principal converts the account to the gate view of a user.
func (u *User) Principal() *gate.Principal {
	name := u.DisplayName
	if name == "" {
		name = u.Email
	}
	return &gate.Principal{ID: strconv.FormatInt(u.ID, 10), Email: u.Email, Name: name}
}

// Membership ties a user to an organisation with a role marker such as
// "org:admin".
type Membership struct {
	UserID       int64
	Organization string
	Role         string
	CreatedAt    time.Time
}

// NewUser carries the fields needed to create an account.
type NewUser struct {
	Email        string `validate:"required,email"`
	DisplayName  string `validate:"max=120"`
	Password     string `validate:"required,min=8"`
	Organization string `validate:"required_with=Role"`
	Role         string `validate:"omitempty,oneof=org:admin org:member"`
}
