package user

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID         string    `db:"id"`
	Username   string    `db:"username"`
	Email      string    `db:"email"`
	PinHash    string    `db:"pin_hash"`
	FullName   string    `db:"full_name"`
	TotalOwed  float64   `db:"total_owed"`
	TotalOwing float64   `db:"total_owing"`
	CreatedAt  time.Time `db:"created_at"`
}

type ErrNotFound struct {
	Username string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("user %q not found", e.Username)
}

type Store interface {
	AddUser(ctx context.Context, user *User) error
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	ListUsernames(ctx context.Context) ([]string, error)
}

var usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,30}$`)
var pinRe = regexp.MustCompile(`^[0-9]{4,6}$`)
var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Normalize lowercases a username. All lookups and cross-references use
// the normalized form.
func Normalize(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

func ValidUsername(username string) bool {
	return usernameRe.MatchString(username)
}

// ValidPIN reports whether pin is 4 to 6 digits.
func ValidPIN(pin string) bool {
	return pinRe.MatchString(pin)
}

func ValidEmail(email string) bool {
	return emailRe.MatchString(email)
}

func NewUser(username, email, pinHash, fullName string) *User {
	return &User{
		ID:        uuid.NewString(),
		Username:  Normalize(username),
		Email:     email,
		PinHash:   pinHash,
		FullName:  fullName,
		CreatedAt: time.Now(),
	}
}
