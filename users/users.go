package users

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/storegate/auth-server/roles"
)

// User is a stored credential record. It is read-only from the
// authorization subsystem's point of view: a deleted record must never
// yield a usable session.
type User struct {
	ID            string       `json:"id,omitempty"`         // Unique identifier for the user
	Username      string       `json:"username,omitempty"`   // Unique username used at login
	Email         string       `json:"email,omitempty"`      // User's email address
	FirstName     string       `json:"first_name,omitempty"` // First name of the user
	LastName      string       `json:"last_name,omitempty"`  // Last name of the user
	PasswordHash  string       `json:"-"`                    // Hashed version of the user's password - never serialize
	Roles         []roles.Role `json:"roles,omitempty"`      // Roles granted to the user
	EmailVerified bool         `json:"email_verified"`       // Whether the user has verified their email address
	Deleted       bool         `json:"deleted"`              // Soft-delete flag; deleted accounts lose access immediately
	CreatedAt     time.Time    `json:"created_at,omitempty"`
	UpdatedAt     time.Time    `json:"updated_at,omitempty"`
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// CheckNeedsRehash reports whether a stored hash was produced with a lower
// cost than the current policy and should be regenerated on next successful
// login.
func CheckNeedsRehash(hash string) bool {
	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		return true
	}
	return cost < bcrypt.DefaultCost
}
