package models

import (
	"strings"

	"github.com/alexedwards/argon2id"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

// Role is the single flat role of an account.
type Role string

const (
	// RoleNormal is assigned on signup.
	RoleNormal Role = "normal"
	// RoleAdmin may mutate content and manage accounts.
	RoleAdmin Role = "admin"
)

// User represents an account.
// The password hash is never serialized.
type User struct {
	Model
	// Name is the display name.
	Name string `gorm:"size:100;not null" json:"name"`
	// Email is the unique login identity.
	Email string `gorm:"size:255;not null;uniqueIndex" json:"email"`
	// Password is the Argon2id hash. Accounts imported with bcrypt hashes still verify.
	Password string `gorm:"size:255;not null" json:"-"`
	// Role is normal or admin.
	Role Role `gorm:"type:varchar(20);not null;default:'normal'" json:"role"`
}

// IsAdmin reports whether the account holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// HashPassword hashes a plaintext password using the Argon2id algorithm.
func HashPassword(password string) (string, error) {
	return argon2id.CreateHash(password, argon2id.DefaultParams) //nolint:wrapcheck
}

// VerifyPassword verifies a plaintext password against the stored hash.
// Both comparisons run in constant time.
func (u *User) VerifyPassword(password string) bool {
	if isBcrypt(u.Password) {
		return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) == nil
	}

	match, err := argon2id.ComparePasswordAndHash(password, u.Password)
	if err != nil {
		log.Error().Err(err).Str("user_id", u.ID).Msg("failed to verify password")
		return false
	}

	return match
}

// NeedsRehash reports whether the stored hash uses a legacy algorithm.
func (u *User) NeedsRehash() bool {
	return isBcrypt(u.Password)
}

func isBcrypt(hash string) bool {
	return strings.HasPrefix(hash, "$2a$") || strings.HasPrefix(hash, "$2b$") || strings.HasPrefix(hash, "$2y$")
}
