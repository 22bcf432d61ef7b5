// Package user provides CRUD operations for accounts.
package user

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/castboard/castboard/internal/db/controller/rows"
	"github.com/castboard/castboard/internal/db/models"
)

const (
	emailQueryPattern = "email = ?"
)

var (
	// ErrUserNotFound is returned when no account matches.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailExists is returned when the email already belongs to another account.
	ErrEmailExists = errors.New("user with email already exists")
	// ErrNoFields is returned by Update when the patch carries nothing.
	ErrNoFields = errors.New("no fields provided for update")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Patch is a sparse account update. Nil or empty fields are left untouched.
type Patch struct {
	Name     *string
	Email    *string
	Password *string // plaintext, hashed on apply
}

// Empty reports whether the patch would change nothing.
func (p Patch) Empty() bool {
	return !set(p.Name) && !set(p.Email) && !set(p.Password)
}

func set(s *string) bool {
	return s != nil && *s != ""
}

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Create stores a new account with a hashed password and the normal role.
func Create(db *gorm.DB, name, email, password string) (*models.User, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	email = NormalizeEmail(email)

	taken, err := emailTaken(db, email, "")
	if err != nil {
		return nil, err
	}

	if taken {
		return nil, ErrEmailExists
	}

	hash, err := models.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u := &models.User{
		Name:     name,
		Email:    email,
		Password: hash,
		Role:     models.RoleNormal,
	}

	if err = db.Create(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailExists
		}

		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return u, nil
}

// GetByID retrieves an account by ID.
func GetByID(db *gorm.DB, id string) (*models.User, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if !models.ValidID(id) {
		return nil, ErrUserNotFound
	}

	var u models.User
	if err := db.First(&u, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}

		return nil, err
	}

	return &u, nil
}

// GetByEmail retrieves an account by email.
func GetByEmail(db *gorm.DB, email string) (*models.User, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var u models.User
	if err := db.Where(emailQueryPattern, NormalizeEmail(email)).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}

		return nil, err
	}

	return &u, nil
}

// List returns all accounts.
func List(db *gorm.DB) ([]models.User, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	users := []models.User{}
	if err := db.Order("created_at ASC").Find(&users).Error; err != nil {
		return nil, err
	}

	return users, nil
}

// Update applies patch to the account with the given ID.
func Update(db *gorm.DB, id string, patch Patch) (*models.User, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if patch.Empty() {
		return nil, ErrNoFields
	}

	u, err := GetByID(db, id)
	if err != nil {
		return nil, err
	}

	var columns []string

	if set(patch.Name) {
		u.Name = *patch.Name
		columns = append(columns, "name")
	}

	if set(patch.Email) {
		email := NormalizeEmail(*patch.Email)

		taken, errTaken := emailTaken(db, email, u.ID)
		if errTaken != nil {
			return nil, errTaken
		}

		if taken {
			return nil, ErrEmailExists
		}

		u.Email = email
		columns = append(columns, "email")
	}

	if set(patch.Password) {
		hash, errHash := models.HashPassword(*patch.Password)
		if errHash != nil {
			return nil, fmt.Errorf("failed to hash password: %w", errHash)
		}

		u.Password = hash
		columns = append(columns, "password")
	}

	found, err := rows.Update(db, u, id, columns...)
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailExists
		}

		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	if !found {
		return nil, ErrUserNotFound
	}

	return u, nil
}

// SetPasswordHash replaces the stored hash, used to upgrade legacy hashes on login.
func SetPasswordHash(db *gorm.DB, id, hash string) error {
	if db == nil {
		return ErrDBNil
	}

	return db.Model(&models.User{}).Where("id = ?", id).Update("password", hash).Error
}

// Promote sets the admin role on the account with the given ID.
func Promote(db *gorm.DB, id string) (*models.User, error) {
	return setRole(db, id, models.RoleAdmin)
}

// PromoteByEmail sets the admin role on the account with the given email.
func PromoteByEmail(db *gorm.DB, email string) (*models.User, error) {
	u, err := GetByEmail(db, email)
	if err != nil {
		return nil, err
	}

	return setRole(db, u.ID, models.RoleAdmin)
}

func setRole(db *gorm.DB, id string, role models.Role) (*models.User, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if !models.ValidID(id) {
		return nil, ErrUserNotFound
	}

	result := db.Model(&models.User{}).Where("id = ?", id).Update("role", role)
	if result.Error != nil {
		return nil, result.Error
	}

	if result.RowsAffected == 0 {
		return nil, ErrUserNotFound
	}

	return GetByID(db, id)
}

// Delete deletes an account by ID.
func Delete(db *gorm.DB, id string) error {
	if db == nil {
		return ErrDBNil
	}

	if !models.ValidID(id) {
		return ErrUserNotFound
	}

	result := db.Delete(&models.User{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}

// Count returns the number of stored accounts.
func Count(db *gorm.DB) (int64, error) {
	if db == nil {
		return 0, ErrDBNil
	}

	var n int64
	err := db.Model(&models.User{}).Count(&n).Error

	return n, err
}

func emailTaken(db *gorm.DB, email, exceptID string) (bool, error) {
	var n int64

	tx := db.Model(&models.User{}).Where(emailQueryPattern, email)
	if exceptID != "" {
		tx = tx.Where("id <> ?", exceptID)
	}

	if err := tx.Count(&n).Error; err != nil {
		return false, fmt.Errorf("failed to check existing user: %w", err)
	}

	return n > 0, nil
}
