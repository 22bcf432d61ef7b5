package auth

import (
	"errors"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/castboard/castboard/internal/db/controller/user"
	"github.com/castboard/castboard/internal/db/models"
)

// LocalProvider handles local database authentication.
type LocalProvider struct {
	db *gorm.DB
}

// NewLocalProvider creates a new local authentication provider.
func NewLocalProvider(db *gorm.DB) *LocalProvider {
	return &LocalProvider{
		db: db,
	}
}

// Authenticate checks email and password against the local database.
// A legacy hash is replaced by an Argon2id hash after a successful check.
func (p *LocalProvider) Authenticate(email, password string) (*models.User, error) {
	u, err := user.GetByEmail(p.db, email)
	if errors.Is(err, user.ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}

	if err != nil {
		return nil, err
	}

	if !u.VerifyPassword(password) {
		return nil, ErrInvalidCredentials
	}

	if u.NeedsRehash() {
		p.rehash(u, password)
	}

	return u, nil
}

func (p *LocalProvider) rehash(u *models.User, password string) {
	hash, err := models.HashPassword(password)
	if err == nil {
		err = user.SetPasswordHash(p.db, u.ID, hash)
	}

	if err != nil {
		log.Warn().Err(err).Str("user_id", u.ID).Msg("failed to upgrade password hash")
		return
	}

	u.Password = hash
}
