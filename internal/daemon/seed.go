package daemon

import (
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/castboard/castboard/internal/config"
	"github.com/castboard/castboard/internal/db/controller/user"
)

// seed creates the configured admin account if the user table is empty.
// Nothing is created without explicit seed credentials.
func seed(cfg *config.Config, db *gorm.DB) error {
	s := cfg.Seed
	if s.AdminEmail == "" || s.AdminPassword == "" {
		return nil
	}

	count, err := user.Count(db)
	if err != nil {
		return err
	}

	if count > 0 {
		return nil
	}

	name := s.AdminName
	if name == "" {
		name = "admin"
	}

	u, err := user.Create(db, name, s.AdminEmail, s.AdminPassword)
	if err != nil {
		return err
	}

	if _, err = user.Promote(db, u.ID); err != nil {
		return err
	}

	log.Info().Str("email", u.Email).Msg("seeded admin account")

	return nil
}
