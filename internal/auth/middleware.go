package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/castboard/castboard/internal/apperr"
	"github.com/castboard/castboard/internal/db/models"
)

const principalKey = "principal"

// TokenFromRequest returns the raw token from the configured header,
// falling back to an Authorization bearer token.
func TokenFromRequest(c *fiber.Ctx, header string) string {
	if token := strings.TrimSpace(c.Get(header)); token != "" {
		return token
	}

	scheme, token, found := strings.Cut(c.Get(fiber.HeaderAuthorization), " ")
	if found && strings.EqualFold(scheme, "bearer") {
		return strings.TrimSpace(token)
	}

	return ""
}

// Authenticate creates Fiber middleware that verifies the request token
// and stores the Principal in the context.
func Authenticate(s *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := TokenFromRequest(c, s.Header())
		if raw == "" {
			return apperr.Wrap(apperr.Unauthenticated, ErrNoToken, "No token provided")
		}

		principal, err := s.Verify(raw)
		if err != nil {
			log.Debug().Err(err).Str("ip", c.IP()).Msg("rejected token")
			return apperr.Wrap(apperr.Forbidden, err, "Invalid token")
		}

		c.Locals(principalKey, principal)

		return c.Next()
	}
}

// PrincipalFromContext returns the principal stored by Authenticate, or nil.
func PrincipalFromContext(c *fiber.Ctx) *Principal {
	p, _ := c.Locals(principalKey).(*Principal)
	return p
}

// RequireRole creates Fiber middleware that requires the principal to hold role.
// It must run after Authenticate.
func RequireRole(role models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal := PrincipalFromContext(c)
		if principal == nil {
			return apperr.New(apperr.Unauthenticated, "Unauthorized")
		}

		if !principal.Has(role) {
			log.Warn().Str("user_id", principal.ID).Str("role", string(role)).
				Msg("User lacks required role")

			return apperr.New(apperr.Forbidden, "Admin access required")
		}

		return c.Next()
	}
}

// RequireSelfOrRole creates Fiber middleware that passes when the route
// parameter param names the principal's own account, or the principal holds role.
func RequireSelfOrRole(param string, role models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal := PrincipalFromContext(c)
		if principal == nil {
			return apperr.New(apperr.Unauthenticated, "Unauthorized")
		}

		if !principal.IsSelfOr(c.Params(param), role) {
			log.Warn().Str("user_id", principal.ID).Str("target", c.Params(param)).
				Msg("User may only modify own account")

			return apperr.New(apperr.Forbidden, "Forbidden")
		}

		return c.Next()
	}
}
