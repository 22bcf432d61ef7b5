package auth

import "github.com/castboard/castboard/internal/db/models"

// Principal is the authenticated identity attached to a request.
type Principal struct {
	ID   string
	Role models.Role
}

// Has reports whether the principal holds role.
func (p *Principal) Has(role models.Role) bool {
	return p != nil && p.Role == role
}

// IsSelfOr reports whether the principal is the account id or holds role.
func (p *Principal) IsSelfOr(id string, role models.Role) bool {
	return p != nil && (p.ID == id || p.Role == role)
}
