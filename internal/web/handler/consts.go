package handler

import "github.com/castboard/castboard/internal/db/models"

const (
	// RootPath is the root path the route group.
	RootPath = "/"

	// ErrNilDepsFatalLogMsg is used if app or one of the dependencies is nil.
	ErrNilDepsFatalLogMsg = "app or handler dependencies are nil"

	// AdminRole guards every mutating content route.
	AdminRole = models.RoleAdmin
)
