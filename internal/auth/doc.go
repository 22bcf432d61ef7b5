// Package auth provides the token gate of the API.
//
// Accounts sign in with email and password against the local database.
// Argon2id hashes are the default; legacy bcrypt hashes still verify and
// are upgraded on the next successful sign in.
//
// # Tokens
//
// Service issues HS256 signed tokens carrying the account id and role.
// The shared secret is supplied externally and has no default.
//
// # Middleware
//
// Fiber middleware functions are provided for route protection:
//   - Authenticate: verify the token and store the Principal in the context
//   - RequireRole: pass only principals holding a role
//   - RequireSelfOrRole: pass the addressed account itself or a role holder
//
// A missing token is answered with 401, an invalid or expired token with 403.
//
// Example usage:
//
//	authService, err := auth.NewService(cfg.Auth)
//
//	app.Get("/users",
//	    auth.Authenticate(authService),
//	    auth.RequireRole(models.RoleAdmin),
//	    handler,
//	)
package auth
