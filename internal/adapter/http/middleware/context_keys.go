package middleware

// ContextKey keeps middleware context values from colliding with other
// packages' keys.
type ContextKey string

const (
	UserIDCtxKey   = ContextKey("user_id")
	UserRoleCtxKey = ContextKey("user_role")
)
