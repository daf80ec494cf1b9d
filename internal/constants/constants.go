package constants

// Session and context keys
const (
	SessionCookieName  = "repair_session"
	ContextKeyUserID   = "user_id"
	ContextKeyIdentity = "identity"
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)
