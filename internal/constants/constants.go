package constants

// ContextKeyAccountID is the session and context key holding the
// authenticated account's ID.
const ContextKeyAccountID = "account_id"

// SessionCookieName is the cookie carrying the session ID.
const SessionCookieName = "studyhub_session"

// Password rules
const MinPasswordLength = 8

// Pagination defaults
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)
