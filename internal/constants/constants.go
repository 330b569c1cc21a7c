package constants

import "time"

// Context keys
const (
	ContextKeyAuthUser = "auth_user"
)

// Auth
const (
	MinPasswordLength = 8
	TokenTTL          = 7 * 24 * time.Hour
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)
