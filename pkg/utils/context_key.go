package utils

// ContextKey is the type used for request-scoped values set by the
// auth middleware (userId, username, expiresAt).
type ContextKey string
