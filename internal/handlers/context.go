package handlers

import "context"

type contextKey string

const userIDKey contextKey = "userID"

// ContextWithUserID stamps the authenticated user onto the request context.
// Set by the JWT middleware, read by every ownership-scoped handler.
func ContextWithUserID(ctx context.Context, userID int) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext returns the authenticated user id, or 0 when the
// request never passed the JWT middleware.
func UserIDFromContext(ctx context.Context) int {
	id, _ := ctx.Value(userIDKey).(int)
	return id
}
