package auth

import "context"

type requesterKey struct{}

// WithRequester stores the authenticated user id on ctx.
func WithRequester(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requesterKey{}, id)
}

// Requester returns the authenticated user id, or "" for anonymous calls.
func Requester(ctx context.Context) string {
	id, _ := ctx.Value(requesterKey{}).(string)
	return id
}
