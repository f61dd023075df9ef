package log

import (
	"context"

	"github.com/rs/zerolog"
)

type ctxKey struct{}

// WithLogger stores a logger in the context.
func WithLogger(ctx context.Context, logger zerolog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// WithUser derives a child logger carrying the acting user's id and
// stores it in the context. Everything logged downstream of auth picks
// the field up without threading it by hand.
func WithUser(ctx context.Context, userID string) context.Context {
	logger := Ctx(ctx).With().Str(FieldUserID, userID).Logger()
	return WithLogger(ctx, logger)
}

// Ctx retrieves the logger from the context.
// If no logger is found, the global logger is returned.
func Ctx(ctx context.Context) *zerolog.Logger {
	if l, ok := ctx.Value(ctxKey{}).(zerolog.Logger); ok {
		return &l
	}
	return L()
}
