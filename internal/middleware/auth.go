package middleware

import (
	"context"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/settleup/internal/auth"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// ViewerKey is the context key for storing the selected viewer.
const ViewerKey contextKey = "viewer"

// Viewer is the participant a caller selected for a group.
type Viewer struct {
	GroupID       string
	ParticipantID string
}

// GetViewer extracts the viewer from the context.
// Returns false if the request carried no valid viewer token.
func GetViewer(ctx context.Context) (Viewer, bool) {
	v, ok := ctx.Value(ViewerKey).(Viewer)
	return v, ok
}

// ViewerFor returns the viewer's participant ID if the viewer was selected
// for groupID, and empty string otherwise.
func ViewerFor(ctx context.Context, groupID string) string {
	v, ok := GetViewer(ctx)
	if !ok || v.GroupID != groupID {
		return ""
	}
	return v.ParticipantID
}

// WithViewer returns a copy of ctx carrying v.
func WithViewer(ctx context.Context, v Viewer) context.Context {
	return context.WithValue(ctx, ViewerKey, v)
}

// OptionalViewer returns a middleware that validates viewer tokens if present,
// but allows requests without one. Invalid tokens are ignored so a stale
// token degrades to the anonymous view instead of failing the call.
func OptionalViewer(jwtManager *auth.JWTManager) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if tokenString, ok := bearerToken(req.Header().Get("Authorization")); ok {
				claims, err := jwtManager.Validate(tokenString)
				if err == nil {
					ctx = WithViewer(ctx, Viewer{GroupID: claims.GroupID, ParticipantID: claims.ParticipantID})
				}
			}

			return next(ctx, req)
		}
	}
}

func bearerToken(header string) (string, bool) {
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
