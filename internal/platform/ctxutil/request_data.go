package ctxutil

import (
	"context"

	"github.com/google/uuid"

	"github.com/OwaisIslam/living-real/internal/domain/core"
)

type requestDataKey struct{}

// RequestData is the authenticated caller, attached by the auth middleware.
type RequestData struct {
	TokenString string
	UserID      uuid.UUID
	Role        core.Role
}

func (rd *RequestData) IsOwner() bool {
	return rd != nil && rd.Role == core.RoleOwner
}

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
	return context.WithValue(ctx, requestDataKey{}, rd)
}

// GetRequestData returns nil for unauthenticated contexts.
func GetRequestData(ctx context.Context) *RequestData {
	if ctx == nil {
		return nil
	}
	if rd, ok := ctx.Value(requestDataKey{}).(*RequestData); ok && rd != nil && rd.UserID != uuid.Nil {
		return rd
	}
	return nil
}

// Default returns context.Background() when ctx is nil.
func Default(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
