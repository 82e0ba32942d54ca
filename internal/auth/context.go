package auth

import (
	"context"

	"github.com/GoArmGo/WardrobeApp/internal/domain"
)

type ctxKey struct{}

// WithUser кладет аутентифицированного пользователя в контекст запроса
func WithUser(ctx context.Context, user *domain.User) context.Context {
	return context.WithValue(ctx, ctxKey{}, user)
}

// UserFrom достает пользователя из контекста запроса.
// Возвращает nil, если запрос не аутентифицирован.
func UserFrom(ctx context.Context) *domain.User {
	user, _ := ctx.Value(ctxKey{}).(*domain.User)
	return user
}
