package port

import (
	"context"

	"github.com/Omkar-XD/Realty-Match-System/internal/core/domain"
)

// TokenValidatorPort проверяет токены, выпущенные сервисом аутентификации
type TokenValidatorPort interface {
	ValidateToken(ctx context.Context, tokenString string) (*domain.Claims, error)
}
