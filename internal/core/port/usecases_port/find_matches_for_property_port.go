package usecases_port

import (
	"context"

	"github.com/Omkar-XD/Realty-Match-System/internal/core/domain"

	"github.com/google/uuid"
)

type FindMatchesForPropertyUseCase interface {
	Execute(ctx context.Context, propertyID uuid.UUID, opts domain.MatchOptions) (*domain.PropertyMatches, error)
}
