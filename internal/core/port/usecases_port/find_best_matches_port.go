package usecases_port

import (
	"context"

	"github.com/Omkar-XD/Realty-Match-System/internal/core/domain"

	"github.com/google/uuid"
)

type FindBestMatchesUseCase interface {
	Execute(ctx context.Context, requirementID uuid.UUID, opts domain.MatchOptions) (*domain.RequirementMatches, error)
}
