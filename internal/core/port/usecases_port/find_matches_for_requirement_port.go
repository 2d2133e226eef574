package usecases_port

import (
	"context"

	"github.com/Omkar-XD/Realty-Match-System/internal/core/domain"

	"github.com/google/uuid"
)

type FindMatchesForRequirementUseCase interface {
	Execute(ctx context.Context, requirementID uuid.UUID) (*domain.RequirementMatches, error)
}
