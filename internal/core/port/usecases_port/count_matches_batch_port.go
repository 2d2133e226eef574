package usecases_port

import (
	"context"

	"github.com/Omkar-XD/Realty-Match-System/internal/core/domain"

	"github.com/google/uuid"
)

type CountMatchesBatchUseCase interface {
	Execute(ctx context.Context, requirementIDs []uuid.UUID, opts domain.MatchOptions) ([]domain.BatchMatchCount, error)
}
