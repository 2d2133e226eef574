package usecase

import (
	"context"

	"github.com/Omkar-XD/Realty-Match-System/internal/contextkeys"
	"github.com/Omkar-XD/Realty-Match-System/internal/core/domain"
	"github.com/Omkar-XD/Realty-Match-System/internal/core/port"

	"github.com/google/uuid"
)

// FindBestMatchesUseCase - подбор с порогом и ограничением выдачи.
// Некорректные minScore и limit прижимаются к допустимым значениям.
type FindBestMatchesUseCase struct {
	matcher *FindMatchesForRequirementUseCase
}

func NewFindBestMatchesUseCase(matcher *FindMatchesForRequirementUseCase) *FindBestMatchesUseCase {
	return &FindBestMatchesUseCase{matcher: matcher}
}

// Execute возвращает не более limit совпадений с баллом не ниже minScore.
// TotalCount - число совпадений, прошедших порог, до обрезки по limit.
func (uc *FindBestMatchesUseCase) Execute(ctx context.Context, requirementID uuid.UUID, opts domain.MatchOptions) (*domain.RequirementMatches, error) {
	minScore, limit := opts.Resolve()

	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":       "FindBestMatches",
		"requirement_id": requirementID.String(),
		"min_score":      minScore,
		"limit":          limit,
	})

	ucLogger.Info("Use case started", nil)

	all, err := uc.matcher.match(ctx, requirementID)
	if err != nil {
		ucLogger.Error("Failed to match requirement", err, nil)
		return nil, err
	}

	qualified := aboveThreshold(all.Matches, func(m domain.PropertyMatch) int { return m.Score }, minScore)

	result := &domain.RequirementMatches{
		Requirement: all.Requirement,
		Matches:     truncate(qualified, limit),
		TotalCount:  len(qualified),
	}

	ucLogger.Info("Use case finished successfully", port.Fields{
		"candidates": all.TotalCount,
		"qualified":  result.TotalCount,
		"returned":   len(result.Matches),
	})
	return result, nil
}
