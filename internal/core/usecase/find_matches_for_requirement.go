package usecase

import (
	"context"
	"fmt"

	"github.com/Omkar-XD/Realty-Match-System/internal/contextkeys"
	"github.com/Omkar-XD/Realty-Match-System/internal/core/domain"
	"github.com/Omkar-XD/Realty-Match-System/internal/core/port"

	"github.com/google/uuid"
)

// FindMatchesForRequirementUseCase подбирает все доступные объекты под запрос покупателя
// и возвращает их отсортированными по баллу.
type FindMatchesForRequirementUseCase struct {
	catalog port.CatalogPort
	scorer  port.MatchScorerPort
}

func NewFindMatchesForRequirementUseCase(catalog port.CatalogPort, scorer port.MatchScorerPort) *FindMatchesForRequirementUseCase {
	return &FindMatchesForRequirementUseCase{
		catalog: catalog,
		scorer:  scorer,
	}
}

func (uc *FindMatchesForRequirementUseCase) Execute(ctx context.Context, requirementID uuid.UUID) (*domain.RequirementMatches, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":       "FindMatchesForRequirement",
		"requirement_id": requirementID.String(),
	})

	ucLogger.Info("Use case started", nil)

	result, err := uc.match(ctx, requirementID)
	if err != nil {
		ucLogger.Error("Failed to match requirement", err, nil)
		return nil, err
	}

	ucLogger.Info("Use case finished successfully", port.Fields{"candidates": result.TotalCount})
	return result, nil
}

// match - общая часть контрактов A и B и пакетного подсчета, без логирования старта/финиша
func (uc *FindMatchesForRequirementUseCase) match(ctx context.Context, requirementID uuid.UUID) (*domain.RequirementMatches, error) {
	requirement, err := uc.catalog.GetRequirement(ctx, requirementID)
	if err != nil {
		return nil, fmt.Errorf("failed to load requirement %s: %w", requirementID, err)
	}

	if err := requirement.Validate(); err != nil {
		return nil, fmt.Errorf("requirement %s: %w", requirementID, err)
	}

	filter := uc.scorer.CandidateFilter(*requirement)
	candidates, err := uc.catalog.FindCandidateProperties(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to load candidate properties: %w", err)
	}

	matches := make([]domain.PropertyMatch, 0, len(candidates))
	for _, p := range candidates {
		if !p.IsAvailable() {
			continue
		}
		score := uc.scorer.Score(p, *requirement)
		matches = append(matches, domain.PropertyMatch{
			Property: p,
			Score:    score.Points,
			Reasons:  score.Reasons,
		})
	}

	rankPropertyMatches(matches)

	return &domain.RequirementMatches{
		Requirement: *requirement,
		Matches:     matches,
		TotalCount:  len(matches),
	}, nil
}
