package usecase

import (
	"context"
	"fmt"

	"github.com/Omkar-XD/Realty-Match-System/internal/contextkeys"
	"github.com/Omkar-XD/Realty-Match-System/internal/core/domain"
	"github.com/Omkar-XD/Realty-Match-System/internal/core/port"

	"github.com/google/uuid"
)

// FindMatchesForPropertyUseCase - обратный подбор: какие активные запросы подходят новому объекту.
type FindMatchesForPropertyUseCase struct {
	catalog  port.CatalogPort
	scorer   port.MatchScorerPort
	notifier port.MatchNotifierPort
}

// NewFindMatchesForPropertyUseCase создает use case. notifier может быть nil.
func NewFindMatchesForPropertyUseCase(catalog port.CatalogPort, scorer port.MatchScorerPort, notifier port.MatchNotifierPort) *FindMatchesForPropertyUseCase {
	return &FindMatchesForPropertyUseCase{
		catalog:  catalog,
		scorer:   scorer,
		notifier: notifier,
	}
}

func (uc *FindMatchesForPropertyUseCase) Execute(ctx context.Context, propertyID uuid.UUID, opts domain.MatchOptions) (*domain.PropertyMatches, error) {
	minScore, limit := opts.Resolve()

	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":    "FindMatchesForProperty",
		"property_id": propertyID.String(),
		"min_score":   minScore,
		"limit":       limit,
	})

	ucLogger.Info("Use case started", nil)

	property, err := uc.catalog.GetProperty(ctx, propertyID)
	if err != nil {
		ucLogger.Error("Failed to load property", err, nil)
		return nil, fmt.Errorf("failed to load property %s: %w", propertyID, err)
	}

	requirements, err := uc.catalog.GetActiveRequirements(ctx)
	if err != nil {
		ucLogger.Error("Failed to load active requirements", err, nil)
		return nil, fmt.Errorf("failed to load active requirements: %w", err)
	}

	matches := make([]domain.RequirementMatch, 0)
	if property.IsAvailable() {
		for _, r := range requirements {
			if err := r.Validate(); err != nil {
				ucLogger.Warn("Skipping invalid requirement", port.Fields{
					"requirement_id": r.ID.String(),
					"error":          err.Error(),
				})
				continue
			}
			score := uc.scorer.Score(*property, r)
			if score.Points < minScore {
				continue
			}
			matches = append(matches, domain.RequirementMatch{
				Requirement: r,
				Score:       score.Points,
				Reasons:     score.Reasons,
			})
		}
	} else {
		ucLogger.Warn("Property is not available, nothing to match", port.Fields{"status": property.Status})
	}

	rankRequirementMatches(matches)

	result := &domain.PropertyMatches{
		Property:   *property,
		Matches:    truncate(matches, limit),
		TotalCount: len(matches),
	}

	if len(result.Matches) > 0 && uc.notifier != nil {
		// Сбой уведомления не отменяет результат подбора
		if err := uc.notifier.NotifyPropertyMatches(ctx, result); err != nil {
			ucLogger.Error("Failed to publish matches notification", err, nil)
		}
	}

	ucLogger.Info("Use case finished successfully", port.Fields{
		"requirements": len(requirements),
		"qualified":    result.TotalCount,
		"returned":     len(result.Matches),
	})
	return result, nil
}
