package usecase

import (
	"context"

	"github.com/Omkar-XD/Realty-Match-System/internal/contextkeys"
	"github.com/Omkar-XD/Realty-Match-System/internal/core/domain"
	"github.com/Omkar-XD/Realty-Match-System/internal/core/port"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const defaultBatchConcurrency = 4

// CountMatchesBatchUseCase считает, сколько объектов проходит порог для каждого запроса.
// Ошибка по одному запросу не прерывает пакет: запись получает Count 0 и Failed.
type CountMatchesBatchUseCase struct {
	matcher     *FindMatchesForRequirementUseCase
	concurrency int
}

func NewCountMatchesBatchUseCase(matcher *FindMatchesForRequirementUseCase, concurrency int) *CountMatchesBatchUseCase {
	if concurrency <= 0 {
		concurrency = defaultBatchConcurrency
	}
	return &CountMatchesBatchUseCase{
		matcher:     matcher,
		concurrency: concurrency,
	}
}

// Execute возвращает записи в порядке входных идентификаторов.
// Ошибку возвращает только отмена контекста.
func (uc *CountMatchesBatchUseCase) Execute(ctx context.Context, requirementIDs []uuid.UUID, opts domain.MatchOptions) ([]domain.BatchMatchCount, error) {
	minScore, _ := opts.Resolve()

	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":     "CountMatchesBatch",
		"requirements": len(requirementIDs),
		"min_score":    minScore,
	})

	ucLogger.Info("Use case started", nil)

	results := make([]domain.BatchMatchCount, len(requirementIDs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.concurrency)

	for i, id := range requirementIDs {
		g.Go(func() error {
			results[i] = domain.BatchMatchCount{RequirementID: id}

			if err := gctx.Err(); err != nil {
				results[i].Failed = true
				return err
			}

			matches, err := uc.matcher.match(gctx, id)
			if err != nil {
				ucLogger.Warn("Failed to count matches for requirement", port.Fields{
					"requirement_id": id.String(),
					"error":          err.Error(),
				})
				results[i].Failed = true
				return nil
			}

			for _, m := range matches.Matches {
				if m.Score >= minScore {
					results[i].Count++
				}
			}
			return nil
		})
	}

	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		ucLogger.Error("Batch interrupted", err, nil)
		return nil, err
	}

	failed := 0
	for _, r := range results {
		if r.Failed {
			failed++
		}
	}

	ucLogger.Info("Use case finished successfully", port.Fields{"failed": failed})
	return results, nil
}
