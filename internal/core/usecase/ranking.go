package usecase

import (
	"sort"

	"github.com/Omkar-XD/Realty-Match-System/internal/core/domain"
)

// Порядок выдачи: балл по убыванию, затем более новые записи, затем ID по возрастанию.
// Порядок полный, поэтому повторный вызов на тех же данных дает ту же выдачу.

func rankPropertyMatches(matches []domain.PropertyMatch) {
	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if !a.Property.CreatedAt.Equal(b.Property.CreatedAt) {
			return a.Property.CreatedAt.After(b.Property.CreatedAt)
		}
		return a.Property.ID.String() < b.Property.ID.String()
	})
}

func rankRequirementMatches(matches []domain.RequirementMatch) {
	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if !a.Requirement.CreatedAt.Equal(b.Requirement.CreatedAt) {
			return a.Requirement.CreatedAt.After(b.Requirement.CreatedAt)
		}
		return a.Requirement.ID.String() < b.Requirement.ID.String()
	})
}

// aboveThreshold оставляет совпадения с баллом не ниже minScore; вход уже отсортирован
func aboveThreshold[T any](matches []T, score func(T) int, minScore int) []T {
	kept := make([]T, 0, len(matches))
	for _, m := range matches {
		if score(m) >= minScore {
			kept = append(kept, m)
		}
	}
	return kept
}

func truncate[T any](matches []T, limit int) []T {
	if len(matches) > limit {
		return matches[:limit]
	}
	return matches
}
