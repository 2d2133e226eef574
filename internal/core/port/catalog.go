package port

import (
	"context"

	"github.com/Omkar-XD/Realty-Match-System/internal/core/domain"

	"github.com/google/uuid"
)

// CatalogPort - источник объектов и запросов покупателей.
// Неразрешенный идентификатор возвращается как domain.ErrRequirementNotFound / domain.ErrPropertyNotFound.
type CatalogPort interface {
	GetRequirement(ctx context.Context, id uuid.UUID) (*domain.Requirement, error)
	GetProperty(ctx context.Context, id uuid.UUID) (*domain.Property, error)

	// GetActiveRequirements возвращает запросы в статусе active, новые первыми.
	GetActiveRequirements(ctx context.Context) ([]domain.Requirement, error)

	// FindCandidateProperties возвращает доступные объекты, прошедшие грубый фильтр.
	// Результат обязан быть надмножеством объектов с ненулевым баллом.
	FindCandidateProperties(ctx context.Context, filter domain.CandidateFilter) ([]domain.Property, error)

	GetAvailableProperties(ctx context.Context) ([]domain.Property, error)
}
