package port

import (
	"context"

	"github.com/Omkar-XD/Realty-Match-System/internal/core/domain"
)

// MatchNotifierPort сообщает внешним системам о найденных совпадениях для нового объекта
type MatchNotifierPort interface {
	NotifyPropertyMatches(ctx context.Context, matches *domain.PropertyMatches) error
}
