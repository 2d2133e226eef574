package domain

import "github.com/google/uuid"

const (
	DefaultMinScore = 60
	DefaultLimit    = 10
	MaxLimit        = 100
	MaxScore        = 100
)

// Score - результат оценки одной пары (объект, запрос)
type Score struct {
	Points  int
	Reasons []string
}

// PropertyMatch - объект, подобранный под запрос покупателя
type PropertyMatch struct {
	Property Property `json:"property"`
	Score    int      `json:"score"`
	Reasons  []string `json:"reasons"`
}

// RequirementMatch - запрос покупателя, которому подходит объект
type RequirementMatch struct {
	Requirement Requirement `json:"requirement"`
	Score       int         `json:"score"`
	Reasons     []string    `json:"reasons"`
}

// RequirementMatches - отсортированный результат подбора для запроса
type RequirementMatches struct {
	Requirement Requirement
	Matches     []PropertyMatch
	TotalCount  int
}

// PropertyMatches - отсортированный результат обратного подбора для объекта
type PropertyMatches struct {
	Property   Property
	Matches    []RequirementMatch
	TotalCount int
}

// BatchMatchCount - одна запись пакетного подсчета.
// Failed выставляется, если запрос не удалось оценить; Count тогда равен нулю.
type BatchMatchCount struct {
	RequirementID uuid.UUID `json:"requirement_id"`
	Count         int       `json:"count"`
	Failed        bool      `json:"failed"`
}

// CandidateFilter - грубый фильтр, который каталог может выполнить на своей стороне.
// Окна цены и площади уже расширены на допуски скоринга.
type CandidateFilter struct {
	TransactionType TransactionType
	Category        string
	PriceMin        int64
	PriceMax        int64
	AreaMin         *float64
	AreaMax         *float64
	Locations       []string
}

// MatchOptions - параметры вызывающей стороны. nil означает значение по умолчанию.
type MatchOptions struct {
	MinScore *int
	Limit    *int
}

// Resolve подставляет значения по умолчанию и прижимает некорректные к допустимым:
// minScore в [0,100], limit в [1,100].
func (o MatchOptions) Resolve() (minScore, limit int) {
	minScore, limit = DefaultMinScore, DefaultLimit
	if o.MinScore != nil {
		minScore = clampInt(*o.MinScore, 0, MaxScore)
	}
	if o.Limit != nil {
		limit = clampInt(*o.Limit, 1, MaxLimit)
	}
	return minScore, limit
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
