package port

import "github.com/Omkar-XD/Realty-Match-System/internal/core/domain"

// MatchScorerPort - чистая модель оценки пары (объект, запрос)
type MatchScorerPort interface {
	Score(p domain.Property, r domain.Requirement) domain.Score
	CandidateFilter(r domain.Requirement) domain.CandidateFilter
}
