package rabbitmq

import (
	"time"

	"github.com/Omkar-XD/Realty-Match-System/internal/core/domain"

	"github.com/google/uuid"
)

// PropertyListedEventDTO - входящее событие о новом объекте
type PropertyListedEventDTO struct {
	PropertyID uuid.UUID  `json:"property_id"`
	ListedAt   *time.Time `json:"listed_at,omitempty"`
}

// MatchesFoundDTO - исходящее уведомление о запросах, которым подошел объект
type MatchesFoundDTO struct {
	PropertyID  uuid.UUID        `json:"property_id"`
	Location    string           `json:"location"`
	Price       string           `json:"price"`
	Matches     []MatchedEnquiry `json:"matches"`
	TotalCount  int              `json:"total_count"`
	GeneratedAt time.Time        `json:"generated_at"`
}

type MatchedEnquiry struct {
	RequirementID uuid.UUID `json:"requirement_id"`
	EnquiryID     uuid.UUID `json:"enquiry_id"`
	Score         int       `json:"score"`
	Reasons       []string  `json:"reasons"`
}

func toMatchesFoundDTO(m *domain.PropertyMatches, price string, now time.Time) MatchesFoundDTO {
	dto := MatchesFoundDTO{
		PropertyID:  m.Property.ID,
		Location:    m.Property.Location,
		Price:       price,
		Matches:     make([]MatchedEnquiry, 0, len(m.Matches)),
		TotalCount:  m.TotalCount,
		GeneratedAt: now.UTC(),
	}
	for _, match := range m.Matches {
		dto.Matches = append(dto.Matches, MatchedEnquiry{
			RequirementID: match.Requirement.ID,
			EnquiryID:     match.Requirement.EnquiryID,
			Score:         match.Score,
			Reasons:       match.Reasons,
		})
	}
	return dto
}
