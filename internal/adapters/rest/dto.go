package rest

import (
	"time"

	"github.com/Omkar-XD/Realty-Match-System/internal/core/domain"
	"github.com/Omkar-XD/Realty-Match-System/internal/core/scoring"

	"github.com/google/uuid"
)

type FindMatchesRequest struct {
	RequirementID uuid.UUID `json:"requirement_id"`
}

type BestMatchesRequest struct {
	RequirementID uuid.UUID `json:"requirement_id"`
	MinScore      *int      `json:"min_score"`
	Limit         *int      `json:"limit"`
}

type MatchCountsRequest struct {
	RequirementIDs []uuid.UUID `json:"requirement_ids"`
	MinScore       *int        `json:"min_score"`
}

// PropertyResponse - карточка объекта в выдаче подбора
type PropertyResponse struct {
	ID              uuid.UUID         `json:"id"`
	OwnerName       string            `json:"owner_name"`
	TransactionType string            `json:"transaction_type"`
	Category        string            `json:"category"`
	SubType         string            `json:"sub_type"`
	Price           domain.PriceRange `json:"price"`
	PriceLabel      string            `json:"price_label"`
	Area            *float64          `json:"area,omitempty"`
	Bedrooms        *int              `json:"bedrooms,omitempty"`
	Location        string            `json:"location"`
	Status          string            `json:"status"`
	CreatedAt       time.Time         `json:"created_at"`
}

type PropertyMatchResponse struct {
	Property PropertyResponse `json:"property"`
	Score    int              `json:"score"`
	Reasons  []string         `json:"reasons"`
}

type RequirementMatchResponse struct {
	Requirement domain.Requirement `json:"requirement"`
	Score       int                `json:"score"`
	Reasons     []string           `json:"reasons"`
}

type RequirementMatchesResponse struct {
	Requirement domain.Requirement      `json:"requirement"`
	Matches     []PropertyMatchResponse `json:"matches"`
	Total       int                     `json:"total"`
}

type BestMatchesResponse struct {
	Matches        []PropertyMatchResponse `json:"matches"`
	Total          int                     `json:"total"`
	TotalQualified int                     `json:"total_qualified"`
}

type PropertyMatchesResponse struct {
	Property       PropertyResponse           `json:"property"`
	Matches        []RequirementMatchResponse `json:"matches"`
	Total          int                        `json:"total"`
	TotalQualified int                        `json:"total_qualified"`
}

type MatchCountsResponse struct {
	Counts []domain.BatchMatchCount `json:"counts"`
}

func toPropertyResponse(p domain.Property) PropertyResponse {
	return PropertyResponse{
		ID:              p.ID,
		OwnerName:       p.OwnerName,
		TransactionType: string(p.TransactionType),
		Category:        p.Category,
		SubType:         p.SubType,
		Price:           p.Price,
		PriceLabel:      scoring.FormatPrice(int64(p.Price.Midpoint())),
		Area:            p.Area,
		Bedrooms:        p.Bedrooms,
		Location:        p.Location,
		Status:          string(p.Status),
		CreatedAt:       p.CreatedAt,
	}
}

func toPropertyMatchResponses(matches []domain.PropertyMatch) []PropertyMatchResponse {
	out := make([]PropertyMatchResponse, len(matches))
	for i, m := range matches {
		out[i] = PropertyMatchResponse{
			Property: toPropertyResponse(m.Property),
			Score:    m.Score,
			Reasons:  nonNil(m.Reasons),
		}
	}
	return out
}

func toRequirementMatchResponses(matches []domain.RequirementMatch) []RequirementMatchResponse {
	out := make([]RequirementMatchResponse, len(matches))
	for i, m := range matches {
		out[i] = RequirementMatchResponse{
			Requirement: m.Requirement,
			Score:       m.Score,
			Reasons:     nonNil(m.Reasons),
		}
	}
	return out
}

// nonNil нужен, чтобы пустой список причин сериализовался как [], а не null
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
