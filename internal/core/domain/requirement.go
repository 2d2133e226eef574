package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TransactionType - намерение сделки: покупка или аренда
type TransactionType string

const (
	TransactionBuy  TransactionType = "buy"
	TransactionRent TransactionType = "rent"
)

// ParseTransactionType нормализует значение из хранилища или запроса.
// Старые записи хранили покупку как "sale".
func ParseTransactionType(s string) (TransactionType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "buy", "sale", "sell":
		return TransactionBuy, nil
	case "rent":
		return TransactionRent, nil
	}
	return "", fmt.Errorf("unknown transaction type %q", s)
}

// RequirementStatus - состояние запроса покупателя
type RequirementStatus string

const (
	RequirementActive  RequirementStatus = "active"
	RequirementMatched RequirementStatus = "matched"
	RequirementClosed  RequirementStatus = "closed"
)

// PriceRange - замкнутый диапазон цен в рупиях.
// Одиночная цена объекта - вырожденный диапазон Min == Max.
type PriceRange struct {
	Min int64 `json:"min"`
	Max int64 `json:"max"`
}

// Midpoint возвращает середину диапазона
func (r PriceRange) Midpoint() float64 {
	return (float64(r.Min) + float64(r.Max)) / 2
}

// AreaRange - необязательные границы площади в кв. футах
type AreaRange struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

// BedroomRange - необязательные границы количества спален (BHK)
type BedroomRange struct {
	Min *int `json:"min,omitempty"`
	Max *int `json:"max,omitempty"`
}

// Contains проверяет попадание значения в заданные границы
func (r BedroomRange) Contains(v int) bool {
	if r.Min != nil && v < *r.Min {
		return false
	}
	if r.Max != nil && v > *r.Max {
		return false
	}
	return true
}

// Requirement - критерии поиска, которые записал сотрудник со слов покупателя.
// Area и Bedrooms равны nil, если покупатель их не указал.
type Requirement struct {
	ID                 uuid.UUID         `json:"id"`
	EnquiryID          uuid.UUID         `json:"enquiry_id"`
	TransactionType    TransactionType   `json:"transaction_type"`
	Category           string            `json:"category"`
	SubType            string            `json:"sub_type"`
	Budget             PriceRange        `json:"budget"`
	Area               *AreaRange        `json:"area,omitempty"`
	Bedrooms           *BedroomRange     `json:"bedrooms,omitempty"`
	PreferredLocations []string          `json:"preferred_locations"`
	Notes              string            `json:"notes"`
	Status             RequirementStatus `json:"status"`
	CreatedAt          time.Time         `json:"created_at"`
}

// Validate проверяет инварианты запроса до того, как он попадет в скоринг
func (r Requirement) Validate() error {
	if r.TransactionType != TransactionBuy && r.TransactionType != TransactionRent {
		return fmt.Errorf("%w: transaction type %q", ErrInvalidRequirement, r.TransactionType)
	}
	if r.Budget.Min < 0 || r.Budget.Max < r.Budget.Min {
		return fmt.Errorf("%w: budget [%d, %d]", ErrInvalidRequirement, r.Budget.Min, r.Budget.Max)
	}
	if r.Area != nil {
		if r.Area.Min == nil && r.Area.Max == nil {
			return fmt.Errorf("%w: area range without bounds", ErrInvalidRequirement)
		}
		if r.Area.Min != nil && r.Area.Max != nil && *r.Area.Max < *r.Area.Min {
			return fmt.Errorf("%w: area [%.0f, %.0f]", ErrInvalidRequirement, *r.Area.Min, *r.Area.Max)
		}
	}
	if r.Bedrooms != nil {
		if r.Bedrooms.Min == nil && r.Bedrooms.Max == nil {
			return fmt.Errorf("%w: bedroom range without bounds", ErrInvalidRequirement)
		}
		if r.Bedrooms.Min != nil && r.Bedrooms.Max != nil && *r.Bedrooms.Max < *r.Bedrooms.Min {
			return fmt.Errorf("%w: bedrooms [%d, %d]", ErrInvalidRequirement, *r.Bedrooms.Min, *r.Bedrooms.Max)
		}
	}
	return nil
}
