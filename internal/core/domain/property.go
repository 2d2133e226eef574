package domain

import (
	"time"

	"github.com/google/uuid"
)

// PropertyStatus - статус объявления
type PropertyStatus string

const (
	PropertyAvailable    PropertyStatus = "available"
	PropertyOnHold       PropertyStatus = "on_hold"
	PropertySoldOrRented PropertyStatus = "sold_or_rented"
)

// Property - объект недвижимости. Матчер только читает его.
type Property struct {
	ID              uuid.UUID       `json:"id"`
	OwnerName       string          `json:"owner_name"`
	TransactionType TransactionType `json:"transaction_type"`
	Category        string          `json:"category"`
	SubType         string          `json:"sub_type"`
	Price           PriceRange      `json:"price"`
	Area            *float64        `json:"area,omitempty"`
	Bedrooms        *int            `json:"bedrooms,omitempty"`
	Location        string          `json:"location"`
	Status          PropertyStatus  `json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
}

// IsAvailable - только такие объекты участвуют в подборе
func (p Property) IsAvailable() bool {
	return p.Status == PropertyAvailable
}
