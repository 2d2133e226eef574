package scoring

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/Omkar-XD/Realty-Match-System/internal/contracts"
)

// Weights - единая таблица весов скоринга.
// Значение неизменяемое: Model хранит свою копию.
type Weights struct {
	Transaction int `json:"transaction"`
	Category    int `json:"category"`
	SubType     int `json:"sub_type"`

	PriceFull             int     `json:"price_full"`
	PriceFloor            int     `json:"price_floor"`
	PriceOverBudget       int     `json:"price_over_budget"`
	PriceUnderBudget      int     `json:"price_under_budget"`
	PriceTolerance        float64 `json:"price_tolerance"`
	PerfectPriceCloseness float64 `json:"perfect_price_closeness"`

	AreaFull      int     `json:"area_full"`
	AreaFloor     int     `json:"area_floor"`
	AreaNear      int     `json:"area_near"`
	AreaNeutral   int     `json:"area_neutral"`
	AreaTolerance float64 `json:"area_tolerance"`

	LocationExact   int `json:"location_exact"`
	LocationPartial int `json:"location_partial"`
	LocationFloor   int `json:"location_floor"`
	LocationNeutral int `json:"location_neutral"`

	Bedrooms              int      `json:"bedrooms"`
	BedroomlessCategories []string `json:"bedroomless_categories"`
}

// DefaultWeights возвращает каноническую таблицу весов
func DefaultWeights() Weights {
	return Weights{
		Transaction: 20,
		Category:    15,
		SubType:     10,

		PriceFull:             30,
		PriceFloor:            20,
		PriceOverBudget:       15,
		PriceUnderBudget:      10,
		PriceTolerance:        0.10,
		PerfectPriceCloseness: 0.80,

		AreaFull:      20,
		AreaFloor:     15,
		AreaNear:      10,
		AreaNeutral:   10,
		AreaTolerance: 0.15,

		LocationExact:   20,
		LocationPartial: 15,
		LocationFloor:   5,
		LocationNeutral: 10,

		Bedrooms:              15,
		BedroomlessCategories: []string{"plot", "land", "commercial"},
	}
}

// LoadWeightsFromFile читает JSON с переопределениями весов.
// Отсутствующие в файле поля берутся из DefaultWeights.
// Пустой path означает веса по умолчанию без ошибки.
func LoadWeightsFromFile(path string) (Weights, error) {
	w := DefaultWeights()
	if path == "" {
		return w, nil
	}

	body, err := os.ReadFile(path)
	if err != nil {
		return w, fmt.Errorf("failed to read weights file: %w", err)
	}

	if err := contracts.Validate(contracts.ScoringWeightsV1, body); err != nil {
		return DefaultWeights(), fmt.Errorf("invalid weights file %s: %w", path, err)
	}

	if err := json.Unmarshal(body, &w); err != nil {
		return DefaultWeights(), fmt.Errorf("failed to decode weights file: %w", err)
	}

	if w.PriceFull < w.PriceFloor {
		return DefaultWeights(), fmt.Errorf("invalid weights file %s: price_full %d < price_floor %d", path, w.PriceFull, w.PriceFloor)
	}
	if w.AreaFull < w.AreaFloor {
		return DefaultWeights(), fmt.Errorf("invalid weights file %s: area_full %d < area_floor %d", path, w.AreaFull, w.AreaFloor)
	}

	return w, nil
}
