package scoring

import (
	"fmt"
	"math"
	"strings"

	"github.com/Omkar-XD/Realty-Match-System/internal/core/domain"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Model - чистая модель скоринга пары (объект, запрос).
// Безопасна для одновременного использования: состояние после NewModel не меняется.
type Model struct {
	w           Weights
	bedroomless map[string]struct{}
}

// NewModel создает модель с заданными весами
func NewModel(w Weights) *Model {
	bedroomless := make(map[string]struct{}, len(w.BedroomlessCategories))
	fold := cases.Fold()
	for _, c := range w.BedroomlessCategories {
		bedroomless[fold.String(strings.TrimSpace(c))] = struct{}{}
	}
	w.BedroomlessCategories = append([]string(nil), w.BedroomlessCategories...)
	return &Model{w: w, bedroomless: bedroomless}
}

// Weights возвращает копию весов модели
func (m *Model) Weights() Weights {
	w := m.w
	w.BedroomlessCategories = append([]string(nil), m.w.BedroomlessCategories...)
	return w
}

// Score оценивает, насколько объект подходит под запрос. Результат в [0,100].
// При несовпадении типа сделки возвращает 0 и пустой список причин.
func (m *Model) Score(p domain.Property, r domain.Requirement) domain.Score {
	reasons := []string{}
	if p.TransactionType != r.TransactionType {
		return domain.Score{Points: 0, Reasons: reasons}
	}

	// Caser хранит состояние, поэтому создаем свои на каждый вызов
	fold := cases.Fold()
	title := cases.Title(language.English)

	total := m.w.Transaction
	reasons = append(reasons, fmt.Sprintf("Transaction type: %s", title.String(string(r.TransactionType))))

	if sameFolded(fold, p.Category, r.Category) {
		total += m.w.Category
		reasons = append(reasons, fmt.Sprintf("Property type: %s", title.String(p.Category)))
	}

	if sameFolded(fold, p.SubType, r.SubType) {
		total += m.w.SubType
		reasons = append(reasons, fmt.Sprintf("Sub type: %s", strings.TrimSpace(p.SubType)))
	}

	points, reason := m.scorePrice(p.Price, r.Budget)
	total += points
	if reason != "" {
		reasons = append(reasons, reason)
	}

	points, reason = m.scoreArea(p.Area, r.Area)
	total += points
	if reason != "" {
		reasons = append(reasons, reason)
	}

	points, reason = m.scoreLocation(fold, p.Location, r.PreferredLocations)
	total += points
	if reason != "" {
		reasons = append(reasons, reason)
	}

	if m.hasBedrooms(fold, p.Category) {
		points, reason = m.scoreBedrooms(p.Bedrooms, r.Bedrooms)
		total += points
		if reason != "" {
			reasons = append(reasons, reason)
		}
	}

	return domain.Score{Points: clamp(total, 0, domain.MaxScore), Reasons: reasons}
}

// scorePrice: внутри бюджета от PriceFloor на границах до PriceFull в середине,
// за пределами бюджета в пределах допуска - частичный балл.
func (m *Model) scorePrice(price, budget domain.PriceRange) (int, string) {
	v := price.Midpoint()
	lo, hi := float64(budget.Min), float64(budget.Max)
	text := FormatPrice(int64(math.Round(v)))

	switch {
	case v >= lo && v <= hi:
		closeness := closenessToMid(v, lo, hi)
		points := band(m.w.PriceFloor, m.w.PriceFull, closeness)
		if closeness >= m.w.PerfectPriceCloseness {
			return points, fmt.Sprintf("Perfect price match (₹%s)", text)
		}
		return points, fmt.Sprintf("Within budget (₹%s)", text)
	case v > hi && withinTolerance(v-hi, hi, m.w.PriceTolerance):
		return m.w.PriceOverBudget, fmt.Sprintf("Slightly over budget (₹%s)", text)
	case v < lo && withinTolerance(lo-v, lo, m.w.PriceTolerance):
		return m.w.PriceUnderBudget, fmt.Sprintf("Below budget (₹%s)", text)
	}
	return 0, ""
}

func (m *Model) scoreArea(area *float64, want *domain.AreaRange) (int, string) {
	if want == nil {
		return m.w.AreaNeutral, ""
	}
	if area == nil {
		return 0, ""
	}

	a := *area
	belowMin := want.Min != nil && a < *want.Min
	aboveMax := want.Max != nil && a > *want.Max

	switch {
	case !belowMin && !aboveMax:
		points := m.w.AreaFull
		if want.Min != nil && want.Max != nil {
			points = band(m.w.AreaFloor, m.w.AreaFull, closenessToMid(a, *want.Min, *want.Max))
		}
		return points, fmt.Sprintf("Area in range (%s)", formatArea(a))
	case belowMin && withinTolerance(*want.Min-a, *want.Min, m.w.AreaTolerance),
		aboveMax && withinTolerance(a-*want.Max, *want.Max, m.w.AreaTolerance):
		return m.w.AreaNear, fmt.Sprintf("Area close to range (%s)", formatArea(a))
	}
	return 0, ""
}

func (m *Model) scoreLocation(fold cases.Caser, location string, preferred []string) (int, string) {
	prefs := make([]string, 0, len(preferred))
	for _, p := range preferred {
		if p = strings.TrimSpace(p); p != "" {
			prefs = append(prefs, fold.String(p))
		}
	}
	if len(prefs) == 0 {
		return m.w.LocationNeutral, ""
	}

	loc := strings.TrimSpace(location)
	folded := fold.String(loc)
	if folded == "" {
		return m.w.LocationFloor, ""
	}

	partial := false
	for _, p := range prefs {
		if p == folded {
			return m.w.LocationExact, fmt.Sprintf("Preferred location: %s", loc)
		}
		if strings.Contains(folded, p) || strings.Contains(p, folded) {
			partial = true
		}
	}
	if partial {
		return m.w.LocationPartial, fmt.Sprintf("Near preferred location: %s", loc)
	}
	return m.w.LocationFloor, ""
}

func (m *Model) scoreBedrooms(bedrooms *int, want *domain.BedroomRange) (int, string) {
	if want == nil || bedrooms == nil {
		return 0, ""
	}
	if want.Contains(*bedrooms) {
		return m.w.Bedrooms, fmt.Sprintf("BHK match: %d BHK", *bedrooms)
	}
	return 0, ""
}

func (m *Model) hasBedrooms(fold cases.Caser, category string) bool {
	_, skip := m.bedroomless[fold.String(strings.TrimSpace(category))]
	return !skip
}

// CandidateFilter строит грубый фильтр для каталога.
// Окна расширены на допуски, поэтому фильтр никогда не отсекает объект с ненулевым баллом по цене или площади.
func (m *Model) CandidateFilter(r domain.Requirement) domain.CandidateFilter {
	f := domain.CandidateFilter{
		TransactionType: r.TransactionType,
		Category:        strings.TrimSpace(r.Category),
		PriceMin:        int64(math.Floor(float64(r.Budget.Min) * (1 - m.w.PriceTolerance))),
		PriceMax:        int64(math.Ceil(float64(r.Budget.Max) * (1 + m.w.PriceTolerance))),
	}

	if r.Area != nil {
		if r.Area.Min != nil {
			v := *r.Area.Min * (1 - m.w.AreaTolerance)
			f.AreaMin = &v
		}
		if r.Area.Max != nil {
			v := *r.Area.Max * (1 + m.w.AreaTolerance)
			f.AreaMax = &v
		}
	}

	for _, l := range r.PreferredLocations {
		if l = strings.TrimSpace(l); l != "" {
			f.Locations = append(f.Locations, l)
		}
	}

	return f
}

// closenessToMid: 1 в середине диапазона, 0 на границах. Вырожденный диапазон дает 1.
func closenessToMid(v, lo, hi float64) float64 {
	half := (hi - lo) / 2
	if half <= 0 {
		return 1
	}
	c := 1 - math.Abs(v-(lo+half))/half
	return math.Max(0, math.Min(1, c))
}

// withinTolerance: отклонение diff от границы bound не больше доли tolerance
func withinTolerance(diff, bound, tolerance float64) bool {
	return bound > 0 && diff/bound <= tolerance
}

func band(floor, full int, closeness float64) int {
	return int(math.Round(float64(floor) + float64(full-floor)*closeness))
}

func sameFolded(fold cases.Caser, a, b string) bool {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	if a == "" || b == "" {
		return false
	}
	return fold.String(a) == fold.String(b)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
