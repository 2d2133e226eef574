package postgres

import (
	"fmt"
	"strings"

	"github.com/Omkar-XD/Realty-Match-System/internal/core/domain"
)

type queryBuilder struct {
	conditions []string
	args       []interface{}
	argId      int
}

func newQueryBuilder(baseConditions ...string) *queryBuilder {
	return &queryBuilder{
		argId:      1,
		conditions: append([]string(nil), baseConditions...),
		args:       make([]interface{}, 0),
	}
}

// addCondition подставляет имя поля и номер плейсхолдера в шаблон условия
func (qb *queryBuilder) addCondition(condition string, fieldName string, arg interface{}) {
	qb.conditions = append(qb.conditions, fmt.Sprintf(condition, fieldName, qb.argId))
	qb.args = append(qb.args, arg)
	qb.argId++
}

// AddNullableFloatFilter - границы диапазона, которые пропускают NULL в колонке
func (qb *queryBuilder) AddNullableFloatFilter(fieldName string, min *float64, max *float64) {
	if min != nil {
		qb.addCondition("(%[1]s IS NULL OR %[1]s >= $%[2]d)", fieldName, *min)
	}
	if max != nil {
		qb.addCondition("(%[1]s IS NULL OR %[1]s <= $%[2]d)", fieldName, *max)
	}
}

// AddRangeOverlap - диапазон [minField, maxField] пересекается с [lo, hi]
func (qb *queryBuilder) AddRangeOverlap(minField, maxField string, lo, hi int64) {
	qb.addCondition("%s >= $%d", maxField, lo)
	qb.addCondition("%s <= $%d", minField, hi)
}

// build возвращает WHERE-часть и аргументы
func (qb *queryBuilder) build() (string, []interface{}) {
	whereClause := ""
	if len(qb.conditions) > 0 {
		whereClause = "WHERE " + strings.Join(qb.conditions, " AND ")
	}
	return whereClause, qb.args
}

// transactionValues - в каталоге покупка исторически хранится как 'sale'
func transactionValues(t domain.TransactionType) []string {
	if t == domain.TransactionBuy {
		return []string{"buy", "sale"}
	}
	return []string{string(t)}
}

// likePattern экранирует спецсимволы ILIKE и оборачивает строку в %...%
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}

// applyCandidateFilter строит WHERE для грубого отбора кандидатов.
// Фильтр по локации добавляется только при pushdownLocations.
func applyCandidateFilter(f domain.CandidateFilter, pushdownLocations bool) (string, []interface{}) {
	qb := newQueryBuilder("p.status = 'available'")

	qb.addCondition("%s = ANY($%d)", "p.transaction_type", transactionValues(f.TransactionType))

	if f.Category != "" {
		qb.addCondition("lower(%s) = lower($%d)", "p.category", f.Category)
	}

	qb.AddRangeOverlap("p.price_min", "p.price_max", f.PriceMin, f.PriceMax)
	qb.AddNullableFloatFilter("p.area", f.AreaMin, f.AreaMax)

	if pushdownLocations && len(f.Locations) > 0 {
		patterns := make([]string, 0, len(f.Locations))
		for _, l := range f.Locations {
			patterns = append(patterns, likePattern(l))
		}
		qb.addCondition("%s ILIKE ANY($%d)", "p.location", patterns)
	}

	return qb.build()
}
