package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Omkar-XD/Realty-Match-System/internal/contextkeys"
	"github.com/Omkar-XD/Realty-Match-System/internal/core/domain"
	"github.com/Omkar-XD/Realty-Match-System/internal/core/port"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	propertyColumns = `p.id, p.owner_name, p.transaction_type, p.category, p.sub_type,
		p.price_min, p.price_max, p.area, p.bedrooms, p.location, p.status, p.created_at`

	requirementColumns = `r.id, r.enquiry_id, r.transaction_type, r.category, r.sub_type,
		r.budget_min, r.budget_max, r.area_min, r.area_max, r.bhk_min, r.bhk_max,
		r.preferred_locations, r.notes, r.status, r.created_at`
)

// CatalogAdapter читает объекты и запросы покупателей из PostgreSQL.
// Адаптер только читает: жизненным циклом записей владеют другие сервисы.
type CatalogAdapter struct {
	pool              *pgxpool.Pool
	pushdownLocations bool
}

// NewCatalogAdapter создает адаптер. pushdownLocations включает фильтр по локации на стороне БД.
func NewCatalogAdapter(pool *pgxpool.Pool, pushdownLocations bool) (*CatalogAdapter, error) {
	if pool == nil {
		return nil, fmt.Errorf("database pool is nil")
	}
	return &CatalogAdapter{pool: pool, pushdownLocations: pushdownLocations}, nil
}

func (a *CatalogAdapter) GetRequirement(ctx context.Context, id uuid.UUID) (*domain.Requirement, error) {
	repoLogger := a.methodLogger(ctx, "GetRequirement")

	query := fmt.Sprintf("SELECT %s FROM buyer_requirements r WHERE r.id = $1", requirementColumns)
	r, err := scanRequirement(a.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRequirementNotFound
		}
		logPgError(repoLogger, "Failed to get requirement", err)
		return nil, fmt.Errorf("failed to get requirement: %w", err)
	}

	return &r, nil
}

func (a *CatalogAdapter) GetProperty(ctx context.Context, id uuid.UUID) (*domain.Property, error) {
	repoLogger := a.methodLogger(ctx, "GetProperty")

	query := fmt.Sprintf("SELECT %s FROM properties p WHERE p.id = $1", propertyColumns)
	p, err := scanProperty(a.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPropertyNotFound
		}
		logPgError(repoLogger, "Failed to get property", err)
		return nil, fmt.Errorf("failed to get property: %w", err)
	}

	return &p, nil
}

func (a *CatalogAdapter) GetActiveRequirements(ctx context.Context) ([]domain.Requirement, error) {
	repoLogger := a.methodLogger(ctx, "GetActiveRequirements")

	query := fmt.Sprintf(`SELECT %s FROM buyer_requirements r
		WHERE r.status = 'active'
		ORDER BY r.created_at DESC, r.id ASC`, requirementColumns)

	rows, err := a.pool.Query(ctx, query)
	if err != nil {
		logPgError(repoLogger, "Failed to query active requirements", err)
		return nil, fmt.Errorf("failed to query active requirements: %w", err)
	}
	defer rows.Close()

	requirements := make([]domain.Requirement, 0)
	for rows.Next() {
		r, err := scanRequirement(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan requirement: %w", err)
		}
		requirements = append(requirements, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate requirements: %w", err)
	}

	repoLogger.Debug("Active requirements loaded", port.Fields{"count": len(requirements)})
	return requirements, nil
}

func (a *CatalogAdapter) FindCandidateProperties(ctx context.Context, filter domain.CandidateFilter) ([]domain.Property, error) {
	repoLogger := a.methodLogger(ctx, "FindCandidateProperties")

	whereClause, args := applyCandidateFilter(filter, a.pushdownLocations)
	query := fmt.Sprintf("SELECT %s FROM properties p %s ORDER BY p.created_at DESC, p.id ASC", propertyColumns, whereClause)

	properties, err := a.queryProperties(ctx, query, args...)
	if err != nil {
		repoLogger.Error("Failed to find candidate properties", err, port.Fields{"query": query})
		return nil, err
	}

	repoLogger.Debug("Candidate properties loaded", port.Fields{"count": len(properties)})
	return properties, nil
}

func (a *CatalogAdapter) GetAvailableProperties(ctx context.Context) ([]domain.Property, error) {
	repoLogger := a.methodLogger(ctx, "GetAvailableProperties")

	query := fmt.Sprintf(`SELECT %s FROM properties p
		WHERE p.status = 'available'
		ORDER BY p.created_at DESC, p.id ASC`, propertyColumns)

	properties, err := a.queryProperties(ctx, query)
	if err != nil {
		repoLogger.Error("Failed to get available properties", err, nil)
		return nil, err
	}
	return properties, nil
}

func (a *CatalogAdapter) queryProperties(ctx context.Context, query string, args ...interface{}) ([]domain.Property, error) {
	rows, err := a.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query properties: %w", err)
	}
	defer rows.Close()

	properties := make([]domain.Property, 0)
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan property: %w", err)
		}
		properties = append(properties, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate properties: %w", err)
	}
	return properties, nil
}

func (a *CatalogAdapter) methodLogger(ctx context.Context, method string) port.LoggerPort {
	return contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "CatalogAdapter",
		"method":    method,
	})
}

func scanProperty(row pgx.Row) (domain.Property, error) {
	var (
		p           domain.Property
		transaction string
		status      string
	)
	err := row.Scan(
		&p.ID, &p.OwnerName, &transaction, &p.Category, &p.SubType,
		&p.Price.Min, &p.Price.Max, &p.Area, &p.Bedrooms, &p.Location, &status, &p.CreatedAt,
	)
	if err != nil {
		return p, err
	}

	p.TransactionType, err = domain.ParseTransactionType(transaction)
	if err != nil {
		return p, fmt.Errorf("property %s: %w", p.ID, err)
	}
	p.Status = domain.PropertyStatus(status)
	return p, nil
}

func scanRequirement(row pgx.Row) (domain.Requirement, error) {
	var (
		r                  domain.Requirement
		transaction        string
		status             string
		areaMin, areaMax   *float64
		bedMin, bedMax     *int
		preferredLocations []string
	)
	err := row.Scan(
		&r.ID, &r.EnquiryID, &transaction, &r.Category, &r.SubType,
		&r.Budget.Min, &r.Budget.Max, &areaMin, &areaMax, &bedMin, &bedMax,
		&preferredLocations, &r.Notes, &status, &r.CreatedAt,
	)
	if err != nil {
		return r, err
	}

	r.TransactionType, err = domain.ParseTransactionType(transaction)
	if err != nil {
		return r, fmt.Errorf("requirement %s: %w", r.ID, err)
	}
	r.Status = domain.RequirementStatus(status)
	r.PreferredLocations = preferredLocations

	// Диапазон без единой границы эквивалентен отсутствию ограничения
	if areaMin != nil || areaMax != nil {
		r.Area = &domain.AreaRange{Min: areaMin, Max: areaMax}
	}
	if bedMin != nil || bedMax != nil {
		r.Bedrooms = &domain.BedroomRange{Min: bedMin, Max: bedMax}
	}
	return r, nil
}

func logPgError(logger port.LoggerPort, msg string, err error) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		logger.Error(msg, err, port.Fields{
			"pg_code":   pgErr.Code,
			"pg_detail": pgErr.Detail,
		})
		return
	}
	logger.Error(msg, err, nil)
}
