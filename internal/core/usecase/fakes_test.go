package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Omkar-XD/Realty-Match-System/internal/core/domain"

	"github.com/google/uuid"
)

type fakeCatalog struct {
	requirements map[uuid.UUID]domain.Requirement
	properties   []domain.Property
	failOn       map[uuid.UUID]error
	activeErr    error

	mu      sync.Mutex
	filters []domain.CandidateFilter
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		requirements: map[uuid.UUID]domain.Requirement{},
		failOn:       map[uuid.UUID]error{},
	}
}

func (c *fakeCatalog) addRequirement(r domain.Requirement) {
	c.requirements[r.ID] = r
}

func (c *fakeCatalog) GetRequirement(ctx context.Context, id uuid.UUID) (*domain.Requirement, error) {
	if err := c.failOn[id]; err != nil {
		return nil, err
	}
	r, ok := c.requirements[id]
	if !ok {
		return nil, domain.ErrRequirementNotFound
	}
	return &r, nil
}

func (c *fakeCatalog) GetProperty(ctx context.Context, id uuid.UUID) (*domain.Property, error) {
	for _, p := range c.properties {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, domain.ErrPropertyNotFound
}

func (c *fakeCatalog) GetActiveRequirements(ctx context.Context) ([]domain.Requirement, error) {
	if c.activeErr != nil {
		return nil, c.activeErr
	}
	var out []domain.Requirement
	for _, r := range c.requirements {
		if r.Status == domain.RequirementActive {
			out = append(out, r)
		}
	}
	return out, nil
}

func (c *fakeCatalog) FindCandidateProperties(ctx context.Context, filter domain.CandidateFilter) ([]domain.Property, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.filters = append(c.filters, filter)
	c.mu.Unlock()
	return c.GetAvailableProperties(ctx)
}

func (c *fakeCatalog) GetAvailableProperties(ctx context.Context) ([]domain.Property, error) {
	var out []domain.Property
	for _, p := range c.properties {
		if p.IsAvailable() {
			out = append(out, p)
		}
	}
	return out, nil
}

// stubScorer выдает заранее заданные баллы по ID объекта или запроса
type stubScorer struct {
	byProperty    map[uuid.UUID]int
	byRequirement map[uuid.UUID]int
}

func (s stubScorer) Score(p domain.Property, r domain.Requirement) domain.Score {
	if v, ok := s.byProperty[p.ID]; ok {
		return domain.Score{Points: v, Reasons: []string{"stub"}}
	}
	return domain.Score{Points: s.byRequirement[r.ID], Reasons: []string{"stub"}}
}

func (s stubScorer) CandidateFilter(r domain.Requirement) domain.CandidateFilter {
	return domain.CandidateFilter{TransactionType: r.TransactionType, Category: r.Category}
}

type recordingNotifier struct {
	mu    sync.Mutex
	calls []*domain.PropertyMatches
	err   error
}

func (n *recordingNotifier) NotifyPropertyMatches(ctx context.Context, matches *domain.PropertyMatches) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, matches)
	return n.err
}

var errCatalogDown = errors.New("catalog down")

var baseTime = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

func property(id uuid.UUID, createdAt time.Time) domain.Property {
	return domain.Property{
		ID:              id,
		TransactionType: domain.TransactionBuy,
		Category:        "Residential",
		SubType:         "Flat",
		Price:           domain.PriceRange{Min: 60_00_000, Max: 60_00_000},
		Area:            ptr(1200.0),
		Bedrooms:        ptr(2),
		Location:        "Baner",
		Status:          domain.PropertyAvailable,
		CreatedAt:       createdAt,
	}
}

func requirement(id uuid.UUID, createdAt time.Time) domain.Requirement {
	return domain.Requirement{
		ID:                 id,
		EnquiryID:          uuid.New(),
		TransactionType:    domain.TransactionBuy,
		Category:           "Residential",
		SubType:            "Flat",
		Budget:             domain.PriceRange{Min: 50_00_000, Max: 70_00_000},
		Area:               &domain.AreaRange{Min: ptr(1000.0), Max: ptr(1500.0)},
		Bedrooms:           &domain.BedroomRange{Min: ptr(2), Max: ptr(2)},
		PreferredLocations: []string{"Baner"},
		Status:             domain.RequirementActive,
		CreatedAt:          createdAt,
	}
}

// mustUUID дает детерминированные ID для проверки порядка
func mustUUID(s string) uuid.UUID {
	return uuid.MustParse(s)
}
