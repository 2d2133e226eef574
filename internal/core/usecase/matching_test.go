package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Omkar-XD/Realty-Match-System/internal/core/domain"
	"github.com/Omkar-XD/Realty-Match-System/internal/core/scoring"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	idA = mustUUID("00000000-0000-0000-0000-00000000000a")
	idB = mustUUID("00000000-0000-0000-0000-00000000000b")
	idC = mustUUID("00000000-0000-0000-0000-00000000000c")
	idD = mustUUID("00000000-0000-0000-0000-00000000000d")
)

func propertyIDs(matches []domain.PropertyMatch) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, m.Property.ID)
	}
	return ids
}

func TestFindMatchesForRequirement_NotFound(t *testing.T) {
	uc := NewFindMatchesForRequirementUseCase(newFakeCatalog(), scoring.NewModel(scoring.DefaultWeights()))

	_, err := uc.Execute(context.Background(), uuid.New())

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRequirementNotFound)
	assert.True(t, domain.IsNotFound(err))
}

func TestFindMatchesForRequirement_InvalidRequirement(t *testing.T) {
	catalog := newFakeCatalog()
	r := requirement(uuid.New(), baseTime)
	r.Budget = domain.PriceRange{Min: 10, Max: 5}
	catalog.addRequirement(r)
	uc := NewFindMatchesForRequirementUseCase(catalog, scoring.NewModel(scoring.DefaultWeights()))

	_, err := uc.Execute(context.Background(), r.ID)

	assert.ErrorIs(t, err, domain.ErrInvalidRequirement)
}

func TestFindMatchesForRequirement_ScoresAndRanksCandidates(t *testing.T) {
	catalog := newFakeCatalog()
	r := requirement(uuid.New(), baseTime)
	catalog.addRequirement(r)

	perfect := property(idA, baseTime)
	farAway := property(idB, baseTime)
	farAway.Location = "Wakad"
	overBudget := property(idC, baseTime)
	overBudget.Price = domain.PriceRange{Min: 77_00_000, Max: 77_00_000}
	sold := property(idD, baseTime)
	sold.Status = domain.PropertySoldOrRented
	catalog.properties = []domain.Property{overBudget, sold, farAway, perfect}

	uc := NewFindMatchesForRequirementUseCase(catalog, scoring.NewModel(scoring.DefaultWeights()))

	result, err := uc.Execute(context.Background(), r.ID)
	require.NoError(t, err)

	assert.Equal(t, r.ID, result.Requirement.ID)
	assert.Equal(t, 3, result.TotalCount)
	require.Len(t, result.Matches, 3)
	assert.Equal(t, idA, result.Matches[0].Property.ID)
	assert.Equal(t, 100, result.Matches[0].Score)
	for i := 1; i < len(result.Matches); i++ {
		assert.GreaterOrEqual(t, result.Matches[i-1].Score, result.Matches[i].Score)
	}
	assert.NotContains(t, propertyIDs(result.Matches), idD)

	require.Len(t, catalog.filters, 1)
	assert.Equal(t, domain.TransactionBuy, catalog.filters[0].TransactionType)
	assert.Equal(t, []string{"Baner"}, catalog.filters[0].Locations)
}

func TestFindMatchesForRequirement_TieBreak(t *testing.T) {
	catalog := newFakeCatalog()
	r := requirement(uuid.New(), baseTime)
	catalog.addRequirement(r)

	older := property(idA, baseTime.Add(-time.Hour))
	newerB := property(idB, baseTime)
	newerC := property(idC, baseTime)
	best := property(idD, baseTime.Add(-48*time.Hour))
	catalog.properties = []domain.Property{older, newerC, best, newerB}

	scorer := stubScorer{byProperty: map[uuid.UUID]int{idA: 70, idB: 70, idC: 70, idD: 95}}
	uc := NewFindMatchesForRequirementUseCase(catalog, scorer)

	result, err := uc.Execute(context.Background(), r.ID)
	require.NoError(t, err)

	assert.Equal(t, []uuid.UUID{idD, idB, idC, idA}, propertyIDs(result.Matches))
}

func TestFindMatchesForRequirement_Idempotent(t *testing.T) {
	catalog := newFakeCatalog()
	r := requirement(uuid.New(), baseTime)
	catalog.addRequirement(r)
	for i := 0; i < 6; i++ {
		p := property(uuid.New(), baseTime.Add(time.Duration(i%2)*time.Minute))
		p.Price = domain.PriceRange{Min: int64(50_00_000 + i*4_00_000), Max: int64(50_00_000 + i*4_00_000)}
		catalog.properties = append(catalog.properties, p)
	}
	uc := NewFindMatchesForRequirementUseCase(catalog, scoring.NewModel(scoring.DefaultWeights()))

	first, err := uc.Execute(context.Background(), r.ID)
	require.NoError(t, err)
	second, err := uc.Execute(context.Background(), r.ID)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestFindBestMatches_ThresholdAndLimit(t *testing.T) {
	catalog := newFakeCatalog()
	r := requirement(uuid.New(), baseTime)
	catalog.addRequirement(r)
	catalog.properties = []domain.Property{
		property(idA, baseTime), property(idB, baseTime), property(idC, baseTime), property(idD, baseTime),
	}
	scorer := stubScorer{byProperty: map[uuid.UUID]int{idA: 50, idB: 90, idC: 70, idD: 80}}
	uc := NewFindBestMatchesUseCase(NewFindMatchesForRequirementUseCase(catalog, scorer))

	tests := []struct {
		name      string
		opts      domain.MatchOptions
		wantIDs   []uuid.UUID
		wantTotal int
	}{
		{"defaults", domain.MatchOptions{}, []uuid.UUID{idB, idD, idC}, 3},
		{"limit two", domain.MatchOptions{Limit: ptr(2)}, []uuid.UUID{idB, idD}, 3},
		{"threshold eighty", domain.MatchOptions{MinScore: ptr(80)}, []uuid.UUID{idB, idD}, 2},
		{"threshold is inclusive", domain.MatchOptions{MinScore: ptr(90)}, []uuid.UUID{idB}, 1},
		{"zero limit clamps to one", domain.MatchOptions{Limit: ptr(0)}, []uuid.UUID{idB}, 3},
		{"negative threshold clamps to zero", domain.MatchOptions{MinScore: ptr(-20)}, []uuid.UUID{idB, idD, idC, idA}, 4},
		{"threshold above max", domain.MatchOptions{MinScore: ptr(500)}, []uuid.UUID{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := uc.Execute(context.Background(), r.ID, tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.wantIDs, propertyIDs(result.Matches))
			assert.Equal(t, tt.wantTotal, result.TotalCount)
			for _, m := range result.Matches {
				minScore, _ := tt.opts.Resolve()
				assert.GreaterOrEqual(t, m.Score, minScore)
			}
		})
	}
}

func TestFindBestMatches_NotFound(t *testing.T) {
	uc := NewFindBestMatchesUseCase(NewFindMatchesForRequirementUseCase(newFakeCatalog(), scoring.NewModel(scoring.DefaultWeights())))

	_, err := uc.Execute(context.Background(), uuid.New(), domain.MatchOptions{})

	assert.ErrorIs(t, err, domain.ErrRequirementNotFound)
}

func TestFindMatchesForProperty(t *testing.T) {
	catalog := newFakeCatalog()
	p := property(uuid.New(), baseTime)
	catalog.properties = []domain.Property{p}

	good := requirement(idA, baseTime)
	weak := requirement(idB, baseTime)
	weak.TransactionType = domain.TransactionRent
	closed := requirement(idC, baseTime)
	closed.Status = domain.RequirementClosed
	newerGood := requirement(idD, baseTime.Add(time.Hour))
	for _, r := range []domain.Requirement{good, weak, closed, newerGood} {
		catalog.addRequirement(r)
	}

	notifier := &recordingNotifier{}
	uc := NewFindMatchesForPropertyUseCase(catalog, scoring.NewModel(scoring.DefaultWeights()), notifier)

	result, err := uc.Execute(context.Background(), p.ID, domain.MatchOptions{})
	require.NoError(t, err)

	require.Len(t, result.Matches, 2)
	assert.Equal(t, idD, result.Matches[0].Requirement.ID)
	assert.Equal(t, idA, result.Matches[1].Requirement.ID)
	assert.Equal(t, 2, result.TotalCount)

	require.Len(t, notifier.calls, 1)
	assert.Same(t, result, notifier.calls[0])
}

func TestFindMatchesForProperty_NotifierFailureIsNotFatal(t *testing.T) {
	catalog := newFakeCatalog()
	p := property(uuid.New(), baseTime)
	catalog.properties = []domain.Property{p}
	catalog.addRequirement(requirement(uuid.New(), baseTime))

	notifier := &recordingNotifier{err: errors.New("broker unavailable")}
	uc := NewFindMatchesForPropertyUseCase(catalog, scoring.NewModel(scoring.DefaultWeights()), notifier)

	result, err := uc.Execute(context.Background(), p.ID, domain.MatchOptions{})

	require.NoError(t, err)
	assert.Len(t, result.Matches, 1)
	assert.Len(t, notifier.calls, 1)
}

func TestFindMatchesForProperty_NoMatchesNoNotification(t *testing.T) {
	catalog := newFakeCatalog()
	p := property(uuid.New(), baseTime)
	p.TransactionType = domain.TransactionRent
	catalog.properties = []domain.Property{p}
	catalog.addRequirement(requirement(uuid.New(), baseTime))

	notifier := &recordingNotifier{}
	uc := NewFindMatchesForPropertyUseCase(catalog, scoring.NewModel(scoring.DefaultWeights()), notifier)

	result, err := uc.Execute(context.Background(), p.ID, domain.MatchOptions{})

	require.NoError(t, err)
	assert.Empty(t, result.Matches)
	assert.Empty(t, notifier.calls)
}

func TestFindMatchesForProperty_UnavailableProperty(t *testing.T) {
	catalog := newFakeCatalog()
	p := property(uuid.New(), baseTime)
	p.Status = domain.PropertyOnHold
	catalog.properties = []domain.Property{p}
	catalog.addRequirement(requirement(uuid.New(), baseTime))

	uc := NewFindMatchesForPropertyUseCase(catalog, scoring.NewModel(scoring.DefaultWeights()), nil)

	result, err := uc.Execute(context.Background(), p.ID, domain.MatchOptions{})

	require.NoError(t, err)
	assert.Empty(t, result.Matches)
}

func TestFindMatchesForProperty_Errors(t *testing.T) {
	catalog := newFakeCatalog()
	uc := NewFindMatchesForPropertyUseCase(catalog, scoring.NewModel(scoring.DefaultWeights()), nil)

	_, err := uc.Execute(context.Background(), uuid.New(), domain.MatchOptions{})
	assert.ErrorIs(t, err, domain.ErrPropertyNotFound)

	p := property(uuid.New(), baseTime)
	catalog.properties = []domain.Property{p}
	catalog.activeErr = errCatalogDown

	_, err = uc.Execute(context.Background(), p.ID, domain.MatchOptions{})
	assert.ErrorIs(t, err, errCatalogDown)
}

func TestCountMatchesBatch(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.properties = []domain.Property{
		property(idA, baseTime), property(idB, baseTime), property(idC, baseTime),
	}

	strict := requirement(uuid.New(), baseTime)
	strict.PreferredLocations = []string{"Wakad"}
	strict.SubType = ""
	relaxed := requirement(uuid.New(), baseTime)
	broken := uuid.New()
	missing := uuid.New()
	catalog.addRequirement(strict)
	catalog.addRequirement(relaxed)
	catalog.failOn[broken] = errCatalogDown

	uc := NewCountMatchesBatchUseCase(NewFindMatchesForRequirementUseCase(catalog, scoring.NewModel(scoring.DefaultWeights())), 2)

	ids := []uuid.UUID{relaxed.ID, broken, strict.ID, missing}
	results, err := uc.Execute(context.Background(), ids, domain.MatchOptions{MinScore: ptr(100)})
	require.NoError(t, err)

	require.Len(t, results, 4)
	for i, id := range ids {
		assert.Equal(t, id, results[i].RequirementID)
	}
	assert.Equal(t, domain.BatchMatchCount{RequirementID: relaxed.ID, Count: 3}, results[0])
	assert.Equal(t, domain.BatchMatchCount{RequirementID: broken, Failed: true}, results[1])
	// 20 + 15 + 30 + 19 + 5 + 15 = 104 -> 100, поэтому совпадения все равно проходят
	assert.Equal(t, domain.BatchMatchCount{RequirementID: strict.ID, Count: 3}, results[2])
	assert.Equal(t, domain.BatchMatchCount{RequirementID: missing, Failed: true}, results[3])
}

func TestCountMatchesBatch_CancelledContext(t *testing.T) {
	catalog := newFakeCatalog()
	r := requirement(uuid.New(), baseTime)
	catalog.addRequirement(r)

	uc := NewCountMatchesBatchUseCase(NewFindMatchesForRequirementUseCase(catalog, scoring.NewModel(scoring.DefaultWeights())), 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := uc.Execute(ctx, []uuid.UUID{r.ID}, domain.MatchOptions{})
	assert.ErrorIs(t, err, context.Canceled)
}
