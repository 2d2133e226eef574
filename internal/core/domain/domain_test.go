package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func TestParseTransactionType(t *testing.T) {
	for in, want := range map[string]TransactionType{
		"buy":   TransactionBuy,
		" Sale": TransactionBuy,
		"SELL":  TransactionBuy,
		"rent":  TransactionRent,
	} {
		got, err := ParseTransactionType(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseTransactionType("lease")
	assert.Error(t, err)
}

func TestRequirementValidate(t *testing.T) {
	valid := Requirement{
		TransactionType: TransactionBuy,
		Budget:          PriceRange{Min: 100, Max: 200},
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(r *Requirement)
	}{
		{"unknown transaction", func(r *Requirement) { r.TransactionType = "lease" }},
		{"inverted budget", func(r *Requirement) { r.Budget = PriceRange{Min: 300, Max: 200} }},
		{"negative budget", func(r *Requirement) { r.Budget = PriceRange{Min: -1, Max: 200} }},
		{"empty area range", func(r *Requirement) { r.Area = &AreaRange{} }},
		{"inverted area", func(r *Requirement) { r.Area = &AreaRange{Min: floatPtr(2000), Max: floatPtr(1000)} }},
		{"empty bedroom range", func(r *Requirement) { r.Bedrooms = &BedroomRange{} }},
		{"inverted bedrooms", func(r *Requirement) { r.Bedrooms = &BedroomRange{Min: intPtr(3), Max: intPtr(2)} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := valid
			tt.mutate(&r)
			err := r.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidRequirement)
		})
	}
}

func TestBedroomRangeContains(t *testing.T) {
	r := BedroomRange{Min: intPtr(2), Max: intPtr(3)}
	assert.False(t, r.Contains(1))
	assert.True(t, r.Contains(2))
	assert.True(t, r.Contains(3))
	assert.False(t, r.Contains(4))

	open := BedroomRange{Min: intPtr(2)}
	assert.True(t, open.Contains(10))
}

func TestMatchOptionsResolve(t *testing.T) {
	tests := []struct {
		name         string
		opts         MatchOptions
		wantMinScore int
		wantLimit    int
	}{
		{"defaults", MatchOptions{}, 60, 10},
		{"explicit", MatchOptions{MinScore: intPtr(75), Limit: intPtr(3)}, 75, 3},
		{"negative min score", MatchOptions{MinScore: intPtr(-10)}, 0, 10},
		{"min score above max", MatchOptions{MinScore: intPtr(150)}, 100, 10},
		{"zero limit", MatchOptions{Limit: intPtr(0)}, 60, 1},
		{"huge limit", MatchOptions{Limit: intPtr(5000)}, 60, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			minScore, limit := tt.opts.Resolve()
			assert.Equal(t, tt.wantMinScore, minScore)
			assert.Equal(t, tt.wantLimit, limit)
		})
	}
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(fmt.Errorf("catalog: %w", ErrRequirementNotFound)))
	assert.True(t, IsNotFound(ErrPropertyNotFound))
	assert.False(t, IsNotFound(ErrInvalidRequirement))
	assert.False(t, IsNotFound(errors.New("boom")))
}
