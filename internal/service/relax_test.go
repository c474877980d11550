package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"estate/internal/model"
)

func TestCascadeResolve(t *testing.T) {
	cascade := NewCascade(NewHeuristicExtractor())
	listings := model.SeedListings()

	tests := []struct {
		name        string
		filter      model.StructuredFilter
		query       string
		wantIDs     []int64
		wantStep    model.RelaxationStep
		wantRelaxed bool
	}{
		{
			name:     "strict match passes through",
			filter:   model.StructuredFilter{Configuration: "1 BHK", PriceMax: model.Float(20000)},
			query:    "1 BHK under 20000",
			wantIDs:  []int64{5},
			wantStep: model.StepStrict,
		},
		{
			name: "falls back to category and location",
			filter: model.StructuredFilter{
				Category:      model.CategoryResidentialRent,
				Locations:     []string{"maninagar"},
				Configuration: "3 BHK",
			},
			wantIDs:     []int64{5},
			wantStep:    model.StepCategoryLocation,
			wantRelaxed: true,
		},
		{
			name: "falls back to category alone",
			filter: model.StructuredFilter{
				Category:  model.CategoryCommercialRent,
				Locations: []string{"bopal"},
			},
			wantIDs:     []int64{3},
			wantStep:    model.StepCategory,
			wantRelaxed: true,
		},
		{
			name: "widens the price ceiling",
			filter: model.StructuredFilter{
				PriceMax: model.Float(16000),
			},
			wantIDs:     []int64{5},
			wantStep:    model.StepPriceWidened,
			wantRelaxed: true,
		},
		{
			name:        "resets to the heuristic reading of the query",
			filter:      model.StructuredFilter{Configuration: "4 BHK"},
			query:       "flat in vastrapur",
			wantIDs:     []int64{7},
			wantStep:    model.StepHeuristicReset,
			wantRelaxed: true,
		},
		{
			name:     "exhausted",
			filter:   model.StructuredFilter{Configuration: "5 BHK"},
			query:    "5 BHK",
			wantIDs:  []int64{},
			wantStep: model.StepExhausted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cascade.Resolve(tt.filter, listings, tt.query)
			assert.Equal(t, tt.wantIDs, ids(got.Listings))
			assert.Equal(t, tt.wantStep, got.Step)
			assert.Equal(t, tt.wantRelaxed, got.Relaxed)
		})
	}
}

func TestCascadeExhaustedKeepsOriginalFilter(t *testing.T) {
	cascade := NewCascade(NewHeuristicExtractor())
	filter := model.StructuredFilter{Configuration: "5 BHK"}

	got := cascade.Resolve(filter, model.SeedListings(), "5 BHK")
	require.NotNil(t, got.Listings)
	assert.Empty(t, got.Listings)
	assert.True(t, filter.Equal(got.Filter))
	assert.False(t, got.Relaxed)
}

func TestCascadeReportsRelaxedFilter(t *testing.T) {
	cascade := NewCascade(nil)
	filter := model.StructuredFilter{
		Category:  model.CategoryResidentialSell,
		Locations: []string{"cg road"},
		PriceMin:  model.Float(1_000_000),
		PriceMax:  model.Float(2_000_000),
		Furnished: model.Unfurnished,
	}

	got := cascade.Resolve(filter, model.SeedListings(), "")
	assert.Equal(t, model.StepCategory, got.Step)
	assert.Equal(t, model.StructuredFilter{Category: model.CategoryResidentialSell}, got.Filter)
	assert.Equal(t, []int64{2, 6, 8}, ids(got.Listings))
}

func TestCascadeEmptyCorpus(t *testing.T) {
	cascade := NewCascade(NewHeuristicExtractor())
	got := cascade.Resolve(model.StructuredFilter{}, []model.Listing{}, "")
	assert.Equal(t, model.StepExhausted, got.Step)
	assert.Empty(t, got.Listings)
}
