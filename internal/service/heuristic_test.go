package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"estate/internal/model"
)

func TestHeuristicExtract(t *testing.T) {
	h := NewHeuristicExtractor()

	tests := []struct {
		name  string
		query string
		want  model.StructuredFilter
	}{
		{
			name:  "configuration with price ceiling",
			query: "1 BHK under 20000",
			want:  model.StructuredFilter{Configuration: "1 BHK", PriceMax: model.Float(20000)},
		},
		{
			name:  "rent flat with locality and k shorthand",
			query: "2 bhk flat for rent in Satellite under 30k",
			want: model.StructuredFilter{
				Category:      model.CategoryResidentialRent,
				Locations:     []string{"satellite"},
				Configuration: "2 BHK",
				PriceMax:      model.Float(30000),
			},
		},
		{
			name:  "commercial sale with lakh floor",
			query: "office for sale on SG Highway above 50 lakh",
			want: model.StructuredFilter{
				Category:      model.CategoryCommercialSell,
				Locations:     []string{"sg highway"},
				Configuration: "Office",
				PriceMin:      model.Float(5_000_000),
			},
		},
		{
			name:  "crore with decimals",
			query: "house under 1.5 crore",
			want:  model.StructuredFilter{PriceMax: model.Float(15_000_000)},
		},
		{
			name:  "between span borrows the upper unit",
			query: "between 20 and 30 lakh",
			want:  model.StructuredFilter{PriceMin: model.Float(2_000_000), PriceMax: model.Float(3_000_000)},
		},
		{
			name:  "rupee prefix and commas",
			query: "upto rs 25,000",
			want:  model.StructuredFilter{PriceMax: model.Float(25000)},
		},
		{
			name:  "area figures are not prices",
			query: "flat with area over 1000 sq ft",
			want:  model.StructuredFilter{},
		},
		{
			name:  "both verbs leave category empty",
			query: "flat for rent or sale",
			want:  model.StructuredFilter{},
		},
		{
			name:  "verb without property class leaves category empty",
			query: "something to rent",
			want:  model.StructuredFilter{},
		},
		{
			name:  "relative tiers",
			query: "luxury spacious villa",
			want:  model.StructuredFilter{BudgetTier: model.BudgetLuxury, AreaTier: model.AreaLarge},
		},
		{
			name:  "furnishing and age",
			query: "semi-furnished newly built apartment",
			want:  model.StructuredFilter{Furnished: model.FurnishedSemi, Age: model.AgeNewlyBuilt},
		},
		{
			name:  "features and lift",
			query: "home with gym, swimming pool and lift",
			want: model.StructuredFilter{
				Features:     []string{"gym", "pool"},
				LiftRequired: model.Bool(true),
			},
		},
		{
			name:  "empty query",
			query: "   ",
			want:  model.StructuredFilter{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := h.Extract(tt.query)
			assert.True(t, tt.want.Equal(got), "want %+v, got %+v", tt.want, got)
		})
	}
}

func TestHeuristicExtractIsDeterministic(t *testing.T) {
	h := NewHeuristicExtractor()
	queries := []string{
		"2 bhk flat for rent in satellite under 30k",
		"cheap shop to buy in navrangpura",
		"between 20 and 30 lakh 3 bhk in bopal with parking",
	}
	for _, q := range queries {
		first := h.Extract(q)
		for i := 0; i < 3; i++ {
			assert.True(t, first.Equal(h.Extract(q)), q)
		}
	}
}

func TestHeuristicExtraLocations(t *testing.T) {
	h := NewHeuristicExtractor("Science City", "satellite")

	got := h.Extract("2 bhk near science city or satellite")
	require.Len(t, got.Locations, 2)
	assert.ElementsMatch(t, []string{"satellite", "science city"}, got.Locations)
}

func TestHeuristicOutputIsValid(t *testing.T) {
	h := NewHeuristicExtractor()
	for _, q := range []string{
		"above 50 lakh under 10 lakh",
		"luxury cheap flat",
		"fully furnished 3bhk for rent in vastrapur",
	} {
		assert.NoError(t, h.Extract(q).Validate(), q)
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		number, unit string
		want         *float64
	}{
		{"20000", "", model.Float(20000)},
		{"30", "k", model.Float(30000)},
		{"45", "lakh", model.Float(4_500_000)},
		{"45", "lacs", model.Float(4_500_000)},
		{"2", "cr", model.Float(20_000_000)},
		{"1,25,000", "", model.Float(125000)},
		{"0", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.number+tt.unit, func(t *testing.T) {
			got := parseAmount(tt.number, tt.unit)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.InDelta(t, *tt.want, *got, 0.001)
		})
	}
}
