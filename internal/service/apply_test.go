package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"estate/internal/model"
)

func TestApply(t *testing.T) {
	listings := model.SeedListings()

	tests := []struct {
		name   string
		filter model.StructuredFilter
		want   []int64
	}{
		{
			name:   "empty filter keeps every active listing",
			filter: model.StructuredFilter{},
			want:   []int64{1, 2, 3, 4, 5, 6, 7, 8},
		},
		{
			name:   "category",
			filter: model.StructuredFilter{Category: model.CategoryResidentialRent},
			want:   []int64{1, 5, 7},
		},
		{
			name:   "price bounds are inclusive",
			filter: model.StructuredFilter{PriceMin: model.Float(18000), PriceMax: model.Float(25000)},
			want:   []int64{1, 5},
		},
		{
			name:   "one-sided floor",
			filter: model.StructuredFilter{PriceMin: model.Float(3_500_000)},
			want:   []int64{2, 4},
		},
		{
			name:   "configuration ignores case and spacing",
			filter: model.StructuredFilter{Configuration: "1bhk"},
			want:   []int64{5, 8},
		},
		{
			name:   "locations are alternatives",
			filter: model.StructuredFilter{Locations: []string{"bopal", "vastrapur"}},
			want:   []int64{6, 7},
		},
		{
			name:   "location matches the address too",
			filter: model.StructuredFilter{Locations: []string{"titanium"}},
			want:   []int64{3},
		},
		{
			name:   "features all required",
			filter: model.StructuredFilter{Features: []string{"gym", "parking"}},
			want:   []int64{1, 6},
		},
		{
			name:   "feature substring",
			filter: model.StructuredFilter{Features: []string{"pool"}},
			want:   []int64{2, 7},
		},
		{
			name:   "parking and lift flags",
			filter: model.StructuredFilter{ParkingRequired: model.Bool(false), LiftRequired: model.Bool(true)},
			want:   []int64{8},
		},
		{
			name:   "area bounds",
			filter: model.StructuredFilter{AreaMax: model.Float(600)},
			want:   []int64{4, 5, 8},
		},
		{
			name:   "affordable over the whole corpus",
			filter: model.StructuredFilter{BudgetTier: model.BudgetAffordable},
			want:   []int64{1, 3, 5, 7},
		},
		{
			name:   "affordable within residential rent",
			filter: model.StructuredFilter{Category: model.CategoryResidentialRent, BudgetTier: model.BudgetAffordable},
			want:   []int64{1, 5},
		},
		{
			name:   "luxury within residential sale",
			filter: model.StructuredFilter{Category: model.CategoryResidentialSell, BudgetTier: model.BudgetLuxury},
			want:   []int64{2},
		},
		{
			name:   "large within residential rent",
			filter: model.StructuredFilter{Category: model.CategoryResidentialRent, AreaTier: model.AreaLarge},
			want:   []int64{1, 7},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Apply(tt.filter, listings)))
		})
	}
}

func TestApplyIsSound(t *testing.T) {
	listings := model.SeedListings()
	filter := model.StructuredFilter{Category: model.CategoryResidentialSell, PriceMax: model.Float(3_500_000)}

	got := Apply(filter, listings)
	require.NotEmpty(t, got)
	for _, l := range got {
		assert.Equal(t, model.CategoryResidentialSell, l.Category)
		require.NotNil(t, l.Price)
		assert.LessOrEqual(t, *l.Price, 3_500_000.0)
	}

	// Completeness: everything outside the result breaks a predicate
	kept := map[int64]bool{}
	for _, l := range got {
		kept[l.ID] = true
	}
	for _, l := range listings {
		if kept[l.ID] {
			continue
		}
		fails := l.Category != model.CategoryResidentialSell || l.Price == nil || *l.Price > 3_500_000
		assert.True(t, fails, "listing %d should have matched", l.ID)
	}
}

func TestApplyExcludesMissingValues(t *testing.T) {
	listings := model.SeedListings()
	listings[0].Price = nil
	listings[1].Active = false

	got := ids(Apply(model.StructuredFilter{PriceMax: model.Float(100_000)}, listings))
	assert.Equal(t, []int64{3, 5, 7}, got)

	got = ids(Apply(model.StructuredFilter{BudgetTier: model.BudgetPremium}, listings))
	assert.NotContains(t, got, int64(1))
	assert.NotContains(t, got, int64(2))
}

func TestApplyFeaturesAreLiteralSubstrings(t *testing.T) {
	listings := []model.Listing{
		{ID: 1, Active: true, Features: "Covered garage, Lift"},
		{ID: 2, Active: true, Features: "Lift", Amenities: "Visitor PARKING"},
	}

	assert.Equal(t, []int64{2}, ids(Apply(model.StructuredFilter{Features: []string{"parking"}}, listings)))
	assert.Equal(t, []int64{1}, ids(Apply(model.StructuredFilter{Features: []string{" Garage "}}, listings)))
}

func TestEvaluateReportsStats(t *testing.T) {
	eval := Evaluate(model.StructuredFilter{BudgetTier: model.BudgetAffordable}, model.SeedListings())
	require.NotNil(t, eval.Stats)
	assert.Equal(t, 8, eval.Stats.Population)
	require.NotNil(t, eval.Stats.PriceMedian)
	assert.InDelta(t, 1_130_000, *eval.Stats.PriceMedian, 0.001)

	eval = Evaluate(model.StructuredFilter{Category: model.CategoryCommercialRent}, model.SeedListings())
	assert.Nil(t, eval.Stats)
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	listings := model.SeedListings()
	before := ids(listings)
	_ = Apply(model.StructuredFilter{BudgetTier: model.BudgetLuxury}, listings)
	assert.Equal(t, before, ids(listings))
}
