package service

import (
	"github.com/montanaflynn/stats"

	"estate/internal/model"
)

// distribution is the median and quartiles of one numeric listing field
type distribution struct {
	median, p25, p75 float64
}

func describe(values []float64) (distribution, bool) {
	if len(values) == 0 {
		return distribution{}, false
	}
	data := stats.Float64Data(values)
	median, err := stats.Median(data)
	if err != nil {
		return distribution{}, false
	}
	return distribution{
		median: median,
		p25:    percentile(data, 25),
		p75:    percentile(data, 75),
	}, true
}

// percentile falls back to the nearest extreme when the sample is too small
// for the requested rank
func percentile(data stats.Float64Data, p float64) float64 {
	if v, err := stats.Percentile(data, p); err == nil {
		return v
	}
	if p < 50 {
		v, _ := stats.Min(data)
		return v
	}
	v, _ := stats.Max(data)
	return v
}

// tierStats computes price and area distributions over the given population
func tierStats(listings []model.Listing) (*model.TierStats, *distribution, *distribution) {
	var prices, areas []float64
	for i := range listings {
		if p := listings[i].Price; p != nil {
			prices = append(prices, *p)
		}
		if a := listings[i].Area; a != nil {
			areas = append(areas, *a)
		}
	}

	out := &model.TierStats{Population: len(listings)}
	var priceDist, areaDist *distribution
	if d, ok := describe(prices); ok {
		priceDist = &d
		out.PriceMedian, out.PriceP25, out.PriceP75 = model.Float(d.median), model.Float(d.p25), model.Float(d.p75)
	}
	if d, ok := describe(areas); ok {
		areaDist = &d
		out.AreaMedian, out.AreaP25, out.AreaP75 = model.Float(d.median), model.Float(d.p25), model.Float(d.p75)
	}
	return out, priceDist, areaDist
}

func inBudgetTier(price *float64, tier model.BudgetTier, d *distribution) bool {
	if price == nil || d == nil {
		return false
	}
	switch tier {
	case model.BudgetAffordable:
		return *price <= d.median
	case model.BudgetModerate:
		return *price >= d.p25 && *price <= d.p75
	case model.BudgetPremium:
		return *price >= d.median
	case model.BudgetLuxury:
		return *price >= d.p75
	}
	return false
}

func inAreaTier(area *float64, tier model.AreaTier, d *distribution) bool {
	if area == nil || d == nil {
		return false
	}
	switch tier {
	case model.AreaSmall:
		return *area <= d.median
	case model.AreaMedium:
		return *area >= d.p25 && *area <= d.p75
	case model.AreaLarge:
		return *area >= d.median
	}
	return false
}
