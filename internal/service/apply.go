package service

import (
	"strings"
	"unicode"

	"estate/internal/model"
)

// Evaluation is the outcome of applying one filter to a snapshot
type Evaluation struct {
	Listings []model.Listing
	// Stats is set when a tier field was resolved
	Stats *model.TierStats
}

// Apply returns the listings that satisfy filter, in input order
func Apply(filter model.StructuredFilter, listings []model.Listing) []model.Listing {
	return Evaluate(filter, listings).Listings
}

// Evaluate runs the three-stage pipeline: absolute predicates, then
// statistics over the survivors, then the relative tier predicates resolved
// against those statistics. Tiers are never resolved against the whole corpus.
func Evaluate(filter model.StructuredFilter, listings []model.Listing) Evaluation {
	// Stage 1: absolute predicates
	survivors := make([]model.Listing, 0, len(listings))
	for i := range listings {
		if matchesAbsolute(&filter, &listings[i]) {
			survivors = append(survivors, listings[i])
		}
	}

	if !filter.HasTier() {
		return Evaluation{Listings: survivors}
	}

	// Stage 2: statistics over the narrowed population
	stats, priceDist, areaDist := tierStats(survivors)

	// Stage 3: relative tiers
	out := make([]model.Listing, 0, len(survivors))
	for i := range survivors {
		l := &survivors[i]
		if filter.BudgetTier != "" && !inBudgetTier(l.Price, filter.BudgetTier, priceDist) {
			continue
		}
		if filter.AreaTier != "" && !inAreaTier(l.Area, filter.AreaTier, areaDist) {
			continue
		}
		out = append(out, *l)
	}

	debugf("📊 Tier stage kept %d of %d (price median %v, area median %v)",
		len(out), len(survivors), fmtOpt(stats.PriceMedian), fmtOpt(stats.AreaMedian))
	return Evaluation{Listings: out, Stats: stats}
}

func matchesAbsolute(f *model.StructuredFilter, l *model.Listing) bool {
	if !l.Active {
		return false
	}
	if f.Category != "" && l.Category != f.Category {
		return false
	}
	if len(f.Locations) > 0 && !matchesAnyLocation(f.Locations, l) {
		return false
	}
	if !withinBounds(l.Price, f.PriceMin, f.PriceMax) {
		return false
	}
	if f.Configuration != "" && squash(l.Configuration) != squash(f.Configuration) {
		return false
	}
	if f.Furnished != "" && l.Furnished != f.Furnished {
		return false
	}
	if f.Age != "" && l.Age != f.Age {
		return false
	}
	if !withinBounds(l.Area, f.AreaMin, f.AreaMax) {
		return false
	}
	if f.ParkingRequired != nil && l.Parking != *f.ParkingRequired {
		return false
	}
	if f.LiftRequired != nil && l.Lift != *f.LiftRequired {
		return false
	}
	if len(f.Features) > 0 {
		text := strings.ToLower(l.FeatureText())
		for _, keyword := range f.Features {
			if !strings.Contains(text, strings.ToLower(strings.TrimSpace(keyword))) {
				return false
			}
		}
	}
	return true
}

func matchesAnyLocation(keywords []string, l *model.Listing) bool {
	location := strings.ToLower(l.Location)
	address := strings.ToLower(l.Address)
	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" {
			continue
		}
		if strings.Contains(location, k) || strings.Contains(address, k) {
			return true
		}
	}
	return false
}

// withinBounds checks inclusive bounds; a missing value never satisfies a bound
func withinBounds(v, lo, hi *float64) bool {
	if lo == nil && hi == nil {
		return true
	}
	if v == nil {
		return false
	}
	if lo != nil && *v < *lo {
		return false
	}
	if hi != nil && *v > *hi {
		return false
	}
	return true
}

// squash lowercases and strips whitespace so "2BHK" equals "2 bhk"
func squash(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToLower(r)
	}, s)
}
