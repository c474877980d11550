package service

import (
	"cmp"
	"fmt"
	"sort"
	"strings"
	"time"

	"estate/internal/model"
	"estate/internal/utils"
)

// Match reason constants
const (
	ReasonCategoryMatch      = "Category match"
	ReasonLocationMatch      = "Location match"
	ReasonPriceMatch         = "Price within budget"
	ReasonConfigurationMatch = "Configuration match"
	ReasonFurnishedMatch     = "Furnishing match"
	ReasonAgeMatch           = "Property age match"
	ReasonAreaMatch          = "Area within range"
	ReasonParking            = "Parking available"
	ReasonLift               = "Lift available"
	ReasonNewlyListed        = "Newly listed"
	ReasonGeneralMatch       = "General match"
)

// Ranker orders result sets and explains why each listing matched
type Ranker struct {
	defaultSort model.SortCriterion
	now         func() time.Time
}

// NewRanker creates a new ranker. An unknown default falls back to newest first.
func NewRanker(defaultSort model.SortCriterion) *Ranker {
	if !defaultSort.Valid() {
		defaultSort = model.SortNewest
	}
	return &Ranker{defaultSort: defaultSort, now: time.Now}
}

// Criterion resolves the requested criterion against the default
func (r *Ranker) Criterion(requested model.SortCriterion) model.SortCriterion {
	if requested.Valid() {
		return requested
	}
	return r.defaultSort
}

// Rank returns a new slice ordered by criterion. Ties, and listings missing
// the sort field, are ordered by ID ascending; missing values sort last.
func Rank(listings []model.Listing, criterion model.SortCriterion) []model.Listing {
	out := make([]model.Listing, len(listings))
	copy(out, listings)

	var present func(l *model.Listing) bool
	var compare func(a, b *model.Listing) int
	switch criterion {
	case model.SortPriceAsc:
		present = hasPrice
		compare = func(a, b *model.Listing) int { return cmp.Compare(*a.Price, *b.Price) }
	case model.SortPriceDesc:
		present = hasPrice
		compare = func(a, b *model.Listing) int { return cmp.Compare(*b.Price, *a.Price) }
	case model.SortAreaDesc:
		present = hasArea
		compare = func(a, b *model.Listing) int { return cmp.Compare(*b.Area, *a.Area) }
	default:
		present = func(l *model.Listing) bool { return !l.CreatedAt.IsZero() }
		compare = func(a, b *model.Listing) int { return b.CreatedAt.Compare(a.CreatedAt) }
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := &out[i], &out[j]
		aok, bok := present(a), present(b)
		switch {
		case aok && !bok:
			return true
		case !aok && bok:
			return false
		case aok && bok:
			if c := compare(a, b); c != 0 {
				return c < 0
			}
		}
		return a.ID < b.ID
	})
	return out
}

func hasPrice(l *model.Listing) bool { return l.Price != nil }

func hasArea(l *model.Listing) bool { return l.Area != nil }

// Rank orders listings with the requested or default criterion
func (r *Ranker) Rank(listings []model.Listing, requested model.SortCriterion) []model.Listing {
	return Rank(listings, r.Criterion(requested))
}

// MatchedReasons generates human-readable reasons for why this listing matched
func (r *Ranker) MatchedReasons(listing *model.Listing, filter *model.StructuredFilter) []string {
	reasons := []string{}

	if filter.Category != "" && listing.Category == filter.Category {
		reasons = append(reasons, ReasonCategoryMatch)
	}

	if len(filter.Locations) > 0 && matchesAnyLocation(filter.Locations, listing) {
		reasons = append(reasons, ReasonLocationMatch)
	}

	if (filter.PriceMin != nil || filter.PriceMax != nil) && withinBounds(listing.Price, filter.PriceMin, filter.PriceMax) {
		reasons = append(reasons, ReasonPriceMatch)
	} else if filter.BudgetTier != "" {
		reasons = append(reasons, fmt.Sprintf("%s price", titleCase(string(filter.BudgetTier))))
	}

	if filter.Configuration != "" && squash(listing.Configuration) == squash(filter.Configuration) {
		reasons = append(reasons, ReasonConfigurationMatch)
	}

	if filter.Furnished != "" && listing.Furnished == filter.Furnished {
		reasons = append(reasons, ReasonFurnishedMatch)
	}

	if filter.Age != "" && listing.Age == filter.Age {
		reasons = append(reasons, ReasonAgeMatch)
	}

	if (filter.AreaMin != nil || filter.AreaMax != nil) && withinBounds(listing.Area, filter.AreaMin, filter.AreaMax) {
		reasons = append(reasons, ReasonAreaMatch)
	} else if filter.AreaTier != "" {
		reasons = append(reasons, fmt.Sprintf("%s size", titleCase(string(filter.AreaTier))))
	}

	featureText := listing.FeatureText()
	for _, feature := range filter.Features {
		if utils.FuzzyMatchFeature(feature, featureText) {
			reasons = append(reasons, fmt.Sprintf("Has %s", feature))
		}
	}

	if filter.ParkingRequired != nil && *filter.ParkingRequired && listing.Parking {
		reasons = append(reasons, ReasonParking)
	}
	if filter.LiftRequired != nil && *filter.LiftRequired && listing.Lift {
		reasons = append(reasons, ReasonLift)
	}

	// Check recency
	if !listing.CreatedAt.IsZero() && r.now().Sub(listing.CreatedAt) < 7*24*time.Hour {
		reasons = append(reasons, ReasonNewlyListed)
	}

	if len(reasons) == 0 {
		reasons = append(reasons, ReasonGeneralMatch)
	}

	return reasons
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
