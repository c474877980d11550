package service

import (
	"estate/internal/model"
)

// PriceWidening is the factor applied to an upper price bound by the
// price_widened relaxation step
const PriceWidening = 1.2

// Cascade widens a filter step by step until some listings match
type Cascade struct {
	heuristic *HeuristicExtractor
}

// NewCascade creates a cascade whose final step re-runs the heuristic extractor
func NewCascade(heuristic *HeuristicExtractor) *Cascade {
	return &Cascade{heuristic: heuristic}
}

type relaxation struct {
	step   model.RelaxationStep
	filter func() (model.StructuredFilter, bool)
}

// Resolve applies filter and, when nothing matches, relaxes it in a fixed
// order. Steps whose filter is empty or repeats an earlier attempt are
// skipped. An empty, exhausted result is a valid outcome.
func (c *Cascade) Resolve(filter model.StructuredFilter, listings []model.Listing, rawQuery string) model.MatchResultSet {
	strict := Evaluate(filter, listings)
	if len(strict.Listings) > 0 {
		return model.MatchResultSet{
			Listings: strict.Listings,
			Filter:   filter,
			Step:     model.StepStrict,
			Stats:    strict.Stats,
		}
	}

	steps := []relaxation{
		{model.StepCategoryLocation, func() (model.StructuredFilter, bool) {
			return model.StructuredFilter{Category: filter.Category, Locations: filter.Locations}, true
		}},
		{model.StepCategory, func() (model.StructuredFilter, bool) {
			return model.StructuredFilter{Category: filter.Category}, true
		}},
		{model.StepPriceWidened, func() (model.StructuredFilter, bool) {
			if filter.PriceMax == nil {
				return model.StructuredFilter{}, false
			}
			return model.StructuredFilter{
				Category: filter.Category,
				PriceMin: filter.PriceMin,
				PriceMax: model.Float(*filter.PriceMax * PriceWidening),
			}, true
		}},
		{model.StepHeuristicReset, func() (model.StructuredFilter, bool) {
			if c.heuristic == nil {
				return model.StructuredFilter{}, false
			}
			return c.heuristic.Extract(rawQuery), true
		}},
	}

	tried := []model.StructuredFilter{filter}
	for _, s := range steps {
		candidate, ok := s.filter()
		if !ok || candidate.IsEmpty() || seen(tried, candidate) {
			debugf("⏭️  Skipping relaxation step %s", s.step)
			continue
		}
		tried = append(tried, candidate)

		eval := Evaluate(candidate, listings)
		debugf("🔁 Relaxation step %s matched %d listings", s.step, len(eval.Listings))
		if len(eval.Listings) > 0 {
			return model.MatchResultSet{
				Listings: eval.Listings,
				Filter:   candidate,
				Relaxed:  true,
				Step:     s.step,
				Stats:    eval.Stats,
			}
		}
	}

	return model.MatchResultSet{
		Listings: []model.Listing{},
		Filter:   filter,
		Step:     model.StepExhausted,
	}
}

func seen(tried []model.StructuredFilter, f model.StructuredFilter) bool {
	for _, t := range tried {
		if t.Equal(f) {
			return true
		}
	}
	return false
}
