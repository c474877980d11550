package model

// SortCriterion selects the result ordering
type SortCriterion string

const (
	SortPriceAsc  SortCriterion = "price_asc"
	SortPriceDesc SortCriterion = "price_desc"
	SortNewest    SortCriterion = "newest"
	SortAreaDesc  SortCriterion = "area_desc"
)

// Valid reports whether s is a known sort criterion
func (s SortCriterion) Valid() bool {
	switch s {
	case SortPriceAsc, SortPriceDesc, SortNewest, SortAreaDesc:
		return true
	}
	return false
}

// RelaxationStep names the cascade step that produced a result set
type RelaxationStep string

const (
	StepStrict           RelaxationStep = "strict"
	StepCategoryLocation RelaxationStep = "category_location"
	StepCategory         RelaxationStep = "category"
	StepPriceWidened     RelaxationStep = "price_widened"
	StepHeuristicReset   RelaxationStep = "heuristic_reset"
	StepExhausted        RelaxationStep = "exhausted"
)

// FilterSource tells which extractor produced the filter
type FilterSource string

const (
	SourceInterpreter FilterSource = "interpreter"
	SourceHeuristic   FilterSource = "heuristic"
)

// SearchRequest represents a search query request
type SearchRequest struct {
	Query   string            `json:"query"`
	Filters *StructuredFilter `json:"filters,omitempty"`
	Options *SearchOptions    `json:"options,omitempty"`
}

// SearchOptions represents search options
type SearchOptions struct {
	Limit          int           `json:"limit"`
	Offset         int           `json:"offset"`
	Sort           SortCriterion `json:"sort,omitempty"`
	UseInterpreter *bool         `json:"use_interpreter,omitempty"`
}

// TierStats holds the distribution the tier stage resolved against
type TierStats struct {
	Population  int      `json:"population"`
	PriceMedian *float64 `json:"price_median,omitempty"`
	PriceP25    *float64 `json:"price_p25,omitempty"`
	PriceP75    *float64 `json:"price_p75,omitempty"`
	AreaMedian  *float64 `json:"area_median,omitempty"`
	AreaP25     *float64 `json:"area_p25,omitempty"`
	AreaP75     *float64 `json:"area_p75,omitempty"`
}

// MatchResultSet is the outcome of one resolution. It is never persisted.
type MatchResultSet struct {
	Listings []Listing        `json:"-"`
	Filter   StructuredFilter `json:"filter"`
	Relaxed  bool             `json:"relaxed"`
	Step     RelaxationStep   `json:"step"`
	Stats    *TierStats       `json:"stats,omitempty"`
}

// SearchResponse represents a search result response
type SearchResponse struct {
	Results []ListingView    `json:"results"`
	Total   int              `json:"total"`
	Limit   int              `json:"limit"`
	Offset  int              `json:"offset"`
	HasMore bool             `json:"has_more"`
	Filter  StructuredFilter `json:"filter"`
	Source  FilterSource     `json:"source"`
	Relaxed bool             `json:"relaxed"`
	Step    RelaxationStep   `json:"step"`
	Stats   *TierStats       `json:"stats,omitempty"`
	Took    int64            `json:"took_ms"`
}

// RevealResponse carries a disclosed contact number, masked again on repeats
type RevealResponse struct {
	ListingID       int64  `json:"listing_id"`
	ContactNumber   string `json:"contact_number"`
	AlreadyRevealed bool   `json:"already_revealed"`
}
