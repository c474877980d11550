package service

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"estate/internal/model"
	"estate/internal/utils"
)

// DefaultLocations is the built-in gazetteer of Ahmedabad localities
var DefaultLocations = []string{
	"CG Road", "Satellite", "Maninagar", "Bopal", "Vastrapur", "Prahlad Nagar",
	"SG Highway", "Navrangpura", "Chandkheda", "Thaltej", "Bodakdev",
	"Ashram Road", "Gota", "Naranpura", "Paldi",
}

var (
	rentCue        = regexp.MustCompile(`\b(rent|rental|renting|lease|leasing|tenant)\b`)
	sellCue        = regexp.MustCompile(`\b(sale|sell|selling|buy|buying|purchase|resale)\b`)
	residentialCue = regexp.MustCompile(`\b(residential|flat|flats|apartment|apartments|house|home|villa|bungalow|bhk|duplex|penthouse)\b|\d\s*bhk\b`)
	commercialCue  = regexp.MustCompile(`\b(commercial|office|offices|shop|shops|showroom|warehouse|godown)\b`)

	bhkCue    = regexp.MustCompile(`\b(\d+)\s*-?\s*bhk\b`)
	officeCue = regexp.MustCompile(`\boffices?\b`)
	shopCue   = regexp.MustCompile(`\bshops?\b`)

	luxuryCue     = regexp.MustCompile(`\b(luxury|luxurious|premium|high-end|high end|upscale)\b`)
	affordableCue = regexp.MustCompile(`\b(affordable|cheap|cheapest|budget|low-cost|low cost|inexpensive)\b`)
	moderateCue   = regexp.MustCompile(`\b(mid-range|mid range|moderate|moderately priced)\b`)

	largeCue = regexp.MustCompile(`\b(spacious|large|big|huge|roomy)\b`)
	smallCue = regexp.MustCompile(`\b(compact|small|cozy|cosy|tiny)\b`)

	liftCue            = regexp.MustCompile(`\b(lift|lifts|elevator|elevators)\b`)
	parkingRequiredCue = regexp.MustCompile(`\b(parking (is )?(required|mandatory|must)|must have parking|need parking|needs parking)\b`)

	semiFurnishedCue  = regexp.MustCompile(`\bsemi[\s-]?furnished\b`)
	unfurnishedCue    = regexp.MustCompile(`\b(unfurnished|un-furnished|not furnished|without furniture)\b`)
	fullyFurnishedCue = regexp.MustCompile(`\b(fully[\s-]?furnished|full furnished)\b`)

	underConstructionCue = regexp.MustCompile(`\b(under[\s-]construction|upcoming project)\b`)
	newlyBuiltCue        = regexp.MustCompile(`\b(newly[\s-]built|brand[\s-]new|new construction)\b`)

	amount       = `(?:rs\.?\s*|inr\s*|₹\s*)?(\d[\d,]*(?:\.\d+)?)\s*(lakhs?|lacs?|lac|crores?|cr|k)?\b`
	priceMaxCue  = regexp.MustCompile(`\b(?:under|below|less than|within|up to|upto|max|maximum|not more than)\s+` + amount)
	priceMinCue  = regexp.MustCompile(`\b(?:above|over|more than|min|minimum|at least|starting)\s+` + amount)
	priceSpanCue = regexp.MustCompile(`\bbetween\s+` + amount + `\s+(?:and|to|-)\s+` + amount)

	// amounts followed by one of these are sizes or durations, not prices
	nonPriceSuffix = regexp.MustCompile(`^\s*(sq|square|ft|feet|km|kms|m\b|bhk|years?|yrs?|months?|mins?|minutes?|floors?)`)
)

// HeuristicExtractor translates free text into a StructuredFilter with fixed
// keyword and pattern rules. It never fails and holds no mutable state.
type HeuristicExtractor struct {
	locations []gazetteerEntry
}

type gazetteerEntry struct {
	keyword string
	pattern *regexp.Regexp
}

// NewHeuristicExtractor builds an extractor over the default gazetteer plus extra localities
func NewHeuristicExtractor(extraLocations ...string) *HeuristicExtractor {
	h := &HeuristicExtractor{}
	seen := map[string]bool{}
	for _, loc := range append(append([]string{}, DefaultLocations...), extraLocations...) {
		keyword := strings.ToLower(strings.Join(strings.Fields(loc), " "))
		if keyword == "" || seen[keyword] {
			continue
		}
		seen[keyword] = true
		h.locations = append(h.locations, gazetteerEntry{
			keyword: keyword,
			pattern: regexp.MustCompile(`\b` + regexp.QuoteMeta(keyword) + `\b`),
		})
	}
	return h
}

// Extract scans the query for cues. Fields without a cue stay empty.
func (h *HeuristicExtractor) Extract(query string) model.StructuredFilter {
	q := strings.ToLower(strings.Join(strings.Fields(query), " "))
	var f model.StructuredFilter
	if q == "" {
		return f
	}

	f.Category = extractCategory(q)
	f.Configuration = extractConfiguration(q)

	for _, loc := range h.locations {
		if loc.pattern.MatchString(q) {
			f.Locations = append(f.Locations, loc.keyword)
		}
	}

	switch {
	case luxuryCue.MatchString(q):
		f.BudgetTier = model.BudgetLuxury
	case moderateCue.MatchString(q):
		f.BudgetTier = model.BudgetModerate
	case affordableCue.MatchString(q):
		f.BudgetTier = model.BudgetAffordable
	}

	switch {
	case largeCue.MatchString(q):
		f.AreaTier = model.AreaLarge
	case smallCue.MatchString(q):
		f.AreaTier = model.AreaSmall
	}

	f.Features = utils.ExtractFeatures(q, nil)
	if liftCue.MatchString(q) {
		f.LiftRequired = model.Bool(true)
	}
	if parkingRequiredCue.MatchString(q) {
		f.ParkingRequired = model.Bool(true)
	}

	switch {
	case semiFurnishedCue.MatchString(q):
		f.Furnished = model.FurnishedSemi
	case unfurnishedCue.MatchString(q):
		f.Furnished = model.Unfurnished
	case fullyFurnishedCue.MatchString(q):
		f.Furnished = model.FurnishedFully
	}

	switch {
	case underConstructionCue.MatchString(q):
		f.Age = model.AgeUnderConstruction
	case newlyBuiltCue.MatchString(q):
		f.Age = model.AgeNewlyBuilt
	}

	f.PriceMin, f.PriceMax = extractPriceBounds(q)

	return f.Sanitize()
}

func extractCategory(q string) model.Category {
	rent := rentCue.MatchString(q)
	sell := sellCue.MatchString(q)
	if rent == sell {
		// no verb, or both verbs: ambiguous
		return ""
	}

	residential := residentialCue.MatchString(q)
	commercial := commercialCue.MatchString(q)
	if residential == commercial {
		return ""
	}

	switch {
	case rent && residential:
		return model.CategoryResidentialRent
	case rent && commercial:
		return model.CategoryCommercialRent
	case sell && residential:
		return model.CategoryResidentialSell
	default:
		return model.CategoryCommercialSell
	}
}

func extractConfiguration(q string) string {
	if m := bhkCue.FindStringSubmatch(q); m != nil {
		n, err := strconv.Atoi(m[1])
		if err == nil && n > 0 {
			return fmt.Sprintf("%d BHK", n)
		}
	}
	if officeCue.MatchString(q) {
		return "Office"
	}
	if shopCue.MatchString(q) {
		return "Shop"
	}
	return ""
}

func extractPriceBounds(q string) (lo, hi *float64) {
	if m := findPriceCue(priceSpanCue, q); m != nil {
		lo = parseAmount(m[1], m[2])
		hi = parseAmount(m[3], m[4])
		// "between 20 and 30 lakh" carries the unit on the upper amount only
		if lo != nil && hi != nil && m[2] == "" && m[4] != "" {
			lo = parseAmount(m[1], m[4])
		}
		return lo, hi
	}
	if m := findPriceCue(priceMaxCue, q); m != nil {
		hi = parseAmount(m[1], m[2])
	}
	if m := findPriceCue(priceMinCue, q); m != nil {
		lo = parseAmount(m[1], m[2])
	}
	return lo, hi
}

// findPriceCue returns the submatches of the first cue that is really a price
func findPriceCue(re *regexp.Regexp, q string) []string {
	for _, idx := range re.FindAllStringSubmatchIndex(q, -1) {
		if nonPriceSuffix.MatchString(q[idx[1]:]) {
			continue
		}
		m := make([]string, len(idx)/2)
		for i := range m {
			if idx[2*i] >= 0 {
				m[i] = q[idx[2*i]:idx[2*i+1]]
			}
		}
		return m
	}
	return nil
}

// parseAmount resolves Indian numbering shorthand into an absolute amount
func parseAmount(number, unit string) *float64 {
	v, err := strconv.ParseFloat(strings.ReplaceAll(number, ",", ""), 64)
	if err != nil || v <= 0 {
		return nil
	}
	switch {
	case strings.HasPrefix(unit, "la"):
		v *= 100_000
	case strings.HasPrefix(unit, "cr"):
		v *= 10_000_000
	case unit == "k":
		v *= 1_000
	}
	return model.Float(v)
}
