package model

import (
	"fmt"
	"slices"
	"strings"
)

// BudgetTier is a price band resolved against the candidate set
type BudgetTier string

const (
	BudgetAffordable BudgetTier = "affordable"
	BudgetModerate   BudgetTier = "moderate"
	BudgetPremium    BudgetTier = "premium"
	BudgetLuxury     BudgetTier = "luxury"
)

// Valid reports whether t is a known budget tier
func (t BudgetTier) Valid() bool {
	switch t {
	case BudgetAffordable, BudgetModerate, BudgetPremium, BudgetLuxury:
		return true
	}
	return false
}

// AreaTier is a size band resolved against the candidate set
type AreaTier string

const (
	AreaSmall  AreaTier = "small"
	AreaMedium AreaTier = "medium"
	AreaLarge  AreaTier = "large"
)

// Valid reports whether t is a known area tier
func (t AreaTier) Valid() bool {
	switch t {
	case AreaSmall, AreaMedium, AreaLarge:
		return true
	}
	return false
}

// StructuredFilter is the canonical search intent. Every field is optional.
type StructuredFilter struct {
	Category        Category        `json:"category,omitempty"`
	Locations       []string        `json:"locations,omitempty"`
	PriceMin        *float64        `json:"price_min,omitempty"`
	PriceMax        *float64        `json:"price_max,omitempty"`
	Configuration   string          `json:"configuration,omitempty"`
	Furnished       FurnishedStatus `json:"furnished_status,omitempty"`
	Age             AgeBracket      `json:"property_age,omitempty"`
	AreaMin         *float64        `json:"area_min,omitempty"`
	AreaMax         *float64        `json:"area_max,omitempty"`
	BudgetTier      BudgetTier      `json:"budget_tier,omitempty"`
	AreaTier        AreaTier        `json:"area_tier,omitempty"`
	Features        []string        `json:"features,omitempty"`
	ParkingRequired *bool           `json:"parking_required,omitempty"`
	LiftRequired    *bool           `json:"lift_required,omitempty"`
}

// IsEmpty reports whether no field is set
func (f StructuredFilter) IsEmpty() bool {
	return f.Category == "" &&
		len(f.Locations) == 0 &&
		f.PriceMin == nil && f.PriceMax == nil &&
		f.Configuration == "" &&
		f.Furnished == "" &&
		f.Age == "" &&
		f.AreaMin == nil && f.AreaMax == nil &&
		f.BudgetTier == "" && f.AreaTier == "" &&
		len(f.Features) == 0 &&
		f.ParkingRequired == nil && f.LiftRequired == nil
}

// HasTier reports whether a relative tier field is set
func (f StructuredFilter) HasTier() bool {
	return f.BudgetTier != "" || f.AreaTier != ""
}

// Validate returns the first invariant the filter breaks, or nil
func (f StructuredFilter) Validate() error {
	if f.Category != "" && !f.Category.Valid() {
		return fmt.Errorf("unknown category %q", f.Category)
	}
	if f.Furnished != "" && !f.Furnished.Valid() {
		return fmt.Errorf("unknown furnished status %q", f.Furnished)
	}
	if f.Age != "" && !f.Age.Valid() {
		return fmt.Errorf("unknown property age %q", f.Age)
	}
	if f.BudgetTier != "" && !f.BudgetTier.Valid() {
		return fmt.Errorf("unknown budget tier %q", f.BudgetTier)
	}
	if f.AreaTier != "" && !f.AreaTier.Valid() {
		return fmt.Errorf("unknown area tier %q", f.AreaTier)
	}
	bounds := []struct {
		name  string
		value *float64
	}{
		{"price_min", f.PriceMin},
		{"price_max", f.PriceMax},
		{"area_min", f.AreaMin},
		{"area_max", f.AreaMax},
	}
	for _, b := range bounds {
		if b.value != nil && *b.value < 0 {
			return fmt.Errorf("%s must not be negative", b.name)
		}
	}
	if f.PriceMin != nil && f.PriceMax != nil && *f.PriceMin > *f.PriceMax {
		return fmt.Errorf("price_min %.0f exceeds price_max %.0f", *f.PriceMin, *f.PriceMax)
	}
	if f.AreaMin != nil && f.AreaMax != nil && *f.AreaMin > *f.AreaMax {
		return fmt.Errorf("area_min %.0f exceeds area_max %.0f", *f.AreaMin, *f.AreaMax)
	}
	return nil
}

// Sanitize returns a copy with every invalid field discarded. The rest of the
// filter is kept as is.
func (f StructuredFilter) Sanitize() StructuredFilter {
	out := f.Clone()

	if out.Category != "" {
		out.Category, _ = ParseCategory(string(out.Category))
	}
	if out.Furnished != "" {
		out.Furnished, _ = ParseFurnishedStatus(string(out.Furnished))
	}
	if out.Age != "" {
		out.Age, _ = ParseAgeBracket(string(out.Age))
	}
	if !out.BudgetTier.Valid() {
		out.BudgetTier = ""
	}
	if !out.AreaTier.Valid() {
		out.AreaTier = ""
	}

	out.PriceMin, out.PriceMax = sanitizeRange(out.PriceMin, out.PriceMax)
	out.AreaMin, out.AreaMax = sanitizeRange(out.AreaMin, out.AreaMax)

	out.Configuration = strings.Join(strings.Fields(out.Configuration), " ")
	out.Locations = cleanKeywords(out.Locations)
	out.Features = cleanKeywords(out.Features)
	return out
}

func sanitizeRange(lo, hi *float64) (*float64, *float64) {
	if lo != nil && *lo < 0 {
		lo = nil
	}
	if hi != nil && *hi < 0 {
		hi = nil
	}
	if lo != nil && hi != nil && *lo > *hi {
		return nil, nil
	}
	return lo, hi
}

func cleanKeywords(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, 0, len(in))
	for _, k := range in {
		k = strings.ToLower(strings.Join(strings.Fields(k), " "))
		if k == "" || slices.Contains(out, k) {
			continue
		}
		out = append(out, k)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Clone returns a deep copy
func (f StructuredFilter) Clone() StructuredFilter {
	out := f
	out.Locations = slices.Clone(f.Locations)
	out.Features = slices.Clone(f.Features)
	out.PriceMin = cloneFloat(f.PriceMin)
	out.PriceMax = cloneFloat(f.PriceMax)
	out.AreaMin = cloneFloat(f.AreaMin)
	out.AreaMax = cloneFloat(f.AreaMax)
	out.ParkingRequired = cloneBool(f.ParkingRequired)
	out.LiftRequired = cloneBool(f.LiftRequired)
	return out
}

// Equal compares two filters by value
func (f StructuredFilter) Equal(o StructuredFilter) bool {
	return f.Category == o.Category &&
		slices.Equal(f.Locations, o.Locations) &&
		floatPtrEqual(f.PriceMin, o.PriceMin) &&
		floatPtrEqual(f.PriceMax, o.PriceMax) &&
		strings.EqualFold(f.Configuration, o.Configuration) &&
		f.Furnished == o.Furnished &&
		f.Age == o.Age &&
		floatPtrEqual(f.AreaMin, o.AreaMin) &&
		floatPtrEqual(f.AreaMax, o.AreaMax) &&
		f.BudgetTier == o.BudgetTier &&
		f.AreaTier == o.AreaTier &&
		slices.Equal(f.Features, o.Features) &&
		boolPtrEqual(f.ParkingRequired, o.ParkingRequired) &&
		boolPtrEqual(f.LiftRequired, o.LiftRequired)
}

// Merge fills every field missing from f with the value from fallback
func (f StructuredFilter) Merge(fallback StructuredFilter) StructuredFilter {
	merged := f.Clone()
	fb := fallback.Clone()

	if merged.Category == "" {
		merged.Category = fb.Category
	}
	if len(merged.Locations) == 0 {
		merged.Locations = fb.Locations
	}
	if merged.PriceMin == nil && merged.PriceMax == nil {
		merged.PriceMin, merged.PriceMax = fb.PriceMin, fb.PriceMax
	}
	if merged.Configuration == "" {
		merged.Configuration = fb.Configuration
	}
	if merged.Furnished == "" {
		merged.Furnished = fb.Furnished
	}
	if merged.Age == "" {
		merged.Age = fb.Age
	}
	if merged.AreaMin == nil && merged.AreaMax == nil {
		merged.AreaMin, merged.AreaMax = fb.AreaMin, fb.AreaMax
	}
	if merged.BudgetTier == "" {
		merged.BudgetTier = fb.BudgetTier
	}
	if merged.AreaTier == "" {
		merged.AreaTier = fb.AreaTier
	}
	if len(merged.Features) == 0 {
		merged.Features = fb.Features
	}
	if merged.ParkingRequired == nil {
		merged.ParkingRequired = fb.ParkingRequired
	}
	if merged.LiftRequired == nil {
		merged.LiftRequired = fb.LiftRequired
	}
	return merged
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneBool(v *bool) *bool {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func floatPtrEqual(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func boolPtrEqual(a, b *bool) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// Float returns a pointer to v
func Float(v float64) *float64 { return &v }

// Bool returns a pointer to v
func Bool(v bool) *bool { return &v }
