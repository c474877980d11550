package utils

import (
	"sort"
	"strings"
)

// featureAliases maps a canonical feature keyword to the phrasings people use for it
var featureAliases = map[string][]string{
	"parking":      {"parking", "car park", "carpark", "garage", "covered parking"},
	"gym":          {"gym", "gymnasium", "fitness", "fitness center", "fitness centre"},
	"pool":         {"swimming pool", "pool"},
	"security":     {"security", "24-hour security", "24x7 security", "gated"},
	"garden":       {"garden", "lawn", "park view"},
	"clubhouse":    {"clubhouse", "club house"},
	"power backup": {"power backup", "generator", "inverter"},
	"balcony":      {"balcony", "terrace"},
	"playground":   {"playground", "kids play area", "children's play area"},
}

// FuzzyMatchFeature reports whether the free-text feature list mentions the
// canonical keyword or one of its aliases
func FuzzyMatchFeature(keyword, featureText string) bool {
	keywordLower := strings.ToLower(strings.TrimSpace(keyword))
	textLower := strings.ToLower(featureText)

	if keywordLower == "" {
		return false
	}

	// Contains match
	if strings.Contains(textLower, keywordLower) {
		return true
	}

	for _, alias := range featureAliases[keywordLower] {
		if strings.Contains(textLower, alias) {
			return true
		}
	}

	return false
}

// NormalizeFeature folds an alias onto its canonical keyword. Unknown
// features are returned lowercased.
func NormalizeFeature(feature string) string {
	featureLower := strings.ToLower(strings.Join(strings.Fields(feature), " "))

	if _, ok := featureAliases[featureLower]; ok {
		return featureLower
	}
	for canonical, aliases := range featureAliases {
		for _, alias := range aliases {
			if featureLower == alias {
				return canonical
			}
		}
	}
	return featureLower
}

// ExtractFeatures returns the canonical keywords mentioned in text, sorted.
// Only keywords in the allow list are considered; a nil allow list means all.
func ExtractFeatures(text string, allow []string) []string {
	textLower := strings.ToLower(text)

	var found []string
	for canonical, aliases := range featureAliases {
		if allow != nil && !contains(allow, canonical) {
			continue
		}
		for _, alias := range aliases {
			if containsWord(textLower, alias) {
				found = append(found, canonical)
				break
			}
		}
	}

	sort.Strings(found)
	return found
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// containsWord matches phrase only on word boundaries so "pool" does not
// fire inside "liverpool"
func containsWord(text, phrase string) bool {
	for start := 0; ; {
		idx := strings.Index(text[start:], phrase)
		if idx < 0 {
			return false
		}
		idx += start
		end := idx + len(phrase)
		if (idx == 0 || !isWordByte(text[idx-1])) && (end == len(text) || !isWordByte(text[end])) {
			return true
		}
		start = idx + 1
	}
}

func isWordByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= '0' && b <= '9'
}
