package utils

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	// ErrEmptyOutput is returned when the model produced nothing
	ErrEmptyOutput = errors.New("empty model output")
	// ErrNotObject is returned when the output is valid JSON but not an object
	ErrNotObject = errors.New("model output is not a JSON object")
)

var (
	fencedJSON  = regexp.MustCompile("(?s)```json\\s*(.+?)\\s*```")
	fencedBlock = regexp.MustCompile("(?s)```\\s*(.+?)\\s*```")
)

// ParseModelObject decodes a single JSON object from model output that may be:
// - Pure JSON
// - JSON wrapped in markdown code blocks (```json ... ```)
// - JSON with surrounding prose
//
// Malformed JSON is rejected rather than repaired, and a type mismatch against
// target is an error.
func ParseModelObject(input string, target any) error {
	input = strings.TrimSpace(strings.TrimPrefix(input, "\ufeff"))
	if input == "" {
		return ErrEmptyOutput
	}
	if strings.HasPrefix(input, "[") {
		return ErrNotObject
	}

	candidates := []string{input}
	if extracted := extractFromMarkdown(input); extracted != "" {
		candidates = append(candidates, extracted)
	}
	if start := strings.Index(input, "{"); start >= 0 {
		if extracted := extractBalancedBraces(input[start:], '{', '}'); extracted != "" {
			candidates = append(candidates, extracted)
		}
	}

	var lastErr error
	for _, c := range candidates {
		if !strings.HasPrefix(c, "{") {
			if strings.HasPrefix(c, "[") {
				lastErr = ErrNotObject
			}
			continue
		}
		dec := json.NewDecoder(bytes.NewReader([]byte(c)))
		if err := dec.Decode(target); err != nil {
			lastErr = err
			continue
		}
		return nil
	}

	if lastErr != nil {
		return fmt.Errorf("decode model output %q: %w", truncateString(input, 100), lastErr)
	}
	return fmt.Errorf("no JSON object in model output %q", truncateString(input, 100))
}

// extractFromMarkdown extracts JSON from markdown code blocks
// Supports: ```json {...} ```, ```{...}```, or ```\n{...}\n```
func extractFromMarkdown(input string) string {
	if matches := fencedJSON.FindStringSubmatch(input); len(matches) > 1 {
		return strings.TrimSpace(matches[1])
	}

	if matches := fencedBlock.FindStringSubmatch(input); len(matches) > 1 {
		content := strings.TrimSpace(matches[1])
		if strings.HasPrefix(content, "{") || strings.HasPrefix(content, "[") {
			return content
		}
	}

	return ""
}

// extractBalancedBraces extracts content with balanced braces
func extractBalancedBraces(input string, open, close rune) string {
	if len(input) == 0 {
		return ""
	}

	depth := 0
	inString := false
	escape := false
	start := 0

	for i, ch := range input {
		if escape {
			escape = false
			continue
		}

		if ch == '\\' {
			escape = true
			continue
		}

		if ch == '"' {
			inString = !inString
			continue
		}

		if inString {
			continue
		}

		if ch == open {
			if depth == 0 {
				start = i
			}
			depth++
		} else if ch == close {
			depth--
			if depth == 0 {
				return input[start : i+1]
			}
		}
	}

	return ""
}

// truncateString truncates a string to maxLen characters
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

// PrettyPrintJSON formats JSON with indentation
func PrettyPrintJSON(v any) (string, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(out), nil
}
