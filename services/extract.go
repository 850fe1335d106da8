package services

import (
	"encoding/json"
	"log"
	"strings"
)

// QuestionItem is one generated question/answer pair.
type QuestionItem struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// placeholderItem is returned when nothing parseable can be recovered from
// the model output. Deliberate trade-off: the generator never returns
// nothing, at the cost of silently masking bad model output.
func placeholderItem() []QuestionItem {
	return []QuestionItem{{
		Question: "What is your experience with this technology?",
		Answer:   "Please describe your hands-on experience and key projects.",
	}}
}

// ExtractQuestionJSON recovers question/answer pairs from noisy model
// output. It tries, in order: direct parse after stripping wrapper tokens,
// the first bracket-balanced array substring, then individual brace-balanced
// objects. It never fails; the degraded flag marks the canned placeholder.
func ExtractQuestionJSON(raw string) (items []QuestionItem, degraded bool) {
	content := stripWrapperTokens(raw)

	if items, ok := parseItems(content); ok {
		return items, false
	}

	if sub := firstBalancedArray(content); sub != "" {
		if items, ok := parseItems(sub); ok {
			log.Printf("recovered question JSON from array substring")
			return items, false
		}
	}

	if items := parseBalancedObjects(content); len(items) > 0 {
		log.Printf("recovered %d question objects from noisy output", len(items))
		return items, false
	}

	log.Printf("could not extract question JSON, returning placeholder")
	return placeholderItem(), true
}

// stripWrapperTokens removes markdown fences and model sentinel tags.
func stripWrapperTokens(raw string) string {
	content := strings.TrimSpace(raw)

	// Suffix first: "</s>" contains "<s>".
	content = strings.TrimSuffix(content, "</s>")
	content = strings.TrimPrefix(content, "[<s>]")
	content = strings.TrimPrefix(content, "<s>")

	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
	}
	if strings.HasSuffix(content, "```") {
		content = strings.TrimSuffix(content, "```")
	}

	return strings.TrimSpace(content)
}

// parseItems accepts either an array of pairs or a single pair object.
func parseItems(content string) ([]QuestionItem, bool) {
	var items []QuestionItem
	if err := json.Unmarshal([]byte(content), &items); err == nil {
		return items, true
	}

	var single QuestionItem
	if err := json.Unmarshal([]byte(content), &single); err == nil && strings.HasPrefix(strings.TrimSpace(content), "{") {
		return []QuestionItem{single}, true
	}

	return nil, false
}

// firstBalancedArray returns the first top-level [...] substring, tracking
// string literals so brackets inside values do not break the balance.
func firstBalancedArray(content string) string {
	start := strings.Index(content, "[")
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(content); i++ {
		c := content[i]
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '[':
			if !inString {
				depth++
			}
		case ']':
			if !inString {
				depth--
				if depth == 0 {
					return content[start : i+1]
				}
			}
		}
	}
	return ""
}

// parseBalancedObjects scans for brace-balanced {...} substrings and parses
// each independently, keeping the ones that succeed.
func parseBalancedObjects(content string) []QuestionItem {
	var items []QuestionItem

	inString := false
	escaped := false
	depth := 0
	start := -1
	for i := 0; i < len(content); i++ {
		c := content[i]
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				if depth == 0 {
					start = i
				}
				depth++
			}
		case '}':
			if !inString && depth > 0 {
				depth--
				if depth == 0 && start >= 0 {
					var item QuestionItem
					if err := json.Unmarshal([]byte(content[start:i+1]), &item); err == nil {
						items = append(items, item)
					}
					start = -1
				}
			}
		}
	}

	return items
}
