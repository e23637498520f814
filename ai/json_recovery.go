package ai

import (
	"encoding/json"
	"log"
	"regexp"
	"strconv"
	"strings"
)

// LLM responses are not guaranteed well-formed JSON. Recovery runs three
// escalating stages and stops at the first success:
//
//  1. clean the text (fences, comments, trailing commas) and parse directly
//  2. scan for balanced {...} blocks and parse each candidate
//  3. regex out individual known fields from the raw text
//
// All stages are pure and must never panic; total failure returns ok=false.

var (
	// A // comment marker must not be immediately preceded by a colon,
	// otherwise https:// inside URL values would be eaten.
	lineCommentRe = regexp.MustCompile(`(?m)(^|[^:])//[^\n]*`)
	trailingComma = regexp.MustCompile(`,\s*([}\]])`)
	fieldPatterns = map[string]*regexp.Regexp{
		"status":        regexp.MustCompile(`"status"\s*:\s*"([^"]+)"`),
		"item_year":     regexp.MustCompile(`"item_year"\s*:\s*"?(\d{4})"?`),
		"item_year_to":  regexp.MustCompile(`"item_year_to"\s*:\s*"?(\d{4})"?`),
		"reference_url": regexp.MustCompile(`"reference_url"\s*:\s*"([^"]+)"`),
		"image_url":     regexp.MustCompile(`"image_url"\s*:\s*"([^"]+)"`),
		"group":         regexp.MustCompile(`"group"\s*:\s*"([^"]*)"`),
		"description":   regexp.MustCompile(`"description"\s*:\s*"((?:[^"\\]|\\.)*)"`),
	}
)

// ExtractJSON recovers a JSON object mapping from raw LLM response text.
// Returns ok=false when nothing extractable was found.
func ExtractJSON(raw string) (map[string]interface{}, bool) {
	if strings.TrimSpace(raw) == "" {
		return nil, false
	}

	cleaned := cleanResponseText(raw)

	// Stage 1: direct parse of the cleaned text
	var direct map[string]interface{}
	if err := json.Unmarshal([]byte(cleaned), &direct); err == nil {
		return direct, true
	}

	// Stage 2: parse each maximal balanced {...} block independently
	for _, block := range balancedBlocks(cleaned) {
		candidate := trailingComma.ReplaceAllString(block, "$1")
		var parsed map[string]interface{}
		if err := json.Unmarshal([]byte(candidate), &parsed); err == nil {
			log.Printf("[JSONRecovery] Recovered object from embedded block (%d bytes)", len(block))
			return parsed, true
		}
	}

	// Stage 3: manual field extraction against the raw text
	if fields, ok := extractFields(raw); ok {
		log.Printf("[JSONRecovery] Recovered %d fields via regex fallback", len(fields))
		return fields, true
	}

	return nil, false
}

// cleanResponseText strips markdown fences, line comments and trailing
// commas so a sloppy-but-close response parses on the first attempt
func cleanResponseText(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
	}
	content = strings.TrimSuffix(strings.TrimSpace(content), "```")
	content = strings.TrimSpace(content)

	content = lineCommentRe.ReplaceAllString(content, "$1")
	content = trailingComma.ReplaceAllString(content, "$1")

	return strings.TrimSpace(content)
}

// balancedBlocks returns every maximal balanced {...} span in the text.
// Braces inside string literals are ignored.
func balancedBlocks(text string) []string {
	var blocks []string
	depth := 0
	start := -1
	inString := false
	escaped := false

	for i, ch := range text {
		if escaped {
			escaped = false
			continue
		}
		switch ch {
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
					blocks = append(blocks, text[start:i+1])
					start = -1
				}
			}
		}
	}
	return blocks
}

// extractFields applies one fixed pattern per known field against the raw
// text. Succeeds only when a status value was found.
func extractFields(raw string) (map[string]interface{}, bool) {
	fields := make(map[string]interface{})

	for name, pattern := range fieldPatterns {
		match := pattern.FindStringSubmatch(raw)
		if match == nil {
			continue
		}
		value := match[1]
		switch name {
		case "item_year", "item_year_to":
			if year, err := strconv.Atoi(value); err == nil {
				fields[name] = float64(year)
			}
		case "description":
			if unescaped, err := strconv.Unquote(`"` + value + `"`); err == nil {
				fields[name] = unescaped
			} else {
				fields[name] = value
			}
		default:
			fields[name] = value
		}
	}

	if _, ok := fields["status"]; !ok {
		return nil, false
	}
	return fields, true
}
