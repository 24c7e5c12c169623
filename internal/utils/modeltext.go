package utils

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// ParseModelOutput extracts a flat slot mapping from raw model output that
// may contain:
// - Pure JSON
// - JSON wrapped in markdown code blocks (```json ... ```)
// - JSON with surrounding chatter
// - No JSON at all, just "Key: value" lines
//
// Unknown JSON keys are passed through; only string values are kept. The
// error return means neither layer produced anything usable.
func ParseModelOutput(raw string) (map[string]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("empty model output")
	}

	// Layer 1: first balanced JSON object, fences stripped
	if blob := ExtractFirstJSON(raw); blob != "" {
		var parsed map[string]any
		if err := json.Unmarshal([]byte(blob), &parsed); err == nil {
			out := make(map[string]string, len(parsed))
			for k, v := range parsed {
				s, ok := v.(string)
				if !ok {
					continue
				}
				s = strings.TrimSpace(s)
				if s != "" {
					out[strings.ToLower(strings.TrimSpace(k))] = s
				}
			}
			if len(out) > 0 {
				return out, nil
			}
		}
	}

	// Layer 2: "Key: value" lines
	if kv := parseKeyValueLines(raw); len(kv) > 0 {
		return kv, nil
	}

	return nil, fmt.Errorf("no JSON object and no key/value lines in output: %s", truncateString(raw, 100))
}

// ExtractFirstJSON returns the first balanced brace-delimited object in the
// input, or "" if none exists. Markdown code fences are skipped first.
func ExtractFirstJSON(input string) string {
	// Trim fenced code blocks: keep the first fenced section containing a brace
	if strings.Contains(input, "```") {
		cleaned := strings.ReplaceAll(input, "```json", "```")
		cleaned = strings.ReplaceAll(cleaned, "```JSON", "```")
		for _, part := range strings.Split(cleaned, "```") {
			if strings.Contains(part, "{") {
				input = part
				break
			}
		}
	}

	start := strings.Index(input, "{")
	if start < 0 {
		return ""
	}
	return extractBalancedBraces(input[start:])
}

// extractBalancedBraces extracts the first object with balanced braces,
// ignoring braces inside JSON strings.
func extractBalancedBraces(input string) string {
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
		if ch == '{' {
			if depth == 0 {
				start = i
			}
			depth++
		} else if ch == '}' {
			depth--
			if depth == 0 {
				return input[start : i+1]
			}
		}
	}

	return ""
}

// slotAliases maps case-folded key names seen in model chatter to canonical
// slot names.
var slotAliases = map[string]string{
	"intent":     "intent",
	"room":       "room",
	"building":   "building",
	"date":       "date",
	"start":      "start",
	"end":        "end",
	"booking_id": "booking_id",
	// tolerate common variants in chatter
	"booking id": "booking_id",
	"start time": "start",
	"end time":   "end",
}

var kvLineRe = regexp.MustCompile(`^\s*([A-Za-z_ ]+)\s*:\s*(.+?)\s*$`)

// parseKeyValueLines scans "Key: value" lines for recognized slot names.
func parseKeyValueLines(raw string) map[string]string {
	out := make(map[string]string)
	for _, line := range strings.Split(raw, "\n") {
		if !strings.Contains(line, ":") {
			continue
		}
		m := kvLineRe.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		key, ok := slotAliases[strings.ToLower(strings.TrimSpace(m[1]))]
		if !ok {
			continue
		}
		if val := strings.TrimSpace(m[2]); val != "" {
			out[key] = val
		}
	}
	return out
}

// truncateString truncates a string to maxLen characters
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
