package service

import (
	"regexp"
	"strings"

	"roomnlu/internal/model"
)

// Intent keyword sets, tested against the case-folded utterance in this
// priority order. First matching set wins; no match leaves intent unset.
// Keywords hit on whole words only, so "booking" does not read as "book"
// (otherwise "Cancel booking BK-2021" would classify as a book intent).
var intentPatterns = []struct {
	intent string
	re     *regexp.Regexp
}{
	{model.IntentBook, regexp.MustCompile(`\b(?:book|reserve|schedule)\b`)},
	{model.IntentCancel, regexp.MustCompile(`\b(?:cancel|delete)\b`)},
	{model.IntentCheckAvailability, regexp.MustCompile(`\b(?:available|free|vacant)\b`)},
}

// Slot patterns. Room codes look like "SJT 315", "TT-101" or "LH204"; dates
// fall back long-form -> numeric -> relative; time ranges accept "-", an
// en-dash, or "to" as the separator.
var (
	roomRe         = regexp.MustCompile(`\b([A-Z]{2,}-?\s?\d{2,3})\b`)
	dateLongRe     = regexp.MustCompile(`(?i)\b(\d{1,2}\s+(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Sept|Oct|Nov|Dec))\b`)
	dateNumericRe  = regexp.MustCompile(`\b(\d{1,2}[/-]\d{1,2}(?:[/-]\d{2,4})?)\b`)
	dateRelativeRe = regexp.MustCompile(`(?i)\b(today|tomorrow|day after tomorrow|next\s+\w+)\b`)
	timeRangeRe    = regexp.MustCompile(`(?i)\b((?:[01]?\d|2[0-3])(?::[0-5]\d)?\s?(?:am|pm)?)\s*(?:-|–|to)\s*((?:[01]?\d|2[0-3])(?::[0-5]\d)?\s?(?:am|pm)?)\b`)
	bookingIDRe    = regexp.MustCompile(`(?i)\b(BK-\d+)\b`)
)

// LexicalExtractor performs deterministic pattern matching over raw text.
// All slot searches are independent; a missing match omits the key entirely.
type LexicalExtractor struct{}

// NewLexicalExtractor creates a new lexical extractor
func NewLexicalExtractor() *LexicalExtractor {
	return &LexicalExtractor{}
}

// Extract finds intent, room, date, time-range and booking-id tokens in text.
// Captured values are trimmed verbatim substrings; nothing is normalized yet.
func (e *LexicalExtractor) Extract(text string) model.SlotMap {
	out := model.SlotMap{}

	lower := strings.ToLower(text)
	for _, set := range intentPatterns {
		if set.re.MatchString(lower) {
			out[model.SlotIntent] = set.intent
			break
		}
	}

	if m := roomRe.FindStringSubmatch(text); m != nil {
		out[model.SlotRoom] = strings.TrimSpace(m[1])
	}

	if d := extractDate(text); d != "" {
		out[model.SlotDate] = d
	}

	if m := timeRangeRe.FindStringSubmatch(text); m != nil {
		out[model.SlotStart] = strings.TrimSpace(m[1])
		out[model.SlotEnd] = strings.TrimSpace(m[2])
	}

	if m := bookingIDRe.FindStringSubmatch(text); m != nil {
		out[model.SlotBookingID] = strings.ToUpper(m[1])
	}

	return out
}

// extractDate tries the date patterns in fixed fallback order. Once a
// pattern matches, later ones are not tried.
func extractDate(text string) string {
	for _, re := range []*regexp.Regexp{dateLongRe, dateNumericRe, dateRelativeRe} {
		if m := re.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}
