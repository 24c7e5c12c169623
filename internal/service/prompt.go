package service

import "fmt"

// BuildExtractionPrompt renders the fixed extraction prompt for an utterance.
// The few-shot examples pin the model to verbatim substring extraction so the
// reconciler's literal-evidence checks stay meaningful.
func BuildExtractionPrompt(utterance string) string {
	return fmt.Sprintf(`Task: Extract fields VERBATIM from the input text.
Fields (lowercase): intent, room, building, date, start, end, booking_id.
Rules:
- COPY EXACT SUBSTRINGS from the text (do NOT normalize or paraphrase).
- If an explicit date/time is present (e.g., '11 Sept', '14:00'), PREFER it over relative terms.
- For 'X to Y' / 'X-Y' patterns, set X as "start" and Y as "end".
- Only set "booking_id" if an exact token like BK-1234 appears in the text.
- Omit any field that is absent (do not invent).
- OUTPUT ONE JSON OBJECT ONLY. No other text.

Text: Book SJT 315 tomorrow 4 to 6 pm
JSON: {"intent":"book","room":"SJT 315","date":"tomorrow","start":"4 pm","end":"6 pm"}

Text: Reserve TT 101 11 Sept 14:00 to 16:00
JSON: {"intent":"book","room":"TT 101","date":"11 Sept","start":"14:00","end":"16:00"}

Text: Cancel booking BK-2021
JSON: {"intent":"cancel","booking_id":"BK-2021"}

Text: Is LH-204 free next Friday 2pm to 3:30pm?
JSON: {"intent":"check_availability","room":"LH-204","date":"next Friday","start":"2 pm","end":"3:30 pm"}

Text: %s
JSON:
`, utterance)
}
