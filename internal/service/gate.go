package service

import "roomnlu/internal/model"

// confidenceThreshold is the minimum score at which lexical extraction alone
// is considered sufficient and the model extractor can be skipped.
const confidenceThreshold = 3

// ConfidenceScore counts the extracted signals: one each for intent, room
// and date, plus one each for start and end. Maximum is 5.
func ConfidenceScore(slots model.SlotMap) int {
	score := 0
	for _, key := range []string{model.SlotIntent, model.SlotRoom, model.SlotDate, model.SlotStart, model.SlotEnd} {
		if _, ok := slots[key]; ok {
			score++
		}
	}
	return score
}

// IsConfident reports whether the lexical result carries enough signal to
// bypass the model extractor. Requires either a full book/check pattern
// (intent+room+date) or a full time range plus one other signal, so an
// utterance with a single isolated token never bypasses.
func IsConfident(slots model.SlotMap) bool {
	return ConfidenceScore(slots) >= confidenceThreshold
}
