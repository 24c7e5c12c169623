package service

import (
	"strings"

	"roomnlu/internal/model"
)

// Reconcile merges lexical findings over model findings and then applies the
// literal-evidence guards against the original text. Model values are a
// superset candidate that may include paraphrased or invented values; regex
// evidence always wins, and the guards below are re-derived from the text
// itself so they hold even for a hostile model map.
func Reconcile(originalText string, modelSlots, lexicalSlots model.SlotMap) model.SlotMap {
	merged := modelSlots.Clone()
	for k, v := range lexicalSlots {
		merged[k] = v
	}

	// booking_id must literally appear as a BK-#### token
	if m := bookingIDRe.FindStringSubmatch(originalText); m != nil {
		merged[model.SlotBookingID] = strings.ToUpper(m[1])
	} else {
		delete(merged, model.SlotBookingID)
	}

	// an explicit long-form or numeric date token overrides whatever the
	// model paraphrased ("11 Sept" must not become "next week")
	if m := dateLongRe.FindStringSubmatch(originalText); m != nil {
		merged[model.SlotDate] = strings.TrimSpace(m[1])
	} else if m := dateNumericRe.FindStringSubmatch(originalText); m != nil {
		merged[model.SlotDate] = strings.TrimSpace(m[1])
	}

	// an explicit time range overrides both endpoints
	if m := timeRangeRe.FindStringSubmatch(originalText); m != nil {
		merged[model.SlotStart] = strings.TrimSpace(m[1])
		merged[model.SlotEnd] = strings.TrimSpace(m[2])
	}

	// an explicit room token overrides; a model-only room survives only if
	// it appears verbatim in the text
	if m := roomRe.FindStringSubmatch(originalText); m != nil {
		merged[model.SlotRoom] = strings.TrimSpace(m[1])
	} else if room, ok := merged[model.SlotRoom]; ok && !strings.Contains(originalText, room) {
		delete(merged, model.SlotRoom)
	}

	return merged
}
