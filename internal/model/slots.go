package model

// Slot names recognized by the extraction pipeline. Every stage works over
// a SlotMap keyed by these; absence of a key means "not found".
const (
	SlotIntent    = "intent"
	SlotRoom      = "room"
	SlotBuilding  = "building"
	SlotDate      = "date"
	SlotStart     = "start"
	SlotEnd       = "end"
	SlotBookingID = "booking_id"
)

// Intent values. Derived from matched keywords or an explicit model claim,
// never defaulted.
const (
	IntentBook              = "book"
	IntentCancel            = "cancel"
	IntentCheckAvailability = "check_availability"
	IntentModify            = "modify"
	IntentUnknown           = "unknown"
)

// SlotMap is the partial mapping of slot name to raw string value for one
// utterance. Values are trimmed, non-empty substrings of the utterance (or
// of a model's raw output). Each pipeline stage builds a fresh map.
type SlotMap map[string]string

// KnownSlots lists the closed set of slot names in canonical order.
var KnownSlots = []string{
	SlotIntent, SlotRoom, SlotBuilding, SlotDate, SlotStart, SlotEnd, SlotBookingID,
}

// Clone returns an independent copy of the map. Cloning a nil map yields an
// empty, non-nil map so callers can overlay onto it.
func (s SlotMap) Clone() SlotMap {
	out := make(SlotMap, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}
