package model

// ParseRequest represents a parse request
type ParseRequest struct {
	Utterance  string `json:"utterance" binding:"required"`
	Model      string `json:"model,omitempty"`
	ForceModel bool   `json:"force_model,omitempty"`
}

// NormalizedArgs is the canonical argument object handed to the booking
// engine. Fields the pipeline cannot fill stay null; purpose/equip/capacity/
// recurrence are reserved for downstream producers.
type NormalizedArgs struct {
	RoomID     *string  `json:"room_id"`
	Date       *string  `json:"date"`
	Start      *string  `json:"start"`
	End        *string  `json:"end"`
	Purpose    *string  `json:"purpose"`
	Equip      []string `json:"equip"`
	Capacity   *int     `json:"capacity"`
	Recurrence *string  `json:"recurrence"`
}

// NewNormalizedArgs returns an empty args object with Equip initialized so
// it marshals as [] rather than null.
func NewNormalizedArgs() NormalizedArgs {
	return NormalizedArgs{Equip: []string{}}
}

// Action templates selected from the resolved intent.
const (
	TemplateBook   = "book_v1"
	TemplateCheck  = "check_v1"
	TemplateCancel = "cancel_v1"
	TemplateModify = "modify_v1"
	TemplateNoop   = "noop"
)

// Warning codes emitted by the compiler, in the order they are checked.
const (
	WarnMissingRoomID    = "missing_room_id"
	WarnMissingDate      = "missing_date"
	WarnMissingTimeRange = "missing_time_range"
	WarnInvalidTimeRange = "invalid_time_range"
)

// CompiledRequest is the final, immutable result of the pipeline.
type CompiledRequest struct {
	Template string         `json:"template"`
	Args     NormalizedArgs `json:"args"`
	Warnings []string       `json:"warnings"`
}

// ParseResponse wraps a CompiledRequest with request metadata.
type ParseResponse struct {
	ParseID  string         `json:"parse_id"`
	Template string         `json:"template"`
	Args     NormalizedArgs `json:"args"`
	Warnings []string       `json:"warnings"`
	Slots    SlotMap        `json:"slots,omitempty"`
	Bypassed bool           `json:"bypassed"`
	Took     int64          `json:"took_ms"`
}

// FeedbackRequest represents a user verdict on a previous parse
type FeedbackRequest struct {
	ParseID string `json:"parse_id" binding:"required"`
	Verdict string `json:"verdict" binding:"required"` // correct, wrong_intent, wrong_slots, wrong_values
}

// FeedbackResponse represents feedback response
type FeedbackResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
