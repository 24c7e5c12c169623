package model

import "time"

// ParseLog is one row of the parse_logs audit table.
type ParseLog struct {
	ID             int64      `db:"id" json:"id"`
	ParseID        string     `db:"parse_id" json:"parse_id"`
	Utterance      string     `db:"utterance" json:"utterance"`
	ModelName      string     `db:"model_name" json:"model_name"`
	Template       string     `db:"template" json:"template"`
	Slots          string     `db:"slots" json:"slots"`       // JSON-encoded SlotMap
	Warnings       string     `db:"warnings" json:"warnings"` // JSON-encoded warning list
	Bypassed       bool       `db:"bypassed" json:"bypassed"`
	ResponseTimeMs int64      `db:"response_time_ms" json:"response_time_ms"`
	Verdict        *string    `db:"verdict" json:"verdict,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}
