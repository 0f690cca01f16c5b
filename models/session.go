package models

import "time"

// Flow names a multi-step conversation a user can be inside.
type Flow string

// Step is the position within a flow.
type Step string

const (
	FlowNone        Flow = ""
	FlowReportLost  Flow = "report_lost"
	FlowReportFound Flow = "report_found"
	FlowSearch      Flow = "search"
	FlowVerifyCode  Flow = "verify_code"
)

const (
	StepAwaitingImage   Step = "awaiting_image"
	StepAwaitingDetails Step = "awaiting_details"
	StepAwaitingQuery   Step = "awaiting_query"
	StepAwaitingCode    Step = "awaiting_code"
)

// PendingAction says which resolution the verify-code flow is checking for.
type PendingAction string

const (
	ActionClaim   PendingAction = "claim"
	ActionRecover PendingAction = "recover"
)

// Session is the ephemeral conversation state for one user, stored under
// sessions/{userID}. At most one session exists per user; starting a new
// flow overwrites it wholesale.
type Session struct {
	UserID string `json:"user_id"`
	ChatID int64  `json:"chat_id"`
	Flow   Flow   `json:"flow"`
	Step   Step   `json:"step"`

	// Draft holds the fields collected so far for an in-progress report.
	DraftImageRef string `json:"draft_image_ref,omitempty"`

	// Set only during the verify-code flow.
	PendingReportID string        `json:"pending_report_id,omitempty"`
	PendingAction   PendingAction `json:"pending_action,omitempty"`

	UpdatedAt time.Time `json:"updated_at"`
}
