package entities

import "time"

// SetupOutcome is the result of a setup run.
type SetupOutcome string

const (
	SetupOutcomeCompleted SetupOutcome = "completed"
	SetupOutcomeFailed    SetupOutcome = "failed"
)

// ItemFailure is a single tolerated failure during a setup run.
type ItemFailure struct {
	// Phase is the phase that the item belonged to.
	Phase string `json:"phase" bson:"phase"`

	// Kind is the kind of item (channel, role, message).
	Kind string `json:"kind" bson:"kind"`

	// Ref is the ID or key of the item.
	Ref string `json:"ref" bson:"ref"`

	// Error is the error message.
	Error string `json:"error" bson:"error"`
}

// SetupRun is the audit record of one setup run.
type SetupRun struct {
	RunID       string        `json:"run_id" bson:"run_id"`
	GuildID     string        `json:"guild_id" bson:"guild_id"`
	RequestedBy string        `json:"requested_by" bson:"requested_by"`
	Outcome     SetupOutcome  `json:"outcome" bson:"outcome"`
	Error       string        `json:"error,omitempty" bson:"error,omitempty"`
	Failures    []ItemFailure `json:"failures" bson:"failures"`
	StartedAt   time.Time     `json:"started_at" bson:"started_at"`
	FinishedAt  time.Time     `json:"finished_at" bson:"finished_at"`
}

// TicketEvent is the audit record of a ticket state change.
type TicketEvent struct {
	GuildID   string         `json:"guild_id" bson:"guild_id"`
	ChannelID string         `json:"channel_id" bson:"channel_id"`
	UserID    string         `json:"user_id" bson:"user_id"`
	Category  TicketCategory `json:"category,omitempty" bson:"category,omitempty"`
	State     TicketState    `json:"state" bson:"state"`
	At        time.Time      `json:"at" bson:"at"`
}
