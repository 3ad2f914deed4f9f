// Package mirror keeps an optional off-machine copy of generated content.
// Mirror failures are reported to the caller but must never block local
// success.
package mirror

import (
	"context"
	"fmt"
)

// Record is one row of generated content, keyed by the note's stable id.
type Record struct {
	NoteID     string `json:"note_id"`
	DeckName   string `json:"deck_name"`
	Front      string `json:"front"`
	AIContent  string `json:"ai_content"`
	ModelUsed  string `json:"model_used"`
	PromptUsed string `json:"prompt_used"`
}

// Mirror is the remote copy abstraction. Upsert is idempotent on NoteID.
type Mirror interface {
	Upsert(ctx context.Context, rec Record) error
	Enabled() bool
}

// Disabled is the Mirror used when no remote store is configured. Every
// operation succeeds without doing anything.
type Disabled struct{}

func (Disabled) Upsert(context.Context, Record) error { return nil }
func (Disabled) Enabled() bool                        { return false }

// Error describes a failed mirror operation.
type Error struct {
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("mirror upsert failed (%d): %s", e.Status, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("mirror: %v", e.Err)
	}
	return "mirror: " + e.Message
}

func (e *Error) Unwrap() error { return e.Err }
