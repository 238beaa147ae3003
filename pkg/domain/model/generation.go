package model

import (
	"time"

	"github.com/google/uuid"
)

// GenerationID identifies one generate request
type GenerationID string

// NewGenerationID returns a time ordered identifier
func NewGenerationID() GenerationID {
	return GenerationID(uuid.Must(uuid.NewV7()).String())
}

// CaptureResult is what a capturer produced for a prompt
type CaptureResult struct {
	Output string
}

// Generation is the outcome of rendering and capturing the current selection.
// When Captured is false the caller shows Prompt to the user instead.
type Generation struct {
	ID        GenerationID `json:"id"`
	Prompt    string       `json:"prompt"`
	Speak     bool         `json:"speak"`
	Captured  bool         `json:"captured"`
	Output    string       `json:"output,omitempty"`
	Reason    string       `json:"reason,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}
