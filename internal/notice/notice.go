// Package notice carries operator feedback (the "snackbar" messages) from the
// attendance controller to whatever is presenting it.
package notice

import (
	"time"

	"github.com/google/uuid"
)

// Level tags how a notice should be presented.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notice is a single feedback message.
type Notice struct {
	ID       string    `json:"id"`
	Level    Level     `json:"level"`
	Workflow string    `json:"workflow"`
	Text     string    `json:"text"`
	At       time.Time `json:"at"`
}

// New stamps a notice with a fresh id.
func New(level Level, workflow, text string, at time.Time) Notice {
	return Notice{
		ID:       uuid.NewString(),
		Level:    level,
		Workflow: workflow,
		Text:     text,
		At:       at.UTC(),
	}
}
