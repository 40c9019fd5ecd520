// Package narrative - disabled.go provides the no-op narrative fallback.
package narrative

import (
	"context"
	"errors"
)

// Disabled is the narrative adapter used when no API key is configured.
// The pipeline sees Enabled() == false and substitutes its fallback text.
type Disabled struct{}

// NewDisabled creates the no-op narrative adapter.
func NewDisabled() *Disabled {
	return &Disabled{}
}

// Enabled always reports false.
func (d *Disabled) Enabled() bool {
	return false
}

// Brief always fails; callers are expected to check Enabled first.
func (d *Disabled) Brief(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return "", errors.New("narrative service disabled")
}
