package interfaces

import (
	"context"

	"github.com/secmon-lab/charforge/pkg/domain/model"
)

// Capturer turns a prompt into a captured character image (or its
// description). speak asks the capturer to also narrate the result.
type Capturer interface {
	Capture(ctx context.Context, prompt string, speak bool) (*model.CaptureResult, error)
}
