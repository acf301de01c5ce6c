// Package generator adapts the hosted generative model that proposes
// candidate schedules. Its output is untrusted and is re-validated by the
// caller.
package generator

import (
	"context"

	"github.com/noah-isme/unischeduler-api/internal/models"
)

// Generator produces one raw candidate per call.
type Generator interface {
	Generate(ctx context.Context, req models.GenerationRequest) (*models.RawCandidate, error)
}
