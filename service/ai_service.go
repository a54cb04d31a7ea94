package service

import (
	"context"

	"github.com/tieubaoca/inkwell/types"
)

// completionRetries is how many times a failed completion call is retried
// by each client before the error propagates to the pipeline.
const completionRetries = 2

// Completer is the narrow boundary to the external inference service.
// Implementations attach any images carried by the messages as multimodal
// parts and return the model's text response.
type Completer interface {
	Complete(ctx context.Context, system string, messages []types.Message) (string, error)
}
