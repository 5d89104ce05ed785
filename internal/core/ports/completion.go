package ports

import "context"

// CompletionRequest is one prompt sent to the completion model. When JSONMode
// is set the model is instructed to emit a single JSON object.
type CompletionRequest struct {
	System   string
	Prompt   string
	JSONMode bool
}

// CompletionResponse carries the raw model output plus the model identifier
// actually used, which is recorded in the audit trail.
type CompletionResponse struct {
	Content string
	Model   string
}

// CompletionClient abstracts the hosted language-model API. Implementations
// map transport failures to domain.ErrCompletionUnavailable.
type CompletionClient interface {
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
}
