package generate

import (
	"context"

	"github.com/sashabaranov/go-openai/jsonschema"
)

// CompletionRequest is one structured-output chat completion.
type CompletionRequest struct {
	System     string
	Prompt     string
	SchemaName string
	Schema     *jsonschema.Definition
}

// Completer produces a JSON document conforming to the request schema. The
// real implementation calls OpenAI; the fixture implementation returns
// deterministic content for tests and mock runs. Completers never retry
// internally: transient failures are retried by the step runtime, terminal
// ones surface as job-level errors.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}
