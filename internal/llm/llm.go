package llm

import "context"

// Client abstracts the language-model provider used for resume enrichment.
// Implementations return a best-effort JSON object string; an empty string
// with a nil error means the model produced no usable JSON.
type Client interface {
	StructuredJSON(ctx context.Context, text string) (string, error)
}

// PlaceholderClient is used when no provider is configured. Enrichment is
// best-effort, so it silently yields nothing instead of failing the parse.
type PlaceholderClient struct{}

func (PlaceholderClient) StructuredJSON(ctx context.Context, text string) (string, error) {
	_ = ctx
	_ = text
	return "", nil
}

var _ Client = PlaceholderClient{}
