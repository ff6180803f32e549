package port

import (
	"context"
	"encoding/json"
)

// ExtractInput carries a prompt and the JSON schema the answer must follow.
type ExtractInput struct {
	Prompt     string
	SchemaName string
	Schema     json.RawMessage
}

// ExtractOutput is the schema-shaped answer of an LLM provider.
type ExtractOutput struct {
	Data      json.RawMessage
	ModelUsed string
}

// StructuredExtractor abstracts LLM structured extraction.
type StructuredExtractor interface {
	Extract(ctx context.Context, input ExtractInput) (*ExtractOutput, error)
}
