package handler

import "docbench/internal/domain"

// Swagger type definitions for API documentation.
// These types are used by swag to generate OpenAPI documentation.

// ErrorResponseBody is the body of every error response.
type ErrorResponseBody struct {
	Error string `json:"error" example:"unknown method: ocr"`
}

// HealthResponse reports whether the files API credentials are configured.
type HealthResponse struct {
	Status   string `json:"status" example:"configured" enums:"configured,missing_credentials"`
	HasBotID bool   `json:"hasBotId" example:"true"`
	HasToken bool   `json:"hasToken" example:"true"`
}

// PassagesResponse is one page of passages.
type PassagesResponse struct {
	Passages  []domain.Passage `json:"passages"`
	NextToken string           `json:"nextToken,omitempty" example:"c2"`
}

// CompareRequest is the body of POST /api/ai-compare.
type CompareRequest struct {
	RunID        string            `json:"runId" example:"run_1767225600000_ab12cd34"`
	FileIDs      map[string]string `json:"fileIds"`
	Instructions string            `json:"instructions,omitempty" example:"Focus on table fidelity"`
}

// CompareRunRequest is the body of POST /api/history/{runId}/compare.
type CompareRunRequest struct {
	Instructions string `json:"instructions,omitempty" example:"Focus on table fidelity"`
}

// ImportResponse reports how many runs an import added or replaced.
type ImportResponse struct {
	Imported int `json:"imported" example:"3"`
}
