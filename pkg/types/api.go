package types

// EditRequest is the payload accepted by POST /edit.
type EditRequest struct {
	// Full markup of the page being edited. Required.
	// example: <!DOCTYPE html><html><body><h1>Acme</h1></body></html>
	ExistingCode string `json:"existingCode" example:"<!DOCTYPE html><html><body><h1>Acme</h1></body></html>"`
	// Natural-language edit instructions. Required.
	// example: Make the heading blue and add a contact section.
	Instructions string `json:"instructions" example:"Make the heading blue and add a contact section."`
	// Optional model identifier. If empty, the server default is used.
	// example: qwen2.5-coder:7b
	Model string `json:"model,omitempty" example:"qwen2.5-coder:7b"`
}

// ModelsResponse wraps the list of models returned by GET /models.
type ModelsResponse struct {
	// Models advertised by the text-generation backend.
	Models []Model `json:"models"`
	// Model used when a request does not name one.
	// example: qwen2.5-coder:7b
	DefaultModel string `json:"default_model" example:"qwen2.5-coder:7b"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: invalid JSON body
	Detail string `json:"detail" example:"invalid JSON body"`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
}
