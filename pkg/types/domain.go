package types

// Model represents a model the text-generation backend can serve.
type Model struct {
	// Backend identifier, passed verbatim as the "model" field of a generate call.
	// example: qwen2.5-coder:7b
	Name string `json:"name" example:"qwen2.5-coder:7b"`
	// Size on disk in bytes, when reported.
	// example: 4683087332
	Size int64 `json:"size,omitempty" example:"4683087332"`
	// Content digest, when reported.
	Digest string `json:"digest,omitempty"`
	// Last modification time as reported by the backend (RFC 3339).
	// example: 2024-10-01T12:00:00Z
	ModifiedAt string `json:"modified_at,omitempty" example:"2024-10-01T12:00:00Z"`
	// Optional family (e.g., qwen2, llama).
	// example: qwen2
	Family string `json:"family,omitempty" example:"qwen2"`
}
