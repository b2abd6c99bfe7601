package logger

// Fields is an alias for map[string]interface{} for convenience.
type Fields map[string]interface{}

// Standard field keys used across the service. Tracing fields are injected
// into the request context by the API middleware and carried down the call
// chain; metric fields are attached at the call site.
const (
	// FieldRequestID is the HTTP request ID (UUID).
	FieldRequestID = "request_id"

	// FieldComponent names the emitting component (api, openrouter, apify, video).
	FieldComponent = "component"

	// FieldRenderID identifies one video render job.
	FieldRenderID = "render_id"

	// FieldStatus is the HTTP response status code.
	FieldStatus = "status"

	// FieldDurationMs is elapsed wall time in milliseconds.
	FieldDurationMs = "duration_ms"

	// FieldSize is the response body size in bytes.
	FieldSize = "size"
)
