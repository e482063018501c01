package logger

// Fields is an alias for map[string]interface{} for convenience.
type Fields map[string]interface{}

// Standard tracing fields propagated through the call chain via context.
const (
	// FieldRequestID is the HTTP request ID (UUID).
	FieldRequestID = "request_id"

	// FieldComponent is the component/module name.
	FieldComponent = "component"

	// FieldCollection is the vector store collection being addressed.
	FieldCollection = "collection"

	// FieldStrategy is the chunking strategy in use.
	FieldStrategy = "strategy"

	// FieldModel is the embedding model name.
	FieldModel = "model"
)

// Standard metric fields for aggregation.
const (
	// FieldDurationMs is the execution duration in milliseconds.
	FieldDurationMs = "duration_ms"

	// FieldCount is a generic count field.
	FieldCount = "count"

	// FieldStatus is the operation status.
	FieldStatus = "status"
)
