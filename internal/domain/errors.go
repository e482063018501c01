package domain

import "errors"

// Error taxonomy for the retrieval pipeline. Callers classify failures with
// errors.Is; wrapping sites add detail with fmt.Errorf("...: %w", err).
var (
	// ErrConfiguration marks an unknown model, strategy, or collection.
	// Fatal: surfaced to the caller, never retried.
	ErrConfiguration = errors.New("configuration error")

	// ErrConnection marks a transient backend failure. Retried with a bound,
	// then degraded to an empty result rather than crashing the request.
	ErrConnection = errors.New("connection error")

	// ErrMalformedModelOutput marks language-model text that did not parse as
	// expected. Degrades to an empty filter or placeholder text.
	ErrMalformedModelOutput = errors.New("malformed model output")

	// ErrFilterEncoding marks metadata that cannot be encoded for a write.
	// Drops the one record and continues the batch.
	ErrFilterEncoding = errors.New("filter encoding error")

	// ErrNoMatch is the valid "no movie found" terminal state. Not an
	// internal failure: handlers map it to an empty, well-formed response.
	ErrNoMatch = errors.New("no matching movie")
)
