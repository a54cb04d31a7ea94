package types

import "errors"

var (
	// ErrSourceRead indicates an unreadable or corrupt input document.
	// Fatal for that document; the rasterizer never emits partial output.
	ErrSourceRead = errors.New("failed to read source document")

	// ErrInference indicates an external completion call failed after
	// its bounded retries were exhausted.
	ErrInference = errors.New("inference call failed")

	// ErrMalformedOutput indicates the model returned non-empty output
	// containing no recognizable note blocks.
	ErrMalformedOutput = errors.New("no note blocks in model output")

	// ErrPersist indicates a note artifact could not be written.
	// Fatal for that note only; the pipeline continues with the rest.
	ErrPersist = errors.New("failed to persist note")
)
