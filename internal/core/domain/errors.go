package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors, which are wrapped with them.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown document format or provider.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// Pipeline Errors.

	// ErrDocumentNotFound indicates the document path does not exist.
	ErrDocumentNotFound = errors.New("document not found")

	// ErrEmptyDocument indicates the document yielded no extractable text.
	// A scanned PDF without OCR is the usual cause.
	ErrEmptyDocument = errors.New("document contains no extractable text")

	// ErrDimensionMismatch indicates a vector does not match the
	// dimensionality already established by the index.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrCorruptIndex indicates a persisted index could not be read back.
	// Callers may delete the index and rebuild.
	ErrCorruptIndex = errors.New("corrupt index")

	// ErrIndexBuild indicates index construction failed.
	// Nothing is persisted when this is returned.
	ErrIndexBuild = errors.New("index build failed")

	// ErrInvalidQuestion indicates an empty or whitespace-only question.
	ErrInvalidQuestion = errors.New("invalid question")

	// ErrSynthesis indicates the generative model failed to produce an answer.
	ErrSynthesis = errors.New("answer synthesis failed")
)
