package ai

import "errors"

var (
	// ErrInvalidAnalysis indicates a model response that does not satisfy
	// the analysis output contract.
	ErrInvalidAnalysis = errors.New("invalid analysis")

	// ErrEmptyInput indicates an embedding or analysis request with no text.
	ErrEmptyInput = errors.New("input text is empty")
)
