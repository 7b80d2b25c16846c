package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidURL indicates a URL could not be normalized into an identity key.
	ErrInvalidURL = errors.New("invalid url")

	// ErrInvalidRawRecord indicates a RawRecord failed validation.
	ErrInvalidRawRecord = errors.New("invalid raw record")

	// ErrInvalidAIRecord indicates an AIRecord failed validation.
	ErrInvalidAIRecord = errors.New("invalid ai record")

	// ErrInvalidStatus indicates a record status outside the allowed set.
	ErrInvalidStatus = errors.New("invalid record status")

	// ErrEmptyURL indicates the URL field is empty.
	ErrEmptyURL = errors.New("url cannot be empty")

	// ErrEmptyText indicates an ok raw record without extracted text.
	ErrEmptyText = errors.New("ok record must carry extracted text")

	// ErrEmptySummary indicates an ok AI record without a summary.
	ErrEmptySummary = errors.New("ok record must carry a summary")

	// ErrNoTopics indicates an ok AI record without topics.
	ErrNoTopics = errors.New("ok record must carry at least one topic")

	// ErrMissingError indicates a failed record without an error reason.
	ErrMissingError = errors.New("failed record must carry an error reason")
)
