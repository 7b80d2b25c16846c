package core

import "fmt"

// ValidateRawRecord validates a RawRecord according to domain rules.
//
// Validation rules:
//   - URL must not be empty
//   - Status must be ok, failed, or skipped
//   - ok records must carry extracted text
//   - failed records must carry an error reason
//
// NOT validated:
//   - Title (extraction legitimately yields pages without one)
//   - Chars (kept as extracted even for below-threshold failures)
//   - HTTPStatus/ContentType/Language (best-effort audit fields)
func ValidateRawRecord(record *RawRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidRawRecord)
	}

	if record.URL == "" {
		return fmt.Errorf("%w: %w", ErrInvalidRawRecord, ErrEmptyURL)
	}

	switch record.Status {
	case StatusOK, StatusFailed, StatusSkipped:
	default:
		return fmt.Errorf("%w: %w: %q", ErrInvalidRawRecord, ErrInvalidStatus, record.Status)
	}

	if record.Status == StatusOK && record.Text == "" {
		return fmt.Errorf("%w: %w", ErrInvalidRawRecord, ErrEmptyText)
	}

	if record.Status == StatusFailed && record.Error == "" {
		return fmt.Errorf("%w: %w", ErrInvalidRawRecord, ErrMissingError)
	}

	return nil
}

// ValidateAIRecord validates an AIRecord according to domain rules.
//
// Validation rules:
//   - URL must not be empty
//   - Status must be ok or failed (skipped never reaches the AI log)
//   - ok records must carry a summary and at least one topic
//   - failed records must carry an error reason
func ValidateAIRecord(record *AIRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidAIRecord)
	}

	if record.URL == "" {
		return fmt.Errorf("%w: %w", ErrInvalidAIRecord, ErrEmptyURL)
	}

	switch record.Status {
	case StatusOK, StatusFailed:
	default:
		return fmt.Errorf("%w: %w: %q", ErrInvalidAIRecord, ErrInvalidStatus, record.Status)
	}

	if record.Status == StatusOK {
		if record.Summary == "" {
			return fmt.Errorf("%w: %w", ErrInvalidAIRecord, ErrEmptySummary)
		}
		if len(record.Topics) == 0 {
			return fmt.Errorf("%w: %w", ErrInvalidAIRecord, ErrNoTopics)
		}
	}

	if record.Status == StatusFailed && record.Error == "" {
		return fmt.Errorf("%w: %w", ErrInvalidAIRecord, ErrMissingError)
	}

	return nil
}
