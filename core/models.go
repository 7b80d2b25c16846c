package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for vector-store entries.
// It is derived from the normalized article URL by content hashing.
type ID uint64

// IDFromURL generates a deterministic ID from a normalized URL using BLAKE2b
// hashing. Identical URLs always produce identical IDs, which is what makes
// the vector store idempotent under re-indexing.
func IDFromURL(url string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(url))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Status classifies the outcome recorded for one URL at one stage.
type Status string

const (
	// StatusOK marks a record whose stage completed successfully.
	StatusOK Status = "ok"
	// StatusFailed marks a record whose stage was attempted and failed.
	StatusFailed Status = "failed"
	// StatusSkipped marks a record deliberately not processed
	// (e.g. a non-HTML content type at the scrape stage).
	StatusSkipped Status = "skipped"
)

// RawRecord is one line of the raw scrape log: the outcome of fetching and
// extracting a single URL. A record is always written, success or failure,
// so repeated runs can tell "never attempted" from "attempted and failed".
type RawRecord struct {
	URL                string    `json:"url"`
	Source             string    `json:"source,omitempty"`
	Title              string    `json:"title,omitempty"`
	Text               string    `json:"text,omitempty"`
	FetchedAt          time.Time `json:"fetched_at"`
	Status             Status    `json:"status"`
	Error              string    `json:"error,omitempty"`
	HTTPStatus         int       `json:"http_status,omitempty"`
	ContentType        string    `json:"content_type,omitempty"`
	Language           string    `json:"language,omitempty"`
	LanguageConfidence float64   `json:"language_confidence,omitempty"`
	Chars              int       `json:"chars"`
}

// AIRecord is one line of the AI analysis log: the LLM summary and topics for
// a single article, derived from exactly one ok RawRecord.
type AIRecord struct {
	URL        string    `json:"url"`
	Source     string    `json:"source,omitempty"`
	Title      string    `json:"title,omitempty"`
	Summary    string    `json:"summary,omitempty"`
	Topics     []string  `json:"topics,omitempty"`
	LLMModel   string    `json:"llm_model,omitempty"`
	AnalyzedAt time.Time `json:"analyzed_at"`
	Status     Status    `json:"status"`
	Error      string    `json:"error,omitempty"`
}
