package ai

import (
	"fmt"
	"strings"
)

// Topic count bounds enforced on every analysis before it is persisted.
const (
	MinTopics = 3
	MaxTopics = 7
)

// Analysis is the structured result of analyzing one article.
// The summary is expected to run 3-5 sentences; topics are short
// lowercase tags.
type Analysis struct {
	Summary string   `json:"summary"`
	Topics  []string `json:"topics"`
}

// NormalizeTopics trims, lowercases and deduplicates topic tags while
// preserving their original order. Empty tags are dropped.
func NormalizeTopics(topics []string) []string {
	cleaned := make([]string, 0, len(topics))
	seen := make(map[string]bool, len(topics))

	for _, t := range topics {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		cleaned = append(cleaned, t)
	}
	return cleaned
}

// Normalize brings the analysis into canonical form: the summary is
// trimmed and the topics pass through NormalizeTopics.
func (a *Analysis) Normalize() {
	a.Summary = strings.TrimSpace(a.Summary)
	a.Topics = NormalizeTopics(a.Topics)
}

// Validate checks an analysis against the output contract. Callers should
// Normalize first; Validate does not modify the analysis.
func (a *Analysis) Validate() error {
	if a == nil {
		return fmt.Errorf("%w: analysis is nil", ErrInvalidAnalysis)
	}
	if strings.TrimSpace(a.Summary) == "" {
		return fmt.Errorf("%w: summary must not be empty", ErrInvalidAnalysis)
	}
	if len(a.Topics) < MinTopics || len(a.Topics) > MaxTopics {
		return fmt.Errorf("%w: topics must contain between %d and %d items, got %d",
			ErrInvalidAnalysis, MinTopics, MaxTopics, len(a.Topics))
	}
	return nil
}
