package core

import "strings"

// EmbedTextPolicy names the current embedding-text composition. The vector
// store records it on every entry; changing the composition below must bump
// this version and go through a reindex run, never through silent drift.
const EmbedTextPolicy = "title-summary-topics/v1"

// EmbedText composes the text that gets embedded for an article: title,
// summary, and a "Topics: ..." line, joined by blank lines. Empty parts are
// omitted.
func EmbedText(record *AIRecord) string {
	parts := make([]string, 0, 3)

	if t := strings.TrimSpace(record.Title); t != "" {
		parts = append(parts, t)
	}

	if s := strings.TrimSpace(record.Summary); s != "" {
		parts = append(parts, s)
	}

	if len(record.Topics) > 0 {
		parts = append(parts, "Topics: "+strings.Join(record.Topics, ", "))
	}

	return strings.Join(parts, "\n\n")
}
