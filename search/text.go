package search

// PreviewChars is the default display truncation for hit documents.
const PreviewChars = 500

// previewText cuts text to maxChars runes and marks the cut with an
// ellipsis. Text at or under the limit comes back unchanged.
func previewText(text string, maxChars int) string {
	if maxChars <= 0 {
		maxChars = PreviewChars
	}
	runes := []rune(text)
	if len(runes) <= maxChars {
		return text
	}
	return string(runes[:maxChars]) + "..."
}
