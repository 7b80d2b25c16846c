package web

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
)

// extractReadable pulls the title and main text out of an HTML document.
// Readability finds the article body; when it has no title the <title>
// element serves as fallback.
func extractReadable(pageURL, html string) (title, text string) {
	parsedURL, err := url.Parse(pageURL)
	if err != nil {
		parsedURL = &url.URL{}
	}

	parser := readability.NewParser()
	article, err := parser.Parse(strings.NewReader(html), parsedURL)
	if err == nil {
		title = strings.TrimSpace(article.Title)
		text = normalizeText(article.TextContent)
	}

	if title == "" {
		title = fallbackTitle(html)
	}
	return title, text
}

// fallbackTitle reads the document <title> element.
func fallbackTitle(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}

// normalizeText collapses whitespace runs within lines and drops empty
// lines, keeping one extracted line per text block.
func normalizeText(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		out = append(out, strings.Join(fields, " "))
	}
	return strings.Join(out, "\n")
}
