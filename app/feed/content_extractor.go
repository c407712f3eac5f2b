package feed

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
)

// chromeSelector matches page parts that never belong in a feed entry.
const chromeSelector = "body > header, body > footer, nav, .nav-toggle, .back-link, [aria-hidden=true]"

// ContentExtractor pulls the article body out of a rendered case study page.
// Site chrome and presentation-only attributes (reveal state, order
// variables) are stripped before readability scores the page.
type ContentExtractor struct{}

func NewContentExtractor() *ContentExtractor {
	return &ContentExtractor{}
}

// Run extracts the article HTML from data. pageURL resolves relative media
// and link references and may be nil.
func (e *ContentExtractor) Run(data []byte, pageURL *url.URL) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("HTML data is empty")
	}

	cleaned, err := stripPresentation(data)
	if err != nil {
		return "", err
	}

	article, err := readability.FromReader(strings.NewReader(cleaned), pageURL)
	if err != nil {
		return "", fmt.Errorf("failed to extract content: %w", err)
	}

	if article.Content == "" {
		return "", fmt.Errorf("no content extracted from HTML data")
	}

	slog.Debug("Content extracted successfully",
		"title", article.Title,
		"content_length", len(article.Content))

	return article.Content, nil
}

func stripPresentation(data []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to parse page: %w", err)
	}

	doc.Find(chromeSelector).Remove()

	doc.Find("*").Each(func(_ int, s *goquery.Selection) {
		for _, node := range s.Nodes {
			attrs := node.Attr[:0]
			for _, attr := range node.Attr {
				if attr.Key == "style" || strings.HasPrefix(attr.Key, "data-") {
					continue
				}
				attrs = append(attrs, attr)
			}
			node.Attr = attrs
		}
	})

	return doc.Html()
}
