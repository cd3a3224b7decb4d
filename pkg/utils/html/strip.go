// ABOUTME: HTML utilities for turning engine snippets into plain text
// ABOUTME: Uses goquery to drop markup and decode entities

package html

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// StripHTML removes HTML tags and decodes entities from a string.
// Script and style contents are discarded and whitespace is collapsed.
func StripHTML(input string) string {
	if !strings.ContainsAny(input, "<&") {
		return collapseWhitespace(input)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(input))
	if err != nil {
		return collapseWhitespace(input)
	}
	doc.Find("script, style").Remove()

	return collapseWhitespace(doc.Text())
}

// collapseWhitespace trims the string and folds runs of whitespace into one space
func collapseWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
