package sync

import (
	"html"
	"net/mail"
	"regexp"
	"strings"
)

// The platform HTML-escapes most text fields, sometimes twice, and
// decorates store option choices with markup of its own. These helpers
// normalize the values before they reach the local records.

// Unescape decodes HTML entities, fixing the platform's occasional
// double-escaped ampersand first
func Unescape(s string) string {
	s = strings.ReplaceAll(s, "&amp;amp;", "&")
	return html.UnescapeString(s)
}

// URLPath normalizes a page path. Absolute URLs pass
// through; anything else gets a leading slash. Empty stays empty.
func URLPath(s string) string {
	if s == "" {
		return ""
	}
	if strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") || strings.HasPrefix(s, "/") {
		return s
	}
	return "/" + s
}

// ValidEmail returns the address when it parses, empty otherwise
func ValidEmail(s string) string {
	if s == "" {
		return ""
	}
	if _, err := mail.ParseAddress(s); err != nil {
		return ""
	}
	return s
}

// UnescapeTagValues decodes HTML entities in every value of a tag map
func UnescapeTagValues(tags map[string]string) map[string]string {
	if tags == nil {
		return nil
	}
	out := make(map[string]string, len(tags))
	for key, value := range tags {
		out[key] = html.UnescapeString(value)
	}
	return out
}

// colorTag matches the trailing color swatch the platform appends to
// color choices, e.g. "Red<#ff0000>"
var colorTag = regexp.MustCompile(`(.+)(<#.+>)`)

// CleanChoices normalizes a product option choice list: free-text
// placeholders are dropped and color swatch tags stripped
func CleanChoices(choices []string) []string {
	cleaned := make([]string, 0, len(choices))
	for _, choice := range choices {
		if strings.HasPrefix(choice, "Text:") {
			continue
		}
		if match := colorTag.FindStringSubmatch(choice); match != nil {
			choice = match[1]
		}
		cleaned = append(cleaned, choice)
	}
	return cleaned
}
