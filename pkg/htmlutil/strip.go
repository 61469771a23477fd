package htmlutil

import (
	"regexp"
	"strings"
)

var (
	tagPattern      = regexp.MustCompile(`<[^>]*>`)
	blockEndPattern = regexp.MustCompile(`(?i)</(?:p|div|li|h[1-6])>|<br\s*/?>`)
	spacesPattern   = regexp.MustCompile(`\s{2,}`)
)

var entityReplacer = strings.NewReplacer(
	"&nbsp;", " ",
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", "\"",
	"&#39;", "'",
	"&apos;", "'",
	"&hellip;", "…",
	"&rsquo;", "’",
	"&lsquo;", "‘",
	"&rdquo;", "”",
	"&ldquo;", "“",
)

// StripTags removes all HTML tags from a string and normalizes whitespace.
// Closing block tags become newlines so paragraph structure survives.
func StripTags(html string) string {
	if html == "" {
		return ""
	}

	result := blockEndPattern.ReplaceAllString(html, "\n")
	result = tagPattern.ReplaceAllString(result, "")
	result = entityReplacer.Replace(result)

	lines := strings.Split(result, "\n")
	kept := lines[:0]
	for _, line := range lines {
		line = strings.TrimSpace(spacesPattern.ReplaceAllString(line, " "))
		if line != "" {
			kept = append(kept, line)
		}
	}

	return strings.Join(kept, "\n")
}

// Excerpt strips tags from HTML content and truncates the result to at
// most max runes, appending an ellipsis when it was cut.
func Excerpt(html string, max int) string {
	text := strings.ReplaceAll(StripTags(html), "\n", " ")
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return strings.TrimSpace(string(runes[:max])) + "…"
}
