package openai

import (
	"regexp"
	"strings"
	"unicode"
)

// scrubString drops control characters and collapses runs of whitespace.
func scrubString(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && !unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	return strings.Join(strings.Fields(s), " ")
}

// stripFences removes a surrounding markdown code fence from a model response.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// schemaKey matches a recognition-schema key with one or both of its quotes
// missing, e.g. `, label":` or `{text:`.
var schemaKey = regexp.MustCompile(`([{,]\s*)"?(entities|text|label)"?\s*:`)

// quoteSchemaKeys restores the quotes models sometimes drop around the
// entities, text and label keys.
func quoteSchemaKeys(s string) string {
	return schemaKey.ReplaceAllString(s, `$1"$2":`)
}
