package evidence

import (
	"fmt"
	"strings"

	"github.com/poiesic/marketscout/core"
)

// SystemPrompt is the instruction sent with every generation request.
const SystemPrompt = "Use the provided context to answer queries accurately."

// UserPrompt embeds the assembled context and the original query.
func UserPrompt(contextText, query string) string {
	return fmt.Sprintf("Context:\n%s\n\nAnswer the query: %s", contextText, query)
}

// BuildContext concatenates evidence in fixed order: documents, news
// headlines (warning entries dropped), the trends block, the quote block
// and, when country is set, the country annotation.
func BuildContext(docs, news, trends []string, quote core.Quote, country string) string {
	var b strings.Builder

	lines := make([]string, 0, len(docs)+len(news))
	lines = append(lines, docs...)
	lines = append(lines, withoutWarnings(news)...)
	b.WriteString(strings.Join(lines, "\n"))

	b.WriteString("\n\nGoogle Trends:\n")
	b.WriteString(strings.Join(trends, "\n"))

	b.WriteString("\n\nStock Data:\n")
	for i, f := range quote.Fields {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(f.Key)
		b.WriteString(": ")
		b.WriteString(f.Value)
	}

	if country != "" {
		b.WriteString("\n\nCountry Context: ")
		b.WriteString(country)
	}
	return b.String()
}
