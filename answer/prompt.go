package answer

import (
	"fmt"
	"strings"

	"github.com/poiesic/memorag/core"
	"github.com/poiesic/memorag/i18n"
)

// PromptFacts is how many ranked results are listed in a prompt.
const PromptFacts = 10

const (
	validMark   = "✅Valid data"
	missingMark = "❌Missing data"
)

// Context renders the analysis line passed to the model alongside the facts.
func Context(analysis *core.QueryAnalysis) string {
	if analysis == nil {
		return ""
	}
	return fmt.Sprintf("Query intent: %s, Confidence: %.2f", analysis.Intent, analysis.Confidence)
}

// BuildPrompt renders the answer request for a responder: the query, up to
// PromptFacts ranked facts each marked valid or missing with its rerank
// score, a data-quality tally, the analysis note from Context and the
// instructions, including the answer language.
func BuildPrompt(query string, results []*core.Candidate, note string, locale i18n.Locale) string {
	var sb strings.Builder

	sb.WriteString("Please generate a professional, accurate, and understandable response based on the following query and data.\n\n")
	sb.WriteString("Query: ")
	sb.WriteString(query)
	sb.WriteString("\n\n")

	sb.WriteString("Data Summary (sorted by quality, ✅ indicates valid data, ❌ indicates missing data):\n")
	valid := 0
	for i, c := range head(results, PromptFacts) {
		mark := missingMark
		if c.Derived.HasValue() {
			mark = validMark
			valid++
		}
		fmt.Fprintf(&sb, "%d. %s %s (%s) - %s: %s [Quality score:%.1f]\n",
			i+1, mark,
			orNA(c.Derived.Organization), orNA(c.Derived.Year), orNA(c.Derived.Indicator), orNA(c.Derived.Value),
			c.RerankScore)
	}
	fmt.Fprintf(&sb, "\nData quality statistics: %d valid data, %d missing data\n\n", valid, len(results)-valid)

	sb.WriteString("Context: ")
	sb.WriteString(note)
	sb.WriteString("\n\n")

	sb.WriteString(`Important Notes:
- Prioritize using ✅ valid data for analysis
- For ❌ missing data, clearly explain the data gaps
- If valid data is insufficient, explain analysis limitations

Please generate a response that includes the following elements:
1. Direct answer to user's question (based on valid data)
2. Analysis of data trends and patterns (focus on valid data)
3. Provide professional insights
4. Clearly explain data gaps and reasons
5. Give recommendations or conclusions

Response Requirements:
- Use `)
	sb.WriteString(i18n.Default().Text(i18n.AnswerLanguage, locale))
	sb.WriteString(`
- Professional but understandable
- Based on valid data facts
- Clearly distinguish between valid and missing data
- Clear structure
- Appropriate length (200-400 words)

Response:`)
	return sb.String()
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}
