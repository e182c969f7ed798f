package query

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/poiesic/memorag/core"
)

// Field identifies which entity a Rule populates.
type Field int

const (
	FieldOrganization Field = iota
	FieldYear
	FieldIndicator
	FieldCode
	FieldValue
)

func (f Field) String() string {
	switch f {
	case FieldOrganization:
		return "organization"
	case FieldYear:
		return "year"
	case FieldIndicator:
		return "indicator"
	case FieldCode:
		return "code"
	case FieldValue:
		return "value"
	default:
		return "unknown"
	}
}

// Rule is one pattern in an ordered extraction table.
type Rule struct {
	Field   Field
	Pattern *regexp.Regexp
	// Group is the capture group holding the value; 0 means the whole match.
	Group int
	// Normalize post-processes a captured value. A value normalized to ""
	// is discarded.
	Normalize func(string) string
}

func rule(field Field, pattern string, group int, normalize func(string) string) Rule {
	return Rule{
		Field:     field,
		Pattern:   regexp.MustCompile(pattern),
		Group:     group,
		Normalize: normalize,
	}
}

// apply returns every normalized, non-empty value the rule yields on text.
func (r Rule) apply(text string) []string {
	matches := r.Pattern.FindAllStringSubmatch(text, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		if v, ok := r.value(m); ok {
			out = append(out, v)
		}
	}
	return out
}

// first returns the first normalized, non-empty value the rule yields on text.
func (r Rule) first(text string) (string, bool) {
	for _, m := range r.Pattern.FindAllStringSubmatch(text, -1) {
		if v, ok := r.value(m); ok {
			return v, true
		}
	}
	return "", false
}

func (r Rule) value(match []string) (string, bool) {
	if r.Group >= len(match) {
		return "", false
	}
	v := strings.TrimSpace(match[r.Group])
	if r.Normalize != nil {
		v = r.Normalize(v)
	}
	return v, v != ""
}

const legalSuffixes = `Inc|Corp|Ltd|Company|Technologies|Systems|Group|Holdings`

var (
	tickerPattern = `(?i)\b([A-Z]{1,6}\s+US\s+Equity)\b`
	// Up to three name words followed by a legal-form suffix.
	legalNamePattern = `(?i)\b((?:[A-Za-z&]+\s+){0,3}(?:` + legalSuffixes + `)\b\.?)`

	legalSuffixSet = map[string]bool{
		"inc": true, "corp": true, "ltd": true, "company": true,
		"technologies": true, "systems": true, "group": true, "holdings": true,
	}

	// Leading words that are part of the question rather than the name.
	nameStopWords = map[string]bool{
		"a": true, "an": true, "the": true, "of": true, "for": true, "and": true,
		"about": true, "in": true, "on": true, "at": true, "to": true, "from": true,
		"by": true, "with": true, "vs": true, "versus": true, "between": true,
		"what": true, "which": true, "who": true, "how": true, "is": true,
		"are": true, "was": true, "were": true, "did": true, "does": true,
		"do": true, "show": true, "me": true, "give": true, "tell": true,
		"list": true, "find": true, "get": true, "compare": true, "data": true,
		"report": true, "please": true, "s": true,
	}
)

// normalizeOrganization trims question words off a captured name. When the
// user capitalized any word, leading lowercase words are dropped as well, so
// "oxide emissions Alcoa Corp" becomes "Alcoa Corp". In an all-lowercase
// capture the name starts after the last stop word, so
// "emissions for alcoa corp" becomes "alcoa corp". A bare legal suffix
// ("company") is not an organization.
func normalizeOrganization(name string) string {
	words := strings.Fields(name)
	for len(words) > 0 && nameStopWords[strings.ToLower(words[0])] {
		words = words[1:]
	}
	if hasCapitalizedWord(words) {
		for len(words) > 1 && !startsUpper(words[0]) {
			words = words[1:]
		}
	} else {
		for i := len(words) - 2; i >= 0; i-- {
			if nameStopWords[strings.ToLower(words[i])] {
				words = words[i+1:]
				break
			}
		}
	}
	if len(words) == 0 {
		return ""
	}
	if len(words) == 1 && legalSuffixSet[strings.ToLower(strings.TrimSuffix(words[0], "."))] {
		return ""
	}
	name = strings.Join(words, " ")
	if len(name) < 2 {
		return ""
	}
	return name
}

func hasCapitalizedWord(words []string) bool {
	for _, w := range words {
		if startsUpper(w) {
			return true
		}
	}
	return false
}

func startsUpper(w string) bool {
	return w != "" && w[0] >= 'A' && w[0] <= 'Z'
}

// normalizeTicker canonicalizes "aa us equity" to "AA US Equity".
func normalizeTicker(t string) string {
	fields := strings.Fields(t)
	if len(fields) != 3 {
		return ""
	}
	return strings.ToUpper(fields[0]) + " US Equity"
}

// normalizeYear keeps only years within the corpus range.
func normalizeYear(y string) string {
	n, err := strconv.Atoi(y)
	if err != nil || n < core.MinYear || n > core.MaxYear {
		return ""
	}
	return y
}

func normalizeIndicator(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func normalizeCode(s string) string {
	return strings.ToUpper(s)
}

// QueryRules is the list-valued rule table applied to cleaned queries.
// Every match of every rule is kept.
func QueryRules() []Rule {
	rules := []Rule{
		rule(FieldOrganization, tickerPattern, 1, normalizeTicker),
		rule(FieldOrganization, legalNamePattern, 1, normalizeOrganization),

		rule(FieldYear, `(?i)\bin\s+year\s+(\d{4})`, 1, normalizeYear),
		rule(FieldYear, `(?i)\bin\s+(\d{4})`, 1, normalizeYear),
		rule(FieldYear, `(?i)\byear\s+(\d{4})`, 1, normalizeYear),
		rule(FieldYear, `(\d{4})年`, 1, normalizeYear),
		rule(FieldYear, `(\d{4})`, 1, normalizeYear),

		rule(FieldCode, `(?i)\b(ES\d{3})\b`, 1, normalizeCode),
		rule(FieldCode, `(?i)\b(ES\d{2})\b`, 1, normalizeCode),
		rule(FieldCode, `(?i)code=(ES\d{3})`, 1, normalizeCode),
		rule(FieldCode, `(?i)指标代码[:：]\s*(ES\d{3})`, 1, normalizeCode),
		rule(FieldCode, `(?i)(ES\d{3})指标`, 1, normalizeCode),
	}
	return append(rules, indicatorRules()...)
}

// indicatorPhrases are the named indicators recognized in queries,
// environmental first, then social, then governance.
var indicatorPhrases = []string{
	`nitrogen\s+oxide\s+emissions?`,
	`carbon\s+dioxide\s+emissions?`,
	`methane\s+emissions?`,
	`voc\s+emissions?`,
	`particulate\s+matter`,
	`water\s+emissions?`,
	`energy\s+consumption`,
	`renewable\s+energy`,
	`hazardous\s+waste`,

	`women\s+workforce`,
	`pct\s+women\s+in\s+workforce`,
	`employee\s+diversity`,
	`workforce\s+diversity`,
	`safety\s+training`,
	`community\s+engagement`,
	`human\s+rights`,
	`labor\s+rights`,

	`board\s+diversity`,
	`executive\s+compensation`,
	`audit\s+quality`,
	`transparency`,
	`corporate\s+governance`,
	`risk\s+management`,
	`stakeholder\s+engagement`,
}

func indicatorRules() []Rule {
	rules := make([]Rule, 0, len(indicatorPhrases))
	for _, p := range indicatorPhrases {
		rules = append(rules, rule(FieldIndicator, `(?i)(`+p+`)`, 1, normalizeIndicator))
	}
	return rules
}

// ContextRules is the reduced rule table used to backfill entities from the
// previous turn.
func ContextRules() []Rule {
	rules := []Rule{
		rule(FieldOrganization, tickerPattern, 1, normalizeTicker),
		rule(FieldOrganization, legalNamePattern, 1, normalizeOrganization),
		rule(FieldIndicator,
			`(?i)\b((?:[A-Za-z]+\s+){0,3}(?:Emissions|Consumption|Policy|Rights|Workforce|Diversity)\b)`,
			1, func(s string) string { return normalizeIndicator(normalizeOrganization(s)) }),
	}
	return append(rules, indicatorRules()...)
}

// passagePrefix is prepended to every stored record for the embedding model.
const passagePrefix = "passage:"

// DocumentRules is the first-match-wins rule table for stored records. Rules
// for a field are tried in order and the first value found wins.
func DocumentRules() []Rule {
	return []Rule{
		rule(FieldOrganization, `([^（\n]+)（`, 1, nil),
		rule(FieldOrganization, `([A-Za-z][A-Za-z\s&]*\b(?:`+legalSuffixes+`)\b\.?)`, 1, nil),
		rule(FieldOrganization, `\b([A-Z]{1,6}\s+US\s+Equity)\b`, 1, nil),

		rule(FieldYear, `在(\d{4})年`, 1, normalizeYear),
		rule(FieldYear, `(\d{4})`, 1, normalizeYear),
		rule(FieldYear, `(?i)\byear\s+(\d{4})`, 1, normalizeYear),
		rule(FieldYear, `(?i)\bin\s+(\d{4})`, 1, normalizeYear),

		rule(FieldIndicator, `：([^（]+)（`, 1, nil),
		rule(FieldIndicator, `(?i)([A-Za-z][A-Za-z\s]*(?:Emissions|Consumption|Policy|Rights|Workforce|Diversity|Governance))`, 1, nil),
		rule(FieldIndicator, `(?i)(nitrogen\s+oxide\s+emissions?)`, 1, nil),
		rule(FieldIndicator, `(?i)(carbon\s+dioxide\s+emissions?)`, 1, nil),
		rule(FieldIndicator, `(?i)(methane\s+emissions?)`, 1, nil),
		rule(FieldIndicator, `(?i)(voc\s+emissions?)`, 1, nil),
		rule(FieldIndicator, `(?i)(women\s+workforce)`, 1, nil),
		rule(FieldIndicator, `(?i)(pct\s+women\s+in\s+workforce)`, 1, nil),

		rule(FieldCode, `(?i)code=([^）)\s,]+)`, 1, nil),
		rule(FieldCode, `(?i)(ES\d{3})`, 1, nil),
		rule(FieldCode, `(?i)(ES\d{2})`, 1, nil),

		rule(FieldValue, `= ([^,]+)`, 1, nil),
		rule(FieldValue, `:\s*([^,\s]+)`, 1, nil),
		rule(FieldValue, `(\d+\.?\d*)`, 1, nil),
		rule(FieldValue, `(True|False)`, 1, nil),
	}
}
