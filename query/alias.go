package query

import (
	"slices"
	"strings"

	"github.com/poiesic/memorag/core"
)

// minPartialAlias is the shortest organization string looked up by
// containment rather than exact key.
const minPartialAlias = 4

// DefaultAliases returns the built-in ticker/name pairs. The corpus loader
// adds the rest.
func DefaultAliases() []core.Alias {
	return []core.Alias{
		{Short: "A US Equity", Full: "Agilent Technologies Inc"},
		{Short: "AA US Equity", Full: "Alcoa Corporation"},
	}
}

// AliasTable is a bidirectional map between ticker shorthand and legal
// names. Lookups are case-insensitive. An AliasTable is not safe for
// concurrent mutation.
type AliasTable struct {
	forms map[string][]string // folded form -> every other form, original casing
}

// NewAliasTable creates a table holding pairs.
func NewAliasTable(pairs ...core.Alias) *AliasTable {
	t := &AliasTable{forms: make(map[string][]string)}
	t.Add(pairs...)
	return t
}

func foldName(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// Add registers pairs in both directions. Invalid pairs are ignored.
func (t *AliasTable) Add(pairs ...core.Alias) {
	for _, p := range pairs {
		if core.ValidateAlias(p) != nil {
			continue
		}
		short := strings.Join(strings.Fields(p.Short), " ")
		full := strings.Join(strings.Fields(p.Full), " ")
		t.link(short, full)
		t.link(full, short)
	}
}

func (t *AliasTable) link(from, to string) {
	key := foldName(from)
	for _, existing := range t.forms[key] {
		if strings.EqualFold(existing, to) {
			return
		}
	}
	t.forms[key] = append(t.forms[key], to)
}

// Len returns the number of distinct forms known.
func (t *AliasTable) Len() int {
	return len(t.forms)
}

// Aliases returns every known alternative form of name in sorted order.
// Names of at least four characters also resolve through any known form
// that contains them, so "Alcoa Corp" finds the "Alcoa Corporation" entry.
func (t *AliasTable) Aliases(name string) []string {
	key := foldName(name)
	if key == "" {
		return nil
	}

	seen := map[string]bool{key: true}
	var out []string
	add := func(forms ...string) {
		for _, f := range forms {
			k := foldName(f)
			if seen[k] {
				continue
			}
			seen[k] = true
			out = append(out, f)
		}
	}

	if forms, ok := t.forms[key]; ok {
		add(forms...)
	} else if len(key) >= minPartialAlias {
		for k, forms := range t.forms {
			if strings.Contains(k, key) {
				add(forms...)
				add(t.original(k))
			}
		}
	}
	slices.Sort(out)
	return out
}

// original recovers the stored casing of a folded key from its partners.
func (t *AliasTable) original(key string) string {
	for _, partner := range t.forms[key] {
		for _, back := range t.forms[foldName(partner)] {
			if foldName(back) == key {
				return back
			}
		}
	}
	return key
}

// Matches reports whether organization org refers to the entity named in
// field. Names are compared at word boundaries. When field names a known
// entity, org matches only if it belongs to the same alias group, so
// "GE US Equity" never matches "General Motors Co". Otherwise org or one of
// its aliases must occur in field, or field must contain the distinctive
// leading word of a legal-name alias ("agilent").
func (t *AliasTable) Matches(org, field string) bool {
	f := foldName(field)
	o := foldName(org)
	if f == "" || o == "" {
		return false
	}
	if containsName(f, o) {
		return true
	}

	group := map[string]bool{o: true}
	for _, alias := range t.Aliases(org) {
		group[foldName(alias)] = true
	}
	if named := t.resolve(f); len(named) > 0 {
		for k := range named {
			if group[k] {
				return true
			}
		}
		return false
	}

	for k := range group {
		if containsName(f, k) {
			return true
		}
		if w := t.distinctiveWord(k, group); w != "" && containsWord(f, w) {
			return true
		}
	}
	return false
}

// resolve returns the alias groups of every known form that occurs in field
// as whole words.
func (t *AliasTable) resolve(field string) map[string]bool {
	var named map[string]bool
	for key, forms := range t.forms {
		if !containsWord(field, key) {
			continue
		}
		if named == nil {
			named = make(map[string]bool)
		}
		named[key] = true
		for _, form := range forms {
			named[foldName(form)] = true
		}
	}
	return named
}

// commonNameWords lead too many legal names to identify one on their own.
var commonNameWords = map[string]bool{
	"general": true, "american": true, "united": true, "first": true,
	"national": true, "international": true, "global": true, "new": true,
	"southern": true, "northern": true, "eastern": true, "western": true,
	"central": true, "pacific": true, "atlantic": true, "great": true,
	"royal": true, "standard": true, "public": true, "universal": true,
	"consolidated": true, "federal": true, "capital": true, "bank": true,
	"energy": true, "north": true, "south": true, "china": true,
}

// distinctiveWord returns the leading word of a multi-word legal name when
// it is specific enough to stand for the whole name: at least four letters,
// not a common or legal-form word, and not the leading word of a legal name
// outside group.
func (t *AliasTable) distinctiveWord(name string, group map[string]bool) string {
	if isTicker(name) {
		return ""
	}
	words := nameWords(name)
	if len(words) < 2 {
		return ""
	}
	w := words[0]
	if len(w) < 4 || commonNameWords[w] || legalSuffixSet[w] {
		return ""
	}
	for key := range t.forms {
		if group[key] || isTicker(key) {
			continue
		}
		if other := nameWords(key); len(other) > 0 && other[0] == w {
			return ""
		}
	}
	return w
}

// nameWords splits a folded name, dropping leading articles.
func nameWords(name string) []string {
	words := strings.Fields(name)
	for len(words) > 0 && (words[0] == "the" || words[0] == "a" || words[0] == "an") {
		words = words[1:]
	}
	return words
}

// containsName reports whether name occurs in field starting at a word
// boundary, so "a us equity" does not match "aa us equity" and "the" does
// not match "southern". The match may end inside a word, letting
// "alcoa corp" match "alcoa corporation".
func containsName(field, name string) bool {
	return indexName(field, name, false)
}

// containsWord is containsName with a word boundary on both ends.
func containsWord(field, name string) bool {
	return indexName(field, name, true)
}

func indexName(field, name string, wholeWord bool) bool {
	if name == "" {
		return false
	}
	for i := 0; i+len(name) <= len(field); {
		j := strings.Index(field[i:], name)
		if j < 0 {
			return false
		}
		at := i + j
		end := at + len(name)
		if (at == 0 || !isWordByte(field[at-1])) && (!wholeWord || end == len(field) || !isWordByte(field[end])) {
			return true
		}
		i = at + 1
	}
	return false
}

func isWordByte(b byte) bool {
	return b == '_' || b >= '0' && b <= '9' || b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z'
}

func isTicker(s string) bool {
	return strings.HasSuffix(foldName(s), " us equity")
}
