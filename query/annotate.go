package query

import (
	"strings"

	"github.com/poiesic/memorag/core"
)

// Annotator recovers single-valued facts from stored record text,
// independently of the record's metadata.
type Annotator struct {
	rules []Rule
}

// NewAnnotator creates an annotator. A nil rule table selects DocumentRules.
func NewAnnotator(rules []Rule) *Annotator {
	if rules == nil {
		rules = DocumentRules()
	}
	return &Annotator{rules: rules}
}

// Annotate applies the rule table with first-match-wins per field: once a
// field has a value, later rules for that field are skipped.
func (a *Annotator) Annotate(document string) core.Fact {
	text := strings.TrimSpace(document)
	if strings.HasPrefix(text, passagePrefix) {
		text = strings.TrimSpace(text[len(passagePrefix):])
	}

	var fact core.Fact
	for _, r := range a.rules {
		slot := factSlot(&fact, r.Field)
		if slot == nil || *slot != "" {
			continue
		}
		if v, ok := r.first(text); ok {
			*slot = v
		}
	}
	return fact
}

func factSlot(f *core.Fact, field Field) *string {
	switch field {
	case FieldOrganization:
		return &f.Organization
	case FieldYear:
		return &f.Year
	case FieldIndicator:
		return &f.Indicator
	case FieldCode:
		return &f.Code
	case FieldValue:
		return &f.Value
	default:
		return nil
	}
}

// AnnotateAll fills Derived on every candidate.
func (a *Annotator) AnnotateAll(candidates []*core.Candidate) {
	for _, c := range candidates {
		c.Derived = a.Annotate(c.Document)
	}
}
