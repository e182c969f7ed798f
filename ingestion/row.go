package ingestion

import (
	"fmt"
	"strings"

	"github.com/poiesic/memorag/core"
	"github.com/poiesic/memorag/storage"
)

// Row is one corpus observation.
type Row struct {
	Ticker     string
	Company    string
	Year       string
	FieldCode  string
	FieldName  string
	Value      string
	Bucket     string
	Incomplete bool
	SourceFile string
}

// ID identifies the observation by ticker, year and field code. Rows
// missing any of them fall back to a hash of the document text.
func (r Row) ID() string {
	if r.Ticker != "" && r.Year != "" && r.FieldCode != "" {
		return fmt.Sprintf("%s_%s_%s", r.Ticker, r.Year, r.FieldCode)
	}
	return fmt.Sprintf("%016x", uint64(core.IDFromContent(r.Document())))
}

// Document renders the text that is embedded and stored for the row.
func (r Row) Document() string {
	return fmt.Sprintf("passage: %s (%s) in %s: %s (code=%s) = %s",
		r.Company, r.Ticker, r.Year, r.FieldName, r.FieldCode, r.Value)
}

// Metadata returns the structured fields stored next to the document.
func (r Row) Metadata() map[string]string {
	return map[string]string{
		core.MetaTicker:     r.Ticker,
		core.MetaCompany:    r.Company,
		core.MetaYear:       r.Year,
		core.MetaYearString: r.Year,
		core.MetaBucket:     r.Bucket,
		core.MetaFieldCode:  r.FieldCode,
		core.MetaFieldName:  r.FieldName,
		core.MetaValue:      r.Value,
		core.MetaIncomplete: fmt.Sprint(r.Incomplete),
		core.MetaSourceFile: r.SourceFile,
	}
}

// Alias returns the ticker/company pair of the row, if both are present.
func (r Row) Alias() (core.Alias, bool) {
	a := core.Alias{Short: r.Ticker, Full: r.Company}
	return a, core.ValidateAlias(a) == nil
}

func (r Row) factDocument(embedding []float32) storage.FactDocument {
	return storage.FactDocument{
		ID:        r.ID(),
		Content:   r.Document(),
		Metadata:  r.Metadata(),
		Embedding: embedding,
	}
}

// Filter selects which rows are loaded. Zero fields match everything.
type Filter struct {
	Ticker       string
	Year         string
	CompleteOnly bool

	// Limit caps the number of rows kept; 0 means no limit.
	Limit int
}

// Apply returns the rows that pass the filter, in order. Rows without a
// value are always dropped.
func (f Filter) Apply(rows []Row) []Row {
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		if f.Limit > 0 && len(out) >= f.Limit {
			break
		}
		if strings.TrimSpace(r.Value) == "" {
			continue
		}
		if f.Ticker != "" && !strings.EqualFold(r.Ticker, f.Ticker) {
			continue
		}
		if f.Year != "" && r.Year != f.Year {
			continue
		}
		if f.CompleteOnly && r.Incomplete {
			continue
		}
		out = append(out, r)
	}
	return out
}
