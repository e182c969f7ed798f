package core

import (
	"encoding/binary"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing or database sequences.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// StringSet is an unordered, deduplicated set of strings.
// The zero value is an empty set ready for use through Add.
type StringSet map[string]struct{}

// NewStringSet creates a set holding the non-blank items.
func NewStringSet(items ...string) StringSet {
	s := make(StringSet, len(items))
	s.Add(items...)
	return s
}

// Add inserts items, trimming surrounding whitespace and skipping blanks.
func (s *StringSet) Add(items ...string) {
	if *s == nil {
		*s = make(StringSet, len(items))
	}
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		(*s)[item] = struct{}{}
	}
}

// Has reports whether item is a member.
func (s StringSet) Has(item string) bool {
	_, ok := s[item]
	return ok
}

// Len returns the number of members.
func (s StringSet) Len() int {
	return len(s)
}

// Sorted returns the members in lexical order.
func (s StringSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for item := range s {
		out = append(out, item)
	}
	slices.Sort(out)
	return out
}

// Clone returns an independent copy.
func (s StringSet) Clone() StringSet {
	out := make(StringSet, len(s))
	for item := range s {
		out[item] = struct{}{}
	}
	return out
}

// Entities holds the structured fields pulled out of a query.
// An empty set means the field is unconstrained.
type Entities struct {
	Organizations  StringSet
	Years          StringSet // 4-digit years in [MinYear, MaxYear]
	Indicators     StringSet
	IndicatorCodes StringSet
	Categories     StringSet // keys of the domain taxonomy
	Keywords       StringSet // taxonomy synonyms that matched
}

// NewEntities returns Entities with every set allocated.
func NewEntities() Entities {
	return Entities{
		Organizations:  StringSet{},
		Years:          StringSet{},
		Indicators:     StringSet{},
		IndicatorCodes: StringSet{},
		Categories:     StringSet{},
		Keywords:       StringSet{},
	}
}

// Clone returns a deep copy so callers can extend it without aliasing.
func (e Entities) Clone() Entities {
	return Entities{
		Organizations:  e.Organizations.Clone(),
		Years:          e.Years.Clone(),
		Indicators:     e.Indicators.Clone(),
		IndicatorCodes: e.IndicatorCodes.Clone(),
		Categories:     e.Categories.Clone(),
		Keywords:       e.Keywords.Clone(),
	}
}

// IsEmpty reports whether no field holds a value.
func (e Entities) IsEmpty() bool {
	return e.Organizations.Len() == 0 &&
		e.Years.Len() == 0 &&
		e.Indicators.Len() == 0 &&
		e.IndicatorCodes.Len() == 0 &&
		e.Categories.Len() == 0 &&
		e.Keywords.Len() == 0
}

// HasFilterable reports whether any field usable for candidate filtering
// (years, organizations, indicator codes) is set.
func (e Entities) HasFilterable() bool {
	return e.Years.Len() > 0 || e.Organizations.Len() > 0 || e.IndicatorCodes.Len() > 0
}

const (
	// MinYear is the earliest year accepted by extraction.
	MinYear = 1900
	// MaxYear is the latest year accepted by extraction.
	MaxYear = 2030
)

// Intent labels what a query is asking for.
type Intent string

const (
	IntentTrend      Intent = "trend"
	IntentComparison Intent = "comparison"
	IntentSpecific   Intent = "specific"
	IntentOverview   Intent = "overview"
	IntentAnalysis   Intent = "analysis"
	IntentGeneral    Intent = "general"
)

// String implements fmt.Stringer.
func (i Intent) String() string {
	return string(i)
}

// QueryAnalysis is the immutable result of understanding one query turn.
type QueryAnalysis struct {
	RawQuery       string
	CleanedQuery   string
	Extracted      Entities
	Intent         Intent
	OptimizedQuery string
	Confidence     float64 // in [0, 1]
	Timestamp      time.Time
}

// Fact is the single-valued view of a stored corpus record, recovered from
// its document text.
type Fact struct {
	Organization string
	Year         string
	Indicator    string
	Code         string
	Value        string
}

// HasValue reports whether the fact carries a usable observation.
// Blank values and null/NaN sentinels count as missing.
func (f Fact) HasValue() bool {
	return IsValidValue(f.Value)
}

// IsValidValue reports whether v is neither blank nor a null/NaN sentinel.
func IsValidValue(v string) bool {
	v = strings.TrimSpace(v)
	if v == "" {
		return false
	}
	switch strings.ToLower(v) {
	case "nan", "null", "none":
		return false
	}
	return true
}

// Metadata keys written by the corpus loader and read by scoring.
const (
	MetaTicker     = "ticker"
	MetaCompany    = "company"
	MetaYear       = "year"
	MetaYearString = "year_s"
	MetaBucket     = "bucket"
	MetaFieldCode  = "field_code"
	MetaFieldName  = "field_name"
	MetaValue      = "value"
	MetaIncomplete = "incomplete"
	MetaSourceFile = "source_file"
)

// Candidate is one retrieved record under consideration for the final ranking.
type Candidate struct {
	ID         string
	Document   string
	Metadata   map[string]string
	Distance   float64
	Similarity float64 // 1 - Distance
	Derived    Fact

	// MatchScore is only meaningful when HasMatchScore is set, i.e. when
	// entity filtering ran and kept this candidate.
	MatchScore    int
	HasMatchScore bool

	RerankScore float64
	Rank        int // position in retrieval order, 0-based
}

// NewCandidate builds a candidate from an index hit at the given retrieval rank.
func NewCandidate(id, document string, metadata map[string]string, distance float64, rank int) *Candidate {
	if metadata == nil {
		metadata = map[string]string{}
	}
	if math.IsNaN(distance) {
		distance = 1
	}
	return &Candidate{
		ID:         id,
		Document:   document,
		Metadata:   metadata,
		Distance:   distance,
		Similarity: 1 - distance,
		Rank:       rank,
	}
}

// Meta returns a trimmed metadata value, or "" when absent.
func (c *Candidate) Meta(key string) string {
	return strings.TrimSpace(c.Metadata[key])
}

// Incomplete reports whether the corpus flagged the record as incomplete.
func (c *Candidate) Incomplete() bool {
	switch strings.ToLower(c.Meta(MetaIncomplete)) {
	case "true", "1", "yes":
		return true
	}
	return false
}

// InteractionRecord is the compact summary of one answered query kept in history.
type InteractionRecord struct {
	Id            ID
	Timestamp     time.Time
	Query         string
	ResultCount   int
	TopSimilarity float64
	Organizations []string
	Years         []string
	Indicators    []string
}

// Alias links a shorthand identifier (a ticker such as "AA US Equity") to the
// full legal name of the organization it denotes.
type Alias struct {
	Short string
	Full  string
}

// Key returns the case-folded identity of the alias pair.
func (a Alias) Key() string {
	return strings.ToLower(a.Short) + "|" + strings.ToLower(a.Full)
}
