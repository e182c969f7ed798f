package main

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/fatih/color"
	"github.com/poiesic/memorag"
	"github.com/poiesic/memorag/core"
	"github.com/poiesic/memorag/i18n"
	"github.com/poiesic/memorag/search"
	"github.com/poiesic/memorag/session"
)

const rule = "----------------------------------------"

var headingColor = color.New(color.FgCyan, color.Bold)

func heading(w io.Writer, title string) {
	fmt.Fprintln(w)
	headingColor.Fprintln(w, title)
	fmt.Fprintln(w, rule)
}

func printTurn(w io.Writer, loc i18n.Localizer, turn *memorag.Turn) {
	if turn.Search.Analysis == nil {
		fmt.Fprintln(w, loc.T(i18n.InvalidQuery))
		return
	}
	fmt.Fprintf(w, "\n%s: %s\n", loc.T(i18n.QueryLabel), turn.Search.Analysis.RawQuery)

	heading(w, fmt.Sprintf("%s (%s)", loc.T(i18n.SmartResponse), modeLabel(loc, turn.Answer.Mode)))
	fmt.Fprintln(w, turn.Answer.Text)

	heading(w, loc.T(i18n.Insights))
	for _, insight := range turn.Answer.Insights {
		fmt.Fprintf(w, "  - %s\n", insight)
	}

	heading(w, loc.T(i18n.DataSummary))
	results := turn.Search.Results
	if len(results) == 0 {
		fmt.Fprintln(w, loc.T(i18n.NoResults))
	} else {
		fmt.Fprintln(w, loc.F(i18n.FoundResults, len(results)))
		for i, c := range results {
			fmt.Fprintf(w, "%d. %s\n", i+1, describe(c))
			fmt.Fprintf(w, "   %s: %.1f | %s: %.3f\n",
				loc.T(i18n.QualityScore), c.RerankScore, loc.T(i18n.Similarity), c.Similarity)
		}
		if more := len(turn.Search.Ranked) - len(results); more > 0 {
			fmt.Fprintln(w, loc.F(i18n.MoreData, more))
		}
	}

	orgs := turn.Search.Analysis.Extracted.Organizations.Sorted()
	if len(orgs) == 0 {
		fmt.Fprintln(w, loc.T(i18n.NoCompanyInfo))
		return
	}
	fmt.Fprintf(w, "%s: %s\n", loc.T(i18n.ExtractedCompanies), strings.Join(orgs, ", "))
}

// describe renders a candidate as "Company (Year) - Indicator: Value",
// preferring stored metadata over fields recovered from the text.
func describe(c *core.Candidate) string {
	pick := func(key, derived string) string {
		if v := c.Metadata[key]; v != "" {
			return v
		}
		if derived != "" {
			return derived
		}
		return "N/A"
	}
	return fmt.Sprintf("%s (%s) - %s: %s",
		pick(core.MetaCompany, c.Derived.Organization),
		pick(core.MetaYear, c.Derived.Year),
		pick(core.MetaFieldName, c.Derived.Indicator),
		pick(core.MetaValue, c.Derived.Value))
}

func printHelp(w io.Writer, loc i18n.Localizer) {
	heading(w, loc.T(i18n.UsageHelp))

	fmt.Fprintf(w, "%s:\n", loc.T(i18n.QueryExamples))
	for _, example := range []string{
		"Alcoa Corp 2007 nitrogen oxide emissions",
		"A US Equity 2015 women workforce",
		"Compare carbon emissions of Alcoa and Agilent",
		"阿尔科公司2007年氮氧化物排放趋势",
	} {
		fmt.Fprintf(w, "  %s\n", example)
	}

	fmt.Fprintf(w, "\n%s:\n", loc.T(i18n.Commands))
	for _, id := range []i18n.MessageID{
		i18n.HelpHelp, i18n.HelpIndex, i18n.HelpMemory, i18n.HelpClear,
		i18n.HelpMode, i18n.HelpDebug, i18n.HelpQuit,
	} {
		fmt.Fprintf(w, "  %s\n", loc.T(id))
	}

	fmt.Fprintf(w, "\n%s:\n", loc.T(i18n.Tips))
	for _, id := range []i18n.MessageID{i18n.TipNatural, i18n.TipMixed, i18n.TipContext, i18n.TipHistory} {
		fmt.Fprintf(w, "  - %s\n", loc.T(id))
	}
}

func printReport(w io.Writer, loc i18n.Localizer, r session.Report) {
	if r.Empty() {
		fmt.Fprintln(w, loc.T(i18n.MemoryEmpty))
		return
	}
	heading(w, loc.T(i18n.MemoryReport))
	fmt.Fprintf(w, "%s: %d\n", loc.T(i18n.TotalQueries), r.Total)
	fmt.Fprintf(w, "%s: %d\n", loc.T(i18n.RecentQueries), r.Recent)
	printCounts(w, loc.T(i18n.PopularCompanies), r.TopCompanies)
	printCounts(w, loc.T(i18n.PopularYears), r.TopYears)
}

func printCounts(w io.Writer, title string, counts []session.Count) {
	if len(counts) == 0 {
		return
	}
	fmt.Fprintf(w, "%s:\n", title)
	for _, c := range counts {
		fmt.Fprintf(w, "  %s: %d\n", c.Value, c.Count)
	}
}

func printIndexStats(w io.Writer, loc i18n.Localizer, stats memorag.IndexStats) {
	heading(w, loc.T(i18n.IndexStats))
	fmt.Fprintf(w, "%s: %s\n", loc.T(i18n.CollectionName), stats.Collection)
	fmt.Fprintf(w, "%s: %d\n", loc.T(i18n.RecordCount), stats.Documents)
	if stats.Documents == 0 {
		fmt.Fprintln(w, loc.T(i18n.NoIndexData))
		return
	}
	fmt.Fprintf(w, "%s: %d\n", loc.T(i18n.IndexDimension), stats.Dimension)
}

func printAnalysis(w io.Writer, loc i18n.Localizer, a *core.QueryAnalysis) {
	if a == nil {
		return
	}
	heading(w, loc.T(i18n.DebugInfo))
	fmt.Fprintf(w, "%s: %s\n", loc.T(i18n.RawQuery), a.RawQuery)
	fmt.Fprintf(w, "%s: %s\n", loc.T(i18n.CleanedQuery), a.CleanedQuery)
	fmt.Fprintf(w, "%s: %s\n", loc.T(i18n.OptimizedQuery), a.OptimizedQuery)
	fmt.Fprintf(w, "%s:\n", loc.T(i18n.ExtractedInfo))
	for _, f := range []struct {
		name string
		set  core.StringSet
	}{
		{"organizations", a.Extracted.Organizations},
		{"years", a.Extracted.Years},
		{"indicators", a.Extracted.Indicators},
		{"codes", a.Extracted.IndicatorCodes},
		{"categories", a.Extracted.Categories},
		{"keywords", a.Extracted.Keywords},
	} {
		if f.set.Len() > 0 {
			fmt.Fprintf(w, "  %s: %s\n", f.name, strings.Join(f.set.Sorted(), ", "))
		}
	}
	fmt.Fprintf(w, "%s: %s\n", loc.T(i18n.QueryIntent), a.Intent)
	fmt.Fprintf(w, "%s: %.2f\n", loc.T(i18n.Confidence), a.Confidence)
}

// printBreakdown lists each scoring rule's contribution to the selected
// results.
func printBreakdown(w io.Writer, reranker *search.Reranker, result *search.Result) {
	if result.Analysis == nil || len(result.Results) == 0 {
		return
	}
	fmt.Fprintln(w)
	for i, c := range result.Results {
		parts := reranker.Breakdown(c, result.Analysis.Extracted)
		var terms []string
		for _, name := range slices.Sorted(maps.Keys(parts)) {
			if parts[name] != 0 {
				terms = append(terms, fmt.Sprintf("%s=%.1f", name, parts[name]))
			}
		}
		fmt.Fprintf(w, "%d. %s [%s]\n", i+1, c.ID, strings.Join(terms, " "))
	}
}
