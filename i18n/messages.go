package i18n

import "sync"

// Answer templates.
const (
	NoData            MessageID = "no_data"
	OpeningTrend      MessageID = "opening_trend"
	OpeningComparison MessageID = "opening_comparison"
	OpeningSpecific   MessageID = "opening_specific"
	OpeningGeneral    MessageID = "opening_general"
	FoundRecords      MessageID = "found_records"
	CompaniesInvolved MessageID = "companies_involved"
	YearRange         MessageID = "year_range"
	MainIndicators    MessageID = "main_indicators"
	MissingValues     MessageID = "missing_values"
	TemporalTrend     MessageID = "temporal_trend"
	AdviseBroaden     MessageID = "advise_broaden"
	AdviseReview      MessageID = "advise_review"
	AnswerLanguage    MessageID = "answer_language"
)

// Insights.
const (
	InsightNone           MessageID = "insight_none"
	InsightHighSimilarity MessageID = "insight_high_similarity"
	InsightComplete       MessageID = "insight_complete"
	InsightCompanies      MessageID = "insight_companies"
	InsightYears          MessageID = "insight_years"
)

// Interactive session text.
const (
	Welcome         MessageID = "welcome"
	EnterQuery      MessageID = "enter_query"
	Prompt          MessageID = "prompt"
	InvalidQuery    MessageID = "invalid_query"
	ProcessingError MessageID = "processing_error"
	TryAgain        MessageID = "try_again"
	Goodbye         MessageID = "goodbye"

	QueryLabel         MessageID = "query"
	SmartResponse      MessageID = "smart_response"
	DataSummary        MessageID = "data_summary"
	FoundResults       MessageID = "found_results"
	NoResults          MessageID = "no_results"
	MoreData           MessageID = "more_data"
	QualityScore       MessageID = "quality_score"
	Similarity         MessageID = "similarity"
	ExtractedCompanies MessageID = "extracted_companies"
	NoCompanyInfo      MessageID = "no_company_info"
	Insights           MessageID = "insights"
	RetrievalDegraded  MessageID = "retrieval_degraded"

	UsageHelp     MessageID = "usage_help"
	QueryExamples MessageID = "query_examples"
	Commands      MessageID = "commands"
	Tips          MessageID = "tips"
	HelpHelp      MessageID = "help_help"
	HelpIndex     MessageID = "help_index"
	HelpMemory    MessageID = "help_memory"
	HelpClear     MessageID = "help_clear"
	HelpMode      MessageID = "help_mode"
	HelpDebug     MessageID = "help_debug"
	HelpQuit      MessageID = "help_quit"
	TipNatural    MessageID = "tip_natural"
	TipMixed      MessageID = "tip_mixed"
	TipContext    MessageID = "tip_context"
	TipHistory    MessageID = "tip_history"

	MemoryEmpty      MessageID = "memory_empty"
	MemoryReport     MessageID = "memory_report"
	TotalQueries     MessageID = "total_queries"
	RecentQueries    MessageID = "recent_queries"
	PopularCompanies MessageID = "popular_companies"
	PopularYears     MessageID = "popular_years"
	MemoryCleared    MessageID = "memory_cleared"

	IndexStats     MessageID = "index_stats"
	CollectionName MessageID = "collection_name"
	RecordCount    MessageID = "record_count"
	IndexDimension MessageID = "index_dimension"
	NoIndexData    MessageID = "no_index_data"

	DebugOn        MessageID = "debug_on"
	DebugOff       MessageID = "debug_off"
	DebugInfo      MessageID = "debug_info"
	RawQuery       MessageID = "raw_query"
	CleanedQuery   MessageID = "cleaned_query"
	OptimizedQuery MessageID = "optimized_query"
	ExtractedInfo  MessageID = "extracted_info"
	QueryIntent    MessageID = "query_intent"
	Confidence     MessageID = "confidence"

	LLMMode        MessageID = "llm_mode"
	BasicMode      MessageID = "basic_mode"
	SwitchedToMode MessageID = "switched_to_mode"
	NoLLM          MessageID = "no_llm"
)

var defaultEntries = map[MessageID]map[Locale]string{
	NoData: {
		English: "Sorry, no data related to your query was found. Please try adjusting your query conditions or check if the data exists.",
		Chinese: "很抱歉，没有找到与您查询相关的数据。请尝试调整查询条件或检查数据是否存在。",
	},
	OpeningTrend:      {English: "Based on trend analysis,", Chinese: "根据趋势分析，"},
	OpeningComparison: {English: "Through comparative analysis,", Chinese: "通过对比分析，"},
	OpeningSpecific:   {English: "Specific data shows,", Chinese: "具体数据显示，"},
	OpeningGeneral:    {English: "Based on query results,", Chinese: "根据查询结果，"},
	FoundRecords:      {English: "I found %d relevant data records.", Chinese: "我找到了 %d 条相关数据。"},
	CompaniesInvolved: {English: "Companies involved include: %s.", Chinese: "涉及的公司包括: %s。"},
	YearRange:         {English: "Data year range: %s-%s.", Chinese: "数据年份范围: %s-%s。"},
	MainIndicators:    {English: "Main indicators include: %s.", Chinese: "主要指标包括: %s。"},
	MissingValues:     {English: "Note: %d records are missing or NaN.", Chinese: "注意：有 %d 条数据缺失或为NaN值。"},
	TemporalTrend: {
		English: "From a temporal perspective, the data shows certain trends.",
		Chinese: "从时间维度看，数据呈现一定的变化趋势。",
	},
	AdviseBroaden: {
		English: "Recommendation: much of the data is missing; consider broadening the data source or adjusting the query.",
		Chinese: "建议：数据缺失较多，建议扩大数据源或调整查询条件。",
	},
	AdviseReview: {
		English: "I recommend reviewing specific data details for more accurate information.",
		Chinese: "建议您查看具体数据详情以获取更准确的信息。",
	},
	AnswerLanguage: {English: "English", Chinese: "Chinese (中文)"},

	InsightNone:           {English: "No related data found", Chinese: "没有找到相关数据"},
	InsightHighSimilarity: {English: "%d highly relevant records (similarity > 0.8)", Chinese: "发现 %d 条高相关性数据（相似度>0.8）"},
	InsightComplete:       {English: "Data completeness is good, %d records complete", Chinese: "数据完整性良好，%d 条记录完整"},
	InsightCompanies:      {English: "%d companies involved: %s", Chinese: "涉及 %d 家公司: %s"},
	InsightYears:          {English: "Data year range: %s-%s", Chinese: "数据年份范围: %s-%s"},

	Welcome:         {English: "Welcome to the MemoRAG ESG system!", Chinese: "欢迎使用MemoRAG ESG系统！"},
	EnterQuery:      {English: "Enter your ESG query, or type 'help' for help", Chinese: "输入您的ESG查询，或输入 'help' 查看帮助"},
	Prompt:          {English: "Please enter your query", Chinese: "请输入您的查询"},
	InvalidQuery:    {English: "Please enter a valid query", Chinese: "请输入有效的查询"},
	ProcessingError: {English: "Error processing query", Chinese: "处理查询时出错"},
	TryAgain:        {English: "Please try entering the query again", Chinese: "请尝试重新输入查询"},
	Goodbye:         {English: "Thank you for using! Goodbye!", Chinese: "感谢使用！再见！"},

	QueryLabel:         {English: "Query", Chinese: "查询"},
	SmartResponse:      {English: "Response", Chinese: "智能回答"},
	DataSummary:        {English: "Data Summary", Chinese: "数据摘要"},
	FoundResults:       {English: "Found %d relevant records (sorted by quality)", Chinese: "找到 %d 条相关数据（已按质量重排序）"},
	NoResults:          {English: "No relevant results found", Chinese: "没有找到相关结果"},
	MoreData:           {English: "%d more records available", Chinese: "还有 %d 条数据"},
	QualityScore:       {English: "Quality score", Chinese: "分数"},
	Similarity:         {English: "Similarity", Chinese: "相似度"},
	ExtractedCompanies: {English: "Extracted companies", Chinese: "提取到的公司"},
	NoCompanyInfo:      {English: "No company information extracted", Chinese: "未提取到公司信息"},
	Insights:           {English: "Insights", Chinese: "洞察"},
	RetrievalDegraded:  {English: "The similarity index is unavailable; showing no results", Chinese: "相似度索引不可用，无结果"},

	UsageHelp:     {English: "Usage Help", Chinese: "使用帮助"},
	QueryExamples: {English: "Query Examples", Chinese: "查询示例"},
	Commands:      {English: "Commands", Chinese: "命令"},
	Tips:          {English: "Tips", Chinese: "提示"},
	HelpHelp:      {English: "help (帮助) - display help information", Chinese: "帮助 (help) - 显示帮助信息"},
	HelpIndex:     {English: "collections (集合) - display the fact index", Chinese: "集合 (collections) - 显示数据索引"},
	HelpMemory:    {English: "memory (记忆) - display the history report", Chinese: "记忆 (memory) - 显示历史报告"},
	HelpClear:     {English: "clear (清空) - clear history", Chinese: "清空 (clear) - 清空历史"},
	HelpMode:      {English: "mode (模式) - toggle response mode (LLM/basic)", Chinese: "模式 (mode) - 切换回答模式 (LLM/基础)"},
	HelpDebug:     {English: "debug (调试) - toggle debug output", Chinese: "调试 (debug) - 开启/关闭调试模式"},
	HelpQuit:      {English: "quit/exit (退出) - leave", Chinese: "退出 (quit/exit) - 退出系统"},
	TipNatural:    {English: "Supports natural language queries", Chinese: "支持自然语言查询"},
	TipMixed:      {English: "Supports mixed English and Chinese queries", Chinese: "支持中英文混合查询"},
	TipContext:    {English: "Follow-up questions reuse the previous company and indicator", Chinese: "支持上下文查询"},
	TipHistory:    {English: "Remembers your query history", Chinese: "系统会记住您的查询历史"},

	MemoryEmpty:      {English: "History is empty", Chinese: "记忆库为空"},
	MemoryReport:     {English: "History Report", Chinese: "记忆报告"},
	TotalQueries:     {English: "Total queries", Chinese: "总查询数"},
	RecentQueries:    {English: "Queries in the last 7 days", Chinese: "最近查询"},
	PopularCompanies: {English: "Popular companies", Chinese: "热门公司"},
	PopularYears:     {English: "Popular years", Chinese: "热门年份"},
	MemoryCleared:    {English: "History cleared", Chinese: "记忆已清空"},

	IndexStats:     {English: "Fact Index", Chinese: "数据索引"},
	CollectionName: {English: "Collection", Chinese: "集合名称"},
	RecordCount:    {English: "Record count", Chinese: "记录数量"},
	IndexDimension: {English: "Embedding dimension", Chinese: "嵌入维度"},
	NoIndexData:    {English: "The fact index is empty; run ingest first", Chinese: "数据索引为空，请先运行 ingest"},

	DebugOn:        {English: "Debug mode enabled", Chinese: "调试模式已开启"},
	DebugOff:       {English: "Debug mode disabled", Chinese: "调试模式已关闭"},
	DebugInfo:      {English: "Debug Information", Chinese: "调试信息"},
	RawQuery:       {English: "Raw query", Chinese: "原始查询"},
	CleanedQuery:   {English: "Cleaned query", Chinese: "清理后查询"},
	OptimizedQuery: {English: "Optimized query", Chinese: "优化查询"},
	ExtractedInfo:  {English: "Extracted information", Chinese: "提取信息"},
	QueryIntent:    {English: "Query intent", Chinese: "查询意图"},
	Confidence:     {English: "Confidence", Chinese: "置信度"},

	LLMMode:        {English: "LLM response", Chinese: "LLM智能回答"},
	BasicMode:      {English: "basic response", Chinese: "基础回答"},
	SwitchedToMode: {English: "Switched to %s", Chinese: "已切换到%s"},
	NoLLM:          {English: "No LLM configured, cannot switch modes", Chinese: "未配置LLM，无法切换模式"},
}

var defaultCatalog = sync.OnceValue(func() *Catalog {
	return NewCatalog(defaultEntries)
})

// Default returns the built-in English and Chinese catalog.
func Default() *Catalog {
	return defaultCatalog()
}
