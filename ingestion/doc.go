// Package ingestion loads corpus exports into the fact index.
//
// Each CSV row is one observation of a company indicator in a year. A row
// becomes a document of the form
//
//	passage: {company} ({ticker}) in {year}: {field_name} (code={code}) = {value}
//
// with its columns copied into metadata, so retrieval can score on both the
// text and the structured fields. The Pipeline embeds rows in batches on a
// worker pool, retrying failed embedding calls with exponential backoff,
// and records every ticker/company pair as an organization alias.
package ingestion
