// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package query turns free-text questions about the ESG fact corpus into
// structured, searchable form.
//
// The pipeline for a single turn is:
//   - Clean normalizes whitespace and punctuation
//   - Extractor pulls organizations, years, indicators, codes and taxonomy
//     categories out of the cleaned text using ordered rule tables
//   - ContextResolver backfills organizations and indicators from the
//     previous turn when the current one lacks them
//   - IntentClassifier labels the query by keyword
//   - Optimizer builds the search string sent to the embedding model,
//     expanding ticker and legal-name aliases
//
// Analyzer wires these together and produces a core.QueryAnalysis.
// Annotator reuses the rule machinery with a smaller first-match-wins rule
// set to recover single-valued facts from stored corpus records.
//
// Nothing in this package returns an error: a rule that does not match
// simply leaves its field empty.
package query
