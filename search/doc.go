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


// Package search retrieves and ranks ESG facts for an analyzed query.
//
// A search runs these stages in order:
//   - query.Analyzer extracts entities, resolves context and builds the
//     optimized search string
//   - Retriever embeds that string and oversamples the fact index
//   - MatchScorer keeps candidates sharing a year, organization or code
//     with the query, failing open when nothing would survive
//   - Reranker sums named score rules and stable-sorts
//   - Select truncates to the requested count
//
// Retrieval failures never escape Search: they are logged and reported on
// Result.Err alongside an empty result list.
package search
