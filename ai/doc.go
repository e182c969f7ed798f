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


// Package ai provides abstractions for the model services memorag calls.
//
// Two services sit behind interfaces:
//
//   - Embedder: turns corpus records and optimized queries into vectors
//   - Responder: writes a natural-language answer from a prompt
//
// AIProvider aggregates both so they share configuration.
//
// # Implementation Packages
//
//   - ai/openai: OpenAI-compatible APIs through langchaingo (a local
//     embedding server, DeepSeek or OpenAI for chat)
//   - ai/mock: test doubles with deterministic vectors and injectable
//     behavior
//
// Public constructors in ai/openai return interface types. Mock
// constructors return concrete types so tests can read call counts and
// inject behavior.
//
// The Responder is optional. A Config without a ResponderToken yields a
// provider whose Responder method returns nil, and callers fall back to
// template answers.
package ai
