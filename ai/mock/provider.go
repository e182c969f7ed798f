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


package mock

import "github.com/poiesic/memorag/ai"

// MockProvider is a test double for ai.AIProvider.
// It aggregates a mock embedder and an optional mock responder.
type MockProvider struct {
	embedder  *MockEmbedder
	responder *MockResponder
}

// NewMockProvider creates a new mock provider with a default embedder and
// no responder, matching a deployment without a chat API key.
//
// Returns ai.AIProvider interface for consistency with production constructors.
func NewMockProvider() ai.AIProvider {
	return &MockProvider{embedder: NewMockEmbedder()}
}

// NewMockProviderWithServices creates a mock provider with custom mock services.
// A nil responder makes Responder() return nil.
func NewMockProviderWithServices(embedder *MockEmbedder, responder *MockResponder) ai.AIProvider {
	if embedder == nil {
		embedder = NewMockEmbedder()
	}
	return &MockProvider{
		embedder:  embedder,
		responder: responder,
	}
}

// Embedder returns the mock embedder.
func (p *MockProvider) Embedder() ai.Embedder {
	return p.embedder
}

// Responder returns the mock responder, or nil when none was supplied.
func (p *MockProvider) Responder() ai.Responder {
	if p.responder == nil {
		return nil
	}
	return p.responder
}

// Close is a no-op for mock provider.
func (p *MockProvider) Close() error {
	return nil
}

// GetMockEmbedder returns the underlying mock embedder for test assertions.
func (p *MockProvider) GetMockEmbedder() *MockEmbedder {
	return p.embedder
}

// GetMockResponder returns the underlying mock responder, which may be nil.
func (p *MockProvider) GetMockResponder() *MockResponder {
	return p.responder
}
