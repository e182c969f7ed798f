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


package ai

import (
	"errors"
	"strings"
)

// Config holds configuration for AI service providers.
type Config struct {
	// EmbeddingHost is the base URL for the embedding service API.
	// Example: "http://localhost:11434/v1" for local OpenAI-compatible server
	EmbeddingHost string

	// ResponderHost is the base URL for the chat completion service used to
	// write answers.
	// Example: "https://api.deepseek.com/v1"
	ResponderHost string

	// EmbeddingModel is the model identifier to use for text embeddings.
	// It must be the model the corpus was embedded with.
	EmbeddingModel string

	// ResponderModel is the chat model identifier.
	ResponderModel string

	// EmbeddingToken authenticates against the embedding service. Local
	// servers accept any value.
	EmbeddingToken string

	// ResponderToken is the API key for the chat service. When empty no
	// responder is created and answers come from templates.
	ResponderToken string

	// Temperature is the sampling temperature for answers.
	// Default: 0.7
	Temperature float64

	// MaxTokens caps the length of a generated answer.
	// Default: 1000
	MaxTokens int
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithEmbeddingHost sets the embedding service host URL.
func WithEmbeddingHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
	}
}

// WithResponderHost sets the chat service host URL.
func WithResponderHost(host string) ConfigOption {
	return func(c *Config) {
		c.ResponderHost = host
	}
}

// WithHost sets both embedding and responder hosts to the same URL.
func WithHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
		c.ResponderHost = host
	}
}

// WithEmbeddingModel sets the embedding model identifier.
func WithEmbeddingModel(model string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingModel = model
	}
}

// WithResponderModel sets the chat model identifier.
func WithResponderModel(model string) ConfigOption {
	return func(c *Config) {
		c.ResponderModel = model
	}
}

// WithEmbeddingToken sets the embedding service token.
func WithEmbeddingToken(token string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingToken = token
	}
}

// WithResponderToken sets the chat service API key.
func WithResponderToken(token string) ConfigOption {
	return func(c *Config) {
		c.ResponderToken = token
	}
}

// WithTemperature sets the answer sampling temperature.
func WithTemperature(t float64) ConfigOption {
	return func(c *Config) {
		c.Temperature = t
	}
}

// WithMaxTokens sets the answer length cap.
func WithMaxTokens(n int) ConfigOption {
	return func(c *Config) {
		c.MaxTokens = n
	}
}

// DefaultConfig returns a Config for a local embedding server and the
// DeepSeek chat API. No responder token is set.
func DefaultConfig() *Config {
	return &Config{
		EmbeddingHost:  "http://localhost:11434/v1",
		ResponderHost:  "https://api.deepseek.com/v1",
		EmbeddingModel: "bge-m3",
		ResponderModel: "deepseek-chat",
		EmbeddingToken: "none",
		Temperature:    0.7,
		MaxTokens:      1000,
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
//
// Example:
//
//	cfg := NewConfig(
//	    WithEmbeddingHost("http://localhost:11434"),
//	    WithResponderToken(os.Getenv("DEEPSEEK_API_KEY")),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// HasResponder reports whether answer generation is configured.
func (c *Config) HasResponder() bool {
	return strings.TrimSpace(c.ResponderToken) != ""
}

// Normalize ensures the configuration is in a canonical form.
// It adds the /v1 suffix to hosts if missing, which OpenAI-compatible
// APIs expect.
func (c *Config) Normalize() {
	c.EmbeddingHost = withV1(c.EmbeddingHost)
	c.ResponderHost = withV1(c.ResponderHost)
	if c.EmbeddingToken == "" {
		c.EmbeddingToken = "none"
	}
}

func withV1(host string) string {
	if host == "" || strings.HasSuffix(host, "/v1") {
		return host
	}
	return strings.TrimSuffix(host, "/") + "/v1"
}

// Validate checks that the configuration is valid and complete.
// It normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	if c.EmbeddingHost == "" {
		return errors.New("ai config: EmbeddingHost is required")
	}
	if c.EmbeddingModel == "" {
		return errors.New("ai config: EmbeddingModel is required")
	}
	if c.HasResponder() {
		if c.ResponderHost == "" {
			return errors.New("ai config: ResponderHost is required")
		}
		if c.ResponderModel == "" {
			return errors.New("ai config: ResponderModel is required")
		}
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return errors.New("ai config: Temperature must be between 0 and 2")
	}
	if c.MaxTokens < 1 {
		return errors.New("ai config: MaxTokens must be positive")
	}
	return nil
}
