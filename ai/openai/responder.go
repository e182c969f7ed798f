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


package openai

import (
	"context"
	"errors"
	"log/slog"

	"github.com/poiesic/memorag/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// ErrEmptyReply is returned when the chat service answers with no choices
// or only whitespace.
var ErrEmptyReply = errors.New("chat service returned an empty reply")

// Responder implements ai.Responder using OpenAI-compatible chat APIs.
type Responder struct {
	client      llms.Model
	temperature float64
	maxTokens   int
	logger      *slog.Logger
}

// newResponder is an internal constructor that returns the concrete type.
func newResponder(config *ai.Config) (*Responder, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if !config.HasResponder() {
		return nil, errors.New("ai config: ResponderToken is required for a responder")
	}

	client, err := openai.New(
		openai.WithBaseURL(config.ResponderHost),
		openai.WithToken(config.ResponderToken),
		openai.WithModel(config.ResponderModel),
	)
	if err != nil {
		return nil, err
	}

	return &Responder{
		client:      client,
		temperature: config.Temperature,
		maxTokens:   config.MaxTokens,
		logger:      slog.Default().With("component", "openai-responder", "model", config.ResponderModel),
	}, nil
}

// NewResponder creates a new responder using the provided configuration.
//
// Returns ai.Responder interface to enforce abstraction.
func NewResponder(config *ai.Config) (ai.Responder, error) {
	return newResponder(config)
}

// Respond sends prompt as a single user turn after the analyst system prompt.
// A single attempt is made; retry policy belongs to the caller.
func (r *Responder) Respond(ctx context.Context, prompt string) (string, error) {
	content := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(systemPrompt)},
		},
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(prompt)},
		},
	}

	response, err := r.client.GenerateContent(ctx, content,
		llms.WithTemperature(r.temperature),
		llms.WithMaxTokens(r.maxTokens),
	)
	if err != nil {
		r.logger.Warn("chat completion failed", "err", err)
		return "", err
	}
	if len(response.Choices) < 1 {
		return "", ErrEmptyReply
	}

	reply := cleanReply(response.Choices[0].Content)
	if reply == "" {
		return "", ErrEmptyReply
	}
	r.logger.Debug("chat completion", "promptLength", len(prompt), "replyLength", len(reply))
	return reply, nil
}
