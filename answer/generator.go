package answer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/poiesic/memorag/ai"
	"github.com/poiesic/memorag/core"
	"github.com/poiesic/memorag/i18n"
)

const (
	// DefaultAttempts is how many times a responder is called before the
	// template answer is used instead.
	DefaultAttempts = 3

	// DefaultRetryDelay is the pause between responder attempts.
	DefaultRetryDelay = 2 * time.Second
)

// Mode selects how answers are written.
type Mode int

const (
	ModeTemplate Mode = iota
	ModeLLM
)

func (m Mode) String() string {
	if m == ModeLLM {
		return "llm"
	}
	return "template"
}

// Answer is the text shown for one query together with its insights.
type Answer struct {
	Text     string
	Insights []string

	// Mode is the mode that produced Text. It is ModeTemplate whenever the
	// responder was skipped or failed.
	Mode Mode

	// Err holds the responder failure that caused a fallback, if any.
	Err error
}

// Generator writes answers from ranked results, through a responder when
// one is configured and requested, and from templates otherwise.
type Generator struct {
	responder  ai.Responder
	catalog    *i18n.Catalog
	attempts   int
	retryDelay time.Duration
	logger     *slog.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithAttempts sets the number of responder attempts. Values below 1 are
// ignored.
func WithAttempts(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.attempts = n
		}
	}
}

// WithRetryDelay sets the pause between responder attempts.
func WithRetryDelay(d time.Duration) Option {
	return func(g *Generator) {
		if d >= 0 {
			g.retryDelay = d
		}
	}
}

// WithCatalog replaces the built-in message catalog.
func WithCatalog(c *i18n.Catalog) Option {
	return func(g *Generator) {
		if c != nil {
			g.catalog = c
		}
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) {
		if logger == nil {
			logger = slog.Default()
		}
		g.logger = logger
	}
}

// NewGenerator creates a generator. responder may be nil, in which case
// every answer comes from the templates.
func NewGenerator(responder ai.Responder, opts ...Option) *Generator {
	g := &Generator{
		responder:  responder,
		catalog:    i18n.Default(),
		attempts:   DefaultAttempts,
		retryDelay: DefaultRetryDelay,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.logger = g.logger.With("component", "answer-generator")
	return g
}

// HasResponder reports whether LLM answers are available.
func (g *Generator) HasResponder() bool {
	return g.responder != nil
}

// Generate answers analysis from results in locale. With ModeLLM and at
// least one result the responder is tried up to the configured number of
// attempts; any failure falls back to Template and is recorded in
// Answer.Err.
func (g *Generator) Generate(ctx context.Context, analysis *core.QueryAnalysis, results []*core.Candidate, mode Mode, locale i18n.Locale) Answer {
	loc := g.catalog.For(locale)
	intent := core.IntentGeneral
	raw := ""
	if analysis != nil {
		intent = analysis.Intent
		raw = analysis.RawQuery
	}

	out := Answer{Insights: Insights(results, loc), Mode: ModeTemplate}
	if mode == ModeLLM && len(results) > 0 {
		text, err := g.respond(ctx, raw, results, Context(analysis), locale)
		if err == nil {
			out.Text = text
			out.Mode = ModeLLM
			return out
		}
		g.logger.Warn("falling back to template answer", "err", err)
		out.Err = err
	}

	out.Text = Template(intent, results, loc)
	return out
}

func (g *Generator) respond(ctx context.Context, query string, results []*core.Candidate, note string, locale i18n.Locale) (string, error) {
	if g.responder == nil {
		return "", ErrNoResponder
	}

	prompt := BuildPrompt(query, results, note, locale)
	var reply string
	err := retry(ctx, g.logger, g.attempts, g.retryDelay, func() error {
		var err error
		reply, err = g.responder.Respond(ctx, prompt)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("after %d attempts: %w", g.attempts, err)
	}
	return reply, nil
}
