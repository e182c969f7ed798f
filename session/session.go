package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/poiesic/memorag/answer"
	"github.com/poiesic/memorag/core"
	"github.com/poiesic/memorag/i18n"
	"github.com/poiesic/memorag/storage"
)

// Session is the state of one interactive conversation: the previous query
// used for context carry-over, the answer mode and language, and the
// query history. History goes to a persistent log when one is configured
// and is always mirrored in a bounded in-memory list, which serves reads
// when the log is absent or failing.
type Session struct {
	mu        sync.Mutex
	id        string
	config    Config
	history   storage.HistoryRepository
	memory    []*core.InteractionRecord
	lastQuery string
	mode      answer.Mode
	locale    i18n.Locale
	debug     bool
	now       func() time.Time
	logger    *slog.Logger
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
	}
}

// WithClock sets the time source for record timestamps and reports.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates a session. history may be nil for a memory-only session;
// a nil config selects DefaultConfig.
func New(history storage.HistoryRepository, config *Config, opts ...Option) (*Session, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	s := &Session{
		id:      uuid.NewString(),
		config:  *config,
		history: history,
		mode:    config.Mode,
		locale:  config.Locale,
		now:     time.Now,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "session", "session", s.id)
	return s, nil
}

// ID returns the random identifier assigned to the session at creation.
func (s *Session) ID() string {
	return s.id
}

// LastQuery returns the raw text of the previous query, or "".
func (s *Session) LastQuery() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastQuery
}

// Record makes analysis the previous query and appends its summary to the
// history. A persistence failure is logged and the in-memory copy kept.
func (s *Session) Record(ctx context.Context, analysis *core.QueryAnalysis, results []*core.Candidate) *core.InteractionRecord {
	if analysis == nil {
		return nil
	}

	s.mu.Lock()
	s.lastQuery = analysis.RawQuery
	rec := NewRecord(analysis.RawQuery, results, s.now())
	s.memory = append(s.memory, rec)
	if over := len(s.memory) - s.config.HistoryCapacity; over > 0 {
		s.memory = s.memory[over:]
	}
	s.mu.Unlock()

	if s.history == nil {
		return rec
	}
	stored, err := s.history.AppendInteraction(ctx, rec)
	if err != nil {
		s.logger.Warn("failed to persist interaction", "err", err)
		return rec
	}
	return stored
}

// Interactions returns up to limit history records, oldest first. A limit
// <= 0 returns all of them.
func (s *Session) Interactions(ctx context.Context, limit int) []*core.InteractionRecord {
	if s.history != nil {
		records, err := s.history.RecentInteractions(ctx, limit)
		if err == nil {
			return records
		}
		s.logger.Warn("failed to read history, using in-memory copy", "err", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	start := 0
	if limit > 0 && len(s.memory) > limit {
		start = len(s.memory) - limit
	}
	out := make([]*core.InteractionRecord, len(s.memory)-start)
	copy(out, s.memory[start:])
	return out
}

// Report summarizes the whole history.
func (s *Session) Report(ctx context.Context) Report {
	return BuildReport(s.Interactions(ctx, 0), s.now(), s.config.RecentWindow, s.config.TopN)
}

// Clear removes every history record. The previous query is kept so the
// next turn can still refer to it.
func (s *Session) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.memory = nil
	s.mu.Unlock()

	if s.history == nil {
		return nil
	}
	return s.history.ClearInteractions(ctx)
}

// Mode returns the current answer mode.
func (s *Session) Mode() answer.Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// ToggleMode switches between template and LLM answers. When llmAvailable
// is false the mode stays template and ok is false.
func (s *Session) ToggleMode(llmAvailable bool) (mode answer.Mode, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !llmAvailable {
		s.mode = answer.ModeTemplate
		return s.mode, false
	}
	if s.mode == answer.ModeLLM {
		s.mode = answer.ModeTemplate
	} else {
		s.mode = answer.ModeLLM
	}
	return s.mode, true
}

// Locale returns the session language.
func (s *Session) Locale() i18n.Locale {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.locale
}

// SetLocale changes the session language.
func (s *Session) SetLocale(l i18n.Locale) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locale = l
}

// Debug reports whether analysis details are shown.
func (s *Session) Debug() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.debug
}

// ToggleDebug flips debug output and returns the new state.
func (s *Session) ToggleDebug() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.debug = !s.debug
	return s.debug
}
