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


package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/poiesic/memorag/answer"
	"github.com/poiesic/memorag/i18n"
)

// Config holds the settings of an interactive session.
type Config struct {
	// HistoryCapacity bounds the in-memory history kept alongside the
	// persistent log.
	// Default: 1000
	HistoryCapacity int

	// RecentWindow is how far back a report counts a query as recent.
	// Default: 7 days
	RecentWindow time.Duration

	// TopN is how many companies and years a report lists.
	// Default: 5
	TopN int

	// Locale selects the language of answers and labels.
	// Default: English
	Locale i18n.Locale

	// Mode is the initial answer mode.
	// Default: answer.ModeTemplate
	Mode answer.Mode
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithHistoryCapacity sets the in-memory history bound.
func WithHistoryCapacity(n int) ConfigOption {
	return func(c *Config) {
		c.HistoryCapacity = n
	}
}

// WithRecentWindow sets the report's recent window.
func WithRecentWindow(d time.Duration) ConfigOption {
	return func(c *Config) {
		c.RecentWindow = d
	}
}

// WithTopN sets how many companies and years a report lists.
func WithTopN(n int) ConfigOption {
	return func(c *Config) {
		c.TopN = n
	}
}

// WithLocale sets the session language.
func WithLocale(l i18n.Locale) ConfigOption {
	return func(c *Config) {
		c.Locale = l
	}
}

// WithMode sets the initial answer mode.
func WithMode(m answer.Mode) ConfigOption {
	return func(c *Config) {
		c.Mode = m
	}
}

// DefaultConfig returns the default session settings.
func DefaultConfig() *Config {
	return &Config{
		HistoryCapacity: 1000,
		RecentWindow:    7 * 24 * time.Hour,
		TopN:            5,
		Locale:          i18n.English,
		Mode:            answer.ModeTemplate,
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize fills unset fields with their defaults.
func (c *Config) Normalize() {
	d := DefaultConfig()
	if c.HistoryCapacity == 0 {
		c.HistoryCapacity = d.HistoryCapacity
	}
	if c.RecentWindow == 0 {
		c.RecentWindow = d.RecentWindow
	}
	if c.TopN == 0 {
		c.TopN = d.TopN
	}
	if c.Locale == "" {
		c.Locale = d.Locale
	}
}

// Validate checks that the configuration is valid and complete.
// It normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	if c.HistoryCapacity < 1 {
		return errors.New("session config: HistoryCapacity must be at least 1")
	}
	if c.RecentWindow < 0 {
		return errors.New("session config: RecentWindow must not be negative")
	}
	if c.TopN < 1 {
		return errors.New("session config: TopN must be at least 1")
	}
	if _, err := i18n.ParseLocale(string(c.Locale)); err != nil {
		return fmt.Errorf("session config: %w", err)
	}
	return nil
}
