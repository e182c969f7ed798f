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


package core

import (
	"fmt"
	"strings"
	"time"
)

// ValidateInteractionRecord checks that a record is fit to be stored in history.
func ValidateInteractionRecord(record *InteractionRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidInteractionRecord)
	}

	if strings.TrimSpace(record.Query) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidInteractionRecord, ErrEmptyQuery)
	}

	if record.ResultCount < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidInteractionRecord, ErrNegativeResultCount)
	}

	if !IsValidTimestamp(record.Timestamp) {
		return fmt.Errorf("%w: %w", ErrInvalidInteractionRecord, ErrInvalidTimestamp)
	}

	return nil
}

// ValidateAlias checks that both sides of an alias pair are present.
func ValidateAlias(alias Alias) error {
	if strings.TrimSpace(alias.Short) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidAlias, ErrEmptyAliasShort)
	}
	if strings.TrimSpace(alias.Full) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidAlias, ErrEmptyAliasFull)
	}
	return nil
}

// IsValidTimestamp reports whether ts is not in the future.
func IsValidTimestamp(ts time.Time) bool {
	return !ts.After(time.Now())
}
