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

import "errors"

var (
	// ErrInvalidInteractionRecord indicates an InteractionRecord failed validation.
	ErrInvalidInteractionRecord = errors.New("invalid interaction record")

	// ErrInvalidAlias indicates an Alias failed validation.
	ErrInvalidAlias = errors.New("invalid alias")

	// ErrInvalidTimestamp indicates a timestamp is in the future.
	ErrInvalidTimestamp = errors.New("timestamp cannot be in the future")

	// ErrEmptyQuery indicates the Query field is empty.
	ErrEmptyQuery = errors.New("query cannot be empty")

	// ErrNegativeResultCount indicates a negative ResultCount.
	ErrNegativeResultCount = errors.New("result count cannot be negative")

	// ErrEmptyAliasShort indicates the alias shorthand is empty.
	ErrEmptyAliasShort = errors.New("alias shorthand cannot be empty")

	// ErrEmptyAliasFull indicates the alias full name is empty.
	ErrEmptyAliasFull = errors.New("alias full name cannot be empty")
)
