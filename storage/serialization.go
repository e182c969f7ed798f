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


package storage

import (
	"fmt"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/memorag/core"
)

// IDMUS serializes core.ID values.
var IDMUS = idMUS{}

// InteractionRecordMUS serializes core.InteractionRecord values.
var InteractionRecordMUS = interactionRecordMUS{}

// AliasMUS serializes core.Alias values.
var AliasMUS = aliasMUS{}

type idMUS struct{}

func (idMUS) Size(id core.ID) int {
	return varint.Uint64.Size(uint64(id))
}

func (idMUS) Marshal(id core.ID, bs []byte) int {
	return varint.Uint64.Marshal(uint64(id), bs)
}

func (idMUS) Unmarshal(bs []byte) (core.ID, int, error) {
	v, n, err := varint.Uint64.Unmarshal(bs)
	return core.ID(v), n, err
}

// stringsMUS encodes a string slice as a varint length followed by its elements.
type stringsMUS struct{}

func (stringsMUS) Size(s []string) int {
	size := varint.Int.Size(len(s))
	for _, v := range s {
		size += ord.String.Size(v)
	}
	return size
}

func (stringsMUS) Marshal(s []string, bs []byte) int {
	n := varint.Int.Marshal(len(s), bs)
	for _, v := range s {
		n += ord.String.Marshal(v, bs[n:])
	}
	return n
}

func (stringsMUS) Unmarshal(bs []byte) ([]string, int, error) {
	length, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return nil, n, err
	}
	if length < 0 || length > len(bs) {
		return nil, n, ErrTruncatedData
	}
	if length == 0 {
		return nil, n, nil
	}
	out := make([]string, length)
	for i := range out {
		v, m, err := ord.String.Unmarshal(bs[n:])
		n += m
		if err != nil {
			return nil, n, err
		}
		out[i] = v
	}
	return out, n, nil
}

var stringsSer = stringsMUS{}

type interactionRecordMUS struct{}

func (interactionRecordMUS) Size(r core.InteractionRecord) int {
	return IDMUS.Size(r.Id) +
		varint.Int64.Size(r.Timestamp.UnixMicro()) +
		ord.String.Size(r.Query) +
		varint.Int.Size(r.ResultCount) +
		varint.Float64.Size(r.TopSimilarity) +
		stringsSer.Size(r.Organizations) +
		stringsSer.Size(r.Years) +
		stringsSer.Size(r.Indicators)
}

func (interactionRecordMUS) Marshal(r core.InteractionRecord, bs []byte) int {
	n := IDMUS.Marshal(r.Id, bs)
	n += varint.Int64.Marshal(r.Timestamp.UnixMicro(), bs[n:])
	n += ord.String.Marshal(r.Query, bs[n:])
	n += varint.Int.Marshal(r.ResultCount, bs[n:])
	n += varint.Float64.Marshal(r.TopSimilarity, bs[n:])
	n += stringsSer.Marshal(r.Organizations, bs[n:])
	n += stringsSer.Marshal(r.Years, bs[n:])
	n += stringsSer.Marshal(r.Indicators, bs[n:])
	return n
}

func (interactionRecordMUS) Unmarshal(bs []byte) (r core.InteractionRecord, n int, err error) {
	var m int
	if r.Id, m, err = IDMUS.Unmarshal(bs); err != nil {
		return
	}
	n += m

	var micros int64
	if micros, m, err = varint.Int64.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += m
	r.Timestamp = time.UnixMicro(micros).UTC()

	if r.Query, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += m
	if r.ResultCount, m, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += m
	if r.TopSimilarity, m, err = varint.Float64.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += m
	if r.Organizations, m, err = stringsSer.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += m
	if r.Years, m, err = stringsSer.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += m
	r.Indicators, m, err = stringsSer.Unmarshal(bs[n:])
	n += m
	return
}

type aliasMUS struct{}

func (aliasMUS) Size(a core.Alias) int {
	return ord.String.Size(a.Short) + ord.String.Size(a.Full)
}

func (aliasMUS) Marshal(a core.Alias, bs []byte) int {
	n := ord.String.Marshal(a.Short, bs)
	return n + ord.String.Marshal(a.Full, bs[n:])
}

func (aliasMUS) Unmarshal(bs []byte) (a core.Alias, n int, err error) {
	var m int
	if a.Short, m, err = ord.String.Unmarshal(bs); err != nil {
		return
	}
	n += m
	a.Full, m, err = ord.String.Unmarshal(bs[n:])
	n += m
	return
}

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, IDMUS.Size(id))
	IDMUS.Marshal(id, buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	id, _, err := IDMUS.Unmarshal(data)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return id, nil
}

// MarshalInteractionRecord serializes an InteractionRecord to bytes.
func MarshalInteractionRecord(record *core.InteractionRecord) []byte {
	buf := make([]byte, InteractionRecordMUS.Size(*record))
	InteractionRecordMUS.Marshal(*record, buf)
	return buf
}

// UnmarshalInteractionRecord deserializes an InteractionRecord from bytes.
func UnmarshalInteractionRecord(data []byte) (*core.InteractionRecord, error) {
	record, _, err := InteractionRecordMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &record, nil
}

// MarshalAlias serializes an Alias to bytes.
func MarshalAlias(alias core.Alias) []byte {
	buf := make([]byte, AliasMUS.Size(alias))
	AliasMUS.Marshal(alias, buf)
	return buf
}

// UnmarshalAlias deserializes an Alias from bytes.
func UnmarshalAlias(data []byte) (core.Alias, error) {
	alias, _, err := AliasMUS.Unmarshal(data)
	if err != nil {
		return core.Alias{}, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return alias, nil
}
