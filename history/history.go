// history/history.go
// Copyright(c) 2022-2025 console contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package history provides the fixed-capacity circular log of command
// lines entered into the console.
package history

import (
	"slices"
	"strings"
)

const DefaultCapacity = 100

// Buffer records the most recent lines in a circular array. Slots are
// addressed by record count modulo capacity; once full, each push
// overwrites the oldest entry.
type Buffer struct {
	record  int
	entries []string
}

func New(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Buffer{entries: make([]string, capacity)}
}

// PushBack records line, overwriting the oldest entry if the buffer is
// full.
func (b *Buffer) PushBack(line string) {
	b.entries[b.record%len(b.entries)] = line
	b.record++
}

// NewestIndex returns the slot of the most recently pushed line; 0 if
// nothing has been pushed.
func (b *Buffer) NewestIndex() int {
	if b.record == 0 {
		return 0
	}
	return (b.record - 1) % len(b.entries)
}

func (b *Buffer) Newest() string { return b.entries[b.NewestIndex()] }

// OldestIndex returns the slot of the oldest retained line: slot 0 until
// the buffer wraps, then the slot the next push will overwrite.
func (b *Buffer) OldestIndex() int {
	if b.record <= len(b.entries) {
		return 0
	}
	return b.record % len(b.entries)
}

func (b *Buffer) Oldest() string { return b.entries[b.OldestIndex()] }

// At returns the line in the given slot with no bounds checking; it is the
// caller's responsibility to stay within [0, Capacity()).
func (b *Buffer) At(index int) string { return b.entries[index] }

// Index is the checked accessor for external navigation (e.g. up/down
// keys): it reports whether the slot currently holds a recorded line.
func (b *Buffer) Index(index int) (string, bool) {
	if index < 0 || index >= b.Size() {
		return "", false
	}
	return b.entries[index], true
}

// Size returns the number of recorded lines, at most Capacity.
func (b *Buffer) Size() int {
	return min(b.record, len(b.entries))
}

func (b *Buffer) Capacity() int { return len(b.entries) }

func (b *Buffer) Clear() { b.record = 0 }

// Lines returns the retained lines ordered oldest to newest.
func (b *Buffer) Lines() []string {
	n := b.Size()
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, b.entries[(b.OldestIndex()+i)%len(b.entries)])
	}
	return out
}

// Clone returns an independent copy of the buffer.
func (b *Buffer) Clone() *Buffer {
	return &Buffer{record: b.record, entries: slices.Clone(b.entries)}
}

func (b *Buffer) String() string {
	var sb strings.Builder
	sb.WriteString("History:\n")
	for _, line := range b.Lines() {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return sb.String()
}
