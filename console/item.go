// console/item.go
// Copyright(c) 2022-2025 console contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package console

import (
	"fmt"
	"time"
)

// ItemKind classifies entries in the interaction log.
type ItemKind int

const (
	// KindCommand echoes a dispatched command line.
	KindCommand ItemKind = iota
	// KindLog is ordinary output produced inside a command.
	KindLog
	// KindWarning and KindError surface problems to the client.
	KindWarning
	KindError
	// KindInfo is unprefixed informational output.
	KindInfo
	// KindNone marks an empty item; it is never appended to the log.
	KindNone
)

// processStart anchors item timestamps.
var processStart = time.Now()

// An Item is one entry of the interaction log: a kind fixed at creation, a
// millisecond timestamp relative to process start, and accumulated text.
// Text is append-only via Print/Printf.
type Item struct {
	Kind      ItemKind
	Timestamp int64 // milliseconds since process start
	Text      string
}

func newItem(kind ItemKind) *Item {
	return &Item{
		Kind:      kind,
		Timestamp: time.Since(processStart).Milliseconds(),
	}
}

// Print appends the arguments to the item's text, formatted as fmt.Sprint
// would, and returns the item for chaining.
func (it *Item) Print(a ...any) *Item {
	it.Text += fmt.Sprint(a...)
	return it
}

// Printf appends formatted text to the item and returns it for chaining.
func (it *Item) Printf(format string, a ...any) *Item {
	it.Text += fmt.Sprintf(format, a...)
	return it
}

// String renders the item with its display prefix; the presentation layer
// owns any further styling and line breaks.
func (it *Item) String() string {
	switch it.Kind {
	case KindCommand:
		return "> " + it.Text
	case KindLog:
		return "\t" + it.Text
	case KindWarning:
		return "\t[WARNING]: " + it.Text
	case KindError:
		return "[ERROR]: " + it.Text
	case KindInfo:
		return it.Text
	default:
		return ""
	}
}
