// args/args.go
// Copyright(c) 2022-2025 console contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package args implements the lexical scanner and the typed positional
// argument grammar used by the console command registry.
//
// The textual format: arguments are whitespace-delimited; the reserved
// characters \ [ ] " must be escaped with a backslash to appear literally;
// strings may be bare words or double-quoted (spanning embedded
// whitespace); lists are bracketed, whitespace-separated, and nest; boolean
// literals are case-insensitive true/false.
package args

import (
	"fmt"
	"reflect"
)

// An Argument is one declared parameter of a registered command: a name, a
// parse rule fixed at construction, and the most recently parsed value.
// Arguments are built with New and are reparsed on every invocation of the
// owning command.
type Argument struct {
	name  string
	typ   reflect.Type
	parse parseFunc
	value reflect.Value
}

// New returns an Argument holding values of type T. It panics if T is not
// a supported argument type; registration-time construction makes that a
// hard failure at the registering call site rather than a latent dispatch
// error.
func New[T any](name string) Argument {
	t := reflect.TypeOf((*T)(nil)).Elem()
	parse, err := parserFor(t)
	if err != nil {
		panic(fmt.Sprintf("args.New[%s](%q): %v", t, name, err))
	}
	return Argument{name: name, typ: t, parse: parse}
}

// Supported reports whether t is a valid argument type.
func Supported(t reflect.Type) bool {
	_, err := parserFor(t)
	return err == nil
}

func (a *Argument) Name() string { return a.name }

// Type returns the Go type a parsed value will have; the registry matches
// it against the corresponding handler parameter.
func (a *Argument) Type() reflect.Type { return a.typ }

// Value returns the value from the most recent successful Parse.
func (a *Argument) Value() reflect.Value { return a.value }

// Info formats the argument for help text, as " [name:type]".
func (a *Argument) Info() string {
	return " [" + a.name + ":" + typeName(a.typ) + "]"
}

// Parse consumes this argument's text from the line starting at *pos and
// records the parsed value. It is an error if no further token remains.
func (a *Argument) Parse(l *Line, pos *int) error {
	if l.peekToken(*pos) == l.End() {
		return fmt.Errorf("not enough arguments were given: %q", l)
	}
	v, err := a.parse(l, pos)
	if err != nil {
		return err
	}
	a.value = v
	return nil
}

// ExpectEnd verifies that only whitespace remains after *pos. It plays the
// role of a trailing null argument: surplus text is a parse error rather
// than being silently dropped.
func ExpectEnd(l *Line, pos *int) error {
	if l.peekToken(*pos) != l.End() {
		return fmt.Errorf("too many arguments were given: %q", l)
	}
	return nil
}
