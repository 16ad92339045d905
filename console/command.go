// console/command.go
// Copyright(c) 2022-2025 console contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package console

import (
	"fmt"
	"reflect"

	"github.com/mmp/console/args"
)

// A Command is a registered, callable entry in the system. Besides the user
// commands registered by the embedding application, the registry synthesizes
// help/set/get commands with the same shape.
type Command interface {
	Name() string
	Description() string
	// Help formats the usage line: the command name, its parameters as
	// " [name:type]", and the description on an indented second line.
	Help() string
	ArgCount() int

	clone() Command
	// run parses the command's arguments from l starting at pos and, on
	// success, invokes the handler. A non-nil returned item carries output
	// or an error for the interaction log; parse errors are prefixed with
	// the command name.
	run(s *System, l *args.Line, pos int) *Item
}

type command struct {
	name        string
	description string
	params      []args.Argument
	// call receives the owning system and the parsed argument values, one
	// per declared parameter.
	call func(s *System, vals []reflect.Value) *Item
}

func (c *command) Name() string        { return c.name }
func (c *command) Description() string { return c.description }
func (c *command) ArgCount() int       { return len(c.params) }

func (c *command) Help() string {
	h := c.name
	for i := range c.params {
		h += c.params[i].Info()
	}
	return h + "\n\t\t- " + c.description + "\n\n"
}

func (c *command) clone() Command {
	dup := &command{
		name:        c.name,
		description: c.description,
		params:      append([]args.Argument(nil), c.params...),
		call:        c.call,
	}
	return dup
}

func (c *command) run(s *System, l *args.Line, pos int) *Item {
	vals := make([]reflect.Value, len(c.params))
	for i := range c.params {
		if err := c.params[i].Parse(l, &pos); err != nil {
			return newItem(KindError).Printf("%s: %v", c.name, err)
		}
		vals[i] = c.params[i].Value()
	}
	if err := args.ExpectEnd(l, &pos); err != nil {
		return newItem(KindError).Printf("%s: %v", c.name, err)
	}
	return c.call(s, vals)
}

// checkHandler validates a user-supplied handler against the declared
// parameters: it must be a non-nil, non-variadic function with no results
// whose parameter types match the declared argument types exactly.
func checkHandler(handler any, params []args.Argument) (reflect.Value, error) {
	h := reflect.ValueOf(handler)
	if !h.IsValid() || h.Kind() != reflect.Func || h.IsNil() {
		return reflect.Value{}, ErrInvalidHandler
	}

	t := h.Type()
	if t.IsVariadic() || t.NumOut() != 0 {
		return reflect.Value{}, fmt.Errorf("%s: %w", t, ErrHandlerMismatch)
	}
	if t.NumIn() != len(params) {
		return reflect.Value{}, fmt.Errorf("%s: expected %d parameters: %w", t,
			len(params), ErrHandlerMismatch)
	}
	for i := range params {
		if t.In(i) != params[i].Type() {
			return reflect.Value{}, fmt.Errorf("%s: parameter %d is %s, not %s: %w", t,
				i, t.In(i), params[i].Type(), ErrHandlerMismatch)
		}
	}
	return h, nil
}

// newCommand wires a validated handler into a command; the handler neither
// sees the system nor produces an item, so call discards both.
func newCommand(name, description string, handler any, params []args.Argument) (*command, error) {
	h, err := checkHandler(handler, params)
	if err != nil {
		return nil, err
	}
	return &command{
		name:        name,
		description: description,
		params:      params,
		call: func(s *System, vals []reflect.Value) *Item {
			h.Call(vals)
			return nil
		},
	}, nil
}
