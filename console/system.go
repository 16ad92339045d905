// console/system.go
// Copyright(c) 2022-2025 console contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package console implements an embeddable command interpreter: a registry
// of typed commands and variables, autocomplete indices, a circular command
// history, registered scripts, and an interaction log. The presentation
// layer (REPL, GUI widget, ...) is the caller's business; the engine is
// synchronous and does no locking of its own.
package console

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/brunoga/deep"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/mmp/console/args"
	"github.com/mmp/console/history"
	"github.com/mmp/console/log"
	"github.com/mmp/console/trie"
	"github.com/mmp/console/util"
)

const (
	wordSet  = "set"
	wordGet  = "get"
	wordHelp = "help"

	errNoVariable   = "no variable provided"
	errUnknownEntry = "command doesn't exist and/or variable is not registered"
)

// suggestion cache sizing; entries also age out so that a cache that was
// populated just before a burst of registrations doesn't pin stale results
// forever if a purge is somehow missed.
const (
	suggestCacheSize = 256
	suggestCacheTTL  = time.Minute
)

type completion struct {
	completed string
	options   []string
}

// A System owns all interpreter state. The zero value is not usable; call
// New. Accessors return live references, not snapshots.
type System struct {
	commands map[string]Command
	scripts  map[string]*Script
	cmdTree  *trie.Tree
	varTree  *trie.Tree
	history  *history.Buffer
	items    []*Item
	suggest  *expirable.LRU[string, completion]
	lg       *log.Logger
}

// New returns an initialized System with the built-in help command
// registered and the set/get keywords available for autocomplete. lg may be
// nil, in which case structured logging is disabled.
func New(lg *log.Logger) *System {
	s := &System{
		commands: make(map[string]Command),
		scripts:  make(map[string]*Script),
		cmdTree:  trie.New(),
		varTree:  trie.New(),
		history:  history.New(history.DefaultCapacity),
		suggest:  expirable.NewLRU[string, completion](suggestCacheSize, nil, suggestCacheTTL),
		lg:       lg,
	}

	s.commands[wordHelp] = &command{
		name:        wordHelp,
		description: "Display commands information",
		call: func(sys *System, _ []reflect.Value) *Item {
			sys.Log(KindLog).Print("help [command_name:string] (optional)\n\t\t- Display command(s) information\n\n")
			sys.Log(KindLog).Print("set [variable_name:string] [data]\n\t\t- Assign data to given variable\n\n")
			sys.Log(KindLog).Print("get [variable_name:string]\n\t\t- Display data of given variable\n\n")

			// Skip the synthesized help/set/get entries and help itself.
			names := util.FilterSlice(util.SortedMapKeys(sys.commands),
				func(name string) bool {
					return name != wordHelp && !strings.ContainsRune(name, ' ')
				})
			for _, name := range names {
				sys.Log(KindLog).Print(sys.commands[name].Help())
			}
			return nil
		},
	}
	s.addHelp(wordHelp)
	s.cmdTree.Insert(wordHelp)
	s.varTree.Insert(wordHelp)

	s.cmdTree.Insert(wordSet)
	s.cmdTree.Insert(wordGet)

	return s
}

// addHelp synthesizes the "help <name>" companion of a registered command.
// The target is looked up at call time so that a copied System resolves it
// in its own registry.
func (s *System) addHelp(name string) {
	s.commands[wordHelp+" "+name] = &command{
		name:        wordHelp + " " + name,
		description: "Displays help info about command " + name,
		call: func(sys *System, _ []reflect.Value) *Item {
			if c, ok := sys.commands[name]; ok {
				sys.Log(KindLog).Print(c.Help())
			}
			return nil
		},
	}
}

// validName requires a single non-empty whitespace-free token.
func validName(name string) bool {
	return name != "" && strings.IndexFunc(name, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n' || r == '\v' || r == '\f' || r == '\r'
	}) == -1
}

///////////////////////////////////////////////////////////////////////////
// Registration

// RegisterCommand adds a named command. The handler must be a function with
// no results whose parameters correspond one-to-one, by exact type, to the
// declared arguments; params supplies their names and types (see args.New).
// The name must be a single token and not already registered. A companion
// "help <name>" entry is synthesized alongside.
func (s *System) RegisterCommand(name, description string, handler any, params ...args.Argument) error {
	if !validName(name) {
		return fmt.Errorf("%q: %w", name, ErrInvalidName)
	}
	if _, ok := s.commands[name]; ok {
		return fmt.Errorf("%q: %w", name, ErrCommandExists)
	}

	cmd, err := newCommand(name, description, handler, params)
	if err != nil {
		return fmt.Errorf("%q: %w", name, err)
	}

	s.commands[name] = cmd
	s.addHelp(name)
	s.cmdTree.Insert(name)
	s.varTree.Insert(name)
	s.suggest.Purge()

	s.lg.Debugf("registered command %q", name)
	return nil
}

// RegisterVariable exposes *v through the synthesized commands "get <name>"
// (logs the current value) and "set <name>" (parses one value of type T and
// assigns it). The storage must outlive the registration. Types the
// argument grammar cannot parse directly need RegisterVariableWithSetter.
func RegisterVariable[T any](s *System, name string, v *T) error {
	if !args.Supported(reflect.TypeOf((*T)(nil)).Elem()) {
		return fmt.Errorf("%q: %s: %w", name, reflect.TypeOf((*T)(nil)).Elem(), ErrNeedsCustomSetter)
	}

	set := func(sys *System, vals []reflect.Value) *Item {
		*v = vals[0].Interface().(T)
		return nil
	}
	return registerVariable(s, name, v, set, []args.Argument{args.New[T](name)})
}

// RegisterVariableWithSetter is the custom-assignment variant: setter must
// be a function of shape func(*T, A1, ..., An) whose trailing parameter
// types match the declared params exactly; it is invoked with the storage
// pointer and the parsed values whenever "set <name>" runs.
func RegisterVariableWithSetter[T any](s *System, name string, v *T, setter any, params ...args.Argument) error {
	h := reflect.ValueOf(setter)
	if !h.IsValid() || h.Kind() != reflect.Func || h.IsNil() {
		return fmt.Errorf("%q: %w", name, ErrInvalidSetter)
	}
	t := h.Type()
	if t.IsVariadic() || t.NumOut() != 0 || t.NumIn() != 1+len(params) ||
		t.In(0) != reflect.TypeOf((**T)(nil)).Elem() {
		return fmt.Errorf("%q: %s: %w", name, t, ErrInvalidSetter)
	}
	for i := range params {
		if t.In(i+1) != params[i].Type() {
			return fmt.Errorf("%q: %s: parameter %d is %s, not %s: %w", name, t,
				i+1, t.In(i+1), params[i].Type(), ErrInvalidSetter)
		}
	}

	set := func(sys *System, vals []reflect.Value) *Item {
		h.Call(append([]reflect.Value{reflect.ValueOf(v)}, vals...))
		return nil
	}
	return registerVariable(s, name, v, set, params)
}

func registerVariable[T any](s *System, name string, v *T,
	set func(*System, []reflect.Value) *Item, params []args.Argument) error {
	if !validName(name) {
		return fmt.Errorf("%q: %w", name, ErrInvalidName)
	}
	if _, ok := s.commands[wordSet+" "+name]; ok {
		return fmt.Errorf("%q: %w", name, ErrVariableExists)
	}
	if _, ok := s.commands[wordGet+" "+name]; ok {
		return fmt.Errorf("%q: %w", name, ErrVariableExists)
	}

	s.commands[wordSet+" "+name] = &command{
		name:        wordSet + " " + name,
		description: "Sets the variable " + name,
		params:      params,
		call:        set,
	}
	s.commands[wordGet+" "+name] = &command{
		name:        wordGet + " " + name,
		description: "Gets the variable " + name,
		call: func(sys *System, _ []reflect.Value) *Item {
			sys.Log(KindLog).Printf("%v", *v)
			return nil
		},
	}

	s.varTree.Insert(name)
	s.suggest.Purge()

	s.lg.Debugf("registered variable %q", name)
	return nil
}

// RegisterScript binds a name to a script file and loads it immediately; a
// file that cannot be read fails the registration.
func (s *System) RegisterScript(name, path string) error {
	if !validName(name) {
		return fmt.Errorf("%q: %w", name, ErrInvalidName)
	}
	if _, ok := s.scripts[name]; ok {
		return fmt.Errorf("%q: %w", name, ErrScriptExists)
	}

	sc, err := NewScript(path, true)
	if err != nil {
		return err
	}
	s.scripts[name] = sc
	s.varTree.Insert(name)
	s.suggest.Purge()
	return nil
}

// RegisterScriptLines binds a name to an in-memory script.
func (s *System) RegisterScriptLines(name string, lines ...string) error {
	if !validName(name) {
		return fmt.Errorf("%q: %w", name, ErrInvalidName)
	}
	if _, ok := s.scripts[name]; ok {
		return fmt.Errorf("%q: %w", name, ErrScriptExists)
	}

	s.scripts[name] = ScriptFromLines(lines...)
	s.varTree.Insert(name)
	s.suggest.Purge()
	return nil
}

///////////////////////////////////////////////////////////////////////////
// Unregistration. Removing something that was never registered is a no-op;
// a command or variable and its synthesized companions go together.

func (s *System) UnregisterCommand(name string) {
	if name == "" {
		return
	}
	_, cok := s.commands[name]
	_, hok := s.commands[wordHelp+" "+name]
	if cok && hok {
		s.cmdTree.Remove(name)
		s.varTree.Remove(name)
		delete(s.commands, name)
		delete(s.commands, wordHelp+" "+name)
		s.suggest.Purge()
	}
}

func (s *System) UnregisterVariable(name string) {
	if name == "" {
		return
	}
	_, sok := s.commands[wordSet+" "+name]
	_, gok := s.commands[wordGet+" "+name]
	if sok && gok {
		s.varTree.Remove(name)
		delete(s.commands, wordSet+" "+name)
		delete(s.commands, wordGet+" "+name)
		s.suggest.Purge()
	}
}

func (s *System) UnregisterScript(name string) {
	if name == "" {
		return
	}
	if _, ok := s.scripts[name]; ok {
		s.varTree.Remove(name)
		delete(s.scripts, name)
		s.suggest.Purge()
	}
}

///////////////////////////////////////////////////////////////////////////
// Dispatch

// RunCommand interprets one line of input. Whitespace-only input is ignored
// outright; anything else is echoed to the interaction log and recorded in
// history before dispatch. Dispatch and parse failures become error items
// in the log; RunCommand itself never fails.
func (s *System) RunCommand(line string) {
	l := args.MakeLine(line)
	pos := 0
	first, second := l.NextToken(&pos)
	if first == l.End() {
		return
	}

	s.Log(KindCommand).Print(line)
	s.history.PushBack(line)

	name := l.Token(first, second)
	switch name {
	case wordSet, wordGet:
		// set/get address a variable; the two-word key is required.
		if first, second = l.NextToken(&pos); first == l.End() {
			s.Log(KindError).Print(errNoVariable)
			return
		}
		name += " " + l.Token(first, second)

	case wordHelp:
		// help takes an optional command name.
		if f, sec := l.NextToken(&pos); f != l.End() {
			name += " " + l.Token(f, sec)
		}
	}

	cmd, ok := s.commands[name]
	if !ok {
		s.lg.Debugf("unknown command %q", name)
		s.Log(KindError).Print(errUnknownEntry)
		return
	}

	if it := cmd.run(s, l, pos); it != nil && it.Kind != KindNone {
		s.items = append(s.items, it)
	}
}

// RunScript replays a registered script's lines through RunCommand in file
// order. An unknown name or an unreadable script file is reported through
// the interaction log.
func (s *System) RunScript(name string) {
	sc, ok := s.scripts[name]
	if !ok {
		s.Log(KindError).Printf("script %q not found", name)
		return
	}

	s.Log(KindInfo).Printf("running %q", name)

	lines, err := sc.Lines()
	if err != nil {
		s.lg.Errorf("%s: %v", name, err)
		s.Log(KindError).Print(err)
	}
	for _, ln := range lines {
		s.RunCommand(ln)
	}
}

///////////////////////////////////////////////////////////////////////////
// Autocomplete

func (s *System) cached(key string, miss func() completion) completion {
	if c, ok := s.suggest.Get(key); ok {
		return c
	}
	c := miss()
	s.suggest.Add(key, c)
	return c
}

// SuggestCommands returns the registered command names extending prefix; an
// empty prefix or a prefix that is itself a command yields none.
func (s *System) SuggestCommands(prefix string) []string {
	return s.cached("cs:"+prefix, func() completion {
		return completion{options: s.cmdTree.Suggestions(prefix)}
	}).options
}

// SuggestVariables is SuggestCommands over the variable/script name index.
func (s *System) SuggestVariables(prefix string) []string {
	return s.cached("vs:"+prefix, func() completion {
		return completion{options: s.varTree.Suggestions(prefix)}
	}).options
}

// CompleteCommand extends prefix along any unambiguous chain of the command
// index, returning the extended prefix and the suggestions from there.
func (s *System) CompleteCommand(prefix string) (string, []string) {
	c := s.cached("cc:"+prefix, func() completion {
		ext, opts := s.cmdTree.Complete(prefix)
		return completion{completed: ext, options: opts}
	})
	return c.completed, c.options
}

// CompleteVariable is CompleteCommand over the variable/script name index.
func (s *System) CompleteVariable(prefix string) (string, []string) {
	c := s.cached("vc:"+prefix, func() completion {
		ext, opts := s.varTree.Complete(prefix)
		return completion{completed: ext, options: opts}
	})
	return c.completed, c.options
}

///////////////////////////////////////////////////////////////////////////
// Accessors

// Items returns the interaction log, oldest first. The slice is live.
func (s *System) Items() []*Item { return s.items }

// ClearItems discards the interaction log.
func (s *System) ClearItems() { s.items = nil }

// Log appends a new item of the given kind to the interaction log and
// returns it so the caller can stream text into it.
func (s *System) Log(kind ItemKind) *Item {
	it := newItem(kind)
	s.items = append(s.items, it)
	return it
}

func (s *System) History() *history.Buffer { return s.history }

func (s *System) CmdAutocomplete() *trie.Tree { return s.cmdTree }

func (s *System) VarAutocomplete() *trie.Tree { return s.varTree }

func (s *System) Commands() map[string]Command { return s.commands }

func (s *System) Scripts() map[string]*Script { return s.scripts }

///////////////////////////////////////////////////////////////////////////
// Copying

// Copy returns a deep duplicate of the system: registry, autocomplete
// indices, history, scripts, and interaction log are all independent of the
// original. Variable storage is shared, since registered variables point at
// caller-owned memory. The suggestion cache starts out cold.
func (s *System) Copy() *System {
	dup := &System{
		commands: make(map[string]Command, len(s.commands)),
		scripts:  deep.MustCopy(s.scripts),
		cmdTree:  s.cmdTree.Clone(),
		varTree:  s.varTree.Clone(),
		history:  s.history.Clone(),
		items:    deep.MustCopy(s.items),
		suggest:  expirable.NewLRU[string, completion](suggestCacheSize, nil, suggestCacheTTL),
		lg:       s.lg,
	}
	for name, cmd := range s.commands {
		dup.commands[name] = cmd.clone()
	}
	return dup
}
