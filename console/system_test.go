// console/system_test.go
// Copyright(c) 2022-2025 console contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package console

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/mmp/console/args"
)

func itemsOfKind(s *System, kind ItemKind) []*Item {
	var out []*Item
	for _, it := range s.Items() {
		if it.Kind == kind {
			out = append(out, it)
		}
	}
	return out
}

func lastItem(t *testing.T, s *System) *Item {
	t.Helper()
	items := s.Items()
	if len(items) == 0 {
		t.Fatal("no items logged")
	}
	return items[len(items)-1]
}

func TestGreet(t *testing.T) {
	s := New(nil)
	var got string
	err := s.RegisterCommand("greet", "Greets someone", func(who string) { got = who },
		args.New[string]("who"))
	if err != nil {
		t.Fatalf("RegisterCommand: %v", err)
	}

	s.RunCommand(`greet "hello world"`)
	if got != "hello world" {
		t.Errorf("handler got %q, expected %q", got, "hello world")
	}
	if n := len(itemsOfKind(s, KindError)); n != 0 {
		t.Errorf("%d error items logged", n)
	}
	if s.History().Size() != 1 || s.History().Newest() != `greet "hello world"` {
		t.Errorf("history not recorded: %v", s.History().Lines())
	}
}

func TestEscapedString(t *testing.T) {
	s := New(nil)
	var got string
	if err := s.RegisterCommand("foo", "", func(v string) { got = v },
		args.New[string]("v")); err != nil {
		t.Fatalf("RegisterCommand: %v", err)
	}

	s.RunCommand(`foo \[bar\]`)
	if got != "[bar]" {
		t.Errorf("handler got %q, expected %q", got, "[bar]")
	}
}

func TestNestedListVariable(t *testing.T) {
	s := New(nil)
	var v [][]int
	if err := RegisterVariable(s, "foo", &v); err != nil {
		t.Fatalf("RegisterVariable: %v", err)
	}

	s.RunCommand("set foo [1 2 [3 4]]")
	if want := [][]int{{1}, {2}, {3, 4}}; !reflect.DeepEqual(v, want) {
		t.Errorf("v = %v, expected %v", v, want)
	}
	if n := len(itemsOfKind(s, KindError)); n != 0 {
		t.Errorf("%d error items logged", n)
	}
}

func TestVariableSetGet(t *testing.T) {
	s := New(nil)
	n := 7
	if err := RegisterVariable(s, "n", &n); err != nil {
		t.Fatalf("RegisterVariable: %v", err)
	}

	s.RunCommand("set n 42")
	if n != 42 {
		t.Errorf("n = %d, expected 42", n)
	}

	s.RunCommand("get n")
	it := lastItem(t, s)
	if it.Kind != KindLog || it.Text != "42" {
		t.Errorf("get logged kind %d text %q", it.Kind, it.Text)
	}
	if it.String() != "\t42" {
		t.Errorf("item renders as %q", it.String())
	}
}

func TestCustomSetter(t *testing.T) {
	s := New(nil)
	var clamped int
	setter := func(v *int, n int) {
		*v = min(max(n, 0), 100)
	}
	if err := RegisterVariableWithSetter(s, "pct", &clamped, setter,
		args.New[int]("pct")); err != nil {
		t.Fatalf("RegisterVariableWithSetter: %v", err)
	}

	s.RunCommand("set pct 250")
	if clamped != 100 {
		t.Errorf("clamped = %d, expected 100", clamped)
	}
	s.RunCommand("set pct -3")
	if clamped != 0 {
		t.Errorf("clamped = %d, expected 0", clamped)
	}
}

func TestUnknownCommand(t *testing.T) {
	s := New(nil)
	s.RunCommand("bogus")

	errs := itemsOfKind(s, KindError)
	if len(errs) != 1 {
		t.Fatalf("%d error items, expected exactly 1", len(errs))
	}
	if errs[0].Text != errUnknownEntry {
		t.Errorf("error text %q", errs[0].Text)
	}
}

func TestBareSetGet(t *testing.T) {
	for _, cmd := range []string{"set", "get", "  set  "} {
		s := New(nil)
		s.RunCommand(cmd)
		errs := itemsOfKind(s, KindError)
		if len(errs) != 1 || errs[0].Text != errNoVariable {
			t.Errorf("%q: error items %v", cmd, errs)
		}
	}
}

func TestWhitespaceIgnored(t *testing.T) {
	s := New(nil)
	s.RunCommand("")
	s.RunCommand("   \t  ")
	if len(s.Items()) != 0 {
		t.Errorf("%d items logged for whitespace input", len(s.Items()))
	}
	if s.History().Size() != 0 {
		t.Errorf("whitespace input pushed to history")
	}
}

func TestParseErrorPrefix(t *testing.T) {
	s := New(nil)
	called := false
	if err := s.RegisterCommand("add", "", func(a, b int) { called = true },
		args.New[int]("a"), args.New[int]("b")); err != nil {
		t.Fatalf("RegisterCommand: %v", err)
	}

	for _, c := range []struct{ cmd, want string }{
		{"add 1 x", "missing or invalid"},
		{"add 1", "not enough arguments"},
		{"add 1 2 3", "too many arguments"},
	} {
		s.ClearItems()
		s.RunCommand(c.cmd)
		errs := itemsOfKind(s, KindError)
		if len(errs) != 1 {
			t.Fatalf("%q: %d error items", c.cmd, len(errs))
		}
		if !strings.HasPrefix(errs[0].Text, "add: ") || !strings.Contains(errs[0].Text, c.want) {
			t.Errorf("%q: error text %q", c.cmd, errs[0].Text)
		}
	}
	if called {
		t.Errorf("handler ran despite parse errors")
	}

	s.ClearItems()
	s.RunCommand("add 1 2")
	if !called {
		t.Errorf("handler did not run for valid input")
	}
}

func TestDispatchIsolation(t *testing.T) {
	s := New(nil)
	var ran string
	for _, name := range []string{"alpha", "alphabet"} {
		name := name
		if err := s.RegisterCommand(name, "", func() { ran = name }); err != nil {
			t.Fatalf("RegisterCommand(%q): %v", name, err)
		}
	}

	s.RunCommand("alpha")
	if ran != "alpha" {
		t.Errorf("ran %q, expected alpha", ran)
	}
	s.RunCommand("alphabet")
	if ran != "alphabet" {
		t.Errorf("ran %q, expected alphabet", ran)
	}
}

func TestHelp(t *testing.T) {
	s := New(nil)
	if err := s.RegisterCommand("greet", "Greets someone", func(who string) {},
		args.New[string]("who")); err != nil {
		t.Fatalf("RegisterCommand: %v", err)
	}

	s.RunCommand("help greet")
	it := lastItem(t, s)
	want := "greet [who:string]\n\t\t- Greets someone\n\n"
	if it.Kind != KindLog || it.Text != want {
		t.Errorf("help greet logged %q, expected %q", it.Text, want)
	}

	s.ClearItems()
	s.RunCommand("help")
	var all string
	for _, it := range itemsOfKind(s, KindLog) {
		all += it.Text
	}
	if !strings.Contains(all, "greet [who:string]") {
		t.Errorf("help output missing command usage: %q", all)
	}
	// The synthesized help/set/get entries must not be listed individually.
	if strings.Contains(all, "help greet") || strings.Contains(all, "set greet") {
		t.Errorf("help output lists synthesized entries: %q", all)
	}
}

func TestRegistrationErrors(t *testing.T) {
	s := New(nil)
	if err := s.RegisterCommand("dup", "", func() {}); err != nil {
		t.Fatalf("RegisterCommand: %v", err)
	}

	for _, c := range []struct {
		err  error
		want error
	}{
		{s.RegisterCommand("dup", "", func() {}), ErrCommandExists},
		{s.RegisterCommand("", "", func() {}), ErrInvalidName},
		{s.RegisterCommand("two words", "", func() {}), ErrInvalidName},
		{s.RegisterCommand("x", "", 42), ErrInvalidHandler},
		{s.RegisterCommand("x", "", func() int { return 0 }), ErrHandlerMismatch},
		{s.RegisterCommand("x", "", func(a int) {}), ErrHandlerMismatch},
		{s.RegisterCommand("x", "", func(a int) {}, args.New[string]("a")), ErrHandlerMismatch},
	} {
		if !errors.Is(c.err, c.want) {
			t.Errorf("got %v, expected %v", c.err, c.want)
		}
	}

	var n int
	if err := RegisterVariable(s, "n", &n); err != nil {
		t.Fatalf("RegisterVariable: %v", err)
	}
	if err := RegisterVariable(s, "n", &n); !errors.Is(err, ErrVariableExists) {
		t.Errorf("duplicate variable: %v", err)
	}

	type opaque struct{ m map[string]int }
	var o opaque
	if err := RegisterVariable(s, "o", &o); !errors.Is(err, ErrNeedsCustomSetter) {
		t.Errorf("unparseable variable type: %v", err)
	}

	if err := RegisterVariableWithSetter(s, "m", &n, func(v *int, s string) {},
		args.New[int]("m")); !errors.Is(err, ErrInvalidSetter) {
		t.Errorf("mismatched setter: %v", err)
	}
}

func TestUnregister(t *testing.T) {
	s := New(nil)
	if err := s.RegisterCommand("gone", "", func() {}); err != nil {
		t.Fatalf("RegisterCommand: %v", err)
	}

	s.UnregisterCommand("gone")
	if _, ok := s.Commands()["gone"]; ok {
		t.Errorf("command still registered")
	}
	if _, ok := s.Commands()["help gone"]; ok {
		t.Errorf("synthesized help entry still registered")
	}
	if s.CmdAutocomplete().Search("gone") || s.VarAutocomplete().Search("gone") {
		t.Errorf("name still in autocomplete index")
	}

	var n int
	if err := RegisterVariable(s, "n", &n); err != nil {
		t.Fatalf("RegisterVariable: %v", err)
	}
	s.UnregisterVariable("n")
	if _, ok := s.Commands()["set n"]; ok {
		t.Errorf("set entry still registered")
	}
	if _, ok := s.Commands()["get n"]; ok {
		t.Errorf("get entry still registered")
	}
	if s.VarAutocomplete().Search("n") {
		t.Errorf("variable still in autocomplete index")
	}

	// Unknown names are a no-op.
	s.UnregisterCommand("nope")
	s.UnregisterVariable("nope")
	s.UnregisterScript("nope")
}

func TestSuggestions(t *testing.T) {
	s := New(nil)
	if got := s.SuggestCommands("he"); !reflect.DeepEqual(got, []string{"help"}) {
		t.Errorf("SuggestCommands(he) = %v", got)
	}

	// Registering must invalidate cached suggestions.
	if err := s.RegisterCommand("hex", "", func() {}); err != nil {
		t.Fatalf("RegisterCommand: %v", err)
	}
	if got := s.SuggestCommands("he"); !reflect.DeepEqual(got, []string{"help", "hex"}) {
		t.Errorf("SuggestCommands(he) after register = %v", got)
	}

	var v int
	if err := RegisterVariable(s, "verbosity", &v); err != nil {
		t.Fatalf("RegisterVariable: %v", err)
	}
	if got := s.SuggestVariables("verb"); !reflect.DeepEqual(got, []string{"verbosity"}) {
		t.Errorf("SuggestVariables(verb) = %v", got)
	}

	// Partial completion extends along the unambiguous chain, stopping
	// short of the terminal character.
	completed, _ := s.CompleteVariable("v")
	if completed != "verbosit" {
		t.Errorf("CompleteVariable(v) = %q", completed)
	}
}

func TestScripts(t *testing.T) {
	s := New(nil)
	var n int
	if err := RegisterVariable(s, "n", &n); err != nil {
		t.Fatalf("RegisterVariable: %v", err)
	}

	if err := s.RegisterScriptLines("boot", "set n 5", "   ", "set n 9"); err != nil {
		t.Fatalf("RegisterScriptLines: %v", err)
	}
	s.RunScript("boot")
	if n != 9 {
		t.Errorf("n = %d after script, expected 9", n)
	}
	// Two commands recorded; the blank line is skipped.
	if s.History().Size() != 2 {
		t.Errorf("history size %d, expected 2", s.History().Size())
	}

	s.ClearItems()
	s.RunScript("missing")
	errs := itemsOfKind(s, KindError)
	if len(errs) != 1 || !strings.Contains(errs[0].Text, "missing") {
		t.Errorf("missing script: error items %v", errs)
	}
}

func TestScriptFile(t *testing.T) {
	s := New(nil)
	var msg string
	if err := s.RegisterCommand("say", "", func(v string) { msg = v },
		args.New[string]("v")); err != nil {
		t.Fatalf("RegisterCommand: %v", err)
	}

	path := filepath.Join(t.TempDir(), "test.script")
	if err := os.WriteFile(path, []byte("say first\nsay second\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := s.RegisterScript("boot", path); err != nil {
		t.Fatalf("RegisterScript: %v", err)
	}
	s.RunScript("boot")
	if msg != "second" {
		t.Errorf("msg = %q after script, expected %q", msg, "second")
	}

	if err := s.RegisterScript("nope", filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Errorf("expected error registering unreadable script")
	}
}

func TestCopy(t *testing.T) {
	s := New(nil)
	count := 0
	if err := s.RegisterCommand("tick", "", func() { count++ }); err != nil {
		t.Fatalf("RegisterCommand: %v", err)
	}
	s.RunCommand("tick")

	dup := s.Copy()

	// Commands still dispatch in the copy, and its log and history are
	// independent of the original's.
	dup.RunCommand("tick")
	if count != 2 {
		t.Errorf("count = %d, expected 2", count)
	}
	if len(s.Items()) != 1 || len(dup.Items()) != 2 {
		t.Errorf("items: orig %d dup %d", len(s.Items()), len(dup.Items()))
	}
	if s.History().Size() != 1 || dup.History().Size() != 2 {
		t.Errorf("history: orig %d dup %d", s.History().Size(), dup.History().Size())
	}

	// Registry mutations don't cross over either way.
	dup.UnregisterCommand("tick")
	if _, ok := s.Commands()["tick"]; !ok {
		t.Errorf("unregistering in copy affected original")
	}
	if err := s.RegisterCommand("tock", "", func() {}); err != nil {
		t.Fatalf("RegisterCommand: %v", err)
	}
	if _, ok := dup.Commands()["tock"]; ok {
		t.Errorf("registering in original affected copy")
	}
	if dup.CmdAutocomplete().Search("tick") {
		t.Errorf("autocomplete index not cloned")
	}

	// The copy's built-in help resolves against its own registry.
	dup.ClearItems()
	dup.RunCommand("help")
	for _, it := range itemsOfKind(dup, KindLog) {
		if strings.Contains(it.Text, "tick") {
			t.Errorf("copy's help lists unregistered command: %q", it.Text)
		}
	}
}
