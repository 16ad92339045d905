// args/parse.go
// Copyright(c) 2022-2025 console contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package args

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Char is a single-character argument. It is a distinct type so that it can
// be told apart from the numeric byte/uint8: a Char parameter consumes a
// literal character (possibly escaped) rather than a number.
type Char byte

var charType = reflect.TypeOf((*Char)(nil)).Elem()

// parseFunc consumes one value of a particular type from the line starting
// at *pos and advances *pos past it.
type parseFunc func(l *Line, pos *int) (reflect.Value, error)

// typeName returns the name used for a supported type in help text.
func typeName(t reflect.Type) string {
	switch {
	case t == charType:
		return "char"
	case t.Kind() == reflect.Slice:
		return "[]" + typeName(t.Elem())
	default:
		return t.String()
	}
}

// parserFor builds the parse rule for a supported type. Supported types are
// bool, Char, string, the fixed-width and machine-sized integer types,
// float32, float64, and slices of supported types to any depth.
func parserFor(t reflect.Type) (parseFunc, error) {
	if t == charType {
		return parseChar, nil
	}

	switch t.Kind() {
	case reflect.Bool:
		return parseBool, nil

	case reflect.String:
		return func(l *Line, pos *int) (reflect.Value, error) {
			s, err := parseString(l, pos)
			if err != nil {
				return reflect.Value{}, err
			}
			return reflect.ValueOf(s), nil
		}, nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return parseSigned(t), nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return parseUnsigned(t), nil

	case reflect.Float32, reflect.Float64:
		return parseFloat(t), nil

	case reflect.Slice:
		return parseSlice(t)

	default:
		return nil, fmt.Errorf("%s: unsupported argument type", t)
	}
}

///////////////////////////////////////////////////////////////////////////
// Scalar parse rules

func parseBool(l *Line, pos *int) (reflect.Value, error) {
	first, second := l.NextToken(pos)
	tok := l.Token(first, second)
	switch {
	case strings.EqualFold(tok, "true"):
		return reflect.ValueOf(true), nil
	case strings.EqualFold(tok, "false"):
		return reflect.ValueOf(false), nil
	default:
		return reflect.Value{}, fmt.Errorf("missing or invalid boolean argument: %q", tok)
	}
}

func parseChar(l *Line, pos *int) (reflect.Value, error) {
	first, second := l.NextToken(pos)
	switch second - first {
	case 1:
		if isReservedChar(l.buf[first]) {
			return reflect.Value{}, fmt.Errorf("%s: %q", errMsgReserved, l.Token(first, second))
		}
		return reflect.ValueOf(Char(l.buf[first])), nil

	case 2:
		// Either an escaped reserved character or two characters where
		// one was expected.
		if !isEscaping(l.buf, first) {
			return reflect.Value{}, fmt.Errorf("too many chars were given: %q", l.Token(first, second))
		}
		return reflect.ValueOf(Char(l.buf[first+1])), nil

	default:
		return reflect.Value{}, fmt.Errorf("too many or no chars were given: %q", l.Token(first, second))
	}
}

// numericError distinguishes out-of-range values from malformed text, which
// strconv reports via distinct sentinel errors.
func numericError(err error, name, tok string) error {
	if errors.Is(err, strconv.ErrRange) {
		return fmt.Errorf("argument out of range for %s: %q", name, tok)
	}
	return fmt.Errorf("missing or invalid %s argument: %q", name, tok)
}

func parseSigned(t reflect.Type) parseFunc {
	name, bits := typeName(t), t.Bits()
	return func(l *Line, pos *int) (reflect.Value, error) {
		first, second := l.NextToken(pos)
		tok := l.Token(first, second)
		n, err := strconv.ParseInt(tok, 10, bits)
		if err != nil {
			return reflect.Value{}, numericError(err, name, tok)
		}
		v := reflect.New(t).Elem()
		v.SetInt(n)
		return v, nil
	}
}

func parseUnsigned(t reflect.Type) parseFunc {
	name, bits := typeName(t), t.Bits()
	return func(l *Line, pos *int) (reflect.Value, error) {
		first, second := l.NextToken(pos)
		tok := l.Token(first, second)
		n, err := strconv.ParseUint(tok, 10, bits)
		if err != nil {
			return reflect.Value{}, numericError(err, name, tok)
		}
		v := reflect.New(t).Elem()
		v.SetUint(n)
		return v, nil
	}
}

func parseFloat(t reflect.Type) parseFunc {
	name, bits := typeName(t), t.Bits()
	return func(l *Line, pos *int) (reflect.Value, error) {
		first, second := l.NextToken(pos)
		tok := l.Token(first, second)
		n, err := strconv.ParseFloat(tok, bits)
		if err != nil {
			return reflect.Value{}, numericError(err, name, tok)
		}
		v := reflect.New(t).Elem()
		v.SetFloat(n)
		return v, nil
	}
}

///////////////////////////////////////////////////////////////////////////
// Strings

// getWord copies buf[first:second), resolving escapes; an unescaped
// reserved character is an error.
func getWord(buf []byte, first, second int) (string, error) {
	var sb strings.Builder
	for i := first; i < second; i++ {
		if !isReservedChar(buf[i]) {
			sb.WriteByte(buf[i])
		} else if isEscapeChar(buf[i]) && isEscaping(buf, i) {
			i++
			sb.WriteByte(buf[i])
		} else {
			return "", fmt.Errorf("%s: %q", errMsgReserved, string(buf[first:second]))
		}
	}
	return sb.String(), nil
}

// parseString handles both bare words and double-quoted strings. A quoted
// string may span whitespace; adjacent quoted segments with no whitespace
// between them are concatenated.
func parseString(l *Line, pos *int) (string, error) {
	first, second := l.NextToken(pos)
	if first == l.End() {
		return "", fmt.Errorf("missing string argument: %q", l)
	}

	if l.buf[first] != '"' {
		w, err := getWord(l.buf, first, second)
		if err != nil {
			return "", err
		}
		*pos = second + 1
		return w, nil
	}

	var sb strings.Builder
	first++ // move past the opening quote
	for {
		second = l.indexUnescaped('"', first)
		if second < 0 {
			return "", fmt.Errorf(`could not find closing '"': %q`, string(l.buf[first:]))
		}

		w, err := getWord(l.buf, first, second)
		if err != nil {
			return "", err
		}
		sb.WriteString(w)

		first = second + 1
		if first < len(l.buf) && !isSpace(l.buf[first]) {
			// Two quoted strings joined with no whitespace between them.
			if l.buf[first] == '"' {
				first++
			}
		} else {
			break
		}
	}

	*pos = second + 1
	return sb.String(), nil
}

///////////////////////////////////////////////////////////////////////////
// Lists

// parseSlice builds the rule for a (possibly nested) list type. Consumed
// bracket characters are blanked out in the line buffer in place; that is
// how a nested parse knows where its enclosing list ends.
func parseSlice(t reflect.Type) (parseFunc, error) {
	elem, err := parserFor(t.Elem())
	if err != nil {
		return nil, err
	}

	// Where the element type is itself a list, a bare scalar element is
	// promoted to a one-element list at each level, so [1 2 [3 4]] parses
	// against [][]int as three elements with the third a two-element list.
	if t.Elem().Kind() == reflect.Slice {
		elem = promoteScalars(t.Elem(), elem)
	}

	return func(l *Line, pos *int) (reflect.Value, error) {
		out := reflect.MakeSlice(t, 0, 0)

		first, second := l.NextToken(pos)
		if first == l.End() {
			return out, nil
		}
		if l.buf[first] != '[' {
			return reflect.Value{}, fmt.Errorf("invalid vector argument missing opening [: %q", l.Token(first, second))
		}
		l.buf[first] = ' '

		cursor := first
		for {
			first, second = l.NextToken(&cursor)

			// Ran out of input: list was empty.
			if first == l.End() {
				return out, nil
			}

			if l.buf[first] == '[' {
				// Nested list element; recurse directly.
				v, err := elem(l, &first)
				if err != nil {
					return reflect.Value{}, err
				}
				out = reflect.Append(out, v)
				cursor = first
				continue
			}

			// A run of scalar elements: find the terminating unescaped
			// bracket, blank it, and parse everything up to it.
			second = l.indexUnescaped(']', first)
			if second < 0 {
				return reflect.Value{}, fmt.Errorf("invalid vector argument missing closing ]: %q", string(l.buf[first:]))
			}
			l.buf[second] = ' '

			*pos = first
			for {
				if first = l.peekToken(first); first >= second {
					*pos = first
					return out, nil
				}
				v, err := elem(l, pos)
				if err != nil {
					return reflect.Value{}, err
				}
				out = reflect.Append(out, v)
				first = *pos
			}
		}
	}, nil
}

// promoteScalars wraps a list element rule so that a bare scalar is
// accepted where a nested list could appear, wrapping the parsed value in
// one-element lists down to the scalar type.
func promoteScalars(t reflect.Type, listParse parseFunc) parseFunc {
	base := t
	var wrap []reflect.Type
	for base.Kind() == reflect.Slice {
		wrap = append(wrap, base)
		base = base.Elem()
	}
	scalar, err := parserFor(base)
	if err != nil {
		// parseSlice already vetted the element chain.
		panic(err)
	}

	return func(l *Line, pos *int) (reflect.Value, error) {
		if first := l.peekToken(*pos); first < l.End() && l.buf[first] == '[' {
			return listParse(l, pos)
		}

		v, err := scalar(l, pos)
		if err != nil {
			return reflect.Value{}, err
		}
		for i := len(wrap) - 1; i >= 0; i-- {
			s := reflect.MakeSlice(wrap[i], 0, 1)
			v = reflect.Append(s, v)
		}
		return v, nil
	}
}
