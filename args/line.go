// args/line.go
// Copyright(c) 2022-2025 console contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package args

// A Line holds one line of command input while it is being parsed. The
// buffer is mutable: the list grammar blanks out bracket characters as they
// are consumed so that nested parses can find their boundaries (see
// parseSlice). Parsing positions are passed around as explicit cursors
// rather than being stored in the Line so that a caller can peek ahead
// without committing.
type Line struct {
	buf []byte
}

func MakeLine(s string) *Line {
	return &Line{buf: []byte(s)}
}

func (l *Line) String() string { return string(l.buf) }

func (l *Line) Len() int { return len(l.buf) }

// End returns the sentinel token-start value that NextToken reports when no
// further token exists; it compares greater than any valid index.
func (l *Line) End() int { return len(l.buf) + 1 }

// NextToken skips whitespace starting at *pos, then consumes a maximal run
// of non-whitespace characters. It returns the half-open range [first,
// second) of the run and advances *pos to second. If only whitespace
// remains, it returns (End(), Len()).
func (l *Line) NextToken(pos *int) (first, second int) {
	end := len(l.buf)
	first, second = end+1, end

	i := max(*pos, 0)
	for ; i < end; i++ {
		if !isSpace(l.buf[i]) {
			first = i
			break
		}
	}
	for ; i < end; i++ {
		if isSpace(l.buf[i]) {
			second = i
			break
		}
	}

	*pos = second
	return
}

// peekToken returns the start of the next token at or after pos without
// consuming anything.
func (l *Line) peekToken(pos int) int {
	first, _ := l.NextToken(&pos)
	return first
}

// Token returns the text of a [first, second) range from NextToken,
// clamped to the line.
func (l *Line) Token(first, second int) string {
	first = min(first, len(l.buf))
	second = min(max(second, first), len(l.buf))
	return string(l.buf[first:second])
}

// indexUnescaped returns the index of the first occurrence of c at or after
// from that is not escaped, or -1 if there is none.
func (l *Line) indexUnescaped(c byte, from int) int {
	for i := from; i < len(l.buf); i++ {
		if l.buf[i] == c && !isEscaped(l.buf, i) {
			return i
		}
	}
	return -1
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

///////////////////////////////////////////////////////////////////////////
// Reserved characters

// reserved is the set of characters that must be escaped with a backslash
// to appear literally in an argument.
const reserved = `\[]"`

const errMsgReserved = `reserved chars '\, [, ], "' must be escaped with \`

func isEscapeChar(c byte) bool { return c == '\\' }

func isReservedChar(c byte) bool {
	for i := 0; i < len(reserved); i++ {
		if c == reserved[i] {
			return true
		}
	}
	return false
}

// isEscaping reports whether the character at pos is a backslash that
// escapes a reserved character immediately following it.
func isEscaping(buf []byte, pos int) bool {
	return pos < len(buf)-1 && isEscapeChar(buf[pos]) && isReservedChar(buf[pos+1])
}

// isEscaped reports whether the character at pos is itself escaped. It
// walks backward counting consecutive escapes so that `\"` and `\\"` are
// distinguished correctly.
func isEscaped(buf []byte, pos int) bool {
	result := false
	for i := pos; i > 0; i-- {
		if isReservedChar(buf[i]) && isEscapeChar(buf[i-1]) {
			result = !result
		} else {
			break
		}
	}
	return result
}
