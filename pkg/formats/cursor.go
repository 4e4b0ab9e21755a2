package formats

import (
	"bytes"
	"strconv"
)

// cursor walks a text buffer for the section-search scanners in this package.
// Every advance is bounds-checked; running off the end leaves pos == len(data).
type cursor struct {
	data []byte
	pos  int
}

func newCursor(data []byte) *cursor {
	return &cursor{data: data}
}

// eof reports whether the cursor is past the last byte.
func (c *cursor) eof() bool {
	return c.pos >= len(c.data)
}

// peek returns the byte under the cursor.
func (c *cursor) peek() (byte, bool) {
	if c.eof() {
		return 0, false
	}
	return c.data[c.pos], true
}

// seek moves to the first occurrence of token at or after the cursor.
// The cursor is left untouched if token is not found.
func (c *cursor) seek(token string) bool {
	if c.eof() {
		return false
	}
	i := bytes.Index(c.data[c.pos:], []byte(token))
	if i < 0 {
		return false
	}
	c.pos += i
	return true
}

// skipPast moves to the byte following the next occurrence of b.
func (c *cursor) skipPast(b byte) bool {
	if c.eof() {
		return false
	}
	i := bytes.IndexByte(c.data[c.pos:], b)
	if i < 0 {
		c.pos = len(c.data)
		return false
	}
	c.pos += i + 1
	return true
}

// nextLine moves to the start of the following line.
func (c *cursor) nextLine() bool {
	return c.skipPast('\n')
}

// skipToNumber moves to the first byte that can start a signed number.
func (c *cursor) skipToNumber() bool {
	for !c.eof() {
		if isNumberStart(c.data[c.pos]) {
			return true
		}
		c.pos++
	}
	return false
}

// skipSpace skips whitespace, control bytes and commas (VRML treats commas
// as whitespace).
func (c *cursor) skipSpace() {
	for !c.eof() && isSeparator(c.data[c.pos]) {
		c.pos++
	}
}

// skipToken skips the run of non-separator bytes under the cursor.
func (c *cursor) skipToken() {
	for !c.eof() && !isSeparator(c.data[c.pos]) && c.data[c.pos] != ']' {
		c.pos++
	}
}

// float parses the floating-point literal under the cursor.
func (c *cursor) float() (float64, bool) {
	start := c.pos
	end := start
	for end < len(c.data) && isFloatByte(c.data[end]) {
		end++
	}
	if end == start {
		return 0, false
	}
	v, err := strconv.ParseFloat(string(c.data[start:end]), 64)
	if err != nil {
		return 0, false
	}
	c.pos = end
	return v, true
}

// integer parses a decimal integer under the cursor. A fractional tail such as
// the ".0" in "3.0" is left unread.
func (c *cursor) integer() (int, bool) {
	start := c.pos
	end := start
	if end < len(c.data) && (c.data[end] == '+' || c.data[end] == '-') {
		end++
	}
	digits := end
	for end < len(c.data) && c.data[end] >= '0' && c.data[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	v, err := strconv.Atoi(string(c.data[start:end]))
	if err != nil {
		return 0, false
	}
	c.pos = end
	return v, true
}

func isSeparator(b byte) bool {
	return b <= ' ' || b == ','
}

func isNumberStart(b byte) bool {
	return (b >= '0' && b <= '9') || b == '+' || b == '-' || b == '.'
}

func isFloatByte(b byte) bool {
	return isNumberStart(b) || b == 'e' || b == 'E'
}
