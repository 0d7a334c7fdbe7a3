package itanium

import "errors"

// Errors surfaced by the cursor and parser. All of them are folded into a
// single invalid-name error at the public package boundary.
var (
	ErrInvalidMangled  = errors.New("itanium: invalid mangled name")
	ErrUnexpectedEnd   = errors.New("itanium: unexpected end of input")
	ErrMalformedNumber = errors.New("itanium: malformed number")
	ErrInvalidBackref  = errors.New("itanium: invalid back-reference")
	ErrTooDeep         = errors.New("itanium: nesting too deep")
)

// cursor is a position-tracked view over the mangled input. It never copies
// the input and all reads are pure functions of (input, pos).
type cursor struct {
	input string
	pos   int
}

func (c *cursor) eof() bool {
	return c.pos >= len(c.input)
}

// peek returns the byte at the current position, or 0 at end of input.
func (c *cursor) peek() byte {
	if c.pos >= len(c.input) {
		return 0
	}
	return c.input[c.pos]
}

// peekAt returns the byte n positions ahead, or 0 past the end.
func (c *cursor) peekAt(n int) byte {
	if c.pos+n >= len(c.input) {
		return 0
	}
	return c.input[c.pos+n]
}

// next consumes and returns one byte, or 0 at end of input.
func (c *cursor) next() byte {
	if c.pos >= len(c.input) {
		return 0
	}
	b := c.input[c.pos]
	c.pos++
	return b
}

// advance consumes n bytes and returns them.
func (c *cursor) advance(n int) (string, error) {
	if c.pos+n > len(c.input) {
		return "", ErrUnexpectedEnd
	}
	s := c.input[c.pos : c.pos+n]
	c.pos += n
	return s, nil
}

// consume consumes lit if the input starts with it. The position is left
// unchanged when it does not.
func (c *cursor) consume(lit string) bool {
	if len(c.input)-c.pos < len(lit) || c.input[c.pos:c.pos+len(lit)] != lit {
		return false
	}
	c.pos += len(lit)
	return true
}

// expect consumes the byte b or fails.
func (c *cursor) expect(b byte) error {
	if c.eof() {
		return ErrUnexpectedEnd
	}
	if c.input[c.pos] != b {
		return ErrInvalidMangled
	}
	c.pos++
	return nil
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// readDigits reads a non-empty run of decimal digits.
func (c *cursor) readDigits() (int, error) {
	start := c.pos
	val := 0
	for !c.eof() && isDigit(c.peek()) {
		val = val*10 + int(c.next()-'0')
		if val > 1<<30 {
			return 0, ErrMalformedNumber
		}
	}
	if c.pos == start {
		return 0, ErrMalformedNumber
	}
	return val, nil
}

// readNumber reads a <number>: an optional 'n' negative marker followed by
// decimal digits.
func (c *cursor) readNumber() (int, error) {
	neg := c.consume("n")
	val, err := c.readDigits()
	if err != nil {
		return 0, err
	}
	if neg {
		val = -val
	}
	return val, nil
}

// readSeqID reads a <seq-id>: base-36 digits (0-9A-Z), possibly empty,
// terminated by '_'. Returns the substitution index: S_ is 0, S0_ is 1, and
// so on.
func (c *cursor) readSeqID() (int, error) {
	if c.consume("_") {
		return 0, nil
	}
	val := 0
	digits := 0
	for !c.eof() {
		b := c.peek()
		var d int
		switch {
		case b >= '0' && b <= '9':
			d = int(b - '0')
		case b >= 'A' && b <= 'Z':
			d = int(b-'A') + 10
		default:
			if digits == 0 || b != '_' {
				return 0, ErrMalformedNumber
			}
			c.pos++
			return val + 1, nil
		}
		val = val*36 + d
		digits++
		c.pos++
		if val > 1<<30 {
			return 0, ErrMalformedNumber
		}
	}
	return 0, ErrUnexpectedEnd
}

// readSourceName reads a length-prefixed <source-name>.
func (c *cursor) readSourceName() (string, error) {
	n, err := c.readDigits()
	if err != nil {
		return "", err
	}
	if n == 0 {
		return "", ErrMalformedNumber
	}
	return c.advance(n)
}
