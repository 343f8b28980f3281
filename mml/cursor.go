package mml

// cursor walks MML text one byte at a time. It is owned by a single decode call.
type cursor struct {
	src string
	pos int
}

func newCursor(src string) *cursor {
	return &cursor{src: src}
}

func (c *cursor) done() bool {
	return c.pos >= len(c.src)
}

// peek returns the current byte lowercased, or 0 at the end.
func (c *cursor) peek() byte {
	if c.done() {
		return 0
	}
	return lower(c.src[c.pos])
}

func (c *cursor) advance() {
	if !c.done() {
		c.pos++
	}
}

// accept consumes b if it is next.
func (c *cursor) accept(b byte) bool {
	if c.peek() == b && !c.done() {
		c.pos++
		return true
	}
	return false
}

// number reads an unsigned decimal; ok is false when no digit follows.
func (c *cursor) number() (int, bool) {
	start := c.pos
	v := 0
	for !c.done() && isDigit(c.src[c.pos]) {
		v = v*10 + int(c.src[c.pos]-'0')
		c.pos++
		if v > 1<<20 {
			v = 1 << 20
		}
	}
	return v, c.pos > start
}

func (c *cursor) skipSpace() {
	for !c.done() && isSpace(c.src[c.pos]) {
		c.pos++
	}
}

func lower(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b + ('a' - 'A')
	}
	return b
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
func isSpace(b byte) bool { return b == ' ' || b == '\n' || b == '\r' || b == '\t' }
