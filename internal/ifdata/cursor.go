package ifdata

import "github.com/christoph2/a2lgo/internal/token"

// cursor is a 1-based-lookahead reader over an already-filtered (no
// whitespace, no comments) token slice, the same shape the A2L parser uses.
type cursor struct {
	toks []token.Token
	pos  int
}

func newCursor(text string) *cursor {
	return &cursor{toks: token.Significant(token.All([]byte(text)))}
}

func (c *cursor) atEOF() bool { return c.pos >= len(c.toks) }

func (c *cursor) current() token.Token { return c.toks[c.pos] }

func (c *cursor) advance() token.Token {
	t := c.toks[c.pos]
	c.pos++
	return t
}

// peekAt returns the token offset positions ahead of the current one,
// without consuming anything.
func (c *cursor) peekAt(offset int) (token.Token, bool) {
	idx := c.pos + offset
	if idx < 0 || idx >= len(c.toks) {
		return token.Token{}, false
	}
	return c.toks[idx], true
}

func (c *cursor) atEnd() bool {
	return c.atEOF() || c.current().Text() == "/end"
}
