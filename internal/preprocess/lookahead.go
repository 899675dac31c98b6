package preprocess

import "github.com/christoph2/a2lgo/internal/token"

// lookaheadTokenizer adds arbitrary-but-reversible lookahead on top of
// token.Tokenizer's single-token Next. peekSignificant skips whitespace and
// comment tokens to find the next Regular/String token, without losing the
// skipped tokens: they are requeued so a later call to next replays them in
// original order.
type lookaheadTokenizer struct {
	tz      *token.Tokenizer
	pending []token.Token
}

func newLookaheadTokenizer(data []byte) *lookaheadTokenizer {
	return &lookaheadTokenizer{tz: token.New(data)}
}

func (lt *lookaheadTokenizer) next() (token.Token, bool) {
	if len(lt.pending) > 0 {
		t := lt.pending[0]
		lt.pending = lt.pending[1:]
		return t, true
	}
	return lt.tz.Next()
}

// peekSignificant finds the next non-whitespace, non-comment token without
// consuming it: the skipped tokens and the found token are pushed back onto
// the pending queue so a subsequent next call sees them again, in order.
func (lt *lookaheadTokenizer) peekSignificant() (token.Token, bool) {
	var skipped []token.Token
	for {
		t, ok := lt.next()
		if !ok {
			lt.pending = append(skipped, lt.pending...)
			return token.Token{}, false
		}
		if t.Class == token.Whitespace || t.Class == token.Comment {
			skipped = append(skipped, t)
			continue
		}
		lt.pending = append(append(skipped, t), lt.pending...)
		return t, true
	}
}
