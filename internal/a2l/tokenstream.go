package a2l

import (
	"iter"

	"github.com/christoph2/a2lgo/internal/token"
)

// TokenStream lets a caller re-walk the token stream the parser consumed,
// independent of the ValueContainer tree it produced (SUPPLEMENTED
// FEATURES: the original's generator.hpp exposes the same "give me the
// collection" introspection over its token stream for its host bindings).
type TokenStream struct {
	tokens []token.Token
}

// NewTokenStream wraps an already-filtered token slice for replay.
func NewTokenStream(tokens []token.Token) *TokenStream {
	return &TokenStream{tokens: tokens}
}

// Tokens returns a range-over-func iterator over the stream's tokens, in
// order, mirroring the teacher's "GetNodes()/GetEdges() give me the
// collection" style applied to a token stream instead of a graph.
func (ts *TokenStream) Tokens() iter.Seq[token.Token] {
	return func(yield func(token.Token) bool) {
		for _, t := range ts.tokens {
			if !yield(t) {
				return
			}
		}
	}
}

// Len reports how many tokens the stream holds.
func (ts *TokenStream) Len() int { return len(ts.tokens) }
