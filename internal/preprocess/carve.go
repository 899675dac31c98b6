package preprocess

import "github.com/christoph2/a2lgo/internal/token"

// captureAml drains lt from a "/begin A2ML" through its matching "/end
// A2ML", inclusive, appending the reconstructed raw text to pp.amlBuf.
// Nothing from this span reaches the A2L token stream: the AML grammar
// embedded in an A2L file is a side artifact, not part of the A2L parse
// tree (§4.2).
func (pp *preprocessor) captureAml(path string, beginTok token.Token, lt *lookaheadTokenizer) error {
	buf := append([]byte{}, beginTok.Payload...)

	for {
		t, ok := lt.next()
		if !ok {
			return CarveError{Kind: "UnterminatedA2ml", Path: path, Line: beginTok.Span.StartLine, Column: beginTok.Span.StartCol}
		}
		buf = appendCarved(buf, t, pp.opts.SuppressComments)

		if t.Class != token.Regular || t.Text() != "/end" {
			continue
		}
		endName, ok := lt.peekSignificant()
		if !ok || endName.Text() != "A2ML" {
			continue
		}
		for {
			t2, ok := lt.next()
			if !ok {
				return CarveError{Kind: "UnterminatedA2ml", Path: path, Line: beginTok.Span.StartLine, Column: beginTok.Span.StartCol}
			}
			buf = appendCarved(buf, t2, pp.opts.SuppressComments)
			if t2.Class == token.Regular && t2.Text() == "A2ML" {
				pp.amlBuf = append(pp.amlBuf, buf...)
				return nil
			}
		}
	}
}

func appendCarved(buf []byte, t token.Token, suppressComments bool) []byte {
	if t.Class == token.Comment && suppressComments {
		return append(buf, blankComment(t.Payload)...)
	}
	return append(buf, t.Payload...)
}

// captureIfData consumes the Name parameter token immediately following
// ifKw, then drains everything up to (not including) the matching "/end
// IF_DATA" as a single raw payload recorded in pp.ifStore, keyed by ifKw's
// span. It returns the Name token and the closing "/end"/"IF_DATA" tokens
// so the caller can splice them into the A2L stream: only the interior
// content is diverted, the delimiters and Name stay in the A2L parse tree
// (§4.8, §4.9).
func (pp *preprocessor) captureIfData(path string, ifKw token.Token, lt *lookaheadTokenizer) (nameTok, endBeginTok, endIfTok token.Token, err error) {
	nameTok, ok := pp.nextSignificant(lt)
	if !ok {
		return token.Token{}, token.Token{}, token.Token{}, CarveError{Kind: "UnterminatedIfData", Path: path, Line: ifKw.Span.StartLine, Column: ifKw.Span.StartCol}
	}

	var buf []byte
	for {
		t, ok := lt.next()
		if !ok {
			return token.Token{}, token.Token{}, token.Token{}, CarveError{Kind: "UnterminatedIfData", Path: path, Line: ifKw.Span.StartLine, Column: ifKw.Span.StartCol}
		}
		if t.Class == token.Regular && t.Text() == "/end" {
			peeked, ok := lt.peekSignificant()
			if ok && peeked.Text() == "IF_DATA" {
				realEndIf, _ := pp.nextSignificant(lt)
				span := token.Span{
					StartLine: ifKw.Span.StartLine,
					StartCol:  ifKw.Span.StartCol,
					EndLine:   realEndIf.Span.EndLine,
					EndCol:    realEndIf.Span.EndCol,
				}
				if putErr := pp.ifStore.Put(span, buf); putErr != nil {
					return token.Token{}, token.Token{}, token.Token{}, putErr
				}
				return nameTok, t, realEndIf, nil
			}
			buf = append(buf, t.Payload...)
			continue
		}
		buf = append(buf, t.Payload...)
	}
}
