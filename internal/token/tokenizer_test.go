package token

import "testing"

func concatPayloads(toks []Token) string {
	var buf []byte
	for _, tok := range toks {
		buf = append(buf, tok.Payload...)
	}
	return string(buf)
}

func TestTokenizer_PayloadsRoundTrip(t *testing.T) {
	inputs := []string{
		"ASAP2_VERSION 1 60",
		"/* a block comment */ IDENT",
		"// a line comment\nIDENT",
		`"He said ""hi"""`,
		"\tmixed  \t whitespace\n\nhere",
	}

	for _, in := range inputs {
		toks := All([]byte(in))
		got := concatPayloads(toks)
		if got != in {
			t.Errorf("round-trip mismatch: input %q, got %q", in, got)
		}
	}
}

func TestTokenizer_EscapedQuote(t *testing.T) {
	toks := All([]byte(`"He said ""hi"""`))
	if len(toks) != 1 {
		t.Fatalf("expected 1 token, got %d", len(toks))
	}
	if toks[0].Class != String {
		t.Fatalf("expected String class, got %v", toks[0].Class)
	}
	want := `He said "hi"`
	if got := toks[0].StringValue(); got != want {
		t.Errorf("StringValue() = %q, want %q", got, want)
	}
}

func TestTokenizer_SpanOrdering(t *testing.T) {
	toks := All([]byte("ABC\nDEF GHI"))
	for _, tok := range toks {
		if tok.Span.StartLine > tok.Span.EndLine {
			t.Errorf("token %q has StartLine > EndLine: %+v", tok.Text(), tok.Span)
		}
		if tok.Span.StartLine == tok.Span.EndLine && tok.Span.StartCol > tok.Span.EndCol {
			t.Errorf("token %q has StartCol > EndCol on a single line: %+v", tok.Text(), tok.Span)
		}
	}
}

func TestTokenizer_BOMSkipped(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("ASAP2_VERSION")...)
	toks := All(data)
	if len(toks) != 1 || toks[0].Text() != "ASAP2_VERSION" {
		t.Fatalf("BOM not skipped: %+v", toks)
	}
}

func TestTokenizer_UnterminatedString(t *testing.T) {
	toks := All([]byte(`"unterminated`))
	if len(toks) != 1 || toks[0].Class != String {
		t.Fatalf("expected single partial String token, got %+v", toks)
	}
}

func TestTokenizer_MultiLineString(t *testing.T) {
	toks := All([]byte("\"line one\nline two\""))
	if len(toks) != 1 {
		t.Fatalf("expected 1 token, got %d", len(toks))
	}
	span := toks[0].Span
	if span.StartLine != 1 || span.EndLine != 2 {
		t.Errorf("expected span across two lines, got %+v", span)
	}
}
