package preprocess

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/christoph2/a2lgo/internal/token"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writeFile %s: %v", name, err)
	}
	return path
}

func keywords(tokens []token.Token) []string {
	var out []string
	for _, tok := range tokens {
		if tok.Class == token.Whitespace || tok.Class == token.Comment {
			continue
		}
		out = append(out, tok.Text())
	}
	return out
}

func joinKeywords(ks []string) string { return strings.Join(ks, " ") }

func TestRun_NoIncludes(t *testing.T) {
	dir := t.TempDir()
	root := writeFile(t, dir, "root.a2l", `ASAP2_VERSION 1 60 /begin PROJECT p "" /end PROJECT`)

	res, err := Run(root, DefaultOptions())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	defer res.IfData.Close()

	got := joinKeywords(keywords(res.Tokens))
	want := `ASAP2_VERSION 1 60 /begin PROJECT p "" /end PROJECT`
	if got != want {
		t.Errorf("tokens = %q, want %q", got, want)
	}
}

func TestRun_CommentBlanking(t *testing.T) {
	dir := t.TempDir()
	root := writeFile(t, dir, "root.a2l", "KEYWORD_A // trailing comment\nKEYWORD_B")

	res, err := Run(root, DefaultOptions())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	defer res.IfData.Close()

	for _, tok := range res.Tokens {
		if tok.Class != token.Comment {
			continue
		}
		for _, b := range tok.Payload {
			if b != ' ' && b != '\n' {
				t.Fatalf("comment payload not blanked: %q", tok.Payload)
			}
		}
		if len(tok.Payload) != len("// trailing comment") {
			t.Fatalf("blanked comment length = %d, want %d", len(tok.Payload), len("// trailing comment"))
		}
	}

	keywordB := res.Tokens[len(res.Tokens)-1]
	if keywordB.Text() != "KEYWORD_B" {
		t.Fatalf("last token = %q, want KEYWORD_B", keywordB.Text())
	}
	if keywordB.Span.StartLine != 2 {
		t.Errorf("KEYWORD_B line = %d, want 2 (comment blanking must preserve line numbers)", keywordB.Span.StartLine)
	}
}

func TestRun_IncludeResolution(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "child.a2l", `CHILD_KEYWORD 1`)
	root := writeFile(t, dir, "root.a2l", "BEFORE /include \"child.a2l\"\nAFTER")

	res, err := Run(root, DefaultOptions())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	defer res.IfData.Close()

	got := joinKeywords(keywords(res.Tokens))
	want := `BEFORE CHILD_KEYWORD 1 AFTER`
	if got != want {
		t.Errorf("tokens = %q, want %q", got, want)
	}

	sections := res.LineMap.Sections()
	if len(sections) != 3 {
		t.Fatalf("sections = %d, want 3 (root-prefix, child, root-suffix); got %+v", len(sections), sections)
	}
	if sections[1].File != filepath.Join(dir, "child.a2l") && !strings.HasSuffix(sections[1].File, "child.a2l") {
		t.Errorf("middle section file = %q, want child.a2l", sections[1].File)
	}
}

func TestRun_IncludeFromIncludePath(t *testing.T) {
	dir := t.TempDir()
	incDir := t.TempDir()
	writeFile(t, incDir, "shared.a2l", `SHARED_KEYWORD`)
	root := writeFile(t, dir, "root.a2l", `/include shared.a2l`)

	res, err := Run(root, Options{IncludePath: []string{incDir}})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	defer res.IfData.Close()

	got := joinKeywords(keywords(res.Tokens))
	if got != "SHARED_KEYWORD" {
		t.Errorf("tokens = %q, want SHARED_KEYWORD", got)
	}
}

func TestRun_MissingIncludeIsFatal(t *testing.T) {
	dir := t.TempDir()
	root := writeFile(t, dir, "root.a2l", `/include "does_not_exist.a2l"`)

	_, err := Run(root, DefaultOptions())
	if err == nil {
		t.Fatalf("expected an error, got nil")
	}
	ie, ok := err.(IncludeError)
	if !ok || ie.Kind != "NotFound" {
		t.Fatalf("error = %#v, want IncludeError{Kind: NotFound}", err)
	}
}

func TestRun_IncludeCycleIsFatal(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.a2l", `/include "b.a2l"`)
	writeFile(t, dir, "b.a2l", `/include "a.a2l"`)
	root := filepath.Join(dir, "a.a2l")

	_, err := Run(root, DefaultOptions())
	if err == nil {
		t.Fatalf("expected a cycle error, got nil")
	}
	ie, ok := err.(IncludeError)
	if !ok || ie.Kind != "Cycle" {
		t.Fatalf("error = %#v, want IncludeError{Kind: Cycle}", err)
	}
}

func TestRun_A2mlCarvedOutOfA2lStream(t *testing.T) {
	dir := t.TempDir()
	root := writeFile(t, dir, "root.a2l", `BEFORE /begin A2ML struct X { int a; }; /end A2ML AFTER`)

	res, err := Run(root, DefaultOptions())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	defer res.IfData.Close()

	got := joinKeywords(keywords(res.Tokens))
	if got != "BEFORE AFTER" {
		t.Errorf("tokens = %q, want %q (A2ML content must not appear in the A2L stream)", got, "BEFORE AFTER")
	}
	if !strings.HasPrefix(string(res.AmlBlob), "/begin A2ML") {
		t.Errorf("AmlBlob = %q, want it to start with /begin A2ML", res.AmlBlob)
	}
	if !strings.HasSuffix(string(res.AmlBlob), "A2ML") {
		t.Errorf("AmlBlob = %q, want it to end with A2ML", res.AmlBlob)
	}
}

func TestRun_IfDataDelimitersKeptInteriorCarved(t *testing.T) {
	dir := t.TempDir()
	root := writeFile(t, dir, "root.a2l", `BEFORE /begin IF_DATA XCP some raw vendor content here /end IF_DATA AFTER`)

	res, err := Run(root, DefaultOptions())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	defer res.IfData.Close()

	got := joinKeywords(keywords(res.Tokens))
	want := `BEFORE /begin IF_DATA XCP /end IF_DATA AFTER`
	if got != want {
		t.Errorf("tokens = %q, want %q", got, want)
	}

	var ifDataTok token.Token
	for _, tok := range res.Tokens {
		if tok.Text() == "IF_DATA" {
			ifDataTok = tok
			break
		}
	}
	payload, _, ok, err := res.IfData.Get(ifDataTok.Span.StartLine, ifDataTok.Span.StartCol)
	if err != nil {
		t.Fatalf("IfData.Get: %v", err)
	}
	if !ok {
		t.Fatalf("no IF_DATA record found at %d:%d", ifDataTok.Span.StartLine, ifDataTok.Span.StartCol)
	}
	if !strings.Contains(string(payload), "some raw vendor content here") {
		t.Errorf("payload = %q, want it to contain the raw interior text", payload)
	}
}
