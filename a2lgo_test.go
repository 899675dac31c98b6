package a2lgo

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/christoph2/a2lgo/internal/ifdata"
)

func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writeTestFile %s: %v", name, err)
	}
	return path
}

func TestParseFile_MinimalProject(t *testing.T) {
	dir := t.TempDir()
	root := writeTestFile(t, dir, "project.a2l", `ASAP2_VERSION 1 60
/begin PROJECT p "demo project"
  /begin MODULE m ""
  /end MODULE
/end PROJECT`)

	doc, err := ParseFile(root, DefaultOptions())
	if err != nil {
		t.Fatalf("ParseFile: unexpected error: %v", err)
	}
	defer doc.Close()

	projects := doc.Root.ChildrenByName("Project")
	if len(projects) != 1 {
		t.Fatalf("Project children = %d, want 1", len(projects))
	}
	name, _ := projects[0].ParamByName("Name")
	if name.S != "p" {
		t.Errorf("Project.Name = %q, want p", name.S)
	}
}

func TestParseFile_WithInclude(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "module_body.a2l", `/begin MODULE m ""
/end MODULE`)
	root := writeTestFile(t, dir, "project.a2l", `/begin PROJECT p ""
/include "module_body.a2l"
/end PROJECT`)

	doc, err := ParseFile(root, DefaultOptions())
	if err != nil {
		t.Fatalf("ParseFile: unexpected error: %v", err)
	}
	defer doc.Close()

	modules := doc.Root.ChildrenByName("Project")[0].ChildrenByName("Module")
	if len(modules) != 1 {
		t.Fatalf("Module children = %d, want 1", len(modules))
	}
}

func TestParseFile_AmlGrammarAndIfData(t *testing.T) {
	dir := t.TempDir()
	src := `/begin PROJECT p ""
/begin MODULE m ""
/begin A2ML
	block "IF_DATA" taggedstruct {
		"VERSION" uint;
	};
/end A2ML
/begin IF_DATA XCP VERSION 7 /end IF_DATA
/end MODULE
/end PROJECT`
	root := writeTestFile(t, dir, "project.a2l", src)

	doc, err := ParseFile(root, DefaultOptions())
	if err != nil {
		t.Fatalf("ParseFile: unexpected error: %v", err)
	}
	defer doc.Close()

	module := doc.Root.ChildrenByName("Project")[0].ChildrenByName("Module")[0]
	ifDataNodes := module.ChildrenByName("IfData")
	if len(ifDataNodes) != 1 {
		t.Fatalf("IfData children = %d, want 1", len(ifDataNodes))
	}
	if !strings.Contains(string(ifDataNodes[0].IfData), "VERSION 7") {
		t.Fatalf("raw IF_DATA text = %q, want it to contain VERSION 7", ifDataNodes[0].IfData)
	}

	grammar, err := doc.AmlGrammar()
	if err != nil {
		t.Fatalf("AmlGrammar: unexpected error: %v", err)
	}
	if _, ok := ifdata.FindBlock(grammar, "IF_DATA"); !ok {
		t.Fatalf("reconstructed grammar has no IF_DATA block")
	}

	node, warnings, err := doc.ParseIfData(ifDataNodes[0], "IF_DATA", IfDataOptions{})
	if err != nil {
		t.Fatalf("ParseIfData: unexpected error: %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("warnings = %v, want none", warnings)
	}
	if node == nil || len(node.Children) != 1 || node.Children[0].Children[0].Value != "7" {
		t.Fatalf("interpreted IF_DATA node = %+v", node)
	}
}

func TestParseFile_TokenStreamReplaysParsedTokens(t *testing.T) {
	dir := t.TempDir()
	root := writeTestFile(t, dir, "project.a2l", `ASAP2_VERSION 1 60
/begin PROJECT p "demo project"
  /begin MODULE m ""
  /end MODULE
/end PROJECT`)

	doc, err := ParseFile(root, DefaultOptions())
	if err != nil {
		t.Fatalf("ParseFile: unexpected error: %v", err)
	}
	defer doc.Close()

	ts := doc.TokenStream()
	if ts.Len() == 0 {
		t.Fatalf("TokenStream.Len() = 0, want > 0")
	}

	var texts []string
	for tok := range ts.Tokens() {
		texts = append(texts, tok.Text())
	}
	if len(texts) != ts.Len() {
		t.Fatalf("Tokens() yielded %d tokens, Len() reports %d", len(texts), ts.Len())
	}
	if texts[0] != "ASAP2_VERSION" {
		t.Errorf("first token = %q, want ASAP2_VERSION", texts[0])
	}
	if texts[len(texts)-1] != "PROJECT" {
		t.Errorf("last token = %q, want PROJECT", texts[len(texts)-1])
	}

	// The replayed stream holds only significant tokens: no whitespace
	// between "/begin" and "PROJECT" should have produced extra entries.
	for _, text := range texts {
		if strings.TrimSpace(text) == "" {
			t.Fatalf("TokenStream contained a blank/whitespace token %q", text)
		}
	}
}

func TestParseFile_IncludeCycleFails(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "a.a2l", `/include "b.a2l"`)
	writeTestFile(t, dir, "b.a2l", `/include "a.a2l"`)

	_, err := ParseFile(filepath.Join(dir, "a.a2l"), DefaultOptions())
	if err == nil {
		t.Fatalf("expected a cycle error, got nil")
	}
}
