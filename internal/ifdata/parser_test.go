package ifdata

import (
	"testing"

	"github.com/christoph2/a2lgo/internal/aml/ast"
)

func sampleGrammar() *ast.AmlFile {
	return &ast.AmlFile{
		Name: "IF_DATA_GRAMMAR",
		Declarations: []ast.Declaration{
			{
				Block: &ast.BlockDefinition{
					Tag: "IF_DATA",
					Type: &ast.TaggedStruct{
						Name: "IfDataBody",
						Members: []ast.TaggedStructMember{
							{
								Definition: &ast.TaggedStructDefinition{
									Tag:    "VERSION",
									Member: &ast.Member{Type: &ast.PredefinedType{Kind: ast.UInt}},
								},
							},
							{
								Block: &ast.BlockDefinition{
									Tag: "SOURCE",
									Type: &ast.Struct{
										Name: "Source",
										Members: []ast.Member{
											{Type: &ast.PredefinedType{Kind: ast.UInt}},
											{Type: &ast.PredefinedType{Kind: ast.UInt}},
										},
									},
								},
							},
						},
					},
				},
			},
		},
	}
}

func TestParse_TaggedStructWithBlockAndDefMembers(t *testing.T) {
	grammar := sampleGrammar()
	text := `VERSION 1 /begin SOURCE 100 200 /end SOURCE`

	node, warnings, err := Parse(text, grammar, "IF_DATA", Options{})
	if err != nil {
		t.Fatalf("Parse: unexpected error: %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("warnings = %v, want none", warnings)
	}
	if node.Kind != KindTaggedStruct || len(node.Children) != 2 {
		t.Fatalf("node = %+v, want a 2-child taggedstruct", node)
	}

	version := node.Children[0]
	if version.Name != "VERSION" || len(version.Children) != 1 || version.Children[0].Value != "1" {
		t.Errorf("VERSION child = %+v", version)
	}

	source := node.Children[1]
	if source.Kind != KindBlock || source.Name != "SOURCE" {
		t.Fatalf("SOURCE child = %+v, want a Block node", source)
	}
	inner := source.Children[0]
	if inner.Kind != KindStruct || len(inner.Children) != 2 {
		t.Fatalf("SOURCE struct = %+v", inner)
	}
	if inner.Children[0].Value != "100" || inner.Children[1].Value != "200" {
		t.Errorf("SOURCE values = %+v, want [100 200]", inner.Children)
	}
}

func TestParse_UnknownTagIsNonFatalByDefault(t *testing.T) {
	grammar := sampleGrammar()
	text := `BOGUS_TAG 1`

	node, warnings, err := Parse(text, grammar, "IF_DATA", Options{})
	if err != nil {
		t.Fatalf("Parse: unexpected error in non-strict mode: %v", err)
	}
	if len(warnings) == 0 {
		t.Fatalf("expected a warning for the unknown tag, got none")
	}
	if warnings[0].Kind != "UnknownTag" {
		t.Errorf("warning kind = %q, want UnknownTag", warnings[0].Kind)
	}
	if node == nil {
		t.Fatalf("expected a best-effort node even on a warning")
	}
}

func TestParse_UnknownTagIsFatalInStrictMode(t *testing.T) {
	grammar := sampleGrammar()
	text := `BOGUS_TAG 1`

	_, _, err := Parse(text, grammar, "IF_DATA", Options{Strict: true})
	if err == nil {
		t.Fatalf("expected an error in strict mode, got nil")
	}
	if _, ok := err.(ParseError); !ok {
		t.Fatalf("error = %T, want ParseError", err)
	}
}

func TestParse_InvalidNumericLiteralWarns(t *testing.T) {
	grammar := sampleGrammar()
	text := `VERSION not_a_number`

	_, warnings, err := Parse(text, grammar, "IF_DATA", Options{})
	if err != nil {
		t.Fatalf("Parse: unexpected error: %v", err)
	}
	if len(warnings) != 1 || warnings[0].Kind != "InvalidLiteral" {
		t.Fatalf("warnings = %v, want one InvalidLiteral warning", warnings)
	}
}

func TestParse_NoSuchBlockFails(t *testing.T) {
	grammar := sampleGrammar()
	_, _, err := Parse("", grammar, "NOT_IF_DATA", Options{})
	if err == nil {
		t.Fatalf("expected an error, got nil")
	}
}
