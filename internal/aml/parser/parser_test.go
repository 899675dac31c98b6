package parser

import (
	"strings"
	"testing"

	"github.com/christoph2/a2lgo/internal/aml/ast"
)

func mustParse(t *testing.T, src string) *ast.AmlFile {
	t.Helper()
	file, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse(%q): unexpected error: %v", src, err)
	}
	return file
}

func TestParse_MinimalFile(t *testing.T) {
	file := mustParse(t, `/begin A2ML /end A2ML`)
	if file.Name != "A2ML" {
		t.Fatalf("Name = %q, want A2ML", file.Name)
	}
	if len(file.Declarations) != 0 {
		t.Fatalf("Declarations = %v, want empty", file.Declarations)
	}
}

func TestParse_PredefinedTypeWithDimensions(t *testing.T) {
	file := mustParse(t, `/begin A2ML int[4][2]; /end A2ML`)
	if len(file.Declarations) != 1 {
		t.Fatalf("Declarations len = %d, want 1", len(file.Declarations))
	}
	pt, ok := file.Declarations[0].TypeDef.(*ast.PredefinedType)
	if !ok {
		t.Fatalf("TypeDef = %T, want *ast.PredefinedType", file.Declarations[0].TypeDef)
	}
	if pt.Kind != ast.Int {
		t.Fatalf("Kind = %v, want Int", pt.Kind)
	}
	if got := pt.Dimensions; len(got) != 2 || got[0] != 4 || got[1] != 2 {
		t.Fatalf("Dimensions = %v, want [4 2]", got)
	}
}

func TestParse_NamedStructAndReferrer(t *testing.T) {
	src := `
	/begin A2ML
	struct Point { int; int; };
	block "POINT" struct Point;
	/end A2ML`
	file := mustParse(t, src)
	if len(file.Declarations) != 2 {
		t.Fatalf("Declarations len = %d, want 2", len(file.Declarations))
	}

	st, ok := file.Declarations[0].TypeDef.(*ast.Struct)
	if !ok || st.Name != "Point" || len(st.Members) != 2 {
		t.Fatalf("unexpected first declaration: %#v", file.Declarations[0].TypeDef)
	}

	blk := file.Declarations[1].Block
	if blk == nil || blk.Tag != "POINT" {
		t.Fatalf("unexpected second declaration block: %#v", blk)
	}
	ref, ok := blk.Type.(*ast.Referrer)
	if !ok || ref.Category != ast.CategoryStruct || ref.Name != "Point" {
		t.Fatalf("block type = %#v, want Referrer{Struct,Point}", blk.Type)
	}
}

func TestParse_EnumerationWithExplicitValues(t *testing.T) {
	src := `/begin A2ML enum Color { "RED" = 1, "GREEN" = 2, "BLUE" }; /end A2ML`
	file := mustParse(t, src)
	en, ok := file.Declarations[0].TypeDef.(*ast.Enumeration)
	if !ok || en.Name != "Color" {
		t.Fatalf("unexpected declaration: %#v", file.Declarations[0].TypeDef)
	}
	if len(en.Enumerators) != 3 {
		t.Fatalf("Enumerators len = %d, want 3", len(en.Enumerators))
	}
	if en.Enumerators[0].Value == nil || *en.Enumerators[0].Value != 1 {
		t.Fatalf("first enumerator value = %v, want 1", en.Enumerators[0].Value)
	}
	if en.Enumerators[2].Value != nil {
		t.Fatalf("third enumerator value = %v, want nil", en.Enumerators[2].Value)
	}
}

func TestParse_TaggedStructWithMultipleAndBlock(t *testing.T) {
	src := `
	/begin A2ML
	taggedstruct Measurements {
		("CHANNEL" int)*;
		block "ANNOTATION" struct { int; };
	};
	/end A2ML`
	file := mustParse(t, src)
	ts, ok := file.Declarations[0].TypeDef.(*ast.TaggedStruct)
	if !ok || ts.Name != "Measurements" {
		t.Fatalf("unexpected declaration: %#v", file.Declarations[0].TypeDef)
	}
	if len(ts.Members) != 2 {
		t.Fatalf("Members len = %d, want 2", len(ts.Members))
	}
	if !ts.Members[0].Multiple || ts.Members[0].Definition == nil || ts.Members[0].Definition.Tag != "CHANNEL" {
		t.Fatalf("unexpected first member: %#v", ts.Members[0])
	}
	if ts.Members[1].Block == nil || ts.Members[1].Block.Tag != "ANNOTATION" {
		t.Fatalf("unexpected second member: %#v", ts.Members[1])
	}
}

func TestParse_TaggedUnion(t *testing.T) {
	src := `
	/begin A2ML
	taggedunion Value {
		"INT" int;
		"FLOAT" float;
	};
	/end A2ML`
	file := mustParse(t, src)
	tu, ok := file.Declarations[0].TypeDef.(*ast.TaggedUnion)
	if !ok || len(tu.Members) != 2 {
		t.Fatalf("unexpected declaration: %#v", file.Declarations[0].TypeDef)
	}
	if tu.Members[0].Tag != "INT" || tu.Members[0].Member == nil {
		t.Fatalf("unexpected first member: %#v", tu.Members[0])
	}
}

func TestParse_UnresolvedReferrerFails(t *testing.T) {
	_, err := Parse(`/begin A2ML block "X" struct Missing; /end A2ML`)
	if err == nil {
		t.Fatalf("expected an unresolved-referrer error, got nil")
	}
	if !strings.Contains(err.Error(), "Missing") {
		t.Fatalf("error = %v, want it to mention the missing name", err)
	}
}

func TestParse_DuplicateTagFails(t *testing.T) {
	src := `
	/begin A2ML
	taggedstruct Dup { "A" int; "A" int; };
	/end A2ML`
	_, err := Parse(src)
	if err == nil {
		t.Fatalf("expected a duplicate-tag error, got nil")
	}
}

func TestParse_UnterminatedFileFails(t *testing.T) {
	_, err := Parse(`/begin A2ML struct S { int; }`)
	if err == nil {
		t.Fatalf("expected a premature-EOF error, got nil")
	}
}

func TestParse_BlockWithMultipleTypeName(t *testing.T) {
	file := mustParse(t, `/begin A2ML block "ITEM" (int)*; /end A2ML`)
	blk := file.Declarations[0].Block
	if blk == nil || !blk.Multiple || blk.Tag != "ITEM" {
		t.Fatalf("unexpected block declaration: %#v", blk)
	}
}
