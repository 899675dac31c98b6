package codec

import (
	"reflect"
	"testing"

	"github.com/christoph2/a2lgo/internal/aml/ast"
	"github.com/christoph2/a2lgo/internal/aml/parser"
)

func roundTrip(t *testing.T, file *ast.AmlFile) *ast.AmlFile {
	t.Helper()
	data, err := Marshal(file)
	if err != nil {
		t.Fatalf("Marshal: unexpected error: %v", err)
	}
	got, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal: unexpected error: %v", err)
	}
	return got
}

func TestRoundTrip_SimpleStruct(t *testing.T) {
	file, err := parser.Parse(`/begin A2ML struct S { uint; }; /end A2ML`)
	if err != nil {
		t.Fatalf("Parse: unexpected error: %v", err)
	}
	got := roundTrip(t, file)
	if !reflect.DeepEqual(file, got) {
		t.Fatalf("round trip mismatch:\n got=%#v\nwant=%#v", got, file)
	}
}

func TestRoundTrip_EnumerationWithValues(t *testing.T) {
	file, err := parser.Parse(`/begin A2ML enum Color { "RED" = 1, "GREEN" = 2, "BLUE" }; /end A2ML`)
	if err != nil {
		t.Fatalf("Parse: unexpected error: %v", err)
	}
	got := roundTrip(t, file)
	if !reflect.DeepEqual(file, got) {
		t.Fatalf("round trip mismatch:\n got=%#v\nwant=%#v", got, file)
	}
}

func TestRoundTrip_TaggedStructAndUnionAndReferrer(t *testing.T) {
	src := `
	/begin A2ML
	struct Point { int; int; };
	taggedunion Value { "INT" int; "FLOAT" float; };
	taggedstruct Measurements {
		("CHANNEL" int)*;
		block "ANNOTATION" struct { int; };
	};
	block "POINT" struct Point;
	/end A2ML`
	file, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("Parse: unexpected error: %v", err)
	}
	got := roundTrip(t, file)
	if !reflect.DeepEqual(file, got) {
		t.Fatalf("round trip mismatch:\n got=%#v\nwant=%#v", got, file)
	}
}

func TestRoundTrip_ArrayDimensions(t *testing.T) {
	file, err := parser.Parse(`/begin A2ML int[4][2]; /end A2ML`)
	if err != nil {
		t.Fatalf("Parse: unexpected error: %v", err)
	}
	got := roundTrip(t, file)
	if !reflect.DeepEqual(file, got) {
		t.Fatalf("round trip mismatch:\n got=%#v\nwant=%#v", got, file)
	}
}

func TestUnmarshal_TruncatedStreamFails(t *testing.T) {
	file, err := parser.Parse(`/begin A2ML struct S { uint; }; /end A2ML`)
	if err != nil {
		t.Fatalf("Parse: unexpected error: %v", err)
	}
	data, err := Marshal(file)
	if err != nil {
		t.Fatalf("Marshal: unexpected error: %v", err)
	}
	for cut := 0; cut < len(data); cut += 7 {
		if _, err := Unmarshal(data[:cut]); err == nil {
			t.Fatalf("Unmarshal(truncated to %d bytes): expected error, got nil", cut)
		}
	}
}
