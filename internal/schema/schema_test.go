package schema

import "testing"

func TestRoot_TopLevelChildren(t *testing.T) {
	for _, name := range []string{"ASAP2_VERSION", "A2ML_VERSION", "PROJECT"} {
		if _, ok := Root.ChildByName(name); !ok {
			t.Errorf("Root missing top-level keyword %q", name)
		}
	}
}

func TestProject_HasModuleAndHeader(t *testing.T) {
	project, ok := Root.ChildByName("PROJECT")
	if !ok {
		t.Fatalf("PROJECT not found")
	}
	if !project.IsBlock {
		t.Errorf("PROJECT.IsBlock = false, want true")
	}
	if _, ok := project.ChildByName("MODULE"); !ok {
		t.Errorf("PROJECT missing MODULE child")
	}
	if _, ok := project.ChildByName("HEADER"); !ok {
		t.Errorf("PROJECT missing HEADER child")
	}
}

func TestModule_HasDocumentedSubKeywords(t *testing.T) {
	project, _ := Root.ChildByName("PROJECT")
	module, ok := project.ChildByName("MODULE")
	if !ok {
		t.Fatalf("MODULE not found")
	}
	want := []string{
		"MEASUREMENT", "CHARACTERISTIC", "AXIS_PTS", "COMPU_METHOD", "COMPU_TAB",
		"COMPU_VTAB", "COMPU_VTAB_RANGE", "FUNCTION", "GROUP", "RECORD_LAYOUT",
		"MOD_PAR", "MOD_COMMON", "UNIT", "USER_RIGHTS", "VARIANT_CODING", "FRAME",
		"TYPEDEF_MEASUREMENT", "TYPEDEF_CHARACTERISTIC", "TYPEDEF_AXIS",
		"TYPEDEF_STRUCTURE", "TYPEDEF_BLOB", "INSTANCE", "BLOB", "TRANSFORMER",
		"IF_DATA", "A2ML",
	}
	for _, name := range want {
		if _, ok := module.ChildByName(name); !ok {
			t.Errorf("MODULE missing sub-keyword %q", name)
		}
	}
}

func TestTokenIDsAreStableAndUnique(t *testing.T) {
	seen := make(map[int]bool)
	var walk func(n *Node)
	walk = func(n *Node) {
		if seen[n.TokenID] {
			t.Errorf("duplicate token id %d on node %q", n.TokenID, n.Name)
		}
		seen[n.TokenID] = true
		for _, c := range n.ChildNodes() {
			walk(c)
		}
	}
	walk(Root)

	if _, ok := Lookup(Root.TokenID); !ok {
		t.Errorf("Lookup(Root.TokenID) not found in registry")
	}
}

func TestCompuTab_TupleParameter(t *testing.T) {
	project, _ := Root.ChildByName("PROJECT")
	module, _ := project.ChildByName("MODULE")
	compuTab, ok := module.ChildByName("COMPU_TAB")
	if !ok {
		t.Fatalf("COMPU_TAB not found")
	}
	last := compuTab.Params[len(compuTab.Params)-1]
	if last.Tuple == nil {
		t.Fatalf("COMPU_TAB's last parameter is not a tuple")
	}
	if len(last.Tuple.Elements) != 2 {
		t.Errorf("COMPU_TAB tuple elements = %d, want 2", len(last.Tuple.Elements))
	}
}
