// Package schema is the static, tree-shaped A2L keyword grammar described
// by §4.5: for every keyword, its stable token id, display name, container
// class name, whether it opens a /begin … /end block, whether it may
// repeat within its parent, its ordered parameter list, and its nested
// keywords.
//
// Per the design notes (§9), the table is built as a Go data literal rather
// than hand-maintained line by line; it covers the keyword hierarchy named
// by the spec (PROJECT, MODULE, and the documented MODULE sub-keywords)
// with a representative, faithful parameter ordering for each — see
// DESIGN.md for the scoping rationale (the full ASAM table is tens of
// thousands of lines and out of proportion with what this module needs to
// demonstrate the schema-driven parser).
package schema

import "github.com/christoph2/a2lgo/internal/asamtype"

// TupleSpec describes a tuple parameter: a counter parameter followed by n
// repetitions of a fixed element list (§4.5).
type TupleSpec struct {
	CounterName string
	Elements    []Param
}

// Param is one ordered parameter descriptor of a schema Node.
type Param struct {
	Name string
	// Discriminator selects a catalog entry from internal/asamtype for a
	// predefined-type or ASAM-wide-enumeration parameter. Ignored when
	// Literals is non-empty.
	Discriminator asamtype.Discriminator
	// Literals, when non-empty, makes this parameter a keyword-local
	// enumeration of literal tokens not present in the ASAM-wide catalog
	// (e.g. CHARACTERISTIC's Type parameter).
	Literals []string
	// Repeating marks a simple parameter that consumes tokens until one
	// fails its class/membership test; only legal as a keyword's last
	// parameter.
	Repeating bool
	// Tuple, when non-nil, makes this a tuple parameter; Discriminator
	// then types the counter, and Literals and Repeating are ignored.
	Tuple *TupleSpec
}

// Node is one A2L schema tree node.
type Node struct {
	TokenID    int
	Name       string // display keyword, e.g. "MEASUREMENT"
	ClassName  string // container class name, e.g. "Measurement"
	IsBlock    bool
	IsMultiple bool
	Params     []Param

	children   []*Node
	byName     map[string]*Node
}

// ChildByName looks up a direct child keyword by its display name.
func (n *Node) ChildByName(name string) (*Node, bool) {
	c, ok := n.byName[name]
	return c, ok
}

// ChildNodes returns n's direct children in declaration order.
func (n *Node) ChildNodes() []*Node { return n.children }

var (
	registry   = map[int]*Node{}
	nextTokenID int
)

func newNode(name, class string, isBlock, isMultiple bool, params []Param, children ...*Node) *Node {
	nextTokenID++
	n := &Node{
		TokenID:    nextTokenID,
		Name:       name,
		ClassName:  class,
		IsBlock:    isBlock,
		IsMultiple: isMultiple,
		Params:     params,
		children:   children,
		byName:     make(map[string]*Node, len(children)),
	}
	for _, c := range children {
		n.byName[c.Name] = c
	}
	registry[n.TokenID] = n
	return n
}

func p(name string, d asamtype.Discriminator) Param { return Param{Name: name, Discriminator: d} }

func pRepeating(name string, d asamtype.Discriminator) Param {
	return Param{Name: name, Discriminator: d, Repeating: true}
}

func pLiteral(name string, literals ...string) Param {
	return Param{Name: name, Literals: literals}
}

func pTuple(counterName string, d asamtype.Discriminator, elements ...Param) Param {
	return Param{Tuple: &TupleSpec{CounterName: counterName, Elements: elements}, Discriminator: d}
}

// Root is the process-wide immutable A2L schema table. It is not itself a
// keyword; it seeds the parser's schema-node stack (§4.7) with the
// top-level keyword set.
var Root = buildRoot()

func buildRoot() *Node {
	asap2Version := newNode("ASAP2_VERSION", "Asap2Version", false, false, []Param{
		p("VersionNo", asamtype.DUInt),
		p("UpgradeNo", asamtype.DUInt),
	})
	a2mlVersion := newNode("A2ML_VERSION", "A2mlVersion", false, false, []Param{
		p("VersionNo", asamtype.DUInt),
		p("UpgradeNo", asamtype.DUInt),
	})

	a2ml := newNode("A2ML", "A2ml", true, false, nil)
	ifData := newNode("IF_DATA", "IfData", true, true, []Param{
		p("Name", asamtype.DIdent),
	})

	header := newNode("HEADER", "Header", true, false, []Param{
		p("Comment", asamtype.DString),
	},
		newNode("PROJECT_NO", "ProjectNo", false, false, []Param{p("ProjectNumber", asamtype.DIdent)}),
		newNode("VERSION", "Version", false, false, []Param{p("VersionIdentifier", asamtype.DString)}),
	)

	measurement := newNode("MEASUREMENT", "Measurement", true, true, []Param{
		p("Name", asamtype.DIdent),
		p("LongIdentifier", asamtype.DString),
		p("Datatype", asamtype.DDatatype),
		p("Conversion", asamtype.DIdent),
		p("Resolution", asamtype.DULong),
		p("Accuracy", asamtype.DFloat),
		p("LowerLimit", asamtype.DFloat),
		p("UpperLimit", asamtype.DFloat),
	})

	characteristic := newNode("CHARACTERISTIC", "Characteristic", true, true, []Param{
		p("Name", asamtype.DIdent),
		p("LongIdentifier", asamtype.DString),
		pLiteral("Type", "ASCII", "VALUE", "CURVE", "MAP", "CUBOID", "CUBE_4", "CUBE_5", "VAL_BLK", "DEPENDENCY_CHARACTERISTIC"),
		p("Address", asamtype.DULong),
		p("Deposit", asamtype.DIdent),
		p("MaxDiff", asamtype.DFloat),
		p("Conversion", asamtype.DIdent),
		p("LowerLimit", asamtype.DFloat),
		p("UpperLimit", asamtype.DFloat),
	})

	axisPts := newNode("AXIS_PTS", "AxisPts", true, true, []Param{
		p("Name", asamtype.DIdent),
		p("LongIdentifier", asamtype.DString),
		p("Address", asamtype.DULong),
		p("InputQuantity", asamtype.DIdent),
		p("Deposit", asamtype.DIdent),
		p("MaxDiff", asamtype.DFloat),
		p("Conversion", asamtype.DIdent),
		p("MaxAxisPoints", asamtype.DUInt),
		p("LowerLimit", asamtype.DFloat),
		p("UpperLimit", asamtype.DFloat),
	})

	compuMethod := newNode("COMPU_METHOD", "CompuMethod", true, true, []Param{
		p("Name", asamtype.DIdent),
		p("LongIdentifier", asamtype.DString),
		pLiteral("ConversionType", "IDENTICAL", "FORM", "LINEAR", "RAT_FUNC", "TAB_INTP", "TAB_NOINTP", "TAB_VERB"),
		p("Format", asamtype.DString),
		p("Unit", asamtype.DString),
	})

	compuTab := newNode("COMPU_TAB", "CompuTab", true, true, []Param{
		p("Name", asamtype.DIdent),
		p("LongIdentifier", asamtype.DString),
		pLiteral("ConversionType", "TAB_INTP", "TAB_NOINTP"),
		pTuple("NumberValuePairs", asamtype.DUInt,
			p("InVal", asamtype.DFloat),
			p("OutVal", asamtype.DFloat),
		),
	})

	compuVtab := newNode("COMPU_VTAB", "CompuVtab", true, true, []Param{
		p("Name", asamtype.DIdent),
		p("LongIdentifier", asamtype.DString),
		pLiteral("ConversionType", "TAB_VERB"),
		pTuple("NumberValuePairs", asamtype.DUInt,
			p("InVal", asamtype.DFloat),
			p("OutVal", asamtype.DString),
		),
	})

	compuVtabRange := newNode("COMPU_VTAB_RANGE", "CompuVtabRange", true, true, []Param{
		p("Name", asamtype.DIdent),
		p("LongIdentifier", asamtype.DString),
		pTuple("NumberValueTriples", asamtype.DUInt,
			p("InValMin", asamtype.DFloat),
			p("InValMax", asamtype.DFloat),
			p("OutVal", asamtype.DString),
		),
	})

	function := newNode("FUNCTION", "Function", true, true, []Param{
		p("Name", asamtype.DIdent),
		p("LongIdentifier", asamtype.DString),
	})

	group := newNode("GROUP", "Group", true, true, []Param{
		p("GroupName", asamtype.DIdent),
		p("GroupLongIdentifier", asamtype.DString),
	})

	recordLayout := newNode("RECORD_LAYOUT", "RecordLayout", true, true, []Param{
		p("Name", asamtype.DIdent),
	})

	modPar := newNode("MOD_PAR", "ModPar", true, false, []Param{
		p("Comment", asamtype.DString),
	})

	modCommon := newNode("MOD_COMMON", "ModCommon", true, false, []Param{
		p("Comment", asamtype.DString),
	})

	unit := newNode("UNIT", "Unit", true, true, []Param{
		p("Name", asamtype.DIdent),
		p("LongIdentifier", asamtype.DString),
		p("Display", asamtype.DString),
		pLiteral("Type", "DERIVED", "EXTENDED_SI"),
	})

	userRights := newNode("USER_RIGHTS", "UserRights", true, true, []Param{
		p("UserLevelId", asamtype.DIdent),
	})

	variantCoding := newNode("VARIANT_CODING", "VariantCoding", true, false, nil)

	frame := newNode("FRAME", "Frame", true, true, []Param{
		p("Name", asamtype.DIdent),
		p("LongIdentifier", asamtype.DString),
		p("ScalingUnit", asamtype.DUInt),
		p("Rate", asamtype.DULong),
	})

	typedefMeasurement := newNode("TYPEDEF_MEASUREMENT", "TypedefMeasurement", true, true, []Param{
		p("Name", asamtype.DIdent),
		p("LongIdentifier", asamtype.DString),
		p("Datatype", asamtype.DDatatype),
		p("Conversion", asamtype.DIdent),
		p("Resolution", asamtype.DULong),
		p("Accuracy", asamtype.DFloat),
		p("LowerLimit", asamtype.DFloat),
		p("UpperLimit", asamtype.DFloat),
	})

	typedefCharacteristic := newNode("TYPEDEF_CHARACTERISTIC", "TypedefCharacteristic", true, true, []Param{
		p("Name", asamtype.DIdent),
		p("LongIdentifier", asamtype.DString),
		pLiteral("Type", "ASCII", "VALUE", "CURVE", "MAP", "CUBOID", "CUBE_4", "CUBE_5", "VAL_BLK"),
		p("Deposit", asamtype.DIdent),
		p("MaxDiff", asamtype.DFloat),
		p("Conversion", asamtype.DIdent),
		p("LowerLimit", asamtype.DFloat),
		p("UpperLimit", asamtype.DFloat),
	})

	typedefAxis := newNode("TYPEDEF_AXIS", "TypedefAxis", true, true, []Param{
		p("Name", asamtype.DIdent),
		p("LongIdentifier", asamtype.DString),
		p("InputQuantity", asamtype.DIdent),
		p("Deposit", asamtype.DIdent),
		p("MaxDiff", asamtype.DFloat),
		p("Conversion", asamtype.DIdent),
		p("MaxAxisPoints", asamtype.DUInt),
		p("LowerLimit", asamtype.DFloat),
		p("UpperLimit", asamtype.DFloat),
	})

	typedefStructure := newNode("TYPEDEF_STRUCTURE", "TypedefStructure", true, true, []Param{
		p("Name", asamtype.DIdent),
		p("LongIdentifier", asamtype.DString),
		p("Size", asamtype.DULong),
	})

	typedefBlob := newNode("TYPEDEF_BLOB", "TypedefBlob", true, true, []Param{
		p("Name", asamtype.DIdent),
		p("LongIdentifier", asamtype.DString),
		p("Size", asamtype.DULong),
	})

	instance := newNode("INSTANCE", "Instance", true, true, []Param{
		p("Name", asamtype.DIdent),
		p("LongIdentifier", asamtype.DString),
		p("TypedefName", asamtype.DIdent),
		p("Address", asamtype.DULong),
	})

	blob := newNode("BLOB", "Blob", true, true, []Param{
		p("Name", asamtype.DIdent),
		p("LongIdentifier", asamtype.DString),
		p("Address", asamtype.DULong),
		p("Size", asamtype.DULong),
	})

	transformer := newNode("TRANSFORMER", "Transformer", true, true, []Param{
		p("Name", asamtype.DIdent),
		p("Version", asamtype.DString),
		p("Dllname32", asamtype.DString),
		p("Dllname64", asamtype.DString),
		p("Timeout", asamtype.DULong),
		pLiteral("TriggerCondition", "ON_CHANGE", "ON_USER_REQUEST"),
		p("ReverseTransformer", asamtype.DIdent),
	})

	module := newNode("MODULE", "Module", true, true, []Param{
		p("Name", asamtype.DIdent),
		p("LongIdentifier", asamtype.DString),
	},
		a2ml, ifData, modPar, modCommon,
		measurement, characteristic, axisPts,
		compuMethod, compuTab, compuVtab, compuVtabRange,
		function, group, recordLayout, unit, userRights, variantCoding, frame,
		typedefMeasurement, typedefCharacteristic, typedefAxis, typedefStructure, typedefBlob,
		instance, blob, transformer,
	)

	project := newNode("PROJECT", "Project", true, false, []Param{
		p("Name", asamtype.DIdent),
		p("LongIdentifier", asamtype.DString),
	}, header, module)

	return newNode("#ROOT#", "Root", true, false, nil, asap2Version, a2mlVersion, project)
}

// Lookup resolves a token id to its schema Node (SUPPLEMENTED FEATURES:
// usable outside the parser's own descent, e.g. by tooling).
func Lookup(tokenID int) (*Node, bool) {
	n, ok := registry[tokenID]
	return n, ok
}

// Children returns the direct children of the node at tokenID, in
// declaration order.
func Children(tokenID int) ([]*Node, bool) {
	n, ok := registry[tokenID]
	if !ok {
		return nil, false
	}
	return n.children, true
}
