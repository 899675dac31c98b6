// Package ifdata interprets stored IF_DATA text (§4.8) against the AML
// grammar reconstructed from a codec-unmarshalled AmlFile (§4.9). Unlike
// the A2L parser, which is driven by a static schema table, this parser is
// driven by a grammar tree discovered at runtime from whichever vendor AML
// blob the caller supplies.
package ifdata

import "github.com/christoph2/a2lgo/internal/aml/ast"

// Kind classifies an interpreted Node by which AML grammar construct
// produced it.
type Kind int

const (
	KindBlock Kind = iota
	KindStruct
	KindTaggedStruct
	KindTaggedUnion
	KindEnumeration
	KindPredefined
)

func (k Kind) String() string {
	switch k {
	case KindBlock:
		return "Block"
	case KindStruct:
		return "Struct"
	case KindTaggedStruct:
		return "TaggedStruct"
	case KindTaggedUnion:
		return "TaggedUnion"
	case KindEnumeration:
		return "Enumeration"
	case KindPredefined:
		return "Predefined"
	default:
		return "Unknown"
	}
}

// Node is one interpreted unit of IF_DATA content, shaped by the AML
// grammar node that consumed it.
type Node struct {
	Kind     Kind
	Name     string // tag/selector text, or the declared type name; empty for anonymous leaves
	Value    string // raw token text, for a Predefined or Enumeration leaf
	Children []*Node
}

// Options configures one interpretation run.
type Options struct {
	// Strict promotes a malformed-IF_DATA condition from a warning to a
	// fatal error. Default (false) matches §4.9/§7: non-fatal by default,
	// raw text always preserved by the caller regardless of outcome.
	Strict bool
}

// Warning records one non-fatal interpretation problem.
type Warning struct {
	Kind    string
	Message string
}

// FindBlock locates the top-level declaration in grammar tagged name (e.g.
// "IF_DATA"), the entry point §4.9 descends from.
func FindBlock(grammar *ast.AmlFile, name string) (*ast.BlockDefinition, bool) {
	for _, decl := range grammar.Declarations {
		if decl.Block != nil && decl.Block.Tag == name {
			return decl.Block, true
		}
	}
	return nil, false
}
