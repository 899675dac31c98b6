// Package a2l implements the table-driven A2L parser (§4.7) and the
// ValueContainer value model it produces (§3): a tree of named containers
// carrying ordered parameter values, ordered child containers, an optional
// repeated-values list for trailing-repeating/tuple parameters, and an
// optional raw IF_DATA text blob.
package a2l

import "fmt"

// Kind discriminates the normalized forms a parameter value can take,
// mirroring the tagged-variant shape the value model calls for in §3
// (string | unsigned integer | signed integer | float).
type Kind int

const (
	KindInt Kind = iota
	KindUInt
	KindFloat
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "Int"
	case KindUInt:
		return "UInt"
	case KindFloat:
		return "Float"
	case KindString:
		return "String"
	default:
		return "Unknown"
	}
}

// Value is one normalized, tagged parameter value.
type Value struct {
	Kind Kind
	I    int64
	U    uint64
	F    float64
	S    string
}

func (v Value) String() string {
	switch v.Kind {
	case KindInt:
		return fmt.Sprintf("%d", v.I)
	case KindUInt:
		return fmt.Sprintf("%d", v.U)
	case KindFloat:
		return fmt.Sprintf("%g", v.F)
	case KindString:
		return v.S
	default:
		return "<invalid>"
	}
}

// Param is one (name, value) pair recorded on a ValueContainer.
type Param struct {
	Name  string
	Value Value
}
