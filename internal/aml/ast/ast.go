// Package ast defines the AML (ASAM Meta Language) abstract syntax tree
// described by §3: predefined types, structs, tagged structs, tagged
// unions, enumerations, and block definitions, plus the named-referrer
// indirection used for forward references within one AML file.
//
// Per the design notes (§9), referrers are indirect lookups, never
// back-pointers: the tree is child-owned and acyclic, and a separate
// Resolver (resolve.go) answers "what does this referrer point to".
package ast

// Type is implemented by every node that can appear wherever an AML
// type_name is expected: PredefinedType, Struct, TaggedStruct, TaggedUnion,
// Enumeration, or Referrer.
type Type interface {
	isAmlType()
}

// PredefinedKind enumerates AML's built-in scalar types.
type PredefinedKind int

const (
	Char PredefinedKind = iota
	Int
	Long
	UChar
	UInt
	ULong
	Int64
	UInt64
	Double
	Float
	Float16
)

func (k PredefinedKind) String() string {
	switch k {
	case Char:
		return "char"
	case Int:
		return "int"
	case Long:
		return "long"
	case UChar:
		return "uchar"
	case UInt:
		return "uint"
	case ULong:
		return "ulong"
	case Int64:
		return "int64"
	case UInt64:
		return "uint64"
	case Double:
		return "double"
	case Float:
		return "float"
	case Float16:
		return "float16"
	default:
		return "unknown"
	}
}

// PredefinedType is an AML scalar type, optionally with an array dimension
// list (one dimension per trailing "[N]").
type PredefinedType struct {
	Kind       PredefinedKind
	Dimensions []int
}

func (*PredefinedType) isAmlType() {}

// Category discriminates what kind of named declaration a Referrer points
// at.
type Category int

const (
	CategoryEnumeration Category = iota
	CategoryStruct
	CategoryTaggedStruct
	CategoryTaggedUnion
)

func (c Category) String() string {
	switch c {
	case CategoryEnumeration:
		return "Enumeration"
	case CategoryStruct:
		return "Struct"
	case CategoryTaggedStruct:
		return "TaggedStruct"
	case CategoryTaggedUnion:
		return "TaggedUnion"
	default:
		return "Unknown"
	}
}

// Referrer is a named reference to a type declared elsewhere (earlier or
// later) in the same AmlFile.
type Referrer struct {
	Category Category
	Name     string
}

func (*Referrer) isAmlType() {}

// Enumerator is one tag of an Enumeration, with an optional explicit value.
type Enumerator struct {
	Tag   string
	Value *int64
}

// Enumeration is a named, anonymous-allowed set of unique tags.
type Enumeration struct {
	Name        string // empty for an anonymous enum
	Enumerators []Enumerator
}

func (*Enumeration) isAmlType() {}

// Member is a struct field or tagged-struct/union arm body: an optional
// nested type and/or an optional inline block definition (per the grammar's
// `member := block_definition | type_name?`).
type Member struct {
	Type  Type
	Block *BlockDefinition
}

// IsEmpty reports a member with neither a type nor a block (a bare ';').
func (m Member) IsEmpty() bool { return m.Type == nil && m.Block == nil }

// Struct is a named (or anonymous) ordered sequence of members.
type Struct struct {
	Name    string
	Members []Member
}

func (*Struct) isAmlType() {}

// TaggedStructDefinition is one "TAG (member)*" or "TAG member?" arm.
type TaggedStructDefinition struct {
	Tag      string
	Member   *Member
	Multiple bool
}

// TaggedStructMember wraps either a TaggedStructDefinition or a bare block
// definition as one entry of a TaggedStruct; Multiple marks the
// "(...)* " repeatable form from the grammar.
type TaggedStructMember struct {
	Definition *TaggedStructDefinition
	Block      *BlockDefinition
	Multiple   bool
}

// Tag returns the selector tag for this member, from whichever of
// Definition/Block is populated.
func (m TaggedStructMember) Tag() string {
	switch {
	case m.Definition != nil:
		return m.Definition.Tag
	case m.Block != nil:
		return m.Block.Tag
	default:
		return ""
	}
}

// TaggedStruct is a named (or anonymous) set of tag-selected members. Tags
// within one TaggedStruct are unique (§3 invariant).
type TaggedStruct struct {
	Name    string
	Members []TaggedStructMember
}

func (*TaggedStruct) isAmlType() {}

// TaggedUnionMember is one "TAG member?" or bare block_definition arm of a
// TaggedUnion.
type TaggedUnionMember struct {
	Tag   string
	Member *Member
	Block  *BlockDefinition
}

// TagOrBlockTag returns the selector for this member.
func (m TaggedUnionMember) TagOrBlockTag() string {
	if m.Tag != "" {
		return m.Tag
	}
	if m.Block != nil {
		return m.Block.Tag
	}
	return ""
}

// TaggedUnion is a named (or anonymous) set of tag-selected alternatives.
// Tags within one TaggedUnion are unique (§3 invariant).
type TaggedUnion struct {
	Name    string
	Members []TaggedUnionMember
}

func (*TaggedUnion) isAmlType() {}

// BlockDefinition is "block TAG (type_name)*" or "block TAG type_name".
type BlockDefinition struct {
	Tag      string
	Type     Type
	Multiple bool
}

// Declaration is one top-level AmlFile entry: a named type definition, or a
// block definition.
type Declaration struct {
	TypeDef Type
	Block   *BlockDefinition
}

// AmlFile is the root of the AML AST: "begin IDENT declaration* end IDENT".
type AmlFile struct {
	Name         string
	Declarations []Declaration
}

// DeclaredName returns the name under which d would be registered for
// referrer resolution, and the category it belongs to, or ok=false if d
// cannot be referred to (predefined types and blocks are never referrer
// targets).
func DeclaredName(t Type) (name string, category Category, ok bool) {
	switch v := t.(type) {
	case *Struct:
		return v.Name, CategoryStruct, v.Name != ""
	case *TaggedStruct:
		return v.Name, CategoryTaggedStruct, v.Name != ""
	case *TaggedUnion:
		return v.Name, CategoryTaggedUnion, v.Name != ""
	case *Enumeration:
		return v.Name, CategoryEnumeration, v.Name != ""
	default:
		return "", 0, false
	}
}
