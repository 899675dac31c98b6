// Package asamtype is the ASAM predefined value-type catalog (§4.6): a
// small, process-wide immutable table of the types used to validate A2L
// parameters. Mirrors the teacher's graph.Value{Kind, ...} tagged-variant
// shape in its Kind-tagged Type entries; Validate reports acceptance as a
// bool, and the caller builds any error from ValidRange.
package asamtype

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/christoph2/a2lgo/internal/token"
)

// Kind discriminates the predefined ASAM types.
type Kind int

const (
	KindInt Kind = iota
	KindUInt
	KindLong
	KindULong
	KindFloat
	KindString
	KindIdent
	KindEnum
)

// Type is the catalog entry for one predefined ASAM type. It validates raw
// token text and reports its acceptable range for diagnostics.
type Type struct {
	Kind         Kind
	Name         string
	Enumerators  []string // only for named enumerations
	acceptsToken func(token.Token) bool
}

// Validate reports whether tok's text is an acceptable value for t.
func (t Type) Validate(tok token.Token) bool {
	if t.acceptsToken != nil && !t.acceptsToken(tok) {
		return false
	}
	switch t.Kind {
	case KindInt:
		v, err := parseSignedInt(tok.Text())
		return err == nil && v >= -32768 && v <= 32767
	case KindUInt:
		v, err := parseUnsignedInt(tok.Text())
		return err == nil && v <= 65535
	case KindLong:
		v, err := parseSignedInt(tok.Text())
		return err == nil && v >= -2147483648 && v <= 2147483647
	case KindULong:
		v, err := parseUnsignedInt(tok.Text())
		return err == nil && v <= 4294967295
	case KindFloat:
		_, err := strconv.ParseFloat(tok.Text(), 64)
		return err == nil
	case KindString, KindIdent:
		return true
	case KindEnum:
		if len(t.Enumerators) == 0 {
			return true
		}
		for _, e := range t.Enumerators {
			if e == tok.Text() {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// ValidRange renders a human-readable description of acceptable values, for
// diagnostics.
func (t Type) ValidRange() string {
	switch t.Kind {
	case KindInt:
		return "-32768..32767"
	case KindUInt:
		return "0..65535"
	case KindLong:
		return "-2147483648..2147483647"
	case KindULong:
		return "0..4294967295"
	case KindFloat:
		return "any IEEE-754 double"
	case KindString, KindIdent:
		return ""
	case KindEnum:
		quoted := make([]string, len(t.Enumerators))
		for i, e := range t.Enumerators {
			quoted[i] = `"` + e + `"`
		}
		return strings.Join(quoted, ", ")
	default:
		return ""
	}
}

func parseSignedInt(text string) (int64, error) {
	if strings.HasPrefix(text, "0x") || strings.HasPrefix(text, "0X") {
		u, err := strconv.ParseUint(text[2:], 16, 64)
		return int64(u), err
	}
	return strconv.ParseInt(text, 10, 64)
}

func parseUnsignedInt(text string) (uint64, error) {
	if strings.HasPrefix(text, "0x") || strings.HasPrefix(text, "0X") {
		return strconv.ParseUint(text[2:], 16, 64)
	}
	return strconv.ParseUint(text, 10, 64)
}

func isNumericToken(tok token.Token) bool { return tok.Class == token.Regular }

// The process-wide catalog. Initialized once; the entries are pure,
// read-only data shared by every A2L parse.
var (
	Int    = Type{Kind: KindInt, Name: "Int", acceptsToken: isNumericToken}
	UInt   = Type{Kind: KindUInt, Name: "UInt", acceptsToken: isNumericToken}
	Long   = Type{Kind: KindLong, Name: "Long", acceptsToken: isNumericToken}
	ULong  = Type{Kind: KindULong, Name: "ULong", acceptsToken: isNumericToken}
	Float  = Type{Kind: KindFloat, Name: "Float", acceptsToken: isNumericToken}
	String = Type{Kind: KindString, Name: "String", acceptsToken: func(tok token.Token) bool { return tok.Class == token.String }}
	Ident  = Type{Kind: KindIdent, Name: "Ident", acceptsToken: isNumericToken}

	Datatype = Type{Kind: KindEnum, Name: "Datatype", acceptsToken: isNumericToken, Enumerators: []string{
		"UBYTE", "SBYTE", "UWORD", "SWORD", "ULONG", "SLONG",
		"A_UINT64", "A_INT64", "FLOAT16_IEEE", "FLOAT32_IEEE", "FLOAT64_IEEE",
	}}
	IndexOrder = Type{Kind: KindEnum, Name: "IndexOrder", acceptsToken: isNumericToken, Enumerators: []string{
		"INDEX_INCR", "INDEX_DECR",
	}}
	AddrType = Type{Kind: KindEnum, Name: "AddrType", acceptsToken: isNumericToken, Enumerators: []string{
		"PBYTE", "PWORD", "PLONG", "DIRECT",
	}}
	ByteOrder = Type{Kind: KindEnum, Name: "ByteOrder", acceptsToken: isNumericToken, Enumerators: []string{
		"LITTLE_ENDIAN", "BIG_ENDIAN", "MSB_LAST", "MSB_FIRST",
	}}
	DataSize = Type{Kind: KindEnum, Name: "DataSize", acceptsToken: isNumericToken, Enumerators: []string{
		"BYTE", "WORD", "LONG",
	}}
	LinkType = Type{Kind: KindEnum, Name: "LinkType", acceptsToken: isNumericToken, Enumerators: []string{
		"SYMBOL_TYPE_LINK",
	}}
)

// byDiscriminator is the small-integer lookup table referenced by parameter
// descriptors in the schema (§4.6: "looked up by a small integer
// discriminator").
var byDiscriminator = []Type{
	Int, UInt, Long, ULong, Float, String, Ident,
	Datatype, IndexOrder, AddrType, ByteOrder, DataSize, LinkType,
}

// Discriminator indexes into the catalog.
type Discriminator int

const (
	DInt Discriminator = iota
	DUInt
	DLong
	DULong
	DFloat
	DString
	DIdent
	DDatatype
	DIndexOrder
	DAddrType
	DByteOrder
	DDataSize
	DLinkType
)

// Lookup resolves a Discriminator to its Type.
func Lookup(d Discriminator) (Type, error) {
	if int(d) < 0 || int(d) >= len(byDiscriminator) {
		return Type{}, fmt.Errorf("asamtype: unknown discriminator %d", d)
	}
	return byDiscriminator[d], nil
}
