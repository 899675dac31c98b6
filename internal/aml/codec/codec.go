// Package codec implements the AML binary marshal/unmarshal codec described
// by §4.4/§6: a deterministic, self-describing tagged byte stream that lets
// an already-parsed AML grammar be persisted and later reconstructed so the
// IF_DATA parser can interpret text against it without re-lexing the
// original AML blob.
//
// Every node is prefixed with a short discriminator string (the tag
// alphabet named by §4.4: "PD", "EN", "ST", "TS", "TU", "R", "B", "M", "TY",
// "BL", "E" before each enumerator, plus the "S"/"U" inner discriminators
// used to pick a TaggedStructMember/TaggedUnionMember variant). Field widths follow §6
// exactly: discriminators and other strings are length-prefixed 8-bit-wide
// byte runs with a 64-bit unsigned length, integers and counts are 64-bit
// unsigned little-endian, enum codes are 8-bit unsigned, array dimensions
// and enumerator values are 32-bit unsigned, and booleans are encoded as
// the length-prefixed strings "true"/"false". There is no trailing
// checksum and no alignment padding; the format is purely self-delimiting.
package codec

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/christoph2/a2lgo/internal/aml/ast"
)

// EncodeError reports an AST node that the codec does not know how to
// represent (always a programmer error: every concrete ast.Type has a
// case here).
type EncodeError struct {
	Kind    string
	Message string
}

func (e EncodeError) Error() string { return fmt.Sprintf("aml codec encode error (%v): %v", e.Kind, e.Message) }

// DecodeError reports a truncated or malformed byte stream.
type DecodeError struct {
	Kind    string
	Message string
}

func (e DecodeError) Error() string { return fmt.Sprintf("aml codec decode error (%v): %v", e.Kind, e.Message) }

// Marshal serializes file into the binary wire format. Per §6 the stream
// starts with the 64-bit unsigned declaration count, followed by the file
// name and then each declaration in order.
func Marshal(file *ast.AmlFile) ([]byte, error) {
	var buf bytes.Buffer
	writeUint64(&buf, uint64(len(file.Declarations)))
	writeString(&buf, file.Name)
	for _, d := range file.Declarations {
		if err := marshalDeclaration(&buf, d); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// Unmarshal reconstructs an AmlFile from data produced by Marshal.
// Per §4.4, tag-only taggedstruct definitions surface with an absent inner
// member, and referrers surface as *ast.Referrer nodes (never re-resolved
// here; call ast.ValidateReferences/BuildResolver on the result if needed).
func Unmarshal(data []byte) (*ast.AmlFile, error) {
	r := &reader{data: data}
	count, err := r.readUint64()
	if err != nil {
		return nil, err
	}
	name, err := r.readString()
	if err != nil {
		return nil, err
	}
	decls := make([]ast.Declaration, 0, count)
	for i := uint64(0); i < count; i++ {
		d, err := unmarshalDeclaration(r)
		if err != nil {
			return nil, err
		}
		decls = append(decls, d)
	}
	return &ast.AmlFile{Name: name, Declarations: decls}, nil
}

func marshalDeclaration(w *bytes.Buffer, d ast.Declaration) error {
	if d.Block != nil {
		writeTag(w, "BL")
		return marshalBlock(w, d.Block)
	}
	writeTag(w, "TY")
	return marshalType(w, d.TypeDef)
}

func unmarshalDeclaration(r *reader) (ast.Declaration, error) {
	tag, err := r.readTag()
	if err != nil {
		return ast.Declaration{}, err
	}
	switch tag {
	case "BL":
		b, err := unmarshalBlock(r)
		if err != nil {
			return ast.Declaration{}, err
		}
		return ast.Declaration{Block: b}, nil
	case "TY":
		t, err := unmarshalType(r)
		if err != nil {
			return ast.Declaration{}, err
		}
		return ast.Declaration{TypeDef: t}, nil
	default:
		return ast.Declaration{}, DecodeError{Kind: "BadTag", Message: fmt.Sprintf("declaration: unknown tag %q", tag)}
	}
}

func marshalType(w *bytes.Buffer, t ast.Type) error {
	switch v := t.(type) {
	case *ast.PredefinedType:
		writeTag(w, "PD")
		return marshalPredefined(w, v)
	case *ast.Enumeration:
		writeTag(w, "EN")
		return marshalEnum(w, v)
	case *ast.Struct:
		writeTag(w, "ST")
		return marshalStruct(w, v)
	case *ast.TaggedStruct:
		writeTag(w, "TS")
		return marshalTaggedStruct(w, v)
	case *ast.TaggedUnion:
		writeTag(w, "TU")
		return marshalTaggedUnion(w, v)
	case *ast.Referrer:
		writeTag(w, "R")
		return marshalReferrer(w, v)
	default:
		return EncodeError{Kind: "UnknownType", Message: fmt.Sprintf("%T", t)}
	}
}

func unmarshalType(r *reader) (ast.Type, error) {
	tag, err := r.readTag()
	if err != nil {
		return nil, err
	}
	switch tag {
	case "PD":
		return unmarshalPredefined(r)
	case "EN":
		return unmarshalEnum(r)
	case "ST":
		return unmarshalStruct(r)
	case "TS":
		return unmarshalTaggedStruct(r)
	case "TU":
		return unmarshalTaggedUnion(r)
	case "R":
		return unmarshalReferrer(r)
	default:
		return nil, DecodeError{Kind: "BadTag", Message: fmt.Sprintf("type: unknown tag %q", tag)}
	}
}

func marshalPredefined(w *bytes.Buffer, pt *ast.PredefinedType) error {
	writeUint8(w, uint8(pt.Kind))
	writeUint64(w, uint64(len(pt.Dimensions)))
	for _, d := range pt.Dimensions {
		writeUint32(w, uint32(d))
	}
	return nil
}

func unmarshalPredefined(r *reader) (*ast.PredefinedType, error) {
	kind, err := r.readUint8()
	if err != nil {
		return nil, err
	}
	n, err := r.readUint64()
	if err != nil {
		return nil, err
	}
	var dims []int
	for i := uint64(0); i < n; i++ {
		d, err := r.readUint32()
		if err != nil {
			return nil, err
		}
		dims = append(dims, int(d))
	}
	return &ast.PredefinedType{Kind: ast.PredefinedKind(kind), Dimensions: dims}, nil
}

func marshalEnum(w *bytes.Buffer, en *ast.Enumeration) error {
	writeString(w, en.Name)
	writeUint64(w, uint64(len(en.Enumerators)))
	for _, e := range en.Enumerators {
		writeTag(w, "E")
		writeString(w, e.Tag)
		hasValue := e.Value != nil
		writeBool(w, hasValue)
		if hasValue {
			writeUint32(w, uint32(*e.Value))
		}
	}
	return nil
}

func unmarshalEnum(r *reader) (*ast.Enumeration, error) {
	name, err := r.readString()
	if err != nil {
		return nil, err
	}
	n, err := r.readUint64()
	if err != nil {
		return nil, err
	}
	enumerators := make([]ast.Enumerator, 0, n)
	for i := uint64(0); i < n; i++ {
		if _, err := r.readTag(); err != nil {
			return nil, err
		}
		tag, err := r.readString()
		if err != nil {
			return nil, err
		}
		hasValue, err := r.readBool()
		if err != nil {
			return nil, err
		}
		var value *int64
		if hasValue {
			v, err := r.readUint32()
			if err != nil {
				return nil, err
			}
			iv := int64(v)
			value = &iv
		}
		enumerators = append(enumerators, ast.Enumerator{Tag: tag, Value: value})
	}
	return &ast.Enumeration{Name: name, Enumerators: enumerators}, nil
}

func marshalStruct(w *bytes.Buffer, st *ast.Struct) error {
	writeString(w, st.Name)
	writeUint64(w, uint64(len(st.Members)))
	for _, m := range st.Members {
		if err := marshalMember(w, m); err != nil {
			return err
		}
	}
	return nil
}

func unmarshalStruct(r *reader) (*ast.Struct, error) {
	name, err := r.readString()
	if err != nil {
		return nil, err
	}
	n, err := r.readUint64()
	if err != nil {
		return nil, err
	}
	members := make([]ast.Member, 0, n)
	for i := uint64(0); i < n; i++ {
		m, err := unmarshalMember(r)
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return &ast.Struct{Name: name, Members: members}, nil
}

func marshalMember(w *bytes.Buffer, m ast.Member) error {
	writeTag(w, "M")
	hasType := m.Type != nil
	writeBool(w, hasType)
	if hasType {
		if err := marshalType(w, m.Type); err != nil {
			return err
		}
	}
	hasBlock := m.Block != nil
	writeBool(w, hasBlock)
	if hasBlock {
		if err := marshalBlock(w, m.Block); err != nil {
			return err
		}
	}
	return nil
}

func unmarshalMember(r *reader) (ast.Member, error) {
	if _, err := r.readTag(); err != nil {
		return ast.Member{}, err
	}
	var m ast.Member
	hasType, err := r.readBool()
	if err != nil {
		return ast.Member{}, err
	}
	if hasType {
		t, err := unmarshalType(r)
		if err != nil {
			return ast.Member{}, err
		}
		m.Type = t
	}
	hasBlock, err := r.readBool()
	if err != nil {
		return ast.Member{}, err
	}
	if hasBlock {
		b, err := unmarshalBlock(r)
		if err != nil {
			return ast.Member{}, err
		}
		m.Block = b
	}
	return m, nil
}

func marshalBlock(w *bytes.Buffer, b *ast.BlockDefinition) error {
	writeTag(w, "B")
	writeString(w, b.Tag)
	writeBool(w, b.Multiple)
	return marshalType(w, b.Type)
}

func unmarshalBlock(r *reader) (*ast.BlockDefinition, error) {
	if _, err := r.readTag(); err != nil {
		return nil, err
	}
	tag, err := r.readString()
	if err != nil {
		return nil, err
	}
	multiple, err := r.readBool()
	if err != nil {
		return nil, err
	}
	t, err := unmarshalType(r)
	if err != nil {
		return nil, err
	}
	return &ast.BlockDefinition{Tag: tag, Type: t, Multiple: multiple}, nil
}

func marshalTaggedStruct(w *bytes.Buffer, ts *ast.TaggedStruct) error {
	writeString(w, ts.Name)
	writeUint64(w, uint64(len(ts.Members)))
	for _, m := range ts.Members {
		if err := marshalTaggedStructMember(w, m); err != nil {
			return err
		}
	}
	return nil
}

func unmarshalTaggedStruct(r *reader) (*ast.TaggedStruct, error) {
	name, err := r.readString()
	if err != nil {
		return nil, err
	}
	n, err := r.readUint64()
	if err != nil {
		return nil, err
	}
	members := make([]ast.TaggedStructMember, 0, n)
	for i := uint64(0); i < n; i++ {
		m, err := unmarshalTaggedStructMember(r)
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return &ast.TaggedStruct{Name: name, Members: members}, nil
}

func marshalTaggedStructMember(w *bytes.Buffer, m ast.TaggedStructMember) error {
	writeBool(w, m.Multiple)
	switch {
	case m.Definition != nil:
		writeTag(w, "S")
		writeString(w, m.Definition.Tag)
		writeBool(w, m.Definition.Multiple)
		hasMember := m.Definition.Member != nil
		writeBool(w, hasMember)
		if hasMember {
			return marshalMember(w, *m.Definition.Member)
		}
		return nil
	case m.Block != nil:
		writeTag(w, "B")
		return marshalBlock(w, m.Block)
	default:
		return EncodeError{Kind: "InvalidTaggedStructMember", Message: "neither Definition nor Block is set"}
	}
}

func unmarshalTaggedStructMember(r *reader) (ast.TaggedStructMember, error) {
	multiple, err := r.readBool()
	if err != nil {
		return ast.TaggedStructMember{}, err
	}
	tag, err := r.readTag()
	if err != nil {
		return ast.TaggedStructMember{}, err
	}
	switch tag {
	case "S":
		defTag, err := r.readString()
		if err != nil {
			return ast.TaggedStructMember{}, err
		}
		defMultiple, err := r.readBool()
		if err != nil {
			return ast.TaggedStructMember{}, err
		}
		hasMember, err := r.readBool()
		if err != nil {
			return ast.TaggedStructMember{}, err
		}
		def := &ast.TaggedStructDefinition{Tag: defTag, Multiple: defMultiple}
		if hasMember {
			m, err := unmarshalMember(r)
			if err != nil {
				return ast.TaggedStructMember{}, err
			}
			def.Member = &m
		}
		return ast.TaggedStructMember{Definition: def, Multiple: multiple}, nil
	case "B":
		b, err := unmarshalBlock(r)
		if err != nil {
			return ast.TaggedStructMember{}, err
		}
		return ast.TaggedStructMember{Block: b, Multiple: multiple}, nil
	default:
		return ast.TaggedStructMember{}, DecodeError{Kind: "BadTag", Message: fmt.Sprintf("taggedstruct member: unknown tag %q", tag)}
	}
}

func marshalTaggedUnion(w *bytes.Buffer, tu *ast.TaggedUnion) error {
	writeString(w, tu.Name)
	writeUint64(w, uint64(len(tu.Members)))
	for _, m := range tu.Members {
		if err := marshalTaggedUnionMember(w, m); err != nil {
			return err
		}
	}
	return nil
}

func unmarshalTaggedUnion(r *reader) (*ast.TaggedUnion, error) {
	name, err := r.readString()
	if err != nil {
		return nil, err
	}
	n, err := r.readUint64()
	if err != nil {
		return nil, err
	}
	members := make([]ast.TaggedUnionMember, 0, n)
	for i := uint64(0); i < n; i++ {
		m, err := unmarshalTaggedUnionMember(r)
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return &ast.TaggedUnion{Name: name, Members: members}, nil
}

func marshalTaggedUnionMember(w *bytes.Buffer, m ast.TaggedUnionMember) error {
	if m.Block != nil {
		writeTag(w, "B")
		return marshalBlock(w, m.Block)
	}
	writeTag(w, "U")
	writeString(w, m.Tag)
	hasMember := m.Member != nil
	writeBool(w, hasMember)
	if hasMember {
		return marshalMember(w, *m.Member)
	}
	return nil
}

func unmarshalTaggedUnionMember(r *reader) (ast.TaggedUnionMember, error) {
	tag, err := r.readTag()
	if err != nil {
		return ast.TaggedUnionMember{}, err
	}
	switch tag {
	case "B":
		b, err := unmarshalBlock(r)
		if err != nil {
			return ast.TaggedUnionMember{}, err
		}
		return ast.TaggedUnionMember{Block: b}, nil
	case "U":
		name, err := r.readString()
		if err != nil {
			return ast.TaggedUnionMember{}, err
		}
		hasMember, err := r.readBool()
		if err != nil {
			return ast.TaggedUnionMember{}, err
		}
		var member *ast.Member
		if hasMember {
			m, err := unmarshalMember(r)
			if err != nil {
				return ast.TaggedUnionMember{}, err
			}
			member = &m
		}
		return ast.TaggedUnionMember{Tag: name, Member: member}, nil
	default:
		return ast.TaggedUnionMember{}, DecodeError{Kind: "BadTag", Message: fmt.Sprintf("taggedunion member: unknown tag %q", tag)}
	}
}

func marshalReferrer(w *bytes.Buffer, r *ast.Referrer) error {
	writeUint8(w, uint8(r.Category))
	writeString(w, r.Name)
	return nil
}

func unmarshalReferrer(r *reader) (*ast.Referrer, error) {
	cat, err := r.readUint8()
	if err != nil {
		return nil, err
	}
	name, err := r.readString()
	if err != nil {
		return nil, err
	}
	return &ast.Referrer{Category: ast.Category(cat), Name: name}, nil
}

// --- primitive writers ---

func writeUint64(w *bytes.Buffer, v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	w.Write(b[:])
}

func writeUint32(w *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.Write(b[:])
}

func writeUint8(w *bytes.Buffer, v uint8) {
	w.WriteByte(v)
}

func writeString(w *bytes.Buffer, s string) {
	writeUint64(w, uint64(len(s)))
	w.WriteString(s)
}

func writeTag(w *bytes.Buffer, s string) { writeString(w, s) }

func writeBool(w *bytes.Buffer, b bool) {
	if b {
		writeString(w, "true")
	} else {
		writeString(w, "false")
	}
}

// --- primitive reader ---

type reader struct {
	data []byte
	pos  int
}

func (r *reader) readBytes(n int) ([]byte, error) {
	if n < 0 || r.pos+n > len(r.data) {
		return nil, DecodeError{Kind: "Truncated", Message: fmt.Sprintf("need %d bytes at offset %d, have %d", n, r.pos, len(r.data))}
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

func (r *reader) readUint64() (uint64, error) {
	b, err := r.readBytes(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (r *reader) readUint32() (uint32, error) {
	b, err := r.readBytes(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (r *reader) readUint8() (uint8, error) {
	b, err := r.readBytes(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *reader) readString() (string, error) {
	n, err := r.readUint64()
	if err != nil {
		return "", err
	}
	b, err := r.readBytes(int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (r *reader) readTag() (string, error) { return r.readString() }

func (r *reader) readBool() (bool, error) {
	s, err := r.readString()
	if err != nil {
		return false, err
	}
	switch s {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return false, DecodeError{Kind: "BadBool", Message: fmt.Sprintf("expected \"true\"/\"false\", got %q", s)}
	}
}
