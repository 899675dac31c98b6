package ifdata

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/christoph2/a2lgo/internal/aml/ast"
)

// ParseError is returned only in Options.Strict mode, when an
// interpretation problem would otherwise have been a Warning.
type ParseError struct {
	Kind    string
	Message string
}

func (e ParseError) Error() string { return fmt.Sprintf("ifdata: %s: %s", e.Kind, e.Message) }

// Parse interprets text (the raw content captured between an IF_DATA
// block's vendor-name parameter and its closing "/end IF_DATA", per §4.8)
// against the grammar reconstructed from an unmarshalled AML file, starting
// from the declaration tagged blockTag (conventionally "IF_DATA").
func Parse(text string, grammar *ast.AmlFile, blockTag string, opts Options) (*Node, []Warning, error) {
	block, ok := FindBlock(grammar, blockTag)
	if !ok {
		return nil, nil, ParseError{Kind: "NoSuchBlock", Message: fmt.Sprintf("grammar has no block tagged %q", blockTag)}
	}

	p := &parser{
		resolver: ast.BuildResolver(grammar),
		opts:     opts,
	}

	cur := newCursor(text)
	node, err := p.interpretType(block.Type, cur, blockTag)
	if err != nil {
		return node, p.warnings, err
	}
	return node, p.warnings, nil
}

type parser struct {
	resolver *ast.Resolver
	opts     Options
	warnings []Warning
}

func (p *parser) warn(kind, message string) error {
	p.warnings = append(p.warnings, Warning{Kind: kind, Message: message})
	if p.opts.Strict {
		return ParseError{Kind: kind, Message: message}
	}
	return nil
}

// interpretType dispatches on the concrete AML grammar node, per §4.9's
// block/struct/taggedstruct/taggedunion/enumeration/predefined cases.
func (p *parser) interpretType(t ast.Type, cur *cursor, name string) (*Node, error) {
	switch v := t.(type) {
	case *ast.Referrer:
		resolved, ok := p.resolver.Resolve(v)
		if !ok {
			if err := p.warn("UnresolvedReferrer", fmt.Sprintf("%s %q does not resolve", v.Category, v.Name)); err != nil {
				return nil, err
			}
			return &Node{Kind: KindStruct, Name: name}, nil
		}
		return p.interpretType(resolved, cur, name)
	case *ast.PredefinedType:
		return p.interpretPredefined(v, cur, name)
	case *ast.Struct:
		return p.interpretStruct(v, cur)
	case *ast.TaggedStruct:
		return p.interpretTaggedStruct(v, cur)
	case *ast.TaggedUnion:
		return p.interpretTaggedUnion(v, cur)
	case *ast.Enumeration:
		return p.interpretEnumeration(v, cur, name)
	default:
		if err := p.warn("UnknownGrammarNode", fmt.Sprintf("unhandled AML type for %q", name)); err != nil {
			return nil, err
		}
		return &Node{Kind: KindStruct, Name: name}, nil
	}
}

func (p *parser) interpretPredefined(pt *ast.PredefinedType, cur *cursor, name string) (*Node, error) {
	count := 1
	for _, d := range pt.Dimensions {
		if d > 0 {
			count *= d
		}
	}

	node := &Node{Kind: KindPredefined, Name: name}
	for i := 0; i < count; i++ {
		if cur.atEOF() {
			if err := p.warn("MissingValue", fmt.Sprintf("expected a %s value for %q, found end of IF_DATA text", pt.Kind, name)); err != nil {
				return node, err
			}
			break
		}
		tok := cur.advance()
		if !validPredefinedLiteral(pt.Kind, tok.Text()) {
			if err := p.warn("InvalidLiteral", fmt.Sprintf("%q is not a valid %s literal for %q", tok.Text(), pt.Kind, name)); err != nil {
				return node, err
			}
		}
		if count == 1 {
			node.Value = tok.Text()
		} else {
			node.Children = append(node.Children, &Node{Kind: KindPredefined, Value: tok.Text()})
		}
	}
	return node, nil
}

func validPredefinedLiteral(kind ast.PredefinedKind, text string) bool {
	switch kind {
	case ast.Char, ast.Int, ast.Long, ast.Int64:
		_, err := parseSignedLiteral(text)
		return err == nil
	case ast.UChar, ast.UInt, ast.ULong, ast.UInt64:
		_, err := parseUnsignedLiteral(text)
		return err == nil
	case ast.Double, ast.Float, ast.Float16:
		_, err := strconv.ParseFloat(text, 64)
		return err == nil
	default:
		return true
	}
}

func parseSignedLiteral(text string) (int64, error) {
	if strings.HasPrefix(text, "0x") || strings.HasPrefix(text, "0X") {
		u, err := strconv.ParseUint(text[2:], 16, 64)
		return int64(u), err
	}
	return strconv.ParseInt(text, 10, 64)
}

func parseUnsignedLiteral(text string) (uint64, error) {
	if strings.HasPrefix(text, "0x") || strings.HasPrefix(text, "0X") {
		return strconv.ParseUint(text[2:], 16, 64)
	}
	return strconv.ParseUint(text, 10, 64)
}

func (p *parser) interpretStruct(s *ast.Struct, cur *cursor) (*Node, error) {
	node := &Node{Kind: KindStruct, Name: s.Name}
	for _, m := range s.Members {
		child, err := p.interpretMember(m, cur)
		if err != nil {
			return node, err
		}
		if child != nil {
			node.Children = append(node.Children, child)
		}
	}
	return node, nil
}

func (p *parser) interpretMember(m ast.Member, cur *cursor) (*Node, error) {
	if m.IsEmpty() {
		return nil, nil
	}
	if m.Block != nil {
		return p.interpretBlockOccurrence(m.Block, cur)
	}
	return p.interpretType(m.Type, cur, "")
}

// interpretBlockOccurrence expects "/begin TAG ... /end TAG"; any other
// form yields a MissingBegin warning and an empty block node. The outermost
// block is not read through here: Parse enters its type directly, without
// delimiters.
func (p *parser) interpretBlockOccurrence(b *ast.BlockDefinition, cur *cursor) (*Node, error) {
	if cur.atEOF() || cur.current().Text() != "/begin" {
		if err := p.warn("MissingBegin", fmt.Sprintf("expected /begin %s", b.Tag)); err != nil {
			return nil, err
		}
		return &Node{Kind: KindBlock, Name: b.Tag}, nil
	}
	cur.advance() // "/begin"

	if cur.atEOF() || cur.current().Text() != b.Tag {
		if err := p.warn("MismatchedBlockTag", fmt.Sprintf("expected %s after /begin", b.Tag)); err != nil {
			return nil, err
		}
	} else {
		cur.advance() // TAG
	}

	inner, err := p.interpretType(b.Type, cur, b.Tag)
	node := &Node{Kind: KindBlock, Name: b.Tag}
	if inner != nil {
		node.Children = append(node.Children, inner)
	}
	if err != nil {
		return node, err
	}

	if cur.atEOF() || cur.current().Text() != "/end" {
		if werr := p.warn("MissingEnd", fmt.Sprintf("expected /end %s", b.Tag)); werr != nil {
			return node, werr
		}
		return node, nil
	}
	cur.advance() // "/end"
	if !cur.atEOF() && cur.current().Text() == b.Tag {
		cur.advance()
	}
	return node, nil
}

func (p *parser) interpretTaggedStruct(ts *ast.TaggedStruct, cur *cursor) (*Node, error) {
	node := &Node{Kind: KindTaggedStruct, Name: ts.Name}

	for !cur.atEnd() {
		if cur.current().Text() == "/begin" {
			next, ok := cur.peekAt(1)
			if !ok {
				break
			}
			member := findBlockTaggedStructMember(ts, next.Text())
			if member == nil {
				if err := p.warn("UnknownTag", fmt.Sprintf("taggedstruct %q has no block member tagged %q", ts.Name, next.Text())); err != nil {
					return node, err
				}
				break
			}
			child, err := p.interpretBlockOccurrence(member.Block, cur)
			if child != nil {
				node.Children = append(node.Children, child)
			}
			if err != nil {
				return node, err
			}
			continue
		}

		tag := cur.current().Text()
		member := findDefTaggedStructMember(ts, tag)
		if member == nil {
			if err := p.warn("UnknownTag", fmt.Sprintf("taggedstruct %q has no member tagged %q", ts.Name, tag)); err != nil {
				return node, err
			}
			break
		}
		cur.advance() // TAG

		child := &Node{Kind: KindTaggedStruct, Name: tag}
		if member.Definition.Member != nil {
			inner, err := p.interpretMember(*member.Definition.Member, cur)
			if inner != nil {
				child.Children = append(child.Children, inner)
			}
			if err != nil {
				return node, err
			}
		}
		node.Children = append(node.Children, child)
	}
	return node, nil
}

func findDefTaggedStructMember(ts *ast.TaggedStruct, tag string) *ast.TaggedStructMember {
	for i := range ts.Members {
		m := &ts.Members[i]
		if m.Definition != nil && m.Definition.Tag == tag {
			return m
		}
	}
	return nil
}

func findBlockTaggedStructMember(ts *ast.TaggedStruct, tag string) *ast.TaggedStructMember {
	for i := range ts.Members {
		m := &ts.Members[i]
		if m.Block != nil && m.Block.Tag == tag {
			return m
		}
	}
	return nil
}

func (p *parser) interpretTaggedUnion(tu *ast.TaggedUnion, cur *cursor) (*Node, error) {
	node := &Node{Kind: KindTaggedUnion, Name: tu.Name}

	if cur.atEnd() {
		if err := p.warn("EmptyTaggedUnion", fmt.Sprintf("taggedunion %q has no selector token", tu.Name)); err != nil {
			return node, err
		}
		return node, nil
	}

	if cur.current().Text() == "/begin" {
		next, ok := cur.peekAt(1)
		if !ok {
			return node, p.warn("EmptyTaggedUnion", fmt.Sprintf("taggedunion %q truncated after /begin", tu.Name))
		}
		for _, m := range tu.Members {
			if m.Block != nil && m.Block.Tag == next.Text() {
				child, err := p.interpretBlockOccurrence(m.Block, cur)
				if child != nil {
					node.Children = append(node.Children, child)
				}
				return node, err
			}
		}
		if err := p.warn("UnknownTag", fmt.Sprintf("taggedunion %q has no block member tagged %q", tu.Name, next.Text())); err != nil {
			return node, err
		}
		return node, nil
	}

	tag := cur.current().Text()
	for _, m := range tu.Members {
		if m.Tag == tag {
			cur.advance()
			child := &Node{Kind: KindTaggedUnion, Name: tag}
			if m.Member != nil {
				inner, err := p.interpretMember(*m.Member, cur)
				if inner != nil {
					child.Children = append(child.Children, inner)
				}
				if err != nil {
					return node, err
				}
			}
			node.Children = append(node.Children, child)
			return node, nil
		}
	}
	if err := p.warn("UnknownTag", fmt.Sprintf("taggedunion %q has no member tagged %q", tu.Name, tag)); err != nil {
		return node, err
	}
	return node, nil
}

func (p *parser) interpretEnumeration(e *ast.Enumeration, cur *cursor, name string) (*Node, error) {
	node := &Node{Kind: KindEnumeration, Name: e.Name}
	if cur.atEOF() {
		if err := p.warn("MissingValue", fmt.Sprintf("expected an enumerator for %q, found end of IF_DATA text", e.Name)); err != nil {
			return node, err
		}
		return node, nil
	}
	tok := cur.advance()
	node.Value = tok.Text()

	for _, enumerator := range e.Enumerators {
		if enumerator.Tag == tok.Text() {
			return node, nil
		}
	}
	if err := p.warn("UnknownEnumerator", fmt.Sprintf("%q is not a member of enumeration %q (for %s)", tok.Text(), e.Name, name)); err != nil {
		return node, err
	}
	return node, nil
}
