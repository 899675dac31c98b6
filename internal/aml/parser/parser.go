// Package parser implements the AML recursive-descent parser described by
// §4.3: it walks the token stream produced by internal/aml/lexer's
// participle lexer.Definition by hand, because the struct/taggedstruct/
// taggedunion grammar's named-vs-anonymous-vs-referrer ambiguity and its
// pervasive optional trailing semicolons need lookahead and backtracking
// that a declarative struct-tag grammar is the wrong tool to force-fit (see
// SPEC_FULL.md's DOMAIN STACK section for the full rationale). The lexer
// itself is still the teacher's participle/v2 engine; only the grammar
// walk is hand-rolled, matching the original system's own division between
// a regex/table lexer and a recursive-descent parser.
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"

	"github.com/christoph2/a2lgo/internal/aml/ast"
	amllexer "github.com/christoph2/a2lgo/internal/aml/lexer"
)

// SyntaxError reports a fatal AML lexical or syntax failure, with position,
// per §7's Lexical/Syntactic error kinds.
type SyntaxError struct {
	Kind         string
	Line, Column int
	Message      string
}

func (e SyntaxError) Error() string {
	return fmt.Sprintf("aml %s error at %d:%d: %s", e.Kind, e.Line, e.Column, e.Message)
}

var symbols = amllexer.Def.Symbols()

func sym(name string) lexer.TokenType { return symbols[name] }

var (
	symIdent          = sym("Ident")
	symFloat          = sym("Float")
	symInt            = sym("Int")
	symTag            = sym("Tag")
	symBegin          = sym("Begin")
	symEnd            = sym("End")
	symEnum           = sym("Enum")
	symStruct         = sym("Struct")
	symTaggedStruct   = sym("TaggedStruct")
	symTaggedUnion    = sym("TaggedUnion")
	symPredefinedType = sym("PredefinedType")
	symBlock          = sym("Block")
	symLBrace         = sym("LBrace")
	symRBrace         = sym("RBrace")
	symLParen         = sym("LParen")
	symRParen         = sym("RParen")
	symLSQ            = sym("LSQ")
	symRSQ            = sym("RSQ")
	symEq             = sym("Eq")
	symSemi           = sym("Semi")
	symComma          = sym("Comma")
	symStar           = sym("Star")
	symWhitespace     = sym("Whitespace")
	symComment        = sym("Comment")
)

// Parse lexes and parses an AML text blob (the content between /begin A2ML
// and /end A2ML, inclusive) into an AmlFile, resolving and validating every
// Referrer before returning.
func Parse(blob string) (*ast.AmlFile, error) {
	c, err := tokenize(blob)
	if err != nil {
		return nil, err
	}
	file, err := c.parseFile()
	if err != nil {
		return nil, err
	}
	if err := ast.ValidateReferences(file); err != nil {
		return nil, err
	}
	return file, nil
}

type cursor struct {
	toks []lexer.Token
	pos  int
}

func tokenize(blob string) (*cursor, error) {
	lx, err := amllexer.Def.Lex("", strings.NewReader(blob))
	if err != nil {
		return nil, SyntaxError{Kind: "Lexical", Message: err.Error()}
	}
	all, err := lexer.ConsumeAll(lx)
	if err != nil {
		return nil, SyntaxError{Kind: "Lexical", Message: err.Error()}
	}

	toks := make([]lexer.Token, 0, len(all))
	for _, t := range all {
		if t.Type == lexer.EOF || t.Type == symWhitespace || t.Type == symComment {
			continue
		}
		toks = append(toks, t)
	}
	return &cursor{toks: toks}, nil
}

func (c *cursor) atEOF() bool { return c.pos >= len(c.toks) }

func (c *cursor) current() lexer.Token {
	if c.atEOF() {
		pos := lexer.Position{Line: 0, Column: 0}
		if len(c.toks) > 0 {
			pos = c.toks[len(c.toks)-1].Pos
		}
		return lexer.Token{Type: lexer.EOF, Value: "<eof>", Pos: pos}
	}
	return c.toks[c.pos]
}

func (c *cursor) check(t lexer.TokenType) bool { return !c.atEOF() && c.current().Type == t }

func (c *cursor) advance() lexer.Token {
	tok := c.current()
	if !c.atEOF() {
		c.pos++
	}
	return tok
}

func (c *cursor) expect(t lexer.TokenType, what string) (lexer.Token, error) {
	if !c.check(t) {
		tok := c.current()
		return lexer.Token{}, c.unexpected(tok, what)
	}
	return c.advance(), nil
}

func (c *cursor) expectTag() (string, error) {
	tok, err := c.expect(symTag, `a quoted tag`)
	if err != nil {
		return "", err
	}
	return strings.Trim(tok.Value, `"`), nil
}

func (c *cursor) unexpected(tok lexer.Token, expected string) error {
	return SyntaxError{
		Kind:    "Syntactic",
		Line:    tok.Pos.Line,
		Column:  tok.Pos.Column,
		Message: fmt.Sprintf("unexpected token %q, expected %s", tok.Value, expected),
	}
}

// consumeOptionalSemi consumes a trailing ';' if present, reporting whether
// it did.
func (c *cursor) consumeOptionalSemi() bool {
	if c.check(symSemi) {
		c.advance()
		return true
	}
	return false
}

func isTypeNameStart(t lexer.TokenType) bool {
	switch t {
	case symPredefinedType, symStruct, symTaggedStruct, symTaggedUnion, symEnum:
		return true
	default:
		return false
	}
}

func (c *cursor) parseFile() (*ast.AmlFile, error) {
	if _, err := c.expect(symBegin, `"/begin"`); err != nil {
		return nil, err
	}
	nameTok, err := c.expect(symIdent, "an identifier naming the AML root block"); if err != nil {
		return nil, err
	}

	var decls []ast.Declaration
	for !c.check(symEnd) {
		if c.atEOF() {
			return nil, SyntaxError{Kind: "Syntactic", Message: "premature end of AML text: missing \"/end\""}
		}
		d, err := c.parseDeclaration()
		if err != nil {
			return nil, err
		}
		decls = append(decls, d)
	}
	if _, err := c.expect(symEnd, `"/end"`); err != nil {
		return nil, err
	}
	endName, err := c.expect(symIdent, "an identifier matching the AML root block name")
	if err != nil {
		return nil, err
	}
	if endName.Value != nameTok.Value {
		return nil, c.unexpected(endName, fmt.Sprintf("%q to match \"/begin %s\"", nameTok.Value, nameTok.Value))
	}

	return &ast.AmlFile{Name: nameTok.Value, Declarations: decls}, nil
}

func (c *cursor) parseDeclaration() (ast.Declaration, error) {
	if c.check(symBlock) {
		b, err := c.parseBlockDefinition()
		if err != nil {
			return ast.Declaration{}, err
		}
		c.consumeOptionalSemi()
		return ast.Declaration{Block: b}, nil
	}

	t, err := c.parseTypeName()
	if err != nil {
		return ast.Declaration{}, err
	}
	c.consumeOptionalSemi()
	return ast.Declaration{TypeDef: t}, nil
}

func (c *cursor) parseTypeName() (ast.Type, error) {
	switch {
	case c.check(symPredefinedType):
		return c.parsePredefinedType()
	case c.check(symStruct):
		return c.parseStruct()
	case c.check(symTaggedStruct):
		return c.parseTaggedStruct()
	case c.check(symTaggedUnion):
		return c.parseTaggedUnion()
	case c.check(symEnum):
		return c.parseEnum()
	default:
		return nil, c.unexpected(c.current(), "a type name (predefined type, struct, taggedstruct, taggedunion, or enum)")
	}
}

func predefinedKindFromText(text string) ast.PredefinedKind {
	switch text {
	case "char":
		return ast.Char
	case "int":
		return ast.Int
	case "long":
		return ast.Long
	case "uchar":
		return ast.UChar
	case "uint":
		return ast.UInt
	case "ulong":
		return ast.ULong
	case "int64":
		return ast.Int64
	case "uint64":
		return ast.UInt64
	case "double":
		return ast.Double
	case "float":
		return ast.Float
	case "float16":
		return ast.Float16
	default:
		return ast.Int
	}
}

func (c *cursor) parsePredefinedType() (*ast.PredefinedType, error) {
	tok, err := c.expect(symPredefinedType, "a predefined type")
	if err != nil {
		return nil, err
	}
	pt := &ast.PredefinedType{Kind: predefinedKindFromText(tok.Value)}
	for c.check(symLSQ) {
		c.advance()
		n, err := c.expect(symInt, "an array dimension")
		if err != nil {
			return nil, err
		}
		dim, convErr := strconv.Atoi(n.Value)
		if convErr != nil {
			return nil, SyntaxError{Kind: "Lexical", Line: n.Pos.Line, Column: n.Pos.Column, Message: fmt.Sprintf("invalid array dimension %q", n.Value)}
		}
		if _, err := c.expect(symRSQ, `"]"`); err != nil {
			return nil, err
		}
		pt.Dimensions = append(pt.Dimensions, dim)
	}
	return pt, nil
}

func (c *cursor) parseEnum() (ast.Type, error) {
	c.advance() // 'enum'
	name := ""
	if c.check(symIdent) {
		name = c.advance().Value
	}
	if !c.check(symLBrace) {
		if name == "" {
			return nil, c.unexpected(c.current(), `"{" (an anonymous enum must have a body)`)
		}
		return &ast.Referrer{Category: ast.CategoryEnumeration, Name: name}, nil
	}
	c.advance() // '{'

	var enumerators []ast.Enumerator
	for {
		tag, err := c.expectTag()
		if err != nil {
			return nil, err
		}
		var value *int64
		if c.check(symEq) {
			c.advance()
			n, err := c.expect(symInt, "an integer enumerator value")
			if err != nil {
				return nil, err
			}
			iv, convErr := strconv.ParseInt(n.Value, 0, 64)
			if convErr != nil {
				return nil, SyntaxError{Kind: "Lexical", Line: n.Pos.Line, Column: n.Pos.Column, Message: fmt.Sprintf("invalid integer literal %q", n.Value)}
			}
			value = &iv
		}
		enumerators = append(enumerators, ast.Enumerator{Tag: tag, Value: value})
		if c.check(symComma) {
			c.advance()
			continue
		}
		break
	}
	if _, err := c.expect(symRBrace, `"}"`); err != nil {
		return nil, err
	}
	return &ast.Enumeration{Name: name, Enumerators: enumerators}, nil
}

func (c *cursor) parseStruct() (ast.Type, error) {
	c.advance() // 'struct'
	name := ""
	if c.check(symIdent) {
		name = c.advance().Value
	}
	if !c.check(symLBrace) {
		if name == "" {
			return nil, c.unexpected(c.current(), `"{" (an anonymous struct must have a body)`)
		}
		return &ast.Referrer{Category: ast.CategoryStruct, Name: name}, nil
	}
	c.advance() // '{'

	var members []ast.Member
	for !c.check(symRBrace) {
		before := c.pos
		m, err := c.parseMember()
		if err != nil {
			return nil, err
		}
		consumedSemi := c.consumeOptionalSemi()
		if c.pos == before && !consumedSemi {
			return nil, c.unexpected(c.current(), `a struct member or "}"`)
		}
		members = append(members, m)
	}
	c.advance() // '}'
	return &ast.Struct{Name: name, Members: members}, nil
}

func (c *cursor) parseMember() (ast.Member, error) {
	if c.check(symBlock) {
		b, err := c.parseBlockDefinition()
		if err != nil {
			return ast.Member{}, err
		}
		return ast.Member{Block: b}, nil
	}
	if isTypeNameStart(c.current().Type) {
		t, err := c.parseTypeName()
		if err != nil {
			return ast.Member{}, err
		}
		return ast.Member{Type: t}, nil
	}
	return ast.Member{}, nil
}

func (c *cursor) parseTaggedStruct() (ast.Type, error) {
	c.advance() // 'taggedstruct'
	name := ""
	if c.check(symIdent) {
		name = c.advance().Value
	}
	if !c.check(symLBrace) {
		if name == "" {
			return nil, c.unexpected(c.current(), `"{" (an anonymous taggedstruct must have a body)`)
		}
		return &ast.Referrer{Category: ast.CategoryTaggedStruct, Name: name}, nil
	}
	c.advance() // '{'

	var members []ast.TaggedStructMember
	for !c.check(symRBrace) {
		m, err := c.parseTaggedStructMember()
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	c.advance() // '}'
	return &ast.TaggedStruct{Name: name, Members: members}, nil
}

func (c *cursor) parseTaggedStructMember() (ast.TaggedStructMember, error) {
	if c.check(symLParen) {
		c.advance()
		var tsm ast.TaggedStructMember
		if c.check(symBlock) {
			b, err := c.parseBlockDefinition()
			if err != nil {
				return ast.TaggedStructMember{}, err
			}
			tsm.Block = b
		} else {
			d, err := c.parseTaggedStructDef()
			if err != nil {
				return ast.TaggedStructMember{}, err
			}
			tsm.Definition = d
		}
		c.consumeOptionalSemi()
		if _, err := c.expect(symRParen, `")"`); err != nil {
			return ast.TaggedStructMember{}, err
		}
		if _, err := c.expect(symStar, `"*"`); err != nil {
			return ast.TaggedStructMember{}, err
		}
		tsm.Multiple = true
		return tsm, nil
	}

	if c.check(symBlock) {
		b, err := c.parseBlockDefinition()
		if err != nil {
			return ast.TaggedStructMember{}, err
		}
		c.consumeOptionalSemi()
		return ast.TaggedStructMember{Block: b}, nil
	}

	d, err := c.parseTaggedStructDef()
	if err != nil {
		return ast.TaggedStructMember{}, err
	}
	c.consumeOptionalSemi()
	return ast.TaggedStructMember{Definition: d}, nil
}

func (c *cursor) parseTaggedStructDef() (*ast.TaggedStructDefinition, error) {
	tag, err := c.expectTag()
	if err != nil {
		return nil, err
	}
	tsd := &ast.TaggedStructDefinition{Tag: tag}

	if c.check(symLParen) {
		c.advance()
		m, err := c.parseMember()
		if err != nil {
			return nil, err
		}
		c.consumeOptionalSemi()
		if _, err := c.expect(symRParen, `")"`); err != nil {
			return nil, err
		}
		if _, err := c.expect(symStar, `"*"`); err != nil {
			return nil, err
		}
		tsd.Member = &m
		tsd.Multiple = true
		return tsd, nil
	}

	if isTypeNameStart(c.current().Type) || c.check(symBlock) {
		m, err := c.parseMember()
		if err != nil {
			return nil, err
		}
		tsd.Member = &m
	}
	return tsd, nil
}

func (c *cursor) parseTaggedUnion() (ast.Type, error) {
	c.advance() // 'taggedunion'
	name := ""
	if c.check(symIdent) {
		name = c.advance().Value
	}
	if !c.check(symLBrace) {
		if name == "" {
			return nil, c.unexpected(c.current(), `"{" (an anonymous taggedunion must have a body)`)
		}
		return &ast.Referrer{Category: ast.CategoryTaggedUnion, Name: name}, nil
	}
	c.advance() // '{'

	var members []ast.TaggedUnionMember
	for !c.check(symRBrace) {
		m, err := c.parseTaggedUnionMember()
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	c.advance() // '}'
	return &ast.TaggedUnion{Name: name, Members: members}, nil
}

func (c *cursor) parseTaggedUnionMember() (ast.TaggedUnionMember, error) {
	if c.check(symBlock) {
		b, err := c.parseBlockDefinition()
		if err != nil {
			return ast.TaggedUnionMember{}, err
		}
		c.consumeOptionalSemi()
		return ast.TaggedUnionMember{Block: b}, nil
	}

	tag, err := c.expectTag()
	if err != nil {
		return ast.TaggedUnionMember{}, err
	}
	var member *ast.Member
	if isTypeNameStart(c.current().Type) || c.check(symBlock) {
		m, err := c.parseMember()
		if err != nil {
			return ast.TaggedUnionMember{}, err
		}
		member = &m
	}
	c.consumeOptionalSemi()
	return ast.TaggedUnionMember{Tag: tag, Member: member}, nil
}

func (c *cursor) parseBlockDefinition() (*ast.BlockDefinition, error) {
	if _, err := c.expect(symBlock, `"block"`); err != nil {
		return nil, err
	}
	tag, err := c.expectTag()
	if err != nil {
		return nil, err
	}

	if c.check(symLParen) {
		c.advance()
		t, err := c.parseTypeName()
		if err != nil {
			return nil, err
		}
		if _, err := c.expect(symRParen, `")"`); err != nil {
			return nil, err
		}
		if _, err := c.expect(symStar, `"*"`); err != nil {
			return nil, err
		}
		return &ast.BlockDefinition{Tag: tag, Type: t, Multiple: true}, nil
	}

	t, err := c.parseTypeName()
	if err != nil {
		return nil, err
	}
	return &ast.BlockDefinition{Tag: tag, Type: t}, nil
}
