package a2l

import (
	"strconv"
	"strings"

	"github.com/christoph2/a2lgo/internal/asamtype"
	"github.com/christoph2/a2lgo/internal/schema"
	"github.com/christoph2/a2lgo/internal/token"
)

// IfDataLookup retrieves the raw text of an IF_DATA block whose opening
// keyword sits at (line, col), as recorded by the IF_DATA store during
// preprocessing (§4.8). ok is false if no such block was recorded.
type IfDataLookup func(line, col int) (payload []byte, ok bool)

// Parse runs the table-driven A2L parser (§4.7) over an already-filtered
// token stream (whitespace and comments elided), descending the schema
// table rooted at schema.Root and validating parameters against the ASAM
// type catalog. ifData may be nil if IF_DATA attachment is not needed.
func Parse(tokens []token.Token, ifData IfDataLookup) (*ValueContainer, *Diagnostics, error) {
	root := &ValueContainer{Name: schema.Root.ClassName}
	ps := &parseState{
		tokens:        tokens,
		schemaStack:   []*schema.Node{schema.Root},
		containerStack: []*ValueContainer{root},
		ifData:        ifData,
		diag:          &Diagnostics{},
	}
	if err := ps.run(); err != nil {
		return nil, nil, err
	}
	return root, ps.diag, nil
}

type parseState struct {
	tokens         []token.Token
	pos            int
	schemaStack    []*schema.Node
	containerStack []*ValueContainer
	ifData         IfDataLookup
	diag           *Diagnostics
}

func (ps *parseState) atEOF() bool { return ps.pos >= len(ps.tokens) }

func (ps *parseState) current() token.Token { return ps.tokens[ps.pos] }

func (ps *parseState) advance() token.Token {
	tok := ps.tokens[ps.pos]
	ps.pos++
	return tok
}

func (ps *parseState) topSchema() *schema.Node { return ps.schemaStack[len(ps.schemaStack)-1] }

func (ps *parseState) pushContainer(c *ValueContainer) {
	parent := ps.containerStack[len(ps.containerStack)-1]
	parent.Children = append(parent.Children, c)
	ps.containerStack = append(ps.containerStack, c)
}

func (ps *parseState) popBoth() {
	ps.containerStack = ps.containerStack[:len(ps.containerStack)-1]
	ps.schemaStack = ps.schemaStack[:len(ps.schemaStack)-1]
}

func expectedSet(n *schema.Node) []string {
	out := make([]string, 0, len(n.ChildNodes()))
	for _, c := range n.ChildNodes() {
		out = append(out, c.Name)
	}
	return out
}

func (ps *parseState) unexpectedToken(tok token.Token, expected []string) error {
	return ParseError{
		Kind:     "UnexpectedToken",
		Line:     tok.Span.StartLine,
		Column:   tok.Span.StartCol,
		Token:    tok.Text(),
		Expected: expected,
	}
}

func (ps *parseState) run() error {
	for {
		if ps.atEOF() {
			if len(ps.schemaStack) > 1 {
				return ParseError{Kind: "PrematureEOF", Expected: []string{"/end " + ps.topSchema().Name}}
			}
			return nil
		}

		tok := ps.current()
		text := tok.Text()

		switch text {
		case "/begin":
			ps.advance()
			if ps.atEOF() {
				return ParseError{Kind: "UnexpectedEOF", Expected: []string{"a keyword"}}
			}
			if err := ps.openKeyword(); err != nil {
				return err
			}
		case "/end":
			ps.advance()
			if ps.atEOF() {
				return ParseError{Kind: "UnexpectedEOF", Expected: []string{ps.topSchema().Name}}
			}
			nameTok := ps.current()
			top := ps.topSchema()
			if nameTok.Text() != top.Name {
				return ParseError{
					Kind:     "MismatchedEnd",
					Line:     nameTok.Span.StartLine,
					Column:   nameTok.Span.StartCol,
					Token:    nameTok.Text(),
					Expected: []string{top.Name},
				}
			}
			ps.advance()
			ps.popBoth()
		default:
			if err := ps.openKeyword(); err != nil {
				return err
			}
		}
	}
}

// openKeyword consumes one child keyword token of the node at the top of
// the schema stack, pushes its container and schema node, consumes its
// parameters, and pops immediately if it is not a block.
func (ps *parseState) openKeyword() error {
	top := ps.topSchema()
	kwTok := ps.current()
	child, ok := top.ChildByName(kwTok.Text())
	if !ok {
		return ps.unexpectedToken(kwTok, expectedSet(top))
	}
	ps.advance()

	container := &ValueContainer{Name: child.ClassName, Span: kwTok.Span}
	ps.pushContainer(container)
	ps.pushSchemaNode(child)

	if err := ps.consumeParams(child, container); err != nil {
		return err
	}

	if child.Name == "IF_DATA" && ps.ifData != nil {
		if payload, ok := ps.ifData(kwTok.Span.StartLine, kwTok.Span.StartCol); ok {
			container.IfData = payload
		} else {
			ps.diag.add(Warning{
				Kind:    "MissingIfData",
				Message: "no raw IF_DATA text was recorded for this block",
				Line:    kwTok.Span.StartLine,
				Column:  kwTok.Span.StartCol,
			})
		}
	}

	if !child.IsBlock {
		ps.popBoth()
	}
	return nil
}

func (ps *parseState) pushSchemaNode(n *schema.Node) {
	ps.schemaStack = append(ps.schemaStack, n)
}

func (ps *parseState) consumeParams(node *schema.Node, container *ValueContainer) error {
	for _, param := range node.Params {
		switch {
		case param.Tuple != nil:
			if err := ps.consumeTuple(param, container); err != nil {
				return err
			}
		case param.Repeating:
			if err := ps.consumeRepeating(param, container); err != nil {
				return err
			}
		default:
			v, err := ps.consumeOne(param)
			if err != nil {
				return err
			}
			container.Parameters = append(container.Parameters, Param{Name: param.Name, Value: v})
		}
	}
	return nil
}

func (ps *parseState) consumeOne(param schema.Param) (Value, error) {
	if ps.atEOF() {
		return Value{}, ParseError{Kind: "MissingParameter", Expected: []string{param.Name}}
	}
	tok := ps.current()
	v, err := valueFromToken(tok, param)
	if err != nil {
		return Value{}, err
	}
	ps.advance()
	return v, nil
}

func (ps *parseState) consumeRepeating(param schema.Param, container *ValueContainer) error {
	for !ps.atEOF() {
		tok := ps.current()
		if !satisfiesParam(tok, param) {
			break
		}
		v, err := valueFromToken(tok, param)
		if err != nil {
			return err
		}
		ps.advance()
		container.RepeatedValues = append(container.RepeatedValues, []Value{v})
	}
	return nil
}

func (ps *parseState) consumeTuple(param schema.Param, container *ValueContainer) error {
	counterParam := schema.Param{Name: param.Tuple.CounterName, Discriminator: param.Discriminator}
	counter, err := ps.consumeOne(counterParam)
	if err != nil {
		return err
	}
	var k uint64
	switch counter.Kind {
	case KindUInt:
		k = counter.U
	case KindInt:
		k = uint64(counter.I)
	}
	for row := uint64(0); row < k; row++ {
		values := make([]Value, 0, len(param.Tuple.Elements))
		for _, elem := range param.Tuple.Elements {
			v, err := ps.consumeOne(elem)
			if err != nil {
				return err
			}
			values = append(values, v)
		}
		container.RepeatedValues = append(container.RepeatedValues, values)
	}
	return nil
}

func satisfiesParam(tok token.Token, param schema.Param) bool {
	if len(param.Literals) > 0 {
		for _, lit := range param.Literals {
			if lit == tok.Text() {
				return true
			}
		}
		return false
	}
	typ, err := asamtype.Lookup(param.Discriminator)
	if err != nil {
		return false
	}
	return typ.Validate(tok)
}

func valueFromToken(tok token.Token, param schema.Param) (Value, error) {
	if len(param.Literals) > 0 {
		text := tok.Text()
		for _, lit := range param.Literals {
			if lit == text {
				return Value{Kind: KindString, S: text}, nil
			}
		}
		return Value{}, ValidationError{
			Kind:       "InvalidLiteral",
			Line:       tok.Span.StartLine,
			Column:     tok.Span.StartCol,
			Parameter:  param.Name,
			Token:      text,
			ValidRange: strings.Join(param.Literals, ", "),
		}
	}

	typ, err := asamtype.Lookup(param.Discriminator)
	if err != nil {
		return Value{}, err
	}
	if !typ.Validate(tok) {
		return Value{}, ValidationError{
			Kind:       "OutOfRange",
			Line:       tok.Span.StartLine,
			Column:     tok.Span.StartCol,
			Parameter:  param.Name,
			Token:      tok.Text(),
			ValidRange: typ.ValidRange(),
		}
	}

	switch typ.Kind {
	case asamtype.KindInt, asamtype.KindLong:
		iv, _ := parseSignedInt(tok.Text())
		return Value{Kind: KindInt, I: iv}, nil
	case asamtype.KindUInt, asamtype.KindULong:
		uv, _ := parseUnsignedInt(tok.Text())
		return Value{Kind: KindUInt, U: uv}, nil
	case asamtype.KindFloat:
		fv, _ := strconv.ParseFloat(tok.Text(), 64)
		return Value{Kind: KindFloat, F: fv}, nil
	case asamtype.KindString:
		return Value{Kind: KindString, S: tok.StringValue()}, nil
	default: // KindIdent, KindEnum
		return Value{Kind: KindString, S: tok.Text()}, nil
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
