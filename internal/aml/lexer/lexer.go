// Package lexer classifies the AML text blob the preprocessor carves out of
// an A2L file (§4.3) into the token classes described by §3: keywords,
// punctuation, predefined types, identifiers, literals, and quoted tags.
//
// Grounded on the teacher's DSL lexer (internal/dsl/grammar.go's dslLexer):
// a participle/v2 lexer.MustSimple rule set, ordered so that reserved
// keywords are matched before the general identifier rule, with whitespace
// and comments elided by the parser that consumes this lexer.
package lexer

import "github.com/alecthomas/participle/v2/lexer"

// Rules is the ordered AML token rule set. Order matters: participle's
// simple lexer takes the first rule that matches at the current position,
// so reserved words and predefined-type names must precede the general
// Ident rule.
var Rules = []lexer.SimpleRule{
	{Name: "Comment", Pattern: `/\*[\s\S]*?\*/|//[^\n]*`},
	{Name: "Begin", Pattern: `/begin\b`},
	{Name: "End", Pattern: `/end\b`},
	{Name: "Block", Pattern: `\bblock\b`},
	{Name: "Enum", Pattern: `\benum\b`},
	{Name: "TaggedUnion", Pattern: `\btaggedunion\b`},
	{Name: "TaggedStruct", Pattern: `\btaggedstruct\b`},
	{Name: "Struct", Pattern: `\bstruct\b`},
	{Name: "PredefinedType", Pattern: `\b(float16|uint64|int64|uchar|ulong|char|long|uint|int|double|float)\b`},
	{Name: "Tag", Pattern: `"[A-Za-z_][A-Za-z0-9_]*"`},
	{Name: "Float", Pattern: `[+-]?\d+\.\d+([eE][+-]?\d+)?`},
	{Name: "Int", Pattern: `[+-]?(0[xX][0-9a-fA-F]+|\d+)`},
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_.]*`},
	{Name: "LBrace", Pattern: `\{`},
	{Name: "RBrace", Pattern: `\}`},
	{Name: "LParen", Pattern: `\(`},
	{Name: "RParen", Pattern: `\)`},
	{Name: "LSQ", Pattern: `\[`},
	{Name: "RSQ", Pattern: `\]`},
	{Name: "Eq", Pattern: `=`},
	{Name: "Semi", Pattern: `;`},
	{Name: "Comma", Pattern: `,`},
	{Name: "Star", Pattern: `\*`},
	{Name: "Whitespace", Pattern: `\s+`},
}

// Def is the shared AML lexer definition consumed by internal/aml/parser.
// The IF_DATA interpreter does not use it; it tokenizes with internal/token.
var Def = lexer.MustSimple(Rules)
