// Package a2lgo is the public entry point for the ASAM MCD-2 MC (A2L)
// parsing pipeline: preprocessing, A2L parsing against the schema table, and
// on-demand AML/IF_DATA interpretation.
package a2lgo

import (
	"fmt"
	"io"

	"github.com/christoph2/a2lgo/internal/a2l"
	"github.com/christoph2/a2lgo/internal/aml/ast"
	"github.com/christoph2/a2lgo/internal/aml/codec"
	amlparser "github.com/christoph2/a2lgo/internal/aml/parser"
	"github.com/christoph2/a2lgo/internal/ifdata"
	"github.com/christoph2/a2lgo/internal/ifdatastore"
	"github.com/christoph2/a2lgo/internal/linemap"
	"github.com/christoph2/a2lgo/internal/preprocess"
	"github.com/christoph2/a2lgo/internal/token"
)

type (
	ValueContainer = a2l.ValueContainer
	Value          = a2l.Value
	Param          = a2l.Param
	Kind           = a2l.Kind
	Diagnostics    = a2l.Diagnostics
	Warning        = a2l.Warning
	Options        = preprocess.Options
	IfDataNode     = ifdata.Node
	IfDataOptions  = ifdata.Options
	IfDataWarning  = ifdata.Warning
)

const (
	KindInt    = a2l.KindInt
	KindUInt   = a2l.KindUInt
	KindFloat  = a2l.KindFloat
	KindString = a2l.KindString
)

// DefaultOptions returns the preprocessor's documented default options.
func DefaultOptions() Options { return preprocess.DefaultOptions() }

// IncludePathFromEnv reads an environment variable (conventionally
// "ASAP_INCLUDE") and splits it on the host's path-list separator, for
// cmd/a2ldump and cmd/a2lserver to assemble Options.IncludePath at startup.
func IncludePathFromEnv(name string) []string { return preprocess.IncludePathFromEnv(name) }

// Document is the result of parsing one A2L file (and its includes): the
// value model root, diagnostics, the line map for translating positions
// back to source files, and the side channels (AML blob, IF_DATA store)
// needed to interpret IF_DATA on demand.
type Document struct {
	Root        *ValueContainer
	Diagnostics *Diagnostics
	LineMap     *linemap.LineMap

	ifStore *ifdatastore.Store
	amlBlob []byte
	amlFile *ast.AmlFile
	tokens  []token.Token
}

// ParseFile preprocesses and parses the A2L file at path, per §6's exit
// conditions: the value model root, a line map, and an IF_DATA reader.
func ParseFile(path string, opts Options) (*Document, error) {
	res, err := preprocess.Run(path, opts)
	if err != nil {
		return nil, err
	}

	significant := token.Significant(res.Tokens)

	lookup := func(line, col int) ([]byte, bool) {
		payload, _, ok, _ := res.IfData.Get(line, col)
		return payload, ok
	}

	root, diag, err := a2l.Parse(significant, lookup)
	if err != nil {
		res.IfData.Close()
		return nil, err
	}

	return &Document{
		Root:        root,
		Diagnostics: diag,
		LineMap:     res.LineMap,
		ifStore:     res.IfData,
		amlBlob:     res.AmlBlob,
		tokens:      significant,
	}, nil
}

// TokenStream returns a replayable view over the significant token stream
// the parser consumed, independent of the ValueContainer tree it produced
// (SUPPLEMENTED FEATURES: the original's generator.hpp exposes the same
// introspection for its host bindings).
func (d *Document) TokenStream() *a2l.TokenStream {
	return a2l.NewTokenStream(d.tokens)
}

// Close releases the document's scoped IF_DATA store (§5).
func (d *Document) Close() error {
	if d.ifStore == nil {
		return nil
	}
	return d.ifStore.Close()
}

// AmlGrammar lazily lexes and parses the AML blob carved out of the source
// file during preprocessing, caching the result for subsequent calls.
func (d *Document) AmlGrammar() (*ast.AmlFile, error) {
	if d.amlFile != nil {
		return d.amlFile, nil
	}
	if len(d.amlBlob) == 0 {
		return nil, fmt.Errorf("a2lgo: document has no embedded AML grammar")
	}
	file, err := amlparser.Parse(string(d.amlBlob))
	if err != nil {
		return nil, err
	}
	d.amlFile = file
	return file, nil
}

// ParseIfData interprets container's raw IF_DATA text against the
// document's AML grammar, descending from the block tagged blockTag
// (conventionally "IF_DATA"). It walks the *ast.AmlFile that AmlGrammar
// already holds in memory rather than round-tripping it through
// MarshalAml/UnmarshalAml first: that in-memory AST and a marshal/unmarshal
// round trip of it are equivalent per the codec's contract (see
// internal/aml/codec), so there is nothing for the extra encode/decode pass
// to validate that AmlGrammar's own parse didn't already guarantee.
func (d *Document) ParseIfData(container *ValueContainer, blockTag string, opts IfDataOptions) (*IfDataNode, []IfDataWarning, error) {
	grammar, err := d.AmlGrammar()
	if err != nil {
		return nil, nil, err
	}
	return ifdata.Parse(string(container.IfData), grammar, blockTag, opts)
}

// WriteJSON serializes the document's value model to w.
func (d *Document) WriteJSON(w io.Writer) error {
	return a2l.WriteJSON(d.Root, w)
}

// MarshalAml encodes an AML AST to the self-describing binary format
// (§4.4, §6).
func MarshalAml(file *ast.AmlFile) ([]byte, error) { return codec.Marshal(file) }

// UnmarshalAml decodes an AML AST from the binary format produced by
// MarshalAml.
func UnmarshalAml(data []byte) (*ast.AmlFile, error) { return codec.Unmarshal(data) }
