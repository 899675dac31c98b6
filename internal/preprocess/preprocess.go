package preprocess

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/christoph2/a2lgo/internal/ifdatastore"
	"github.com/christoph2/a2lgo/internal/linemap"
	"github.com/christoph2/a2lgo/internal/token"
)

// Result bundles the three artifacts a preprocessing run produces, plus the
// line map built while producing them.
type Result struct {
	Tokens  []token.Token
	AmlBlob []byte
	IfData  *ifdatastore.Store
	LineMap *linemap.LineMap
}

// Run preprocesses rootPath (and any files it transitively /includes) into a
// Result. The caller owns the returned Store and must Close it.
func Run(rootPath string, opts Options) (*Result, error) {
	store, err := ifdatastore.New()
	if err != nil {
		return nil, err
	}

	pp := &preprocessor{
		opts:    opts,
		lm:      linemap.New(),
		ifStore: store,
	}

	absRoot, err := filepath.Abs(rootPath)
	if err != nil {
		store.Close()
		return nil, err
	}

	pp.stack = append(pp.stack, absRoot)
	pp.absCursor = 1
	tokens, err := pp.processFile(rootPath)
	if err != nil {
		store.Close()
		return nil, err
	}

	if err := store.Finalize(); err != nil {
		store.Close()
		return nil, err
	}
	pp.lm.Finalize()

	return &Result{
		Tokens:  tokens,
		AmlBlob: pp.amlBuf,
		IfData:  store,
		LineMap: pp.lm,
	}, nil
}

type preprocessor struct {
	opts      Options
	lm        *linemap.LineMap
	ifStore   *ifdatastore.Store
	amlBuf    []byte
	stack     []string // resolved absolute paths currently open, for cycle detection
	absCursor int       // next absolute line number to assign to a new section
}

func (pp *preprocessor) onStack(absPath string) bool {
	for _, p := range pp.stack {
		if p == absPath {
			return true
		}
	}
	return false
}

// processFile tokenizes path, resolves /include directives inline, carves
// out A2ML and IF_DATA spans, and returns the resulting A2L token stream
// contributed by this file (recursively including any included files'
// contributions at the point of inclusion).
func (pp *preprocessor) processFile(path string) ([]token.Token, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, IncludeError{Kind: "Unreadable", Path: path, Message: err.Error()}
	}

	lt := newLookaheadTokenizer(data)

	var out []token.Token
	sectionRelStart := 1
	sectionAbsStart := pp.absCursor
	offset := sectionAbsStart - sectionRelStart
	lastRelLine := 0

	flush := func(relEnd int) {
		if relEnd < sectionRelStart {
			return
		}
		pp.lm.Add(linemap.Section{
			AbsStart: sectionAbsStart,
			AbsEnd:   sectionAbsStart + (relEnd - sectionRelStart),
			RelStart: sectionRelStart,
			RelEnd:   relEnd,
			File:     path,
		})
		pp.absCursor = sectionAbsStart + (relEnd - sectionRelStart) + 1
	}

	remap := func(t token.Token) token.Token {
		t.Span.StartLine += offset
		t.Span.EndLine += offset
		return t
	}

	for {
		tok, ok := lt.next()
		if !ok {
			break
		}
		lastRelLine = tok.Span.EndLine

		switch tok.Class {
		case token.Comment:
			out = append(out, remap(token.Token{Class: token.Comment, Payload: blankComment(tok.Payload), Span: tok.Span}))
			continue
		case token.Whitespace, token.String:
			out = append(out, remap(tok))
			continue
		}

		text := tok.Text()
		switch text {
		case "/include":
			nameTok, ok := pp.nextSignificant(lt)
			if !ok {
				return nil, IncludeError{Kind: "MissingFilename", Path: path, Line: tok.Span.StartLine, Column: tok.Span.StartCol}
			}
			filename := nameTok.Text()
			if nameTok.Class == token.String {
				filename = nameTok.StringValue()
			}

			resolved, err := pp.resolveInclude(filename, path)
			if err != nil {
				return nil, err
			}
			if pp.onStack(resolved) {
				return nil, IncludeError{Kind: "Cycle", Path: resolved, Line: tok.Span.StartLine, Column: tok.Span.StartCol}
			}

			flush(tok.Span.StartLine)

			pp.stack = append(pp.stack, resolved)
			incTokens, err := pp.processFile(resolved)
			pp.stack = pp.stack[:len(pp.stack)-1]
			if err != nil {
				return nil, err
			}
			out = append(out, incTokens...)

			sectionRelStart = nameTok.Span.EndLine + 1
			sectionAbsStart = pp.absCursor
			offset = sectionAbsStart - sectionRelStart
			continue

		case "/begin":
			kw, ok := lt.peekSignificant()
			if ok && kw.Text() == "A2ML" {
				if err := pp.captureAml(path, tok, lt); err != nil {
					return nil, err
				}
				continue
			}
			if ok && kw.Text() == "IF_DATA" {
				ifKw, _ := pp.nextSignificant(lt)
				ifKwAbs := remap(ifKw)
				out = append(out, remap(tok), ifKwAbs)
				nameTok, endBegin, endIf, err := pp.captureIfData(path, ifKwAbs, lt)
				if err != nil {
					return nil, err
				}
				out = append(out, remap(nameTok), remap(endBegin), remap(endIf))
				continue
			}
			out = append(out, remap(tok))
		default:
			out = append(out, remap(tok))
		}
	}

	flush(lastRelLine)
	return out, nil
}

// nextSignificant returns the next non-whitespace, non-comment token,
// consuming it (and any skipped whitespace/comments) permanently.
func (pp *preprocessor) nextSignificant(lt *lookaheadTokenizer) (token.Token, bool) {
	for {
		t, ok := lt.next()
		if !ok {
			return token.Token{}, false
		}
		if t.Class == token.Whitespace || t.Class == token.Comment {
			continue
		}
		return t, true
	}
}

// resolveInclude searches, in order: the current working directory, the
// directory of the including file, then each directory in opts.IncludePath.
func (pp *preprocessor) resolveInclude(filename, includingFile string) (string, error) {
	candidates := []string{filename}

	if wd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(wd, filename))
	}
	candidates = append(candidates, filepath.Join(filepath.Dir(includingFile), filename))
	for _, dir := range pp.opts.IncludePath {
		candidates = append(candidates, filepath.Join(dir, filename))
	}

	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && !info.IsDir() {
			abs, err := filepath.Abs(c)
			if err != nil {
				return "", IncludeError{Kind: "NotFound", Path: filename, Message: err.Error()}
			}
			return abs, nil
		}
	}
	return "", IncludeError{Kind: "NotFound", Path: filename}
}

// splitIncludePath splits an environment-provided include-path variable on
// ':' (POSIX) or ';' (Windows), matching the host's os.PathListSeparator.
func splitIncludePath(v string) []string {
	if v == "" {
		return nil
	}
	return strings.Split(v, string(os.PathListSeparator))
}

// IncludePathFromEnv reads name (e.g. "ASAP_INCLUDE") and splits it on the
// host's path-list separator. Called by cmd/a2ldump and cmd/a2lserver at
// startup; preprocess.Run itself never touches the environment.
func IncludePathFromEnv(name string) []string {
	return splitIncludePath(os.Getenv(name))
}
