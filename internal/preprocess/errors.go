package preprocess

import "fmt"

// IncludeError reports a failure resolving or opening an /include target.
// Kind is one of "NotFound", "Cycle", "Unreadable", "MissingFilename".
type IncludeError struct {
	Kind    string
	Path    string
	Line    int
	Column  int
	Message string
}

func (e IncludeError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("preprocess: %s: %s (%s:%d:%d)", e.Kind, e.Message, e.Path, e.Line, e.Column)
	}
	return fmt.Sprintf("preprocess: %s: %s (%s:%d:%d)", e.Kind, e.Path, e.Path, e.Line, e.Column)
}

// CarveError reports an unterminated AML or IF_DATA carve-out: a "/begin
// A2ML" or "/begin IF_DATA" with no matching "/end" before EOF.
type CarveError struct {
	Kind   string // "UnterminatedA2ml", "UnterminatedIfData"
	Path   string
	Line   int
	Column int
}

func (e CarveError) Error() string {
	return fmt.Sprintf("preprocess: %s at %s:%d:%d", e.Kind, e.Path, e.Line, e.Column)
}
