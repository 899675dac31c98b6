// Package preprocess implements the preprocessing stage described by §4.2:
// include resolution, comment blanking, and the AML/IF_DATA carve-out that
// turns one root A2L file (plus its includes) into three artifacts — a
// combined, whitespace/comment-normalized A2L token stream, an AML text
// blob, and a populated IF_DATA store — alongside the line map that lets
// diagnostics translate an absolute line number back to (file, original
// line).
package preprocess

// Options configures one preprocessing run. Built by the caller (cmd/a2ldump,
// cmd/a2lserver) and passed in; nothing here is read from the environment
// directly — the ASAP_INCLUDE environment variable is read once at the
// outermost edge by the caller and passed in as IncludePath, mirroring the
// teacher's main()-only env/flag reading.
type Options struct {
	// IncludePath lists additional directories searched (after the
	// current working directory and the including file's own directory)
	// for an /include target, in order.
	IncludePath []string
	// Encoding is a caller-selected label (e.g. "UTF-8", "Latin-1") that a
	// consumer of the resulting ValueContainer tree may apply when
	// decoding string parameters. The preprocessor never decodes text
	// itself; see §9's Open Question and §4.7's Encoding note.
	Encoding string
	// SuppressComments blanks comments inside the AML blob to
	// equal-length whitespace, the same policy already applied to the
	// A2L stream. When false, comments are preserved verbatim inside the
	// AML blob. The zero value (false) preserves them; DefaultOptions sets
	// it to true (blanked), per §4.2's stated default.
	SuppressComments bool
}

// DefaultOptions returns an Options with SuppressComments set to the
// documented default (blanked).
func DefaultOptions() Options {
	return Options{SuppressComments: true}
}
