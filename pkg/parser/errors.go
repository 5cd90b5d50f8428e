package parser

import (
	"fmt"

	"github.com/WarpspeedSCP/wscpublish/pkg/mdast"
)

// ErrorKind classifies a parse failure.
type ErrorKind uint8

// Parse error kinds. All are fatal to the current parse; there is no
// partial-result mode.
const (
	// ErrKindUnclosedHTMLTag is an HTML open tag without a matching close
	// before end of input.
	ErrKindUnclosedHTMLTag ErrorKind = iota

	// ErrKindUnclosedScriptTag is a <script that never reaches </script>.
	ErrKindUnclosedScriptTag

	// ErrKindInvalidAttribute is malformed attribute syntax inside <...>.
	ErrKindInvalidAttribute

	// ErrKindUnclosedDelimiter is an emphasis or code delimiter that never
	// pairs. The builder degrades such delimiters to plain text instead of
	// raising this; the kind stays in the taxonomy for callers that match
	// on it.
	ErrKindUnclosedDelimiter

	// ErrKindInternal indicates a bug in the parser itself.
	ErrKindInternal
)

var errorKindNames = map[ErrorKind]string{
	ErrKindUnclosedHTMLTag:   "UnclosedHtmlTag",
	ErrKindUnclosedScriptTag: "UnclosedScriptTag",
	ErrKindInvalidAttribute:  "InvalidAttribute",
	ErrKindUnclosedDelimiter: "UnclosedDelimiter",
	ErrKindInternal:          "Internal",
}

// String returns a human-readable name for the error kind.
func (k ErrorKind) String() string {
	if name, ok := errorKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// ParseError is a fatal parse failure carrying the source position of the
// offending construct when one could be resolved.
type ParseError struct {
	Kind ErrorKind
	Pos  *mdast.LineCol
	Msg  string
}

// Error formats the failure as "<line>:<col>-<line>:<col>: <message>".
// Errors without a resolved position format as the bare message.
func (e *ParseError) Error() string {
	if e.Pos != nil {
		return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
	}
	return e.Msg
}

// newParseError builds a ParseError positioned at the given span.
func newParseError(kind ErrorKind, spans *mdast.SpanMap, span mdast.Span, msg string) *ParseError {
	var pos *mdast.LineCol
	if spans != nil {
		pos = spans.Lookup(span)
	}
	return &ParseError{Kind: kind, Pos: pos, Msg: msg}
}

// internalPanic reports a reached unreachable branch. This is a parser bug,
// never an input problem, so it panics with the token position.
func internalPanic(spans *mdast.SpanMap, tok mdast.Token, msg string) {
	err := newParseError(ErrKindInternal, spans, tok.Span, fmt.Sprintf("%s (token %s)", msg, tok.Kind))
	panic(err.Error())
}
