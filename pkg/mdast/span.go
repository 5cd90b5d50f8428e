// Package mdast defines the document model for wscpublish:
// - Span / LineCol / SpanMap: byte-accurate source positions
// - Token: the flat token stream produced by the tokenizer
// - Node: the document tree produced by the tree builder
package mdast

import (
	"fmt"
	"sort"
)

// Span is a half-open byte range [Start, End) into the source string.
// Offsets count bytes of the UTF-8 encoding, never runes.
type Span struct {
	// Start is the byte index where the span begins (inclusive).
	Start int

	// End is the byte index where the span ends (exclusive).
	End int
}

// Len returns the length of the span in bytes.
func (s Span) Len() int {
	return s.End - s.Start
}

// IsEmpty returns true if the span has zero length.
func (s Span) IsEmpty() bool {
	return s.Start == s.End
}

// Contains returns true if the given byte offset falls within the span.
func (s Span) Contains(offset int) bool {
	return offset >= s.Start && offset < s.End
}

// Text returns the source text covered by the span.
// Returns "" for spans that fall outside the source.
func (s Span) Text(source string) string {
	if s.Start < 0 || s.End > len(source) || s.Start > s.End {
		return ""
	}
	return source[s.Start:s.End]
}

// LineCol is a resolved source position range.
// Lines and columns are 0-indexed; columns count bytes from line start.
type LineCol struct {
	StartLine int
	StartCol  int
	EndLine   int
	EndCol    int
}

// String formats the position as "<line>:<col>-<line>:<col>".
func (lc LineCol) String() string {
	return fmt.Sprintf("%d:%d-%d:%d", lc.StartLine, lc.StartCol, lc.EndLine, lc.EndCol)
}

// IsSingleLine returns true if start and end are on the same line.
func (lc LineCol) IsSingleLine() bool {
	return lc.StartLine == lc.EndLine
}

// lineEntry records one source line: the line occupies the byte range
// [Start, Start+Length+1), including the trailing newline if present.
type lineEntry struct {
	Start  int
	Length int // bytes excluding the newline
}

// SpanMap resolves byte offsets to line/column positions in O(log lines).
// Built once per source; read-only afterwards and safe to share with
// diagnostics consumers.
type SpanMap struct {
	lines []lineEntry
	size  int
}

// NewSpanMap scans the source once and builds the per-line lookup table.
func NewSpanMap(source string) *SpanMap {
	m := &SpanMap{size: len(source)}

	lineStart := 0
	for i := 0; i < len(source); i++ {
		if source[i] == '\n' {
			m.lines = append(m.lines, lineEntry{Start: lineStart, Length: i - lineStart})
			lineStart = i + 1
		}
	}
	if lineStart < len(source) {
		m.lines = append(m.lines, lineEntry{Start: lineStart, Length: len(source) - lineStart})
	}

	return m
}

// LineCount returns the number of lines in the source.
func (m *SpanMap) LineCount() int {
	return len(m.lines)
}

// Line resolves a single byte offset to a 0-indexed (line, col) pair.
// ok is false when the offset falls outside every known line.
func (m *SpanMap) Line(offset int) (line, col int, ok bool) {
	if offset < 0 || len(m.lines) == 0 {
		return 0, 0, false
	}

	idx := sort.Search(len(m.lines), func(i int) bool {
		entry := m.lines[i]
		return offset < entry.Start+entry.Length+1
	})
	if idx >= len(m.lines) {
		return 0, 0, false
	}

	entry := m.lines[idx]
	if offset < entry.Start {
		return 0, 0, false
	}

	return idx, offset - entry.Start, true
}

// Lookup resolves a span to its line/column range.
//
// The start offset must resolve to a known line, otherwise Lookup returns
// nil. An end offset past the last line clamps to the end of the last line.
// Single-line spans collapse the end column to start column + length - 1.
func (m *SpanMap) Lookup(span Span) *LineCol {
	startLine, startCol, ok := m.Line(span.Start)
	if !ok {
		return nil
	}

	endLine, endCol, ok := m.Line(span.End - 1)
	if !ok {
		// Clamp to the last known line.
		last := m.lines[len(m.lines)-1]
		endLine = len(m.lines) - 1
		endCol = last.Length
	} else if startLine == endLine && span.Len() > 0 {
		endCol = startCol + span.Len() - 1
	}

	return &LineCol{
		StartLine: startLine,
		StartCol:  startCol,
		EndLine:   endLine,
		EndCol:    endCol,
	}
}
