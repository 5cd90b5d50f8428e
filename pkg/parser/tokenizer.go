package parser

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/WarpspeedSCP/wscpublish/pkg/mdast"
)

// tokenizer performs a single left-to-right pass over the source,
// accumulating plain content in a scratch region [start, pos) and
// committing classified tokens as handlers fire. Contextual decisions
// (line starts, open links) are made by looking back over the tokens
// already emitted.
type tokenizer struct {
	src    string
	pos    int // current byte offset
	start  int // scratch start; scratch content is src[start:pos]
	tokens []mdast.Token
	spans  *mdast.SpanMap
}

func newTokenizer(source string) *tokenizer {
	const initialCapacityDivisor = 4
	return &tokenizer{
		src:    source,
		tokens: make([]mdast.Token, 0, len(source)/initialCapacityDivisor+1),
		spans:  mdast.NewSpanMap(source),
	}
}

// tokenize runs the main loop. The returned stream always ends with EOF.
func (t *tokenizer) tokenize() error {
	t.pos = frontmatterEnd(t.src)
	t.start = t.pos

	for t.pos < len(t.src) {
		var err error

		switch c := t.src[t.pos]; {
		case c == '\n':
			t.handleNewline()
		case c == '\\':
			t.handleEscape()
		case c == '>':
			t.handleBlockquote()
		case c == '<':
			err = t.handleHTML()
		case c == '#':
			t.handleHeading()
		case c == '*':
			t.handleAsterisk()
		case c == '_':
			t.handleUnderscore()
		case c == '~':
			t.handleTilde()
		case c == '`':
			t.handleGrave()
		case c == '-':
			t.handleHyphen()
		case c == '=':
			t.handleEquals()
		case c >= '0' && c <= '9':
			t.handleDigit()
		case c == '!':
			t.handleBang()
		case c == '[':
			t.handleBracketOpen()
		case c == ']':
			t.handleBracketClose()
		case c == ')':
			t.handleParenClose()
		default:
			t.pos++
		}

		if err != nil {
			return err
		}
	}

	t.flushText()
	t.tokens = append(t.tokens, mdast.Token{
		Kind: mdast.TokEOF,
		Span: mdast.Span{Start: len(t.src), End: len(t.src) + 1},
	})

	return nil
}

// push commits a token and advances past its span, resetting the scratch.
// The scratch must be flushed before pushing.
func (t *tokenizer) push(tok mdast.Token) {
	t.tokens = append(t.tokens, tok)
	t.pos = tok.Span.End
	t.start = t.pos
}

// flushText commits the scratch region as a Text token. Adjacent Text
// tokens merge: this is the only place already-emitted tokens mutate.
func (t *tokenizer) flushText() {
	if t.start >= t.pos {
		t.start = t.pos
		return
	}
	t.emitText(t.src[t.start:t.pos], mdast.Span{Start: t.start, End: t.pos})
	t.start = t.pos
}

func (t *tokenizer) emitText(text string, span mdast.Span) {
	if n := len(t.tokens); n > 0 && t.tokens[n-1].Kind == mdast.TokText {
		t.tokens[n-1].Text += text
		t.tokens[n-1].Span.End = span.End
		return
	}
	t.tokens = append(t.tokens, mdast.Token{Kind: mdast.TokText, Span: span, Text: text})
}

// runLen counts the run of c starting at offset.
func (t *tokenizer) runLen(offset int, c byte) int {
	n := 0
	for offset+n < len(t.src) && t.src[offset+n] == c {
		n++
	}
	return n
}

// isSpaceOrTab reports whether the byte at offset is ' ' or '\t'.
func (t *tokenizer) isSpaceOrTab(offset int) bool {
	return offset < len(t.src) && (t.src[offset] == ' ' || t.src[offset] == '\t')
}

// restOfLineBlank reports whether only spaces and tabs remain between
// offset and the next newline (or end of input).
func (t *tokenizer) restOfLineBlank(offset int) bool {
	for i := offset; i < len(t.src); i++ {
		switch t.src[i] {
		case '\n':
			return true
		case ' ', '\t':
		default:
			return false
		}
	}
	return true
}

// lineIndent reports whether only blank text separates the current
// position from the last newline, and how many columns of indentation
// that is. This is the context that lets '-', '*', '1.' and '#' act as
// line-start markers.
func (t *tokenizer) lineIndent() (int, bool) {
	scratch := t.src[t.start:t.pos]
	if !isBlankString(scratch) {
		return 0, false
	}

	indent := len(scratch)
	for i := len(t.tokens) - 1; i >= 0; i-- {
		tok := t.tokens[i]
		switch {
		case tok.Kind == mdast.TokNewline:
			return indent, true
		case tok.Kind == mdast.TokText && tok.IsBlank():
			indent += tok.Len()
		default:
			return 0, false
		}
	}

	return indent, true
}

// quoteContext reports whether a '>' run at the current position sits at
// the beginning of a line, allowing earlier list and quote markers.
func (t *tokenizer) quoteContext() bool {
	if !isBlankString(t.src[t.start:t.pos]) {
		return false
	}

	for i := len(t.tokens) - 1; i >= 0; i-- {
		tok := t.tokens[i]
		switch tok.Kind {
		case mdast.TokNewline:
			return true
		case mdast.TokUListItem, mdast.TokOListItem, mdast.TokBlockQuote:
		case mdast.TokText:
			if !tok.IsBlank() {
				return false
			}
		default:
			return false
		}
	}

	return true
}

// openLink reports whether the most recent unclosed delimiter on the
// current line is a LinkStart or ImageStart.
func (t *tokenizer) openLink() bool {
	depth := 0
	for i := len(t.tokens) - 1; i >= 0; i-- {
		switch t.tokens[i].Kind {
		case mdast.TokNewline:
			return false
		case mdast.TokLinkEnd:
			depth++
		case mdast.TokLinkStart, mdast.TokImageStart:
			if depth == 0 {
				return true
			}
			depth--
		}
	}
	return false
}

// bracketCloses reports whether a ']' appears between offset and the next
// newline.
func (t *tokenizer) bracketCloses(offset int) bool {
	for i := offset; i < len(t.src); i++ {
		switch t.src[i] {
		case ']':
			return true
		case '\n':
			return false
		}
	}
	return false
}

func (t *tokenizer) handleNewline() {
	t.flushText()
	t.push(mdast.Token{Kind: mdast.TokNewline, Span: mdast.Span{Start: t.pos, End: t.pos + 1}})
}

func (t *tokenizer) handleEscape() {
	if t.pos+1 >= len(t.src) {
		// A lone trailing backslash stays in text.
		t.pos++
		return
	}

	t.flushText()
	if t.src[t.pos+1] == '\n' {
		t.push(mdast.Token{Kind: mdast.TokLineBreak, Span: mdast.Span{Start: t.pos, End: t.pos + 2}})
		return
	}

	r, size := utf8.DecodeRuneInString(t.src[t.pos+1:])
	t.push(mdast.Token{
		Kind: mdast.TokEscape,
		Span: mdast.Span{Start: t.pos, End: t.pos + 1 + size},
		Text: string(r),
	})
}

func (t *tokenizer) handleBlockquote() {
	if !t.quoteContext() {
		t.pos++
		return
	}

	run := t.runLen(t.pos, '>')
	if !t.isSpaceOrTab(t.pos + run) {
		t.pos++
		return
	}

	t.flushText()
	t.push(mdast.Token{
		Kind:  mdast.TokBlockQuote,
		Span:  mdast.Span{Start: t.pos, End: t.pos + run + 1}, // marker plus one space
		Level: run,
	})
}

func (t *tokenizer) handleHeading() {
	run := t.runLen(t.pos, '#')

	if _, ok := t.lineIndent(); !ok || run > 6 || !t.isSpaceOrTab(t.pos+run) {
		t.pos += run
		return
	}

	t.flushText()
	t.push(mdast.Token{
		Kind:  mdast.TokHeading,
		Span:  mdast.Span{Start: t.pos, End: t.pos + run + 1}, // marker plus one space
		Level: run,
	})
}

func (t *tokenizer) handleAsterisk() {
	run := t.runLen(t.pos, '*')

	// A single '*' at line start followed by whitespace is a bullet.
	if run == 1 {
		if indent, ok := t.lineIndent(); ok && t.isSpaceOrTab(t.pos+1) {
			t.flushText()
			t.push(mdast.Token{
				Kind:  mdast.TokUListItem,
				Span:  mdast.Span{Start: t.pos, End: t.pos + 2},
				Level: indent,
			})
			return
		}
	}

	t.flushText()
	t.emitDelimiterRun(run, mdast.TokSingleAsterisk, mdast.TokDoubleAsterisk, mdast.TokTripleAsterisk)
}

func (t *tokenizer) handleUnderscore() {
	run := t.runLen(t.pos, '_')

	// Intraword underscores are part of the word, never delimiters.
	if t.prevIsWordByte() && t.nextIsWordByte(t.pos+run) {
		t.pos += run
		return
	}

	t.flushText()
	t.emitDelimiterRun(run, mdast.TokSingleUnderscore, mdast.TokDoubleUnderscore, mdast.TokTripleUnderscore)
}

// emitDelimiterRun emits a run of identical delimiter characters as
// single/double/triple tokens; runs longer than three split into a triple
// plus remainder.
func (t *tokenizer) emitDelimiterRun(run int, single, double, triple mdast.TokenKind) {
	for run > 0 {
		n := run
		if n > 3 {
			n = 3
		}
		kind := single
		switch n {
		case 2:
			kind = double
		case 3:
			kind = triple
		}
		t.push(mdast.Token{Kind: kind, Span: mdast.Span{Start: t.pos, End: t.pos + n}})
		run -= n
	}
}

func (t *tokenizer) handleTilde() {
	run := t.runLen(t.pos, '~')
	if run != 2 {
		t.pos += run
		return
	}

	t.flushText()
	t.push(mdast.Token{Kind: mdast.TokDoubleTilde, Span: mdast.Span{Start: t.pos, End: t.pos + 2}})
}

func (t *tokenizer) handleGrave() {
	run := t.runLen(t.pos, '`')

	switch {
	case run >= 3:
		t.handleFence(run)
	case run == 1:
		t.handleInlineCode()
	default:
		t.pos += run
	}
}

// handleFence emits a fenced-code opener carrying the info string, the raw
// body as a single Text token, and the closing fence when one exists. The
// body is not tokenized as Markdown.
func (t *tokenizer) handleFence(run int) {
	t.flushText()

	infoStart := t.pos + run
	infoEnd := infoStart
	for infoEnd < len(t.src) && t.src[infoEnd] != '\n' && !t.isSpaceOrTab(infoEnd) {
		infoEnd++
	}

	openEnd := infoEnd
	if openEnd < len(t.src) && t.src[openEnd] == '\n' {
		openEnd++ // the newline after the info string belongs to the opener
	}

	t.push(mdast.Token{
		Kind: mdast.TokTripleGrave,
		Span: mdast.Span{Start: t.pos, End: openEnd},
		Lang: t.src[infoStart:infoEnd],
	})

	idx := strings.Index(t.src[t.pos:], "```")
	if idx < 0 {
		// No closing fence: the rest of the input is code.
		if t.pos < len(t.src) {
			t.emitText(t.src[t.pos:], mdast.Span{Start: t.pos, End: len(t.src)})
			t.pos = len(t.src)
			t.start = t.pos
		}
		return
	}

	bodyEnd := t.pos + idx
	if bodyEnd > t.pos {
		t.emitText(t.src[t.pos:bodyEnd], mdast.Span{Start: t.pos, End: bodyEnd})
		t.pos = bodyEnd
		t.start = t.pos
	}
	t.push(mdast.Token{Kind: mdast.TokTripleGrave, Span: mdast.Span{Start: bodyEnd, End: bodyEnd + 3}})
}

// handleInlineCode emits an inline-code delimiter pair with its raw body
// when the closing backtick sits on the same line; otherwise the backtick
// stays in text.
func (t *tokenizer) handleInlineCode() {
	rest := t.src[t.pos+1:]
	j := strings.IndexAny(rest, "`\n")
	if j < 0 || rest[j] == '\n' {
		t.pos++
		return
	}

	t.flushText()
	t.push(mdast.Token{Kind: mdast.TokSingleGrave, Span: mdast.Span{Start: t.pos, End: t.pos + 1}})
	if j > 0 {
		t.emitText(rest[:j], mdast.Span{Start: t.pos, End: t.pos + j})
		t.pos += j
		t.start = t.pos
	}
	t.push(mdast.Token{Kind: mdast.TokSingleGrave, Span: mdast.Span{Start: t.pos, End: t.pos + 1}})
}

func (t *tokenizer) handleHyphen() {
	run := t.runLen(t.pos, '-')

	if indent, ok := t.lineIndent(); ok {
		if run >= 3 && t.restOfLineBlank(t.pos+run) {
			t.flushText()
			t.push(mdast.Token{Kind: mdast.TokTripleHyphen, Span: mdast.Span{Start: t.pos, End: t.pos + run}})
			return
		}
		if run == 1 && t.isSpaceOrTab(t.pos+1) {
			t.flushText()
			t.push(mdast.Token{
				Kind:  mdast.TokUListItem,
				Span:  mdast.Span{Start: t.pos, End: t.pos + 2},
				Level: indent,
			})
			return
		}
	}

	t.pos += run
}

func (t *tokenizer) handleEquals() {
	run := t.runLen(t.pos, '=')

	if _, ok := t.lineIndent(); ok && run >= 3 && t.restOfLineBlank(t.pos+run) {
		t.flushText()
		t.push(mdast.Token{Kind: mdast.TokTripleEquals, Span: mdast.Span{Start: t.pos, End: t.pos + run}})
		return
	}

	t.pos += run
}

func (t *tokenizer) handleDigit() {
	if indent, ok := t.lineIndent(); ok {
		j := t.pos
		for j < len(t.src) && t.src[j] >= '0' && t.src[j] <= '9' {
			j++
		}
		if j < len(t.src) && t.src[j] == '.' && t.isSpaceOrTab(j+1) {
			t.flushText()
			t.push(mdast.Token{
				Kind:  mdast.TokOListItem,
				Span:  mdast.Span{Start: t.pos, End: j + 2}, // digits, dot, one space
				Level: indent,
			})
			return
		}
	}

	t.pos++
}

func (t *tokenizer) handleBang() {
	if t.pos+1 < len(t.src) && t.src[t.pos+1] == '[' && t.bracketCloses(t.pos+2) {
		t.flushText()
		t.push(mdast.Token{Kind: mdast.TokImageStart, Span: mdast.Span{Start: t.pos, End: t.pos + 2}})
		return
	}
	t.pos++
}

func (t *tokenizer) handleBracketOpen() {
	if t.pos+1 < len(t.src) && t.src[t.pos+1] == '^' {
		if t.handleFootnote() {
			return
		}
	}

	if t.bracketCloses(t.pos + 1) {
		t.flushText()
		t.push(mdast.Token{Kind: mdast.TokLinkStart, Span: mdast.Span{Start: t.pos, End: t.pos + 1}})
		return
	}
	t.pos++
}

// handleFootnote scans "[^ref]" and "[^ref]:" forms. Returns false when
// the bracket never closes on this line, leaving the '[' to text.
func (t *tokenizer) handleFootnote() bool {
	refStart := t.pos + 2
	refEnd := refStart
	for refEnd < len(t.src) && t.src[refEnd] != ']' && t.src[refEnd] != '\n' {
		refEnd++
	}
	if refEnd >= len(t.src) || t.src[refEnd] != ']' {
		return false
	}

	ref := t.src[refStart:refEnd]
	_, atLineStart := t.lineIndent()

	if atLineStart && refEnd+1 < len(t.src) && t.src[refEnd+1] == ':' {
		t.flushText()
		t.push(mdast.Token{
			Kind: mdast.TokFootnoteDef,
			Span: mdast.Span{Start: t.pos, End: refEnd + 2},
			Text: ref,
		})
		return true
	}

	t.flushText()
	t.push(mdast.Token{
		Kind: mdast.TokFootnoteRef,
		Span: mdast.Span{Start: t.pos, End: refEnd + 1},
		Text: ref,
	})
	return true
}

func (t *tokenizer) handleBracketClose() {
	if t.pos+1 >= len(t.src) || t.src[t.pos+1] != '(' {
		t.pos++
		return
	}

	t.flushText()
	t.push(mdast.Token{Kind: mdast.TokLinkInterstice, Span: mdast.Span{Start: t.pos, End: t.pos + 2}})
	t.scanLinkURI()
}

// scanLinkURI scans the URI body after "](", handling "<...>" bracketed
// URIs (which may contain parentheses). Emits nothing for an empty URI.
func (t *tokenizer) scanLinkURI() {
	if t.pos < len(t.src) && t.src[t.pos] == '<' {
		if j := strings.IndexByte(t.src[t.pos+1:], '>'); j >= 0 {
			uri := t.src[t.pos+1 : t.pos+1+j]
			t.push(mdast.Token{
				Kind: mdast.TokLinkURI,
				Span: mdast.Span{Start: t.pos, End: t.pos + j + 2},
				Text: uri,
			})
			return
		}
	}

	end := t.pos
	for end < len(t.src) && t.src[end] != ')' && t.src[end] != '\n' {
		end++
	}
	if end == t.pos {
		return
	}

	t.push(mdast.Token{
		Kind: mdast.TokLinkURI,
		Span: mdast.Span{Start: t.pos, End: end},
		Text: t.src[t.pos:end],
	})
}

func (t *tokenizer) handleParenClose() {
	if !t.openLink() {
		t.pos++
		return
	}

	t.flushText()
	t.push(mdast.Token{Kind: mdast.TokLinkEnd, Span: mdast.Span{Start: t.pos, End: t.pos + 1}})
}

// prevIsWordByte reports whether the byte just before the current position
// is a word character. The scratch always ends at pos, so this inspects
// the raw source.
func (t *tokenizer) prevIsWordByte() bool {
	if t.pos == 0 {
		return false
	}
	r, _ := utf8.DecodeLastRuneInString(t.src[:t.pos])
	return isWordRune(r)
}

func (t *tokenizer) nextIsWordByte(offset int) bool {
	if offset >= len(t.src) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(t.src[offset:])
	return isWordRune(r)
}

// isWordRune follows the dialect's word definition: Unicode letters and
// digits plus '-' and '_'.
func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_'
}

func isBlankString(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] != ' ' && s[i] != '\t' {
			return false
		}
	}
	return true
}
