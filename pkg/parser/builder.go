package parser

import (
	"strings"

	"github.com/WarpspeedSCP/wscpublish/pkg/mdast"
)

// maxNestingDepth bounds the slice recursion so pathological nesting fails
// cleanly instead of exhausting the stack.
const maxNestingDepth = 4096

// treeBuilder consumes a token stream in a single left-to-right pass and
// produces the node forest for one nesting level. Nested constructs
// (emphasis bodies, list items, HTML elements) recurse on token slices.
type treeBuilder struct {
	tokens []mdast.Token
	spans  *mdast.SpanMap
	pos    int
	output []*mdast.Node

	// currList is the currently-open list or quote at this level.
	currList *mdast.Node

	// prevNewline tracks newline adjacency for paragraph inference.
	prevNewline bool

	depth int
}

// buildTree parses a token stream into a node forest.
func buildTree(tokens []mdast.Token, spans *mdast.SpanMap, depth int) ([]*mdast.Node, error) {
	if depth > maxNestingDepth {
		return nil, &ParseError{Kind: ErrKindInternal, Msg: "nesting depth limit exceeded"}
	}

	b := &treeBuilder{tokens: tokens, spans: spans, depth: depth}
	for b.pos < len(b.tokens) {
		if err := b.next(); err != nil {
			return nil, err
		}
	}
	b.closeList()

	return b.output, nil
}

// parseSlice recursively parses a sub-run of tokens.
func (b *treeBuilder) parseSlice(tokens []mdast.Token) ([]*mdast.Node, error) {
	return buildTree(tokens, b.spans, b.depth+1)
}

// next applies the rule for the token at the current position.
func (b *treeBuilder) next() error {
	tok := b.tokens[b.pos]
	if tok.Kind != mdast.TokNewline {
		b.prevNewline = false
	}

	switch tok.Kind {
	case mdast.TokText:
		b.text(tok)
	case mdast.TokEscape:
		b.pushText(tok.Text)
		b.pos++
	case mdast.TokNewline:
		b.newline()
	case mdast.TokLineBreak, mdast.TokTripleUnderscore:
		b.push(mdast.NewNode(mdast.NodeInlineLineBreak))
		b.pos++
	case mdast.TokTripleHyphen, mdast.TokTripleEquals:
		b.push(mdast.NewNode(mdast.NodeHorizontalRule))
		b.pos++
	case mdast.TokHeading:
		return b.heading(tok)
	case mdast.TokSingleAsterisk, mdast.TokSingleUnderscore:
		return b.emphasis(tok, singleDelims, mdast.NodeItalic, mdast.TokDoubleAsterisk)
	case mdast.TokDoubleAsterisk:
		return b.emphasis(tok, []mdast.TokenKind{mdast.TokDoubleAsterisk}, mdast.NodeBold, mdast.TokSingleAsterisk)
	case mdast.TokDoubleUnderscore:
		return b.emphasis(tok, []mdast.TokenKind{mdast.TokDoubleUnderscore}, mdast.NodeUnderline, 0)
	case mdast.TokDoubleTilde:
		return b.emphasis(tok, []mdast.TokenKind{mdast.TokDoubleTilde}, mdast.NodeStrikethrough, 0)
	case mdast.TokTripleAsterisk:
		return b.tripleEmphasis()
	case mdast.TokSingleGrave:
		return b.inlineCode(tok)
	case mdast.TokTripleGrave:
		return b.fencedCode(tok)
	case mdast.TokLinkStart, mdast.TokImageStart:
		return b.link(tok)
	case mdast.TokUListItem, mdast.TokOListItem, mdast.TokBlockQuote:
		return b.listItem(tok)
	case mdast.TokHTMLOpenTag:
		return b.htmlElement(tok)
	case mdast.TokScriptTag:
		b.push(mdast.NewCustomScript(tok.Body, tok.Attrs))
		b.pos++
	case mdast.TokHTMLCloseTag, mdast.TokLinkInterstice, mdast.TokLinkURI, mdast.TokLinkEnd,
		mdast.TokFootnoteRef, mdast.TokFootnoteDef:
		// Out of position (or, for footnotes, unsupported downstream):
		// keep the source text.
		b.pushText(tokenLiteral(tok))
		b.pos++
	case mdast.TokEOF:
		b.pos++
	default:
		internalPanic(b.spans, tok, "unhandled token kind")
	}

	return nil
}

// singleDelims close each other: '*' and '_' are interchangeable italic
// delimiters in this dialect.
var singleDelims = []mdast.TokenKind{mdast.TokSingleAsterisk, mdast.TokSingleUnderscore}

func (b *treeBuilder) text(tok mdast.Token) {
	// Blank text immediately before a list-item token is indentation,
	// not content.
	if tok.IsBlank() && b.pos+1 < len(b.tokens) && b.tokens[b.pos+1].IsListItem() {
		b.pos++
		return
	}
	b.pushText(tok.Text)
	b.pos++
}

// newline handles single newlines (soft, folded into running text) and
// the double-newline block boundary that triggers paragraph inference.
func (b *treeBuilder) newline() {
	b.pos++

	if b.prevNewline {
		b.inferParagraph()
		return
	}
	b.prevNewline = true

	// A soft newline keeps flowing text together across lines.
	if b.pos < len(b.tokens) {
		next := b.tokens[b.pos]
		if next.Kind == mdast.TokText && !next.IsBlank() {
			if n := len(b.output); n > 0 && b.output[n-1].Kind == mdast.NodeText {
				b.output[n-1].Text += "\n"
			}
		}
	}
}

// inferParagraph walks back over the recently pushed nodes, popping
// consecutive inline nodes into a fresh Paragraph. A run that is empty or
// all-blank becomes a LineBreak separator instead.
func (b *treeBuilder) inferParagraph() {
	i := len(b.output)
	for i > 0 && b.output[i-1].IsInline() {
		i--
	}
	popped := b.output[i:]

	blankRun := true
	for _, n := range popped {
		if n.Kind != mdast.NodeText || strings.TrimSpace(n.Text) != "" {
			blankRun = false
			break
		}
	}

	if blankRun {
		b.output = append(b.output[:i], mdast.NewNode(mdast.NodeLineBreak))
		return
	}

	para := mdast.NewNode(mdast.NodeParagraph)
	mdast.AppendChildren(para, popped)
	b.output = append(b.output[:i], para)
}

func (b *treeBuilder) heading(tok mdast.Token) error {
	end := b.pos + 1
	for end < len(b.tokens) && b.tokens[end].Kind != mdast.TokNewline && b.tokens[end].Kind != mdast.TokEOF {
		end++
	}

	inner, err := b.parseSlice(b.tokens[b.pos+1 : end])
	if err != nil {
		return err
	}

	h := mdast.NewHeading(tok.Level)
	mdast.AppendChildren(h, inner)
	b.push(h)
	b.pos = end
	return nil
}

// emphasis pairs a one- or two-character delimiter with its closer and
// wraps the inner run. A TripleAsterisk closer closes this span and leaves
// the rest of itself behind as a synthesized token. Unpaired delimiters
// degrade to their source text.
func (b *treeBuilder) emphasis(tok mdast.Token, closers []mdast.TokenKind, kind mdast.NodeKind, synth mdast.TokenKind) error {
	allowTriple := synth != 0
	closeIdx := b.findCloser(b.pos+1, closers, allowTriple)
	if closeIdx < 0 {
		b.pushText(tokenLiteral(tok))
		b.pos++
		return nil
	}

	inner, err := b.parseSlice(b.tokens[b.pos+1 : closeIdx])
	if err != nil {
		return err
	}

	node := mdast.NewNode(kind)
	mdast.AppendChildren(node, inner)
	b.push(node)

	if b.tokens[closeIdx].Kind == mdast.TokTripleAsterisk {
		// The triple both closes this span and opens the complement:
		// rewrite it in place and reprocess.
		span := b.tokens[closeIdx].Span
		b.tokens[closeIdx] = mdast.Token{Kind: synth, Span: mdast.Span{Start: span.Start, End: span.End}}
		b.pos = closeIdx
		return nil
	}

	b.pos = closeIdx + 1
	return nil
}

// tripleEmphasis resolves a '***' opener by looking ahead for whichever
// closing delimiter comes first.
func (b *treeBuilder) tripleEmphasis() error {
	all := []mdast.TokenKind{
		mdast.TokSingleAsterisk, mdast.TokSingleUnderscore,
		mdast.TokDoubleAsterisk, mdast.TokTripleAsterisk,
	}
	first := b.findCloser(b.pos+1, all, false)

	if first < 0 {
		// Neither delimiter closes before the block ends: the remainder is
		// bold-and-italic. Unusual input, intentional fallback.
		inner, err := b.parseSlice(b.tokens[b.pos+1:])
		if err != nil {
			return err
		}
		b.push(wrapBoldItalic(inner))
		b.pos = len(b.tokens)
		return nil
	}

	switch b.tokens[first].Kind {
	case mdast.TokTripleAsterisk:
		inner, err := b.parseSlice(b.tokens[b.pos+1 : first])
		if err != nil {
			return err
		}
		b.push(wrapBoldItalic(inner))
		b.pos = first + 1
		return nil

	case mdast.TokSingleAsterisk, mdast.TokSingleUnderscore:
		// Italic closes first: bold outer, italic inner.
		return b.tripleSplit(first, mdast.NodeItalic, mdast.NodeBold,
			[]mdast.TokenKind{mdast.TokDoubleAsterisk}, mdast.TokSingleAsterisk)

	case mdast.TokDoubleAsterisk:
		// Bold closes first: italic outer, bold inner.
		return b.tripleSplit(first, mdast.NodeBold, mdast.NodeItalic,
			singleDelims, mdast.TokDoubleAsterisk)

	default:
		internalPanic(b.spans, b.tokens[first], "impossible triple-asterisk closer")
		return nil
	}
}

// tripleSplit builds outer(inner(head) + tail) for a '***' opener whose
// inner span closed at index first.
func (b *treeBuilder) tripleSplit(first int, innerKind, outerKind mdast.NodeKind, outerClosers []mdast.TokenKind, synth mdast.TokenKind) error {
	head, err := b.parseSlice(b.tokens[b.pos+1 : first])
	if err != nil {
		return err
	}
	innerNode := mdast.NewNode(innerKind)
	mdast.AppendChildren(innerNode, head)

	outerClose := b.findCloser(first+1, outerClosers, true)
	tailEnd := len(b.tokens)
	if outerClose >= 0 {
		tailEnd = outerClose
	}

	tail, err := b.parseSlice(b.tokens[first+1 : tailEnd])
	if err != nil {
		return err
	}

	outerNode := mdast.NewNode(outerKind)
	mdast.AppendChild(outerNode, innerNode)
	mdast.AppendChildren(outerNode, tail)
	b.push(outerNode)

	if outerClose >= 0 && b.tokens[outerClose].Kind == mdast.TokTripleAsterisk {
		span := b.tokens[outerClose].Span
		b.tokens[outerClose] = mdast.Token{Kind: synth, Span: span}
		b.pos = outerClose
		return nil
	}

	if outerClose >= 0 {
		b.pos = outerClose + 1
	} else {
		b.pos = tailEnd
	}
	return nil
}

func wrapBoldItalic(inner []*mdast.Node) *mdast.Node {
	italic := mdast.NewNode(mdast.NodeItalic)
	mdast.AppendChildren(italic, inner)
	bold := mdast.NewNode(mdast.NodeBold)
	mdast.AppendChild(bold, italic)
	return bold
}

// findCloser scans forward for the first of the given kinds, skipping
// across link runs, which bind tighter than emphasis.
func (b *treeBuilder) findCloser(from int, kinds []mdast.TokenKind, allowTriple bool) int {
	for i := from; i < len(b.tokens); i++ {
		tok := b.tokens[i]

		if tok.Kind == mdast.TokLinkStart || tok.Kind == mdast.TokImageStart {
			if end := b.findKind(i+1, mdast.TokLinkEnd); end >= 0 {
				i = end
				continue
			}
		}

		if allowTriple && tok.Kind == mdast.TokTripleAsterisk {
			return i
		}
		for _, k := range kinds {
			if tok.Kind == k {
				return i
			}
		}
	}
	return -1
}

func (b *treeBuilder) findKind(from int, kind mdast.TokenKind) int {
	for i := from; i < len(b.tokens); i++ {
		if b.tokens[i].Kind == kind {
			return i
		}
	}
	return -1
}

func (b *treeBuilder) inlineCode(tok mdast.Token) error {
	closeIdx := b.findKind(b.pos+1, mdast.TokSingleGrave)
	if closeIdx < 0 {
		b.pushText(tokenLiteral(tok))
		b.pos++
		return nil
	}

	inner, err := b.parseSlice(b.tokens[b.pos+1 : closeIdx])
	if err != nil {
		return err
	}

	node := mdast.NewNode(mdast.NodeCode)
	node.Lang = tok.Lang
	mdast.AppendChildren(node, inner)
	b.push(node)
	b.pos = closeIdx + 1
	return nil
}

func (b *treeBuilder) fencedCode(tok mdast.Token) error {
	closeIdx := b.findKind(b.pos+1, mdast.TokTripleGrave)
	end := closeIdx
	if end < 0 {
		end = len(b.tokens)
	}

	inner, err := b.parseSlice(b.tokens[b.pos+1 : end])
	if err != nil {
		return err
	}

	node := mdast.NewNode(mdast.NodeMultilineCode)
	node.Lang = tok.Lang
	mdast.AppendChildren(node, inner)
	b.push(node)

	if closeIdx >= 0 {
		b.pos = closeIdx + 1
	} else {
		b.pos = end
	}
	return nil
}

// link builds Link and Image nodes from a LinkStart/ImageStart run. The
// description sits before the interstice, the first LinkURI is the
// destination. A run without LinkEnd degrades to text.
func (b *treeBuilder) link(tok mdast.Token) error {
	end := b.findKind(b.pos+1, mdast.TokLinkEnd)
	if end < 0 {
		b.pushText(tokenLiteral(tok))
		b.pos++
		return nil
	}

	run := b.tokens[b.pos+1 : end]

	descEnd := len(run)
	var uri *string
	for i, t := range run {
		if t.Kind == mdast.TokLinkInterstice && descEnd == len(run) {
			descEnd = i
		}
		if t.Kind == mdast.TokLinkURI && uri == nil {
			text := t.Text
			uri = &text
		}
	}

	if tok.Kind == mdast.TokImageStart {
		node := mdast.NewNode(mdast.NodeImage)
		node.Alt = flattenTokens(run[:descEnd])
		node.URI = uri
		b.push(node)
	} else {
		inner, err := b.parseSlice(run[:descEnd])
		if err != nil {
			return err
		}
		node := mdast.NewNode(mdast.NodeLink)
		node.URI = uri
		mdast.AppendChildren(node, inner)
		b.push(node)
	}

	b.pos = end + 1
	return nil
}

// htmlElement builds a CustomHTML node, pairing the open tag with its
// close while tracking nesting depth for same-named tags.
func (b *treeBuilder) htmlElement(tok mdast.Token) error {
	if tok.SelfClosing {
		b.push(mdast.NewCustomHTML(tok.Name, tok.Attrs))
		b.pos++
		return nil
	}

	depth := 0
	match := -1
	for i := b.pos + 1; i < len(b.tokens); i++ {
		t := b.tokens[i]
		switch {
		case t.Kind == mdast.TokHTMLOpenTag && !t.SelfClosing && strings.EqualFold(t.Name, tok.Name):
			depth++
		case t.Kind == mdast.TokHTMLCloseTag && strings.EqualFold(t.Name, tok.Name):
			if depth == 0 {
				match = i
			} else {
				depth--
			}
		}
		if match >= 0 {
			break
		}
	}

	if match < 0 {
		return newParseError(ErrKindUnclosedHTMLTag, b.spans, tok.Span,
			"unclosed <"+tok.Name+"> tag")
	}

	inner, err := b.parseSlice(b.tokens[b.pos+1 : match])
	if err != nil {
		return err
	}

	node := mdast.NewCustomHTML(tok.Name, tok.Attrs)
	mdast.AppendChildren(node, inner)
	b.push(node)
	b.pos = match + 1
	return nil
}

func (b *treeBuilder) push(n *mdast.Node) {
	b.output = append(b.output, n)
}

// pushText appends text, merging with a trailing Text node.
func (b *treeBuilder) pushText(s string) {
	if s == "" {
		return
	}
	if n := len(b.output); n > 0 && b.output[n-1].Kind == mdast.NodeText {
		b.output[n-1].Text += s
		return
	}
	b.push(mdast.NewText(s))
}

// flattenTokens reduces a token run to its plain text, for image alt text.
func flattenTokens(tokens []mdast.Token) string {
	var sb strings.Builder
	for _, tok := range tokens {
		sb.WriteString(tokenLiteral(tok))
	}
	return sb.String()
}

// tokenLiteral reconstructs the source spelling of a token, used when a
// delimiter degrades back to plain text.
func tokenLiteral(tok mdast.Token) string {
	switch tok.Kind {
	case mdast.TokText, mdast.TokEscape, mdast.TokLinkURI:
		return tok.Text
	case mdast.TokNewline:
		return "\n"
	case mdast.TokSingleAsterisk:
		return "*"
	case mdast.TokDoubleAsterisk:
		return "**"
	case mdast.TokTripleAsterisk:
		return "***"
	case mdast.TokSingleUnderscore:
		return "_"
	case mdast.TokDoubleUnderscore:
		return "__"
	case mdast.TokTripleUnderscore:
		return "___"
	case mdast.TokDoubleTilde:
		return "~~"
	case mdast.TokSingleGrave:
		return "`"
	case mdast.TokTripleGrave:
		return "```" + tok.Lang
	case mdast.TokTripleHyphen:
		return "---"
	case mdast.TokTripleEquals:
		return "==="
	case mdast.TokHeading:
		return strings.Repeat("#", tok.Level) + " "
	case mdast.TokLinkStart:
		return "["
	case mdast.TokImageStart:
		return "!["
	case mdast.TokLinkInterstice:
		return "]("
	case mdast.TokLinkEnd:
		return ")"
	case mdast.TokHTMLCloseTag:
		return "</" + tok.Name + ">"
	case mdast.TokFootnoteRef:
		return "[^" + tok.Text + "]"
	case mdast.TokFootnoteDef:
		return "[^" + tok.Text + "]:"
	default:
		return ""
	}
}
