package parser

import "github.com/WarpspeedSCP/wscpublish/pkg/mdast"

// listItem handles UListItem, OListItem, and BlockQuote tokens: it
// collects the item's token run, parses it recursively, and folds the
// result into the currently-open list or quote.
func (b *treeBuilder) listItem(tok mdast.Token) error {
	slice, atEnd := b.collectListTokens(tok)

	items, err := b.parseSlice(slice)
	if err != nil {
		return err
	}

	kind := listNodeKind(tok)

	for {
		switch {
		case b.currList == nil:
			b.currList = &mdast.Node{Kind: kind, Level: tok.Level}
			b.appendItem(items, true)
		case b.currList.Kind == kind && b.currList.Level <= tok.Level:
			// Same list, or a deeper item whose recursive parse already
			// produced the nested list.
			b.appendItem(items, false)
		default:
			// Different kind or shallower level: close and re-dispatch.
			b.closeList()
			continue
		}
		break
	}

	if atEnd {
		b.closeList()
	}
	return nil
}

func listNodeKind(tok mdast.Token) mdast.NodeKind {
	switch tok.Kind {
	case mdast.TokUListItem:
		return mdast.NodeUList
	case mdast.TokOListItem:
		return mdast.NodeOList
	default:
		return mdast.NodeQuote
	}
}

// collectListTokens captures the tokens belonging to the item at the
// current position. Collection stops at a blank line (or end of input),
// or at the next item marker of equal or shallower level. Trailing
// newlines are trimmed from the slice — the item ends at its newline —
// and any run of newlines at the stop point is consumed greedily.
//
// atEnd reports that the list terminated (rather than a sibling item
// following).
func (b *treeBuilder) collectListTokens(item mdast.Token) (slice []mdast.Token, atEnd bool) {
	i := b.pos + 1
	atEnd = true

	for i < len(b.tokens) {
		tok := b.tokens[i]
		if tok.Kind == mdast.TokEOF {
			break
		}
		if tok.Kind == mdast.TokNewline && b.newlineEndsBlock(i) {
			break
		}
		if tok.IsListItem() && tok.Level <= item.Level {
			atEnd = false
			break
		}
		i++
	}

	end := i
	for end > b.pos+1 && b.tokens[end-1].Kind == mdast.TokNewline {
		end--
	}
	slice = b.tokens[b.pos+1 : end]

	b.pos = i
	for b.pos < len(b.tokens) && b.tokens[b.pos].Kind == mdast.TokNewline {
		b.pos++
	}

	return slice, atEnd
}

// newlineEndsBlock reports whether the newline at index i is followed by
// another newline or EOF.
func (b *treeBuilder) newlineEndsBlock(i int) bool {
	if i+1 >= len(b.tokens) {
		return true
	}
	switch b.tokens[i+1].Kind {
	case mdast.TokNewline, mdast.TokEOF:
		return true
	default:
		return false
	}
}

// appendItem adds parsed item content to the open container. List items
// wrap in ListItem; a quote's first item wraps in a Paragraph and later
// same-level runs append as further items.
func (b *treeBuilder) appendItem(items []*mdast.Node, first bool) {
	if b.currList.Kind == mdast.NodeQuote {
		if first {
			para := mdast.NewNode(mdast.NodeParagraph)
			mdast.AppendChildren(para, items)
			mdast.AppendChild(b.currList, para)
			return
		}
		mdast.AppendChildren(b.currList, items)
		return
	}

	li := mdast.NewNode(mdast.NodeListItem)
	mdast.AppendChildren(li, items)
	mdast.AppendChild(b.currList, li)
}

// closeList pushes the open list, if any, onto the output.
func (b *treeBuilder) closeList() {
	if b.currList == nil {
		return
	}
	b.output = append(b.output, b.currList)
	b.currList = nil
}
