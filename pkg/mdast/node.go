package mdast

import "strings"

// NodeKind classifies the type of a document node.
type NodeKind uint16

// Node kinds for block-level and inline-level elements.
const (
	// Inline-level nodes.
	NodeText NodeKind = iota
	NodeInlineLineBreak
	NodeBold
	NodeItalic
	NodeStrikethrough
	NodeUnderline
	NodeCode
	NodeLink
	NodeImage

	// Block-level nodes.
	NodeParagraph
	NodeHeading
	NodeHorizontalRule
	NodeLineBreak // paragraph separator
	NodeDiv
	NodeMultilineCode
	NodeListItem
	NodeUList
	NodeOList
	NodeQuote
	NodeCustomHTML
	NodeCustomScript
)

var nodeKindNames = map[NodeKind]string{
	NodeText:            "Text",
	NodeInlineLineBreak: "InlineLineBreak",
	NodeBold:            "Bold",
	NodeItalic:          "Italic",
	NodeStrikethrough:   "Strikethrough",
	NodeUnderline:       "Underline",
	NodeCode:            "Code",
	NodeLink:            "Link",
	NodeImage:           "Image",
	NodeParagraph:       "Paragraph",
	NodeHeading:         "Heading",
	NodeHorizontalRule:  "HorizontalRule",
	NodeLineBreak:       "LineBreak",
	NodeDiv:             "Div",
	NodeMultilineCode:   "MultilineCode",
	NodeListItem:        "ListItem",
	NodeUList:           "UList",
	NodeOList:           "OList",
	NodeQuote:           "Quote",
	NodeCustomHTML:      "CustomHTML",
	NodeCustomScript:    "CustomScript",
}

// String returns a human-readable name for the node kind.
func (k NodeKind) String() string {
	if name, ok := nodeKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// TagName is a closed enumeration of HTML tag names the renderer knows
// about, with TagOther as the open-ended fallback.
type TagName uint8

// Known tag names.
const (
	TagOther TagName = iota
	TagDiv
	TagSpan
	TagP
	TagA
	TagImg
	TagBr
	TagHr
	TagTable
	TagDetails
	TagSummary
	TagVideo
	TagAudio
	TagIframe
	TagScript
)

var tagNames = map[string]TagName{
	"div":     TagDiv,
	"span":    TagSpan,
	"p":       TagP,
	"a":       TagA,
	"img":     TagImg,
	"br":      TagBr,
	"hr":      TagHr,
	"table":   TagTable,
	"details": TagDetails,
	"summary": TagSummary,
	"video":   TagVideo,
	"audio":   TagAudio,
	"iframe":  TagIframe,
	"script":  TagScript,
}

// KnownTag resolves a tag-name string to the closed enumeration.
// Unrecognized names map to TagOther.
func KnownTag(name string) TagName {
	if tag, ok := tagNames[strings.ToLower(name)]; ok {
		return tag
	}
	return TagOther
}

// IsVoid returns true for tags that never carry children and render as a
// single self-contained form.
func (t TagName) IsVoid() bool {
	switch t {
	case TagImg, TagBr, TagHr:
		return true
	default:
		return false
	}
}

// Node is a single node in the document tree. Nodes form a pure tree with
// parent/child/sibling links; the parent owns its children. Once returned
// by the tree builder a node must be treated as immutable.
type Node struct {
	// Kind identifies what type of node this is.
	Kind NodeKind

	// Tree structure pointers.
	Parent     *Node
	FirstChild *Node
	LastChild  *Node
	Prev       *Node
	Next       *Node

	// Text holds the content for NodeText and the raw body for
	// NodeCustomScript.
	Text string

	// Level holds the heading level for NodeHeading, the indent columns
	// for NodeUList / NodeOList, and the '>' depth for NodeQuote.
	Level int

	// Lang holds the language for NodeCode / NodeMultilineCode ("" when
	// none was given).
	Lang string

	// URI holds the destination for NodeLink / NodeImage. nil when the
	// source had no URI part.
	URI *string

	// Alt holds the flattened alt text for NodeImage.
	Alt string

	// Tag and TagLiteral identify a NodeCustomHTML element: Tag is the
	// closed enumeration the renderer dispatches on, TagLiteral the
	// original source spelling.
	Tag        TagName
	TagLiteral string

	// Attrs holds ordered attributes for NodeCustomHTML / NodeCustomScript.
	Attrs []Attr
}

// NewNode creates a detached node of the given kind.
func NewNode(kind NodeKind) *Node {
	return &Node{Kind: kind}
}

// NewText creates a text node.
func NewText(text string) *Node {
	return &Node{Kind: NodeText, Text: text}
}

// NewHeading creates a heading node of the given level (1-6).
func NewHeading(level int) *Node {
	return &Node{Kind: NodeHeading, Level: level}
}

// NewCustomHTML creates a raw HTML element node.
func NewCustomHTML(tag string, attrs []Attr) *Node {
	return &Node{
		Kind:       NodeCustomHTML,
		Tag:        KnownTag(tag),
		TagLiteral: tag,
		Attrs:      attrs,
	}
}

// NewCustomScript creates a script passthrough node.
func NewCustomScript(body string, attrs []Attr) *Node {
	return &Node{Kind: NodeCustomScript, Text: body, Attrs: attrs}
}

// IsBlock returns true if this is a block-level node.
func (n *Node) IsBlock() bool {
	return !n.IsInline()
}

// IsInline returns true if this is an inline-level node.
// Inline nodes are the ones paragraph inference may claim.
func (n *Node) IsInline() bool {
	switch n.Kind {
	case NodeText, NodeInlineLineBreak, NodeBold, NodeItalic,
		NodeStrikethrough, NodeUnderline, NodeCode, NodeLink:
		return true
	default:
		return false
	}
}

// HasChildren returns true if this node has any children.
func (n *Node) HasChildren() bool {
	return n.FirstChild != nil
}

// ChildCount returns the number of direct children.
func (n *Node) ChildCount() int {
	count := 0
	for child := n.FirstChild; child != nil; child = child.Next {
		count++
	}
	return count
}

// Children returns a slice of all direct children.
func (n *Node) Children() []*Node {
	var children []*Node
	for child := n.FirstChild; child != nil; child = child.Next {
		children = append(children, child)
	}
	return children
}

// PlainText flattens the node and its descendants to their text content,
// dropping all markup.
func (n *Node) PlainText() string {
	var sb strings.Builder
	//nolint:errcheck // the collector never fails
	Walk(n, func(node *Node) error {
		if node.Kind == NodeText {
			sb.WriteString(node.Text)
		}
		return nil
	})
	return sb.String()
}
