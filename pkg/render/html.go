// Package render walks a document tree and emits HTML.
//
// The contract per node is: reopen the node's tag, emit children in
// order, close the tag. Void tags (hr, br, img) emit a single
// self-contained form. Custom HTML preserves attribute order and
// value-less attributes.
package render

import (
	"fmt"
	"html"
	"io"

	"github.com/WarpspeedSCP/wscpublish/pkg/langdetect"
	"github.com/WarpspeedSCP/wscpublish/pkg/mdast"
)

// Renderer is the visitor the tree walk dispatches on: one method per
// node kind, each taking the current output sink. Implementations render
// their own children (via RenderNode) so they control interleaving.
type Renderer interface {
	Text(n *mdast.Node, w io.Writer) error
	InlineLineBreak(n *mdast.Node, w io.Writer) error
	Bold(n *mdast.Node, w io.Writer) error
	Italic(n *mdast.Node, w io.Writer) error
	Strikethrough(n *mdast.Node, w io.Writer) error
	Underline(n *mdast.Node, w io.Writer) error
	Code(n *mdast.Node, w io.Writer) error
	Link(n *mdast.Node, w io.Writer) error
	Image(n *mdast.Node, w io.Writer) error
	Paragraph(n *mdast.Node, w io.Writer) error
	Heading(n *mdast.Node, w io.Writer) error
	HorizontalRule(n *mdast.Node, w io.Writer) error
	LineBreak(n *mdast.Node, w io.Writer) error
	Div(n *mdast.Node, w io.Writer) error
	MultilineCode(n *mdast.Node, w io.Writer) error
	ListItem(n *mdast.Node, w io.Writer) error
	UList(n *mdast.Node, w io.Writer) error
	OList(n *mdast.Node, w io.Writer) error
	Quote(n *mdast.Node, w io.Writer) error
	CustomHTML(n *mdast.Node, w io.Writer) error
	CustomScript(n *mdast.Node, w io.Writer) error
}

// RenderNode dispatches a single node to the matching visitor method.
func RenderNode(r Renderer, n *mdast.Node, w io.Writer) error {
	switch n.Kind {
	case mdast.NodeText:
		return r.Text(n, w)
	case mdast.NodeInlineLineBreak:
		return r.InlineLineBreak(n, w)
	case mdast.NodeBold:
		return r.Bold(n, w)
	case mdast.NodeItalic:
		return r.Italic(n, w)
	case mdast.NodeStrikethrough:
		return r.Strikethrough(n, w)
	case mdast.NodeUnderline:
		return r.Underline(n, w)
	case mdast.NodeCode:
		return r.Code(n, w)
	case mdast.NodeLink:
		return r.Link(n, w)
	case mdast.NodeImage:
		return r.Image(n, w)
	case mdast.NodeParagraph:
		return r.Paragraph(n, w)
	case mdast.NodeHeading:
		return r.Heading(n, w)
	case mdast.NodeHorizontalRule:
		return r.HorizontalRule(n, w)
	case mdast.NodeLineBreak:
		return r.LineBreak(n, w)
	case mdast.NodeDiv:
		return r.Div(n, w)
	case mdast.NodeMultilineCode:
		return r.MultilineCode(n, w)
	case mdast.NodeListItem:
		return r.ListItem(n, w)
	case mdast.NodeUList:
		return r.UList(n, w)
	case mdast.NodeOList:
		return r.OList(n, w)
	case mdast.NodeQuote:
		return r.Quote(n, w)
	case mdast.NodeCustomHTML:
		return r.CustomHTML(n, w)
	case mdast.NodeCustomScript:
		return r.CustomScript(n, w)
	default:
		return fmt.Errorf("render: unknown node kind %d", n.Kind)
	}
}

// Render walks a node forest depth-first through the visitor.
func Render(r Renderer, nodes []*mdast.Node, w io.Writer) error {
	for _, n := range nodes {
		if err := RenderNode(r, n, w); err != nil {
			return err
		}
	}
	return nil
}

// Options configures HTML rendering.
type Options struct {
	// DetectLanguage classifies unlabeled fenced code blocks from their
	// content so they still get a lang-* class.
	DetectLanguage bool
}

// HTML renders a node forest as HTML with default options.
func HTML(nodes []*mdast.Node, w io.Writer) error {
	return Render(NewHTMLRenderer(Options{}), nodes, w)
}

// HTMLRenderer emits HTML per the dialect's node mapping.
type HTMLRenderer struct {
	opts Options
}

// NewHTMLRenderer creates an HTML renderer with the given options.
func NewHTMLRenderer(opts Options) *HTMLRenderer {
	return &HTMLRenderer{opts: opts}
}

func (r *HTMLRenderer) wrap(n *mdast.Node, w io.Writer, tag string) error {
	if _, err := fmt.Fprintf(w, "<%s>", tag); err != nil {
		return err
	}
	if err := Render(r, n.Children(), w); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "</%s>", tag)
	return err
}

// Text writes escaped text content.
func (r *HTMLRenderer) Text(n *mdast.Node, w io.Writer) error {
	_, err := io.WriteString(w, html.EscapeString(n.Text))
	return err
}

// InlineLineBreak writes a <br>.
func (r *HTMLRenderer) InlineLineBreak(_ *mdast.Node, w io.Writer) error {
	_, err := io.WriteString(w, "<br>")
	return err
}

// Bold writes a <strong> element.
func (r *HTMLRenderer) Bold(n *mdast.Node, w io.Writer) error {
	return r.wrap(n, w, "strong")
}

// Italic writes an <em> element.
func (r *HTMLRenderer) Italic(n *mdast.Node, w io.Writer) error {
	return r.wrap(n, w, "em")
}

// Strikethrough writes an <s> element.
func (r *HTMLRenderer) Strikethrough(n *mdast.Node, w io.Writer) error {
	return r.wrap(n, w, "s")
}

// Underline writes a <u> element.
func (r *HTMLRenderer) Underline(n *mdast.Node, w io.Writer) error {
	return r.wrap(n, w, "u")
}

// Code writes an inline <code> element.
func (r *HTMLRenderer) Code(n *mdast.Node, w io.Writer) error {
	return r.wrap(n, w, "code")
}

// Link writes an <a> element; links without a destination omit href.
func (r *HTMLRenderer) Link(n *mdast.Node, w io.Writer) error {
	var err error
	if n.URI != nil {
		_, err = fmt.Fprintf(w, `<a href="%s">`, html.EscapeString(*n.URI))
	} else {
		_, err = io.WriteString(w, "<a>")
	}
	if err != nil {
		return err
	}
	if err := Render(r, n.Children(), w); err != nil {
		return err
	}
	_, err = io.WriteString(w, "</a>")
	return err
}

// Image writes an <img>. This dialect carries the destination in the
// page chrome, not a src attribute.
func (r *HTMLRenderer) Image(n *mdast.Node, w io.Writer) error {
	_, err := fmt.Fprintf(w, `<img alt="%s">`, html.EscapeString(n.Alt))
	return err
}

// Paragraph writes a <p> element.
func (r *HTMLRenderer) Paragraph(n *mdast.Node, w io.Writer) error {
	return r.wrap(n, w, "p")
}

// Heading writes <h1> through <h6>.
func (r *HTMLRenderer) Heading(n *mdast.Node, w io.Writer) error {
	return r.wrap(n, w, fmt.Sprintf("h%d", n.Level))
}

// HorizontalRule writes an <hr>.
func (r *HTMLRenderer) HorizontalRule(_ *mdast.Node, w io.Writer) error {
	_, err := io.WriteString(w, "<hr>")
	return err
}

// LineBreak writes a <br> paragraph separator.
func (r *HTMLRenderer) LineBreak(_ *mdast.Node, w io.Writer) error {
	_, err := io.WriteString(w, "<br>")
	return err
}

// Div writes a <div> element.
func (r *HTMLRenderer) Div(n *mdast.Node, w io.Writer) error {
	return r.wrap(n, w, "div")
}

// MultilineCode writes <pre><code> with a lang-* class when a language is
// known or detectable.
func (r *HTMLRenderer) MultilineCode(n *mdast.Node, w io.Writer) error {
	lang := langdetect.Normalize(n.Lang)
	if lang == "" && r.opts.DetectLanguage {
		lang = langdetect.Detect(n.PlainText())
	}

	var err error
	if lang != "" {
		_, err = fmt.Fprintf(w, `<pre><code class="lang-%s">`, html.EscapeString(lang))
	} else {
		_, err = io.WriteString(w, "<pre><code>")
	}
	if err != nil {
		return err
	}
	if err := Render(r, n.Children(), w); err != nil {
		return err
	}
	_, err = io.WriteString(w, "</code></pre>")
	return err
}

// ListItem writes an <li> element.
func (r *HTMLRenderer) ListItem(n *mdast.Node, w io.Writer) error {
	return r.wrap(n, w, "li")
}

// UList writes a <ul> element.
func (r *HTMLRenderer) UList(n *mdast.Node, w io.Writer) error {
	return r.wrap(n, w, "ul")
}

// OList writes an <ol> element.
func (r *HTMLRenderer) OList(n *mdast.Node, w io.Writer) error {
	return r.wrap(n, w, "ol")
}

// Quote writes a <blockquote> element.
func (r *HTMLRenderer) Quote(n *mdast.Node, w io.Writer) error {
	return r.wrap(n, w, "blockquote")
}

// CustomHTML reopens the original tag with its attributes in order.
// Void tags emit no closing form and render no children.
func (r *HTMLRenderer) CustomHTML(n *mdast.Node, w io.Writer) error {
	if err := writeOpenTag(w, n.TagLiteral, n.Attrs); err != nil {
		return err
	}
	if n.Tag.IsVoid() {
		return nil
	}
	if err := Render(r, n.Children(), w); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "</%s>", n.TagLiteral)
	return err
}

// CustomScript writes the script element with its raw body.
func (r *HTMLRenderer) CustomScript(n *mdast.Node, w io.Writer) error {
	if err := writeOpenTag(w, "script", n.Attrs); err != nil {
		return err
	}
	if _, err := io.WriteString(w, n.Text); err != nil {
		return err
	}
	_, err := io.WriteString(w, "</script>")
	return err
}

func writeOpenTag(w io.Writer, tag string, attrs []mdast.Attr) error {
	if _, err := fmt.Fprintf(w, "<%s", tag); err != nil {
		return err
	}
	for _, attr := range attrs {
		if attr.Value != nil {
			if _, err := fmt.Fprintf(w, ` %s="%s"`, attr.Name, html.EscapeString(*attr.Value)); err != nil {
				return err
			}
		} else {
			if _, err := fmt.Fprintf(w, " %s", attr.Name); err != nil {
				return err
			}
		}
	}
	_, err := io.WriteString(w, ">")
	return err
}
