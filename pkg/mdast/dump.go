package mdast

import (
	"fmt"
	"strings"
)

// Dump renders a forest of nodes as one s-expression per root.
// The format is stable and intended for debugging output and tests.
func Dump(nodes []*Node) string {
	parts := make([]string, 0, len(nodes))
	for _, n := range nodes {
		parts = append(parts, DumpNode(n))
	}
	return strings.Join(parts, "\n")
}

// DumpNode renders a single node and its descendants as an s-expression.
func DumpNode(n *Node) string {
	var sb strings.Builder
	dumpInto(&sb, n)
	return sb.String()
}

func dumpInto(sb *strings.Builder, n *Node) {
	if n == nil {
		sb.WriteString("(nil)")
		return
	}

	sb.WriteByte('(')
	sb.WriteString(n.Kind.String())

	switch n.Kind {
	case NodeText:
		fmt.Fprintf(sb, " %q", n.Text)
	case NodeHeading:
		fmt.Fprintf(sb, " %d", n.Level)
	case NodeUList, NodeOList, NodeQuote:
		fmt.Fprintf(sb, " %d", n.Level)
	case NodeCode, NodeMultilineCode:
		if n.Lang != "" {
			fmt.Fprintf(sb, " %q", n.Lang)
		}
	case NodeLink:
		if n.URI != nil {
			fmt.Fprintf(sb, " %q", *n.URI)
		} else {
			sb.WriteString(" nil")
		}
	case NodeImage:
		fmt.Fprintf(sb, " %q", n.Alt)
		if n.URI != nil {
			fmt.Fprintf(sb, " %q", *n.URI)
		} else {
			sb.WriteString(" nil")
		}
	case NodeCustomHTML:
		fmt.Fprintf(sb, " %q", n.TagLiteral)
		for _, attr := range n.Attrs {
			if attr.Value != nil {
				fmt.Fprintf(sb, " %s=%q", attr.Name, *attr.Value)
			} else {
				fmt.Fprintf(sb, " %s", attr.Name)
			}
		}
	case NodeCustomScript:
		fmt.Fprintf(sb, " %q", n.Text)
	}

	for child := n.FirstChild; child != nil; child = child.Next {
		sb.WriteByte(' ')
		dumpInto(sb, child)
	}

	sb.WriteByte(')')
}
