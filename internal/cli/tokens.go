package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/WarpspeedSCP/wscpublish/pkg/mdast"
	"github.com/WarpspeedSCP/wscpublish/pkg/parser"
)

type tokensFlags struct {
	tree bool
}

func newTokensCommand(_ *rootOptions) *cobra.Command {
	flags := &tokensFlags{}

	cmd := &cobra.Command{
		Use:   "tokens <file>",
		Short: "Dump the token stream for a Markdown file",
		Long: `Dump the token stream for a Markdown file.

Each token prints with its byte span, line/column range, kind, and
payload. With --tree the parsed document tree prints instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTokens(cmd, args[0], flags)
		},
	}

	cmd.Flags().BoolVar(&flags.tree, "tree", false, "print the document tree instead")

	return cmd
}

func runTokens(cmd *cobra.Command, path string, flags *tokensFlags) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	source := string(data)

	out := cmd.OutOrStdout()

	if flags.tree {
		nodes, err := parser.Parse(source)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, mdast.Dump(nodes))
		return nil
	}

	tokens, err := parser.Tokenize(source)
	if err != nil {
		return err
	}

	spans := mdast.NewSpanMap(source)
	for _, tok := range tokens {
		position := "?"
		if lc := spans.Lookup(tok.Span); lc != nil {
			position = lc.String()
		}
		fmt.Fprintf(out, "%5d..%-5d %-12s %-16s %s\n",
			tok.Span.Start, tok.Span.End, position, tok.Kind, tokenPayload(tok))
	}
	return nil
}

// tokenPayload summarizes the variant-specific payload of a token.
func tokenPayload(tok mdast.Token) string {
	switch tok.Kind {
	case mdast.TokText, mdast.TokEscape, mdast.TokLinkURI,
		mdast.TokFootnoteRef, mdast.TokFootnoteDef:
		return fmt.Sprintf("%q", tok.Text)
	case mdast.TokHeading, mdast.TokUListItem, mdast.TokOListItem, mdast.TokBlockQuote:
		return fmt.Sprintf("level=%d", tok.Level)
	case mdast.TokTripleGrave:
		if tok.Lang != "" {
			return fmt.Sprintf("lang=%q", tok.Lang)
		}
		return ""
	case mdast.TokHTMLOpenTag:
		suffix := ""
		if tok.SelfClosing {
			suffix = " self-closing"
		}
		return fmt.Sprintf("<%s> attrs=%d%s", tok.Name, len(tok.Attrs), suffix)
	case mdast.TokHTMLCloseTag:
		return fmt.Sprintf("</%s>", tok.Name)
	case mdast.TokScriptTag:
		return fmt.Sprintf("body=%d bytes", len(tok.Body))
	default:
		return ""
	}
}
