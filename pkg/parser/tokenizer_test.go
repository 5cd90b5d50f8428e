package parser_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WarpspeedSCP/wscpublish/pkg/mdast"
	"github.com/WarpspeedSCP/wscpublish/pkg/parser"
)

// mustTokenize tokenizes and checks the stream invariant.
func mustTokenize(t *testing.T, source string) []mdast.Token {
	t.Helper()

	tokens, err := parser.Tokenize(source)
	require.NoError(t, err)
	require.True(t, mdast.ValidateTokens(tokens), "token stream invariant violated")
	return tokens
}

// kinds extracts the kind sequence, excluding the trailing EOF.
func kinds(tokens []mdast.Token) []mdast.TokenKind {
	out := make([]mdast.TokenKind, 0, len(tokens)-1)
	for _, tok := range tokens[:len(tokens)-1] {
		out = append(out, tok.Kind)
	}
	return out
}

func TestTokenizer_PlainText(t *testing.T) {
	t.Parallel()

	tokens := mustTokenize(t, "hello world")

	require.Len(t, tokens, 2)
	assert.Equal(t, mdast.TokText, tokens[0].Kind)
	assert.Equal(t, "hello world", tokens[0].Text)
	assert.Equal(t, mdast.TokEOF, tokens[1].Kind)
}

func TestTokenizer_EmptyInput(t *testing.T) {
	t.Parallel()

	tokens := mustTokenize(t, "")

	require.Len(t, tokens, 1)
	assert.Equal(t, mdast.TokEOF, tokens[0].Kind)
}

func TestTokenizer_Headings(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		source    string
		wantLevel int
	}{
		{"h1", "# one", 1},
		{"h2", "## two", 2},
		{"h3", "### three", 3},
		{"h4", "#### four", 4},
		{"h5", "##### five", 5},
		{"h6", "###### six", 6},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			tokens := mustTokenize(t, testCase.source)
			require.Equal(t, mdast.TokHeading, tokens[0].Kind)
			assert.Equal(t, testCase.wantLevel, tokens[0].Level)
		})
	}
}

func TestTokenizer_HeadingContext(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		source string
	}{
		{"no following whitespace", "#nope"},
		{"run of seven", "####### nope"},
		{"mid line", "a # b"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			tokens := mustTokenize(t, testCase.source)
			require.Len(t, tokens, 2)
			assert.Equal(t, mdast.TokText, tokens[0].Kind)
			assert.Equal(t, testCase.source, tokens[0].Text)
		})
	}
}

func TestTokenizer_EmphasisRuns(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		source string
		want   []mdast.TokenKind
	}{
		{
			name:   "italic",
			source: "*x*",
			want:   []mdast.TokenKind{mdast.TokSingleAsterisk, mdast.TokText, mdast.TokSingleAsterisk},
		},
		{
			name:   "bold",
			source: "**x**",
			want:   []mdast.TokenKind{mdast.TokDoubleAsterisk, mdast.TokText, mdast.TokDoubleAsterisk},
		},
		{
			name:   "bold italic",
			source: "***x***",
			want:   []mdast.TokenKind{mdast.TokTripleAsterisk, mdast.TokText, mdast.TokTripleAsterisk},
		},
		{
			name:   "run of four splits into triple and remainder",
			source: "****",
			want:   []mdast.TokenKind{mdast.TokTripleAsterisk, mdast.TokSingleAsterisk},
		},
		{
			name:   "underscore italic",
			source: "_x_",
			want:   []mdast.TokenKind{mdast.TokSingleUnderscore, mdast.TokText, mdast.TokSingleUnderscore},
		},
		{
			name:   "underline",
			source: "__x__",
			want:   []mdast.TokenKind{mdast.TokDoubleUnderscore, mdast.TokText, mdast.TokDoubleUnderscore},
		},
		{
			name:   "triple underscore",
			source: "___",
			want:   []mdast.TokenKind{mdast.TokTripleUnderscore},
		},
		{
			name:   "strikethrough",
			source: "~~x~~",
			want:   []mdast.TokenKind{mdast.TokDoubleTilde, mdast.TokText, mdast.TokDoubleTilde},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			tokens := mustTokenize(t, testCase.source)
			assert.Equal(t, testCase.want, kinds(tokens))
		})
	}
}

func TestTokenizer_IntrawordUnderscore(t *testing.T) {
	t.Parallel()

	tokens := mustTokenize(t, "snake_case_name")

	require.Len(t, tokens, 2)
	assert.Equal(t, mdast.TokText, tokens[0].Kind)
	assert.Equal(t, "snake_case_name", tokens[0].Text)
}

func TestTokenizer_ListItems(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		source    string
		wantKind  mdast.TokenKind
		wantLevel int
	}{
		{"dash bullet", "- a", mdast.TokUListItem, 0},
		{"star bullet", "* a", mdast.TokUListItem, 0},
		{"indented bullet", "  - a", mdast.TokUListItem, 2},
		{"ordered", "1. a", mdast.TokOListItem, 0},
		{"ordered multi digit", "12. a", mdast.TokOListItem, 0},
		{"indented ordered", " 1. a", mdast.TokOListItem, 1},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			tokens := mustTokenize(t, testCase.source)
			var marker *mdast.Token
			for i := range tokens {
				if tokens[i].IsListItem() {
					marker = &tokens[i]
					break
				}
			}
			require.NotNil(t, marker, "no list marker emitted")
			assert.Equal(t, testCase.wantKind, marker.Kind)
			assert.Equal(t, testCase.wantLevel, marker.Level)
		})
	}
}

func TestTokenizer_NotListItems(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		source string
	}{
		{"dash without whitespace", "-a"},
		{"digit without dot", "1 a"},
		{"dot without whitespace", "1.a"},
		{"mid line dash", "well - known"},
		{"intraword dash", "well-known"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			tokens := mustTokenize(t, testCase.source)
			for _, tok := range tokens {
				assert.False(t, tok.IsListItem(), "unexpected list marker in %q", testCase.source)
			}
		})
	}
}

func TestTokenizer_BlockQuotes(t *testing.T) {
	t.Parallel()

	tokens := mustTokenize(t, "> f\n>> g\n>>> h")

	var levels []int
	for _, tok := range tokens {
		if tok.Kind == mdast.TokBlockQuote {
			levels = append(levels, tok.Level)
		}
	}
	assert.Equal(t, []int{1, 2, 3}, levels)
}

func TestTokenizer_QuoteNeedsWhitespace(t *testing.T) {
	t.Parallel()

	tokens := mustTokenize(t, ">nope")

	require.Len(t, tokens, 2)
	assert.Equal(t, mdast.TokText, tokens[0].Kind)
	assert.Equal(t, ">nope", tokens[0].Text)
}

func TestTokenizer_Rules(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		source string
		want   mdast.TokenKind
	}{
		{"hyphen rule", "---", mdast.TokTripleHyphen},
		{"long hyphen rule", "-----", mdast.TokTripleHyphen},
		{"equals rule", "===", mdast.TokTripleEquals},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			tokens := mustTokenize(t, testCase.source)
			assert.Equal(t, testCase.want, tokens[0].Kind)
		})
	}

	// Not alone on its line: stays text.
	tokens := mustTokenize(t, "--- x")
	assert.Equal(t, mdast.TokText, tokens[0].Kind)
}

func TestTokenizer_InlineCode(t *testing.T) {
	t.Parallel()

	tokens := mustTokenize(t, "a `b*c` d")

	want := []mdast.TokenKind{
		mdast.TokText, mdast.TokSingleGrave, mdast.TokText,
		mdast.TokSingleGrave, mdast.TokText,
	}
	require.Equal(t, want, kinds(tokens))
	// The body is raw: the asterisk stays inside the text.
	assert.Equal(t, "b*c", tokens[2].Text)
}

func TestTokenizer_InlineCodeUnclosed(t *testing.T) {
	t.Parallel()

	tokens := mustTokenize(t, "a `b")

	require.Len(t, tokens, 2)
	assert.Equal(t, "a `b", tokens[0].Text)
}

func TestTokenizer_FencedCode(t *testing.T) {
	t.Parallel()

	tokens := mustTokenize(t, "```rust\nlet x=1;\n```")

	want := []mdast.TokenKind{mdast.TokTripleGrave, mdast.TokText, mdast.TokTripleGrave}
	require.Equal(t, want, kinds(tokens))
	assert.Equal(t, "rust", tokens[0].Lang)
	assert.Equal(t, "let x=1;\n", tokens[1].Text)
}

func TestTokenizer_FencedCodeBodyIsRaw(t *testing.T) {
	t.Parallel()

	tokens := mustTokenize(t, "```\n# not a heading\n- not a list\n```")

	want := []mdast.TokenKind{mdast.TokTripleGrave, mdast.TokText, mdast.TokTripleGrave}
	require.Equal(t, want, kinds(tokens))
	assert.Equal(t, "# not a heading\n- not a list\n", tokens[1].Text)
}

func TestTokenizer_FencedCodeUnclosed(t *testing.T) {
	t.Parallel()

	tokens := mustTokenize(t, "```go\nx := 1\n")

	want := []mdast.TokenKind{mdast.TokTripleGrave, mdast.TokText}
	require.Equal(t, want, kinds(tokens))
	assert.Equal(t, "x := 1\n", tokens[1].Text)
}

func TestTokenizer_Links(t *testing.T) {
	t.Parallel()

	tokens := mustTokenize(t, "[a](b)")

	want := []mdast.TokenKind{
		mdast.TokLinkStart, mdast.TokText, mdast.TokLinkInterstice,
		mdast.TokLinkURI, mdast.TokLinkEnd,
	}
	require.Equal(t, want, kinds(tokens))
	assert.Equal(t, "b", tokens[3].Text)
}

func TestTokenizer_BracketedURI(t *testing.T) {
	t.Parallel()

	tokens := mustTokenize(t, "[a](<https://x.y/(z)>)")

	var uri *mdast.Token
	for i := range tokens {
		if tokens[i].Kind == mdast.TokLinkURI {
			uri = &tokens[i]
		}
	}
	require.NotNil(t, uri)
	assert.Equal(t, "https://x.y/(z)", uri.Text)
}

func TestTokenizer_Image(t *testing.T) {
	t.Parallel()

	tokens := mustTokenize(t, "![alt](pic)")

	want := []mdast.TokenKind{
		mdast.TokImageStart, mdast.TokText, mdast.TokLinkInterstice,
		mdast.TokLinkURI, mdast.TokLinkEnd,
	}
	assert.Equal(t, want, kinds(tokens))
}

func TestTokenizer_BracketWithoutClose(t *testing.T) {
	t.Parallel()

	tokens := mustTokenize(t, "[ no close")

	require.Len(t, tokens, 2)
	assert.Equal(t, mdast.TokText, tokens[0].Kind)
	assert.Equal(t, "[ no close", tokens[0].Text)
}

func TestTokenizer_ParenWithoutOpenLink(t *testing.T) {
	t.Parallel()

	tokens := mustTokenize(t, "just (parens)")

	require.Len(t, tokens, 2)
	assert.Equal(t, "just (parens)", tokens[0].Text)
}

func TestTokenizer_Footnotes(t *testing.T) {
	t.Parallel()

	t.Run("reference", func(t *testing.T) {
		t.Parallel()

		tokens := mustTokenize(t, "see [^1] below")
		var ref *mdast.Token
		for i := range tokens {
			if tokens[i].Kind == mdast.TokFootnoteRef {
				ref = &tokens[i]
			}
		}
		require.NotNil(t, ref)
		assert.Equal(t, "1", ref.Text)
	})

	t.Run("definition at line start", func(t *testing.T) {
		t.Parallel()

		tokens := mustTokenize(t, "[^note]: the details")
		require.Equal(t, mdast.TokFootnoteDef, tokens[0].Kind)
		assert.Equal(t, "note", tokens[0].Text)
	})
}

func TestTokenizer_Escapes(t *testing.T) {
	t.Parallel()

	t.Run("escaped delimiter", func(t *testing.T) {
		t.Parallel()

		tokens := mustTokenize(t, `\*not emphasis\*`)
		want := []mdast.TokenKind{mdast.TokEscape, mdast.TokText, mdast.TokEscape}
		require.Equal(t, want, kinds(tokens))
		assert.Equal(t, "*", tokens[0].Text)
	})

	t.Run("backslash newline is a hard break", func(t *testing.T) {
		t.Parallel()

		tokens := mustTokenize(t, "a\\\nb")
		want := []mdast.TokenKind{mdast.TokText, mdast.TokLineBreak, mdast.TokText}
		assert.Equal(t, want, kinds(tokens))
	})
}

func TestTokenizer_HTML(t *testing.T) {
	t.Parallel()

	tokens := mustTokenize(t, `<a href="x" disabled>link</a>`)

	want := []mdast.TokenKind{mdast.TokHTMLOpenTag, mdast.TokText, mdast.TokHTMLCloseTag}
	require.Equal(t, want, kinds(tokens))

	open := tokens[0]
	assert.Equal(t, "a", open.Name)
	assert.False(t, open.SelfClosing)
	require.Len(t, open.Attrs, 2)
	assert.Equal(t, "href", open.Attrs[0].Name)
	require.NotNil(t, open.Attrs[0].Value)
	assert.Equal(t, "x", *open.Attrs[0].Value)
	assert.Equal(t, "disabled", open.Attrs[1].Name)
	assert.Nil(t, open.Attrs[1].Value)
}

func TestTokenizer_HTMLSelfClosing(t *testing.T) {
	t.Parallel()

	tokens := mustTokenize(t, `<img src="a.png"/>`)

	require.Equal(t, mdast.TokHTMLOpenTag, tokens[0].Kind)
	assert.True(t, tokens[0].SelfClosing)
}

func TestTokenizer_Script(t *testing.T) {
	t.Parallel()

	tokens := mustTokenize(t, `<script type="module">let x = 1;</script>`)

	require.Equal(t, mdast.TokScriptTag, tokens[0].Kind)
	assert.Equal(t, "let x = 1;", tokens[0].Body)
	require.Len(t, tokens[0].Attrs, 1)
	assert.Equal(t, "type", tokens[0].Attrs[0].Name)
}

func TestTokenizer_HTMLRewind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		source string
	}{
		{"bare less-than", "1 < 2"},
		{"tag never closes", "<div attr"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			tokens := mustTokenize(t, testCase.source)
			require.Len(t, tokens, 2)
			assert.Equal(t, mdast.TokText, tokens[0].Kind)
			assert.Equal(t, testCase.source, tokens[0].Text)
		})
	}
}

func TestTokenizer_HTMLErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		source   string
		wantKind parser.ErrorKind
	}{
		{"attribute without name", "<div =bad>", parser.ErrKindInvalidAttribute},
		{"empty attribute value", "<div a= >", parser.ErrKindInvalidAttribute},
		{"unclosed script", "<script>nope", parser.ErrKindUnclosedScriptTag},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			_, err := parser.Tokenize(testCase.source)
			require.Error(t, err)

			var parseErr *parser.ParseError
			require.ErrorAs(t, err, &parseErr)
			assert.Equal(t, testCase.wantKind, parseErr.Kind)
		})
	}
}

func TestTokenizer_Frontmatter(t *testing.T) {
	t.Parallel()

	source := "+++\ntitle = \"x\"\n+++\n# Hi"
	tokens := mustTokenize(t, source)

	require.Equal(t, mdast.TokHeading, tokens[0].Kind)
	assert.Equal(t, strings.Index(source, "# Hi"), tokens[0].Span.Start)
}

func TestTokenizer_SpanCoverage(t *testing.T) {
	t.Parallel()

	// Concatenating token span texts reproduces the source modulo
	// frontmatter.
	sources := []string{
		"hello world",
		"# Heading\n\npara *with* **emphasis** and `code`.\n",
		"- a\n- b\n - c\n- d\n",
		"> f\n>> g\n>>> h\n>> i",
		"[a](<https://x.y/(z)>) and ![img](pic)",
		"```rust\nlet x=1;\n```",
		"<div class=\"wide\">\n# Hi\n</div>\n",
		"+++\nmeta = 1\n+++\nbody text\n",
		"a\\\nb \\* c",
		"text with ~~strike~~ and __underline__ and ___\n",
		"[^1] and [^2]: def\n",
	}

	for _, source := range sources {
		tokens := mustTokenize(t, source)

		var sb strings.Builder
		for _, tok := range tokens[:len(tokens)-1] {
			sb.WriteString(tok.Span.Text(source))
		}

		_, body, _ := parser.SplitFrontmatter(source)
		assert.Equal(t, body, sb.String(), "coverage mismatch for %q", source)
	}
}

func TestTokenizer_AlwaysEndsWithEOF(t *testing.T) {
	t.Parallel()

	for _, source := range []string{"", "x", "\n\n", "# h", "```"} {
		tokens := mustTokenize(t, source)
		require.NotEmpty(t, tokens)
		assert.Equal(t, mdast.TokEOF, tokens[len(tokens)-1].Kind)
	}
}
