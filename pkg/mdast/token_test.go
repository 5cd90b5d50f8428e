package mdast_test

import (
	"testing"

	"github.com/WarpspeedSCP/wscpublish/pkg/mdast"
)

func TestTokenKind_String(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind     mdast.TokenKind
		expected string
	}{
		{mdast.TokText, "Text"},
		{mdast.TokNewline, "Newline"},
		{mdast.TokHeading, "Heading"},
		{mdast.TokTripleAsterisk, "TripleAsterisk"},
		{mdast.TokBlockQuote, "BlockQuote"},
		{mdast.TokScriptTag, "ScriptTag"},
		{mdast.TokEOF, "EOF"},
		{mdast.TokenKind(9999), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			t.Parallel()

			if tt.kind.String() != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, tt.kind.String())
			}
		})
	}
}

func TestToken_IsBlank(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		token    mdast.Token
		expected bool
	}{
		{"spaces and tabs", mdast.Token{Kind: mdast.TokText, Text: "  \t "}, true},
		{"empty text", mdast.Token{Kind: mdast.TokText, Text: ""}, true},
		{"word", mdast.Token{Kind: mdast.TokText, Text: " a "}, false},
		{"non-text kind", mdast.Token{Kind: mdast.TokNewline}, false},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			if got := testCase.token.IsBlank(); got != testCase.expected {
				t.Errorf("expected %v, got %v", testCase.expected, got)
			}
		})
	}
}

func TestToken_IsListItem(t *testing.T) {
	t.Parallel()

	for _, kind := range []mdast.TokenKind{mdast.TokUListItem, mdast.TokOListItem, mdast.TokBlockQuote} {
		if !(mdast.Token{Kind: kind}).IsListItem() {
			t.Errorf("expected %s to be a list item", kind)
		}
	}
	if (mdast.Token{Kind: mdast.TokText}).IsListItem() {
		t.Error("expected Text not to be a list item")
	}
}

func TestValidateTokens(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		tokens   []mdast.Token
		expected bool
	}{
		{
			name:     "empty stream",
			tokens:   nil,
			expected: false,
		},
		{
			name: "eof only",
			tokens: []mdast.Token{
				{Kind: mdast.TokEOF, Span: mdast.Span{Start: 0, End: 1}},
			},
			expected: true,
		},
		{
			name: "ordered with gap",
			tokens: []mdast.Token{
				{Kind: mdast.TokText, Span: mdast.Span{Start: 0, End: 3}},
				{Kind: mdast.TokText, Span: mdast.Span{Start: 5, End: 8}},
				{Kind: mdast.TokEOF, Span: mdast.Span{Start: 8, End: 9}},
			},
			expected: true,
		},
		{
			name: "overlapping spans",
			tokens: []mdast.Token{
				{Kind: mdast.TokText, Span: mdast.Span{Start: 0, End: 5}},
				{Kind: mdast.TokText, Span: mdast.Span{Start: 3, End: 8}},
				{Kind: mdast.TokEOF, Span: mdast.Span{Start: 8, End: 9}},
			},
			expected: false,
		},
		{
			name: "missing eof",
			tokens: []mdast.Token{
				{Kind: mdast.TokText, Span: mdast.Span{Start: 0, End: 5}},
			},
			expected: false,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			if got := mdast.ValidateTokens(testCase.tokens); got != testCase.expected {
				t.Errorf("expected %v, got %v", testCase.expected, got)
			}
		})
	}
}
