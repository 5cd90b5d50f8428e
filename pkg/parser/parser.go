// Package parser implements the wscpublish Markdown dialect compiler.
//
// The pipeline is a two-stage pass: a context-sensitive tokenizer turns
// the source into a flat stream of span-carrying tokens, and a tree
// builder folds that stream into a forest of document nodes. Data flows
// strictly forward; the only shared state is the SpanMap the tokenizer
// builds and the builder borrows for error positions.
//
// The dialect is close to CommonMark but not identical: '___' is an
// inline line break rather than a thematic break, images render without
// a src attribute, and '+++' frontmatter is skipped for a collaborator
// to consume.
package parser

import "github.com/WarpspeedSCP/wscpublish/pkg/mdast"

// Tokenize performs a single pass over the source and returns the token
// stream. The stream always ends with an EOF token.
func Tokenize(source string) ([]mdast.Token, error) {
	tokens, _, err := tokenize(source)
	return tokens, err
}

// Parse tokenizes the source and builds the document tree.
func Parse(source string) ([]*mdast.Node, error) {
	tokens, spans, err := tokenize(source)
	if err != nil {
		return nil, err
	}
	return ParseTokens(tokens, spans)
}

// ParseTokens builds the document tree from an existing token stream.
// The span map is only used to position error messages; it may be nil.
func ParseTokens(tokens []mdast.Token, spans *mdast.SpanMap) ([]*mdast.Node, error) {
	// The builder rewrites triple-asterisk tokens in place while pairing
	// emphasis, so it works on its own copy.
	owned := make([]mdast.Token, len(tokens))
	copy(owned, tokens)

	return buildTree(owned, spans, 0)
}

func tokenize(source string) ([]mdast.Token, *mdast.SpanMap, error) {
	t := newTokenizer(source)
	if err := t.tokenize(); err != nil {
		return nil, nil, err
	}
	return t.tokens, t.spans, nil
}
