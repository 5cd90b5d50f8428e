package parser

import (
	"strings"

	"github.com/WarpspeedSCP/wscpublish/pkg/mdast"
)

const scriptClose = "</script>"

// handleHTML scans an HTML tag at the current '<'. When the tag never
// closes before end of input the scan rewinds and the '<' stays in text;
// malformed attributes and unterminated scripts are fatal.
func (t *tokenizer) handleHTML() error {
	tok, ok, err := t.scanTag()
	if err != nil {
		return err
	}
	if !ok {
		t.pos++
		return nil
	}

	t.flushText()
	t.push(tok)
	return nil
}

// scanTag parses "<name attr...>", "</name>", "<name .../>", and the
// "<script ...>body</script>" form. ok is false when the construct is not
// a tag at all (rewind: the caller keeps the '<' as text).
func (t *tokenizer) scanTag() (mdast.Token, bool, error) {
	i := t.pos + 1
	closing := false
	if i < len(t.src) && t.src[i] == '/' {
		closing = true
		i++
	}

	nameStart := i
	for i < len(t.src) && isTagNameByte(t.src[i]) {
		i++
	}
	name := t.src[nameStart:i]
	if name == "" || !isLetterByte(name[0]) {
		return mdast.Token{}, false, nil
	}

	attrs, end, selfClosing, ok, err := t.scanAttrs(i)
	if err != nil || !ok {
		return mdast.Token{}, false, err
	}

	if closing {
		return mdast.Token{
			Kind: mdast.TokHTMLCloseTag,
			Span: mdast.Span{Start: t.pos, End: end},
			Name: name,
		}, true, nil
	}

	if strings.EqualFold(name, "script") && !selfClosing {
		return t.scanScript(name, attrs, end)
	}

	return mdast.Token{
		Kind:        mdast.TokHTMLOpenTag,
		Span:        mdast.Span{Start: t.pos, End: end},
		Name:        name,
		Attrs:       attrs,
		SelfClosing: selfClosing,
	}, true, nil
}

// scanAttrs parses `name[="value"]` pairs from offset until the closing
// '>'. Value-less attributes are permitted. ok is false when no '>'
// arrives before end of input (the caller rewinds).
func (t *tokenizer) scanAttrs(offset int) (attrs []mdast.Attr, end int, selfClosing, ok bool, err error) {
	i := offset

	for {
		for i < len(t.src) && isWhitespaceByte(t.src[i]) {
			i++
		}
		if i >= len(t.src) {
			return nil, 0, false, false, nil
		}

		switch t.src[i] {
		case '>':
			return attrs, i + 1, false, true, nil
		case '/':
			if i+1 < len(t.src) && t.src[i+1] == '>' {
				return attrs, i + 2, true, true, nil
			}
			return nil, 0, false, false, t.attrError(i, "stray '/' inside tag")
		}

		nameStart := i
		for i < len(t.src) && !isWhitespaceByte(t.src[i]) &&
			t.src[i] != '=' && t.src[i] != '>' && t.src[i] != '/' {
			i++
		}
		if i == nameStart {
			return nil, 0, false, false, t.attrError(i, "attribute name expected")
		}
		attr := mdast.Attr{Name: t.src[nameStart:i]}

		for i < len(t.src) && isWhitespaceByte(t.src[i]) {
			i++
		}
		if i < len(t.src) && t.src[i] == '=' {
			i++
			for i < len(t.src) && isWhitespaceByte(t.src[i]) {
				i++
			}
			value, next, valueOK, valueErr := t.scanAttrValue(i)
			if valueErr != nil || !valueOK {
				return nil, 0, false, valueOK, valueErr
			}
			attr.Value = &value
			i = next
		}

		attrs = append(attrs, attr)
	}
}

// scanAttrValue parses a quoted or bare attribute value at offset.
// ok is false when a quoted value never terminates before end of input.
func (t *tokenizer) scanAttrValue(offset int) (value string, next int, ok bool, err error) {
	if offset >= len(t.src) {
		return "", 0, false, nil
	}

	if quote := t.src[offset]; quote == '"' || quote == '\'' {
		end := strings.IndexByte(t.src[offset+1:], quote)
		if end < 0 {
			return "", 0, false, nil
		}
		return t.src[offset+1 : offset+1+end], offset + end + 2, true, nil
	}

	end := offset
	for end < len(t.src) && !isWhitespaceByte(t.src[end]) && t.src[end] != '>' && t.src[end] != '/' {
		end++
	}
	if end == offset {
		return "", 0, false, t.attrError(offset, "attribute value expected after '='")
	}
	return t.src[offset:end], end, true, nil
}

// scanScript consumes the raw body up to the literal "</script>".
func (t *tokenizer) scanScript(name string, attrs []mdast.Attr, bodyStart int) (mdast.Token, bool, error) {
	idx := strings.Index(t.src[bodyStart:], scriptClose)
	if idx < 0 {
		err := newParseError(ErrKindUnclosedScriptTag, t.spans,
			mdast.Span{Start: t.pos, End: t.pos + 1},
			"script tag is never closed")
		return mdast.Token{}, false, err
	}

	bodyEnd := bodyStart + idx
	return mdast.Token{
		Kind:  mdast.TokScriptTag,
		Span:  mdast.Span{Start: t.pos, End: bodyEnd + len(scriptClose)},
		Name:  name,
		Attrs: attrs,
		Body:  t.src[bodyStart:bodyEnd],
	}, true, nil
}

func (t *tokenizer) attrError(offset int, msg string) error {
	return newParseError(ErrKindInvalidAttribute, t.spans,
		mdast.Span{Start: offset, End: offset + 1}, msg)
}

func isLetterByte(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isTagNameByte(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-':
		return true
	default:
		return false
	}
}

func isWhitespaceByte(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
