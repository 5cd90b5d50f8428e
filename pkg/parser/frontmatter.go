package parser

import "strings"

// frontmatterDelim is the line that opens and closes a frontmatter block.
const frontmatterDelim = "+++"

// SplitFrontmatter splits an optional frontmatter block from the body.
//
// A frontmatter block is present when the first line of the source is
// exactly "+++"; it runs until the next line that is exactly "+++". The
// returned meta is the text between the delimiter lines (without them),
// body is everything after the closing delimiter line, and bodyStart is
// the byte offset of body within source.
//
// Sources without frontmatter (including ones whose opening block never
// closes) return meta == "" and the whole source as body.
func SplitFrontmatter(source string) (meta, body string, bodyStart int) {
	bodyStart = frontmatterEnd(source)
	if bodyStart == 0 {
		return "", source, 0
	}

	metaStart := len(frontmatterDelim)
	if metaStart < len(source) && source[metaStart] == '\n' {
		metaStart++
	}
	metaEnd := strings.LastIndex(source[:bodyStart], "\n"+frontmatterDelim)
	if metaEnd < metaStart {
		metaEnd = metaStart
	} else {
		metaEnd++ // keep the trailing newline out of the delimiter, not the meta
	}

	return source[metaStart:metaEnd], source[bodyStart:], bodyStart
}

// frontmatterEnd returns the byte offset where tokenization starts: 0 when
// the source carries no frontmatter, otherwise the offset just past the
// closing "+++" line.
func frontmatterEnd(source string) int {
	if !strings.HasPrefix(source, frontmatterDelim) {
		return 0
	}
	// The opening line must be exactly "+++".
	rest := source[len(frontmatterDelim):]
	if rest != "" && rest[0] != '\n' {
		return 0
	}

	offset := len(frontmatterDelim)
	for offset < len(source) {
		lineStart := offset + 1 // skip the newline ending the previous line
		lineEnd := strings.IndexByte(source[lineStart:], '\n')
		if lineEnd < 0 {
			if source[lineStart:] == frontmatterDelim {
				return len(source)
			}
			// Unterminated frontmatter: tokenize the whole source.
			return 0
		}
		line := source[lineStart : lineStart+lineEnd]
		if line == frontmatterDelim {
			return lineStart + lineEnd + 1
		}
		offset = lineStart + lineEnd
	}

	return 0
}
