package pretty

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/WarpspeedSCP/wscpublish/pkg/parser"
)

// FormatCompileError formats a failed compile for terminal output.
// Parse errors with a resolved position render as
// "path:line:col  error  message" followed by the offending source line
// and a caret; other errors render the message alone.
func (s *Styles) FormatCompileError(path, source string, err error) string {
	var parseErr *parser.ParseError
	if !errors.As(err, &parseErr) || parseErr.Pos == nil {
		return fmt.Sprintf("  %s  %s  %s\n",
			s.FilePath.Render(path),
			s.Error.Render("error"),
			s.Message.Render(err.Error()),
		)
	}

	pos := parseErr.Pos
	location := fmt.Sprintf("%s:%d:%d",
		s.FilePath.Render(path),
		pos.StartLine,
		pos.StartCol,
	)

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("  %s  %s  %s\n",
		location,
		s.Error.Render("error"),
		s.Message.Render(parseErr.Msg),
	))

	if line, ok := sourceLine(source, pos.StartLine); ok {
		width := TerminalWidth(os.Stderr, 120)
		builder.WriteString(s.FormatSourceContext(truncate(line, width-len(contextIndent)), pos.StartCol))
	}

	return builder.String()
}

// contextIndent aligns source context with the diagnostic line above it.
const contextIndent = "        "

// FormatSourceContext formats the source line with a caret marker under
// the given 0-indexed column.
func (s *Styles) FormatSourceContext(line string, column int) string {
	var builder strings.Builder

	builder.WriteString(contextIndent + s.SourceLine.Render(line) + "\n")

	if column >= 0 && column <= len(line) {
		padding := contextIndent + strings.Repeat(" ", column)
		builder.WriteString(padding + s.Caret.Render("^") + "\n")
	}

	return builder.String()
}

// truncate shortens a line to at most width bytes.
func truncate(line string, width int) string {
	if width <= 0 || len(line) <= width {
		return line
	}
	return line[:width]
}

// sourceLine extracts the 0-indexed line from source.
func sourceLine(source string, line int) (string, bool) {
	lines := strings.Split(source, "\n")
	if line < 0 || line >= len(lines) {
		return "", false
	}
	return lines[line], true
}
