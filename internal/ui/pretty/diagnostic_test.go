package pretty_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WarpspeedSCP/wscpublish/internal/ui/pretty"
	"github.com/WarpspeedSCP/wscpublish/pkg/parser"
)

func TestFormatCompileError_ParseError(t *testing.T) {
	t.Parallel()

	source := "before\n<div>never closed\nafter\n"
	_, err := parser.Parse(source)
	require.Error(t, err)

	styles := pretty.NewStyles(false)
	got := styles.FormatCompileError("post.md", source, err)

	assert.Contains(t, got, "post.md:1:0")
	assert.Contains(t, got, "unclosed <div> tag")
	assert.Contains(t, got, "<div>never closed")
	// Caret sits under the offending column.
	assert.Contains(t, got, "^")
}

func TestFormatCompileError_PlainError(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)
	got := styles.FormatCompileError("post.md", "", errors.New("disk on fire"))

	assert.Contains(t, got, "post.md")
	assert.Contains(t, got, "disk on fire")
	assert.NotContains(t, got, "^")
}

func TestFormatSourceContext_CaretColumn(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)
	got := styles.FormatSourceContext("abcdef", 3)

	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, strings.Index(lines[1], "^"), strings.Index(lines[0], "a")+3)
}

func TestIsColorEnabled(t *testing.T) {
	t.Parallel()

	var sink strings.Builder
	assert.True(t, pretty.IsColorEnabled("always", &sink))
	assert.False(t, pretty.IsColorEnabled("never", &sink))
	// A non-TTY writer in auto mode stays uncolored.
	assert.False(t, pretty.IsColorEnabled("auto", &sink))
}
