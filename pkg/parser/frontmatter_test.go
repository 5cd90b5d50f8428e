package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/WarpspeedSCP/wscpublish/pkg/parser"
)

func TestSplitFrontmatter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		source        string
		wantMeta      string
		wantBody      string
		wantBodyStart int
	}{
		{
			name:          "no frontmatter",
			source:        "# Hi\n",
			wantMeta:      "",
			wantBody:      "# Hi\n",
			wantBodyStart: 0,
		},
		{
			name:          "frontmatter and body",
			source:        "+++\ntitle = \"x\"\n+++\nbody\n",
			wantMeta:      "title = \"x\"\n",
			wantBody:      "body\n",
			wantBodyStart: 20,
		},
		{
			name:          "empty frontmatter",
			source:        "+++\n+++\nbody",
			wantMeta:      "",
			wantBody:      "body",
			wantBodyStart: 8,
		},
		{
			name:          "unterminated frontmatter is body",
			source:        "+++\ntitle = \"x\"\nno closing",
			wantMeta:      "",
			wantBody:      "+++\ntitle = \"x\"\nno closing",
			wantBodyStart: 0,
		},
		{
			name:          "plus run inside a line is not a delimiter",
			source:        "++++\nx\n",
			wantMeta:      "",
			wantBody:      "++++\nx\n",
			wantBodyStart: 0,
		},
		{
			name:          "closing delimiter at end of input",
			source:        "+++\nmeta\n+++",
			wantMeta:      "meta\n",
			wantBody:      "",
			wantBodyStart: 12,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			meta, body, bodyStart := parser.SplitFrontmatter(testCase.source)
			assert.Equal(t, testCase.wantMeta, meta)
			assert.Equal(t, testCase.wantBody, body)
			assert.Equal(t, testCase.wantBodyStart, bodyStart)
		})
	}
}
