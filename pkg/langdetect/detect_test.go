package langdetect_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/WarpspeedSCP/wscpublish/pkg/langdetect"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		info     string
		expected string
	}{
		{"", ""},
		{"go", "go"},
		{"golang", "go"},
		{"Rust", "rust"},
		{"sh", "bash"},
		{"no-such-language", "no-such-language"},
	}

	for _, testCase := range tests {
		t.Run(testCase.info, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, testCase.expected, langdetect.Normalize(testCase.info))
		})
	}
}

func TestDetect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		content  string
		expected string
	}{
		{"empty content", "   \n", "text"},
		{"shebang", "#!/bin/bash\necho hi\n", "bash"},
		{"go package clause", "package main\n\nfunc main() {}\n", "go"},
		{"rust main", "fn main() {\n    println!(\"hi\");\n}\n", "rust"},
		{"python def", "def add(a, b):\n    return a + b\n", "python"},
		{"dockerfile", "FROM alpine\nRUN apk add git\n", "dockerfile"},
		{"json object", `{"a": 1}`, "json"},
		{"html document", "<!DOCTYPE html>\n<html></html>", "html"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, testCase.expected, langdetect.Detect(testCase.content))
		})
	}
}
