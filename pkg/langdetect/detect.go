// Package langdetect resolves languages for fenced code blocks.
// It normalizes fence info strings to canonical lowercase tags and, when
// asked, classifies unlabeled code content with go-enry.
package langdetect

import (
	"strings"

	"github.com/go-enry/go-enry/v2"
)

const langText = "text"

// Normalize maps a fence info string to a canonical lowercase language
// tag ("Golang" -> "go", "Shell" -> "bash"). Unknown info strings pass
// through lowercased; an empty info string stays empty.
func Normalize(info string) string {
	if info == "" {
		return ""
	}

	if lang, ok := enry.GetLanguageByAlias(info); ok {
		return toFenceTag(lang)
	}

	return strings.ToLower(info)
}

// Detect classifies unlabeled code content. Returns "text" when no
// confident classification exists.
func Detect(content string) string {
	if strings.TrimSpace(content) == "" {
		return langText
	}

	data := []byte(content)

	// Shebangs are the most reliable signal.
	if lang, safe := enry.GetLanguageByShebang(data); safe {
		return toFenceTag(lang)
	}

	if lang := detectByPattern(content); lang != "" {
		return lang
	}

	candidates := []string{
		"Go", "Python", "Shell", "JavaScript", "TypeScript",
		"Ruby", "Rust", "Java", "C", "C++", "SQL", "JSON",
		"YAML", "HTML", "CSS", "Markdown", "Dockerfile", "TOML",
	}
	if lang, safe := enry.GetLanguageByClassifier(data, candidates); safe && lang != "" {
		return toFenceTag(lang)
	}

	return langText
}

// detectByPattern checks for highly indicative language patterns before
// falling back to the statistical classifier.
func detectByPattern(content string) string {
	trimmed := strings.TrimSpace(content)

	switch {
	case strings.HasPrefix(trimmed, "package "):
		return "go"
	case strings.Contains(content, "fn main()") || strings.Contains(content, "println!") ||
		strings.Contains(content, "let mut "):
		return "rust"
	case strings.Contains(content, "def ") && strings.Contains(content, "):"):
		return "python"
	case strings.HasPrefix(trimmed, "FROM ") ||
		(strings.Contains(content, "\nFROM ") && strings.Contains(content, "\nRUN ")):
		return "dockerfile"
	case strings.HasPrefix(trimmed, "{") && strings.Contains(trimmed, `"`):
		return "json"
	case strings.HasPrefix(strings.ToLower(trimmed), "<!doctype html") ||
		strings.Contains(strings.ToLower(trimmed), "<html"):
		return "html"
	}

	return ""
}

// toFenceTag converts go-enry language names to fence tags.
func toFenceTag(lang string) string {
	if lang == "Shell" {
		return "bash"
	}
	return strings.ToLower(lang)
}
