// Package logging provides a structured logging wrapper around charmbracelet/log.
package logging

// Field name constants for structured logging.
// Using constants prevents typos and enables IDE autocomplete.
const (
	// Common fields.
	FieldError  = "error"
	FieldPath   = "path"
	FieldPaths  = "paths"
	FieldOutput = "output"

	// Build fields.
	FieldFilesDiscovered = "files_discovered"
	FieldFilesCompiled   = "files_compiled"
	FieldFilesFailed     = "files_failed"
	FieldFilesUnchanged  = "files_unchanged"
	FieldOutDir          = "out_dir"
	FieldTokens          = "tokens"
	FieldNodes           = "nodes"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
