// Package source tracks the text a CodeGenerator attaches to emitted
// operations. It is intentionally thin: this module does not parse or
// lex anything, it only needs enough of a "where did this come from"
// story to stamp locations on synthesized nodes.
package source

import "path/filepath"

// File represents a source file with its content and metadata.
type File struct {
	Name    string // Display name (e.g., "gen.ts", "<eval>")
	Path    string // Full file path (empty for eval/synthetic sources)
	Content string
}

// NewFile creates a new source file.
func NewFile(name, path, content string) *File {
	return &File{Name: name, Path: path, Content: content}
}

// NewEvalFile creates a source file for synthetic or in-memory input.
func NewEvalFile(content string) *File {
	return &File{Name: "<eval>", Content: content}
}

// FromPath creates a File from a file path and its content.
func FromPath(path, content string) *File {
	return NewFile(filepath.Base(path), path, content)
}

// DisplayPath returns the best path for display (prefers Path, falls back to Name).
func (f *File) DisplayPath() string {
	if f.Path != "" {
		return f.Path
	}
	return f.Name
}

// Position is a single point in a source file.
type Position struct {
	Line   int // 1-based
	Column int // 1-based, rune index within the line
	Offset int // 0-based byte offset
}

// Range is a span of text, the unit attached to opcodes and generated
// nodes as their "related location". A zero Range is valid and simply
// carries no position information.
type Range struct {
	File  *File
	Start Position
	End   Position
}

// IsZero reports whether r carries no location information at all.
func (r Range) IsZero() bool {
	return r.File == nil && r.Start == Position{} && r.End == Position{}
}
