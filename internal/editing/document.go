// Package editing models line-addressable documents and the hunks extracted
// from them for an LLM editing layer. A hunk is the unit of editing: a
// contiguous block of lines, optionally with marker sub-blocks excluded from
// the editable text. Documents are built once and never modified in place;
// applying a patch produces a new Document.
package editing

import (
	"path/filepath"
	"strings"
)

// DocType classifies a document for marker formatting and code fences.
type DocType string

const (
	DocTypeUnknown  DocType = "UNKNOWN"
	DocTypeText     DocType = "TEXT"
	DocTypeMarkdown DocType = "MARKDOWN"
	DocTypeGo       DocType = "GO"
	DocTypeCSharp   DocType = "CSHARP"
	DocTypeCshtml   DocType = "CSHTML"
)

// DocTypeForPath derives the document type from the file extension.
func DocTypeForPath(path string) DocType {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")) {
	case "txt":
		return DocTypeText
	case "md":
		return DocTypeMarkdown
	case "go":
		return DocTypeGo
	case "cs":
		return DocTypeCSharp
	case "cshtml":
		return DocTypeCshtml
	default:
		return DocTypeUnknown
	}
}

// CodeBlockTag returns the fenced code block language tag for the type.
func (t DocType) CodeBlockTag() string {
	switch t {
	case DocTypeMarkdown:
		return "md"
	case DocTypeGo:
		return "go"
	case DocTypeCSharp:
		return "cs"
	case DocTypeCshtml:
		return "cshtml"
	default:
		return ""
	}
}

// Document is an immutable, line-indexed text file.
type Document struct {
	// Path is the project-relative path of the file.
	Path string

	// DocType classifies the document.
	DocType DocType

	// Lines holds the text split on newlines, without trailing newline
	// characters.
	Lines []string
}

// NewDocument splits text into lines and derives the document type from path.
func NewDocument(path, text string) *Document {
	return &Document{
		Path:    path,
		DocType: DocTypeForPath(path),
		Lines:   strings.Split(text, "\n"),
	}
}

// ID is a unique identifier within a conversation that LLMs can reproduce
// verbatim.
func (d *Document) ID() string {
	return "[SOURCE:" + d.Path + "]"
}

// LineCount returns the number of lines in the document.
func (d *Document) LineCount() int {
	return len(d.Lines)
}

// Text joins the lines back into the document text.
func (d *Document) Text() string {
	return strings.Join(d.Lines, "\n")
}

// copyIndent prefixes text with the leading whitespace of example.
func copyIndent(example, text string) string {
	trimmed := strings.TrimLeft(example, " \t")
	return example[:len(example)-len(trimmed)] + text
}
