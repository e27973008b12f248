package editing

import (
	"fmt"
	"strings"
)

// Hunk is a contiguous block of lines designated editable inside a document.
// Markers exclude sub-blocks from the editable text; they are rendered as
// placeholder lines the LLM must reproduce verbatim.
type Hunk struct {
	// Document backs the hunk.
	Document *Document

	// Block is the line range of the hunk within the document.
	Block Block

	// Markers are sorted, non-overlapping sub-blocks excluded from editing.
	Markers []Block

	// Replacement, when set, holds the edited lines (potentially still
	// containing markers) to splice back into the document.
	Replacement []string
}

// NewHunk creates a hunk over the given block of the document.
func NewHunk(doc *Document, block Block) *Hunk {
	return &Hunk{Document: doc, Block: block}
}

// WholeDocumentHunk creates a hunk spanning every line of the document.
func WholeDocumentHunk(doc *Document) *Hunk {
	return NewHunk(doc, Block{Begin: 0, End: doc.LineCount()})
}

// ID is a unique identifier within a conversation that LLMs can reproduce
// verbatim.
func (h *Hunk) ID() string {
	return fmt.Sprintf("[HUNK:%s#%d:%d]", h.Document.Path, h.Block.Begin, h.Block.End)
}

// Overlaps reports whether two hunks of the same document share lines.
func (h *Hunk) Overlaps(other *Hunk) bool {
	return h.Block.Overlaps(other.Block)
}

// AddMarker excludes a block of lines from editing. The marker must be
// contained by the hunk and must not overlap existing markers.
func (h *Hunk) AddMarker(marker Block) error {
	if !marker.Inside(h.Block) {
		return fmt.Errorf("marker %s is not contained by hunk %s", marker, h.Block)
	}
	markers, err := insortBlock(h.Markers, marker)
	if err != nil {
		return err
	}
	h.Markers = markers
	return nil
}

// Lines renders the hunk text with each marker replaced by its placeholder
// line, indented to match the excluded block.
func (h *Hunk) Lines() []string {
	original := h.Document.Lines

	var lines []string
	position := h.Block.Begin
	for _, marker := range h.Markers {
		lines = append(lines, original[position:marker.Begin]...)

		// Match the indentation of the first non-blank excluded line.
		indentExample := ""
		for _, line := range original[marker.Begin:marker.End] {
			if indentExample != "" {
				if strings.TrimSpace(line) != "" {
					indentExample = line
					break
				}
			} else if line != "" {
				indentExample = line
			}
		}
		lines = append(lines, copyIndent(indentExample, marker.Marker(h.Document.DocType)))

		position = marker.End
	}
	lines = append(lines, original[position:h.Block.End]...)
	return lines
}

// ApplyReplacement substitutes marker placeholders in the replacement text
// with the original excluded lines. Without a replacement it returns the
// original hunk lines.
func (h *Hunk) ApplyReplacement() []string {
	original := h.Document.Lines
	if h.Replacement == nil {
		return original[h.Block.Begin:h.Block.End]
	}

	markerMap := make(map[string]Block, len(h.Markers))
	for _, m := range h.Markers {
		markerMap[m.Marker(h.Document.DocType)] = m
	}

	var lines []string
	for _, line := range h.Replacement {
		replaced := false
		for id, marker := range markerMap {
			if strings.Contains(line, id) {
				lines = append(lines, original[marker.Begin:marker.End]...)
				delete(markerMap, id)
				replaced = true
				break
			}
		}
		if !replaced {
			lines = append(lines, line)
		}
	}
	return lines
}
