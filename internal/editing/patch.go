package editing

import (
	"fmt"
	"sort"
	"strings"
)

// Patch is a set of hunk replacements for one document. Hunks must be
// disjoint; overlap indicates a caller defect and fails immediately.
type Patch struct {
	// Document is the original document.
	Document *Document

	// Hunks to apply, sorted by SortAndVerify.
	Hunks []*Hunk
}

// NewPatch creates a patch over the document from the given hunks.
func NewPatch(doc *Document, hunks []*Hunk) *Patch {
	return &Patch{Document: doc, Hunks: hunks}
}

// Apply substitutes every hunk's replacement and returns a new Document with
// the same path and type. The original document is left untouched.
func (p *Patch) Apply() (*Document, error) {
	if err := p.sortAndVerify(); err != nil {
		return nil, err
	}

	original := p.Document.Lines
	var lines []string
	position := 0
	for _, hunk := range p.Hunks {
		lines = append(lines, original[position:hunk.Block.Begin]...)
		lines = append(lines, hunk.ApplyReplacement()...)
		position = hunk.Block.End
	}
	lines = append(lines, original[position:]...)

	return &Document{
		Path:    p.Document.Path,
		DocType: p.Document.DocType,
		Lines:   lines,
	}, nil
}

// MergeHunks folds all hunks into a single spanning hunk, turning each
// non-blank gap between neighboring hunks into a marker. Blank gaps stay
// visible so the merged hunk reads naturally.
func (p *Patch) MergeHunks() error {
	if len(p.Hunks) <= 1 {
		return nil
	}
	if err := p.sortAndVerify(); err != nil {
		return err
	}

	original := p.Document.Lines
	start := p.Hunks[0].Block.Begin
	end := p.Hunks[len(p.Hunks)-1].Block.End

	merged := NewHunk(p.Document, Block{Begin: start, End: end})
	for i := 0; i+1 < len(p.Hunks); i++ {
		a, b := p.Hunks[i].Block, p.Hunks[i+1].Block
		if a.End == b.Begin {
			continue
		}
		gap := strings.Join(original[a.End:b.Begin], "\n")
		if strings.TrimSpace(gap) == "" {
			continue
		}
		if err := merged.AddMarker(Block{Begin: a.End, End: b.Begin}); err != nil {
			return err
		}
	}

	p.Hunks = []*Hunk{merged}
	return nil
}

// sortAndVerify orders the hunks by start line and checks document bounds
// and pairwise disjointness.
func (p *Patch) sortAndVerify() error {
	if len(p.Hunks) == 0 {
		return nil
	}

	sort.Slice(p.Hunks, func(i, j int) bool {
		return p.Hunks[i].Block.Begin < p.Hunks[j].Block.Begin
	})

	if p.Hunks[0].Block.Begin < 0 {
		return fmt.Errorf("hunk is outside of the document: %s, line_count=%d", p.Hunks[0].ID(), p.Document.LineCount())
	}
	if last := p.Hunks[len(p.Hunks)-1]; last.Block.End > p.Document.LineCount() {
		return fmt.Errorf("hunk is outside of the document: %s, line_count=%d", last.ID(), p.Document.LineCount())
	}
	for i := 0; i+1 < len(p.Hunks); i++ {
		if p.Hunks[i].Overlaps(p.Hunks[i+1]) {
			return fmt.Errorf("overlapping hunks: %s, %s", p.Hunks[i].ID(), p.Hunks[i+1].ID())
		}
	}
	return nil
}
