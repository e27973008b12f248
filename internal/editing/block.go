package editing

import "fmt"

// Block is a half-open range of consecutive lines inside one document.
// Begin and End are zero-based line indices; End is the first line after the
// block. Blocks from different files must never be compared.
type Block struct {
	Begin int
	End   int
}

// NewBlock validates 0 <= begin <= end and returns the block.
func NewBlock(begin, end int) (Block, error) {
	if begin < 0 || begin > end {
		return Block{}, fmt.Errorf("invalid block range: begin=%d, end=%d", begin, end)
	}
	return Block{Begin: begin, End: end}, nil
}

// LineCount returns the number of lines covered by the block.
func (b Block) LineCount() int {
	return b.End - b.Begin
}

// Overlaps reports whether b and other share at least one line.
func (b Block) Overlaps(other Block) bool {
	return b.Begin < other.End && b.End > other.Begin
}

// Inside reports whether b is fully contained by other.
func (b Block) Inside(other Block) bool {
	return b.Begin >= other.Begin && b.End <= other.End
}

func (b Block) String() string {
	return fmt.Sprintf("%d:%d", b.Begin, b.End)
}

// MarkerName is the stable identifier LLMs must reproduce verbatim when a
// hunk excludes a block of lines from editing.
const MarkerName = "CodeMap.Marker"

// Marker formats the placeholder line standing in for an excluded block.
// The syntax must keep the surrounding document valid, so it varies by
// document type.
func (b Block) Marker(doctype DocType) string {
	switch doctype {
	case DocTypeMarkdown, DocTypeText, DocTypeUnknown:
		return fmt.Sprintf("**%s#%d:%d**", MarkerName, b.Begin, b.End)
	case DocTypeGo:
		return fmt.Sprintf("%s(\"%d:%d\")", MarkerName, b.Begin, b.End)
	case DocTypeCSharp:
		return fmt.Sprintf("%s(\"%d:%d\");", MarkerName, b.Begin, b.End)
	case DocTypeCshtml:
		return fmt.Sprintf("<span class=\"%s\">%d:%d</span>", MarkerName, b.Begin, b.End)
	default:
		return fmt.Sprintf("**%s#%d:%d**", MarkerName, b.Begin, b.End)
	}
}

// insortBlock inserts block into a begin-sorted slice, rejecting duplicates
// and overlaps with its new neighbors.
func insortBlock(blocks []Block, block Block) ([]Block, error) {
	i := 0
	for i < len(blocks) && blocks[i].Begin < block.Begin {
		i++
	}
	if i > 0 && blocks[i-1].Overlaps(block) {
		return nil, fmt.Errorf("overlapping block: %s, %s", block, blocks[i-1])
	}
	if i < len(blocks) && block.Overlaps(blocks[i]) {
		return nil, fmt.Errorf("overlapping block: %s, %s", block, blocks[i])
	}
	blocks = append(blocks, Block{})
	copy(blocks[i+1:], blocks[i:])
	blocks[i] = block
	return blocks, nil
}
