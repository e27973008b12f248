package codemap

import (
	"github.com/jward/codemap/internal/editing"
	"github.com/jward/codemap/internal/graph"
)

// Public type aliases for the internal graph and editing types used in the
// Engine API.
type (
	CodeMap        = graph.CodeMap
	Symbol         = graph.Symbol
	Reference      = graph.Reference
	Category       = graph.Category
	Visit          = graph.Visit
	RelevantSource = graph.RelevantSource

	Block    = editing.Block
	Document = editing.Document
	Hunk     = editing.Hunk
	Patch    = editing.Patch
	DocType  = editing.DocType
)

// Symbol categories.
const (
	CategorySource     = graph.CategorySource
	CategoryBlock      = graph.CategoryBlock
	CategoryImport     = graph.CategoryImport
	CategoryNamespace  = graph.CategoryNamespace
	CategoryUsing      = graph.CategoryUsing
	CategoryType       = graph.CategoryType
	CategoryFunction   = graph.CategoryFunction
	CategoryVariable   = graph.CategoryVariable
	CategoryElement    = graph.CategoryElement
	CategoryAttribute  = graph.CategoryAttribute
	CategoryController = graph.CategoryController
	CategoryAction     = graph.CategoryAction
)
