// Package parser turns file content into symbols and references inside a
// code map. One parser exists per language or document format; each walks
// the concrete syntax tree produced by tree-sitter and attaches what it
// finds to the graph. Parsers never resolve names across files — that is
// the cross-referencing engine's job.
package parser

import (
	"path/filepath"
	"strings"
	"sync"

	"github.com/jward/codemap/internal/graph"
)

// Parser populates a code map from one file's content. Implementations must
// create exactly one SOURCE symbol spanning the file's full line count and
// attach every construct of interest below it.
type Parser interface {
	// Name identifies the parser.
	Name() string

	// Extensions lists the file extensions (without dot) the parser handles.
	Extensions() []string

	// Parse adds the file's symbols and references to the map.
	Parse(m *graph.CodeMap, path string, content []byte) error
}

// CrossReferencer is an optional second, format-specific resolution pass for
// linking the generic namespace engine cannot express — for example a markup
// attribute naming a type by string. It runs after all files are parsed and
// before the generic engine.
type CrossReferencer interface {
	CrossReference(m *graph.CodeMap, path string) error
}

var (
	registry     []Parser
	byExtension  map[string]Parser
	registryOnce sync.Once
)

func register(p Parser) {
	registry = append(registry, p)
}

func extensionMap() map[string]Parser {
	registryOnce.Do(func() {
		byExtension = make(map[string]Parser)
		for _, p := range registry {
			for _, ext := range p.Extensions() {
				byExtension[ext] = p
			}
		}
	})
	return byExtension
}

// Detect returns the parser responsible for the file, or nil when the
// format is unsupported.
func Detect(path string) Parser {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if ext == "" {
		return nil
	}
	return extensionMap()[ext]
}

// All returns every registered parser.
func All() []Parser {
	return registry
}
