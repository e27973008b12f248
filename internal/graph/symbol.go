package graph

import (
	"crypto/sha1"
	"fmt"

	"github.com/jward/codemap/internal/editing"
)

// Reference is an unresolved (name, expected category) pair collected while
// parsing. Cross-referencing turns references into dependency edges and then
// discards them; they never outlive the batch pass.
type Reference struct {
	Name     string
	Category Category
}

// Symbol is a node of the code map: one named program or document construct.
// Identity is derived from (path, block, category, name); two constructs
// parsing to the same tuple are the same node.
type Symbol struct {
	// Path is the project-relative path of the defining source file.
	Path string

	// Block covers the entire definition, nested children included.
	Block editing.Block

	// Category classifies the construct.
	Category Category

	// Name is the unqualified name; for SOURCE symbols it is the path.
	Name string

	// Parent is the ID of the enclosing symbol; empty only for SOURCE.
	Parent string

	// Children holds the IDs of the symbols directly under this one.
	Children map[string]bool

	// Dependencies holds the IDs of symbols this one uses. Every entry has a
	// matching entry in the target's Dependents.
	Dependencies map[string]bool

	// Dependents holds the IDs of symbols using this one; the inverse of
	// Dependencies.
	Dependents map[string]bool

	// References are collected while parsing and consumed by
	// cross-referencing; nil afterwards.
	References map[Reference]bool

	id string
}

// ID returns the derived identity of the symbol.
func (s *Symbol) ID() string {
	return s.id
}

// AddReference records an unresolved use of name with the expected category.
func (s *Symbol) AddReference(name string, category Category) {
	if s.References == nil {
		s.References = make(map[Reference]bool)
	}
	s.References[Reference{Name: name, Category: category}] = true
}

// Uses records that s depends on target, maintaining the edge on both sides.
func (s *Symbol) Uses(target *Symbol) {
	s.Dependencies[target.id] = true
	target.Dependents[s.id] = true
}

// UsedBy records that target depends on s; the inverse of Uses.
func (s *Symbol) UsedBy(target *Symbol) {
	s.Dependents[target.id] = true
	target.Dependencies[s.id] = true
}

func (s *Symbol) String() string {
	return s.id
}

// symbolID derives the identity string for the given tuple. With hashed set,
// the identity is an opaque SHA-1 digest instead of the readable form.
func symbolID(path string, block editing.Block, category Category, name string, hashed bool) string {
	id := fmt.Sprintf("%s#%d:%d|%s|%s", path, block.Begin, block.End, category, name)
	if hashed {
		id = fmt.Sprintf("%x", sha1.Sum([]byte(id)))
	}
	return id
}

func newSymbol(path string, block editing.Block, parent *Symbol, category Category, name string, hashed bool) *Symbol {
	s := &Symbol{
		Path:         path,
		Block:        block,
		Category:     category,
		Name:         name,
		Children:     make(map[string]bool),
		Dependencies: make(map[string]bool),
		Dependents:   make(map[string]bool),
		References:   make(map[Reference]bool),
		id:           symbolID(path, block, category, name, hashed),
	}
	if parent != nil {
		s.Parent = parent.id
		parent.Children[s.id] = true
	}
	return s
}
