package parser

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/csharp"

	"github.com/jward/codemap/internal/editing"
	"github.com/jward/codemap/internal/graph"
)

func init() {
	register(&CSharpParser{})
}

// CSharpParser walks the C# concrete syntax tree, collecting namespaces,
// types, functions, fields, properties and local variables, plus one
// reference per identifier use inside namespace-aware contexts.
type CSharpParser struct{}

func (p *CSharpParser) Name() string { return "CSharp" }

func (p *CSharpParser) Extensions() []string { return []string{"cs"} }

// typeDeclarations are the node types mapped to TYPE symbols.
var typeDeclarations = []string{
	"class_declaration",
	"interface_declaration",
	"struct_declaration",
	"record_declaration",
	"enum_declaration",
}

// functionDeclarations are the node types mapped to FUNCTION symbols.
var functionDeclarations = []string{
	"method_declaration",
	"constructor_declaration",
	"local_function_statement",
}

func (p *CSharpParser) Parse(m *graph.CodeMap, path string, content []byte) error {
	ts := sitter.NewParser()
	ts.SetLanguage(csharp.GetLanguage())
	tree, err := ts.ParseCtx(context.Background(), nil, content)
	if err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	defer tree.Close()

	doc := editing.NewDocument(path, string(content))
	source := m.NewSource(doc)
	cs := newContextStack(m, source)

	walkNodes(tree.RootNode(), func(n *sitter.Node, line, depth int) {
		begin, end := nodeLines(n, content)
		block := editing.Block{Begin: begin, End: end}
		cs.popPast(line)

		if id := firstOf(n, "using_directive", "qualified_name", "identifier"); id != nil {
			name := nodeText(id, content)
			m.NewSymbol(cs.current(), graph.CategoryUsing, name, block)
			cs.current().AddReference(name, graph.CategoryNamespace)
			return
		}

		if id := firstOf(n, "namespace_declaration", "qualified_name", "identifier"); id != nil {
			name := nodeText(id, content)
			symbol := m.NewSymbol(cs.current(), graph.CategoryNamespace, name, block)
			cs.push(symbol, RelationChild, block.End)
			return
		}

		// A file-scoped namespace has no body node; it scopes everything
		// after the directive.
		if id := firstOf(n, "file_scoped_namespace_declaration", "qualified_name", "identifier"); id != nil {
			name := nodeText(id, content)
			nsBlock := editing.Block{Begin: begin, End: source.Block.End}
			symbol := m.NewSymbol(cs.current(), graph.CategoryNamespace, name, nsBlock)
			cs.push(symbol, RelationChild, nsBlock.End)
			return
		}

		if id := firstOfTypes(n, typeDeclarations, "identifier"); id != nil {
			name := nodeText(id, content)
			symbol := m.NewSymbol(cs.current(), graph.CategoryType, name, block)
			cs.push(symbol, RelationChild, block.End)
			return
		}

		if id := firstOfTypes(n, functionDeclarations, "identifier"); id != nil {
			name := nodeText(id, content)
			symbol := m.NewSymbol(cs.current(), graph.CategoryFunction, name, block)
			cs.push(symbol, RelationChild, block.End)
			return
		}

		if cs.current().Category == graph.CategoryType {
			id := findFirst(n, "field_declaration", "variable_declaration", "variable_declarator", "identifier")
			if id == nil {
				id = findFirst(n, "property_declaration", "identifier")
			}
			if id != nil {
				name := nodeText(id, content)
				symbol := m.NewSymbol(cs.current(), graph.CategoryVariable, name, block)
				cs.push(symbol, RelationChild, block.End)
				return
			}
		}

		if cs.current().Category == graph.CategoryFunction {
			// Local variables become symbols but not contexts: references in
			// their initializers attach to the enclosing function, the
			// nearest non-statement ancestor.
			if id := findFirst(n, "local_declaration_statement", "variable_declaration", "variable_declarator", "identifier"); id != nil {
				name := nodeText(id, content)
				m.NewSymbol(cs.current(), graph.CategoryVariable, name, block)
				return
			}
		}

		if n.Type() == "identifier" && cs.current().Category.NamespaceAware() {
			name := nodeText(n, content)
			current := cs.current()
			if current.Name != name || current.Block.Begin < block.Begin {
				// The expected category is unknown at parse time; record all
				// three and let cross-referencing keep what matches.
				current.AddReference(name, graph.CategoryType)
				current.AddReference(name, graph.CategoryFunction)
				current.AddReference(name, graph.CategoryVariable)
			}
		}
	})
	return nil
}

// firstOf tries findFirst with each alternative child type under parentType.
func firstOf(n *sitter.Node, parentType string, alternatives ...string) *sitter.Node {
	for _, alt := range alternatives {
		if found := findFirst(n, parentType, alt); found != nil {
			return found
		}
	}
	return nil
}

// firstOfTypes tries firstOf for each of the parent node types.
func firstOfTypes(n *sitter.Node, parentTypes []string, alternatives ...string) *sitter.Node {
	for _, parentType := range parentTypes {
		if found := firstOf(n, parentType, alternatives...); found != nil {
			return found
		}
	}
	return nil
}
