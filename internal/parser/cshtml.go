package parser

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/html"

	"github.com/jward/codemap/internal/editing"
	"github.com/jward/codemap/internal/graph"
)

func init() {
	register(&CshtmlParser{})
}

// CshtmlParser maps Razor views with the HTML grammar. Markup becomes
// ELEMENT and ATTRIBUTE symbols; @model and @using directives become USING
// symbols; asp-* tag helpers become CONTROLLER, ACTION and VARIABLE
// references that the parser resolves itself in a second pass, since they
// name C# symbols by string rather than through a namespace.
type CshtmlParser struct{}

func (p *CshtmlParser) Name() string { return "Cshtml" }

func (p *CshtmlParser) Extensions() []string { return []string{"cshtml"} }

func (p *CshtmlParser) Parse(m *graph.CodeMap, path string, content []byte) error {
	ts := sitter.NewParser()
	ts.SetLanguage(html.GetLanguage())
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

		// Razor directives surface as plain text between elements; one text
		// node may carry several directive lines.
		if n.Type() == "text" && cs.current().Category == graph.CategorySource {
			for i, line := range strings.Split(nodeText(n, content), "\n") {
				trimmed := strings.TrimSpace(line)
				for _, directive := range []string{"@model ", "@using "} {
					if strings.HasPrefix(trimmed, directive) {
						name := strings.TrimSpace(strings.TrimPrefix(trimmed, directive))
						lineBlock := editing.Block{Begin: begin + i, End: begin + i + 1}
						m.NewSymbol(cs.current(), graph.CategoryUsing, name, lineBlock)
					}
				}
			}
			return
		}

		if startTag := findFirst(n, "element", "start_tag"); startTag != nil {
			tagName := findFirst(startTag, "start_tag", "tag_name")
			if tagName == nil {
				return
			}
			symbol := m.NewSymbol(cs.current(), graph.CategoryElement, nodeText(tagName, content), block)
			cs.push(symbol, RelationChild, block.End)
			return
		}

		attrName := findFirst(n, "attribute", "attribute_name")
		if attrName == nil {
			return
		}
		qval := findFirst(n, "attribute", "quoted_attribute_value")
		if qval == nil {
			return
		}

		name := nodeText(attrName, content)
		attribute := m.NewSymbol(cs.current(), graph.CategoryAttribute, name, block)
		cs.push(attribute, RelationChild, block.End)

		value := findFirst(qval, "quoted_attribute_value", "attribute_value")
		if value == nil {
			return
		}

		switch lower := strings.ToLower(name); {
		// An action is a method of the controller class named alongside it.
		case lower == "asp-action":
			attribute.AddReference(nodeText(value, content), graph.CategoryAction)

		// Controller classes follow the "Controller" suffix convention; the
		// attribute carries the bare name.
		case lower == "asp-controller":
			attribute.AddReference(nodeText(value, content), graph.CategoryController)

		// Route values like "@Model.CategoryId" reference a data member of
		// the view model.
		case strings.HasPrefix(lower, "asp-route-"):
			ref := nodeText(value, content)
			if _, member, ok := strings.Cut(ref, "."); ok {
				attribute.AddReference(member, graph.CategoryVariable)
			}
		}
	})
	return nil
}

// CrossReference resolves the string-typed references tag helpers leave
// behind: CONTROLLER against TYPE symbols with the conventional suffix,
// ACTION against FUNCTION children of controller types, and VARIABLE
// against variable symbols anywhere in the map. Resolved or not, the
// references are consumed so the generic engine never sees them.
func (p *CshtmlParser) CrossReference(m *graph.CodeMap, path string) error {
	source := m.Source(path)
	if source == nil {
		return fmt.Errorf("no source symbol for %s", path)
	}

	types := m.SymbolsWithCategory(graph.CategoryType)
	variables := m.SymbolsWithCategory(graph.CategoryVariable)

	for _, visit := range m.WalkChildren(source) {
		s := visit.Symbol
		for ref := range s.References {
			switch ref.Category {
			case graph.CategoryController:
				want := ref.Name + "Controller"
				for _, t := range types {
					if t.Name == want {
						s.Uses(t)
					}
				}
			case graph.CategoryAction:
				for _, t := range types {
					if !strings.HasSuffix(t.Name, "Controller") {
						continue
					}
					for _, fn := range m.ChildrenOf(t, graph.CategoryFunction) {
						if fn.Name == ref.Name {
							s.Uses(fn)
						}
					}
				}
			case graph.CategoryVariable:
				for _, v := range variables {
					if v.Name == ref.Name {
						s.Uses(v)
					}
				}
			default:
				continue
			}
			delete(s.References, ref)
		}
	}
	return nil
}
