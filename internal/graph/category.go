package graph

// Category is the closed classification of the construct a Symbol represents.
type Category string

const (
	// CategorySource is one specific source file; the root of every per-file
	// symbol tree, always present.
	CategorySource Category = "SOURCE"

	// CategoryBlock is a named but untyped document block (section, CSS
	// style, free-form fragment).
	CategoryBlock Category = "BLOCK"

	// CategoryImport marks importing or including a specific source file.
	CategoryImport Category = "IMPORT"

	// CategoryNamespace is a namespace declaration.
	CategoryNamespace Category = "NAMESPACE"

	// CategoryUsing marks a namespace import (using directive).
	CategoryUsing Category = "USING"

	// CategoryType is a type, type alias, enum, interface, trait, class,
	// struct or record.
	CategoryType Category = "TYPE"

	// CategoryFunction is a function, method or constructor declaration.
	CategoryFunction Category = "FUNCTION"

	// CategoryVariable is a variable or property (global, member, local).
	CategoryVariable Category = "VARIABLE"

	// CategoryElement is a markup element (opening tag through closing tag).
	CategoryElement Category = "ELEMENT"

	// CategoryAttribute is a markup element attribute.
	CategoryAttribute Category = "ATTRIBUTE"

	// CategoryController names an MVC controller type by convention; only
	// used by markup references, resolved by the markup parser's own pass.
	CategoryController Category = "CONTROLLER"

	// CategoryAction names an MVC controller action method; only used by
	// markup references, resolved by the markup parser's own pass.
	CategoryAction Category = "ACTION"
)

// namespaceAwareCategories participate in scoped name resolution. SOURCE and
// NAMESPACE define scope but are never resolved themselves.
var namespaceAwareCategories = map[Category]bool{
	CategoryUsing:    true,
	CategoryType:     true,
	CategoryFunction: true,
	CategoryVariable: true,
}

// NamespaceAware reports whether symbols of this category are indexed under
// their enclosing namespace during cross-referencing.
func (c Category) NamespaceAware() bool {
	return namespaceAwareCategories[c]
}
