package analyzer

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/augur-dev/augur/pkg/models"
	"github.com/augur-dev/augur/pkg/parser"
)

// ExtractDeclarations parses one source file and returns the class
// declarations it contains. Files in non-OO languages yield nil.
func ExtractDeclarations(psr *parser.Parser, path string) ([]models.ClassDeclaration, error) {
	result, err := psr.ParseFile(path)
	if err != nil {
		return nil, err
	}
	return DeclarationsFromTree(result), nil
}

// DeclarationsFromTree extracts class declarations from a parsed file,
// nested classes included.
func DeclarationsFromTree(result *parser.ParseResult) []models.ClassDeclaration {
	var decls []models.ClassDeclaration

	root := result.Tree.RootNode()
	parser.Walk(root, result.Source, func(node *sitter.Node, source []byte) bool {
		if !isClassNode(node.Type(), result.Language) {
			return true
		}
		decl := extractClass(node, source, result.Language, result.Path)
		if decl.Name != "" {
			decls = append(decls, decl)
		}
		// Keep descending: nested classes get their own declaration.
		return true
	})

	return decls
}

// isClassNode checks if a node type represents a class-like type.
func isClassNode(nodeType string, lang parser.Language) bool {
	switch lang {
	case parser.LangJava:
		return nodeType == "class_declaration"
	case parser.LangTypeScript, parser.LangJavaScript, parser.LangTSX:
		return nodeType == "class_declaration" || nodeType == "class"
	case parser.LangPython:
		return nodeType == "class_definition"
	case parser.LangCSharp:
		return nodeType == "class_declaration" || nodeType == "struct_declaration"
	case parser.LangCPP:
		return nodeType == "class_specifier" || nodeType == "struct_specifier"
	case parser.LangRuby:
		return nodeType == "class"
	case parser.LangPHP:
		return nodeType == "class_declaration"
	default:
		return false
	}
}

// extractClass builds a ClassDeclaration from a class AST node.
func extractClass(classNode *sitter.Node, source []byte, lang parser.Language, path string) models.ClassDeclaration {
	decl := models.ClassDeclaration{
		Path:     path,
		Language: string(lang),
	}

	if nameNode := classNode.ChildByFieldName("name"); nameNode != nil {
		decl.Name = parser.GetNodeText(nameNode, source)
	}
	if decl.Name == "" {
		return decl
	}

	decl.BaseClass = extractBaseClass(classNode, source, lang)

	switch lang {
	case parser.LangCPP:
		extractCPPMembers(classNode, source, &decl)
	case parser.LangPython:
		extractPythonMembers(classNode, source, &decl)
	case parser.LangRuby:
		extractRubyMembers(classNode, source, &decl)
	default:
		extractMembers(classNode, source, lang, &decl)
	}

	return decl
}

// extractBaseClass returns the single extends-style base class name, or ""
// when the class declares none. Interface/implements lists are ignored:
// multiple-inheritance resolution is out of scope, so the first extends
// parent wins.
func extractBaseClass(classNode *sitter.Node, source []byte, lang parser.Language) string {
	switch lang {
	case parser.LangJava:
		// class Foo extends Bar implements Baz
		if superclass := classNode.ChildByFieldName("superclass"); superclass != nil {
			return firstTypeName(superclass, source)
		}

	case parser.LangTypeScript, parser.LangJavaScript, parser.LangTSX:
		// class Foo extends Bar implements Baz
		for i := 0; i < int(classNode.ChildCount()); i++ {
			child := classNode.Child(i)
			if child.Type() == "extends_clause" {
				return firstTypeName(child, source)
			}
			if child.Type() == "class_heritage" {
				// JS heritage has no separate extends/implements split.
				if name := firstTypeName(child, source); name != "" {
					return name
				}
			}
		}

	case parser.LangPython:
		// class Foo(Bar, Baz): the first positional base wins.
		if argList := classNode.ChildByFieldName("superclasses"); argList != nil {
			return firstPythonBase(argList, source)
		}
		for i := 0; i < int(classNode.ChildCount()); i++ {
			child := classNode.Child(i)
			if child.Type() == "argument_list" {
				return firstPythonBase(child, source)
			}
		}

	case parser.LangCSharp:
		// class Foo : Bar, IBaz
		if baseList := classNode.ChildByFieldName("bases"); baseList != nil {
			return firstTypeName(baseList, source)
		}
		for i := 0; i < int(classNode.ChildCount()); i++ {
			child := classNode.Child(i)
			if child.Type() == "base_list" {
				return firstTypeName(child, source)
			}
		}

	case parser.LangCPP:
		// class Foo : public Bar
		for i := 0; i < int(classNode.ChildCount()); i++ {
			child := classNode.Child(i)
			if child.Type() == "base_class_clause" {
				return firstTypeName(child, source)
			}
		}

	case parser.LangRuby:
		// class Foo < Bar
		if superclass := classNode.ChildByFieldName("superclass"); superclass != nil {
			return firstConstantName(superclass, source)
		}

	case parser.LangPHP:
		// class Foo extends Bar implements Baz
		for i := 0; i < int(classNode.ChildCount()); i++ {
			child := classNode.Child(i)
			if child.Type() == "base_clause" {
				return firstTypeName(child, source)
			}
		}
	}

	return ""
}

// typeNameNodeTypes are AST node types that carry a type name across the
// supported grammars.
var typeNameNodeTypes = map[string]bool{
	"type_identifier":        true,
	"identifier":             true,
	"scoped_type_identifier": true,
	"qualified_name":         true,
	"generic_type":           true,
	"generic_name":           true,
	"name":                   true,
	"attribute":              true,
}

// baseNameStopWords are keywords and access specifiers that show up inside
// heritage clauses and must not be mistaken for a class name.
var baseNameStopWords = map[string]bool{
	"extends": true, "implements": true,
	"public": true, "private": true, "protected": true, "virtual": true,
}

// firstTypeName finds the first type name mentioned under a heritage-style
// node, skipping keywords and access specifiers.
func firstTypeName(node *sitter.Node, source []byte) string {
	var found string
	parser.Walk(node, source, func(n *sitter.Node, s []byte) bool {
		if found != "" {
			return false
		}
		if typeNameNodeTypes[n.Type()] {
			name := cleanTypeName(parser.GetNodeText(n, s))
			if name != "" && !baseNameStopWords[name] {
				found = name
				return false
			}
		}
		return true
	})
	return found
}

// firstPythonBase returns the first positional base in a superclass
// argument list, skipping keyword arguments like metaclass=...
func firstPythonBase(argList *sitter.Node, source []byte) string {
	for i := 0; i < int(argList.ChildCount()); i++ {
		child := argList.Child(i)
		if child.Type() == "identifier" || child.Type() == "attribute" {
			name := cleanTypeName(parser.GetNodeText(child, source))
			if name != "" {
				// Qualified bases like module.Base key on the final segment.
				if idx := strings.LastIndex(name, "."); idx >= 0 {
					name = name[idx+1:]
				}
				return name
			}
		}
	}
	return ""
}

// firstConstantName finds the first Ruby constant under a superclass node.
func firstConstantName(node *sitter.Node, source []byte) string {
	var found string
	parser.Walk(node, source, func(n *sitter.Node, s []byte) bool {
		if found != "" {
			return false
		}
		if n.Type() == "constant" {
			found = parser.GetNodeText(n, s)
			return false
		}
		return true
	})
	return found
}

// cleanTypeName strips generic parameters and surrounding whitespace:
// List<String> -> List.
func cleanTypeName(name string) string {
	for i, c := range name {
		if c == '<' || c == '[' {
			name = name[:i]
			break
		}
	}
	return strings.TrimSpace(name)
}

// methodNodeTypes returns the AST node types for methods per language.
func methodNodeTypes(lang parser.Language) []string {
	switch lang {
	case parser.LangJava:
		return []string{"method_declaration", "constructor_declaration"}
	case parser.LangTypeScript, parser.LangJavaScript, parser.LangTSX:
		return []string{"method_definition"}
	case parser.LangCSharp:
		return []string{"method_declaration", "constructor_declaration"}
	case parser.LangPHP:
		return []string{"method_declaration"}
	default:
		return nil
	}
}

// fieldNodeTypes returns the AST node types for fields per language.
func fieldNodeTypes(lang parser.Language) []string {
	switch lang {
	case parser.LangJava:
		return []string{"field_declaration"}
	case parser.LangTypeScript, parser.LangJavaScript, parser.LangTSX:
		return []string{"public_field_definition", "field_definition"}
	case parser.LangCSharp:
		return []string{"field_declaration", "property_declaration"}
	case parser.LangPHP:
		return []string{"property_declaration"}
	default:
		return nil
	}
}

// extractMembers handles the languages whose class bodies carry explicit
// modifier lists (Java, C#, TS/JS, PHP). The walk prunes nested classes so
// their members attach to their own declaration.
func extractMembers(classNode *sitter.Node, source []byte, lang parser.Language, decl *models.ClassDeclaration) {
	methods := methodNodeTypes(lang)
	fields := fieldNodeTypes(lang)

	parser.Walk(classNode, source, func(node *sitter.Node, s []byte) bool {
		if node != classNode && isClassNode(node.Type(), lang) {
			return false
		}

		for _, mt := range methods {
			if node.Type() == mt {
				decl.Methods = append(decl.Methods, models.MethodDecl{
					IsOverride: hasOverrideModifier(node, s, lang),
					Visibility: modifierVisibility(node, s, lang),
				})
				return false
			}
		}

		for _, ft := range fields {
			if node.Type() == ft {
				vis := modifierVisibility(node, s, lang)
				for range fieldDeclaratorCount(node) {
					decl.Fields = append(decl.Fields, models.FieldDecl{Visibility: vis})
				}
				return false
			}
		}

		return true
	})
}

// fieldDeclaratorCount counts how many variables one field declaration
// introduces (int a, b, c; is three fields). Declarations without
// declarator children count as one.
func fieldDeclaratorCount(node *sitter.Node) int {
	count := 0
	for i := 0; i < int(node.ChildCount()); i++ {
		switch node.Child(i).Type() {
		case "variable_declarator", "property_element":
			count++
		case "variable_declaration":
			inner := node.Child(i)
			for j := 0; j < int(inner.ChildCount()); j++ {
				if inner.Child(j).Type() == "variable_declarator" {
					count++
				}
			}
		}
	}
	if count == 0 {
		return 1
	}
	return count
}

// modifierVisibility reads a member's access level from its modifier list.
// Members with no recognizable access modifier map to the language default:
// C# members default to private, everything else to "other" (Java package
// visibility, TS/JS implicit public, and so on).
func modifierVisibility(node *sitter.Node, source []byte, lang parser.Language) models.Visibility {
	vis := models.VisibilityOther
	if lang == parser.LangCSharp {
		vis = models.VisibilityPrivate
	}
	if lang == parser.LangTypeScript || lang == parser.LangTSX || lang == parser.LangJavaScript {
		vis = models.VisibilityPublic
	}

	parser.Walk(node, source, func(n *sitter.Node, s []byte) bool {
		switch n.Type() {
		case "modifiers", "modifier", "accessibility_modifier", "visibility_modifier":
			switch {
			case containsWord(parser.GetNodeText(n, s), "public"):
				vis = models.VisibilityPublic
			case containsWord(parser.GetNodeText(n, s), "private"):
				vis = models.VisibilityPrivate
			case containsWord(parser.GetNodeText(n, s), "protected"):
				vis = models.VisibilityProtected
			}
			return false
		case "block", "statement_block", "constructor_body", "compound_statement":
			// Modifiers never live inside the body.
			return false
		}
		return true
	})

	// TS/JS private identifiers: #name.
	if nameNode := node.ChildByFieldName("name"); nameNode != nil {
		if strings.HasPrefix(parser.GetNodeText(nameNode, source), "#") {
			vis = models.VisibilityPrivate
		}
	}

	return vis
}

// containsWord reports whether text contains word as a whitespace-separated
// token (modifier lists render as "public static final").
func containsWord(text, word string) bool {
	for f := range strings.FieldsSeq(text) {
		if f == word {
			return true
		}
	}
	return false
}

// hasOverrideModifier detects an explicit override marker: @Override in
// Java, the override keyword in C# and TypeScript. PHP and JS carry no
// marker, so their methods never count as overrides.
func hasOverrideModifier(node *sitter.Node, source []byte, lang parser.Language) bool {
	found := false
	parser.Walk(node, source, func(n *sitter.Node, s []byte) bool {
		if found {
			return false
		}
		switch n.Type() {
		case "marker_annotation", "annotation":
			if strings.TrimPrefix(parser.GetNodeText(n, s), "@") == "Override" {
				found = true
			}
			return false
		case "modifier", "modifiers", "override_modifier":
			if containsWord(parser.GetNodeText(n, s), "override") || n.Type() == "override_modifier" {
				found = true
			}
			return false
		case "block", "statement_block", "constructor_body":
			return false
		}
		return true
	})
	return found
}

// extractPythonMembers extracts method and field declarations from a Python
// class. Visibility follows naming convention: __name (non-dunder) is
// private, _name is protected, anything else public. A method counts as an
// override only under an explicit @override decorator; Python has no other
// reliable marker.
func extractPythonMembers(classNode *sitter.Node, source []byte, decl *models.ClassDeclaration) {
	seenFields := make(map[string]bool)

	parser.Walk(classNode, source, func(node *sitter.Node, s []byte) bool {
		if node != classNode && node.Type() == "class_definition" {
			return false
		}

		switch node.Type() {
		case "function_definition":
			name := parser.GetNodeText(node.ChildByFieldName("name"), s)
			decl.Methods = append(decl.Methods, models.MethodDecl{
				IsOverride: pythonHasOverrideDecorator(node, s),
				Visibility: pythonNameVisibility(name),
			})
			// Descend anyway: self.field assignments live in method bodies.
			return true

		case "assignment":
			if name, ok := pythonFieldName(node, s); ok && !seenFields[name] {
				seenFields[name] = true
				decl.Fields = append(decl.Fields, models.FieldDecl{
					Visibility: pythonNameVisibility(name),
				})
			}
			return false
		}
		return true
	})
}

// pythonFieldName recognizes self.x = ... inside methods and plain x = ...
// class attributes.
func pythonFieldName(assign *sitter.Node, source []byte) (string, bool) {
	left := assign.ChildByFieldName("left")
	if left == nil {
		return "", false
	}
	switch left.Type() {
	case "attribute":
		obj := left.ChildByFieldName("object")
		attr := left.ChildByFieldName("attribute")
		if obj != nil && attr != nil && parser.GetNodeText(obj, source) == "self" {
			return parser.GetNodeText(attr, source), true
		}
	case "identifier":
		return parser.GetNodeText(left, source), true
	}
	return "", false
}

// pythonNameVisibility maps Python naming convention to visibility.
func pythonNameVisibility(name string) models.Visibility {
	switch {
	case name == "":
		return models.VisibilityOther
	case strings.HasPrefix(name, "__") && !strings.HasSuffix(name, "__"):
		return models.VisibilityPrivate
	case strings.HasPrefix(name, "_"):
		return models.VisibilityProtected
	default:
		return models.VisibilityPublic
	}
}

// pythonHasOverrideDecorator checks the decorators wrapping a method for
// @override / @typing.override.
func pythonHasOverrideDecorator(funcNode *sitter.Node, source []byte) bool {
	wrapper := funcNode.Parent()
	if wrapper == nil || wrapper.Type() != "decorated_definition" {
		return false
	}
	for i := 0; i < int(wrapper.ChildCount()); i++ {
		child := wrapper.Child(i)
		if child.Type() != "decorator" {
			continue
		}
		text := strings.TrimPrefix(parser.GetNodeText(child, source), "@")
		if text == "override" || strings.HasSuffix(text, ".override") {
			return true
		}
	}
	return false
}

// extractCPPMembers walks a C++ class body tracking access sections.
// Members before the first access specifier default to private in a class
// and public in a struct. A method counts as an override when its
// declarator carries the override virt-specifier.
func extractCPPMembers(classNode *sitter.Node, source []byte, decl *models.ClassDeclaration) {
	body := classNode.ChildByFieldName("body")
	if body == nil {
		return
	}

	current := models.VisibilityPrivate
	if classNode.Type() == "struct_specifier" {
		current = models.VisibilityPublic
	}

	for i := 0; i < int(body.ChildCount()); i++ {
		child := body.Child(i)
		switch child.Type() {
		case "access_specifier":
			switch {
			case strings.HasPrefix(parser.GetNodeText(child, source), "public"):
				current = models.VisibilityPublic
			case strings.HasPrefix(parser.GetNodeText(child, source), "protected"):
				current = models.VisibilityProtected
			default:
				current = models.VisibilityPrivate
			}

		case "function_definition":
			decl.Methods = append(decl.Methods, models.MethodDecl{
				IsOverride: cppHasOverrideSpecifier(child, source),
				Visibility: current,
			})

		case "field_declaration":
			if hasFunctionDeclarator(child) {
				decl.Methods = append(decl.Methods, models.MethodDecl{
					IsOverride: cppHasOverrideSpecifier(child, source),
					Visibility: current,
				})
			} else {
				decl.Fields = append(decl.Fields, models.FieldDecl{Visibility: current})
			}
		}
	}
}

// hasFunctionDeclarator distinguishes method declarations from data members
// inside a C++ field_declaration.
func hasFunctionDeclarator(node *sitter.Node) bool {
	found := false
	parser.Walk(node, nil, func(n *sitter.Node, _ []byte) bool {
		if n.Type() == "function_declarator" {
			found = true
		}
		return !found
	})
	return found
}

// cppHasOverrideSpecifier checks for the override virt-specifier.
func cppHasOverrideSpecifier(node *sitter.Node, source []byte) bool {
	found := false
	parser.Walk(node, source, func(n *sitter.Node, s []byte) bool {
		if found {
			return false
		}
		if n.Type() == "virtual_specifier" && parser.GetNodeText(n, s) == "override" {
			found = true
			return false
		}
		if n.Type() == "compound_statement" {
			return false
		}
		return true
	})
	return found
}

// extractRubyMembers extracts methods and instance variables from a Ruby
// class. Methods report "other" visibility (runtime private/protected calls
// are not resolved); instance variables are private by language rule. Ruby
// has no override marker.
func extractRubyMembers(classNode *sitter.Node, source []byte, decl *models.ClassDeclaration) {
	seenIvars := make(map[string]bool)

	parser.Walk(classNode, source, func(node *sitter.Node, s []byte) bool {
		if node != classNode && node.Type() == "class" {
			return false
		}

		switch node.Type() {
		case "method", "singleton_method":
			decl.Methods = append(decl.Methods, models.MethodDecl{
				Visibility: models.VisibilityOther,
			})
			return true
		case "instance_variable":
			name := parser.GetNodeText(node, s)
			if !seenIvars[name] {
				seenIvars[name] = true
				decl.Fields = append(decl.Fields, models.FieldDecl{
					Visibility: models.VisibilityPrivate,
				})
			}
			return false
		}
		return true
	})
}
