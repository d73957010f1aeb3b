package adapter

import (
	"astfind/internal/engine/parser"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

var (
	jsCalls = map[string]Recognizer{
		"call_expression": jsCall,
	}

	jsImports = map[string]Recognizer{
		"import_statement": jsImportStatement,
		"export_statement": jsReexport,
		"call_expression":  jsRequire,
	}

	jsDefs = map[string]Recognizer{
		"function_declaration":           named(DefFunction),
		"generator_function_declaration": named(DefFunction),
		"class_declaration":              named(DefClass),
		"method_definition":              named(DefMethod),
		"lexical_declaration":            jsFunctionBinding,
		"variable_declaration":           jsFunctionBinding,
	}

	tsDefs = map[string]Recognizer{
		"abstract_class_declaration": named(DefClass),
		"interface_declaration":      named(DefInterface),
		"type_alias_declaration":     named(DefType),
		"enum_declaration":           named(DefEnum),
		"function_signature":         named(DefFunction),
		"internal_module":            named(DefModule),
	}
)

func NewJavaScript() Adapter {
	return &table{
		language: "javascript",
		calls:    jsCalls,
		imports:  jsImports,
		defs:     jsDefs,
	}
}

// NewTypeScript serves both the typescript and tsx grammars.
func NewTypeScript() Adapter {
	return &table{
		language: "typescript",
		calls:    jsCalls,
		imports:  jsImports,
		defs:     merge(jsDefs, tsDefs),
	}
}

func jsCall(node *sitter.Node, src []byte) (Capture, bool) {
	fn := node.ChildByFieldName("function")
	if fn == nil {
		return Capture{}, true
	}
	switch fn.Kind() {
	case "identifier":
		return bare(parser.Text(fn, src)), true
	case "member_expression":
		return member(
			parser.FieldText(fn, "object", src),
			parser.FieldText(fn, "property", src),
		), true
	case "import":
		return bare("import"), true
	}
	return Capture{}, true
}

func jsImportStatement(node *sitter.Node, src []byte) (Capture, bool) {
	if source := node.ChildByFieldName("source"); source != nil {
		return module(parser.Text(source, src)), true
	}
	// import x = require("y")
	if clause := parser.ChildOfKind(node, "import_require_clause"); clause != nil {
		return module(parser.FieldText(clause, "source", src)), true
	}
	return Capture{}, true
}

// jsReexport treats `export ... from "m"` as an import of m.
func jsReexport(node *sitter.Node, src []byte) (Capture, bool) {
	source := node.ChildByFieldName("source")
	if source == nil {
		return nil, false
	}
	return module(parser.Text(source, src)), true
}

// jsRequire recognizes require("m") and import("m") with a literal specifier.
func jsRequire(node *sitter.Node, src []byte) (Capture, bool) {
	fn := node.ChildByFieldName("function")
	if fn == nil {
		return nil, false
	}
	switch {
	case fn.Kind() == "import":
	case fn.Kind() == "identifier" && parser.Text(fn, src) == "require":
	default:
		return nil, false
	}
	args := parser.NamedChildren(node.ChildByFieldName("arguments"))
	if len(args) == 0 {
		return nil, false
	}
	switch args[0].Kind() {
	case "string", "template_string":
		return module(parser.Text(args[0], src)), true
	}
	return nil, false
}

// jsFunctionBinding recognizes `const f = () => {}` and `var f = function() {}`.
func jsFunctionBinding(node *sitter.Node, src []byte) (Capture, bool) {
	for _, declarator := range parser.NamedChildren(node) {
		if declarator.Kind() != "variable_declarator" {
			continue
		}
		value := declarator.ChildByFieldName("value")
		if value == nil {
			continue
		}
		switch value.Kind() {
		case "arrow_function", "function_expression", "function", "generator_function":
			name := declarator.ChildByFieldName("name")
			if name == nil || name.Kind() != "identifier" {
				continue
			}
			return definition(parser.Text(name, src), DefFunction), true
		}
	}
	return nil, false
}
