package adapter

import (
	"astfind/internal/engine/parser"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

func NewPython() Adapter {
	return &table{
		language: "python",
		calls: map[string]Recognizer{
			"call": pythonCall,
		},
		imports: map[string]Recognizer{
			"import_statement":        pythonImport,
			"import_from_statement":   pythonFromImport,
			"future_import_statement": func(*sitter.Node, []byte) (Capture, bool) { return module("__future__"), true },
		},
		defs: map[string]Recognizer{
			"function_definition": pythonFunction,
			"class_definition":    named(DefClass),
		},
	}
}

func pythonCall(node *sitter.Node, src []byte) (Capture, bool) {
	fn := node.ChildByFieldName("function")
	if fn == nil {
		return Capture{}, true
	}
	switch fn.Kind() {
	case "identifier":
		return bare(parser.Text(fn, src)), true
	case "attribute":
		attr := parser.FieldText(fn, "attribute", src)
		c := member(parser.FieldText(fn, "object", src), attr)
		c.set(SlotAttr, attr)
		return c, true
	}
	return Capture{}, true
}

// pythonImport captures the first module of `import a.b, c as d`.
func pythonImport(node *sitter.Node, src []byte) (Capture, bool) {
	first := node.ChildByFieldName("name")
	if first == nil {
		return Capture{}, true
	}
	if first.Kind() == "aliased_import" {
		return module(parser.FieldText(first, "name", src)), true
	}
	return module(parser.Text(first, src)), true
}

// pythonFromImport keeps relative module names such as `..pkg` as written.
func pythonFromImport(node *sitter.Node, src []byte) (Capture, bool) {
	return module(parser.FieldText(node, "module_name", src)), true
}

func pythonFunction(node *sitter.Node, src []byte) (Capture, bool) {
	category := DefFunction
	if parser.HasAncestor(node, []string{"class_definition"}, "function_definition") {
		category = DefMethod
	}
	return definition(parser.FieldText(node, "name", src), category), true
}
