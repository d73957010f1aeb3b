package adapter

import (
	"astfind/internal/engine/parser"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

func NewGo() Adapter {
	return &table{
		language: "go",
		calls: map[string]Recognizer{
			"call_expression": goCall,
		},
		imports: map[string]Recognizer{
			"import_spec": func(node *sitter.Node, src []byte) (Capture, bool) {
				return module(parser.FieldText(node, "path", src)), true
			},
		},
		defs: map[string]Recognizer{
			"function_declaration": named(DefFunction),
			"method_declaration":   named(DefMethod),
			"type_spec":            goTypeSpec,
			"type_alias":           named(DefType),
			"const_spec":           named(DefConst),
			"var_spec":             named(DefVar),
		},
	}
}

func goCall(node *sitter.Node, src []byte) (Capture, bool) {
	fn := node.ChildByFieldName("function")
	if fn == nil {
		return Capture{}, true
	}
	switch fn.Kind() {
	case "identifier":
		return bare(parser.Text(fn, src)), true
	case "selector_expression":
		return member(
			parser.FieldText(fn, "operand", src),
			parser.FieldText(fn, "field", src),
		), true
	case "index_expression":
		// f[T](x) when the type argument is parsed as an index.
		if inner := fn.ChildByFieldName("operand"); inner != nil && inner.Kind() == "identifier" {
			return bare(parser.Text(inner, src)), true
		}
	}
	// Func literals and conversions have no stable callee name.
	return Capture{}, true
}

func goTypeSpec(node *sitter.Node, src []byte) (Capture, bool) {
	category := DefType
	if typ := node.ChildByFieldName("type"); typ != nil {
		switch typ.Kind() {
		case "struct_type":
			category = DefStruct
		case "interface_type":
			category = DefInterface
		}
	}
	return definition(parser.FieldText(node, "name", src), category), true
}
