package adapter

import (
	"astfind/internal/engine/parser"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

func NewCSharp() Adapter {
	return &table{
		language: "csharp",
		calls: map[string]Recognizer{
			"invocation_expression": csharpInvocation,
		},
		imports: map[string]Recognizer{
			"using_directive": csharpUsing,
		},
		defs: map[string]Recognizer{
			"class_declaration":                 named(DefClass),
			"struct_declaration":                named(DefStruct),
			"interface_declaration":             named(DefInterface),
			"record_declaration":                named(DefRecord),
			"record_struct_declaration":         named(DefRecord),
			"enum_declaration":                  named(DefEnum),
			"method_declaration":                named(DefMethod),
			"constructor_declaration":           named(DefConstructor),
			"local_function_statement":          named(DefFunction),
			"namespace_declaration":             named(DefModule),
			"file_scoped_namespace_declaration": named(DefModule),
		},
	}
}

func csharpInvocation(node *sitter.Node, src []byte) (Capture, bool) {
	fn := node.ChildByFieldName("function")
	if fn == nil {
		return Capture{}, true
	}
	switch fn.Kind() {
	case "identifier", "generic_name":
		return bare(csharpSimpleName(fn, src)), true
	case "member_access_expression":
		return member(
			parser.FieldText(fn, "expression", src),
			csharpSimpleName(fn.ChildByFieldName("name"), src),
		), true
	case "member_binding_expression":
		// a?.B() nests the invocation under the conditional access.
		object := ""
		if parent := node.Parent(); parent != nil && parent.Kind() == "conditional_access_expression" {
			object = parser.FieldText(parent, "condition", src)
		}
		return member(object, csharpSimpleName(fn.ChildByFieldName("name"), src)), true
	case "conditional_access_expression":
		binding := parser.ChildOfKind(fn, "member_binding_expression")
		if binding == nil {
			return Capture{}, true
		}
		return member(
			parser.FieldText(fn, "condition", src),
			csharpSimpleName(binding.ChildByFieldName("name"), src),
		), true
	}
	return Capture{}, true
}

// csharpSimpleName drops type arguments: Get<T> yields Get.
func csharpSimpleName(node *sitter.Node, src []byte) string {
	if node == nil {
		return ""
	}
	if node.Kind() == "generic_name" {
		if id := parser.ChildOfKind(node, "identifier"); id != nil {
			return parser.Text(id, src)
		}
	}
	return parser.Text(node, src)
}

// csharpUsing captures the namespace or type of a using directive. For
// `using A = B.C;` the target B.C is the module.
func csharpUsing(node *sitter.Node, src []byte) (Capture, bool) {
	children := parser.NamedChildren(node)
	for i := len(children) - 1; i >= 0; i-- {
		if isComment(children[i]) {
			continue
		}
		return module(parser.Text(children[i], src)), true
	}
	return Capture{}, true
}
