package adapter

import (
	"astfind/internal/engine/parser"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

func NewJava() Adapter {
	return &table{
		language: "java",
		calls: map[string]Recognizer{
			"method_invocation": javaInvocation,
		},
		imports: map[string]Recognizer{
			"import_declaration": javaImport,
		},
		defs: map[string]Recognizer{
			"class_declaration":               named(DefClass),
			"interface_declaration":           named(DefInterface),
			"enum_declaration":                named(DefEnum),
			"record_declaration":              named(DefRecord),
			"annotation_type_declaration":     named(DefAnnotation),
			"method_declaration":              named(DefMethod),
			"constructor_declaration":         named(DefConstructor),
			"compact_constructor_declaration": named(DefConstructor),
		},
	}
}

func javaInvocation(node *sitter.Node, src []byte) (Capture, bool) {
	name := parser.FieldText(node, "name", src)
	if object := node.ChildByFieldName("object"); object != nil {
		return member(parser.Text(object, src), name), true
	}
	return bare(name), true
}

// javaImport captures the imported name without a trailing wildcard, so
// `import java.util.*;` yields java.util.
func javaImport(node *sitter.Node, src []byte) (Capture, bool) {
	if target := parser.ChildOfKind(node, "scoped_identifier", "identifier"); target != nil {
		return module(parser.Text(target, src)), true
	}
	return Capture{}, true
}
