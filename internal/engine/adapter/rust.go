package adapter

import (
	"astfind/internal/engine/parser"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

func NewRust() Adapter {
	return &table{
		language: "rust",
		calls: map[string]Recognizer{
			"call_expression":  rustCall,
			"macro_invocation": rustMacro,
		},
		imports: map[string]Recognizer{
			"use_declaration": func(node *sitter.Node, src []byte) (Capture, bool) {
				return module(parser.FieldText(node, "argument", src)), true
			},
			"extern_crate_declaration": func(node *sitter.Node, src []byte) (Capture, bool) {
				return module(parser.FieldText(node, "name", src)), true
			},
		},
		defs: map[string]Recognizer{
			"function_item":           rustFunction,
			"function_signature_item": rustFunction,
			"struct_item":             named(DefStruct),
			"enum_item":               named(DefEnum),
			"union_item":              named(DefUnion),
			"trait_item":              named(DefTrait),
			"type_item":               named(DefType),
			"mod_item":                named(DefModule),
			"const_item":              named(DefConst),
			"static_item":             named(DefVar),
		},
	}
}

func rustCall(node *sitter.Node, src []byte) (Capture, bool) {
	return rustCallee(node.ChildByFieldName("function"), src), true
}

func rustCallee(fn *sitter.Node, src []byte) Capture {
	if fn == nil {
		return Capture{}
	}
	switch fn.Kind() {
	case "identifier":
		return bare(parser.Text(fn, src))
	case "scoped_identifier":
		// Vec::new(): the path is the object, there is no property.
		c := bare(parser.FieldText(fn, "name", src))
		c.set(SlotObject, parser.FieldText(fn, "path", src))
		return c
	case "field_expression":
		return member(
			parser.FieldText(fn, "value", src),
			parser.FieldText(fn, "field", src),
		)
	case "generic_function":
		return rustCallee(fn.ChildByFieldName("function"), src)
	}
	return Capture{}
}

// rustMacro reports println!(...) as a call to println.
func rustMacro(node *sitter.Node, src []byte) (Capture, bool) {
	return rustCallee(node.ChildByFieldName("macro"), src), true
}

func rustFunction(node *sitter.Node, src []byte) (Capture, bool) {
	category := DefFunction
	if parser.HasAncestor(node, []string{"impl_item", "trait_item"}, "function_item") {
		category = DefMethod
	}
	return definition(parser.FieldText(node, "name", src), category), true
}
