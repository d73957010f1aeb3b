// Package adapter maps the three generic intents (call, import, definition)
// onto the concrete node shapes of each supported tree-sitter grammar.
package adapter

import (
	"strings"

	"astfind/internal/engine/parser"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Capture slots.
const (
	SlotCallee = "callee"
	SlotObject = "object"
	SlotProp   = "prop"
	SlotAttr   = "attr"
	SlotModule = "module"
	SlotName   = "name"
	SlotKind   = "kind"
)

// Slots lists every capture slot in output order.
var Slots = []string{SlotCallee, SlotObject, SlotProp, SlotAttr, SlotModule, SlotName, SlotKind}

// Definition categories reported in the kind slot.
const (
	DefFunction    = "function"
	DefMethod      = "method"
	DefConstructor = "constructor"
	DefClass       = "class"
	DefStruct      = "struct"
	DefInterface   = "interface"
	DefEnum        = "enum"
	DefRecord      = "record"
	DefUnion       = "union"
	DefTrait       = "trait"
	DefType        = "type"
	DefModule      = "module"
	DefConst       = "const"
	DefVar         = "var"
	DefAnnotation  = "annotation"
)

// Capture maps a slot name to the text extracted for it. Slots that do not
// apply to a node are absent.
type Capture map[string]string

// Get returns the slot value and whether the slot is present.
func (c Capture) Get(slot string) (string, bool) {
	v, ok := c[slot]
	return v, ok
}

func (c Capture) set(slot, value string) {
	if value != "" {
		c[slot] = value
	}
}

// Adapter recognizes intents on nodes of one grammar. Implementations must be
// free of side effects and safe for concurrent use.
type Adapter interface {
	// Language is the identifier reported on matches.
	Language() string
	Call(node *sitter.Node, src []byte) (Capture, bool)
	Import(node *sitter.Node, src []byte) (Capture, bool)
	Definition(node *sitter.Node, src []byte) (Capture, bool)
	// Arguments returns the source text of each argument of a node that
	// Call accepted.
	Arguments(call *sitter.Node, src []byte) []string
}

// Recognizer inspects a node already known to have a given kind.
type Recognizer func(node *sitter.Node, src []byte) (Capture, bool)

// table is a kind-dispatched Adapter: each intent is a map from node kind to
// the recognizer for that shape.
type table struct {
	language string
	calls    map[string]Recognizer
	imports  map[string]Recognizer
	defs     map[string]Recognizer
}

func (t *table) Language() string { return t.language }

func (t *table) Call(node *sitter.Node, src []byte) (Capture, bool) {
	return dispatch(t.calls, node, src)
}

func (t *table) Import(node *sitter.Node, src []byte) (Capture, bool) {
	return dispatch(t.imports, node, src)
}

func (t *table) Definition(node *sitter.Node, src []byte) (Capture, bool) {
	return dispatch(t.defs, node, src)
}

func (t *table) Arguments(call *sitter.Node, src []byte) []string {
	if call == nil {
		return nil
	}
	list := call.ChildByFieldName("arguments")
	if list == nil {
		return nil
	}
	var out []string
	for _, arg := range parser.NamedChildren(list) {
		if isComment(arg) {
			continue
		}
		out = append(out, parser.Text(arg, src))
	}
	return out
}

func dispatch(handlers map[string]Recognizer, node *sitter.Node, src []byte) (Capture, bool) {
	if node == nil || !node.IsNamed() {
		return nil, false
	}
	recognize, ok := handlers[node.Kind()]
	if !ok {
		return nil, false
	}
	return recognize(node, src)
}

func isComment(node *sitter.Node) bool {
	switch node.Kind() {
	case "comment", "line_comment", "block_comment":
		return true
	}
	return false
}

// named builds a definition recognizer that reads the name field and reports
// a fixed category.
func named(category string) Recognizer {
	return func(node *sitter.Node, src []byte) (Capture, bool) {
		return definition(parser.FieldText(node, "name", src), category), true
	}
}

func definition(name, category string) Capture {
	c := Capture{}
	c.set(SlotName, name)
	c.set(SlotKind, category)
	return c
}

func member(object, prop string) Capture {
	c := Capture{}
	c.set(SlotObject, object)
	c.set(SlotProp, prop)
	c.set(SlotCallee, prop)
	return c
}

func bare(callee string) Capture {
	c := Capture{}
	c.set(SlotCallee, callee)
	return c
}

func module(spec string) Capture {
	c := Capture{}
	c.set(SlotModule, unquote(strings.TrimSpace(spec)))
	return c
}

// unquote strips one layer of matching string delimiters.
func unquote(s string) string {
	if len(s) < 2 {
		return s
	}
	first, last := s[0], s[len(s)-1]
	if first == last && (first == '"' || first == '\'' || first == '`') {
		return s[1 : len(s)-1]
	}
	return s
}

// merge copies every entry of maps into a new map, later maps winning.
func merge(maps ...map[string]Recognizer) map[string]Recognizer {
	out := make(map[string]Recognizer)
	for _, m := range maps {
		for k, v := range m {
			out[k] = v
		}
	}
	return out
}
