package query

import (
	"fmt"
	"regexp"
	"strings"
)

// Predicate fields. FieldText and FieldCode test the node's full source span
// rather than a capture slot.
const (
	FieldCallee = "callee"
	FieldObject = "object"
	FieldProp   = "prop"
	FieldAttr   = "attr"
	FieldArg    = "arg"
	FieldModule = "module"
	FieldName   = "name"
	FieldKind   = "kind"
	FieldText   = "text"
	FieldCode   = "code"
)

var fieldsByKind = map[Kind][]string{
	KindCall:   {FieldCallee, FieldObject, FieldProp, FieldAttr, FieldArg, FieldText, FieldCode},
	KindImport: {FieldModule, FieldText, FieldCode},
	KindDef:    {FieldName, FieldKind, FieldText, FieldCode},
}

// FieldsFor lists the predicate fields accepted by a pattern kind.
func FieldsFor(kind Kind) []string {
	out := make([]string, len(fieldsByKind[kind]))
	copy(out, fieldsByKind[kind])
	return out
}

func fieldAllowed(kind Kind, field string) bool {
	for _, f := range fieldsByKind[kind] {
		if f == field {
			return true
		}
	}
	return false
}

// IsSourceField reports whether field tests the node's source span.
func IsSourceField(field string) bool {
	return field == FieldText || field == FieldCode
}

// Predicate is a field name bound to a regex compiled at parse time.
type Predicate struct {
	Field   string
	Body    string
	Flags   string
	Pattern *regexp.Regexp
}

// CompilePredicate compiles body for field. Source fields get dot-all so
// multi-line nodes can be matched with '.'.
func CompilePredicate(field, body, flags string) (Predicate, error) {
	effective := flags
	if IsSourceField(field) && !strings.Contains(effective, "s") {
		effective += "s"
	}
	expr := body
	if effective != "" {
		expr = "(?" + effective + ")" + body
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return Predicate{}, fmt.Errorf("invalid regex for %s: %w", field, err)
	}
	return Predicate{Field: field, Body: body, Flags: flags, Pattern: re}, nil
}

func (p Predicate) Match(subject string) bool {
	return p.Pattern.MatchString(subject)
}

func (p Predicate) String() string {
	return p.Field + "=/" + p.Body + "/" + p.Flags
}
