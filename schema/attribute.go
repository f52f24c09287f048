package schema

import "github.com/praxdb/prax"

// Attribute is one `@name(...)` or `@@name(...)` annotation attached to a
// field or a model. Field-level attributes use a single `@`; model-level
// (block) attributes use `@@`. The parser does not interpret argument
// shapes beyond the generic ArgValue grammar below; schema/validate owns
// per-attribute argument-shape checking (spec §4.1 pass 5).
type Attribute struct {
	Name  string
	Args  []Arg
	Block bool // true for @@-form (model-level) attributes
	Span  prax.Span
}

// Arg returns the value of the first positional or named argument
// matching name, or nil if absent.
func (a *Attribute) Arg(name string) *ArgValue {
	for i := range a.Args {
		if a.Args[i].Name == name {
			return &a.Args[i].Value
		}
	}
	return nil
}

// Positional returns the i-th positional (unnamed) argument, or nil if
// there are fewer than i+1 positional arguments.
func (a *Attribute) Positional(i int) *ArgValue {
	n := 0
	for j := range a.Args {
		if a.Args[j].Name != "" {
			continue
		}
		if n == i {
			return &a.Args[j].Value
		}
		n++
	}
	return nil
}

// Arg is one attribute argument. Name is empty for positional arguments,
// e.g. the first argument of @relation("authored").
type Arg struct {
	Name  string
	Value ArgValue
	Span  prax.Span
}

// ArgValueKind discriminates the concrete shape an ArgValue holds.
type ArgValueKind uint8

const (
	ArgString ArgValueKind = iota
	ArgInt
	ArgFloat
	ArgBool
	ArgIdent // bareword reference, e.g. a field name in fields: [id]
	ArgList
	ArgFunctionCall // e.g. now(), autoincrement(), cuid(), uuid()
)

// ArgValue is the generic value grammar for attribute arguments: scalar
// literals, bareword identifiers (field/model references), lists of
// ArgValue, and zero-arg function calls like now() or autoincrement().
// schema/validate interprets the concrete shape per attribute; the
// parser only needs to know how to terminate an expression.
type ArgValue struct {
	Kind ArgValueKind

	Str    string      // ArgString, ArgIdent, ArgFunctionCall (function name)
	Int    int64       // ArgInt
	Float  float64     // ArgFloat
	Bool   bool        // ArgBool
	List   []ArgValue  // ArgList
	CallArgs []ArgValue // ArgFunctionCall arguments, usually empty

	Span prax.Span
}
