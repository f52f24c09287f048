package gen

import (
	"github.com/dave/jennifer/jen"

	"github.com/praxdb/prax/schema"
)

// defaultFunctionCall returns the `@default(fn())` attribute's function
// name for f, if it has one.
func (f *Field) defaultFunctionCall() (string, bool) {
	attr := f.node.Attribute("default")
	if attr == nil {
		return "", false
	}
	arg := attr.Positional(0)
	if arg == nil || arg.Kind != schema.ArgFunctionCall {
		return "", false
	}
	return arg.Str, true
}

// DefaultValueExpr renders the jennifer expression a generated
// constructor uses to materialize f's default value client-side, for the
// default functions this module can produce without a round trip to the
// database: uuid() and now(). Both render as f.goType()'s "string" case
// (RFC3339 for now(), canonical string form for uuid()), matching the
// predicate emitter's string encoding for these kinds. autoincrement()
// and cuid() are left to the database/driver and produce no expression.
func DefaultValueExpr(f *Field) (jen.Code, bool) {
	name, ok := f.defaultFunctionCall()
	if !ok {
		return nil, false
	}
	switch name {
	case "uuid":
		return jen.Qual("github.com/google/uuid", "New").Call().Dot("String").Call(), true
	case "now":
		return jen.Qual("time", "Now").Call().Dot("Format").Call(jen.Qual("time", "RFC3339")), true
	default:
		return nil, false
	}
}

// genDefaultFunc emits a standalone `func <Name>Default() <goType>` for
// every field carrying a client-resolvable default, so a generated Create
// builder can call it instead of re-deriving the attribute at codegen
// time.
func genDefaultFunc(f *jen.File, field *Field) {
	expr, ok := DefaultValueExpr(field)
	if !ok {
		return
	}
	name := pascal(field.Name)
	if field.IsID {
		name = "ID"
	}
	f.Commentf("%sDefault computes %s's client-side default value.", name, field.Name)
	f.Func().Id(name+"Default").Params().Id(field.goType()).Block(
		jen.Return(expr),
	)
}
