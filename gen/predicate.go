package gen

import (
	"github.com/dave/jennifer/jen"
)

const filterPkg = "github.com/praxdb/prax/query/filter"

// goType returns the field's Go-facing scalar type, for emitted predicate
// function signatures. Relation, composite and unsupported fields never
// reach here: GenPredicateFile skips them before calling goType.
//
// Time, Bytes and Vector fields compare by their string form (RFC3339 for
// Time, a caller-chosen encoding for Bytes/Vector) rather than by
// time.Time/[]byte, keeping every emitted predicate a single FilterValue
// constructor call with no intermediate conversion.
func (f *Field) goType() string {
	switch f.Kind {
	case KindString, KindUUID, KindEnum, KindTime, KindBytes, KindVector:
		return "string"
	case KindBool:
		return "bool"
	case KindInt, KindInt64:
		return "int64"
	case KindFloat, KindDecimal:
		return "float64"
	default:
		return "any"
	}
}

// valueCtor returns the query/filter.FilterValue constructor this field's
// Go type round-trips through, e.g. "StringValue" for a KindString field.
func (f *Field) valueCtor() string {
	switch f.Kind {
	case KindString, KindUUID, KindEnum, KindTime, KindBytes, KindVector:
		return "StringValue"
	case KindBool:
		return "BoolValue"
	case KindInt, KindInt64:
		return "IntValue"
	case KindFloat, KindDecimal:
		return "FloatValue"
	default:
		return "JSONValue"
	}
}

// comparable reports whether the field's kind supports ordering
// predicates (LT/LTE/GT/GTE) in addition to equality.
func (f *Field) comparable() bool {
	switch f.Kind {
	case KindInt, KindInt64, KindFloat, KindDecimal, KindTime:
		return true
	default:
		return false
	}
}

// textual reports whether the field's kind supports the string-match
// predicates (Contains/StartsWith/EndsWith).
func (f *Field) textual() bool {
	return f.Kind == KindString
}

// GenPredicateFile renders the predicate file for t: a package-level
// function per comparable operation on each scalar field, returning a
// query/filter.Filter bound to the field's storage column. It is the
// generator's illustrative emitter, proof the Type/Field contract above
// carries what a real code generator needs; a full generator would pair
// it with entity, client and query-builder emitters built the same way.
func GenPredicateFile(t *Type) *jen.File {
	f := jen.NewFile(t.PackageDir())
	f.HeaderComment("Code generated by prax. DO NOT EDIT.")

	for _, field := range t.Fields {
		if field.Kind == KindRelation || field.Kind == KindComposite || field.Kind == KindUnsupported {
			continue
		}
		genFieldPredicates(f, field)
		genDefaultFunc(f, field)
	}

	f.Comment("And groups predicates with the AND operator between them.")
	f.Func().Id("And").Params(jen.Id("preds").Op("...").Qual(filterPkg, "Filter")).Qual(filterPkg, "Filter").Block(
		jen.Return(jen.Qual(filterPkg, "And").Call(jen.Id("preds").Op("..."))),
	)
	f.Comment("Or groups predicates with the OR operator between them.")
	f.Func().Id("Or").Params(jen.Id("preds").Op("...").Qual(filterPkg, "Filter")).Qual(filterPkg, "Filter").Block(
		jen.Return(jen.Qual(filterPkg, "Or").Call(jen.Id("preds").Op("..."))),
	)
	f.Comment("Not negates a predicate.")
	f.Func().Id("Not").Params(jen.Id("p").Qual(filterPkg, "Filter")).Qual(filterPkg, "Filter").Block(
		jen.Return(jen.Qual(filterPkg, "Not").Call(jen.Id("p"))),
	)

	return f
}

func genFieldPredicates(f *jen.File, field *Field) {
	name := pascal(field.Name)
	if field.IsID {
		name = "ID"
	}
	col := field.Column
	gt := field.goType()
	ctor := field.valueCtor()

	genCompareFn(f, name+"EQ", "EqualsOp", col, gt, ctor)
	genCompareFn(f, name+"NEQ", "NotEqualsOp", col, gt, ctor)

	if field.comparable() {
		genCompareFn(f, name+"LT", "LessThanOp", col, gt, ctor)
		genCompareFn(f, name+"LTE", "LessThanOrEqualOp", col, gt, ctor)
		genCompareFn(f, name+"GT", "GreaterThanOp", col, gt, ctor)
		genCompareFn(f, name+"GTE", "GreaterThanOrEqualOp", col, gt, ctor)
	}

	if field.textual() {
		genMatchFn(f, name+"Contains", "ContainsOp", col)
		genMatchFn(f, name+"StartsWith", "StartsWithOp", col)
		genMatchFn(f, name+"EndsWith", "EndsWithOp", col)
	}

	if field.Nillable() {
		f.Commentf("%sIsNil reports whether %s is SQL NULL.", name, field.Name)
		f.Func().Id(name+"IsNil").Params().Qual(filterPkg, "Filter").Block(
			jen.Return(jen.Qual(filterPkg, "IsNullOp").Call(jen.Lit(col))),
		)
		f.Commentf("%sNotNil reports whether %s is not SQL NULL.", name, field.Name)
		f.Func().Id(name+"NotNil").Params().Qual(filterPkg, "Filter").Block(
			jen.Return(jen.Qual(filterPkg, "IsNotNullOp").Call(jen.Lit(col))),
		)
	}
}

func genCompareFn(f *jen.File, fnName, op, col, goType, ctor string) {
	f.Commentf("%s returns the %q predicate for the value v.", fnName, col)
	f.Func().Id(fnName).Params(jen.Id("v").Id(goType)).Qual(filterPkg, "Filter").Block(
		jen.Return(jen.Qual(filterPkg, op).Call(
			jen.Lit(col),
			jen.Qual(filterPkg, ctor).Call(jen.Id("v")),
		)),
	)
}

func genMatchFn(f *jen.File, fnName, op, col string) {
	f.Commentf("%s returns the %q string-match predicate for v.", fnName, col)
	f.Func().Id(fnName).Params(jen.Id("v").String(), jen.Id("caseInsensitive").Bool()).Qual(filterPkg, "Filter").Block(
		jen.Return(jen.Qual(filterPkg, op).Call(jen.Lit(col), jen.Id("v"), jen.Id("caseInsensitive"))),
	)
}
