// Package gen defines the contract a downstream code generator walks to
// emit per-model bindings: Graph wraps a parsed schema.Schema into an
// ordered list of Type, each carrying its Field list, primary key and
// table name; FieldKind classifies a field's Go-facing representation.
//
// The package also ships one illustrative jennifer-based emitter,
// GenPredicateFile, that renders a package-level predicate file per Type
// in the style of the generated "where.go" files a full generator would
// produce — proof the Graph/Type/Field contract carries enough
// information for real code generation, not a complete generator.
//
// WriteFiles takes that emitter's output the rest of the way: goimports
// formatting and a concurrent write to disk, the way a real generator's
// final stage would.
package gen
