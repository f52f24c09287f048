// Package validate runs the semantic validation passes against a parsed
// schema.Schema: name uniqueness, type resolution, primary key shape,
// relation integrity, attribute argument shape, default compatibility,
// and doc-tag extraction. Passes run in the fixed order the rules
// depend on (type resolution must run before relation integrity, which
// assumes references already resolved).
//
// Validate does not return on the first error: it runs every pass over
// the whole schema and returns all the errors found, grouped by pass in
// the order above.
package validate

import (
	"github.com/praxdb/prax"
	"github.com/praxdb/prax/schema"
)

// Validate runs every validation pass against s and returns the combined
// list of errors, or nil if the schema is well-formed. s is mutated in
// place during type resolution (ambiguous model/enum/composite
// references are reclassified to their concrete FieldType); callers
// should treat the Schema as read-only again once Validate returns.
func Validate(s *schema.Schema) []*prax.Error {
	var errs []*prax.Error

	errs = append(errs, validateNames(s)...)
	errs = append(errs, resolveTypes(s)...)
	errs = append(errs, validatePrimaryKeys(s)...)
	errs = append(errs, validateRelations(s)...)
	errs = append(errs, validateAttributeShapes(s)...)
	errs = append(errs, validateDefaults(s)...)
	extractDocTags(s)

	return errs
}

func newError(span schema.Span, format string, args ...any) *prax.Error {
	return prax.New(prax.KindValidate, format, args...).WithSpan(span)
}
