package validate

import (
	"github.com/praxdb/prax"
	"github.com/praxdb/prax/schema"
)

// validateRelations implements pass 4: @relation(fields, references,
// [onDelete, onUpdate]) arity match, existence of the named fields on
// both sides, and that the opposite side of the relation is declared
// consistently: the target model has a field referring back, and the
// side holding fields/references (the to-one side) is not a list. The
// opposite side may be a list (one-to-many) or singular (one-to-one).
func validateRelations(s *schema.Schema) []*prax.Error {
	var errs []*prax.Error

	for _, m := range s.Models {
		for _, f := range m.Fields {
			ref, ok := f.Type.(schema.ModelRef)
			if !ok {
				continue
			}
			target := s.Model(ref.Name)
			if target == nil {
				// Already reported by resolveTypes as a dangling reference.
				continue
			}
			errs = append(errs, validateRelationAttribute(s, m, f, target)...)
		}
	}

	return errs
}

func validateRelationAttribute(s *schema.Schema, m *schema.Model, f *schema.Field, target *schema.Model) []*prax.Error {
	var errs []*prax.Error

	attr := f.Attribute("relation")
	if attr == nil {
		// The back-reference side of a relation (the @relation-less list
		// field) carries no attribute of its own; nothing further to check
		// here beyond target existence, already confirmed by the caller.
		return errs
	}

	fields := attr.Arg("fields")
	references := attr.Arg("references")

	if fields == nil || references == nil {
		errs = append(errs, newError(attr.Span, "@relation on %s.%s must specify both fields and references", m.Name, f.Name))
		return errs
	}
	if fields.Kind != schema.ArgList || references.Kind != schema.ArgList {
		errs = append(errs, newError(attr.Span, "@relation on %s.%s: fields and references must be lists", m.Name, f.Name))
		return errs
	}
	if len(fields.List) != len(references.List) {
		errs = append(errs, newError(attr.Span, "@relation on %s.%s: fields and references must have equal arity (%d vs %d)", m.Name, f.Name, len(fields.List), len(references.List)))
	}
	for _, fv := range fields.List {
		if fv.Kind == schema.ArgIdent && m.Field(fv.Str) == nil {
			errs = append(errs, newError(attr.Span, "@relation on %s.%s references undeclared local field %q", m.Name, f.Name, fv.Str))
		}
	}
	for _, rv := range references.List {
		if rv.Kind == schema.ArgIdent && target.Field(rv.Str) == nil {
			errs = append(errs, newError(attr.Span, "@relation on %s.%s references undeclared field %q on %s", m.Name, f.Name, rv.Str, target.Name))
		}
	}

	if onDelete := attr.Arg("onDelete"); onDelete != nil && onDelete.Kind != schema.ArgIdent {
		errs = append(errs, newError(attr.Span, "@relation onDelete on %s.%s must be a bareword action (Cascade, Restrict, SetNull, NoAction)", m.Name, f.Name))
	}
	if onUpdate := attr.Arg("onUpdate"); onUpdate != nil && onUpdate.Kind != schema.ArgIdent {
		errs = append(errs, newError(attr.Span, "@relation onUpdate on %s.%s must be a bareword action", m.Name, f.Name))
	}

	if f.Modifier.List {
		errs = append(errs, newError(attr.Span, "@relation on %s.%s: the side holding fields/references must not be a list", m.Name, f.Name))
	}
	hasBack := false
	for _, tf := range target.Fields {
		if r, ok := tf.Type.(schema.ModelRef); ok && r.Name == m.Name && tf != f {
			hasBack = true
			break
		}
	}
	if !hasBack {
		errs = append(errs, newError(attr.Span, "@relation on %s.%s: %s declares no opposite relation field of type %s", m.Name, f.Name, target.Name, m.Name))
	}

	return errs
}
