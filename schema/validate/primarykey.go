package validate

import (
	"github.com/praxdb/prax"
	"github.com/praxdb/prax/schema"
)

// validatePrimaryKeys implements pass 3: exactly one primary key per
// model, either a single field-level @id or one model-level @@id(...).
func validatePrimaryKeys(s *schema.Schema) []*prax.Error {
	var errs []*prax.Error

	for _, m := range s.Models {
		fieldIDCount := 0
		for _, f := range m.Fields {
			if f.Attribute("id") != nil {
				fieldIDCount++
			}
		}
		blockID := m.Attribute("id")

		switch {
		case fieldIDCount == 0 && blockID == nil:
			errs = append(errs, newError(m.Span, "model %q has no primary key: add @id to a field or @@id([...]) to the model", m.Name))
		case fieldIDCount > 1:
			errs = append(errs, newError(m.Span, "model %q declares @id on more than one field", m.Name))
		case fieldIDCount == 1 && blockID != nil:
			errs = append(errs, newError(m.Span, "model %q declares both a field-level @id and a model-level @@id", m.Name))
		case blockID != nil:
			errs = append(errs, validateCompositeIDFields(m, blockID)...)
		}
	}

	return errs
}

func validateCompositeIDFields(m *schema.Model, attr *schema.Attribute) []*prax.Error {
	var errs []*prax.Error
	list := attr.Positional(0)
	if list == nil || list.Kind != schema.ArgList {
		errs = append(errs, newError(attr.Span, "@@id on model %q expects a field list, e.g. @@id([a, b])", m.Name))
		return errs
	}
	if len(list.List) == 0 {
		errs = append(errs, newError(attr.Span, "@@id on model %q must name at least one field", m.Name))
		return errs
	}
	for _, v := range list.List {
		if v.Kind != schema.ArgIdent {
			errs = append(errs, newError(attr.Span, "@@id on model %q: entries must be field names", m.Name))
			continue
		}
		if m.Field(v.Str) == nil {
			errs = append(errs, newError(attr.Span, "@@id on model %q references undeclared field %q", m.Name, v.Str))
		}
	}
	return errs
}
