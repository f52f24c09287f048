package validate

import (
	"github.com/praxdb/prax"
	"github.com/praxdb/prax/schema"
)

// validateNames implements pass 1: name uniqueness per kind, and within
// each model/enum/composite's own member list.
func validateNames(s *schema.Schema) []*prax.Error {
	var errs []*prax.Error

	seen := make(map[string]schema.Kind, len(s.Models)+len(s.Enums)+len(s.Composites)+len(s.Views))
	for _, d := range s.Declarations() {
		if prev, ok := seen[d.Name]; ok {
			errs = append(errs, newError(d.Span, "%q is already declared as a %s", d.Name, prev))
			continue
		}
		seen[d.Name] = d.Kind
	}

	for _, m := range s.Models {
		errs = append(errs, uniqueFieldNames(m.Name, m.Fields)...)
	}
	for _, c := range s.Composites {
		errs = append(errs, uniqueFieldNames(c.Name, c.Fields)...)
	}
	for _, v := range s.Views {
		errs = append(errs, uniqueFieldNames(v.Name, v.Fields)...)
	}
	for _, e := range s.Enums {
		seenVariant := make(map[string]bool, len(e.Variants))
		for _, variant := range e.Variants {
			if seenVariant[variant.Name] {
				errs = append(errs, newError(variant.Span, "variant %q is already declared on enum %q", variant.Name, e.Name))
				continue
			}
			seenVariant[variant.Name] = true
		}
	}

	return errs
}

func uniqueFieldNames(owner string, fields []*schema.Field) []*prax.Error {
	var errs []*prax.Error
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if seen[f.Name] {
			errs = append(errs, newError(f.Span, "field %q is already declared on %q", f.Name, owner))
			continue
		}
		seen[f.Name] = true
	}
	return errs
}
