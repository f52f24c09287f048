package validate

import (
	"github.com/praxdb/prax"
	"github.com/praxdb/prax/schema"
)

// resolveTypes implements pass 2: every field whose declared type was
// parsed as a ModelRef (the parser's default for any unrecognized
// bareword, see schema/parser.resolveFieldType) is reclassified to
// EnumRef or CompositeRef if the name actually belongs to an enum or
// composite declaration. A name resolving to nothing is a dangling
// reference error; the field's type is left as ModelRef in that case
// so later passes can still walk the AST without a nil type.
func resolveTypes(s *schema.Schema) []*prax.Error {
	var errs []*prax.Error

	models := declaredSet(s.Models, func(m *schema.Model) string { return m.Name })
	enums := declaredSet(s.Enums, func(e *schema.Enum) string { return e.Name })
	composites := declaredSet(s.Composites, func(c *schema.CompositeType) string { return c.Name })

	resolve := func(fields []*schema.Field) {
		for _, f := range fields {
			ref, ok := f.Type.(schema.ModelRef)
			if !ok {
				continue
			}
			switch {
			case enums[ref.Name]:
				f.Type = schema.EnumRef{Name: ref.Name}
			case composites[ref.Name]:
				f.Type = schema.CompositeRef{Name: ref.Name}
			case models[ref.Name]:
				// Already the correct kind.
			default:
				errs = append(errs, newError(f.Span, "field %q references undeclared type %q", f.Name, ref.Name).WithHint("did you mean a model, enum, or type declared elsewhere in the schema?"))
			}
		}
	}

	for _, m := range s.Models {
		resolve(m.Fields)
	}
	for _, c := range s.Composites {
		resolve(c.Fields)
	}
	for _, v := range s.Views {
		resolve(v.Fields)
	}

	return errs
}

func declaredSet[T any](items []T, name func(T) string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, it := range items {
		set[name(it)] = true
	}
	return set
}
