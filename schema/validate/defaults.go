package validate

import (
	"github.com/praxdb/prax"
	"github.com/praxdb/prax/schema"
)

// validateDefaults implements pass 6: a scalar @default literal must
// match the field's declared scalar kind, and an enum @default must name
// a variant actually declared on that enum.
func validateDefaults(s *schema.Schema) []*prax.Error {
	var errs []*prax.Error

	check := func(owner string, fields []*schema.Field) {
		for _, f := range fields {
			attr := f.Attribute("default")
			if attr == nil || len(attr.Args) == 0 {
				continue
			}
			v := attr.Args[0].Value
			if v.Kind == schema.ArgFunctionCall {
				// now(), autoincrement(), cuid(), uuid(), etc. are
				// accepted without further checking the generator's
				// supported-function list; that belongs to the generator.
				continue
			}
			switch t := f.Type.(type) {
			case schema.Scalar:
				if !defaultMatchesScalar(t.Kind, v.Kind) {
					errs = append(errs, newError(attr.Span, "@default on %s.%s does not match declared type %s", owner, f.Name, t.Kind))
				}
			case schema.EnumRef:
				enum := s.Enum(t.Name)
				if enum != nil && v.Kind == schema.ArgIdent && enum.Variant(v.Str) == nil {
					errs = append(errs, newError(attr.Span, "@default on %s.%s names undeclared variant %q of enum %q", owner, f.Name, v.Str, t.Name))
				}
			}
		}
	}

	for _, m := range s.Models {
		check(m.Name, m.Fields)
	}
	for _, c := range s.Composites {
		check(c.Name, c.Fields)
	}

	return errs
}

func defaultMatchesScalar(kind schema.ScalarKind, argKind schema.ArgValueKind) bool {
	switch kind {
	case schema.ScalarString, schema.ScalarUUID, schema.ScalarCuid, schema.ScalarNanoID, schema.ScalarUlid,
		schema.ScalarDateTime, schema.ScalarDate, schema.ScalarTime, schema.ScalarJSON, schema.ScalarBytes:
		return argKind == schema.ArgString
	case schema.ScalarInt, schema.ScalarBigInt:
		return argKind == schema.ArgInt
	case schema.ScalarFloat, schema.ScalarDecimal:
		return argKind == schema.ArgInt || argKind == schema.ArgFloat
	case schema.ScalarBoolean:
		return argKind == schema.ArgBool
	default:
		return true
	}
}
