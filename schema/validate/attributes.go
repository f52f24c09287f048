package validate

import (
	"github.com/praxdb/prax"
	"github.com/praxdb/prax/schema"
)

// attrShape describes the expected argument shape for one well-known
// attribute, keyed by its name. Attributes not in this table (custom or
// backend-namespaced, e.g. @db.VarChar(255)) are passed through
// unchecked: the schema language does not attempt to enumerate every
// backend-specific attribute a generator might recognize.
type attrShape struct {
	minArgs, maxArgs int // maxArgs < 0 means unbounded
	block            bool
}

var knownAttrs = map[string]attrShape{
	"id":        {0, 1, false},
	"unique":    {0, 0, false},
	"default":   {1, 1, false},
	"map":       {1, 1, false},
	"relation":  {0, -1, false},
	"updatedAt": {0, 0, false},
	"@@id":      {1, 1, true},
	"@@unique":  {1, 1, true},
	"@@index":   {1, 1, true},
	"@@map":     {1, 1, true},
}

// validateAttributeShapes implements pass 5: per-attribute argument
// count against the known shape table above.
func validateAttributeShapes(s *schema.Schema) []*prax.Error {
	var errs []*prax.Error

	check := func(owner string, attrs []*schema.Attribute) {
		for _, a := range attrs {
			key := a.Name
			if a.Block {
				key = "@@" + a.Name
			}
			shape, ok := knownAttrs[key]
			if !ok {
				continue
			}
			if len(a.Args) < shape.minArgs || (shape.maxArgs >= 0 && len(a.Args) > shape.maxArgs) {
				errs = append(errs, newError(a.Span, "@%s%s on %q takes between %d and %d arguments, got %d", blockMarker(a.Block), a.Name, owner, shape.minArgs, maxArgDisplay(shape.maxArgs), len(a.Args)))
			}
		}
	}

	for _, m := range s.Models {
		check(m.Name, m.Attributes)
		for _, f := range m.Fields {
			check(m.Name+"."+f.Name, f.Attributes)
		}
	}
	for _, v := range s.Views {
		check(v.Name, v.Attributes)
		for _, f := range v.Fields {
			check(v.Name+"."+f.Name, f.Attributes)
		}
	}

	return errs
}

func blockMarker(block bool) string {
	if block {
		return "@"
	}
	return ""
}

func maxArgDisplay(max int) int {
	if max < 0 {
		return 1 << 30
	}
	return max
}
