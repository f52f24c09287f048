package validate

import "github.com/praxdb/prax/schema"

// extractDocTags implements pass 7. The actual `@name value` extraction
// happens eagerly in schema/parser as each Doc is built (schema.ParseDoc),
// so by the time validation runs every declaration's Doc.Tags is already
// populated; this pass only needs to catch malformed tag names, which the
// parser's best-effort line split cannot itself distinguish from prose
// that happens to start a line with '@' (e.g. an email address quoted in
// a comment).
func extractDocTags(s *schema.Schema) {
	walk := func(doc *schema.Doc) {
		if doc == nil {
			return
		}
		valid := doc.Tags[:0]
		for _, t := range doc.Tags {
			if isTagName(t.Name) {
				valid = append(valid, t)
			}
		}
		doc.Tags = valid
	}

	for _, m := range s.Models {
		walk(m.Doc)
		for _, f := range m.Fields {
			walk(f.Doc)
		}
	}
	for _, e := range s.Enums {
		walk(e.Doc)
		for _, v := range e.Variants {
			walk(v.Doc)
		}
	}
	for _, c := range s.Composites {
		walk(c.Doc)
		for _, f := range c.Fields {
			walk(f.Doc)
		}
	}
	for _, v := range s.Views {
		walk(v.Doc)
		for _, f := range v.Fields {
			walk(f.Doc)
		}
	}
}

func isTagName(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '.':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
