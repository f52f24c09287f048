package schema

import "strings"

// Doc carries the `///` documentation comment(s) immediately preceding a
// declaration. Raw is the comment text with the leading `///` and exactly
// one following space stripped from each line, joined with newlines.
// Tags are doc-tags extracted from lines of the form `@tagName value`
// found within Raw, e.g. `@graphql.field` annotations. The gen package's
// GraphQL emitter does not read them.
type Doc struct {
	Raw  string
	Tags []DocTag
}

// DocTag is one `@name value` line extracted from a Doc's raw text. Value
// is the remainder of the line after the tag name, trimmed of leading and
// trailing whitespace; it is empty for a bare `@name` tag.
type DocTag struct {
	Name  string
	Value string
}

// Tag returns the value of the first doc-tag with the given name, and
// whether it was present.
func (d *Doc) Tag(name string) (string, bool) {
	if d == nil {
		return "", false
	}
	for _, t := range d.Tags {
		if t.Name == name {
			return t.Value, true
		}
	}
	return "", false
}

// ParseDoc builds a Doc from the accumulated raw comment text of a
// declaration's preceding `///` lines, extracting any `@name value`
// doc-tags it contains. It is called by schema/parser when it collects a
// run of doc-comment tokens immediately above a declaration.
func ParseDoc(raw string) *Doc {
	if raw == "" {
		return nil
	}
	doc := &Doc{Raw: raw}
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "@") {
			continue
		}
		rest := line[1:]
		name, value, _ := strings.Cut(rest, " ")
		doc.Tags = append(doc.Tags, DocTag{Name: name, Value: strings.TrimSpace(value)})
	}
	return doc
}
