// Package parser turns a token stream from schema/lexer into a
// schema.Schema. It implements the grammar:
//
//	schema   := decl*
//	decl     := datasource | generator | model | enum | type | view | serverGroup
//	model    := doc? "model" Ident "{" (field | modelAttr)* "}"
//	field    := doc? Ident fieldType modifier? fieldAttr*
//	fieldType:= Ident ("(" intLit ")")?
//	modifier := "?" | "[]" | "[]?"
//	fieldAttr:= "@" Ident ("(" argList ")")?
//	modelAttr:= "@@" Ident ("(" argList ")")?
//	argList  := arg ("," arg)*
//	arg      := (Ident ":")? value
//	value    := string | int | float | bool | Ident | funcCall | "[" value* "]" | fieldRef
//	funcCall := Ident "(" argList? ")"
//
// Parsing never panics. Each declaration that fails to parse is recorded
// as an Error and the parser resynchronizes at the next top-level
// keyword, so one malformed model does not suppress errors elsewhere in
// the file.
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/praxdb/prax/schema"
	"github.com/praxdb/prax/schema/lexer"
	"github.com/praxdb/prax/schema/token"
)

// Parse lexes and parses src, returning the resulting schema.Schema and
// any accumulated errors. A non-nil Schema may still be returned
// alongside a non-empty ErrorList: callers that want a best-effort AST
// for tooling (e.g. an editor's live diagnostics) can use both.
func Parse(src string) (*schema.Schema, ErrorList) {
	p := &parser{lex: lexer.New(src)}
	p.next()
	p.next()
	return p.parseSchema()
}

// parser is a two-token-lookahead recursive descent parser.
type parser struct {
	lex  *lexer.Lexer
	tok  token.Token // current token
	peek token.Token // lookahead token
	errs ErrorList
	doc  *schema.Doc // pending doc comment awaiting the next declaration
}

func (p *parser) next() {
	p.tok = p.peek
	for {
		t := p.lex.Next()
		if t.Kind == token.Comment {
			continue
		}
		p.peek = t
		break
	}
}

func (p *parser) span(start token.Position) schema.Span {
	return schema.Span{Start: start.Offset, End: p.tok.Pos.Offset, Line: start.Line, Col: start.Col}
}

func (p *parser) errorf(expected string, format string, args ...any) {
	p.errs = append(p.errs, &Error{
		Span:     Span{Start: p.tok.Pos.Offset, Line: p.tok.Pos.Line, Col: p.tok.Pos.Col},
		Expected: expected,
		Actual:   p.tok.Kind,
		Message:  fmt.Sprintf(format, args...),
	})
}

// expect consumes the current token if it matches kind, recording an
// error and leaving the cursor in place otherwise.
func (p *parser) expect(kind token.Kind, desc string) token.Token {
	if p.tok.Kind != kind {
		p.errorf(desc, "unexpected token %q", p.tok.Text)
		return p.tok
	}
	t := p.tok
	p.next()
	return t
}

// synchronize advances past tokens until it finds a top-level keyword or
// EOF, so parsing can resume after a malformed declaration.
func (p *parser) synchronize() {
	for {
		switch p.tok.Kind {
		case token.EOF, token.KeywordModel, token.KeywordEnum, token.KeywordType,
			token.KeywordView, token.KeywordDatasource, token.KeywordGenerator, token.KeywordServerGroup:
			return
		}
		p.next()
	}
}

func (p *parser) consumeDocComments() {
	var b strings.Builder
	for p.tok.Kind == token.DocComment {
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(p.tok.Text)
		p.next()
	}
	if b.Len() > 0 {
		p.doc = schema.ParseDoc(b.String())
	} else {
		p.doc = nil
	}
}

func (p *parser) takeDoc() *schema.Doc {
	d := p.doc
	p.doc = nil
	return d
}

func (p *parser) parseSchema() (*schema.Schema, ErrorList) {
	s := &schema.Schema{}
	for {
		p.consumeDocComments()
		switch p.tok.Kind {
		case token.EOF:
			return s, p.errs
		case token.KeywordModel:
			if m := p.parseModel(); m != nil {
				s.Models = append(s.Models, m)
			}
		case token.KeywordEnum:
			if e := p.parseEnum(); e != nil {
				s.Enums = append(s.Enums, e)
			}
		case token.KeywordType:
			if c := p.parseComposite(); c != nil {
				s.Composites = append(s.Composites, c)
			}
		case token.KeywordView:
			if v := p.parseView(); v != nil {
				s.Views = append(s.Views, v)
			}
		case token.KeywordDatasource:
			if d := p.parseDatasource(); d != nil {
				s.Datasource = d
			}
		case token.KeywordGenerator:
			if g := p.parseGenerator(); g != nil {
				s.Generators = append(s.Generators, g)
			}
		case token.KeywordServerGroup:
			if g := p.parseServerGroup(); g != nil {
				s.ServerGroups = append(s.ServerGroups, g)
			}
		default:
			p.errorf("declaration", "unexpected token %q at top level", p.tok.Text)
			p.next()
			p.synchronize()
		}
	}
}

func (p *parser) parseModel() *schema.Model {
	start := p.tok.Pos
	doc := p.takeDoc()
	p.next() // "model"
	name := p.expect(token.Ident, "model name").Text

	m := &schema.Model{Name: name, Doc: doc}
	if _, ok := p.expectBlockOpen(); !ok {
		p.synchronize()
		return m
	}
	for p.tok.Kind != token.RBrace && p.tok.Kind != token.EOF {
		p.consumeDocComments()
		switch p.tok.Kind {
		case token.AtAt:
			m.Attributes = append(m.Attributes, p.parseAttribute(true))
		case token.Ident:
			m.Fields = append(m.Fields, p.parseField())
		case token.RBrace:
		default:
			p.errorf("field or @@attribute", "unexpected token %q in model body", p.tok.Text)
			p.next()
		}
	}
	p.expect(token.RBrace, "}")
	m.Span = p.span(start)
	return m
}

func (p *parser) expectBlockOpen() (token.Token, bool) {
	if p.tok.Kind != token.LBrace {
		p.errorf("{", "unexpected token %q", p.tok.Text)
		return p.tok, false
	}
	t := p.tok
	p.next()
	return t, true
}

func (p *parser) parseField() *schema.Field {
	start := p.tok.Pos
	doc := p.takeDoc()
	name := p.expect(token.Ident, "field name").Text

	typeName := p.expect(token.Ident, "field type").Text
	ft := resolveFieldType(typeName)
	if s, ok := ft.(schema.Scalar); ok && s.Kind.HasDimension() {
		if p.tok.Kind == token.LParen {
			p.next()
			if p.tok.Kind == token.Int {
				n, _ := strconv.Atoi(p.tok.Text)
				s.Dimension = n
				p.next()
			}
			p.expect(token.RParen, ")")
		}
		ft = s
	}

	mod := p.parseModifier()

	f := &schema.Field{Name: name, Type: ft, Modifier: mod, Doc: doc}
	for p.tok.Kind == token.At {
		f.Attributes = append(f.Attributes, p.parseAttribute(false))
	}
	f.Span = p.span(start)
	return f
}

func (p *parser) parseModifier() schema.TypeModifier {
	var mod schema.TypeModifier
	if p.tok.Kind == token.LBracket {
		p.next()
		p.expect(token.RBracket, "]")
		mod.List = true
	}
	if p.tok.Kind == token.Question {
		p.next()
		mod.Optional = true
	}
	return mod
}

// resolveFieldType classifies a bareword type name as a known scalar or
// a pending reference. Pending references default to ModelRef; schema/
// validate's type-resolution pass (spec §4.1 pass 2) reclassifies to
// EnumRef or CompositeRef once the full declaration set is known, and
// reports a dangling-reference error if the name resolves to nothing.
func resolveFieldType(name string) schema.FieldType {
	kind, ok := scalarKinds[name]
	if !ok {
		return schema.ModelRef{Name: name}
	}
	return schema.Scalar{Kind: kind}
}

var scalarKinds = map[string]schema.ScalarKind{
	"String":       schema.ScalarString,
	"Boolean":      schema.ScalarBoolean,
	"Int":          schema.ScalarInt,
	"BigInt":       schema.ScalarBigInt,
	"Float":        schema.ScalarFloat,
	"Decimal":      schema.ScalarDecimal,
	"DateTime":     schema.ScalarDateTime,
	"Date":         schema.ScalarDate,
	"Time":         schema.ScalarTime,
	"Json":         schema.ScalarJSON,
	"Bytes":        schema.ScalarBytes,
	"Uuid":         schema.ScalarUUID,
	"Cuid":         schema.ScalarCuid,
	"NanoId":       schema.ScalarNanoID,
	"Ulid":         schema.ScalarUlid,
	"Vector":       schema.ScalarVector,
	"HalfVector":   schema.ScalarHalfVector,
	"SparseVector": schema.ScalarSparseVector,
	"Bit":          schema.ScalarBit,
}

// parseAttribute parses "@name(argList)?" or "@@name(argList)?"
// depending on block.
func (p *parser) parseAttribute(block bool) *schema.Attribute {
	start := p.tok.Pos
	p.next() // consume "@" or "@@"
	name := p.parseDottedName()

	a := &schema.Attribute{Name: name, Block: block}
	if p.tok.Kind == token.LParen {
		p.next()
		a.Args = p.parseArgList()
		p.expect(token.RParen, ")")
	}
	a.Span = p.span(start)
	return a
}

// parseDottedName parses Ident ("." Ident)*, used for namespaced
// attributes like @db.VarChar or doc-tags like @graphql.field.
func (p *parser) parseDottedName() string {
	var b strings.Builder
	b.WriteString(p.expect(token.Ident, "attribute name").Text)
	for p.tok.Kind == token.Dot {
		p.next()
		b.WriteByte('.')
		b.WriteString(p.expect(token.Ident, "attribute name segment").Text)
	}
	return b.String()
}

func (p *parser) parseArgList() []schema.Arg {
	var args []schema.Arg
	if p.tok.Kind == token.RParen {
		return args
	}
	for {
		args = append(args, p.parseArg())
		if p.tok.Kind != token.Comma {
			break
		}
		p.next()
	}
	return args
}

func (p *parser) parseArg() schema.Arg {
	start := p.tok.Pos
	var name string
	if p.tok.Kind == token.Ident && p.peek.Kind == token.Colon {
		name = p.tok.Text
		p.next()
		p.next()
	}
	v := p.parseValue()
	return schema.Arg{Name: name, Value: v, Span: p.span(start)}
}

func (p *parser) parseValue() schema.ArgValue {
	start := p.tok.Pos
	switch p.tok.Kind {
	case token.String:
		v := schema.ArgValue{Kind: schema.ArgString, Str: p.tok.Text, Span: p.span(start)}
		p.next()
		return v
	case token.Int:
		n, _ := strconv.ParseInt(p.tok.Text, 10, 64)
		v := schema.ArgValue{Kind: schema.ArgInt, Int: n, Span: p.span(start)}
		p.next()
		return v
	case token.Float:
		f, _ := strconv.ParseFloat(p.tok.Text, 64)
		v := schema.ArgValue{Kind: schema.ArgFloat, Float: f, Span: p.span(start)}
		p.next()
		return v
	case token.LBracket:
		p.next()
		var list []schema.ArgValue
		for p.tok.Kind != token.RBracket && p.tok.Kind != token.EOF {
			list = append(list, p.parseValue())
			if p.tok.Kind == token.Comma {
				p.next()
			}
		}
		p.expect(token.RBracket, "]")
		return schema.ArgValue{Kind: schema.ArgList, List: list, Span: p.span(start)}
	case token.Ident:
		name := p.tok.Text
		if name == "true" || name == "false" {
			p.next()
			return schema.ArgValue{Kind: schema.ArgBool, Bool: name == "true", Span: p.span(start)}
		}
		p.next()
		if p.tok.Kind == token.LParen {
			p.next()
			callArgs := p.parseValueList()
			p.expect(token.RParen, ")")
			return schema.ArgValue{Kind: schema.ArgFunctionCall, Str: name, CallArgs: callArgs, Span: p.span(start)}
		}
		return schema.ArgValue{Kind: schema.ArgIdent, Str: name, Span: p.span(start)}
	default:
		p.errorf("value", "unexpected token %q in attribute argument", p.tok.Text)
		p.next()
		return schema.ArgValue{Kind: schema.ArgIdent, Span: p.span(start)}
	}
}

func (p *parser) parseValueList() []schema.ArgValue {
	var vals []schema.ArgValue
	if p.tok.Kind == token.RParen {
		return vals
	}
	for {
		vals = append(vals, p.parseValue())
		if p.tok.Kind != token.Comma {
			break
		}
		p.next()
	}
	return vals
}

func (p *parser) parseEnum() *schema.Enum {
	start := p.tok.Pos
	doc := p.takeDoc()
	p.next() // "enum"
	name := p.expect(token.Ident, "enum name").Text

	e := &schema.Enum{Name: name, Doc: doc}
	if _, ok := p.expectBlockOpen(); !ok {
		p.synchronize()
		return e
	}
	for p.tok.Kind != token.RBrace && p.tok.Kind != token.EOF {
		p.consumeDocComments()
		switch p.tok.Kind {
		case token.AtAt:
			e.Attributes = append(e.Attributes, p.parseAttribute(true))
		case token.Ident:
			e.Variants = append(e.Variants, p.parseEnumVariant())
		case token.RBrace:
		default:
			p.errorf("enum variant", "unexpected token %q in enum body", p.tok.Text)
			p.next()
		}
	}
	p.expect(token.RBrace, "}")
	e.Span = p.span(start)
	return e
}

func (p *parser) parseEnumVariant() *schema.EnumVariant {
	start := p.tok.Pos
	doc := p.takeDoc()
	name := p.expect(token.Ident, "variant name").Text
	v := &schema.EnumVariant{Name: name, Doc: doc}
	for p.tok.Kind == token.At {
		v.Attributes = append(v.Attributes, p.parseAttribute(false))
	}
	v.Span = p.span(start)
	return v
}

func (p *parser) parseComposite() *schema.CompositeType {
	start := p.tok.Pos
	doc := p.takeDoc()
	p.next() // "type"
	name := p.expect(token.Ident, "type name").Text

	c := &schema.CompositeType{Name: name, Doc: doc}
	if _, ok := p.expectBlockOpen(); !ok {
		p.synchronize()
		return c
	}
	for p.tok.Kind != token.RBrace && p.tok.Kind != token.EOF {
		p.consumeDocComments()
		if p.tok.Kind == token.Ident {
			c.Fields = append(c.Fields, p.parseField())
		} else if p.tok.Kind != token.RBrace {
			p.errorf("field", "unexpected token %q in type body", p.tok.Text)
			p.next()
		}
	}
	p.expect(token.RBrace, "}")
	c.Span = p.span(start)
	return c
}

func (p *parser) parseView() *schema.View {
	start := p.tok.Pos
	doc := p.takeDoc()
	p.next() // "view"
	name := p.expect(token.Ident, "view name").Text

	v := &schema.View{Name: name, Doc: doc}
	if _, ok := p.expectBlockOpen(); !ok {
		p.synchronize()
		return v
	}
	for p.tok.Kind != token.RBrace && p.tok.Kind != token.EOF {
		p.consumeDocComments()
		switch p.tok.Kind {
		case token.AtAt:
			v.Attributes = append(v.Attributes, p.parseAttribute(true))
		case token.Ident:
			v.Fields = append(v.Fields, p.parseField())
		case token.RBrace:
		default:
			p.errorf("field or @@attribute", "unexpected token %q in view body", p.tok.Text)
			p.next()
		}
	}
	p.expect(token.RBrace, "}")
	v.Span = p.span(start)
	return v
}

func (p *parser) parseDatasource() *schema.Datasource {
	start := p.tok.Pos
	p.next() // "datasource"
	name := p.expect(token.Ident, "datasource name").Text

	d := &schema.Datasource{Name: name}
	if _, ok := p.expectBlockOpen(); !ok {
		p.synchronize()
		return d
	}
	for p.tok.Kind != token.RBrace && p.tok.Kind != token.EOF {
		key := p.expect(token.Ident, "property name").Text
		p.expect(token.Eq, "=")
		val := p.parseValue()
		switch key {
		case "provider":
			d.Provider = val.Str
		case "url":
			if val.Kind == schema.ArgFunctionCall && val.Str == "env" && len(val.CallArgs) == 1 {
				d.URLEnv = val.CallArgs[0].Str
			} else {
				d.URL = val.Str
			}
		}
	}
	p.expect(token.RBrace, "}")
	d.Span = p.span(start)
	return d
}

func (p *parser) parseGenerator() *schema.Generator {
	start := p.tok.Pos
	p.next() // "generator"
	name := p.expect(token.Ident, "generator name").Text

	g := &schema.Generator{Name: name, Properties: map[string]schema.ArgValue{}}
	if _, ok := p.expectBlockOpen(); !ok {
		p.synchronize()
		return g
	}
	for p.tok.Kind != token.RBrace && p.tok.Kind != token.EOF {
		key := p.expect(token.Ident, "property name").Text
		p.expect(token.Eq, "=")
		val := p.parseValue()
		switch key {
		case "provider":
			g.Provider = val.Str
		case "output":
			g.Output = val.Str
		default:
			g.Properties[key] = val
		}
	}
	p.expect(token.RBrace, "}")
	g.Span = p.span(start)
	return g
}

func (p *parser) parseServerGroup() *schema.ServerGroup {
	start := p.tok.Pos
	p.next() // "serverGroup"
	name := p.expect(token.Ident, "server group name").Text

	g := &schema.ServerGroup{Name: name}
	if _, ok := p.expectBlockOpen(); !ok {
		p.synchronize()
		return g
	}
	for p.tok.Kind != token.RBrace && p.tok.Kind != token.EOF {
		refStart := p.tok.Pos
		ref := schema.ServerRef{Name: p.expect(token.Ident, "server name").Text}
		if p.tok.Kind == token.Colon {
			p.next()
			ref.Role = p.expect(token.Ident, "server role").Text
		}
		ref.Span = p.span(refStart)
		g.Servers = append(g.Servers, ref)
		if p.tok.Kind == token.Comma {
			p.next()
		}
	}
	p.expect(token.RBrace, "}")
	g.Span = p.span(start)
	return g
}
