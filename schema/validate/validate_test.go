package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praxdb/prax"
	"github.com/praxdb/prax/schema/parser"
	"github.com/praxdb/prax/schema/validate"
)

func parseValid(t *testing.T, src string) *prax.Error {
	t.Helper()
	s, perrs := parser.Parse(src)
	require.Empty(t, perrs)
	errs := validate.Validate(s)
	if len(errs) == 0 {
		return nil
	}
	return errs[0]
}

func TestValidateWellFormedSchema(t *testing.T) {
	src := `
model User {
	id    Int    @id
	email String @unique
	posts Post[]
}
model Post {
	id       Int  @id
	authorId Int
	author   User @relation(fields: [authorId], references: [id])
}
`
	s, perrs := parser.Parse(src)
	require.Empty(t, perrs)
	errs := validate.Validate(s)
	assert.Empty(t, errs)
}

func TestValidateMissingPrimaryKey(t *testing.T) {
	err := parseValid(t, `model User { email String }`)
	require.NotNil(t, err)
	assert.Equal(t, prax.KindValidate, err.Kind)
	assert.Contains(t, err.Error(), "no primary key")
}

func TestValidateDuplicateName(t *testing.T) {
	err := parseValid(t, `
model User { id Int @id }
enum User { A B }
`)
	require.NotNil(t, err)
	assert.Contains(t, err.Error(), "already declared")
}

func TestValidateDanglingReference(t *testing.T) {
	err := parseValid(t, `model User { id Int @id role Role }`)
	require.NotNil(t, err)
	assert.Contains(t, err.Error(), "undeclared type")
}

func TestValidateRelationArityMismatch(t *testing.T) {
	err := parseValid(t, `
model User { id Int @id }
model Post {
	id       Int @id
	a Int
	b Int
	author User @relation(fields: [a, b], references: [id])
}
`)
	require.NotNil(t, err)
	assert.Contains(t, err.Error(), "equal arity")
}

func TestValidateEnumDefault(t *testing.T) {
	err := parseValid(t, `
enum Role { ADMIN USER }
model User { id Int @id role Role @default(NOBODY) }
`)
	require.NotNil(t, err)
	assert.Contains(t, err.Error(), "undeclared variant")
}

func TestValidateScalarDefaultMismatch(t *testing.T) {
	err := parseValid(t, `model User { id Int @id age Int @default("not a number") }`)
	require.NotNil(t, err)
	assert.Contains(t, err.Error(), "does not match declared type")
}

func TestValidateCompositePrimaryKey(t *testing.T) {
	s, perrs := parser.Parse(`
model Membership {
	userId Int
	orgId  Int
	@@id([userId, orgId])
}
`)
	require.Empty(t, perrs)
	errs := validate.Validate(s)
	assert.Empty(t, errs)
}

func TestValidateDocTagMalformed(t *testing.T) {
	s, perrs := parser.Parse("/// @bad-name value\nmodel User { id Int @id }")
	require.Empty(t, perrs)
	errs := validate.Validate(s)
	assert.Empty(t, errs)

	m := s.Model("User")
	require.NotNil(t, m.Doc)
	assert.Empty(t, m.Doc.Tags)
}
