package lexer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praxdb/prax/schema/lexer"
	"github.com/praxdb/prax/schema/token"
)

func allTokens(src string) []token.Token {
	l := lexer.New(src)
	var toks []token.Token
	for {
		tok := l.Next()
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			return toks
		}
	}
}

func TestLexerPunctuation(t *testing.T) {
	toks := allTokens(`{}[]():,.?=@ @@`)
	kinds := make([]token.Kind, 0, len(toks))
	for _, tk := range toks {
		kinds = append(kinds, tk.Kind)
	}
	assert.Equal(t, []token.Kind{
		token.LBrace, token.RBrace, token.LBracket, token.RBracket,
		token.LParen, token.RParen, token.Colon, token.Comma, token.Dot,
		token.Question, token.Eq, token.At, token.AtAt, token.EOF,
	}, kinds)
}

func TestLexerKeywordsVsIdent(t *testing.T) {
	toks := allTokens(`model User enum`)
	require.Len(t, toks, 4)
	assert.Equal(t, token.KeywordModel, toks[0].Kind)
	assert.Equal(t, token.Ident, toks[1].Kind)
	assert.Equal(t, "User", toks[1].Text)
	assert.Equal(t, token.KeywordEnum, toks[2].Kind)
}

func TestLexerStringEscapes(t *testing.T) {
	toks := allTokens(`"hello \"world\"\n"`)
	require.Len(t, toks, 2)
	assert.Equal(t, token.String, toks[0].Kind)
	assert.Equal(t, "hello \"world\"\n", toks[0].Text)
}

func TestLexerNumbers(t *testing.T) {
	toks := allTokens(`42 3.14`)
	require.Len(t, toks, 3)
	assert.Equal(t, token.Int, toks[0].Kind)
	assert.Equal(t, "42", toks[0].Text)
	assert.Equal(t, token.Float, toks[1].Kind)
	assert.Equal(t, "3.14", toks[1].Text)
}

func TestLexerDocComment(t *testing.T) {
	toks := allTokens("/// A user.\n// plain\nmodel")
	require.Len(t, toks, 4)
	assert.Equal(t, token.DocComment, toks[0].Kind)
	assert.Equal(t, "A user.", toks[0].Text)
	assert.Equal(t, token.Comment, toks[1].Kind)
	assert.Equal(t, token.KeywordModel, toks[2].Kind)
}

func TestLexerBlockComment(t *testing.T) {
	toks := allTokens("/* block\nspanning lines */ model")
	require.Len(t, toks, 3)
	assert.Equal(t, token.Comment, toks[0].Kind)
	assert.Equal(t, token.KeywordModel, toks[1].Kind)
}

func TestLexerLineColTracking(t *testing.T) {
	toks := allTokens("model A {\n  id Int\n}")
	// "id" starts on line 2.
	var idTok token.Token
	for _, tk := range toks {
		if tk.Kind == token.Ident && tk.Text == "id" {
			idTok = tk
		}
	}
	require.NotZero(t, idTok.Pos.Line)
	assert.Equal(t, 2, idTok.Pos.Line)
}

func TestLexerIllegalUnterminatedString(t *testing.T) {
	toks := allTokens(`"unterminated`)
	require.Len(t, toks, 2)
	assert.Equal(t, token.Illegal, toks[0].Kind)
}

func TestLexerIllegalChar(t *testing.T) {
	toks := allTokens(`#`)
	require.Len(t, toks, 2)
	assert.Equal(t, token.Illegal, toks[0].Kind)
}
