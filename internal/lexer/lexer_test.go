package lexer_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/VikingMew/quickpython/internal/lexer"
)

func tokenTypes(src string) []lexer.TokenType {
	l := lexer.New(src)
	var types []lexer.TokenType
	for {
		tok := l.Next()
		types = append(types, tok.Type)
		if tok.Type == lexer.EOF {
			break
		}
	}
	return types
}

func TestLexerEmitsIndentAndDedentOnBlockEntry(t *testing.T) {
	types := tokenTypes("if x:\n    y = 1\nz = 2\n")
	require.Contains(t, types, lexer.INDENT)
	require.Contains(t, types, lexer.DEDENT)
}

func TestLexerRecognizesKeywords(t *testing.T) {
	types := tokenTypes("def f():\n    return 1\n")
	require.Contains(t, types, lexer.DEF)
	require.Contains(t, types, lexer.RETURN)
}

func TestLexerDistinguishesIntFloatString(t *testing.T) {
	types := tokenTypes("1 1.5 \"s\"\n")
	require.Contains(t, types, lexer.INT)
	require.Contains(t, types, lexer.FLOAT)
	require.Contains(t, types, lexer.STRING)
}

func TestLexerTokenizesFString(t *testing.T) {
	types := tokenTypes("f\"hi {x}\"\n")
	require.Contains(t, types, lexer.FSTRING)
}

func TestLexerOperatorsIncludeComparisonAndArithmetic(t *testing.T) {
	l := lexer.New("a <= b + 1\n")
	var literals []string
	for {
		tok := l.Next()
		if tok.Type == lexer.EOF {
			break
		}
		literals = append(literals, tok.Literal)
	}
	require.Contains(t, literals, "<=")
	require.Contains(t, literals, "+")
}
