package aal

// TokenType identifies the lexical category of a token. The string form is
// the name printed by the `tokens` command.
type TokenType string

const (
	tokenIdent      TokenType = "T_Identifier"
	tokenNumber     TokenType = "T_Number"
	tokenAssign     TokenType = "T_AssignmentOperator"
	tokenArithmetic TokenType = "T_ArithmeticOperator"
	tokenLParen     TokenType = "T_OpenParenthesis"
	tokenRParen     TokenType = "T_CloseParenthesis"
	tokenLBracket   TokenType = "T_OpenSquareBracket"
	tokenRBracket   TokenType = "T_CloseSquareBracket"
	tokenComma      TokenType = "T_Comma"
	tokenString     TokenType = "T_String"
	tokenBlock      TokenType = "T_Block"
	tokenEOS        TokenType = "T_EndOfLine"
)

// Token captures lexical information for the evaluator.
type Token struct {
	Type    TokenType
	Literal string
	Pos     Position
}

// Position identifies a rune column inside a single statement.
type Position struct {
	Column int
}

func (t Token) is(tt TokenType) bool { return t.Type == tt }

// delimiterTokens maps single-character delimiters to their token type.
var delimiterTokens = map[rune]TokenType{
	'=': tokenAssign,
	';': tokenEOS,
	'(': tokenLParen,
	')': tokenRParen,
	'[': tokenLBracket,
	']': tokenRBracket,
	',': tokenComma,
	'+': tokenArithmetic,
	'-': tokenArithmetic,
	'*': tokenArithmetic,
	'/': tokenArithmetic,
}
