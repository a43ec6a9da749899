package aal

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

var escapeReplacer = strings.NewReplacer(`\n`, "\n", `\r`, "\r", `\t`, "\t")

type lexer struct {
	input string

	offset int
	width  int
	column int

	ch rune

	tokens []Token
	diags  []Diagnostic

	pending     strings.Builder
	pendingType TokenType
	pendingPos  Position

	inQuote    bool
	blockDepth int
}

// Tokenize turns one statement into its token list. Problems are reported as
// diagnostics; the returned tokens are always usable as-is.
func Tokenize(stmt string) ([]Token, []Diagnostic) {
	l := newLexer(stmt)
	for l.readRune() {
		switch {
		case l.blockDepth > 0:
			l.lexBlock()
		case l.inQuote:
			l.lexQuoted()
		default:
			l.lexPlain()
		}
	}
	l.finish()
	return l.tokens, l.diags
}

func newLexer(input string) *lexer {
	return &lexer{input: input}
}

func (l *lexer) readRune() bool {
	if l.offset >= len(l.input) {
		l.width = 0
		l.ch = 0
		return false
	}
	r, w := utf8.DecodeRuneInString(l.input[l.offset:])
	l.width = w
	l.offset += w
	l.column++
	l.ch = r
	return true
}

func (l *lexer) pos() Position {
	return Position{Column: l.column}
}

func (l *lexer) lexBlock() {
	switch l.ch {
	case '{':
		l.blockDepth++
	case '}':
		l.blockDepth--
		if l.blockDepth == 0 {
			l.emitPending()
			return
		}
	}
	l.pending.WriteRune(l.ch)
}

func (l *lexer) lexQuoted() {
	if l.ch == '"' {
		l.inQuote = false
		l.emitPending()
		return
	}
	l.pending.WriteRune(l.ch)
}

func (l *lexer) lexPlain() {
	ch := l.ch
	switch {
	case ch == '{':
		l.flush()
		l.start(tokenBlock)
		l.blockDepth = 1
	case ch == '"':
		l.flush()
		l.start(tokenString)
		l.inQuote = true
	case unicode.IsSpace(ch):
		l.flush()
	case isIdentifierStart(ch):
		if l.pendingType != tokenIdent {
			l.flush()
			l.start(tokenIdent)
		}
		l.pending.WriteRune(ch)
	case isDigit(ch):
		if l.pendingType != tokenIdent && l.pendingType != tokenNumber {
			l.start(tokenNumber)
		}
		l.pending.WriteRune(ch)
	case ch == '.' || (ch == '-' && l.pendingType != tokenIdent):
		if l.pendingType != tokenNumber {
			l.flush()
			l.start(tokenNumber)
		}
		l.pending.WriteRune(ch)
	default:
		tt, ok := delimiterTokens[ch]
		if !ok {
			l.flush()
			l.report("unexpected character %q", ch)
			return
		}
		l.flush()
		l.tokens = append(l.tokens, Token{Type: tt, Literal: string(ch), Pos: l.pos()})
	}
}

func (l *lexer) start(tt TokenType) {
	l.pending.Reset()
	l.pendingType = tt
	l.pendingPos = l.pos()
}

// flush emits a pending identifier or number. Strings and blocks are only
// emitted by their closing character or by finish.
func (l *lexer) flush() {
	if l.pendingType == tokenIdent || l.pendingType == tokenNumber {
		l.emitPending()
	}
}

func (l *lexer) emitPending() {
	if l.pendingType == "" {
		return
	}
	text := l.pending.String()
	tt := l.pendingType
	switch {
	case tt == tokenString && strings.ContainsRune(text, '\\'):
		text = escapeReplacer.Replace(text)
	case tt == tokenNumber && text == "-":
		// a lone minus is the subtraction operator, not a literal
		tt = tokenArithmetic
	}
	l.tokens = append(l.tokens, Token{Type: tt, Literal: text, Pos: l.pendingPos})
	l.pending.Reset()
	l.pendingType = ""
}

func (l *lexer) finish() {
	if l.inQuote {
		l.diags = append(l.diags, l.diagnosticAt(l.pendingPos, "unterminated quote"))
		l.inQuote = false
	}
	if l.blockDepth > 0 {
		l.diags = append(l.diags, l.diagnosticAt(l.pendingPos, "unterminated block"))
		l.blockDepth = 0
	}
	l.emitPending()
}

func (l *lexer) report(format string, args ...any) {
	l.diags = append(l.diags, l.diagnosticAt(l.pos(), format, args...))
}

func (l *lexer) diagnosticAt(pos Position, format string, args ...any) Diagnostic {
	return newDiagnostic(SeverityParse, l.input, pos, format, args...)
}

func isIdentifierStart(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_'
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
