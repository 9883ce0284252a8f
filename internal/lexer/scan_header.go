package lexer

import (
	"cfront/internal/diag"
	"cfront/internal/source"
	"cfront/internal/token"
)

// tryHeaderName implements the ExpectingHeaderName state (§6): right after
// an include-like directive name, `<...>` or `"..."` is captured as a
// single HeaderName token with no escape interpretation, rather than
// being lexed as an operator/string-literal run. Any other byte here
// means the directive wasn't followed by a header name (e.g. a macro
// expansion would go here); tryHeaderName reports false and next()
// resumes ordinary dispatch.
func (lx *Lexer) tryHeaderName(start source.Span) (token.Token, bool) {
	b := lx.rawPeek()
	switch b {
	case '<':
		return lx.scanHeaderName(start, '<', '>')
	case '"':
		return lx.scanHeaderName(start, '"', '"')
	default:
		return token.Token{}, false
	}
}

func (lx *Lexer) scanHeaderName(start source.Span, open, close byte) (token.Token, bool) {
	lx.rawNext()
	var buf []byte
	for {
		b := lx.rawPeek()
		if b == close {
			lx.rawNext()
			sp := lx.spanFrom(start)
			return token.Token{Kind: token.HeaderName, Span: sp, Str: lx.intern(buf)}, true
		}
		if b == '\n' || lx.stream.Eof() {
			const msg = "unterminated header name"
			lx.report(diag.LexUnterminatedHeaderName, diag.SevError, lx.spanFrom(start), msg)
			lx.enterRecovering()
			return token.Token{Kind: token.Invalid, Span: lx.spanFrom(start), Str: lx.intern([]byte(msg))}, true
		}
		if open == '"' && b == '\\' {
			nxt := lx.peekAt(1)
			if nxt == '"' || nxt == '\\' {
				buf = append(buf, byte(lx.rawNext()))
				buf = append(buf, byte(lx.rawNext()))
				continue
			}
		}
		buf = append(buf, byte(lx.rawNext()))
	}
}
