package lexer

import (
	"cfront/internal/cctx"
	"cfront/internal/diag"
	"cfront/internal/token"
)

// skipTrivia consumes the UTF-8 BOM (P4, once, at file start), then loops
// skipping ASCII whitespace and comments (P5) until a significant byte is
// reached or EOF.
func (lx *Lexer) skipTrivia() {
	lx.skipBOM()
	for {
		if lx.stream.Eof() {
			return
		}
		b := lx.rawPeek()
		switch {
		case b == ' ' || b == '\t' || b == '\v' || b == '\f':
			lx.rawNext()
		case b == '\n':
			lx.rawNext()
			lx.atLineStart = true
			lx.inDirective = false
			lx.st = stateStart
		case b == '/' && lx.peekAt(1) == '/':
			lx.skipLineComment()
		case b == '/' && lx.peekAt(1) == '*':
			lx.skipBlockComment()
		default:
			return
		}
	}
}

func (lx *Lexer) skipBOM() {
	if lx.stream.Position().Offset != 0 {
		return
	}
	blob := lx.stream.GetBlob()
	if blob[2] == 0xEF && blob[3] == 0xBB && blob[4] == 0xBF {
		lx.stream.Next()
		lx.stream.Next()
		lx.stream.Next()
		lx.stream.ResetColumn()
	}
}

func (lx *Lexer) skipLineComment() {
	start := lx.pos()
	lx.rawNext() // first /
	lx.rawNext() // second /
	if lx.opts.Context != nil && !lx.opts.Context.StdAtLeast(token.StdC99) && !lx.opts.Context.GNUExtensions() {
		lx.warn(diag.LexPedantic, cctx.WPedantic, lx.spanFrom(start), "// comments are a C99 extension")
	}
	for !lx.stream.Eof() {
		if lx.rawPeek() == '\n' {
			return
		}
		lx.rawNext()
	}
}

func (lx *Lexer) skipBlockComment() {
	start := lx.pos()
	lx.rawNext() // /
	lx.rawNext() // *
	for {
		if lx.stream.Eof() {
			lx.report(diag.LexUnterminatedBlockComment, diag.SevError, lx.spanFrom(start), "unterminated block comment")
			lx.enterRecovering()
			return
		}
		if lx.rawPeek() == '*' && lx.peekAt(1) == '/' {
			lx.rawNext()
			lx.rawNext()
			return
		}
		lx.rawNext()
	}
}
