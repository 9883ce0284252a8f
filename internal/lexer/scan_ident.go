package lexer

import (
	"unicode/utf8"

	"cfront/internal/cctx"
	"cfront/internal/diag"
	"cfront/internal/source"
	"cfront/internal/token"
)

// scanIdentOrKeyword implements P7: a maximal run of [A-Za-z_], digits
// (not at the start), UCN escapes folded to UTF-8, non-ASCII UTF-8 bytes,
// and (GNU mode) '$'. The spelling is interned and classified against the
// keyword table under the active standard/GNU/in_directive settings.
func (lx *Lexer) scanIdentOrKeyword(start source.Span) token.Token {
	var buf []byte
	first := true
	for {
		b := lx.rawPeek()
		switch {
		case isIdentContinueByte(b) && !(first && isDecByte(b)):
			buf = append(buf, byte(lx.rawNext()))
		case b == '$' && lx.opts.Context != nil && lx.opts.Context.GNUExtensions():
			buf = append(buf, byte(lx.rawNext()))
		case b == '\\' && (lx.peekAt(1) == 'u' || lx.peekAt(1) == 'U'):
			r, ok := lx.scanUCN()
			if !ok {
				goto done
			}
			var tmp [utf8.UTFMax]byte
			n := utf8.EncodeRune(tmp[:], r)
			buf = append(buf, tmp[:n]...)
		case b >= 0x80:
			buf = append(buf, byte(lx.rawNext()))
		default:
			goto done
		}
		first = false
	}
done:
	sp := lx.spanFrom(start)
	spelling := string(buf)

	std := token.StdC23
	gnu := false
	if lx.opts.Context != nil {
		std = lx.opts.Context.LangStd()
		gnu = lx.opts.Context.GNUExtensions()
	}

	kind, status, isKw := token.LookupKeyword(spelling, std, gnu, lx.inDirective)
	if isKw {
		if token.KeywordGatedByStandard(spelling, std, gnu, lx.inDirective) {
			lx.warn(diag.LexPedantic, cctx.WPedantic, sp, "%q is not a keyword under the active standard", spelling)
		}
		if status == token.C23StatusDeprecated {
			lx.warn(diag.LexDeprecated, cctx.WDeprecated, sp, "%q is a deprecated spelling", spelling)
		}
		if status == token.C23StatusRemoved && std >= token.StdC23 && !gnu {
			lx.report(diag.LexC23Removed, diag.SevError, sp, "%q was removed in the active standard", spelling)
		}
		lx.armDirectiveState(kind)
		return token.Token{Kind: kind, Span: sp, Str: lx.intern(buf)}
	}

	return token.Token{Kind: token.Ident, Span: sp, Str: lx.intern(buf)}
}

// armDirectiveState implements the tail of P6: the first identifier after
// a directive-opening '#' both selects ppKind and, for include-like
// directives, arms ExpectingHeaderName.
func (lx *Lexer) armDirectiveState(kind token.Kind) {
	if !lx.inDirective {
		return
	}
	switch kind {
	case token.KwPpInclude:
		lx.ppKind = ppInclude
		lx.st = stateExpectingHeaderName
		lx.expectHN = true
	case token.KwPpIncludeNext:
		lx.ppKind = ppIncludeNext
		lx.st = stateExpectingHeaderName
		lx.expectHN = true
	case token.KwPpImport:
		lx.ppKind = ppImport
		lx.st = stateExpectingHeaderName
		lx.expectHN = true
	case token.KwPpEmbed:
		lx.ppKind = ppEmbed
		lx.st = stateExpectingHeaderName
		lx.expectHN = true
	default:
		if lx.ppKind == ppNone {
			lx.ppKind = ppOther
		}
	}
}

// scanUCN consumes `\u` + 4 hex digits or `\U` + 8 hex digits and returns
// the decoded scalar, validating against surrogates and the U+10FFFF
// ceiling (§4.4 P9); invalid values map to U+FFFD.
func (lx *Lexer) scanUCN() (rune, bool) {
	start := lx.pos()
	lx.rawNext() // backslash
	wide := lx.rawNext() == 'U'
	n := 4
	if wide {
		n = 8
	}
	var v rune
	for i := 0; i < n; i++ {
		b := lx.rawPeek()
		if !isHexByte(b) {
			lx.report(diag.LexBadEscape, diag.SevError, lx.spanFrom(start), "incomplete universal character name")
			return utf8.RuneError, true
		}
		lx.rawNext()
		v = v<<4 | rune(hexVal(b))
	}
	if (v >= 0xD800 && v <= 0xDFFF) || v > 0x10FFFF {
		lx.report(diag.LexBadEscape, diag.SevError, lx.spanFrom(start), "universal character name denotes an invalid code point")
		return 0xFFFD, true
	}
	return v, true
}
