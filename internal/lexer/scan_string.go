package lexer

import (
	"encoding/binary"
	"unicode/utf8"

	"cfront/internal/cctx"
	"cfront/internal/diag"
	"cfront/internal/source"
	"cfront/internal/token"
)

// isLiteralPrefix reports whether (b0,b1,b2) opens a prefixed string or
// character literal: u8"/u8'/u"/u'/U"/U'/L"/L' (§4.4 P9's five forms).
func isLiteralPrefix(b0, b1, b2 byte) bool {
	switch b0 {
	case 'u':
		return b1 == '8' && (b2 == '"' || b2 == '\'') || b1 == '"' || b1 == '\''
	case 'U', 'L':
		return b1 == '"' || b1 == '\''
	}
	return false
}

func (lx *Lexer) scanPrefixedLiteral(start source.Span) token.Token {
	b0 := lx.rawPeek()
	switch b0 {
	case 'u':
		if lx.peekAt(1) == '8' {
			lx.rawNext()
			lx.rawNext()
			return lx.openLiteral(start, token.EncUTF8)
		}
		lx.rawNext()
		return lx.openLiteral(start, token.EncUTF16)
	case 'U':
		lx.rawNext()
		return lx.openLiteral(start, token.EncUTF32)
	case 'L':
		lx.rawNext()
		return lx.openLiteral(start, token.EncWide)
	}
	return lx.scanOperator(start)
}

func (lx *Lexer) openLiteral(start source.Span, enc token.Encoding) token.Token {
	if lx.rawPeek() == '"' {
		return lx.scanString(start, enc)
	}
	return lx.scanChar(start, enc)
}

// scanEscape decodes one escape sequence (the leading '\' already seen by
// the caller's peek) per P9: simple, octal (1-3 digits), hex (unbounded
// digits), and UCN. Returns the decoded scalar.
func (lx *Lexer) scanEscape(plain bool) rune {
	start := lx.pos()
	lx.rawNext() // backslash
	b := lx.rawPeek()
	switch b {
	case 'a':
		lx.rawNext()
		return 7
	case 'b':
		lx.rawNext()
		return 8
	case 'f':
		lx.rawNext()
		return 12
	case 'n':
		lx.rawNext()
		return 10
	case 'r':
		lx.rawNext()
		return 13
	case 't':
		lx.rawNext()
		return 9
	case 'v':
		lx.rawNext()
		return 11
	case '\\', '\'', '"', '?':
		lx.rawNext()
		return rune(b)
	case 'x':
		lx.rawNext()
		if !isHexByte(lx.rawPeek()) {
			lx.report(diag.LexBadEscape, diag.SevError, lx.spanFrom(start), `\x used with no following hex digits`)
			return 0xFFFD
		}
		var v rune
		for isHexByte(lx.rawPeek()) {
			v = v<<4 | rune(hexVal(byte(lx.rawPeek())))
			lx.rawNext()
		}
		return v
	case 'u', 'U':
		r, _ := lx.scanUCNFrom(start)
		if plain {
			lx.warn(diag.LexUCNInPlainLiteral, cctx.WStringWidthPromotion, lx.spanFrom(start), "universal character name not allowed in plain literal, substituting U+FFFD")
			r = 0xFFFD
		}
		return r
	default:
		if isOctByte(b) {
			var v rune
			for i := 0; i < 3 && isOctByte(lx.rawPeek()); i++ {
				v = v<<3 | rune(lx.rawPeek()-'0')
				lx.rawNext()
			}
			return v
		}
		lx.report(diag.LexBadEscape, diag.SevError, lx.spanFrom(start), "unknown escape sequence '\\%c'", b)
		lx.rawNext()
		return rune(b)
	}
}

// scanUCNFrom re-reads a \u/\U sequence whose backslash was already
// consumed by scanEscape; shares validation with scanUCN.
func (lx *Lexer) scanUCNFrom(start source.Span) (rune, bool) {
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
			return 0xFFFD, true
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

// scanString implements the body of P9 for "..." literals: accumulate
// code points until the closing quote, decoding escapes and validating
// UTF-8 in encoded forms.
func (lx *Lexer) scanString(start source.Span, enc token.Encoding) token.Token {
	lx.rawNext() // opening quote
	var codepoints []rune
	for {
		if lx.stream.Eof() {
			lx.report(diag.LexUnterminatedString, diag.SevError, lx.spanFrom(start), "unterminated string literal")
			lx.enterRecovering()
			break
		}
		b := lx.rawPeek()
		if b == '"' {
			lx.rawNext()
			break
		}
		if b == '\n' {
			lx.report(diag.LexUnterminatedString, diag.SevError, lx.spanFrom(start), "unterminated string literal")
			lx.enterRecovering()
			break
		}
		if b == '\\' {
			codepoints = append(codepoints, lx.scanEscape(enc == token.EncPlain))
			continue
		}
		r, consumed := lx.decodeSourceRune(enc)
		codepoints = append(codepoints, r)
		_ = consumed
	}
	return token.Token{
		Kind:        token.StringLit,
		Span:        lx.spanFrom(start),
		Encoding:    enc,
		StringBytes: lx.encodeCodepoints(start, codepoints, enc),
	}
}

// scanChar implements P9 for '...' literals: exactly one code point is the
// common case, but multi-character plain/u16/u32/wide literals are
// accepted and packed most-significant-byte-first (§9 Open Questions),
// firing W_MULTICHAR_CHAR.
func (lx *Lexer) scanChar(start source.Span, enc token.Encoding) token.Token {
	lx.rawNext() // opening quote
	var codepoints []rune
	for {
		if lx.stream.Eof() {
			lx.report(diag.LexUnterminatedChar, diag.SevError, lx.spanFrom(start), "unterminated character constant")
			lx.enterRecovering()
			break
		}
		b := lx.rawPeek()
		if b == '\'' {
			lx.rawNext()
			break
		}
		if b == '\n' {
			lx.report(diag.LexUnterminatedChar, diag.SevError, lx.spanFrom(start), "unterminated character constant")
			lx.enterRecovering()
			break
		}
		if b == '\\' {
			codepoints = append(codepoints, lx.scanEscape(enc == token.EncPlain))
			continue
		}
		r, _ := lx.decodeSourceRune(enc)
		codepoints = append(codepoints, r)
	}

	if len(codepoints) == 0 {
		lx.report(diag.LexBadEscape, diag.SevError, lx.spanFrom(start), "empty character constant")
		codepoints = []rune{0}
	}
	if len(codepoints) > 1 {
		lx.warn(diag.LexMulticharChar, cctx.WMulticharChar, lx.spanFrom(start), "multi-character character constant")
	}

	var packed uint32
	for _, r := range codepoints {
		packed = packed<<8 | (uint32(r) & 0xFF)
	}

	return token.Token{
		Kind:      token.CharLit,
		Span:      lx.spanFrom(start),
		Encoding:  enc,
		CharValue: packed,
	}
}

func (lx *Lexer) wcharBits() int {
	if lx.opts.Context == nil {
		return 32
	}
	return lx.opts.Context.WcharBits()
}

// decodeSourceRune reads one source code point at the current position.
// In plain encoding, any non-ASCII byte is an error substituted with '?'
// (P9); in encoded forms, invalid UTF-8 decodes to U+FFFD.
func (lx *Lexer) decodeSourceRune(enc token.Encoding) (rune, int) {
	b := lx.rawPeek()
	if b < 0x80 {
		lx.rawNext()
		return rune(b), 1
	}
	if enc == token.EncPlain {
		start := lx.pos()
		lx.rawNext()
		lx.report(diag.LexInvalidUTF8, diag.SevError, lx.spanFrom(start), "non-ASCII byte in plain string/char literal")
		return '?', 1
	}
	buf := []byte{b, lx.peekAt(1), lx.peekAt(2), lx.peekAt(3)}
	r, size := utf8.DecodeRune(buf)
	if r == utf8.RuneError && size <= 1 {
		start := lx.pos()
		lx.rawNext()
		lx.report(diag.LexInvalidUTF8, diag.SevError, lx.spanFrom(start), "invalid UTF-8 sequence")
		return 0xFFFD, 1
	}
	for i := 0; i < size; i++ {
		lx.rawNext()
	}
	return r, size
}

// encodeCodepoints re-encodes decoded code points into the code-unit
// sequence for enc, applying width checks for wide literals (§4.4 P9):
// a code point exceeding the target wchar's representable range is
// replaced by U+FFFD with a warning.
func (lx *Lexer) encodeCodepoints(start source.Span, cps []rune, enc token.Encoding) []byte {
	var out []byte
	switch enc {
	case token.EncUTF8, token.EncPlain:
		for _, r := range cps {
			var tmp [utf8.UTFMax]byte
			n := utf8.EncodeRune(tmp[:], r)
			out = append(out, tmp[:n]...)
		}
		out = append(out, 0)
	case token.EncUTF16:
		for _, r := range cps {
			if r <= 0xFFFF {
				var u [2]byte
				binary.LittleEndian.PutUint16(u[:], uint16(r))
				out = append(out, u[:]...)
				continue
			}
			r -= 0x10000
			hi := 0xD800 + (r >> 10)
			lo := 0xDC00 + (r & 0x3FF)
			var u [4]byte
			binary.LittleEndian.PutUint16(u[0:2], uint16(hi))
			binary.LittleEndian.PutUint16(u[2:4], uint16(lo))
			out = append(out, u[:]...)
		}
		out = append(out, 0, 0)
	case token.EncUTF32, token.EncWide:
		unitBits := 32
		if enc == token.EncWide {
			unitBits = lx.wcharBits()
		}
		for _, r := range cps {
			if unitBits < 32 && uint32(r) >= 1<<uint(unitBits) {
				lx.warn(diag.LexWideCharTruncated, cctx.WStringWidthPromotion, lx.spanFrom(start), "code point U+%04X is not representable in the target wchar_t", r)
				r = 0xFFFD
			}
			var u [4]byte
			binary.LittleEndian.PutUint32(u[:], uint32(r))
			out = append(out, u[:]...)
		}
		out = append(out, 0, 0, 0, 0)
	}
	return out
}
