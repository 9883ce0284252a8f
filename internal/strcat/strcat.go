// Package strcat is C6, adjacent string-literal concatenation: a standalone
// post-pass over an already-tokenized stream that folds every run of
// adjacent StringLit tokens into one, picking the highest-ranked encoding
// among the run and bumping to UTF-32 whenever that choice would narrow a
// wider operand (§4.6). Grounded on yecc's lex/string_concat.c: lit_promote
// becomes Promote, lex_concat_string_pair becomes ConcatPair, and
// lex_concat_adjacent_string_literals becomes ConcatAdjacent. Unlike the
// reference's single global translation unit, this runs once per file's
// token slice, after the lexer (package lexer) has already produced it —
// Lexer.Next stays a streaming one-token-at-a-time API and never merges
// literals itself.
package strcat

import (
	"encoding/binary"
	"fmt"
	"unicode/utf8"

	"cfront/internal/cctx"
	"cfront/internal/diag"
	"cfront/internal/source"
	"cfront/internal/token"
)

// unitBits returns the code-unit width enc stores its payload in, consulting
// wcharBits only for EncWide (the reference's w_append policy).
func unitBits(enc token.Encoding, wcharBits int) int {
	switch enc {
	case token.EncUTF16:
		return 16
	case token.EncUTF32:
		return 32
	case token.EncWide:
		return wcharBits
	default:
		return 8
	}
}

// Promote picks the result encoding for concatenating a literal of encoding
// a with one of encoding b: highest rank wins (plain<utf8<utf16<utf32<wide),
// then the choice is bumped to UTF-32 if it would narrow either input's unit
// width — the "shouldn't happen in practice" fallback to UTF-16 mirrors the
// reference's own guard for a still-too-narrow bump.
func Promote(a, b token.Encoding, wcharBits int) token.Encoding {
	result := a
	if b > a {
		result = b
	}
	need := unitBits(a, wcharBits)
	if nb := unitBits(b, wcharBits); nb > need {
		need = nb
	}
	if unitBits(result, wcharBits) < need {
		result = token.EncUTF32
		if unitBits(result, wcharBits) < need {
			result = token.EncUTF16
		}
	}
	return result
}

// DecodeCodepoints unpacks a StringLit token's raw StringBytes payload
// (terminator included) back into Unicode scalar values, mirroring
// for_each_cp_from_token's per-encoding dispatch.
func DecodeCodepoints(enc token.Encoding, data []byte) []rune {
	switch enc {
	case token.EncUTF16:
		return decodeUTF16(data)
	case token.EncUTF32, token.EncWide:
		return decodeUTF32(data)
	default:
		return decodeUTF8(data)
	}
}

func decodeUTF8(data []byte) []rune {
	var out []rune
	for i := 0; i < len(data); {
		if data[i] == 0 {
			break
		}
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size <= 1 {
			out = append(out, 0xFFFD)
			i++
			continue
		}
		out = append(out, r)
		i += size
	}
	return out
}

func decodeUTF16(data []byte) []rune {
	var out []rune
	for i := 0; i+1 < len(data); {
		u := binary.LittleEndian.Uint16(data[i:])
		if u == 0 {
			break
		}
		i += 2
		if u >= 0xD800 && u <= 0xDBFF && i+1 < len(data) {
			lo := binary.LittleEndian.Uint16(data[i:])
			if lo >= 0xDC00 && lo <= 0xDFFF {
				i += 2
				out = append(out, rune(0x10000+(uint32(u)-0xD800)<<10+(uint32(lo)-0xDC00)))
				continue
			}
		}
		out = append(out, rune(u))
	}
	return out
}

func decodeUTF32(data []byte) []rune {
	var out []rune
	for i := 0; i+3 < len(data); i += 4 {
		u := binary.LittleEndian.Uint32(data[i:])
		if u == 0 {
			break
		}
		out = append(out, rune(u))
	}
	return out
}

// EncodeCodepoints re-packs cps into enc's code-unit layout plus terminator,
// mirroring u8_append/u16_append/u32_append/w_append. A code point that
// can't fit the target unit width (narrow wchar_t) is substituted with
// U+FFFD and reported through rep, matching the width-hazard policy used for
// a single literal's own escapes (§4.4 P9).
func EncodeCodepoints(rep diag.Reporter, ctx *cctx.Context, sp source.Span, enc token.Encoding, wcharBits int, cps []rune) []byte {
	switch enc {
	case token.EncUTF16:
		return encodeUTF16(cps)
	case token.EncUTF32, token.EncWide:
		return encodeUTF32(rep, ctx, sp, enc, wcharBits, cps)
	default:
		return encodeUTF8(cps)
	}
}

func encodeUTF8(cps []rune) []byte {
	var out []byte
	for _, r := range cps {
		var tmp [utf8.UTFMax]byte
		n := utf8.EncodeRune(tmp[:], r)
		out = append(out, tmp[:n]...)
	}
	return append(out, 0)
}

func encodeUTF16(cps []rune) []byte {
	var out []byte
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
	return append(out, 0, 0)
}

func encodeUTF32(rep diag.Reporter, ctx *cctx.Context, sp source.Span, enc token.Encoding, wcharBits int, cps []rune) []byte {
	bits := 32
	if enc == token.EncWide {
		bits = wcharBits
	}
	var out []byte
	for _, r := range cps {
		if bits < 32 && uint32(r) >= 1<<uint(bits) {
			warn(rep, ctx, diag.LexWideCharTruncated, cctx.WStringWidthPromotion, sp, "code point U+%04X is not representable in the target wchar_t", r)
			r = 0xFFFD
		}
		var u [4]byte
		binary.LittleEndian.PutUint32(u[:], uint32(r))
		out = append(out, u[:]...)
	}
	return append(out, 0, 0, 0, 0)
}

func warn(rep diag.Reporter, ctx *cctx.Context, code diag.Code, w cctx.Warning, sp source.Span, format string, args ...any) {
	if rep == nil {
		return
	}
	sev := diag.SevWarning
	if ctx != nil && ctx.WarningIsError(w) {
		sev = diag.SevError
	}
	rep.Report(code, sev, sp, fmt.Sprintf(format, args...), nil, nil)
}

// ConcatPair merges two adjacent string-literal tokens a, b into one,
// emitting W_STRING_WIDTH_PROMOTION when the chosen encoding differs from
// either operand's own — mirrors lex_concat_string_pair.
func ConcatPair(rep diag.Reporter, ctx *cctx.Context, a, b token.Token) token.Token {
	wcharBits := 32
	if ctx != nil {
		wcharBits = ctx.WcharBits()
	}
	result := Promote(a.Encoding, b.Encoding, wcharBits)
	sp := source.Span{File: a.Span.File, Start: a.Span.Start, End: b.Span.End}

	if result != a.Encoding {
		warn(rep, ctx, diag.LexStringWidthPromotion, cctx.WStringWidthPromotion, sp,
			"string literal encoding promoted from %s to %s by concatenation", a.Encoding, result)
	}
	if result != b.Encoding {
		warn(rep, ctx, diag.LexStringWidthPromotion, cctx.WStringWidthPromotion, sp,
			"string literal encoding promoted from %s to %s by concatenation", b.Encoding, result)
	}

	cps := append(DecodeCodepoints(a.Encoding, a.StringBytes), DecodeCodepoints(b.Encoding, b.StringBytes)...)
	return token.Token{
		Kind:        token.StringLit,
		Span:        sp,
		Encoding:    result,
		StringBytes: EncodeCodepoints(rep, ctx, sp, result, wcharBits, cps),
	}
}

// ConcatAdjacent is the post-pass itself: it walks toks once, folding every
// maximal run of adjacent StringLit tokens into a single merged token,
// mirroring lex_concat_adjacent_string_literals. Non-string tokens pass
// through untouched; trivia (whitespace, comments) never reaches toks in the
// first place, so "adjacent" here means adjacent in the token stream.
func ConcatAdjacent(rep diag.Reporter, ctx *cctx.Context, toks []token.Token) []token.Token {
	out := make([]token.Token, 0, len(toks))
	i := 0
	for i < len(toks) {
		t := toks[i]
		if t.Kind != token.StringLit {
			out = append(out, t)
			i++
			continue
		}
		merged := t
		j := i + 1
		for j < len(toks) && toks[j].Kind == token.StringLit {
			merged = ConcatPair(rep, ctx, merged, toks[j])
			j++
		}
		out = append(out, merged)
		i = j
	}
	return out
}
