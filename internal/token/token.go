package token

import (
	"cfront/internal/intern"
	"cfront/internal/source"
)

// Flags is a bitset of per-token modifiers: integer-suffix presence
// (§3 Data Model). A literal's encoding is kept in Token.Encoding.
type Flags uint16

const (
	FlagUnsigned Flags = 1 << iota // u/U integer suffix
	FlagLong                       // l/L integer suffix
	FlagLongLong                   // ll/LL integer suffix
)

// Encoding is the string/char-literal encoding, ranked so that
// concatenation promotion (§4.6) can pick max(a.Encoding, b.Encoding).
type Encoding uint8

const (
	EncPlain Encoding = iota
	EncUTF8
	EncUTF16
	EncUTF32
	EncWide
)

func (e Encoding) String() string {
	switch e {
	case EncPlain:
		return "plain"
	case EncUTF8:
		return "utf8"
	case EncUTF16:
		return "utf16"
	case EncUTF32:
		return "utf32"
	case EncWide:
		return "wide"
	default:
		return "unknown"
	}
}

// IntBase records the base an integer-constant was written in.
type IntBase uint8

const (
	BaseNone IntBase = iota
	Base2
	Base8
	Base10
	Base16
)

// FloatStyle distinguishes decimal from hexadecimal floating-constants.
type FloatStyle uint8

const (
	FloatDecimal FloatStyle = iota
	FloatHex
)

// FloatSuffix is the canonical suffix tag recorded in numeric_extra.
type FloatSuffix uint8

const (
	FloatSuffixNone FloatSuffix = iota
	FloatSuffixF
	FloatSuffixL
	FloatSuffixF16
	FloatSuffixF32
	FloatSuffixF64
	FloatSuffixF128
	FloatSuffixF32x
	FloatSuffixF64x
	FloatSuffixF128x
	FloatSuffixDF
	FloatSuffixDD
	FloatSuffixDL
)

// Token is the discriminated output value of the lexer: kind, span, flags,
// and a payload interpreted according to Kind/Flags (§3 Data Model). Only
// the fields relevant to Kind are meaningful; the rest are zero.
type Token struct {
	Kind Kind
	Span source.Span
	Flags Flags

	// Ident / HeaderName / keyword-spelling / Invalid: interned spelling or
	// error message.
	Str intern.ID

	// IntLit.
	IntValue uint64 // reinterpret as int64 when Flags&FlagUnsigned == 0
	Base     IntBase

	// FloatLit.
	FloatValue  float64
	FloatStyle  FloatStyle
	FloatSuffix FloatSuffix

	// CharLit: the packed code point (possibly multi-character, packed
	// most-significant-byte-first per the reference's bug-for-bug behavior,
	// §9 Open Questions). Encoding selects the unit width.
	CharValue uint32
	Encoding  Encoding

	// StringLit: owned, null-terminated code units in Encoding.
	// Stored as bytes regardless of unit width (UTF-16/32/wide units are
	// little-endian-packed host order); callers needing typed units decode
	// via encoding/binary.
	StringBytes []byte
}

// IsLiteral reports whether the token is a numeric, character, or string
// literal.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case IntLit, FloatLit, CharLit, StringLit:
		return true
	default:
		return false
	}
}

// IsIdent reports whether the token is a plain (non-keyword) identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }

// Signed reports the integer payload as a signed value; only meaningful
// when Flags&FlagUnsigned == 0.
func (t Token) Signed() int64 { return int64(t.IntValue) }
