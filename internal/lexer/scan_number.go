package lexer

import (
	"math"
	"strconv"
	"strings"

	"cfront/internal/cctx"
	"cfront/internal/diag"
	"cfront/internal/source"
	"cfront/internal/token"
)

// scanNumber implements P8: one entry point for both integer- and
// floating-constants, branching on base prefix, '.'/exponent, and suffix.
func (lx *Lexer) scanNumber(start source.Span) token.Token {
	base := token.Base10
	var digits []byte
	isFloat := false
	floatStyle := token.FloatDecimal

	if lx.rawPeek() == '0' {
		digits = append(digits, byte(lx.rawNext()))
		switch lx.rawPeek() {
		case 'x', 'X':
			digits = append(digits, byte(lx.rawNext()))
			base = token.Base16
		case 'b', 'B':
			if lx.opts.Context == nil || !(lx.opts.Context.StdAtLeast(token.StdC23) || lx.opts.Context.GNUExtensions()) {
				lx.warn(diag.LexPedantic, cctx.WPedantic, lx.spanFrom(start), "binary integer literals require C23 or GNU extensions")
			}
			digits = append(digits, byte(lx.rawNext()))
			base = token.Base2
		default:
			base = token.Base8
		}
	}

	digitOK := func(b byte) bool {
		switch base {
		case token.Base16:
			return isHexByte(b)
		case token.Base2:
			return isBinByte(b)
		case token.Base8:
			return isOctByte(b) || b == '8' || b == '9' // tolerate; caught by strconv
		default:
			return isDecByte(b)
		}
	}

	var mantissa []byte
	mantissa = append(mantissa, digits...)

	readDigitRun := func() {
		for {
			b := lx.rawPeek()
			if digitOK(b) {
				mantissa = append(mantissa, byte(lx.rawNext()))
				continue
			}
			if b == '\'' || b == '_' {
				prevOK := len(mantissa) > 0 && digitOK(mantissa[len(mantissa)-1])
				nextOK := digitOK(lx.peekAt(1))
				sepStart := lx.pos()
				lx.rawNext()
				if !prevOK || !nextOK {
					lx.report(diag.LexBadDigitSeparator, diag.SevError, lx.spanFrom(sepStart), "digit separator must appear between two digits")
				}
				continue
			}
			return
		}
	}
	readDigitRun()

	if lx.rawPeek() == '.' {
		isFloat = true
		if base == token.Base16 {
			floatStyle = token.FloatHex
		}
		mantissa = append(mantissa, byte(lx.rawNext()))
		readDigitRun()
	}

	expMarkers := map[byte]bool{'e': true, 'E': true}
	if base == token.Base16 {
		expMarkers = map[byte]bool{'p': true, 'P': true}
	}
	var exponent []byte
	if expMarkers[lx.rawPeek()] {
		isFloat = true
		exponent = append(exponent, byte(lx.rawNext()))
		if lx.rawPeek() == '+' || lx.rawPeek() == '-' {
			exponent = append(exponent, byte(lx.rawNext()))
		}
		expDigitsStart := len(exponent)
		for isDecByte(lx.rawPeek()) {
			exponent = append(exponent, byte(lx.rawNext()))
		}
		if len(exponent) == expDigitsStart {
			lx.report(diag.LexBadExponent, diag.SevError, lx.spanFrom(start), "exponent has no digits")
		}
	} else if base == token.Base16 && isFloat {
		lx.report(diag.LexBadExponent, diag.SevError, lx.spanFrom(start), "hexadecimal floating constant requires a p/P exponent")
	}

	if isFloat {
		return lx.finishFloat(start, mantissa, exponent, floatStyle)
	}
	return lx.finishInt(start, mantissa, base)
}

func stripSeparators(b []byte) []byte {
	out := make([]byte, 0, len(b))
	for _, c := range b {
		if c != '\'' && c != '_' {
			out = append(out, c)
		}
	}
	return out
}

func (lx *Lexer) finishInt(start source.Span, digits []byte, base token.IntBase) token.Token {
	flags, ok := lx.scanIntSuffix(start)
	if !ok {
		lx.report(diag.LexBadIntegerSuffix, diag.SevError, lx.spanFrom(start), "invalid integer suffix")
	}

	clean := string(stripSeparators(digits))
	var prefixless string
	goBase := 10
	switch base {
	case token.Base16:
		prefixless = clean[2:]
		goBase = 16
	case token.Base2:
		prefixless = clean[2:]
		goBase = 2
	case token.Base8:
		prefixless = clean
		goBase = 8
	default:
		prefixless = clean
		goBase = 10
	}
	if prefixless == "" {
		prefixless = "0"
	}

	v, err := strconv.ParseUint(prefixless, goBase, 64)
	if err != nil {
		lx.report(diag.LexBadNumber, diag.SevError, lx.spanFrom(start), "invalid integer constant %q", clean)
	}

	sp := lx.spanFrom(start)
	return token.Token{
		Kind:     token.IntLit,
		Span:     sp,
		Flags:    flags,
		IntValue: v,
		Base:     base,
	}
}

// scanIntSuffix consumes u/U and l/L (any order; at most one u, at most
// two l) per P8's suffix rule.
func (lx *Lexer) scanIntSuffix(start source.Span) (token.Flags, bool) {
	var flags token.Flags
	uCount, lCount := 0, 0
	for {
		switch lx.rawPeek() {
		case 'u', 'U':
			lx.rawNext()
			uCount++
			flags |= token.FlagUnsigned
		case 'l', 'L':
			lx.rawNext()
			lCount++
		default:
			goto done
		}
	}
done:
	if lCount == 1 {
		flags |= token.FlagLong
	} else if lCount == 2 {
		flags |= token.FlagLongLong
	}
	return flags, uCount <= 1 && lCount <= 2
}

var floatSuffixNames = map[string]token.FloatSuffix{
	"f": token.FloatSuffixF, "F": token.FloatSuffixF,
	"l": token.FloatSuffixL, "L": token.FloatSuffixL,
	"f16": token.FloatSuffixF16, "f32": token.FloatSuffixF32, "f64": token.FloatSuffixF64, "f128": token.FloatSuffixF128,
	"f32x": token.FloatSuffixF32x, "f64x": token.FloatSuffixF64x, "f128x": token.FloatSuffixF128x,
	"df": token.FloatSuffixDF, "dd": token.FloatSuffixDD, "dl": token.FloatSuffixDL,
}

func (lx *Lexer) finishFloat(start source.Span, mantissa, exponent []byte, style token.FloatStyle) token.Token {
	lexeme := string(stripSeparators(mantissa)) + string(exponent)

	suffix := token.FloatSuffixNone
	var suffixBuf []byte
	for isIdentContinueByte(lx.rawPeek()) {
		suffixBuf = append(suffixBuf, byte(lx.rawNext()))
	}
	if len(suffixBuf) > 0 {
		s := string(suffixBuf)
		lower := strings.ToLower(s)
		if tag, ok := floatSuffixNames[lower]; ok {
			suffix = tag
			gated := lower == "df" || lower == "dd" || lower == "dl"
			fNN := strings.HasPrefix(lower, "f1") || strings.HasPrefix(lower, "f3") || strings.HasPrefix(lower, "f6") || strings.HasSuffix(lower, "x")
			hasStd23 := lx.opts.Context != nil && lx.opts.Context.StdAtLeast(token.StdC23)
			hasGNU := lx.opts.Context != nil && lx.opts.Context.GNUExtensions()
			if gated && !hasStd23 && !hasGNU {
				lx.warn(diag.LexPedantic, cctx.WPedantic, lx.spanFrom(start), "decimal floating suffix %q requires C23 or GNU extensions", s)
			} else if fNN && !hasGNU {
				lx.warn(diag.LexPedantic, cctx.WPedantic, lx.spanFrom(start), "floating suffix %q is a GNU extension", s)
			}
		} else {
			switch lower {
			case "i", "j":
				hasStd23 := lx.opts.Context != nil && lx.opts.Context.StdAtLeast(token.StdC23)
				hasGNU := lx.opts.Context != nil && lx.opts.Context.GNUExtensions()
				if hasStd23 && !hasGNU {
					lx.report(diag.LexBadFloatSuffix, diag.SevError, lx.spanFrom(start), "imaginary suffix is not accepted under C23")
				} else if !hasGNU {
					lx.warn(diag.LexPedantic, cctx.WPedantic, lx.spanFrom(start), "imaginary suffix is non-standard outside GNU mode")
				}
			default:
				lx.report(diag.LexBadFloatSuffix, diag.SevError, lx.spanFrom(start), "invalid floating suffix %q", s)
			}
		}
	}

	// lexeme keeps its 0x/0X prefix for hex floats, which ParseFloat accepts.
	v, err := strconv.ParseFloat(lexeme, 64)
	if err != nil {
		if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
			lx.warn(diag.LexBadNumber, cctx.WPedantic, lx.spanFrom(start), "floating constant out of range")
		} else {
			lx.report(diag.LexBadNumber, diag.SevError, lx.spanFrom(start), "invalid floating constant %q", lexeme)
		}
	}
	if math.IsInf(v, 0) {
		lx.warn(diag.LexBadNumber, cctx.WPedantic, lx.spanFrom(start), "floating constant overflows")
	}

	return token.Token{
		Kind:        token.FloatLit,
		Span:        lx.spanFrom(start),
		FloatValue:  v,
		FloatStyle:  style,
		FloatSuffix: suffix,
	}
}
