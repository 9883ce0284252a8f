package token

// Standard identifies a C language standard revision, ordered so that
// comparisons (std >= StdC99) mean "at least as new as".
type Standard uint8

const (
	StdC89 Standard = iota
	StdC99
	StdC11
	StdC17
	StdC23
)

// SpellingForm records how a keyword's C23 alternate-spelling family
// relates to its canonical underscored form (§4.4 P7).
type SpellingForm uint8

const (
	// SpellingNeutral keywords have no underscored/bare distinction.
	SpellingNeutral SpellingForm = iota
	// SpellingUnderscored is the historical `_Bool`/`_Atomic`-style spelling.
	SpellingUnderscored
	// SpellingBare is the C23 `bool`/`true`-style spelling, previously only
	// available via <stdbool.h> macros.
	SpellingBare
)

// C23Status records a keyword's deprecation/removal trajectory.
type C23Status uint8

const (
	C23StatusNone       C23Status = iota
	C23StatusDeprecated           // still accepted, W_DEPRECATED warning
	C23StatusRemoved              // error if the active standard is C23 without GNU
)

// keywordEntry is one row of the classification table consulted by P7:
// an identifier's interned spelling is looked up here to decide whether it
// names a keyword (and which one) under the active context.
type keywordEntry struct {
	kind         Kind
	directive    bool // only recognized while in_directive
	minStd       Standard
	gnuOnly      bool
	spellingForm SpellingForm
	c23Status    C23Status
}

// keywordTable maps a spelling to its candidate entries. Most spellings
// have exactly one; a few (the directive names that double as statement
// keywords, e.g. "else"/"if"/"line") have both a directive and a
// non-directive entry, disambiguated by in_directive (§9 Open Questions).
var keywordTable = map[string][]keywordEntry{
	"auto":     {{kind: KwAuto, minStd: StdC89}},
	"break":    {{kind: KwBreak, minStd: StdC89}},
	"case":     {{kind: KwCase, minStd: StdC89}},
	"char":     {{kind: KwChar, minStd: StdC89}},
	"const":    {{kind: KwConst, minStd: StdC89}},
	"continue": {{kind: KwContinue, minStd: StdC89}},
	"default":  {{kind: KwDefault, minStd: StdC89}},
	"do":       {{kind: KwDo, minStd: StdC89}},
	"double":   {{kind: KwDouble, minStd: StdC89}},
	"else": {
		{kind: KwPpElse, directive: true, minStd: StdC89},
		{kind: KwElse, minStd: StdC89},
	},
	"enum":     {{kind: KwEnum, minStd: StdC89}},
	"extern":   {{kind: KwExtern, minStd: StdC89}},
	"float":    {{kind: KwFloat, minStd: StdC89}},
	"for":      {{kind: KwFor, minStd: StdC89}},
	"goto":     {{kind: KwGoto, minStd: StdC89}},
	"if": {
		{kind: KwPpIf, directive: true, minStd: StdC89},
		{kind: KwIf, minStd: StdC89},
	},
	"inline":   {{kind: KwInline, minStd: StdC99}},
	"int":      {{kind: KwInt, minStd: StdC89}},
	"long":     {{kind: KwLong, minStd: StdC89}},
	"register": {{kind: KwRegister, minStd: StdC89}},
	"restrict": {{kind: KwRestrict, minStd: StdC99}},
	"return":   {{kind: KwReturn, minStd: StdC89}},
	"short":    {{kind: KwShort, minStd: StdC89}},
	"signed":   {{kind: KwSigned, minStd: StdC89}},
	"sizeof":   {{kind: KwSizeof, minStd: StdC89}},
	"static":   {{kind: KwStatic, minStd: StdC89}},
	"struct":   {{kind: KwStruct, minStd: StdC89}},
	"switch":   {{kind: KwSwitch, minStd: StdC89}},
	"typedef":  {{kind: KwTypedef, minStd: StdC89}},
	"union":    {{kind: KwUnion, minStd: StdC89}},
	"unsigned": {{kind: KwUnsigned, minStd: StdC89}},
	"void":     {{kind: KwVoid, minStd: StdC89}},
	"volatile": {{kind: KwVolatile, minStd: StdC89}},
	"while":    {{kind: KwWhile, minStd: StdC89}},

	"_Bool":     {{kind: KwBool, minStd: StdC99, spellingForm: SpellingUnderscored, c23Status: C23StatusDeprecated}},
	"bool":      {{kind: KwBool, minStd: StdC23, spellingForm: SpellingBare}},
	"_Complex":  {{kind: KwComplex, minStd: StdC99, spellingForm: SpellingUnderscored}},
	"_Imaginary": {{kind: KwImaginary, minStd: StdC99, spellingForm: SpellingUnderscored}},

	"_Alignas":      {{kind: KwAlignas, minStd: StdC11, spellingForm: SpellingUnderscored, c23Status: C23StatusDeprecated}},
	"alignas":       {{kind: KwAlignas, minStd: StdC23, spellingForm: SpellingBare}},
	"_Alignof":      {{kind: KwAlignof, minStd: StdC11, spellingForm: SpellingUnderscored, c23Status: C23StatusDeprecated}},
	"alignof":       {{kind: KwAlignof, minStd: StdC23, spellingForm: SpellingBare}},
	"_Atomic":       {{kind: KwAtomic, minStd: StdC11, spellingForm: SpellingUnderscored}},
	"_Generic":      {{kind: KwGeneric, minStd: StdC11}},
	"_Noreturn":     {{kind: KwNoreturn, minStd: StdC11, spellingForm: SpellingUnderscored, c23Status: C23StatusDeprecated}},
	"_Static_assert": {{kind: KwStaticAssert, minStd: StdC11, spellingForm: SpellingUnderscored, c23Status: C23StatusDeprecated}},
	"static_assert":  {{kind: KwStaticAssert, minStd: StdC23, spellingForm: SpellingBare}},
	"_Thread_local":  {{kind: KwThreadLocal, minStd: StdC11, spellingForm: SpellingUnderscored, c23Status: C23StatusDeprecated}},
	"thread_local":   {{kind: KwThreadLocal, minStd: StdC23, spellingForm: SpellingBare}},

	"true":          {{kind: KwTrue, minStd: StdC23, spellingForm: SpellingBare}},
	"false":         {{kind: KwFalse, minStd: StdC23, spellingForm: SpellingBare}},
	"nullptr":       {{kind: KwNullptr, minStd: StdC23}},
	"constexpr":     {{kind: KwConstexpr, minStd: StdC23}},
	"typeof":        {{kind: KwTypeofKw, minStd: StdC23}},
	"typeof_unqual": {{kind: KwTypeofUnqualKw, minStd: StdC23}},
	"_BitInt":       {{kind: KwBitInt, minStd: StdC23, spellingForm: SpellingUnderscored}},

	"__typeof__":                       {{kind: KwGnuTypeof, gnuOnly: true}},
	"asm":                              {{kind: KwGnuAsm, gnuOnly: true}},
	"__asm__":                          {{kind: KwGnuUnderscoreAsm, gnuOnly: true}},
	"__attribute__":                    {{kind: KwGnuAttribute, gnuOnly: true}},
	"__builtin_types_compatible_p":     {{kind: KwGnuBuiltinTypesCompatibleP, gnuOnly: true}},
	"__auto_type":                      {{kind: KwGnuAutoType, gnuOnly: true}},
	"__extension__":                    {{kind: KwGnuExtension, gnuOnly: true}},
	"__label__":                        {{kind: KwGnuLabel, gnuOnly: true}},
	"__real__":                         {{kind: KwGnuReal, gnuOnly: true}},
	"__imag__":                         {{kind: KwGnuImag, gnuOnly: true}},
	"__thread":                         {{kind: KwGnuThread, gnuOnly: true}},
	"__FUNCTION__":                     {{kind: KwGnuFunctionName, gnuOnly: true}},
	"__int128":                         {{kind: KwGnuInt128, gnuOnly: true}},
	"__const":                          {{kind: KwGnuConst, gnuOnly: true}},
	"__const__":                        {{kind: KwGnuConst, gnuOnly: true}},
	"__signed":                         {{kind: KwGnuSigned, gnuOnly: true}},
	"__signed__":                       {{kind: KwGnuSigned, gnuOnly: true}},
	"__inline":                         {{kind: KwGnuInline, gnuOnly: true}},
	"__inline__":                       {{kind: KwGnuInline, gnuOnly: true}},
	"__restrict":                       {{kind: KwGnuRestrict, gnuOnly: true}},
	"__restrict__":                     {{kind: KwGnuRestrict, gnuOnly: true}},
	"__volatile":                       {{kind: KwGnuVolatile, gnuOnly: true}},
	"__volatile__":                     {{kind: KwGnuVolatile, gnuOnly: true}},

	"include":      {{kind: KwPpInclude, directive: true}},
	"include_next":  {{kind: KwPpIncludeNext, directive: true, gnuOnly: true}},
	"import":       {{kind: KwPpImport, directive: true, gnuOnly: true}},
	"embed":        {{kind: KwPpEmbed, directive: true, minStd: StdC23}},
	"define":       {{kind: KwPpDefine, directive: true}},
	"undef":        {{kind: KwPpUndef, directive: true}},
	"ifdef":        {{kind: KwPpIfdef, directive: true}},
	"ifndef":       {{kind: KwPpIfndef, directive: true}},
	"elif":         {{kind: KwPpElif, directive: true}},
	"elifdef":      {{kind: KwPpElifdef, directive: true, minStd: StdC23}},
	"elifndef":     {{kind: KwPpElifndef, directive: true, minStd: StdC23}},
	"endif":        {{kind: KwPpEndif, directive: true}},
	"line":         {{kind: KwPpLine, directive: true}},
	"error":        {{kind: KwPpError, directive: true}},
	"warning":      {{kind: KwPpWarning, directive: true, gnuOnly: true}},
	"pragma":       {{kind: KwPpPragma, directive: true}},
}

// kindToSpelling is the inverse of keywordTable for printing/diagnostics.
var kindToSpelling = func() map[Kind]string {
	m := make(map[Kind]string, len(keywordTable))
	for spelling, entries := range keywordTable {
		for _, e := range entries {
			if _, exists := m[e.kind]; !exists {
				m[e.kind] = spelling
			}
		}
	}
	return m
}()

// LookupKeyword classifies spelling against the active standard, GNU
// extension enablement, and directive-context flag. Returns (Invalid,
// C23StatusNone, false) when spelling is a plain identifier under these
// settings.
func LookupKeyword(spelling string, std Standard, gnuExtensions, inDirective bool) (Kind, C23Status, bool) {
	entries, ok := keywordTable[spelling]
	if !ok {
		return Invalid, C23StatusNone, false
	}

	var fallback *keywordEntry
	for i := range entries {
		e := &entries[i]
		if e.directive != inDirective {
			continue
		}
		if e.gnuOnly && !gnuExtensions {
			continue
		}
		if std < e.minStd && !(gnuExtensions && e.gnuOnly) {
			// gated behind a future standard: still classify as this
			// keyword (P7 says emit W_PEDANTIC but still return the
			// mapped kind), unless the whole family is GNU-only and GNU
			// extensions are off — in that case fall through to ident.
			fallback = e
			continue
		}
		return e.kind, e.c23Status, true
	}
	if fallback != nil {
		return fallback.kind, fallback.c23Status, true
	}
	return Invalid, C23StatusNone, false
}

// KeywordGatedByStandard reports whether spelling would classify as a
// keyword under std/gnuExtensions but the active standard is older than
// the entry's minStd (triggers W_PEDANTIC per P7).
func KeywordGatedByStandard(spelling string, std Standard, gnuExtensions, inDirective bool) bool {
	entries, ok := keywordTable[spelling]
	if !ok {
		return false
	}
	for _, e := range entries {
		if e.directive != inDirective {
			continue
		}
		if e.gnuOnly && !gnuExtensions {
			continue
		}
		if std < e.minStd {
			return true
		}
	}
	return false
}
