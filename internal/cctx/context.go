// Package cctx is C4, the read-only bag of flags the lexer consults on
// nearly every lexical decision: language standard, GNU/yecc extensions,
// pedantic mode, trigraph enablement, warning masks, float mode, and
// target wchar width. Grounded on yecc's context.h/context.c, narrowed to
// the subset the lexer actually reads (§6 External Interfaces): the
// preprocessor/parser/backend/target knobs in the reference context are
// out of scope here.
package cctx

import "cfront/internal/token"

// Warning identifies a diagnostic category gated by the enable/error masks.
type Warning uint8

const (
	WPedantic Warning = iota
	WTrigraphs
	WMulticharChar
	WStringWidthPromotion
	WDeprecated
	WUnexpectedChar
	WCount
)

func warningBit(w Warning) uint32 { return 1 << uint32(w) }

// FloatMode gates diagnostics around float literals; the lexer never
// refuses to lex a float constant itself (§6).
type FloatMode uint8

const (
	FloatFull FloatMode = iota
	FloatSoft
	FloatDisabled
)

// ColorMode controls diagnostic coloring (§4.3); resolved against the
// terminal by the diagnostics renderer, not by the lexer.
type ColorMode uint8

const (
	ColorAuto ColorMode = iota
	ColorAlways
	ColorNever
)

// Context is the read-only configuration surface the lexer is built
// against. Construct with New and the With* setters; once handed to a
// lexer it is never mutated.
type Context struct {
	langStd          token.Standard
	gnuExtensions    bool
	yeccExtensions   bool
	pedantic         bool
	enableTrigraphs  bool
	warningEnabled   uint32
	warningAsError   uint32
	warningsAsErrors bool
	floatMode        FloatMode
	wcharBits        int
	colorMode        ColorMode
	maxErrors        int
}

// New returns a Context with the reference's documented defaults: C23,
// trigraphs disabled (removed in C23 proper, kept as an opt-in extension
// here per §4.4 P2), pedantic off, max_errors 20, wchar 32-bit.
func New() *Context {
	return &Context{
		langStd:         token.StdC23,
		enableTrigraphs: false,
		floatMode:       FloatFull,
		wcharBits:       32,
		colorMode:       ColorAuto,
		maxErrors:       20,
	}
}

func (c *Context) LangStd() token.Standard { return c.langStd }
func (c *Context) GNUExtensions() bool     { return c.gnuExtensions }
func (c *Context) YeccExtensions() bool    { return c.yeccExtensions }
func (c *Context) Pedantic() bool          { return c.pedantic }
func (c *Context) EnableTrigraphs() bool   { return c.enableTrigraphs }
func (c *Context) FloatMode() FloatMode    { return c.floatMode }
func (c *Context) WcharBits() int          { return c.wcharBits }
func (c *Context) ColorMode() ColorMode    { return c.colorMode }
func (c *Context) MaxErrors() int          { return c.maxErrors }
func (c *Context) WarningsAsErrors() bool  { return c.warningsAsErrors }

// WarningEnabled reports whether w's bit is set in the enable mask
// (independent of error-mask promotion). WithPedantic(true) also sets the
// W_PEDANTIC bit.
func (c *Context) WarningEnabled(w Warning) bool {
	return c.warningEnabled&warningBit(w) != 0
}

// WarningIsError reports whether w should be escalated to an error, either
// because its bit is set in the error mask or warnings_as_errors is global.
func (c *Context) WarningIsError(w Warning) bool {
	if c.warningsAsErrors {
		return true
	}
	return c.warningAsError&warningBit(w) != 0
}

func (c *Context) WithLangStd(std token.Standard) *Context {
	c2 := *c
	c2.langStd = std
	return &c2
}

func (c *Context) WithGNUExtensions(on bool) *Context {
	c2 := *c
	c2.gnuExtensions = on
	return &c2
}

func (c *Context) WithYeccExtensions(on bool) *Context {
	c2 := *c
	c2.yeccExtensions = on
	return &c2
}

func (c *Context) WithPedantic(on bool) *Context {
	c2 := *c
	c2.pedantic = on
	if on {
		c2.warningEnabled |= warningBit(WPedantic)
	}
	return &c2
}

func (c *Context) WithEnableTrigraphs(on bool) *Context {
	c2 := *c
	c2.enableTrigraphs = on
	return &c2
}

func (c *Context) WithWarningEnabled(w Warning, on bool) *Context {
	c2 := *c
	if on {
		c2.warningEnabled |= warningBit(w)
	} else {
		c2.warningEnabled &^= warningBit(w)
	}
	return &c2
}

func (c *Context) WithWarningAsError(w Warning, on bool) *Context {
	c2 := *c
	if on {
		c2.warningAsError |= warningBit(w)
	} else {
		c2.warningAsError &^= warningBit(w)
	}
	return &c2
}

func (c *Context) WithWarningsAsErrors(on bool) *Context {
	c2 := *c
	c2.warningsAsErrors = on
	return &c2
}

func (c *Context) WithFloatMode(m FloatMode) *Context {
	c2 := *c
	c2.floatMode = m
	return &c2
}

func (c *Context) WithWcharBits(bits int) *Context {
	c2 := *c
	c2.wcharBits = bits
	return &c2
}

func (c *Context) WithColorMode(m ColorMode) *Context {
	c2 := *c
	c2.colorMode = m
	return &c2
}

func (c *Context) WithMaxErrors(n int) *Context {
	c2 := *c
	c2.maxErrors = n
	return &c2
}

// StdAtLeast reports whether the active standard is at least need.
func (c *Context) StdAtLeast(need token.Standard) bool {
	return c.langStd >= need
}
