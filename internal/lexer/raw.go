package lexer

import (
	"cfront/internal/cctx"
	"cfront/internal/diag"
	"cfront/internal/fix"
	"cfront/internal/source"
)

var trigraphMap = map[byte]byte{
	'=':  '#',
	'/':  '\\',
	'\'': '^',
	'(':  '[',
	')':  ']',
	'!':  '|',
	'<':  '{',
	'>':  '}',
	'-':  '~',
}

// skipSplices absorbs every `\` immediately followed by a newline (bare
// `\n` or `\r\n`), per P1: "this absorption happens before every
// meaningful peek/consume the lexer performs."
func (lx *Lexer) skipSplices() {
	for {
		if lx.stream.Peek() != '\\' {
			return
		}
		blob := lx.stream.GetBlob()
		switch blob[3] {
		case '\n':
			lx.stream.Next()
			lx.stream.Next()
			continue
		case '\r':
			if blob[4] == '\n' {
				lx.stream.Next()
				lx.stream.Next()
				lx.stream.Next()
				continue
			}
		}
		return
	}
}

// classify inspects the byte at the current (post-splice) position and
// reports the logical byte phase-2 exposes plus how many underlying bytes
// it spans (3 for a recognized, enabled trigraph; 1 otherwise). It never
// consumes anything.
func (lx *Lexer) classify() (b byte, width int, isTrigraph bool) {
	lx.skipSplices()
	c := lx.stream.Peek()
	if c < 0 {
		return 0, 0, false
	}
	if c != '?' {
		return byte(c), 1, false
	}
	blob := lx.stream.GetBlob()
	if blob[3] != '?' {
		return byte(c), 1, false
	}
	mapped, ok := trigraphMap[blob[4]]
	if !ok {
		return byte(c), 1, false
	}
	return mapped, 3, true
}

// rawPeek returns the phase-1/2 byte at the current position, or 0 at
// EOF. Pure observation: no diagnostics, no consumption.
func (lx *Lexer) rawPeek() byte {
	b, width, isTrigraph := lx.classify()
	if width == 0 {
		return 0
	}
	if isTrigraph && !lx.opts.trigraphsEnabled() {
		return '?'
	}
	return b
}

// rawNext consumes and returns the phase-1/2 byte rawPeek would have
// reported, advancing past however many underlying bytes it spanned, and
// emits the W_TRIGRAPHS diagnostic on a recognized trigraph occurrence
// (enabled or not, per P2).
func (lx *Lexer) rawNext() int {
	b, width, isTrigraph := lx.classify()
	if width == 0 {
		return -1
	}
	start := lx.pos()
	if isTrigraph {
		if lx.opts.trigraphsEnabled() {
			lx.stream.Next()
			lx.stream.Next()
			lx.stream.Next()
			sp := lx.spanFrom(start)
			replacement := fix.ReplaceSpan("Spell out trigraph", sp, string(b), "", fix.Preferred())
			lx.warnFix(diag.LexTrigraph, cctx.WTrigraphs, sp, []diag.Fix{replacement}, "trigraph sequence replaced by '%c'", b)
			return int(b)
		}
		// Disabled: only the first '?' is consumed, so the remaining
		// two bytes are lexed as ordinary source.
		sp := source.Span{File: start.File, Start: start.Start, End: start.Start + 3}
		lx.stream.Next()
		lx.warn(diag.LexTrigraphDisabled, cctx.WTrigraphs, sp, "trigraph sequence ignored (trigraphs disabled)")
		return '?'
	}
	lx.stream.Next()
	return int(b)
}

func (o Options) trigraphsEnabled() bool {
	return o.Context != nil && o.Context.EnableTrigraphs()
}
