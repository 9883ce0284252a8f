// Package lexer is C5, the phase-1/2/3 state machine: it absorbs line
// splices and trigraphs lazily while scanning, classifies keywords against
// the active context, and emits one typed token.Token at a time. Grounded
// on yecc's lex/lexer.c, restructured around the new streamer/cctx/intern
// packages in place of the reference's global singletons.
package lexer

import (
	"fmt"

	"fortio.org/safecast"

	"cfront/internal/cctx"
	"cfront/internal/diag"
	"cfront/internal/intern"
	"cfront/internal/source"
	"cfront/internal/streamer"
	"cfront/internal/token"
)

const maxTokenLength = 64 * 1024

// ppKind narrows which directive is active, so ExpectingHeaderName knows
// whether `<...>` should be lexed as a header-name (§4.4 P6).
type ppKind uint8

const (
	ppNone ppKind = iota
	ppInclude
	ppIncludeNext
	ppImport
	ppEmbed
	ppOther
)

// state is the lexer's mode per §4.4 "State machine (lexer modes)".
type state uint8

const (
	stateStart state = iota
	stateInDirective
	stateExpectingHeaderName
	stateRecovering
)

// Options bundles the Lexer's cross-cutting collaborators (§2): a
// diagnostic sink and the interner tokens borrow identifier spellings from.
type Options struct {
	Reporter diag.Reporter
	Interner *intern.Interner
	Context  *cctx.Context
}

// Lexer is the phase-1/2/3 state machine over a single file's Streamer.
// Not safe for concurrent use; callers lexing multiple files concurrently
// give each Lexer its own Streamer and Interner (§5).
type Lexer struct {
	file   source.FileID
	stream *streamer.Streamer
	opts   Options

	st          state
	atLineStart bool
	inDirective bool
	ppKind      ppKind
	expectHN    bool

	look    *token.Token
	errors  int
}

// New opens a Streamer over path and returns a Lexer ready to produce
// tokens for file id.
func New(file source.FileID, path string, opts Options) (*Lexer, error) {
	s, err := streamer.Open(path)
	if err != nil {
		return nil, err
	}
	return newLexer(file, s, opts), nil
}

// NewFromBytes builds a Lexer directly over in-memory content (virtual
// files, tests) without touching disk.
func NewFromBytes(file source.FileID, name string, content []byte, opts Options) *Lexer {
	return newLexer(file, streamer.OpenBytes(name, content), opts)
}

func newLexer(file source.FileID, s *streamer.Streamer, opts Options) *Lexer {
	return &Lexer{
		file:        file,
		stream:      s,
		opts:        opts,
		atLineStart: true,
	}
}

// Close releases the underlying Streamer's file handle, if any.
func (lx *Lexer) Close() error { return lx.stream.Close() }

// Next returns the next token. After EOF it always returns EOF (P11).
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		t := *lx.look
		lx.look = nil
		return t
	}
	return lx.next()
}

// Peek returns the next token without consuming it.
func (lx *Lexer) Peek() token.Token {
	t := lx.Next()
	lx.look = &t
	return t
}

// Push injects a token back into the one-slot lookahead buffer.
func (lx *Lexer) Push(t token.Token) { lx.look = &t }

func (lx *Lexer) pos() source.Span {
	off, err := safecast.Conv[uint32](lx.stream.Position().Offset)
	if err != nil {
		panic(fmt.Errorf("lexer: offset overflow: %w", err))
	}
	return source.Span{File: lx.file, Start: off, End: off}
}

func (lx *Lexer) spanFrom(start source.Span) source.Span {
	end := lx.pos()
	return source.Span{File: lx.file, Start: start.Start, End: end.Start}
}

func (lx *Lexer) next() token.Token {
	if lx.st == stateRecovering {
		lx.recover()
	}

	lx.skipTrivia()

	if lx.stream.Eof() {
		return token.Token{Kind: token.EOF, Span: lx.pos()}
	}

	start := lx.pos()

	if lx.st == stateExpectingHeaderName {
		if tok, ok := lx.tryHeaderName(start); ok {
			return tok
		}
		lx.st = stateStart
		lx.expectHN = false
	}

	b := lx.rawPeek()
	wasAtLineStart := lx.atLineStart
	lx.atLineStart = false

	switch {
	case wasAtLineStart && b == '#':
		lx.rawNext()
		lx.st = stateInDirective
		lx.inDirective = true
		lx.ppKind = ppNone
		return token.Token{Kind: token.Hash, Span: lx.spanFrom(start)}

	case isLiteralPrefix(b, lx.peekAt(1), lx.peekAt(2)):
		return lx.scanPrefixedLiteral(start)

	case isIdentStartByte(b) || b >= 0x80:
		return lx.scanIdentOrKeyword(start)

	case isDecByte(b):
		return lx.scanNumber(start)

	case b == '.' && isDecByte(lx.peekAt(1)):
		return lx.scanNumber(start)

	case b == '"':
		return lx.scanString(start, token.EncPlain)
	case b == '\'':
		return lx.scanChar(start, token.EncPlain)

	default:
		return lx.scanOperator(start)
	}
}

// peekAt looks n raw (post-splice/trigraph) bytes ahead without consuming.
// It saves the current position, walks forward with rawNext, then restores
// via Seek — §4.1's documented seek policy (re-walk from 0) makes this the
// correct way to undo a multi-byte raw read, since a single trigraph/splice
// step can absorb more than one underlying byte. The reporter is muted for
// the walk, so a trigraph crossed here is reported only when it is consumed.
func (lx *Lexer) peekAt(n int) byte {
	saved := lx.stream.Position().Offset
	rep := lx.opts.Reporter
	lx.opts.Reporter = nil
	defer func() { lx.opts.Reporter = rep }()
	var got byte
	for i := 0; i <= n; i++ {
		c := lx.rawNext()
		if c < 0 {
			got = 0
			break
		}
		got = byte(c)
	}
	lx.stream.Seek(saved)
	return got
}

func (lx *Lexer) report(code diag.Code, sev diag.Severity, sp source.Span, format string, args ...any) {
	if lx.opts.Reporter == nil {
		return
	}
	if sev == diag.SevError {
		if lx.opts.Context != nil && lx.errors >= lx.opts.Context.MaxErrors() {
			return
		}
		lx.errors++
	}
	lx.opts.Reporter.Report(code, sev, sp, fmt.Sprintf(format, args...), nil, nil)
}

func (lx *Lexer) warn(code diag.Code, w cctx.Warning, sp source.Span, format string, args ...any) {
	sev := diag.SevWarning
	if lx.opts.Context != nil && lx.opts.Context.WarningIsError(w) {
		sev = diag.SevError
	}
	lx.report(code, sev, sp, format, args...)
}

// warnFix behaves like warn but attaches fixes a downstream fix.Apply run
// can offer the user (§7, diagnostics that carry an actionable repair).
func (lx *Lexer) warnFix(code diag.Code, w cctx.Warning, sp source.Span, fixes []diag.Fix, format string, args ...any) {
	if lx.opts.Reporter == nil {
		return
	}
	sev := diag.SevWarning
	if lx.opts.Context != nil && lx.opts.Context.WarningIsError(w) {
		sev = diag.SevError
	}
	if sev == diag.SevError {
		if lx.opts.Context != nil && lx.errors >= lx.opts.Context.MaxErrors() {
			return
		}
		lx.errors++
	}
	lx.opts.Reporter.Report(code, sev, sp, fmt.Sprintf(format, args...), nil, fixes)
}

// recover implements the skip-to-safe-point policy (§7): consume bytes
// until the next newline or ';'.
func (lx *Lexer) recover() {
	for !lx.stream.Eof() {
		b := lx.rawNext()
		if b == '\n' {
			lx.atLineStart = true
			lx.inDirective = false
			lx.st = stateStart
			return
		}
		if b == ';' {
			lx.st = stateStart
			return
		}
	}
	lx.st = stateStart
}

func (lx *Lexer) enterRecovering() { lx.st = stateRecovering }

func (lx *Lexer) intern(b []byte) intern.ID {
	if lx.opts.Interner == nil {
		return intern.NoID
	}
	return lx.opts.Interner.Intern(b)
}
