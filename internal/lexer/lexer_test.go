package lexer

import (
	"testing"

	"cfront/internal/cctx"
	"cfront/internal/diag"
	"cfront/internal/intern"
	"cfront/internal/source"
	"cfront/internal/token"
)

type collectingReporter struct {
	items []diag.Diagnostic
}

func (r *collectingReporter) Report(code diag.Code, sev diag.Severity, sp source.Span, msg string, notes []diag.Note, fixes []diag.Fix) {
	r.items = append(r.items, diag.Diagnostic{Severity: sev, Code: code, Message: msg, Primary: sp, Notes: notes, Fixes: fixes})
}

func lexAll(t *testing.T, src string, ctx *cctx.Context) ([]token.Token, *collectingReporter, *intern.Interner) {
	t.Helper()
	if ctx == nil {
		ctx = cctx.New()
	}
	rep := &collectingReporter{}
	in := intern.New()
	lx := NewFromBytes(1, "test.c", []byte(src), Options{Reporter: rep, Interner: in, Context: ctx})
	var toks []token.Token
	for {
		tok := lx.Next()
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			break
		}
		if len(toks) > 10000 {
			t.Fatal("lexAll: runaway loop")
		}
	}
	return toks, rep, in
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestIdentifiersAndKeywords(t *testing.T) {
	toks, rep, in := lexAll(t, "int x = foo_bar;", nil)
	if len(rep.items) != 0 {
		t.Fatalf("unexpected diagnostics: %+v", rep.items)
	}
	want := []token.Kind{token.KwInt, token.Ident, token.Assign, token.Ident, token.Semicolon, token.EOF}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("kind count mismatch: got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: got %v want %v", i, got[i], want[i])
		}
	}
	if in.String(toks[1].Str) != "x" {
		t.Fatalf("expected identifier spelling x, got %q", in.String(toks[1].Str))
	}
	if in.String(toks[3].Str) != "foo_bar" {
		t.Fatalf("expected identifier spelling foo_bar, got %q", in.String(toks[3].Str))
	}
}

func TestLineSplicing(t *testing.T) {
	toks, rep, in := lexAll(t, "int fo\\\no;", nil)
	if len(rep.items) != 0 {
		t.Fatalf("unexpected diagnostics: %+v", rep.items)
	}
	if toks[1].Kind != token.Ident || in.String(toks[1].Str) != "foo" {
		t.Fatalf("expected spliced identifier foo, got %v %q", toks[1].Kind, in.String(toks[1].Str))
	}
}

func TestTrigraphsDisabledByDefault(t *testing.T) {
	toks, rep, _ := lexAll(t, "??(", nil)
	if toks[0].Kind != token.Invalid && toks[0].Kind != token.Question {
		t.Fatalf("expected trigraphs left unsubstituted, got %v", toks[0].Kind)
	}
	found := false
	for _, d := range rep.items {
		if d.Code == diag.LexTrigraphDisabled {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected LexTrigraphDisabled diagnostic, got %+v", rep.items)
	}
}

func TestTrigraphsEnabled(t *testing.T) {
	ctx := cctx.New().WithEnableTrigraphs(true)
	toks, rep, _ := lexAll(t, "??(", ctx)
	if toks[0].Kind != token.LBracket {
		t.Fatalf("expected ??( to map to '[', got %v", toks[0].Kind)
	}
	found := false
	for _, d := range rep.items {
		if d.Code == diag.LexTrigraph {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected LexTrigraph diagnostic, got %+v", rep.items)
	}
}

func TestIntegerLiteralBases(t *testing.T) {
	toks, rep, _ := lexAll(t, "0x1F 010 42 0b101", nil)
	if len(rep.items) != 0 {
		t.Fatalf("unexpected diagnostics: %+v", rep.items)
	}
	wantBase := []token.IntBase{token.Base16, token.Base8, token.Base10, token.Base2}
	for i, b := range wantBase {
		if toks[i].Kind != token.IntLit {
			t.Fatalf("token %d: expected IntLit, got %v", i, toks[i].Kind)
		}
		if toks[i].Base != b {
			t.Fatalf("token %d: expected base %v, got %v", i, b, toks[i].Base)
		}
	}
	if toks[0].IntValue != 31 {
		t.Fatalf("0x1F: expected 31, got %d", toks[0].IntValue)
	}
	if toks[1].IntValue != 8 {
		t.Fatalf("010: expected 8, got %d", toks[1].IntValue)
	}
}

func TestDigitSeparators(t *testing.T) {
	toks, rep, _ := lexAll(t, "1'000'000", nil)
	if len(rep.items) != 0 {
		t.Fatalf("unexpected diagnostics: %+v", rep.items)
	}
	if toks[0].Kind != token.IntLit || toks[0].IntValue != 1000000 {
		t.Fatalf("expected 1000000, got kind=%v value=%d", toks[0].Kind, toks[0].IntValue)
	}
}

func TestFloatLiteral(t *testing.T) {
	toks, rep, _ := lexAll(t, "3.14f 1e10", nil)
	if len(rep.items) != 0 {
		t.Fatalf("unexpected diagnostics: %+v", rep.items)
	}
	if toks[0].Kind != token.FloatLit || toks[0].FloatSuffix != token.FloatSuffixF {
		t.Fatalf("expected float with F suffix, got %+v", toks[0])
	}
	if toks[1].Kind != token.FloatLit {
		t.Fatalf("expected float literal, got %v", toks[1].Kind)
	}
}

func TestStringLiteralEscapes(t *testing.T) {
	toks, rep, _ := lexAll(t, `"a\tb\n"`, nil)
	if len(rep.items) != 0 {
		t.Fatalf("unexpected diagnostics: %+v", rep.items)
	}
	if toks[0].Kind != token.StringLit {
		t.Fatalf("expected StringLit, got %v", toks[0].Kind)
	}
	want := []byte("a\tb\n\x00")
	if string(toks[0].StringBytes) != string(want) {
		t.Fatalf("got %q want %q", toks[0].StringBytes, want)
	}
}

func TestPrefixedStringLiterals(t *testing.T) {
	toks, rep, _ := lexAll(t, `u8"hi" u"hi" U"hi" L"hi"`, nil)
	if len(rep.items) != 0 {
		t.Fatalf("unexpected diagnostics: %+v", rep.items)
	}
	wantEnc := []token.Encoding{token.EncUTF8, token.EncUTF16, token.EncUTF32, token.EncWide}
	for i, e := range wantEnc {
		if toks[i].Kind != token.StringLit {
			t.Fatalf("token %d: expected StringLit, got %v", i, toks[i].Kind)
		}
		if toks[i].Encoding != e {
			t.Fatalf("token %d: expected encoding %v, got %v", i, e, toks[i].Encoding)
		}
	}
}

func TestMulticharCharConstant(t *testing.T) {
	toks, rep, _ := lexAll(t, `'ab'`, nil)
	if toks[0].Kind != token.CharLit {
		t.Fatalf("expected CharLit, got %v", toks[0].Kind)
	}
	found := false
	for _, d := range rep.items {
		if d.Code == diag.LexMulticharChar {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected LexMulticharChar warning, got %+v", rep.items)
	}
}

func TestUnterminatedStringRecovers(t *testing.T) {
	toks, rep, _ := lexAll(t, "\"abc\nint x;", nil)
	foundErr := false
	for _, d := range rep.items {
		if d.Code == diag.LexUnterminatedString {
			foundErr = true
		}
	}
	if !foundErr {
		t.Fatalf("expected LexUnterminatedString, got %+v", rep.items)
	}
	foundInt := false
	for _, tk := range toks {
		if tk.Kind == token.KwInt {
			foundInt = true
		}
	}
	if !foundInt {
		t.Fatalf("expected lexer to recover and produce later tokens, got %+v", kinds(toks))
	}
}

func TestOperatorsGreedyLongestMatch(t *testing.T) {
	toks, rep, _ := lexAll(t, "<<= >>= -> ++ -- <= >= == != && || ## <<", nil)
	if len(rep.items) != 0 {
		t.Fatalf("unexpected diagnostics: %+v", rep.items)
	}
	want := []token.Kind{
		token.ShlAssign, token.ShrAssign, token.Arrow, token.PlusPlus, token.MinusMinus,
		token.Le, token.Ge, token.EqEq, token.Neq, token.AndAnd, token.OrOr, token.HashHash, token.Shl,
		token.EOF,
	}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("kind count mismatch: got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: got %v want %v", i, got[i], want[i])
		}
	}
}

func TestLineComments(t *testing.T) {
	toks, rep, _ := lexAll(t, "int x; // comment\nint y;", nil)
	if len(rep.items) != 0 {
		t.Fatalf("unexpected diagnostics: %+v", rep.items)
	}
	want := []token.Kind{token.KwInt, token.Ident, token.Semicolon, token.KwInt, token.Ident, token.Semicolon, token.EOF}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestUnterminatedBlockComment(t *testing.T) {
	_, rep, _ := lexAll(t, "int x; /* oops", nil)
	found := false
	for _, d := range rep.items {
		if d.Code == diag.LexUnterminatedBlockComment {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected LexUnterminatedBlockComment, got %+v", rep.items)
	}
}

func TestDirectiveHashOnlyAtLineStart(t *testing.T) {
	toks, _, _ := lexAll(t, "x # y\n#define Z", nil)
	if toks[1].Kind != token.Hash {
		t.Fatalf("expected mid-line # to lex as plain Hash, got %v", toks[1].Kind)
	}
	var sawDefine bool
	for _, tk := range toks {
		if tk.Kind == token.KwPpDefine {
			sawDefine = true
		}
	}
	if !sawDefine {
		t.Fatalf("expected #define at line start to classify as KwPpDefine, got %v", kinds(toks))
	}
}

func TestHeaderNameAfterInclude(t *testing.T) {
	toks, rep, in := lexAll(t, "#include <stdio.h>\n", nil)
	if len(rep.items) != 0 {
		t.Fatalf("unexpected diagnostics: %+v", rep.items)
	}
	var hn *token.Token
	for i := range toks {
		if toks[i].Kind == token.HeaderName {
			hn = &toks[i]
		}
	}
	if hn == nil {
		t.Fatalf("expected a HeaderName token, got %v", kinds(toks))
	}
	if in.String(hn.Str) != "stdio.h" {
		t.Fatalf("expected header name stdio.h, got %q", in.String(hn.Str))
	}
}

func TestHeaderNameQuotedForm(t *testing.T) {
	toks, _, in := lexAll(t, "#include \"my header.h\"\n", nil)
	var hn *token.Token
	for i := range toks {
		if toks[i].Kind == token.HeaderName {
			hn = &toks[i]
		}
	}
	if hn == nil {
		t.Fatalf("expected a HeaderName token, got %v", kinds(toks))
	}
	if in.String(hn.Str) != "my header.h" {
		t.Fatalf("expected header name 'my header.h', got %q", in.String(hn.Str))
	}
}

func TestBOMSkippedOnce(t *testing.T) {
	src := string([]byte{0xEF, 0xBB, 0xBF}) + "int x;"
	toks, rep, _ := lexAll(t, src, nil)
	if len(rep.items) != 0 {
		t.Fatalf("unexpected diagnostics: %+v", rep.items)
	}
	if toks[0].Kind != token.KwInt {
		t.Fatalf("expected BOM to be skipped before first token, got %v", toks[0].Kind)
	}
}

func TestDeprecatedUnderscoredKeyword(t *testing.T) {
	toks, rep, _ := lexAll(t, "_Bool b;", nil)
	if toks[0].Kind != token.KwBool {
		t.Fatalf("expected _Bool to classify as KwBool, got %v", toks[0].Kind)
	}
	found := false
	for _, d := range rep.items {
		if d.Code == diag.LexDeprecated {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected LexDeprecated diagnostic for _Bool under C23, got %+v", rep.items)
	}
}

func TestEOFIsIdempotent(t *testing.T) {
	rep := &collectingReporter{}
	in := intern.New()
	lx := NewFromBytes(1, "empty.c", []byte(""), Options{Reporter: rep, Interner: in, Context: cctx.New()})
	first := lx.Next()
	second := lx.Next()
	if first.Kind != token.EOF || second.Kind != token.EOF {
		t.Fatalf("expected EOF both times, got %v then %v", first.Kind, second.Kind)
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	rep := &collectingReporter{}
	in := intern.New()
	lx := NewFromBytes(1, "test.c", []byte("int x;"), Options{Reporter: rep, Interner: in, Context: cctx.New()})
	peeked := lx.Peek()
	next := lx.Next()
	if peeked.Kind != next.Kind {
		t.Fatalf("Peek/Next mismatch: %v vs %v", peeked.Kind, next.Kind)
	}
}

func TestMaxErrorsCap(t *testing.T) {
	ctx := cctx.New().WithMaxErrors(2)
	src := "@;@;@;@;@;"
	_, rep, _ := lexAll(t, src, ctx)
	errCount := 0
	for _, d := range rep.items {
		if d.Severity == diag.SevError {
			errCount++
		}
	}
	if errCount != 2 {
		t.Fatalf("expected exactly 2 errors under max_errors=2, got %d (%+v)", errCount, rep.items)
	}
}
