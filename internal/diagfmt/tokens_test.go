package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"github.com/vmihailenco/msgpack/v5"

	"cfront/internal/intern"
	"cfront/internal/source"
	"cfront/internal/token"
)

func TestFormatTokensPretty(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.c", []byte("int x;"))
	in := intern.New()
	name := in.InternString("x")

	toks := []token.Token{
		{Kind: token.KwInt, Span: source.Span{File: fileID, Start: 0, End: 3}},
		{Kind: token.Ident, Str: name, Span: source.Span{File: fileID, Start: 4, End: 5}},
		{Kind: token.Semicolon, Span: source.Span{File: fileID, Start: 5, End: 6}},
		{Kind: token.EOF, Span: source.Span{File: fileID, Start: 6, End: 6}},
	}

	var buf bytes.Buffer
	if err := FormatTokensPretty(&buf, toks, fs, in); err != nil {
		t.Fatalf("FormatTokensPretty() error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "IDENT") || !strings.Contains(out, "x") {
		t.Fatalf("expected rendered identifier in output, got %q", out)
	}
	if !strings.Contains(out, "EOF") {
		t.Fatalf("expected EOF line, got %q", out)
	}
}

func TestFormatTokensJSON(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.c", []byte("1;"))
	in := intern.New()

	toks := []token.Token{
		{Kind: token.IntLit, IntValue: 1, Base: token.Base10, Span: source.Span{File: fileID, Start: 0, End: 1}},
		{Kind: token.Semicolon, Span: source.Span{File: fileID, Start: 1, End: 2}},
		{Kind: token.EOF, Span: source.Span{File: fileID, Start: 2, End: 2}},
	}

	var buf bytes.Buffer
	if err := FormatTokensJSON(&buf, toks, in); err != nil {
		t.Fatalf("FormatTokensJSON() error: %v", err)
	}
	if !strings.Contains(buf.String(), `"text": "1"`) {
		t.Fatalf("expected literal text in JSON, got %q", buf.String())
	}
}

func TestFormatTokensMsgpackRoundTrips(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.c", []byte(";"))

	toks := []token.Token{
		{Kind: token.Semicolon, Span: source.Span{File: fileID, Start: 0, End: 1}},
		{Kind: token.EOF, Span: source.Span{File: fileID, Start: 1, End: 1}},
	}

	var buf bytes.Buffer
	if err := FormatTokensMsgpack(&buf, toks, nil); err != nil {
		t.Fatalf("FormatTokensMsgpack() error: %v", err)
	}

	var decoded []TokenOutput
	if err := msgpack.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("msgpack.Unmarshal() error: %v", err)
	}
	if len(decoded) != 2 {
		t.Fatalf("expected 2 decoded tokens, got %d: %+v", len(decoded), decoded)
	}
	if decoded[0].Kind != token.Semicolon.String() {
		t.Fatalf("expected semicolon kind, got %+v", decoded[0])
	}
	if decoded[1].Kind != token.EOF.String() {
		t.Fatalf("expected EOF kind, got %+v", decoded[1])
	}
}
