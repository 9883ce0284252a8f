package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/vmihailenco/msgpack/v5"

	"cfront/internal/intern"
	"cfront/internal/source"
	"cfront/internal/strcat"
	"cfront/internal/token"
)

// TokenOutput represents a token in the JSON output.
type TokenOutput struct {
	Kind string      `json:"kind"`
	Text string      `json:"text,omitempty"`
	Span source.Span `json:"span"`
}

// TokenText renders tok's payload as a human-readable string, dispatching on
// Kind the way the token itself is discriminated (§3 Data Model). in
// resolves Ident/HeaderName/keyword spellings; it may be nil for tokens that
// never carry a Str payload.
func TokenText(tok token.Token, in *intern.Interner) string {
	switch tok.Kind {
	case token.Ident, token.HeaderName, token.Invalid:
		if in == nil {
			return ""
		}
		return in.String(tok.Str)
	case token.IntLit:
		if tok.Flags&token.FlagUnsigned != 0 {
			return strconv.FormatUint(tok.IntValue, 10)
		}
		return strconv.FormatInt(tok.Signed(), 10)
	case token.FloatLit:
		return strconv.FormatFloat(tok.FloatValue, 'g', -1, 64)
	case token.CharLit:
		return fmt.Sprintf("0x%X", tok.CharValue)
	case token.StringLit:
		cps := strcat.DecodeCodepoints(tok.Encoding, tok.StringBytes)
		return strconv.Quote(string(cps))
	default:
		if tok.Kind.IsKeyword() {
			return tok.Kind.String()
		}
		return ""
	}
}

// FormatTokensPretty writes one line per token: index, kind, rendered text
// (when present), and the source span in line:col-line:col form.
func FormatTokensPretty(w io.Writer, tokens []token.Token, fs *source.FileSet, in *intern.Interner) error {
	for i, tok := range tokens {
		startPos, endPos := fs.Resolve(tok.Span)

		if _, err := fmt.Fprintf(w, "%3d: %-15s", i+1, tok.Kind.String()); err != nil {
			return err
		}

		if text := TokenText(tok, in); text != "" {
			if _, err := fmt.Fprintf(w, " %s", text); err != nil {
				return err
			}
		}

		if _, err := fmt.Fprintf(w, " at %d:%d-%d:%d",
			startPos.Line, startPos.Col,
			endPos.Line, endPos.Col); err != nil {
			return err
		}

		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}

		if tok.Kind == token.EOF {
			break
		}
	}
	return nil
}

// TokenOutputsJSON prepares tokens for JSON/msgpack serialization.
func TokenOutputsJSON(tokens []token.Token, in *intern.Interner) []TokenOutput {
	output := make([]TokenOutput, 0, len(tokens))
	for _, tok := range tokens {
		output = append(output, TokenOutput{
			Kind: tok.Kind.String(),
			Text: TokenText(tok, in),
			Span: tok.Span,
		})
		if tok.Kind == token.EOF {
			break
		}
	}
	return output
}

// FormatTokensJSON writes tokens as an indented JSON array.
func FormatTokensJSON(w io.Writer, tokens []token.Token, in *intern.Interner) error {
	output := TokenOutputsJSON(tokens, in)

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

// FormatTokensMsgpack writes tokens as a msgpack-encoded array, the binary
// snapshot format `tokens --format msgpack` offers as a compact
// out-of-process alternative to FormatTokensJSON for tooling that consumes
// a whole token stream at once rather than line by line.
func FormatTokensMsgpack(w io.Writer, tokens []token.Token, in *intern.Interner) error {
	output := TokenOutputsJSON(tokens, in)
	return msgpack.NewEncoder(w).Encode(output)
}
