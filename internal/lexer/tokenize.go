package lexer

import (
	"cfront/internal/strcat"
	"cfront/internal/token"
)

// TokenizeAll drains lx to EOF (inclusive) and folds adjacent string
// literals via strcat.ConcatAdjacent (§4.6, C6). lx.Next itself stays a
// one-token-at-a-time stream with no peek-ahead merging — concatenation is
// always this separate post-pass over the whole token vector, mirroring the
// reference's split between lexer.c's token loop and
// lex_concat_adjacent_string_literals.
func TokenizeAll(lx *Lexer) []token.Token {
	var toks []token.Token
	for {
		t := lx.Next()
		toks = append(toks, t)
		if t.Kind == token.EOF {
			break
		}
	}
	return strcat.ConcatAdjacent(lx.opts.Reporter, lx.opts.Context, toks)
}
