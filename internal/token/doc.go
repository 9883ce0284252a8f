// Package token defines the lexer's output vocabulary: the closed set of
// token kinds (§6), the keyword/directive classification table (§4.4 P7),
// and the discriminated Token value the lexer emits one at a time.
package token
