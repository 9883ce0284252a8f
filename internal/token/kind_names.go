package token

var kindNames = map[Kind]string{
	Invalid:    "INVALID",
	EOF:        "EOF",
	Ident:      "IDENT",
	HeaderName: "HEADER_NAME",
	IntLit:     "INT",
	FloatLit:   "FLOAT",
	CharLit:    "CHAR",
	StringLit:  "STRING",

	Hash:     "#",
	HashHash: "##",
	LParen:   "(",
	RParen:   ")",
	LBracket: "[",
	RBracket: "]",
	LBrace:   "{",
	RBrace:   "}",
	Period:   ".",
	Ellipsis: "...",
	Arrow:    "->",

	Plus:       "+",
	PlusPlus:   "++",
	Minus:      "-",
	MinusMinus: "--",
	Star:       "*",
	Slash:      "/",
	Percent:    "%",

	Lt:   "<",
	Gt:   ">",
	Le:   "<=",
	Ge:   ">=",
	EqEq: "==",
	Neq:  "!=",

	Amp:    "&",
	AndAnd: "&&",
	Pipe:   "|",
	OrOr:   "||",
	Caret:  "^",
	Tilde:  "~",
	Bang:   "!",

	Question:  "?",
	Colon:     ":",
	Semicolon: ";",
	Comma:     ",",

	Assign:        "=",
	PlusAssign:    "+=",
	MinusAssign:   "-=",
	StarAssign:    "*=",
	SlashAssign:   "/=",
	PercentAssign: "%=",
	ShlAssign:     "<<=",
	ShrAssign:     ">>=",
	AmpAssign:     "&=",
	CaretAssign:   "^=",
	PipeAssign:    "|=",
	Shl:           "<<",
	Shr:           ">>",
}
