package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Alphabetic is a run of identifier characters; keyword or identifier.
	Alphabetic Kind = iota
	// Number is a run of digits, possibly with internal underscores (22_000).
	Number
	// Op is a single operator character such as `+`.
	Op
	// Delimiter is one of `(`, `)`, `[`, `]`, `{`, `}`.
	Delimiter
	// Nested holds everything between an opening delimiter and its closer.
	Nested
	// Prefix is an alphabetic word nuzzled right up to a literal, e.g. the `r` in `r"foo"`.
	Prefix
	// StringLiteral is a plain string literal; its word includes the quotes.
	StringLiteral
	// FormatString is a string literal with `{...}` sections.
	FormatString
	// Whitespace is one whitespace character.
	Whitespace
	// Unknown is an unclassifiable non-whitespace character.
	Unknown
)

var kindNames = [...]string{
	Alphabetic:    "Alphabetic",
	Number:        "Number",
	Op:            "Op",
	Delimiter:     "Delimiter",
	Nested:        "Tree",
	Prefix:        "Prefix",
	StringLiteral: "StringLiteral",
	FormatString:  "FormatString",
	Whitespace:    "Whitespace",
	Unknown:       "Unknown",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(?)"
}

// Flags carries lexical anomalies as data.
type Flags uint8

const (
	// Unterminated marks a string literal that ran into the end of input.
	Unterminated Flags = 1 << iota
	// InvalidUTF8 marks an Unknown token made of one byte that is not valid UTF-8.
	InvalidUTF8
)

// ClosingDelimiter returns the closer for an opening delimiter, or 0.
func ClosingDelimiter(open rune) rune {
	switch open {
	case '(':
		return ')'
	case '[':
		return ']'
	case '{':
		return '}'
	default:
		return 0
	}
}

// IsOpening reports whether ch opens a token tree.
func IsOpening(ch rune) bool {
	return ClosingDelimiter(ch) != 0
}

// IsClosing reports whether ch closes a token tree.
func IsClosing(ch rune) bool {
	return ch == ')' || ch == ']' || ch == '}'
}
