package util

// Byte classification helpers shared by the tokenizer. Identifiers are ASCII only.

func IsNumber(b byte) bool {
	return b >= '0' && b <= '9'
}

func IsUnderScore(b byte) bool {
	return b == '_'
}

func IsLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// IsIdentifierStart reports whether b may start an identifier or keyword.
func IsIdentifierStart(b byte) bool {
	return IsLetter(b) || IsUnderScore(b)
}

// IsIdentifierPart reports whether b may continue an identifier or keyword.
func IsIdentifierPart(b byte) bool {
	return IsIdentifierStart(b) || IsNumber(b)
}

func IsNewLine(b byte) bool {
	return b == '\n'
}

func IsSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\n' || b == '\f' || b == '\v'
}
