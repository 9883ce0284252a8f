package lexer

func isIdentStartByte(b byte) bool {
	return b == '_' || (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

func isIdentContinueByte(b byte) bool {
	return isIdentStartByte(b) || isDecByte(b)
}

func isDecByte(b byte) bool { return b >= '0' && b <= '9' }

func isHexByte(b byte) bool {
	return isDecByte(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

func isOctByte(b byte) bool { return b >= '0' && b <= '7' }

func isBinByte(b byte) bool { return b == '0' || b == '1' }

func hexVal(b byte) int {
	switch {
	case b >= '0' && b <= '9':
		return int(b - '0')
	case b >= 'a' && b <= 'f':
		return int(b-'a') + 10
	case b >= 'A' && b <= 'F':
		return int(b-'A') + 10
	default:
		return -1
	}
}
