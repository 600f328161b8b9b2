package parsing

import "unicode"

// Tokenize splits a raw query string into tokens. Tokens are separated by
// runs of whitespace; a token opening with ' or " extends to the matching
// quote and may contain whitespace. There are no escape sequences, and an
// unterminated quote runs to the end of the string. No normalization
// happens here.
func Tokenize(cmd string) []string {
	var tokens []string
	runes := []rune(cmd)

	i := 0
	for i < len(runes) {
		c := runes[i]
		switch {
		case unicode.IsSpace(c):
			i++
		case c == '\'' || c == '"':
			var token string
			token, i = consumeQuote(runes, i+1, c)
			tokens = append(tokens, token)
		default:
			var token string
			token, i = consumeWord(runes, i)
			tokens = append(tokens, token)
		}
	}

	return tokens
}

func consumeWord(runes []rune, i int) (string, int) {
	start := i
	for i < len(runes) {
		c := runes[i]
		if unicode.IsSpace(c) || c == '\'' || c == '"' {
			break
		}
		i++
	}
	return string(runes[start:i]), i
}

func consumeQuote(runes []rune, i int, delimiter rune) (string, int) {
	start := i
	for i < len(runes) && runes[i] != delimiter {
		i++
	}
	return string(runes[start:i]), i + 1
}
