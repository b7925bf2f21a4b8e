package utils

import (
	"strings"
	"unicode"
)

// ToSnakeCase converts a CamelCase name of an operation (e.g. "ReduceSum") to snake_case ("reduce_sum").
//
// An underscore is inserted before an upper case letter that follows a lower case letter, or that starts
// a new word after an acronym ("HTTPServer" -> "http_server").
func ToSnakeCase(name string) string {
	runes := []rune(name)
	var sb strings.Builder
	sb.Grow(len(name) + 4)
	for ii, r := range runes {
		if !unicode.IsUpper(r) {
			sb.WriteRune(r)
			continue
		}
		if ii > 0 && runes[ii-1] != '_' {
			prevUpper := unicode.IsUpper(runes[ii-1])
			nextLower := ii+1 < len(runes) && !unicode.IsUpper(runes[ii+1]) && runes[ii+1] != '_'
			if !prevUpper || nextLower {
				sb.WriteRune('_')
			}
		}
		sb.WriteRune(unicode.ToLower(r))
	}
	return sb.String()
}

// NormalizeIdentifier converts the name of a path to a valid identifier: only ASCII letters, digits, and
// underscores are kept, every other rune is replaced by an underscore.
// If the name starts with a digit, it is prefixed with an underscore.
func NormalizeIdentifier(name string) string {
	var sb strings.Builder
	sb.Grow(len(name) + 1)
	for ii, r := range name {
		switch {
		case r >= '0' && r <= '9':
			if ii == 0 {
				sb.WriteByte('_')
			}
			sb.WriteRune(r)
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_':
			sb.WriteRune(r)
		default:
			sb.WriteByte('_')
		}
	}
	return sb.String()
}
