package lexer

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

func isText(b byte) bool {
	return b != '<' && b != '&'
}

func isTagSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\n'
}

func isWordChar(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9' || b == '_'
}

func isNameChar(b byte) bool {
	return isWordChar(b) || b == '.' || b == '-'
}

// spanFunc returns the length of the longest prefix of s made of bytes
// accepted by fn. Callers only test ASCII bytes, so multi-byte runes are
// never split.
func spanFunc(s string, fn func(b byte) bool) int {
	n := 0
	for n < len(s) && fn(s[n]) {
		n++
	}
	return n
}

func spaceLen(s string) int {
	n := 0
	for n < len(s) {
		r, size := utf8.DecodeRuneInString(s[n:])
		if !unicode.IsSpace(r) {
			break
		}
		n += size
	}
	return n
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

// qualifiedName matches an optional "prefix:" followed by a name at the start
// of s and returns its length, or 0.
func qualifiedName(s string) int {
	n := spanFunc(s, isNameChar)
	if n == 0 {
		return 0
	}

	if n < len(s) && s[n] == ':' {
		if local := spanFunc(s[n+1:], isNameChar); local > 0 {
			return n + 1 + local
		}
	}

	return n
}

// charRef matches "&name;".
func charRef(s string) int {
	if s == "" || s[0] != '&' {
		return 0
	}

	n := spanFunc(s[1:], isWordChar)
	if n == 0 || 1+n >= len(s) || s[1+n] != ';' {
		return 0
	}

	return n + 2
}

// assignmentLen matches optional whitespace, '=' and optional whitespace.
func assignmentLen(s string) int {
	n := spaceLen(s)
	if n >= len(s) || s[n] != '=' {
		return 0
	}
	n++

	return n + spaceLen(s[n:])
}

func quote(s string) (byte, bool) {
	if s != "" && (s[0] == '"' || s[0] == '\'') {
		return s[0], true
	}
	return 0, false
}

// truncatedValue matches a quoted value that has no closing quote and is cut
// short by "?>" or "/>".
func truncatedValue(s string) int {
	q, ok := quote(s)
	if !ok {
		return 0
	}

	n := 1 + spanFunc(s[1:], func(b byte) bool {
		return b != q && b != '>' && b != '?' && b != '/'
	})

	if rest := s[n:]; strings.HasPrefix(rest, "?>") || strings.HasPrefix(rest, "/>") {
		return n
	}
	return 0
}

func quotedValue(s string) int {
	q, ok := quote(s)
	if !ok {
		return 0
	}

	end := strings.IndexByte(s[1:], q)
	if end < 0 {
		return 0
	}
	return end + 2
}

// openValue matches an unterminated quoted value up to the next '>' or the
// end of the line.
func openValue(s string) int {
	q, ok := quote(s)
	if !ok {
		return 0
	}

	return 1 + spanFunc(s[1:], func(b byte) bool {
		return b != q && b != '>'
	})
}
