package lexer

import (
	"strings"
	"unicode/utf8"
)

const cdataStart = "<![CDATA["

type stateFunc func() stateFunc

// lineLexer runs the grammar over a single line. Every state function tries
// its rules in order, commits to the first one that matches and returns the
// function for the next position, or nil once the line is consumed.
type lineLexer struct {
	line  string
	pos   int
	state State

	tokens []Token
}

// TokenizeLine classifies line starting in state st and returns the tokens,
// which partition the line, together with the state to resume the next line
// from. It never fails: input no rule recognizes is emitted as ClassNone one
// rune at a time.
func TokenizeLine(line string, st State) ([]Token, State) {
	l := &lineLexer{
		line:   line,
		state:  st,
		tokens: make([]Token, 0, 8),
	}

	state := l.next()
	for state != nil {
		state = state()
	}

	return l.tokens, l.state
}

func (l *lineLexer) next() stateFunc {
	if l.pos >= len(l.line) {
		return nil
	}

	switch l.state {
	case StateTag:
		return l.lexTag
	case StateComment:
		return l.lexComment
	case StateCDATA:
		return l.lexCDATA
	}

	return l.lexRoot
}

func (l *lineLexer) rest() string {
	return l.line[l.pos:]
}

func (l *lineLexer) emit(n int, class Class) {
	if n <= 0 {
		return
	}

	l.tokens = append(l.tokens, Token{
		Start: l.pos,
		End:   l.pos + n,
		Class: class,
	})
	l.pos += n
}

// advance consumes a single rune as plain text so that the scan always makes
// progress.
func (l *lineLexer) advance() stateFunc {
	_, size := utf8.DecodeRuneInString(l.rest())
	l.emit(size, ClassNone)
	return l.next
}

func (l *lineLexer) enter(st State) stateFunc {
	l.state = st
	return l.next
}

func (l *lineLexer) lexRoot() stateFunc {
	s := l.rest()

	// Also covers the whitespace rule, which can never win against it.
	if n := spanFunc(s, isText); n > 0 {
		l.emit(n, ClassNone)
		return l.next
	}

	if s[0] == '&' {
		if n := charRef(s); n > 0 {
			l.emit(n, ClassStringEscape)
			return l.next
		}
		return l.advance()
	}

	// s[0] == '<'
	if strings.HasPrefix(s, "<!--") {
		l.emit(4, ClassComment)
		return l.enter(StateComment)
	}

	if n := qualifiedName(s[1:]); n > 0 {
		l.emit(1, ClassDelimiter)
		l.emit(n, ClassTag)
		return l.enter(StateTag)
	}

	if strings.HasPrefix(s, "</") {
		if name := qualifiedName(s[2:]); name > 0 {
			ws := spaceLen(s[2+name:])
			if rest := s[2+name+ws:]; rest != "" && rest[0] == '>' {
				l.emit(2, ClassDelimiter)
				l.emit(name, ClassTag)
				l.emit(ws, ClassNone)
				l.emit(1, ClassDelimiter)
				return l.next
			}
		}
	}

	if strings.HasPrefix(s, "<?") || strings.HasPrefix(s, "<!") {
		if n := qualifiedName(s[2:]); n > 0 {
			l.emit(2, ClassDelimiter)
			l.emit(n, ClassMetaTag)
			return l.enter(StateTag)
		}
	}

	if hasPrefixFold(s, cdataStart) {
		l.emit(len(cdataStart), ClassCDATADelimiter)
		return l.enter(StateCDATA)
	}

	return l.advance()
}

func (l *lineLexer) lexTag() stateFunc {
	s := l.rest()

	if n := spanFunc(s, isTagSpace); n > 0 {
		l.emit(n, ClassNone)
		return l.next
	}

	if name := qualifiedName(s); name > 0 {
		if sep := assignmentLen(s[name:]); sep > 0 {
			v := s[name+sep:]

			// The order matters: a value cut short by "?>" or "/>" wins over
			// a quoted one, and an unterminated quote runs greedily.
			for _, value := range []func(string) int{truncatedValue, quotedValue, openValue} {
				if n := value(v); n > 0 {
					l.emit(name, ClassAttributeName)
					l.emit(sep, ClassNone)
					l.emit(n, ClassAttributeValue)
					return l.next
				}
			}
		}

		l.emit(name, ClassAttributeName)
		return l.next
	}

	switch {
	case strings.HasPrefix(s, "?>"):
		l.emit(2, ClassDelimiter)
		return l.enter(StateRoot)

	case strings.HasPrefix(s, "/>"):
		l.emit(1, ClassTag)
		l.emit(1, ClassDelimiter)
		return l.enter(StateRoot)

	case s[0] == '>':
		l.emit(1, ClassDelimiter)
		return l.enter(StateRoot)
	}

	return l.advance()
}

func (l *lineLexer) lexComment() stateFunc {
	s := l.rest()

	if n := spanFunc(s, func(b byte) bool { return b != '<' && b != '-' }); n > 0 {
		l.emit(n, ClassCommentContent)
		return l.next
	}

	switch {
	case strings.HasPrefix(s, "-->"):
		l.emit(3, ClassComment)
		return l.enter(StateRoot)

	case strings.HasPrefix(s, "<!--"):
		l.emit(4, ClassCommentContentInvalid)
		return l.next
	}

	// A lone '<' or '-'
	l.emit(1, ClassCommentContent)
	return l.next
}

func (l *lineLexer) lexCDATA() stateFunc {
	s := l.rest()

	if n := spanFunc(s, func(b byte) bool { return b != ']' }); n > 0 {
		l.emit(n, ClassNone)
		return l.next
	}

	if strings.HasPrefix(s, "]]>") {
		l.emit(3, ClassCDATADelimiter)
		return l.enter(StateRoot)
	}

	l.emit(1, ClassNone)
	return l.next
}
