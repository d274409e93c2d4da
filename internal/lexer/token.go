package lexer

import "fmt"

// State is the sub-grammar active at a line boundary.
type State int

const (
	StateRoot State = iota
	StateTag
	StateComment
	StateCDATA
)

func (s State) String() string {
	switch s {
	case StateRoot:
		return "root"
	case StateTag:
		return "tag"
	case StateComment:
		return "comment"
	case StateCDATA:
		return "cdata"
	}

	return "<unknown>"
}

type Class int

const (
	ClassNone Class = iota
	ClassDelimiter
	ClassTag
	ClassMetaTag
	ClassAttributeName
	ClassAttributeValue
	ClassComment
	ClassCommentContent
	ClassCommentContentInvalid
	ClassCDATADelimiter
	ClassStringEscape
)

const tokenPostfix = ".xml"

func (c Class) String() string {
	switch c {
	case ClassNone:
		return ""
	case ClassDelimiter:
		return "delimiter"
	case ClassTag:
		return "tag"
	case ClassMetaTag:
		return "metatag"
	case ClassAttributeName:
		return "attribute.name"
	case ClassAttributeValue:
		return "attribute.value"
	case ClassComment:
		return "comment"
	case ClassCommentContent:
		return "comment.content"
	case ClassCommentContentInvalid:
		return "comment.content.invalid"
	case ClassCDATADelimiter:
		return "delimiter.cdata"
	case ClassStringEscape:
		return "string.escape"
	}

	return "<unknown>"
}

// Scope returns the label with the language postfix, or "" for plain text.
func (c Class) Scope() string {
	if c == ClassNone {
		return ""
	}
	return c.String() + tokenPostfix
}

// Token is a classified span of a single line. Offsets are in bytes.
type Token struct {
	Start, End int
	Class      Class
}

func (t Token) Text(line string) string {
	return line[t.Start:t.End]
}

// Merge joins adjacent tokens of the same class.
func Merge(tks []Token) []Token {
	if len(tks) == 0 {
		return tks
	}

	merged := make([]Token, 0, len(tks))
	merged = append(merged, tks[0])

	for _, tk := range tks[1:] {
		last := &merged[len(merged)-1]
		if last.Class == tk.Class && last.End == tk.Start {
			last.End = tk.End
			continue
		}
		merged = append(merged, tk)
	}

	return merged
}

type Location struct {
	File string

	// 0-based, Column in bytes
	Line, Column int
}

func (l *Location) String() string {
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line+1, l.Column+1)
}
