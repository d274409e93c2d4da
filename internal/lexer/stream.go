package lexer

import "strings"

// Item is a token located within a whole buffer.
type Item struct {
	Class    Class
	Start    Location
	Contents string
}

// Lexer lazily tokenizes a buffer line by line, threading the state from each
// line into the next one.
type Lexer struct {
	filename string
	lines    []string

	line    int
	current int
	pending []Token
	state   State
}

func New(file []byte, fileName string) *Lexer {
	return &Lexer{
		filename: fileName,
		lines:    SplitLines(string(file)),
		state:    StateRoot,
	}
}

// SplitLines splits text on '\n' and drops the '\r' of CRLF endings.
func SplitLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

// Next returns the next token, or false once the buffer is exhausted.
func (l *Lexer) Next() (Item, bool) {
	for len(l.pending) == 0 {
		if l.line >= len(l.lines) {
			return Item{}, false
		}

		l.pending, l.state = TokenizeLine(l.lines[l.line], l.state)
		l.current = l.line
		l.line++
	}

	tk := l.pending[0]
	l.pending = l.pending[1:]

	return Item{
		Class: tk.Class,
		Start: Location{
			File:   l.filename,
			Line:   l.current,
			Column: tk.Start,
		},
		Contents: tk.Text(l.lines[l.current]),
	}, true
}

func (l *Lexer) Collect() []Item {
	items := []Item{}

	for {
		it, ok := l.Next()
		if !ok {
			return items
		}
		items = append(items, it)
	}
}

// State returns the state after the last line consumed so far.
func (l *Lexer) State() State {
	return l.state
}
