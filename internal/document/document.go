package document

import (
	"strings"

	"github.com/pipe01/xmlhl/internal/lexer"
	"golang.org/x/exp/slices"
)

// Document keeps the tokens of every line of a buffer along with the lexer
// state each line starts in, so that an edit only re-tokenizes the lines whose
// input state actually changed.
//
// A Document is not safe for concurrent use.
type Document struct {
	// Raw lines, including a trailing '\r' for CRLF endings.
	lines  []string
	tokens [][]lexer.Token

	// states[i] is the state line i starts in; states[len(lines)] is the end
	// state of the buffer.
	states []lexer.State
}

func New(text string) *Document {
	lines := strings.Split(text, "\n")

	d := &Document{
		lines:  lines,
		tokens: make([][]lexer.Token, len(lines)),
		states: make([]lexer.State, len(lines)+1),
	}
	d.states[0] = lexer.StateRoot
	d.relex(0, len(lines))

	return d
}

func (d *Document) Text() string {
	return strings.Join(d.lines, "\n")
}

func (d *Document) LineCount() int {
	return len(d.lines)
}

// Line returns the contents of line i without its line ending.
func (d *Document) Line(i int) string {
	return strings.TrimSuffix(d.lines[i], "\r")
}

func (d *Document) Tokens(i int) []lexer.Token {
	return d.tokens[i]
}

// StateAt returns the state line i starts in. StateAt(LineCount()) is the state
// after the last line.
func (d *Document) StateAt(i int) lexer.State {
	return d.states[i]
}

// Offset converts a line and byte column into an offset within Text.
func (d *Document) Offset(line, col int) int {
	if line < 0 {
		return 0
	}
	if line >= len(d.lines) {
		return len(d.Text())
	}

	off := 0
	for _, l := range d.lines[:line] {
		off += len(l) + 1
	}

	if col > len(d.lines[line]) {
		col = len(d.lines[line])
	}
	if col > 0 {
		off += col
	}

	return off
}

// position converts an offset within Text into a line and byte column.
func (d *Document) position(off int) (line, col int) {
	for i, l := range d.lines {
		if off <= len(l) {
			return i, off
		}
		off -= len(l) + 1
	}

	last := len(d.lines) - 1
	return last, len(d.lines[last])
}

// Replace substitutes text for the byte range [start, end) of Text and
// re-tokenizes the touched lines, continuing downstream until the state
// flowing out of a line matches the one recorded before the edit. It returns
// how many lines were tokenized. Out of range offsets are clamped.
func (d *Document) Replace(start, end int, text string) (relexed int) {
	if start < 0 {
		start = 0
	}
	if end < start {
		end = start
	}

	startLine, startCol := d.position(start)
	endLine, endCol := d.position(end)

	replaced := d.lines[startLine][:startCol] + text + d.lines[endLine][endCol:]
	newLines := strings.Split(replaced, "\n")
	n := len(newLines)

	d.lines = slices.Replace(d.lines, startLine, endLine+1, newLines...)
	d.tokens = slices.Replace(d.tokens, startLine, endLine+1, make([][]lexer.Token, n)...)

	// The state after the edited block keeps its old value so that relex can
	// tell when it has caught up.
	d.states = slices.Replace(d.states, startLine+1, endLine+1, make([]lexer.State, n-1)...)

	return d.relex(startLine, startLine+n)
}

// relex tokenizes lines from onwards. Once past dirtyEnd it stops as soon as
// a line produces the state already stored for the next one.
func (d *Document) relex(from, dirtyEnd int) int {
	count := 0

	for i := from; i < len(d.lines); i++ {
		tks, next := lexer.TokenizeLine(d.Line(i), d.states[i])
		d.tokens[i] = tks
		count++

		converged := i >= dirtyEnd-1 && d.states[i+1] == next
		d.states[i+1] = next

		if converged {
			break
		}
	}

	return count
}
