package render

import (
	"bufio"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/pipe01/xmlhl/internal/lexer"
	"github.com/vmihailenco/msgpack/v5"
)

type OutputWriter interface {
	WriteHeader(name string)
	WriteLine(n int, line string, state lexer.State, tks []lexer.Token)

	// Close flushes any buffered output and reports the first write error.
	Close() error
}

func newOutputWriter(w io.Writer, f Format) (OutputWriter, error) {
	switch f {
	case FormatText:
		return &textWriter{w: bufio.NewWriter(w)}, nil
	case FormatHTML:
		return &htmlWriter{w: bufio.NewWriter(w)}, nil
	case FormatJSON, FormatMsgpack:
		return &recordWriter{w: w, format: f}, nil
	}

	return nil, fmt.Errorf("unsupported format %s", f)
}

func label(c lexer.Class) string {
	if c == lexer.ClassNone {
		return "text"
	}
	return c.String()
}

type textWriter struct {
	w    *bufio.Writer
	name string
}

func (w *textWriter) WriteHeader(name string) {
	w.name = name
}

func (w *textWriter) WriteLine(n int, line string, state lexer.State, tks []lexer.Token) {
	for _, tk := range tks {
		fmt.Fprintf(w.w, "%s:%d:%d-%d\t%s\t%q\n", w.name, n+1, tk.Start+1, tk.End+1, label(tk.Class), tk.Text(line))
	}
}

func (w *textWriter) Close() error {
	return w.w.Flush()
}

type htmlWriter struct {
	w     *bufio.Writer
	lines int
}

func (w *htmlWriter) WriteHeader(name string) {
	fmt.Fprintf(w.w, "<pre class=\"xml\" data-file=\"%s\">", html.EscapeString(name))
}

func (w *htmlWriter) WriteLine(n int, line string, state lexer.State, tks []lexer.Token) {
	if w.lines > 0 {
		w.w.WriteByte('\n')
	}
	w.lines++

	for _, tk := range tks {
		text := html.EscapeString(tk.Text(line))

		if tk.Class == lexer.ClassNone {
			w.w.WriteString(text)
			continue
		}

		fmt.Fprintf(w.w, "<span class=\"%s\">%s</span>", strings.ReplaceAll(tk.Class.String(), ".", " "), text)
	}
}

func (w *htmlWriter) Close() error {
	w.w.WriteString("</pre>\n")
	return w.w.Flush()
}

type tokenRecord struct {
	Start int    `json:"start" msgpack:"start"`
	End   int    `json:"end" msgpack:"end"`
	Class string `json:"class" msgpack:"class"`
	Text  string `json:"text" msgpack:"text"`
}

type lineRecord struct {
	Line   int           `json:"line" msgpack:"line"`
	State  string        `json:"state" msgpack:"state"`
	Tokens []tokenRecord `json:"tokens" msgpack:"tokens"`
}

type fileRecord struct {
	File  string       `json:"file" msgpack:"file"`
	Lines []lineRecord `json:"lines" msgpack:"lines"`
}

// recordWriter collects the whole file and encodes it on Close.
type recordWriter struct {
	w      io.Writer
	format Format
	file   fileRecord
}

func (w *recordWriter) WriteHeader(name string) {
	w.file = fileRecord{
		File:  name,
		Lines: []lineRecord{},
	}
}

func (w *recordWriter) WriteLine(n int, line string, state lexer.State, tks []lexer.Token) {
	rec := lineRecord{
		Line:   n,
		State:  state.String(),
		Tokens: make([]tokenRecord, len(tks)),
	}

	for i, tk := range tks {
		rec.Tokens[i] = tokenRecord{
			Start: tk.Start,
			End:   tk.End,
			Class: tk.Class.String(),
			Text:  tk.Text(line),
		}
	}

	w.file.Lines = append(w.file.Lines, rec)
}

func (w *recordWriter) Close() error {
	if w.format == FormatMsgpack {
		return msgpack.NewEncoder(w.w).Encode(&w.file)
	}

	enc := json.NewEncoder(w.w)
	enc.SetIndent("", "  ")
	return enc.Encode(&w.file)
}
