package render

import (
	"fmt"
	"io"

	"github.com/pipe01/xmlhl/internal/document"
	"github.com/pipe01/xmlhl/internal/lexer"
)

type Format int

const (
	FormatText Format = iota
	FormatHTML
	FormatJSON
	FormatMsgpack
)

// Formats lists the names accepted by ParseFormat.
var Formats = []string{"text", "html", "json", "msgpack"}

func (f Format) String() string {
	if f >= 0 && int(f) < len(Formats) {
		return Formats[f]
	}
	return "<unknown>"
}

func ParseFormat(s string) (Format, error) {
	for i, name := range Formats {
		if name == s {
			return Format(i), nil
		}
	}

	return 0, fmt.Errorf("unknown format %q", s)
}

type Options struct {
	Format Format

	// Merge joins adjacent tokens that share a class.
	Merge bool
}

// Visit writes the tokens of every line of doc to w.
func Visit(w io.Writer, name string, doc *document.Document, opts Options) error {
	out, err := newOutputWriter(w, opts.Format)
	if err != nil {
		return err
	}

	out.WriteHeader(name)

	for i := 0; i < doc.LineCount(); i++ {
		tks := doc.Tokens(i)
		if opts.Merge {
			tks = lexer.Merge(tks)
		}

		out.WriteLine(i, doc.Line(i), doc.StateAt(i), tks)
	}

	if err := out.Close(); err != nil {
		return fmt.Errorf("write %s output: %w", opts.Format, err)
	}

	return nil
}
