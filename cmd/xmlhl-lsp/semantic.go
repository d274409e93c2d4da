package main

import (
	"fmt"

	"github.com/pipe01/xmlhl/internal/document"
	"github.com/pipe01/xmlhl/internal/lexer"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Indexes into tokenTypes and tokenModifiers.
const (
	typeOperator protocol.UInteger = iota
	typeType
	typeMacro
	typeProperty
	typeString
	typeComment
	typeRegexp
)

const modifierDeprecated protocol.UInteger = 1 << 0

var tokenTypes = []string{"operator", "type", "macro", "property", "string", "comment", "regexp"}
var tokenModifiers = []string{"deprecated"}

func tokenType(c lexer.Class) (typ, modifiers protocol.UInteger, ok bool) {
	switch c {
	case lexer.ClassDelimiter, lexer.ClassCDATADelimiter:
		return typeOperator, 0, true
	case lexer.ClassTag:
		return typeType, 0, true
	case lexer.ClassMetaTag:
		return typeMacro, 0, true
	case lexer.ClassAttributeName:
		return typeProperty, 0, true
	case lexer.ClassAttributeValue:
		return typeString, 0, true
	case lexer.ClassComment, lexer.ClassCommentContent:
		return typeComment, 0, true
	case lexer.ClassCommentContentInvalid:
		return typeComment, modifierDeprecated, true
	case lexer.ClassStringEscape:
		return typeRegexp, 0, true
	}

	return 0, 0, false
}

// utf16Len returns the length of s in UTF-16 code units, which is what LSP
// positions count.
func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		if r >= 0x10000 {
			n += 2
		} else {
			n++
		}
	}
	return n
}

func encodeSemanticTokens(d *document.Document) []protocol.UInteger {
	data := make([]protocol.UInteger, 0)

	var prevLine, prevCol int
	for i := 0; i < d.LineCount(); i++ {
		line := d.Line(i)

		for _, tk := range lexer.Merge(d.Tokens(i)) {
			typ, mods, ok := tokenType(tk.Class)
			if !ok {
				continue
			}

			col := utf16Len(line[:tk.Start])

			startDelta := col
			if i == prevLine {
				startDelta = col - prevCol
			}

			data = append(data,
				protocol.UInteger(i-prevLine),
				protocol.UInteger(startDelta),
				protocol.UInteger(utf16Len(tk.Text(line))),
				typ,
				mods,
			)

			prevLine, prevCol = i, col
		}
	}

	return data
}

func semanticTokensFull(context *glsp.Context, params *protocol.SemanticTokensParams) (*protocol.SemanticTokens, error) {
	var data []protocol.UInteger

	err := documents.With(params.TextDocument.URI, func(d *document.Document) error {
		data = encodeSemanticTokens(d)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("get semantic tokens: %w", err)
	}

	return &protocol.SemanticTokens{
		Data: data,
	}, nil
}
