package lexer

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type span struct {
	Text  string
	Class Class
}

func spans(line string, tks []Token) []span {
	s := make([]span, len(tks))
	for i, tk := range tks {
		s[i] = span{Text: tk.Text(line), Class: tk.Class}
	}
	return s
}

func checkPartition(t *testing.T, line string, tks []Token) {
	t.Helper()

	pos := 0
	for i, tk := range tks {
		if tk.Start != pos {
			t.Fatalf("token %d of %q starts at %d, expected %d", i, line, tk.Start, pos)
		}
		if tk.End <= tk.Start {
			t.Fatalf("token %d of %q is empty", i, line)
		}
		pos = tk.End
	}

	if pos != len(line) {
		t.Fatalf("tokens of %q end at %d, expected %d", line, pos, len(line))
	}
}

func TestTokenizeLine(t *testing.T) {
	type testCase struct {
		name      string
		line      string
		state     State
		want      []span
		wantState State
	}

	cases := []testCase{
		{
			name: "simple tag",
			line: "<foo>",
			want: []span{
				{"<", ClassDelimiter},
				{"foo", ClassTag},
				{">", ClassDelimiter},
			},
			wantState: StateRoot,
		},
		{
			name: "tag with attribute",
			line: `<foo bar="baz">`,
			want: []span{
				{"<", ClassDelimiter},
				{"foo", ClassTag},
				{" ", ClassNone},
				{"bar", ClassAttributeName},
				{"=", ClassNone},
				{`"baz"`, ClassAttributeValue},
				{">", ClassDelimiter},
			},
			wantState: StateRoot,
		},
		{
			name: "qualified names",
			line: `<ns:item xml:lang = 'en'>`,
			want: []span{
				{"<", ClassDelimiter},
				{"ns:item", ClassTag},
				{" ", ClassNone},
				{"xml:lang", ClassAttributeName},
				{" = ", ClassNone},
				{"'en'", ClassAttributeValue},
				{">", ClassDelimiter},
			},
			wantState: StateRoot,
		},
		{
			name: "closing tag",
			line: "</foo >",
			want: []span{
				{"</", ClassDelimiter},
				{"foo", ClassTag},
				{" ", ClassNone},
				{">", ClassDelimiter},
			},
			wantState: StateRoot,
		},
		{
			name: "unfinished closing tag",
			line: "</foo",
			want: []span{
				{"<", ClassNone},
				{"/foo", ClassNone},
			},
			wantState: StateRoot,
		},
		{
			name: "self closing tag",
			line: "<br/>",
			want: []span{
				{"<", ClassDelimiter},
				{"br", ClassTag},
				{"/", ClassTag},
				{">", ClassDelimiter},
			},
			wantState: StateRoot,
		},
		{
			name: "processing instruction",
			line: `<?xml version="1.0"?>`,
			want: []span{
				{"<?", ClassDelimiter},
				{"xml", ClassMetaTag},
				{" ", ClassNone},
				{"version", ClassAttributeName},
				{"=", ClassNone},
				{`"1.0"`, ClassAttributeValue},
				{"?>", ClassDelimiter},
			},
			wantState: StateRoot,
		},
		{
			name: "declaration",
			line: "<!DOCTYPE html>",
			want: []span{
				{"<!", ClassDelimiter},
				{"DOCTYPE", ClassMetaTag},
				{" ", ClassNone},
				{"html", ClassAttributeName},
				{">", ClassDelimiter},
			},
			wantState: StateRoot,
		},
		{
			name: "value cut short by self closing",
			line: `<a href="x/>`,
			want: []span{
				{"<", ClassDelimiter},
				{"a", ClassTag},
				{" ", ClassNone},
				{"href", ClassAttributeName},
				{"=", ClassNone},
				{`"x`, ClassAttributeValue},
				{"/", ClassTag},
				{">", ClassDelimiter},
			},
			wantState: StateRoot,
		},
		{
			name: "unterminated value",
			line: `<a b="c`,
			want: []span{
				{"<", ClassDelimiter},
				{"a", ClassTag},
				{" ", ClassNone},
				{"b", ClassAttributeName},
				{"=", ClassNone},
				{`"c`, ClassAttributeValue},
			},
			wantState: StateTag,
		},
		{
			name:  "tag continued from previous line",
			line:  `  b="1">text`,
			state: StateTag,
			want: []span{
				{"  ", ClassNone},
				{"b", ClassAttributeName},
				{"=", ClassNone},
				{`"1"`, ClassAttributeValue},
				{">", ClassDelimiter},
				{"text", ClassNone},
			},
			wantState: StateRoot,
		},
		{
			name: "comment",
			line: "<!-- hi -->",
			want: []span{
				{"<!--", ClassComment},
				{" hi ", ClassCommentContent},
				{"-->", ClassComment},
			},
			wantState: StateRoot,
		},
		{
			name: "tags inside comment",
			line: "<!-- <b> -->",
			want: []span{
				{"<!--", ClassComment},
				{" ", ClassCommentContent},
				{"<", ClassCommentContent},
				{"b> ", ClassCommentContent},
				{"-->", ClassComment},
			},
			wantState: StateRoot,
		},
		{
			name: "nested comment",
			line: "<!-- a <!-- b -->",
			want: []span{
				{"<!--", ClassComment},
				{" a ", ClassCommentContent},
				{"<!--", ClassCommentContentInvalid},
				{" b ", ClassCommentContent},
				{"-->", ClassComment},
			},
			wantState: StateRoot,
		},
		{
			name: "unterminated comment",
			line: "<!-- open",
			want: []span{
				{"<!--", ClassComment},
				{" open", ClassCommentContent},
			},
			wantState: StateComment,
		},
		{
			name:  "comment continued from previous line",
			line:  "still -- here -->tail",
			state: StateComment,
			want: []span{
				{"still ", ClassCommentContent},
				{"-", ClassCommentContent},
				{"-", ClassCommentContent},
				{" here ", ClassCommentContent},
				{"-->", ClassComment},
				{"tail", ClassNone},
			},
			wantState: StateRoot,
		},
		{
			name: "cdata",
			line: "<![CDATA[data]]>",
			want: []span{
				{"<![CDATA[", ClassCDATADelimiter},
				{"data", ClassNone},
				{"]]>", ClassCDATADelimiter},
			},
			wantState: StateRoot,
		},
		{
			name: "cdata ignores case and stray brackets",
			line: "<![cdata[x]<y>]]>",
			want: []span{
				{"<![cdata[", ClassCDATADelimiter},
				{"x", ClassNone},
				{"]", ClassNone},
				{"<y>", ClassNone},
				{"]]>", ClassCDATADelimiter},
			},
			wantState: StateRoot,
		},
		{
			name: "unterminated cdata",
			line: "<![CDATA[x]]",
			want: []span{
				{"<![CDATA[", ClassCDATADelimiter},
				{"x", ClassNone},
				{"]", ClassNone},
				{"]", ClassNone},
			},
			wantState: StateCDATA,
		},
		{
			name: "character reference",
			line: "a &amp; b",
			want: []span{
				{"a ", ClassNone},
				{"&amp;", ClassStringEscape},
				{" b", ClassNone},
			},
			wantState: StateRoot,
		},
		{
			name: "ampersand without reference",
			line: "&foo",
			want: []span{
				{"&", ClassNone},
				{"foo", ClassNone},
			},
			wantState: StateRoot,
		},
		{
			name: "stray angle bracket",
			line: "a < é",
			want: []span{
				{"a ", ClassNone},
				{"<", ClassNone},
				{" é", ClassNone},
			},
			wantState: StateRoot,
		},
		{
			name:      "empty line keeps state",
			line:      "",
			state:     StateComment,
			want:      []span{},
			wantState: StateComment,
		},
	}

	for _, c := range cases {
		c := c

		t.Run(c.name, func(t *testing.T) {
			tks, st := TokenizeLine(c.line, c.state)

			checkPartition(t, c.line, tks)

			if diff := cmp.Diff(c.want, spans(c.line, tks)); diff != "" {
				t.Errorf("tokens mismatch (-want +got):\n%s", diff)
			}
			if st != c.wantState {
				t.Errorf("expected state %s, got %s", c.wantState, st)
			}
		})
	}
}

func TestTokenizeLinePartitions(t *testing.T) {
	const alphabet = "<>/?!-=&;:\"' \t]a[CDATAé\r"

	rnd := rand.New(rand.NewSource(1))
	runes := []rune(alphabet)

	for i := 0; i < 2000; i++ {
		buf := make([]rune, rnd.Intn(40))
		for j := range buf {
			buf[j] = runes[rnd.Intn(len(runes))]
		}
		line := string(buf)

		for _, st := range []State{StateRoot, StateTag, StateComment, StateCDATA} {
			tks, _ := TokenizeLine(line, st)
			checkPartition(t, line, tks)
		}
	}
}

func FuzzTokenizeLine(f *testing.F) {
	f.Add(`<a b="c`, int(StateRoot))
	f.Add("<!-- x -->", int(StateRoot))
	f.Add("x]]>", int(StateCDATA))
	f.Add("\xff<\xfe", int(StateTag))

	f.Fuzz(func(t *testing.T, line string, st int) {
		state := State(uint(st) % 4)

		tks, _ := TokenizeLine(line, state)
		checkPartition(t, line, tks)
	})
}

func TestMerge(t *testing.T) {
	line := "still -- here -->"
	tks, _ := TokenizeLine(line, StateComment)

	want := []span{
		{"still -- here ", ClassCommentContent},
		{"-->", ClassComment},
	}

	if diff := cmp.Diff(want, spans(line, Merge(tks))); diff != "" {
		t.Errorf("merged tokens mismatch (-want +got):\n%s", diff)
	}
}

func TestClassScope(t *testing.T) {
	assert := func(expected, got string) {
		t.Helper()
		if got != expected {
			t.Fatalf("expected %q, got %q", expected, got)
		}
	}

	assert("", ClassNone.Scope())
	assert("attribute.value.xml", ClassAttributeValue.Scope())
	assert("delimiter.cdata.xml", ClassCDATADelimiter.Scope())
}
