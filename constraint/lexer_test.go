package constraint

import "testing"

func TestLexKinds(t *testing.T) {
	tcs := []struct {
		src  string
		want []tokenKind
	}{
		{src: "1 + 2", want: []tokenKind{tokInt, tokPlus, tokInt, tokEOF}},
		{src: "a.outcome", want: []tokenKind{tokIdent, tokDot, tokIdent, tokEOF}},
		{src: "a // b % c", want: []tokenKind{tokIdent, tokSlashSlash, tokIdent, tokPercent, tokIdent, tokEOF}},
		{src: "a == b != c", want: []tokenKind{tokIdent, tokEq, tokIdent, tokNe, tokIdent, tokEOF}},
		{src: "a <= b >= c", want: []tokenKind{tokIdent, tokLe, tokIdent, tokGe, tokIdent, tokEOF}},
		{src: "if a: end", want: []tokenKind{tokIf, tokIdent, tokColon, tokEnd, tokEOF}},
		{src: "x = 1 # comment", want: []tokenKind{tokIdent, tokAssign, tokInt, tokEOF}},
	}
	for _, tc := range tcs {
		toks, err := newLexer(tc.src).lex()
		if err != nil {
			t.Errorf("lex(%q): unexpected error: %v", tc.src, err)
			continue
		}
		if len(toks) != len(tc.want) {
			t.Errorf("lex(%q): expected %d tokens, got %d (%v)", tc.src, len(tc.want), len(toks), toks)
			continue
		}
		for i, k := range tc.want {
			if toks[i].kind != k {
				t.Errorf("lex(%q): token %d: expected kind %d, got %d", tc.src, i, k, toks[i].kind)
			}
		}
	}
}

func TestLexRejectsSingleSlash(t *testing.T) {
	_, err := newLexer("a / b").lex()
	if err == nil {
		t.Fatal("expected an error for single '/'")
	}
}

func TestLexNumberValue(t *testing.T) {
	toks, err := newLexer("123").lex()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if toks[0].ival != 123 {
		t.Errorf("expected ival 123, got %d", toks[0].ival)
	}
}

func TestTrimNewlines(t *testing.T) {
	tcs := []struct {
		in, want string
	}{
		{"\n\nx = 1\n\n", "x = 1"},
		{"  x = 1  ", "x = 1"},
		{"x = 1", "x = 1"},
	}
	for _, tc := range tcs {
		if got := trimNewlines(tc.in); got != tc.want {
			t.Errorf("trimNewlines(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
