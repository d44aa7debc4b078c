package nexus

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type tokenizerTestCase struct {
	description string
	input       string
	opts        []Options // options for each pull; empty Options reused when exhausted
	expected    []string  // expected token texts, in order
	expectedErr string    // expected error substring, empty for no error
}

func checkTokenizerTestCase(t *testing.T, tests []tokenizerTestCase) {
	require := require.New(t)
	for i, test := range tests {
		t.Logf("Test #%d: %s", i, test.description)
		tk := NewTokenizer(strings.NewReader(test.input))

		var texts []string
		var err error
		for n := 0; ; n++ {
			opts := Options{}
			if n < len(test.opts) {
				opts = test.opts[n]
			}
			var tok Token
			tok, err = tk.Next(opts)
			if err != nil || tok.AtEOF() {
				break
			}
			texts = append(texts, tok.Text)
		}

		if test.expectedErr != "" {
			require.Error(err)
			require.Contains(err.Error(), test.expectedErr)
			continue
		}
		require.NoError(err)
		require.Equal(test.expected, texts)
	}
}

func TestTokenizer_Words(t *testing.T) {
	tests := []tokenizerTestCase{
		{
			description: "plain words separated by whitespace",
			input:       "begin characters;",
			expected:    []string{"begin", "characters", ";"},
		},
		{
			description: "underscores become blanks",
			input:       "Homo_sapiens",
			expected:    []string{"Homo sapiens"},
		},
		{
			description: "punctuation splits tokens",
			input:       "ntax=5;",
			expected:    []string{"ntax", "=", "5", ";"},
		},
		{
			description: "each punctuation character is its own token",
			input:       "(){}/\\,;:=*`+-<>",
			expected: []string{
				"(", ")", "{", "}", "/", "\\", ",", ";", ":", "=", "*",
				"`", "+", "-", "<", ">",
			},
		},
		{
			description: "leading and trailing whitespace ignored",
			input:       "  \t\n  word  \n ",
			expected:    []string{"word"},
		},
		{
			description: "carriage returns treated as newlines",
			input:       "a\rb\r\nc",
			expected:    []string{"a", "b", "c"},
		},
	}
	checkTokenizerTestCase(t, tests)
}

func TestTokenizer_Quotes(t *testing.T) {
	tests := []tokenizerTestCase{
		{
			description: "quoted word keeps whitespace and punctuation",
			input:       "'a (strange) name'",
			expected:    []string{"a (strange) name"},
		},
		{
			description: "tandem single quotes collapse to one",
			input:       "'a''b'",
			expected:    []string{"a'b"},
		},
		{
			description: "underscores inside quotes become blanks",
			input:       "'x_y'",
			expected:    []string{"x y"},
		},
		{
			description: "character after closing quote starts next token",
			input:       "'abc'def",
			expected:    []string{"abc", "def"},
		},
		{
			description: "lone quote inside a word must be doubled",
			input:       "ab'c",
			expectedErr: "expecting second single quote character",
		},
		{
			description: "unterminated quote",
			input:       "'abc",
			expectedErr: "unexpected end of file inside quoted token",
		},
	}
	checkTokenizerTestCase(t, tests)
}

func TestTokenizer_Comments(t *testing.T) {
	tests := []tokenizerTestCase{
		{
			description: "comment acts as whitespace",
			input:       "abc[ignore me]def",
			expected:    []string{"abc", "def"},
		},
		{
			description: "nested comments",
			input:       "a[outer[inner]outer]b",
			expected:    []string{"a", "b"},
		},
		{
			description: "command comment ignored without the option",
			input:       "a [&w] b",
			expected:    []string{"a", "b"},
		},
		{
			description: "command comment kept as token with the option",
			input:       "[&showall] begin",
			opts:        []Options{{SaveCommandComments: true}},
			expected:    []string{"&showall", "begin"},
		},
		{
			description: "unterminated comment",
			input:       "abc [oops",
			expectedErr: "unexpected end of file inside comment",
		},
	}
	checkTokenizerTestCase(t, tests)
}

func TestTokenizer_OneShotOptions(t *testing.T) {
	tests := []tokenizerTestCase{
		{
			description: "parenthetical token spans to matching close",
			input:       "(01) x",
			opts:        []Options{{ParentheticalToken: true}},
			expected:    []string{"(01)", "x"},
		},
		{
			description: "parenthetical nesting tracked",
			input:       "(a(b)c)",
			opts:        []Options{{ParentheticalToken: true}},
			expected:    []string{"(a(b)c)"},
		},
		{
			description: "unterminated parenthetical token",
			input:       "(ab",
			opts:        []Options{{ParentheticalToken: true}},
			expectedErr: "unexpected end of file inside bracketed token",
		},
		{
			description: "curly-bracketed token spans to matching close",
			input:       "{01} x",
			opts:        []Options{{CurlyBracketedToken: true}},
			expected:    []string{"{01}", "x"},
		},
		{
			description: "double-quoted token drops the quotes",
			input:       `"R {AG} Y {CT}" next`,
			opts:        []Options{{DoubleQuotedToken: true}},
			expected:    []string{"R {AG} Y {CT}", "next"},
		},
		{
			description: "single character token",
			input:       "ACGT",
			opts:        []Options{{SingleCharacterToken: true}},
			expected:    []string{"A", "CGT"},
		},
		{
			description: "newline as token",
			input:       "a b\nc",
			opts: []Options{
				{NewlineIsToken: true},
				{NewlineIsToken: true},
				{NewlineIsToken: true},
				{NewlineIsToken: true},
			},
			expected: []string{"a", "b", "\n", "c"},
		},
		{
			description: "options apply to one pull only",
			input:       "(a) (b)",
			opts:        []Options{{ParentheticalToken: true}},
			expected:    []string{"(a)", "(", "b", ")"},
		},
		{
			description: "tilde punctuation only on request",
			input:       "a~b",
			opts:        []Options{{TildeIsPunctuation: true}},
			expected:    []string{"a", "~b"},
		},
		{
			description: "hyphen kept in token under HyphenNotPunctuation",
			input:       "-1.5",
			opts:        []Options{{HyphenNotPunctuation: true}},
			expected:    []string{"-1.5"},
		},
		{
			description: "special punctuation character",
			input:       "ab%cd",
			opts: []Options{
				{UseSpecialPunctuation: true, Special: '%'},
				{UseSpecialPunctuation: true, Special: '%'},
				{UseSpecialPunctuation: true, Special: '%'},
			},
			expected: []string{"ab", "%", "cd"},
		},
	}
	checkTokenizerTestCase(t, tests)
}

func TestTokenizer_Positions(t *testing.T) {
	require := require.New(t)

	tk := NewTokenizer(strings.NewReader("abc def\nghi"))

	tok, err := tk.Next(Options{})
	require.NoError(err)
	require.Equal("abc", tok.Text)
	require.Equal(Position{Offset: 0, Line: 1, Col: 1}, tok.Pos)

	tok, err = tk.Next(Options{})
	require.NoError(err)
	require.Equal("def", tok.Text)
	require.Equal(Position{Offset: 4, Line: 1, Col: 5}, tok.Pos)

	tok, err = tk.Next(Options{})
	require.NoError(err)
	require.Equal("ghi", tok.Text)
	require.Equal(Position{Offset: 8, Line: 2, Col: 1}, tok.Pos)

	tok, err = tk.Next(Options{})
	require.NoError(err)
	require.True(tok.AtEOF())
}

func TestTokenizer_CRLFPositions(t *testing.T) {
	require := require.New(t)

	tk := NewTokenizer(strings.NewReader("ab\r\ncd"))

	tok, err := tk.Next(Options{})
	require.NoError(err)
	require.Equal("ab", tok.Text)

	tok, err = tk.Next(Options{})
	require.NoError(err)
	require.Equal("cd", tok.Text)
	require.Equal(Position{Offset: 4, Line: 2, Col: 1}, tok.Pos)
}

func TestTokenizer_OutputComments(t *testing.T) {
	require := require.New(t)

	var comments []string
	tk := NewTokenizer(strings.NewReader("a [!hello world] b"))
	tk.SetCommentHandler(func(c string) { comments = append(comments, c) })

	for {
		tok, err := tk.Next(Options{})
		require.NoError(err)
		if tok.AtEOF() {
			break
		}
	}
	require.Equal([]string{"hello world"}, comments)
}

func TestToken_Matching(t *testing.T) {
	require := require.New(t)

	tok := Token{Text: "dimensions"}
	require.True(tok.Equals("DIMENSIONS"))
	require.False(tok.Equals("DIMENSION"))
	require.True(tok.Begins("DIM"))
	require.True(tok.Abbreviation("DIMensions"))

	tok = Token{Text: "dim"}
	require.True(tok.Abbreviation("DIMensions"))

	tok = Token{Text: "di"}
	require.False(tok.Abbreviation("DIMensions"))

	tok = Token{Text: "dimensionsx"}
	require.False(tok.Abbreviation("DIMensions"))

	require.True(Token{Text: "-"}.IsPlusMinus())
	require.True(Token{Text: ";"}.IsPunct())
	require.False(Token{Text: "ab"}.IsPunct())
	require.True(Token{Text: "\n"}.AtEOL())
}
