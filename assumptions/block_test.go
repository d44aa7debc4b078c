package assumptions

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/phylogo/go-nexus/characters"
	"github.com/phylogo/go-nexus/nexus"
	"github.com/phylogo/go-nexus/taxa"
)

var _ Matrix = (*characters.Block)(nil)

// newFixture reads a small characters block and returns an assumptions
// block wired to it the way a document reader would.
func newFixture(t *testing.T) (*Block, *characters.Block) {
	t.Helper()
	require := require.New(t)

	tb := taxa.NewBlock()
	tb.Add("A")
	tb.Add("B")
	tb.Add("C")

	ab := NewBlock(tb)
	cb := characters.NewBlock(tb, func(c *characters.Block) { ab.SetMatrix(c) })

	body := `;
		dimensions nchar=5;
		charlabels one two three four five;
		matrix
			A 01010
			B 10101
			C 01100;
		end;`
	err := cb.Read(nexus.NewTokenizer(strings.NewReader(body)))
	require.NoError(err)
	return ab, cb
}

func readAssumptions(t *testing.T, b *Block, body string) error {
	t.Helper()
	return b.Read(nexus.NewTokenizer(strings.NewReader(body)))
}

func TestBlock_Charsets(t *testing.T) {
	require := require.New(t)

	ab, _ := newFixture(t)
	err := readAssumptions(t, ab, `;
		charset early = 1-3;
		charset * late = 4-5;
		charset named = two four;
		end;`)
	require.NoError(err)

	require.Equal(3, ab.NumCharsets())
	require.Equal([]string{"early", "late", "named"}, ab.CharsetNames())
	require.Equal("late", ab.DefaultCharset())

	early := ab.Charset("early")
	require.NotNil(early)
	require.Equal(3, early.Size())
	require.True(early.Contains(0))
	require.True(early.Contains(2))

	named := ab.Charset("named")
	require.Equal(2, named.Size())
	require.True(named.Contains(1))
	require.True(named.Contains(3))

	require.Nil(ab.Charset("missing"))
}

func TestBlock_Taxsets(t *testing.T) {
	require := require.New(t)

	ab, _ := newFixture(t)
	err := readAssumptions(t, ab, "; taxset outgroup = A C; taxset * all = 1-3; end;")
	require.NoError(err)

	require.Equal(2, ab.NumTaxsets())
	require.Equal("all", ab.DefaultTaxset())

	og := ab.Taxset("outgroup")
	require.Equal(2, og.Size())
	require.True(og.Contains(0))
	require.True(og.Contains(2))
}

func TestBlock_DefaultExsetApplies(t *testing.T) {
	require := require.New(t)

	ab, cb := newFixture(t)
	err := readAssumptions(t, ab, "; exset unreliable = 2 4; exset * noisy = 1 5; end;")
	require.NoError(err)

	require.Equal(2, ab.NumExsets())
	require.Equal("noisy", ab.DefaultExset())

	// only the default set takes effect on the matrix
	require.Equal(3, cb.NumActiveChar())
	require.True(cb.IsExcluded(0))
	require.False(cb.IsExcluded(1))
	require.False(cb.IsExcluded(3))
	require.True(cb.IsExcluded(4))
}

func TestBlock_Errors(t *testing.T) {
	tests := []struct {
		description string
		withMatrix  bool
		body        string
		expectedErr string
	}{
		{
			description: "charset before characters block",
			body:        "; charset x = 1; end;",
			expectedErr: "a CHARACTERS or DATA block must be read before a CHARSET command",
		},
		{
			description: "exset before characters block",
			body:        "; exset x = 1; end;",
			expectedErr: "a CHARACTERS or DATA block must be read before an EXSET command",
		},
		{
			description: "missing equals sign",
			withMatrix:  true,
			body:        "; charset x 1-2; end;",
			expectedErr: "expecting '=' after CHARSET name",
		},
		{
			description: "punctuation instead of set name",
			withMatrix:  true,
			body:        "; charset = 1-2; end;",
			expectedErr: "expecting a name for the CHARSET",
		},
		{
			description: "charset member out of range",
			withMatrix:  true,
			body:        "; charset x = 1-9; end;",
			expectedErr: "out of range",
		},
		{
			description: "unknown taxon label in taxset",
			withMatrix:  true,
			body:        "; taxset x = A Q; end;",
			expectedErr: "not a number and not a known label",
		},
	}

	require := require.New(t)
	for i, test := range tests {
		t.Logf("Test #%d: %s", i, test.description)

		var ab *Block
		if test.withMatrix {
			ab, _ = newFixture(t)
		} else {
			tb := taxa.NewBlock()
			tb.Add("A")
			ab = NewBlock(tb)
		}
		err := readAssumptions(t, ab, test.body)
		require.Error(err)
		require.Contains(err.Error(), test.expectedErr)
	}
}

func TestBlock_TaxsetWithoutTaxa(t *testing.T) {
	require := require.New(t)

	ab := NewBlock(taxa.NewBlock())
	err := readAssumptions(t, ab, "; taxset x = 1; end;")
	require.Error(err)
	require.Contains(err.Error(), "a TAXA block must be read before a TAXSET command")
}

func TestBlock_SkipsUnknownCommand(t *testing.T) {
	require := require.New(t)

	ab, _ := newFixture(t)
	err := readAssumptions(t, ab, "; options deftype=unord; charset x = 1; end;")
	require.NoError(err)
	require.Equal(1, ab.NumCharsets())
}

func TestBlock_Report(t *testing.T) {
	require := require.New(t)

	ab, _ := newFixture(t)
	err := readAssumptions(t, ab, "; charset * core = 1-3; taxset og = A; end;")
	require.NoError(err)

	var sb strings.Builder
	ab.Report(&sb)
	out := sb.String()
	require.Contains(out, "ASSUMPTIONS block contains")
	require.Contains(out, "core (3 members) (default)")
	require.Contains(out, "og (1 members)")
	require.Contains(out, "No exclusion sets were defined")
}

func TestBlock_Reset(t *testing.T) {
	require := require.New(t)

	ab, _ := newFixture(t)
	err := readAssumptions(t, ab, "; charset * x = 1; taxset y = 2; exset z = 3; end;")
	require.NoError(err)

	ab.Reset()
	require.True(ab.IsEmpty())
	require.Equal(0, ab.NumCharsets())
	require.Equal(0, ab.NumTaxsets())
	require.Equal(0, ab.NumExsets())
	require.Equal("", ab.DefaultCharset())
}
