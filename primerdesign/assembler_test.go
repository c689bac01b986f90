package primerdesign

import (
	"bytes"
	"testing"

	"github.com/grailbio/primerdesign/interval"
	"github.com/grailbio/primerdesign/primer3"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
	"github.com/stretchr/testify/require"
)

func amplified(chrom string, start, end int) interval.GenomicInterval {
	iv, err := interval.NewOneBased(chrom, start, end)
	if err != nil {
		panic(err)
	}
	return iv
}

func TestAnnotate(t *testing.T) {
	p := primer3.Pair{
		Amplified: amplified("chr1", 1010, 1100),
		Left:      "AGCTTGACCTAGGCATTCAG",
		Right:     "TTGCAGGTACCATGGACTTGCA",
		Penalty:   1.4,
	}
	roi := interval.MustNew("chr1", 999, 2000)
	expect.EQ(t, Annotate(p, roi), AnnotationLine{
		Chrom:      "chr1",
		Start:      989,
		End:        1122,
		Name:       "",
		Score:      1,
		Strand:     "+",
		ThickStart: 1009,
		ThickEnd:   1100,
	})

	p.Penalty = 2.5
	p.Amplified = p.Amplified.WithStrand(interval.Reverse)
	l := Annotate(p, roi)
	expect.EQ(t, l.Score, int64(3))
	expect.EQ(t, l.Strand, "-")
}

func TestAssemblerLastPairWins(t *testing.T) {
	roi := interval.MustNew("chr1", 999, 2000)
	var a Assembler
	_, ok := a.Record()
	expect.False(t, ok)

	first := primer3.Pair{Amplified: amplified("chr1", 1010, 1100), Left: "ACGTACGTAC", Right: "TTGGCCAATT", LeftTm: 60, RightTm: 61, Penalty: 0.2}
	second := primer3.Pair{Amplified: amplified("chr1", 1210, 1300), Left: "CCGTACGTAC", Right: "GGGGCCAATT", LeftTm: 59.5, RightTm: 60.5, Penalty: 0.9}
	a.Add([]primer3.Pair{first}, roi)
	a.Add(nil, roi)
	a.Add([]primer3.Pair{second}, roi)

	rec, ok := a.Record()
	require.True(t, ok)
	expect.EQ(t, rec, Record{
		Chromosome:    "chr1",
		StartPosition: 1210,
		EndPosition:   1300,
		LeftSequence:  "CCGTACGTAC",
		RightSequence: "GGGGCCAATT",
		LeftTm:        59.5,
		RightTm:       60.5,
	})
	lines := a.Lines()
	require.Equal(t, 2, len(lines))
	expect.EQ(t, lines[0].ThickStart, 1009)
	expect.EQ(t, lines[1].ThickStart, 1209)
}

func TestAssemblerWrite(t *testing.T) {
	var a Assembler
	var buf bytes.Buffer
	assert.NoError(t, a.WriteJSON(&buf))
	expect.EQ(t, buf.String(), "{}\n")

	a.Add([]primer3.Pair{{
		Amplified: amplified("chr1", 1010, 1100),
		Left:      "AGCTTGACCTAGGCATTCAG",
		Right:     "TTGCAGGTACCATGGACTTGCA",
		LeftTm:    60.25,
		RightTm:   61.5,
		Penalty:   1.4,
	}}, interval.MustNew("chr1", 999, 2000))

	buf.Reset()
	assert.NoError(t, a.WriteJSON(&buf))
	expect.EQ(t, buf.String(), `{"chromosome":"chr1","startPosition":1010,"endPosition":1100,`+
		`"leftSequence":"AGCTTGACCTAGGCATTCAG","rightSequence":"TTGCAGGTACCATGGACTTGCA","leftTm":60.25,"rightTm":61.5}`+"\n")

	buf.Reset()
	assert.NoError(t, a.WriteBED(&buf))
	expect.EQ(t, buf.String(), "chr1\t989\t1122\t\t1\t+\t1009\t1100\n")
}
