package align

import (
	"context"
	"fmt"
	"io"
	"io/ioutil"
	"strings"
	"testing"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/testutil/expect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	primerA = "AGCTTGACCTAGGCATTCAG"
	primerB = "TTGCAGGTACCATGGACTTG"
	primerC = "GCTTGACCTAGGCATTCAGT"
	primerD = "CTTGACCTAGGCATTCAGTC"
	primerE = "GCAGGTACCATGGACTTGCA"
)

func samLine(fields ...string) string {
	return strings.Join(fields, "\t") + "\n"
}

// bwaOutput is what bwa mem prints for primers A through E, named p0..p4.
var bwaOutput = "@SQ\tSN:chr1\tLN:100000\n" +
	"@PG\tID:bwa\tPN:bwa\tVN:0.7.17\n" +
	samLine("p0", "0", "chr1", "1001", "60", "20M", "*", "0", "0", primerA, "*", "NM:i:0") +
	samLine("p1", "16", "chr1", "2001", "0", "20M", "*", "0", "0", primerB, "*", "NM:i:0", "XA:Z:chr1,+5001,20M,0;") +
	samLine("p2", "4", "*", "0", "0", "*", "*", "0", "0", primerC, "*") +
	samLine("p3", "0", "chr1", "3001", "60", "20M", "*", "0", "0", primerD, "*") +
	samLine("p3", "256", "chr1", "7001", "0", "20M", "*", "0", "0", primerD, "*") +
	samLine("p4", "0", "chr1", "4001", "12", "20M", "*", "0", "0", primerE, "*")

func TestParseSAM(t *testing.T) {
	got, err := parseSAM(strings.NewReader(bwaOutput), 20)
	require.NoError(t, err)
	expect.EQ(t, got, map[string]bool{
		"p0": true,
		"p1": false,
		"p2": false,
		"p3": false,
		"p4": false,
	})

	got, err = parseSAM(strings.NewReader(bwaOutput), 10)
	require.NoError(t, err)
	expect.True(t, got["p4"])
}

func TestParseSAMMalformed(t *testing.T) {
	_, err := parseSAM(strings.NewReader("@SQ\tSN:chr1\tLN:100\np0\tzero\n"), 20)
	require.Error(t, err)
	expect.True(t, errors.Is(errors.Invalid, err))
	assert.Contains(t, err.Error(), SAMV1)
}

type fakeRunner struct {
	out   string
	err   error
	calls int
	args  []string
	stdin string
}

func (f *fakeRunner) Run(ctx context.Context, path string, args []string, stdin io.Reader) ([]byte, error) {
	f.calls++
	f.args = args
	b, err := ioutil.ReadAll(stdin)
	if err != nil {
		return nil, err
	}
	f.stdin = string(b)
	return []byte(f.out), f.err
}

func TestBWAUnique(t *testing.T) {
	ctx := vcontext.Background()
	r := &fakeRunner{out: bwaOutput}
	opts := Opts{Index: "/ref/hg19.fa", MinMapQ: 20, MinSeedLen: 15, MinScore: 15}
	got, err := NewBWA("bwa", opts, r).Unique(ctx, []string{primerA, primerB, primerA, primerC, primerD, primerE})
	require.NoError(t, err)
	expect.EQ(t, got, map[string]bool{
		primerA: true,
		primerB: false,
		primerC: false,
		primerD: false,
		primerE: false,
	})
	expect.EQ(t, r.args, []string{"mem", "-k", "15", "-T", "15", "/ref/hg19.fa", "-"})
	// Duplicates are aligned once.
	expect.EQ(t, strings.Count(r.stdin, ">"), 5)
	assert.Contains(t, r.stdin, ">p0\n"+primerA+"\n")
}

func TestBWAUniqueMissingQuery(t *testing.T) {
	ctx := vcontext.Background()
	r := &fakeRunner{out: "@SQ\tSN:chr1\tLN:100000\n"}
	got, err := NewBWA("bwa", Opts{Index: "ref.fa"}, r).Unique(ctx, []string{primerA})
	require.NoError(t, err)
	expect.False(t, got[primerA])
}

func TestBWAUniqueEmpty(t *testing.T) {
	r := &fakeRunner{}
	got, err := NewBWA("bwa", Opts{}, r).Unique(vcontext.Background(), nil)
	require.NoError(t, err)
	expect.EQ(t, len(got), 0)
	expect.EQ(t, r.calls, 0)
}

func TestBWAUniqueFailure(t *testing.T) {
	r := &fakeRunner{err: fmt.Errorf("bwa exited abnormally: [E::bwa_idx_load_from_disk] fail to locate the index files")}
	_, err := NewBWA("bwa", Opts{Index: "ref.fa"}, r).Unique(vcontext.Background(), []string{primerA})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fail to locate the index")
}
