package bedtools

import (
	"context"
	"fmt"
	"io"
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/primerdesign/extcmd"
	"github.com/grailbio/primerdesign/interval"
	"github.com/grailbio/testutil"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
	"github.com/stretchr/testify/require"
)

// fakeRunner records the last invocation and replays canned output.
type fakeRunner struct {
	out   string
	err   error
	args  []string
	stdin string
}

func (f *fakeRunner) Run(ctx context.Context, path string, args []string, stdin io.Reader) ([]byte, error) {
	f.args = args
	if stdin != nil {
		b, err := ioutil.ReadAll(stdin)
		if err != nil {
			return nil, err
		}
		f.stdin = string(b)
	}
	return []byte(f.out), f.err
}

func TestOverlapping(t *testing.T) {
	ctx := vcontext.Background()
	r := &fakeRunner{out: "chr1\t999\t2000\tchr1\t1000\t1500\tEXON1\n"}
	b := New("bedtools", r)
	got, err := b.Overlapping(ctx, "exons.bed", interval.MustNew("chr1", 999, 2000))
	require.NoError(t, err)
	expect.EQ(t, got, []interval.GenomicInterval{interval.MustNew("chr1", 1000, 1500)})
	expect.EQ(t, r.stdin, "chr1\t999\t2000\n")
	expect.EQ(t, r.args, []string{"intersect", "-a", "stdin", "-b", "exons.bed", "-wa", "-wb"})

	r.out = ""
	got, err = b.Overlapping(ctx, "exons.bed", interval.MustNew("chr2", 5000, 5100))
	require.NoError(t, err)
	expect.EQ(t, len(got), 0)
}

func TestOverlappingMalformed(t *testing.T) {
	ctx := vcontext.Background()
	for _, out := range []string{
		"chr1\t999\t2000\tchr1\t1000\n",
		"chr1\t999\t2000\tchr1\tx\t1500\n",
		"chr1\t999\t2000\tchr1\t1500\t1000\n",
	} {
		b := New("bedtools", &fakeRunner{out: out})
		_, err := b.Overlapping(ctx, "exons.bed", interval.MustNew("chr1", 999, 2000))
		expect.True(t, errors.Is(errors.Invalid, err), out)
	}
}

func TestRunnerFailureIsReturned(t *testing.T) {
	ctx := vcontext.Background()
	b := New("bedtools", &fakeRunner{err: fmt.Errorf("exit status 1")})
	_, err := b.Overlapping(ctx, "exons.bed", interval.MustNew("chr1", 0, 10))
	assert.NotNil(t, err)
	_, err = b.Merge(ctx, []interval.GenomicInterval{interval.MustNew("chr1", 0, 10)})
	assert.NotNil(t, err)
}

func TestMerge(t *testing.T) {
	ctx := vcontext.Background()
	r := &fakeRunner{out: "chr1\t100\t300\n"}
	b := New("bedtools", r)
	one, err := interval.NewOneBased("chr1", 151, 300)
	require.NoError(t, err)
	got, err := b.Merge(ctx, []interval.GenomicInterval{one, interval.MustNew("chr1", 100, 200)})
	require.NoError(t, err)
	expect.EQ(t, got, []interval.GenomicInterval{interval.MustNew("chr1", 100, 300)})
	// Sorted and converted to 0-based before sending.
	expect.EQ(t, r.stdin, "chr1\t100\t200\nchr1\t150\t300\n")

	got, err = b.Merge(ctx, nil)
	require.NoError(t, err)
	expect.EQ(t, len(got), 0)

	r.out = "chr1\t100\n"
	_, err = b.Merge(ctx, []interval.GenomicInterval{interval.MustNew("chr1", 100, 200)})
	expect.True(t, errors.Is(errors.Invalid, err))
}

func TestSplit(t *testing.T) {
	ctx := vcontext.Background()
	r := &fakeRunner{out: "chr1\t0\t5\nchr1\t5\t10\n"}
	b := New("bedtools", r)
	got, err := b.Split(ctx, interval.MustNew("chr1", 0, 10), 2)
	require.NoError(t, err)
	expect.EQ(t, len(got), 2)
	expect.EQ(t, r.args, []string{"makewindows", "-b", "stdin", "-n", "2"})
	_, err = b.Split(ctx, interval.MustNew("chr1", 0, 10), 0)
	expect.True(t, errors.Is(errors.Invalid, err))
}

// TestInstalledBedtools checks the parsing contracts against a real bedtools,
// when one is on $PATH.
func TestInstalledBedtools(t *testing.T) {
	path, err := extcmd.Resolve("bedtools", "")
	if err != nil {
		t.Skipf("bedtools not installed: %v", err)
	}
	ctx := vcontext.Background()
	dir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	bed := filepath.Join(dir, "exons.bed")
	require.NoError(t, ioutil.WriteFile(bed, []byte("chr1\t100\t200\tE1\nchr1\t150\t300\tE2\nchr1\t300\t350\tE3\nchr1\t900\t950\tE4\n"), 0644))

	b := New(path, extcmd.Exec{})
	hits, err := b.Overlapping(ctx, bed, interval.MustNew("chr1", 120, 320))
	require.NoError(t, err)
	expect.EQ(t, len(hits), 3)

	merged, err := b.Merge(ctx, hits)
	require.NoError(t, err)
	u, err := interval.NewUnion(hits)
	require.NoError(t, err)
	expect.EQ(t, merged, u.Intervals())

	windows, err := b.Split(ctx, interval.MustNew("chr1", 0, 1000), 3)
	require.NoError(t, err)
	want, err := interval.Split(interval.MustNew("chr1", 0, 1000), 3)
	require.NoError(t, err)
	expect.EQ(t, len(windows), len(want))
}
