package vcf

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/testutil"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
)

const testVCF = `##fileformat=VCFv4.2
#CHROM	POS	ID	REF	ALT	QUAL	FILTER	INFO
chr1	1020	rs1	A	G	.	PASS	.
chr1	1050	.	ACGTAC	A	.	PASS	.
chr2	7	rs3	C	T,CTT	50	PASS	DP=3
`

const testHeader = `##fileformat=VCFv4.2
#CHROM	POS	ID	REF	ALT	QUAL	FILTER	INFO
`

func TestRead(t *testing.T) {
	got, err := Read(strings.NewReader(testVCF))
	assert.NoError(t, err)
	assert.EQ(t, len(got), 4)

	snv := got[0]
	expect.True(t, snv.IsSNV())
	expect.False(t, snv.IsIndel())
	expect.EQ(t, snv.IndelLength(), 0)
	expect.EQ(t, snv.Interval().String(), "chr1:1020-1020")

	del := got[1]
	expect.True(t, del.IsIndel())
	expect.EQ(t, del.IndelLength(), 5)
	expect.EQ(t, del.Interval().String(), "chr1:1050-1055")

	expect.EQ(t, got[2].Alt, "T")
	expect.EQ(t, got[3].Alt, "CTT")
	expect.EQ(t, got[3].IndelLength(), 2)
	expect.EQ(t, got[3].String(), "chr2:7:C>CTT")
	expect.EQ(t, got[3].ID, "rs3")
	expect.EQ(t, got[1].ID, ".")
}

func TestReadErrors(t *testing.T) {
	for _, test := range []struct {
		name, in string
	}{
		{"short line", testHeader + "chr1\t12\t.\tA\n"},
		{"bad pos", testHeader + "chr1\tx\t.\tA\tG\t.\tPASS\t.\n"},
		{"zero pos", testHeader + "chr1\t0\t.\tA\tG\t.\tPASS\t.\n"},
		{"no header", "chr1\t12\t.\tA\tG\t.\tPASS\t.\n"},
	} {
		_, err := Read(strings.NewReader(test.in))
		expect.True(t, errors.Is(errors.Invalid, err), "%s: %v", test.name, err)
	}
}

func TestReadHeaderOnly(t *testing.T) {
	got, err := Read(strings.NewReader(testHeader))
	assert.NoError(t, err)
	expect.EQ(t, len(got), 0)
}

func TestReadPath(t *testing.T) {
	ctx := vcontext.Background()
	dir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	path := filepath.Join(dir, "common.vcf")
	assert.NoError(t, os.WriteFile(path, []byte(testVCF), 0644))
	got, err := ReadPath(ctx, path)
	assert.NoError(t, err)
	expect.EQ(t, len(got), 4)

	_, err = ReadPath(ctx, filepath.Join(dir, "nope.vcf"))
	expect.NotNil(t, err)
}
