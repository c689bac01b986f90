package interval

import (
	"testing"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
)

func TestNewValidates(t *testing.T) {
	_, err := New("", 1, 2)
	expect.True(t, errors.Is(errors.Invalid, err))
	_, err = New("chr1", -1, 2)
	expect.True(t, errors.Is(errors.Invalid, err))
	_, err = New("chr1", 3, 2)
	expect.True(t, errors.Is(errors.Invalid, err))
	iv, err := New("chr1", 2, 2)
	assert.NoError(t, err)
	expect.EQ(t, iv.Len(), 0)
}

func TestToggleBaseIsSelfInverse(t *testing.T) {
	for _, iv := range []GenomicInterval{
		MustNew("chr1", 0, 1),
		MustNew("chr1", 999, 2000),
		MustNew("chrM", 5, 5),
		MustNew("chr2", 5000, 5100).WithStrand(Reverse),
	} {
		once := iv.ToggleBase()
		expect.EQ(t, once.Base, OneBased)
		expect.EQ(t, once.Len(), iv.Len())
		twice := once.ToggleBase()
		expect.EQ(t, twice, iv)
	}
}

func TestConversion(t *testing.T) {
	exon := MustNew("chr1", 1000, 1500)
	one := exon.ToOneBased()
	expect.EQ(t, one.Start, 1001)
	expect.EQ(t, one.End, 1500)
	expect.EQ(t, one.ToOneBased(), one)
	expect.EQ(t, one.ToZeroBased(), exon)
	expect.EQ(t, one.String(), "chr1:1001-1500")
}

func TestEqualIgnoresStrandAndBase(t *testing.T) {
	a := MustNew("chr1", 10, 20)
	b := a.WithStrand(Reverse)
	expect.True(t, a.Equal(b))
	expect.EQ(t, a.Key(), b.Key())
	c, err := NewOneBased("chr1", 10, 20)
	assert.NoError(t, err)
	expect.True(t, a.Equal(c))
	expect.False(t, a.Equal(MustNew("chr1", 10, 21)))
	expect.False(t, a.Equal(MustNew("chr2", 10, 20)))
}

func TestOverlapsAndContains(t *testing.T) {
	roi := MustNew("chr1", 999, 2000)
	exon := MustNew("chr1", 1000, 1500)
	expect.True(t, roi.Overlaps(exon))
	expect.True(t, roi.Contains(exon))
	expect.False(t, exon.Contains(roi))
	expect.False(t, MustNew("chr1", 0, 10).Overlaps(MustNew("chr1", 10, 20)))
	// 1-based [10, 10] is 0-based [9, 10).
	one, err := NewOneBased("chr1", 10, 10)
	assert.NoError(t, err)
	expect.True(t, one.Overlaps(MustNew("chr1", 9, 10)))
	expect.EQ(t, Forward.Symbol(), "+")
	expect.EQ(t, Reverse.Symbol(), "-")
}
