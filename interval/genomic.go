package interval

import (
	"fmt"

	"github.com/grailbio/base/errors"
)

// Strand is the orientation of a GenomicInterval.
type Strand uint8

const (
	// Forward is the reference (+) strand.
	Forward Strand = iota
	// Reverse is the complementary (-) strand.
	Reverse
)

// Symbol returns the BED strand symbol, "+" or "-".
func (s Strand) Symbol() string {
	if s == Reverse {
		return "-"
	}
	return "+"
}

// Base identifies the coordinate convention of a GenomicInterval.
type Base uint8

const (
	// ZeroBased intervals are half-open, [Start, End).
	ZeroBased Base = iota
	// OneBased intervals are closed, [Start, End].
	OneBased
)

func (b Base) String() string {
	if b == OneBased {
		return "1-based"
	}
	return "0-based"
}

// GenomicInterval is a range on one chromosome.  It is a value type: none of
// its methods modify the receiver.
//
// Equality (Equal, Key, Compare) only looks at (Chrom, Start, End).  Strand
// and Base are ignored, so two intervals covering the same numeric span are
// the same region when building merge sets.
type GenomicInterval struct {
	Chrom  string
	Start  int
	End    int
	Strand Strand
	Base   Base
}

// New returns a forward-strand 0-based interval [start, end).
func New(chrom string, start, end int) (GenomicInterval, error) {
	return newInterval(chrom, start, end, ZeroBased)
}

// NewOneBased returns a forward-strand 1-based interval [start, end].
func NewOneBased(chrom string, start, end int) (GenomicInterval, error) {
	return newInterval(chrom, start, end, OneBased)
}

func newInterval(chrom string, start, end int, base Base) (GenomicInterval, error) {
	if chrom == "" {
		return GenomicInterval{}, errors.E(errors.Invalid, "interval: empty chromosome name")
	}
	if start < 0 {
		return GenomicInterval{}, errors.E(errors.Invalid, fmt.Sprintf("interval: negative start %d on %s", start, chrom))
	}
	if start > end {
		return GenomicInterval{}, errors.E(errors.Invalid, fmt.Sprintf("interval: start %d after end %d on %s", start, end, chrom))
	}
	return GenomicInterval{Chrom: chrom, Start: start, End: end, Base: base}, nil
}

// MustNew is like New, but panics on error.  Intended for tests and constants.
func MustNew(chrom string, start, end int) GenomicInterval {
	iv, err := New(chrom, start, end)
	if err != nil {
		panic(err)
	}
	return iv
}

// ToggleBase converts between the 0-based half-open and 1-based closed
// conventions.  Only Start moves; End denotes the same last base in both.
// Applying it twice returns the original numbers.
func (iv GenomicInterval) ToggleBase() GenomicInterval {
	if iv.Base == ZeroBased {
		iv.Start++
		iv.Base = OneBased
	} else {
		iv.Start--
		iv.Base = ZeroBased
	}
	return iv
}

// ToOneBased returns iv in 1-based coordinates, converting only if needed.
func (iv GenomicInterval) ToOneBased() GenomicInterval {
	if iv.Base == OneBased {
		return iv
	}
	return iv.ToggleBase()
}

// ToZeroBased returns iv in 0-based coordinates, converting only if needed.
func (iv GenomicInterval) ToZeroBased() GenomicInterval {
	if iv.Base == ZeroBased {
		return iv
	}
	return iv.ToggleBase()
}

// WithStrand returns a copy of iv on strand s.
func (iv GenomicInterval) WithStrand(s Strand) GenomicInterval {
	iv.Strand = s
	return iv
}

// Len returns the number of bases covered.
func (iv GenomicInterval) Len() int {
	if iv.Base == OneBased {
		return iv.End - iv.Start + 1
	}
	return iv.End - iv.Start
}

// Key is the span-only identity of an interval.
type Key struct {
	Chrom      string
	Start, End int
}

// Key returns the (Chrom, Start, End) identity of iv.
func (iv GenomicInterval) Key() Key {
	return Key{iv.Chrom, iv.Start, iv.End}
}

// Equal reports whether iv and o cover the same numeric span.  Strand and
// Base are not compared.
func (iv GenomicInterval) Equal(o GenomicInterval) bool {
	return iv.Key() == o.Key()
}

// Less orders intervals by chromosome name, then start, then end.
func (iv GenomicInterval) Less(o GenomicInterval) bool {
	if iv.Chrom != o.Chrom {
		return iv.Chrom < o.Chrom
	}
	if iv.Start != o.Start {
		return iv.Start < o.Start
	}
	return iv.End < o.End
}

// Overlaps reports whether two 0-based intervals share at least one base.
// Both arguments are converted to 0-based first.
func (iv GenomicInterval) Overlaps(o GenomicInterval) bool {
	a, b := iv.ToZeroBased(), o.ToZeroBased()
	return a.Chrom == b.Chrom && a.Start < b.End && b.Start < a.End
}

// Contains reports whether o lies entirely within iv.
func (iv GenomicInterval) Contains(o GenomicInterval) bool {
	a, b := iv.ToZeroBased(), o.ToZeroBased()
	return a.Chrom == b.Chrom && a.Start <= b.Start && b.End <= a.End
}

// String renders iv as "chrom:start-end" in its own coordinates.
func (iv GenomicInterval) String() string {
	return fmt.Sprintf("%s:%d-%d", iv.Chrom, iv.Start, iv.End)
}
