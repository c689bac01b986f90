package primer3

import (
	"github.com/grailbio/primerdesign/encoding/vcf"
	"github.com/grailbio/primerdesign/interval"
)

// ExclusionKind says why a region is off limits to primers.
type ExclusionKind uint8

const (
	// KnownVariant is a substitution or short indel.
	KnownVariant ExclusionKind = iota
	// IndelTooLong is an indel longer than the configured maximum.
	IndelTooLong
)

func (k ExclusionKind) String() string {
	if k == IndelTooLong {
		return "indelTooLong"
	}
	return "knownVariant"
}

// ExclusionRegion is a reference span no primer may cover.  Interval is
// 1-based.
type ExclusionRegion struct {
	Interval interval.GenomicInterval
	Kind     ExclusionKind
	Variant  vcf.Variant
}

// BuildExclusions returns an ExclusionRegion for every variant overlapping
// window (1-based).  Indels with more than maxIndelLength inserted or
// deleted bases are marked IndelTooLong; everything else is a KnownVariant.
// Both kinds are excluded from primer placement.
func BuildExclusions(window interval.GenomicInterval, variants []vcf.Variant, maxIndelLength int) []ExclusionRegion {
	var regions []ExclusionRegion
	for _, v := range variants {
		iv := v.Interval()
		if !iv.Overlaps(window) {
			continue
		}
		kind := KnownVariant
		if v.IsIndel() && v.IndelLength() > maxIndelLength {
			kind = IndelTooLong
		}
		regions = append(regions, ExclusionRegion{Interval: iv, Kind: kind, Variant: v})
	}
	return regions
}
