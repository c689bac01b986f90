// Package refseq fetches padded reference sequence around primer-design
// targets.
package refseq

import (
	"fmt"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/primerdesign/encoding/fasta"
	"github.com/grailbio/primerdesign/interval"
)

// Sequence is the reference window fetched for one target.
type Sequence struct {
	// Interval is the target, 1-based.
	Interval interval.GenomicInterval
	// Padding is the flank requested on each side.
	Padding int
	// LeftPad and RightPad are the flanks actually fetched.  They are smaller
	// than Padding when the target sits near a contig end.
	LeftPad, RightPad int
	// Bases holds LeftPad + target + RightPad bases.
	Bases string
	// AllNSites is true iff every base in Bases is 'N'.
	AllNSites bool
}

// Window returns the 1-based span covered by Bases.
func (s Sequence) Window() interval.GenomicInterval {
	w := s.Interval
	w.Start -= s.LeftPad
	w.End += s.RightPad
	return w
}

// TargetOffset is the 0-based index in Bases of the first target base.
func (s Sequence) TargetOffset() int { return s.LeftPad }

// IsAllN reports whether seq is non-empty and made only of unknown bases.
func IsAllN(seq string) bool {
	if len(seq) == 0 {
		return false
	}
	for i := 0; i < len(seq); i++ {
		if c := seq[i]; c != 'N' && c != 'n' {
			return false
		}
	}
	return true
}

type cacheKey struct {
	interval.Key
	padding int
}

// Fetcher serves padded windows from a reference.  Each distinct (target,
// padding) window is read from the reference at most once.  A Fetcher is
// not safe for concurrent use.
type Fetcher struct {
	ref   fasta.Fasta
	cache map[cacheKey]Sequence
}

// NewFetcher returns a Fetcher reading from ref.
func NewFetcher(ref fasta.Fasta) *Fetcher {
	return &Fetcher{ref: ref, cache: make(map[cacheKey]Sequence)}
}

// Fetch converts target to 1-based coordinates and returns it together with
// padding bases of flank on each side, clipped to the contig.
func (f *Fetcher) Fetch(target interval.GenomicInterval, padding int) (Sequence, error) {
	if padding < 0 {
		return Sequence{}, errors.E(errors.Invalid, fmt.Sprintf("refseq: negative padding %d", padding))
	}
	if target.Len() <= 0 {
		return Sequence{}, errors.E(errors.Invalid, fmt.Sprintf("refseq: target %s is empty, no bases to design on", target.ToZeroBased()))
	}
	target = target.ToOneBased()
	key := cacheKey{target.Key(), padding}
	if s, ok := f.cache[key]; ok {
		return s, nil
	}
	seqLen, err := f.ref.Len(target.Chrom)
	if err != nil {
		return Sequence{}, errors.E(errors.NotExist, err, "refseq: contig for", target.String())
	}
	if uint64(target.End) > seqLen {
		return Sequence{}, errors.E(errors.Invalid, fmt.Sprintf("refseq: target %s outside contig of length %d", target, seqLen))
	}
	// 0-based half-open window.
	start0, end0 := target.Start-1-padding, target.End+padding
	if start0 < 0 {
		start0 = 0
	}
	if uint64(end0) > seqLen {
		end0 = int(seqLen)
	}
	bases, err := f.ref.Get(target.Chrom, uint64(start0), uint64(end0))
	if err != nil {
		return Sequence{}, errors.E(err, "refseq: fetch", target.String())
	}
	s := Sequence{
		Interval:  target,
		Padding:   padding,
		LeftPad:   target.Start - 1 - start0,
		RightPad:  end0 - target.End,
		Bases:     bases,
		AllNSites: IsAllN(bases),
	}
	if s.LeftPad < padding || s.RightPad < padding {
		log.Printf("refseq: padding for %s clipped to %d/%d at contig end", target, s.LeftPad, s.RightPad)
	}
	f.cache[key] = s
	return s, nil
}
