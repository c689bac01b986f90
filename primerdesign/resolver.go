package primerdesign

import (
	"context"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/primerdesign/interval"
)

// Resolver turns a raw region of interest into the targets primers are
// designed for.
type Resolver struct {
	overlap OverlapEngine
	merge   MergeEngine
	split   SplitEngine
	opts    Opts
}

// NewResolver returns a Resolver using the given engines.  split may be nil
// when opts.SplitTargets is off.
func NewResolver(overlap OverlapEngine, merge MergeEngine, split SplitEngine, opts Opts) *Resolver {
	return &Resolver{overlap: overlap, merge: merge, split: split, opts: opts}
}

// Resolve returns the targets for roi.  Exons overlapping roi are merged and
// become the targets; if there are none, roi itself is the only target,
// unchanged.  The result holds distinct spans ordered by position.  Engine
// failures are returned as is.
func (r *Resolver) Resolve(ctx context.Context, roi interval.GenomicInterval) ([]interval.GenomicInterval, error) {
	var overlaps interval.Set
	if r.opts.ExonsBED != "" {
		hits, err := r.overlap.Overlapping(ctx, r.opts.ExonsBED, roi.ToZeroBased())
		if err != nil {
			return nil, errors.E(err, "find exons overlapping", roi.String())
		}
		for _, h := range hits {
			if overlaps.Add(h) {
				log.Printf("target overlaps with exon %v", h)
			}
		}
	}
	var targets []interval.GenomicInterval
	if overlaps.Len() == 0 {
		log.Printf("target %v does not overlap with any supplied exons", roi)
		targets = []interval.GenomicInterval{roi}
	} else {
		merged, err := r.merge.Merge(ctx, overlaps.Slice())
		if err != nil {
			return nil, errors.E(err, "merge exons overlapping", roi.String())
		}
		for _, m := range merged {
			log.Printf("exonic target(s) were merged into %v", m)
		}
		targets = merged
	}

	var result interval.Set
	for _, t := range targets {
		windows, err := r.windows(ctx, t)
		if err != nil {
			return nil, err
		}
		for _, w := range windows {
			result.Add(w)
		}
	}
	return result.Slice(), nil
}

// windows splits t when target splitting is on and t is too long.  The
// span counts both endpoints of the merged 0-based interval, so a target of
// exactly MaxTargetLength bases is already split.
func (r *Resolver) windows(ctx context.Context, t interval.GenomicInterval) ([]interval.GenomicInterval, error) {
	span := t.Len() + 1
	if !r.opts.SplitTargets || span <= r.opts.MaxTargetLength {
		return []interval.GenomicInterval{t}, nil
	}
	n := span/r.opts.MaxTargetLength + 1
	log.Printf("target %v exceeds max target length %d, splitting into %d windows", t, r.opts.MaxTargetLength, n)
	windows, err := r.split.Split(ctx, t.ToZeroBased(), n)
	if err != nil {
		return nil, errors.E(err, "split", t.String())
	}
	return windows, nil
}
