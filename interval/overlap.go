package interval

import (
	"github.com/biogo/store/interval"
	"github.com/grailbio/base/errors"
)

// feature adapts a 0-based GenomicInterval to biogo's integer interval tree.
type feature struct {
	iv  GenomicInterval
	uid uintptr
}

func (f feature) Overlap(b interval.IntRange) bool {
	// Half-open interval indexing.
	return f.iv.End > b.Start && f.iv.Start < b.End
}

func (f feature) ID() uintptr { return f.uid }

func (f feature) Range() interval.IntRange {
	return interval.IntRange{Start: f.iv.Start, End: f.iv.End}
}

// query is an interval.IntOverlapper for a single 0-based range.
type query struct{ start, end int }

func (q query) Overlap(b interval.IntRange) bool {
	return q.end > b.Start && q.start < b.End
}

// OverlapIndex answers "which annotated features overlap this region"
// queries in memory.  It is built once and is read-only afterwards.
type OverlapIndex struct {
	trees map[string]*interval.IntTree
	n     int
}

// NewOverlapIndex indexes the given features.  Empty features are kept in
// the count but can never overlap anything.
func NewOverlapIndex(features []GenomicInterval) (*OverlapIndex, error) {
	idx := &OverlapIndex{trees: make(map[string]*interval.IntTree)}
	for i, iv := range features {
		iv = iv.ToZeroBased()
		t, ok := idx.trees[iv.Chrom]
		if !ok {
			t = &interval.IntTree{}
			idx.trees[iv.Chrom] = t
		}
		if err := t.Insert(feature{iv: iv, uid: uintptr(i)}, true); err != nil {
			return nil, errors.E(errors.Invalid, err, "indexing", iv.String())
		}
		idx.n++
	}
	for _, t := range idx.trees {
		t.AdjustRanges()
	}
	return idx, nil
}

// Len returns the number of indexed features.
func (idx *OverlapIndex) Len() int { return idx.n }

// Overlapping returns the features sharing at least one base with q, ordered
// by position.  The returned intervals are 0-based.
func (idx *OverlapIndex) Overlapping(q GenomicInterval) []GenomicInterval {
	q = q.ToZeroBased()
	t, ok := idx.trees[q.Chrom]
	if !ok || q.Start == q.End {
		return nil
	}
	hits := t.Get(query{q.Start, q.End})
	result := make([]GenomicInterval, 0, len(hits))
	for _, h := range hits {
		result = append(result, h.(feature).iv)
	}
	SortIntervals(result)
	return result
}
