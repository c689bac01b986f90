package interval

import (
	"sort"

	"github.com/biogo/store/llrb"
)

// setEntry orders intervals by span only.
type setEntry GenomicInterval

func (e setEntry) Compare(c llrb.Comparable) int {
	a, b := GenomicInterval(e), GenomicInterval(c.(setEntry))
	switch {
	case a.Equal(b):
		return 0
	case a.Less(b):
		return -1
	default:
		return 1
	}
}

// Set is an ordered set of GenomicIntervals deduplicated by (Chrom, Start,
// End).  Adding an interval whose span is already present keeps the first
// one, strand and base included.
type Set struct {
	tree llrb.Tree
}

// Add inserts iv unless an interval with the same span is present.  It
// reports whether iv was added.
func (s *Set) Add(iv GenomicInterval) bool {
	if s.tree.Get(setEntry(iv)) != nil {
		return false
	}
	s.tree.Insert(setEntry(iv))
	return true
}

// Has reports whether an interval with iv's span is present.
func (s *Set) Has(iv GenomicInterval) bool {
	return s.tree.Get(setEntry(iv)) != nil
}

// Len returns the number of distinct spans.
func (s *Set) Len() int { return s.tree.Len() }

// Slice returns the members ordered by chromosome, start, and end.
func (s *Set) Slice() []GenomicInterval {
	result := make([]GenomicInterval, 0, s.tree.Len())
	s.tree.Do(func(c llrb.Comparable) bool {
		result = append(result, GenomicInterval(c.(setEntry)))
		return false
	})
	return result
}

// SortIntervals sorts intervals by chromosome, start, and end.
func SortIntervals(intervals []GenomicInterval) {
	sort.SliceStable(intervals, func(i, j int) bool { return intervals[i].Less(intervals[j]) })
}
