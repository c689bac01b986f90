package primerdesign

import (
	"context"
	"fmt"

	"github.com/grailbio/primerdesign/interval"
	"github.com/grailbio/primerdesign/primer3"
)

// fakeOverlap returns canned overlaps.
type fakeOverlap struct {
	hits    []interval.GenomicInterval
	err     error
	queries []interval.GenomicInterval
}

func (f *fakeOverlap) Overlapping(ctx context.Context, path string, roi interval.GenomicInterval) ([]interval.GenomicInterval, error) {
	f.queries = append(f.queries, roi)
	return f.hits, f.err
}

// fakeMerge returns its input unless out is set.
type fakeMerge struct {
	out   []interval.GenomicInterval
	err   error
	input []interval.GenomicInterval
}

func (f *fakeMerge) Merge(ctx context.Context, ivs []interval.GenomicInterval) ([]interval.GenomicInterval, error) {
	f.input = ivs
	if f.err != nil {
		return nil, f.err
	}
	if f.out != nil {
		return f.out, nil
	}
	return ivs, nil
}

// fakePrimer3 replays output and records requests.
type fakePrimer3 struct {
	out  []string
	err  error
	reqs []primer3.Request
}

func (f *fakePrimer3) Run(ctx context.Context, req primer3.Request) ([]string, error) {
	f.reqs = append(f.reqs, req)
	return f.out, f.err
}

// fakeChecker marks every sequence unique except those listed.
type fakeChecker struct {
	notUnique map[string]bool
	err       error
	calls     int
}

func (f *fakeChecker) Unique(ctx context.Context, seqs []string) (map[string]bool, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	m := map[string]bool{}
	for _, s := range seqs {
		m[s] = !f.notUnique[s]
	}
	return m, nil
}

type pairSpec struct {
	left, right             string
	leftPos, rightPos       int
	leftTm, rightTm, penalty float64
}

// primer3Output renders primer3 Boulder-IO output for the given pairs.
func primer3Output(pairs ...pairSpec) []string {
	lines := []string{"SEQUENCE_ID=test", fmt.Sprintf("PRIMER_PAIR_NUM_RETURNED=%d", len(pairs))}
	for i, p := range pairs {
		lines = append(lines,
			fmt.Sprintf("PRIMER_PAIR_%d_PENALTY=%g", i, p.penalty),
			fmt.Sprintf("PRIMER_LEFT_%d_SEQUENCE=%s", i, p.left),
			fmt.Sprintf("PRIMER_RIGHT_%d_SEQUENCE=%s", i, p.right),
			fmt.Sprintf("PRIMER_LEFT_%d=%d,%d", i, p.leftPos, len(p.left)),
			fmt.Sprintf("PRIMER_RIGHT_%d=%d,%d", i, p.rightPos, len(p.right)),
			fmt.Sprintf("PRIMER_LEFT_%d_TM=%g", i, p.leftTm),
			fmt.Sprintf("PRIMER_RIGHT_%d_TM=%g", i, p.rightTm),
		)
	}
	return append(lines, "=")
}
