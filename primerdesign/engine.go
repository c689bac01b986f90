package primerdesign

import (
	"context"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/primerdesign/interval"
	"github.com/grailbio/primerdesign/primer3"
)

// OverlapEngine finds the annotated features overlapping a region.  Both the
// query and the result are 0-based.
type OverlapEngine interface {
	Overlapping(ctx context.Context, annotationPath string, roi interval.GenomicInterval) ([]interval.GenomicInterval, error)
}

// MergeEngine coalesces overlapping and touching intervals into the minimal
// covering set.
type MergeEngine interface {
	Merge(ctx context.Context, intervals []interval.GenomicInterval) ([]interval.GenomicInterval, error)
}

// SplitEngine cuts an interval into n near-equal windows.
type SplitEngine interface {
	Split(ctx context.Context, iv interval.GenomicInterval, n int) ([]interval.GenomicInterval, error)
}

// PrimerEngine runs one primer design request and returns the raw output.
type PrimerEngine interface {
	Run(ctx context.Context, req primer3.Request) ([]string, error)
}

// Builtin implements OverlapEngine, MergeEngine and SplitEngine in process.
// Annotation files are read and indexed once per path.
type Builtin struct {
	indexes map[string]*interval.OverlapIndex
}

// NewBuiltin returns an empty Builtin engine.
func NewBuiltin() *Builtin {
	return &Builtin{indexes: make(map[string]*interval.OverlapIndex)}
}

// Overlapping implements OverlapEngine.
func (b *Builtin) Overlapping(ctx context.Context, annotationPath string, roi interval.GenomicInterval) ([]interval.GenomicInterval, error) {
	idx, ok := b.indexes[annotationPath]
	if !ok {
		features, err := interval.ReadBEDFromPath(annotationPath, interval.BEDOpts{})
		if err != nil {
			return nil, errors.E(err, "load annotation", annotationPath)
		}
		if idx, err = interval.NewOverlapIndex(features); err != nil {
			return nil, err
		}
		log.Debug.Printf("indexed %d feature(s) from %s", idx.Len(), annotationPath)
		b.indexes[annotationPath] = idx
	}
	return idx.Overlapping(roi.ToZeroBased()), nil
}

// Merge implements MergeEngine.
func (b *Builtin) Merge(ctx context.Context, intervals []interval.GenomicInterval) ([]interval.GenomicInterval, error) {
	u, err := interval.NewUnion(intervals)
	if err != nil {
		return nil, err
	}
	return u.Intervals(), nil
}

// Split implements SplitEngine.
func (b *Builtin) Split(ctx context.Context, iv interval.GenomicInterval, n int) ([]interval.GenomicInterval, error) {
	return interval.Split(iv, n)
}
