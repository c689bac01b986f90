// Package bedtools drives the bedtools suite as the pipeline's interval
// overlap, merge and split engine.
//
// Each subcommand's output is read under a named, versioned field-order
// contract.  A line that does not satisfy its contract fails the call with
// an errors.Invalid "malformed external output" error instead of being
// indexed blindly.
package bedtools

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/primerdesign/extcmd"
	"github.com/grailbio/primerdesign/interval"
)

// Output contracts.  Fields are tab-separated and 0-indexed.
const (
	// IntersectV1 is "intersect -wa -wb" output: fields 0-2 repeat the query,
	// fields 3-5 carry the overlapping feature's chromosome, start and end.
	// Further feature columns are ignored.
	IntersectV1 = "bedtools-intersect/v1"
	// MergeV1 is "merge" output: chromosome, start, end.
	MergeV1 = "bedtools-merge/v1"
	// MakeWindowsV1 is "makewindows -n" output: chromosome, start, end.
	MakeWindowsV1 = "bedtools-makewindows/v1"
)

// Bedtools runs a bedtools binary.
type Bedtools struct {
	// Path is the bedtools executable.
	Path   string
	runner extcmd.Runner
}

// New returns a Bedtools that runs path with runner.
func New(path string, runner extcmd.Runner) *Bedtools {
	return &Bedtools{Path: path, runner: runner}
}

// writeBED renders 0-based intervals as BED3 lines.
func writeBED(intervals []interval.GenomicInterval) (*bytes.Buffer, error) {
	var buf bytes.Buffer
	w := tsv.NewWriter(&buf)
	for _, iv := range intervals {
		iv = iv.ToZeroBased()
		w.WriteString(iv.Chrom)
		w.WriteInt64(int64(iv.Start))
		w.WriteInt64(int64(iv.End))
		if err := w.EndLine(); err != nil {
			return nil, err
		}
	}
	if err := w.Flush(); err != nil {
		return nil, err
	}
	return &buf, nil
}

// parseBED3 reads chromosome, start and end from fields[offset:offset+3].
func parseBED3(contract string, lineIdx int, line string, minFields, offset int) (interval.GenomicInterval, error) {
	fields := strings.Split(line, "\t")
	if len(fields) < minFields {
		return interval.GenomicInterval{}, extcmd.Malformed(contract, lineIdx, line,
			fmt.Sprintf("want at least %d fields, got %d", minFields, len(fields)))
	}
	start, err := strconv.Atoi(fields[offset+1])
	if err != nil {
		return interval.GenomicInterval{}, extcmd.Malformed(contract, lineIdx, line, "non-numeric start")
	}
	end, err := strconv.Atoi(fields[offset+2])
	if err != nil {
		return interval.GenomicInterval{}, extcmd.Malformed(contract, lineIdx, line, "non-numeric end")
	}
	iv, err := interval.New(fields[offset], start, end)
	if err != nil {
		return interval.GenomicInterval{}, extcmd.Malformed(contract, lineIdx, line, err.Error())
	}
	return iv, nil
}

func parseAll(contract string, out []byte, minFields, offset int) ([]interval.GenomicInterval, error) {
	var result []interval.GenomicInterval
	for i, line := range extcmd.Lines(out) {
		iv, err := parseBED3(contract, i+1, line, minFields, offset)
		if err != nil {
			return nil, err
		}
		result = append(result, iv)
	}
	return result, nil
}

// Overlapping returns the features in annotationPath that overlap roi.  roi
// is sent to bedtools in 0-based coordinates.
func (b *Bedtools) Overlapping(ctx context.Context, annotationPath string, roi interval.GenomicInterval) ([]interval.GenomicInterval, error) {
	in, err := writeBED([]interval.GenomicInterval{roi})
	if err != nil {
		return nil, err
	}
	out, err := b.runner.Run(ctx, b.Path, []string{"intersect", "-a", "stdin", "-b", annotationPath, "-wa", "-wb"}, in)
	if err != nil {
		return nil, errors.E(err, "bedtools intersect")
	}
	return parseAll(IntersectV1, out, 6, 3)
}

// Merge coalesces overlapping and touching intervals.  bedtools requires its
// input to be sorted, so the intervals are sorted before being sent.
func (b *Bedtools) Merge(ctx context.Context, intervals []interval.GenomicInterval) ([]interval.GenomicInterval, error) {
	if len(intervals) == 0 {
		return nil, nil
	}
	sorted := make([]interval.GenomicInterval, len(intervals))
	for i, iv := range intervals {
		sorted[i] = iv.ToZeroBased()
	}
	interval.SortIntervals(sorted)
	in, err := writeBED(sorted)
	if err != nil {
		return nil, err
	}
	out, err := b.runner.Run(ctx, b.Path, []string{"merge", "-i", "stdin"}, in)
	if err != nil {
		return nil, errors.E(err, "bedtools merge")
	}
	merged, err := parseAll(MergeV1, out, 3, 0)
	if err != nil {
		return nil, err
	}
	log.Debug.Printf("bedtools merge: %d interval(s) -> %d", len(intervals), len(merged))
	return merged, nil
}

// Split divides iv into n windows with "makewindows -n".
func (b *Bedtools) Split(ctx context.Context, iv interval.GenomicInterval, n int) ([]interval.GenomicInterval, error) {
	if n <= 0 {
		return nil, errors.E(errors.Invalid, fmt.Sprintf("bedtools makewindows: window count %d must be positive", n))
	}
	in, err := writeBED([]interval.GenomicInterval{iv})
	if err != nil {
		return nil, err
	}
	out, err := b.runner.Run(ctx, b.Path, []string{"makewindows", "-b", "stdin", "-n", strconv.Itoa(n)}, in)
	if err != nil {
		return nil, errors.E(err, "bedtools makewindows")
	}
	return parseAll(MakeWindowsV1, out, 3, 0)
}
