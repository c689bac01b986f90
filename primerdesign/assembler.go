package primerdesign

import (
	"encoding/json"
	"io"
	"math"

	"github.com/grailbio/base/tsv"
	"github.com/grailbio/primerdesign/interval"
	"github.com/grailbio/primerdesign/primer3"
)

// Record is the JSON result of a run.  It describes a single primer pair:
// when a run yields several, the last one processed is reported.
type Record struct {
	Chromosome    string  `json:"chromosome,omitempty"`
	StartPosition int     `json:"startPosition,omitempty"`
	EndPosition   int     `json:"endPosition,omitempty"`
	LeftSequence  string  `json:"leftSequence,omitempty"`
	RightSequence string  `json:"rightSequence,omitempty"`
	LeftTm        float64 `json:"leftTm,omitempty"`
	RightTm       float64 `json:"rightTm,omitempty"`
}

// AnnotationLine is a BED8 line covering a primer pair: the outer span runs
// from the first base of the left primer to the last base of the right one,
// and the thick span is the amplified region.
type AnnotationLine struct {
	Chrom      string
	Start      int
	End        int
	Name       string
	Score      int64
	Strand     string
	ThickStart int
	ThickEnd   int
}

// Annotate returns the annotation line for p, named on roi's chromosome.
// Amplified coordinates are 1-based; the line is 0-based half-open.
func Annotate(p primer3.Pair, roi interval.GenomicInterval) AnnotationLine {
	amp := p.Amplified.ToOneBased()
	return AnnotationLine{
		Chrom:      roi.Chrom,
		Start:      amp.Start - len(p.Left) - 1,
		End:        amp.End + len(p.Right),
		Score:      int64(math.Floor(p.Penalty + 0.5)),
		Strand:     amp.Strand.Symbol(),
		ThickStart: amp.Start - 1,
		ThickEnd:   amp.End,
	}
}

// Assembler collects the results of a run in processing order.  It is owned
// by the run loop and not safe for concurrent use.
type Assembler struct {
	record Record
	set    bool
	lines  []AnnotationLine
}

// Add records the retained pairs of one target.
func (a *Assembler) Add(pairs []primer3.Pair, roi interval.GenomicInterval) {
	for _, p := range pairs {
		amp := p.Amplified.ToOneBased()
		a.record = Record{
			Chromosome:    amp.Chrom,
			StartPosition: amp.Start,
			EndPosition:   amp.End,
			LeftSequence:  p.Left,
			RightSequence: p.Right,
			LeftTm:        p.LeftTm,
			RightTm:       p.RightTm,
		}
		a.set = true
		a.lines = append(a.lines, Annotate(p, roi))
	}
}

// Record returns the last pair added, and whether there was one.
func (a *Assembler) Record() (Record, bool) { return a.record, a.set }

// Lines returns the annotation lines in the order pairs were added.
func (a *Assembler) Lines() []AnnotationLine { return a.lines }

// WriteJSON writes the record as one JSON object.  With no pairs the object
// is empty.
func (a *Assembler) WriteJSON(w io.Writer) error {
	return json.NewEncoder(w).Encode(a.record)
}

// WriteBED writes the annotation lines, one per pair.
func (a *Assembler) WriteBED(w io.Writer) error {
	out := tsv.NewWriter(w)
	for _, l := range a.lines {
		out.WriteString(l.Chrom)
		out.WriteInt64(int64(l.Start))
		out.WriteInt64(int64(l.End))
		out.WriteString(l.Name)
		out.WriteInt64(l.Score)
		out.WriteString(l.Strand)
		out.WriteInt64(int64(l.ThickStart))
		out.WriteInt64(int64(l.ThickEnd))
		if err := out.EndLine(); err != nil {
			return err
		}
	}
	return out.Flush()
}
