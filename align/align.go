// Package align decides whether primer sequences map to a single place in
// the reference genome, by aligning them with bwa mem and reading the SAM
// records it produces.
package align

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/hts/sam"
	"github.com/grailbio/primerdesign/extcmd"
)

// SAMV1 names the output contract parseSAM reads: SAM text with @SQ header
// lines, one primary record per query plus any secondary or supplementary
// records.
const SAMV1 = "bwa-mem-sam/v1"

var (
	xaTag = sam.NewTag("XA")
	saTag = sam.NewTag("SA")
)

// Checker reports, for every sequence it is given, whether that sequence has
// exactly one confident placement in the genome.
type Checker interface {
	Unique(ctx context.Context, seqs []string) (map[string]bool, error)
}

// Opts configures BWA.
type Opts struct {
	// Index is the bwa index prefix, usually the reference FASTA path.
	Index string
	// MinMapQ is the lowest mapping quality accepted as a unique placement.
	MinMapQ int
	// MinSeedLen and MinScore are passed to bwa mem as -k and -T.  The
	// defaults of bwa are tuned for reads, and drop most primers.
	MinSeedLen int
	MinScore   int
}

// BWA is the Checker backed by "bwa mem".
type BWA struct {
	Path   string
	opts   Opts
	runner extcmd.Runner
}

// NewBWA returns a checker running the bwa executable at path.
func NewBWA(path string, opts Opts, runner extcmd.Runner) *BWA {
	return &BWA{Path: path, opts: opts, runner: runner}
}

// Unique implements Checker.  Each distinct sequence is aligned once.
func (b *BWA) Unique(ctx context.Context, seqs []string) (map[string]bool, error) {
	result := make(map[string]bool, len(seqs))
	var (
		names = map[string]string{}
		fa    bytes.Buffer
	)
	for _, s := range seqs {
		if _, ok := names[s]; ok || s == "" {
			continue
		}
		name := "p" + strconv.Itoa(len(names))
		names[s] = name
		fmt.Fprintf(&fa, ">%s\n%s\n", name, s)
	}
	if len(names) == 0 {
		return result, nil
	}
	args := []string{
		"mem",
		"-k", strconv.Itoa(b.opts.MinSeedLen),
		"-T", strconv.Itoa(b.opts.MinScore),
		b.opts.Index, "-",
	}
	out, err := b.runner.Run(ctx, b.Path, args, &fa)
	if err != nil {
		return nil, errors.E(err, "align: bwa mem")
	}
	verdicts, err := parseSAM(bytes.NewReader(out), b.opts.MinMapQ)
	if err != nil {
		return nil, err
	}
	for s, name := range names {
		result[s] = verdicts[name]
		if !result[s] {
			log.Debug.Printf("align: %s is not uniquely placed", s)
		}
	}
	return result, nil
}

// parseSAM returns, per query name, whether the query has a mapped primary
// record with mapping quality of at least minMapQ, no XA or SA alternative
// hits and no secondary or supplementary records.  Queries missing from the
// output are absent from the map.
func parseSAM(r io.Reader, minMapQ int) (map[string]bool, error) {
	sr, err := sam.NewReader(r)
	if err != nil {
		return nil, errors.E(errors.Invalid, err, fmt.Sprintf("malformed external output (%s): header", SAMV1))
	}
	var (
		placed = map[string]bool{}
		reject = map[string]bool{}
	)
	for n := 1; ; n++ {
		rec, err := sr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.E(errors.Invalid, err, fmt.Sprintf("malformed external output (%s): record %d", SAMV1, n))
		}
		switch {
		case rec.Flags&(sam.Secondary|sam.Supplementary) != 0:
			reject[rec.Name] = true
		case rec.Flags&sam.Unmapped != 0:
			reject[rec.Name] = true
		case int(rec.MapQ) < minMapQ:
			reject[rec.Name] = true
		case rec.AuxFields.Get(xaTag) != nil, rec.AuxFields.Get(saTag) != nil:
			reject[rec.Name] = true
		default:
			placed[rec.Name] = true
		}
	}
	verdicts := make(map[string]bool, len(placed)+len(reject))
	for name := range reject {
		verdicts[name] = false
	}
	for name := range placed {
		verdicts[name] = !reject[name]
	}
	return verdicts, nil
}
