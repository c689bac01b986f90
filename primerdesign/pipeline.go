// Package primerdesign designs PCR primer pairs covering a region of
// interest.  A run resolves the region into targets snapped to exon
// boundaries, fetches padded reference sequence for each target, has
// primer3 propose primer pairs that avoid known variants, and keeps the
// pairs whose primers align to a single place in the genome.
//
// Targets are processed one at a time, in order.  Failures of the external
// tools are fatal to the run; an all-N target or a non-unique primer only
// skips that unit of work.
package primerdesign

import (
	"context"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/primerdesign/interval"
	"github.com/grailbio/primerdesign/refseq"
)

// Pipeline wires the stages of a run together.
type Pipeline struct {
	Resolver *Resolver
	Fetcher  *refseq.Fetcher
	Designer *Designer
	Opts     Opts
}

// Run designs primers for roi (0-based) and returns the collected results.
func (p *Pipeline) Run(ctx context.Context, roi interval.GenomicInterval) (*Assembler, error) {
	log.Printf("designing primer pair to cover supplied region of interest %v", roi)
	targets, err := p.Resolver.Resolve(ctx, roi)
	if err != nil {
		return nil, err
	}
	asm := &Assembler{}
	for _, target := range targets {
		log.Printf("designing amplicon for target %v", target.ToOneBased())
		seq, err := p.Fetcher.Fetch(target, p.Opts.Padding)
		if err != nil {
			return nil, err
		}
		pairs, err := p.Designer.Design(ctx, seq)
		if err == ErrAllNSites {
			continue
		}
		if err != nil {
			return nil, errors.E(err, "design primers for", seq.Interval.String())
		}
		if len(pairs) == 0 && !p.Opts.Debug {
			log.Printf("no usable primer pair for target %v", seq.Interval)
		}
		asm.Add(pairs, roi)
	}
	return asm, nil
}
