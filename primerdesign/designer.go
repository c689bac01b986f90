package primerdesign

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/primerdesign/align"
	"github.com/grailbio/primerdesign/encoding/vcf"
	"github.com/grailbio/primerdesign/primer3"
	"github.com/grailbio/primerdesign/refseq"
)

// ErrAllNSites is returned by Design for a reference window made only of
// N bases.  It means "skip this target", not a failure.
var ErrAllNSites = errors.E("reference window contains only N sites")

// Designer runs primer3 for one target at a time and keeps the pairs whose
// primers both align uniquely.
type Designer struct {
	engine   PrimerEngine
	checker  align.Checker
	variants []vcf.Variant
	opts     Opts
}

// NewDesigner returns a Designer.  variants may be empty.
func NewDesigner(engine PrimerEngine, checker align.Checker, variants []vcf.Variant, opts Opts) *Designer {
	return &Designer{engine: engine, checker: checker, variants: variants, opts: opts}
}

// Request builds the primer3 request for seq.
func (d *Designer) Request(seq refseq.Sequence) primer3.Request {
	target := seq.Interval
	window := seq.Window()
	return primer3.Request{
		ID:                          fmt.Sprintf("%s_%d_%d", target.Chrom, target.Start, target.End),
		Template:                    seq.Bases,
		Window:                      window,
		TargetOffset:                seq.TargetOffset(),
		TargetLen:                   target.Len(),
		MaxPrimerDistance:           d.opts.MaxPrimerDistance,
		Exclusions:                  primer3.BuildExclusions(window, d.variants, d.opts.MaxIndelLength),
		ThermodynamicParametersPath: d.opts.ThermodynamicParametersPath,
		MisprimingLibraryPath:       d.opts.MisprimingLibrary,
		SettingsPath:                d.opts.Primer3Settings,
	}
}

// Design returns the usable primer pairs for seq, in primer3's order.  An
// all-N window yields ErrAllNSites without running primer3.  In debug mode
// the raw primer3 output is written to a file and no pairs are returned.
func (d *Designer) Design(ctx context.Context, seq refseq.Sequence) ([]primer3.Pair, error) {
	target := seq.Interval
	if seq.AllNSites {
		log.Printf("could not design primer for target containing all N-sites: %v", target)
		return nil, ErrAllNSites
	}
	req := d.Request(seq)
	for _, e := range req.Exclusions {
		log.Debug.Printf("%s: excluding %v (%v)", req.ID, e.Variant, e.Kind)
	}
	lines, err := d.engine.Run(ctx, req)
	if err != nil {
		return nil, err
	}
	if d.opts.Debug {
		return nil, d.writeDebug(ctx, req.ID, lines)
	}
	pairs := primer3.Parse(lines, req.Window)
	log.Printf("%s: primer3 returned %d pair(s)", req.ID, len(pairs))
	return d.filterUnique(ctx, pairs)
}

// filterUnique drops pairs with a primer that does not align uniquely.
func (d *Designer) filterUnique(ctx context.Context, pairs []primer3.Pair) ([]primer3.Pair, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	seqs := make([]string, 0, 2*len(pairs))
	for _, p := range pairs {
		seqs = append(seqs, p.Left, p.Right)
	}
	unique, err := d.checker.Unique(ctx, seqs)
	if err != nil {
		return nil, err
	}
	var kept []primer3.Pair
	for _, p := range pairs {
		if !unique[p.Left] || !unique[p.Right] {
			log.Printf("discarding pair %d (%s, %s): primer not uniquely placed", p.Rank, p.Left, p.Right)
			continue
		}
		kept = append(kept, p)
	}
	return kept, nil
}

func (d *Designer) writeDebug(ctx context.Context, id string, lines []string) (err error) {
	path := filepath.Join(d.opts.DebugDir, id+"_primer3out.txt")
	out, err := file.Create(ctx, path)
	if err != nil {
		return errors.E(err, "create", path)
	}
	defer func() {
		if cerr := out.Close(ctx); cerr != nil && err == nil {
			err = errors.E(cerr, "close", path)
		}
	}()
	if _, err = out.Writer(ctx).Write([]byte(strings.Join(lines, "\n") + "\n")); err != nil {
		return errors.E(err, "write", path)
	}
	log.Printf("wrote raw primer3 output to %s", path)
	return nil
}
