package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/primerdesign/align"
	"github.com/grailbio/primerdesign/bedtools"
	"github.com/grailbio/primerdesign/encoding/fasta"
	"github.com/grailbio/primerdesign/encoding/vcf"
	"github.com/grailbio/primerdesign/extcmd"
	"github.com/grailbio/primerdesign/interval"
	"github.com/grailbio/primerdesign/primer3"
	"github.com/grailbio/primerdesign/primerdesign"
	"github.com/grailbio/primerdesign/refseq"
)

const version = "0.3"

var (
	configFlag        = flag.String("config", "", "Config file (YAML, JSON or TOML). See the package documentation for keys.")
	debugFlag         = flag.Bool("debug", false, "Write raw primer3 output per target instead of results. Overrides the config file.")
	bedFlag           = flag.String("bed", "", "If set, write one BED line per surviving primer pair to this path.")
	overlapEngineFlag = flag.String("overlap-engine", "", "Overlap/merge implementation, bedtools or builtin. Overrides the config file.")
	regionFlag        = flag.String("region", "", "Region as chr:start-end (1-based, inclusive), instead of the positional arguments.")
)

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: bio-primer-design [flags] <chromosome> <start> <stop>
       bio-primer-design [flags] -region <chromosome>:<start>-<stop>
Positional coordinates should be 0-based.

Flags:
`)
	flag.PrintDefaults()
}

// engines returns the overlap, merge and split engines selected by opts.
func engines(opts primerdesign.Opts, runner extcmd.Runner) (primerdesign.OverlapEngine, primerdesign.MergeEngine, primerdesign.SplitEngine, error) {
	if opts.OverlapEngine == primerdesign.EngineBuiltin {
		b := primerdesign.NewBuiltin()
		return b, b, b, nil
	}
	path, err := extcmd.Resolve("bedtools", opts.BedtoolsPath)
	if err != nil {
		return nil, nil, nil, err
	}
	b := bedtools.New(path, runner)
	return b, b, b, nil
}

func newPipeline(ctx context.Context, ref fasta.Fasta, opts primerdesign.Opts, runner extcmd.Runner) (*primerdesign.Pipeline, error) {
	var variants []vcf.Variant
	if opts.VariantsVCF != "" {
		var err error
		if variants, err = vcf.ReadPath(ctx, opts.VariantsVCF); err != nil {
			return nil, err
		}
		log.Printf("loaded %d variant(s) from %s", len(variants), opts.VariantsVCF)
	}
	overlap, merge, split, err := engines(opts, runner)
	if err != nil {
		return nil, err
	}
	primer3Path, err := extcmd.Resolve("primer3_core", opts.Primer3Path)
	if err != nil {
		return nil, err
	}
	var checker align.Checker
	if !opts.Debug {
		bwaPath, err := extcmd.Resolve("bwa", opts.BWAPath)
		if err != nil {
			return nil, err
		}
		checker = align.NewBWA(bwaPath, align.Opts{
			Index:      opts.ReferenceFasta,
			MinMapQ:    opts.MinMapQ,
			MinSeedLen: opts.MinSeedLen,
			MinScore:   opts.MinScore,
		}, runner)
	}
	return &primerdesign.Pipeline{
		Resolver: primerdesign.NewResolver(overlap, merge, split, opts),
		Fetcher:  refseq.NewFetcher(ref),
		Designer: primerdesign.NewDesigner(primer3.New(primer3Path, runner), checker, variants, opts),
		Opts:     opts,
	}, nil
}

func writeBED(ctx context.Context, path string, asm *primerdesign.Assembler) (err error) {
	out, err := file.Create(ctx, path)
	if err != nil {
		return errors.E(err, "create", path)
	}
	defer func() {
		if cerr := out.Close(ctx); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return asm.WriteBED(out.Writer(ctx))
}

func run(ctx context.Context, roi interval.GenomicInterval, opts primerdesign.Opts) error {
	ref, err := fasta.Open(ctx, opts.ReferenceFasta)
	if err != nil {
		return err
	}
	defer func() {
		if err := ref.Close(ctx); err != nil {
			log.Error.Printf("close %s: %v", ref.Path(), err)
		}
	}()
	p, err := newPipeline(ctx, ref, opts, extcmd.Exec{})
	if err != nil {
		return err
	}
	asm, err := p.Run(ctx, roi)
	if err != nil {
		return err
	}
	if opts.Debug {
		return nil
	}
	if *bedFlag != "" {
		if err := writeBED(ctx, *bedFlag, asm); err != nil {
			return err
		}
	}
	return asm.WriteJSON(os.Stdout)
}

// parseROI returns the 0-based region of interest from either -region or
// the three positional arguments.
func parseROI(region string, args []string) (interval.GenomicInterval, error) {
	switch {
	case region != "" && len(args) == 0:
		return interval.ParseRegionString(region)
	case region == "" && len(args) == 3:
		return interval.ParseArgs(args[0], args[1], args[2])
	}
	return interval.GenomicInterval{}, errors.E(errors.Invalid, "want <chromosome> <start> <stop>, or -region alone")
}

func main() {
	flag.Usage = usage
	shutdown := grail.Init()
	defer shutdown()

	roi, err := parseROI(*regionFlag, flag.Args())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		flag.Usage()
		os.Exit(1)
	}
	opts, err := primerdesign.LoadOpts(*configFlag)
	if err != nil {
		log.Fatalf("%v", err)
	}
	if *debugFlag {
		opts.Debug = true
	}
	if *overlapEngineFlag != "" {
		opts.OverlapEngine = *overlapEngineFlag
	}
	if err := opts.Validate(); err != nil {
		log.Fatalf("%v", err)
	}

	log.Printf("primer designer v%s", version)
	if opts.Debug {
		log.Printf("debugging mode")
	}
	if err := run(vcontext.Background(), roi, opts); err != nil {
		log.Fatalf("%v", err)
	}
}
