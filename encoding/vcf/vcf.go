// Package vcf reads the small-variant lists used to keep primers off known
// polymorphisms.  Parsing is done by vcfgo; only CHROM, POS, ID, REF and ALT
// are kept, and multi-allelic ALT fields are split into one Variant per allele.
package vcf

import (
	"context"
	"fmt"
	"io"

	"github.com/brentp/vcfgo"
	"github.com/grailbio/base/compress"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/primerdesign/interval"
)

// minFields is the number of mandatory VCF columns (CHROM through INFO).
const minFields = 8

// Variant is a single allele from a VCF data line.
type Variant struct {
	Chrom string // Chromosome name, as written in the file
	Pos   int    // 1-based position of the first REF base
	ID    string // Variant identifier (e.g., rs ID), "." if absent
	Ref   string // Reference allele
	Alt   string // Alternate allele (single allele after splitting)
}

// IsSNV returns true if the variant is a single nucleotide variant.
func (v Variant) IsSNV() bool {
	return len(v.Ref) == 1 && len(v.Alt) == 1
}

// IsIndel returns true if the variant is an insertion or deletion.
func (v Variant) IsIndel() bool {
	return len(v.Ref) != len(v.Alt)
}

// IndelLength returns the number of inserted or deleted bases, or 0 for
// substitutions.
func (v Variant) IndelLength() int {
	d := len(v.Ref) - len(v.Alt)
	if d < 0 {
		return -d
	}
	return d
}

// Interval returns the 1-based closed span of reference bases touched by the
// variant.
func (v Variant) Interval() interval.GenomicInterval {
	end := v.Pos + len(v.Ref) - 1
	if end < v.Pos {
		end = v.Pos
	}
	return interval.GenomicInterval{Chrom: v.Chrom, Start: v.Pos, End: end, Base: interval.OneBased}
}

func (v Variant) String() string {
	return fmt.Sprintf("%s:%d:%s>%s", v.Chrom, v.Pos, v.Ref, v.Alt)
}

// Read parses a VCF stream from r.  The "##fileformat" and "#CHROM" header
// lines are required.  A data line with fewer than eight columns, or a
// missing or non-numeric POS, is an error.  Sample columns are never parsed.
func Read(r io.Reader) ([]Variant, error) {
	rdr, err := vcfgo.NewReader(r, true)
	if err != nil {
		return nil, errors.E(errors.Invalid, "vcf: header", err)
	}
	var variants []Variant
	for {
		v, err := readRecord(rdr)
		if err != nil {
			return nil, err
		}
		if v == nil {
			break
		}
		if v.Pos == 0 {
			return nil, errors.E(errors.Invalid, fmt.Sprintf("vcf: line %d: POS must be positive", v.LineNumber))
		}
		for _, alt := range v.Alternate {
			variants = append(variants, Variant{
				Chrom: v.Chromosome,
				Pos:   int(v.Pos),
				ID:    v.Id(),
				Ref:   v.Reference,
				Alt:   alt,
			})
		}
	}
	return variants, nil
}

// readRecord returns the next record, or nil at EOF.  vcfgo indexes the
// mandatory columns without a length check, so a short line panics inside
// the library; that panic is reported as an Invalid error.
func readRecord(rdr *vcfgo.Reader) (v *vcfgo.Variant, err error) {
	defer func() {
		if p := recover(); p != nil {
			v, err = nil, errors.E(errors.Invalid, fmt.Sprintf("vcf: line %d: want at least %d columns", rdr.LineNumber, minFields))
		}
	}()
	v = rdr.Read()
	if verr := rdr.Error(); verr != nil {
		return nil, errors.E(errors.Invalid, "vcf", verr)
	}
	return v, nil
}

// ReadPath reads the (optionally compressed) VCF file at path.
func ReadPath(ctx context.Context, path string) (variants []Variant, err error) {
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, errors.E(err, "open variants", path)
	}
	defer func() {
		if cerr := in.Close(ctx); cerr != nil && err == nil {
			err = cerr
		}
	}()
	var inr io.Reader = in.Reader(ctx)
	if u := compress.NewReaderPath(inr, in.Name()); u != nil {
		inr = u
	}
	if variants, err = Read(inr); err != nil {
		return nil, errors.E(err, path)
	}
	log.Printf("Read %d variant allele(s) from %s", len(variants), path)
	return variants, nil
}
