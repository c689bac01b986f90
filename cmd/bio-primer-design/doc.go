/*
bio-primer-design designs a PCR primer pair covering a region of interest.

Usage:

	bio-primer-design [flags] <chromosome> <start> <stop>
	bio-primer-design [flags] -region chr1:1,001-2,000

Positional start and stop are 0-based; -region takes the usual 1-based
inclusive form.  The region is snapped to the exons of the
configured annotation, padded reference sequence is fetched for each
resulting target, primer3_core proposes primer pairs avoiding the known
variants, and pairs whose primers do not align uniquely (bwa mem) are
dropped.  The last surviving pair is printed to stdout as a JSON object:

	{"chromosome":"chr1","startPosition":1010,"endPosition":1100,
	 "leftSequence":"...","rightSequence":"...","leftTm":60.1,"rightTm":59.9}

-bed additionally writes every surviving pair as a BED8 line.  In debug mode
the raw primer3 output for each target is written to
<debug_dir>/<chrom>_<start>_<end>_primer3out.txt and nothing is printed.

Settings are read from the file given by -config (YAML, JSON or TOML).  Keys
and defaults:

	reference_fasta                 (required; also the bwa index prefix)
	exons_bed                       ""
	variants_vcf                    ""
	padding                         250
	max_primer_distance             150
	max_indel_length                10
	split_targets                   false
	max_target_length               500
	overlap_engine                  bedtools   (or builtin)
	bedtools_path                   bedtools
	primer3_path                    primer3_core
	bwa_path                        bwa
	primer3_settings                ""
	mispriming_library              ""
	thermodynamic_parameters_path   ""
	min_mapq                        30
	min_seed_len                    15
	min_score                       15
	debug                           false
	debug_dir                       .
*/
package main
