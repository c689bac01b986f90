package primerdesign

import (
	"fmt"

	"github.com/grailbio/base/errors"
	"github.com/spf13/viper"
)

// Opts holds the settings of one primer design run.  It is built once at
// startup and handed to every component that needs it.
type Opts struct {
	// ReferenceFasta is the reference genome.  ReferenceFasta + ".fai" is
	// used as its index when present.  It is also the bwa index prefix.
	ReferenceFasta string `mapstructure:"reference_fasta"`
	// ExonsBED lists the exon annotation targets are snapped to.  When empty,
	// the ROI is always designed on verbatim.
	ExonsBED string `mapstructure:"exons_bed"`
	// VariantsVCF lists known variants primers must not cover.  Optional.
	VariantsVCF string `mapstructure:"variants_vcf"`

	// Padding is the flank fetched on each side of a target.
	Padding int `mapstructure:"padding"`
	// MaxPrimerDistance is how far from the target edge a primer may start.
	MaxPrimerDistance int `mapstructure:"max_primer_distance"`
	// MaxIndelLength is the longest indel still classed as a known variant.
	MaxIndelLength int `mapstructure:"max_indel_length"`

	// SplitTargets, when set, cuts targets of MaxTargetLength bases or more into
	// (len+1)/MaxTargetLength+1 windows.
	SplitTargets    bool `mapstructure:"split_targets"`
	MaxTargetLength int  `mapstructure:"max_target_length"`

	// OverlapEngine selects the overlap/merge/split implementation:
	// "bedtools" or "builtin".
	OverlapEngine string `mapstructure:"overlap_engine"`

	// Executables.  Bare names are looked up on $PATH.
	BedtoolsPath string `mapstructure:"bedtools_path"`
	Primer3Path  string `mapstructure:"primer3_path"`
	BWAPath      string `mapstructure:"bwa_path"`

	// Passed to primer3 untouched.
	Primer3Settings             string `mapstructure:"primer3_settings"`
	MisprimingLibrary           string `mapstructure:"mispriming_library"`
	ThermodynamicParametersPath string `mapstructure:"thermodynamic_parameters_path"`

	// Alignment thresholds for the uniqueness check.
	MinMapQ    int `mapstructure:"min_mapq"`
	MinSeedLen int `mapstructure:"min_seed_len"`
	MinScore   int `mapstructure:"min_score"`

	// Debug writes raw primer3 output per target to DebugDir instead of
	// filtering pairs and emitting results.
	Debug    bool   `mapstructure:"debug"`
	DebugDir string `mapstructure:"debug_dir"`
}

const (
	EngineBedtools = "bedtools"
	EngineBuiltin  = "builtin"
)

// DefaultOpts are the settings used for anything a config file leaves out.
var DefaultOpts = Opts{
	Padding:           250,
	MaxPrimerDistance: 150,
	MaxIndelLength:    10,
	MaxTargetLength:   500,
	OverlapEngine:     EngineBedtools,
	BedtoolsPath:      "bedtools",
	Primer3Path:       "primer3_core",
	BWAPath:           "bwa",
	MinMapQ:           30,
	MinSeedLen:        15,
	MinScore:          15,
	DebugDir:          ".",
}

// LoadOpts reads a YAML, JSON or TOML config file (chosen by extension) over
// DefaultOpts.  An empty path returns DefaultOpts.
func LoadOpts(path string) (Opts, error) {
	opts := DefaultOpts
	if path == "" {
		return opts, nil
	}
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return Opts{}, errors.E(errors.Invalid, err, "read config", path)
	}
	if err := v.Unmarshal(&opts); err != nil {
		return Opts{}, errors.E(errors.Invalid, err, "decode config", path)
	}
	return opts, nil
}

// Validate checks settings that would otherwise fail deep in a run.
func (o Opts) Validate() error {
	switch {
	case o.ReferenceFasta == "":
		return errors.E(errors.Invalid, "reference_fasta must be set")
	case o.Padding < 0, o.MaxPrimerDistance < 0, o.MaxIndelLength < 0:
		return errors.E(errors.Invalid, fmt.Sprintf("padding (%d), max_primer_distance (%d) and max_indel_length (%d) must not be negative",
			o.Padding, o.MaxPrimerDistance, o.MaxIndelLength))
	case o.SplitTargets && o.MaxTargetLength <= 0:
		return errors.E(errors.Invalid, fmt.Sprintf("max_target_length %d must be positive when split_targets is on", o.MaxTargetLength))
	case o.OverlapEngine != EngineBedtools && o.OverlapEngine != EngineBuiltin:
		return errors.E(errors.Invalid, fmt.Sprintf("unknown overlap_engine %q", o.OverlapEngine))
	}
	return nil
}
