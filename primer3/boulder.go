package primer3

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/grailbio/primerdesign/interval"
)

// Request is one primer3 run: a template with a target inside it.
type Request struct {
	// ID names the run in primer3's output.
	ID string
	// Template is the padded reference window.
	Template string
	// Window is the 1-based genomic span of Template.
	Window interval.GenomicInterval
	// TargetOffset and TargetLen locate the target in Template, 0-based.
	TargetOffset, TargetLen int
	// MaxPrimerDistance is the furthest a primer may sit from the target edge.
	MaxPrimerDistance int
	// Exclusions are spans primers must not cover.
	Exclusions []ExclusionRegion
	// The remaining fields are handed to primer3 without interpretation.
	ThermodynamicParametersPath string
	MisprimingLibraryPath       string
	SettingsPath                string
}

// includedRegion returns the 0-based [start, end) slice of the template
// primers may be picked from.
func (r Request) includedRegion() (start, end int) {
	start = r.TargetOffset - r.MaxPrimerDistance
	if start < 0 {
		start = 0
	}
	end = r.TargetOffset + r.TargetLen + r.MaxPrimerDistance
	if end > len(r.Template) {
		end = len(r.Template)
	}
	return
}

// excludedRegions converts the exclusions to template-relative
// "start,length" pairs, clipped to the template.
func (r Request) excludedRegions() []string {
	var regions []string
	for _, e := range r.Exclusions {
		start := e.Interval.ToOneBased().Start - r.Window.ToOneBased().Start
		end := e.Interval.ToOneBased().End - r.Window.ToOneBased().Start + 1
		if start < 0 {
			start = 0
		}
		if end > len(r.Template) {
			end = len(r.Template)
		}
		if end <= start {
			continue
		}
		regions = append(regions, fmt.Sprintf("%d,%d", start, end-start))
	}
	return regions
}

// Boulder encodes the request as a primer3 Boulder-IO record, terminated by
// the "=" line.
func (r Request) Boulder() []byte {
	var b bytes.Buffer
	tag := func(key string, value interface{}) {
		fmt.Fprintf(&b, "%s=%v\n", key, value)
	}
	incStart, incEnd := r.includedRegion()
	tag("SEQUENCE_ID", r.ID)
	tag("SEQUENCE_TEMPLATE", r.Template)
	tag("SEQUENCE_TARGET", fmt.Sprintf("%d,%d", r.TargetOffset, r.TargetLen))
	tag("SEQUENCE_INCLUDED_REGION", fmt.Sprintf("%d,%d", incStart, incEnd-incStart))
	if ex := r.excludedRegions(); len(ex) > 0 {
		tag("SEQUENCE_EXCLUDED_REGION", strings.Join(ex, " "))
	}
	tag("PRIMER_FIRST_BASE_INDEX", 0)
	// Record tags override the settings file, so the range is only a default.
	if r.SettingsPath == "" {
		tag("PRIMER_PRODUCT_SIZE_RANGE", fmt.Sprintf("%d-%d", r.TargetLen, incEnd-incStart))
	}
	if r.ThermodynamicParametersPath != "" {
		tag("PRIMER_THERMODYNAMIC_PARAMETERS_PATH", r.ThermodynamicParametersPath)
	}
	if r.MisprimingLibraryPath != "" {
		tag("PRIMER_MISPRIMING_LIBRARY", r.MisprimingLibraryPath)
	}
	b.WriteString("=\n")
	return b.Bytes()
}
