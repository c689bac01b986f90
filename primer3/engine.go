// Package primer3 drives primer3_core: it encodes design requests as
// Boulder-IO records, runs the tool and parses the candidate primer pairs
// out of its answer.
package primer3

import (
	"bytes"
	"context"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/primerdesign/extcmd"
)

// OutputV1 names the Boulder-IO output contract Parse reads: one KEY=VALUE
// per line, the record closed by a line holding only "=".
const OutputV1 = "primer3-boulder/v1"

// Engine runs primer3_core.
type Engine struct {
	// Path is the primer3_core executable.
	Path   string
	runner extcmd.Runner
}

// New returns an Engine running the executable at path through runner.
func New(path string, runner extcmd.Runner) *Engine {
	return &Engine{Path: path, runner: runner}
}

// Run feeds req to primer3_core and returns its raw output lines.  A tool
// that fails to start, exits non-zero or reports PRIMER_ERROR is an error.
func (e *Engine) Run(ctx context.Context, req Request) ([]string, error) {
	var args []string
	if req.SettingsPath != "" {
		args = append(args, "-p3_settings_file="+req.SettingsPath)
	}
	out, err := e.runner.Run(ctx, e.Path, args, bytes.NewReader(req.Boulder()))
	if err != nil {
		return nil, errors.E(err, "primer3: design", req.ID)
	}
	lines := extcmd.Lines(out)
	for _, line := range lines {
		if strings.HasPrefix(line, "PRIMER_ERROR=") {
			return nil, errors.E(errors.Invalid, "primer3: design "+req.ID+": "+strings.TrimPrefix(line, "PRIMER_ERROR="))
		}
	}
	return lines, nil
}
