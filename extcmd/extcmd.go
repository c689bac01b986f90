// Package extcmd runs the external command-line tools the pipeline delegates
// to (bedtools, primer3_core, bwa) and holds the helpers shared by their
// output parsers.  Every call blocks until the tool exits; there is no
// timeout other than cancellation of the context.
package extcmd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"v.io/x/lib/lookpath"
)

// Runner launches a tool and returns what it wrote to stdout.  A tool that
// cannot be started, or exits with a non-zero status, yields an error.
type Runner interface {
	Run(ctx context.Context, path string, args []string, stdin io.Reader) ([]byte, error)
}

// Exec is the Runner backed by real processes.
type Exec struct{}

// maxStderr bounds how much of a failing tool's stderr ends up in an error.
const maxStderr = 4096

// Run implements Runner.
func (Exec) Run(ctx context.Context, path string, args []string, stdin io.Reader) ([]byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stdin = stdin
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	log.Debug.Printf("exec: %s %s", path, strings.Join(args, " "))
	if err := cmd.Start(); err != nil {
		return nil, errors.E(errors.Unavailable, err, "start", path)
	}
	if err := cmd.Wait(); err != nil {
		msg := stderr.String()
		if len(msg) > maxStderr {
			msg = msg[len(msg)-maxStderr:]
		}
		return nil, errors.E(err, fmt.Sprintf("%s exited abnormally: %s", path, strings.TrimSpace(msg)))
	}
	return stdout.Bytes(), nil
}

// Resolve returns the executable to run for a tool.  A configured value
// containing a path separator is used as is; otherwise it (or name, if
// configured is empty) is looked up on $PATH.
func Resolve(name, configured string) (string, error) {
	if configured == "" {
		configured = name
	}
	if strings.ContainsRune(configured, os.PathSeparator) {
		return configured, nil
	}
	path, err := lookpath.Look(map[string]string{"PATH": os.Getenv("PATH")}, configured)
	if err != nil {
		return "", errors.E(errors.NotExist, err, fmt.Sprintf("%s: %q not found on $PATH", name, configured))
	}
	return path, nil
}

// Lines splits tool output into lines, dropping the trailing newline, any
// carriage returns and empty lines.
func Lines(out []byte) []string {
	var lines []string
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimRight(line, "\r")
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// Malformed returns the error reported when a tool's output violates the
// parsing contract it was read under.  Callers can test for it with
// errors.Is(errors.Invalid, err).
func Malformed(contract string, lineIdx int, line, reason string) error {
	return errors.E(errors.Invalid, fmt.Sprintf("malformed external output (%s) line %d: %s: %q", contract, lineIdx, reason, line))
}
