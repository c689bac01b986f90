package fasta

import (
	"bytes"
	"context"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
)

// IndexSuffix is appended to a FASTA path to find its index.
const IndexSuffix = ".fai"

// Reference is an indexed FASTA file opened for random access.  It owns the
// underlying file; call Close when done.
type Reference struct {
	Fasta
	path string
	in   file.File
}

// Open opens the FASTA file at path together with its companion index,
// path+".fai".  If the index cannot be opened, one is generated in memory
// by scanning the FASTA file once.
func Open(ctx context.Context, path string) (*Reference, error) {
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, errors.E(err, "open reference", path)
	}
	var index []byte
	if index, err = file.ReadFile(ctx, path+IndexSuffix); err != nil {
		log.Printf("fasta: %s%s unavailable (%v), indexing %s", path, IndexSuffix, err, path)
		var buf bytes.Buffer
		if err = GenerateIndex(&buf, in.Reader(ctx)); err != nil {
			_ = in.Close(ctx)
			return nil, errors.E(err, "index reference", path)
		}
		index = buf.Bytes()
	}
	fa, err := NewIndexed(in.Reader(ctx), bytes.NewReader(index))
	if err != nil {
		_ = in.Close(ctx)
		return nil, errors.E(err, "read index for", path)
	}
	return &Reference{Fasta: fa, path: path, in: in}, nil
}

// Path returns the FASTA path the reference was opened from.
func (r *Reference) Path() string { return r.path }

// Close closes the underlying file.
func (r *Reference) Close(ctx context.Context) error {
	return r.in.Close(ctx)
}
