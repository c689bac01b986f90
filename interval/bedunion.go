package interval

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/fileio"
	"github.com/grailbio/base/log"
	gunsafe "github.com/grailbio/base/unsafe"
	"github.com/grailbio/base/vcontext"
	"github.com/klauspost/compress/gzip"
)

// getTokens identifies up to the first len(tokens) tokens from curLine,
// returning the number of tokens saved.  Any (group of) characters <= ' ' is
// treated as a delimiter.
func getTokens(tokens [][]byte, curLine []byte) int {
	posEnd := 0
	lineLen := len(curLine)
	for tokenIdx := range tokens {
		pos := posEnd
		for ; pos != lineLen; pos++ {
			if curLine[pos] > ' ' {
				break
			}
		}
		if pos == lineLen {
			return tokenIdx
		}
		posEnd = pos
		for ; posEnd != lineLen; posEnd++ {
			if curLine[posEnd] <= ' ' {
				break
			}
		}
		tokens[tokenIdx] = curLine[pos:posEnd]
	}
	return len(tokens)
}

// BEDOpts defines behavior of this package's BED-loading functions.
type BEDOpts struct {
	// OneBasedInput interprets the BED interval boundaries as one-based [start,
	// end] instead of the usual zero-based [start, end).  The returned
	// intervals are always zero-based.
	OneBasedInput bool
}

// isBEDHeader reports whether a line is a BED "track"/"browser" line or a
// comment.
func isBEDHeader(chr []byte) bool {
	if len(chr) > 0 && chr[0] == '#' {
		return true
	}
	s := gunsafe.BytesToString(chr)
	return s == "track" || s == "browser"
}

func scanBED(scanner *bufio.Scanner, opts BEDOpts) (intervals []GenomicInterval, err error) {
	var startSubtract int
	if opts.OneBasedInput {
		startSubtract++
	}
	var tokens [3][]byte
	lineIdx := 0
	totBases := 0
	for scanner.Scan() {
		lineIdx++
		curLine := scanner.Bytes()
		nToken := getTokens(tokens[:], curLine)
		if nToken == 0 || isBEDHeader(tokens[0]) {
			continue
		}
		if nToken != 3 {
			err = fmt.Errorf("interval.scanBED: line %d has fewer tokens than expected", lineIdx)
			return
		}
		var parsedStart int
		if parsedStart, err = strconv.Atoi(gunsafe.BytesToString(tokens[1])); err != nil {
			return
		}
		parsedStart -= startSubtract
		if parsedStart < 0 {
			err = fmt.Errorf("interval.scanBED: negative start coordinate %s on line %d", tokens[1], lineIdx)
			return
		}
		var parsedEnd int
		if parsedEnd, err = strconv.Atoi(gunsafe.BytesToString(tokens[2])); err != nil {
			return
		}
		if parsedEnd < parsedStart || parsedEnd >= PosTypeMax {
			err = fmt.Errorf("interval.scanBED: invalid coordinate pair on line %d", lineIdx)
			return
		}
		// tokens[0] aliases the scanner buffer, so the name must be copied.
		intervals = append(intervals, GenomicInterval{
			Chrom: string(tokens[0]),
			Start: parsedStart,
			End:   parsedEnd,
		})
		totBases += parsedEnd - parsedStart
	}
	if err = scanner.Err(); err != nil {
		return
	}
	log.Debug.Printf("BED loaded, %d interval(s), %d base(s) listed.", len(intervals), totBases)
	return
}

// ReadBED loads the intervals of a BED file without merging them.  Columns
// past the third are ignored.
func ReadBED(reader io.Reader, opts BEDOpts) ([]GenomicInterval, error) {
	return scanBED(bufio.NewScanner(reader), opts)
}

// ReadBEDFromPath is a wrapper for ReadBED that takes a path instead of an
// io.Reader.  Gzipped files are decompressed transparently.
func ReadBEDFromPath(path string, opts BEDOpts) (intervals []GenomicInterval, err error) {
	ctx := vcontext.Background()
	var infile file.File
	if infile, err = file.Open(ctx, path); err != nil {
		return
	}
	defer func() {
		if cerr := infile.Close(ctx); cerr != nil && err == nil {
			err = cerr
		}
	}()
	reader := io.Reader(infile.Reader(ctx))
	switch fileio.DetermineType(path) {
	case fileio.Gzip:
		if reader, err = gzip.NewReader(reader); err != nil {
			return
		}
	}
	return ReadBED(reader, opts)
}

// Union is an interval-union: a chromosome-keyed set of disjoint intervals.
// Each chromosome's intervals are stored as a length-2N endpoint sequence,
// where the start of interval #k is in element [2k] and its end in element
// [2k+1], in increasing order.
type Union struct {
	nameMap  map[string][]PosType
	chrNames []string // in sorted order
}

// NewUnion merges the given intervals, coalescing overlapping and touching
// ones and dropping empty ones.  Input order does not matter; 1-based
// intervals are converted to 0-based first.
func NewUnion(intervals []GenomicInterval) (u Union, err error) {
	entries := make([]GenomicInterval, len(intervals))
	for i, iv := range intervals {
		entries[i] = iv.ToZeroBased()
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Less(entries[j]) })

	u.nameMap = make(map[string][]PosType)
	prevChr := ""
	var prevStart, prevEnd PosType
	var chrIntervals []PosType
	flush := func() {
		if prevEnd != -1 {
			chrIntervals = append(chrIntervals, prevStart, prevEnd)
		}
		if len(chrIntervals) > 0 {
			u.nameMap[prevChr] = chrIntervals
			u.chrNames = append(u.chrNames, prevChr)
		}
	}
	for _, entry := range entries {
		if entry.Start < 0 {
			err = fmt.Errorf("interval.NewUnion: negative start coordinate in %v", entry)
			return
		}
		if entry.End < entry.Start || entry.End >= PosTypeMax {
			err = fmt.Errorf("interval.NewUnion: invalid coordinate pair [%d, %d)", entry.Start, entry.End)
			return
		}
		start, end := PosType(entry.Start), PosType(entry.End)
		if prevChr != entry.Chrom {
			if prevChr != "" {
				flush()
			}
			prevChr = entry.Chrom
			chrIntervals = nil
			if end == start {
				prevStart, prevEnd = -1, -1
				continue
			}
			prevStart, prevEnd = start, end
			continue
		}
		if end == start {
			continue
		}
		if prevEnd == -1 {
			prevStart, prevEnd = start, end
			continue
		}
		if start > prevEnd {
			// New interval doesn't touch the previous one, so we can save the
			// previous one.
			chrIntervals = append(chrIntervals, prevStart, prevEnd)
			prevStart, prevEnd = start, end
		} else if end > prevEnd {
			prevEnd = end
		}
	}
	if prevChr != "" {
		flush()
	}
	return
}

// Intervals returns the disjoint 0-based intervals of the union, ordered by
// chromosome name and then position.
func (u *Union) Intervals() []GenomicInterval {
	var result []GenomicInterval
	for _, chr := range u.chrNames {
		us := NewUnionScanner(u.nameMap[chr])
		var start, end PosType
		for us.Scan(&start, &end, PosTypeMax) {
			result = append(result, GenomicInterval{Chrom: chr, Start: int(start), End: int(end)})
		}
	}
	return result
}
