package primer3

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/primerdesign/extcmd"
	"github.com/grailbio/primerdesign/interval"
)

// Pair is one candidate primer pair.
type Pair struct {
	// Rank is primer3's index for the pair; 0 has the lowest penalty.
	Rank int
	// Amplified is the 1-based span between the primers, exclusive of both.
	Amplified interval.GenomicInterval
	Left      string
	Right     string
	LeftTm    float64
	RightTm   float64
	Penalty   float64
}

// record holds the KEY=VALUE lines of one Boulder-IO record.
type record map[string]string

func (r record) str(key string) (string, error) {
	v, ok := r[key]
	if !ok || v == "" {
		return "", fmt.Errorf("missing %s", key)
	}
	return v, nil
}

func (r record) float(key string) (float64, error) {
	s, err := r.str(key)
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %v", key, err)
	}
	return f, nil
}

// posLen parses primer3's "position,length" primer locations.
func (r record) posLen(key string) (pos, length int, err error) {
	s, err := r.str(key)
	if err != nil {
		return 0, 0, err
	}
	fields := strings.Split(s, ",")
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("%s: want position,length, got %q", key, s)
	}
	if pos, err = strconv.Atoi(fields[0]); err != nil {
		return 0, 0, fmt.Errorf("%s: %v", key, err)
	}
	if length, err = strconv.Atoi(fields[1]); err != nil {
		return 0, 0, fmt.Errorf("%s: %v", key, err)
	}
	if pos < 0 || length <= 0 {
		return 0, 0, fmt.Errorf("%s: bad location %q", key, s)
	}
	return pos, length, nil
}

// Parse reads the candidate pairs out of primer3 output.  window is the
// 1-based genomic span of the template the request was built from; primer
// positions are offsets into it.  Malformed lines and pairs are logged and
// skipped.  Pairs come back in primer3's order, lowest penalty first.
func Parse(lines []string, window interval.GenomicInterval) []Pair {
	window = window.ToOneBased()
	rec := record{}
	for i, line := range lines {
		if line == "=" {
			break
		}
		eq := strings.IndexByte(line, '=')
		if eq <= 0 {
			log.Error.Printf("primer3: %v", extcmd.Malformed(OutputV1, i+1, line, "no KEY=VALUE"))
			continue
		}
		rec[line[:eq]] = line[eq+1:]
	}
	n := 0
	if s, ok := rec["PRIMER_PAIR_NUM_RETURNED"]; ok {
		var err error
		if n, err = strconv.Atoi(s); err != nil || n < 0 {
			log.Error.Printf("primer3: %v", extcmd.Malformed(OutputV1, 0, s, "bad PRIMER_PAIR_NUM_RETURNED"))
			return nil
		}
	}
	var pairs []Pair
	for i := 0; i < n; i++ {
		p, err := rec.pair(i, window)
		if err != nil {
			log.Error.Printf("primer3: skipping pair %d: %v", i, err)
			continue
		}
		pairs = append(pairs, p)
	}
	return pairs
}

func (r record) pair(i int, window interval.GenomicInterval) (p Pair, err error) {
	key := func(side, suffix string) string {
		return fmt.Sprintf("PRIMER_%s_%d%s", side, i, suffix)
	}
	p.Rank = i
	if p.Left, err = r.str(key("LEFT", "_SEQUENCE")); err != nil {
		return
	}
	if p.Right, err = r.str(key("RIGHT", "_SEQUENCE")); err != nil {
		return
	}
	if p.LeftTm, err = r.float(key("LEFT", "_TM")); err != nil {
		return
	}
	if p.RightTm, err = r.float(key("RIGHT", "_TM")); err != nil {
		return
	}
	if p.Penalty, err = r.float(key("PAIR", "_PENALTY")); err != nil {
		return
	}
	leftPos, leftLen, err := r.posLen(key("LEFT", ""))
	if err != nil {
		return
	}
	// The right primer's position is its 5' end, the rightmost base.
	rightPos, rightLen, err := r.posLen(key("RIGHT", ""))
	if err != nil {
		return
	}
	if leftLen != len(p.Left) || rightLen != len(p.Right) {
		err = fmt.Errorf("primer lengths %d,%d disagree with sequences %q,%q", leftLen, rightLen, p.Left, p.Right)
		return
	}
	start := window.Start + leftPos + leftLen
	end := window.Start + rightPos - rightLen
	if p.Amplified, err = interval.NewOneBased(window.Chrom, start, end); err != nil {
		err = errors.E(err, fmt.Sprintf("primers at %d and %d leave no amplified region", leftPos, rightPos))
		return
	}
	p.Amplified.Strand = window.Strand
	return
}
