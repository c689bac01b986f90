package interval

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseRegionString parses a region string of one of the forms
//   [contig ID]:[1-based first pos]-[last pos]
//   [contig ID]:[1-based pos]
//   [contig ID]
// returning a 0-based GenomicInterval.  The interval [0, PosTypeMax - 1) is
// returned if there is no positional restriction.
func ParseRegionString(region string) (result GenomicInterval, err error) {
	if len(region) == 0 {
		err = fmt.Errorf("interval.ParseRegionString: empty region string")
		return
	}
	colonPos := strings.IndexByte(region, ':')
	if colonPos == -1 {
		return New(region, 0, PosTypeMax-1)
	}
	if colonPos == 0 {
		err = fmt.Errorf("interval.ParseRegionString: empty contig ID")
		return
	}
	chrName := region[0:colonPos]
	rangeStr := strings.Replace(region[colonPos+1:], ",", "", -1)
	dashPos := strings.IndexByte(rangeStr, '-')
	if dashPos == -1 {
		var pos1 int64
		if pos1, err = strconv.ParseInt(rangeStr, 10, 32); err != nil {
			return
		}
		if pos1 <= 0 {
			err = fmt.Errorf("interval.ParseRegionString: position %v in region string out of range", rangeStr)
			return
		}
		return New(chrName, int(pos1-1), int(pos1))
	}
	start1Str := rangeStr[:dashPos]
	endStr := rangeStr[dashPos+1:]
	var start1 int
	if start1, err = strconv.Atoi(start1Str); err != nil {
		return
	}
	if start1 <= 0 {
		err = fmt.Errorf("interval.ParseRegionString: position %v in region string out of range", start1Str)
		return
	}
	var end0 int
	if end0, err = strconv.Atoi(endStr); err != nil {
		return
	}
	if end0 < start1 || end0 >= PosTypeMax {
		err = fmt.Errorf("interval.ParseRegionString: invalid range string %v", rangeStr)
		return
	}
	return New(chrName, start1-1, end0)
}

// ParseArgs builds a 0-based interval from the three positional values
// chromosome, start, and end, as typed on a command line.
func ParseArgs(chrom, start, end string) (GenomicInterval, error) {
	s, err := strconv.Atoi(strings.TrimSpace(start))
	if err != nil {
		return GenomicInterval{}, fmt.Errorf("interval.ParseArgs: start %q: %v", start, err)
	}
	e, err := strconv.Atoi(strings.TrimSpace(end))
	if err != nil {
		return GenomicInterval{}, fmt.Errorf("interval.ParseArgs: end %q: %v", end, err)
	}
	return New(chrom, s, e)
}
