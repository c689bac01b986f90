package interval

import (
	"fmt"

	"github.com/grailbio/base/errors"
)

// Split divides iv into n contiguous windows of near-equal length, in the
// manner of "bedtools makewindows -n".  The remainder is spread over the
// leading windows, one base each.  iv is treated as 0-based; the windows are
// 0-based and keep iv's strand.  n is capped at the interval length so that
// no window is empty.
func Split(iv GenomicInterval, n int) ([]GenomicInterval, error) {
	if n <= 0 {
		return nil, errors.E(errors.Invalid, fmt.Sprintf("interval.Split: window count %d must be positive", n))
	}
	iv = iv.ToZeroBased()
	length := iv.Len()
	if length == 0 {
		return []GenomicInterval{iv}, nil
	}
	if n > length {
		n = length
	}
	size, rem := length/n, length%n
	windows := make([]GenomicInterval, 0, n)
	start := iv.Start
	for i := 0; i < n; i++ {
		end := start + size
		if i < rem {
			end++
		}
		w := iv
		w.Start, w.End = start, end
		windows = append(windows, w)
		start = end
	}
	return windows, nil
}
