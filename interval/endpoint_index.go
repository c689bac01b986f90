package interval

import "math"

// This file includes support datatypes and functions for representing an
// interval-union as an []PosType containing a sorted sequence of
// interval-endpoints, and iterating over the intervals.
//
// For example, given the intervals
//   [5, 15)
//   [7, 17)
//   [20, 25)
// the interval-union would be
//   [5, 17) U [20, 25)
// so the sorted sequence of endpoints would be
//   {5, 17, 20, 25}.

// PosType is the type used to represent union endpoints.  int32 is wide
// enough for any chromosome we design primers on; BAM has the same limit.
type PosType int32

// PosTypeMax is the maximum value that can be represented by a PosType.
const PosTypeMax = math.MaxInt32

// EndpointIndex is a position in a sorted endpoint array.  Odd values are
// inside an interval.
type EndpointIndex uint32

// Finished returns whether we're past all the intervals.
func (ei EndpointIndex) Finished(endpoints []PosType) bool {
	return ei >= EndpointIndex(len(endpoints))
}

// UnionScanner supports iteration over an interval-union.
// Invariants:
//   endpoints[endpointIdx-1] <= pos < endpoints[endpointIdx]
//   pos is either contained in an interval, or is PosTypeMax
type UnionScanner struct {
	endpoints   []PosType
	pos         PosType
	endpointIdx EndpointIndex
}

// NewUnionScanner returns a UnionScanner initialized to the first interval.
func NewUnionScanner(endpoints []PosType) UnionScanner {
	startPos := PosType(PosTypeMax)
	startEndpointIdx := EndpointIndex(0)
	if len(endpoints) >= 1 {
		startPos = endpoints[0]
		startEndpointIdx = 1
	}
	return UnionScanner{
		endpoints:   endpoints,
		pos:         startPos,
		endpointIdx: startEndpointIdx,
	}
}

// Scan is written so that the following loop visits every interval, clipped
// to limit:
//   for us.Scan(&start, &end, limit) {
//     // ...do stuff with [start, end)...
//   }
func (us *UnionScanner) Scan(start *PosType, end *PosType, limit PosType) bool {
	if us.pos >= limit {
		return false
	}
	*start = us.pos
	intervalEnd := us.endpoints[us.endpointIdx]
	if intervalEnd > limit {
		us.pos = limit
		*end = limit
		return true
	}
	*end = intervalEnd
	us.endpointIdx++
	if us.endpointIdx.Finished(us.endpoints) {
		us.pos = PosTypeMax
	} else {
		us.pos = us.endpoints[us.endpointIdx]
		us.endpointIdx++
	}
	return true
}
