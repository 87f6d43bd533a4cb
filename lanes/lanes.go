// Package lanes defines particle-group addressing and the batch execution
// contract shared by samplers and modify routines.
//
// A group id addresses Width consecutive particles. With the default build
// Width is 4; building with the "scalar" tag collapses groups to a single
// particle, so scalar mode is simply Width == 1.
package lanes

import (
	"fmt"
	"iter"
	"math"
)

// GroupID identifies one group of Width consecutive particles.
type GroupID uint32

// InvalidID marks an id that could not be resolved (dead parent, missing
// instance). Every safe load treats it as "use the default value".
const InvalidID = math.MaxUint32

// Floats holds one float32 per lane.
type Floats [Width]float32

// IDs holds one particle index per lane.
type IDs [Width]uint32

// Splat broadcasts v to every lane.
func Splat(v float32) Floats {
	var f Floats
	for i := range f {
		f[i] = v
	}
	return f
}

// SplatID broadcasts id to every lane.
func SplatID(id uint32) IDs {
	var ids IDs
	for i := range ids {
		ids[i] = id
	}
	return ids
}

// Indices returns the particle indices covered by group g.
func Indices(g GroupID) IDs {
	var ids IDs
	base := uint32(g) * Width
	for i := range ids {
		ids[i] = base + uint32(i)
	}
	return ids
}

// GroupCount returns the number of groups needed to cover n particles.
// The trailing group may be partial; its extra lanes address indices >= n.
func GroupCount(n int) int {
	return (n + Width - 1) / Width
}

// Select returns a when cond >= 0 and b otherwise, lane by lane.
// Negative zero counts as non-negative.
func Select(cond, a, b Floats) Floats {
	var out Floats
	for i := range out {
		if cond[i] >= 0 {
			out[i] = a[i]
		} else {
			out[i] = b[i]
		}
	}
	return out
}

// Valid reports which lanes hold a resolvable id.
func (ids IDs) Valid(i int) bool {
	return ids[i] != InvalidID
}

// UpdateRange is the half-open interval of groups [Begin, End) processed by
// one modify call.
type UpdateRange struct {
	Begin, End GroupID
}

// FullRange covers every group of a container with n particles.
func FullRange(n int) UpdateRange {
	return UpdateRange{Begin: 0, End: GroupID(GroupCount(n))}
}

// Len returns the number of groups in the range.
func (r UpdateRange) Len() int {
	if r.End <= r.Begin {
		return 0
	}
	return int(r.End - r.Begin)
}

// Empty reports whether the range holds no groups.
func (r UpdateRange) Empty() bool {
	return r.End <= r.Begin
}

// Groups iterates the group ids of the range in order.
func (r UpdateRange) Groups() iter.Seq[GroupID] {
	return func(yield func(GroupID) bool) {
		for g := r.Begin; g < r.End; g++ {
			if !yield(g) {
				return
			}
		}
	}
}

// Split divides the range into at most n contiguous, disjoint chunks of
// near-equal size. Empty chunks are omitted.
func (r UpdateRange) Split(n int) []UpdateRange {
	total := r.Len()
	if total == 0 {
		return nil
	}
	if n < 1 {
		n = 1
	}
	if n > total {
		n = total
	}
	chunkSize := (total + n - 1) / n

	chunks := make([]UpdateRange, 0, n)
	for start := 0; start < total; start += chunkSize {
		end := min(start+chunkSize, total)
		chunks = append(chunks, UpdateRange{
			Begin: r.Begin + GroupID(start),
			End:   r.Begin + GroupID(end),
		})
	}
	return chunks
}

// Blocks iterates the range in consecutive chunks of size groups, aligned
// to r.Begin. The last chunk may be shorter.
func (r UpdateRange) Blocks(size int) iter.Seq[UpdateRange] {
	if size < 1 {
		size = 1
	}
	return func(yield func(UpdateRange) bool) {
		for begin := r.Begin; begin < r.End; begin += GroupID(size) {
			end := min(begin+GroupID(size), r.End)
			if !yield(UpdateRange{Begin: begin, End: end}) {
				return
			}
		}
	}
}

// MustFit panics when the range is malformed or extends past groupCount.
// A bad range is a caller programming error, not a runtime condition.
func (r UpdateRange) MustFit(groupCount int) {
	if r.Begin > r.End {
		panic(fmt.Sprintf("lanes: malformed range [%d, %d)", r.Begin, r.End))
	}
	if int(r.End) > groupCount {
		panic(fmt.Sprintf("lanes: range [%d, %d) exceeds %d groups", r.Begin, r.End, groupCount))
	}
}

// String implements fmt.Stringer.
func (r UpdateRange) String() string {
	return fmt.Sprintf("[%d, %d)", r.Begin, r.End)
}
