package ckms

import (
	"errors"
	"fmt"
	"math"
)

// ErrEmptySummary is returned by Quantile when no sample has been inserted yet.
var ErrEmptySummary = errors.New("quantile of an empty summary")

// Summary is an ordered sequence of groups approximating the rank distribution
// of every sample inserted so far. Operations are pure: they leave the
// receiver untouched and return a fresh Summary, so callers sharing one
// logical summary only need to serialize the swap of the current version.
type Summary struct {
	groups                  []Group
	groupCount              int64
	sampleCount             int64
	insertsSinceCompression int64
}

// New returns an empty summary.
func New() *Summary {
	return &Summary{}
}

// SampleCount returns the number of samples ever inserted. Compress never
// changes it.
func (s *Summary) SampleCount() int64 {
	return s.sampleCount
}

// Size returns the number of groups in the summary.
func (s *Summary) Size() int64 {
	return s.groupCount
}

// InsertsSinceCompression returns how many inserts happened since the last
// Compress. The summary never acts on it; scheduling compression is the
// caller's job.
func (s *Summary) InsertsSinceCompression() int64 {
	return s.insertsSinceCompression
}

// Groups returns a copy of the group sequence, ascending by value.
func (s *Summary) Groups() []Group {
	return append([]Group(nil), s.groups...)
}

// MinValue returns the smallest sample seen so far. The minimum group is never
// merged away, so the value is exact.
func (s *Summary) MinValue() float64 {
	if len(s.groups) != 0 {
		return s.groups[0].Value
	}
	return 0
}

// MaxValue returns the largest sample seen so far, exact for the same reason.
func (s *Summary) MaxValue() float64 {
	if len(s.groups) != 0 {
		return s.groups[len(s.groups)-1].Value
	}
	return 0
}

// Insert folds one sample into the summary and returns the result. The new
// group lands at its sorted position with g = 1 and a rank uncertainty bounded
// by the invariant evaluated against the pre-insert sample count. A sample
// that becomes the new minimum or maximum is exact.
func (s *Summary) Insert(value float64, invariant Invariant) *Summary {
	out := &Summary{
		groups:                  make([]Group, 0, len(s.groups)+1),
		groupCount:              s.groupCount + 1,
		sampleCount:             s.sampleCount + 1,
		insertsSinceCompression: s.insertsSinceCompression + 1,
	}

	var runningRank int64
	for i, group := range s.groups {
		if group.Value >= value {
			out.groups = append(out.groups, s.groups[:i]...)
			out.groups = append(out.groups, Group{
				Value: value,
				G:     1,
				Delta: insertDelta(runningRank+1, runningRank+group.G, s.sampleCount, invariant),
				Rank:  runningRank + 1,
			})
			// Everything at and after the insertion point shifts one rank up.
			for _, shifted := range s.groups[i:] {
				shifted.Rank++
				out.groups = append(out.groups, shifted)
			}
			return out
		}
		runningRank += group.G
	}

	// New maximum, or the very first sample.
	out.groups = append(out.groups, s.groups...)
	out.groups = append(out.groups, Group{Value: value, G: 1, Rank: runningRank + 1})
	return out
}

// insertDelta bounds the rank uncertainty of a freshly inserted tuple. rank is
// the tuple's own lower-bound rank, bandRank the accumulated rank of the group
// it lands in front of, and n the sample count before the insert.
func insertDelta(rank, bandRank, n int64, invariant Invariant) int64 {
	if rank == 1 {
		// New minimum.
		return 0
	}
	delta := int64(math.Floor(invariant.Evaluate(float64(bandRank), float64(n)))) - 1
	if delta < 0 {
		return 0
	}
	return delta
}

// Compress merges adjacent groups wherever the combined rank band still fits
// the invariant, scanning from the maximum toward the minimum. Query semantics
// are unchanged; only the group count can shrink. The minimum and maximum
// groups always survive.
func (s *Summary) Compress(invariant Invariant) *Summary {
	out := &Summary{sampleCount: s.sampleCount}
	if len(s.groups) <= 2 {
		out.groups = append([]Group(nil), s.groups...)
		out.groupCount = int64(len(out.groups))
		return out
	}

	n := float64(s.sampleCount)
	reversed := make([]Group, 0, len(s.groups))
	last := s.groups[len(s.groups)-1]
	for i := len(s.groups) - 2; i > 0; i-- {
		next := s.groups[i]
		if float64(next.G+last.G+last.Delta) <= invariant.Evaluate(float64(next.Rank), n) {
			// Absorb next into the candidate, keeping its value and delta.
			last.G += next.G
			last.Rank = next.Rank
		} else {
			reversed = append(reversed, last)
			last = next
		}
	}
	reversed = append(reversed, last, s.groups[0])

	out.groups = make([]Group, len(reversed))
	for i, group := range reversed {
		out.groups[len(reversed)-1-i] = group
	}
	out.groupCount = int64(len(out.groups))
	return out
}

// Quantile returns the approximate value at quantile phi in [0, 1]. The scan
// stops at the last group whose cumulative rank band can still contain the
// ideal rank phi*n within half the invariant's allowance.
func (s *Summary) Quantile(phi float64, invariant Invariant) (float64, error) {
	if phi < 0 || phi > 1 {
		return 0, fmt.Errorf("quantile must be in [0, 1], got %v", phi)
	}
	if len(s.groups) == 0 {
		return 0, ErrEmptySummary
	}

	n := float64(s.sampleCount)
	idealRank := phi * n
	bound := idealRank + invariant.Evaluate(idealRank, n)/2

	candidate := s.groups[0].Value
	var runningRank int64
	for _, group := range s.groups {
		if float64(runningRank+group.G+group.Delta) > bound {
			return candidate, nil
		}
		runningRank += group.G
		candidate = group.Value
	}
	return candidate, nil
}
