package ckms

// Group is a single summary tuple: one representative value standing in for a
// contiguous band of ranks.
type Group struct {
	// Value is the representative sample value.
	Value float64

	// G is the number of ranks this group covers relative to the previous
	// group. The sum of G over a prefix of the summary is that prefix's
	// lower-bound rank.
	G int64

	// Delta is the additional rank uncertainty carried by this group. It is
	// always 0 for the groups holding the current minimum and maximum.
	Delta int64

	// Rank caches the group's absolute lower-bound rank as of the last update.
	// It must equal the running sum of G up to and including this group.
	Rank int64
}
