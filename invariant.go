package ckms

import (
	"fmt"
	"math"
)

// Invariant bounds the tolerable rank error of a summary tuple. Evaluate
// returns the maximum combined error permitted for a tuple whose lower-bound
// rank is rank out of n total samples.
type Invariant interface {
	Evaluate(rank, n float64) float64
}

type biased struct {
	epsilon float64
}

// NewBiased returns the biased-quantiles invariant: the permitted rank error
// grows linearly with rank, giving tighter relative precision at the low end
// of the distribution.
func NewBiased(epsilon float64) (Invariant, error) {
	if epsilon <= 0 {
		return nil, fmt.Errorf("epsilon must be > 0, got %v", epsilon)
	}
	return biased{epsilon: epsilon}, nil
}

func (b biased) Evaluate(rank, _ float64) float64 {
	return 2 * b.epsilon * rank
}

// Target requests estimates with epsilon rank accuracy around one quantile.
type Target struct {
	Quantile float64
	Epsilon  float64
}

type targeted struct {
	targets []Target
}

// NewTargeted returns the targeted-quantiles invariant: each target contributes
// a bound that is tight near its quantile and loose elsewhere, and the
// strictest applicable target wins. Quantiles must lie strictly inside (0, 1);
// the per-target bound divides by both the quantile and its complement.
func NewTargeted(targets ...Target) (Invariant, error) {
	if len(targets) == 0 {
		return nil, fmt.Errorf("at least one target is required")
	}
	for _, target := range targets {
		if target.Quantile <= 0 || target.Quantile >= 1 {
			return nil, fmt.Errorf("target quantile must be inside (0, 1), got %v", target.Quantile)
		}
		if target.Epsilon <= 0 {
			return nil, fmt.Errorf("target epsilon must be > 0, got %v", target.Epsilon)
		}
	}
	return targeted{targets: append([]Target(nil), targets...)}, nil
}

func (t targeted) Evaluate(rank, n float64) float64 {
	min := math.MaxFloat64
	for _, target := range t.targets {
		var bound float64
		if target.Quantile*n <= rank {
			bound = 2 * target.Epsilon * rank / target.Quantile
		} else {
			bound = 2 * target.Epsilon * (n - rank) / (1 - target.Quantile)
		}
		if bound < min {
			min = bound
		}
	}
	return min
}
