package main

import (
	"fmt"
	"math/rand"

	"github.com/axiomhq/ckms"
)

func main() {
	invariant, err := ckms.NewTargeted(
		ckms.Target{Quantile: 0.5, Epsilon: 0.01},
		ckms.Target{Quantile: 0.9, Epsilon: 0.01},
		ckms.Target{Quantile: 0.99, Epsilon: 0.001},
	)
	if err != nil {
		panic(err)
	}

	rng := rand.New(rand.NewSource(1))
	summary := ckms.New()
	for i := 0; i < 100000; i++ {
		summary = summary.Insert(rng.NormFloat64()*50+500, invariant)
		if summary.InsertsSinceCompression() >= 1000 {
			summary = summary.Compress(invariant)
		}
	}

	fmt.Println("samples:", summary.SampleCount())
	fmt.Println("groups:", summary.Size())
	fmt.Println("min:", summary.MinValue())
	fmt.Println("max:", summary.MaxValue())
	for _, phi := range []float64{0.5, 0.9, 0.99} {
		v, err := summary.Quantile(phi, invariant)
		if err != nil {
			panic(err)
		}
		fmt.Printf("q%v: %.2f\n", phi, v)
	}
}
