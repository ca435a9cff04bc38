package grain

import (
	"math"
	"math/rand/v2"
)

// RandomFn supplies uniform random values in [0, 1). Inject one with
// WithRandom for reproducible output; the default draws from math/rand/v2.
//
// Every random decision the engine makes flows through this single
// function, so a deterministic RandomFn makes whole effect pipelines
// replayable.
type RandomFn func() float64

func defaultRandom() float64 {
	return rand.Float64()
}

// intBetween returns a uniform integer in [lo, hi], inclusive on both ends,
// from one random draw: floor(r * (hi-lo+1)) + lo.
func (e *Engine) intBetween(lo, hi int) int {
	return int(math.Floor(e.random()*float64(hi-lo+1))) + lo
}

// intBelow returns a uniform integer in [0, n).
func (e *Engine) intBelow(n int) int {
	return int(math.Floor(e.random() * float64(n)))
}
