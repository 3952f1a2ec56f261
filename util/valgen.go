// Some helpers using closures to generate stack operands
package valgen

import (
	"math/rand"
)

// Gen yields one operand per call.
type Gen func() int16

// MakeIncreasingGen counts up from start+1 and wraps like the Hack ALU.
func MakeIncreasingGen(start int16) Gen {
	current := start
	return func() int16 {
		current++
		return current
	}
}

// MakeCycleGen repeats values in order.
func MakeCycleGen(values ...int16) Gen {
	if len(values) == 0 {
		panic("cycle generator needs at least one value")
	}

	i := 0
	return func() int16 {
		v := values[i%len(values)]
		i++
		return v
	}
}

// MakeRandomGen draws uniformly from [lo, hi] with a fixed seed so that
// failures reproduce.
func MakeRandomGen(seed int64, lo, hi int16) Gen {
	if hi < lo {
		panic("random generator needs lo <= hi")
	}

	r := rand.New(rand.NewSource(seed))
	span := int(hi) - int(lo) + 1
	return func() int16 {
		return int16(int(lo) + r.Intn(span))
	}
}

// Take collects the next n values of g.
func Take(g Gen, n int) []int16 {
	out := make([]int16, n)
	for i := range out {
		out[i] = g()
	}
	return out
}
