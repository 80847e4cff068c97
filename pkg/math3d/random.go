package math3d

import (
	"math"
	"math/rand"
)

// minSampleLenSq rejects samples too close to the origin to normalize safely.
const minSampleLenSq = 1e-160

// RandomUnitVector returns a uniformly distributed direction on the unit
// sphere. It rejection-samples the cube [-1,1]^3, keeping only points inside
// the unit ball and away from the origin.
func RandomUnitVector(rng *rand.Rand) Vec3 {
	for {
		p := Vec3{
			2*rng.Float64() - 1,
			2*rng.Float64() - 1,
			2*rng.Float64() - 1,
		}
		lenSq := p.LenSq()
		if minSampleLenSq < lenSq && lenSq <= 1 {
			return p.Div(math.Sqrt(lenSq))
		}
	}
}
