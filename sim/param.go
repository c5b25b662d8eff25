package sim

import "math/rand"

// DistUniform names the uniform distribution in ParamSpec.
const DistUniform = "uniform"

// A ParamSpec describes how a per-connection scalar (weight or delay) is
// assigned: either a fixed value, or a sample from a named distribution.
type ParamSpec struct {
	Value        float64
	Distribution string // empty for a fixed value
	Low, High    float64
}

// Fixed returns a ParamSpec assigning the same value to every connection.
func Fixed(v float64) ParamSpec {
	return ParamSpec{Value: v}
}

// Uniform returns a ParamSpec drawing each value uniformly from [low, high).
func Uniform(low, high float64) ParamSpec {
	return ParamSpec{Distribution: DistUniform, Low: low, High: high}
}

// sample draws n values for the spec.
func (p ParamSpec) sample(rng *rand.Rand, n int) ([]float64, error) {
	out := make([]float64, n)

	switch p.Distribution {
	case "":
		for i := range out {
			out[i] = p.Value
		}
	case DistUniform:
		if p.High < p.Low {
			return nil, ConfigErrorf(
				"uniform distribution needs low <= high, got [%f, %f]",
				p.Low, p.High)
		}
		for i := range out {
			out[i] = p.Low + rng.Float64()*(p.High-p.Low)
		}
	default:
		return nil, ConfigErrorf("unknown distribution %q", p.Distribution)
	}

	return out, nil
}

// sampleDelays draws n transmission delays. Delays are always integer
// multiples of minDelay: fixed values are rounded to the nearest multiple,
// distribution samples pick a multiple directly. The result is never below
// one minDelay.
func (p ParamSpec) sampleDelays(
	rng *rand.Rand,
	n int,
	minDelay VTimeInSec,
) ([]VTimeInSec, error) {
	out := make([]VTimeInSec, n)

	switch p.Distribution {
	case "":
		if p.Value < 0 {
			return nil, ConfigErrorf("delay cannot be negative, got %f",
				p.Value)
		}
		steps := int(p.Value/float64(minDelay) + 0.5)
		if steps < 1 {
			steps = 1
		}
		for i := range out {
			out[i] = VTimeInSec(steps) * minDelay
		}
	case DistUniform:
		if p.High < p.Low {
			return nil, ConfigErrorf(
				"uniform distribution needs low <= high, got [%f, %f]",
				p.Low, p.High)
		}
		lowInt := int(p.Low/float64(minDelay) + 0.5)
		if lowInt < 1 {
			lowInt = 1
		}
		highInt := int(p.High/float64(minDelay) + 0.5)
		if highInt < 1 {
			highInt = 1
		}
		for i := range out {
			steps := lowInt + rng.Intn(highInt-lowInt+1)
			out[i] = VTimeInSec(steps) * minDelay
		}
	default:
		return nil, ConfigErrorf("unknown distribution %q", p.Distribution)
	}

	return out, nil
}
