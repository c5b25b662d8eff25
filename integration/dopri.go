package integration

import (
	"math"

	"github.com/dendra-sim/dendra/sim"
)

// DormandPrince is the adaptive fifth-order Dormand-Prince method with
// fourth-order error control and a continuous extension. It picks its own
// internal step sizes and interpolates the solution onto the requested
// output times, so its derivative evaluations may probe slightly past the
// last requested time.
type DormandPrince struct {
	// RelTol and AbsTol control the local error per step. Zero values
	// default to 1e-6 and 1e-9.
	RelTol float64
	AbsTol float64

	// MaxStep caps the internal step size. Zero means the full span of
	// the requested times.
	MaxStep float64
}

// Butcher tableau of the Dormand-Prince 5(4) pair.
var (
	dpC = [7]float64{0, 1.0 / 5, 3.0 / 10, 4.0 / 5, 8.0 / 9, 1, 1}

	dpA = [7][6]float64{
		{},
		{1.0 / 5},
		{3.0 / 40, 9.0 / 40},
		{44.0 / 45, -56.0 / 15, 32.0 / 9},
		{19372.0 / 6561, -25360.0 / 2187, 64448.0 / 6561, -212.0 / 729},
		{9017.0 / 3168, -355.0 / 33, 46732.0 / 5247, 49.0 / 176,
			-5103.0 / 18656},
		{35.0 / 384, 0, 500.0 / 1113, 125.0 / 192, -2187.0 / 6784,
			11.0 / 84},
	}

	// Difference between the fifth and fourth order weights.
	dpE = [7]float64{71.0 / 57600, 0, -71.0 / 16695, 71.0 / 1920,
		-17253.0 / 339200, 22.0 / 525, -1.0 / 40}

	// Weights of the fourth-degree continuous extension.
	dpD = [7]float64{
		-12715105075.0 / 11282082432.0,
		0,
		87487479700.0 / 32700410799.0,
		-10690763975.0 / 1880347072.0,
		701980252875.0 / 199316789632.0,
		-1453857185.0 / 822651844.0,
		69997945.0 / 29380423.0,
	}
)

// Integrate produces the state trajectory at the requested times.
func (e DormandPrince) Integrate(
	f sim.DerivFunc,
	y0 []float64,
	times []sim.VTimeInSec,
) [][]float64 {
	relTol := e.RelTol
	if relTol == 0 {
		relTol = 1e-6
	}
	absTol := e.AbsTol
	if absTol == 0 {
		absTol = 1e-9
	}

	out := alloc(y0, len(times))
	if len(times) < 2 {
		return out
	}

	tEnd := float64(times[len(times)-1])
	maxStep := e.MaxStep
	if maxStep == 0 {
		maxStep = tEnd - float64(times[0])
	}

	dim := len(y0)
	y := make([]float64, dim)
	yNew := make([]float64, dim)
	tmp := make([]float64, dim)
	copy(y, y0)

	var k [7][]float64
	for i := range k {
		k[i] = make([]float64, dim)
	}

	// Interpolation coefficients of the current step.
	rcont := make([][]float64, 5)
	for i := range rcont {
		rcont[i] = make([]float64, dim)
	}

	t := float64(times[0])
	h := maxStep / 10
	next := 1 // next output index to fill

	f(y, sim.VTimeInSec(t), k[0])

	for next < len(times) {
		if h > maxStep {
			h = maxStep
		}

		// Stages 2..7. The last stage evaluates at the step's endpoint
		// and is reused as the first stage of the next step.
		for s := 1; s < 7; s++ {
			for j := 0; j < dim; j++ {
				acc := y[j]
				for q := 0; q < s; q++ {
					acc += h * dpA[s][q] * k[q][j]
				}
				tmp[j] = acc
			}
			f(tmp, sim.VTimeInSec(t+dpC[s]*h), k[s])
		}

		// The last stage was evaluated at the fifth-order solution, so
		// tmp already holds it.
		copy(yNew, tmp)

		errNorm := 0.0
		for j := 0; j < dim; j++ {
			errJ := 0.0
			for s := 0; s < 7; s++ {
				errJ += dpE[s] * k[s][j]
			}
			scale := absTol + relTol*math.Max(math.Abs(y[j]), math.Abs(yNew[j]))
			errNorm += (h * errJ / scale) * (h * errJ / scale)
		}
		errNorm = math.Sqrt(errNorm / float64(dim))

		if errNorm > 1 {
			h *= math.Max(0.2, 0.9*math.Pow(errNorm, -0.25))
			continue
		}

		for j := 0; j < dim; j++ {
			diff := yNew[j] - y[j]
			dsum := 0.0
			for s := 0; s < 7; s++ {
				dsum += dpD[s] * k[s][j]
			}
			rcont[0][j] = y[j]
			rcont[1][j] = diff
			rcont[2][j] = h*k[0][j] - diff
			rcont[3][j] = diff - h*k[6][j] - rcont[2][j]
			rcont[4][j] = h * dsum
		}

		for next < len(times) && float64(times[next]) <= t+h {
			theta := (float64(times[next]) - t) / h
			th1 := 1 - theta
			for j := 0; j < dim; j++ {
				out[next][j] = rcont[0][j] + theta*(rcont[1][j]+
					th1*(rcont[2][j]+theta*(rcont[3][j]+th1*rcont[4][j])))
			}
			next++
		}

		t += h
		copy(y, yNew)
		copy(k[0], k[6])

		grow := 0.9 * math.Pow(math.Max(errNorm, 1e-10), -0.2)
		h *= math.Min(5, math.Max(0.2, grow))
	}

	return out
}
