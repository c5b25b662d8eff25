// Package topology builds spatially arranged groups of units and wires them
// with distance-dependent rules. It only produces positions and pair
// decisions; the actual entities and synapses go through the sim package.
package topology

import (
	"math"
	"math/rand"

	"github.com/dendra-sim/dendra/sim"
)

// A GridConfig describes a rectangular arrangement of unit positions.
type GridConfig struct {
	Rows    int
	Columns int

	// Extent is the width and height of the covered rectangle. The grid
	// points sit at the centers of equal cells.
	Extent [2]float64

	// Center is the middle of the rectangle.
	Center [2]float64

	// Jitter displaces each point uniformly within ±Jitter per axis,
	// using the given seed.
	Jitter float64
	Seed   int64
}

// Grid returns row-major positions for a rectangular group. Pass them to
// unit creation so distance-dependent wiring can see them.
func Grid(cfg GridConfig) ([]sim.Position, error) {
	if cfg.Rows <= 0 || cfg.Columns <= 0 {
		return nil, sim.ConfigErrorf(
			"grid needs positive dimensions, got %dx%d", cfg.Rows, cfg.Columns)
	}

	cellW := cfg.Extent[0] / float64(cfg.Columns)
	cellH := cfg.Extent[1] / float64(cfg.Rows)
	x0 := cfg.Center[0] - cfg.Extent[0]/2 + cellW/2
	y0 := cfg.Center[1] - cfg.Extent[1]/2 + cellH/2

	rng := rand.New(rand.NewSource(cfg.Seed))

	pos := make([]sim.Position, 0, cfg.Rows*cfg.Columns)
	for r := 0; r < cfg.Rows; r++ {
		for c := 0; c < cfg.Columns; c++ {
			p := sim.Position{
				X: x0 + float64(c)*cellW,
				Y: y0 + float64(r)*cellH,
			}
			if cfg.Jitter > 0 {
				p.X += (2*rng.Float64() - 1) * cfg.Jitter
				p.Y += (2*rng.Float64() - 1) * cfg.Jitter
			}
			pos = append(pos, p)
		}
	}

	return pos, nil
}

// A Kernel gives the connection probability as a function of distance.
type Kernel struct {
	// PCenter is the probability at zero distance. Sigma, when positive,
	// makes the probability fall off as a Gaussian of the distance;
	// zero sigma keeps it flat inside the mask.
	PCenter float64
	Sigma   float64
}

func (k Kernel) prob(d float64) float64 {
	if k.Sigma <= 0 {
		return k.PCenter
	}
	return k.PCenter * math.Exp(-d*d/(2*k.Sigma*k.Sigma))
}

// A ConnSpec describes one distance-dependent wiring pass.
type ConnSpec struct {
	// MaskRadius excludes pairs farther apart than this. Zero means no
	// mask.
	MaskRadius float64

	// Kernel accepts each unmasked pair with a distance-dependent
	// probability. A zero kernel accepts every unmasked pair.
	Kernel Kernel

	// AllowAutapses permits a unit to connect to itself when it appears
	// in both lists.
	AllowAutapses bool

	// BaseDelay and DelayPerUnit build each pair's transmission delay as
	// BaseDelay + DelayPerUnit * distance; the network rounds it to a
	// multiple of the minimum delay.
	BaseDelay    float64
	DelayPerUnit float64

	// Seed drives the kernel's acceptance draws.
	Seed int64
}

// Connect wires sources onto targets with mask, kernel, and linear
// distance-dependent delays. Every unit involved must have been created
// with a position.
func Connect(
	net *sim.Network,
	sources, targets []int,
	spec ConnSpec,
	syn sim.SynConfig,
) error {
	rng := rand.New(rand.NewSource(spec.Seed))

	hasKernel := spec.Kernel.PCenter > 0 || spec.Kernel.Sigma > 0

	for _, src := range sources {
		sp, ok := net.Unit(src).Position()
		if !ok {
			return sim.ConfigErrorf("unit %d has no position", src)
		}

		for _, tgt := range targets {
			if src == tgt && !spec.AllowAutapses {
				continue
			}

			tp, ok := net.Unit(tgt).Position()
			if !ok {
				return sim.ConfigErrorf("unit %d has no position", tgt)
			}

			d := math.Hypot(tp.X-sp.X, tp.Y-sp.Y)
			if spec.MaskRadius > 0 && d > spec.MaskRadius {
				continue
			}
			if hasKernel && rng.Float64() >= spec.Kernel.prob(d) {
				continue
			}

			err := net.Connect(
				[]int{src}, []int{tgt},
				sim.ConnConfig{
					Rule:          sim.RuleOneToOne,
					AllowAutapses: true,
					Delay: sim.Fixed(
						spec.BaseDelay + spec.DelayPerUnit*d),
				},
				syn,
			)
			if err != nil {
				return err
			}
		}
	}

	return nil
}
