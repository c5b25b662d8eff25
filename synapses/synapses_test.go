package synapses

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/dendra-sim/dendra/integration"
	"github.com/dendra-sim/dendra/sim"
	"github.com/dendra-sim/dendra/units"
)

func newNet() *sim.Network {
	net, err := sim.NewNetwork(sim.NetworkConfig{
		MinDelay:    0.5,
		MinBuffSize: 10,
		Integrator:  integration.Euler{SubSteps: 10},
		Seed:        3,
	})
	Expect(err).ToNot(HaveOccurred())
	return net
}

// newSources creates one constant source per value. Every source carries
// the filter time constants the learning rules demand from their inputs.
func newSources(net *sim.Network, values ...float64) []int {
	ids := make([]int, len(values))
	for i, v := range values {
		v := v
		created, err := net.CreateUnits(1, sim.UnitConfig{
			Model: units.SourceConfig{
				Function: func(t sim.VTimeInSec) float64 { return v },
			},
			TauFast: 0.2,
			TauMid:  1.0,
			TauSlow: 4.0,
		})
		Expect(err).ToNot(HaveOccurred())
		ids[i] = created[0]
	}
	return ids
}

func newTarget(net *sim.Network) int {
	ids, err := net.CreateUnits(1, sim.UnitConfig{
		Model:   units.LinearConfig{Tau: 0.5},
		TauFast: 0.2,
		TauMid:  1.0,
		TauSlow: 4.0,
	})
	Expect(err).ToNot(HaveOccurred())
	return ids[0]
}

func connect(
	net *sim.Network,
	src, tgt int,
	model sim.SynapseModelConfig,
	w float64,
) *sim.Synapse {
	err := net.Connect([]int{src}, []int{tgt},
		sim.ConnConfig{Rule: sim.RuleOneToOne, Delay: sim.Fixed(0.5)},
		sim.SynConfig{Model: model, InitW: sim.Fixed(w)})
	Expect(err).ToNot(HaveOccurred())

	syns := net.IncomingSynapses(tgt)
	return syns[len(syns)-1]
}

var _ = Describe("Static", func() {
	It("should never change its weight", func() {
		net := newNet()
		src := newSources(net, 1)
		tgt := newTarget(net)
		syn := connect(net, src[0], tgt, StaticConfig{}, 0.7)

		_, _, _, err := net.Run(3.0)

		Expect(err).ToNot(HaveOccurred())
		Expect(syn.Weight()).To(Equal(0.7))
	})

	It("should demand nothing from its endpoints", func() {
		net := newNet()
		src := newSources(net, 1)
		tgt := newTarget(net)
		connect(net, src[0], tgt, StaticConfig{}, 0.7)

		Expect(net.Unit(tgt).ActiveRequirements()).To(BeEmpty())
		Expect(net.Unit(src[0]).ActiveRequirements()).To(BeEmpty())
	})
})

var _ = Describe("Hebbian", func() {
	It("should grow with correlated activity", func() {
		net := newNet()
		src := newSources(net, 1)
		tgt := newTarget(net)
		syn := connect(net, src[0], tgt, HebbianConfig{LRate: 0.05}, 0.5)

		_, _, _, err := net.Run(5.0)

		Expect(err).ToNot(HaveOccurred())
		Expect(syn.Weight()).To(BeNumerically(">", 0.5))
	})

	It("should activate the fast filters on both endpoints", func() {
		net := newNet()
		src := newSources(net, 1)
		tgt := newTarget(net)
		connect(net, src[0], tgt, HebbianConfig{LRate: 0.05}, 0.5)

		Expect(net.Unit(tgt).HasRequirement(sim.ReqLPFFast)).To(BeTrue())
		Expect(net.Unit(src[0]).HasRequirement(sim.ReqLPFFast)).To(BeTrue())
	})

	It("should reject a plant source", func() {
		net := newNet()
		tgt := newTarget(net)
		plantID, err := net.CreatePlant(sim.PlantConfig{
			Model: testPlantConfig{},
		})
		Expect(err).ToNot(HaveOccurred())

		err = net.SetPlantOutputs(plantID, []int{tgt},
			sim.PlantOutputConfig{
				StateVars: []int{0},
				Model:     HebbianConfig{LRate: 0.05},
				InitW:     sim.Fixed(1),
				Delay:     sim.Fixed(0.5),
			})

		Expect(err).To(BeAssignableToTypeOf(&sim.ConfigError{}))
	})
})

var _ = Describe("Oja", func() {
	It("should converge toward the pre/post ratio", func() {
		net := newNet()
		src := newSources(net, 1)
		tgt := newTarget(net)
		syn := connect(net, src[0], tgt, OjaConfig{LRate: 0.5}, 0.5)

		_, _, _, err := net.Run(60.0)

		// Pre and post both settle near 1, so the fixed point of
		// w' = a*post*(pre - post*w) is close to 1.
		Expect(err).ToNot(HaveOccurred())
		Expect(syn.Weight()).To(BeNumerically("~", 1, 0.1))
	})

	It("should shrink an oversized weight", func() {
		net := newNet()
		src := newSources(net, 1)
		tgt := newTarget(net)
		syn := connect(net, src[0], tgt, OjaConfig{LRate: 0.02}, 3)

		_, _, _, err := net.Run(60.0)

		Expect(err).ToNot(HaveOccurred())
		Expect(syn.Weight()).To(BeNumerically("<", 3))
	})
})

var _ = Describe("HebbSNorm", func() {
	It("should redistribute weight toward the stronger input", func() {
		net := newNet()
		src := newSources(net, 1, 0.2)
		tgt := newTarget(net)
		strong := connect(net, src[0], tgt, HebbSNormConfig{LRate: 0.1}, 0.5)
		weak := connect(net, src[1], tgt, HebbSNormConfig{LRate: 0.1}, 0.5)

		_, _, _, err := net.Run(10.0)

		Expect(err).ToNot(HaveOccurred())
		Expect(strong.Weight()).To(BeNumerically(">", 0.5))
		Expect(weak.Weight()).To(BeNumerically("<", 0.5))
		Expect(weak.Weight()).To(BeNumerically(">=", 0))
	})

	It("should activate the input average on the target", func() {
		net := newNet()
		src := newSources(net, 1)
		tgt := newTarget(net)
		connect(net, src[0], tgt, HebbSNormConfig{LRate: 0.1}, 0.5)

		Expect(net.Unit(tgt).HasRequirement(sim.ReqInpAvg)).To(BeTrue())
		Expect(net.Unit(src[0]).HasRequirement(sim.ReqLPFFast)).To(BeTrue())
	})
})

var _ = Describe("InpCorr", func() {
	It("should keep error weights static and move predictor weights", func() {
		net := newNet()
		src := newSources(net, 1, 0.8)
		tgt := newTarget(net)
		errSyn := connect(net, src[0], tgt,
			InpCorrConfig{LRate: 0.1, Role: sim.RoleError}, 0.5)
		predSyn := connect(net, src[1], tgt,
			InpCorrConfig{LRate: 0.1, Role: sim.RolePredictor}, 0.5)

		// While the constant error input's fast filter leads its mid
		// filter, the error derivative is positive and the predictor,
		// itself active, potentiates.
		_, _, _, err := net.Run(3.0)

		Expect(err).ToNot(HaveOccurred())
		Expect(errSyn.Weight()).To(Equal(0.5))
		Expect(predSyn.Weight()).To(BeNumerically(">", 0.5))
	})

	It("should activate the error derivative on the target", func() {
		net := newNet()
		src := newSources(net, 1)
		tgt := newTarget(net)
		connect(net, src[0], tgt,
			InpCorrConfig{LRate: 0.1, Role: sim.RoleError}, 0.5)

		Expect(net.Unit(tgt).HasRequirement(sim.ReqErrDiff)).To(BeTrue())
		Expect(net.Unit(src[0]).HasRequirement(sim.ReqLPFFast)).To(BeTrue())
		Expect(net.Unit(src[0]).HasRequirement(sim.ReqLPFMid)).To(BeTrue())
	})
})

var _ = Describe("BCM", func() {
	It("should depress while activity sits below the threshold", func() {
		net := newNet()
		src := newSources(net, 1)
		ids, err := net.CreateUnits(1, sim.UnitConfig{
			Model:   units.LinearConfig{Tau: 0.5},
			InitVal: 1,
			TauFast: 0.2,
			TauMid:  1.0,
			TauSlow: 4.0,
		})
		Expect(err).ToNot(HaveOccurred())
		tgt := ids[0]
		syn := connect(net, src[0], tgt, BCMConfig{LRate: 0.02}, 0.5)

		// The sliding threshold starts at the initial activity and decays
		// slowly, so the weaker driven activity stays under it and the
		// early phase is anti-Hebbian.
		_, _, _, runErr := net.Run(3.0)

		Expect(runErr).ToNot(HaveOccurred())
		Expect(syn.Weight()).To(BeNumerically("<", 0.5))
	})

	It("should activate the sliding threshold on the target", func() {
		net := newNet()
		src := newSources(net, 1)
		tgt := newTarget(net)
		connect(net, src[0], tgt, BCMConfig{LRate: 0.02}, 0.5)

		Expect(net.Unit(tgt).HasRequirement(sim.ReqSqLPFSlow)).To(BeTrue())
	})
})

// testPlantConfig backs the plant-source rejection test with a minimal
// one-variable plant.
type testPlantConfig struct{}

func (testPlantConfig) ModelKind() string { return "synapse_test_plant" }

type testPlantModel struct{}

func (testPlantModel) Derivatives(
	p *sim.Plant,
	y []float64,
	t sim.VTimeInSec,
	dydt []float64,
) {
	dydt[0] = 0
}

func (testPlantModel) Dim() int             { return 1 }
func (testPlantModel) InpDim() int          { return 1 }
func (testPlantModel) InitState() []float64 { return []float64{0} }

func init() {
	sim.RegisterPlantModel("synapse_test_plant",
		func(p *sim.Plant, cfg sim.PlantModelConfig) (sim.PlantModel, error) {
			return testPlantModel{}, nil
		})
}
