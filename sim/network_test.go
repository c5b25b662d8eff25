package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Network", func() {
	var net *Network

	BeforeEach(func() {
		net = newTestNetwork(0.5, 10)
	})

	Describe("construction", func() {
		It("should reject a non-positive minimum delay", func() {
			_, err := NewNetwork(NetworkConfig{
				MinDelay:    0,
				MinBuffSize: 10,
				Integrator:  fixtureEuler{},
			})

			Expect(err).To(BeAssignableToTypeOf(&ConfigError{}))
		})

		It("should reject a buffer size below two", func() {
			_, err := NewNetwork(NetworkConfig{
				MinDelay:    0.5,
				MinBuffSize: 1,
				Integrator:  fixtureEuler{},
			})

			Expect(err).To(BeAssignableToTypeOf(&ConfigError{}))
		})

		It("should require an integrator", func() {
			_, err := NewNetwork(NetworkConfig{
				MinDelay:    0.5,
				MinBuffSize: 10,
			})

			Expect(err).To(BeAssignableToTypeOf(&ConfigError{}))
		})
	})

	Describe("unit creation", func() {
		It("should number units consecutively", func() {
			idsA, err := net.CreateUnits(3, UnitConfig{
				Model: fixtureSourceConfig{},
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(idsA).To(Equal([]int{0, 1, 2}))

			idsB, err := net.CreateUnits(2, UnitConfig{
				Model: fixtureLinearConfig{tau: 1},
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(idsB).To(Equal([]int{3, 4}))
			Expect(net.NumUnits()).To(Equal(5))
		})

		It("should dispatch through Create", func() {
			ids, err := net.Create(2, UnitConfig{
				Model: fixtureSourceConfig{},
			})

			Expect(err).ToNot(HaveOccurred())
			Expect(ids).To(Equal([]int{0, 1}))
		})

		It("should reject a non-positive count", func() {
			_, err := net.CreateUnits(0, UnitConfig{
				Model: fixtureSourceConfig{},
			})

			Expect(err).To(BeAssignableToTypeOf(&ConfigError{}))
		})

		It("should require a model config", func() {
			_, err := net.CreateUnits(1, UnitConfig{})

			Expect(err).To(BeAssignableToTypeOf(&ConfigError{}))
		})

		It("should reject an unregistered model kind", func() {
			_, err := net.CreateUnits(1, UnitConfig{
				Model: fixtureUnknownConfig{},
			})

			Expect(err).To(BeAssignableToTypeOf(&ModelError{}))
		})

		It("should reject a mismatched InitVals length", func() {
			_, err := net.CreateUnits(3, UnitConfig{
				Model:    fixtureSourceConfig{},
				InitVals: []float64{1, 2},
			})

			Expect(err).To(BeAssignableToTypeOf(&ConfigError{}))
		})

		It("should reject a mismatched Positions length", func() {
			_, err := net.CreateUnits(2, UnitConfig{
				Model:     fixtureSourceConfig{},
				Positions: []Position{{X: 0, Y: 0}},
			})

			Expect(err).To(BeAssignableToTypeOf(&ConfigError{}))
		})

		It("should reject a delay off the scheduling grid", func() {
			_, err := net.CreateUnits(1, UnitConfig{
				Model: fixtureLinearConfig{tau: 1},
				Delay: 0.7,
			})

			Expect(err).To(BeAssignableToTypeOf(&ConfigError{}))
		})

		It("should assign per-unit initial values", func() {
			ids, err := net.CreateUnits(2, UnitConfig{
				Model:    fixtureLinearConfig{tau: 1},
				InitVals: []float64{0.2, 0.8},
			})

			Expect(err).ToNot(HaveOccurred())
			Expect(net.Unit(ids[0]).Act(0)).To(Equal(0.2))
			Expect(net.Unit(ids[1]).Act(0)).To(Equal(0.8))
		})

		It("should refuse unit creation after the run started", func() {
			_, _, _, err := net.Run(0.5)
			Expect(err).ToNot(HaveOccurred())

			_, err = net.CreateUnits(1, UnitConfig{
				Model: fixtureSourceConfig{},
			})

			Expect(err).To(BeAssignableToTypeOf(&ConfigError{}))
		})
	})

	Describe("plant creation", func() {
		It("should number plants independently from units", func() {
			_, err := net.CreateUnits(2, UnitConfig{
				Model: fixtureSourceConfig{},
			})
			Expect(err).ToNot(HaveOccurred())

			id, err := net.CreatePlant(PlantConfig{
				Model: fixturePlantConfig{},
			})

			Expect(err).ToNot(HaveOccurred())
			Expect(id).To(Equal(0))
			Expect(net.NumPlants()).To(Equal(1))
			Expect(net.Plant(id).Dim()).To(Equal(2))
			Expect(net.Plant(id).InpDim()).To(Equal(2))
		})

		It("should start from the model's initial state", func() {
			id, err := net.CreatePlant(PlantConfig{
				Model: fixturePlantConfig{init: [2]float64{0.3, -0.1}},
			})

			Expect(err).ToNot(HaveOccurred())
			Expect(net.Plant(id).State(0)).To(Equal([]float64{0.3, -0.1}))
		})

		It("should reject an unregistered model kind", func() {
			_, err := net.CreatePlant(PlantConfig{
				Model: fixtureUnknownConfig{},
			})

			Expect(err).To(BeAssignableToTypeOf(&ModelError{}))
		})

		It("should reject a delay off the scheduling grid", func() {
			_, err := net.CreatePlant(PlantConfig{
				Model: fixturePlantConfig{},
				Delay: 0.3,
			})

			Expect(err).To(BeAssignableToTypeOf(&ConfigError{}))
		})
	})
})

// fixtureUnknownConfig carries a kind tag no factory is registered for.
type fixtureUnknownConfig struct{}

func (fixtureUnknownConfig) ModelKind() string { return "fixture_unknown" }
