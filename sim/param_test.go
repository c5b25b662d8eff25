package sim

import (
	"math"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ParamSpec", func() {
	var rng *rand.Rand

	BeforeEach(func() {
		rng = rand.New(rand.NewSource(1))
	})

	It("should repeat a fixed value", func() {
		vals, err := Fixed(0.25).sample(rng, 4)

		Expect(err).ToNot(HaveOccurred())
		Expect(vals).To(Equal([]float64{0.25, 0.25, 0.25, 0.25}))
	})

	It("should draw uniform values inside the given range", func() {
		vals, err := Uniform(-1, 1).sample(rng, 100)

		Expect(err).ToNot(HaveOccurred())
		for _, v := range vals {
			Expect(v).To(BeNumerically(">=", -1))
			Expect(v).To(BeNumerically("<", 1))
		}
	})

	It("should reject an inverted uniform range", func() {
		_, err := Uniform(1, -1).sample(rng, 3)

		Expect(err).To(HaveOccurred())
		var cfgErr *ConfigError
		Expect(err).To(BeAssignableToTypeOf(cfgErr))
	})

	It("should reject an unknown distribution", func() {
		_, err := ParamSpec{Distribution: "gaussian"}.sample(rng, 3)

		Expect(err).To(HaveOccurred())
	})

	Describe("delay sampling", func() {
		It("should round fixed delays to a multiple of the minimum delay",
			func() {
				delays, err := Fixed(0.74).sampleDelays(rng, 2, 0.5)

				Expect(err).ToNot(HaveOccurred())
				Expect(delays).To(HaveLen(2))
				Expect(float64(delays[0])).To(BeNumerically("~", 0.5, 1e-12))
			})

		It("should floor delays at one minimum delay", func() {
			delays, err := Fixed(0.01).sampleDelays(rng, 1, 0.5)

			Expect(err).ToNot(HaveOccurred())
			Expect(float64(delays[0])).To(BeNumerically("~", 0.5, 1e-12))
		})

		It("should reject negative delays", func() {
			_, err := Fixed(-0.5).sampleDelays(rng, 1, 0.5)

			Expect(err).To(HaveOccurred())
		})

		It("should keep uniform delays on the schedulable grid", func() {
			delays, err := Uniform(0.5, 3).sampleDelays(rng, 50, 0.5)

			Expect(err).ToNot(HaveOccurred())
			for _, d := range delays {
				steps := float64(d) / 0.5
				Expect(steps - math.Round(steps)).To(
					BeNumerically("~", 0, 1e-9))
				Expect(float64(d)).To(BeNumerically(">=", 0.5))
			}
		})
	})
})
