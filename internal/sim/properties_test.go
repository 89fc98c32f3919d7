package sim_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/catchsim/internal/dynamo"
	"github.com/san-kum/catchsim/internal/sim"
)

func meanAbs(xs []float64) float64 {
	sum := 0.0
	for _, x := range xs {
		sum += math.Abs(x)
	}
	return sum / float64(len(xs))
}

var _ = Describe("Simulator", func() {
	Context("on a flat track with stable gains", func() {
		var result *sim.Result

		BeforeEach(func() {
			sc := dynamo.DefaultScenario()
			sc.AngleDeg = 0

			var err error
			result, err = sim.New(sc).Run(nil)
			Expect(err).NotTo(HaveOccurred())
		})

		It("drives the tracking error towards zero", func() {
			errs := result.Errors()
			quarter := len(errs) / 4

			Expect(meanAbs(errs[len(errs)-quarter:])).To(BeNumerically("<", meanAbs(errs[:quarter])))
			Expect(math.Abs(errs[len(errs)-1])).To(BeNumerically("<", 0.05*math.Abs(errs[0])))
		})

		It("keeps the ball on the flat surface after landing", func() {
			Expect(result.LandingY).To(BeNumerically("~", 0, 1e-12))
			Expect(result.Records[len(result.Records)-1].BallHeight).To(BeNumerically("~", 0, 1e-12))
		})
	})

	DescribeTable("ball height is non-increasing and then frozen",
		func(angle, ballX, ballY0, trainX0 float64) {
			sc := dynamo.DefaultScenario()
			sc.AngleDeg, sc.BallX, sc.BallY0, sc.TrainX0 = angle, ballX, ballY0, trainX0

			result, err := sim.New(sc).Run(nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Outcome.Status.Terminal()).To(BeTrue())

			frozenFrom := result.Outcome.Step
			for i := 1; i < len(result.Records); i++ {
				Expect(result.Records[i].BallHeight).To(BeNumerically("<=", result.Records[i-1].BallHeight))
				if i >= frozenFrom {
					Expect(result.Records[i].BallHeight).To(Equal(result.LandingY))
				}
			}
		},
		Entry("concrete scenario", 30.0, 70.0, 100.0, 10.0),
		Entry("flat and near", 0.0, 30.0, 50.0, 25.0),
		Entry("steep and far", 45.0, 95.0, 99.0, 0.0),
	)

	It("catches a ball that falls almost onto the train", func() {
		sc := dynamo.DefaultScenario()
		sc.AngleDeg, sc.BallX, sc.BallY0, sc.TrainX0 = 0, 30, 50, 29

		result, err := sim.New(sc).Run(nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Caught()).To(BeTrue())
		Expect(result.Outcome.Distance).To(BeNumerically("<", 3.0))
	})

	It("misses when the ball lands immediately far from the train", func() {
		sc := dynamo.DefaultScenario()
		sc.AngleDeg, sc.BallX, sc.BallY0, sc.TrainX0 = 0, 90, 0.5, 0

		result, err := sim.New(sc).Run(nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Caught()).To(BeFalse())
		Expect(result.Outcome.Step).To(BeNumerically("<=", 20))
		Expect(result.Records).To(HaveLen(2000))
	})

	It("is deterministic", func() {
		sc := dynamo.DefaultScenario()
		a, err := sim.New(sc).Run(nil)
		Expect(err).NotTo(HaveOccurred())
		b, err := sim.New(sc).Run(nil)
		Expect(err).NotTo(HaveOccurred())

		Expect(a.Records).To(Equal(b.Records))
		Expect(a.Outcome).To(Equal(b.Outcome))
	})
})
