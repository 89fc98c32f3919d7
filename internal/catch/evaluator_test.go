package catch_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/catchsim/internal/catch"
)

var _ = Describe("Evaluator", func() {
	const (
		ballX    = 70.0
		landingY = 40.0
	)

	var ev *catch.Evaluator

	BeforeEach(func() {
		ev = catch.New(ballX, landingY)
	})

	It("starts pending", func() {
		Expect(ev.Status()).To(Equal(catch.Pending))
		Expect(ev.Outcome().Step).To(Equal(-1))
		Expect(ev.Transitions()).To(BeZero())
	})

	It("stays pending while the ball is high", func() {
		Expect(ev.Observe(0, 0, ballX, 100)).To(Equal(catch.Pending))
		Expect(ev.Height(100)).To(Equal(100.0))
	})

	It("catches when the train is close and the ball is within the vertical band", func() {
		ev.Observe(0, 0.0, 10, 90)
		Expect(ev.Observe(1, 0.02, ballX-2.5, landingY+0.8)).To(Equal(catch.Caught))

		out := ev.Outcome()
		Expect(out.Step).To(Equal(1))
		Expect(out.Time).To(BeNumerically("~", 0.02))
		Expect(out.Distance).To(BeNumerically("~", 2.5))
	})

	It("uses a strict horizontal tolerance", func() {
		Expect(ev.Observe(0, 0, ballX-catch.HorizontalTolerance, landingY)).To(Equal(catch.Missed))
	})

	It("waits inside the vertical band while the train approaches", func() {
		Expect(ev.Observe(0, 0, ballX-10, landingY+0.5)).To(Equal(catch.Pending))
		Expect(ev.Observe(1, 0.02, ballX-1, landingY+0.2)).To(Equal(catch.Caught))
	})

	It("misses when the ball lands away from the train", func() {
		Expect(ev.Observe(0, 3.5, ballX-20, landingY)).To(Equal(catch.Missed))
		Expect(ev.Outcome().Distance).To(BeNumerically("~", 20))
	})

	DescribeTable("terminal states are absorbing",
		func(first func(*catch.Evaluator), want catch.Status) {
			first(ev)
			Expect(ev.Status()).To(Equal(want))

			ev.Observe(10, 5, ballX, landingY)
			ev.Observe(11, 5.02, 0, landingY)
			ev.Observe(12, 5.04, ballX, 200)

			Expect(ev.Status()).To(Equal(want))
			Expect(ev.Transitions()).To(Equal(1))
		},
		Entry("caught", func(e *catch.Evaluator) { e.Observe(0, 0, ballX, landingY) }, catch.Caught),
		Entry("missed", func(e *catch.Evaluator) { e.Observe(0, 0, 0, landingY) }, catch.Missed),
	)

	It("freezes the reported height once terminal", func() {
		ev.Observe(0, 0, ballX, landingY+0.5)
		Expect(ev.Status()).To(Equal(catch.Caught))
		Expect(ev.Height(landingY + 0.5)).To(Equal(landingY))
		Expect(ev.Height(95)).To(Equal(landingY))
	})
})

var _ = Describe("Status", func() {
	It("round-trips through text", func() {
		for _, s := range []catch.Status{catch.Pending, catch.Caught, catch.Missed} {
			b, err := s.MarshalText()
			Expect(err).NotTo(HaveOccurred())

			var got catch.Status
			Expect(got.UnmarshalText(b)).To(Succeed())
			Expect(got).To(Equal(s))
		}
	})

	It("rejects unknown names", func() {
		got := catch.Caught
		Expect(got.UnmarshalText([]byte("landed"))).NotTo(Succeed())
		Expect(got.UnmarshalText([]byte(""))).NotTo(Succeed())
		Expect(got).To(Equal(catch.Caught))
	})
})
