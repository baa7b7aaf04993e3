package geodesic_test

import (
	"context"
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/lorentz/internal/field"
	"github.com/san-kum/lorentz/internal/geodesic"
	"github.com/san-kum/lorentz/internal/tensor"
)

type countMetric struct{ n int }

func (c *countMetric) Name() string                                 { return "count" }
func (c *countMetric) Observe(geodesic.State, geodesic.StepReport) { c.n++ }
func (c *countMetric) Value() float64                               { return float64(c.n) }
func (c *countMetric) Reset()                                       { c.n = 0 }

type recorder struct{ taus []float64 }

func (r *recorder) OnStep(s geodesic.State, _ geodesic.StepReport) { r.taus = append(r.taus, s.Tau) }

var _ = Describe("Step", func() {
	eta := tensor.Minkowski()

	Context("in flat spacetime", func() {
		It("moves a particle at rest along the time axis", func() {
			x, u := tensor.Vec4{}, tensor.NewVec4(1, 0, 0, 0)
			const dtau, n = 0.1, 10
			for i := 0; i < n; i++ {
				var rep geodesic.StepReport
				x, u, rep = geodesic.Step(field.Minkowski{}, nil, x, u, dtau, 0)
				Expect(rep.InvOK).To(BeTrue())
				Expect(rep.Renormalized).To(BeTrue())
			}
			Expect(x[0]).To(BeNumerically("~", n*dtau, 1e-12))
			Expect(x[1:]).To(Equal([]float64{0, 0, 0}))
			Expect(u).To(Equal(tensor.NewVec4(1, 0, 0, 0)))
		})

		It("keeps a boosted particle on a straight line", func() {
			x, u := tensor.Vec4{}, tensor.NewVec4(1.25, 0.75, 0, 0)
			for i := 0; i < 100; i++ {
				x, u, _ = geodesic.Step(field.Minkowski{}, field.ZeroPotential{}, x, u, 0.05, 0)
			}
			Expect(x[0]).To(BeNumerically("~", 100*0.05*1.25, 1e-10))
			Expect(x[1]).To(BeNumerically("~", 100*0.05*0.75, 1e-10))
			Expect(tensor.QuadForm(eta.Mat(), u)).To(BeNumerically("~", -1, 1e-12))
		})

		It("leaves a spacelike velocity alone after the update", func() {
			u0 := tensor.NewVec4(0, 1, 0, 0)
			_, u, rep := geodesic.Step(field.Minkowski{}, nil, tensor.Vec4{}, u0, 0.1, 0)
			Expect(rep.Renormalized).To(BeFalse())
			Expect(rep.Norm).To(Equal(1.0))
			Expect(u).To(Equal(u0))
		})
	})

	It("is pulled toward the minimum of a radial potential", func() {
		x0 := tensor.NewVec4(0, 1, 0, 0)
		x, u, rep := geodesic.Step(field.Minkowski{}, field.Radial{K: 1}, x0, tensor.NewVec4(1, 0, 0, 0), 0.01, 0)
		Expect(rep.Renormalized).To(BeTrue())
		Expect(x[1]).To(BeNumerically("<", 1))
		Expect(u[1]).To(BeNumerically("~", -0.01, 1e-6))
		Expect(tensor.QuadForm(eta.Mat(), u)).To(BeNumerically("~", -1, 1e-12))
	})

	It("falls inward outside a point mass", func() {
		s := field.NewSchwarzschild(1)
		st := geodesic.State{X: tensor.NewVec4(0, 10, 0, 0)}
		st.U, _ = geodesic.RenormalizeTimelike(s.Metric(st.X), tensor.NewVec4(1, 0, 0, 0))
		stepper := geodesic.NewStepper(s, nil)
		for i := 0; i < 20; i++ {
			stepper.Step(&st, 0.1)
		}
		Expect(st.X[1]).To(BeNumerically("<", 10))
		Expect(st.Tau).To(BeNumerically("~", 2, 1e-12))
		Expect(tensor.QuadForm(s.Metric(st.X).Mat(), st.U)).To(BeNumerically("~", -1, 1e-12))
	})
})

var _ = Describe("RenormalizeTimelike", func() {
	g := field.NewSchwarzschild(1).Metric(tensor.NewVec4(0, 4, 1, -2))

	It("lands on the unit shell and is idempotent", func() {
		u1, ok := geodesic.RenormalizeTimelike(g, tensor.NewVec4(3, 0.2, -0.1, 0.4))
		Expect(ok).To(BeTrue())
		Expect(tensor.QuadForm(g.Mat(), u1)).To(BeNumerically("~", -1, 1e-12))

		u2, ok := geodesic.RenormalizeTimelike(g, u1)
		Expect(ok).To(BeTrue())
		for i := range u1 {
			Expect(u2[i]).To(BeNumerically("~", u1[i], 1e-14))
		}
	})

	DescribeTable("skips non-timelike vectors",
		func(u tensor.Vec4) {
			out, ok := geodesic.RenormalizeTimelike(tensor.Minkowski(), u)
			Expect(ok).To(BeFalse())
			Expect(out).To(Equal(u))
		},
		Entry("spacelike", tensor.NewVec4(0, 1, 0, 0)),
		Entry("null", tensor.NewVec4(1, 1, 0, 0)),
		Entry("zero", tensor.Vec4{}),
	)
})

var _ = Describe("ParseScheme", func() {
	It("routes rk4 to the Verlet step", func() {
		Expect(geodesic.ParseScheme("RK4")).To(Equal(geodesic.SchemeVerlet))
		Expect(geodesic.ParseScheme("")).To(Equal(geodesic.SchemeVerlet))
	})

	It("rejects unknown names", func() {
		_, err := geodesic.ParseScheme("euler")
		Expect(err).To(MatchError(geodesic.ErrUnknownScheme))
	})
})

var _ = Describe("Runner", func() {
	var (
		runner *geodesic.Runner
		start  geodesic.State
	)

	BeforeEach(func() {
		runner = geodesic.NewRunner(geodesic.NewStepper(field.Minkowski{}, nil))
		start = geodesic.State{U: tensor.NewVec4(1, 0, 0, 0)}
	})

	It("records every state and feeds metrics and observers", func() {
		m, rec := &countMetric{}, &recorder{}
		runner.AddMetric(m)
		runner.AddObserver(rec)

		res, err := runner.Run(context.Background(), start, geodesic.Config{Dtau: 0.5, Steps: 4})
		Expect(err).NotTo(HaveOccurred())
		Expect(res.StepsTaken).To(Equal(4))
		Expect(res.States).To(HaveLen(5))
		Expect(res.Reports).To(HaveLen(4))
		Expect(res.Renormalized).To(Equal(4))
		Expect(res.Skipped).To(BeZero())
		Expect(res.InversionFailures).To(BeZero())
		Expect(res.MaxNormDrift).To(BeNumerically("<", 1e-12))
		Expect(res.Metrics).To(HaveKeyWithValue("count", 4.0))
		Expect(rec.taus).To(Equal([]float64{0.5, 1, 1.5, 2}))
		Expect(res.States[4].X[0]).To(BeNumerically("~", 2, 1e-12))
	})

	DescribeTable("rejects invalid configurations",
		func(cfg geodesic.Config) {
			res, err := runner.Run(context.Background(), start, cfg)
			Expect(res).To(BeNil())
			Expect(errors.Is(err, geodesic.ErrInvalidConfig)).To(BeTrue())
		},
		Entry("zero dtau", geodesic.Config{Dtau: 0, Steps: 1}),
		Entry("negative dtau", geodesic.Config{Dtau: -0.1, Steps: 1}),
		Entry("NaN dtau", geodesic.Config{Dtau: math.NaN(), Steps: 1}),
		Entry("no steps", geodesic.Config{Dtau: 0.1}),
	)

	It("stops on cancellation with a partial result", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		res, err := runner.Run(ctx, start, geodesic.Config{Dtau: 0.1, Steps: 10})
		Expect(err).To(MatchError(context.Canceled))
		Expect(res.States).To(HaveLen(1))
		Expect(res.StepsTaken).To(BeZero())
	})

	It("reports a non-finite state with its step", func() {
		nan := field.PotentialFunc(func(tensor.Vec4) float64 { return math.NaN() })
		runner = geodesic.NewRunner(geodesic.NewStepper(field.Minkowski{}, nan))

		res, err := runner.Run(context.Background(), start, geodesic.Config{Dtau: 0.1, Steps: 10, ValidateState: true})
		Expect(err).To(MatchError(geodesic.ErrNonFinite))

		var se *geodesic.StepError
		Expect(errors.As(err, &se)).To(BeTrue())
		Expect(se.Step).To(Equal(0))
		Expect(res.StepsTaken).To(BeZero())
	})
})
