package curvature_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/lorentz/internal/curvature"
	"github.com/san-kum/lorentz/internal/field"
	"github.com/san-kum/lorentz/internal/tensor"
)

var _ = Describe("Riemann tensor", func() {
	var ev *curvature.Evaluator

	BeforeEach(func() {
		ev = curvature.NewEvaluator(0)
	})

	Context("in flat spacetime", func() {
		DescribeTable("vanishes exactly",
			func(x tensor.Vec4) {
				rep := ev.At(field.Minkowski{}, x)
				Expect(rep.Scalar).To(BeZero())
				Expect(rep.Frobenius).To(BeZero())
				Expect(rep.Riemann).To(Equal(curvature.Riemann{}))
				Expect(rep.Pack.InvOK).To(BeTrue())
			},
			Entry("origin", tensor.Vec4{}),
			Entry("off axis", tensor.NewVec4(1, -2, 3.5, 0.25)),
			Entry("far", tensor.NewVec4(100, 200, -300, 400)),
		)
	})

	It("is antisymmetric in the last pair", func() {
		r := curvature.RiemannAt(field.NewGaussianBump(0.1, 1), tensor.NewVec4(0.1, 0.3, -0.2, 0.4), 0)
		for mu := 0; mu < tensor.Dim; mu++ {
			for nu := 0; nu < tensor.Dim; nu++ {
				for a := 0; a < tensor.Dim; a++ {
					for b := 0; b < tensor.Dim; b++ {
						Expect(r[mu][nu][a][b]).To(Equal(-r[mu][nu][b][a]))
					}
				}
			}
		}
		Expect(curvature.Frobenius(&r)).To(BeNumerically(">", 0))
	})

	Context("for a conformally flat field", func() {
		const a = 0.3
		f := field.Conformal{Phi: func(x tensor.Vec4) float64 { return a * x[1] }}

		It("has R = -6a² where φ vanishes", func() {
			Expect(ev.ScalarAt(f, tensor.Vec4{})).To(BeNumerically("~", -6*a*a, 1e-4))
		})

		It("scales with exp(-2φ) elsewhere", func() {
			x := tensor.NewVec4(0, 0.5, 0, 0)
			want := -6 * a * a * math.Exp(-2*a*0.5)
			Expect(ev.At(f, x).Scalar).To(BeNumerically("~", want, 1e-4))
		})
	})

	Context("outside a point mass", func() {
		s := field.NewSchwarzschild(1)
		x := tensor.NewVec4(0, 5, 0, 0)

		It("is Ricci flat but curved", func() {
			rep := ev.At(s, x)
			Expect(rep.Ricci.Frobenius()).To(BeNumerically("<", 1e-5))
			Expect(math.Abs(rep.Scalar)).To(BeNumerically("<", 1e-5))
			Expect(rep.Frobenius).To(BeNumerically(">", 1e-3))
			Expect(ev.FrobeniusAt(s, x)).To(Equal(rep.Frobenius))
		})

		It("has a vanishing Einstein tensor", func() {
			rep := ev.At(s, x)
			Expect(rep.Einstein.Mat().Frobenius()).To(BeNumerically("<", 1e-5))
		})
	})
})

var _ = Describe("contractions", func() {
	It("traces Ricci against the inverse metric", func() {
		ric := tensor.Diag(1, 2, 3, 4)
		Expect(curvature.Scalar(tensor.Minkowski().Mat(), ric)).To(Equal(8.0))
	})

	It("builds G = Ric - ½gR", func() {
		g := tensor.Minkowski()
		ric := tensor.Diag(0, 1, 1, 1)
		G := curvature.Einstein(ric, g, 3)
		Expect(G.At(0, 0)).To(Equal(1.5))
		Expect(G.At(1, 1)).To(Equal(-0.5))
	})

	It("sums the Frobenius norm without losing tiny components", func() {
		var r curvature.Riemann
		r[0][1][0][1] = 3e-200
		r[0][1][1][0] = -4e-200
		Expect(curvature.Frobenius(&r)).To(BeNumerically("~", 5e-200, 1e-210))
	})
})

var _ = Describe("field evaluations", func() {
	var (
		calls int
		seen  map[tensor.Vec4]int
		f     field.MetricField
	)

	BeforeEach(func() {
		calls = 0
		seen = map[tensor.Vec4]int{}
		bump := field.NewGaussianBump(0.1, 1)
		f = field.MetricFunc(func(x tensor.Vec4) tensor.Sym4 {
			calls++
			seen[x]++
			return bump.Metric(x)
		})
	})

	It("asks the field once per distinct position", func() {
		r := curvature.RiemannAt(f, tensor.Vec4{}, 0)
		Expect(calls).To(Equal(41))
		Expect(seen).To(HaveLen(41))
		for _, n := range seen {
			Expect(n).To(Equal(1))
		}
		Expect(r).To(Equal(curvature.RiemannAt(field.NewGaussianBump(0.1, 1), tensor.Vec4{}, 0)))
	})

	It("does not share values between points", func() {
		ev := curvature.NewEvaluator(0)
		ev.At(f, tensor.Vec4{})
		first := calls
		ev.At(f, tensor.Vec4{})
		Expect(calls).To(Equal(2 * first))
	})
})
