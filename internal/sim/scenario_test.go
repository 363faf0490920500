package sim

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/gravsim/internal/body"
	"github.com/san-kum/gravsim/internal/vecmath"
)

var _ = Describe("two-body reference scenario", func() {
	var (
		cfg    Config
		result *Result
	)

	BeforeEach(func() {
		cfg = DefaultConfig()
		cfg.Steps = 1
	})

	JustBeforeEach(func() {
		var err error
		result, err = New().Run(context.Background(), cfg)
		Expect(err).NotTo(HaveOccurred())
	})

	Context("after one iteration", func() {
		It("moves body A toward B along the diagonal", func() {
			p := result.Final[0].Position
			Expect(p.X).To(BeNumerically(">", 0))
			Expect(p.Y).To(Equal(p.X))
			Expect(p.Z).To(Equal(p.X))
		})

		It("moves body B toward A along the diagonal", func() {
			p := result.Final[1].Position
			Expect(p.X).To(BeNumerically("<", 10))
			Expect(p.Y).To(Equal(p.X))
			Expect(p.Z).To(Equal(p.X))
		})

		It("gives each body equal velocity components pointing at the other", func() {
			va := result.Final[0].Velocity
			vb := result.Final[1].Velocity
			Expect(va.X).To(BeNumerically(">", 0))
			Expect(va.Y).To(Equal(va.X))
			Expect(va.Z).To(Equal(va.X))
			Expect(vb.X).To(BeNumerically("<", 0))
			Expect(vb.Y).To(Equal(vb.X))
			Expect(vb.Z).To(Equal(vb.X))
		})

		It("displaces each body by G*m/d² * dt²", func() {
			d := math.Sqrt(300)
			dt := float64(cfg.Dt)

			wantA := float64(body.G) * 15.1e24 / (d * d) * dt * dt
			wantB := float64(body.G) * 5.1e24 / (d * d) * dt * dt

			moveA := float64(vecmath.Distance(result.Final[0].Position, result.Initial[0].Position))
			moveB := float64(vecmath.Distance(result.Final[1].Position, result.Initial[1].Position))

			Expect(moveA).To(BeNumerically("~", wantA, wantA*1e-5))
			Expect(moveB).To(BeNumerically("~", wantB, wantB*1e-5))
		})

		It("reports t equal to one time step", func() {
			Expect(result.Time).To(Equal(cfg.Dt))
		})
	})

	Context("with zero iterations", func() {
		BeforeEach(func() {
			cfg.Steps = 0
		})

		It("leaves both bodies at their construction values", func() {
			Expect(result.Final[0]).To(Equal(body.New(0, 0, 0, 5.1e24)))
			Expect(result.Final[1]).To(Equal(body.New(10, 10, 10, 15.1e24)))
		})
	})

	Context("with coincident bodies", func() {
		BeforeEach(func() {
			cfg.Bodies[1].Position = cfg.Bodies[0].Position
		})

		It("propagates non-finite values instead of failing", func() {
			Expect(result.Final[0].Velocity.IsFinite()).To(BeFalse())
			Expect(result.Final[1].Velocity.IsFinite()).To(BeFalse())
		})
	})
})

var _ = Describe("Step", func() {
	It("conserves total momentum to single precision", func() {
		bodies := [2]body.Body{body.New(0, 0, 0, 5.1e24), body.New(10, 10, 10, 15.1e24)}
		Step(&bodies, 0.1)

		pa := bodies[0].Momentum().Float64s()
		pb := bodies[1].Momentum().Float64s()
		for i := 0; i < 3; i++ {
			Expect(pa[i] + pb[i]).To(BeNumerically("~", 0, math.Abs(pa[i])*1e-5))
		}
	})
})
