package physics_test

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/hanoi3d/internal/dynamics"
	"github.com/san-kum/hanoi3d/internal/geometry"
	"github.com/san-kum/hanoi3d/internal/physics"
	"github.com/san-kum/hanoi3d/internal/scene"
)

func gatedLoader(gate <-chan struct{}) dynamics.Loader {
	return dynamics.LoaderFunc(func(ctx context.Context) (*dynamics.Module, error) {
		select {
		case <-gate:
			return dynamics.NewModule(), nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	})
}

func failingLoader(err error) dynamics.Loader {
	return dynamics.LoaderFunc(func(context.Context) (*dynamics.Module, error) {
		return nil, err
	})
}

var _ = Describe("Manager", func() {
	var (
		ctx    context.Context
		root   *scene.Object
		box    *scene.Object
		logger *log.Logger
	)

	BeforeEach(func() {
		var cancel context.CancelFunc
		ctx, cancel = context.WithCancel(context.Background())
		DeferCleanup(cancel)

		logger = log.New(io.Discard)
		root = scene.NewGroup("root")
		box = scene.NewObject("box", nil)
		box.SetPosition(0, 5, 0)
		root.Add(box)
	})

	newReady := func(cfg physics.Config) *physics.Manager {
		m := physics.NewManager(ctx, root, dynamics.DefaultLoader(), cfg, logger)
		Expect(m.Wait(ctx)).To(Succeed())
		return m
	}

	Describe("before the engine has loaded", func() {
		var (
			gate chan struct{}
			m    *physics.Manager
		)

		BeforeEach(func() {
			gate = make(chan struct{})
			m = physics.NewManager(ctx, root, gatedLoader(gate), physics.DefaultConfig(), logger)
		})

		It("is uninitialized", func() {
			Expect(m.State()).To(Equal(physics.StateUninitialized))
			Consistently(m.Ready()).ShouldNot(BeClosed())
		})

		It("adds nothing and reports not ready", func() {
			var outcome physics.Outcome
			var err error
			Expect(func() { outcome, err = m.AddObject(box, 1) }).NotTo(Panic())
			Expect(outcome).To(Equal(physics.NotReady))
			Expect(err).To(MatchError(physics.ErrNotReady))
			Expect(box.Physics).To(BeNil())
			Expect(m.NumBodies()).To(BeZero())
		})

		It("does not step", func() {
			Expect(m.Step(1.0 / 60)).To(BeZero())
			Expect(box.Position).To(Equal(mgl64.Vec3{0, 5, 0}))
		})

		It("becomes ready once the loader resolves", func() {
			close(gate)
			Eventually(m.Ready()).Should(BeClosed())
			Expect(m.State()).To(Equal(physics.StateReady))

			outcome, err := m.AddObject(box, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(outcome).To(Equal(physics.Added))
			Expect(box.Physics.Body).NotTo(BeNil())
		})

		It("lets Wait give up with the context", func() {
			waitCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
			defer cancel()
			Expect(m.Wait(waitCtx)).To(MatchError(context.DeadlineExceeded))
		})

		It("stays closed when the loader resolves after Close", func() {
			Expect(m.Close()).To(Succeed())
			Expect(m.Ready()).To(BeClosed())
			close(gate)
			Consistently(m.State, 50*time.Millisecond).Should(Equal(physics.StateClosed))
			Expect(m.Wait(ctx)).To(MatchError(physics.ErrClosed))
		})
	})

	Describe("when the engine fails to load", func() {
		It("reports the failure on every call", func() {
			boom := errors.New("boom")
			m := physics.NewManager(ctx, root, failingLoader(boom), physics.DefaultConfig(), logger)

			err := m.Wait(ctx)
			Expect(err).To(MatchError(physics.ErrEngineFailed))
			Expect(err).To(MatchError(boom))
			Expect(m.State()).To(Equal(physics.StateFailed))

			outcome, err := m.AddObject(box, 1)
			Expect(outcome).To(Equal(physics.NotReady))
			Expect(err).To(MatchError(physics.ErrEngineFailed))
			Expect(box.Physics).To(BeNil())
		})

		It("fails on an invalid config without loading", func() {
			cfg := physics.DefaultConfig()
			cfg.FixedTimeStep = 0
			m := physics.NewManager(ctx, root, nil, cfg, logger)
			Expect(m.State()).To(Equal(physics.StateFailed))
			Expect(m.Wait(ctx)).To(MatchError(physics.ErrEngineFailed))
		})
	})

	Describe("adding objects", func() {
		It("rejects nil objects", func() {
			m := newReady(physics.DefaultConfig())
			_, err := m.AddObject(nil, 1)
			Expect(err).To(MatchError(physics.ErrNilObject))
		})

		It("sizes the box from the object's scale", func() {
			box.SetScale(2, 4, 6)
			m := newReady(physics.DefaultConfig())
			_, err := m.AddObject(box, 1)
			Expect(err).NotTo(HaveOccurred())

			body, ok := m.Body(box)
			Expect(ok).To(BeTrue())
			Expect(body.Shape().HalfExtents).To(Equal(mgl64.Vec3{1, 2, 3}))
		})

		It("starts bodies at the identity transform by default", func() {
			m := newReady(physics.DefaultConfig())
			_, err := m.AddObject(box, 0)
			Expect(err).NotTo(HaveOccurred())

			pos, rot := box.Physics.Body.WorldTransform()
			Expect(pos).To(Equal(mgl64.Vec3{}))
			Expect(rot).To(Equal(mgl64.QuatIdent()))
		})

		It("computes inertia only for non-zero mass", func() {
			m := newReady(physics.DefaultConfig())
			other := scene.NewObject("other", nil)
			root.Add(other)

			_, err := m.AddObject(box, 0)
			Expect(err).NotTo(HaveOccurred())
			_, err = m.AddObject(other, 2)
			Expect(err).NotTo(HaveOccurred())

			static, _ := m.Body(box)
			dynamic, _ := m.Body(other)
			Expect(static.IsStatic()).To(BeTrue())
			Expect(static.InverseInertia()).To(Equal(mgl64.Vec3{}))
			Expect(dynamic.IsStatic()).To(BeFalse())
			Expect(dynamic.InverseInertia().Len()).To(BeNumerically(">", 0))
		})

		It("keeps the first body when an object is added twice", func() {
			m := newReady(physics.DefaultConfig())
			_, err := m.AddObject(box, 1)
			Expect(err).NotTo(HaveOccurred())
			first := box.Physics.Body

			outcome, err := m.AddObject(box, 3)
			Expect(err).NotTo(HaveOccurred())
			Expect(outcome).To(Equal(physics.Added))
			Expect(box.Physics.Body).To(BeIdenticalTo(first))
			Expect(m.NumBodies()).To(Equal(1))
		})

		It("fits bounds shapes to the geometry", func() {
			disk, err := geometry.NewDisk(geometry.DiskParams{Radius: 1, HoleRadius: 0.2, Height: 0.2})
			Expect(err).NotTo(HaveOccurred())
			root.Add(disk.Object())

			cfg := physics.DefaultConfig()
			cfg.Shape = physics.ShapeBounds
			cfg.SeedTransform = true
			m := newReady(cfg)
			_, err = m.AddObject(disk.Object(), 1)
			Expect(err).NotTo(HaveOccurred())

			body, _ := m.Body(disk.Object())
			min, max := body.AABB()
			Expect(min.Y()).To(BeNumerically("~", 0, 1e-6))
			Expect(max.Y()).To(BeNumerically("~", 0.2, 1e-6))
			Expect(max.X()).To(BeNumerically("~", 1, 1e-6))
		})
	})

	Describe("stepping", func() {
		It("never moves a zero-mass body", func() {
			cfg := physics.DefaultConfig()
			cfg.SeedTransform = true
			m := newReady(cfg)
			_, err := m.AddObject(box, 0)
			Expect(err).NotTo(HaveOccurred())

			for i := 0; i < 120; i++ {
				m.Step(1.0 / 60)
			}
			Expect(box.Position).To(Equal(mgl64.Vec3{0, 5, 0}))
		})

		It("drops a body with mass under gravity", func() {
			m := newReady(physics.DefaultConfig())
			_, err := m.AddObject(box, 1)
			Expect(err).NotTo(HaveOccurred())

			Expect(m.Step(1.0 / 60)).To(Equal(1))
			first := box.Position.Y()
			for i := 0; i < 30; i++ {
				m.Step(1.0 / 60)
			}
			Expect(box.Position.Y()).To(BeNumerically("<", first))
			Expect(box.Position.Y()).To(BeNumerically("<", 0))
		})

		It("clamps catch-up to the configured sub-steps", func() {
			m := newReady(physics.DefaultConfig())
			Expect(m.Step(1)).To(Equal(10))
		})

		It("writes world poses back into the parent's space", func() {
			group := scene.NewGroup("group")
			group.SetPosition(10, 0, 0)
			root.Add(group)
			group.Add(box)

			cfg := physics.DefaultConfig()
			cfg.SeedTransform = true
			m := newReady(cfg)
			_, err := m.AddObject(box, 0)
			Expect(err).NotTo(HaveOccurred())

			pos, _ := box.Physics.Body.WorldTransform()
			Expect(pos.Sub(mgl64.Vec3{10, 5, 0}).Len()).To(BeNumerically("<", 1e-9))

			m.Step(1.0 / 60)
			Expect(box.Position.Sub(mgl64.Vec3{0, 5, 0}).Len()).To(BeNumerically("<", 1e-9))
		})

		It("notifies observers after each step", func() {
			m := newReady(physics.DefaultConfig())
			_, err := m.AddObject(box, 1)
			Expect(err).NotTo(HaveOccurred())

			var calls int
			var seen []*scene.Object
			m.AddObserver(physics.ObserverFunc(func(t float64, objs []*scene.Object) {
				calls++
				seen = objs
			}))

			m.Step(1.0 / 60)
			m.Step(1.0 / 240)
			Expect(calls).To(Equal(1))
			Expect(seen).To(HaveLen(1))
			Expect(seen[0]).To(BeIdenticalTo(box))
		})

		It("runs on its own until the context ends", func() {
			m := newReady(physics.DefaultConfig())
			_, err := m.AddObject(box, 1)
			Expect(err).NotTo(HaveOccurred())

			runCtx, cancel := context.WithTimeout(ctx, 100*time.Millisecond)
			defer cancel()
			Expect(m.Run(runCtx)).To(MatchError(context.DeadlineExceeded))
			Expect(box.Position.Y()).To(BeNumerically("<", 0))
		})
	})

	Describe("SyncFromScene", func() {
		It("teleports bodies to their objects and stops them", func() {
			m := newReady(physics.DefaultConfig())
			_, err := m.AddObject(box, 1)
			Expect(err).NotTo(HaveOccurred())
			for i := 0; i < 10; i++ {
				m.Step(1.0 / 60)
			}

			box.SetPosition(3, 4, 5)
			m.SyncFromScene()

			body, _ := m.Body(box)
			pos, _ := body.WorldTransform()
			Expect(pos).To(Equal(mgl64.Vec3{3, 4, 5}))
			Expect(body.LinearVelocity()).To(Equal(mgl64.Vec3{}))
		})
	})

	Describe("Close", func() {
		It("removes bodies and refuses new ones", func() {
			m := newReady(physics.DefaultConfig())
			_, err := m.AddObject(box, 1)
			Expect(err).NotTo(HaveOccurred())

			Expect(m.Close()).To(Succeed())
			Expect(m.State()).To(Equal(physics.StateClosed))
			Expect(box.Physics.Body).To(BeNil())
			Expect(m.NumBodies()).To(BeZero())
			Expect(m.Step(1.0 / 60)).To(BeZero())

			_, err = m.AddObject(box, 1)
			Expect(err).To(MatchError(physics.ErrClosed))
			Expect(m.Close()).To(Succeed())
		})
	})
})
