package systems

import (
	"math"
	"math/rand"
	"testing"

	"github.com/gonewx/clubhero/pkg/components"
	"github.com/gonewx/clubhero/pkg/ecs"
)

func newTestParticleField(width, height int) (*ParticleFieldSystem, *ecs.EntityManager) {
	em := ecs.NewEntityManager()
	s := NewParticleFieldSystem(em, rand.New(rand.NewSource(11)))
	s.Init(width, height)
	return s, em
}

func TestParticleFieldCount(t *testing.T) {
	tests := []struct {
		width, height int
		want          int
	}{
		{1920, 1080, 100},
		{1280, 720, 61},
		{400, 300, 8},
		{0, 600, 0},
		{-5, 600, 0},
	}
	for _, tt := range tests {
		s, em := newTestParticleField(tt.width, tt.height)
		if s.Count() != tt.want {
			t.Errorf("%dx%d: Count() = %d, want %d", tt.width, tt.height, s.Count(), tt.want)
		}
		if em.Count() != tt.want {
			t.Errorf("%dx%d: %d entities alive, want %d", tt.width, tt.height, em.Count(), tt.want)
		}
	}
}

func TestParticleFieldResizeRebuildsPool(t *testing.T) {
	s, em := newTestParticleField(1920, 1080)
	s.Resize(800, 600)
	if s.Count() != 32 || em.Count() != 32 {
		t.Errorf("after resize: Count()=%d entities=%d, want 32", s.Count(), em.Count())
	}
	for _, id := range ecs.GetEntitiesWith1[*components.AmbientParticleComponent](em) {
		p, _ := ecs.GetComponent[*components.AmbientParticleComponent](em, id)
		if p.X > 800 || p.Y > 600 {
			t.Errorf("particle (%v,%v) outside the resized surface", p.X, p.Y)
		}
	}
}

func TestParticleFieldDeltaCap(t *testing.T) {
	s, em := newTestParticleField(800, 600)
	id := s.particles[0]
	p, _ := ecs.GetComponent[*components.AmbientParticleComponent](em, id)
	p.X, p.Y = 400, 300
	p.VX, p.VY = 0.1, -0.1
	p.Phase = 0

	// 500ms 按 33ms 计算
	s.Update(0.5)

	wantX := 400 + 0.1*(33.0/16.0)
	if math.Abs(p.X-wantX) > 1e-9 {
		t.Errorf("X = %v, want %v (dt capped to 33ms)", p.X, wantX)
	}
	wantPhase := p.Speed * 0.033
	if math.Abs(p.Phase-wantPhase) > 1e-9 {
		t.Errorf("Phase = %v, want %v", p.Phase, wantPhase)
	}
}

func TestParticleFieldWrapAround(t *testing.T) {
	s, em := newTestParticleField(800, 600)
	p, _ := ecs.GetComponent[*components.AmbientParticleComponent](em, s.particles[0])

	p.X, p.Y = 799.99, 0.01
	p.VX, p.VY = 0.15, -0.15
	s.Update(0.016)
	if p.X != 0 {
		t.Errorf("X = %v, want wrap to 0", p.X)
	}
	if p.Y != 600 {
		t.Errorf("Y = %v, want wrap to 600", p.Y)
	}
}

func TestParticleFieldOpacityPulse(t *testing.T) {
	s, em := newTestParticleField(1280, 720)
	for i := 0; i < 200; i++ {
		s.Update(0.016)
	}
	for _, id := range s.particles {
		p, _ := ecs.GetComponent[*components.AmbientParticleComponent](em, id)
		want := p.BaseOpacity * (0.7 + 0.3*math.Sin(p.Phase))
		if math.Abs(p.Opacity-want) > 1e-12 {
			t.Fatalf("opacity %v, want %v", p.Opacity, want)
		}
		if p.Opacity < p.BaseOpacity*0.4-1e-12 || p.Opacity > p.BaseOpacity+1e-12 {
			t.Fatalf("opacity %v outside pulse range for base %v", p.Opacity, p.BaseOpacity)
		}
		if p.X < 0 || p.X > 1280 || p.Y < 0 || p.Y > 720 {
			t.Fatalf("particle (%v,%v) escaped the surface", p.X, p.Y)
		}
	}
}

func TestParticleFieldClear(t *testing.T) {
	s, em := newTestParticleField(1920, 1080)
	s.Clear()
	s.Clear()
	if s.Count() != 0 || em.Count() != 0 {
		t.Errorf("Clear left %d particles / %d entities", s.Count(), em.Count())
	}
	s.Update(0.016) // 空池不应 panic
}
