package entities

import (
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gonewx/clubhero/pkg/components"
	"github.com/gonewx/clubhero/pkg/config"
	"github.com/gonewx/clubhero/pkg/ecs"
)

func TestCubeCorners(t *testing.T) {
	corners := CubeCorners(2)
	seen := make(map[mgl64.Vec3]bool)
	for _, c := range corners {
		for axis := 0; axis < 3; axis++ {
			if math.Abs(math.Abs(c[axis])-1) > 1e-12 {
				t.Errorf("corner %v is not at ±1 on axis %d", c, axis)
			}
		}
		seen[c] = true
	}
	if len(seen) != components.ClusterParticleCount {
		t.Errorf("got %d distinct corners, want %d", len(seen), components.ClusterParticleCount)
	}
}

func TestCubeEdgesConnectAdjacentCorners(t *testing.T) {
	corners := CubeCorners(1)
	for _, e := range CubeEdges {
		d := corners[e[0]].Sub(corners[e[1]]).Len()
		if math.Abs(d-1) > 1e-12 {
			t.Errorf("edge %v has length %v, want 1", e, d)
		}
	}
}

func TestNewAnchorEntity(t *testing.T) {
	em := ecs.NewEntityManager()
	cfg := config.DefaultFormationConfig()
	rng := rand.New(rand.NewSource(1))

	jitter := 0.4
	anchor := config.AnchorConfig{
		ID:       "workshops",
		Position: [3]float64{-2, 1, 0},
		Jitter:   &jitter,
		Title:    "Workshops",
		Body:     "Hands-on sessions",
	}
	id := NewAnchorEntity(em, anchor, cfg, rng)

	a, ok := ecs.GetComponent[*components.AnchorComponent](em, id)
	if !ok {
		t.Fatal("anchor component missing")
	}
	if a.ID != "workshops" || a.Position != (mgl64.Vec3{-2, 1, 0}) || a.Jitter != 0.4 {
		t.Errorf("unexpected anchor component %+v", a)
	}

	cluster, ok := ecs.GetComponent[*components.ClusterComponent](em, id)
	if !ok {
		t.Fatal("cluster component missing")
	}
	for i, p := range cluster.Particles {
		for axis := 0; axis < 3; axis++ {
			if math.Abs(p.Scatter[axis]) > jitter {
				t.Errorf("particle %d scatter %v exceeds jitter", i, p.Scatter)
			}
			if p.Phase[axis] < 0 || p.Phase[axis] >= 2*math.Pi {
				t.Errorf("particle %d phase %v out of range", i, p.Phase)
			}
		}
		if p.Amplitude < cfg.MinFloatAmplitude || p.Amplitude > cfg.MaxFloatAmplitude {
			t.Errorf("particle %d amplitude %v out of range", i, p.Amplitude)
		}
	}

	state, ok := ecs.GetComponent[*components.FormationStateComponent](em, id)
	if !ok {
		t.Fatal("formation state missing")
	}
	if state.FadeOut != 1 || state.Progress != 0 || state.IsHovered {
		t.Errorf("formation state not neutral: %+v", state)
	}
}

func TestNewAnchorEntityDefaultJitter(t *testing.T) {
	em := ecs.NewEntityManager()
	cfg := config.DefaultFormationConfig()
	id := NewAnchorEntity(em, config.AnchorConfig{ID: "x", Title: "X"}, cfg, rand.New(rand.NewSource(2)))

	a, _ := ecs.GetComponent[*components.AnchorComponent](em, id)
	if a.Jitter != cfg.DefaultJitter {
		t.Errorf("Jitter = %v, want default %v", a.Jitter, cfg.DefaultJitter)
	}
}
