package entities

import (
	"math"
	"math/rand"

	"github.com/gonewx/clubhero/pkg/components"
	"github.com/gonewx/clubhero/pkg/config"
	"github.com/gonewx/clubhero/pkg/ecs"
)

// NewAmbientParticleEntity 在 [0,width]×[0,height] 内随机创建一个背景粒子
func NewAmbientParticleEntity(em *ecs.EntityManager, rng *rand.Rand, width, height float64) ecs.EntityID {
	entity := em.CreateEntity()

	p := &components.AmbientParticleComponent{
		X:           rng.Float64() * width,
		Y:           rng.Float64() * height,
		VX:          uniform(rng, -config.ParticleMaxVelocity, config.ParticleMaxVelocity),
		VY:          uniform(rng, -config.ParticleMaxVelocity, config.ParticleMaxVelocity),
		Radius:      uniform(rng, config.ParticleMinRadius, config.ParticleMaxRadius),
		BaseOpacity: uniform(rng, config.ParticleMinOpacity, config.ParticleMaxOpacity),
		Phase:       rng.Float64() * 2 * math.Pi,
		Speed:       uniform(rng, config.ParticleMinPulseSpeed, config.ParticleMaxPulseSpeed),
	}
	p.Opacity = p.BaseOpacity * (0.7 + 0.3*math.Sin(p.Phase))

	ecs.AddComponent(em, entity, p)
	return entity
}

// SpawnAmbientField 按表面尺寸创建整个背景粒子池
// 数量 = min(floor(w*h/15000), 100)
func SpawnAmbientField(em *ecs.EntityManager, rng *rand.Rand, width, height int) []ecs.EntityID {
	count := config.ParticleCountFor(width, height)
	ids := make([]ecs.EntityID, 0, count)
	for i := 0; i < count; i++ {
		ids = append(ids, NewAmbientParticleEntity(em, rng, float64(width), float64(height)))
	}
	return ids
}
