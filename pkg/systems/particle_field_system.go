package systems

import (
	"log"
	"math"
	"math/rand"

	"github.com/gonewx/clubhero/pkg/components"
	"github.com/gonewx/clubhero/pkg/config"
	"github.com/gonewx/clubhero/pkg/ecs"
	"github.com/gonewx/clubhero/pkg/entities"
)

// ParticleFieldSystem 背景粒子场
//
// 纯装饰效果，与交互无关：粒子在表面内漂移、越界从对边回绕、透明度缓慢脉动。
// 表面尺寸变化时整个粒子池重建，不保留旧粒子。
type ParticleFieldSystem struct {
	entityManager *ecs.EntityManager
	rng           *rand.Rand
	width         float64
	height        float64
	particles     []ecs.EntityID
}

// NewParticleFieldSystem 创建粒子场系统
func NewParticleFieldSystem(em *ecs.EntityManager, rng *rand.Rand) *ParticleFieldSystem {
	return &ParticleFieldSystem{
		entityManager: em,
		rng:           rng,
	}
}

// Init 按表面尺寸（重新）创建粒子池
// 粒子数量 = min(floor(w*h/15000), 100)
func (s *ParticleFieldSystem) Init(width, height int) {
	s.Clear()
	if width <= 0 || height <= 0 {
		return
	}
	s.width = float64(width)
	s.height = float64(height)
	s.particles = entities.SpawnAmbientField(s.entityManager, s.rng, width, height)
	log.Printf("[ParticleField] initialized %d particles for %dx%d", len(s.particles), width, height)
}

// Resize 表面尺寸变化时重建粒子池
func (s *ParticleFieldSystem) Resize(width, height int) {
	s.Init(width, height)
}

// Count 当前粒子数量
func (s *ParticleFieldSystem) Count() int {
	return len(s.particles)
}

// Clear 销毁所有粒子
func (s *ParticleFieldSystem) Clear() {
	for _, id := range s.particles {
		s.entityManager.DestroyEntityNow(id)
	}
	s.particles = nil
	s.width, s.height = 0, 0
}

// Update 推进粒子运动与脉动
// dt 单位为秒；换算为毫秒后上限 33ms
func (s *ParticleFieldSystem) Update(dt float64) {
	if len(s.particles) == 0 {
		return
	}
	ms := math.Min(math.Max(dt*1000, 0), config.ParticleMaxFrameMs)
	step := ms / config.ParticleVelocityUnitMs

	for _, id := range s.particles {
		p, ok := ecs.GetComponent[*components.AmbientParticleComponent](s.entityManager, id)
		if !ok {
			continue
		}
		p.X = wrapCoordinate(p.X+p.VX*step, s.width)
		p.Y = wrapCoordinate(p.Y+p.VY*step, s.height)
		p.Phase = math.Mod(p.Phase+p.Speed*(ms/1000), 2*math.Pi)
		p.Opacity = p.BaseOpacity * (0.7 + 0.3*math.Sin(p.Phase))
	}
}

// wrapCoordinate 越过 [0, limit] 的坐标回绕到对边
func wrapCoordinate(v, limit float64) float64 {
	switch {
	case v < 0:
		return limit
	case v > limit:
		return 0
	default:
		return v
	}
}
