package entities

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gonewx/clubhero/pkg/components"
	"github.com/gonewx/clubhero/pkg/config"
	"github.com/gonewx/clubhero/pkg/ecs"
)

// cubeCornerSigns 立方体 8 个角点的符号（x, y, z）
var cubeCornerSigns = [components.ClusterParticleCount][3]float64{
	{-1, -1, -1}, {1, -1, -1}, {1, 1, -1}, {-1, 1, -1},
	{-1, -1, 1}, {1, -1, 1}, {1, 1, 1}, {-1, 1, 1},
}

// CubeEdges 立方体 12 条棱（角点索引对），渲染系统使用
var CubeEdges = [12][2]int{
	{0, 1}, {1, 2}, {2, 3}, {3, 0},
	{4, 5}, {5, 6}, {6, 7}, {7, 4},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

// CubeFaces 立方体 6 个面（角点索引，逆时针）
var CubeFaces = [6][4]int{
	{0, 1, 2, 3}, {5, 4, 7, 6},
	{4, 0, 3, 7}, {1, 5, 6, 2},
	{3, 2, 6, 7}, {4, 5, 1, 0},
}

// CubeCorners 返回以原点为中心、棱长为 edge 的立方体角点偏移
func CubeCorners(edge float64) [components.ClusterParticleCount]mgl64.Vec3 {
	half := edge / 2
	var corners [components.ClusterParticleCount]mgl64.Vec3
	for i, s := range cubeCornerSigns {
		corners[i] = mgl64.Vec3{s[0] * half, s[1] * half, s[2] * half}
	}
	return corners
}

// NewAnchorEntity 创建锚点实体（锚点 + 簇粒子 + 编队状态）
//
// 参数：
//   - em: 实体管理器
//   - anchor: 锚点配置
//   - cfg: 编队参数（棱长、默认散布、噪声幅度范围）
//   - rng: 随机源（相位、幅度、散布）
//
// 返回：
//   - 锚点实体ID
func NewAnchorEntity(em *ecs.EntityManager, anchor config.AnchorConfig, cfg config.FormationConfig, rng *rand.Rand) ecs.EntityID {
	jitter := anchor.JitterOr(cfg.DefaultJitter)

	entity := em.CreateEntity()
	ecs.AddComponent(em, entity, &components.AnchorComponent{
		ID:       anchor.ID,
		Position: mgl64.Vec3{anchor.Position[0], anchor.Position[1], anchor.Position[2]},
		Jitter:   jitter,
		Title:    anchor.Title,
		Body:     anchor.Body,
	})

	cluster := &components.ClusterComponent{}
	corners := CubeCorners(cfg.CubeEdge)
	for i := range cluster.Particles {
		p := &cluster.Particles[i]
		p.Corner = corners[i]
		p.Scatter = mgl64.Vec3{
			uniform(rng, -jitter, jitter),
			uniform(rng, -jitter, jitter),
			uniform(rng, -jitter, jitter),
		}
		p.Phase = mgl64.Vec3{
			rng.Float64() * 2 * math.Pi,
			rng.Float64() * 2 * math.Pi,
			rng.Float64() * 2 * math.Pi,
		}
		p.Amplitude = uniform(rng, cfg.MinFloatAmplitude, cfg.MaxFloatAmplitude)
		p.Color = mgl64.Vec3(cfg.BaseColor)
		p.Alpha = 1
	}
	ecs.AddComponent(em, entity, cluster)

	ecs.AddComponent(em, entity, &components.FormationStateComponent{
		FadeOut: 1,
		Phase:   components.PhaseIdle,
	})

	return entity
}

// uniform 返回 [lo, hi) 上的均匀随机数
func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}
