package systems

import (
	"image/color"

	ebimath "github.com/edwinsyarief/ebi-math"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/gonewx/clubhero/pkg/components"
	"github.com/gonewx/clubhero/pkg/config"
	"github.com/gonewx/clubhero/pkg/ecs"
	"github.com/gonewx/clubhero/pkg/entities"
	"github.com/gonewx/clubhero/pkg/game"
	"github.com/gonewx/clubhero/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	// clusterParticleRadius 簇粒子在参考距离处的屏幕半径（像素）
	clusterParticleRadius = 3.5
	// cubeFaceAlpha / cubeEdgeAlpha 立方体完全显现时面与棱的透明度
	cubeFaceAlpha = 0.12
	cubeEdgeAlpha = 0.85
	cubeEdgeWidth = 1.5
)

// DepthProjector 支持透视缩放的投影器
type DepthProjector interface {
	ScreenProjector
	DepthScale(world mgl64.Vec3, reference float64) float64
}

// CubeRenderSystem 簇粒子与立方体网格渲染系统
//
// 簇粒子按编队系统写入的位置、颜色、透明度绘制（加法混合）；
// 立方体网格的面与棱按 CubeReveal 淡入，旋转与编队系统一致。
type CubeRenderSystem struct {
	entityManager   *ecs.EntityManager
	resourceManager *game.ResourceManager
	projector       DepthProjector

	op       ebiten.DrawImageOptions
	vertices []ebiten.Vertex
	indices  []uint16
}

// NewCubeRenderSystem 创建立方体渲染系统
func NewCubeRenderSystem(em *ecs.EntityManager, rm *game.ResourceManager, projector DepthProjector) *CubeRenderSystem {
	return &CubeRenderSystem{
		entityManager:   em,
		resourceManager: rm,
		projector:       projector,
		vertices:        make([]ebiten.Vertex, 0, 24),
		indices:         make([]uint16, 0, 36),
	}
}

// Draw 绘制所有锚点的立方体与簇粒子
func (s *CubeRenderSystem) Draw(screen *ebiten.Image) {
	if screen == nil || s.resourceManager == nil || s.projector == nil {
		return
	}

	ids := ecs.GetEntitiesWith3[
		*components.AnchorComponent,
		*components.ClusterComponent,
		*components.FormationStateComponent,
	](s.entityManager)

	for _, id := range ids {
		anchor, _ := ecs.GetComponent[*components.AnchorComponent](s.entityManager, id)
		cluster, _ := ecs.GetComponent[*components.ClusterComponent](s.entityManager, id)
		state, _ := ecs.GetComponent[*components.FormationStateComponent](s.entityManager, id)

		if state.CubeReveal > 0 {
			s.drawCube(screen, anchor, cluster, state)
		}
		s.drawParticles(screen, cluster)
	}
}

func (s *CubeRenderSystem) drawCube(screen *ebiten.Image, anchor *components.AnchorComponent, cluster *components.ClusterComponent, state *components.FormationStateComponent) {
	rotation := CubeRotation(state.Rotation)

	var corners [components.ClusterParticleCount]ebimath.Vector
	for i, p := range cluster.Particles {
		world := anchor.Position.Add(rotation.Mul4x1(p.Corner.Vec4(1)).Vec3())
		screenPos, ok := s.projector.WorldToScreen(world)
		if !ok {
			return
		}
		corners[i] = screenPos
	}

	tint := cluster.Particles[0].Color
	r, g, b := float32(tint[0]), float32(tint[1]), float32(tint[2])

	// 面
	faceAlpha := float32(state.CubeReveal * cubeFaceAlpha)
	s.vertices = s.vertices[:0]
	s.indices = s.indices[:0]
	for _, face := range entities.CubeFaces {
		base := uint16(len(s.vertices))
		for _, ci := range face {
			s.vertices = append(s.vertices, ebiten.Vertex{
				DstX: float32(corners[ci].X), DstY: float32(corners[ci].Y),
				SrcX: 1, SrcY: 1,
				ColorR: r, ColorG: g, ColorB: b, ColorA: faceAlpha,
			})
		}
		s.indices = append(s.indices, base, base+1, base+2, base, base+2, base+3)
	}
	screen.DrawTriangles(s.vertices, s.indices, s.resourceManager.WhitePixel(), &ebiten.DrawTrianglesOptions{
		AntiAlias: true,
	})

	// 棱
	edgeColor := color.NRGBA{
		R: uint8(utils.Clamp01(tint[0]) * 255),
		G: uint8(utils.Clamp01(tint[1]) * 255),
		B: uint8(utils.Clamp01(tint[2]) * 255),
		A: uint8(utils.Clamp01(state.CubeReveal*cubeEdgeAlpha) * 255),
	}
	for _, e := range entities.CubeEdges {
		from, to := corners[e[0]], corners[e[1]]
		vector.StrokeLine(screen, float32(from.X), float32(from.Y), float32(to.X), float32(to.Y), cubeEdgeWidth, edgeColor, true)
	}
}

func (s *CubeRenderSystem) drawParticles(screen *ebiten.Image, cluster *components.ClusterComponent) {
	sprite := s.resourceManager.DiscSprite(particleSpriteRadius)
	half := float64(sprite.Bounds().Dx()) / 2

	for _, p := range cluster.Particles {
		if p.Alpha <= 0 {
			continue
		}
		pos, ok := s.projector.WorldToScreen(p.Position)
		if !ok {
			continue
		}
		radius := clusterParticleRadius * s.projector.DepthScale(p.Position, config.CameraDistance)
		scale := radius / particleSpriteRadius

		s.op.GeoM.Reset()
		s.op.GeoM.Translate(-half, -half)
		s.op.GeoM.Scale(scale, scale)
		s.op.GeoM.Translate(pos.X, pos.Y)
		s.op.ColorScale.Reset()
		s.op.ColorScale.Scale(float32(p.Color[0]), float32(p.Color[1]), float32(p.Color[2]), 1)
		s.op.ColorScale.ScaleAlpha(float32(p.Alpha))
		s.op.Blend = ebiten.BlendLighter
		s.op.Filter = ebiten.FilterLinear
		screen.DrawImage(sprite, &s.op)
	}
}
